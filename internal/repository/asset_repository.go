package repository

import (
	"context"
	"errors"

	"github.com/shinyyama/overbid-backend/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AssetRepository interface {
	Create(ctx context.Context, a *model.Asset) error
	FindByAddress(ctx context.Context, address string) (*model.Asset, error)
	Exists(ctx context.Context, address string) (bool, error)
	GetField(ctx context.Context, asset, key string) (*model.AssetMetadata, error)
	SetField(ctx context.Context, asset, key, value string) error
	ListFields(ctx context.Context, assets []string) ([]model.AssetMetadata, error)
}

type assetRepository struct {
	db *gorm.DB
}

func NewAssetRepository(db *gorm.DB) AssetRepository {
	return &assetRepository{db: db}
}

func (r *assetRepository) Create(ctx context.Context, a *model.Asset) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *assetRepository) FindByAddress(ctx context.Context, address string) (*model.Asset, error) {
	var a model.Asset
	if err := r.db.WithContext(ctx).
		Preload("Metadata").
		Where("address = ?", address).
		First(&a).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *assetRepository) Exists(ctx context.Context, address string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&model.Asset{}).
		Where("address = ?", address).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// GetField returns nil, nil when the asset carries no such key.
func (r *assetRepository) GetField(ctx context.Context, asset, key string) (*model.AssetMetadata, error) {
	var m model.AssetMetadata
	if err := r.db.WithContext(ctx).
		Where("asset_address = ? AND meta_key = ?", asset, key).
		First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &m, nil
}

func (r *assetRepository) SetField(ctx context.Context, asset, key, value string) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "asset_address"}, {Name: "meta_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"meta_value", "updated_at"}),
	}).Create(&model.AssetMetadata{AssetAddress: asset, Key: key, Value: value}).Error
}

func (r *assetRepository) ListFields(ctx context.Context, assets []string) ([]model.AssetMetadata, error) {
	if len(assets) == 0 {
		return nil, nil
	}
	var list []model.AssetMetadata
	if err := r.db.WithContext(ctx).
		Where("asset_address IN ?", assets).
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}
