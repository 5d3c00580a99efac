package repository

import (
	"context"

	"github.com/shinyyama/overbid-backend/internal/model"
	"gorm.io/gorm"
)

type CollectionRepository interface {
	Create(ctx context.Context, c *model.Collection) error
	Get(ctx context.Context, address string) (*model.Collection, error)
	GetForUpdate(ctx context.Context, address string) (*model.Collection, error)
	AppendItem(ctx context.Context, collection, asset string) (*model.Item, error)
	ListItems(ctx context.Context, collection string) ([]model.Item, error)
	CountItems(ctx context.Context, collection string) (int64, error)
	FindItemByAsset(ctx context.Context, asset string) (*model.Item, error)
	AddPointsToAll(ctx context.Context, collection string, points uint64) error
	ResetPoints(ctx context.Context, itemID uint64) error
	SumPoints(ctx context.Context, collection string) (uint64, error)
}

type collectionRepository struct {
	db *gorm.DB
}

func NewCollectionRepository(db *gorm.DB) CollectionRepository {
	return &collectionRepository{db: db}
}

func (r *collectionRepository) Create(ctx context.Context, c *model.Collection) error {
	if r.db == nil {
		return ErrDBNotReady
	}
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *collectionRepository) Get(ctx context.Context, address string) (*model.Collection, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	var c model.Collection
	if err := r.db.WithContext(ctx).Where("address = ?", address).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *collectionRepository) GetForUpdate(ctx context.Context, address string) (*model.Collection, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	var c model.Collection
	if err := forUpdate(r.db.WithContext(ctx)).Where("address = ?", address).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

// AppendItem registers a new item at the end of the collection.
func (r *collectionRepository) AppendItem(ctx context.Context, collection, asset string) (*model.Item, error) {
	count, err := r.CountItems(ctx, collection)
	if err != nil {
		return nil, err
	}
	item := &model.Item{
		CollectionAddress: collection,
		Position:          uint64(count),
		AssetAddress:      asset,
		Points:            0,
	}
	if err := r.db.WithContext(ctx).Create(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

func (r *collectionRepository) ListItems(ctx context.Context, collection string) ([]model.Item, error) {
	var items []model.Item
	if err := r.db.WithContext(ctx).
		Where("collection_address = ?", collection).
		Order("position asc").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *collectionRepository) CountItems(ctx context.Context, collection string) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&model.Item{}).
		Where("collection_address = ?", collection).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *collectionRepository) FindItemByAsset(ctx context.Context, asset string) (*model.Item, error) {
	var item model.Item
	if err := r.db.WithContext(ctx).Where("asset_address = ?", asset).First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// AddPointsToAll credits every item of the collection in one statement.
func (r *collectionRepository) AddPointsToAll(ctx context.Context, collection string, points uint64) error {
	if points == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&model.Item{}).
		Where("collection_address = ?", collection).
		UpdateColumn("points", gorm.Expr("points + ?", points)).Error
}

func (r *collectionRepository) ResetPoints(ctx context.Context, itemID uint64) error {
	return r.db.WithContext(ctx).
		Model(&model.Item{}).
		Where("id = ?", itemID).
		UpdateColumn("points", 0).Error
}

func (r *collectionRepository) SumPoints(ctx context.Context, collection string) (uint64, error) {
	var items []model.Item
	if err := r.db.WithContext(ctx).
		Select("points").
		Where("collection_address = ?", collection).
		Find(&items).Error; err != nil {
		return 0, err
	}
	var sum uint64
	for _, it := range items {
		sum += it.Points
	}
	return sum, nil
}
