package repository

import (
	"context"

	"github.com/shinyyama/overbid-backend/internal/model"
	"gorm.io/gorm"
)

type BidRepository interface {
	Create(ctx context.Context, b *model.Bid) error
	ListByAsset(ctx context.Context, asset string, limit int) ([]model.Bid, error)
}

type bidRepository struct {
	db *gorm.DB
}

func NewBidRepository(db *gorm.DB) BidRepository {
	return &bidRepository{db: db}
}

func (r *bidRepository) Create(ctx context.Context, b *model.Bid) error {
	return r.db.WithContext(ctx).Create(b).Error
}

func (r *bidRepository) ListByAsset(ctx context.Context, asset string, limit int) ([]model.Bid, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	var list []model.Bid
	if err := r.db.WithContext(ctx).
		Where("asset_address = ?", asset).
		Order("slot DESC").
		Limit(limit).
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}
