package repository

import (
	"context"

	"github.com/shinyyama/overbid-backend/internal/model"
	"gorm.io/gorm"
)

type RedemptionRepository interface {
	Create(ctx context.Context, r *model.Redemption) error
	ListByHolder(ctx context.Context, holder string) ([]model.Redemption, error)
}

type redemptionRepository struct {
	db *gorm.DB
}

func NewRedemptionRepository(db *gorm.DB) RedemptionRepository {
	return &redemptionRepository{db: db}
}

func (r *redemptionRepository) Create(ctx context.Context, red *model.Redemption) error {
	return r.db.WithContext(ctx).Create(red).Error
}

func (r *redemptionRepository) ListByHolder(ctx context.Context, holder string) ([]model.Redemption, error) {
	var list []model.Redemption
	if err := r.db.WithContext(ctx).
		Where("holder = ?", holder).
		Order("slot DESC").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}
