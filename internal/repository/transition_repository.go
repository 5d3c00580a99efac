package repository

import (
	"context"

	"github.com/shinyyama/overbid-backend/internal/model"
	"gorm.io/gorm"
)

type TransitionRepository interface {
	LastSlot(ctx context.Context) (uint64, error)
	Create(ctx context.Context, t *model.Transition) error
	List(ctx context.Context, afterSlot uint64, limit int) ([]model.Transition, error)
}

type transitionRepository struct {
	db *gorm.DB
}

func NewTransitionRepository(db *gorm.DB) TransitionRepository {
	return &transitionRepository{db: db}
}

func (r *transitionRepository) LastSlot(ctx context.Context) (uint64, error) {
	var last model.Transition
	res := r.db.WithContext(ctx).Order("slot DESC").Limit(1).Find(&last)
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected == 0 {
		return 0, nil
	}
	return last.Slot, nil
}

func (r *transitionRepository) Create(ctx context.Context, t *model.Transition) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *transitionRepository) List(ctx context.Context, afterSlot uint64, limit int) ([]model.Transition, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	var list []model.Transition
	if err := r.db.WithContext(ctx).
		Where("slot > ?", afterSlot).
		Order("slot ASC").
		Limit(limit).
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}
