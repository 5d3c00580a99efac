package repository

import (
	"context"

	"github.com/shinyyama/overbid-backend/internal/model"
	"gorm.io/gorm"
)

type CustodyRepository interface {
	Create(ctx context.Context, acct *model.CustodyAccount) error
	Get(ctx context.Context, asset, holder string) (*model.CustodyAccount, error)
	FindOrCreate(ctx context.Context, asset, holder string) (*model.CustodyAccount, error)
	FindHolding(ctx context.Context, asset string) (*model.CustodyAccount, error)
	ListHoldings(ctx context.Context, assets []string) ([]model.CustodyAccount, error)
	ListByAsset(ctx context.Context, asset string) ([]model.CustodyAccount, error)
	Save(ctx context.Context, acct *model.CustodyAccount) error
}

type custodyRepository struct {
	db *gorm.DB
}

func NewCustodyRepository(db *gorm.DB) CustodyRepository {
	return &custodyRepository{db: db}
}

func (r *custodyRepository) Create(ctx context.Context, acct *model.CustodyAccount) error {
	return r.db.WithContext(ctx).Create(acct).Error
}

func (r *custodyRepository) Get(ctx context.Context, asset, holder string) (*model.CustodyAccount, error) {
	var acct model.CustodyAccount
	if err := r.db.WithContext(ctx).
		Where("asset_address = ? AND holder = ?", asset, holder).
		First(&acct).Error; err != nil {
		return nil, err
	}
	return &acct, nil
}

func (r *custodyRepository) FindOrCreate(ctx context.Context, asset, holder string) (*model.CustodyAccount, error) {
	var acct model.CustodyAccount
	if err := r.db.WithContext(ctx).
		Where("asset_address = ? AND holder = ?", asset, holder).
		FirstOrCreate(&acct, &model.CustodyAccount{AssetAddress: asset, Holder: holder}).Error; err != nil {
		return nil, err
	}
	return &acct, nil
}

// FindHolding returns the account currently holding the unit.
func (r *custodyRepository) FindHolding(ctx context.Context, asset string) (*model.CustodyAccount, error) {
	var acct model.CustodyAccount
	if err := r.db.WithContext(ctx).
		Where("asset_address = ? AND amount > 0", asset).
		First(&acct).Error; err != nil {
		return nil, err
	}
	return &acct, nil
}

func (r *custodyRepository) ListHoldings(ctx context.Context, assets []string) ([]model.CustodyAccount, error) {
	if len(assets) == 0 {
		return nil, nil
	}
	var list []model.CustodyAccount
	if err := r.db.WithContext(ctx).
		Where("asset_address IN ? AND amount > 0", assets).
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *custodyRepository) ListByAsset(ctx context.Context, asset string) ([]model.CustodyAccount, error) {
	var list []model.CustodyAccount
	if err := r.db.WithContext(ctx).
		Where("asset_address = ?", asset).
		Order("created_at asc").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *custodyRepository) Save(ctx context.Context, acct *model.CustodyAccount) error {
	return r.db.WithContext(ctx).
		Model(&model.CustodyAccount{}).
		Where("asset_address = ? AND holder = ?", acct.AssetAddress, acct.Holder).
		Updates(map[string]interface{}{
			"amount": acct.Amount,
			"frozen": acct.Frozen,
		}).Error
}
