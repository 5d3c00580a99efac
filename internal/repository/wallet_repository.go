package repository

import (
	"context"
	"errors"
	"math"

	"github.com/shinyyama/overbid-backend/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrBalanceOverflow     = errors.New("balance overflow")
)

type WalletRepository interface {
	Get(ctx context.Context, address string) (*model.Wallet, error)
	Credit(ctx context.Context, address string, amount uint64) error
	Debit(ctx context.Context, address string, amount uint64) error
}

type walletRepository struct {
	db *gorm.DB
}

func NewWalletRepository(db *gorm.DB) WalletRepository {
	return &walletRepository{db: db}
}

// Get returns a zero-balance wallet for addresses that were never credited.
func (r *walletRepository) Get(ctx context.Context, address string) (*model.Wallet, error) {
	var w model.Wallet
	res := r.db.WithContext(ctx).Where("address = ?", address).Limit(1).Find(&w)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return &model.Wallet{Address: address}, nil
	}
	return &w, nil
}

// Credit fails with ErrBalanceOverflow when the new balance would not fit the signed column.
func (r *walletRepository) Credit(ctx context.Context, address string, amount uint64) error {
	if amount == 0 {
		return nil
	}
	if amount > math.MaxInt64 {
		return ErrBalanceOverflow
	}
	cur, err := r.Get(ctx, address)
	if err != nil {
		return err
	}
	if cur.Balance > math.MaxInt64-amount {
		return ErrBalanceOverflow
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "address"}},
		DoUpdates: clause.Assignments(map[string]interface{}{"balance": gorm.Expr("balance + ?", amount)}),
	}).Create(&model.Wallet{Address: address, Balance: amount}).Error
}

// Debit fails with ErrInsufficientBalance instead of letting the balance go negative.
func (r *walletRepository) Debit(ctx context.Context, address string, amount uint64) error {
	if amount == 0 {
		return nil
	}
	res := r.db.WithContext(ctx).
		Model(&model.Wallet{}).
		Where("address = ? AND balance >= ?", address, amount).
		Update("balance", gorm.Expr("balance - ?", amount))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrInsufficientBalance
	}
	return nil
}
