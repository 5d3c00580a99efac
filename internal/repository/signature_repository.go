package repository

import (
	"context"
	"errors"
	"time"

	"github.com/shinyyama/overbid-backend/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrSignatureReplayed = errors.New("signature already used")

type SignatureRepository interface {
	// Claim records a signature once. A second claim fails with ErrSignatureReplayed.
	Claim(ctx context.Context, signer, signature string, signedAt time.Time) error
	Prune(ctx context.Context, before time.Time) (int64, error)
}

type signatureRepository struct {
	db *gorm.DB
}

func NewSignatureRepository(db *gorm.DB) SignatureRepository {
	return &signatureRepository{db: db}
}

func (r *signatureRepository) Claim(ctx context.Context, signer, signature string, signedAt time.Time) error {
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&model.RequestSignature{Signature: signature, Signer: signer, SignedAt: signedAt})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrSignatureReplayed
	}
	return nil
}

// Prune drops signatures signed before the cutoff. Those are rejected as stale anyway.
func (r *signatureRepository) Prune(ctx context.Context, before time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Where("signed_at < ?", before).Delete(&model.RequestSignature{})
	return res.RowsAffected, res.Error
}
