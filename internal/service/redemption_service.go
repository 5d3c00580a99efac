package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/labstack/gommon/log"
	"github.com/shinyyama/overbid-backend/internal/address"
	"github.com/shinyyama/overbid-backend/internal/ledger"
	"github.com/shinyyama/overbid-backend/internal/model"
	"github.com/shinyyama/overbid-backend/internal/repository"
	"github.com/shinyyama/overbid-backend/internal/reqctx"
	"gorm.io/gorm"
)

type RedemptionService interface {
	// Redeem pays the item's accrued points to its holder and zeroes them.
	Redeem(ctx context.Context, asset, holder string) (*model.Redemption, error)
	ListByHolder(ctx context.Context, holder string) ([]model.Redemption, error)
}

type redemptionService struct {
	seq     *ledger.Sequencer
	dep     Deployment
	custody custodyGuard
}

func NewRedemptionService(seq *ledger.Sequencer, dep Deployment) RedemptionService {
	return &redemptionService{seq: seq, dep: dep}
}

func (s *redemptionService) Redeem(ctx context.Context, asset, holder string) (*model.Redemption, error) {
	if err := address.Validate(holder); err != nil {
		return nil, detail(ErrInvalidAddress, "holder: %v", err)
	}
	if err := address.Validate(asset); err != nil {
		return nil, detail(ErrInvalidAddress, "asset: %v", err)
	}

	var red *model.Redemption
	_, err := s.seq.Apply(ctx, model.TransitionRedeem, holder, func(ctx context.Context, txn *ledger.Txn) error {
		c, err := loadCollection(ctx, txn.Store, s.dep.Address, true)
		if err != nil {
			return err
		}
		item, err := txn.Store.Collections.FindItemByAsset(ctx, asset)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return detail(ErrAssetNotFound, "%s", asset)
			}
			return err
		}
		current, err := s.custody.holder(ctx, txn.Store, asset)
		if err != nil {
			return err
		}
		if current.Holder != holder {
			return detail(ErrWrongOwner, "%s is not the holder of %s", holder, asset)
		}

		if err := txn.Store.Wallets.Debit(ctx, c.Address, item.Points); err != nil {
			if errors.Is(err, repository.ErrInsufficientBalance) {
				// reserve no longer equals the sum of points
				return fmt.Errorf("reserve cannot cover %d points: %w", item.Points, err)
			}
			return err
		}
		if err := credit(ctx, txn.Store, holder, item.Points); err != nil {
			return err
		}
		if err := txn.Store.Collections.ResetPoints(ctx, item.ID); err != nil {
			return fmt.Errorf("reset points: %w", err)
		}
		red = &model.Redemption{
			ID:           txn.Signature,
			Slot:         txn.Slot,
			AssetAddress: asset,
			Holder:       holder,
			Points:       item.Points,
		}
		return txn.Store.Redemptions.Create(ctx, red)
	})
	if err != nil {
		return nil, err
	}
	log.Infof("[redeem] rid=%s asset=%s holder=%s points=%d slot=%d", reqctx.RID(ctx), asset, holder, red.Points, red.Slot)
	return red, nil
}

func (s *redemptionService) ListByHolder(ctx context.Context, holder string) ([]model.Redemption, error) {
	if err := address.Validate(holder); err != nil {
		return nil, detail(ErrInvalidAddress, "holder: %v", err)
	}
	return s.seq.View().Redemptions.ListByHolder(ctx, holder)
}
