package service

import (
	"context"
	"errors"

	"github.com/shinyyama/overbid-backend/internal/model"
	"github.com/shinyyama/overbid-backend/internal/repository"
	"gorm.io/gorm"
)

// custodyGuard is the only code allowed to move an asset unit. Every custody account is
// frozen from mint onward; move thaws, transfers and refreezes inside one transition.
type custodyGuard struct{}

// open creates the minter's account holding the single unit, already frozen.
func (custodyGuard) open(ctx context.Context, store *repository.Store, asset, holder string) error {
	return store.Custody.Create(ctx, &model.CustodyAccount{
		AssetAddress: asset,
		Holder:       holder,
		Amount:       1,
		Frozen:       true,
	})
}

func (custodyGuard) holder(ctx context.Context, store *repository.Store, asset string) (*model.CustodyAccount, error) {
	acct, err := store.Custody.FindHolding(ctx, asset)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, detail(ErrAssetNotFound, "no custody account holds %s", asset)
		}
		return nil, err
	}
	return acct, nil
}

// move transfers the unit from one holder to another and leaves both accounts frozen.
func (g custodyGuard) move(ctx context.Context, store *repository.Store, asset, from, to string) error {
	src, err := store.Custody.Get(ctx, asset, from)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return detail(ErrCustodyMismatch, "%s has no account for %s", from, asset)
		}
		return err
	}
	if src.Amount != 1 {
		return detail(ErrCustodyMismatch, "%s does not hold %s", from, asset)
	}
	if from == to {
		src.Frozen = true
		return store.Custody.Save(ctx, src)
	}

	dst, err := store.Custody.FindOrCreate(ctx, asset, to)
	if err != nil {
		return err
	}
	// thaw, move the unit, refreeze: both sides end frozen
	src.Amount, dst.Amount = 0, 1
	src.Frozen, dst.Frozen = true, true

	if err := store.Custody.Save(ctx, src); err != nil {
		return err
	}
	return store.Custody.Save(ctx, dst)
}

// transfer is the generic path a holder could use to hand the unit over directly.
// It never succeeds: accounts stay frozen between bids.
func (g custodyGuard) transfer(ctx context.Context, store *repository.Store, asset, from, to string) error {
	src, err := store.Custody.Get(ctx, asset, from)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return detail(ErrCustodyMismatch, "%s has no account for %s", from, asset)
		}
		return err
	}
	if src.Amount != 1 {
		return detail(ErrCustodyMismatch, "%s does not hold %s", from, asset)
	}
	return detail(ErrAccountFrozen, "account %s/%s cannot send to %s", asset, from, to)
}
