package service

import (
	"context"
	"errors"

	"github.com/shinyyama/overbid-backend/internal/address"
	"github.com/shinyyama/overbid-backend/internal/ledger"
	"github.com/shinyyama/overbid-backend/internal/model"
	"gorm.io/gorm"
)

type AssetView struct {
	Asset          *model.Asset           `json:"asset"`
	Position       uint64                 `json:"position"`
	Points         uint64                 `json:"points"`
	Metadata       map[string]string      `json:"metadata"`
	Holder         string                 `json:"holder"`
	Frozen         bool                   `json:"frozen"`
	Custody        []model.CustodyAccount `json:"custody"`
	MinimumNextBid uint64                 `json:"minimumNextBid"`
}

type AssetService interface {
	Get(ctx context.Context, addr string) (*AssetView, error)
	ListBids(ctx context.Context, addr string, limit int) ([]model.Bid, error)
	// Transfer is the direct holder-to-holder path. Frozen accounts reject it.
	Transfer(ctx context.Context, asset, from, to string) error
}

type assetService struct {
	seq     *ledger.Sequencer
	hint    uint64
	custody custodyGuard
}

func NewAssetService(seq *ledger.Sequencer, increment uint64) AssetService {
	return &assetService{seq: seq, hint: increment}
}

func (s *assetService) Get(ctx context.Context, addr string) (*AssetView, error) {
	if err := address.Validate(addr); err != nil {
		return nil, detail(ErrInvalidAddress, "%v", err)
	}
	store := s.seq.View()
	a, err := store.Assets.FindByAddress(ctx, addr)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, detail(ErrAssetNotFound, "%s", addr)
		}
		return nil, err
	}
	item, err := store.Collections.FindItemByAsset(ctx, addr)
	if err != nil {
		return nil, err
	}
	accounts, err := store.Custody.ListByAsset(ctx, addr)
	if err != nil {
		return nil, err
	}

	v := &AssetView{
		Asset:    a,
		Position: item.Position,
		Points:   item.Points,
		Metadata: make(map[string]string, len(a.Metadata)),
		Custody:  accounts,
	}
	for _, m := range a.Metadata {
		v.Metadata[m.Key] = m.Value
	}
	for _, acct := range accounts {
		if acct.Amount > 0 {
			v.Holder = acct.Holder
			v.Frozen = acct.Frozen
		}
	}
	// an unreadable overbid still renders; bidding on it fails with the coded error
	if raw, ok := v.Metadata[model.MetadataKeyOverbid]; ok {
		if overbid, err := parseOverbid(raw); err == nil {
			v.MinimumNextBid = nextBid(overbid, s.hint)
		}
	}
	return v, nil
}

func (s *assetService) ListBids(ctx context.Context, addr string, limit int) ([]model.Bid, error) {
	if err := address.Validate(addr); err != nil {
		return nil, detail(ErrInvalidAddress, "%v", err)
	}
	return s.seq.View().Bids.ListByAsset(ctx, addr, limit)
}

func (s *assetService) Transfer(ctx context.Context, asset, from, to string) error {
	for _, a := range []string{asset, from, to} {
		if err := address.Validate(a); err != nil {
			return detail(ErrInvalidAddress, "%v", err)
		}
	}
	_, err := s.seq.Apply(ctx, model.TransitionTransfer, from, func(ctx context.Context, txn *ledger.Txn) error {
		if err := requireAsset(ctx, txn.Store, asset); err != nil {
			return err
		}
		return s.custody.transfer(ctx, txn.Store, asset, from, to)
	})
	return err
}
