package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/labstack/gommon/log"
	"github.com/shinyyama/overbid-backend/internal/address"
	"github.com/shinyyama/overbid-backend/internal/ledger"
	"github.com/shinyyama/overbid-backend/internal/model"
	"github.com/shinyyama/overbid-backend/internal/reqctx"
)

type IssueParams struct {
	URI   string
	Payer string
	// Asset is optional; a random address is generated when empty.
	Asset string
}

type IssuanceService interface {
	Issue(ctx context.Context, p IssueParams) (*model.Asset, error)
}

type issuanceService struct {
	seq     *ledger.Sequencer
	dep     Deployment
	custody custodyGuard
}

func NewIssuanceService(seq *ledger.Sequencer, dep Deployment) IssuanceService {
	return &issuanceService{seq: seq, dep: dep}
}

func (s *issuanceService) Issue(ctx context.Context, p IssueParams) (*model.Asset, error) {
	p.URI = strings.TrimSpace(p.URI)
	if p.URI == "" || len(p.URI) > 512 {
		return nil, ErrInvalidURI
	}
	if err := address.Validate(p.Payer); err != nil {
		return nil, detail(ErrInvalidAddress, "payer: %v", err)
	}
	if p.Asset == "" {
		addr, err := address.New()
		if err != nil {
			return nil, err
		}
		p.Asset = addr
	} else if err := address.Validate(p.Asset); err != nil {
		return nil, detail(ErrInvalidAddress, "asset: %v", err)
	}

	var (
		asset *model.Asset
		item  *model.Item
	)
	tr, err := s.seq.Apply(ctx, model.TransitionIssue, p.Payer, func(ctx context.Context, txn *ledger.Txn) error {
		c, err := loadCollection(ctx, txn.Store, s.dep.Address, true)
		if err != nil {
			return err
		}
		exists, err := txn.Store.Assets.Exists(ctx, p.Asset)
		if err != nil {
			return err
		}
		if exists {
			return detail(ErrAssetAlreadyExists, "%s", p.Asset)
		}

		asset = &model.Asset{
			Address:           p.Asset,
			CollectionAddress: c.Address,
			Name:              model.AssetName,
			Symbol:            model.AssetSymbol,
			URI:               p.URI,
			Supply:            1,
			Decimals:          0,
		}
		if err := txn.Store.Assets.Create(ctx, asset); err != nil {
			return fmt.Errorf("create asset: %w", err)
		}
		if err := s.custody.open(ctx, txn.Store, asset.Address, p.Payer); err != nil {
			return fmt.Errorf("open custody: %w", err)
		}
		if err := writeOverbid(ctx, txn.Store, asset.Address, 0); err != nil {
			return err
		}
		if err := writeOwner(ctx, txn.Store, asset.Address, p.Payer); err != nil {
			return err
		}
		item, err = txn.Store.Collections.AppendItem(ctx, c.Address, asset.Address)
		if err != nil {
			return fmt.Errorf("append item: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	log.Infof("[issue] rid=%s asset=%s payer=%s position=%d slot=%d", reqctx.RID(ctx), asset.Address, p.Payer, item.Position, tr.Slot)
	return asset, nil
}
