package service

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/labstack/gommon/log"
	"github.com/shinyyama/overbid-backend/internal/address"
	"github.com/shinyyama/overbid-backend/internal/ledger"
	"github.com/shinyyama/overbid-backend/internal/model"
	"github.com/shinyyama/overbid-backend/internal/repository"
	"github.com/shinyyama/overbid-backend/internal/reqctx"
	"gorm.io/gorm"
)

// maxAmount bounds every stored balance and point total; the columns are signed 64-bit.
const maxAmount = math.MaxInt64

type BidParams struct {
	Asset  string
	Payer  string
	Holder string
	Amount uint64
}

type BidReceipt struct {
	Bid            *model.Bid `json:"bid"`
	MinimumNextBid uint64     `json:"minimumNextBid"`
}

type AuctionService interface {
	Bid(ctx context.Context, p BidParams) (*BidReceipt, error)
}

type auctionService struct {
	seq     *ledger.Sequencer
	dep     Deployment
	hint    uint64
	custody custodyGuard
}

// NewAuctionService builds the engine. increment only feeds the suggested next bid.
func NewAuctionService(seq *ledger.Sequencer, dep Deployment, increment uint64) AuctionService {
	return &auctionService{seq: seq, dep: dep, hint: increment}
}

func (s *auctionService) Bid(ctx context.Context, p BidParams) (*BidReceipt, error) {
	if err := address.Validate(p.Payer); err != nil {
		return nil, detail(ErrInvalidAddress, "payer: %v", err)
	}
	if err := address.Validate(p.Holder); err != nil {
		return nil, detail(ErrInvalidAddress, "holder: %v", err)
	}
	if err := address.Validate(p.Asset); err != nil {
		return nil, detail(ErrInvalidAddress, "asset: %v", err)
	}
	if p.Amount > maxAmount {
		return nil, detail(ErrArithmeticOverflow, "amount %d", p.Amount)
	}

	var bid *model.Bid
	_, err := s.seq.Apply(ctx, model.TransitionBid, p.Payer, func(ctx context.Context, txn *ledger.Txn) error {
		c, err := loadCollection(ctx, txn.Store, s.dep.Address, true)
		if err != nil {
			return err
		}
		if err := requireAsset(ctx, txn.Store, p.Asset); err != nil {
			return err
		}

		prev, err := readOverbid(ctx, txn.Store, p.Asset)
		if err != nil {
			return err
		}
		if p.Amount <= prev {
			return detail(ErrBidTooLow, "bid %d does not exceed overbid %d", p.Amount, prev)
		}

		current, err := s.custody.holder(ctx, txn.Store, p.Asset)
		if err != nil {
			return err
		}
		if current.Holder != p.Holder {
			return detail(ErrCustodyMismatch, "claimed %s, held by %s", p.Holder, current.Holder)
		}

		count, err := txn.Store.Collections.CountItems(ctx, c.Address)
		if err != nil {
			return err
		}
		if count == 0 {
			return ErrEmptyCollection
		}
		n := uint64(count)
		diff := p.Amount - prev
		perItem := diff / n
		remainder := diff % n
		pooled := diff - remainder

		reserved, err := txn.Store.Collections.SumPoints(ctx, c.Address)
		if err != nil {
			return err
		}
		if reserved > maxAmount-pooled {
			return detail(ErrArithmeticOverflow, "points %d + %d", reserved, pooled)
		}

		if err := txn.Store.Wallets.Debit(ctx, p.Payer, p.Amount); err != nil {
			if errors.Is(err, repository.ErrInsufficientBalance) {
				return detail(ErrInsufficientFunds, "payer %s needs %d", p.Payer, p.Amount)
			}
			return err
		}
		if err := txn.Store.Collections.AddPointsToAll(ctx, c.Address, perItem); err != nil {
			return fmt.Errorf("distribute points: %w", err)
		}
		if err := credit(ctx, txn.Store, c.Address, pooled); err != nil {
			return fmt.Errorf("fund reserve: %w", err)
		}
		refund := prev + remainder
		if err := credit(ctx, txn.Store, current.Holder, refund); err != nil {
			return fmt.Errorf("refund holder: %w", err)
		}
		if err := s.custody.move(ctx, txn.Store, p.Asset, current.Holder, p.Payer); err != nil {
			return err
		}
		if err := writeOverbid(ctx, txn.Store, p.Asset, p.Amount); err != nil {
			return err
		}
		if err := writeOwner(ctx, txn.Store, p.Asset, p.Payer); err != nil {
			return err
		}

		bid = &model.Bid{
			ID:              txn.Signature,
			Slot:            txn.Slot,
			AssetAddress:    p.Asset,
			Payer:           p.Payer,
			PreviousHolder:  current.Holder,
			Amount:          p.Amount,
			PreviousOverbid: prev,
			ItemCount:       n,
			PointsPerItem:   perItem,
			Remainder:       remainder,
			Refund:          refund,
		}
		return txn.Store.Bids.Create(ctx, bid)
	})
	if err != nil {
		log.Debugf("[bid] rejected asset=%s payer=%s amount=%d err=%v", p.Asset, p.Payer, p.Amount, err)
		return nil, err
	}
	log.Infof("[bid] rid=%s asset=%s payer=%s prev_holder=%s amount=%d diff=%d per_item=%d remainder=%d slot=%d",
		reqctx.RID(ctx), p.Asset, p.Payer, bid.PreviousHolder, bid.Amount, bid.Amount-bid.PreviousOverbid, bid.PointsPerItem, bid.Remainder, bid.Slot)
	return &BidReceipt{Bid: bid, MinimumNextBid: nextBid(bid.Amount, s.hint)}, nil
}

// nextBid is the suggested next amount. Any value above the current overbid is accepted.
func nextBid(overbid, increment uint64) uint64 {
	if increment == 0 {
		increment = 1
	}
	if overbid > maxAmount-increment {
		return maxAmount
	}
	return overbid + increment
}

func requireAsset(ctx context.Context, store *repository.Store, asset string) error {
	if _, err := store.Collections.FindItemByAsset(ctx, asset); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return detail(ErrAssetNotFound, "%s", asset)
		}
		return err
	}
	return nil
}
