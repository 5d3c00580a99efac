package service

import (
	"context"
	"errors"

	"github.com/labstack/gommon/log"
	"github.com/shinyyama/overbid-backend/internal/address"
	"github.com/shinyyama/overbid-backend/internal/ledger"
	"github.com/shinyyama/overbid-backend/internal/model"
	"github.com/shinyyama/overbid-backend/internal/repository"
)

var ErrAirdropDisabled = errors.New("airdrop disabled")

type WalletService interface {
	Get(ctx context.Context, addr string) (*model.Wallet, error)
	Airdrop(ctx context.Context, addr string, amount uint64) (*model.Wallet, error)
}

type walletService struct {
	seq     *ledger.Sequencer
	airdrop bool
}

func NewWalletService(seq *ledger.Sequencer, enableAirdrop bool) WalletService {
	return &walletService{seq: seq, airdrop: enableAirdrop}
}

func (s *walletService) Get(ctx context.Context, addr string) (*model.Wallet, error) {
	if err := address.Validate(addr); err != nil {
		return nil, detail(ErrInvalidAddress, "%v", err)
	}
	return s.seq.View().Wallets.Get(ctx, addr)
}

// Airdrop mints value out of thin air for local networks.
func (s *walletService) Airdrop(ctx context.Context, addr string, amount uint64) (*model.Wallet, error) {
	if !s.airdrop {
		return nil, ErrAirdropDisabled
	}
	if err := address.Validate(addr); err != nil {
		return nil, detail(ErrInvalidAddress, "%v", err)
	}
	if amount == 0 {
		return nil, ErrInvalidAmount
	}
	if amount > maxAmount {
		return nil, detail(ErrArithmeticOverflow, "amount %d", amount)
	}
	var w *model.Wallet
	tr, err := s.seq.Apply(ctx, model.TransitionAirdrop, addr, func(ctx context.Context, txn *ledger.Txn) error {
		if err := credit(ctx, txn.Store, addr, amount); err != nil {
			return err
		}
		var err error
		w, err = txn.Store.Wallets.Get(ctx, addr)
		return err
	})
	if err != nil {
		return nil, err
	}
	log.Infof("[airdrop] wallet=%s amount=%d balance=%d slot=%d", addr, amount, w.Balance, tr.Slot)
	return w, nil
}

// credit reports a balance that would leave the storage range as ErrArithmeticOverflow.
func credit(ctx context.Context, store *repository.Store, addr string, amount uint64) error {
	if err := store.Wallets.Credit(ctx, addr, amount); err != nil {
		if errors.Is(err, repository.ErrBalanceOverflow) {
			return detail(ErrArithmeticOverflow, "crediting %d to %s", amount, addr)
		}
		return err
	}
	return nil
}
