// Package ledger totally orders state transitions and applies each one atomically.
package ledger

import (
	"context"
	"fmt"
	"sync"

	"github.com/oklog/ulid/v2"
	"github.com/shinyyama/overbid-backend/internal/model"
	"github.com/shinyyama/overbid-backend/internal/repository"
	"gorm.io/gorm"
)

// Txn is the view a transition gets of the ledger while it runs.
type Txn struct {
	Store     *repository.Store
	Slot      uint64
	Signature string
}

// TransitionFunc mutates state through txn.Store. Returning an error discards every write.
type TransitionFunc func(ctx context.Context, txn *Txn) error

// Sequencer applies transitions one at a time, each inside a single database transaction,
// and journals it under the next slot.
type Sequencer struct {
	mu sync.Mutex
	db *gorm.DB
}

func NewSequencer(db *gorm.DB) *Sequencer {
	return &Sequencer{db: db}
}

// Apply runs fn as the next transition. On error nothing fn wrote is visible and no slot is consumed.
func (s *Sequencer) Apply(ctx context.Context, kind model.TransitionKind, signer string, fn TransitionFunc) (*model.Transition, error) {
	if s.db == nil {
		return nil, repository.ErrDBNotReady
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	var applied *model.Transition
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		store := repository.NewStore(tx)
		last, err := store.Transitions.LastSlot(ctx)
		if err != nil {
			return fmt.Errorf("read last slot: %w", err)
		}
		txn := &Txn{
			Store:     store,
			Slot:      last + 1,
			Signature: ulid.Make().String(),
		}
		if err := fn(ctx, txn); err != nil {
			return err
		}
		t := &model.Transition{
			Slot:      txn.Slot,
			Signature: txn.Signature,
			Kind:      kind,
			Signer:    signer,
		}
		if err := store.Transitions.Create(ctx, t); err != nil {
			return fmt.Errorf("journal transition: %w", err)
		}
		applied = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return applied, nil
}

// View returns a store for reads outside any transition.
func (s *Sequencer) View() *repository.Store {
	return repository.NewStore(s.db)
}
