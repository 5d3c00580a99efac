package repository

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrDBNotReady = errors.New("database not initialized")

// Store bundles every repository over one connection or transaction.
type Store struct {
	Collections CollectionRepository
	Assets      AssetRepository
	Custody     CustodyRepository
	Wallets     WalletRepository
	Bids        BidRepository
	Redemptions RedemptionRepository
	Transitions TransitionRepository
}

func NewStore(db *gorm.DB) *Store {
	return &Store{
		Collections: NewCollectionRepository(db),
		Assets:      NewAssetRepository(db),
		Custody:     NewCustodyRepository(db),
		Wallets:     NewWalletRepository(db),
		Bids:        NewBidRepository(db),
		Redemptions: NewRedemptionRepository(db),
		Transitions: NewTransitionRepository(db),
	}
}

// forUpdate adds a row lock on dialects that support it. SQLite serializes writers itself.
func forUpdate(db *gorm.DB) *gorm.DB {
	if db.Dialector != nil && db.Dialector.Name() == "mysql" {
		return db.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return db
}
