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
	"gorm.io/gorm"
)

const CollectionSeed = "auth"

// Deployment identifies the collection a process serves.
type Deployment struct {
	ProgramID string
	Address   string
	Bump      uint8
}

func NewDeployment(programID string) (Deployment, error) {
	addr, bump, err := address.Derive(programID, CollectionSeed)
	if err != nil {
		return Deployment{}, fmt.Errorf("derive collection address: %w", err)
	}
	return Deployment{ProgramID: programID, Address: addr, Bump: bump}, nil
}

type ItemView struct {
	Position uint64 `json:"position"`
	Asset    string `json:"asset"`
	Points   uint64 `json:"points"`
	Overbid  string `json:"overbid"`
	Owner    string `json:"owner"`
	Holder   string `json:"holder"`
	Frozen   bool   `json:"frozen"`
}

type Snapshot struct {
	Collection *model.Collection `json:"collection"`
	Items      []ItemView        `json:"items"`
	Reserve    uint64            `json:"reserve"`
}

type CollectionService interface {
	Initialize(ctx context.Context, authority string) (*model.Collection, error)
	Get(ctx context.Context) (*model.Collection, error)
	Snapshot(ctx context.Context) (*Snapshot, error)
	Deployment() Deployment
}

type collectionService struct {
	seq *ledger.Sequencer
	dep Deployment
}

func NewCollectionService(seq *ledger.Sequencer, dep Deployment) CollectionService {
	return &collectionService{seq: seq, dep: dep}
}

func (s *collectionService) Deployment() Deployment {
	return s.dep
}

func (s *collectionService) Initialize(ctx context.Context, authority string) (*model.Collection, error) {
	if err := address.Validate(authority); err != nil {
		return nil, detail(ErrInvalidAddress, "authority: %v", err)
	}
	var created *model.Collection
	tr, err := s.seq.Apply(ctx, model.TransitionInitialize, authority, func(ctx context.Context, txn *ledger.Txn) error {
		if _, err := txn.Store.Collections.Get(ctx, s.dep.Address); err == nil {
			return ErrCollectionAlreadyInitialized
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		c := &model.Collection{
			Address:   s.dep.Address,
			Seed:      CollectionSeed,
			Bump:      s.dep.Bump,
			ProgramID: s.dep.ProgramID,
			Authority: authority,
		}
		if err := txn.Store.Collections.Create(ctx, c); err != nil {
			return fmt.Errorf("create collection: %w", err)
		}
		created = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	log.Infof("[initialize] collection=%s bump=%d authority=%s slot=%d", created.Address, created.Bump, authority, tr.Slot)
	return created, nil
}

func (s *collectionService) Get(ctx context.Context) (*model.Collection, error) {
	return loadCollection(ctx, s.seq.View(), s.dep.Address, false)
}

// Snapshot joins every item with its metadata and current holder in issuance order.
func (s *collectionService) Snapshot(ctx context.Context) (*Snapshot, error) {
	store := s.seq.View()
	c, err := loadCollection(ctx, store, s.dep.Address, false)
	if err != nil {
		return nil, err
	}
	items, err := store.Collections.ListItems(ctx, c.Address)
	if err != nil {
		return nil, err
	}
	assets := make([]string, 0, len(items))
	for _, it := range items {
		assets = append(assets, it.AssetAddress)
	}
	fields, err := store.Assets.ListFields(ctx, assets)
	if err != nil {
		return nil, err
	}
	holdings, err := store.Custody.ListHoldings(ctx, assets)
	if err != nil {
		return nil, err
	}
	byAsset := make(map[string][]model.AssetMetadata, len(items))
	for _, f := range fields {
		byAsset[f.AssetAddress] = append(byAsset[f.AssetAddress], f)
	}
	holders := make(map[string]model.CustodyAccount, len(holdings))
	for _, h := range holdings {
		holders[h.AssetAddress] = h
	}

	views := make([]ItemView, 0, len(items))
	for _, it := range items {
		v := ItemView{Position: it.Position, Asset: it.AssetAddress, Points: it.Points}
		v.Overbid, _ = metadataValue(byAsset[it.AssetAddress], model.MetadataKeyOverbid)
		v.Owner, _ = metadataValue(byAsset[it.AssetAddress], model.MetadataKeyOwner)
		if h, ok := holders[it.AssetAddress]; ok {
			v.Holder = h.Holder
			v.Frozen = h.Frozen
		}
		views = append(views, v)
	}
	reserve, err := store.Wallets.Get(ctx, c.Address)
	if err != nil {
		return nil, err
	}
	return &Snapshot{Collection: c, Items: views, Reserve: reserve.Balance}, nil
}

func loadCollection(ctx context.Context, store *repository.Store, addr string, lock bool) (*model.Collection, error) {
	var (
		c   *model.Collection
		err error
	)
	if lock {
		c, err = store.Collections.GetForUpdate(ctx, addr)
	} else {
		c, err = store.Collections.Get(ctx, addr)
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCollectionNotInitialized
		}
		return nil, err
	}
	return c, nil
}
