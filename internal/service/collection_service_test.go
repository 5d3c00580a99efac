package service

import (
	"context"
	"testing"

	"github.com/shinyyama/overbid-backend/internal/address"
	"github.com/shinyyama/overbid-backend/internal/testutil"
	"github.com/stretchr/testify/require"
)

func TestInitialize(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	c, err := f.collections.Initialize(ctx, f.authority)
	require.NoError(t, err)
	require.Equal(t, f.dep.Address, c.Address)
	require.Equal(t, CollectionSeed, c.Seed)
	require.True(t, address.Verify(testutil.ProgramID, CollectionSeed, c.Bump, c.Address))

	_, err = f.collections.Initialize(ctx, newAddr(t))
	require.ErrorIs(t, err, ErrCollectionAlreadyInitialized)

	got, err := f.collections.Get(ctx)
	require.NoError(t, err)
	require.Equal(t, f.authority, got.Authority)
}

func TestInitializeRejectsBadAuthority(t *testing.T) {
	f := newFixture(t)
	_, err := f.collections.Initialize(context.Background(), "short")
	require.ErrorIs(t, err, ErrInvalidAddress)
	_, err = f.collections.Get(context.Background())
	require.ErrorIs(t, err, ErrCollectionNotInitialized)
}

func TestSnapshotBeforeInitialize(t *testing.T) {
	f := newFixture(t)
	_, err := f.collections.Snapshot(context.Background())
	require.ErrorIs(t, err, ErrCollectionNotInitialized)
}

func TestSnapshotListsItemsInIssuanceOrder(t *testing.T) {
	f, minter, assets := newInitialized(t, 3)
	s := f.snapshot(t)
	require.Len(t, s.Items, 3)
	for i, it := range s.Items {
		require.Equal(t, uint64(i), it.Position)
		require.Equal(t, assets[i], it.Asset)
		require.Equal(t, "0", it.Overbid)
		require.Equal(t, minter, it.Owner)
		require.Equal(t, minter, it.Holder)
		require.True(t, it.Frozen)
	}
	require.Zero(t, s.Reserve)
}

func TestNewDeploymentIsDeterministic(t *testing.T) {
	a, err := NewDeployment(testutil.ProgramID)
	require.NoError(t, err)
	b, err := NewDeployment(testutil.ProgramID)
	require.NoError(t, err)
	require.Equal(t, a, b)

	_, err = NewDeployment("nope")
	require.Error(t, err)
}
