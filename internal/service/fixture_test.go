package service

import (
	"context"
	"testing"

	"github.com/shinyyama/overbid-backend/internal/address"
	"github.com/shinyyama/overbid-backend/internal/ledger"
	"github.com/shinyyama/overbid-backend/internal/model"
	"github.com/shinyyama/overbid-backend/internal/testutil"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testIncrement = 10_000_000

type fixture struct {
	db          *gorm.DB
	seq         *ledger.Sequencer
	dep         Deployment
	collections CollectionService
	issuance    IssuanceService
	auction     AuctionService
	redemption  RedemptionService
	wallets     WalletService
	assets      AssetService
	authority   string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	conn := testutil.NewDB(t)
	seq := ledger.NewSequencer(conn)
	dep, err := NewDeployment(testutil.ProgramID)
	require.NoError(t, err)
	return &fixture{
		db:          conn,
		seq:         seq,
		dep:         dep,
		collections: NewCollectionService(seq, dep),
		issuance:    NewIssuanceService(seq, dep),
		auction:     NewAuctionService(seq, dep, testIncrement),
		redemption:  NewRedemptionService(seq, dep),
		wallets:     NewWalletService(seq, true),
		assets:      NewAssetService(seq, testIncrement),
		authority:   newAddr(t),
	}
}

// newInitialized returns a fixture whose collection holds n items, all minted by the returned minter.
func newInitialized(t *testing.T, n int) (*fixture, string, []string) {
	t.Helper()
	f := newFixture(t)
	_, err := f.collections.Initialize(context.Background(), f.authority)
	require.NoError(t, err)
	minter := newAddr(t)
	assets := make([]string, 0, n)
	for i := 0; i < n; i++ {
		assets = append(assets, f.issue(t, minter))
	}
	return f, minter, assets
}

func newAddr(t *testing.T) string {
	t.Helper()
	a, err := address.New()
	require.NoError(t, err)
	return a
}

func (f *fixture) issue(t *testing.T, payer string) string {
	t.Helper()
	a, err := f.issuance.Issue(context.Background(), IssueParams{URI: "https://example.com/item.json", Payer: payer})
	require.NoError(t, err)
	return a.Address
}

func (f *fixture) fund(t *testing.T, addr string, amount uint64) {
	t.Helper()
	_, err := f.wallets.Airdrop(context.Background(), addr, amount)
	require.NoError(t, err)
}

func (f *fixture) balance(t *testing.T, addr string) uint64 {
	t.Helper()
	w, err := f.wallets.Get(context.Background(), addr)
	require.NoError(t, err)
	return w.Balance
}

func (f *fixture) snapshot(t *testing.T) *Snapshot {
	t.Helper()
	s, err := f.collections.Snapshot(context.Background())
	require.NoError(t, err)
	return s
}

func (f *fixture) points(t *testing.T) []uint64 {
	t.Helper()
	var out []uint64
	for _, it := range f.snapshot(t).Items {
		out = append(out, it.Points)
	}
	return out
}

// totalValue sums every wallet including the reserve.
func (f *fixture) totalValue(t *testing.T) uint64 {
	t.Helper()
	var wallets []model.Wallet
	require.NoError(t, f.db.Find(&wallets).Error)
	var sum uint64
	for _, w := range wallets {
		sum += w.Balance
	}
	return sum
}

// requireBacked asserts the reserve holds exactly the sum of all points.
func (f *fixture) requireBacked(t *testing.T) {
	t.Helper()
	s := f.snapshot(t)
	var sum uint64
	for _, it := range s.Items {
		sum += it.Points
	}
	require.Equal(t, sum, s.Reserve, "reserve must equal the sum of points")
}

func (f *fixture) bid(t *testing.T, asset, payer, holder string, amount uint64) *BidReceipt {
	t.Helper()
	r, err := f.auction.Bid(context.Background(), BidParams{Asset: asset, Payer: payer, Holder: holder, Amount: amount})
	require.NoError(t, err)
	return r
}
