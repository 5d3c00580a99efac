package server

import (
	"bytes"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/shinyyama/overbid-backend/internal/config"
	"github.com/shinyyama/overbid-backend/internal/signing"
	"github.com/shinyyama/overbid-backend/internal/testutil"
	"github.com/stretchr/testify/require"
)

type account struct {
	addr string
	key  ed25519.PrivateKey
}

func newAccount(t *testing.T) account {
	t.Helper()
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	return account{addr: signing.AddressOf(pub), key: priv}
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	cfg := &config.Config{
		ProgramID:           testutil.ProgramID,
		RequireSignatures:   true,
		EnableAirdrop:       true,
		BidIncrementHint:    10_000_000,
		AllowedOriginSuffix: "vercel.app",
		GitSHA:              "test",
	}
	srv, err := New(cfg, testutil.NewDB(t))
	require.NoError(t, err)
	return srv
}

var (
	clockMu    sync.Mutex
	lastSigned time.Time
)

// nextTimestamp is strictly increasing so identical requests still carry distinct signatures.
func nextTimestamp() string {
	clockMu.Lock()
	defer clockMu.Unlock()
	now := time.Now().Truncate(time.Millisecond)
	if !now.After(lastSigned) {
		now = lastSigned.Add(time.Millisecond)
	}
	lastSigned = now
	return signing.Timestamp(now)
}

// do sends a request signed by as, or unsigned when as is nil, and decodes the JSON reply into out.
func do(t *testing.T, srv *Server, as *account, method, path string, body interface{}, out interface{}) int {
	t.Helper()
	var raw []byte
	if body != nil {
		var err error
		raw, err = json.Marshal(body)
		require.NoError(t, err)
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	if as != nil {
		ts := nextTimestamp()
		req.Header.Set(signing.HeaderSigner, as.addr)
		req.Header.Set(signing.HeaderTimestamp, ts)
		req.Header.Set(signing.HeaderSignature, signing.Sign(as.key, method, path, ts, raw))
	}
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	if out != nil {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out), rec.Body.String())
	}
	return rec.Code
}

type apiError struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Number  int    `json:"number"`
	} `json:"error"`
}

func TestAuctionOverHTTP(t *testing.T) {
	srv := newTestServer(t)
	authority, minter, bidder, stranger := newAccount(t), newAccount(t), newAccount(t), newAccount(t)

	var col struct {
		Address string `json:"address"`
	}
	require.Equal(t, http.StatusCreated, do(t, srv, &authority, http.MethodPost, "/api/collection", nil, &col))
	require.Equal(t, srv.Deployment().Address, col.Address)

	var apiErr apiError
	require.Equal(t, http.StatusConflict, do(t, srv, &authority, http.MethodPost, "/api/collection", nil, &apiErr))
	require.Equal(t, "CollectionAlreadyInitialized", apiErr.Error.Code)

	var assets []string
	for i := 0; i < 2; i++ {
		var a struct {
			Address string `json:"address"`
			Symbol  string `json:"symbol"`
		}
		require.Equal(t, http.StatusCreated, do(t, srv, &minter, http.MethodPost, "/api/assets", map[string]string{"uri": "ipfs://item"}, &a))
		require.Equal(t, "OPOS", a.Symbol)
		assets = append(assets, a.Address)
	}

	require.Equal(t, http.StatusOK, do(t, srv, nil, http.MethodPost, "/api/wallets/"+bidder.addr+"/airdrop", map[string]uint64{"amount": 30_000_000}, nil))

	bidPath := "/api/assets/" + assets[0] + "/bids"
	var receipt struct {
		Bid struct {
			Signature     string `json:"signature"`
			PointsPerItem uint64 `json:"pointsPerItem"`
			Refund        uint64 `json:"refund"`
		} `json:"bid"`
		MinimumNextBid uint64 `json:"minimumNextBid"`
	}
	require.Equal(t, http.StatusCreated, do(t, srv, &bidder, http.MethodPost, bidPath, map[string]interface{}{"holder": minter.addr, "amount": 10_000_000}, &receipt))
	require.Equal(t, uint64(5_000_000), receipt.Bid.PointsPerItem)
	require.Zero(t, receipt.Bid.Refund)
	require.Len(t, receipt.Bid.Signature, 26)
	require.Equal(t, uint64(20_000_000), receipt.MinimumNextBid)

	apiErr = apiError{}
	require.Equal(t, http.StatusConflict, do(t, srv, &bidder, http.MethodPost, bidPath, map[string]interface{}{"holder": bidder.addr, "amount": 10_000_000}, &apiErr))
	require.Equal(t, "BidTooLow", apiErr.Error.Code)
	require.Equal(t, 6002, apiErr.Error.Number)

	apiErr = apiError{}
	require.Equal(t, http.StatusForbidden, do(t, srv, &stranger, http.MethodPost, "/api/assets/"+assets[0]+"/redeem", nil, &apiErr))
	require.Equal(t, "WrongOwner", apiErr.Error.Code)
	require.Equal(t, 6003, apiErr.Error.Number)

	apiErr = apiError{}
	require.Equal(t, http.StatusForbidden, do(t, srv, &bidder, http.MethodPost, "/api/assets/"+assets[0]+"/transfer", map[string]string{"to": stranger.addr}, &apiErr))
	require.Equal(t, "AccountFrozen", apiErr.Error.Code)

	var red struct {
		Points uint64 `json:"points"`
	}
	require.Equal(t, http.StatusOK, do(t, srv, &minter, http.MethodPost, "/api/assets/"+assets[1]+"/redeem", nil, &red))
	require.Equal(t, uint64(5_000_000), red.Points)

	var snap struct {
		Items []struct {
			Asset   string `json:"asset"`
			Points  uint64 `json:"points"`
			Overbid string `json:"overbid"`
			Holder  string `json:"holder"`
			Frozen  bool   `json:"frozen"`
		} `json:"items"`
		Reserve uint64 `json:"reserve"`
	}
	require.Equal(t, http.StatusOK, do(t, srv, nil, http.MethodGet, "/api/collection", nil, &snap))
	require.Len(t, snap.Items, 2)
	require.Equal(t, uint64(5_000_000), snap.Items[0].Points)
	require.Zero(t, snap.Items[1].Points)
	require.Equal(t, "10000000", snap.Items[0].Overbid)
	require.Equal(t, bidder.addr, snap.Items[0].Holder)
	require.True(t, snap.Items[0].Frozen)
	require.Equal(t, uint64(5_000_000), snap.Reserve)

	var wallet struct {
		Balance uint64 `json:"balance"`
	}
	require.Equal(t, http.StatusOK, do(t, srv, nil, http.MethodGet, "/api/wallets/"+minter.addr, nil, &wallet))
	require.Equal(t, uint64(5_000_000), wallet.Balance)

	var history struct {
		Bids []struct {
			Amount uint64 `json:"amount"`
		} `json:"bids"`
	}
	require.Equal(t, http.StatusOK, do(t, srv, nil, http.MethodGet, bidPath, nil, &history))
	require.Len(t, history.Bids, 1)
}

func TestMutationsRequireSignature(t *testing.T) {
	srv := newTestServer(t)
	require.Equal(t, http.StatusUnauthorized, do(t, srv, nil, http.MethodPost, "/api/collection", nil, nil))

	impostor, victim := newAccount(t), newAccount(t)
	ts := signing.Timestamp(time.Now())
	req := httptest.NewRequest(http.MethodPost, "/api/collection", nil)
	req.Header.Set(signing.HeaderSigner, victim.addr)
	req.Header.Set(signing.HeaderTimestamp, ts)
	req.Header.Set(signing.HeaderSignature, signing.Sign(impostor.key, http.MethodPost, "/api/collection", ts, nil))
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestReplayedIssueIsRejected(t *testing.T) {
	srv := newTestServer(t)
	authority, minter := newAccount(t), newAccount(t)
	require.Equal(t, http.StatusCreated, do(t, srv, &authority, http.MethodPost, "/api/collection", nil, nil))

	body := []byte(`{"uri":"ipfs://item"}`)
	ts := signing.Timestamp(time.Now())
	sig := signing.Sign(minter.key, http.MethodPost, "/api/assets", ts, body)
	send := func() int {
		req := httptest.NewRequest(http.MethodPost, "/api/assets", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set(signing.HeaderSigner, minter.addr)
		req.Header.Set(signing.HeaderTimestamp, ts)
		req.Header.Set(signing.HeaderSignature, sig)
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, req)
		return rec.Code
	}
	require.Equal(t, http.StatusCreated, send())
	require.Equal(t, http.StatusUnauthorized, send())
	require.Equal(t, http.StatusUnauthorized, send())

	var snap struct {
		Items []struct {
			Asset string `json:"asset"`
		} `json:"items"`
	}
	require.Equal(t, http.StatusOK, do(t, srv, nil, http.MethodGet, "/api/collection", nil, &snap))
	require.Len(t, snap.Items, 1)
}

func TestReadErrors(t *testing.T) {
	srv := newTestServer(t)

	var apiErr apiError
	require.Equal(t, http.StatusPreconditionFailed, do(t, srv, nil, http.MethodGet, "/api/collection", nil, &apiErr))
	require.Equal(t, "CollectionNotInitialized", apiErr.Error.Code)

	apiErr = apiError{}
	require.Equal(t, http.StatusBadRequest, do(t, srv, nil, http.MethodGet, "/api/wallets/xyz", nil, &apiErr))
	require.Equal(t, "InvalidAddress", apiErr.Error.Code)

	var health map[string]string
	require.Equal(t, http.StatusOK, do(t, srv, nil, http.MethodGet, "/healthz", nil, &health))
	require.Equal(t, "test", health["git_sha"])
}

func TestAllowOrigin(t *testing.T) {
	allow := allowOrigin("vercel.app")
	tests := []struct {
		origin string
		want   bool
	}{
		{"http://localhost:3000", true},
		{"https://overbid.vercel.app", true},
		{"https://evil.example.com", false},
		{"ftp://overbid.vercel.app", false},
	}
	for _, tt := range tests {
		got, err := allow(tt.origin)
		require.NoError(t, err)
		require.Equal(t, tt.want, got, tt.origin)
	}
}
