package main

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/shinyyama/overbid-backend/internal/signing"
	"github.com/stretchr/testify/require"
)

func TestKeyRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "key.json")
	kp, err := generateKey(path)
	require.NoError(t, err)

	loaded, err := loadKey(path)
	require.NoError(t, err)
	require.Equal(t, kp.Address, loaded.Address)
	require.Equal(t, kp.Private, loaded.Private)

	_, err = generateKey(path)
	require.Error(t, err, "existing key must not be overwritten")
}

func TestClientSignsRequests(t *testing.T) {
	kp, err := generateKey(filepath.Join(t.TempDir(), "key.json"))
	require.NoError(t, err)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		err := signing.Verify(r.Header.Get(signing.HeaderSigner), r.Header.Get(signing.HeaderSignature), r.Method, r.URL.Path, r.Header.Get(signing.HeaderTimestamp), body)
		if err != nil {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":{"code":"unauthorized","message":"bad signature"}}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"address":"` + r.Header.Get(signing.HeaderSigner) + `"}`))
	}))
	defer srv.Close()

	var out struct {
		Address string `json:"address"`
	}
	c := newClient(srv.URL+"/", time.Second, kp)
	require.NoError(t, c.do(context.Background(), http.MethodPost, "/api/assets", map[string]string{"uri": "ipfs://x"}, &out))
	require.Equal(t, kp.Address, out.Address)
}

func TestClientDecodesErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"error":{"code":"BidTooLow","message":"too low","number":6002}}`))
	}))
	defer srv.Close()

	err := newClient(srv.URL, time.Second, nil).do(context.Background(), http.MethodGet, "/api/collection", nil, nil)
	var ae *apiError
	require.True(t, errors.As(err, &ae))
	require.Equal(t, http.StatusConflict, ae.Status)
	require.Equal(t, 6002, ae.Number)
	require.Equal(t, "BidTooLow (6002): too low", ae.Error())
}
