package middleware

import (
	"crypto/ed25519"
	"crypto/rand"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shinyyama/overbid-backend/internal/repository"
	"github.com/shinyyama/overbid-backend/internal/reqctx"
	"github.com/shinyyama/overbid-backend/internal/signing"
	"github.com/shinyyama/overbid-backend/internal/testutil"
	"github.com/stretchr/testify/require"
)

func newKey(t *testing.T) (string, ed25519.PrivateKey) {
	t.Helper()
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	return signing.AddressOf(pub), priv
}

func newMiddleware(t *testing.T, strict bool, now time.Time) *SignerMiddleware {
	t.Helper()
	mw := NewSignerMiddleware(strict, time.Minute, repository.NewSignatureRepository(testutil.NewDB(t)))
	mw.now = func() time.Time { return now }
	return mw
}

func run(t *testing.T, mw *SignerMiddleware, req *http.Request) (*httptest.ResponseRecorder, string, string) {
	t.Helper()
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	var gotSigner, gotBody string
	h := mw.RequireSigner(func(c echo.Context) error {
		gotSigner, _ = c.Get("signer").(string)
		require.Equal(t, gotSigner, reqctx.Signer(c.Request().Context()))
		b, err := io.ReadAll(c.Request().Body)
		require.NoError(t, err)
		gotBody = string(b)
		return c.NoContent(http.StatusNoContent)
	})
	require.NoError(t, h(c))
	return rec, gotSigner, gotBody
}

func signedRequest(path, body, signer, timestamp, signature string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	if signer != "" {
		req.Header.Set(signing.HeaderSigner, signer)
	}
	if timestamp != "" {
		req.Header.Set(signing.HeaderTimestamp, timestamp)
	}
	if signature != "" {
		req.Header.Set(signing.HeaderSignature, signature)
	}
	return req
}

func TestRequireSigner(t *testing.T) {
	signer, priv := newKey(t)
	_, otherPriv := newKey(t)
	body := `{"amount":10}`
	path := "/api/assets/x/bids"
	now := time.UnixMilli(1_700_000_000_000)
	ts := signing.Timestamp(now)
	old := signing.Timestamp(now.Add(-2 * time.Minute))
	ahead := signing.Timestamp(now.Add(2 * time.Minute))

	tests := []struct {
		name       string
		strict     bool
		signer     string
		timestamp  string
		signature  string
		wantStatus int
	}{
		{"valid signature", true, signer, ts, signing.Sign(priv, http.MethodPost, path, ts, []byte(body)), http.StatusNoContent},
		{"signature by another key", true, signer, ts, signing.Sign(otherPriv, http.MethodPost, path, ts, []byte(body)), http.StatusUnauthorized},
		{"signature over another path", true, signer, ts, signing.Sign(priv, http.MethodPost, "/api/other", ts, []byte(body)), http.StatusUnauthorized},
		{"signature over another timestamp", true, signer, ts, signing.Sign(priv, http.MethodPost, path, old, []byte(body)), http.StatusUnauthorized},
		{"signed too long ago", true, signer, old, signing.Sign(priv, http.MethodPost, path, old, []byte(body)), http.StatusUnauthorized},
		{"signed in the future", true, signer, ahead, signing.Sign(priv, http.MethodPost, path, ahead, []byte(body)), http.StatusUnauthorized},
		{"missing timestamp", true, signer, "", signing.Sign(priv, http.MethodPost, path, "", []byte(body)), http.StatusUnauthorized},
		{"missing signature", true, signer, ts, "", http.StatusUnauthorized},
		{"missing signer", true, "", "", "", http.StatusUnauthorized},
		{"trusted without signature", false, signer, "", "", http.StatusNoContent},
		{"malformed signer", false, "nope", "", "", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := signedRequest(path, body, tt.signer, tt.timestamp, tt.signature)
			rec, gotSigner, gotBody := run(t, newMiddleware(t, tt.strict, now), req)
			require.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus == http.StatusNoContent {
				require.Equal(t, tt.signer, gotSigner)
				require.Equal(t, body, gotBody, "body must be readable after verification")
			}
		})
	}
}

func TestRequireSignerAcceptsEachSignatureOnce(t *testing.T) {
	signer, priv := newKey(t)
	body := `{"uri":"ipfs://item"}`
	path := "/api/assets"
	now := time.UnixMilli(1_700_000_000_000)
	ts := signing.Timestamp(now)
	sig := signing.Sign(priv, http.MethodPost, path, ts, []byte(body))
	mw := newMiddleware(t, true, now)

	rec, _, _ := run(t, mw, signedRequest(path, body, signer, ts, sig))
	require.Equal(t, http.StatusNoContent, rec.Code)
	rec, _, _ = run(t, mw, signedRequest(path, body, signer, ts, sig))
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Contains(t, rec.Body.String(), "replayed_signature")

	next := signing.Timestamp(now.Add(time.Millisecond))
	rec, _, _ = run(t, mw, signedRequest(path, body, signer, next, signing.Sign(priv, http.MethodPost, path, next, []byte(body))))
	require.Equal(t, http.StatusNoContent, rec.Code)
}
