package middleware

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	"github.com/shinyyama/overbid-backend/internal/address"
	"github.com/shinyyama/overbid-backend/internal/repository"
	"github.com/shinyyama/overbid-backend/internal/reqctx"
	"github.com/shinyyama/overbid-backend/internal/signing"
)

const (
	maxSignedBody          = 1 << 20
	defaultSignatureWindow = 2 * time.Minute
)

// SignerMiddleware authenticates the address a mutating request acts for.
type SignerMiddleware struct {
	requireSignatures bool
	window            time.Duration
	signatures        repository.SignatureRepository
	now               func() time.Time
}

// NewSignerMiddleware returns a verifier. With requireSignatures off the signer header is trusted as is.
// Otherwise a request must be signed within window of the server clock and each signature is accepted once.
func NewSignerMiddleware(requireSignatures bool, window time.Duration, signatures repository.SignatureRepository) *SignerMiddleware {
	if window <= 0 {
		window = defaultSignatureWindow
	}
	return &SignerMiddleware{
		requireSignatures: requireSignatures,
		window:            window,
		signatures:        signatures,
		now:               time.Now,
	}
}

func (m *SignerMiddleware) RequireSigner(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := c.Request()
		signer := req.Header.Get(signing.HeaderSigner)
		if signer == "" {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		}
		if err := address.Validate(signer); err != nil {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid_signer"})
		}

		var body []byte
		if req.Body != nil {
			b, err := io.ReadAll(io.LimitReader(req.Body, maxSignedBody))
			if err != nil {
				return c.JSON(http.StatusBadRequest, map[string]string{"error": "unreadable_body"})
			}
			body = b
			req.Body = io.NopCloser(bytes.NewReader(body))
		}

		if m.requireSignatures {
			ts := req.Header.Get(signing.HeaderTimestamp)
			signedAt, err := signing.ParseTimestamp(ts)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid_timestamp"})
			}
			now := m.now()
			if signedAt.Before(now.Add(-m.window)) || signedAt.After(now.Add(m.window)) {
				log.Warnf("[auth] stale signer=%s path=%s signed_at=%s", signer, req.URL.Path, signedAt.Format(time.RFC3339))
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "stale_signature"})
			}

			sig := req.Header.Get(signing.HeaderSignature)
			if err := signing.Verify(signer, sig, req.Method, req.URL.Path, ts, body); err != nil {
				log.Warnf("[auth] rejected signer=%s path=%s err=%v", signer, req.URL.Path, err)
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid_signature"})
			}

			ctx := req.Context()
			if _, err := m.signatures.Prune(ctx, now.Add(-m.window)); err != nil {
				log.Warnf("[auth] prune signatures failed: %v", err)
			}
			if err := m.signatures.Claim(ctx, signer, sig, signedAt); err != nil {
				if errors.Is(err, repository.ErrSignatureReplayed) {
					log.Warnf("[auth] replay signer=%s path=%s", signer, req.URL.Path)
					return c.JSON(http.StatusUnauthorized, map[string]string{"error": "replayed_signature"})
				}
				log.Errorf("[auth] claim signature failed: %v", err)
				return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal_error"})
			}
		}

		c.Set("signer", signer)
		c.SetRequest(req.WithContext(reqctx.WithSigner(req.Context(), signer)))
		return next(c)
	}
}
