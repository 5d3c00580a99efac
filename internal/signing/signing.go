// Package signing defines how API requests are signed by the key that owns an address.
package signing

import (
	"bytes"
	"crypto/ed25519"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/mr-tron/base58"
	"github.com/shinyyama/overbid-backend/internal/address"
)

const (
	HeaderSigner    = "X-Overbid-Signer"
	HeaderSignature = "X-Overbid-Signature"
	// HeaderTimestamp carries the signing time in unix milliseconds.
	HeaderTimestamp = "X-Overbid-Timestamp"
)

var (
	ErrBadSignature = errors.New("signature verification failed")
	ErrBadTimestamp = errors.New("malformed timestamp")
)

// Timestamp formats t the way HeaderTimestamp expects it.
func Timestamp(t time.Time) string {
	return strconv.FormatInt(t.UnixMilli(), 10)
}

func ParseTimestamp(s string) (time.Time, error) {
	ms, err := strconv.ParseInt(s, 10, 64)
	if err != nil || ms <= 0 {
		return time.Time{}, fmt.Errorf("%w: %q", ErrBadTimestamp, s)
	}
	return time.UnixMilli(ms), nil
}

// Payload is the byte string a signer signs: method, path, timestamp and body joined by newlines.
func Payload(method, path, timestamp string, body []byte) []byte {
	var buf bytes.Buffer
	buf.WriteString(method)
	buf.WriteByte('\n')
	buf.WriteString(path)
	buf.WriteByte('\n')
	buf.WriteString(timestamp)
	buf.WriteByte('\n')
	buf.Write(body)
	return buf.Bytes()
}

// Sign returns the base58 signature of the request payload.
func Sign(key ed25519.PrivateKey, method, path, timestamp string, body []byte) string {
	return base58.Encode(ed25519.Sign(key, Payload(method, path, timestamp, body)))
}

// Verify checks a base58 signature against the signer's address.
func Verify(signer, signature, method, path, timestamp string, body []byte) error {
	pub, err := address.Decode(signer)
	if err != nil {
		return err
	}
	sig, err := base58.Decode(signature)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBadSignature, err)
	}
	if len(sig) != ed25519.SignatureSize {
		return fmt.Errorf("%w: bad length %d", ErrBadSignature, len(sig))
	}
	if !ed25519.Verify(ed25519.PublicKey(pub), Payload(method, path, timestamp, body), sig) {
		return ErrBadSignature
	}
	return nil
}

// AddressOf returns the base58 address for a public key.
func AddressOf(pub ed25519.PublicKey) string {
	return base58.Encode(pub)
}
