// Package address handles the base58 32-byte identities used for holders, assets and
// the collection, including deterministic derivation of the collection address.
package address

import (
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"

	"filippo.io/edwards25519"
	"github.com/mr-tron/base58"
)

const Size = 32

const derivationMarker = "ProgramDerivedAddress"

var (
	ErrInvalid     = errors.New("invalid address")
	ErrNoBumpFound = errors.New("no off-curve bump found")
)

// New returns a fresh random address.
func New() (string, error) {
	buf := make([]byte, Size)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base58.Encode(buf), nil
}

// Decode parses a base58 address into its raw bytes.
func Decode(s string) ([]byte, error) {
	if s == "" {
		return nil, fmt.Errorf("%w: empty", ErrInvalid)
	}
	b, err := base58.Decode(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if len(b) != Size {
		return nil, fmt.Errorf("%w: got %d bytes, want %d", ErrInvalid, len(b), Size)
	}
	return b, nil
}

func Validate(s string) error {
	_, err := Decode(s)
	return err
}

// Derive finds the highest bump for which sha256(seed || bump || programID || marker)
// is not a valid ed25519 point, so no private key can exist for the derived address.
func Derive(programID, seed string) (string, uint8, error) {
	pid, err := Decode(programID)
	if err != nil {
		return "", 0, fmt.Errorf("program id: %w", err)
	}
	for bump := 255; bump >= 0; bump-- {
		addr, ok := deriveWithBump(pid, seed, uint8(bump))
		if ok {
			return addr, uint8(bump), nil
		}
	}
	return "", 0, ErrNoBumpFound
}

// Verify reports whether addr is the derivation of seed and bump under programID.
func Verify(programID, seed string, bump uint8, addr string) bool {
	pid, err := Decode(programID)
	if err != nil {
		return false
	}
	got, ok := deriveWithBump(pid, seed, bump)
	return ok && got == addr
}

func deriveWithBump(programID []byte, seed string, bump uint8) (string, bool) {
	h := sha256.New()
	h.Write([]byte(seed))
	h.Write([]byte{bump})
	h.Write(programID)
	h.Write([]byte(derivationMarker))
	sum := h.Sum(nil)
	if _, err := new(edwards25519.Point).SetBytes(sum); err == nil {
		return "", false
	}
	return base58.Encode(sum), true
}
