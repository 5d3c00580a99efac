package main

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mr-tron/base58"
	"github.com/shinyyama/overbid-backend/internal/signing"
)

type keyFile struct {
	Address    string `json:"address"`
	PrivateKey string `json:"privateKey"`
}

type keypair struct {
	Address string
	Private ed25519.PrivateKey
}

func generateKey(path string) (*keypair, error) {
	if _, err := os.Stat(path); err == nil {
		return nil, fmt.Errorf("key file %s already exists", path)
	}
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, err
	}
	kp := &keypair{Address: signing.AddressOf(pub), Private: priv}
	data, err := json.MarshalIndent(keyFile{Address: kp.Address, PrivateKey: base58.Encode(priv)}, "", "  ")
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, err
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return nil, err
	}
	return kp, nil
}

func loadKey(path string) (*keypair, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading key file (run 'overbidctl keygen' first): %w", err)
	}
	var kf keyFile
	if err := json.Unmarshal(data, &kf); err != nil {
		return nil, fmt.Errorf("parsing key file: %w", err)
	}
	raw, err := base58.Decode(kf.PrivateKey)
	if err != nil || len(raw) != ed25519.PrivateKeySize {
		return nil, fmt.Errorf("key file %s holds no valid ed25519 private key", path)
	}
	priv := ed25519.PrivateKey(raw)
	addr := signing.AddressOf(priv.Public().(ed25519.PublicKey))
	if kf.Address != "" && kf.Address != addr {
		return nil, fmt.Errorf("key file address %s does not match its private key", kf.Address)
	}
	return &keypair{Address: addr, Private: priv}, nil
}
