package domain

import (
	"crypto/sha256"
	"encoding/base64"
)

type Wallet struct {
	Address          string `json:"address"`
	Label            string `json:"label,omitempty"`
	Owner            string `json:"owner"`
	SignatureCounter uint64 `json:"signature_counter"`
	LastSignature    string `json:"last_signature,omitempty"`
}

// Address returns base64url(sha256(owner)), the address a wallet is known by on the network.
func Address(owner []byte) string {
	h := sha256.Sum256(owner)
	return base64.RawURLEncoding.EncodeToString(h[:])
}

// EncodeB64 and DecodeB64 implement the network's binary-to-text convention (base64url, no padding).
func EncodeB64(b []byte) string { return base64.RawURLEncoding.EncodeToString(b) }

func DecodeB64(s string) ([]byte, error) { return base64.RawURLEncoding.DecodeString(s) }
