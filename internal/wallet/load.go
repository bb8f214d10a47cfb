// Package wallet reads Arweave keyfiles: JSON Web Keys holding an RSA private key.
package wallet

import (
	"fmt"
	"os"

	"github.com/go-jose/go-jose/v4"

	"github.com/oxygenesis/arsign/internal/domain"
)

// Parse decodes a keyfile. Public-only keys are rejected since a wallet must be able to sign.
func Parse(data []byte) (jose.JSONWebKey, error) {
	var jwk jose.JSONWebKey
	if err := jwk.UnmarshalJSON(data); err != nil {
		return jose.JSONWebKey{}, fmt.Errorf("%w: parse jwk: %w", domain.ErrKeyDecode, err)
	}
	if jwk.IsPublic() {
		return jose.JSONWebKey{}, fmt.Errorf("%w: keyfile holds no private key", domain.ErrKeyDecode)
	}
	return jwk, nil
}

func LoadFromFile(path string) (jose.JSONWebKey, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return jose.JSONWebKey{}, fmt.Errorf("read keyfile %s: %w", path, err)
	}
	jwk, err := Parse(data)
	if err != nil {
		return jose.JSONWebKey{}, fmt.Errorf("keyfile %s: %w", path, err)
	}
	return jwk, nil
}
