package crypto

import (
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math/big"

	"github.com/go-jose/go-jose/v4"

	"github.com/oxygenesis/arsign/internal/domain"
)

// Scheme constants. Lengths are fixed network-wide for 4096-bit keys and are not derived per key.
const (
	SigLength      = 512
	PubLength      = 512
	PublicExponent = 65537

	publicExponentB64 = "AQAB"
	minModulusBits    = 1024
)

type publicJWK struct {
	Kty string `json:"kty"`
	E   string `json:"e"`
	N   string `json:"n"`
}

// PublicJWK builds the minimal public JWK for an owner: kty=RSA, e=AQAB, n=base64url(owner).
func PublicJWK(owner []byte) (jose.JSONWebKey, error) {
	if len(owner) == 0 {
		return jose.JSONWebKey{}, fmt.Errorf("%w: empty owner", domain.ErrKeyDecode)
	}
	raw, err := json.Marshal(publicJWK{
		Kty: "RSA",
		E:   publicExponentB64,
		N:   base64.RawURLEncoding.EncodeToString(owner),
	})
	if err != nil {
		return jose.JSONWebKey{}, fmt.Errorf("%w: %w", domain.ErrKeyDecode, err)
	}
	var jwk jose.JSONWebKey
	if err := jwk.UnmarshalJSON(raw); err != nil {
		return jose.JSONWebKey{}, fmt.Errorf("%w: %w", domain.ErrKeyDecode, err)
	}
	pub, ok := jwk.Key.(*rsa.PublicKey)
	if !ok || pub == nil {
		return jose.JSONWebKey{}, fmt.Errorf("%w: owner is not an RSA modulus", domain.ErrKeyDecode)
	}
	if err := checkModulus(pub.N); err != nil {
		return jose.JSONWebKey{}, err
	}
	return jwk, nil
}

// OwnerFromJWK returns the modulus of an RSA JWK, public or private, in wire encoding.
func OwnerFromJWK(jwk jose.JSONWebKey) ([]byte, error) {
	switch k := jwk.Key.(type) {
	case *rsa.PrivateKey:
		if k != nil && k.N != nil {
			return k.N.Bytes(), nil
		}
	case *rsa.PublicKey:
		if k != nil && k.N != nil {
			return k.N.Bytes(), nil
		}
	}
	return nil, fmt.Errorf("%w: jwk does not hold an RSA key (%T)", domain.ErrKeyDecode, jwk.Key)
}

func publicKeyFromOwner(owner []byte) (*rsa.PublicKey, error) {
	jwk, err := PublicJWK(owner)
	if err != nil {
		return nil, err
	}
	return jwk.Key.(*rsa.PublicKey), nil
}

func checkModulus(n *big.Int) error {
	switch {
	case n == nil || n.Sign() <= 0:
		return fmt.Errorf("%w: modulus must be positive", domain.ErrKeyDecode)
	case n.Bit(0) == 0:
		return fmt.Errorf("%w: modulus must be odd", domain.ErrKeyDecode)
	case n.BitLen() < minModulusBits:
		return fmt.Errorf("%w: modulus of %d bits is too small", domain.ErrKeyDecode, n.BitLen())
	}
	return nil
}
