package crypto

import (
	"bytes"
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"fmt"
	"io"

	"github.com/go-jose/go-jose/v4"

	"github.com/oxygenesis/arsign/internal/domain"
)

var rsaSignPSS = rsa.SignPSS

var signOptions = &rsa.PSSOptions{SaltLength: rsa.PSSSaltLengthEqualsHash, Hash: crypto.SHA256}

// RSASigner signs with RSA-PSS over SHA-256. The owner is the bare modulus; e is always 65537.
type RSASigner struct {
	priv  *rsa.PrivateKey
	owner []byte
	rand  io.Reader
}

type SignerOption func(*RSASigner)

// WithRandom replaces the salt source. Only tests should pass anything but crypto/rand.
// The reader must be safe for concurrent use if the signer is shared.
func WithRandom(r io.Reader) SignerOption {
	return func(s *RSASigner) {
		if r != nil {
			s.rand = r
		}
	}
}

func NewRSASigner(jwk jose.JSONWebKey, opts ...SignerOption) (*RSASigner, error) {
	k, ok := jwk.Key.(*rsa.PrivateKey)
	if !ok || k == nil {
		return nil, fmt.Errorf("%w: jwk does not hold an RSA private key (%T)", domain.ErrKeyDecode, jwk.Key)
	}
	if err := checkModulus(k.N); err != nil {
		return nil, err
	}
	if k.E != PublicExponent {
		return nil, fmt.Errorf("%w: public exponent %d, want %d", domain.ErrKeyDecode, k.E, PublicExponent)
	}
	if err := k.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrKeyDecode, err)
	}
	k.Precompute()

	s := &RSASigner{priv: k, owner: k.N.Bytes(), rand: rand.Reader}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *RSASigner) Sign(message []byte) ([]byte, error) {
	h := sha256.Sum256(message)
	sig, err := rsaSignPSS(s.rand, s.priv, crypto.SHA256, h[:], signOptions)
	if err != nil {
		return nil, fmt.Errorf("%w: rsa-pss sign: %w", domain.ErrCryptoOperation, err)
	}
	return sig, nil
}

func (s *RSASigner) PubKey() []byte { return bytes.Clone(s.owner) }
func (s *RSASigner) SigLength() int { return SigLength }
func (s *RSASigner) PubLength() int { return PubLength }

var _ domain.Signer = (*RSASigner)(nil)
