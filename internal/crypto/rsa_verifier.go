package crypto

import (
	"crypto"
	"crypto/rsa"
	"crypto/sha256"
	"errors"
	"fmt"

	"github.com/oxygenesis/arsign/internal/domain"
)

var rsaVerifyPSS = rsa.VerifyPSS

// Salt length is detected on verify so signatures from signers using the maximum salt still pass.
// Signatures produced by RSASigner always carry a hash-length salt.
var verifyOptions = &rsa.PSSOptions{SaltLength: rsa.PSSSaltLengthAuto, Hash: crypto.SHA256}

type RSAVerifier struct{}

func NewRSAVerifier() RSAVerifier { return RSAVerifier{} }

// Verify reports (true, nil) only for a valid signature. A mismatch, including a signature of the
// wrong length, is ErrVerificationFailed; an unusable owner is ErrKeyDecode.
func (RSAVerifier) Verify(owner, message, signature []byte) (bool, error) {
	pub, err := publicKeyFromOwner(owner)
	if err != nil {
		return false, err
	}
	h := sha256.Sum256(message)
	err = rsaVerifyPSS(pub, crypto.SHA256, h[:], signature, verifyOptions)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, rsa.ErrVerification):
		return false, fmt.Errorf("%w: rsa-pss", domain.ErrVerificationFailed)
	default:
		return false, fmt.Errorf("%w: rsa-pss verify: %w", domain.ErrCryptoOperation, err)
	}
}

var _ domain.Verifier = RSAVerifier{}
