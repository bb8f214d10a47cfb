package domain

import "errors"

var (
	ErrNotFound      = errors.New("wallet not found")
	ErrAlreadyExists = errors.New("wallet already exists")
	ErrInvalidInput  = errors.New("invalid input")

	// ErrKeyDecode: a JWK or raw owner does not describe a usable RSA key.
	ErrKeyDecode = errors.New("key decode")
	// ErrCryptoOperation: the primitive failed for a reason other than a signature mismatch.
	ErrCryptoOperation = errors.New("crypto operation")
	// ErrVerificationFailed: the check ran and the signature does not match.
	ErrVerificationFailed = errors.New("signature verification failed")
)
