package domain

// Signer produces signatures with a key it owns for its whole lifetime.
// Implementations must be safe for concurrent use.
type Signer interface {
	Sign(message []byte) ([]byte, error)
	// PubKey returns the owner: the public key in the network's wire encoding.
	PubKey() []byte
	SigLength() int
	PubLength() int
}

// Verifier checks a signature against an owner and a message. It holds no key material.
type Verifier interface {
	Verify(owner, message, signature []byte) (bool, error)
}
