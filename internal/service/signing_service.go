package service

import (
	"errors"
	"fmt"

	"github.com/go-jose/go-jose/v4"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/oxygenesis/arsign/internal/crypto"
	"github.com/oxygenesis/arsign/internal/domain"
	"github.com/oxygenesis/arsign/internal/log"
	"github.com/oxygenesis/arsign/internal/metrics"
	"github.com/oxygenesis/arsign/internal/storage"
)

var logger = log.NewLoggerIPFS("service")

// SignerFactory builds a signer from a parsed keyfile.
type SignerFactory interface {
	FromJWK(jwk jose.JSONWebKey) (domain.Signer, error)
}

type SigningService struct {
	repo     storage.Repository
	signers  SignerFactory
	verifier domain.Verifier
	metrics  *metrics.Metrics
}

// New wires the service. A nil m gets metrics on a private registry.
func New(repo storage.Repository, signers SignerFactory, verifier domain.Verifier, m *metrics.Metrics) *SigningService {
	if m == nil {
		m = metrics.NewWithRegistry(prometheus.NewRegistry())
	}
	return &SigningService{repo: repo, signers: signers, verifier: verifier, metrics: m}
}

// ImportWallet registers the wallet held by jwk. Keys whose owner does not have the scheme's
// fixed length are refused since nothing on the network could verify them.
func (s *SigningService) ImportWallet(jwk jose.JSONWebKey, label string) (*domain.Wallet, error) {
	signer, err := s.signers.FromJWK(jwk)
	if err != nil {
		return nil, err
	}
	owner := signer.PubKey()
	if len(owner) != signer.PubLength() {
		return nil, fmt.Errorf("%w: owner is %d bytes, want %d", domain.ErrInvalidInput, len(owner), signer.PubLength())
	}
	w := &domain.Wallet{
		Address: domain.Address(owner),
		Label:   label,
		Owner:   domain.EncodeB64(owner),
	}
	if err := s.repo.Create(w, signer); err != nil {
		return nil, err
	}
	s.metrics.Wallets.Inc()
	logger.Info("wallet imported", "address", w.Address, "label", label)
	return w, nil
}

func (s *SigningService) GetWallet(address string) (*domain.Wallet, error) {
	w, _, err := s.repo.Get(address)
	return w, err
}

func (s *SigningService) ListWallets() ([]*domain.Wallet, error) {
	return s.repo.List()
}

type SignatureResult struct {
	Address   string
	Owner     []byte
	Signature []byte
	Counter   uint64
}

func (s *SigningService) Sign(address string, data []byte) (*SignatureResult, error) {
	if len(data) == 0 {
		return nil, domain.ErrInvalidInput
	}
	var out *SignatureResult
	err := s.repo.Update(address, func(w *domain.Wallet, signer domain.Signer) error {
		sig, err := signer.Sign(data)
		if err != nil {
			return err
		}
		if len(sig) != signer.SigLength() {
			return fmt.Errorf("%w: signature is %d bytes, want %d", domain.ErrCryptoOperation, len(sig), signer.SigLength())
		}
		// commit
		w.LastSignature = domain.EncodeB64(sig)
		w.SignatureCounter++
		out = &SignatureResult{
			Address:   w.Address,
			Owner:     signer.PubKey(),
			Signature: sig,
			Counter:   w.SignatureCounter,
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrCryptoOperation) {
			s.metrics.SignFailures.Inc()
			logger.Error("signing failed", "address", address, "error", err)
		}
		return nil, err
	}
	s.metrics.SignaturesTotal.WithLabelValues(address).Inc()
	logger.Debug("data signed", "address", address, "counter", out.Counter)
	return out, nil
}

// Verify checks wire sizes before handing the triple to the verifier: an owner of the wrong
// length is ErrKeyDecode, a signature of the wrong length is ErrVerificationFailed.
func (s *SigningService) Verify(owner, data, signature []byte) (bool, error) {
	ok, err := s.verify(owner, data, signature)
	result := metrics.ResultValid
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrVerificationFailed):
		result = metrics.ResultInvalid
	case errors.Is(err, domain.ErrKeyDecode):
		result = metrics.ResultMalformed
	default:
		result = metrics.ResultError
		logger.Error("verification errored", "error", err)
	}
	s.metrics.VerificationsTotal.WithLabelValues(result).Inc()
	return ok, err
}

func (s *SigningService) verify(owner, data, signature []byte) (bool, error) {
	if len(owner) != crypto.PubLength {
		return false, fmt.Errorf("%w: owner is %d bytes, want %d", domain.ErrKeyDecode, len(owner), crypto.PubLength)
	}
	if len(signature) != crypto.SigLength {
		return false, fmt.Errorf("%w: signature is %d bytes, want %d", domain.ErrVerificationFailed, len(signature), crypto.SigLength)
	}
	ok, err := s.verifier.Verify(owner, data, signature)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, domain.ErrVerificationFailed
	}
	return true, nil
}
