package storage

import "github.com/oxygenesis/arsign/internal/domain"

// Repository keeps wallets together with the signer that holds their key.
// Update provides a per-wallet critical section to support atomic updates.
type Repository interface {
	Create(w *domain.Wallet, signer domain.Signer) error
	Get(address string) (*domain.Wallet, domain.Signer, error)
	List() ([]*domain.Wallet, error)
	Update(address string, fn func(w *domain.Wallet, signer domain.Signer) error) error
}
