package storage

import (
	"sort"
	"sync"

	"github.com/oxygenesis/arsign/internal/domain"
)

type rec struct {
	mu     sync.Mutex
	wallet *domain.Wallet
	signer domain.Signer
}

type Memory struct {
	mu   sync.RWMutex
	data map[string]*rec
}

func NewMemory() *Memory { return &Memory{data: make(map[string]*rec)} }

func (m *Memory) Create(w *domain.Wallet, signer domain.Signer) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.data[w.Address]; ok {
		return domain.ErrAlreadyExists
	}
	cp := *w
	m.data[w.Address] = &rec{wallet: &cp, signer: signer}
	return nil
}

func (m *Memory) Get(address string) (*domain.Wallet, domain.Signer, error) {
	m.mu.RLock()
	r, ok := m.data[address]
	m.mu.RUnlock()
	if !ok {
		return nil, nil, domain.ErrNotFound
	}
	r.mu.Lock()
	cp := *(r.wallet)
	r.mu.Unlock()
	return &cp, r.signer, nil
}

// List returns copies ordered by address.
func (m *Memory) List() ([]*domain.Wallet, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*domain.Wallet, 0, len(m.data))
	for _, r := range m.data {
		r.mu.Lock()
		cp := *(r.wallet)
		r.mu.Unlock()
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Address < out[j].Address })
	return out, nil
}

func (m *Memory) Update(address string, fn func(w *domain.Wallet, signer domain.Signer) error) error {
	m.mu.RLock()
	r, ok := m.data[address]
	m.mu.RUnlock()
	if !ok {
		return domain.ErrNotFound
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return fn(r.wallet, r.signer)
}
