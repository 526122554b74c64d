package account

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

// MemoryStore is a concurrency-safe in-memory account store for tests and
// local development without PostgreSQL.
type MemoryStore struct {
	mu       sync.RWMutex
	accounts map[string]Account
}

// NewMemoryStore constructs an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{accounts: make(map[string]Account)}
}

// Put inserts or replaces an account. Seeding helper for tests.
func (s *MemoryStore) Put(a Account) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts[a.ID] = a
}

// Get fetches an account by identifier.
func (s *MemoryStore) Get(_ context.Context, id string) (Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.accounts[id]
	if !ok {
		return Account{}, ErrNotFound
	}
	return a, nil
}

// GetActiveForUser resolves the user's active account, oldest first.
func (s *MemoryStore) GetActiveForUser(_ context.Context, userID string) (Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var found Account
	var ok bool
	for _, a := range s.accounts {
		if a.UserID != userID || !a.Active {
			continue
		}
		if !ok || a.CreatedAt.Before(found.CreatedAt) {
			found = a
			ok = true
		}
	}
	if !ok {
		return Account{}, ErrNotFound
	}
	return found, nil
}

// AdjustBalance applies the adjustment under the store mutex, mirroring the
// row-lock semantics of the PostgreSQL store.
func (s *MemoryStore) AdjustBalance(_ context.Context, id string, amount decimal.Decimal, dir Direction) (BalanceChange, error) {
	if !amount.IsPositive() {
		return BalanceChange{}, fmt.Errorf("adjustment amount must be positive")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.accounts[id]
	if !ok || !a.Active {
		return BalanceChange{}, ErrNotFound
	}

	previous := a.Balance
	var next decimal.Decimal
	switch dir {
	case DirectionCredit:
		next = previous.Add(amount)
	case DirectionDebit:
		next = previous.Sub(amount)
		if next.IsNegative() {
			return BalanceChange{}, &InsufficientBalanceError{CurrentBalance: previous, RequiredAmount: amount}
		}
	default:
		return BalanceChange{}, fmt.Errorf("unknown direction %q", dir)
	}

	a.Balance = next
	a.UpdatedAt = time.Now().UTC()
	s.accounts[id] = a

	return BalanceChange{Previous: previous, New: next}, nil
}
