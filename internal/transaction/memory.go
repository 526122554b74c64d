package transaction

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

// MemoryStore is a concurrency-safe in-memory transaction store for tests
// and local development without PostgreSQL.
type MemoryStore struct {
	mu   sync.RWMutex
	byID map[string]Transaction
}

// NewMemoryStore constructs an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{byID: make(map[string]Transaction)}
}

// Insert stores a new transaction record.
func (s *MemoryStore) Insert(_ context.Context, txn Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.byID[txn.ID]; exists {
		return fmt.Errorf("transaction %s exists", txn.ID)
	}
	s.byID[txn.ID] = txn
	return nil
}

// UpdateStatus transitions a pending transaction to a terminal status.
func (s *MemoryStore) UpdateStatus(_ context.Context, id string, status Status) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	txn, ok := s.byID[id]
	if !ok {
		return ErrNotFound
	}
	if txn.Status.Terminal() {
		return ErrAlreadyFinal
	}
	txn.Status = status
	txn.UpdatedAt = time.Now().UTC()
	s.byID[id] = txn
	return nil
}

// GetByReference finds a transaction by its display reference.
func (s *MemoryStore) GetByReference(_ context.Context, reference string) (Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, txn := range s.byID {
		if txn.Reference == reference {
			return txn, nil
		}
	}
	return Transaction{}, ErrNotFound
}

// QueryByUser returns matching transactions newest first.
func (s *MemoryStore) QueryByUser(_ context.Context, userID string, filter Filter, page Page) ([]Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []Transaction
	for _, txn := range s.byID {
		if txn.UserID != userID || !matches(txn, filter) {
			continue
		}
		matched = append(matched, txn)
	}
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].ID > matched[j].ID
		}
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	page = page.normalize()
	if page.Offset >= len(matched) {
		return nil, nil
	}
	end := page.Offset + page.Limit
	if end > len(matched) {
		end = len(matched)
	}
	out := make([]Transaction, end-page.Offset)
	copy(out, matched[page.Offset:end])
	return out, nil
}

// SumAmountByUserAndDateRange totals matching transaction amounts.
func (s *MemoryStore) SumAmountByUserAndDateRange(_ context.Context, userID string, types []Type, from, to time.Time, status Status) (decimal.Decimal, error) {
	wanted := make(map[Type]bool, len(types))
	for _, t := range types {
		wanted[t] = true
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	total := decimal.Zero
	for _, txn := range s.byID {
		if txn.UserID != userID || txn.Status != status || !wanted[txn.Type] {
			continue
		}
		if txn.CreatedAt.Before(from) || !txn.CreatedAt.Before(to) {
			continue
		}
		total = total.Add(txn.Amount)
	}
	return total, nil
}

// StatsByUser aggregates the user's transaction history.
func (s *MemoryStore) StatsByUser(_ context.Context, userID string) (Stats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := Stats{TotalCredited: decimal.Zero, TotalDebited: decimal.Zero}
	for _, txn := range s.byID {
		if txn.UserID != userID {
			continue
		}
		stats.Total++
		switch txn.Status {
		case StatusPending:
			stats.Pending++
		case StatusFailed:
			stats.Failed++
		case StatusCompleted:
			stats.Completed++
			if txn.Type.IsDebit() {
				stats.TotalDebited = stats.TotalDebited.Add(txn.Amount)
			} else {
				stats.TotalCredited = stats.TotalCredited.Add(txn.Amount)
			}
		}
	}
	return stats, nil
}

func matches(txn Transaction, f Filter) bool {
	if f.AccountID != nil && txn.AccountID != *f.AccountID {
		return false
	}
	if f.Type != nil && txn.Type != *f.Type {
		return false
	}
	if f.Status != nil && txn.Status != *f.Status {
		return false
	}
	if f.From != nil && txn.CreatedAt.Before(*f.From) {
		return false
	}
	if f.To != nil && !txn.CreatedAt.Before(*f.To) {
		return false
	}
	return true
}
