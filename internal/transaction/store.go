package transaction

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Filter narrows a transaction history query. Nil fields match everything.
type Filter struct {
	AccountID *string
	Type      *Type
	Status    *Status
	From      *time.Time
	To        *time.Time
}

// Page bounds a history query. Limit defaults to 20 and caps at 100.
type Page struct {
	Limit  int
	Offset int
}

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

func (p Page) normalize() Page {
	if p.Limit <= 0 {
		p.Limit = defaultPageLimit
	}
	if p.Limit > maxPageLimit {
		p.Limit = maxPageLimit
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	return p
}

// Store persists transaction records.
type Store interface {
	Insert(ctx context.Context, txn Transaction) error

	// UpdateStatus moves a pending transaction to a terminal status.
	// Attempts against a transaction that is already terminal fail with
	// ErrAlreadyFinal and change nothing.
	UpdateStatus(ctx context.Context, id string, status Status) error

	GetByReference(ctx context.Context, reference string) (Transaction, error)

	// QueryByUser returns the user's transactions newest first.
	QueryByUser(ctx context.Context, userID string, filter Filter, page Page) ([]Transaction, error)

	// SumAmountByUserAndDateRange totals the amount of the user's
	// transactions with the given status and any of the given types,
	// created within [from, to).
	SumAmountByUserAndDateRange(ctx context.Context, userID string, types []Type, from, to time.Time, status Status) (decimal.Decimal, error)

	StatsByUser(ctx context.Context, userID string) (Stats, error)
}
