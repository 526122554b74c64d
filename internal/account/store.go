package account

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ErrNotFound indicates no matching account exists (or none is active).
var ErrNotFound = errors.New("account not found")

// InsufficientBalanceError is returned when a debit would take the balance
// below zero. The debit is rejected, never clamped.
type InsufficientBalanceError struct {
	CurrentBalance decimal.Decimal
	RequiredAmount decimal.Decimal
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("insufficient balance: have %s, need %s", e.CurrentBalance, e.RequiredAmount)
}

// Code returns the stable error code surfaced to API clients.
func (e *InsufficientBalanceError) Code() string { return "INSUFFICIENT_BALANCE" }

// Store persists accounts. AdjustBalance is the single writer of balance
// mutations; no other code path may alter a balance.
type Store interface {
	Get(ctx context.Context, id string) (Account, error)
	GetActiveForUser(ctx context.Context, userID string) (Account, error)

	// AdjustBalance applies a credit or debit as one atomic
	// read-modify-write. Debits that would leave the balance negative
	// fail with InsufficientBalanceError and change nothing.
	AdjustBalance(ctx context.Context, id string, amount decimal.Decimal, dir Direction) (BalanceChange, error)
}
