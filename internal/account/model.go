package account

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account is a stored-value balance owned by a single user. Accounts are
// created at signup and only ever deactivated, never deleted.
type Account struct {
	ID        string          `json:"id"`
	UserID    string          `json:"user_id"`
	Number    string          `json:"account_number"`
	Currency  string          `json:"currency"`
	Balance   decimal.Decimal `json:"balance"`
	Active    bool            `json:"is_active"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// Direction states whether a balance adjustment adds to or subtracts from
// the account balance.
type Direction string

const (
	DirectionCredit Direction = "credit"
	DirectionDebit  Direction = "debit"
)

// BalanceChange reports the balance before and after a committed adjustment.
type BalanceChange struct {
	Previous decimal.Decimal
	New      decimal.Decimal
}
