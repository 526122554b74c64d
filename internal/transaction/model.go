package transaction

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is a single monetary operation against one account. Amount
// is always positive; see Type for the settlement direction.
type Transaction struct {
	ID          string            `json:"id"`
	UserID      string            `json:"user_id"`
	AccountID   string            `json:"account_id"`
	Type        Type              `json:"type"`
	Amount      decimal.Decimal   `json:"amount"`
	Currency    string            `json:"currency"`
	Status      Status            `json:"status"`
	Reference   string            `json:"reference"`
	Description string            `json:"description,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// Stats aggregates a user's transaction history. Monetary totals count
// completed transactions only.
type Stats struct {
	Total         int64           `json:"total"`
	Pending       int64           `json:"pending"`
	Completed     int64           `json:"completed"`
	Failed        int64           `json:"failed"`
	TotalCredited decimal.Decimal `json:"total_credited"`
	TotalDebited  decimal.Decimal `json:"total_debited"`
}
