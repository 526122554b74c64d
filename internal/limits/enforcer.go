package limits

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/kudipay/kudipay/internal/tier"
)

// DailyLimitExceededError reports a proposed debit pushing the user past
// their tier's daily spend allowance.
type DailyLimitExceededError struct {
	Limit     decimal.Decimal
	Used      decimal.Decimal
	Available decimal.Decimal
}

func (e *DailyLimitExceededError) Error() string {
	return fmt.Sprintf("daily limit exceeded: limit %s, used %s, available %s", e.Limit, e.Used, e.Available)
}

// Code returns the stable error code surfaced to API clients.
func (e *DailyLimitExceededError) Code() string { return "DAILY_LIMIT_EXCEEDED" }

// SpendFunc returns the total completed debit-classified spend for a user
// within [from, to). The caller supplies it as a closure over the
// transaction store so debit classification stays in one place.
type SpendFunc func(ctx context.Context, userID string, from, to time.Time) (decimal.Decimal, error)

// Enforcer checks proposed debits against tier spend limits.
type Enforcer struct {
	spend SpendFunc
	now   func() time.Time
}

// New builds an enforcer over the given spend aggregation.
func New(spend SpendFunc) *Enforcer {
	return &Enforcer{spend: spend, now: time.Now}
}

// CheckDaily verifies that amount fits within the remaining daily
// allowance for the tier. A failing spend lookup rejects the request:
// the limit invariant is preserved by failing closed, never by guessing.
func (e *Enforcer) CheckDaily(ctx context.Context, userID string, amount decimal.Decimal, level int) error {
	lim := tier.LimitsFor(level)
	from, to := dayBounds(e.now())

	used, err := e.spend(ctx, userID, from, to)
	if err != nil {
		return fmt.Errorf("daily spend lookup: %w", err)
	}

	if used.Add(amount).GreaterThan(lim.Daily) {
		available := lim.Daily.Sub(used)
		if available.IsNegative() {
			available = decimal.Zero
		}
		return &DailyLimitExceededError{Limit: lim.Daily, Used: used, Available: available}
	}
	return nil
}

// dayBounds returns the local calendar day containing t as [from, to).
func dayBounds(t time.Time) (time.Time, time.Time) {
	local := t.Local()
	from := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, local.Location())
	return from, from.AddDate(0, 0, 1)
}
