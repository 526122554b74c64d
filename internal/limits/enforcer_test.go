package limits

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func fixedSpend(used int64) SpendFunc {
	return func(_ context.Context, _ string, _, _ time.Time) (decimal.Decimal, error) {
		return decimal.NewFromInt(used), nil
	}
}

func TestCheckDailyWithinAllowance(t *testing.T) {
	e := New(fixedSpend(10_000))
	if err := e.CheckDaily(context.Background(), "user-1", decimal.NewFromInt(500), 1); err != nil {
		t.Fatalf("expected request of 500 to pass with 10000 used, got %v", err)
	}
}

func TestCheckDailyRejectsOverAllowance(t *testing.T) {
	e := New(fixedSpend(49_950))
	err := e.CheckDaily(context.Background(), "user-1", decimal.NewFromInt(100), 1)

	var exceeded *DailyLimitExceededError
	if !errors.As(err, &exceeded) {
		t.Fatalf("expected DailyLimitExceededError, got %v", err)
	}
	if !exceeded.Limit.Equal(decimal.NewFromInt(50_000)) {
		t.Fatalf("limit = %s", exceeded.Limit)
	}
	if !exceeded.Used.Equal(decimal.NewFromInt(49_950)) {
		t.Fatalf("used = %s", exceeded.Used)
	}
	if !exceeded.Available.Equal(decimal.NewFromInt(50)) {
		t.Fatalf("available = %s", exceeded.Available)
	}
}

func TestCheckDailyExactBoundaryPasses(t *testing.T) {
	// used + proposed == limit is allowed.
	e := New(fixedSpend(49_950))
	if err := e.CheckDaily(context.Background(), "user-1", decimal.NewFromInt(50), 1); err != nil {
		t.Fatalf("boundary request rejected: %v", err)
	}
}

func TestCheckDailyFailsClosedOnLookupError(t *testing.T) {
	lookupErr := errors.New("store unreachable")
	e := New(func(context.Context, string, time.Time, time.Time) (decimal.Decimal, error) {
		return decimal.Zero, lookupErr
	})

	err := e.CheckDaily(context.Background(), "user-1", decimal.NewFromInt(1), 1)
	if err == nil {
		t.Fatal("expected rejection when the spend lookup fails")
	}
	if !errors.Is(err, lookupErr) {
		t.Fatalf("expected wrapped lookup error, got %v", err)
	}
}

func TestCheckDailyClampsNegativeAvailable(t *testing.T) {
	e := New(fixedSpend(60_000)) // already over tier 1 somehow
	err := e.CheckDaily(context.Background(), "user-1", decimal.NewFromInt(1), 1)

	var exceeded *DailyLimitExceededError
	if !errors.As(err, &exceeded) {
		t.Fatalf("expected DailyLimitExceededError, got %v", err)
	}
	if !exceeded.Available.IsZero() {
		t.Fatalf("available should clamp to zero, got %s", exceeded.Available)
	}
}

func TestCheckDailyUsesTierAllowance(t *testing.T) {
	e := New(fixedSpend(49_950))
	// Same spend passes for tier 2's wider allowance.
	if err := e.CheckDaily(context.Background(), "user-1", decimal.NewFromInt(100), 2); err != nil {
		t.Fatalf("tier 2 request rejected: %v", err)
	}
}

func TestDayBounds(t *testing.T) {
	at := time.Date(2024, 6, 15, 13, 45, 12, 0, time.Local)
	from, to := dayBounds(at)
	if from.Hour() != 0 || from.Day() != 15 {
		t.Fatalf("from = %v", from)
	}
	if !to.Equal(from.AddDate(0, 0, 1)) {
		t.Fatalf("to = %v", to)
	}
}
