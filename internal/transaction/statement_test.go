package transaction

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func historyTxn(typ Type, amount int64, status Status, age time.Duration) Transaction {
	now := time.Now().UTC()
	return Transaction{
		ID:        uuid.NewString(),
		UserID:    "user-1",
		AccountID: "acct-1",
		Type:      typ,
		Amount:    decimal.NewFromInt(amount),
		Currency:  "NGN",
		Status:    status,
		Reference: NewReference(typ),
		CreatedAt: now.Add(-age),
		UpdatedAt: now.Add(-age),
	}
}

// newestFirstHistory builds: withdrawal 1000, deposit 4000, failed
// airtime 500, transfer 2000 (chronological), returned newest first.
// With a current balance of 3000 the running balances are 1000, 5000,
// 5000, 3000 respectively.
func newestFirstHistory() []Transaction {
	return []Transaction{
		historyTxn(TypeTransfer, 2_000, StatusCompleted, 1*time.Hour),
		historyTxn(TypeAirtime, 500, StatusFailed, 2*time.Hour),
		historyTxn(TypeDeposit, 4_000, StatusCompleted, 3*time.Hour),
		historyTxn(TypeWithdrawal, 1_000, StatusCompleted, 4*time.Hour),
	}
}

func TestWithRunningBalances(t *testing.T) {
	current := decimal.NewFromInt(3_000)
	entries := WithRunningBalances(current, newestFirstHistory())

	if len(entries) != 4 {
		t.Fatalf("expected 4 entries, got %d", len(entries))
	}

	// Chronological order for display.
	for i := 1; i < len(entries); i++ {
		if entries[i].CreatedAt.Before(entries[i-1].CreatedAt) {
			t.Fatalf("entries not in chronological order at %d", i)
		}
	}

	want := []int64{1_000, 5_000, 5_000, 3_000}
	for i, w := range want {
		if !entries[i].BalanceAfter.Equal(decimal.NewFromInt(w)) {
			t.Fatalf("entry %d (%s): balance_after = %s, want %d", i, entries[i].Type, entries[i].BalanceAfter, w)
		}
	}
}

func TestWithRunningBalancesSkipsNonCompletedArithmetic(t *testing.T) {
	current := decimal.NewFromInt(800)
	history := []Transaction{
		historyTxn(TypeTransfer, 300, StatusPending, 1*time.Hour),
		historyTxn(TypeAirtime, 200, StatusFailed, 2*time.Hour),
		historyTxn(TypeDeposit, 800, StatusCompleted, 3*time.Hour),
	}

	entries := WithRunningBalances(current, history)

	// Pending and failed entries are annotated with the running value
	// but never shift it.
	if !entries[2].BalanceAfter.Equal(decimal.NewFromInt(800)) {
		t.Fatalf("pending entry balance_after = %s", entries[2].BalanceAfter)
	}
	if !entries[1].BalanceAfter.Equal(decimal.NewFromInt(800)) {
		t.Fatalf("failed entry balance_after = %s", entries[1].BalanceAfter)
	}
	if !entries[0].BalanceAfter.Equal(decimal.NewFromInt(800)) {
		t.Fatalf("deposit balance_after = %s", entries[0].BalanceAfter)
	}
}

func TestWithRunningBalancesIdempotent(t *testing.T) {
	current := decimal.NewFromInt(3_000)
	history := newestFirstHistory()

	first := WithRunningBalances(current, history)
	second := WithRunningBalances(current, history)

	if len(first) != len(second) {
		t.Fatalf("lengths differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].ID != second[i].ID || !first[i].BalanceAfter.Equal(second[i].BalanceAfter) {
			t.Fatalf("entry %d differs between runs", i)
		}
	}

	// The input slice must not be reordered by the reconstruction.
	if history[0].Type != TypeTransfer || history[3].Type != TypeWithdrawal {
		t.Fatal("input slice was mutated")
	}
}

func TestOpeningBalanceRoundTrip(t *testing.T) {
	current := decimal.NewFromInt(3_000)
	entries := WithRunningBalances(current, newestFirstHistory())

	opening := OpeningBalance(entries)
	if !opening.Equal(decimal.NewFromInt(2_000)) {
		t.Fatalf("opening balance = %s, want 2000", opening)
	}

	// Replaying every completed effect over the opening balance must
	// land exactly on the current balance.
	replayed := opening
	for _, e := range entries {
		if e.Status != StatusCompleted {
			continue
		}
		if e.Type.IsDebit() {
			replayed = replayed.Sub(e.Amount)
		} else {
			replayed = replayed.Add(e.Amount)
		}
	}
	if !replayed.Equal(current) {
		t.Fatalf("replayed balance = %s, want %s", replayed, current)
	}
}

func TestWithRunningBalancesEmptyHistory(t *testing.T) {
	entries := WithRunningBalances(decimal.NewFromInt(42), nil)
	if len(entries) != 0 {
		t.Fatalf("expected no entries, got %d", len(entries))
	}
	if !OpeningBalance(entries).IsZero() {
		t.Fatal("opening balance of empty statement should be zero")
	}
}

func TestWithRunningBalancesExactDecimals(t *testing.T) {
	current := decimal.RequireFromString("100.10")
	history := []Transaction{
		{
			ID: uuid.NewString(), Type: TypeTransfer, Status: StatusCompleted,
			Amount: decimal.RequireFromString("0.10"), CreatedAt: time.Now(),
		},
	}

	entries := WithRunningBalances(current, history)
	if !entries[0].BalanceAfter.Equal(decimal.RequireFromString("100.10")) {
		t.Fatalf("balance_after = %s", entries[0].BalanceAfter)
	}
	if !OpeningBalance(entries).Equal(decimal.RequireFromString("100.20")) {
		t.Fatalf("opening = %s", OpeningBalance(entries))
	}
}
