package transaction

import "github.com/shopspring/decimal"

// StatementEntry is a transaction annotated with the account balance as it
// stood immediately after that transaction settled.
type StatementEntry struct {
	Transaction
	BalanceAfter decimal.Decimal `json:"balance_after"`
}

// WithRunningBalances reconstructs historical running balances by walking
// the history newest to oldest from the account's current balance,
// inverting the effect of each completed transaction to find the balance
// that preceded it. Non-completed transactions are annotated with the
// running value but never alter the arithmetic, since they never moved
// money. The result is returned oldest first for display.
//
// The reconstruction is only sound when every completed transaction in
// the range settled through the account store's single balance-mutation
// path; an out-of-band balance edit breaks it for the whole account.
func WithRunningBalances(currentBalance decimal.Decimal, newestFirst []Transaction) []StatementEntry {
	entries := make([]StatementEntry, len(newestFirst))
	running := currentBalance

	for i, txn := range newestFirst {
		entries[i] = StatementEntry{Transaction: txn, BalanceAfter: running}
		if txn.Status != StatusCompleted {
			continue
		}
		if txn.Type.IsDebit() {
			running = running.Add(txn.Amount)
		} else {
			running = running.Sub(txn.Amount)
		}
	}

	// Reverse into chronological order.
	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}
	return entries
}

// OpeningBalance derives the balance that existed before the oldest entry
// in a reconstructed statement was applied.
func OpeningBalance(chronological []StatementEntry) decimal.Decimal {
	if len(chronological) == 0 {
		return decimal.Zero
	}
	oldest := chronological[0]
	if oldest.Status != StatusCompleted {
		return oldest.BalanceAfter
	}
	if oldest.Type.IsDebit() {
		return oldest.BalanceAfter.Add(oldest.Amount)
	}
	return oldest.BalanceAfter.Sub(oldest.Amount)
}
