package account

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// PostgresStore stores accounts in PostgreSQL.
type PostgresStore struct {
	db *pgxpool.Pool
}

// NewPostgresStore builds a store backed by PostgreSQL.
func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

const accountColumns = `id, user_id, number, currency, balance, is_active, created_at, updated_at`

// Get fetches an account by identifier.
func (s *PostgresStore) Get(ctx context.Context, id string) (Account, error) {
	row := s.db.QueryRow(ctx, `SELECT `+accountColumns+` FROM accounts WHERE id = $1`, id)
	return scanAccount(row)
}

// GetActiveForUser resolves the user's active account. Users hold at most
// one active account per currency; the oldest wins if data drifts.
func (s *PostgresStore) GetActiveForUser(ctx context.Context, userID string) (Account, error) {
	row := s.db.QueryRow(ctx, `SELECT `+accountColumns+` FROM accounts
        WHERE user_id = $1 AND is_active ORDER BY created_at LIMIT 1`, userID)
	return scanAccount(row)
}

// AdjustBalance applies the adjustment inside a transaction holding a row
// lock on the account, so concurrent adjustments against the same account
// serialize and can never jointly overdraw it.
func (s *PostgresStore) AdjustBalance(ctx context.Context, id string, amount decimal.Decimal, dir Direction) (BalanceChange, error) {
	if !amount.IsPositive() {
		return BalanceChange{}, fmt.Errorf("adjustment amount must be positive")
	}

	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return BalanceChange{}, err
	}
	defer tx.Rollback(ctx) // nolint:errcheck

	var previous decimal.Decimal
	err = tx.QueryRow(ctx, `SELECT balance FROM accounts WHERE id = $1 AND is_active FOR UPDATE`, id).Scan(&previous)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return BalanceChange{}, ErrNotFound
		}
		return BalanceChange{}, err
	}

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

	if _, err := tx.Exec(ctx, `UPDATE accounts SET balance = $2, updated_at = $3 WHERE id = $1`, id, next, time.Now().UTC()); err != nil {
		return BalanceChange{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return BalanceChange{}, err
	}

	return BalanceChange{Previous: previous, New: next}, nil
}

func scanAccount(row pgx.Row) (Account, error) {
	var a Account
	var createdAt, updatedAt time.Time
	err := row.Scan(&a.ID, &a.UserID, &a.Number, &a.Currency, &a.Balance, &a.Active, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Account{}, ErrNotFound
		}
		return Account{}, err
	}
	a.CreatedAt = createdAt.UTC()
	a.UpdatedAt = updatedAt.UTC()
	return a, nil
}
