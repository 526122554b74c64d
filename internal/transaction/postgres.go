package transaction

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// PostgresStore stores transactions in PostgreSQL.
type PostgresStore struct {
	db *pgxpool.Pool
}

// NewPostgresStore builds a store backed by PostgreSQL.
func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

const transactionColumns = `id, user_id, account_id, type, amount, currency, status, reference, description, metadata, created_at, updated_at`

// Insert stores a new transaction record.
func (s *PostgresStore) Insert(ctx context.Context, txn Transaction) error {
	metadata, err := json.Marshal(txn.Metadata)
	if err != nil {
		return fmt.Errorf("encode metadata: %w", err)
	}
	_, err = s.db.Exec(ctx, `INSERT INTO transactions (`+transactionColumns+`)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		txn.ID, txn.UserID, txn.AccountID, string(txn.Type), txn.Amount, txn.Currency,
		string(txn.Status), txn.Reference, txn.Description, metadata,
		txn.CreatedAt.UTC(), txn.UpdatedAt.UTC())
	return err
}

// UpdateStatus transitions a pending transaction to a terminal status. The
// pending guard in the WHERE clause makes terminal statuses immutable even
// under concurrent updates.
func (s *PostgresStore) UpdateStatus(ctx context.Context, id string, status Status) error {
	tag, err := s.db.Exec(ctx, `UPDATE transactions SET status = $2, updated_at = $3
        WHERE id = $1 AND status = $4`, id, string(status), time.Now().UTC(), string(StatusPending))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		var current string
		err := s.db.QueryRow(ctx, `SELECT status FROM transactions WHERE id = $1`, id).Scan(&current)
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		return ErrAlreadyFinal
	}
	return nil
}

// GetByReference finds a transaction by its display reference.
func (s *PostgresStore) GetByReference(ctx context.Context, reference string) (Transaction, error) {
	row := s.db.QueryRow(ctx, `SELECT `+transactionColumns+` FROM transactions WHERE reference = $1`, reference)
	return scanTransaction(row)
}

// QueryByUser returns matching transactions newest first.
func (s *PostgresStore) QueryByUser(ctx context.Context, userID string, filter Filter, page Page) ([]Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE user_id = $1`
	args := []any{userID}

	if filter.AccountID != nil {
		args = append(args, *filter.AccountID)
		query += fmt.Sprintf(" AND account_id = $%d", len(args))
	}
	if filter.Type != nil {
		args = append(args, string(*filter.Type))
		query += fmt.Sprintf(" AND type = $%d", len(args))
	}
	if filter.Status != nil {
		args = append(args, string(*filter.Status))
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if filter.From != nil {
		args = append(args, filter.From.UTC())
		query += fmt.Sprintf(" AND created_at >= $%d", len(args))
	}
	if filter.To != nil {
		args = append(args, filter.To.UTC())
		query += fmt.Sprintf(" AND created_at < $%d", len(args))
	}

	page = page.normalize()
	args = append(args, page.Limit, page.Offset)
	query += fmt.Sprintf(" ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Transaction
	for rows.Next() {
		txn, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, txn)
	}
	return out, rows.Err()
}

// SumAmountByUserAndDateRange totals matching transaction amounts.
func (s *PostgresStore) SumAmountByUserAndDateRange(ctx context.Context, userID string, types []Type, from, to time.Time, status Status) (decimal.Decimal, error) {
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = string(t)
	}

	var total decimal.Decimal
	err := s.db.QueryRow(ctx, `SELECT COALESCE(SUM(amount), 0) FROM transactions
        WHERE user_id = $1 AND status = $2 AND type = ANY($3)
          AND created_at >= $4 AND created_at < $5`,
		userID, string(status), names, from.UTC(), to.UTC()).Scan(&total)
	if err != nil {
		return decimal.Zero, err
	}
	return total, nil
}

// StatsByUser aggregates the user's transaction history in one query.
func (s *PostgresStore) StatsByUser(ctx context.Context, userID string) (Stats, error) {
	debits := make([]string, 0, len(DebitTypes()))
	for _, t := range DebitTypes() {
		debits = append(debits, string(t))
	}

	var stats Stats
	err := s.db.QueryRow(ctx, `SELECT
            COUNT(*),
            COUNT(*) FILTER (WHERE status = 'pending'),
            COUNT(*) FILTER (WHERE status = 'completed'),
            COUNT(*) FILTER (WHERE status = 'failed'),
            COALESCE(SUM(amount) FILTER (WHERE status = 'completed' AND NOT (type = ANY($2))), 0),
            COALESCE(SUM(amount) FILTER (WHERE status = 'completed' AND type = ANY($2)), 0)
        FROM transactions WHERE user_id = $1`,
		userID, debits).Scan(&stats.Total, &stats.Pending, &stats.Completed, &stats.Failed,
		&stats.TotalCredited, &stats.TotalDebited)
	if err != nil {
		return Stats{}, err
	}
	return stats, nil
}

func scanTransaction(row pgx.Row) (Transaction, error) {
	var txn Transaction
	var typ, status string
	var metadata []byte
	var createdAt, updatedAt time.Time
	err := row.Scan(&txn.ID, &txn.UserID, &txn.AccountID, &typ, &txn.Amount, &txn.Currency,
		&status, &txn.Reference, &txn.Description, &metadata, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Transaction{}, ErrNotFound
		}
		return Transaction{}, err
	}
	txn.Type = Type(typ)
	txn.Status = Status(status)
	if len(metadata) > 0 {
		if err := json.Unmarshal(metadata, &txn.Metadata); err != nil {
			return Transaction{}, fmt.Errorf("decode metadata: %w", err)
		}
	}
	txn.CreatedAt = createdAt.UTC()
	txn.UpdatedAt = updatedAt.UTC()
	return txn, nil
}
