package transaction

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kudipay/kudipay/internal/account"
	"github.com/kudipay/kudipay/internal/limits"
	"github.com/kudipay/kudipay/internal/notification"
	"github.com/kudipay/kudipay/internal/provider"
)

const defaultPaymentTimeout = 15 * time.Second

// Service drives a transaction through validation, persistence,
// processing and balance settlement. It is the only component that moves
// money: every balance mutation flows through the account store's
// AdjustBalance.
type Service struct {
	store          Store
	accounts       account.Store
	enforcer       *limits.Enforcer
	rail           provider.Provider
	notifier       notification.Notifier
	logger         *slog.Logger
	paymentTimeout time.Duration
}

// NewService constructs the transaction ledger service.
func NewService(store Store, accounts account.Store, enforcer *limits.Enforcer, rail provider.Provider, notifier notification.Notifier, logger *slog.Logger, paymentTimeout time.Duration) *Service {
	if paymentTimeout <= 0 {
		paymentTimeout = defaultPaymentTimeout
	}
	return &Service{
		store:          store,
		accounts:       accounts,
		enforcer:       enforcer,
		rail:           rail,
		notifier:       notifier,
		logger:         logger,
		paymentTimeout: paymentTimeout,
	}
}

// NewEnforcer builds a daily limit enforcer over a transaction store,
// closing over the authoritative debit classification so the limit check
// and balance settlement can never disagree about which types spend.
func NewEnforcer(store Store) *limits.Enforcer {
	return limits.New(func(ctx context.Context, userID string, from, to time.Time) (decimal.Decimal, error) {
		return store.SumAmountByUserAndDateRange(ctx, userID, DebitTypes(), from, to, StatusCompleted)
	})
}

// CreateInput captures a transaction request from the caller.
type CreateInput struct {
	Type        Type
	Amount      decimal.Decimal
	Description string
	Metadata    map[string]string
}

// Create validates the request, persists a pending transaction and
// immediately processes it to a terminal status. The returned transaction
// always carries the final status, including on processing errors: a
// declined payment comes back as a persisted failed transaction alongside
// the error describing why.
//
// Checks run in a fixed order, each with its own reportable error: known
// type, positive amount, resolvable active account, daily limit, then
// balance cover for debits. Nothing is persisted until all checks pass.
func (s *Service) Create(ctx context.Context, userID string, tierLevel int, input CreateInput) (Transaction, error) {
	if !input.Type.Valid() {
		return Transaction{}, &ValidationError{Reason: fmt.Sprintf("unknown transaction type %q", input.Type)}
	}
	if !input.Amount.IsPositive() {
		return Transaction{}, &ValidationError{Reason: "amount must be greater than zero"}
	}

	acct, err := s.accounts.GetActiveForUser(ctx, userID)
	if err != nil {
		if errors.Is(err, account.ErrNotFound) {
			return Transaction{}, &NoActiveAccountError{UserID: userID}
		}
		return Transaction{}, &PersistenceError{Op: "resolve account", Err: err}
	}

	if err := s.enforcer.CheckDaily(ctx, userID, input.Amount, tierLevel); err != nil {
		var exceeded *limits.DailyLimitExceededError
		if errors.As(err, &exceeded) {
			return Transaction{}, exceeded
		}
		// The spend lookup failed; reject rather than let the limit slip.
		return Transaction{}, &PersistenceError{Op: "daily limit check", Err: err}
	}

	if input.Type.IsDebit() && acct.Balance.LessThan(input.Amount) {
		return Transaction{}, &account.InsufficientBalanceError{
			CurrentBalance: acct.Balance,
			RequiredAmount: input.Amount,
		}
	}

	now := time.Now().UTC()
	txn := Transaction{
		ID:          uuid.NewString(),
		UserID:      userID,
		AccountID:   acct.ID,
		Type:        input.Type,
		Amount:      input.Amount,
		Currency:    acct.Currency,
		Status:      StatusPending,
		Reference:   NewReference(input.Type),
		Description: input.Description,
		Metadata:    input.Metadata,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.store.Insert(ctx, txn); err != nil {
		return Transaction{}, &PersistenceError{Op: "insert transaction", Err: err}
	}

	err = s.process(ctx, &txn)
	return txn, err
}

// process settles a pending transaction and finalizes its status. No
// matter what happens inside, including a panic, the transaction leaves
// this function in a terminal status, never stuck pending.
func (s *Service) process(ctx context.Context, txn *Transaction) (err error) {
	if txn.Status.Terminal() {
		return ErrAlreadyFinal
	}

	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("transaction processing panicked",
				"transaction_id", txn.ID, "reference", txn.Reference, "panic", r)
			s.finalize(ctx, txn, StatusFailed)
			err = &InternalError{Err: fmt.Errorf("panic: %v", r)}
		}
	}()

	switch {
	case txn.Type == TypeDeposit:
		change, aerr := s.accounts.AdjustBalance(ctx, txn.AccountID, txn.Amount, account.DirectionCredit)
		if aerr != nil {
			s.finalize(ctx, txn, StatusFailed)
			return &PersistenceError{Op: "credit balance", Err: aerr}
		}
		return s.complete(ctx, txn, change)

	case txn.Type == TypeWithdrawal || txn.Type == TypeTransfer:
		change, aerr := s.accounts.AdjustBalance(ctx, txn.AccountID, txn.Amount, account.DirectionDebit)
		if aerr != nil {
			s.finalize(ctx, txn, StatusFailed)
			var insufficient *account.InsufficientBalanceError
			if errors.As(aerr, &insufficient) {
				return insufficient
			}
			return &PersistenceError{Op: "debit balance", Err: aerr}
		}
		return s.complete(ctx, txn, change)

	case txn.Type.external():
		return s.processExternal(ctx, txn)

	default:
		// Unreachable given Create's type check; kept so a transaction
		// with an unclassifiable type still terminates as failed.
		s.logger.Error("unclassifiable transaction type", "transaction_id", txn.ID, "type", txn.Type)
		s.finalize(ctx, txn, StatusFailed)
		return &ValidationError{Reason: fmt.Sprintf("unknown transaction type %q", txn.Type)}
	}
}

// processExternal settles airtime, data and bill categories through the
// third-party rail. The rail call is bounded by the payment timeout so a
// stuck provider resolves to failed instead of leaving the transaction
// pending. Money moves only after the rail approves; a decline leaves the
// balance untouched.
func (s *Service) processExternal(ctx context.Context, txn *Transaction) error {
	railCtx, cancel := context.WithTimeout(ctx, s.paymentTimeout)
	defer cancel()

	res, err := s.rail.AttemptPayment(railCtx, provider.PaymentRequest{
		Reference: txn.Reference,
		Category:  string(txn.Type),
		Amount:    txn.Amount,
		Currency:  txn.Currency,
		Metadata:  txn.Metadata,
	})
	if err != nil {
		s.logger.Warn("payment rail unreachable",
			"transaction_id", txn.ID, "reference", txn.Reference, "error", err)
		s.finalize(ctx, txn, StatusFailed)
		return &ExternalPaymentError{Reference: txn.Reference, Reason: "provider unreachable"}
	}
	if !res.Success {
		s.finalize(ctx, txn, StatusFailed)
		reason := res.Message
		if reason == "" {
			reason = "declined"
		}
		return &ExternalPaymentError{Reference: txn.Reference, Reason: reason}
	}

	change, aerr := s.accounts.AdjustBalance(ctx, txn.AccountID, txn.Amount, account.DirectionDebit)
	if aerr != nil {
		// Approved upstream but the debit lost a balance race; the
		// transaction fails and the balance stays untouched.
		s.logger.Error("debit after provider approval failed",
			"transaction_id", txn.ID, "reference", txn.Reference,
			"external_reference", res.ExternalReference, "error", aerr)
		s.finalize(ctx, txn, StatusFailed)
		var insufficient *account.InsufficientBalanceError
		if errors.As(aerr, &insufficient) {
			return insufficient
		}
		return &PersistenceError{Op: "debit balance", Err: aerr}
	}

	// Annotates the returned record only, on a copied map so the stored
	// metadata stays untouched. The store persists metadata at insert
	// time and UpdateStatus writes just the status, so a later lookup
	// yields the record without the rail's reference.
	if res.ExternalReference != "" {
		md := make(map[string]string, len(txn.Metadata)+1)
		for k, v := range txn.Metadata {
			md[k] = v
		}
		md["external_reference"] = res.ExternalReference
		txn.Metadata = md
	}
	return s.complete(ctx, txn, change)
}

// complete marks the transaction completed and notifies the owner.
func (s *Service) complete(ctx context.Context, txn *Transaction, change account.BalanceChange) error {
	if err := s.finalize(ctx, txn, StatusCompleted); err != nil {
		return &PersistenceError{Op: "finalize transaction", Err: err}
	}

	s.logger.Info("transaction completed",
		"transaction_id", txn.ID, "reference", txn.Reference, "type", txn.Type,
		"amount", txn.Amount, "previous_balance", change.Previous, "new_balance", change.New)

	if s.notifier != nil {
		_ = s.notifier.Send(ctx, notification.Message{
			Kind:        notification.KindTransactionCompleted,
			Destination: txn.UserID,
			Body:        fmt.Sprintf("%s of %s %s completed (ref %s)", txn.Type, txn.Currency, txn.Amount, txn.Reference),
		})
	}
	return nil
}

// finalize persists the terminal status. A failed write is logged and
// reported but the in-memory record still reflects the intended terminal
// state so callers never observe pending after processing.
func (s *Service) finalize(ctx context.Context, txn *Transaction, status Status) error {
	txn.Status = status
	txn.UpdatedAt = time.Now().UTC()
	if err := s.store.UpdateStatus(ctx, txn.ID, status); err != nil {
		s.logger.Error("persist terminal status failed",
			"transaction_id", txn.ID, "status", status, "error", err)
		return err
	}
	return nil
}

// GetUserTransactions returns the user's history newest first.
func (s *Service) GetUserTransactions(ctx context.Context, userID string, filter Filter, page Page) ([]Transaction, error) {
	txns, err := s.store.QueryByUser(ctx, userID, filter, page)
	if err != nil {
		return nil, &PersistenceError{Op: "query transactions", Err: err}
	}
	return txns, nil
}

// GetByReference resolves a transaction by display reference, scoped to
// its owner. References are not guaranteed unique; the store returns an
// arbitrary match and ownership is enforced here.
func (s *Service) GetByReference(ctx context.Context, userID, reference string) (Transaction, error) {
	txn, err := s.store.GetByReference(ctx, reference)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Transaction{}, ErrNotFound
		}
		return Transaction{}, &PersistenceError{Op: "lookup reference", Err: err}
	}
	if txn.UserID != userID {
		return Transaction{}, ErrNotFound
	}
	return txn, nil
}

// Stats aggregates the user's transaction history.
func (s *Service) Stats(ctx context.Context, userID string) (Stats, error) {
	stats, err := s.store.StatsByUser(ctx, userID)
	if err != nil {
		return Stats{}, &PersistenceError{Op: "aggregate stats", Err: err}
	}
	return stats, nil
}

// Statement returns the newest page of the active account's history
// annotated with reconstructed running balances, oldest first. The walk
// starts from that account's current balance, so the query is scoped to
// the account and must be contiguous with the present: a deactivated
// account's history never enters the arithmetic, and statements are
// unfiltered and offset from the newest transaction.
func (s *Service) Statement(ctx context.Context, userID string, page Page) ([]StatementEntry, error) {
	acct, err := s.accounts.GetActiveForUser(ctx, userID)
	if err != nil {
		if errors.Is(err, account.ErrNotFound) {
			return nil, &NoActiveAccountError{UserID: userID}
		}
		return nil, &PersistenceError{Op: "resolve account", Err: err}
	}

	page.Offset = 0
	txns, err := s.store.QueryByUser(ctx, userID, Filter{AccountID: &acct.ID}, page)
	if err != nil {
		return nil, &PersistenceError{Op: "query transactions", Err: err}
	}
	return WithRunningBalances(acct.Balance, txns), nil
}
