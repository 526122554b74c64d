package transaction

import (
	"errors"
	"fmt"
)

// Sentinel errors for lookup and lifecycle violations.
var (
	// ErrNotFound indicates no transaction matched the lookup.
	ErrNotFound = errors.New("transaction not found")
	// ErrAlreadyFinal indicates an attempt to move a transaction out of a
	// terminal status.
	ErrAlreadyFinal = errors.New("transaction already finalized")
)

// ValidationError reports malformed input rejected before anything is
// persisted.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return "validation: " + e.Reason }

// Code returns the stable error code surfaced to API clients.
func (e *ValidationError) Code() string { return "VALIDATION_ERROR" }

// NoActiveAccountError indicates the user has no resolvable active account.
type NoActiveAccountError struct {
	UserID string
}

func (e *NoActiveAccountError) Error() string {
	return fmt.Sprintf("no active account for user %s", e.UserID)
}

func (e *NoActiveAccountError) Code() string { return "NO_ACTIVE_ACCOUNT" }

// PersistenceError wraps a store failure. Limit and balance checks fail
// closed on it: the transaction is rejected rather than allowed through.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string { return fmt.Sprintf("persistence: %s: %v", e.Op, e.Err) }
func (e *PersistenceError) Unwrap() error { return e.Err }
func (e *PersistenceError) Code() string  { return "PERSISTENCE_ERROR" }

// ExternalPaymentError reports a declined or unreachable payment rail.
// The transaction persists as failed and the balance is untouched.
type ExternalPaymentError struct {
	Reference string
	Reason    string
}

func (e *ExternalPaymentError) Error() string {
	return fmt.Sprintf("external payment %s failed: %s", e.Reference, e.Reason)
}

func (e *ExternalPaymentError) Code() string { return "EXTERNAL_PAYMENT_FAILED" }

// InternalError reports an unexpected fault during processing. The
// original cause is logged, never surfaced to callers.
type InternalError struct {
	Err error
}

func (e *InternalError) Error() string { return "internal processing error" }
func (e *InternalError) Unwrap() error { return e.Err }
func (e *InternalError) Code() string  { return "INTERNAL_ERROR" }

// coded is satisfied by every error carrying a stable client-facing code.
type coded interface {
	error
	Code() string
}

// ErrorCode maps any error from this package (or its collaborators) to a
// stable code for the response envelope.
func ErrorCode(err error) string {
	var c coded
	if errors.As(err, &c) {
		return c.Code()
	}
	switch {
	case errors.Is(err, ErrNotFound):
		return "NOT_FOUND"
	case errors.Is(err, ErrAlreadyFinal):
		return "ALREADY_FINALIZED"
	default:
		return "INTERNAL_ERROR"
	}
}
