package provider

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentRequest carries everything the rail needs to attempt settlement
// of an airtime, data or bill payment.
type PaymentRequest struct {
	Reference string
	Category  string
	Amount    decimal.Decimal
	Currency  string
	Metadata  map[string]string
}

// PaymentResult is the rail's verdict. Success false means the payment
// was declined and no money should move.
type PaymentResult struct {
	Success           bool
	ExternalReference string
	Message           string
}

// Provider represents a connector to a third-party payment rail. Callers
// bound the call with a context deadline; a stuck rail must resolve to
// failure, never leave a transaction pending.
type Provider interface {
	AttemptPayment(ctx context.Context, req PaymentRequest) (PaymentResult, error)
}

// Simulated stands in for a real rail integration. It approves requests
// with a synthetic reference after an optional latency, and defers to
// the Decline hook when one is configured.
type Simulated struct {
	Latency time.Duration
	Decline func(PaymentRequest) bool
}

// AttemptPayment simulates a settlement attempt, honoring cancellation.
func (s Simulated) AttemptPayment(ctx context.Context, req PaymentRequest) (PaymentResult, error) {
	if s.Latency > 0 {
		timer := time.NewTimer(s.Latency)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return PaymentResult{}, ctx.Err()
		case <-timer.C:
		}
	} else if err := ctx.Err(); err != nil {
		return PaymentResult{}, err
	}

	if s.Decline != nil && s.Decline(req) {
		return PaymentResult{Success: false, Message: "declined by provider"}, nil
	}
	return PaymentResult{Success: true, ExternalReference: uuid.NewString(), Message: "approved"}, nil
}

// Static always returns a fixed outcome and records the last request.
// Test double for ledger processing paths.
type Static struct {
	Result PaymentResult
	Err    error

	LastRequest PaymentRequest
	Calls       int
}

// AttemptPayment returns the configured outcome.
func (s *Static) AttemptPayment(_ context.Context, req PaymentRequest) (PaymentResult, error) {
	s.LastRequest = req
	s.Calls++
	return s.Result, s.Err
}
