package provider

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestSimulatedApproves(t *testing.T) {
	p := Simulated{}
	res, err := p.AttemptPayment(context.Background(), PaymentRequest{
		Reference: "AIR_1_001",
		Category:  "airtime",
		Amount:    decimal.NewFromInt(500),
		Currency:  "NGN",
	})
	if err != nil {
		t.Fatalf("attempt: %v", err)
	}
	if !res.Success || res.ExternalReference == "" {
		t.Fatalf("expected approval with reference, got %+v", res)
	}
}

func TestSimulatedDeclineHook(t *testing.T) {
	p := Simulated{Decline: func(req PaymentRequest) bool {
		return req.Amount.GreaterThan(decimal.NewFromInt(1_000))
	}}

	res, err := p.AttemptPayment(context.Background(), PaymentRequest{Amount: decimal.NewFromInt(5_000)})
	if err != nil {
		t.Fatalf("attempt: %v", err)
	}
	if res.Success {
		t.Fatal("expected decline")
	}
}

func TestSimulatedHonorsDeadline(t *testing.T) {
	p := Simulated{Latency: time.Second}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := p.AttemptPayment(ctx, PaymentRequest{Amount: decimal.NewFromInt(100)})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}
