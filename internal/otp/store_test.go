package otp

import (
	"context"
	"errors"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestStore(t *testing.T, ttl time.Duration) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { cache.Close() })

	return NewStore(cache, ttl), mr
}

func TestIssueAndVerify(t *testing.T) {
	store, _ := newTestStore(t, time.Minute)
	ctx := context.Background()

	code, err := store.Issue(ctx, "+2348012345678")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if len(code) != 6 {
		t.Fatalf("code %q should be six digits", code)
	}

	if err := store.Verify(ctx, "+2348012345678", code); err != nil {
		t.Fatalf("verify: %v", err)
	}
}

func TestVerifyConsumesCode(t *testing.T) {
	store, _ := newTestStore(t, time.Minute)
	ctx := context.Background()

	code, err := store.Issue(ctx, "+2348012345678")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if err := store.Verify(ctx, "+2348012345678", code); err != nil {
		t.Fatalf("first verify: %v", err)
	}
	if err := store.Verify(ctx, "+2348012345678", code); !errors.Is(err, ErrCodeExpired) {
		t.Fatalf("expected replay to fail with ErrCodeExpired, got %v", err)
	}
}

func TestVerifyWrongCode(t *testing.T) {
	store, _ := newTestStore(t, time.Minute)
	ctx := context.Background()

	if _, err := store.Issue(ctx, "+2348012345678"); err != nil {
		t.Fatalf("issue: %v", err)
	}
	if err := store.Verify(ctx, "+2348012345678", "000000"); !errors.Is(err, ErrCodeMismatch) {
		// One-in-a-million flake if the generated code is 000000.
		t.Fatalf("expected ErrCodeMismatch, got %v", err)
	}
}

func TestVerifyExpiredCode(t *testing.T) {
	store, mr := newTestStore(t, time.Minute)
	ctx := context.Background()

	code, err := store.Issue(ctx, "+2348012345678")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	mr.FastForward(2 * time.Minute)

	if err := store.Verify(ctx, "+2348012345678", code); !errors.Is(err, ErrCodeExpired) {
		t.Fatalf("expected ErrCodeExpired, got %v", err)
	}
}

func TestReissueReplacesCode(t *testing.T) {
	store, _ := newTestStore(t, time.Minute)
	ctx := context.Background()

	first, err := store.Issue(ctx, "+2348012345678")
	if err != nil {
		t.Fatalf("first issue: %v", err)
	}
	second, err := store.Issue(ctx, "+2348012345678")
	if err != nil {
		t.Fatalf("second issue: %v", err)
	}

	if first != second {
		if err := store.Verify(ctx, "+2348012345678", first); !errors.Is(err, ErrCodeMismatch) {
			t.Fatalf("stale code should mismatch, got %v", err)
		}
	}
	if err := store.Verify(ctx, "+2348012345678", second); err != nil {
		t.Fatalf("verify current code: %v", err)
	}
}
