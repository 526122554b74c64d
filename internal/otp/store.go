package otp

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
)

const (
	keyPrefix  = "otp:v1:"
	defaultTTL = 5 * time.Minute
	codeSpace  = 1_000_000 // six digits
)

var (
	// ErrCodeExpired indicates no live code exists for the subject.
	ErrCodeExpired = errors.New("otp expired or never issued")
	// ErrCodeMismatch indicates the presented code does not match.
	ErrCodeMismatch = errors.New("otp does not match")
)

// Store keeps one-time passcodes in an external expiring key-value store.
// Codes are bcrypt-hashed at rest and consumed on successful
// verification. The store owns no process-local state, so any number of
// API workers share the same view of live codes.
type Store struct {
	cache *redis.Client
	ttl   time.Duration
}

// NewStore builds an OTP store over Redis. A non-positive ttl falls back
// to five minutes.
func NewStore(cache *redis.Client, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &Store{cache: cache, ttl: ttl}
}

// Issue generates a six-digit code for the subject (phone or user id),
// replacing any previously issued code, and returns it for delivery.
func (s *Store) Issue(ctx context.Context, subject string) (string, error) {
	if subject == "" {
		return "", fmt.Errorf("otp subject is required")
	}

	n, err := rand.Int(rand.Reader, big.NewInt(codeSpace))
	if err != nil {
		return "", fmt.Errorf("generate otp: %w", err)
	}
	code := fmt.Sprintf("%06d", n.Int64())

	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash otp: %w", err)
	}

	if err := s.cache.Set(ctx, keyPrefix+subject, hash, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("store otp: %w", err)
	}
	return code, nil
}

// Verify checks the presented code against the live one for the subject.
// A correct code is consumed so it cannot be replayed.
func (s *Store) Verify(ctx context.Context, subject, code string) error {
	key := keyPrefix + subject

	hash, err := s.cache.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrCodeExpired
		}
		return fmt.Errorf("load otp: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(code)); err != nil {
		return ErrCodeMismatch
	}

	if err := s.cache.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("consume otp: %w", err)
	}
	return nil
}
