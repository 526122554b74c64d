package middleware

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// TransactionRateLimit caps transaction submissions per user per minute
// using Redis. This is transport back-pressure only; the monetary daily
// limit lives in the ledger and fails closed, so this limiter may
// fail open when the cache is unavailable.
func TransactionRateLimit(cache *redis.Client, maxPerMin int) fiber.Handler {
	if maxPerMin <= 0 {
		maxPerMin = 30
	}
	return func(c *fiber.Ctx) error {
		if cache == nil {
			return c.Next()
		}
		subject := UserID(c)
		if subject == "" {
			subject = c.IP()
		}

		key := "rl:tx:" + subject
		cnt, err := cache.Incr(c.UserContext(), key).Result()
		if err != nil {
			return c.Next()
		}
		if cnt == 1 {
			cache.Expire(c.UserContext(), key, time.Minute)
		}
		if cnt > int64(maxPerMin) {
			return fiber.NewError(http.StatusTooManyRequests, "too many transactions, slow down")
		}
		return c.Next()
	}
}
