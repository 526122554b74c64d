package middleware

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	userIDHeader   = "X-User-ID"
	userTierHeader = "X-User-Tier"

	// UserIDKey and UserTierKey are the request-local keys set by Identity.
	UserIDKey   = "user_id"
	UserTierKey = "user_tier"
)

// Identity trusts the caller identity injected by the upstream auth
// gateway, which has already verified the session token. Requests
// without a well-formed user id are rejected; a missing or malformed
// tier falls back to tier 1, never to a wider allowance.
func Identity() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := c.Get(userIDHeader)
		if userID == "" {
			return fiber.NewError(http.StatusUnauthorized, "missing user identity")
		}
		if _, err := uuid.Parse(userID); err != nil {
			return fiber.NewError(http.StatusUnauthorized, "malformed user identity")
		}

		tierLevel := 1
		if v := c.Get(userTierHeader); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n >= 1 && n <= 3 {
				tierLevel = n
			}
		}

		c.Locals(UserIDKey, userID)
		c.Locals(UserTierKey, tierLevel)
		return c.Next()
	}
}

// UserID extracts the authenticated user id set by Identity.
func UserID(c *fiber.Ctx) string {
	id, _ := c.Locals(UserIDKey).(string)
	return id
}

// UserTier extracts the verification tier set by Identity.
func UserTier(c *fiber.Ctx) int {
	if level, ok := c.Locals(UserTierKey).(int); ok {
		return level
	}
	return 1
}
