package account

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/kudipay/kudipay/internal/api"
	"github.com/kudipay/kudipay/internal/middleware"
	"github.com/kudipay/kudipay/internal/tier"
)

// Handler exposes account endpoints.
type Handler struct {
	store Store
}

// NewHandler constructs an account handler.
func NewHandler(store Store) *Handler {
	return &Handler{store: store}
}

// Me returns the caller's active account together with the limits of
// their verification tier.
func (h *Handler) Me(c *fiber.Ctx) error {
	acct, err := h.store.GetActiveForUser(c.UserContext(), middleware.UserID(c))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return api.Fail(c, http.StatusNotFound, "NO_ACTIVE_ACCOUNT", "no active account for user")
		}
		return api.Fail(c, http.StatusInternalServerError, "PERSISTENCE_ERROR", err.Error())
	}

	return api.OK(c, http.StatusOK, fiber.Map{
		"account": acct,
		"tier":    tier.LimitsFor(middleware.UserTier(c)),
	})
}
