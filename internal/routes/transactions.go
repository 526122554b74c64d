package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/kudipay/kudipay/internal/transaction"
)

// RegisterTransactionRoutes mounts the transaction endpoints. Submission
// carries a per-user rate limit; reads do not.
func RegisterTransactionRoutes(r fiber.Router, h *transaction.Handler, rateLimit fiber.Handler) {
	r.Post("/transactions", rateLimit, h.Create)
	r.Get("/transactions", h.List)
	r.Get("/transactions/stats", h.Stats)
	r.Get("/transactions/statement", h.Statement)
	r.Get("/transactions/reference/:reference", h.GetByReference)
}
