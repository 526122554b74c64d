package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/kudipay/kudipay/internal/otp"
)

// RegisterOTPRoutes mounts the passcode issuance and verification
// endpoints. Both are public; verification is what establishes identity.
func RegisterOTPRoutes(r fiber.Router, h *otp.Handler) {
	r.Post("/otp/request", h.Request)
	r.Post("/otp/verify", h.Verify)
}
