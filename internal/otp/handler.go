package otp

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/kudipay/kudipay/internal/api"
	"github.com/kudipay/kudipay/internal/notification"
)

// Handler exposes passcode issuance and verification endpoints.
type Handler struct {
	store    *Store
	notifier notification.Notifier
}

// NewHandler constructs an OTP handler.
func NewHandler(store *Store, notifier notification.Notifier) *Handler {
	return &Handler{store: store, notifier: notifier}
}

type requestBody struct {
	Phone string `json:"phone"`
}

type verifyBody struct {
	Phone string `json:"phone"`
	Code  string `json:"code"`
}

// Request issues a fresh code for the phone number and hands it to the
// notifier for delivery. The code itself never appears in the response.
func (h *Handler) Request(c *fiber.Ctx) error {
	var req requestBody
	if err := c.BodyParser(&req); err != nil || req.Phone == "" {
		return api.Fail(c, http.StatusBadRequest, "VALIDATION_ERROR", "phone is required")
	}

	code, err := h.store.Issue(c.UserContext(), req.Phone)
	if err != nil {
		return api.Fail(c, http.StatusInternalServerError, "INTERNAL_ERROR", "could not issue code")
	}

	if err := h.notifier.Send(c.UserContext(), notification.Message{
		Kind:        notification.KindOTPIssued,
		Destination: req.Phone,
		Body:        "Your verification code is " + code,
	}); err != nil {
		return api.Fail(c, http.StatusInternalServerError, "INTERNAL_ERROR", "could not deliver code")
	}

	return api.OK(c, http.StatusAccepted, fiber.Map{"phone": req.Phone})
}

// Verify checks a presented code. A correct code is consumed.
func (h *Handler) Verify(c *fiber.Ctx) error {
	var req verifyBody
	if err := c.BodyParser(&req); err != nil || req.Phone == "" || req.Code == "" {
		return api.Fail(c, http.StatusBadRequest, "VALIDATION_ERROR", "phone and code are required")
	}

	if err := h.store.Verify(c.UserContext(), req.Phone, req.Code); err != nil {
		switch {
		case errors.Is(err, ErrCodeExpired), errors.Is(err, ErrCodeMismatch):
			return api.Fail(c, http.StatusUnauthorized, "OTP_INVALID", "code is invalid or expired")
		default:
			return api.Fail(c, http.StatusInternalServerError, "INTERNAL_ERROR", "could not verify code")
		}
	}

	return api.OK(c, http.StatusOK, fiber.Map{"verified": true})
}
