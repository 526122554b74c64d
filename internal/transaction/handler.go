package transaction

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/kudipay/kudipay/internal/api"
	"github.com/kudipay/kudipay/internal/middleware"
)

// Handler exposes the transaction endpoints.
type Handler struct {
	service *Service
}

// NewHandler constructs a transaction handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type createRequest struct {
	Type        string            `json:"type"`
	Amount      decimal.Decimal   `json:"amount"`
	Description string            `json:"description"`
	Metadata    map[string]string `json:"metadata"`
}

// Create submits a new transaction and processes it to a terminal status.
func (h *Handler) Create(c *fiber.Ctx) error {
	var req createRequest
	if err := c.BodyParser(&req); err != nil {
		return api.Fail(c, http.StatusBadRequest, "VALIDATION_ERROR", "malformed request body")
	}

	txn, err := h.service.Create(c.UserContext(), middleware.UserID(c), middleware.UserTier(c), CreateInput{
		Type:        Type(req.Type),
		Amount:      req.Amount,
		Description: req.Description,
		Metadata:    req.Metadata,
	})
	if err != nil {
		code := ErrorCode(err)
		// A transaction that reached the rail and failed is still a
		// persisted record worth returning alongside the error.
		if txn.ID != "" {
			return c.Status(statusFor(code)).JSON(api.Envelope{
				Success: false,
				Data:    txn,
				Error:   &api.ErrorBody{Code: code, Message: err.Error()},
			})
		}
		return api.Fail(c, statusFor(code), code, err.Error())
	}

	return api.OK(c, http.StatusCreated, txn)
}

// List returns the caller's transaction history, newest first.
func (h *Handler) List(c *fiber.Ctx) error {
	filter, err := parseFilter(c)
	if err != nil {
		return api.Fail(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	}

	txns, err := h.service.GetUserTransactions(c.UserContext(), middleware.UserID(c), filter, parsePage(c))
	if err != nil {
		code := ErrorCode(err)
		return api.Fail(c, statusFor(code), code, err.Error())
	}

	return api.OK(c, http.StatusOK, fiber.Map{"transactions": txns, "count": len(txns)})
}

// GetByReference returns one of the caller's transactions by its reference.
func (h *Handler) GetByReference(c *fiber.Ctx) error {
	reference := c.Params("reference")

	txn, err := h.service.GetByReference(c.UserContext(), middleware.UserID(c), reference)
	if err != nil {
		code := ErrorCode(err)
		return api.Fail(c, statusFor(code), code, err.Error())
	}

	return api.OK(c, http.StatusOK, txn)
}

// Stats returns aggregate counters over the caller's history.
func (h *Handler) Stats(c *fiber.Ctx) error {
	stats, err := h.service.Stats(c.UserContext(), middleware.UserID(c))
	if err != nil {
		code := ErrorCode(err)
		return api.Fail(c, statusFor(code), code, err.Error())
	}

	return api.OK(c, http.StatusOK, stats)
}

// Statement returns the most recent transactions annotated with the
// balance after each completed entry.
func (h *Handler) Statement(c *fiber.Ctx) error {
	entries, err := h.service.Statement(c.UserContext(), middleware.UserID(c), parsePage(c))
	if err != nil {
		code := ErrorCode(err)
		return api.Fail(c, statusFor(code), code, err.Error())
	}

	return api.OK(c, http.StatusOK, fiber.Map{"entries": entries, "count": len(entries)})
}

func parsePage(c *fiber.Ctx) Page {
	var page Page
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			page.Limit = n
		}
	}
	if v := c.Query("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			page.Offset = n
		}
	}
	return page
}

func parseFilter(c *fiber.Ctx) (Filter, error) {
	var filter Filter
	if v := c.Query("type"); v != "" {
		t := Type(v)
		if !t.Valid() {
			return Filter{}, fiber.NewError(http.StatusBadRequest, "unknown transaction type "+strconv.Quote(v))
		}
		filter.Type = &t
	}
	if v := c.Query("status"); v != "" {
		s := Status(v)
		if !s.Valid() {
			return Filter{}, fiber.NewError(http.StatusBadRequest, "unknown status "+strconv.Quote(v))
		}
		filter.Status = &s
	}
	if v := c.Query("from"); v != "" {
		ts, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return Filter{}, fiber.NewError(http.StatusBadRequest, "from must be RFC3339")
		}
		filter.From = &ts
	}
	if v := c.Query("to"); v != "" {
		ts, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return Filter{}, fiber.NewError(http.StatusBadRequest, "to must be RFC3339")
		}
		filter.To = &ts
	}
	return filter, nil
}

func statusFor(code string) int {
	switch code {
	case "VALIDATION_ERROR", "INSUFFICIENT_BALANCE":
		return http.StatusBadRequest
	case "NO_ACTIVE_ACCOUNT", "NOT_FOUND":
		return http.StatusNotFound
	case "DAILY_LIMIT_EXCEEDED":
		return http.StatusForbidden
	case "ALREADY_FINALIZED":
		return http.StatusConflict
	case "EXTERNAL_PAYMENT_FAILED":
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
