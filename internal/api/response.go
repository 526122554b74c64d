package api

import "github.com/gofiber/fiber/v2"

// ErrorBody carries a stable machine-readable code plus a human-readable
// message. Codes come from the domain error types; the HTTP layer only
// maps them to status codes.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Envelope is the uniform response shape for every endpoint.
type Envelope struct {
	Success bool       `json:"success"`
	Data    any        `json:"data,omitempty"`
	Error   *ErrorBody `json:"error,omitempty"`
}

// OK writes a success envelope.
func OK(c *fiber.Ctx, status int, data any) error {
	return c.Status(status).JSON(Envelope{Success: true, Data: data})
}

// Fail writes an error envelope.
func Fail(c *fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(Envelope{Success: false, Error: &ErrorBody{Code: code, Message: message}})
}
