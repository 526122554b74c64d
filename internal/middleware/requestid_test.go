package middleware

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

func requestIDApp() *fiber.App {
	app := fiber.New()
	app.Use(RequestID())
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString(RequestIDFrom(c))
	})
	return app
}

func TestRequestIDMintedWhenAbsent(t *testing.T) {
	app := requestIDApp()

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	resp.Body.Close()

	echoed := resp.Header.Get("X-Request-ID")
	if _, err := uuid.Parse(echoed); err != nil {
		t.Fatalf("response id %q is not a uuid", echoed)
	}
}

func TestRequestIDEchoesWellFormedCaller(t *testing.T) {
	app := requestIDApp()
	supplied := uuid.NewString()

	req := httptest.NewRequest(fiber.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", supplied)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	resp.Body.Close()

	if got := resp.Header.Get("X-Request-ID"); got != supplied {
		t.Fatalf("id = %q, want caller's %q", got, supplied)
	}
}

func TestRequestIDReplacesMalformedCaller(t *testing.T) {
	app := requestIDApp()

	req := httptest.NewRequest(fiber.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "not-a-uuid")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	resp.Body.Close()

	got := resp.Header.Get("X-Request-ID")
	if got == "not-a-uuid" {
		t.Fatal("malformed caller id must be replaced")
	}
	if _, err := uuid.Parse(got); err != nil {
		t.Fatalf("replacement id %q is not a uuid", got)
	}
}
