package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"github.com/Alijeyrad/simorq_mailer/pkg/reqctx"
)

func newApp() *fiber.App {
	app := fiber.New()
	app.Use(RequestID())
	app.Get("/", func(c fiber.Ctx) error {
		local, _ := RequestIDFromFiber(c)
		if local != reqctx.RequestIDFromContext(c.Context()) {
			return c.SendStatus(fiber.StatusInternalServerError)
		}
		return c.SendString(local)
	})
	return app
}

func TestRequestID_PreservesIncoming(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderRequestID, "caller-id")

	resp, err := newApp().Test(req)
	if err != nil {
		t.Fatalf("Test() error = %v", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if string(body) != "caller-id" {
		t.Errorf("context request id = %q, want caller-id", body)
	}
	if got := resp.Header.Get(HeaderRequestID); got != "caller-id" {
		t.Errorf("response header = %q, want caller-id", got)
	}
}

func TestRequestID_Generates(t *testing.T) {
	resp, err := newApp().Test(httptest.NewRequest(http.MethodGet, "/", nil))
	if err != nil {
		t.Fatalf("Test() error = %v", err)
	}
	defer resp.Body.Close()

	rid := resp.Header.Get(HeaderRequestID)
	if _, err := uuid.Parse(rid); err != nil {
		t.Errorf("generated request id %q is not a UUID: %v", rid, err)
	}
}
