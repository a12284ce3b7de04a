package controllers

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// fakeAuth stands in for middleware.AuthRequired in handler-level tests.
func fakeAuth(c *fiber.Ctx) error {
	c.Locals("user_id", uuid.New())
	c.Locals("role", "user")
	return c.Next()
}

func TestUpdateProfileRejectsShortFullName(t *testing.T) {
	app := fiber.New()
	app.Patch("/profile", fakeAuth, UpdateProfile)

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	writer.WriteField("full_name", "ab")
	writer.Close()

	req := httptest.NewRequest("PATCH", "/profile", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestUpdateProfileWithoutContext(t *testing.T) {
	app := fiber.New()
	app.Patch("/profile", UpdateProfile)

	resp, err := app.Test(httptest.NewRequest("PATCH", "/profile", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", resp.StatusCode)
	}
}

func TestGetProfileWithoutContext(t *testing.T) {
	app := fiber.New()
	app.Get("/profile", GetProfile)

	resp, err := app.Test(httptest.NewRequest("GET", "/profile", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", resp.StatusCode)
	}
}
