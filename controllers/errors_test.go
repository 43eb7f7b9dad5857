package controllers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/meinhoongagan/therapy-booking/apperr"
	"github.com/meinhoongagan/therapy-booking/utils"
)

func TestErrorHandlerStatusMapping(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{apperr.NotFound("appointment x not found"), fiber.StatusNotFound},
		{apperr.Conflict("appointment time conflicts with another booking"), fiber.StatusBadRequest},
		{apperr.BadRequest("cancellation reason is required"), fiber.StatusBadRequest},
		{apperr.Forbidden("access denied"), fiber.StatusForbidden},
		{apperr.Unauthorized("invalid token"), fiber.StatusUnauthorized},
		{apperr.Storage(errors.New("connection reset"), "query failed"), fiber.StatusInternalServerError},
		{errors.New("plain"), fiber.StatusInternalServerError},
		{fiber.NewError(fiber.StatusTeapot, "teapot"), fiber.StatusTeapot},
	}

	for _, c := range cases {
		app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler(zap.NewNop())})
		err := c.err
		app.Get("/", func(*fiber.Ctx) error { return err })

		resp, testErr := app.Test(httptest.NewRequest(fiber.MethodGet, "/", nil), -1)
		if testErr != nil {
			t.Fatalf("%v: %v", c.err, testErr)
		}
		if resp.StatusCode != c.status {
			t.Fatalf("%v: expected %d, got %d", c.err, c.status, resp.StatusCode)
		}
		raw, _ := io.ReadAll(resp.Body)
		var body utils.ErrorResponse
		if err := json.Unmarshal(raw, &body); err != nil || body.Message == "" {
			t.Fatalf("%v: bad body %s", c.err, raw)
		}
	}
}

func TestErrorHandlerHidesStorageDetail(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler(zap.NewNop())})
	app.Get("/", func(*fiber.Ctx) error {
		return apperr.Storage(errors.New("password authentication failed for user postgres"), "query failed")
	})

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/", nil), -1)
	if err != nil {
		t.Fatal(err)
	}
	raw, _ := io.ReadAll(resp.Body)
	var body utils.ErrorResponse
	if err := json.Unmarshal(raw, &body); err != nil {
		t.Fatal(err)
	}
	if body.Error != "unexpected error" {
		t.Fatalf("storage detail leaked: %q", body.Error)
	}
}

func TestParseDate(t *testing.T) {
	for _, in := range []string{"2025-03-10", "2025-03-10T00:00:00Z"} {
		got, err := parseDate("date", in)
		if err != nil {
			t.Fatalf("%s: %v", in, err)
		}
		if got.Year() != 2025 || got.Month() != 3 || got.Day() != 10 {
			t.Fatalf("%s: got %v", in, got)
		}
	}
	if _, err := parseDate("date", "10/03/2025"); !errors.Is(err, apperr.ErrBadRequest) {
		t.Fatalf("expected BadRequest, got %v", err)
	}
}
