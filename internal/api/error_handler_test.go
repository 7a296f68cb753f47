package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/cleanworks/invoicing-system/internal/core/domain"
)

func runErrorHandler(t *testing.T, err error, logs *bytes.Buffer) (*httptest.ResponseRecorder, errorResponse) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/invoice-draft/generate", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	NewHTTPErrorHandler(zerolog.New(logs))(err, c)

	var body errorResponse
	if jerr := json.Unmarshal(rec.Body.Bytes(), &body); jerr != nil {
		t.Fatalf("invalid json: %v", jerr)
	}
	return rec, body
}

func TestHTTPErrorHandler_StatusMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code int
	}{
		{"validation", domain.NewValidationError("hours", "please enter a valid number of hours worked"), http.StatusUnprocessableEntity},
		{"fetch", fmt.Errorf("%w: dial tcp", domain.ErrFetch), http.StatusBadGateway},
		{"persistence", fmt.Errorf("%w: insert", domain.ErrPersistence), http.StatusInternalServerError},
		{"in progress", domain.ErrAlreadyInProgress, http.StatusConflict},
		{"session busy", domain.ErrSessionBusy, http.StatusConflict},
		{"not generated", domain.ErrNotGenerated, http.StatusConflict},
		{"unauthenticated", domain.ErrUnauthenticated, http.StatusUnauthorized},
		{"forbidden", domain.ErrForbidden, http.StatusForbidden},
		{"credentials", domain.ErrInvalidCredentials, http.StatusUnauthorized},
		{"invoice missing", domain.ErrInvoiceNotFound, http.StatusNotFound},
		{"user missing", domain.ErrUserNotFound, http.StatusNotFound},
		{"user exists", domain.ErrUserExists, http.StatusConflict},
		{"echo error", echo.NewHTTPError(http.StatusBadRequest, "invalid payload"), http.StatusBadRequest},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec, _ := runErrorHandler(t, tc.err, &bytes.Buffer{})
			if rec.Code != tc.code {
				t.Fatalf("expected %d, got %d", tc.code, rec.Code)
			}
		})
	}
}

func TestHTTPErrorHandler_ValidationCarriesField(t *testing.T) {
	_, body := runErrorHandler(t, domain.NewValidationError("casual_place_name", "please fill in the casual place name"), &bytes.Buffer{})

	if body.Field != "casual_place_name" || body.Error != "please fill in the casual place name" {
		t.Fatalf("unexpected body %+v", body)
	}
}

func TestHTTPErrorHandler_PartialPersistenceCarriesNumber(t *testing.T) {
	err := &domain.PartialPersistenceError{InvoiceNumber: 42, Err: errors.New("connection reset")}
	logs := &bytes.Buffer{}

	rec, body := runErrorHandler(t, err, logs)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if body.InvoiceNumber == nil || *body.InvoiceNumber != 42 {
		t.Fatalf("expected invoice number 42, got %+v", body.InvoiceNumber)
	}
	if !strings.Contains(body.Error, "invoice 42 generated") {
		t.Fatalf("unexpected message %q", body.Error)
	}
	if !strings.Contains(logs.String(), `"invoice_number":42`) {
		t.Fatalf("expected the partial failure to be logged, got %s", logs.String())
	}
}

func TestHTTPErrorHandler_UnknownErrorIsNotLeaked(t *testing.T) {
	logs := &bytes.Buffer{}
	_, body := runErrorHandler(t, errors.New("pq: password authentication failed"), logs)

	if body.Error != "internal server error" {
		t.Fatalf("internal detail leaked: %q", body.Error)
	}
	if !strings.Contains(logs.String(), "password authentication failed") {
		t.Fatalf("expected cause in logs")
	}
}
