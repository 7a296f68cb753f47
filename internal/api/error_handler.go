package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/cleanworks/invoicing-system/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error         string `json:"error"`
	Field         string `json:"field,omitempty"`
	InvoiceNumber *int64 `json:"invoice_number,omitempty"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"error": "<message>"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, body := resolveError(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, body)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, errorResponse) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, errorResponse{Error: fmt.Sprintf("%v", he.Message)}
	}

	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		return http.StatusUnprocessableEntity, errorResponse{Error: ve.Message, Field: ve.Field}
	}

	var pe *domain.PartialPersistenceError
	if errors.As(err, &pe) {
		log.Error().
			Err(err).
			Int64("invoice_number", pe.InvoiceNumber).
			Str("path", c.Path()).
			Msg("invoice saved without entries")
		number := pe.InvoiceNumber
		return http.StatusInternalServerError, errorResponse{Error: pe.Error(), InvoiceNumber: &number}
	}

	// Known domain errors → deterministic HTTP codes.
	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusUnprocessableEntity, errorResponse{Error: err.Error()}
	case errors.Is(err, domain.ErrFetch):
		log.Warn().Err(err).Str("path", c.Path()).Msg("upstream fetch failed")
		return http.StatusBadGateway, errorResponse{Error: "failed to fetch places"}
	case errors.Is(err, domain.ErrPersistence):
		log.Error().Err(err).Str("path", c.Path()).Msg("persistence failed")
		return http.StatusInternalServerError, errorResponse{Error: "failed to save invoice"}
	case errors.Is(err, domain.ErrAlreadyInProgress):
		return http.StatusConflict, errorResponse{Error: "invoice generation already in progress"}
	case errors.Is(err, domain.ErrSessionBusy):
		return http.StatusConflict, errorResponse{Error: "draft is being changed by another request, retry"}
	case errors.Is(err, domain.ErrNotGenerated):
		return http.StatusConflict, errorResponse{Error: "invoice has not been generated yet"}
	case errors.Is(err, domain.ErrInvalidTransition):
		return http.StatusConflict, errorResponse{Error: err.Error()}
	case errors.Is(err, domain.ErrUnauthenticated):
		return http.StatusUnauthorized, errorResponse{Error: "authentication required"}
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, errorResponse{Error: "access forbidden"}
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, errorResponse{Error: "invalid credentials"}
	case errors.Is(err, domain.ErrInvoiceNotFound):
		return http.StatusNotFound, errorResponse{Error: "invoice not found"}
	case errors.Is(err, domain.ErrPlaceNotFound):
		return http.StatusNotFound, errorResponse{Error: "place not found"}
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, errorResponse{Error: "user not found"}
	case errors.Is(err, domain.ErrUserExists):
		return http.StatusConflict, errorResponse{Error: "user already exists"}
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, errorResponse{Error: "internal server error"}
}
