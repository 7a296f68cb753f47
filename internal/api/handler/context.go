package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/cleanworks/invoicing-system/internal/api/middleware"
	"github.com/cleanworks/invoicing-system/internal/core/domain"
)

// ctxUser returns the caller injected by the Auth middleware. A missing user
// means the route was mounted without Auth, so the request is rejected before
// any service call.
func ctxUser(c echo.Context) (*domain.User, error) {
	u := middleware.UserFromContext(c)
	if u == nil || u.ID == "" {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return u, nil
}

// bindAndValidate decodes the body into req and runs the struct validator.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}
	return nil
}
