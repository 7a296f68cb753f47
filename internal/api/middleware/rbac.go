package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/cleanworks/invoicing-system/internal/core/domain"
)

// RBAC lets the request through when the caller holds one of allowedRoles.
func RBAC(allowedRoles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user := UserFromContext(c)
			for _, role := range allowedRoles {
				if domain.HasRole(user, role) {
					return next(c)
				}
			}
			return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
		}
	}
}
