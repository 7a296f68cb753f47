package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/cleanworks/invoicing-system/internal/core/domain"
)

// Context keys set by Auth.
const (
	ContextKeyUserID = "user_id"
	ContextKeyEmail  = "email"
	ContextKeyRole   = "role"
	ContextKeyUser   = "user"
)

var errMissingSubject = errors.New("token missing subject")

// Auth validates the bearer JWT and injects the caller into the context.
// Tokens must be HS256, carry an exp claim and name the user in sub.
func Auth(jwtSecret string) echo.MiddlewareFunc {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)
	key := []byte(jwtSecret)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw, ok := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing or malformed bearer token")
			}

			user, err := callerFromToken(parser, key, raw)
			if errors.Is(err, errMissingSubject) {
				return echo.NewHTTPError(http.StatusUnauthorized, errMissingSubject.Error())
			}
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			c.Set(ContextKeyUserID, user.ID)
			c.Set(ContextKeyEmail, user.Email)
			c.Set(ContextKeyRole, user.Role)
			c.Set(ContextKeyUser, user)

			return next(c)
		}
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "bearer") || token == "" {
		return "", false
	}
	return token, true
}

func callerFromToken(parser *jwt.Parser, key []byte, raw string) (*domain.User, error) {
	claims := jwt.MapClaims{}
	if _, err := parser.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return key, nil
	}); err != nil {
		return nil, err
	}

	sub, _ := claims["sub"].(string)
	if sub == "" {
		return nil, errMissingSubject
	}
	email, _ := claims["email"].(string)
	role, _ := claims["role"].(string)
	return &domain.User{ID: sub, Email: email, Role: role}, nil
}

// UserFromContext returns the caller set by Auth, or nil.
func UserFromContext(c echo.Context) *domain.User {
	u, _ := c.Get(ContextKeyUser).(*domain.User)
	return u
}
