package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/saam/backend/internal/api/handler"
	"github.com/saam/backend/internal/api/metrics"
	"github.com/saam/backend/internal/core/ports"
)

// Auth validates the bearer token and injects the caller's email and role
// into the context.
func Auth(authorizer ports.TokenAuthorizer) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			if header == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			authz := authorizer.Authorize(header)
			metrics.TokenValidationsTotal.WithLabelValues(metrics.ValidationResult(authz.Valid)).Inc()
			if !authz.Valid {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			c.Set(handler.CtxEmail, authz.Subject)
			c.Set(handler.CtxRole, authz.Role.String())

			return next(c)
		}
	}
}
