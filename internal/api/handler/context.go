package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Context keys set by the Auth middleware.
const (
	CtxEmail = "email"
	CtxRole  = "role"
)

// ctxIdentity returns the caller identity injected by the Auth middleware.
// A missing email means the route was mounted without the middleware.
func ctxIdentity(c echo.Context) (email, role string, err error) {
	email, _ = c.Get(CtxEmail).(string)
	role, _ = c.Get(CtxRole).(string)
	if email == "" || role == "" {
		return "", "", echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return email, role, nil
}
