package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/saam/backend/internal/api/metrics"
	"github.com/saam/backend/internal/core/domain"
	"github.com/saam/backend/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
	authorizer  ports.TokenAuthorizer
}

func NewAuthHandler(authService ports.AuthService, authorizer ports.TokenAuthorizer) *AuthHandler {
	return &AuthHandler{authService: authService, authorizer: authorizer}
}

type registerRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=72,password"`
	Role     string `json:"role"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type accountResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	Active   bool   `json:"active"`
	Token    string `json:"token"`
}

type identityResponse struct {
	Subject string `json:"subject"`
	Role    string `json:"role"`
}

// apiResponse is the success envelope shared by all auth endpoints.
type apiResponse struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// Register handles POST /api/auth/register.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		metrics.RegistrationsTotal.WithLabelValues("invalid_input").Inc()
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		metrics.RegistrationsTotal.WithLabelValues("invalid_input").Inc()
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	res, err := h.authService.Register(c.Request().Context(), ports.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		metrics.RegistrationsTotal.WithLabelValues(registerResult(err)).Inc()
		return toHTTPError(err)
	}

	metrics.RegistrationsTotal.WithLabelValues("success").Inc()
	return c.JSON(http.StatusCreated, apiResponse{
		Status:  http.StatusCreated,
		Message: "account created",
		Data:    toAccountResponse(res),
	})
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		metrics.LoginsTotal.WithLabelValues("invalid_input").Inc()
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		metrics.LoginsTotal.WithLabelValues("invalid_input").Inc()
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	res, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues(loginResult(err)).Inc()
		return toHTTPError(err)
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	return c.JSON(http.StatusOK, apiResponse{
		Status:  http.StatusOK,
		Message: "login successful",
		Data:    toAccountResponse(res),
	})
}

// Validate handles GET /api/auth/validate. The token is read from the
// Authorization header.
func (h *AuthHandler) Validate(c echo.Context) error {
	authz := h.authorizer.Authorize(c.Request().Header.Get(echo.HeaderAuthorization))
	metrics.TokenValidationsTotal.WithLabelValues(metrics.ValidationResult(authz.Valid)).Inc()
	if !authz.Valid {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
	}

	return c.JSON(http.StatusOK, apiResponse{
		Status:  http.StatusOK,
		Message: "token valid",
		Data:    identityResponse{Subject: authz.Subject, Role: authz.Role.String()},
	})
}

// Me handles GET /api/auth/me behind the Auth middleware.
func (h *AuthHandler) Me(c echo.Context) error {
	email, role, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, apiResponse{
		Status:  http.StatusOK,
		Message: "authenticated",
		Data:    identityResponse{Subject: email, Role: role},
	})
}

func toAccountResponse(r *ports.AuthResult) accountResponse {
	return accountResponse{
		ID:       r.ID,
		Username: r.Username,
		Email:    r.Email,
		Role:     r.Role.String(),
		Active:   r.Active,
		Token:    r.Token,
	}
}

// toHTTPError keeps the domain error as the internal cause so the central
// error handler can title the response; unknown errors pass through as 500s.
func toHTTPError(err error) error {
	var status int
	switch {
	case errors.Is(err, domain.ErrAccountAlreadyExists):
		status = http.StatusConflict
	case errors.Is(err, domain.ErrInvalidRole), errors.Is(err, domain.ErrInvalidInput):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrInvalidCredentials):
		status = http.StatusUnauthorized
	case errors.Is(err, domain.ErrTooManyAttempts):
		status = http.StatusTooManyRequests
	default:
		return err
	}
	return echo.NewHTTPError(status, domain.Message(err)).SetInternal(err)
}

func registerResult(err error) string {
	switch {
	case errors.Is(err, domain.ErrAccountAlreadyExists):
		return "conflict"
	case errors.Is(err, domain.ErrInvalidRole):
		return "invalid_role"
	case errors.Is(err, domain.ErrInvalidInput):
		return "invalid_input"
	default:
		return "error"
	}
}

func loginResult(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		return "invalid_credentials"
	case errors.Is(err, domain.ErrTooManyAttempts):
		return "throttled"
	default:
		return "error"
	}
}
