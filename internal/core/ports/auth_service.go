package ports

import (
	"context"
	"time"

	"github.com/saam/backend/internal/core/domain"
)

// RegisterInput is the registration request passed in from the transport layer.
type RegisterInput struct {
	Username string
	Email    string
	Password string
	Role     string // optional, defaults to USER
}

// AuthResult is returned by both Register and Login.
type AuthResult struct {
	ID       string
	Username string
	Email    string
	Role     domain.Role
	Active   bool
	Token    string
}

type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
}

// Authorization is the outcome of checking an inbound bearer token.
type Authorization struct {
	Valid   bool
	Subject string
	Role    domain.Role
}

// LoginLimiter tracks failed logins per email.
type LoginLimiter interface {
	Blocked(ctx context.Context, email string) (bool, error)
	RecordFailure(ctx context.Context, email string) error
	Reset(ctx context.Context, email string) error
}

// AuthEvent is an audit record of a registration or login attempt.
type AuthEvent struct {
	Kind    string // "register" or "login"
	Email   string
	Outcome string // "success" or a failure reason
	At      time.Time
}

// AuditRecorder accepts audit events without blocking the caller's flow.
type AuditRecorder interface {
	Record(event AuthEvent)
}

// AuthEventRepository persists audit events.
type AuthEventRepository interface {
	InsertEvent(ctx context.Context, event AuthEvent) error
}

// TokenAuthorizer validates an Authorization header value.
type TokenAuthorizer interface {
	Authorize(header string) Authorization
}
