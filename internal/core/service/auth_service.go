package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/saam/backend/internal/core/domain"
	"github.com/saam/backend/internal/core/ports"
)

const (
	eventRegister = "register"
	eventLogin    = "login"

	genericLoginMessage = "invalid email or password"
)

// registration mirrors the account rules so callers outside HTTP get the
// same guarantees as the request validator.
type registration struct {
	Username string `validate:"required,min=3,max=50"`
	Email    string `validate:"required,email"`
	Password string `validate:"required"`
}

var inputValidator = validator.New()

// AuthService implements registration and login.
type AuthService struct {
	repo    ports.AccountRepository
	hasher  ports.PasswordHasher
	tokens  ports.TokenService
	limiter ports.LoginLimiter
	audit   ports.AuditRecorder
	log     zerolog.Logger
	now     func() time.Time

	genericLoginErrors bool
}

type Option func(*AuthService)

// WithLoginLimiter throttles repeated failed logins per email.
func WithLoginLimiter(l ports.LoginLimiter) Option {
	return func(s *AuthService) { s.limiter = l }
}

// WithAuditRecorder emits an AuthEvent for every register and login attempt.
func WithAuditRecorder(r ports.AuditRecorder) Option {
	return func(s *AuthService) { s.audit = r }
}

// WithGenericLoginErrors makes "unknown email" and "wrong password" return
// the same message so login responses do not reveal registered emails.
func WithGenericLoginErrors(enabled bool) Option {
	return func(s *AuthService) { s.genericLoginErrors = enabled }
}

func NewAuthService(
	repo ports.AccountRepository,
	hasher ports.PasswordHasher,
	tokens ports.TokenService,
	log zerolog.Logger,
	opts ...Option,
) *AuthService {
	s := &AuthService{
		repo:   repo,
		hasher: hasher,
		tokens: tokens,
		log:    log,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register creates an account and returns it with a fresh token. The email
// check runs before hashing so duplicates cost nothing; the store's unique
// constraint remains the authoritative guard against concurrent inserts.
func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*ports.AuthResult, error) {
	email := normalizeEmail(in.Email)
	username := strings.TrimSpace(in.Username)

	if err := validateRegistration(username, email, in.Password); err != nil {
		s.record(eventRegister, email, "invalid_input")
		return nil, err
	}

	_, err := s.repo.FindByEmail(ctx, email)
	switch {
	case err == nil:
		s.record(eventRegister, email, "email_taken")
		return nil, domain.Errorf(domain.ErrAccountAlreadyExists, "email %s is already registered", email)
	case !errors.Is(err, domain.ErrAccountNotFound):
		return nil, fmt.Errorf("register: lookup email: %w", err)
	}

	role, ok := domain.ParseRole(in.Role)
	if !ok {
		s.record(eventRegister, email, "invalid_role")
		return nil, domain.Errorf(domain.ErrInvalidRole, "invalid role: %s", in.Role)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("register: hash password: %w", err)
	}

	saved, err := s.repo.Save(ctx, &domain.Account{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		Active:       true,
		CreatedAt:    s.now().UTC(),
	})
	if err != nil {
		if errors.Is(err, domain.ErrAccountAlreadyExists) {
			s.record(eventRegister, email, "email_taken")
			return nil, err
		}
		s.log.Error().Err(err).Str("email", email).Msg("failed to save account")
		return nil, fmt.Errorf("register: save account: %w", err)
	}

	token, err := s.tokens.Issue(saved.Email, saved.Role)
	if err != nil {
		return nil, fmt.Errorf("register: issue token: %w", err)
	}

	s.record(eventRegister, email, "success")
	s.log.Info().Str("account_id", saved.ID).Str("role", saved.Role.String()).Msg("account registered")

	return result(saved, token), nil
}

// Login verifies the password for email and returns a fresh token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*ports.AuthResult, error) {
	email = normalizeEmail(email)

	if s.blocked(ctx, email) {
		s.record(eventLogin, email, "throttled")
		return nil, domain.Errorf(domain.ErrTooManyAttempts, "too many failed login attempts, try again later")
	}

	account, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			s.failLogin(ctx, email, "unknown_email")
			return nil, s.loginError("email %s is not registered", email)
		}
		return nil, fmt.Errorf("login: lookup email: %w", err)
	}

	if !s.hasher.Verify(password, account.PasswordHash) {
		s.failLogin(ctx, email, "invalid_password")
		return nil, s.loginError("invalid password")
	}

	token, err := s.tokens.Issue(account.Email, account.Role)
	if err != nil {
		return nil, fmt.Errorf("login: issue token: %w", err)
	}

	if s.limiter != nil {
		if err := s.limiter.Reset(ctx, email); err != nil {
			s.log.Warn().Err(err).Str("email", email).Msg("failed to reset login limiter")
		}
	}
	s.record(eventLogin, email, "success")
	s.log.Debug().Str("account_id", account.ID).Msg("login succeeded")

	return result(account, token), nil
}

func (s *AuthService) loginError(format string, args ...any) error {
	if s.genericLoginErrors {
		return domain.Errorf(domain.ErrInvalidCredentials, genericLoginMessage)
	}
	return domain.Errorf(domain.ErrInvalidCredentials, format, args...)
}

// blocked fails open: a limiter outage must not lock everyone out.
func (s *AuthService) blocked(ctx context.Context, email string) bool {
	if s.limiter == nil {
		return false
	}
	blocked, err := s.limiter.Blocked(ctx, email)
	if err != nil {
		s.log.Warn().Err(err).Str("email", email).Msg("login limiter check failed")
		return false
	}
	return blocked
}

func (s *AuthService) failLogin(ctx context.Context, email, reason string) {
	s.record(eventLogin, email, reason)
	if s.limiter == nil {
		return
	}
	if err := s.limiter.RecordFailure(ctx, email); err != nil {
		s.log.Warn().Err(err).Str("email", email).Msg("failed to record login failure")
	}
}

func (s *AuthService) record(kind, email, outcome string) {
	if s.audit == nil {
		return
	}
	s.audit.Record(ports.AuthEvent{Kind: kind, Email: email, Outcome: outcome, At: s.now().UTC()})
}

// validateRegistration runs before any lookup or hashing. Passwords over
// domain.PasswordMaxBytes are rejected here because bcrypt refuses them.
func validateRegistration(username, email, password string) error {
	err := inputValidator.Struct(registration{Username: username, Email: email, Password: password})
	var ve validator.ValidationErrors
	if errors.As(err, &ve) && len(ve) > 0 {
		return domain.Errorf(domain.ErrInvalidInput, "invalid %s", strings.ToLower(ve[0].Field()))
	}
	if err != nil {
		return fmt.Errorf("register: validate input: %w", err)
	}
	if len(password) > domain.PasswordMaxBytes {
		return domain.Errorf(domain.ErrInvalidInput, "password must be at most %d bytes", domain.PasswordMaxBytes)
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func result(a *domain.Account, token string) *ports.AuthResult {
	return &ports.AuthResult{
		ID:       a.ID,
		Username: a.Username,
		Email:    a.Email,
		Role:     a.Role,
		Active:   a.Active,
		Token:    token,
	}
}
