// Package token issues and validates the HS256 bearer tokens handed out on
// registration and login. Tokens are stateless: nothing is stored server-side
// and a token stays valid until its exp claim passes.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/saam/backend/internal/core/domain"
)

// DefaultTTL is the lifetime of an issued token when none is configured.
const DefaultTTL = time.Hour

var errMissingRole = errors.New("token: missing role claim")

type accessClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// JWTService signs and validates access tokens with a symmetric key.
type JWTService struct {
	secret []byte
	ttl    time.Duration
	issuer string
	now    func() time.Time
}

type Option func(*JWTService)

// WithIssuer sets the iss claim and requires it on validation.
func WithIssuer(issuer string) Option {
	return func(s *JWTService) { s.issuer = issuer }
}

// WithClock replaces the wall clock used for iat, exp and validation.
func WithClock(now func() time.Time) Option {
	return func(s *JWTService) { s.now = now }
}

func NewJWTService(secret string, ttl time.Duration, opts ...Option) *JWTService {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	s := &JWTService{secret: []byte(secret), ttl: ttl, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Issue returns a signed token for email and role expiring one TTL from now.
func (s *JWTService) Issue(email string, role domain.Role) (string, error) {
	now := s.now()
	claims := accessClaims{
		Role: role.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Validate reports whether token carries a valid signature and the current
// time is strictly before its expiry.
func (s *JWTService) Validate(token string) bool {
	_, err := s.parse(token)
	return err == nil
}

// ExtractSubject decodes the sub claim without verifying the signature.
func (s *JWTService) ExtractSubject(token string) (string, error) {
	claims, err := decodeUnverified(token)
	if err != nil {
		return "", err
	}
	return claims.Subject, nil
}

// ExtractRole decodes the role claim without verifying the signature.
func (s *JWTService) ExtractRole(token string) (domain.Role, error) {
	claims, err := decodeUnverified(token)
	if err != nil {
		return "", err
	}
	if claims.Role == "" {
		return "", errMissingRole
	}
	return domain.Role(claims.Role), nil
}

func (s *JWTService) parse(token string) (*accessClaims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	}
	if s.issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.issuer))
	}

	claims := &accessClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}
	if !parsed.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}

func decodeUnverified(token string) (*accessClaims, error) {
	claims := &accessClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("decode token: %w", err)
	}
	return claims, nil
}
