package token

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saam/backend/internal/core/domain"
)

const testSecret = "0123456789abcdef0123456789abcdef"

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newClock() *fakeClock {
	return &fakeClock{t: time.Date(2025, 9, 26, 12, 0, 0, 0, time.UTC)}
}

func TestIssue_ClaimsAndFormat(t *testing.T) {
	clock := newClock()
	svc := NewJWTService(testSecret, time.Hour, WithClock(clock.Now), WithIssuer("saam"))

	tok, err := svc.Issue("ana@x.com", domain.RoleUser)
	require.NoError(t, err)
	assert.Len(t, strings.Split(tok, "."), 3)

	claims, err := svc.parse(tok)
	require.NoError(t, err)
	assert.Equal(t, "ana@x.com", claims.Subject)
	assert.Equal(t, "USER", claims.Role)
	assert.Equal(t, "saam", claims.Issuer)
	assert.True(t, claims.IssuedAt.Time.Equal(clock.t))
	assert.True(t, claims.ExpiresAt.Time.Equal(clock.t.Add(time.Hour)))
}

func TestValidate_ExpiryBoundary(t *testing.T) {
	clock := newClock()
	svc := NewJWTService(testSecret, time.Hour, WithClock(clock.Now))

	tok, err := svc.Issue("ana@x.com", domain.RoleAdmin)
	require.NoError(t, err)
	assert.True(t, svc.Validate(tok))

	clock.Advance(time.Hour - time.Second)
	assert.True(t, svc.Validate(tok))

	clock.Advance(time.Second)
	assert.False(t, svc.Validate(tok), "token must be invalid once now reaches exp")

	clock.Advance(time.Hour)
	assert.False(t, svc.Validate(tok))
}

func TestValidate_Rejects(t *testing.T) {
	svc := NewJWTService(testSecret, time.Hour)
	other := NewJWTService("another-secret-another-secret-123", time.Hour)

	foreign, err := other.Issue("ana@x.com", domain.RoleUser)
	require.NoError(t, err)

	good, err := svc.Issue("ana@x.com", domain.RoleUser)
	require.NoError(t, err)
	parts := strings.Split(good, ".")
	tampered := parts[0] + "." + parts[1] + "." + strings.Repeat("A", len(parts[2]))

	noExp, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "ana@x.com", "role": "USER"}).
		SignedString([]byte(testSecret))
	require.NoError(t, err)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"sub": "ana@x.com", "role": "ADMIN", "exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	for name, tok := range map[string]string{
		"empty":        "",
		"garbage":      "not-a-token",
		"two segments": "a.b",
		"wrong secret": foreign,
		"tampered sig": tampered,
		"missing exp":  noExp,
		"alg none":     none,
	} {
		assert.False(t, svc.Validate(tok), name)
	}
}

func TestValidate_Issuer(t *testing.T) {
	issued := NewJWTService(testSecret, time.Hour, WithIssuer("someone-else"))
	svc := NewJWTService(testSecret, time.Hour, WithIssuer("saam"))

	tok, err := issued.Issue("ana@x.com", domain.RoleUser)
	require.NoError(t, err)
	assert.False(t, svc.Validate(tok))
}

func TestExtract(t *testing.T) {
	clock := newClock()
	svc := NewJWTService(testSecret, time.Minute, WithClock(clock.Now))

	tok, err := svc.Issue("ana@x.com", domain.RoleAdmin)
	require.NoError(t, err)

	// Extraction does not re-check expiry or signature.
	clock.Advance(time.Hour)
	sub, err := svc.ExtractSubject(tok)
	require.NoError(t, err)
	assert.Equal(t, "ana@x.com", sub)

	role, err := svc.ExtractRole(tok)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, role)
}

func TestExtract_Malformed(t *testing.T) {
	svc := NewJWTService(testSecret, time.Hour)

	_, err := svc.ExtractSubject("not-a-token")
	assert.Error(t, err)
	_, err = svc.ExtractRole("a.b.c")
	assert.Error(t, err)

	noRole, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "ana@x.com"}).
		SignedString([]byte(testSecret))
	require.NoError(t, err)
	_, err = svc.ExtractRole(noRole)
	assert.Error(t, err)
}

func TestNewJWTService_DefaultTTL(t *testing.T) {
	assert.Equal(t, DefaultTTL, NewJWTService(testSecret, 0).ttl)
}
