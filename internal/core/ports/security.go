package ports

import "github.com/saam/backend/internal/core/domain"

// PasswordHasher turns plaintext passwords into salted one-way digests.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	// Verify reports whether plaintext matches digest. A malformed digest
	// is a mismatch.
	Verify(plaintext, digest string) bool
}

// TokenService issues and checks signed, expiring bearer tokens.
type TokenService interface {
	Issue(email string, role domain.Role) (string, error)
	// Validate reports whether the signature verifies and the token has not
	// expired. It never returns an error.
	Validate(token string) bool
	// ExtractSubject and ExtractRole decode claims without checking the
	// signature; call Validate first.
	ExtractSubject(token string) (string, error)
	ExtractRole(token string) (domain.Role, error)
}
