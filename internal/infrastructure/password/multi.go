package password

import (
	"fmt"
	"strings"
)

const (
	AlgorithmBcrypt   = "bcrypt"
	AlgorithmArgon2id = "argon2id"
)

// Multi hashes with the configured algorithm and verifies digests produced
// by any supported algorithm, so the primary can change without locking out
// existing accounts.
type Multi struct {
	primary  string
	bcrypt   *Bcrypt
	argon2id *Argon2id
}

// New returns a Multi hasher whose primary algorithm is algorithm.
func New(algorithm string, bcryptCost int, argon Argon2idParams) (*Multi, error) {
	algorithm = strings.ToLower(strings.TrimSpace(algorithm))
	if algorithm == "" {
		algorithm = AlgorithmBcrypt
	}
	if algorithm != AlgorithmBcrypt && algorithm != AlgorithmArgon2id {
		return nil, fmt.Errorf("password: unsupported algorithm %q", algorithm)
	}
	return &Multi{
		primary:  algorithm,
		bcrypt:   NewBcrypt(bcryptCost),
		argon2id: NewArgon2id(argon),
	}, nil
}

func (m *Multi) Hash(plaintext string) (string, error) {
	if m.primary == AlgorithmArgon2id {
		return m.argon2id.Hash(plaintext)
	}
	return m.bcrypt.Hash(plaintext)
}

func (m *Multi) Verify(plaintext, digest string) bool {
	switch {
	case strings.HasPrefix(digest, argon2idPrefix):
		return m.argon2id.Verify(plaintext, digest)
	case isBcrypt(digest):
		return m.bcrypt.Verify(plaintext, digest)
	default:
		return false
	}
}
