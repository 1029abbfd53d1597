package domain

import "time"

// PasswordMaxBytes is the longest plaintext bcrypt accepts.
const PasswordMaxBytes = 72

// Account is a registered identity. PasswordHash is never serialised.
type Account struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	Active       bool      `json:"active"`
	CreatedAt    time.Time `json:"created_at"`
}
