package domain

import "strings"

// Role is the permission level carried by an account and its tokens.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// DefaultRole is assigned when registration does not request one.
const DefaultRole = RoleUser

var roles = map[Role]struct{}{
	RoleUser:  {},
	RoleAdmin: {},
}

// ParseRole upper-cases s and matches it against the known roles.
// An empty string yields DefaultRole.
func ParseRole(s string) (Role, bool) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return DefaultRole, true
	}
	r := Role(s)
	if _, ok := roles[r]; !ok {
		return "", false
	}
	return r, true
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	_, ok := roles[r]
	return ok
}

func (r Role) String() string { return string(r) }
