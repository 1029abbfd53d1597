package service

import (
	"strings"

	"github.com/saam/backend/internal/core/ports"
)

const bearerPrefix = "bearer "

// Authorizer checks inbound bearer tokens and extracts the caller's identity.
type Authorizer struct {
	tokens ports.TokenService
}

func NewAuthorizer(tokens ports.TokenService) *Authorizer {
	return &Authorizer{tokens: tokens}
}

// Authorize accepts a raw token or an Authorization header value with a
// "Bearer " prefix. Any failure yields Authorization{Valid: false}.
func (a *Authorizer) Authorize(header string) ports.Authorization {
	token := strings.TrimSpace(header)
	if len(token) >= len(bearerPrefix) && strings.EqualFold(token[:len(bearerPrefix)], bearerPrefix) {
		token = strings.TrimSpace(token[len(bearerPrefix):])
	}
	if token == "" || !a.tokens.Validate(token) {
		return ports.Authorization{}
	}

	subject, err := a.tokens.ExtractSubject(token)
	if err != nil || subject == "" {
		return ports.Authorization{}
	}
	role, err := a.tokens.ExtractRole(token)
	if err != nil {
		return ports.Authorization{}
	}

	return ports.Authorization{Valid: true, Subject: subject, Role: role}
}
