package service

import (
	"testing"
	"time"

	"github.com/saam/backend/internal/core/domain"
	"github.com/saam/backend/internal/infrastructure/token"
)

func TestAuthorizer_Authorize(t *testing.T) {
	now := time.Date(2025, 9, 26, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	tokens := token.NewJWTService(testSecret, time.Hour, token.WithClock(clock))
	authz := NewAuthorizer(tokens)

	tok, err := tokens.Issue("ana@x.com", domain.RoleAdmin)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	for _, header := range []string{tok, "Bearer " + tok, "bearer " + tok, "  BEARER   " + tok + " "} {
		got := authz.Authorize(header)
		if !got.Valid || got.Subject != "ana@x.com" || got.Role != domain.RoleAdmin {
			t.Fatalf("header %q: unexpected authorization %+v", header, got)
		}
	}

	for _, header := range []string{"", "Bearer ", "Bearer garbage", "Token " + tok} {
		if got := authz.Authorize(header); got.Valid {
			t.Fatalf("header %q: expected invalid", header)
		}
	}

	now = now.Add(time.Hour)
	if got := authz.Authorize("Bearer " + tok); got.Valid {
		t.Fatalf("expired token must be rejected")
	}
}
