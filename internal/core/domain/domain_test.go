package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestParseRole(t *testing.T) {
	cases := []struct {
		in   string
		want Role
		ok   bool
	}{
		{"USER", RoleUser, true},
		{"admin", RoleAdmin, true},
		{"ADMIN", RoleAdmin, true},
		{"AdMiN", RoleAdmin, true},
		{" user ", RoleUser, true},
		{"", RoleUser, true},
		{"manager", "", false},
		{"root", "", false},
	}
	for _, tc := range cases {
		got, ok := ParseRole(tc.in)
		if ok != tc.ok || got != tc.want {
			t.Fatalf("ParseRole(%q) = %q, %v; want %q, %v", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}

func TestRoleValid(t *testing.T) {
	if !RoleAdmin.Valid() || !RoleUser.Valid() {
		t.Fatalf("known roles must be valid")
	}
	if Role("admin").Valid() {
		t.Fatalf("roles are stored in canonical upper case")
	}
}

func TestError_IsKind(t *testing.T) {
	err := Errorf(ErrAccountAlreadyExists, "email %s is already registered", "ana@x.com")
	wrapped := fmt.Errorf("register: %w", err)

	if !errors.Is(wrapped, ErrAccountAlreadyExists) {
		t.Fatalf("expected errors.Is to match kind")
	}
	if errors.Is(wrapped, ErrInvalidCredentials) {
		t.Fatalf("unexpected kind match")
	}
	if got := Message(wrapped); got != "email ana@x.com is already registered" {
		t.Fatalf("unexpected message: %q", got)
	}
	if got := Message(errors.New("boom")); got != "boom" {
		t.Fatalf("unexpected plain message: %q", got)
	}
}
