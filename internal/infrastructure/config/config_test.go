package config

import (
	"context"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "0123456789abcdef0123456789abcdef"

func TestLoadFrom_Defaults(t *testing.T) {
	cfg, err := LoadFrom(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET": secret,
	}))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "mongo", cfg.StoreDriver)
	assert.Equal(t, time.Hour, cfg.JWT.TTL)
	assert.Equal(t, "bcrypt", cfg.Password.Algorithm)
	assert.Equal(t, 10, cfg.Password.BcryptCost)
	assert.False(t, cfg.Login.GenericErrors)
	assert.Equal(t, 5, cfg.Login.MaxFailures)
	assert.Equal(t, 15*time.Minute, cfg.Login.FailureWindow)
	assert.True(t, cfg.Audit.Enabled)
	assert.Empty(t, cfg.Redis.Addr)
	assert.True(t, cfg.IsDevelopment())
}

func TestLoadFrom_Overrides(t *testing.T) {
	cfg, err := LoadFrom(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET":                secret,
		"JWT_TTL":                   "30m",
		"ENV":                       "production",
		"STORE_DRIVER":              "memory",
		"PASSWORD_ALGORITHM":        "argon2id",
		"AUTH_GENERIC_LOGIN_ERRORS": "true",
		"REDIS_ADDR":                "localhost:6379",
	}))
	require.NoError(t, err)

	assert.Equal(t, 30*time.Minute, cfg.JWT.TTL)
	assert.Equal(t, "memory", cfg.StoreDriver)
	assert.Equal(t, "argon2id", cfg.Password.Algorithm)
	assert.True(t, cfg.Login.GenericErrors)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.False(t, cfg.IsDevelopment())
}

func TestLoadFrom_Invalid(t *testing.T) {
	cases := map[string]map[string]string{
		"missing secret": {},
		"short secret":   {"JWT_SECRET": "short"},
		"bad driver":     {"JWT_SECRET": secret, "STORE_DRIVER": "postgres"},
		"bad ttl":        {"JWT_SECRET": secret, "JWT_TTL": "0s"},
	}
	for name, env := range cases {
		_, err := LoadFrom(context.Background(), envconfig.MapLookuper(env))
		assert.Error(t, err, name)
	}
}
