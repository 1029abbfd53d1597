package redis

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLoginLimiter_Defaults(t *testing.T) {
	l := NewLoginLimiter(nil, 0, 0)
	assert.Equal(t, int64(defaultMaxFailures), l.maxFailures)
	assert.Equal(t, defaultWindow, l.window)
	assert.Equal(t, "login:fail:ana@x.com", l.key("ana@x.com"))
}

func TestLoginLimiter_Integration(t *testing.T) {
	addr := os.Getenv("REDIS_TEST_ADDR")
	if addr == "" {
		t.Skip("REDIS_TEST_ADDR not set")
	}

	ctx := context.Background()
	client, err := Connect(ctx, Config{Addr: addr})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	l := NewLoginLimiter(client, 3, time.Minute)
	email := fmt.Sprintf("limiter-%d@x.com", time.Now().UnixNano())
	t.Cleanup(func() { _ = l.Reset(context.Background(), email) })

	for i := 0; i < 2; i++ {
		require.NoError(t, l.RecordFailure(ctx, email))
	}
	blocked, err := l.Blocked(ctx, email)
	require.NoError(t, err)
	assert.False(t, blocked)

	require.NoError(t, l.RecordFailure(ctx, email))
	blocked, err = l.Blocked(ctx, email)
	require.NoError(t, err)
	assert.True(t, blocked)

	ttl, err := client.TTL(ctx, l.key(email)).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))

	require.NoError(t, l.Reset(ctx, email))
	blocked, err = l.Blocked(ctx, email)
	require.NoError(t, err)
	assert.False(t, blocked)
}
