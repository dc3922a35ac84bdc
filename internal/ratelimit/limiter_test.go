package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redmonkez12/expense-api/internal/config"
	"github.com/redmonkez12/expense-api/internal/testutil"
)

func newLimiter(t *testing.T) (*Limiter, func(time.Duration)) {
	client, mr := testutil.NewRedis(t)
	l := NewLimiter(client, config.RateLimitConfig{
		IPMaxRequests: 3,
		IPWindow:      time.Minute,
		EmailCooldown: 2 * time.Minute,
	})
	return l, mr.FastForward
}

func TestIPRateLimit(t *testing.T) {
	l, fastForward := newLimiter(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		exceeded, err := l.CheckIPRateLimitWithPurpose(ctx, "10.0.0.1", "login")
		require.NoError(t, err)
		assert.False(t, exceeded, "request %d", i)
		require.NoError(t, l.RecordIPRequestWithPurpose(ctx, "10.0.0.1", "login"))
	}

	exceeded, err := l.CheckIPRateLimitWithPurpose(ctx, "10.0.0.1", "login")
	require.NoError(t, err)
	assert.True(t, exceeded)

	// other purposes and other IPs have their own counters
	exceeded, err = l.CheckIPRateLimitWithPurpose(ctx, "10.0.0.1", "register")
	require.NoError(t, err)
	assert.False(t, exceeded)
	exceeded, err = l.CheckIPRateLimitWithPurpose(ctx, "10.0.0.2", "login")
	require.NoError(t, err)
	assert.False(t, exceeded)

	fastForward(time.Minute + time.Second)
	exceeded, err = l.CheckIPRateLimitWithPurpose(ctx, "10.0.0.1", "login")
	require.NoError(t, err)
	assert.False(t, exceeded)
}

func TestEmailCooldown(t *testing.T) {
	l, fastForward := newLimiter(t)
	ctx := context.Background()

	on, err := l.CheckEmailCooldown(ctx, "a@example.com")
	require.NoError(t, err)
	assert.False(t, on)

	require.NoError(t, l.SetEmailCooldown(ctx, "A@example.com"))
	on, err = l.CheckEmailCooldown(ctx, "a@example.com")
	require.NoError(t, err)
	assert.True(t, on)

	fastForward(2*time.Minute + time.Second)
	on, err = l.CheckEmailCooldown(ctx, "a@example.com")
	require.NoError(t, err)
	assert.False(t, on)
}
