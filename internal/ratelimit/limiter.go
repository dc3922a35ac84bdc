// Package ratelimit implements fixed-window request limits and email cooldowns on Redis.
package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/redmonkez12/expense-api/internal/config"
)

const keyPrefix = "ratelimit"

// Limiter counts requests per client IP in fixed windows and tracks
// per-address cooldowns for outgoing email.
type Limiter struct {
	client        redis.Cmdable
	maxRequests   int64
	window        time.Duration
	emailCooldown time.Duration
}

func NewLimiter(client redis.Cmdable, cfg config.RateLimitConfig) *Limiter {
	return &Limiter{
		client:        client,
		maxRequests:   cfg.IPMaxRequests,
		window:        cfg.IPWindow,
		emailCooldown: cfg.EmailCooldown,
	}
}

// CheckIPRateLimitWithPurpose reports whether ip has used up its window for purpose.
func (l *Limiter) CheckIPRateLimitWithPurpose(ctx context.Context, ip, purpose string) (bool, error) {
	count, err := l.client.Get(ctx, ipKey(ip, purpose)).Int64()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("get ip counter: %w", err)
	}
	return count >= l.maxRequests, nil
}

// RecordIPRequestWithPurpose counts one request; the first request opens the window.
func (l *Limiter) RecordIPRequestWithPurpose(ctx context.Context, ip, purpose string) error {
	key := ipKey(ip, purpose)

	count, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("incr ip counter: %w", err)
	}
	if count == 1 {
		if err := l.client.Expire(ctx, key, l.window).Err(); err != nil {
			return fmt.Errorf("expire ip counter: %w", err)
		}
	}
	return nil
}

// CheckEmailCooldown reports whether an email was sent to address recently.
func (l *Limiter) CheckEmailCooldown(ctx context.Context, email string) (bool, error) {
	n, err := l.client.Exists(ctx, emailKey(email)).Result()
	if err != nil {
		return false, fmt.Errorf("check email cooldown: %w", err)
	}
	return n > 0, nil
}

// SetEmailCooldown starts the cooldown for address.
func (l *Limiter) SetEmailCooldown(ctx context.Context, email string) error {
	if err := l.client.Set(ctx, emailKey(email), 1, l.emailCooldown).Err(); err != nil {
		return fmt.Errorf("set email cooldown: %w", err)
	}
	return nil
}

func ipKey(ip, purpose string) string {
	return fmt.Sprintf("%s:ip:%s:%s", keyPrefix, purpose, ip)
}

func emailKey(email string) string {
	return fmt.Sprintf("%s:email:%s", keyPrefix, strings.ToLower(email))
}
