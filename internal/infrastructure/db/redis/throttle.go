package redis

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	defaultMaxFailures = 5
	defaultWindow      = 15 * time.Minute
)

// LoginThrottle counts failed login attempts per principal in a fixed
// window. Key format: login:fail:<email>. Only failures are counted; a
// successful login clears the key.
type LoginThrottle struct {
	client      *redis.Client
	maxFailures int
	window      time.Duration
}

// NewLoginThrottle creates a LoginThrottle wrapping the given Redis
// client. Non-positive limits fall back to the defaults.
func NewLoginThrottle(client *redis.Client, maxFailures int, window time.Duration) *LoginThrottle {
	if maxFailures <= 0 {
		maxFailures = defaultMaxFailures
	}
	if window <= 0 {
		window = defaultWindow
	}
	return &LoginThrottle{client: client, maxFailures: maxFailures, window: window}
}

// Allow reports whether another attempt for email is permitted.
func (t *LoginThrottle) Allow(ctx context.Context, email string) (bool, error) {
	n, err := t.client.Get(ctx, t.key(email)).Int()
	if err == redis.Nil {
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("throttle check: %w", err)
	}
	return n < t.maxFailures, nil
}

// RecordFailure counts a failed attempt. The window starts at the first
// failure and is not extended by later ones.
func (t *LoginThrottle) RecordFailure(ctx context.Context, email string) error {
	key := t.key(email)
	n, err := t.client.Incr(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("throttle incr: %w", err)
	}
	if n == 1 {
		if err := t.client.Expire(ctx, key, t.window).Err(); err != nil {
			return fmt.Errorf("throttle expire: %w", err)
		}
	}
	return nil
}

// Reset clears the failure count after a successful login.
func (t *LoginThrottle) Reset(ctx context.Context, email string) error {
	return t.client.Del(ctx, t.key(email)).Err()
}

func (t *LoginThrottle) key(email string) string {
	return "login:fail:" + strings.ToLower(email)
}
