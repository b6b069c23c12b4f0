// Package ratelimit provides Redis-backed rate limiting for Marquee endpoints.
// When Redis is unavailable (nil store), all rate limits are disabled — requests
// pass. This ensures the service degrades gracefully in dev/test environments
// without Redis. Redis errors also fail open: a rate limiter outage must never
// take the API down with it.
package ratelimit

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Store is the minimal interface required for rate limiting.
// In production this is implemented by go-redis; in tests by an in-memory map.
type Store interface {
	// Incr atomically increments a counter key and returns the new value.
	Incr(ctx context.Context, key string) (int64, error)
	// Expire sets the TTL on a key.
	Expire(ctx context.Context, key string, ttl time.Duration) error
	// TTL returns the remaining time-to-live on a key. Returns 0 or negative if expired/missing.
	TTL(ctx context.Context, key string) (time.Duration, error)
	// Del removes one or more keys.
	Del(ctx context.Context, keys ...string) error
}

// Limiter performs rate limit checks against a Store.
type Limiter struct {
	store Store
	cfg   Config
}

// Config holds the per-endpoint-class rate limit settings.
type Config struct {
	// Redemption endpoint: POST /api/auth. Shared access codes invite brute
	// force, so this is the tight limit.
	RedeemRate   int
	RedeemWindow time.Duration

	// API endpoints: trending, search, details, stream URL.
	APIRate   int
	APIWindow time.Duration
}

// DefaultConfig returns the production rate limit configuration.
//
//	Redeem: 10 requests per minute per IP
//	API:    60 requests per minute per session or IP
func DefaultConfig() Config {
	return Config{
		RedeemRate:   10,
		RedeemWindow: time.Minute,
		APIRate:      60,
		APIWindow:    time.Minute,
	}
}

// New creates a Limiter backed by the given Store.
// If store is nil, the Limiter is a no-op that always allows requests.
func New(store Store, cfg Config) *Limiter {
	return &Limiter{store: store, cfg: cfg}
}

// CheckRedeem enforces the code-redemption limit for an IP.
// Returns (allowed bool, retryAfterSecs int).
func (l *Limiter) CheckRedeem(ctx context.Context, ip string) (bool, int) {
	key := fmt.Sprintf("rl:redeem:%s", ip)
	return l.check(ctx, key, l.cfg.RedeemRate, int(l.cfg.RedeemWindow.Seconds()))
}

// CheckAPI enforces the API limit for the given key (session ID or IP).
func (l *Limiter) CheckAPI(ctx context.Context, key string) (bool, int) {
	return l.check(ctx, fmt.Sprintf("rl:api:%s", key), l.cfg.APIRate, int(l.cfg.APIWindow.Seconds()))
}

// Reset clears the redemption counter for an IP. Used by tests.
func (l *Limiter) Reset(ctx context.Context, ip string) {
	if l.store == nil {
		return
	}
	l.store.Del(ctx, fmt.Sprintf("rl:redeem:%s", ip))
}

// ClientIP extracts the real client IP from a request, handling reverse proxy headers.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		parts := strings.Split(xff, ",")
		return strings.TrimSpace(parts[0])
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}
	addr := r.RemoteAddr
	if i := strings.LastIndex(addr, ":"); i > 0 {
		return addr[:i]
	}
	return addr
}

// check is the generic increment-and-check against a store key.
// Returns (allowed, retryAfterSecs). If store is nil, always returns (true, 0).
func (l *Limiter) check(ctx context.Context, key string, max int, ttlSecs int) (bool, int) {
	if l.store == nil {
		return true, 0
	}

	count, err := l.store.Incr(ctx, key)
	if err != nil {
		// Redis error — fail open.
		return true, 0
	}

	if count == 1 {
		l.store.Expire(ctx, key, time.Duration(ttlSecs)*time.Second)
	}

	if count > int64(max) {
		ttl, _ := l.store.TTL(ctx, key)
		retry := int(ttl.Seconds())
		if retry < 1 {
			retry = ttlSecs
		}
		return false, retry
	}

	return true, 0
}
