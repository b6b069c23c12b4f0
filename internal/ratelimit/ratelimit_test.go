// ratelimit_test.go — Unit tests using an in-memory Store.
package ratelimit

import (
	"context"
	"errors"
	"net/http/httptest"
	"sync"
	"testing"
	"time"
)

// memStore is a minimal in-memory Store for tests. TTLs are recorded but not
// enforced — tests that need expiry manipulate the map directly.
type memStore struct {
	mu     sync.Mutex
	counts map[string]int64
	ttls   map[string]time.Duration
	err    error
}

func newMemStore() *memStore {
	return &memStore{counts: map[string]int64{}, ttls: map[string]time.Duration{}}
}

func (m *memStore) Incr(ctx context.Context, key string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return 0, m.err
	}
	m.counts[key]++
	return m.counts[key], nil
}

func (m *memStore) Expire(ctx context.Context, key string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ttls[key] = ttl
	return nil
}

func (m *memStore) TTL(ctx context.Context, key string) (time.Duration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ttls[key], nil
}

func (m *memStore) Del(ctx context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.counts, k)
	}
	return nil
}

func TestCheckRedeemEnforcesLimit(t *testing.T) {
	ctx := context.Background()
	l := New(newMemStore(), Config{RedeemRate: 3, RedeemWindow: time.Minute, APIRate: 60, APIWindow: time.Minute})

	for i := 0; i < 3; i++ {
		if ok, _ := l.CheckRedeem(ctx, "1.2.3.4"); !ok {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}
	ok, retry := l.CheckRedeem(ctx, "1.2.3.4")
	if ok {
		t.Fatal("4th request should be blocked")
	}
	if retry < 1 {
		t.Errorf("retryAfter = %d, want >= 1", retry)
	}

	// A different IP is unaffected.
	if ok, _ := l.CheckRedeem(ctx, "5.6.7.8"); !ok {
		t.Error("separate IP should be allowed")
	}
}

func TestNilStoreAllowsEverything(t *testing.T) {
	ctx := context.Background()
	l := New(nil, DefaultConfig())

	for i := 0; i < 1000; i++ {
		if ok, _ := l.CheckRedeem(ctx, "1.2.3.4"); !ok {
			t.Fatal("nil store must never block")
		}
	}
}

func TestStoreErrorFailsOpen(t *testing.T) {
	ctx := context.Background()
	ms := newMemStore()
	ms.err = errors.New("redis down")
	l := New(ms, DefaultConfig())

	if ok, _ := l.CheckRedeem(ctx, "1.2.3.4"); !ok {
		t.Fatal("store error must fail open")
	}
}

func TestResetClearsCounter(t *testing.T) {
	ctx := context.Background()
	l := New(newMemStore(), Config{RedeemRate: 1, RedeemWindow: time.Minute})

	l.CheckRedeem(ctx, "1.2.3.4")
	if ok, _ := l.CheckRedeem(ctx, "1.2.3.4"); ok {
		t.Fatal("2nd request should be blocked")
	}
	l.Reset(ctx, "1.2.3.4")
	if ok, _ := l.CheckRedeem(ctx, "1.2.3.4"); !ok {
		t.Fatal("request after Reset should be allowed")
	}
}

func TestClientIP(t *testing.T) {
	cases := []struct {
		name   string
		xff    string
		xri    string
		remote string
		want   string
	}{
		{"x-forwarded-for single", "9.9.9.9", "", "10.0.0.1:1234", "9.9.9.9"},
		{"x-forwarded-for chain", "9.9.9.9, 10.0.0.2", "", "10.0.0.1:1234", "9.9.9.9"},
		{"x-real-ip", "", "8.8.8.8", "10.0.0.1:1234", "8.8.8.8"},
		{"remote addr", "", "", "10.0.0.1:1234", "10.0.0.1"},
	}
	for _, tc := range cases {
		r := httptest.NewRequest("GET", "/", nil)
		r.RemoteAddr = tc.remote
		if tc.xff != "" {
			r.Header.Set("X-Forwarded-For", tc.xff)
		}
		if tc.xri != "" {
			r.Header.Set("X-Real-IP", tc.xri)
		}
		if got := ClientIP(r); got != tc.want {
			t.Errorf("%s: ClientIP = %q, want %q", tc.name, got, tc.want)
		}
	}
}
