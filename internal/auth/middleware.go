// middleware.go — HTTP middleware for session enforcement.
// Provides Bearer token validation and principal context injection.
package auth

import (
	"context"
	"net/http"
	"strconv"

	"github.com/yourflock/marquee/internal/metrics"
	"github.com/yourflock/marquee/internal/ratelimit"
)

// contextKey is an unexported type to avoid context key collisions.
type contextKey string

const principalKey contextKey = "auth_principal"

// RequireSession validates the Bearer token in the Authorization header.
// On success the Principal is injected into the request context; on any
// failure the response is a single generic 401.
func RequireSession(svc *Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, err := svc.Authenticate(r.Context(), r.Header.Get("Authorization"))
			if err != nil {
				metrics.AuthEvents.WithLabelValues("authenticate", "denied").Inc()
				WriteError(w, http.StatusUnauthorized, "unauthenticated",
					"Session expired or invalid. Please sign in again.")
				return
			}

			metrics.AuthEvents.WithLabelValues("authenticate", "success").Inc()
			ctx := context.WithValue(r.Context(), principalKey, principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// PrincipalFromContext extracts the authenticated Principal from the request
// context. Returns nil if RequireSession was not applied.
func PrincipalFromContext(ctx context.Context) *Principal {
	if p, ok := ctx.Value(principalKey).(*Principal); ok {
		return p
	}
	return nil
}

// RateLimitAPI enforces the per-session API limit. Each session gets its own
// bucket so viewers behind one NAT do not starve each other; requests that
// carry no principal (middleware applied outside RequireSession) fall back to
// the client IP.
func RateLimitAPI(limiter *ratelimit.Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := ratelimit.ClientIP(r)
			if p := PrincipalFromContext(r.Context()); p != nil {
				key = p.SessionID.String()
			}
			if allowed, retryAfter := limiter.CheckAPI(r.Context(), key); !allowed {
				w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
				WriteError(w, http.StatusTooManyRequests, "rate_limited",
					"Too many requests. Slow down.")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
