// sentry.go — Sentry error tracking for the Marquee service.
//
// Usage in main.go:
//
//	telemetry.InitSentry(cfg.SentryDSN, cfg.Env, version)
//	defer telemetry.Flush()
//
// Usage in handlers:
//
//	telemetry.CaptureError(err, map[string]string{
//	    "operation": "tmdb_trending",
//	})
package telemetry

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/getsentry/sentry-go"
)

// InitSentry initializes the Sentry SDK. Call once at process startup.
// dsn may be empty — Sentry is then disabled and every other function in this
// package becomes a safe no-op. release should be a version tag or git SHA.
func InitSentry(dsn, environment, release string) error {
	if dsn == "" {
		fmt.Fprintln(os.Stderr, "[telemetry] SENTRY_DSN not set — Sentry disabled")
		return nil
	}

	err := sentry.Init(sentry.ClientOptions{
		Dsn:         dsn,
		Environment: environment,
		Release:     release,

		// Sample 20% of transactions for performance monitoring.
		TracesSampleRate: 0.2,

		// Attach stack traces to captured messages, not just panics.
		AttachStacktrace: true,

		Tags: map[string]string{
			"service": "marquee",
		},

		// Scrub credentials before anything leaves the process.
		BeforeSend: func(event *sentry.Event, hint *sentry.EventHint) *sentry.Event {
			return scrubCredentials(event)
		},
	})
	if err != nil {
		return fmt.Errorf("sentry.Init: %w", err)
	}

	return nil
}

// CaptureError sends an error to Sentry with optional context tags.
// tags may include: operation, movie_id, endpoint.
// Safe to call when Sentry is disabled.
func CaptureError(err error, tags map[string]string) {
	if err == nil {
		return
	}

	sentry.WithScope(func(scope *sentry.Scope) {
		for k, v := range tags {
			scope.SetTag(k, v)
		}
		sentry.CaptureException(err)
	})
}

// Flush waits for buffered Sentry events to be sent. Call with defer in main().
func Flush() {
	sentry.Flush(2 * time.Second)
}

// PanicRecoveryMiddleware catches handler panics, reports them to Sentry with
// request context, and returns a 500 response.
func PanicRecoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				hub := sentry.CurrentHub().Clone()
				hub.Scope().SetRequest(r)
				hub.Scope().SetTag("panic", "true")

				var err error
				switch v := rec.(type) {
				case error:
					err = v
				default:
					err = fmt.Errorf("panic: %v", v)
				}
				hub.CaptureException(err)

				// Flush now so the event is sent before the response is written.
				hub.Flush(2 * time.Second)

				http.Error(w, "internal server error", http.StatusInternalServerError)
			}
		}()

		next.ServeHTTP(w, r)
	})
}

// scrubCredentials removes tokens and access codes from Sentry events before
// they are transmitted. Session tokens grant playback access; they must never
// reach a third-party service.
func scrubCredentials(event *sentry.Event) *sentry.Event {
	if event == nil {
		return nil
	}

	// Marquee has no user accounts — drop any network identity Sentry captured.
	event.User.IPAddress = ""

	if event.Request != nil {
		headers := event.Request.Headers
		for k := range headers {
			switch k {
			case "Authorization", "Cookie", "X-Api-Key", "X-Auth-Token":
				headers[k] = "[redacted]"
			}
		}
		// The redemption body carries the access code.
		if event.Request.Method == http.MethodPost {
			event.Request.Data = ""
		}
	}

	return event
}
