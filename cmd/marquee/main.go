// main.go — Marquee service entrypoint.
// Gated movie browsing backend: an access code is redeemed for a session
// token, and the token gates every movie route.
//
// Routes:
//
//	POST /api/auth                      — redeem an access code for a session token
//	GET  /api/movies/trending           — this week's trending movies (session required)
//	GET  /api/movies/search?q=...       — title search (session required)
//	GET  /api/movies/{id}               — movie details (session required)
//	GET  /api/movies/{id}/stream        — embed playback URL (session required)
//	GET  /health                        — liveness + dependency status
//	GET  /metrics                       — Prometheus metrics
//
// Port: 8080 (env: PORT). See internal/config for the full environment surface.
package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	goredis "github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/yourflock/marquee/internal/auth"
	"github.com/yourflock/marquee/internal/config"
	"github.com/yourflock/marquee/internal/metrics"
	"github.com/yourflock/marquee/internal/movies"
	"github.com/yourflock/marquee/internal/ratelimit"
	"github.com/yourflock/marquee/internal/tmdb"
	"github.com/yourflock/marquee/pkg/logging"
	"github.com/yourflock/marquee/pkg/telemetry"
)

// version is stamped at build time via -ldflags "-X main.version=...".
var version = "dev"

func connectDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("db ping: %w", err)
	}
	return db, nil
}

// connectRedis returns a rate-limit store, or nil when Redis is not
// configured or unreachable. A nil store disables rate limiting.
func connectRedis(url string, log *logrus.Entry) ratelimit.Store {
	if url == "" {
		log.Info("REDIS_URL not set, rate limiting disabled")
		return nil
	}
	opts, err := goredis.ParseURL(url)
	if err != nil {
		log.WithError(err).Warn("invalid REDIS_URL, rate limiting disabled")
		return nil
	}
	client := goredis.NewClient(opts)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.WithError(err).Warn("redis unreachable, rate limiting disabled")
		return nil
	}
	return ratelimit.NewRedisStore(client)
}

func handleHealth(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := "ok"
		dbStatus := "ok"
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			status = "degraded"
			dbStatus = "unreachable"
		}
		code := http.StatusOK
		if status != "ok" {
			code = http.StatusServiceUnavailable
		}
		auth.WriteJSON(w, code, map[string]interface{}{
			"status":   status,
			"service":  "marquee",
			"version":  version,
			"database": dbStatus,
		})
	}
}

func main() {
	// .env is for local development; absence is normal in production.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	log := logging.NewLogger("marquee", cfg.LogLevel)

	if err := telemetry.InitSentry(cfg.SentryDSN, cfg.Env, version); err != nil {
		log.WithError(err).Warn("sentry init failed, continuing without")
	}
	defer telemetry.Flush()

	db, err := connectDB(cfg.PostgresURL)
	if err != nil {
		log.WithError(err).Fatal("database connect")
	}
	defer db.Close()
	log.Info("database connected")

	limiter := ratelimit.New(connectRedis(cfg.RedisURL, log), ratelimit.DefaultConfig())

	signer := auth.NewSigner(cfg.JWTSecret, nil)
	authSvc := auth.NewService(auth.NewPostgresStore(db), signer, cfg.SessionTTL, nil, log)

	moviesHandler := movies.NewHandler(
		tmdb.NewClient(cfg.TMDBAPIKey),
		movies.NewStreamProvider(cfg.EmbedBaseURL),
	)

	mux := http.NewServeMux()
	mux.HandleFunc("/health", handleHealth(db))
	mux.Handle("/metrics", metrics.Handler())
	mux.Handle("/api/auth", auth.HandleRedeem(authSvc, limiter))
	mux.Handle("/api/movies/", auth.RequireSession(authSvc)(auth.RateLimitAPI(limiter)(moviesHandler)))

	handler := telemetry.PanicRecoveryMiddleware(metrics.Middleware(mux))

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.WithFields(logrus.Fields{"port": cfg.Port, "env": cfg.Env, "version": version}).Info("marquee listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received")
	case err := <-errCh:
		log.WithError(err).Error("server error")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Warn("graceful shutdown incomplete")
	}
	log.Info("marquee stopped")
}
