package config

import (
	"strings"
	"testing"
	"time"
)

// validSecret is 32+ characters so it passes the minimum-length check.
const validSecret = "0123456789abcdef0123456789abcdef"

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("AUTH_JWT_SECRET", validSecret)
	t.Setenv("TMDB_API_KEY", "tmdb-test-key")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.SessionTTL != 24*time.Hour {
		t.Errorf("SessionTTL = %v, want 24h", cfg.SessionTTL)
	}
	if cfg.EmbedBaseURL == "" {
		t.Error("EmbedBaseURL should have a default")
	}
}

func TestLoadMissingSecret(t *testing.T) {
	t.Setenv("AUTH_JWT_SECRET", "")
	t.Setenv("TMDB_API_KEY", "tmdb-test-key")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for missing AUTH_JWT_SECRET")
	}
}

func TestLoadShortSecret(t *testing.T) {
	t.Setenv("AUTH_JWT_SECRET", "tooshort")
	t.Setenv("TMDB_API_KEY", "tmdb-test-key")

	_, err := Load()
	if err == nil || !strings.Contains(err.Error(), "32") {
		t.Fatalf("expected minimum-length error, got %v", err)
	}
}

func TestLoadMissingTMDBKey(t *testing.T) {
	t.Setenv("AUTH_JWT_SECRET", validSecret)
	t.Setenv("TMDB_API_KEY", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for missing TMDB_API_KEY")
	}
}

func TestLoadSessionTTLOverride(t *testing.T) {
	setRequired(t)
	t.Setenv("MARQUEE_SESSION_TTL", "1h")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.SessionTTL != time.Hour {
		t.Errorf("SessionTTL = %v, want 1h", cfg.SessionTTL)
	}
}

func TestLoadBadSessionTTL(t *testing.T) {
	setRequired(t)
	t.Setenv("MARQUEE_SESSION_TTL", "soon")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for unparseable MARQUEE_SESSION_TTL")
	}
}
