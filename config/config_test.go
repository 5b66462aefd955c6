package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	for _, k := range []string{"PORT", "STORE_DRIVER", "CACHE_TTL", "DEFAULT_OWNER_ID", "ALLOW_ORIGINS", "MAX_BODY_BYTES", "RATE_LIMIT_RPS", "FRONTEND_BASE_URL"} {
		t.Setenv(k, "")
	}

	cfg := Load()
	if cfg.Port != "5000" || cfg.StoreDriver != "mongo" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.CacheTTL != 5*time.Minute {
		t.Fatalf("expected 5m cache ttl, got %s", cfg.CacheTTL)
	}
	if cfg.DefaultOwnerID != PlaceholderOwnerID {
		t.Fatalf("unexpected default owner %q", cfg.DefaultOwnerID)
	}
	if cfg.MaxBodyBytes != 50<<20 {
		t.Fatalf("unexpected body limit %d", cfg.MaxBodyBytes)
	}
	if len(cfg.AllowOrigins) != 1 || cfg.AllowOrigins[0] != "*" {
		t.Fatalf("unexpected origins %v", cfg.AllowOrigins)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("STORE_DRIVER", "Memory")
	t.Setenv("CACHE_TTL", "30s")
	t.Setenv("ALLOW_ORIGINS", " http://a.test , ,http://b.test")
	t.Setenv("RATE_LIMIT_BURST", "not-a-number")
	t.Setenv("FRONTEND_BASE_URL", "https://travelbuddy.test/")

	cfg := Load()
	if cfg.StoreDriver != "memory" {
		t.Fatalf("driver should be lowercased, got %q", cfg.StoreDriver)
	}
	if cfg.CacheTTL != 30*time.Second {
		t.Fatalf("unexpected ttl %s", cfg.CacheTTL)
	}
	if len(cfg.AllowOrigins) != 2 || cfg.AllowOrigins[1] != "http://b.test" {
		t.Fatalf("unexpected origins %v", cfg.AllowOrigins)
	}
	if cfg.RateLimitBurst != 10 {
		t.Fatalf("bad burst should fall back to 10, got %d", cfg.RateLimitBurst)
	}
	if cfg.FrontendBaseURL != "https://travelbuddy.test" {
		t.Fatalf("trailing slash should be trimmed, got %q", cfg.FrontendBaseURL)
	}
}

func TestLoadPanicsWithoutSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic for missing JWT_SECRET")
		}
	}()
	Load()
}
