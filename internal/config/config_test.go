package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.HTTPAddr != ":8080" {
		t.Fatalf("addr = %q, want :8080", cfg.HTTPAddr)
	}
	if cfg.SnapshotSchedule != "@daily" {
		t.Fatalf("schedule = %q, want @daily", cfg.SnapshotSchedule)
	}
	if cfg.RateLimitPerSecond != 20 || cfg.RateLimitBurst != 40 {
		t.Fatalf("rate limit = %d/%d, want 20/40", cfg.RateLimitPerSecond, cfg.RateLimitBurst)
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9999")
	t.Setenv("CORS_ORIGINS", "https://a.example.com, https://b.example.com")

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.HTTPAddr != ":9999" {
		t.Fatalf("addr = %q, want :9999", cfg.HTTPAddr)
	}
	origins := cfg.Origins()
	if len(origins) != 2 || origins[0] != "https://a.example.com" || origins[1] != "https://b.example.com" {
		t.Fatalf("origins = %v", origins)
	}
}

func TestLoadKeywords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keywords.yaml")
	if err := os.WriteFile(path, []byte("max_daily_items: productos por dia\ntax_rate: iva\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	kw, err := LoadKeywords(path)
	if err != nil {
		t.Fatal(err)
	}
	if kw.MaxDailyItems != "productos por dia" || kw.TaxRate != "iva" {
		t.Fatalf("keywords = %+v", kw)
	}
	// Unset fields keep their defaults.
	if kw.MaxLoginAttempts != "failed attempts" {
		t.Fatalf("login keyword = %q, want default", kw.MaxLoginAttempts)
	}
}

func TestLoadKeywordsMissingFile(t *testing.T) {
	kw, err := LoadKeywords(filepath.Join(t.TempDir(), "absent.yaml"))
	if err == nil {
		t.Fatal("missing file accepted")
	}
	// The defaults still come back so callers can proceed.
	if kw.MaxDailyItems != "items per day" {
		t.Fatalf("keywords = %+v", kw)
	}
}
