package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte(`
server:
  port: "9090"
bookmarks:
  backend: redis
game:
  retry_delay: 2s
  requeue_min_offset: 3
`)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Port != "9090" || cfg.Bookmarks.Backend != "redis" {
		t.Fatalf("expected overrides, got %+v", cfg)
	}
	if cfg.Game.RequeueMinOffset != 3 || cfg.Game.RequeueMaxOffset != 14 {
		t.Fatalf("expected partial override of offsets, got %+v", cfg.Game)
	}
	if cfg.Bookmarks.Key != "businessEnglishChallengeSavedItems" {
		t.Fatalf("expected default key to survive, got %q", cfg.Bookmarks.Key)
	}
	if d := TTLDuration(cfg.Game.RetryDelay, time.Second); d != 2*time.Second {
		t.Fatalf("expected 2s retry delay, got %v", d)
	}
}

func TestLoadOrDefaultWithoutFile(t *testing.T) {
	cfg, err := LoadOrDefault(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("expected defaults, got %v", err)
	}
	if cfg.Bookmarks.Backend != "sqlite" || cfg.Server.Port != "8080" {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected Load to fail on a missing file")
	}
}

func TestTTLDurationFallback(t *testing.T) {
	if d := TTLDuration("", time.Minute); d != time.Minute {
		t.Fatalf("expected fallback for empty, got %v", d)
	}
	if d := TTLDuration("soon", time.Minute); d != time.Minute {
		t.Fatalf("expected fallback for garbage, got %v", d)
	}
}
