package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/park285/unicorn-chess/internal/chess"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HTTPAddr != ":8080" || cfg.SessionTTL() != time.Hour || cfg.Difficulty() != chess.Easy {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.ThinkingDelayScale != 1.0 || cfg.DefaultLocale != "en" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if len(cfg.Origins()) != 0 {
		t.Fatalf("origins = %v", cfg.Origins())
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("HTTP_ADDR", " :9090 ")
	t.Setenv("REDIS_URL", "redis://localhost:6379/1")
	t.Setenv("SESSION_TTL_SEC", "120")
	t.Setenv("DEFAULT_DIFFICULTY", "Hard")
	t.Setenv("DEFAULT_LOCALE", "HE")
	t.Setenv("THINKING_DELAY_SCALE", "0.25")
	t.Setenv("ALLOWED_ORIGINS", "localhost:5173, example.com ,")
	t.Setenv("RANDOM_SEED", "42")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := &AppConfig{
		HTTPAddr:           ":9090",
		RedisURL:           "redis://localhost:6379/1",
		SessionTTLSec:      120,
		DefaultDifficulty:  "hard",
		DefaultLocale:      "he",
		ThinkingDelayScale: 0.25,
		AllowedOrigins:     "localhost:5173, example.com ,",
		RandomSeed:         42,
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"localhost:5173", "example.com"}, cfg.Origins()); diff != "" {
		t.Fatalf("origins mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chess.env")
	if err := os.WriteFile(path, []byte("DEFAULT_DIFFICULTY=medium\nSESSION_TTL_SEC=60\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	t.Setenv("CONFIG_FILE", path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Difficulty() != chess.Medium || cfg.SessionTTLSec != 60 {
		t.Fatalf("file values not applied: %+v", cfg)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	cases := map[string]string{
		"SESSION_TTL_SEC":      "0",
		"DEFAULT_DIFFICULTY":   "impossible",
		"THINKING_DELAY_SCALE": "-1",
	}
	for key, val := range cases {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, val)
			if _, err := Load(); err == nil {
				t.Fatalf("expected error for %s=%s", key, val)
			}
		})
	}
}
