package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"tutor-scheduling-api/internal/config"
)

var keys = []string{
	"PORT", "WEB_PORT", "DATABASE_URL", "JWT_SECRET", "REDIS_ADDR", "REDIS_TTL",
	"DATACORE_URL", "SYNC_CRON", "LOG_LEVEL", "RATE_RPS", "RATE_BURST",
}

// clearEnv blanks every key; empty values count as unset.
func clearEnv(t *testing.T) {
	for _, k := range keys {
		t.Setenv(k, "")
	}
}

func TestDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("JWT_SECRET", "s3cret")

	cfg, err := config.Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.GRPCPort != "50051" || cfg.WebPort != "8080" {
		t.Errorf("ports %s %s", cfg.GRPCPort, cfg.WebPort)
	}
	if cfg.DatabaseURL != "" || cfg.RedisAddr != "" || cfg.DataCoreURL != "" {
		t.Errorf("optional backends should default off: %+v", cfg)
	}
	if cfg.SyncCron != "@every 1h" || cfg.RedisTTL != 10*time.Minute {
		t.Errorf("cron %q ttl %v", cfg.SyncCron, cfg.RedisTTL)
	}
	if cfg.RateRPS != 5 || cfg.RateBurst != 10 {
		t.Errorf("rate %v/%d", cfg.RateRPS, cfg.RateBurst)
	}
}

func TestOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("PORT", "6000")
	t.Setenv("REDIS_TTL", "90s")
	t.Setenv("RATE_RPS", "0.5")
	t.Setenv("RATE_BURST", "3")
	t.Setenv("LOG_LEVEL", "DEBUG")

	cfg, err := config.Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.GRPCPort != "6000" || cfg.RedisTTL != 90*time.Second || cfg.RateRPS != 0.5 || cfg.RateBurst != 3 {
		t.Errorf("cfg %+v", cfg)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("log level %q", cfg.LogLevel)
	}
}

func TestInvalidValues(t *testing.T) {
	tests := []struct {
		name, key, value string
	}{
		{"ttl", "REDIS_TTL", "ten minutes"},
		{"rps", "RATE_RPS", "fast"},
		{"burst", "RATE_BURST", "1.5"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv("JWT_SECRET", "s3cret")
			t.Setenv(tt.key, tt.value)
			if _, err := config.Load(); err == nil {
				t.Fatalf("%s=%q accepted", tt.key, tt.value)
			}
		})
	}
}

func TestSecretRequired(t *testing.T) {
	clearEnv(t)
	if _, err := config.Load(); err == nil {
		t.Fatal("missing JWT_SECRET accepted")
	}
}

func TestDotEnvFile(t *testing.T) {
	clearEnv(t)
	// godotenv does not override variables that are already set
	os.Unsetenv("JWT_SECRET")
	os.Unsetenv("WEB_PORT")

	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("JWT_SECRET=from-file\nWEB_PORT=9090\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		os.Unsetenv("JWT_SECRET")
		os.Unsetenv("WEB_PORT")
	})

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.JWTSecret != "from-file" || cfg.WebPort != "9090" {
		t.Errorf("cfg %+v", cfg)
	}
}
