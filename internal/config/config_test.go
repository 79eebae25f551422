package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Tenant != "default_user" {
		t.Errorf("Tenant = %q, want %q", cfg.Tenant, "default_user")
	}
	if cfg.HTTP.Addr != ":8080" {
		t.Errorf("HTTP.Addr = %q", cfg.HTTP.Addr)
	}
	if cfg.Redis.Addr != "" {
		t.Errorf("Redis should be disabled by default, got %q", cfg.Redis.Addr)
	}
	if cfg.Telemetry.Enabled {
		t.Error("telemetry should be off by default")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("STUDYPLAN_DB", "postgres://u:p@db/studyplan")
	t.Setenv("STUDYPLAN_TENANT", "alice")
	t.Setenv("STUDYPLAN_LOG_MODE", "prod")
	t.Setenv("STUDYPLAN_HTTP_ADDR", "127.0.0.1:9000")
	t.Setenv("STUDYPLAN_CORS_ORIGINS", "http://a.test, http://b.test,,")
	t.Setenv("STUDYPLAN_SHUTDOWN_TIMEOUT", "3s")
	t.Setenv("STUDYPLAN_REDIS_ADDR", "localhost:6379")
	t.Setenv("STUDYPLAN_REDIS_CHANNEL", "custom")
	t.Setenv("OTEL_ENABLED", "true")
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "collector:4318")
	t.Setenv("OTEL_SAMPLER_RATIO", "0.25")

	cfg := ConfigFromEnv()

	if cfg.DBPath != "postgres://u:p@db/studyplan" {
		t.Errorf("DBPath = %q", cfg.DBPath)
	}
	if cfg.Tenant != "alice" || cfg.LogMode != "prod" {
		t.Errorf("Tenant/LogMode = %q/%q", cfg.Tenant, cfg.LogMode)
	}
	if cfg.HTTP.Addr != "127.0.0.1:9000" {
		t.Errorf("HTTP.Addr = %q", cfg.HTTP.Addr)
	}
	if len(cfg.HTTP.CORSOrigins) != 2 || cfg.HTTP.CORSOrigins[1] != "http://b.test" {
		t.Errorf("CORSOrigins = %v", cfg.HTTP.CORSOrigins)
	}
	if cfg.HTTP.ShutdownTimeout != 3*time.Second {
		t.Errorf("ShutdownTimeout = %s", cfg.HTTP.ShutdownTimeout)
	}
	if cfg.Redis.Addr != "localhost:6379" || cfg.Redis.Channel != "custom" {
		t.Errorf("Redis = %+v", cfg.Redis)
	}
	if !cfg.Telemetry.Enabled || cfg.Telemetry.Endpoint != "collector:4318" || cfg.Telemetry.SampleRatio != 0.25 {
		t.Errorf("Telemetry = %+v", cfg.Telemetry)
	}
}

func TestConfigFromEnv_BadValuesKeepDefaults(t *testing.T) {
	t.Setenv("STUDYPLAN_SHUTDOWN_TIMEOUT", "soon")
	t.Setenv("OTEL_SAMPLER_RATIO", "lots")
	t.Setenv("OTEL_ENABLED", "maybe")

	cfg := ConfigFromEnv()
	def := DefaultConfig()
	if cfg.HTTP.ShutdownTimeout != def.HTTP.ShutdownTimeout {
		t.Errorf("ShutdownTimeout = %s", cfg.HTTP.ShutdownTimeout)
	}
	if cfg.Telemetry.SampleRatio != def.Telemetry.SampleRatio {
		t.Errorf("SampleRatio = %g", cfg.Telemetry.SampleRatio)
	}
	if cfg.Telemetry.Enabled {
		t.Error(`"maybe" should not enable telemetry`)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty tenant", func(c *Config) { c.Tenant = "  " }},
		{"empty addr", func(c *Config) { c.HTTP.Addr = "" }},
		{"zero shutdown", func(c *Config) { c.HTTP.ShutdownTimeout = 0 }},
		{"ratio above one", func(c *Config) { c.Telemetry.SampleRatio = 1.5 }},
		{"negative ratio", func(c *Config) { c.Telemetry.SampleRatio = -0.1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte("STUDYPLAN_TEST_DOTENV=from-file\nSTUDYPLAN_TEST_PRESET=from-file\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("STUDYPLAN_TEST_PRESET", "from-env")
	t.Cleanup(func() { os.Unsetenv("STUDYPLAN_TEST_DOTENV") })

	if err := LoadDotEnv(path, filepath.Join(dir, "missing.env")); err != nil {
		t.Fatalf("LoadDotEnv: %v", err)
	}
	if got := os.Getenv("STUDYPLAN_TEST_DOTENV"); got != "from-file" {
		t.Errorf("STUDYPLAN_TEST_DOTENV = %q", got)
	}
	if got := os.Getenv("STUDYPLAN_TEST_PRESET"); got != "from-env" {
		t.Errorf("existing variables must win, got %q", got)
	}
}
