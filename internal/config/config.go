package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds process-level settings for the CLI and the HTTP server.
// Learner preferences such as study days live in the store, not here.
type Config struct {
	// DBPath is a SQLite file path or a postgres:// DSN. Empty means the
	// default data-directory path.
	DBPath string

	// Tenant scopes every store call. Default: "default_user".
	Tenant string

	// LogMode selects the logger: "prod" for JSON, anything else for
	// development console output. Default: "dev".
	LogMode string

	HTTP      HTTPConfig
	Redis     RedisConfig
	Telemetry TelemetryConfig
}

// HTTPConfig configures the serve command.
type HTTPConfig struct {
	Addr            string        // Default: ":8080"
	CORSOrigins     []string      // Default: ["*"]
	ShutdownTimeout time.Duration // Default: 10s
}

// RedisConfig configures the optional cross-process event bus.
// An empty Addr disables it.
type RedisConfig struct {
	Addr    string
	Channel string // Default: "studyplan:events"
}

// TelemetryConfig configures OpenTelemetry tracing.
type TelemetryConfig struct {
	Enabled     bool
	ServiceName string  // Default: "studyplan"
	Endpoint    string  // OTLP/HTTP endpoint; empty exports to stdout
	Insecure    bool    // Plain HTTP to the endpoint
	SampleRatio float64 // Default: 1.0
	Environment string
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Tenant:  "default_user",
		LogMode: "dev",
		HTTP: HTTPConfig{
			Addr:            ":8080",
			CORSOrigins:     []string{"*"},
			ShutdownTimeout: 10 * time.Second,
		},
		Redis: RedisConfig{
			Channel: "studyplan:events",
		},
		Telemetry: TelemetryConfig{
			ServiceName: "studyplan",
			SampleRatio: 1.0,
		},
	}
}

// LoadDotEnv loads variables from the given .env files (default ".env")
// without overriding ones already set. Missing files are ignored.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", p, err)
		}
	}
	return nil
}

// ConfigFromEnv builds a Config from environment variables, falling back
// to defaults for unset values.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()

	if p := getEnv("STUDYPLAN_DB"); p != "" {
		cfg.DBPath = p
	}
	if t := getEnv("STUDYPLAN_TENANT"); t != "" {
		cfg.Tenant = t
	}
	if m := getEnv("STUDYPLAN_LOG_MODE"); m != "" {
		cfg.LogMode = m
	}

	if a := getEnv("STUDYPLAN_HTTP_ADDR"); a != "" {
		cfg.HTTP.Addr = a
	}
	if o := getEnv("STUDYPLAN_CORS_ORIGINS"); o != "" {
		cfg.HTTP.CORSOrigins = splitList(o)
	}
	if d := getEnv("STUDYPLAN_SHUTDOWN_TIMEOUT"); d != "" {
		if v, err := time.ParseDuration(d); err == nil {
			cfg.HTTP.ShutdownTimeout = v
		}
	}

	if a := getEnv("STUDYPLAN_REDIS_ADDR"); a != "" {
		cfg.Redis.Addr = a
	}
	if c := getEnv("STUDYPLAN_REDIS_CHANNEL"); c != "" {
		cfg.Redis.Channel = c
	}

	cfg.Telemetry.Enabled = truthy(getEnv("OTEL_ENABLED"))
	cfg.Telemetry.Insecure = truthy(getEnv("OTEL_EXPORTER_OTLP_INSECURE"))
	if e := getEnv("OTEL_EXPORTER_OTLP_ENDPOINT"); e != "" {
		cfg.Telemetry.Endpoint = e
	}
	if n := getEnv("OTEL_SERVICE_NAME"); n != "" {
		cfg.Telemetry.ServiceName = n
	}
	if r := getEnv("OTEL_SAMPLER_RATIO"); r != "" {
		if f, err := strconv.ParseFloat(r, 64); err == nil {
			cfg.Telemetry.SampleRatio = f
		}
	}
	if e := getEnv("STUDYPLAN_ENV"); e != "" {
		cfg.Telemetry.Environment = e
	}

	return cfg
}

// Validate checks values that would otherwise fail late.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Tenant) == "" {
		return fmt.Errorf("STUDYPLAN_TENANT must not be empty")
	}
	if c.HTTP.Addr == "" {
		return fmt.Errorf("STUDYPLAN_HTTP_ADDR must not be empty")
	}
	if c.HTTP.ShutdownTimeout <= 0 {
		return fmt.Errorf("STUDYPLAN_SHUTDOWN_TIMEOUT must be positive, got %s", c.HTTP.ShutdownTimeout)
	}
	if c.Telemetry.SampleRatio < 0 || c.Telemetry.SampleRatio > 1 {
		return fmt.Errorf("OTEL_SAMPLER_RATIO must be within [0, 1], got %g", c.Telemetry.SampleRatio)
	}
	return nil
}

func getEnv(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

func truthy(v string) bool {
	switch strings.ToLower(v) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}

func splitList(raw string) []string {
	var out []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
