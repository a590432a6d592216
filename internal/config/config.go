package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// Config holds application configuration loaded from the environment.
type Config struct {
	AppEnv             string
	Port               string
	CORSAllowedOrigins []string

	CartServiceBaseURL string
	CatalogPath        string

	MaxSlots   int
	NoticeTTL  time.Duration
	SessionTTL time.Duration

	LogFormat        string
	LogLevel         string
	MetricsEnabled   bool
	MetricsNamespace string

	MaxBodyBytes int64
}

// Load reads configuration from environment variables and optional .env files.
func Load() (*Config, error) {
	_ = godotenv.Load()

	k := koanf.New(".")
	if err := k.Load(env.Provider("", ".", func(s string) string { return s }), nil); err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}

	cfg := &Config{
		AppEnv:             valueOrDefault(k.String("APP_ENV"), "development"),
		Port:               valueOrDefault(k.String("PORT"), "8080"),
		CORSAllowedOrigins: splitAndTrim(k.String("CORS_ALLOWED_ORIGINS")),
		CartServiceBaseURL: strings.TrimRight(strings.TrimSpace(k.String("CART_SERVICE_BASE_URL")), "/"),
		CatalogPath:        strings.TrimSpace(k.String("CATALOG_PATH")),
		MaxSlots:           parseInt(k.String("MAX_SLOTS"), 15),
		NoticeTTL:          parseDuration(k.String("NOTICE_TTL"), "4s"),
		SessionTTL:         parseDuration(k.String("SESSION_TTL"), "30m"),
		LogFormat:          valueOrDefault(k.String("OBS_LOG_FORMAT"), "json"),
		LogLevel:           valueOrDefault(k.String("OBS_LOG_LEVEL"), "info"),
		MetricsEnabled:     parseBool(valueOrDefault(k.String("OBS_ENABLE_PROMETHEUS"), "true")),
		MetricsNamespace:   valueOrDefault(k.String("OBS_METRICS_NAMESPACE"), "configurator"),
		MaxBodyBytes:       int64(parseInt(k.String("MAX_BODY_BYTES"), 1<<20)),
	}

	if cfg.CartServiceBaseURL == "" {
		return nil, errors.New("CART_SERVICE_BASE_URL is required")
	}
	if cfg.CatalogPath == "" {
		return nil, errors.New("CATALOG_PATH is required")
	}
	if cfg.MaxSlots <= 0 {
		cfg.MaxSlots = 15
	}

	return cfg, nil
}

// HTTPAddr returns the address the HTTP server should bind to.
func (c *Config) HTTPAddr() string {
	port := strings.TrimSpace(c.Port)
	if port == "" {
		port = "8080"
	}
	if strings.HasPrefix(port, ":") {
		return port
	}
	return ":" + port
}

func splitAndTrim(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func valueOrDefault(value, fallback string) string {
	if strings.TrimSpace(value) != "" {
		return value
	}
	return fallback
}

func parseDuration(value, fallback string) time.Duration {
	base := strings.TrimSpace(value)
	if base == "" {
		base = fallback
	}
	d, err := time.ParseDuration(base)
	if err != nil {
		d, _ = time.ParseDuration(fallback)
	}
	return d
}

func parseBool(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}

func parseInt(value string, fallback int) int {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return fallback
	}
	n, err := strconv.Atoi(trimmed)
	if err != nil {
		return fallback
	}
	return n
}

// MustLoad behaves like Load but panics on error. Useful for tests and command entrypoints.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

// LoadForTests allows tests to override environment variables without touching the real environment.
func LoadForTests(env map[string]string) (*Config, error) {
	original := make(map[string]string, len(env))
	for key := range env {
		original[key] = os.Getenv(key)
		if err := setEnvVar(key, env[key]); err != nil {
			return nil, err
		}
	}
	cfg, err := Load()
	restoreErr := restoreEnv(original)
	if err != nil {
		return nil, err
	}
	return cfg, restoreErr
}

func setEnvVar(key, value string) error {
	if value == "" {
		return os.Unsetenv(key)
	}
	return os.Setenv(key, value)
}

func restoreEnv(values map[string]string) error {
	var errs []string
	for key, value := range values {
		if err := setEnvVar(key, value); err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", key, err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("restore env: %s", strings.Join(errs, "; "))
	}
	return nil
}
