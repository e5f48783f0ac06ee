package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// Config holds application configuration loaded from the environment.
type Config struct {
	AppEnv              string
	Port                string
	CORSAllowedOrigins  []string
	CurrencyCode        string
	CatalogPath         string
	RateLimitEnabled    bool
	RateLimitMax        int
	RateLimitWindow     time.Duration
	SalesWebhookURL     string
	SalesWebhookTimeout time.Duration
	ShutdownTimeout     time.Duration
	MaxBodyBytes        int64
	SecurityHeaders     bool
}

// Load reads configuration from environment variables and optional .env files.
func Load() (*Config, error) {
	_ = godotenv.Load()

	k := koanf.New(".")
	if err := k.Load(env.Provider("", ".", func(s string) string { return s }), nil); err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}

	cfg := &Config{
		AppEnv:              valueOrDefault(k.String("APP_ENV"), "development"),
		Port:                valueOrDefault(k.String("PORT"), "8080"),
		CORSAllowedOrigins:  splitAndTrim(k.String("CORS_ALLOWED_ORIGINS")),
		CurrencyCode:        valueOrDefault(k.String("CURRENCY_CODE"), "USD"),
		CatalogPath:         strings.TrimSpace(k.String("PRICING_CATALOG_PATH")),
		RateLimitEnabled:    parseBool(valueOrDefault(k.String("RATE_LIMIT_ENABLED"), "true")),
		RateLimitMax:        k.Int("RATE_LIMIT_MAX"),
		RateLimitWindow:     parseDuration(k.String("RATE_LIMIT_WINDOW"), "1m"),
		SalesWebhookURL:     strings.TrimSpace(k.String("SALES_WEBHOOK_URL")),
		SalesWebhookTimeout: parseDuration(k.String("SALES_WEBHOOK_TIMEOUT"), "5s"),
		ShutdownTimeout:     parseDuration(k.String("SHUTDOWN_TIMEOUT"), "10s"),
		MaxBodyBytes:        k.Int64("MAX_BODY_BYTES"),
		SecurityHeaders:     parseBool(valueOrDefault(k.String("SECURITY_HEADERS_ENABLED"), "true")),
	}
	if cfg.RateLimitMax <= 0 {
		cfg.RateLimitMax = 300
	}
	if cfg.MaxBodyBytes <= 0 {
		// quote payloads are seat counts plus course lists; 1 MiB is generous
		cfg.MaxBodyBytes = 1 << 20
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

// MustLoad behaves like Load but panics on error. Useful for tests and
// command entrypoints.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

// LoadForTests allows tests to override environment variables without
// touching the real environment.
func LoadForTests(envVars map[string]string) (*Config, error) {
	original := make(map[string]string, len(envVars))
	for key := range envVars {
		original[key] = os.Getenv(key)
		if err := setEnvVar(key, envVars[key]); err != nil {
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
