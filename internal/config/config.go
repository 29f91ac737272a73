package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"

	"github.com/noah-isme/toko-checkout/internal/pricing"
)

// Config holds application configuration loaded from the environment.
type Config struct {
	AppEnv               string
	Port                 string
	LogFormat            string
	LogLevel             string
	ShippingFlatRate     pricing.Money
	MetricsEnabled       bool
	MetricsNamespace     string
	TracingEnabled       bool
	TracingExporter      string
	OTLPEndpoint         string
	TracingSamplingRatio float64
	RedisURL             string
	LockTTL              time.Duration
	CORSAllowedOrigins   []string
	SeedDemoCatalog      bool
	CheckoutRateLimit    int
	CheckoutRateWindow   time.Duration
}

// Load reads configuration from environment variables and optional .env files.
func Load() (*Config, error) {
	_ = godotenv.Load()

	k := koanf.New(".")
	if err := k.Load(env.Provider("", ".", func(s string) string { return s }), nil); err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}

	shipping, err := pricing.Parse(valueOrDefault(k.String("SHIPPING_FLAT_RATE"), "10.0"))
	if err != nil {
		return nil, fmt.Errorf("SHIPPING_FLAT_RATE: %w", err)
	}
	ratio, err := parseRatio(k.String("TRACING_SAMPLING_RATIO"), 1)
	if err != nil {
		return nil, fmt.Errorf("TRACING_SAMPLING_RATIO: %w", err)
	}

	cfg := &Config{
		AppEnv:               valueOrDefault(k.String("APP_ENV"), "development"),
		Port:                 valueOrDefault(k.String("PORT"), "8080"),
		LogFormat:            strings.ToLower(valueOrDefault(k.String("LOG_FORMAT"), "json")),
		LogLevel:             strings.ToLower(valueOrDefault(k.String("LOG_LEVEL"), "info")),
		ShippingFlatRate:     shipping,
		MetricsEnabled:       parseBool(k.String("METRICS_ENABLED"), true),
		MetricsNamespace:     valueOrDefault(k.String("METRICS_NAMESPACE"), "toko_checkout"),
		TracingEnabled:       parseBool(k.String("TRACING_ENABLED"), false),
		TracingExporter:      strings.ToLower(valueOrDefault(k.String("TRACING_EXPORTER"), "otlp")),
		OTLPEndpoint:         strings.TrimSpace(k.String("OTLP_ENDPOINT")),
		TracingSamplingRatio: ratio,
		RedisURL:             strings.TrimSpace(k.String("REDIS_URL")),
		LockTTL:              parseDuration(k.String("LOCK_TTL"), "5s"),
		CORSAllowedOrigins:   splitAndTrim(k.String("CORS_ALLOWED_ORIGINS")),
		SeedDemoCatalog:      parseBool(k.String("SEED_DEMO_CATALOG"), true),
		CheckoutRateLimit:    parseInt(k.String("CHECKOUT_RATE_LIMIT"), 0),
		CheckoutRateWindow:   parseDuration(k.String("CHECKOUT_RATE_WINDOW"), "1m"),
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
		return strings.TrimSpace(value)
	}
	return fallback
}

func parseDuration(value, fallback string) time.Duration {
	base := strings.TrimSpace(value)
	if base == "" {
		base = fallback
	}
	d, err := time.ParseDuration(base)
	if err != nil || d <= 0 {
		d, _ = time.ParseDuration(fallback)
	}
	return d
}

func parseBool(value string, fallback bool) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return fallback
	}
}

func parseInt(value string, fallback int) int {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || n < 0 {
		return fallback
	}
	return n
}

func parseRatio(value string, fallback float64) (float64, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, err
	}
	if f < 0 || f > 1 {
		return 0, fmt.Errorf("%v out of range [0,1]", f)
	}
	return f, nil
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
