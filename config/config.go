package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

type Config struct {
	Server   ServerConfig
	Observ   ObservabilityConfig
	Business BusinessConfig
	Admin    AdminConfig
}

type ServerConfig struct {
	Env string
}

type ObservabilityConfig struct {
	MetricsPort    string
	JaegerEndpoint string
	TracingEnabled bool
}

type BusinessConfig struct {
	DiscountThreshold decimal.Decimal
	DiscountRate      decimal.Decimal
	SettleEpsilon     decimal.Decimal
}

type AdminConfig struct {
	Username string
	Password string
}

func Load() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Env: getEnv("ENV", "development"),
		},
		Observ: ObservabilityConfig{
			MetricsPort:    getEnv("METRICS_PORT", "9090"),
			JaegerEndpoint: getEnv("JAEGER_ENDPOINT", "http://localhost:14268/api/traces"),
			TracingEnabled: getEnv("TRACING_ENABLED", "false") == "true",
		},
		Business: BusinessConfig{
			DiscountThreshold: getDecimal("DISCOUNT_THRESHOLD", "100"),
			DiscountRate:      getDecimal("DISCOUNT_RATE", "0.10"),
			SettleEpsilon:     getDecimal("SETTLE_EPSILON", "0.000000001"),
		},
		Admin: AdminConfig{
			Username: getEnv("ADMIN_USER", "admin"),
			Password: getEnv("ADMIN_PASS", "1234"),
		},
	}

	log.Printf("Config loaded: env=%s, discount_threshold=%s, discount_rate=%s",
		cfg.Server.Env, cfg.Business.DiscountThreshold, cfg.Business.DiscountRate)
	return cfg
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getDecimal(key, defaultVal string) decimal.Decimal {
	raw := getEnv(key, defaultVal)
	d, err := decimal.NewFromString(raw)
	if err != nil {
		log.Printf("Invalid decimal for %s=%q, using default %s", key, raw, defaultVal)
		d, _ = decimal.NewFromString(defaultVal)
	}
	return d
}
