package config

import (
	"os"
	"strconv"
	"time"

	"eventide/internal/cache"
	"eventide/internal/database"
	"eventide/internal/external"
	"eventide/internal/messaging"
	"eventide/internal/service"
)

// Config holds the application configuration
type Config struct {
	Port      string
	GinMode   string
	LogLevel  string
	LogFormat string

	Database database.Config
	Redis    cache.Config
	NATS     messaging.Config
	Paystack external.PaystackConfig
	Core     service.Config
}

// Load reads the configuration from environment variables
func Load() *Config {
	return &Config{
		Port:      getEnv("PORT", "8080"),
		GinMode:   getEnv("GIN_MODE", "debug"),
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),

		Database: database.Config{
			Host:               getEnv("DB_HOST", "localhost"),
			Port:               getEnvInt("DB_PORT", 5432),
			User:               getEnv("DB_USER", "eventide"),
			Password:           getEnv("DB_PASSWORD", "eventide123"),
			DBName:             getEnv("DB_NAME", "eventide"),
			SSLMode:            getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:       getEnvInt("DB_MAX_OPEN_CONNS", 50),
			MaxIdleConns:       getEnvInt("DB_MAX_IDLE_CONNS", 10),
			ConnMaxLifetimeMin: getEnvInt("DB_CONN_MAX_LIFETIME_MIN", 5),
			ConnMaxIdleTimeMin: getEnvInt("DB_CONN_MAX_IDLE_TIME_MIN", 1),
		},

		Redis: cache.Config{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},

		NATS: messaging.Config{
			URL:       getEnv("NATS_URL", "nats://localhost:4222"),
			ClusterID: getEnv("NATS_CLUSTER_ID", "eventide"),
			ClientID:  getEnv("NATS_CLIENT_ID", "eventide-api"),
		},

		Paystack: external.PaystackConfig{
			BaseURL:     getEnv("PAYSTACK_BASE_URL", "https://api.paystack.co"),
			SecretKey:   getEnv("PAYSTACK_SECRET_KEY", ""),
			CallbackURL: getEnv("FRONTEND_URL", "http://localhost:5173") + "/payment/callback",
			Timeout:     time.Duration(getEnvInt("PAYSTACK_TIMEOUT_SEC", 30)) * time.Second,
		},

		Core: service.Config{
			WebhookSecret:   getEnv("PAYSTACK_SECRET_KEY", ""),
			WebhookDedupTTL: time.Duration(getEnvInt("WEBHOOK_DEDUP_TTL_SEC", 3600)) * time.Second,
			VerifyBaseURL:   getEnv("FRONTEND_URL", "http://localhost:5173"),
			RedemptionGrace: time.Duration(getEnvInt("REDEMPTION_GRACE_HOURS", 24)) * time.Hour,
			Currency:        getEnv("PAYMENT_CURRENCY", "NGN"),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
