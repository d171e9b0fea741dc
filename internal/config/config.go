package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPPort           string
	BackendBaseURL     string
	PaymentConfirmURL  string
	RedisAddr          string
	KafkaBrokers       []string
	PostgresHost       string
	PostgresPort       int
	PostgresUser       string
	PostgresPassword   string
	PostgresDB         string
	MigrationsDirPath  string
	RequestTimeout     time.Duration
	ShutdownTimeout    time.Duration
	MaxRequestBodySize int64
}

// Load reads configuration from the environment, picking up a local .env
// file first when one exists.
func Load() *Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("could not load .env file: %v", err)
	}

	return &Config{
		HTTPPort:           getEnv("HTTP_PORT", "8080"),
		BackendBaseURL:     getEnv("BACKEND_BASE_URL", "http://localhost:8090"),
		PaymentConfirmURL:  getEnv("PAYMENT_CONFIRM_URL", "http://localhost:8090/api/payments/confirm"),
		RedisAddr:          getEnv("REDIS_ADDR", "localhost:6379"),
		KafkaBrokers:       splitList(getEnv("KAFKA_BROKERS", "")),
		PostgresHost:       getEnv("POSTGRES_HOST", ""),
		PostgresPort:       getEnvInt("POSTGRES_PORT", 5432),
		PostgresUser:       getEnv("POSTGRES_USER", "postgres"),
		PostgresPassword:   getEnv("POSTGRES_PASSWORD", "postgres"),
		PostgresDB:         getEnv("POSTGRES_DB", "storefront"),
		MigrationsDirPath:  getEnv("MIGRATIONS_DIR", "internal/checkout/migrations"),
		RequestTimeout:     30 * time.Second,
		ShutdownTimeout:    10 * time.Second,
		MaxRequestBodySize: 1 << 20, // 1MB
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("invalid %s value %q, using %d", key, value, defaultValue)
		return defaultValue
	}
	return n
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
