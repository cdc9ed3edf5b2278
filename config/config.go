package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port          string
	PostgresDSN   string
	RedisURL      string
	KafkaBrokers  string
	KafkaTopic    string
	JWTSecret     string
	CatalogTTL    time.Duration
	CheckoutDelay time.Duration
}

// Load reads configuration from the environment, falling back to a .env
// file when present.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		Port:          getEnv("PORT", "8086"),
		PostgresDSN:   postgresDSN(),
		RedisURL:      getEnv("REDIS_URL", "redis://localhost:6379"),
		KafkaBrokers:  getEnv("KAFKA_BROKERS", "localhost:9092"),
		KafkaTopic:    getEnv("KAFKA_TOPIC", "checkout.completed"),
		JWTSecret:     os.Getenv("JWT_SECRET"),
		CatalogTTL:    getDuration("CATALOG_CACHE_TTL", 5*time.Minute),
		CheckoutDelay: getDuration("CHECKOUT_DELAY", 2*time.Second),
	}
}

func postgresDSN() string {
	if dsn := os.Getenv("POSTGRES_DSN"); dsn != "" {
		return dsn
	}
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		getEnv("POSTGRES_HOST", "localhost"),
		getEnv("POSTGRES_USER", "postgres"),
		os.Getenv("POSTGRES_PASSWORD"),
		getEnv("POSTGRES_DB", "basket"),
		getEnv("POSTGRES_PORT", "5432"),
	)
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getDuration(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return defaultVal
}
