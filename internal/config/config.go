package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	DB_USERNAME string
	DB_PASSWORD string
	DB_HOST     string
	DB_PORT     string
	DB_NAME     string
	DISABLE_TLS string

	// Pool limits for the postgres connection pool
	DB_MAX_OPEN_CONNS     int
	DB_MAX_IDLE_CONNS     int
	DB_CONN_MAX_IDLE_TIME time.Duration

	HTTP_ADDR       string
	ALLOWED_HEADERS string

	// When set, bearer credentials must be Firebase ID tokens for this project
	FIREBASE_PROJECT_ID string

	// Rate limiting. Redis is used when REDIS_ADDR is set, otherwise buckets live in memory.
	REDIS_ADDR         string
	REDIS_PASSWORD     string
	REDIS_DB           int
	RATE_LIMIT         int
	RATE_LIMIT_PERIOD  time.Duration
	RATE_LIMIT_ENABLED bool

	// Otel
	OTEL_EXPORTER_OTLP_ENDPOINT string

	// Used by the timer command to reach the API
	API_BASE_URL string
	API_TOKEN    string
}

func ReadConfig() *Config {
	return &Config{
		DB_USERNAME: os.Getenv("DB_USERNAME"),
		DB_PASSWORD: os.Getenv("DB_PASSWORD"),
		DB_HOST:     getEnvOrDefault("DB_HOST", "localhost"),
		DB_PORT:     getEnvOrDefault("DB_PORT", "5432"),
		DB_NAME:     os.Getenv("DB_NAME"),
		DISABLE_TLS: os.Getenv("DISABLE_TLS"),

		DB_MAX_OPEN_CONNS:     getEnvInt("DB_MAX_OPEN_CONNS", 20),
		DB_MAX_IDLE_CONNS:     getEnvInt("DB_MAX_IDLE_CONNS", 5),
		DB_CONN_MAX_IDLE_TIME: getEnvDuration("DB_CONN_MAX_IDLE_TIME", 30*time.Second),

		HTTP_ADDR:       getEnvOrDefault("HTTP_ADDR", "0.0.0.0:6060"),
		ALLOWED_HEADERS: getEnvOrDefault("ALLOWED_HEADERS", "Authorization, Content-Type"),

		FIREBASE_PROJECT_ID: os.Getenv("FIREBASE_PROJECT_ID"),

		REDIS_ADDR:         os.Getenv("REDIS_ADDR"),
		REDIS_PASSWORD:     os.Getenv("REDIS_PASSWORD"),
		REDIS_DB:           getEnvInt("REDIS_DB", 0),
		RATE_LIMIT:         getEnvInt("RATE_LIMIT", 120),
		RATE_LIMIT_PERIOD:  getEnvDuration("RATE_LIMIT_PERIOD", time.Minute),
		RATE_LIMIT_ENABLED: getEnvOrDefault("RATE_LIMIT_ENABLED", "true") == "true",

		OTEL_EXPORTER_OTLP_ENDPOINT: os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),

		API_BASE_URL: getEnvOrDefault("API_BASE_URL", "http://localhost:6060"),
		API_TOKEN:    os.Getenv("API_TOKEN"),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
