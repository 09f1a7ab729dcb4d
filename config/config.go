package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds all configuration for the application.
type Config struct {
	// Server configuration
	ServerPort string

	// Database configuration. DatabaseURL selects Postgres; when empty the
	// server falls back to a local SQLite file at SQLitePath.
	DatabaseURL string
	SQLitePath  string

	// Third-party provider credentials
	OMDbAPIKey   string
	GeminiAPIKey string
	GeminiModel  string

	// JWT configuration
	JWTSecret string

	// Redis configuration (optional; rate limiting and recommendation cache
	// are disabled when RedisAddr is empty)
	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

// Load creates a Config from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		ServerPort:    getEnv("PORT", "8080"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		SQLitePath:    getEnv("SQLITE_PATH", "data.sqlite"),
		OMDbAPIKey:    os.Getenv("OMDB_API_KEY"),
		GeminiAPIKey:  os.Getenv("GEMINI_API_KEY"),
		GeminiModel:   getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
		JWTSecret:     os.Getenv("JWT_SECRET"),
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
	}

	if dbStr := os.Getenv("REDIS_DB"); dbStr != "" {
		db, err := strconv.Atoi(dbStr)
		if err != nil {
			return nil, fmt.Errorf("invalid REDIS_DB %q: %w", dbStr, err)
		}
		cfg.RedisDB = db
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
