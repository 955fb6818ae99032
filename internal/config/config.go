// Package config provides configuration management functionality.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds application configuration. It is an explicit struct passed
// to store and server initialization, never process-wide state.
type Config struct {
	DBDriver    string // "postgres", "sqlite" or "memory"
	DBConnStr   string // DSN for postgres, file path for sqlite
	PriceSource string // "yahoo" or "static"
	LogLevel    string
	Port        int
	DevMode     bool
}

// Load reads configuration from a .env file (when present) and the
// environment, applying defaults suitable for local use.
func Load() (*Config, error) {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := &Config{
		DBDriver:    getEnv("DB_DRIVER", "sqlite"),
		DBConnStr:   os.Getenv("DB_CONN_STR"),
		PriceSource: getEnv("PRICE_SOURCE", "yahoo"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		DevMode:     getEnv("DEV_MODE", "false") == "true",
	}

	port, err := strconv.Atoi(getEnv("PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid PORT: %w", err)
	}
	cfg.Port = port

	if cfg.DBConnStr == "" {
		switch cfg.DBDriver {
		case "postgres":
			cfg.DBConnStr = postgresConnStr()
		case "sqlite":
			cfg.DBConnStr = getEnv("DB_PATH", "stockfolio.db")
		}
	}

	return cfg, nil
}

// postgresConnStr builds a connection string from individual variables,
// which is friendlier to container environments.
func postgresConnStr() string {
	host := getEnv("DB_HOST", "localhost")
	port := getEnv("DB_PORT", "5432")
	user := getEnv("DB_USER", "postgres")
	password := getEnv("DB_PASSWORD", "postgres")
	dbname := getEnv("DB_NAME", "stockfolio")

	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		host, port, user, password, dbname)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
