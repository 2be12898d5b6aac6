// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"stockfolio/internal/quote"
	"stockfolio/pkg/db"
)

// AppConfig holds all application-wide configurations.
type AppConfig struct {
	ServerPort string
	DB         db.Config
	Quote      quote.Config
}

// LoadConfig loads configuration from environment variables, after loading a
// local .env file if one exists.
// It returns an AppConfig instance or an error if any variable is invalid.
func LoadConfig() (*AppConfig, error) {
	// A missing .env is not an error; env vars may come from the environment.
	_ = godotenv.Load()

	serverPort := getEnv("SERVER_PORT", "8080")

	dbPortStr := getEnv("DB_PORT", "5432")
	dbPort, err := strconv.Atoi(dbPortStr)
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	quoteTimeout := quote.DefaultTimeout
	if raw := os.Getenv("QUOTE_TIMEOUT"); raw != "" {
		quoteTimeout, err = time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid QUOTE_TIMEOUT: %w", err)
		}
	}

	return &AppConfig{
		ServerPort: serverPort,
		DB: db.Config{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     dbPort,
			User:     getEnv("DB_USER", "user"),
			Password: getEnv("DB_PASSWORD", "password"),
			DBName:   getEnv("DB_NAME", "stockfoliodb"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Quote: quote.Config{
			BaseURL: getEnv("QUOTE_API_URL", "https://cloud.iexapis.com/stable"),
			APIKey:  os.Getenv("QUOTE_API_KEY"),
			Timeout: quoteTimeout,
		},
	}, nil
}

// getEnv reads an environment variable with a local-development default.
func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
