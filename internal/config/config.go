package config

import (
	"log"
	"os"
	"strconv"
	"time"
)

// Config holds application configuration values.
type Config struct {
	Secret          string
	DatabaseDSN     string
	HTTPPort        string
	AdminPassHash   string
	OpenAIKey       string
	InsightTimeout  time.Duration
	LogSalesToAudit bool
}

// Load reads configuration from environment variables with reasonable defaults.
func Load() Config {
	secret := os.Getenv("SECRET")
	if secret == "" {
		secret = "dev_secret"
	}

	port := os.Getenv("HTTP_PORT")
	if port == "" {
		port = "8080"
	}
	// Validate that port is numeric.
	if _, err := strconv.Atoi(port); err != nil {
		log.Printf("invalid HTTP_PORT value %q, defaulting to 8080", port)
		port = "8080"
	}

	dsn := os.Getenv("DATABASE_DSN")
	if dsn == "" {
		dsn = "evw.db"
	}

	timeout := 15 * time.Second
	if raw := os.Getenv("INSIGHT_TIMEOUT_SECONDS"); raw != "" {
		if secs, err := strconv.Atoi(raw); err == nil && secs > 0 {
			timeout = time.Duration(secs) * time.Second
		} else {
			log.Printf("invalid INSIGHT_TIMEOUT_SECONDS value %q, keeping default", raw)
		}
	}

	logSales := false
	if raw := os.Getenv("LOG_SALES_TO_AUDIT"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			log.Printf("invalid LOG_SALES_TO_AUDIT value %q, keeping default", raw)
		} else {
			logSales = parsed
		}
	}

	return Config{
		Secret:          secret,
		DatabaseDSN:     dsn,
		HTTPPort:        port,
		AdminPassHash:   os.Getenv("ADMIN_PASS_HASH"),
		OpenAIKey:       os.Getenv("OPENAI_API_KEY"),
		InsightTimeout:  timeout,
		LogSalesToAudit: logSales,
	}
}
