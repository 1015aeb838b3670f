package server

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/scythe504/typing-hub-backend/internal/database"
)

type Config struct {
	Port          int
	AppEnv        string
	LogLevel      string
	AllowedOrigin string

	// inbound messages per second per connection, 0 disables the limiter
	ClientRateLimit float64
	ClientRateBurst int

	Database database.Config
}

// LoadConfig reads the environment, after loading .env if one exists.
func LoadConfig() Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warn().Err(err).Msg("[LoadConfig] could not read .env file")
	}

	return Config{
		Port:            envInt("PORT", 8080),
		AppEnv:          envString("APP_ENV", "local"),
		LogLevel:        envString("LOG_LEVEL", "info"),
		AllowedOrigin:   envString("ALLOWED_ORIGIN", "*"),
		ClientRateLimit: envFloat("CLIENT_RATE_LIMIT", 30),
		ClientRateBurst: envInt("CLIENT_RATE_BURST", 60),
		Database: database.Config{
			Host:     os.Getenv("DB_HOST"),
			Port:     envString("DB_PORT", "5432"),
			Database: os.Getenv("DB_DATABASE"),
			Username: os.Getenv("DB_USERNAME"),
			Password: os.Getenv("DB_PASSWORD"),
			Schema:   os.Getenv("DB_SCHEMA"),
		},
	}
}

func envString(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Warn().Str("key", key).Str("value", v).Msg("[LoadConfig] invalid integer, using default")
		return fallback
	}
	return n
}

func envFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		log.Warn().Str("key", key).Str("value", v).Msg("[LoadConfig] invalid number, using default")
		return fallback
	}
	return f
}
