package config

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	Addr   string
	DBPath string
	Secret string
}

// Load reads configuration from the environment, with an optional .env file
// for local development.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("no .env file found, using environment")
	}

	return Config{
		Addr:   getEnv("APP_ADDR", ":8000"),
		DBPath: getEnv("APP_DB_PATH", "ankachat.db"),
		Secret: getEnv("APP_SECRET", ""),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
