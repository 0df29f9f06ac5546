package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	Env         string
	DatabaseURL string

	// DefaultRunLimit applies when a run listing request omits limit.
	DefaultRunLimit int
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	runLimit, err := strconv.Atoi(getEnv("DEFAULT_RUN_LIMIT", "40"))
	if err != nil || runLimit < 1 {
		runLimit = 40
	}

	return &Config{
		Port:            getEnv("PORT", "8080"),
		Env:             getEnv("ENV", "development"),
		DatabaseURL:     getEnv("DATABASE_URL", ""),
		DefaultRunLimit: runLimit,
	}, nil
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}
