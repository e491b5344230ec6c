package config

import (
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	Env      string
	LogsPath string
	HTTPPort string
	DataDir  string
}

// MustLoad reads configuration from the environment, with a .env file as a
// local-development convenience. Every value has a default suited to a
// single-user local run.
func MustLoad() *Config {
	godotenv.Load()

	return &Config{
		Env:      getEnv("APP_ENV", "local"),
		LogsPath: getEnv("LOGS_PATH", "taskboard.log"),
		HTTPPort: getEnv("HTTP_PORT", "8080"),
		DataDir:  getEnv("DATA_DIR", "data"),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
