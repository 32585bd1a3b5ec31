package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	StorageMemory = "memory"
	StorageSQLite = "sqlite"
)

type Config struct {
	Port            int
	Env             string
	Storage         string
	SQLiteDSN       string
	LogLevel        string
	ShutdownTimeout time.Duration

	// Консоль и CLI
	APIURL      string
	ConsolePort int
}

// Load читает .env (если он есть) и переменные окружения.
// Некорректные значения заменяются значениями по умолчанию.
func Load() *Config {
	// .env не обязателен
	_ = godotenv.Load()

	return &Config{
		Port:            intEnv("PORT", 5000),
		Env:             stringEnv("APP_ENV", "development"),
		Storage:         stringEnv("STORAGE", StorageMemory),
		SQLiteDSN:       stringEnv("SQLITE_DSN", ":memory:"),
		LogLevel:        stringEnv("LOG_LEVEL", "info"),
		ShutdownTimeout: durationEnv("SHUTDOWN_TIMEOUT", 5*time.Second),

		APIURL:      stringEnv("API_URL", "http://localhost:5000"),
		ConsolePort: intEnv("CONSOLE_PORT", 3000),
	}
}

func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

func (c *Config) ConsoleAddr() string {
	return fmt.Sprintf(":%d", c.ConsolePort)
}

func stringEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func intEnv(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}

func durationEnv(key string, fallback time.Duration) time.Duration {
	v, err := time.ParseDuration(os.Getenv(key))
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}
