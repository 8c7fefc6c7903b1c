package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port      string
	LogLevel  string
	LogFormat string
	GinMode   string
	AccessLog bool

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	MaxFormMemory int64
	MaxBodyBytes  int64
}

// Load reads an optional dotenv file and builds Config from the environment.
// A missing dotenv file is not an error; variables already set in the
// environment win over the file.
func Load() (Config, error) {
	path := String("ENV_FILE", ".env")
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load env file %s: %w", path, err)
	}
	return FromEnv(), nil
}

func FromEnv() Config {
	return Config{
		Port:            String("PORT", "8000"),
		LogLevel:        String("LOG_LEVEL", "info"),
		LogFormat:       String("LOG_FORMAT", "console"),
		GinMode:         String("GIN_MODE", "release"),
		AccessLog:       Bool("ACCESS_LOG", true),
		ReadTimeout:     seconds("HTTP_READ_TIMEOUT_SEC", 20),
		WriteTimeout:    seconds("HTTP_WRITE_TIMEOUT_SEC", 20),
		IdleTimeout:     seconds("HTTP_IDLE_TIMEOUT_SEC", 60),
		ShutdownTimeout: seconds("SHUTDOWN_TIMEOUT_SEC", 10),
		MaxFormMemory:   int64(Int("MAX_FORM_MEMORY_MB", 10)) << 20,
		MaxBodyBytes:    int64(Int("MAX_BODY_MB", 10)) << 20,
	}
}

func (c Config) Addr() string {
	return ":" + c.Port
}

func seconds(key string, fallback int) time.Duration {
	return time.Duration(Int(key, fallback)) * time.Second
}
