package config

import (
	"os"

	"github.com/joho/godotenv"
)

const (
	EnvDataDir  = "ASTRODYN_DATA"
	EnvLogLevel = "ASTRODYN_LOG_LEVEL"

	DefaultDataDir  = ".astrodyn"
	DefaultLogLevel = "info"
)

// LoadEnv reads the given .env files into the process environment without
// overriding variables that are already set. Missing files are ignored.
func LoadEnv(files ...string) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		_ = godotenv.Load(f)
	}
}

// DataDir is where runs are stored.
func DataDir() string {
	return getenv(EnvDataDir, DefaultDataDir)
}

// LogLevel is one of debug, info, warn or error.
func LogLevel() string {
	return getenv(EnvLogLevel, DefaultLogLevel)
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
