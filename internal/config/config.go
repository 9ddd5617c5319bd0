package config

import (
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds the settings read from the environment. CLI flags may
// override them after Load.
type Config struct {
	Workers    int
	Extensions []string
	Pdftotext  bool
	LogLevel   string
	LogFormat  string
	ListenAddr string
	UploadMB   int
	CacheSize  int
}

// Load reads an optional .env file and then the environment.
func Load() (Config, error) {
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv builds the configuration from the process environment only.
func FromEnv() (Config, error) {
	cfg := Config{
		Extensions: splitList(getEnv("STATEMENT_EXTENSIONS", ".pdf")),
		LogLevel:   getEnv("LOG_LEVEL", "info"),
		LogFormat:  getEnv("LOG_FORMAT", "console"),
		ListenAddr: getEnv("LISTEN_ADDR", ":8080"),
	}

	var err error
	if cfg.Workers, err = getInt("STATEMENT_WORKERS", runtime.NumCPU(), 1); err != nil {
		return Config{}, err
	}
	if cfg.UploadMB, err = getInt("UPLOAD_LIMIT_MB", 32, 1); err != nil {
		return Config{}, err
	}
	if cfg.CacheSize, err = getInt("CACHE_ENTRIES", 256, 0); err != nil {
		return Config{}, err
	}
	if cfg.Pdftotext, err = getBool("PDFTOTEXT_FALLBACK", true); err != nil {
		return Config{}, err
	}

	if cfg.LogFormat != "console" && cfg.LogFormat != "json" {
		return Config{}, fmt.Errorf("config: LOG_FORMAT must be console or json, got %q", cfg.LogFormat)
	}
	if len(cfg.Extensions) == 0 {
		return Config{}, fmt.Errorf("config: STATEMENT_EXTENSIONS is empty")
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}

func getInt(key string, fallback, minimum int) (int, error) {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", key, err)
	}
	if n < minimum {
		return 0, fmt.Errorf("config: %s must be at least %d, got %d", key, minimum, n)
	}
	return n, nil
}

func getBool(key string, fallback bool) (bool, error) {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("config: %s: %w", key, err)
	}
	return b, nil
}

// splitList parses a comma-separated list, dropping blanks.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
