package app

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config is the process configuration, read once from the environment
type Config struct {
	Env  string
	Host string
	Port int

	StorageType string
	RedisURL    string

	StaticDir     string
	ResetDelay    time.Duration
	SweepInterval time.Duration
}

// IsProd reports whether the process runs in production mode
func (c Config) IsProd() bool {
	return c.Env == "prod"
}

// LoadConfig reads the configuration from the environment. Invalid values
// fall back to their defaults with a warning on logger.
func LoadConfig(logger *slog.Logger) Config {
	l := loader{logger: logger}
	return Config{
		Env:           l.getEnv("APP_ENV", "dev"),
		Host:          l.getEnv("HOST", ""),
		Port:          l.getEnvInt("PORT", 3000),
		StorageType:   strings.ToLower(l.getEnv("STORAGE_TYPE", "memory")),
		RedisURL:      l.getEnv("REDIS_URL", ""),
		StaticDir:     l.getEnv("STATIC_DIR", "public"),
		ResetDelay:    l.getEnvDuration("RESET_DELAY", 5*time.Second),
		SweepInterval: l.getEnvDuration("SWEEP_INTERVAL", 5*time.Minute),
	}
}

type loader struct {
	logger *slog.Logger
}

// getEnv returns the env var or a default
func (l loader) getEnv(k, def string) string {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		return v
	}
	return def
}

// getEnvInt parses a positive int env var with a fallback
func (l loader) getEnvInt(k string, def int) int {
	v := l.getEnv(k, "")
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil || i <= 0 {
		l.invalid(k, v, def)
		return def
	}
	return i
}

// getEnvDuration parses a positive Go duration env var with a fallback
func (l loader) getEnvDuration(k string, def time.Duration) time.Duration {
	v := l.getEnv(k, "")
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		l.invalid(k, v, def)
		return def
	}
	return d
}

func (l loader) invalid(k, v string, def any) {
	l.logger.Warn("invalid config value, using default",
		slog.String("key", k),
		slog.String("value", v),
		slog.Any("default", def))
}
