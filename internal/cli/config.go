package cli

import (
	"fmt"
	"net/url"
	"os"
)

// Config holds CLI configuration
type Config struct {
	ServerURL string
	Output    string
}

// DefaultConfig reads DUCKRACE_SERVER and DUCKRACE_OUTPUT; flags override both
func DefaultConfig() *Config {
	return &Config{
		ServerURL: getEnvOrDefault("DUCKRACE_SERVER", "http://localhost:3000"),
		Output:    getEnvOrDefault("DUCKRACE_OUTPUT", "text"),
	}
}

// Validate checks the resolved flag and env values
func (c *Config) Validate() error {
	switch c.Output {
	case "text", "json":
	default:
		return fmt.Errorf("invalid output format %q: must be text or json", c.Output)
	}

	u, err := url.Parse(c.ServerURL)
	if err != nil {
		return fmt.Errorf("invalid server URL: %w", err)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid server URL %q: missing host", c.ServerURL)
	}
	return nil
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
