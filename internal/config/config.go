package config

import (
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	// Medium API
	MediumToken  string
	MediumAPIURL string
	Timeout      time.Duration

	// Publish history (disabled when empty)
	HistoryPath string

	// Logging
	LogLevel string

	// CI is true when running under GitHub Actions.
	CI                bool
	GitHubOutput      string
	GitHubStepSummary string
}

// Load reads configuration from environment variables. Outside CI it first
// loads a local .env file if one is present.
func Load() (*Config, error) {
	ci := os.Getenv("GITHUB_ACTIONS") != ""
	if !ci {
		// Load .env file if it exists (ignore error if not found)
		_ = godotenv.Load()
	}

	cfg := &Config{
		MediumToken:       getEnv("MEDIUM_TOKEN", ""),
		MediumAPIURL:      getEnv("MEDIUM_API_URL", "https://api.medium.com/v1"),
		HistoryPath:       getEnv("HISTORY_PATH", ""),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		CI:                ci,
		GitHubOutput:      getEnv("GITHUB_OUTPUT", ""),
		GitHubStepSummary: getEnv("GITHUB_STEP_SUMMARY", ""),
	}

	var err error
	cfg.Timeout, err = time.ParseDuration(getEnv("MEDIUM_TIMEOUT", "10s"))
	if err != nil {
		return nil, fmt.Errorf("invalid MEDIUM_TIMEOUT: %w", err)
	}

	return cfg, nil
}

// Validate checks that the API settings are usable. An empty MEDIUM_TOKEN
// is allowed through; the platform rejects it.
func (c *Config) Validate() error {
	u, err := url.Parse(c.MediumAPIURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("MEDIUM_API_URL must be an absolute URL, got %q", c.MediumAPIURL)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("MEDIUM_TIMEOUT must be positive, got %s", c.Timeout)
	}
	return nil
}

// ValidateForHistory checks configuration needed to read the publish history.
func (c *Config) ValidateForHistory() error {
	if c.HistoryPath == "" {
		return fmt.Errorf("HISTORY_PATH is required for history")
	}
	return nil
}

// HistoryEnabled reports whether successful publishes are recorded.
func (c *Config) HistoryEnabled() bool {
	return c.HistoryPath != ""
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
