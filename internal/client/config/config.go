package config

import (
	"os"
	"path/filepath"
	"time"
)

// Config holds runtime settings for the Notably CLI.
//
// Fields:
//   - APIBaseURL: base URL of the backend HTTP API, including the /api prefix.
//   - RequestTimeout: per-request deadline for API calls.
//   - TokenPath: file where the session token is persisted between runs.
//
// Units: RequestTimeout is a time.Duration (e.g., 15*time.Second).
type Config struct {
	APIBaseURL     string
	RequestTimeout time.Duration
	TokenPath      string
}

// LoadDefaults populates c with sensible defaults. The token lives under the
// OS user config directory; when that cannot be resolved the current
// directory is used.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "http://localhost:3000/api"
	c.RequestTimeout = 15 * time.Second

	dir, err := os.UserConfigDir()
	if err != nil {
		c.TokenPath = ".notably_token"
		return
	}
	c.TokenPath = filepath.Join(dir, "notably", "token")
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// the environment, JSON (if present) and command-line flags (if present).
// Later sources take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
