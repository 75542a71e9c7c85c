package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

const (
	envAPIBaseURL     = "NOTABLY_API_BASE_URL"
	envRequestTimeout = "NOTABLY_REQUEST_TIMEOUT"
	envTokenPath      = "NOTABLY_TOKEN_PATH"
)

// parseEnv overlays Config with values from the environment. A .env file in
// the working directory is loaded first when present; already-set variables
// keep their values.
//
// Behavior:
//   - Missing variables leave the Config untouched.
//   - A malformed duration in NOTABLY_REQUEST_TIMEOUT panics (caller should
//     recover if desired), matching the JSON and flag stages.
func parseEnv(cfg *Config) {
	_ = godotenv.Load()

	if v := os.Getenv(envAPIBaseURL); v != "" {
		cfg.APIBaseURL = v
	}
	if v := os.Getenv(envRequestTimeout); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			panic(err)
		}
		cfg.RequestTimeout = d
	}
	if v := os.Getenv(envTokenPath); v != "" {
		cfg.TokenPath = v
	}
}
