// Package config loads runtime configuration for the Notably CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Environment variables, optionally seeded from a .env file (see parseEnv).
//  3. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  4. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   base URL of the backend HTTP API
//	-t int      request timeout (seconds)
//	-f string   path of the file holding the session token
//
// # Environment variables
//
//	NOTABLY_API_BASE_URL     base URL of the backend HTTP API
//	NOTABLY_REQUEST_TIMEOUT  request timeout, Go duration syntax ("15s")
//	NOTABLY_TOKEN_PATH       path of the file holding the session token
//
// # JSON schema
//
// The JSON loader uses timex.Duration for the timeout, so values can be
// either strings like "15s" or integer nanoseconds:
//
//	{
//	  "api_base_url": "http://localhost:3000/api",
//	  "request_timeout": "15s",
//	  "token_path": "/home/user/.config/notably/token"
//	}
//
// Primary API
//
//   - type Config                     — holds APIBaseURL, RequestTimeout and TokenPath
//   - func LoadConfig() *Config       — builds Config by applying defaults, env, JSON, then flags
//   - func (*Config) LoadDefaults()   — sets sensible defaults
package config
