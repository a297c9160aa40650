package config

import "time"

// Config holds runtime settings for the Loanwise CLI.
//
// Fields:
//   - ServerBaseURL: base URL of the backend REST API, including the /api
//     prefix.
//   - DatabasePath: path of the local SQLite database holding credentials.
//   - RequestTimeout: per-request HTTP timeout.
//   - MinLoanAmount: optional lower bound enforced by draft validation;
//     0 disables the check.
type Config struct {
	ServerBaseURL  string
	DatabasePath   string
	RequestTimeout time.Duration
	MinLoanAmount  float64
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerBaseURL = "http://127.0.0.1:8080/api"
	c.DatabasePath = "loanwise.db"
	c.RequestTimeout = 15 * time.Second
	c.MinLoanAmount = 0
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJSON(cfg)
	parseFlags(cfg)
	return cfg
}
