// Package config handles configuration for the client, including defaults,
// JSON overlay, and command-line flags.
package config

import "time"

// Config holds runtime settings for the AgroSync client.
//
// Fields:
//   - ServerURL: base URL of the sync server (e.g. "http://127.0.0.1:8080").
//   - DatabasePath: path of the local SQLite replica.
//   - RequestTimeout: bound on every HTTP call; a timed-out push or pull
//     aborts the session with the watermark untouched.
type Config struct {
	ServerURL      string
	DatabasePath   string
	RequestTimeout time.Duration
}

// LoadDefaults populates Config with sensible development defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://127.0.0.1:8080"
	c.DatabasePath = "agrosync.db"
	c.RequestTimeout = 30 * time.Second
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file and finally from command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
