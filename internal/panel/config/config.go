// Package config handles configuration for the operator panel: defaults,
// JSON overlay, and command-line flags, applied in that order.
package config

import "time"

// Config holds runtime settings for the panel CLI.
//
// Fields:
//   - StoreBaseURL: base URL of the table-store REST endpoint.
//   - StoreAPIKey: API key sent with every store request.
//   - TimeZone: civil zone for "HH:MM" narrative rendering, independent of
//     the host zone.
//   - StateRefreshInterval: how often the shared cache is rehydrated.
type Config struct {
	StoreBaseURL         string
	StoreAPIKey          string
	TimeZone             string
	StateRefreshInterval time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.StoreBaseURL = "http://127.0.0.1:8090"
	c.StoreAPIKey = "dev-api-key"
	c.TimeZone = "Europe/Madrid"
	c.StateRefreshInterval = 5 * time.Minute
}

// LoadConfig constructs a Config, applies defaults, then overlays values
// from JSON (if present) and command-line flags (if present). Later sources
// take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
