package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dvelarde/vigia/internal/flagx"
	"github.com/dvelarde/vigia/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. It relies on
// timex.Duration so JSON can specify intervals either as strings like "5m"
// or as integer nanoseconds.
type JsonConfig struct {
	StoreBaseURL         string         `json:"store_base_url"`
	StoreAPIKey          string         `json:"store_api_key"`
	TimeZone             string         `json:"time_zone"`
	StateRefreshInterval timex.Duration `json:"state_refresh_interval"`
}

// parseJson overlays cfg with values from the JSON file named by the
// -c/-config flags. With no such flag the function is a no-op. Read or
// unmarshal errors panic; config is resolved before any remote work starts.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.StoreBaseURL != "" {
		cfg.StoreBaseURL = jc.StoreBaseURL
	}
	if jc.StoreAPIKey != "" {
		cfg.StoreAPIKey = jc.StoreAPIKey
	}
	if jc.TimeZone != "" {
		cfg.TimeZone = jc.TimeZone
	}
	if jc.StateRefreshInterval.Duration != 0 {
		cfg.StateRefreshInterval = time.Duration(jc.StateRefreshInterval.Duration)
	}
}
