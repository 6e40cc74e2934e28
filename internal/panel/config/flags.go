package config

import (
	"flag"
	"os"
	"time"

	"github.com/dvelarde/vigia/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   base URL of the table-store endpoint
//	-k string   store API key
//	-z string   civil time zone name (IANA)
//	-i int      state refresh interval in seconds
//
// Only the flags handled here are parsed; the rest of os.Args is filtered
// out via flagx.FilterArgs to avoid interference with other components.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-k", "-z", "-i"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.StoreBaseURL, "a", cfg.StoreBaseURL, "base URL of the table store")
	fs.StringVar(&cfg.StoreAPIKey, "k", cfg.StoreAPIKey, "store API key")
	fs.StringVar(&cfg.TimeZone, "z", cfg.TimeZone, "civil time zone for HH:MM rendering")
	refreshInterval := fs.Int("i", int(cfg.StateRefreshInterval.Seconds()), "state refresh interval (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.StateRefreshInterval = time.Duration(*refreshInterval) * time.Second
}
