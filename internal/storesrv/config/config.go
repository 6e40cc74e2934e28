// Package config handles configuration for the table-store service.
// Values come from the environment; defaults are development-only.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds runtime settings for the store service.
//
// Fields:
//   - Addr: bind address of the HTTP endpoint.
//   - DatabaseDSN: postgres DSN (pgx) or sqlite file DSN.
//   - APIKey: shared key every client must present.
//   - SecretKey: HMAC secret for verifying bearer JWTs (HS256).
//   - Backup*: S3-compatible snapshot settings.
type Config struct {
	Addr        string `env:"VIGIA_STORE_ADDR" envDefault:":8090"`
	DatabaseDSN string `env:"VIGIA_STORE_DSN" envDefault:"file:vigia.db?cache=shared"`
	APIKey      string `env:"VIGIA_STORE_API_KEY" envDefault:"dev-api-key"`
	SecretKey   string `env:"VIGIA_STORE_SECRET" envDefault:"secretKey"`

	BackupEnabled  bool          `env:"VIGIA_BACKUP_ENABLED" envDefault:"false"`
	BackupInterval time.Duration `env:"VIGIA_BACKUP_INTERVAL" envDefault:"1h"`
	S3RootUser     string        `env:"VIGIA_S3_USER" envDefault:"admin"`
	S3RootPassword string        `env:"VIGIA_S3_PASSWORD" envDefault:"secretpassword"`
	S3Bucket       string        `env:"VIGIA_S3_BUCKET" envDefault:"vigia"`
	S3Region       string        `env:"VIGIA_S3_REGION" envDefault:"us-east-1"`
	S3BaseEndpoint string        `env:"VIGIA_S3_ENDPOINT" envDefault:"http://127.0.0.1:9000/"`
}

// LoadConfig parses the environment into a Config.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	return cfg, nil
}
