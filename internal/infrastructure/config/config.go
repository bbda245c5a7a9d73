package config

import (
	"github.com/caarlos0/env/v10"
)

// Config holds all application configuration.
type Config struct {
	// Storage
	DatabasePath string `env:"SOCHITIEU_DB_PATH"    envDefault:"data/sochitieu.db"`
	BackupDir    string `env:"SOCHITIEU_BACKUP_DIR" envDefault:"backups"`

	// Logging
	LogLevel  string `env:"LOG_LEVEL"  envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"console"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	err := env.Parse(cfg)
	if err != nil {
		return nil, err
	}

	return cfg, nil
}
