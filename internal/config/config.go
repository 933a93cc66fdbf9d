// Package config reads tool defaults from the environment. Command-line
// flags override everything here.
package config

import (
	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// Config holds tool defaults.
type Config struct {
	LogLevel      string `env:"SYNTHNORM_LOG_LEVEL" envDefault:"warn"`
	Indent        int    `env:"SYNTHNORM_INDENT" envDefault:"4"`
	ConvertNumber bool   `env:"SYNTHNORM_CONVERT_NUMBER" envDefault:"false"`
	IDMapPath     string `env:"SYNTHNORM_IDMAP" envDefault:""`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	// Attempt to load .env file for local development.
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}
