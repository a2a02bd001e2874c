package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Env holds settings taken from the environment.
type Env struct {
	ConfigPath string `env:"SUBCRACK_CONFIG"`
	DBPath     string `env:"SUBCRACK_DB"`
	NoColor    bool   `env:"SUBCRACK_NO_COLOR"`
	Editor     string `env:"EDITOR" envDefault:"vi"`
}

// ParseEnv loads Env and fills unset paths with their XDG defaults.
func ParseEnv() (Env, error) {
	var cfg Env
	if err := env.Parse(&cfg); err != nil {
		return Env{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.ConfigPath == "" {
		cfg.ConfigPath = DefaultConfigPath()
	}
	if cfg.DBPath == "" {
		cfg.DBPath = DefaultDBPath()
	}
	return cfg, nil
}
