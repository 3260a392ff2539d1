package config

import "github.com/caarlos0/env/v11"

// parseEnv overlays cfg with ARCHEPAL_* environment variables. Unset
// variables leave the existing values alone.
func parseEnv(cfg *Config) {
	if err := env.Parse(cfg); err != nil {
		panic(err)
	}
}
