package config

import (
	"fmt"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
)

const defaultPath = "./config.yaml"

// Load reads configuration from the file named by CONFIG_PATH (see LoadFile)
// and environment variables.
func Load() (*Config, error) {
	return LoadFile(os.Getenv("CONFIG_PATH"))
}

// LoadFile reads configuration from a YAML file and environment variables.
// Priority: ENV > YAML > defaults (via env-default tags).
// An empty path means "./config.yaml" if it exists, else ENV + defaults only;
// an explicit path that does not exist is an error.
func LoadFile(path string) (*Config, error) {
	var cfg Config

	explicitPath := path != ""
	if !explicitPath {
		path = defaultPath
	}

	switch _, err := os.Stat(path); {
	case err == nil:
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	case explicitPath:
		return nil, fmt.Errorf("config: file %s: %w", path, err)
	default:
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("config: read env: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validate: %w", err)
	}

	return &cfg, nil
}
