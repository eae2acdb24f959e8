// Package config gathers the settings of every component from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"

	"campus-messages/internal/logging"
	"campus-messages/internal/server"
	"campus-messages/internal/storage"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

type Config struct {
	Server  server.EnvConfig
	Storage storage.Config
	Logging logging.Config
}

// Load reads envFile, when it exists, into the process environment without overriding
// variables that are already set, then parses the environment into Config
func Load(envFile string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("loading %s: %w", envFile, err)
		}
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parsing env config: %w", err)
	}

	return cfg, nil
}
