package config

import (
	"fmt"
	"os"
	"strconv"
)

const (
	defaultServerPort = "8080"
	defaultDataDir    = ".data"
	defaultMaxChecks  = 5
)

// Config holds server configuration loaded from environment variables
type Config struct {
	ServerPort string
	DataDir    string // root directory of the flat-file record store
	MaxChecks  int    // per-user check quota
}

// Load reads configuration from the environment, falling back to defaults
// for anything unset
func Load() (*Config, error) {
	cfg := &Config{
		ServerPort: defaultServerPort,
		DataDir:    defaultDataDir,
		MaxChecks:  defaultMaxChecks,
	}

	if port := os.Getenv("SERVER_PORT"); port != "" {
		cfg.ServerPort = port
	}
	if dir := os.Getenv("DATA_DIR"); dir != "" {
		cfg.DataDir = dir
	}
	if maxChecks := os.Getenv("MAX_CHECKS"); maxChecks != "" {
		n, err := strconv.Atoi(maxChecks)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("invalid MAX_CHECKS value %q: must be a positive integer", maxChecks)
		}
		cfg.MaxChecks = n
	}

	return cfg, nil
}
