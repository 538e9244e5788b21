package e2e

import (
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	// PAWMATCH_URL points at a running server, the suite is skipped without it
	ServerURL string `envconfig:"PAWMATCH_URL"`
	// E2E_COLOURS enables colorized output for better log readability
	Colours  bool   `envconfig:"E2E_COLOURS" default:"true"`
	LogLevel string `envconfig:"E2E_LOG_LEVEL" default:"INFO"`
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	return cfg, err
}
