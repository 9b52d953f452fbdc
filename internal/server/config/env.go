package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// envConfig mirrors Config with pointer fields so that unset environment
// variables do not clobber values from earlier config stages.
type envConfig struct {
	EndpointAddrHTTP      *string `env:"ADDRESS"`
	DatabaseDSN           *string `env:"DATABASE_DSN"`
	SecretKey             *string `env:"SECRET_KEY"`
	TokenValidityDuration *string `env:"TOKEN_VALIDITY_DURATION"`
}

// parseEnv overlays configuration from environment variables.
func parseEnv(config *Config) error {
	c := &envConfig{}
	if err := env.Parse(c); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}

	if c.EndpointAddrHTTP != nil {
		config.EndpointAddrHTTP = *c.EndpointAddrHTTP
	}
	if c.DatabaseDSN != nil {
		config.DatabaseDSN = *c.DatabaseDSN
	}
	if c.SecretKey != nil {
		config.SecretKey = *c.SecretKey
	}
	if c.TokenValidityDuration != nil {
		d, err := time.ParseDuration(*c.TokenValidityDuration)
		if err != nil {
			return fmt.Errorf("parse TOKEN_VALIDITY_DURATION: %w", err)
		}
		config.TokenValidityDuration = d
	}

	return nil
}
