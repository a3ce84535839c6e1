// Package config loads process configuration from the environment so main
// stays lean.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Server captures process-level configuration. JWTSigningKey is mandatory:
// the process refuses to start without it rather than fall back to a weak
// default.
type Server struct {
	Addr          string        `env:"CIVICID_ADDR" envDefault:":8080"`
	DatabaseURL   string        `env:"DATABASE_URL"`
	JWTSigningKey string        `env:"JWT_SIGNING_KEY,required,notEmpty"`
	JWTIssuer     string        `env:"JWT_ISSUER" envDefault:"civicid"`
	TokenTTL      time.Duration `env:"TOKEN_TTL" envDefault:"168h"`
	BcryptCost    int           `env:"BCRYPT_COST" envDefault:"10"`
	CORSOrigins   []string      `env:"CORS_ORIGINS" envDefault:"*"`
}

// FromEnv parses the configuration, failing on missing required values.
func FromEnv() (Server, error) {
	var cfg Server
	if err := env.Parse(&cfg); err != nil {
		return Server{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
