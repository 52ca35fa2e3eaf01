package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config contains server configuration parameters.
type Config struct {
	Port          string `env:"PORT" envDefault:"8080"`
	DatabaseURL   string `env:"DATABASE_URL" envDefault:"host=localhost user=postgres password=postgres dbname=miniblog port=5432 sslmode=disable"`
	SessionSecret string `env:"SESSION_SECRET" envDefault:"secret_key_change_me"`
	SiteURL       string `env:"SITE_URL" envDefault:"http://localhost:8080"`
	TemplatesDir  string `env:"TEMPLATES_DIR" envDefault:"./web/templates"`
	StaticDir     string `env:"STATIC_DIR" envDefault:"./web/static"`
	LogLevel      int    `env:"LOG_LEVEL" envDefault:"0"`
	GitHub        GitHub `envPrefix:"GITHUB_"`
}

// GitHub contains OAuth parameters for the GitHub identity provider.
// TokenURL and AuthURL are only set in tests to point the exchange at
// a fake provider; empty means the real GitHub endpoints.
type GitHub struct {
	ClientID     string `env:"CLIENT_ID"`
	ClientSecret string `env:"CLIENT_SECRET"`
	APIURL       string `env:"API_URL" envDefault:"https://api.github.com"`
	AuthURL      string `env:"AUTH_URL"`
	TokenURL     string `env:"TOKEN_URL"`
}

// NewConfig loads configuration from environment variables.
func NewConfig() (*Config, error) {
	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &cfg, nil
}
