package config

import (
	"fmt"
	"path/filepath"

	"github.com/caarlos0/env/v11"
)

// Config holds process configuration loaded from environment variables.
type Config struct {
	Port            string `env:"PORT" envDefault:"8080"`
	SecretKey       string `env:"SECRET_KEY"`
	DBPath          string `env:"DB_PATH"`
	APIBaseURL      string `env:"API_BASE_URL" envDefault:"http://localhost:8000"`
	Timezone        string `env:"TZ" envDefault:"UTC"`
	CookieSecure    bool   `env:"COOKIE_SECURE" envDefault:"false"`
	AnalyticsURL    string `env:"ANALYTICS_URL" envDefault:"https://api.mixpanel.com/track"`
	AnalyticsToken  string `env:"ANALYTICS_TOKEN"`
	CodeTTLSeconds  int    `env:"VERIFICATION_CODE_TTL_SECONDS" envDefault:"120"`
	SessionTTLHours int    `env:"SESSION_TTL_HOURS" envDefault:"168"`
}

// Load parses configuration from the environment.
func Load() (Config, error) {
	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.DBPath == "" {
		cfg.DBPath = filepath.Join("data", "stride.db")
	}
	return cfg, nil
}
