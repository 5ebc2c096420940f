package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config is everything the web process reads from the environment. Storage
// settings (STORAGE_DRIVER, LOCAL_*, S3_*) are read by the storage factory
// and are not duplicated here.
type Config struct {
	Env  string `env:"APP_ENV" envDefault:"development"`
	Port string `env:"PORT" envDefault:"8080"`

	// Public base URL, used to build payment redirect targets.
	AppURL string `env:"APP_URL" envDefault:"http://localhost:8080"`

	DatabaseDSN string `env:"DATABASE_DSN,required"`

	StitchAPIURL  string        `env:"STITCH_API_URL"`
	StitchAPIKey  string        `env:"STITCH_API_KEY"`
	StitchTimeout time.Duration `env:"STITCH_TIMEOUT" envDefault:"15s"`

	AdminEmail        string `env:"ADMIN_EMAIL,required"`
	AdminPasswordHash string `env:"ADMIN_PASSWORD_HASH,required"`
	SessionSecret     string `env:"SESSION_SECRET,required"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

func (c Config) IsProduction() bool { return c.Env == "production" }

func (c Config) Addr() string { return ":" + c.Port }

// Load reads .env if present, then parses the environment.
func Load() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}
	return cfg, nil
}
