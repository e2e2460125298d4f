package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	RedirectPermanent = "PERMANENT"
	RedirectTemporary = "TEMPORARY"
)

type Config struct {
	Host           string `env:"HOST" envDefault:"0.0.0.0"`
	Port           string `env:"PORT" envDefault:"4567"`
	DBPath         string `env:"DB_URL" envDefault:"urls.sqlite"`
	Password       string `env:"PASSWORD"`
	PublicMode     bool   `env:"PUBLIC_MODE" envDefault:"false"`
	RedirectMethod string `env:"REDIRECT_METHOD" envDefault:"PERMANENT"`
	SiteURL        string `env:"SITE_URL"`
	SlugStyle      string `env:"SLUG_STYLE" envDefault:"uid"`
	SlugLength     int    `env:"SLUG_LENGTH" envDefault:"8"`
	LogLevel       string `env:"LOG_LEVEL" envDefault:"info"`
	Debug          bool   `env:"DEBUG" envDefault:"false"`
}

// Load reads the environment, after merging an optional .env file.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to load .env: %w", err)
	}

	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, fmt.Errorf("failed to parse environment: %w", err)
	}

	cfg.RedirectMethod = strings.ToUpper(cfg.RedirectMethod)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.RedirectMethod != RedirectPermanent && c.RedirectMethod != RedirectTemporary {
		return fmt.Errorf("invalid REDIRECT_METHOD %q (must be %s or %s)", c.RedirectMethod, RedirectPermanent, RedirectTemporary)
	}
	if c.Port == "" {
		return errors.New("PORT cannot be empty")
	}
	if c.DBPath == "" {
		return errors.New("DB_URL cannot be empty")
	}
	return nil
}

func (c Config) PermanentRedirect() bool {
	return c.RedirectMethod == RedirectPermanent
}

func (c Config) Address() string {
	return c.Host + ":" + c.Port
}

// Redacted is safe to log.
func (c Config) Redacted() Config {
	if c.Password != "" {
		c.Password = "***"
	}
	return c
}
