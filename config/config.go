package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/sirupsen/logrus"
)

type Config struct {
	Port        string `envconfig:"PORT"                default:":8080"`
	LogLevel    string `envconfig:"LOG_LEVEL"           default:"info"`
	DBDriver    string `envconfig:"DB_DRIVER"           default:"sqlite"`
	DatabaseURL string `envconfig:"DATABASE_URL"        default:"storefront.db"`
	KeyVersion  string `envconfig:"STORAGE_KEY_VERSION" default:"v8"`
}

// Load reads an optional .env file and then the process environment.
func Load(logger *logrus.Logger) (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		logger.Warnf("Error loading .env file (but continuing): %v", err)
	} else if err == nil {
		logger.Info("Loaded configuration from .env file")
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("could not process environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	logger.Infof("Configuration loaded: Port=%s, LogLevel=%s, DBDriver=%s", cfg.Port, cfg.LogLevel, cfg.DBDriver)
	return &cfg, nil
}

func (c *Config) Validate() error {
	switch c.DBDriver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q (must be sqlite or postgres)", c.DBDriver)
	}
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if strings.TrimSpace(c.KeyVersion) == "" {
		return fmt.Errorf("STORAGE_KEY_VERSION is required")
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log level: %s", c.LogLevel)
	}
	return nil
}
