// Package config loads qualitymap settings from a config file, QUALITYMAP_*
// environment variables and bound command-line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// DefaultFiles are searched in the working directory when no explicit
// config file is given.
var DefaultFiles = []string{".qualitymaprc.yaml", ".qualitymaprc.yml", ".qualitymaprc.json"}

// Config represents the qualitymap configuration.
type Config struct {
	Format  string        `mapstructure:"format"`
	Gateway GatewayConfig `mapstructure:"gateway"`
	Store   StoreConfig   `mapstructure:"store"`
	Log     LogConfig     `mapstructure:"log"`
	Server  ServerConfig  `mapstructure:"server"`
}

// GatewayConfig selects where scorecard data comes from.
type GatewayConfig struct {
	Mode    string        `mapstructure:"mode"`
	BaseURL string        `mapstructure:"base_url"`
	Token   string        `mapstructure:"token"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// StoreConfig configures the local database.
type StoreConfig struct {
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`
}

type LogConfig struct {
	Mode    string `mapstructure:"mode"`
	Verbose bool   `mapstructure:"verbose"`
}

type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

// New returns a viper instance with defaults and environment binding.
func New() *viper.Viper {
	v := viper.New()
	v.SetDefault("format", "console")
	v.SetDefault("gateway.mode", "local")
	v.SetDefault("gateway.base_url", "")
	v.SetDefault("gateway.token", "")
	v.SetDefault("gateway.timeout", "30s")
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.dsn", "qualitymap.db")
	v.SetDefault("log.mode", "dev")
	v.SetDefault("log.verbose", false)
	v.SetDefault("server.addr", ":8080")

	v.SetEnvPrefix("QUALITYMAP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads the config file (explicit path, else the first default file
// that exists) into v and returns the validated configuration.
func Load(v *viper.Viper, path string) (*Config, error) {
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config.Load: read %s: %w", path, err)
		}
	} else {
		for _, p := range DefaultFiles {
			if _, err := os.Stat(p); err != nil {
				continue
			}
			v.SetConfigFile(p)
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("config.Load: read %s: %w", p, err)
			}
			break
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config.Load: unmarshal: %w", err)
	}
	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}
	return &cfg, nil
}

// Validate checks enumerated settings and required combinations.
func Validate(cfg *Config) error {
	var errs []error
	switch cfg.Format {
	case "console", "markdown", "md", "json", "xlsx":
	default:
		errs = append(errs, fmt.Errorf("invalid format %q: must be console, markdown, json or xlsx", cfg.Format))
	}
	switch cfg.Gateway.Mode {
	case "local":
	case "http":
		if cfg.Gateway.BaseURL == "" {
			errs = append(errs, errors.New("gateway.base_url is required when gateway.mode is http"))
		}
	default:
		errs = append(errs, fmt.Errorf("invalid gateway.mode %q: must be local or http", cfg.Gateway.Mode))
	}
	switch cfg.Store.Driver {
	case "sqlite", "postgres":
	default:
		errs = append(errs, fmt.Errorf("invalid store.driver %q: must be sqlite or postgres", cfg.Store.Driver))
	}
	if cfg.Store.DSN == "" {
		errs = append(errs, errors.New("store.dsn is required"))
	}
	if cfg.Gateway.Timeout < 0 {
		errs = append(errs, errors.New("gateway.timeout must not be negative"))
	}
	return errors.Join(errs...)
}
