// Package config loads the formkit host configuration from an optional file
// and FORMKIT_ prefixed environment variables.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/goliatone/go-formkit/internal/server"
)

const EnvPrefix = "FORMKIT"

type Config struct {
	Server ServerConfig `mapstructure:"server"`
	App    AppConfig    `mapstructure:"app"`
	Client ClientConfig `mapstructure:"client"`
	Store  StoreConfig  `mapstructure:"store"`
	Auth   AuthConfig   `mapstructure:"auth"`
	Log    LogConfig    `mapstructure:"log"`
}

type ServerConfig struct {
	Address      string        `mapstructure:"address"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	APIPrefix    string        `mapstructure:"api_prefix"`
}

type AppConfig struct {
	Env string `mapstructure:"env"`
	// Lang is the fallback locale when no enabled language is stored.
	Lang    string `mapstructure:"lang"`
	Version string `mapstructure:"version"`
}

type ClientConfig struct {
	// Dist is the client bundle directory, relative to the working directory
	// unless absolute.
	Dist string `mapstructure:"dist"`
}

type StoreConfig struct {
	Path string `mapstructure:"path"`
}

type AuthConfig struct {
	UserHeader string `mapstructure:"user_header"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

var defaults = map[string]any{
	"server.address":       ":13000",
	"server.read_timeout":  5 * time.Second,
	"server.write_timeout": 10 * time.Second,
	"server.api_prefix":    "/api",
	"app.env":              "development",
	"app.lang":             "en-US",
	"app.version":          "",
	"client.dist":          "./packages/app/client/dist",
	"store.path":           "formkit.db",
	"auth.user_header":     "X-User-Id",
	"log.level":            "info",
}

// New returns a viper instance with defaults and environment binding set up.
// FORMKIT_SERVER_ADDRESS overrides server.address and so on.
func New() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	return v
}

// Load reads file (when set) into v and decodes the result.
func Load(v *viper.Viper, file string) (*Config, error) {
	if file != "" {
		ext := strings.TrimPrefix(filepath.Ext(file), ".")
		if ext == "" {
			return nil, fmt.Errorf("config: %s: missing file extension", file)
		}
		v.SetConfigFile(file)
		v.SetConfigType(ext)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: reading %s: %w", file, err)
		}
	}
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Server.Address) == "" {
		errs = append(errs, errors.New("server.address is required"))
	}
	if !strings.HasPrefix(c.Server.APIPrefix, "/") {
		errs = append(errs, fmt.Errorf("server.api_prefix %q must start with /", c.Server.APIPrefix))
	}
	if strings.TrimSpace(c.App.Lang) == "" {
		errs = append(errs, errors.New("app.lang is required"))
	}
	if strings.TrimSpace(c.Auth.UserHeader) == "" {
		errs = append(errs, errors.New("auth.user_header is required"))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// Production reports whether the host runs with app.env=production.
func (c *Config) Production() bool {
	return c.App.Env == "production"
}

func (c *Config) ServerConfig() *server.Config {
	return &server.Config{
		Address:      c.Server.Address,
		ReadTimeout:  c.Server.ReadTimeout,
		WriteTimeout: c.Server.WriteTimeout,
		APIPrefix:    c.Server.APIPrefix,
	}
}
