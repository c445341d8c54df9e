package server

import (
	"strings"
	"time"
)

type Config struct {
	// Address for the server to listen on. The format is "host:port". Defaults
	// to ":13000".
	Address string
	// ReadTimeout is the maximum duration for reading the entire request,
	// including the body. Defaults to 5s.
	ReadTimeout time.Duration
	// WriteTimeout is the maximum duration before timing out writes of the
	// response. Defaults to 10s.
	WriteTimeout time.Duration
	// APIPrefix is the path the action registry is mounted under. Defaults
	// to "/api".
	APIPrefix string
}

const (
	defaultServerReadTimeout  = 5 * time.Second
	defaultServerWriteTimeout = 10 * time.Second
	defaultServerAddress      = ":13000"
	defaultAPIPrefix          = "/api"
)

func (c *Config) readTimeout() time.Duration {
	if c.ReadTimeout > 0 {
		return c.ReadTimeout
	}
	return defaultServerReadTimeout
}

func (c *Config) writeTimeout() time.Duration {
	if c.WriteTimeout > 0 {
		return c.WriteTimeout
	}
	return defaultServerWriteTimeout
}

func (c *Config) address() string {
	if c.Address != "" {
		return c.Address
	}
	return defaultServerAddress
}

func (c *Config) apiPrefix() string {
	prefix := strings.TrimSpace(c.APIPrefix)
	if prefix == "" || prefix == "/" {
		return defaultAPIPrefix
	}
	if !strings.HasPrefix(prefix, "/") {
		prefix = "/" + prefix
	}
	return strings.TrimRight(prefix, "/")
}
