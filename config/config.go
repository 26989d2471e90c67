package config

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Port        int
	Host        string
	WebRoot     string
	MaxConns    int
	ReadTimeout int
	Env         string
	LogLevel    string
}

// New loads configuration from the command line and the environment.
func New() *Config {
	cfg, err := Parse(flag.CommandLine, os.Args[1:], os.Getenv)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	return cfg
}

// Parse reads flags from args into a Config, then applies PORT from getenv.
func Parse(fs *flag.FlagSet, args []string, getenv func(string) string) (*Config, error) {
	cfg := &Config{}

	fs.IntVar(&cfg.Port, "port", 8080, "HTTP server port")
	fs.StringVar(&cfg.Host, "host", "localhost", "Host name used in redirect locations")
	fs.StringVar(&cfg.WebRoot, "webroot", "./webapp", "Static document root")
	fs.IntVar(&cfg.MaxConns, "max-conns", 0, "Maximum concurrent connections (0 = unlimited)")
	fs.IntVar(&cfg.ReadTimeout, "read-timeout", 0, "Request read timeout in seconds (0 = none)")
	fs.StringVar(&cfg.Env, "env", "development", "Environment (development/production)")
	fs.StringVar(&cfg.LogLevel, "log-level", "debug", "Log level (debug/info/warn/error)")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if port := getenv("PORT"); port != "" {
		p, err := strconv.Atoi(port)
		if err != nil {
			return nil, fmt.Errorf("invalid PORT %q: %w", port, err)
		}
		cfg.Port = p
	}

	if cfg.Port <= 0 || cfg.Port > 65535 {
		return nil, fmt.Errorf("port out of range: %d", cfg.Port)
	}
	if cfg.MaxConns < 0 {
		return nil, fmt.Errorf("max-conns must not be negative: %d", cfg.MaxConns)
	}
	return cfg, nil
}

// Addr returns the listen address
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// BaseURL returns the absolute prefix for redirect locations
func (c *Config) BaseURL() string {
	return fmt.Sprintf("http://%s:%d", c.Host, c.Port)
}

// ReadTimeoutDuration returns ReadTimeout as a time.Duration
func (c *Config) ReadTimeoutDuration() time.Duration {
	return time.Duration(c.ReadTimeout) * time.Second
}
