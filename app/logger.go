package app

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/searchktools/login-server/config"
)

// NewLogger builds the root logger: console output in development, JSON otherwise
func NewLogger(cfg *config.Config) zerolog.Logger {
	return newLogger(cfg, os.Stderr)
}

func newLogger(cfg *config.Config, out io.Writer) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	if cfg.Env == "development" {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.TimeOnly}
	}

	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}
