package config

import (
	"flag"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func parse(args []string, env map[string]string) (*Config, error) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return Parse(fs, args, func(key string) string { return env[key] })
}

func TestParseDefaults(t *testing.T) {
	cfg, err := parse(nil, nil)
	require.NoError(t, err)

	require.Equal(t, 8080, cfg.Port)
	require.Equal(t, "./webapp", cfg.WebRoot)
	require.Equal(t, ":8080", cfg.Addr())
	require.Equal(t, "http://localhost:8080", cfg.BaseURL())
	require.Equal(t, time.Duration(0), cfg.ReadTimeoutDuration())
	require.Equal(t, "development", cfg.Env)
}

func TestParseFlags(t *testing.T) {
	cfg, err := parse([]string{"-port", "9090", "-host", "example.com", "-read-timeout", "5", "-max-conns", "100"}, nil)
	require.NoError(t, err)

	require.Equal(t, "http://example.com:9090", cfg.BaseURL())
	require.Equal(t, 5*time.Second, cfg.ReadTimeoutDuration())
	require.Equal(t, 100, cfg.MaxConns)
}

func TestParseEnvPort(t *testing.T) {
	cfg, err := parse([]string{"-port", "9090"}, map[string]string{"PORT": "7070"})
	require.NoError(t, err)
	require.Equal(t, 7070, cfg.Port)

	_, err = parse(nil, map[string]string{"PORT": "http"})
	require.Error(t, err)
}

func TestParseInvalid(t *testing.T) {
	_, err := parse([]string{"-port", "70000"}, nil)
	require.Error(t, err)

	_, err = parse([]string{"-max-conns", "-1"}, nil)
	require.Error(t, err)

	_, err = parse([]string{"-unknown"}, nil)
	require.Error(t, err)
}
