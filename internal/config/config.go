package config

import (
	"log/slog"

	"github.com/Brownie44l1/httpserver/internal/logging"
)

// Config holds everything the server needs at startup. It is built once and
// passed down by value; nothing reads it from global state.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Log     LogConfig     `mapstructure:"log"`
	Metrics MetricsConfig `mapstructure:"metrics"`
}

// ServerConfig configures the listener and the /files/ root.
type ServerConfig struct {
	Addr      string `mapstructure:"addr"`
	Directory string `mapstructure:"directory"`
	// MaxBodyBytes caps a declared request body; 0 disables the cap.
	MaxBodyBytes int64 `mapstructure:"max_body_bytes"`
}

type LogConfig struct {
	Level     string `mapstructure:"level"`
	Format    string `mapstructure:"format"`
	AddSource bool   `mapstructure:"add_source"`
}

// MetricsConfig configures the Prometheus endpoint. An empty Addr disables it.
type MetricsConfig struct {
	Addr      string `mapstructure:"addr"`
	Namespace string `mapstructure:"namespace"`
}

func (l LogConfig) SlogLevel() slog.Level {
	return logging.ParseLevel(l.Level)
}

func (m MetricsConfig) Enabled() bool {
	return m.Addr != ""
}
