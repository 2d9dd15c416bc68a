package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	DefaultAddr         = "localhost:4221"
	DefaultDirectory    = "."
	DefaultMaxBodyBytes = 0

	envPrefix  = "HTTPSERVER"
	configName = "httpserver"
)

// flagKeys maps command-line flags to config keys.
var flagKeys = map[string]string{
	"addr":           "server.addr",
	"directory":      "server.directory",
	"max-body-bytes": "server.max_body_bytes",
	"log-level":      "log.level",
	"log-format":     "log.format",
	"metrics-addr":   "metrics.addr",
}

// RegisterFlags adds the flags Load understands to fs.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String("config", "", "path to a config file (default ./httpserver.yaml or /etc/httpserver/httpserver.yaml)")
	fs.String("addr", DefaultAddr, "address to listen on")
	fs.String("directory", DefaultDirectory, "directory files are served from and stored in")
	fs.Int64("max-body-bytes", DefaultMaxBodyBytes, "largest accepted request body, 0 for no limit")
	fs.String("log-level", "info", "log level: debug, info, warn, error")
	fs.String("log-format", "json", "log format: json or text")
	fs.String("metrics-addr", "", "address for the Prometheus /metrics endpoint, empty to disable")
}

// Load resolves configuration from defaults, an optional config file,
// HTTPSERVER_* environment variables and flags, in increasing precedence.
// flags may be nil.
func Load(flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigType("yaml")
	configFile := ""
	if flags != nil {
		if f := flags.Lookup("config"); f != nil {
			configFile = f.Value.String()
		}
		for name, key := range flagKeys {
			f := flags.Lookup(name)
			if f == nil {
				continue
			}
			if err := v.BindPFlag(key, f); err != nil {
				return nil, fmt.Errorf("bind flag %s: %w", name, err)
			}
		}
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName(configName)
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/httpserver/")
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", DefaultAddr)
	v.SetDefault("server.directory", DefaultDirectory)
	v.SetDefault("server.max_body_bytes", DefaultMaxBodyBytes)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("log.add_source", false)

	v.SetDefault("metrics.addr", "")
	v.SetDefault("metrics.namespace", "httpserver")
}
