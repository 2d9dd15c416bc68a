package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFlags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterFlags(fs)
	require.NoError(t, fs.Parse(args))
	return fs
}

// chdir moves into an empty directory so a stray httpserver.yaml is not picked up.
func chdir(t *testing.T) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestLoadDefaults(t *testing.T) {
	chdir(t)

	cfg, err := Load(nil)
	require.NoError(t, err)

	assert.Equal(t, DefaultAddr, cfg.Server.Addr)
	assert.Equal(t, DefaultDirectory, cfg.Server.Directory)
	// No body cap unless one is configured
	assert.Zero(t, cfg.Server.MaxBodyBytes)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.False(t, cfg.Metrics.Enabled())
	assert.Equal(t, "httpserver", cfg.Metrics.Namespace)
}

func TestLoadFlags(t *testing.T) {
	chdir(t)

	cfg, err := Load(newFlags(t,
		"--directory", "/tmp/data",
		"--addr", "0.0.0.0:8080",
		"--log-level", "debug",
		"--metrics-addr", ":9090",
		"--max-body-bytes", "2048",
	))
	require.NoError(t, err)

	assert.Equal(t, "/tmp/data", cfg.Server.Directory)
	assert.Equal(t, "0.0.0.0:8080", cfg.Server.Addr)
	assert.Equal(t, slog.LevelDebug, cfg.Log.SlogLevel())
	assert.True(t, cfg.Metrics.Enabled())
	assert.EqualValues(t, 2048, cfg.Server.MaxBodyBytes)
}

func TestLoadEnv(t *testing.T) {
	chdir(t)
	t.Setenv("HTTPSERVER_SERVER_DIRECTORY", "/from/env")
	t.Setenv("HTTPSERVER_LOG_FORMAT", "text")

	cfg, err := Load(newFlags(t))
	require.NoError(t, err)
	assert.Equal(t, "/from/env", cfg.Server.Directory)
	assert.Equal(t, "text", cfg.Log.Format)

	// Flags beat the environment
	cfg, err = Load(newFlags(t, "--directory", "/from/flag"))
	require.NoError(t, err)
	assert.Equal(t, "/from/flag", cfg.Server.Directory)
}

func TestLoadConfigFile(t *testing.T) {
	chdir(t)
	path := filepath.Join(t.TempDir(), "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  addr: "127.0.0.1:5000"
  max_body_bytes: 1024
log:
  level: warn
  add_source: true
`), 0o644))

	cfg, err := Load(newFlags(t, "--config", path))
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:5000", cfg.Server.Addr)
	assert.EqualValues(t, 1024, cfg.Server.MaxBodyBytes)
	assert.Equal(t, slog.LevelWarn, cfg.Log.SlogLevel())
	assert.True(t, cfg.Log.AddSource)
	assert.Equal(t, DefaultDirectory, cfg.Server.Directory)
}

func TestLoadConfigFileFromWorkingDirectory(t *testing.T) {
	chdir(t)
	require.NoError(t, os.WriteFile("httpserver.yaml", []byte("server:\n  directory: /var/files\n"), 0o644))

	cfg, err := Load(nil)
	require.NoError(t, err)
	assert.Equal(t, "/var/files", cfg.Server.Directory)
}

func TestLoadMissingExplicitConfig(t *testing.T) {
	chdir(t)

	_, err := Load(newFlags(t, "--config", filepath.Join(t.TempDir(), "nope.yaml")))
	assert.Error(t, err)
}
