package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "calc.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, "0.0.0.0:8787", cfg.Addr())
	assert.Equal(t, "0.0.0.0:8788", cfg.GRPCAddr())
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, "host: 127.0.0.1\nport: 9000\nhistoryLimit: 10\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1", cfg.Host)
	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, 10, cfg.HistoryLimit)
	assert.Equal(t, Default().GRPCPort, cfg.GRPCPort)
	assert.Equal(t, Default().MaxDepth, cfg.MaxDepth)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "port: [1, 2]\n"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "port: 70000\n"))
	assert.ErrorContains(t, err, "port 70000 out of range")
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"HOST":          "localhost",
		"GRPC_PORT":     "9999",
		"HISTORY_LIMIT": "5",
		"MAX_DEPTH":     "32",
	}
	cfg := Default()
	require.NoError(t, cfg.ApplyEnv(func(k string) string { return env[k] }))

	assert.Equal(t, "localhost", cfg.Host)
	assert.Equal(t, 8787, cfg.Port)
	assert.Equal(t, 9999, cfg.GRPCPort)
	assert.Equal(t, 5, cfg.HistoryLimit)
	assert.Equal(t, 32, cfg.MaxDepth)
}

func TestApplyEnvInvalid(t *testing.T) {
	cfg := Default()
	err := cfg.ApplyEnv(func(k string) string {
		if k == "PORT" {
			return "http"
		}
		return ""
	})
	assert.ErrorContains(t, err, "invalid PORT")
}
