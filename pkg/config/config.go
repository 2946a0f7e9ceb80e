// Package config loads calc-server settings from a YAML file and the
// environment.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/lemonberrylabs/calc/pkg/calc"
	"github.com/lemonberrylabs/calc/pkg/store"
)

// Config holds the server settings.
type Config struct {
	Host         string `yaml:"host"`
	Port         int    `yaml:"port"`
	GRPCPort     int    `yaml:"grpcPort"`
	HistoryLimit int    `yaml:"historyLimit"`
	MaxDepth     int    `yaml:"maxDepth"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Host:         "0.0.0.0",
		Port:         8787,
		GRPCPort:     8788,
		HistoryLimit: store.DefaultHistoryLimit,
		MaxDepth:     calc.DefaultMaxDepth,
	}
}

// Load reads a YAML file over the defaults. Keys missing from the file keep
// their default value. An empty path returns the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// ApplyEnv overrides settings from HOST, PORT, GRPC_PORT, HISTORY_LIMIT and
// MAX_DEPTH when they are set.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	if v := getenv("HOST"); v != "" {
		c.Host = v
	}
	ints := []struct {
		key string
		dst *int
	}{
		{"PORT", &c.Port},
		{"GRPC_PORT", &c.GRPCPort},
		{"HISTORY_LIMIT", &c.HistoryLimit},
		{"MAX_DEPTH", &c.MaxDepth},
	}
	for _, e := range ints {
		v := getenv(e.key)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", e.key, v, err)
		}
		*e.dst = n
	}
	return c.Validate()
}

// Validate checks that ports and limits are usable.
func (c Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Port)
	}
	if c.GRPCPort <= 0 || c.GRPCPort > 65535 {
		return fmt.Errorf("grpcPort %d out of range", c.GRPCPort)
	}
	if c.HistoryLimit < 0 {
		return fmt.Errorf("historyLimit must not be negative")
	}
	if c.MaxDepth < 0 {
		return fmt.Errorf("maxDepth must not be negative")
	}
	return nil
}

// Addr returns the HTTP listen address.
func (c Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// GRPCAddr returns the gRPC listen address.
func (c Config) GRPCAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.GRPCPort)
}
