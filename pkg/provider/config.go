package provider

import (
	"fmt"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// envPrefix namespaces environment overrides, e.g. DART_DRIVER=sqlite or
// DART_HOST=db.internal.
const envPrefix = "DART_"

// Config holds connection settings for a registered driver. A non-empty
// DSN wins over the individual fields.
type Config struct {
	// Driver names a registered driver ("mysql", "sqlite", "postgres").
	Driver string `koanf:"driver"`

	// DSN is a complete driver-specific connection string.
	DSN string `koanf:"dsn"`

	// Path is the database file for file-based drivers. ":memory:"
	// selects an in-memory database.
	Path string `koanf:"path"`

	// Host and Port locate network-based databases.
	Host string `koanf:"host"`
	Port int    `koanf:"port"`

	// Database is the database name.
	Database string `koanf:"database"`

	// Username and Password authenticate the connection.
	Username string `koanf:"username"`
	Password string `koanf:"password"`

	// Options carries additional driver-specific DSN options.
	Options map[string]string `koanf:"options"`
}

// DefaultConfig returns the connection defaults: an in-memory SQLite
// database.
func DefaultConfig() *Config {
	return &Config{
		Driver: "sqlite",
		Path:   ":memory:",
	}
}

// LoadConfig loads connection settings by merging, in order of
// precedence: defaults, an optional YAML file, and DART_* environment
// variables.
func LoadConfig(path string) (*Config, error) {
	k := koanf.New(".")

	defaults := DefaultConfig()
	if err := k.Load(confmap.Provider(map[string]any{
		"driver": defaults.Driver,
		"path":   defaults.Path,
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load default config: %w", err)
	}

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, envPrefix)), "_", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment config: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}
