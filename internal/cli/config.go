package cli

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// =============================================================================
// Config File
// =============================================================================

// Config holds file-based defaults for the CLI, loaded from
// ~/.config/mindgrid/config.toml (or $XDG_CONFIG_HOME/mindgrid/config.toml).
// Command-line flags always take precedence over config file values: flag
// defaults are seeded from the loaded config, so an explicit flag overrides
// the file and an omitted flag falls back to it.
type Config struct {
	// Algorithm is the default layout algorithm (radial, tree, force).
	Algorithm string `toml:"algorithm"`

	// Format is the default output format for layout and convert.
	Format string `toml:"format"`

	Canvas CanvasConfig `toml:"canvas"`
	Cache  CacheConfig  `toml:"cache"`
	Serve  ServeConfig  `toml:"serve"`
}

// CanvasConfig holds default canvas dimensions.
type CanvasConfig struct {
	Width  float64 `toml:"width"`
	Height float64 `toml:"height"`
	Margin float64 `toml:"margin"`
}

// CacheConfig holds cache preferences.
type CacheConfig struct {
	// Disable turns off layout caching entirely.
	Disable bool `toml:"disable"`

	// Redis is a redis connection URL (redis://host:port/db). When set, the
	// serve command uses redis instead of the local file cache.
	Redis string `toml:"redis"`
}

// ServeConfig holds defaults for the serve command.
type ServeConfig struct {
	// Addr is the listen address (e.g., ":8080").
	Addr string `toml:"addr"`
}

// DefaultFileConfig returns the config used when no config file exists.
func DefaultFileConfig() Config {
	return Config{
		Algorithm: "radial",
		Format:    "json",
		Canvas:    CanvasConfig{Width: 800, Height: 600, Margin: 20},
		Serve:     ServeConfig{Addr: ":8080"},
	}
}

// LoadConfig reads the config file at path. An empty path resolves to the
// XDG default location. A missing file is not an error: defaults are
// returned. A malformed file is an error so typos do not silently fall back.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultFileConfig()

	if path == "" {
		p, err := configPath()
		if err != nil {
			return cfg, nil
		}
		path = p
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}
