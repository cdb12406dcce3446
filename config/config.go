// Copyright 2024 Gustavo C. Viegas. All rights reserved.

// Package config holds the exporter's install-time and
// per-export configuration, stored as TOML.
package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// Config is the exporter configuration.
type Config struct {
	// OutputPath is the default destination of exported
	// scene/resource files.
	OutputPath string `toml:"output_path"`

	// AddonDir is the host application's add-on directory
	// the exporter was installed into.
	AddonDir string `toml:"addon_dir"`

	// ViewerPath locates the framework's scene viewer used
	// for visual inspection of exports.
	ViewerPath string `toml:"viewer_path"`

	// Platform is the renderer platform tag passed to the
	// viewer, e.g. "X11-EGL-ES-3-0".
	Platform string `toml:"platform"`

	// ShaderDir is the default directory for custom GLSL.
	ShaderDir string `toml:"shader_dir"`

	// Debug enables debug logging.
	Debug bool `toml:"debug"`
}

// Default returns the configuration used when no file is
// present.
func Default() *Config {
	return &Config{
		OutputPath: "scene.ramses",
	}
}

// Load reads a TOML configuration from path. Fields absent
// from the file keep their defaults.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := Default()
	if err := toml.Unmarshal(b, cfg); err != nil {
		return nil, fmt.Errorf("config: cannot decode %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes cfg as TOML to path.
func Save(path string, cfg *Config) error {
	b, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("config: cannot encode: %w", err)
	}
	return os.WriteFile(path, b, 0o644)
}
