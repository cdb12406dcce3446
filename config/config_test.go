// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "scene.ramses", cfg.OutputPath)
	assert.False(t, cfg.Debug)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ramex.toml")
	const data = `
output_path = "demo.ramses"
viewer_path = "/opt/ramses/viewer"
platform = "X11-EGL-ES-3-0"
debug = true
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "demo.ramses", cfg.OutputPath)
	assert.Equal(t, "/opt/ramses/viewer", cfg.ViewerPath)
	assert.Equal(t, "X11-EGL-ES-3-0", cfg.Platform)
	assert.True(t, cfg.Debug)
	// Fields absent from the file keep defaults.
	assert.Equal(t, "", cfg.AddonDir)

	_, err = Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)

	require.NoError(t, os.WriteFile(path, []byte("output_path = ["), 0o644))
	_, err = Load(path)
	assert.ErrorContains(t, err, "cannot decode")
}

func TestSaveLoad(t *testing.T) {
	want := &Config{
		OutputPath: "a.ramses",
		AddonDir:   "/home/u/.config/addons",
		ViewerPath: "viewer",
		Platform:   "WAYLAND-EGL-ES-3-0",
		ShaderDir:  "shaders",
		Debug:      true,
	}
	path := filepath.Join(t.TempDir(), "ramex.toml")
	require.NoError(t, Save(path, want))
	have, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, want, have)
}
