package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gl-tutorial/core"
)

func write(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	c := Default()
	assert.NoError(t, c.Validate())
	assert.Equal(t, core.ColorCharcoal, c.Render.ClearColor)
	assert.Equal(t, "resources", c.Assets.Dir)
	assert.False(t, c.Render.LenientShaders)
}

func TestLoadTOML(t *testing.T) {
	path := write(t, "gltutorial.toml", `
[window]
width = 1024
title = "Kittens"

[render]
lenient_shaders = true
clear_color = { r = 0.2, g = 0.3, b = 0.4, a = 1.0 }

[log]
level = "debug"
`)
	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 1024, c.Window.Width)
	assert.Equal(t, 600, c.Window.Height)
	assert.Equal(t, "Kittens", c.Window.Title)
	assert.True(t, c.Render.LenientShaders)
	assert.Equal(t, core.Color{R: 0.2, G: 0.3, B: 0.4, A: 1}, c.Render.ClearColor)
	assert.Equal(t, "debug", c.Log.Level)
	assert.Equal(t, "text", c.Log.Format)
}

func TestLoadYAML(t *testing.T) {
	path := write(t, "gltutorial.yaml", `
window:
  height: 480
  vsync: false
assets:
  dir: /srv/tutorial/resources
log:
  format: json
`)
	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 800, c.Window.Width)
	assert.Equal(t, 480, c.Window.Height)
	assert.False(t, c.Window.VSync)
	assert.Equal(t, "/srv/tutorial/resources", c.Assets.Dir)
	assert.Equal(t, "json", c.Log.Format)
}

func TestLoadEmptyYAML(t *testing.T) {
	c, err := Load(write(t, "empty.yml", ""))
	require.NoError(t, err)
	assert.Equal(t, Default(), c)
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	_, err := Load(write(t, "bad.toml", "[window]\nwidht = 3\n"))
	assert.Error(t, err)
	_, err = Load(write(t, "bad.yaml", "window:\n  widht: 3\n"))
	assert.Error(t, err)
}

func TestLoadUnknownExtension(t *testing.T) {
	_, err := Load(write(t, "config.json", "{}"))
	assert.True(t, errors.Is(err, ErrUnknownFormat))
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestValidate(t *testing.T) {
	cases := map[string]func(*Config){
		"zero width": func(c *Config) { c.Window.Width = 0 },
		"old core":   func(c *Config) { c.Window.GLMajor, c.Window.GLMinor = 3, 1 },
		"bad level":  func(c *Config) { c.Log.Level = "loud" },
		"bad format": func(c *Config) { c.Log.Format = "xml" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			c := Default()
			mutate(&c)
			assert.Error(t, c.Validate())
		})
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := LogConfig{Level: "warn", Format: "json"}.NewLogger(&buf)
	logger.Info("dropped")
	logger.Warn("kept", "demo", "multitexture")

	out := buf.String()
	assert.False(t, strings.Contains(out, "dropped"))
	assert.Contains(t, out, `"demo":"multitexture"`)
}
