// Package config loads the tutorial settings from an optional TOML or YAML
// file and builds the process logger.
package config

import (
	"bytes"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"gl-tutorial/core"
)

var ErrUnknownFormat = errors.New("unknown config file format")

type Config struct {
	Window core.WindowConfig `toml:"window" yaml:"window"`
	Render RenderConfig      `toml:"render" yaml:"render"`
	Assets AssetsConfig      `toml:"assets" yaml:"assets"`
	Log    LogConfig         `toml:"log" yaml:"log"`
}

type RenderConfig struct {
	ClearColor core.Color `toml:"clear_color" yaml:"clear_color"`
	// LenientShaders keeps running with a program that failed to compile
	// or link instead of aborting.
	LenientShaders bool `toml:"lenient_shaders" yaml:"lenient_shaders"`
}

type AssetsConfig struct {
	// Dir is where texture paths are resolved from.
	Dir string `toml:"dir" yaml:"dir"`
}

type LogConfig struct {
	Level  string `toml:"level" yaml:"level"`
	Format string `toml:"format" yaml:"format"`
}

func Default() Config {
	return Config{
		Window: core.DefaultWindowConfig(),
		Render: RenderConfig{ClearColor: core.ColorCharcoal},
		Assets: AssetsConfig{Dir: "resources"},
		Log:    LogConfig{Level: "info", Format: "text"},
	}
}

// Load reads path over the defaults. Keys missing from the file keep their
// default values. The format follows the extension: .toml, .yaml or .yml.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrap(err, "read config")
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&cfg); err != nil {
			return cfg, errors.Wrapf(err, "parse %s", path)
		}
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil && err != io.EOF {
			return cfg, errors.Wrapf(err, "parse %s", path)
		}
	default:
		return cfg, errors.Wrapf(ErrUnknownFormat, "%q", ext)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, errors.Wrapf(err, "invalid config %s", path)
	}
	return cfg, nil
}

// Validate rejects settings no window or logger can be built from.
func (c Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return errors.Errorf("window size %dx%d", c.Window.Width, c.Window.Height)
	}
	if c.Window.CoreProfile && c.Window.GLMajor*10+c.Window.GLMinor < 32 {
		return errors.Errorf("core profile needs GL 3.2 or newer, got %d.%d", c.Window.GLMajor, c.Window.GLMinor)
	}
	if _, err := ParseLevel(c.Log.Level); err != nil {
		return err
	}
	switch c.Log.Format {
	case "", "text", "json":
	default:
		return errors.Errorf("log format %q", c.Log.Format)
	}
	return nil
}

// ParseLevel maps debug, info, warn and error to slog levels. The empty
// string is info.
func ParseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if s == "" {
		return slog.LevelInfo, nil
	}
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return l, errors.Wrapf(err, "log level %q", s)
	}
	return l, nil
}

// NewLogger builds the logger described by c, writing to w.
func (c LogConfig) NewLogger(w io.Writer) *slog.Logger {
	level, err := ParseLevel(c.Level)
	if err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if c.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
