package config

import (
	"github.com/spf13/pflag"
)

// Flags are the command-line settings that override the config file.
type Flags struct {
	Path     string
	Width    int
	Height   int
	Title    string
	Assets   string
	Lenient  bool
	LogLevel string
}

// Register adds the flags to fs.
func (f *Flags) Register(fs *pflag.FlagSet) {
	fs.StringVarP(&f.Path, "config", "c", "", "TOML or YAML settings file")
	fs.IntVar(&f.Width, "width", 0, "window width in pixels")
	fs.IntVar(&f.Height, "height", 0, "window height in pixels")
	fs.StringVar(&f.Title, "title", "", "window title")
	fs.StringVar(&f.Assets, "assets", "", "directory texture paths are resolved from")
	fs.BoolVar(&f.Lenient, "lenient-shaders", false, "keep running when a shader fails to compile or link")
	fs.StringVar(&f.LogLevel, "log-level", "", "debug, info, warn or error")
}

// Apply overwrites cfg with every flag set explicitly on fs, then
// validates the result. Flags left at their defaults keep the file value.
func (f *Flags) Apply(fs *pflag.FlagSet, cfg *Config) error {
	if fs.Changed("width") {
		cfg.Window.Width = f.Width
	}
	if fs.Changed("height") {
		cfg.Window.Height = f.Height
	}
	if fs.Changed("title") {
		cfg.Window.Title = f.Title
	}
	if fs.Changed("assets") {
		cfg.Assets.Dir = f.Assets
	}
	if fs.Changed("lenient-shaders") {
		cfg.Render.LenientShaders = f.Lenient
	}
	if fs.Changed("log-level") {
		cfg.Log.Level = f.LogLevel
	}
	return cfg.Validate()
}

// Resolve loads the file named by --config, or the defaults when it is
// unset, and applies the flag overrides.
func (f *Flags) Resolve(fs *pflag.FlagSet) (Config, error) {
	cfg := Default()
	if f.Path != "" {
		var err error
		if cfg, err = Load(f.Path); err != nil {
			return cfg, err
		}
	}
	return cfg, f.Apply(fs, &cfg)
}
