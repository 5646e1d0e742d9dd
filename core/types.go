// Package core holds the types shared between the window layer, the
// configuration and the sessions.
package core

import "fmt"

type Color struct {
	R float32 `toml:"r" yaml:"r"`
	G float32 `toml:"g" yaml:"g"`
	B float32 `toml:"b" yaml:"b"`
	A float32 `toml:"a" yaml:"a"`
}

// ColorCharcoal is the background every tutorial clears to.
var ColorCharcoal = Color{0.1, 0.1, 0.1, 1}

// ContextCreationError reports that glfw could not provide a window with the
// requested GL context.
type ContextCreationError struct {
	Op  string
	Err error
}

func (e *ContextCreationError) Error() string {
	return fmt.Sprintf("failed to %s: %v", e.Op, e.Err)
}

func (e *ContextCreationError) Unwrap() error { return e.Err }

type WindowConfig struct {
	Width         int    `toml:"width" yaml:"width"`
	Height        int    `toml:"height" yaml:"height"`
	Title         string `toml:"title" yaml:"title"`
	Resizable     bool   `toml:"resizable" yaml:"resizable"`
	VSync         bool   `toml:"vsync" yaml:"vsync"`
	Fullscreen    bool   `toml:"fullscreen" yaml:"fullscreen"`
	GLMajor       int    `toml:"gl_major" yaml:"gl_major"`
	GLMinor       int    `toml:"gl_minor" yaml:"gl_minor"`
	CoreProfile   bool   `toml:"core_profile" yaml:"core_profile"`
	ForwardCompat bool   `toml:"forward_compat" yaml:"forward_compat"`
}

func DefaultWindowConfig() WindowConfig {
	return WindowConfig{
		Width:         800,
		Height:        600,
		Title:         "OpenGL",
		Resizable:     false,
		VSync:         true,
		Fullscreen:    false,
		GLMajor:       4,
		GLMinor:       1,
		CoreProfile:   true,
		ForwardCompat: true,
	}
}

