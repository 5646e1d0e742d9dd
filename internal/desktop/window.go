// Package desktop opens the glfw window and GL context the tutorials draw
// into.
package desktop

import (
	"runtime"

	"github.com/go-gl/glfw/v3.3/glfw"

	"gl-tutorial/core"
)

func init() {
	runtime.LockOSThread()
}

// Window is a glfw window with a current GL context. Pressing Escape asks
// it to close.
type Window struct {
	Handle *glfw.Window
	Width  int
	Height int
	Title  string

	destroyed bool
}

// NewWindow opens a window and makes its GL context current on the calling
// thread. Any failure is a *core.ContextCreationError.
func NewWindow(config core.WindowConfig) (*Window, error) {
	if err := glfw.Init(); err != nil {
		return nil, &core.ContextCreationError{Op: "initialize GLFW", Err: err}
	}

	glfw.WindowHint(glfw.ContextVersionMajor, config.GLMajor)
	glfw.WindowHint(glfw.ContextVersionMinor, config.GLMinor)
	if config.CoreProfile {
		glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	}
	glfw.WindowHint(glfw.OpenGLForwardCompatible, boolToInt(config.ForwardCompat))
	glfw.WindowHint(glfw.Resizable, boolToInt(config.Resizable))

	monitor := (*glfw.Monitor)(nil)
	if config.Fullscreen {
		monitor = glfw.GetPrimaryMonitor()
	}

	handle, err := glfw.CreateWindow(config.Width, config.Height, config.Title, monitor, nil)
	if err != nil {
		glfw.Terminate()
		return nil, &core.ContextCreationError{Op: "create window", Err: err}
	}
	handle.MakeContextCurrent()
	if config.VSync {
		glfw.SwapInterval(1)
	} else {
		glfw.SwapInterval(0)
	}

	window := &Window{
		Handle: handle,
		Width:  config.Width,
		Height: config.Height,
		Title:  config.Title,
	}

	handle.SetSizeCallback(func(w *glfw.Window, width, height int) {
		window.Width = width
		window.Height = height
	})
	handle.SetKeyCallback(func(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		if key == glfw.KeyEscape && action == glfw.Press {
			window.RequestClose()
		}
	})

	return window, nil
}

func (w *Window) ShouldClose() bool {
	return w.Handle.ShouldClose()
}

func (w *Window) PollEvents() {
	glfw.PollEvents()
}

func (w *Window) SwapBuffers() {
	w.Handle.SwapBuffers()
}

// Time returns seconds elapsed since glfw was initialized.
func (w *Window) Time() float64 {
	return glfw.GetTime()
}

// Destroy closes the window and terminates glfw. Later calls do nothing.
func (w *Window) Destroy() {
	if w.destroyed {
		return
	}
	w.destroyed = true
	w.Handle.Destroy()
	glfw.Terminate()
}

// RequestClose flags the window as closing; the frame loop exits on its
// next check.
func (w *Window) RequestClose() {
	w.Handle.SetShouldClose(true)
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
