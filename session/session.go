// Package session runs one tutorial: it uploads the geometry, builds the
// shader program, loads the textures, draws until the window closes and
// releases everything in reverse order of creation.
package session

import (
	"io"
	"log/slog"
	"path/filepath"

	"github.com/pkg/errors"

	"gl-tutorial/core"
	"gl-tutorial/geometry"
	"gl-tutorial/internal/opengl"
	"gl-tutorial/textures"
)

// MaxTextures is the number of texture units a session binds.
const MaxTextures = 2

var (
	ErrClosed          = errors.New("session is closed")
	ErrTooManyTextures = errors.New("too many textures")
	ErrNoGeometry      = errors.New("no geometry")
)

// Surface is the window the session draws into. It owns the GL context.
type Surface interface {
	ShouldClose() bool
	PollEvents()
	SwapBuffers()
	// Time returns seconds since the windowing layer started.
	Time() float64
	Destroy()
}

// TextureSpec names an image file and the sampler uniform that reads it.
// An empty Sampler leaves the uniform at its default unit, 0.
type TextureSpec struct {
	Path    string
	Sampler string
}

// UpdateFunc writes per-frame uniforms. t is the surface time in seconds.
type UpdateFunc func(p *opengl.Program, t float64)

// DecodeFunc loads an image with a fixed channel count.
type DecodeFunc func(path string, channels int) (*textures.Image, error)

// Spec is everything that distinguishes one tutorial from another.
type Spec struct {
	Name           string
	Description    string
	Geometry       *geometry.Buffer
	VertexShader   string
	FragmentShader string
	// Uniforms are resolved right after linking.
	Uniforms []string
	Textures []TextureSpec
	// Channels is the depth textures are decoded to: 3 or 4.
	Channels int
	Update   UpdateFunc
}

// Options tune a session without changing what it draws.
type Options struct {
	Logger     *slog.Logger
	ClearColor core.Color
	// Lenient keeps a program that failed to compile or link, as the
	// original tutorials never checked. Drawing with it is undefined.
	Lenient bool
	// AssetDir prefixes relative texture paths.
	AssetDir string
	Decode   DecodeFunc
}

func DefaultOptions() Options {
	return Options{
		Logger:     slog.Default(),
		ClearColor: core.ColorCharcoal,
		Decode:     textures.Decode,
	}
}

// Session owns the surface and every GL object of one tutorial.
type Session struct {
	spec    Spec
	opts    Options
	logger  *slog.Logger
	surface Surface
	ctx     opengl.Context

	mesh     *opengl.GPUMesh
	program  *opengl.Program
	textures []*opengl.Texture
	loaded   bool

	frames int
	closed bool
}

// New builds every GL resource of spec before the first frame. On success
// the session owns surface and Close destroys it. On failure the GL objects
// created so far are released and surface is left to the caller.
func New(surface Surface, ctx opengl.Context, spec Spec, opts Options) (*Session, error) {
	if spec.Geometry == nil {
		return nil, ErrNoGeometry
	}
	if len(spec.Textures) > MaxTextures {
		return nil, errors.Wrapf(ErrTooManyTextures, "%d, at most %d", len(spec.Textures), MaxTextures)
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if opts.Decode == nil {
		opts.Decode = textures.Decode
	}
	if spec.Channels == 0 {
		spec.Channels = 4
	}

	s := &Session{
		spec:    spec,
		opts:    opts,
		logger:  opts.Logger.With("demo", spec.Name),
		surface: surface,
		ctx:     ctx,
		loaded:  true,
	}
	if err := s.setup(); err != nil {
		s.release()
		return nil, err
	}

	s.logger.Info("session ready",
		"vertices", spec.Geometry.VertexCount(),
		"indices", len(spec.Geometry.Indices),
		"textures", len(s.textures),
		"loaded", s.loaded)
	return s, nil
}

func (s *Session) setup() error {
	mesh, err := opengl.UploadGeometry(s.ctx, s.spec.Geometry)
	if err != nil {
		return err
	}
	s.mesh = mesh

	s.program = opengl.NewProgram(s.ctx, s.spec.VertexShader, s.spec.FragmentShader, s.spec.Uniforms...)
	if err := s.program.Err(); err != nil {
		if !s.opts.Lenient {
			return err
		}
		s.logger.Error("continuing with broken shader program", "err", err)
	}
	s.program.Use()

	if _, err := opengl.BindLayout(s.ctx, s.program, s.spec.Geometry.Layout, s.logger); err != nil {
		return err
	}

	for i, ts := range s.spec.Textures {
		if err := s.loadTexture(uint32(i), ts); err != nil {
			s.logger.Error("failed to load texture", "path", ts.Path, "sampler", ts.Sampler, "err", err)
			s.loaded = false
		}
	}
	return nil
}

func (s *Session) loadTexture(unit uint32, ts TextureSpec) error {
	path := ts.Path
	if s.opts.AssetDir != "" && !filepath.IsAbs(path) {
		path = filepath.Join(s.opts.AssetDir, path)
	}
	img, err := s.opts.Decode(path, s.spec.Channels)
	if err != nil {
		return err
	}
	tex, err := opengl.UploadTexture(s.ctx, unit, img.Width, img.Height, img.Channels, img.Pix)
	if err != nil {
		return errors.Wrapf(err, "upload %s", path)
	}
	s.textures = append(s.textures, tex)
	if ts.Sampler != "" {
		s.program.SetInt(ts.Sampler, int32(unit))
	}
	s.logger.Debug("texture uploaded", "path", path, "unit", unit, "width", img.Width, "height", img.Height)
	return nil
}

// Loaded reports whether every requested texture was decoded and uploaded.
func (s *Session) Loaded() bool { return s.loaded }

// Frames returns the number of frames drawn so far.
func (s *Session) Frames() int { return s.frames }

// Program returns the session's shader program.
func (s *Session) Program() *opengl.Program { return s.program }

// Run draws frames until the surface asks to close. When a texture failed
// to load it draws nothing and returns nil.
func (s *Session) Run() error {
	if s.closed {
		return ErrClosed
	}
	if !s.loaded {
		s.logger.Warn("textures missing, not rendering")
		return nil
	}
	s.program.Use()
	for !s.surface.ShouldClose() {
		s.surface.PollEvents()
		s.DrawFrame()
		s.surface.SwapBuffers()
	}
	s.logger.Info("window closed", "frames", s.frames)
	return nil
}

// DrawFrame writes the per-frame uniforms, clears and draws once. It does
// not poll or present, and does nothing after Close.
func (s *Session) DrawFrame() {
	if s.closed {
		return
	}
	if s.spec.Update != nil {
		s.spec.Update(s.program, s.surface.Time())
	}
	c := s.opts.ClearColor
	s.ctx.ClearColor(c.R, c.G, c.B, c.A)
	s.ctx.Clear(opengl.COLOR_BUFFER_BIT)
	s.mesh.Draw(s.ctx)
	s.frames++
}

// Close releases textures, the program and its shaders, the element,
// vertex and vertex-array objects, then destroys the surface. Calling it
// again does nothing.
func (s *Session) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	s.release()
	s.surface.Destroy()
	s.logger.Debug("session closed")
	return nil
}

func (s *Session) release() {
	for _, tex := range s.textures {
		tex.Delete(s.ctx)
	}
	s.textures = nil
	if s.program != nil {
		s.program.Delete()
	}
	if s.mesh != nil {
		s.mesh.Release(s.ctx)
	}
}
