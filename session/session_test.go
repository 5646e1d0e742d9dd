package session

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gl-tutorial/core"
	"gl-tutorial/geometry"
	"gl-tutorial/internal/opengl"
	"gl-tutorial/internal/opengl/gltest"
	"gl-tutorial/textures"
)

// fakeSurface asks to close once it has presented limit frames.
type fakeSurface struct {
	limit     int
	polls     int
	swaps     int
	destroyed int
}

func (f *fakeSurface) ShouldClose() bool { return f.swaps >= f.limit }
func (f *fakeSurface) PollEvents()       { f.polls++ }
func (f *fakeSurface) SwapBuffers()      { f.swaps++ }
func (f *fakeSurface) Time() float64     { return 0.25 * float64(f.swaps) }
func (f *fakeSurface) Destroy()          { f.destroyed++ }

var (
	positionOnly = geometry.Layout{{Name: "position", Size: 2}}
	textured     = geometry.Layout{{Name: "position", Size: 2}, {Name: "color", Size: 3}, {Name: "texcoord", Size: 2}}
)

func triangleSpec(t *testing.T) Spec {
	t.Helper()
	b, err := geometry.New(positionOnly, []float32{0, 0.5, 0.5, -0.5, -0.5, -0.5}, nil)
	require.NoError(t, err)
	return Spec{Name: "triangle", Geometry: b, VertexShader: "vs", FragmentShader: "fs"}
}

func quadSpec(t *testing.T, tex ...TextureSpec) Spec {
	t.Helper()
	b, err := geometry.New(textured, []float32{
		-0.5, 0.5, 1, 0, 0, 0, 0,
		0.5, 0.5, 0, 1, 0, 1, 0,
		0.5, -0.5, 0, 0, 1, 1, 1,
		-0.5, -0.5, 1, 1, 1, 0, 1,
	}, []uint32{0, 1, 2, 2, 3, 0})
	require.NoError(t, err)
	return Spec{
		Name:           "quad",
		Geometry:       b,
		VertexShader:   "vs",
		FragmentShader: "fs",
		Textures:       tex,
		Channels:       3,
	}
}

func writePNG(t *testing.T, dir, name string) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	img.Set(1, 1, color.NRGBA{200, 100, 50, 255})
	f, err := os.Create(filepath.Join(dir, name))
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())
}

func testOptions() Options {
	opts := DefaultOptions()
	opts.Logger = nil
	return opts
}

func TestTriangleDrawsArrays(t *testing.T) {
	rec := gltest.New()
	surf := &fakeSurface{limit: 1}
	s, err := New(surf, rec, triangleSpec(t), testOptions())
	require.NoError(t, err)

	require.NoError(t, s.Run())
	assert.Equal(t, 1, s.Frames())
	assert.Equal(t, 1, surf.polls)
	require.Len(t, rec.Draws, 1)
	assert.False(t, rec.Draws[0].Indexed)
	assert.Equal(t, uint32(opengl.TRIANGLES), rec.Draws[0].Mode)
	assert.Equal(t, int32(3), rec.Draws[0].Count)
	assert.Contains(t, rec.Calls, "ClearColor(0.1, 0.1, 0.1, 1)")
	assert.Contains(t, rec.Calls, "Clear(0x4000)")
	require.NoError(t, s.Close())
}

func TestQuadWithoutTextures(t *testing.T) {
	rec := gltest.New()
	s, err := New(&fakeSurface{limit: 1}, rec, quadSpec(t), testOptions())
	require.NoError(t, err)
	require.NoError(t, s.Run())

	require.Len(t, rec.Draws, 1)
	d := rec.Draws[0]
	assert.True(t, d.Indexed)
	assert.Equal(t, uint32(opengl.TRIANGLES), d.Mode)
	assert.Equal(t, int32(6), d.Count)
	assert.Empty(t, d.Textures)
	require.NoError(t, s.Close())
}

func TestTexturesBoundToUnits(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, dir, "sample.png")
	writePNG(t, dir, "sample2.png")

	rec := gltest.New()
	opts := testOptions()
	opts.AssetDir = dir
	spec := quadSpec(t,
		TextureSpec{Path: "sample.png", Sampler: "texKitten"},
		TextureSpec{Path: "sample2.png", Sampler: "texPuppy"})
	s, err := New(&fakeSurface{limit: 2}, rec, spec, opts)
	require.NoError(t, err)
	assert.True(t, s.Loaded())

	require.NoError(t, s.Run())
	require.Len(t, rec.Draws, 2)
	assert.Len(t, rec.Draws[1].Textures, 2)
	assert.Contains(t, rec.Draws[1].Textures, uint32(0))
	assert.Contains(t, rec.Draws[1].Textures, uint32(1))

	prog := s.Program()
	assert.Equal(t, []float32{0}, rec.Uniform[prog.UniformLocation("texKitten")])
	assert.Equal(t, []float32{1}, rec.Uniform[prog.UniformLocation("texPuppy")])
	require.NoError(t, s.Close())
}

func TestMissingTextureSkipsRendering(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, dir, "sample.png")

	rec := gltest.New()
	surf := &fakeSurface{limit: 5}
	opts := testOptions()
	opts.AssetDir = dir
	spec := quadSpec(t,
		TextureSpec{Path: "sample.png", Sampler: "texKitten"},
		TextureSpec{Path: "sample2.png", Sampler: "texPuppy"})
	s, err := New(surf, rec, spec, opts)
	require.NoError(t, err)
	assert.False(t, s.Loaded())

	require.NoError(t, s.Run())
	assert.Zero(t, s.Frames())
	assert.Empty(t, rec.Draws)
	assert.Zero(t, surf.swaps)

	require.NoError(t, s.Close())
	assert.Zero(t, rec.Live(""))
	assert.Equal(t, 1, surf.destroyed)
}

func TestCustomDecoder(t *testing.T) {
	var paths []string
	opts := testOptions()
	opts.AssetDir = "assets"
	opts.Decode = func(path string, channels int) (*textures.Image, error) {
		paths = append(paths, path)
		return &textures.Image{Width: 1, Height: 1, Channels: channels, Pix: make([]byte, channels)}, nil
	}

	rec := gltest.New()
	s, err := New(&fakeSurface{}, rec, quadSpec(t, TextureSpec{Path: "sample.png"}), opts)
	require.NoError(t, err)
	assert.True(t, s.Loaded())
	assert.Equal(t, []string{filepath.Join("assets", "sample.png")}, paths)
	require.NoError(t, s.Close())
}

func TestStrictShaderFailure(t *testing.T) {
	rec := gltest.New()
	rec.FailCompile = map[uint32]bool{opengl.VERTEX_SHADER: true}
	surf := &fakeSurface{limit: 1}

	_, err := New(surf, rec, triangleSpec(t), testOptions())
	var cerr *opengl.ShaderCompileError
	require.True(t, errors.As(err, &cerr))
	assert.Equal(t, "vertex", cerr.Stage)
	assert.Zero(t, rec.Live(""))
	assert.Zero(t, surf.destroyed)
}

func TestLenientShaderFailure(t *testing.T) {
	rec := gltest.New()
	rec.FailLink = true
	opts := testOptions()
	opts.Lenient = true

	s, err := New(&fakeSurface{limit: 1}, rec, triangleSpec(t), opts)
	require.NoError(t, err)
	assert.Error(t, s.Program().Err())
	require.NoError(t, s.Run())
	assert.Equal(t, 1, s.Frames())
	require.NoError(t, s.Close())
}

func TestTooManyTextures(t *testing.T) {
	rec := gltest.New()
	spec := quadSpec(t, TextureSpec{Path: "a.png"}, TextureSpec{Path: "b.png"}, TextureSpec{Path: "c.png"})
	_, err := New(&fakeSurface{}, rec, spec, testOptions())
	assert.True(t, errors.Is(err, ErrTooManyTextures))
	assert.Zero(t, rec.Live(""))
}

func TestNoGeometry(t *testing.T) {
	_, err := New(&fakeSurface{}, gltest.New(), Spec{Name: "empty"}, testOptions())
	assert.True(t, errors.Is(err, ErrNoGeometry))
}

func TestUpdateReceivesTime(t *testing.T) {
	var times []float64
	spec := triangleSpec(t)
	spec.Uniforms = []string{"triangleColor"}
	spec.Update = func(p *opengl.Program, now float64) {
		times = append(times, now)
		p.SetVec3("triangleColor", float32(now), 0, 0)
	}

	rec := gltest.New()
	s, err := New(&fakeSurface{limit: 3}, rec, spec, testOptions())
	require.NoError(t, err)
	require.NoError(t, s.Run())

	assert.Equal(t, []float64{0, 0.25, 0.5}, times)
	assert.Equal(t, []float32{0.5, 0, 0}, rec.Uniform[s.Program().UniformLocation("triangleColor")])
	require.NoError(t, s.Close())
}

func TestCustomClearColor(t *testing.T) {
	rec := gltest.New()
	opts := testOptions()
	opts.ClearColor = core.Color{R: 0.5, G: 0.25, B: 0, A: 1}
	s, err := New(&fakeSurface{limit: 1}, rec, triangleSpec(t), opts)
	require.NoError(t, err)
	require.NoError(t, s.Run())
	assert.Contains(t, rec.Calls, "ClearColor(0.5, 0.25, 0, 1)")
	require.NoError(t, s.Close())
}

func TestCloseReleasesInOrder(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, dir, "sample.png")
	writePNG(t, dir, "sample2.png")

	rec := gltest.New()
	opts := testOptions()
	opts.AssetDir = dir
	s, err := New(&fakeSurface{}, rec, quadSpec(t, TextureSpec{Path: "sample.png"}, TextureSpec{Path: "sample2.png"}), opts)
	require.NoError(t, err)

	kinds := make(map[uint32]gltest.Kind)
	for id := uint32(1); id < 32; id++ {
		if k, ok := rec.KindOf(id); ok {
			kinds[id] = k
		}
	}
	prog := s.Program()
	fs, vs := prog.Fragment.Shader, prog.Vertex.Shader

	require.NoError(t, s.Close())
	deleted := rec.Deleted()
	var got []gltest.Kind
	for _, id := range deleted {
		got = append(got, kinds[id])
	}
	assert.Equal(t, []gltest.Kind{
		gltest.KindTexture, gltest.KindTexture,
		gltest.KindProgram, gltest.KindShader, gltest.KindShader,
		gltest.KindBuffer, gltest.KindBuffer, gltest.KindVertexArray,
	}, got)
	assert.Equal(t, []uint32{fs, vs}, deleted[3:5])
	assert.Zero(t, rec.Live(""))
}

func TestCloseTwiceAndRunAfterClose(t *testing.T) {
	surf := &fakeSurface{limit: 1}
	s, err := New(surf, gltest.New(), triangleSpec(t), testOptions())
	require.NoError(t, err)

	require.NoError(t, s.Close())
	require.NoError(t, s.Close())
	assert.Equal(t, 1, surf.destroyed)
	assert.True(t, errors.Is(s.Run(), ErrClosed))
}

func TestDrawFrameAfterCloseIsNoop(t *testing.T) {
	rec := gltest.New()
	s, err := New(&fakeSurface{}, rec, triangleSpec(t), testOptions())
	require.NoError(t, err)
	require.NoError(t, s.Close())

	calls := len(rec.Calls)
	s.DrawFrame()
	assert.Len(t, rec.Calls, calls)
	assert.Empty(t, rec.Draws)
	assert.Zero(t, s.Frames())
}

func TestSingleTextureDecodeFailure(t *testing.T) {
	opts := testOptions()
	opts.Decode = func(path string, channels int) (*textures.Image, error) {
		return nil, &textures.DecodeError{Path: path, Err: errors.New("truncated PNG")}
	}

	rec := gltest.New()
	surf := &fakeSurface{limit: 3}
	s, err := New(surf, rec, quadSpec(t, TextureSpec{Path: "sample.png", Sampler: "tex"}), opts)
	require.NoError(t, err)
	assert.False(t, s.Loaded())
	assert.Zero(t, rec.Live(gltest.KindTexture))

	require.NoError(t, s.Run())
	assert.Zero(t, s.Frames())
	assert.Empty(t, rec.Draws)

	require.NoError(t, s.Close())
	assert.Zero(t, rec.Live(""))
	assert.Equal(t, 1, surf.destroyed)
}
