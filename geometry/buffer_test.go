package geometry

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var quadLayout = Layout{{"position", 2}, {"color", 3}, {"texcoord", 2}}

var quadVertices = []float32{
	-0.5, 0.5, 1, 0, 0, 0, 0,
	0.5, 0.5, 0, 1, 0, 1, 0,
	0.5, -0.5, 0, 0, 1, 1, 1,
	-0.5, -0.5, 1, 1, 1, 0, 1,
}

func TestLayoutOffsets(t *testing.T) {
	cases := []struct {
		name    string
		layout  Layout
		offsets []int
		stride  int
	}{
		{"position", Layout{{"position", 2}}, []int{0}, 8},
		{"color", Layout{{"position", 2}, {"color", 3}}, []int{0, 2}, 20},
		{"textured", quadLayout, []int{0, 2, 5}, 28},
		{"wide", Layout{{"a", 4}, {"b", 1}, {"c", 3}, {"d", 4}}, []int{0, 4, 5, 8}, 48},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.offsets, c.layout.Offsets())
			assert.Equal(t, c.stride, c.layout.Stride())
			assert.Equal(t, c.stride/FloatSize, c.layout.Components())
			for i, off := range c.offsets {
				assert.Equal(t, off*FloatSize, c.layout.ByteOffset(i))
			}
		})
	}
}

func TestNewQuad(t *testing.T) {
	b, err := New(quadLayout, quadVertices, []uint32{0, 1, 2, 2, 3, 0})
	require.NoError(t, err)
	assert.Equal(t, 4, b.VertexCount())
	assert.True(t, b.HasIndices())
	assert.Equal(t, 6, b.DrawCount())
	assert.Len(t, b.VertexBytes(), 4*7*FloatSize)
	assert.Len(t, b.IndexBytes(), 6*IndexSize)
}

func TestNewWithoutIndices(t *testing.T) {
	b, err := New(Layout{{"position", 2}}, []float32{0, 0.5, 0.5, -0.5, -0.5, -0.5}, nil)
	require.NoError(t, err)
	assert.False(t, b.HasIndices())
	assert.Equal(t, 3, b.DrawCount())
	assert.Nil(t, b.IndexBytes())
}

func TestIndexOutOfRange(t *testing.T) {
	_, err := New(quadLayout, quadVertices, []uint32{0, 1, 2, 2, 4, 0})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrIndexOutOfRange))
	assert.Contains(t, err.Error(), "indices[4] = 4")
}

func TestVertexMisaligned(t *testing.T) {
	_, err := New(quadLayout, quadVertices[:10], nil)
	assert.True(t, errors.Is(err, ErrVertexMisaligned))
}

func TestEmpty(t *testing.T) {
	_, err := New(quadLayout, nil, nil)
	assert.True(t, errors.Is(err, ErrEmpty))
}

func TestBadLayout(t *testing.T) {
	for name, l := range map[string]Layout{
		"empty":     {},
		"unnamed":   {{"", 2}},
		"zero":      {{"position", 0}},
		"too wide":  {{"position", 5}},
		"duplicate": {{"position", 2}, {"position", 2}},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := New(l, []float32{0, 0}, nil)
			assert.True(t, errors.Is(err, ErrBadAttribute))
		})
	}
}

func TestVertexBytesPanicsOnMismatch(t *testing.T) {
	b := &Buffer{Layout: quadLayout, Vertices: quadVertices[:10]}
	assert.Panics(t, func() { b.VertexBytes() })
}
