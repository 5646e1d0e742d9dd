// Package geometry describes interleaved vertex data and its attribute
// layout, and exposes it as byte views sized for GPU upload.
package geometry

import (
	"unsafe"

	"github.com/pkg/errors"
)

const (
	// FloatSize is the size in bytes of one vertex component.
	FloatSize = 4
	// IndexSize is the size in bytes of one element index.
	IndexSize = 4
)

var (
	ErrEmpty            = errors.New("geometry has no vertices")
	ErrVertexMisaligned = errors.New("vertex data is not a whole number of vertices")
	ErrIndexOutOfRange  = errors.New("index out of range")
	ErrBadAttribute     = errors.New("invalid attribute")
)

// Attribute is one named per-vertex input, Size floats wide.
type Attribute struct {
	Name string
	Size int
}

// Layout is the ordered list of attributes interleaved in each vertex.
type Layout []Attribute

// Components returns the number of floats per vertex.
func (l Layout) Components() int {
	n := 0
	for _, a := range l {
		n += a.Size
	}
	return n
}

// Stride returns the distance in bytes between consecutive vertices.
func (l Layout) Stride() int {
	return l.Components() * FloatSize
}

// Offsets returns each attribute's offset in floats from the start of a
// vertex: the prefix sums of the preceding widths.
func (l Layout) Offsets() []int {
	offs := make([]int, len(l))
	n := 0
	for i, a := range l {
		offs[i] = n
		n += a.Size
	}
	return offs
}

// ByteOffset returns the offset in bytes of attribute i.
func (l Layout) ByteOffset(i int) int {
	return l.Offsets()[i] * FloatSize
}

func (l Layout) validate() error {
	if len(l) == 0 {
		return errors.Wrap(ErrBadAttribute, "empty layout")
	}
	seen := make(map[string]bool, len(l))
	for _, a := range l {
		if a.Name == "" {
			return errors.Wrap(ErrBadAttribute, "attribute without a name")
		}
		if a.Size < 1 || a.Size > 4 {
			return errors.Wrapf(ErrBadAttribute, "%s has %d components", a.Name, a.Size)
		}
		if seen[a.Name] {
			return errors.Wrapf(ErrBadAttribute, "%s declared twice", a.Name)
		}
		seen[a.Name] = true
	}
	return nil
}

// Buffer is interleaved vertex data plus optional element indices.
type Buffer struct {
	Layout   Layout
	Vertices []float32
	Indices  []uint32
}

// New returns a validated Buffer.
func New(layout Layout, vertices []float32, indices []uint32) (*Buffer, error) {
	b := &Buffer{Layout: layout, Vertices: vertices, Indices: indices}
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return b, nil
}

// Validate checks that the vertex data is a whole number of vertices and
// that every index addresses an existing vertex.
func (b *Buffer) Validate() error {
	if err := b.Layout.validate(); err != nil {
		return err
	}
	if len(b.Vertices) == 0 {
		return ErrEmpty
	}
	n := b.Layout.Components()
	if len(b.Vertices)%n != 0 {
		return errors.Wrapf(ErrVertexMisaligned, "%d floats with %d per vertex", len(b.Vertices), n)
	}
	count := b.VertexCount()
	for i, idx := range b.Indices {
		if int(idx) >= count {
			return errors.Wrapf(ErrIndexOutOfRange, "indices[%d] = %d, vertex count %d", i, idx, count)
		}
	}
	return nil
}

// VertexCount returns the number of whole vertices.
func (b *Buffer) VertexCount() int {
	n := b.Layout.Components()
	if n == 0 {
		return 0
	}
	return len(b.Vertices) / n
}

// HasIndices reports whether the buffer is drawn through an element array.
func (b *Buffer) HasIndices() bool {
	return len(b.Indices) > 0
}

// DrawCount is the number of vertices one draw call consumes.
func (b *Buffer) DrawCount() int {
	if b.HasIndices() {
		return len(b.Indices)
	}
	return b.VertexCount()
}

// VertexBytes views the vertex data as bytes in native order.
func (b *Buffer) VertexBytes() []byte {
	if len(b.Vertices) == 0 {
		return nil
	}
	buf := unsafe.Slice((*byte)(unsafe.Pointer(&b.Vertices[0])), len(b.Vertices)*FloatSize)
	mustLen(buf, b.VertexCount()*b.Layout.Stride(), "vertex")
	return buf
}

// IndexBytes views the index data as bytes in native order.
func (b *Buffer) IndexBytes() []byte {
	if len(b.Indices) == 0 {
		return nil
	}
	buf := unsafe.Slice((*byte)(unsafe.Pointer(&b.Indices[0])), len(b.Indices)*IndexSize)
	mustLen(buf, len(b.Indices)*IndexSize, "index")
	return buf
}

// mustLen panics when a byte view disagrees with its declared element
// count. Uploading such a view would read past the data.
func mustLen(buf []byte, want int, what string) {
	if len(buf) != want {
		panic(errors.Errorf("geometry: %s view is %d bytes, layout declares %d", what, len(buf), want))
	}
}
