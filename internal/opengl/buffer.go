package opengl

import (
	"log/slog"

	"github.com/pkg/errors"

	"gl-tutorial/geometry"
)

// GPUMesh holds the buffer objects for one uploaded geometry.Buffer.
type GPUMesh struct {
	VAO         uint32
	VBO         uint32
	EBO         uint32
	// Count is the number of vertices one draw consumes: the index count
	// for indexed geometry, the vertex count otherwise.
	Count      int32
	HasIndices bool
}

// UploadGeometry creates the vertex array, vertex buffer and, when the
// geometry is indexed, the element buffer. The VAO is left bound so the
// attribute layout can be described next.
func UploadGeometry(ctx Context, buf *geometry.Buffer) (*GPUMesh, error) {
	if err := buf.Validate(); err != nil {
		return nil, errors.Wrap(err, "upload geometry")
	}

	gpu := &GPUMesh{
		Count:      int32(buf.DrawCount()),
		HasIndices: buf.HasIndices(),
	}

	gpu.VAO = ctx.GenVertexArray()
	ctx.BindVertexArray(gpu.VAO)

	gpu.VBO = ctx.GenBuffer()
	ctx.BindBuffer(ARRAY_BUFFER, gpu.VBO)
	ctx.BufferData(ARRAY_BUFFER, buf.VertexBytes(), STATIC_DRAW)

	if gpu.HasIndices {
		gpu.EBO = ctx.GenBuffer()
		ctx.BindBuffer(ELEMENT_ARRAY_BUFFER, gpu.EBO)
		ctx.BufferData(ELEMENT_ARRAY_BUFFER, buf.IndexBytes(), STATIC_DRAW)
	}
	return gpu, nil
}

// BindLayout resolves each attribute of layout by name in prog, enables it
// and points it into the interleaved vertex buffer. Attributes the program
// does not use are skipped. It returns the names that were skipped.
func BindLayout(ctx Context, prog *Program, layout geometry.Layout, logger *slog.Logger) ([]string, error) {
	if prog == nil || prog.ID == 0 {
		return nil, errNoProgram
	}
	stride := int32(layout.Stride())

	var missing []string
	for i, attr := range layout {
		loc := prog.AttribLocation(attr.Name)
		if loc == InvalidLocation {
			logger.Warn("attribute not found in program", "attribute", attr.Name)
			missing = append(missing, attr.Name)
			continue
		}
		ctx.EnableVertexAttribArray(uint32(loc))
		ctx.VertexAttribPointer(uint32(loc), int32(attr.Size), FLOAT, false, stride, layout.ByteOffset(i))
	}
	return missing, nil
}

// Draw issues one triangle draw over the whole mesh.
func (m *GPUMesh) Draw(ctx Context) {
	ctx.BindVertexArray(m.VAO)
	if m.HasIndices {
		ctx.DrawElements(TRIANGLES, m.Count, UNSIGNED_INT, 0)
		return
	}
	ctx.DrawArrays(TRIANGLES, 0, m.Count)
}

// Release deletes the element buffer, vertex buffer and vertex array, in
// that order. Safe to call twice.
func (m *GPUMesh) Release(ctx Context) {
	if m.EBO != 0 {
		ctx.DeleteBuffer(m.EBO)
		m.EBO = 0
	}
	if m.VBO != 0 {
		ctx.DeleteBuffer(m.VBO)
		m.VBO = 0
	}
	if m.VAO != 0 {
		ctx.DeleteVertexArray(m.VAO)
		m.VAO = 0
	}
}
