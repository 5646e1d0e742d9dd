// Package gltest provides an in-memory opengl.Context for tests. It hands
// out handles, remembers buffer sizes and texture bindings, records every
// call by name and counts the objects still alive.
package gltest

import (
	"fmt"

	"gl-tutorial/internal/opengl"
)

// Kind groups handles by the GL object type that owns them.
type Kind string

const (
	KindVertexArray Kind = "vertex-array"
	KindBuffer      Kind = "buffer"
	KindShader      Kind = "shader"
	KindProgram     Kind = "program"
	KindTexture     Kind = "texture"
)

// DrawCall is one recorded DrawArrays or DrawElements.
type DrawCall struct {
	Indexed  bool
	Mode     uint32
	Count    int32
	Textures map[uint32]uint32 // unit -> texture bound at draw time
}

// AttribPointer is one recorded VertexAttribPointer.
type AttribPointer struct {
	Index  uint32
	Size   int32
	Stride int32
	Offset int
}

// Recorder implements opengl.Context without a driver.
type Recorder struct {
	// Attribs and Uniforms name the inputs the fake program exposes. A name
	// not present yields opengl.InvalidLocation. Nil maps accept any name.
	Attribs  map[string]int32
	Uniforms map[string]int32

	// FailCompile lists shader stages (opengl.VERTEX_SHADER, ...) that
	// report a failed compile. FailLink makes every link fail.
	FailCompile map[uint32]bool
	FailLink    bool

	Calls    []string
	Draws    []DrawCall
	Pointers []AttribPointer
	Enabled  []uint32
	Uniform  map[int32][]float32 // last value written per location

	next        uint32
	live        map[uint32]Kind
	deleted     []uint32
	shaderType  map[uint32]uint32
	bound       map[uint32]uint32 // buffer target -> buffer
	sizes       map[uint32]int    // buffer -> bytes
	activeUnit  uint32
	unitTexture map[uint32]uint32
	fragOutputs map[string]uint32
	nextLoc     int32
	locs        map[string]int32
}

var _ opengl.Context = (*Recorder)(nil)

// New returns an empty Recorder that resolves every attribute and uniform.
func New() *Recorder {
	return &Recorder{
		Uniform:     make(map[int32][]float32),
		live:        make(map[uint32]Kind),
		shaderType:  make(map[uint32]uint32),
		bound:       make(map[uint32]uint32),
		sizes:       make(map[uint32]int),
		unitTexture: make(map[uint32]uint32),
		fragOutputs: make(map[string]uint32),
		locs:        make(map[string]int32),
	}
}

func (r *Recorder) call(format string, args ...any) {
	r.Calls = append(r.Calls, fmt.Sprintf(format, args...))
}

func (r *Recorder) gen(k Kind) uint32 {
	r.next++
	r.live[r.next] = k
	return r.next
}

func (r *Recorder) release(id uint32, k Kind) {
	if id == 0 {
		return
	}
	if r.live[id] != k {
		panic(fmt.Sprintf("gltest: delete of %s %d which is not live", k, id))
	}
	delete(r.live, id)
	r.deleted = append(r.deleted, id)
}

// Live returns how many objects of kind k have not been deleted. An empty
// kind counts every object.
func (r *Recorder) Live(k Kind) int {
	n := 0
	for _, kind := range r.live {
		if k == "" || kind == k {
			n++
		}
	}
	return n
}

// Deleted returns the deleted handles in deletion order.
func (r *Recorder) Deleted() []uint32 {
	return append([]uint32(nil), r.deleted...)
}

// KindOf reports the kind a handle was created as.
func (r *Recorder) KindOf(id uint32) (Kind, bool) {
	k, ok := r.live[id]
	return k, ok
}

// FragOutput returns the color slot bound to name by BindFragDataLocation.
func (r *Recorder) FragOutput(name string) (uint32, bool) {
	slot, ok := r.fragOutputs[name]
	return slot, ok
}

func (r *Recorder) location(names map[string]int32, name string) int32 {
	if names != nil {
		if loc, ok := names[name]; ok {
			return loc
		}
		return opengl.InvalidLocation
	}
	if loc, ok := r.locs[name]; ok {
		return loc
	}
	loc := r.nextLoc
	r.nextLoc++
	r.locs[name] = loc
	return loc
}

func (r *Recorder) GetString(name uint32) string {
	r.call("GetString(0x%x)", name)
	if name == opengl.VERSION {
		return "4.1 gltest"
	}
	return ""
}

func (r *Recorder) GenVertexArray() uint32 {
	id := r.gen(KindVertexArray)
	r.call("GenVertexArray() = %d", id)
	return id
}

func (r *Recorder) BindVertexArray(vao uint32) { r.call("BindVertexArray(%d)", vao) }

func (r *Recorder) DeleteVertexArray(vao uint32) {
	r.call("DeleteVertexArray(%d)", vao)
	r.release(vao, KindVertexArray)
}

func (r *Recorder) GenBuffer() uint32 {
	id := r.gen(KindBuffer)
	r.call("GenBuffer() = %d", id)
	return id
}

func (r *Recorder) BindBuffer(target, buffer uint32) {
	r.call("BindBuffer(0x%x, %d)", target, buffer)
	r.bound[target] = buffer
}

func (r *Recorder) BufferData(target uint32, data []byte, usage uint32) {
	r.call("BufferData(0x%x, %d)", target, len(data))
	r.sizes[r.bound[target]] = len(data)
}

func (r *Recorder) BufferSize(target uint32) int {
	return r.sizes[r.bound[target]]
}

func (r *Recorder) DeleteBuffer(buffer uint32) {
	r.call("DeleteBuffer(%d)", buffer)
	r.release(buffer, KindBuffer)
	delete(r.sizes, buffer)
}

func (r *Recorder) EnableVertexAttribArray(index uint32) {
	r.call("EnableVertexAttribArray(%d)", index)
	r.Enabled = append(r.Enabled, index)
}

func (r *Recorder) VertexAttribPointer(index uint32, size int32, xtype uint32, normalized bool, stride int32, offset int) {
	r.call("VertexAttribPointer(%d, %d, %d, %d)", index, size, stride, offset)
	r.Pointers = append(r.Pointers, AttribPointer{Index: index, Size: size, Stride: stride, Offset: offset})
}

func (r *Recorder) CreateShader(xtype uint32) uint32 {
	id := r.gen(KindShader)
	r.shaderType[id] = xtype
	r.call("CreateShader(0x%x) = %d", xtype, id)
	return id
}

func (r *Recorder) ShaderSource(shader uint32, source string) {
	r.call("ShaderSource(%d)", shader)
}

func (r *Recorder) CompileShader(shader uint32) { r.call("CompileShader(%d)", shader) }

func (r *Recorder) GetShaderiv(shader, pname uint32) int32 {
	if pname == opengl.COMPILE_STATUS && r.FailCompile[r.shaderType[shader]] {
		return opengl.FALSE
	}
	return opengl.TRUE
}

func (r *Recorder) GetShaderInfoLog(shader uint32) string {
	if r.FailCompile[r.shaderType[shader]] {
		return "0:1(1): error: syntax error"
	}
	return ""
}

func (r *Recorder) DeleteShader(shader uint32) {
	r.call("DeleteShader(%d)", shader)
	r.release(shader, KindShader)
}

func (r *Recorder) CreateProgram() uint32 {
	id := r.gen(KindProgram)
	r.call("CreateProgram() = %d", id)
	return id
}

func (r *Recorder) AttachShader(program, shader uint32) {
	r.call("AttachShader(%d, %d)", program, shader)
}

func (r *Recorder) BindFragDataLocation(program, color uint32, name string) {
	r.call("BindFragDataLocation(%d, %d, %s)", program, color, name)
	r.fragOutputs[name] = color
}

func (r *Recorder) LinkProgram(program uint32) { r.call("LinkProgram(%d)", program) }

func (r *Recorder) GetProgramiv(program, pname uint32) int32 {
	if pname == opengl.LINK_STATUS && r.FailLink {
		return opengl.FALSE
	}
	return opengl.TRUE
}

func (r *Recorder) GetProgramInfoLog(program uint32) string {
	if r.FailLink {
		return "error: vertex output not read by fragment shader"
	}
	return ""
}

func (r *Recorder) UseProgram(program uint32) { r.call("UseProgram(%d)", program) }

func (r *Recorder) DeleteProgram(program uint32) {
	r.call("DeleteProgram(%d)", program)
	r.release(program, KindProgram)
}

func (r *Recorder) GetAttribLocation(program uint32, name string) int32 {
	loc := r.location(r.Attribs, name)
	r.call("GetAttribLocation(%s) = %d", name, loc)
	return loc
}

func (r *Recorder) GetUniformLocation(program uint32, name string) int32 {
	loc := r.location(r.Uniforms, name)
	r.call("GetUniformLocation(%s) = %d", name, loc)
	return loc
}

func (r *Recorder) Uniform1i(location, v0 int32) {
	r.call("Uniform1i(%d, %d)", location, v0)
	r.Uniform[location] = []float32{float32(v0)}
}

func (r *Recorder) Uniform3f(location int32, v0, v1, v2 float32) {
	r.call("Uniform3f(%d)", location)
	r.Uniform[location] = []float32{v0, v1, v2}
}

func (r *Recorder) UniformMatrix4fv(location int32, value [16]float32) {
	r.call("UniformMatrix4fv(%d)", location)
	r.Uniform[location] = value[:]
}

func (r *Recorder) GenTexture() uint32 {
	id := r.gen(KindTexture)
	r.call("GenTexture() = %d", id)
	return id
}

func (r *Recorder) ActiveTexture(unit uint32) {
	r.call("ActiveTexture(%d)", unit-opengl.TEXTURE0)
	r.activeUnit = unit - opengl.TEXTURE0
}

func (r *Recorder) BindTexture(target, texture uint32) {
	r.call("BindTexture(%d)", texture)
	if texture == 0 {
		delete(r.unitTexture, r.activeUnit)
		return
	}
	r.unitTexture[r.activeUnit] = texture
}

func (r *Recorder) PixelStorei(pname uint32, param int32) {
	r.call("PixelStorei(0x%x, %d)", pname, param)
}

func (r *Recorder) TexImage2D(target uint32, level, internalFormat, width, height int32, format, xtype uint32, pixels []byte) {
	r.call("TexImage2D(%dx%d, 0x%x, %d)", width, height, format, len(pixels))
}

func (r *Recorder) TexParameteri(target, pname uint32, param int32) {
	r.call("TexParameteri(0x%x, 0x%x)", pname, param)
}

func (r *Recorder) DeleteTexture(texture uint32) {
	r.call("DeleteTexture(%d)", texture)
	r.release(texture, KindTexture)
	for unit, id := range r.unitTexture {
		if id == texture {
			delete(r.unitTexture, unit)
		}
	}
}

func (r *Recorder) ClearColor(red, green, blue, alpha float32) {
	r.call("ClearColor(%g, %g, %g, %g)", red, green, blue, alpha)
}

func (r *Recorder) Clear(mask uint32) { r.call("Clear(0x%x)", mask) }

func (r *Recorder) DrawArrays(mode uint32, first, count int32) {
	r.call("DrawArrays(0x%x, %d, %d)", mode, first, count)
	r.Draws = append(r.Draws, DrawCall{Mode: mode, Count: count, Textures: r.textures()})
}

func (r *Recorder) DrawElements(mode uint32, count int32, xtype uint32, offset int) {
	r.call("DrawElements(0x%x, %d)", mode, count)
	r.Draws = append(r.Draws, DrawCall{Indexed: true, Mode: mode, Count: count, Textures: r.textures()})
}

func (r *Recorder) textures() map[uint32]uint32 {
	m := make(map[uint32]uint32, len(r.unitTexture))
	for unit, id := range r.unitTexture {
		m[unit] = id
	}
	return m
}
