// Package glcore implements opengl.Context on top of the go-gl core
// profile bindings.
package glcore

import (
	"strings"

	gl "github.com/go-gl/gl/v4.1-core/gl"
	"github.com/pkg/errors"

	"gl-tutorial/internal/opengl"
)

// GL forwards every call to the driver. The zero value is not usable; call
// New after the window's context is current.
type GL struct{}

var _ opengl.Context = (*GL)(nil)

// New loads the GL entry points for the current context.
func New() (*GL, error) {
	if err := gl.Init(); err != nil {
		return nil, errors.Wrap(err, "failed to initialize OpenGL")
	}
	return &GL{}, nil
}

func (*GL) GetString(name uint32) string {
	p := gl.GetString(name)
	if p == nil {
		return ""
	}
	return gl.GoStr(p)
}

func (*GL) GenVertexArray() uint32 {
	var id uint32
	gl.GenVertexArrays(1, &id)
	return id
}

func (*GL) BindVertexArray(vao uint32) { gl.BindVertexArray(vao) }

func (*GL) DeleteVertexArray(vao uint32) { gl.DeleteVertexArrays(1, &vao) }

func (*GL) GenBuffer() uint32 {
	var id uint32
	gl.GenBuffers(1, &id)
	return id
}

func (*GL) BindBuffer(target, buffer uint32) { gl.BindBuffer(target, buffer) }

func (*GL) BufferData(target uint32, data []byte, usage uint32) {
	if len(data) == 0 {
		gl.BufferData(target, 0, nil, usage)
		return
	}
	gl.BufferData(target, len(data), gl.Ptr(data), usage)
}

func (*GL) BufferSize(target uint32) int {
	var size int32
	gl.GetBufferParameteriv(target, gl.BUFFER_SIZE, &size)
	return int(size)
}

func (*GL) DeleteBuffer(buffer uint32) { gl.DeleteBuffers(1, &buffer) }

func (*GL) EnableVertexAttribArray(index uint32) { gl.EnableVertexAttribArray(index) }

func (*GL) VertexAttribPointer(index uint32, size int32, xtype uint32, normalized bool, stride int32, offset int) {
	gl.VertexAttribPointer(index, size, xtype, normalized, stride, gl.PtrOffset(offset))
}

func (*GL) CreateShader(xtype uint32) uint32 { return gl.CreateShader(xtype) }

func (*GL) ShaderSource(shader uint32, source string) {
	csrc, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csrc, nil)
	free()
}

func (*GL) CompileShader(shader uint32) { gl.CompileShader(shader) }

func (*GL) GetShaderiv(shader, pname uint32) int32 {
	var v int32
	gl.GetShaderiv(shader, pname, &v)
	return v
}

func (*GL) GetShaderInfoLog(shader uint32) string {
	var logLen int32
	gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLen)
	if logLen == 0 {
		return ""
	}
	log := strings.Repeat("\x00", int(logLen+1))
	gl.GetShaderInfoLog(shader, logLen, nil, gl.Str(log))
	return strings.TrimRight(log, "\x00")
}

func (*GL) DeleteShader(shader uint32) { gl.DeleteShader(shader) }

func (*GL) CreateProgram() uint32 { return gl.CreateProgram() }

func (*GL) AttachShader(program, shader uint32) { gl.AttachShader(program, shader) }

func (*GL) BindFragDataLocation(program, color uint32, name string) {
	gl.BindFragDataLocation(program, color, gl.Str(name+"\x00"))
}

func (*GL) LinkProgram(program uint32) { gl.LinkProgram(program) }

func (*GL) GetProgramiv(program, pname uint32) int32 {
	var v int32
	gl.GetProgramiv(program, pname, &v)
	return v
}

func (*GL) GetProgramInfoLog(program uint32) string {
	var logLen int32
	gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLen)
	if logLen == 0 {
		return ""
	}
	log := strings.Repeat("\x00", int(logLen+1))
	gl.GetProgramInfoLog(program, logLen, nil, gl.Str(log))
	return strings.TrimRight(log, "\x00")
}

func (*GL) UseProgram(program uint32) { gl.UseProgram(program) }

func (*GL) DeleteProgram(program uint32) { gl.DeleteProgram(program) }

func (*GL) GetAttribLocation(program uint32, name string) int32 {
	return gl.GetAttribLocation(program, gl.Str(name+"\x00"))
}

func (*GL) GetUniformLocation(program uint32, name string) int32 {
	return gl.GetUniformLocation(program, gl.Str(name+"\x00"))
}

func (*GL) Uniform1i(location, v0 int32) { gl.Uniform1i(location, v0) }

func (*GL) Uniform3f(location int32, v0, v1, v2 float32) { gl.Uniform3f(location, v0, v1, v2) }

// UniformMatrix4fv uploads one column-major matrix.
func (*GL) UniformMatrix4fv(location int32, value [16]float32) {
	gl.UniformMatrix4fv(location, 1, false, &value[0])
}

func (*GL) GenTexture() uint32 {
	var id uint32
	gl.GenTextures(1, &id)
	return id
}

func (*GL) ActiveTexture(unit uint32) { gl.ActiveTexture(unit) }

func (*GL) BindTexture(target, texture uint32) { gl.BindTexture(target, texture) }

func (*GL) PixelStorei(pname uint32, param int32) { gl.PixelStorei(pname, param) }

func (*GL) TexImage2D(target uint32, level, internalFormat, width, height int32, format, xtype uint32, pixels []byte) {
	if len(pixels) == 0 {
		gl.TexImage2D(target, level, internalFormat, width, height, 0, format, xtype, nil)
		return
	}
	gl.TexImage2D(target, level, internalFormat, width, height, 0, format, xtype, gl.Ptr(pixels))
}

func (*GL) TexParameteri(target, pname uint32, param int32) {
	gl.TexParameteri(target, pname, param)
}

func (*GL) DeleteTexture(texture uint32) { gl.DeleteTextures(1, &texture) }

func (*GL) ClearColor(r, g, b, a float32) { gl.ClearColor(r, g, b, a) }

func (*GL) Clear(mask uint32) { gl.Clear(mask) }

func (*GL) DrawArrays(mode uint32, first, count int32) { gl.DrawArrays(mode, first, count) }

func (*GL) DrawElements(mode uint32, count int32, xtype uint32, offset int) {
	gl.DrawElements(mode, count, xtype, gl.PtrOffset(offset))
}
