// Package opengl holds the GL resource helpers shared by every session:
// geometry upload, shader compile and link, texture upload. The entry
// points themselves are reached through Context so the helpers run against
// a real driver or against a recorder in tests.
package opengl

// Enum values used by this package. They match the GL headers.
const (
	ARRAY_BUFFER         = 0x8892
	ELEMENT_ARRAY_BUFFER = 0x8893
	STATIC_DRAW          = 0x88e4
	BUFFER_SIZE          = 0x8764

	FLOAT         = 0x1406
	UNSIGNED_BYTE = 0x1401
	UNSIGNED_INT  = 0x1405

	TRIANGLES = 0x4

	COLOR_BUFFER_BIT = 0x4000

	VERTEX_SHADER   = 0x8b31
	FRAGMENT_SHADER = 0x8b30
	COMPILE_STATUS  = 0x8b81
	LINK_STATUS     = 0x8b82

	TEXTURE_2D         = 0xde1
	TEXTURE0           = 0x84c0
	TEXTURE_WRAP_S     = 0x2802
	TEXTURE_WRAP_T     = 0x2803
	TEXTURE_MIN_FILTER = 0x2801
	TEXTURE_MAG_FILTER = 0x2800
	CLAMP_TO_EDGE      = 0x812f
	LINEAR             = 0x2601
	UNPACK_ALIGNMENT   = 0xcf5
	RGB                = 0x1907
	RGBA               = 0x1908

	VERSION  = 0x1f02
	RENDERER = 0x1f01

	FALSE = 0
	TRUE  = 1
)

// InvalidLocation is returned by attribute and uniform lookups for names the
// linked program does not use.
const InvalidLocation int32 = -1

// Context is the subset of GL entry points used by the session. All methods
// operate on the context current on the calling thread.
type Context interface {
	GetString(name uint32) string

	GenVertexArray() uint32
	BindVertexArray(vao uint32)
	DeleteVertexArray(vao uint32)

	GenBuffer() uint32
	BindBuffer(target, buffer uint32)
	// BufferData uploads data to the buffer bound to target. Its size is
	// len(data).
	BufferData(target uint32, data []byte, usage uint32)
	// BufferSize reads back the size in bytes of the buffer bound to target.
	BufferSize(target uint32) int
	DeleteBuffer(buffer uint32)

	EnableVertexAttribArray(index uint32)
	VertexAttribPointer(index uint32, size int32, xtype uint32, normalized bool, stride int32, offset int)

	CreateShader(xtype uint32) uint32
	ShaderSource(shader uint32, source string)
	CompileShader(shader uint32)
	GetShaderiv(shader, pname uint32) int32
	GetShaderInfoLog(shader uint32) string
	DeleteShader(shader uint32)

	CreateProgram() uint32
	AttachShader(program, shader uint32)
	BindFragDataLocation(program, color uint32, name string)
	LinkProgram(program uint32)
	GetProgramiv(program, pname uint32) int32
	GetProgramInfoLog(program uint32) string
	UseProgram(program uint32)
	DeleteProgram(program uint32)

	GetAttribLocation(program uint32, name string) int32
	GetUniformLocation(program uint32, name string) int32
	Uniform1i(location, v0 int32)
	Uniform3f(location int32, v0, v1, v2 float32)
	UniformMatrix4fv(location int32, value [16]float32)

	GenTexture() uint32
	ActiveTexture(unit uint32)
	BindTexture(target, texture uint32)
	PixelStorei(pname uint32, param int32)
	TexImage2D(target uint32, level, internalFormat, width, height int32, format, xtype uint32, pixels []byte)
	TexParameteri(target, pname uint32, param int32)
	DeleteTexture(texture uint32)

	ClearColor(r, g, b, a float32)
	Clear(mask uint32)
	DrawArrays(mode uint32, first, count int32)
	DrawElements(mode uint32, count int32, xtype uint32, offset int)
}
