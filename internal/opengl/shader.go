package opengl

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// OutputColor is the fragment output bound to color slot 0 before linking.
const OutputColor = "outColor"

// ShaderCompileError reports a shader stage that failed to compile.
type ShaderCompileError struct {
	Stage string
	Log   string
}

func (e *ShaderCompileError) Error() string {
	return fmt.Sprintf("%s shader compile failed: %s", e.Stage, strings.TrimSpace(e.Log))
}

// ProgramLinkError reports a program that failed to link.
type ProgramLinkError struct {
	Log string
}

func (e *ProgramLinkError) Error() string {
	return fmt.Sprintf("program link failed: %s", strings.TrimSpace(e.Log))
}

// CompileResult is the outcome of compiling one shader stage. Shader is a
// valid handle even when OK is false; it must still be deleted.
type CompileResult struct {
	Shader uint32
	Stage  string
	OK     bool
	Log    string
}

// Err returns a *ShaderCompileError when compilation failed.
func (r CompileResult) Err() error {
	if r.OK {
		return nil
	}
	return &ShaderCompileError{Stage: r.Stage, Log: r.Log}
}

// LinkResult is the outcome of linking a program.
type LinkResult struct {
	OK  bool
	Log string
}

// Err returns a *ProgramLinkError when linking failed.
func (r LinkResult) Err() error {
	if r.OK {
		return nil
	}
	return &ProgramLinkError{Log: r.Log}
}

func stageName(shaderType uint32) string {
	switch shaderType {
	case VERTEX_SHADER:
		return "vertex"
	case FRAGMENT_SHADER:
		return "fragment"
	}
	return fmt.Sprintf("0x%x", shaderType)
}

// CompileShader creates and compiles one stage and reports its status.
func CompileShader(ctx Context, src string, shaderType uint32) CompileResult {
	shader := ctx.CreateShader(shaderType)
	ctx.ShaderSource(shader, src)
	ctx.CompileShader(shader)

	res := CompileResult{Shader: shader, Stage: stageName(shaderType), OK: true}
	if ctx.GetShaderiv(shader, COMPILE_STATUS) == FALSE {
		res.OK = false
		res.Log = ctx.GetShaderInfoLog(shader)
	}
	return res
}

// Program is a linked vertex + fragment pair with a cache of resolved
// attribute and uniform locations.
type Program struct {
	ctx Context

	ID       uint32
	Vertex   CompileResult
	Fragment CompileResult
	Link     LinkResult

	attribs  map[string]int32
	uniforms map[string]int32
}

// NewProgram compiles both stages, binds OutputColor to slot 0 and links.
// It never fails: the per-stage and link results are recorded on the
// Program and Err reports the first failure. Callers decide whether to
// continue with a broken program.
func NewProgram(ctx Context, vertSrc, fragSrc string, uniforms ...string) *Program {
	p := &Program{
		ctx:      ctx,
		attribs:  make(map[string]int32),
		uniforms: make(map[string]int32),
	}
	p.Vertex = CompileShader(ctx, vertSrc, VERTEX_SHADER)
	p.Fragment = CompileShader(ctx, fragSrc, FRAGMENT_SHADER)

	p.ID = ctx.CreateProgram()
	ctx.AttachShader(p.ID, p.Vertex.Shader)
	ctx.AttachShader(p.ID, p.Fragment.Shader)
	ctx.BindFragDataLocation(p.ID, 0, OutputColor)
	ctx.LinkProgram(p.ID)

	p.Link.OK = ctx.GetProgramiv(p.ID, LINK_STATUS) != FALSE
	if !p.Link.OK {
		p.Link.Log = ctx.GetProgramInfoLog(p.ID)
	}

	for _, name := range uniforms {
		p.UniformLocation(name)
	}
	return p
}

// Err returns the first compile or link failure, or nil.
func (p *Program) Err() error {
	if err := p.Vertex.Err(); err != nil {
		return err
	}
	if err := p.Fragment.Err(); err != nil {
		return err
	}
	return p.Link.Err()
}

// Use makes the program current.
func (p *Program) Use() {
	p.ctx.UseProgram(p.ID)
}

// AttribLocation returns the location of a vertex attribute, or
// InvalidLocation if the program does not use it.
func (p *Program) AttribLocation(name string) int32 {
	if loc, ok := p.attribs[name]; ok {
		return loc
	}
	loc := p.ctx.GetAttribLocation(p.ID, name)
	p.attribs[name] = loc
	return loc
}

// UniformLocation returns the location of a uniform, or InvalidLocation if
// the program does not use it.
func (p *Program) UniformLocation(name string) int32 {
	if loc, ok := p.uniforms[name]; ok {
		return loc
	}
	loc := p.ctx.GetUniformLocation(p.ID, name)
	p.uniforms[name] = loc
	return loc
}

// SetInt writes an int (or sampler unit) uniform. Unknown names are ignored.
func (p *Program) SetInt(name string, v int32) {
	if loc := p.UniformLocation(name); loc != InvalidLocation {
		p.ctx.Uniform1i(loc, v)
	}
}

// SetVec3 writes a vec3 uniform.
func (p *Program) SetVec3(name string, x, y, z float32) {
	if loc := p.UniformLocation(name); loc != InvalidLocation {
		p.ctx.Uniform3f(loc, x, y, z)
	}
}

// SetMat4 writes a column-major mat4 uniform.
func (p *Program) SetMat4(name string, m [16]float32) {
	if loc := p.UniformLocation(name); loc != InvalidLocation {
		p.ctx.UniformMatrix4fv(loc, m)
	}
}

// Delete releases the program, then the fragment and vertex stages. Safe
// to call twice.
func (p *Program) Delete() {
	if p.ID != 0 {
		p.ctx.DeleteProgram(p.ID)
		p.ID = 0
	}
	if p.Fragment.Shader != 0 {
		p.ctx.DeleteShader(p.Fragment.Shader)
		p.Fragment.Shader = 0
	}
	if p.Vertex.Shader != 0 {
		p.ctx.DeleteShader(p.Vertex.Shader)
		p.Vertex.Shader = 0
	}
}

// errNoProgram is returned by helpers that need a linked program.
var errNoProgram = errors.New("no program")
