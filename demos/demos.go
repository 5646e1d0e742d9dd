// Package demos holds the tutorial programs: the vertex data, shaders,
// textures and per-frame uniforms each one draws with.
package demos

import (
	"math"
	"sort"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"

	"gl-tutorial/geometry"
	"gl-tutorial/internal/opengl"
	"gl-tutorial/session"
)

var ErrUnknownDemo = errors.New("unknown demo")

const (
	KittenTexture = "sample.png"
	PuppyTexture  = "sample2.png"
)

var (
	positionLayout = geometry.Layout{{Name: "position", Size: 2}}
	colorLayout    = geometry.Layout{{Name: "position", Size: 2}, {Name: "color", Size: 3}}
	texturedLayout = geometry.Layout{{Name: "position", Size: 2}, {Name: "color", Size: 3}, {Name: "texcoord", Size: 2}}
)

var triangleVertices = []float32{
	0.0, 0.5,
	0.5, -0.5,
	-0.5, -0.5,
}

var colorTriangleVertices = []float32{
	0.0, 0.5, 1.0, 0.0, 0.0,
	0.5, -0.5, 0.0, 1.0, 0.0,
	-0.5, -0.5, 0.0, 0.0, 1.0,
}

// Position, color, texcoord. Top-left, top-right, bottom-right, bottom-left.
var quadVertices = []float32{
	-0.5, 0.5, 1.0, 0.0, 0.0, 0.0, 0.0,
	0.5, 0.5, 0.0, 1.0, 0.0, 1.0, 0.0,
	0.5, -0.5, 0.0, 0.0, 1.0, 1.0, 1.0,
	-0.5, -0.5, 1.0, 1.0, 1.0, 0.0, 1.0,
}

var quadIndices = []uint32{
	0, 1, 2,
	2, 3, 0,
}

const positionVertex = `#version 150
in vec2 position;
void main() {
    gl_Position = vec4(position, 0.0, 1.0);
}
`

const whiteFragment = `#version 150
out vec4 outColor;
void main() {
    outColor = vec4(1.0, 1.0, 1.0, 1.0);
}
`

const uniformFragment = `#version 150
out vec4 outColor;
uniform vec3 triangleColor;
void main() {
    outColor = vec4(triangleColor, 1.0);
}
`

const colorVertex = `#version 150
in vec2 position;
in vec3 color;
out vec3 Color;
void main() {
    Color = color;
    gl_Position = vec4(position, 0.0, 1.0);
}
`

const colorFragment = `#version 150
in vec3 Color;
out vec4 outColor;
void main() {
    outColor = vec4(Color, 1.0);
}
`

const texturedVertex = `#version 150
in vec2 position;
in vec3 color;
in vec2 texcoord;
out vec3 Color;
out vec2 Texcoord;
void main() {
    Color = color;
    Texcoord = texcoord;
    gl_Position = vec4(position, 0.0, 1.0);
}
`

const texturedFragment = `#version 150
in vec3 Color;
in vec2 Texcoord;
out vec4 outColor;
uniform sampler2D tex;
void main() {
    outColor = texture(tex, Texcoord) * vec4(Color, 1.0);
}
`

const transformVertex = `#version 150
in vec2 position;
in vec3 color;
in vec2 texcoord;
out vec3 Color;
out vec2 Texcoord;
uniform mat4 trans;
void main() {
    Color = color;
    Texcoord = texcoord;
    gl_Position = trans * vec4(position, 0.0, 1.0);
}
`

const mixFragment = `#version 150
in vec3 Color;
in vec2 Texcoord;
out vec4 outColor;
uniform sampler2D texKitten;
uniform sampler2D texPuppy;
void main() {
    outColor = mix(texture(texKitten, Texcoord), texture(texPuppy, Texcoord), 0.5);
}
`

// Pulse is the red intensity of the triangle-uniform demo at time t.
func Pulse(t float64) float32 {
	return float32((math.Sin(t*4) + 1) / 2)
}

// Rotation turns the quad 180 degrees per second about +Z.
func Rotation(t float64) mgl32.Mat4 {
	angle := mgl32.DegToRad(float32(t * 180))
	return mgl32.QuatRotate(angle, mgl32.Vec3{0, 0, 1}).Mat4()
}

type builder func() (session.Spec, error)

var registry = map[string]builder{
	"triangle":         triangle,
	"triangle-uniform": triangleUniform,
	"color-triangle":   colorTriangle,
	"textured-quad":    texturedQuad,
	"multitexture":     multitexture,
	"transformation":   transformation,
}

// Names returns the registered demo names in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lookup builds the session spec of the named demo.
func Lookup(name string) (session.Spec, error) {
	build, ok := registry[name]
	if !ok {
		return session.Spec{}, errors.Wrapf(ErrUnknownDemo, "%q", name)
	}
	spec, err := build()
	if err != nil {
		return session.Spec{}, errors.Wrapf(err, "demo %s", name)
	}
	spec.Name = name
	return spec, nil
}

func triangle() (session.Spec, error) {
	b, err := geometry.New(positionLayout, triangleVertices, nil)
	if err != nil {
		return session.Spec{}, err
	}
	return session.Spec{
		Description:    "white triangle from three positions",
		Geometry:       b,
		VertexShader:   positionVertex,
		FragmentShader: whiteFragment,
	}, nil
}

func triangleUniform() (session.Spec, error) {
	spec, err := triangle()
	if err != nil {
		return spec, err
	}
	spec.Description = "triangle whose red channel pulses with time"
	spec.FragmentShader = uniformFragment
	spec.Uniforms = []string{"triangleColor"}
	spec.Update = func(p *opengl.Program, t float64) {
		p.SetVec3("triangleColor", Pulse(t), 0, 0)
	}
	return spec, nil
}

func colorTriangle() (session.Spec, error) {
	b, err := geometry.New(colorLayout, colorTriangleVertices, nil)
	if err != nil {
		return session.Spec{}, err
	}
	return session.Spec{
		Description:    "triangle with a color per vertex",
		Geometry:       b,
		VertexShader:   colorVertex,
		FragmentShader: colorFragment,
	}, nil
}

func quad() (*geometry.Buffer, error) {
	return geometry.New(texturedLayout, quadVertices, quadIndices)
}

func texturedQuad() (session.Spec, error) {
	b, err := quad()
	if err != nil {
		return session.Spec{}, err
	}
	return session.Spec{
		Description:    "indexed quad sampling one RGB texture tinted by vertex color",
		Geometry:       b,
		VertexShader:   texturedVertex,
		FragmentShader: texturedFragment,
		Uniforms:       []string{"tex"},
		Textures:       []session.TextureSpec{{Path: KittenTexture, Sampler: "tex"}},
		Channels:       3,
	}, nil
}

func multitexture() (session.Spec, error) {
	b, err := quad()
	if err != nil {
		return session.Spec{}, err
	}
	return session.Spec{
		Description:    "indexed quad blending two RGBA textures",
		Geometry:       b,
		VertexShader:   texturedVertex,
		FragmentShader: mixFragment,
		Uniforms:       []string{"texKitten", "texPuppy"},
		Textures: []session.TextureSpec{
			{Path: KittenTexture, Sampler: "texKitten"},
			{Path: PuppyTexture, Sampler: "texPuppy"},
		},
		Channels: 4,
	}, nil
}

func transformation() (session.Spec, error) {
	spec, err := multitexture()
	if err != nil {
		return spec, err
	}
	spec.Description = "blended quad rotating about the view axis"
	spec.VertexShader = transformVertex
	spec.Uniforms = append(spec.Uniforms, "trans")
	spec.Channels = 3
	spec.Update = func(p *opengl.Program, t float64) {
		p.SetMat4("trans", Rotation(t))
	}
	return spec, nil
}
