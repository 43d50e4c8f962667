// Package gpu defines the subset of the graphics API the engine draws through.
// The OpenGL implementation lives in the renderer package; gputest provides
// an in-memory recorder for tests.
package gpu

import (
	"image"

	"github.com/go-gl/mathgl/mgl32"
)

// Primitive selects how DrawArrays assembles vertices.
type Primitive int

// Primitive kinds.
const (
	Triangles Primitive = iota
	Points
	Lines
)

// String returns the primitive name.
func (p Primitive) String() string {
	switch p {
	case Triangles:
		return "triangles"
	case Points:
		return "points"
	case Lines:
		return "lines"
	default:
		return "unknown"
	}
}

// VertexAttrib describes one float attribute inside an interleaved buffer.
type VertexAttrib struct {
	Location uint32 // Shader input location
	Size     int32  // Component count (1-4)
	Offset   int    // Byte offset inside a vertex
}

// Device is the rendering context the engine needs. All methods must be called
// from the thread that owns the GL context.
type Device interface {
	// CreateVertexBuffer uploads a flat float array and returns the buffer ID.
	CreateVertexBuffer(data []float32) uint32
	// CreateVertexArray wires attributes of vbo with the given byte stride.
	// Both the array and the buffer are unbound on return.
	CreateVertexArray(vbo uint32, stride int, attribs []VertexAttrib) uint32
	DeleteVertexArray(vao uint32)
	DeleteBuffer(vbo uint32)
	BindVertexArray(vao uint32)
	DrawArrays(mode Primitive, first, count int32)

	// CompileProgram compiles and links a vertex+fragment program.
	CompileProgram(vertexSrc, fragmentSrc string) (uint32, error)
	DeleteProgram(program uint32)
	UseProgram(program uint32)
	SetMat4(program uint32, name string, m mgl32.Mat4)
	SetVec3(program uint32, name string, v mgl32.Vec3)
	SetFloat(program uint32, name string, f float32)
	SetInt(program uint32, name string, i int32)

	// CreateTexture uploads an RGBA image with mipmaps and returns the texture ID.
	CreateTexture(img *image.RGBA) uint32
	BindTexture(unit uint32, tex uint32)
	DeleteTexture(tex uint32)
}
