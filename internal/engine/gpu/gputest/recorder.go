// Package gputest provides an in-memory gpu.Device for tests.
package gputest

import (
	"errors"
	"fmt"
	"image"
	"strings"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/hello3d/internal/engine/gpu"
)

// FailMarker makes CompileProgram fail when it appears in either source.
const FailMarker = "#error"

// ErrCompile is returned by CompileProgram for sources containing FailMarker.
var ErrCompile = errors.New("gputest: compile failed")

// Draw is a recorded DrawArrays call.
type Draw struct {
	Program uint32
	VAO     uint32
	Texture uint32
	Mode    gpu.Primitive
	First   int32
	Count   int32
	Model   mgl32.Mat4
}

// VertexArray is a recorded CreateVertexArray call.
type VertexArray struct {
	VBO     uint32
	Stride  int
	Attribs []gpu.VertexAttrib
}

// Program is a recorded program with the last value of each uniform.
type Program struct {
	VertexSrc   string
	FragmentSrc string
	Mat4        map[string]mgl32.Mat4
	Vec3        map[string]mgl32.Vec3
	Float       map[string]float32
	Int         map[string]int32
}

// Recorder implements gpu.Device by recording every call.
type Recorder struct {
	nextID uint32

	Buffers      map[uint32][]float32
	VertexArrays map[uint32]VertexArray
	Programs     map[uint32]*Program
	Textures     map[uint32]*image.RGBA

	Deleted []string // "vao:3", "vbo:2", "program:1", "texture:4"
	Draws   []Draw
	Calls   int // total Device calls, for asserting "nothing happened"

	boundVAO     uint32
	boundProgram uint32
	boundTexture uint32
}

// New creates an empty recorder.
func New() *Recorder {
	return &Recorder{
		Buffers:      make(map[uint32][]float32),
		VertexArrays: make(map[uint32]VertexArray),
		Programs:     make(map[uint32]*Program),
		Textures:     make(map[uint32]*image.RGBA),
	}
}

var _ gpu.Device = (*Recorder)(nil)

func (r *Recorder) id() uint32 {
	r.nextID++
	return r.nextID
}

// BoundVertexArray returns the currently bound vertex array.
func (r *Recorder) BoundVertexArray() uint32 { return r.boundVAO }

// BoundProgram returns the program set by the last UseProgram.
func (r *Recorder) BoundProgram() uint32 { return r.boundProgram }

// IsDeleted reports whether the resource of the given kind was deleted.
func (r *Recorder) IsDeleted(kind string, id uint32) bool {
	key := fmt.Sprintf("%s:%d", kind, id)
	for _, d := range r.Deleted {
		if d == key {
			return true
		}
	}
	return false
}

// CreateVertexBuffer implements gpu.Device.
func (r *Recorder) CreateVertexBuffer(data []float32) uint32 {
	r.Calls++
	id := r.id()
	r.Buffers[id] = append([]float32(nil), data...)
	return id
}

// CreateVertexArray implements gpu.Device.
func (r *Recorder) CreateVertexArray(vbo uint32, stride int, attribs []gpu.VertexAttrib) uint32 {
	r.Calls++
	id := r.id()
	r.VertexArrays[id] = VertexArray{
		VBO:     vbo,
		Stride:  stride,
		Attribs: append([]gpu.VertexAttrib(nil), attribs...),
	}
	r.boundVAO = 0
	return id
}

// DeleteVertexArray implements gpu.Device.
func (r *Recorder) DeleteVertexArray(vao uint32) {
	r.Calls++
	r.Deleted = append(r.Deleted, fmt.Sprintf("vao:%d", vao))
}

// DeleteBuffer implements gpu.Device.
func (r *Recorder) DeleteBuffer(vbo uint32) {
	r.Calls++
	r.Deleted = append(r.Deleted, fmt.Sprintf("vbo:%d", vbo))
}

// BindVertexArray implements gpu.Device.
func (r *Recorder) BindVertexArray(vao uint32) {
	r.Calls++
	r.boundVAO = vao
}

// DrawArrays implements gpu.Device.
func (r *Recorder) DrawArrays(mode gpu.Primitive, first, count int32) {
	r.Calls++
	d := Draw{
		Program: r.boundProgram,
		VAO:     r.boundVAO,
		Texture: r.boundTexture,
		Mode:    mode,
		First:   first,
		Count:   count,
	}
	if p, ok := r.Programs[r.boundProgram]; ok {
		d.Model = p.Mat4["model"]
	}
	r.Draws = append(r.Draws, d)
}

// CompileProgram implements gpu.Device.
func (r *Recorder) CompileProgram(vertexSrc, fragmentSrc string) (uint32, error) {
	r.Calls++
	if strings.Contains(vertexSrc, FailMarker) || strings.Contains(fragmentSrc, FailMarker) {
		return 0, ErrCompile
	}
	id := r.id()
	r.Programs[id] = &Program{
		VertexSrc:   vertexSrc,
		FragmentSrc: fragmentSrc,
		Mat4:        make(map[string]mgl32.Mat4),
		Vec3:        make(map[string]mgl32.Vec3),
		Float:       make(map[string]float32),
		Int:         make(map[string]int32),
	}
	return id, nil
}

// DeleteProgram implements gpu.Device.
func (r *Recorder) DeleteProgram(program uint32) {
	r.Calls++
	r.Deleted = append(r.Deleted, fmt.Sprintf("program:%d", program))
}

// UseProgram implements gpu.Device.
func (r *Recorder) UseProgram(program uint32) {
	r.Calls++
	r.boundProgram = program
}

func (r *Recorder) program(id uint32) *Program {
	p, ok := r.Programs[id]
	if !ok {
		// Uniforms on an unknown program are dropped, like GL location -1.
		return &Program{
			Mat4:  make(map[string]mgl32.Mat4),
			Vec3:  make(map[string]mgl32.Vec3),
			Float: make(map[string]float32),
			Int:   make(map[string]int32),
		}
	}
	return p
}

// SetMat4 implements gpu.Device.
func (r *Recorder) SetMat4(program uint32, name string, m mgl32.Mat4) {
	r.Calls++
	r.program(program).Mat4[name] = m
}

// SetVec3 implements gpu.Device.
func (r *Recorder) SetVec3(program uint32, name string, v mgl32.Vec3) {
	r.Calls++
	r.program(program).Vec3[name] = v
}

// SetFloat implements gpu.Device.
func (r *Recorder) SetFloat(program uint32, name string, f float32) {
	r.Calls++
	r.program(program).Float[name] = f
}

// SetInt implements gpu.Device.
func (r *Recorder) SetInt(program uint32, name string, i int32) {
	r.Calls++
	r.program(program).Int[name] = i
}

// CreateTexture implements gpu.Device.
func (r *Recorder) CreateTexture(img *image.RGBA) uint32 {
	r.Calls++
	id := r.id()
	r.Textures[id] = img
	return id
}

// BindTexture implements gpu.Device.
func (r *Recorder) BindTexture(unit uint32, tex uint32) {
	r.Calls++
	r.boundTexture = tex
}

// DeleteTexture implements gpu.Device.
func (r *Recorder) DeleteTexture(tex uint32) {
	r.Calls++
	r.Deleted = append(r.Deleted, fmt.Sprintf("texture:%d", tex))
}
