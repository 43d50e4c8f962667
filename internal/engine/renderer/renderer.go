// Package renderer implements gpu.Device on OpenGL 4.1 core and owns the
// per-frame GL state.
package renderer

import (
	"fmt"
	"image"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/hello3d/internal/engine/gpu"
	"github.com/Faultbox/hello3d/internal/logger"
)

// Config holds renderer configuration.
type Config struct {
	Width      int
	Height     int
	Background mgl32.Vec3
	PointSize  float32
}

// Renderer issues GL calls. It must be created after the GL context and
// used only from the thread that owns it.
type Renderer struct {
	config Config

	// Uniform locations per program, -1 included so misses are not re-queried.
	uniforms map[uint32]map[string]int32
}

var _ gpu.Device = (*Renderer)(nil)

// New loads the GL function pointers and sets the default state.
func New(cfg Config) (*Renderer, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	logger.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
		zap.String("glsl", gl.GoStr(gl.GetString(gl.SHADING_LANGUAGE_VERSION))),
	)

	if cfg.PointSize <= 0 {
		cfg.PointSize = 5
	}
	r := &Renderer{
		config:   cfg,
		uniforms: make(map[uint32]map[string]int32),
	}

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.Enable(gl.PROGRAM_POINT_SIZE)
	gl.PointSize(cfg.PointSize)
	bg := cfg.Background
	gl.ClearColor(bg.X(), bg.Y(), bg.Z(), 1.0)
	gl.Viewport(0, 0, int32(cfg.Width), int32(cfg.Height))

	return r, nil
}

// Close releases renderer-owned state.
func (r *Renderer) Close() {
	logger.Info("closing renderer")
	r.uniforms = nil
}

// Size returns the current viewport size.
func (r *Renderer) Size() (int, int) {
	return r.config.Width, r.config.Height
}

// Aspect returns width / height of the viewport.
func (r *Renderer) Aspect() float32 {
	if r.config.Height == 0 {
		return 1
	}
	return float32(r.config.Width) / float32(r.config.Height)
}

// Resize handles window resize.
func (r *Renderer) Resize(width, height int) {
	r.config.Width = width
	r.config.Height = height
	gl.Viewport(0, 0, int32(width), int32(height))
	logger.Debug("renderer resized",
		zap.Int("width", width),
		zap.Int("height", height),
	)
}

// Begin clears the frame.
func (r *Renderer) Begin() {
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

// End finishes the frame state.
func (r *Renderer) End() {
	gl.BindVertexArray(0)
	gl.UseProgram(0)
}

// ReadPixels returns the back buffer as bottom-up RGBA rows.
func (r *Renderer) ReadPixels() ([]byte, int, int) {
	w, h := r.config.Width, r.config.Height
	pixels := make([]byte, w*h*4)
	if len(pixels) == 0 {
		return pixels, w, h
	}
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, int32(w), int32(h), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	return pixels, w, h
}

// CreateVertexBuffer implements gpu.Device.
func (r *Renderer) CreateVertexBuffer(data []float32) uint32 {
	var vbo uint32
	gl.GenBuffers(1, &vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, vbo)
	if len(data) > 0 {
		gl.BufferData(gl.ARRAY_BUFFER, len(data)*4, gl.Ptr(data), gl.STATIC_DRAW)
	}
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	return vbo
}

// CreateVertexArray implements gpu.Device.
func (r *Renderer) CreateVertexArray(vbo uint32, stride int, attribs []gpu.VertexAttrib) uint32 {
	var vao uint32
	gl.GenVertexArrays(1, &vao)
	gl.BindVertexArray(vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, vbo)
	for _, a := range attribs {
		gl.VertexAttribPointerWithOffset(a.Location, a.Size, gl.FLOAT, false, int32(stride), uintptr(a.Offset))
		gl.EnableVertexAttribArray(a.Location)
	}
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)
	return vao
}

// DeleteVertexArray implements gpu.Device.
func (r *Renderer) DeleteVertexArray(vao uint32) {
	gl.DeleteVertexArrays(1, &vao)
}

// DeleteBuffer implements gpu.Device.
func (r *Renderer) DeleteBuffer(vbo uint32) {
	gl.DeleteBuffers(1, &vbo)
}

// BindVertexArray implements gpu.Device.
func (r *Renderer) BindVertexArray(vao uint32) {
	gl.BindVertexArray(vao)
}

// DrawArrays implements gpu.Device.
func (r *Renderer) DrawArrays(mode gpu.Primitive, first, count int32) {
	gl.DrawArrays(glPrimitive(mode), first, count)
}

func glPrimitive(p gpu.Primitive) uint32 {
	switch p {
	case gpu.Points:
		return gl.POINTS
	case gpu.Lines:
		return gl.LINES
	default:
		return gl.TRIANGLES
	}
}

// UseProgram implements gpu.Device.
func (r *Renderer) UseProgram(program uint32) {
	gl.UseProgram(program)
}

// DeleteProgram implements gpu.Device.
func (r *Renderer) DeleteProgram(program uint32) {
	gl.DeleteProgram(program)
	delete(r.uniforms, program)
}

func (r *Renderer) location(program uint32, name string) int32 {
	locs, ok := r.uniforms[program]
	if !ok {
		locs = make(map[string]int32)
		r.uniforms[program] = locs
	}
	loc, ok := locs[name]
	if !ok {
		loc = gl.GetUniformLocation(program, gl.Str(name+"\x00"))
		locs[name] = loc
	}
	return loc
}

// SetMat4 implements gpu.Device.
func (r *Renderer) SetMat4(program uint32, name string, m mgl32.Mat4) {
	if loc := r.location(program, name); loc >= 0 {
		gl.UniformMatrix4fv(loc, 1, false, &m[0])
	}
}

// SetVec3 implements gpu.Device.
func (r *Renderer) SetVec3(program uint32, name string, v mgl32.Vec3) {
	if loc := r.location(program, name); loc >= 0 {
		gl.Uniform3f(loc, v[0], v[1], v[2])
	}
}

// SetFloat implements gpu.Device.
func (r *Renderer) SetFloat(program uint32, name string, f float32) {
	if loc := r.location(program, name); loc >= 0 {
		gl.Uniform1f(loc, f)
	}
}

// SetInt implements gpu.Device.
func (r *Renderer) SetInt(program uint32, name string, i int32) {
	if loc := r.location(program, name); loc >= 0 {
		gl.Uniform1i(loc, i)
	}
}

// CreateTexture implements gpu.Device.
func (r *Renderer) CreateTexture(img *image.RGBA) uint32 {
	var tex uint32
	gl.GenTextures(1, &tex)
	gl.BindTexture(gl.TEXTURE_2D, tex)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)

	b := img.Bounds()
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA, int32(b.Dx()), int32(b.Dy()), 0,
		gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(img.Pix))
	gl.GenerateMipmap(gl.TEXTURE_2D)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	return tex
}

// BindTexture implements gpu.Device.
func (r *Renderer) BindTexture(unit uint32, tex uint32) {
	gl.ActiveTexture(gl.TEXTURE0 + unit)
	gl.BindTexture(gl.TEXTURE_2D, tex)
}

// DeleteTexture implements gpu.Device.
func (r *Renderer) DeleteTexture(tex uint32) {
	gl.DeleteTextures(1, &tex)
}
