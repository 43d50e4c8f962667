// Package scene holds the drawable objects of the viewer and the selection
// that keyboard edits apply to.
package scene

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/hello3d/internal/engine/gpu"
	"github.com/Faultbox/hello3d/internal/engine/model"
	"github.com/Faultbox/hello3d/internal/engine/shader"
)

// Program is the shader a mesh draws with. It is read on every Draw so a
// reloaded program takes effect immediately.
type Program interface {
	ID() uint32
}

// Material holds the Phong coefficients of a mesh.
type Material struct {
	Ambient   mgl32.Vec3
	Diffuse   mgl32.Vec3
	Specular  mgl32.Vec3
	Shininess float32
}

// DefaultMaterial is used when the model has no material library.
func DefaultMaterial() Material {
	return Material{
		Ambient:   mgl32.Vec3{0.2, 0.2, 0.2},
		Diffuse:   mgl32.Vec3{0.8, 0.8, 0.8},
		Specular:  mgl32.Vec3{0.5, 0.5, 0.5},
		Shininess: 32,
	}
}

// MaterialFrom converts a loaded material, falling back to the defaults for nil.
func MaterialFrom(m *model.Material) Material {
	if m == nil {
		return DefaultMaterial()
	}
	return Material{
		Ambient:   m.Ambient,
		Diffuse:   m.Diffuse,
		Specular:  m.Specular,
		Shininess: m.Shininess,
	}
}

// Config is the initial state of a mesh.
type Config struct {
	Name     string
	Position mgl32.Vec3
	Scale    mgl32.Vec3
	Axis     mgl32.Vec3
	Angle    float32    // Degrees
	Color    mgl32.Vec3 // Tint multiplied with the vertex color
	Material Material

	// Texture is bound to unit 0 while drawing. The mesh takes ownership.
	Texture uint32

	// DrawPoints overlays the vertices as points.
	DrawPoints bool
}

// DefaultConfig returns an untransformed blue mesh rotating about +Z.
func DefaultConfig() Config {
	return Config{
		Scale:    mgl32.Vec3{1, 1, 1},
		Axis:     mgl32.Vec3{0, 0, 1},
		Color:    mgl32.Vec3{0, 0, 1},
		Material: DefaultMaterial(),
	}
}

// Mesh is one drawable object: uploaded geometry plus a transform and tint.
type Mesh struct {
	Name       string
	Position   mgl32.Vec3
	Scale      mgl32.Vec3
	Axis       mgl32.Vec3
	Angle      float32
	Color      mgl32.Vec3
	Material   Material
	DrawPoints bool

	dev     gpu.Device
	handle  model.Handle
	program Program
	texture uint32
	model   mgl32.Mat4
}

// NewMesh wraps an uploaded handle. The model matrix starts as identity until
// the first Update.
func NewMesh(dev gpu.Device, h model.Handle, program Program, cfg Config) *Mesh {
	return &Mesh{
		Name:       cfg.Name,
		Position:   cfg.Position,
		Scale:      cfg.Scale,
		Axis:       cfg.Axis,
		Angle:      cfg.Angle,
		Color:      cfg.Color,
		Material:   cfg.Material,
		DrawPoints: cfg.DrawPoints,
		dev:        dev,
		handle:     h,
		program:    program,
		texture:    cfg.Texture,
		model:      mgl32.Ident4(),
	}
}

// Handle returns the GPU geometry.
func (m *Mesh) Handle() model.Handle {
	return m.handle
}

// Model returns the matrix computed by the last Update.
func (m *Mesh) Model() mgl32.Mat4 {
	return m.model
}

// Update recomputes the model matrix as translate * rotate * scale.
func (m *Mesh) Update() {
	m.model = Transform(m.Position, m.Axis, m.Angle, m.Scale)
}

// Transform composes T(position) * R(angle degrees about axis) * S(scale).
// A zero axis means no rotation.
func Transform(position, axis mgl32.Vec3, angle float32, scale mgl32.Vec3) mgl32.Mat4 {
	t := mgl32.Translate3D(position.X(), position.Y(), position.Z())
	s := mgl32.Scale3D(scale.X(), scale.Y(), scale.Z())
	if axis.Len() == 0 {
		return t.Mul4(s)
	}
	r := mgl32.HomogRotate3D(mgl32.DegToRad(angle), axis.Normalize())
	return t.Mul4(r).Mul4(s)
}

// Draw issues the draw calls for the mesh with its current matrix. Meshes
// without valid geometry draw nothing.
func (m *Mesh) Draw() {
	if !m.handle.Valid() {
		return
	}
	prog := m.program.ID()
	dev := m.dev

	dev.UseProgram(prog)
	dev.SetMat4(prog, shader.UniformModel, m.model)
	dev.SetVec3(prog, shader.UniformTint, m.Color)
	dev.SetVec3(prog, shader.UniformMatAmbient, m.Material.Ambient)
	dev.SetVec3(prog, shader.UniformMatDiffuse, m.Material.Diffuse)
	dev.SetVec3(prog, shader.UniformMatSpecular, m.Material.Specular)
	dev.SetFloat(prog, shader.UniformMatShininess, m.Material.Shininess)
	dev.SetInt(prog, shader.UniformUseLighting, boolInt(m.handle.Layout.Normal))
	dev.SetInt(prog, shader.UniformDrawingPoints, 0)

	if m.texture != 0 && m.handle.Layout.TexCoord {
		dev.BindTexture(0, m.texture)
		dev.SetInt(prog, shader.UniformDiffuseMap, 0)
		dev.SetInt(prog, shader.UniformUseTexture, 1)
	} else {
		dev.SetInt(prog, shader.UniformUseTexture, 0)
	}

	dev.BindVertexArray(m.handle.VAO)
	dev.DrawArrays(gpu.Triangles, 0, m.handle.VertexCount)
	if m.DrawPoints {
		dev.SetInt(prog, shader.UniformDrawingPoints, 1)
		dev.DrawArrays(gpu.Points, 0, m.handle.VertexCount)
		dev.SetInt(prog, shader.UniformDrawingPoints, 0)
	}
	dev.BindVertexArray(0)
}

// Destroy releases the geometry and texture.
func (m *Mesh) Destroy() {
	m.handle.Release(m.dev)
	if m.texture != 0 {
		m.dev.DeleteTexture(m.texture)
		m.texture = 0
	}
}

func boolInt(b bool) int32 {
	if b {
		return 1
	}
	return 0
}
