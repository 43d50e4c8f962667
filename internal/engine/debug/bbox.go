package debug

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/hello3d/internal/engine/gpu"
	"github.com/Faultbox/hello3d/internal/engine/model"
	"github.com/Faultbox/hello3d/internal/engine/scene"
	"github.com/Faultbox/hello3d/internal/engine/shader"
)

// BBoxWireframeVertexCount is the number of vertices for a box wireframe (12 edges x 2).
const BBoxWireframeVertexCount = 24

// BBoxWireframe returns the 12 edges of b as line vertices in the
// position+color layout.
func BBoxWireframe(b model.Bounds, color mgl32.Vec3) []float32 {
	lo, hi := b.Min, b.Max
	corners := [8]mgl32.Vec3{
		{lo[0], lo[1], lo[2]}, {hi[0], lo[1], lo[2]}, {hi[0], lo[1], hi[2]}, {lo[0], lo[1], hi[2]},
		{lo[0], hi[1], lo[2]}, {hi[0], hi[1], lo[2]}, {hi[0], hi[1], hi[2]}, {lo[0], hi[1], hi[2]},
	}
	edges := [12][2]int{
		{0, 1}, {1, 2}, {2, 3}, {3, 0}, // bottom
		{4, 5}, {5, 6}, {6, 7}, {7, 4}, // top
		{0, 4}, {1, 5}, {2, 6}, {3, 7}, // sides
	}

	out := make([]float32, 0, BBoxWireframeVertexCount*model.LayoutPosColor.Stride())
	for _, e := range edges {
		for _, i := range e {
			p := corners[i]
			out = append(out, p[0], p[1], p[2], color[0], color[1], color[2])
		}
	}
	return out
}

// SelectionBox outlines a mesh's bounds with lines, following its transform.
type SelectionBox struct {
	Color mgl32.Vec3

	dev    gpu.Device
	handle model.Handle
	bounds model.Bounds
}

// NewSelectionBox creates an empty overlay; geometry is uploaded on first Draw.
func NewSelectionBox(dev gpu.Device, color mgl32.Vec3) *SelectionBox {
	return &SelectionBox{Color: color, dev: dev}
}

// Draw outlines m with program. A nil mesh or one without geometry draws nothing.
func (s *SelectionBox) Draw(program uint32, m *scene.Mesh) {
	if m == nil || !m.Handle().Valid() {
		return
	}
	if b := m.Handle().Bounds; !s.handle.Valid() || b != s.bounds {
		s.handle.Release(s.dev)
		g := &model.Geometry{
			Data:        BBoxWireframe(b, mgl32.Vec3{1, 1, 1}),
			Layout:      model.LayoutPosColor,
			VertexCount: BBoxWireframeVertexCount,
			Bounds:      b,
		}
		s.handle = model.Upload(s.dev, g)
		s.bounds = b
	}

	dev := s.dev
	dev.UseProgram(program)
	dev.SetMat4(program, shader.UniformModel, m.Model())
	dev.SetVec3(program, shader.UniformTint, s.Color)
	dev.SetInt(program, shader.UniformUseLighting, 0)
	dev.SetInt(program, shader.UniformUseTexture, 0)
	dev.SetInt(program, shader.UniformDrawingPoints, 0)
	dev.BindVertexArray(s.handle.VAO)
	dev.DrawArrays(gpu.Lines, 0, BBoxWireframeVertexCount)
	dev.BindVertexArray(0)
}

// Destroy releases the overlay geometry.
func (s *SelectionBox) Destroy() {
	s.handle.Release(s.dev)
}
