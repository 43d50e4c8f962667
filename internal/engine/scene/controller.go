package scene

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// MinScale is the smallest scale factor ApplyDelta produces on any axis.
const MinScale = 0.01

// Field is a transform property editable on the selected mesh.
type Field int

// Editable fields.
const (
	FieldPosition Field = iota
	FieldScale
	FieldAngle
	FieldColor
)

// String returns the field name.
func (f Field) String() string {
	switch f {
	case FieldPosition:
		return "position"
	case FieldScale:
		return "scale"
	case FieldAngle:
		return "angle"
	case FieldColor:
		return "color"
	}
	return "unknown"
}

// Controller owns the meshes and tracks which one is selected.
type Controller struct {
	meshes   []*Mesh
	selected int
}

// NewController returns an empty scene.
func NewController() *Controller {
	return &Controller{}
}

// Add appends m. The first mesh added becomes the selection.
func (c *Controller) Add(m *Mesh) {
	c.meshes = append(c.meshes, m)
}

// Len returns the number of meshes.
func (c *Controller) Len() int {
	return len(c.meshes)
}

// Meshes returns the meshes in insertion order.
func (c *Controller) Meshes() []*Mesh {
	return c.meshes
}

// Selected returns the selected mesh, or nil for an empty scene.
func (c *Controller) Selected() *Mesh {
	if len(c.meshes) == 0 {
		return nil
	}
	return c.meshes[c.selected]
}

// SelectedIndex returns the selection index, or -1 for an empty scene.
func (c *Controller) SelectedIndex() int {
	if len(c.meshes) == 0 {
		return -1
	}
	return c.selected
}

// Select sets the selection and reports whether i was in range.
func (c *Controller) Select(i int) bool {
	if i < 0 || i >= len(c.meshes) {
		return false
	}
	c.selected = i
	return true
}

// SelectNext moves the selection forward, wrapping from last to first.
func (c *Controller) SelectNext() {
	if n := len(c.meshes); n > 0 {
		c.selected = (c.selected + 1) % n
	}
}

// SelectPrevious moves the selection back, wrapping from first to last.
func (c *Controller) SelectPrevious() {
	if n := len(c.meshes); n > 0 {
		c.selected = (c.selected - 1 + n) % n
	}
}

// ApplyDelta adds delta to a field of the selected mesh. FieldAngle uses only
// delta's X component. Scale stays at or above MinScale, color within [0, 1],
// and the angle within [0, 360). It reports whether a mesh was changed.
func (c *Controller) ApplyDelta(field Field, delta mgl32.Vec3) bool {
	m := c.Selected()
	if m == nil {
		return false
	}
	switch field {
	case FieldPosition:
		m.Position = m.Position.Add(delta)
	case FieldScale:
		s := m.Scale.Add(delta)
		for i := range s {
			s[i] = float32(math.Max(float64(s[i]), MinScale))
		}
		m.Scale = s
	case FieldAngle:
		m.Angle = WrapAngle(m.Angle + delta.X())
	case FieldColor:
		col := m.Color.Add(delta)
		for i := range col {
			col[i] = mgl32.Clamp(col[i], 0, 1)
		}
		m.Color = col
	default:
		return false
	}
	return true
}

// SetAxis sets the rotation axis of the selected mesh.
func (c *Controller) SetAxis(axis mgl32.Vec3) {
	if m := c.Selected(); m != nil {
		m.Axis = axis
	}
}

// UpdateAll recomputes every model matrix.
func (c *Controller) UpdateAll() {
	for _, m := range c.meshes {
		m.Update()
	}
}

// DrawAll draws every mesh.
func (c *Controller) DrawAll() {
	for _, m := range c.meshes {
		m.Draw()
	}
}

// Destroy releases every mesh and empties the scene.
func (c *Controller) Destroy() {
	for _, m := range c.meshes {
		m.Destroy()
	}
	c.meshes = nil
	c.selected = 0
}

// WrapAngle maps degrees into [0, 360).
func WrapAngle(deg float32) float32 {
	a := float32(math.Mod(float64(deg), 360))
	if a < 0 {
		a += 360
	}
	if a >= 360 {
		a = 0
	}
	return a
}
