// Package camera provides the first-person fly camera used by the viewer.
package camera

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Camera limits.
const (
	MinFov   = 1
	MaxFov   = 90
	MaxPitch = 89
)

// Preset is a fixed viewpoint around the origin.
type Preset int

// Viewpoints, numbered as bound to keys 1 to 6.
const (
	PresetTop Preset = iota
	PresetFront
	PresetRight
	PresetBack
	PresetLeft
	PresetBottom
)

var presetNames = [...]string{"top", "front", "right", "back", "left", "bottom"}

// String returns the preset name.
func (p Preset) String() string {
	if p < 0 || int(p) >= len(presetNames) {
		return "unknown"
	}
	return presetNames[p]
}

type viewpoint struct {
	position   mgl32.Vec3
	yaw, pitch float32
}

// Top and bottom stop one degree short of vertical so LookAt keeps a usable up vector.
var viewpoints = [...]viewpoint{
	PresetTop:    {mgl32.Vec3{0, 5, 0}, -90, -MaxPitch},
	PresetFront:  {mgl32.Vec3{0, 0, 3}, -90, 0},
	PresetRight:  {mgl32.Vec3{3, 0, 0}, 180, 0},
	PresetBack:   {mgl32.Vec3{0, 0, -3}, 90, 0},
	PresetLeft:   {mgl32.Vec3{-3, 0, 0}, 0, 0},
	PresetBottom: {mgl32.Vec3{0, -5, 0}, -90, MaxPitch},
}

// FlyCamera is a yaw/pitch camera that moves freely through the scene.
// Angles are in degrees.
type FlyCamera struct {
	Position mgl32.Vec3
	Front    mgl32.Vec3
	Up       mgl32.Vec3
	WorldUp  mgl32.Vec3

	Yaw   float32
	Pitch float32
	Fov   float32

	MoveSpeed   float32 // World units per second
	Sensitivity float32 // Degrees per unit of mouse travel

	Near, Far float32

	lastX, lastY float32
	haveSample   bool
}

// NewFlyCamera returns a camera at (0, 0, 3) looking down -Z.
func NewFlyCamera() *FlyCamera {
	c := &FlyCamera{
		Position:    mgl32.Vec3{0, 0, 3},
		WorldUp:     mgl32.Vec3{0, 1, 0},
		Yaw:         -90,
		Pitch:       0,
		Fov:         45,
		MoveSpeed:   2.5,
		Sensitivity: 0.05,
		Near:        0.1,
		Far:         100,
	}
	c.updateVectors()
	return c
}

// Right returns the camera's right vector.
func (c *FlyCamera) Right() mgl32.Vec3 {
	return c.Front.Cross(c.WorldUp).Normalize()
}

// Move translates along the view direction and the right vector. forward and
// right are in [-1, 1]; dt is in seconds.
func (c *FlyCamera) Move(forward, right, dt float32) {
	step := c.MoveSpeed * dt
	c.Position = c.Position.
		Add(c.Front.Mul(forward * step)).
		Add(c.Right().Mul(right * step))
}

// Look turns the camera toward the absolute pointer position (x, y). The first
// sample only records a baseline so the view does not jump.
func (c *FlyCamera) Look(x, y float32) {
	if !c.haveSample {
		c.lastX, c.lastY = x, y
		c.haveSample = true
		return
	}
	dx := (x - c.lastX) * c.Sensitivity
	dy := (c.lastY - y) * c.Sensitivity // screen Y grows downward
	c.lastX, c.lastY = x, y

	c.Yaw += dx
	c.Pitch = mgl32.Clamp(c.Pitch+dy, -MaxPitch, MaxPitch)
	c.updateVectors()
}

// ResetLook forgets the mouse baseline; the next Look call captures a new one.
func (c *FlyCamera) ResetLook() {
	c.haveSample = false
}

// Zoom narrows the field of view by delta degrees.
func (c *FlyCamera) Zoom(delta float32) {
	c.Fov = mgl32.Clamp(c.Fov-delta, MinFov, MaxFov)
}

// ApplyPreset jumps to one of the fixed viewpoints.
func (c *FlyCamera) ApplyPreset(p Preset) {
	if p < 0 || int(p) >= len(viewpoints) {
		return
	}
	v := viewpoints[p]
	c.Position = v.position
	c.Yaw = v.yaw
	c.Pitch = v.pitch
	c.updateVectors()
}

// Frame backs the camera off along its current front until a box of size
// around center fills most of the view. The view direction is unchanged.
func (c *FlyCamera) Frame(center, size mgl32.Vec3) {
	extent := size.Len()
	if extent < 1 {
		extent = 1
	}
	dist := extent / float32(math.Tan(float64(mgl32.DegToRad(c.Fov/2))))
	c.Position = center.Sub(c.Front.Mul(dist * 0.6))
}

// ViewMatrix returns the world-to-view transform.
func (c *FlyCamera) ViewMatrix() mgl32.Mat4 {
	return mgl32.LookAtV(c.Position, c.Position.Add(c.Front), c.Up)
}

// ProjectionMatrix returns the perspective projection for the given aspect ratio.
func (c *FlyCamera) ProjectionMatrix(aspect float32) mgl32.Mat4 {
	if aspect <= 0 {
		aspect = 1
	}
	return mgl32.Perspective(mgl32.DegToRad(c.Fov), aspect, c.Near, c.Far)
}

func (c *FlyCamera) updateVectors() {
	yaw := float64(mgl32.DegToRad(c.Yaw))
	pitch := float64(mgl32.DegToRad(c.Pitch))
	c.Front = mgl32.Vec3{
		float32(math.Cos(yaw) * math.Cos(pitch)),
		float32(math.Sin(pitch)),
		float32(math.Sin(yaw) * math.Cos(pitch)),
	}.Normalize()
	c.Up = c.Right().Cross(c.Front).Normalize()
}
