// Package lighting provides the scene's single point light.
package lighting

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/hello3d/internal/engine/gpu"
	"github.com/Faultbox/hello3d/internal/engine/shader"
)

// Orbit moves a light around a vertical axis through Center.
type Orbit struct {
	Enabled bool
	Center  mgl32.Vec3
	Radius  float32
	Height  float32 // Y offset from Center
	Speed   float32 // Degrees per second

	angle float32
}

// Light is a point light.
type Light struct {
	Position mgl32.Vec3
	Color    mgl32.Vec3
	Orbit    Orbit
}

// New returns a white light at position with a disabled orbit.
func New(position mgl32.Vec3) *Light {
	return &Light{
		Position: position,
		Color:    mgl32.Vec3{1, 1, 1},
		Orbit: Orbit{
			Radius: 5,
			Height: position.Y(),
			Speed:  45,
		},
	}
}

// Toggle starts or stops orbiting. Starting resumes from the light's current
// bearing around the orbit center; the next Update places the light at
// Orbit.Radius and Orbit.Height on that bearing.
func (l *Light) Toggle() {
	l.Orbit.Enabled = !l.Orbit.Enabled
	if l.Orbit.Enabled {
		d := l.Position.Sub(l.Orbit.Center)
		if d.X() != 0 || d.Z() != 0 {
			l.Orbit.angle = wrapDegrees(mgl32.RadToDeg(float32(math.Atan2(float64(d.Z()), float64(d.X())))))
		}
	}
}

// Angle returns the orbit bearing in degrees, in [0, 360).
func (l *Light) Angle() float32 {
	return l.Orbit.angle
}

// Update advances the orbit by dt seconds. It does nothing while disabled.
func (l *Light) Update(dt float32) {
	o := &l.Orbit
	if !o.Enabled {
		return
	}
	o.angle = wrapDegrees(o.angle + o.Speed*dt)
	rad := float64(mgl32.DegToRad(o.angle))
	l.Position = mgl32.Vec3{
		o.Center.X() + o.Radius*float32(math.Cos(rad)),
		o.Center.Y() + o.Height,
		o.Center.Z() + o.Radius*float32(math.Sin(rad)),
	}
}

// Apply uploads the light and the viewer position to program.
func (l *Light) Apply(dev gpu.Device, program uint32, cameraPos mgl32.Vec3) {
	dev.SetVec3(program, shader.UniformLightPos, l.Position)
	dev.SetVec3(program, shader.UniformLightColor, l.Color)
	dev.SetVec3(program, shader.UniformCamPos, cameraPos)
}

func wrapDegrees(deg float32) float32 {
	a := float32(math.Mod(float64(deg), 360))
	if a < 0 {
		a += 360
	}
	if a >= 360 {
		a = 0
	}
	return a
}
