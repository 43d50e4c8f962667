// Package controls maps keyboard and mouse input onto the camera, the light
// and the selected scene object.
package controls

import (
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/hello3d/internal/engine/camera"
	"github.com/Faultbox/hello3d/internal/engine/input"
	"github.com/Faultbox/hello3d/internal/engine/lighting"
	"github.com/Faultbox/hello3d/internal/engine/picking"
	"github.com/Faultbox/hello3d/internal/engine/scene"
	"github.com/Faultbox/hello3d/internal/logger"
)

// Settings are the rates applied while keys are held.
type Settings struct {
	SpinSpeed      float32 // Degrees per second
	SpinStep       float32 // Change per P/O press
	TranslateSpeed float32 // Units per second
	ScaleSpeed     float32 // Scale units per second
	ZoomStep       float32 // Fov degrees per wheel notch
}

// DefaultSettings returns the stock rates.
func DefaultSettings() Settings {
	return Settings{
		SpinSpeed:      90,
		SpinStep:       15,
		TranslateSpeed: 1.5,
		ScaleSpeed:     1,
		ZoomStep:       1,
	}
}

// Actions are requests for the frame loop that controls cannot carry out.
type Actions struct {
	Quit       bool
	Screenshot bool
}

// Targets are the objects a frame of input acts on.
type Targets struct {
	Camera *camera.FlyCamera
	Scene  *scene.Controller
	Light  *lighting.Light
}

// Controls holds the toggle state that persists across frames.
type Controls struct {
	Settings

	spin [3]bool
}

// New creates controls with all spin axes off.
func New(s Settings) *Controls {
	return &Controls{Settings: s}
}

var presetKeys = [...]input.Key{input.Key1, input.Key2, input.Key3, input.Key4, input.Key5, input.Key6}

var unitAxes = [3]mgl32.Vec3{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}

// Spin reports which rotation axes are toggled on.
func (c *Controls) Spin() (x, y, z bool) {
	return c.spin[0], c.spin[1], c.spin[2]
}

// SpinAxis returns the sum of the enabled unit axes, or zero when none is on.
func (c *Controls) SpinAxis() mgl32.Vec3 {
	var axis mgl32.Vec3
	for i, on := range c.spin {
		if on {
			axis = axis.Add(unitAxes[i])
		}
	}
	return axis
}

// Apply consumes one frame of input. dt is the frame time in seconds. Nil
// targets are skipped.
func (c *Controls) Apply(in *input.State, dt float32, t Targets) Actions {
	var act Actions
	if in.Quit || in.Pressed(input.KeyEscape) {
		act.Quit = true
	}
	if in.Pressed(input.KeyF12) {
		act.Screenshot = true
	}

	c.applyToggles(in)

	if t.Camera != nil {
		c.applyCamera(in, dt, t.Camera)
	}
	if t.Light != nil && in.Pressed(input.KeyL) {
		t.Light.Toggle()
		logger.Debug("light orbit toggled", zap.Bool("enabled", t.Light.Orbit.Enabled))
	}
	if t.Scene != nil {
		c.applyScene(in, dt, t.Scene)
		if t.Camera != nil {
			if in.Clicked {
				pick(t.Camera, t.Scene)
			}
			if in.Pressed(input.KeyF) {
				frame(t.Camera, t.Scene.Selected())
			}
		}
	}
	return act
}

func (c *Controls) applyToggles(in *input.State) {
	for i, k := range [3]input.Key{input.KeyX, input.KeyY, input.KeyZ} {
		if in.Pressed(k) {
			c.spin[i] = !c.spin[i]
		}
	}
	if in.Pressed(input.KeyP) {
		c.SpinSpeed += c.SpinStep
	}
	if in.Pressed(input.KeyO) {
		c.SpinSpeed -= c.SpinStep
		if c.SpinSpeed < 0 {
			c.SpinSpeed = 0
		}
	}
}

func (c *Controls) applyCamera(in *input.State, dt float32, cam *camera.FlyCamera) {
	forward := in.Axis(input.KeyS, input.KeyW)
	right := in.Axis(input.KeyA, input.KeyD)
	if forward != 0 || right != 0 {
		cam.Move(forward, right, dt)
	}
	for i, k := range presetKeys {
		if in.Pressed(k) {
			cam.ApplyPreset(camera.Preset(i))
		}
	}
	if in.MouseMoved {
		cam.Look(in.MouseX, in.MouseY)
	}
	if in.Scroll != 0 {
		cam.Zoom(in.Scroll * c.ZoomStep)
	}
}

func (c *Controls) applyScene(in *input.State, dt float32, sc *scene.Controller) {
	switch {
	case in.Pressed(input.KeyTab) && in.Shift, in.Pressed(input.KeyB):
		sc.SelectPrevious()
	case in.Pressed(input.KeyTab), in.Pressed(input.KeyN):
		sc.SelectNext()
	}

	move := mgl32.Vec3{
		in.Axis(input.KeyLeft, input.KeyRight),
		in.Axis(input.KeyDown, input.KeyUp),
		in.Axis(input.KeyPageDown, input.KeyPageUp),
	}
	if move != (mgl32.Vec3{}) {
		sc.ApplyDelta(scene.FieldPosition, move.Mul(c.TranslateSpeed*dt))
	}

	if s := in.Axis(input.KeyMinus, input.KeyEquals); s != 0 {
		d := s * c.ScaleSpeed * dt
		sc.ApplyDelta(scene.FieldScale, mgl32.Vec3{d, d, d})
	}

	if axis := c.SpinAxis(); axis != (mgl32.Vec3{}) {
		sc.SetAxis(axis)
		sc.ApplyDelta(scene.FieldAngle, mgl32.Vec3{c.SpinSpeed * dt, 0, 0})
	}
}

// pick selects the nearest mesh under the crosshair. A miss keeps the selection.
func pick(cam *camera.FlyCamera, sc *scene.Controller) {
	i := picking.Pick(picking.NewRay(cam.Position, cam.Front), sc.Meshes())
	if i >= 0 && sc.Select(i) {
		logger.Debug("mesh picked", zap.Int("index", i), zap.String("name", sc.Selected().Name))
	}
}

// frame moves the camera to face m's world bounds.
func frame(cam *camera.FlyCamera, m *scene.Mesh) {
	if m == nil || !m.Handle().Valid() {
		return
	}
	b := picking.TransformBounds(m.Handle().Bounds, m.Model())
	cam.Frame(b.Center(), b.Size())
}
