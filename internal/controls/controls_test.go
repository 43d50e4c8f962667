package controls

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/hello3d/internal/engine/camera"
	"github.com/Faultbox/hello3d/internal/engine/gpu/gputest"
	"github.com/Faultbox/hello3d/internal/engine/input"
	"github.com/Faultbox/hello3d/internal/engine/lighting"
	"github.com/Faultbox/hello3d/internal/engine/model"
	"github.com/Faultbox/hello3d/internal/engine/scene"
)

const eps = 1e-4

type noProgram struct{}

func (noProgram) ID() uint32 { return 0 }

func newTargets(n int) Targets {
	sc := scene.NewController()
	for i := 0; i < n; i++ {
		sc.Add(scene.NewMesh(gputest.New(), model.InvalidHandle, noProgram{}, scene.DefaultConfig()))
	}
	return Targets{
		Camera: camera.NewFlyCamera(),
		Scene:  sc,
		Light:  lighting.New(mgl32.Vec3{0, 2, 2}),
	}
}

// press returns a state with keys freshly pressed this frame.
func press(keys ...input.Key) *input.State {
	s := input.NewState()
	for _, k := range keys {
		s.KeyDown(k, false)
	}
	return s
}

func TestQuitAndScreenshot(t *testing.T) {
	c := New(DefaultSettings())
	tg := newTargets(1)

	if act := c.Apply(press(input.KeyEscape), 0.016, tg); !act.Quit {
		t.Error("Escape should request quit")
	}
	s := input.NewState()
	s.Quit = true
	if act := c.Apply(s, 0.016, tg); !act.Quit {
		t.Error("window close should request quit")
	}
	if act := c.Apply(press(input.KeyF12), 0.016, tg); !act.Screenshot || act.Quit {
		t.Errorf("F12 actions = %+v", act)
	}
}

func TestSpinToggles(t *testing.T) {
	c := New(DefaultSettings())
	tg := newTargets(1)

	c.Apply(press(input.KeyX, input.KeyZ), 0, tg)
	if x, y, z := c.Spin(); !x || y || !z {
		t.Errorf("spin = %v %v %v", x, y, z)
	}
	if c.SpinAxis() != (mgl32.Vec3{1, 0, 1}) {
		t.Errorf("axis = %v", c.SpinAxis())
	}

	c.Apply(press(input.KeyX), 0, tg)
	if c.SpinAxis() != (mgl32.Vec3{0, 0, 1}) {
		t.Errorf("axis after untoggle = %v", c.SpinAxis())
	}
}

func TestSpinAdvancesSelected(t *testing.T) {
	c := New(DefaultSettings())
	c.SpinSpeed = 90
	tg := newTargets(2)
	tg.Scene.Select(1)

	c.Apply(press(input.KeyY), 0.5, tg)
	m := tg.Scene.Selected()
	if m.Axis != (mgl32.Vec3{0, 1, 0}) {
		t.Errorf("axis = %v", m.Axis)
	}
	if !mgl32.FloatEqualThreshold(m.Angle, 45, eps) {
		t.Errorf("angle = %v, want 45", m.Angle)
	}
	if tg.Scene.Meshes()[0].Angle != 0 {
		t.Error("unselected mesh rotated")
	}

	// No toggle on: nothing spins.
	c.Apply(press(input.KeyY), 0.5, tg)
	c.Apply(input.NewState(), 10, tg)
	if !mgl32.FloatEqualThreshold(m.Angle, 45, eps) {
		t.Errorf("angle changed with spin off: %v", m.Angle)
	}
}

func TestSpinSpeedKeys(t *testing.T) {
	c := New(Settings{SpinSpeed: 20, SpinStep: 15})
	tg := newTargets(0)
	c.Apply(press(input.KeyP), 0, tg)
	if c.SpinSpeed != 35 {
		t.Errorf("speed = %v, want 35", c.SpinSpeed)
	}
	c.Apply(press(input.KeyO), 0, tg)
	c.Apply(press(input.KeyO), 0, tg)
	c.Apply(press(input.KeyO), 0, tg)
	if c.SpinSpeed != 0 {
		t.Errorf("speed = %v, want clamped to 0", c.SpinSpeed)
	}
}

func TestSelectionKeys(t *testing.T) {
	c := New(DefaultSettings())
	tg := newTargets(3)

	c.Apply(press(input.KeyTab), 0, tg)
	if tg.Scene.SelectedIndex() != 1 {
		t.Errorf("Tab: %d", tg.Scene.SelectedIndex())
	}
	s := press(input.KeyTab)
	s.Shift = true
	c.Apply(s, 0, tg)
	if tg.Scene.SelectedIndex() != 0 {
		t.Errorf("Shift+Tab: %d", tg.Scene.SelectedIndex())
	}
	c.Apply(press(input.KeyB), 0, tg)
	if tg.Scene.SelectedIndex() != 2 {
		t.Errorf("B: %d", tg.Scene.SelectedIndex())
	}
	c.Apply(press(input.KeyN), 0, tg)
	if tg.Scene.SelectedIndex() != 0 {
		t.Errorf("N: %d", tg.Scene.SelectedIndex())
	}
}

func TestTranslateAndScale(t *testing.T) {
	c := New(Settings{TranslateSpeed: 2, ScaleSpeed: 1})
	tg := newTargets(1)

	c.Apply(press(input.KeyRight, input.KeyUp, input.KeyPageDown), 0.5, tg)
	m := tg.Scene.Selected()
	if !m.Position.ApproxEqualThreshold(mgl32.Vec3{1, 1, -1}, eps) {
		t.Errorf("position = %v", m.Position)
	}

	c.Apply(press(input.KeyEquals), 0.5, tg)
	if !m.Scale.ApproxEqualThreshold(mgl32.Vec3{1.5, 1.5, 1.5}, eps) {
		t.Errorf("scale = %v", m.Scale)
	}
	c.Apply(press(input.KeyMinus), 10, tg)
	if m.Scale != (mgl32.Vec3{scene.MinScale, scene.MinScale, scene.MinScale}) {
		t.Errorf("scale = %v, want clamped", m.Scale)
	}
}

func TestCameraInput(t *testing.T) {
	c := New(DefaultSettings())
	tg := newTargets(0)
	cam := tg.Camera
	cam.MoveSpeed = 1

	c.Apply(press(input.KeyW), 1, tg)
	if !cam.Position.ApproxEqualThreshold(mgl32.Vec3{0, 0, 2}, eps) {
		t.Errorf("W: position = %v", cam.Position)
	}

	c.Apply(press(input.Key3), 0, tg)
	if cam.Position != (mgl32.Vec3{3, 0, 0}) {
		t.Errorf("preset 3: position = %v", cam.Position)
	}

	s := input.NewState()
	s.Wheel(2)
	c.Apply(s, 0, tg)
	if cam.Fov != 43 {
		t.Errorf("fov = %v, want 43", cam.Fov)
	}

	// First motion sample is only the baseline.
	s = input.NewState()
	s.Motion(10, 0)
	yaw := cam.Yaw
	c.Apply(s, 0, tg)
	if cam.Yaw != yaw {
		t.Error("first mouse sample moved the camera")
	}
	s.BeginFrame()
	s.Motion(20, 0)
	c.Apply(s, 0, tg)
	if !mgl32.FloatEqualThreshold(cam.Yaw, yaw+1, eps) {
		t.Errorf("yaw = %v, want %v", cam.Yaw, yaw+1)
	}
}

func TestLightToggle(t *testing.T) {
	c := New(DefaultSettings())
	tg := newTargets(0)
	c.Apply(press(input.KeyL), 0, tg)
	if !tg.Light.Orbit.Enabled {
		t.Error("L should enable the orbit")
	}
}

func TestNilTargets(t *testing.T) {
	c := New(DefaultSettings())
	c.Apply(press(input.KeyW, input.KeyL, input.KeyTab, input.KeyX), 1, Targets{})
}

func TestClickPicksUnderCrosshair(t *testing.T) {
	dev := gputest.New()
	sc := scene.NewController()
	for _, z := range []float32{-5, 0} {
		h := model.Upload(dev, &model.Geometry{
			Data:        make([]float32, 3*model.LayoutPosColor.Stride()),
			Layout:      model.LayoutPosColor,
			VertexCount: 3,
			Bounds:      model.Bounds{Min: mgl32.Vec3{-0.5, -0.5, -0.5}, Max: mgl32.Vec3{0.5, 0.5, 0.5}},
		})
		cfg := scene.DefaultConfig()
		cfg.Position = mgl32.Vec3{0, 0, z}
		sc.Add(scene.NewMesh(dev, h, noProgram{}, cfg))
	}
	sc.UpdateAll()

	// The default camera sits at +Z looking down -Z.
	tg := Targets{Camera: camera.NewFlyCamera(), Scene: sc}
	s := input.NewState()
	s.Click()
	New(DefaultSettings()).Apply(s, 0.016, tg)
	if sc.SelectedIndex() != 1 {
		t.Errorf("selected = %d, want the nearer mesh 1", sc.SelectedIndex())
	}

	tg.Camera.Position = mgl32.Vec3{10, 0, 3}
	New(DefaultSettings()).Apply(s, 0.016, tg)
	if sc.SelectedIndex() != 1 {
		t.Error("a miss should keep the selection")
	}
}

func TestFrameSelected(t *testing.T) {
	dev := gputest.New()
	h := model.Upload(dev, &model.Geometry{
		Data:        make([]float32, 3*model.LayoutPosColor.Stride()),
		Layout:      model.LayoutPosColor,
		VertexCount: 3,
		Bounds:      model.Bounds{Min: mgl32.Vec3{-1, -1, -1}, Max: mgl32.Vec3{1, 1, 1}},
	})
	cfg := scene.DefaultConfig()
	cfg.Position = mgl32.Vec3{4, 0, 0}
	sc := scene.NewController()
	sc.Add(scene.NewMesh(dev, h, noProgram{}, cfg))
	sc.UpdateAll()

	cam := camera.NewFlyCamera()
	cam.ApplyPreset(camera.PresetTop)
	front := cam.Front
	New(DefaultSettings()).Apply(press(input.KeyF), 0.016, Targets{Camera: cam, Scene: sc})

	if cam.Front != front {
		t.Errorf("front = %v, want the top view %v kept", cam.Front, front)
	}
	if cam.Position.Y() <= 1 {
		t.Errorf("camera at %v, want above the mesh", cam.Position)
	}
	dir := mgl32.Vec3{4, 0, 0}.Sub(cam.Position).Normalize()
	if !dir.ApproxEqualThreshold(front, eps) {
		t.Errorf("mesh center not along the view: %v vs %v", dir, front)
	}
}
