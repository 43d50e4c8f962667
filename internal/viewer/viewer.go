// Package viewer implements the frame loop that ties the window, scene and
// controls together.
package viewer

import (
	"fmt"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/hello3d/internal/assets"
	"github.com/Faultbox/hello3d/internal/config"
	"github.com/Faultbox/hello3d/internal/controls"
	"github.com/Faultbox/hello3d/internal/engine/camera"
	"github.com/Faultbox/hello3d/internal/engine/debug"
	"github.com/Faultbox/hello3d/internal/engine/input"
	"github.com/Faultbox/hello3d/internal/engine/lighting"
	"github.com/Faultbox/hello3d/internal/engine/renderer"
	"github.com/Faultbox/hello3d/internal/engine/scene"
	"github.com/Faultbox/hello3d/internal/engine/shader"
	"github.com/Faultbox/hello3d/internal/engine/window"
	"github.com/Faultbox/hello3d/internal/logger"
)

// maxFrameTime caps dt so a stall does not teleport the camera.
const maxFrameTime = 0.25

// Viewer is the running application.
type Viewer struct {
	config  *config.Config
	running bool

	window   *window.Window
	renderer *renderer.Renderer
	program  *shader.Program
	watcher  *shader.Watcher

	input    *input.State
	camera   *camera.FlyCamera
	light    *lighting.Light
	controls *controls.Controls
	scene    *scene.Controller
	assets   *assets.Manager

	selection   *debug.SelectionBox
	screenshots *debug.ScreenshotCapture
}

// New opens the window, compiles the shaders and loads every configured
// model. Models that fail to load are logged and skipped.
func New(cfg *config.Config) (*Viewer, error) {
	logger.Info("initializing viewer",
		zap.String("title", cfg.Window.Title),
		zap.Int("width", cfg.Window.Width),
		zap.Int("height", cfg.Window.Height),
		zap.Int("models", len(cfg.Scene.Models)),
	)

	v := &Viewer{config: cfg}

	var err error
	v.window, err = window.New(window.Config{
		Title:        cfg.Window.Title,
		Width:        cfg.Window.Width,
		Height:       cfg.Window.Height,
		Fullscreen:   cfg.Window.Fullscreen,
		VSync:        cfg.Window.VSync,
		CaptureMouse: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	// The context must exist before the renderer loads GL functions.
	width, height := v.window.DrawableSize()
	v.renderer, err = renderer.New(renderer.Config{
		Width:      width,
		Height:     height,
		Background: cfg.Scene.Background,
	})
	if err != nil {
		v.window.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	v.program, err = shader.Load(v.renderer, cfg.Shaders.Vertex, cfg.Shaders.Fragment)
	if err != nil {
		v.Close()
		return nil, fmt.Errorf("failed to load shaders: %w", err)
	}
	if cfg.Shaders.Watch {
		v.startWatcher()
	}

	v.input = input.NewState()
	v.camera = newCamera(cfg.Camera)
	v.light = newLight(cfg.Light)
	v.controls = controls.New(controlSettings(cfg.Scene))
	v.selection = debug.NewSelectionBox(v.renderer, mgl32.Vec3{1, 0.5, 0})
	v.screenshots = debug.NewScreenshotCapture(cfg.Screenshots.Dir, "hello3d")

	v.scene = scene.NewController()
	v.assets = assets.NewManager(v.renderer, v.program, cfg.Scene.DrawPoints)
	loaded := v.assets.LoadScene(cfg.Scene.Models, v.scene)
	logger.Info("scene loaded",
		zap.Int("loaded", loaded),
		zap.Int("failed", len(cfg.Scene.Models)-loaded),
	)

	return v, nil
}

func (v *Viewer) startWatcher() {
	if len(v.program.Paths()) == 0 {
		logger.Warn("shader watching requested but the built-in shaders are in use")
		return
	}
	w, err := shader.NewWatcher()
	if err != nil {
		logger.Warn("shader watcher unavailable", zap.Error(err))
		return
	}
	if err := w.Add(v.program); err != nil {
		logger.Warn("failed to watch shaders", zap.Error(err))
		w.Close()
		return
	}
	v.watcher = w
	logger.Info("watching shaders", zap.Strings("paths", v.program.Paths()))
}

func newCamera(cfg config.CameraConfig) *camera.FlyCamera {
	c := camera.NewFlyCamera()
	c.Position = cfg.Position
	c.Fov = cfg.Fov
	c.MoveSpeed = cfg.MoveSpeed
	c.Sensitivity = cfg.Sensitivity
	c.Near = cfg.Near
	c.Far = cfg.Far
	return c
}

func newLight(cfg config.LightConfig) *lighting.Light {
	l := lighting.New(cfg.Position)
	l.Color = cfg.Color
	l.Orbit.Center = cfg.Orbit.Center
	l.Orbit.Radius = cfg.Orbit.Radius
	l.Orbit.Height = cfg.Orbit.Height
	l.Orbit.Speed = cfg.Orbit.Speed
	if cfg.Orbit.Enabled {
		l.Toggle()
	}
	return l
}

func controlSettings(cfg config.SceneConfig) controls.Settings {
	s := controls.DefaultSettings()
	s.SpinSpeed = cfg.SpinSpeed
	return s
}

// Run runs the frame loop until quit is requested.
func (v *Viewer) Run() error {
	v.running = true

	// Timing
	lastTime := time.Now()
	frameCount := 0
	fpsTimer := time.Now()

	logger.Info("starting frame loop")

	for v.running {
		// Calculate delta time
		now := time.Now()
		dt := float32(now.Sub(lastTime).Seconds())
		lastTime = now
		if dt > maxFrameTime {
			dt = maxFrameTime
		}

		// 1. Process input
		v.window.PollInput(v.input)
		act := v.controls.Apply(v.input, dt, controls.Targets{
			Camera: v.camera,
			Scene:  v.scene,
			Light:  v.light,
		})
		if act.Quit {
			v.running = false
			break
		}
		if v.input.Resized {
			v.renderer.Resize(v.input.Width, v.input.Height)
		}

		// 2. Update state
		v.light.Update(dt)
		if v.watcher != nil {
			v.watcher.ReloadChanged()
		}
		v.scene.UpdateAll()

		// 3. Render
		v.render()

		if act.Screenshot {
			v.screenshot()
		}

		// 4. Present (swap buffers)
		v.window.SwapBuffers()

		// FPS counter
		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			logger.Debug("fps",
				zap.Int("count", frameCount),
				zap.String("dt", fmt.Sprintf("%.2fms", dt*1000)),
			)
			frameCount = 0
			fpsTimer = time.Now()
		}
	}

	return nil
}

func (v *Viewer) render() {
	v.renderer.Begin()

	v.program.Use()
	prog := v.program.ID()
	v.renderer.SetMat4(prog, shader.UniformView, v.camera.ViewMatrix())
	v.renderer.SetMat4(prog, shader.UniformProjection, v.camera.ProjectionMatrix(v.renderer.Aspect()))
	v.light.Apply(v.renderer, prog, v.camera.Position)

	v.scene.DrawAll()
	if v.scene.Len() > 1 {
		v.selection.Draw(prog, v.scene.Selected())
	}

	v.renderer.End()
}

func (v *Viewer) screenshot() {
	pixels, width, height := v.renderer.ReadPixels()
	path, err := v.screenshots.CaptureFromPixels(pixels, width, height)
	if err != nil {
		logger.Error("screenshot failed", zap.Error(err))
		return
	}
	logger.Info("screenshot saved", zap.String("path", path))
}

// Close releases everything New acquired. It is safe on a partly built viewer.
func (v *Viewer) Close() {
	logger.Info("closing viewer")

	if v.watcher != nil {
		v.watcher.Close()
	}
	if v.scene != nil {
		v.scene.Destroy()
	}
	if v.assets != nil {
		v.assets.Close()
	}
	if v.selection != nil {
		v.selection.Destroy()
	}
	if v.program != nil {
		v.program.Delete()
	}
	if v.renderer != nil {
		v.renderer.Close()
	}
	if v.window != nil {
		v.window.Close()
	}
}
