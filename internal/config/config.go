// Package config handles viewer configuration loading and management.
package config

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"gopkg.in/yaml.v3"
)

// ErrInvalid is wrapped by Validate errors.
var ErrInvalid = errors.New("invalid config")

// Config holds all viewer settings.
type Config struct {
	Window      WindowConfig     `yaml:"window"`
	Camera      CameraConfig     `yaml:"camera"`
	Light       LightConfig      `yaml:"light"`
	Shaders     ShaderConfig     `yaml:"shaders"`
	Scene       SceneConfig      `yaml:"scene"`
	Logging     LoggingConfig    `yaml:"logging"`
	Screenshots ScreenshotConfig `yaml:"screenshots"`

	// OpenDialog asks for models with a file dialog before the window opens.
	OpenDialog bool `yaml:"-"`
	// WriteConfig, when set, names a file to save the merged config to
	// instead of starting the viewer.
	WriteConfig string `yaml:"-"`
}

// WindowConfig holds display settings.
type WindowConfig struct {
	Title      string `yaml:"title"`
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	Fullscreen bool   `yaml:"fullscreen"`
	VSync      bool   `yaml:"vsync"`
}

// CameraConfig holds the initial fly camera.
type CameraConfig struct {
	Position    mgl32.Vec3 `yaml:"position,flow"`
	Fov         float32    `yaml:"fov"`
	MoveSpeed   float32    `yaml:"move_speed"`
	Sensitivity float32    `yaml:"sensitivity"`
	Near        float32    `yaml:"near"`
	Far         float32    `yaml:"far"`
}

// LightConfig holds the point light.
type LightConfig struct {
	Position mgl32.Vec3  `yaml:"position,flow"`
	Color    mgl32.Vec3  `yaml:"color,flow"`
	Orbit    OrbitConfig `yaml:"orbit"`
}

// OrbitConfig holds the light's orbit around a vertical axis.
type OrbitConfig struct {
	Enabled bool       `yaml:"enabled"`
	Center  mgl32.Vec3 `yaml:"center,flow"`
	Radius  float32    `yaml:"radius"`
	Height  float32    `yaml:"height"`
	Speed   float32    `yaml:"speed"` // Degrees per second
}

// ShaderConfig selects shader sources. Empty paths use the built-in Phong shaders.
type ShaderConfig struct {
	Vertex   string `yaml:"vertex"`
	Fragment string `yaml:"fragment"`
	Watch    bool   `yaml:"watch"`
}

// SceneConfig holds the objects to load and global draw settings.
type SceneConfig struct {
	DrawPoints bool          `yaml:"draw_points"`
	SpinSpeed  float32       `yaml:"spin_speed"` // Degrees per second
	Background mgl32.Vec3    `yaml:"background,flow"`
	Models     []ModelConfig `yaml:"models"`
}

// ModelConfig places one OBJ file in the scene.
type ModelConfig struct {
	Path     string     `yaml:"path"`
	Position mgl32.Vec3 `yaml:"position,flow"`
	Scale    mgl32.Vec3 `yaml:"scale,flow"`
	Axis     mgl32.Vec3 `yaml:"axis,flow"`
	Angle    float32    `yaml:"angle"`
	Color    mgl32.Vec3 `yaml:"color,flow"`

	// VertexColor overrides the per-vertex color baked into the buffer.
	VertexColor *mgl32.Vec3 `yaml:"vertex_color,omitempty,flow"`
	// Texture overrides the material's diffuse map.
	Texture string `yaml:"texture,omitempty"`
}

// DefaultModel returns the placement used for fields a model entry omits.
func DefaultModel(path string) ModelConfig {
	return ModelConfig{
		Path:  path,
		Scale: mgl32.Vec3{1, 1, 1},
		Axis:  mgl32.Vec3{0, 0, 1},
		Color: mgl32.Vec3{0, 0, 1},
	}
}

// UnmarshalYAML fills omitted fields from DefaultModel. A bare string is
// accepted as the path.
func (m *ModelConfig) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		*m = DefaultModel(node.Value)
		return nil
	}
	type plain ModelConfig
	*m = DefaultModel("")
	return node.Decode((*plain)(m))
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// ScreenshotConfig holds the F12 output location.
type ScreenshotConfig struct {
	Dir string `yaml:"dir"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Title:  "Hello3D",
			Width:  1000,
			Height: 1000,
			VSync:  true,
		},
		Camera: CameraConfig{
			Position:    mgl32.Vec3{0, 0, 3},
			Fov:         45,
			MoveSpeed:   2.5,
			Sensitivity: 0.05,
			Near:        0.1,
			Far:         100,
		},
		Light: LightConfig{
			Position: mgl32.Vec3{2, 2, 2},
			Color:    mgl32.Vec3{1, 1, 1},
			Orbit: OrbitConfig{
				Radius: 3,
				Height: 2,
				Speed:  45,
			},
		},
		Scene: SceneConfig{
			SpinSpeed:  90,
			Background: mgl32.Vec3{1, 1, 1},
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Screenshots: ScreenshotConfig{
			Dir: "screenshots",
		},
	}
}

// Validate checks values the viewer cannot work with.
func (c *Config) Validate() error {
	switch {
	case c.Window.Width <= 0 || c.Window.Height <= 0:
		return fmt.Errorf("%w: window size %dx%d", ErrInvalid, c.Window.Width, c.Window.Height)
	case c.Camera.Fov < 1 || c.Camera.Fov > 90:
		return fmt.Errorf("%w: camera fov %v outside [1, 90]", ErrInvalid, c.Camera.Fov)
	case c.Camera.Near <= 0 || c.Camera.Far <= c.Camera.Near:
		return fmt.Errorf("%w: camera clip range %v..%v", ErrInvalid, c.Camera.Near, c.Camera.Far)
	case c.Scene.SpinSpeed < 0:
		return fmt.Errorf("%w: negative spin speed", ErrInvalid)
	}
	for i, m := range c.Scene.Models {
		if m.Path == "" {
			return fmt.Errorf("%w: model %d has no path", ErrInvalid, i)
		}
	}
	return nil
}

// AddModels appends default placements for paths, skipping empty strings.
func (c *Config) AddModels(paths ...string) {
	for _, p := range paths {
		if p != "" {
			c.Scene.Models = append(c.Scene.Models, DefaultModel(p))
		}
	}
}
