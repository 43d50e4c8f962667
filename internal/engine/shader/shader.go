// Package shader loads GLSL programs from disk or from the embedded defaults
// and swaps them in place on reload.
package shader

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/Faultbox/hello3d/internal/engine/gpu"
	"github.com/Faultbox/hello3d/internal/engine/shader/shaders"
	"github.com/Faultbox/hello3d/internal/logger"
)

// Uniform names shared by the mesh, light and frame code.
const (
	UniformModel      = "model"
	UniformView       = "view"
	UniformProjection = "projection"
	UniformTint       = "tintColor"

	UniformLightPos   = "lightPos"
	UniformLightColor = "lightColor"
	UniformCamPos     = "camPos"

	UniformMatAmbient   = "matAmbient"
	UniformMatDiffuse   = "matDiffuse"
	UniformMatSpecular  = "matSpecular"
	UniformMatShininess = "matShininess"

	UniformUseTexture    = "useTexture"
	UniformUseLighting   = "useLighting"
	UniformDrawingPoints = "drawingPoints"
	UniformDiffuseMap    = "diffuseMap"
)

// Program is a linked vertex+fragment program. Empty paths select the
// embedded Phong sources.
type Program struct {
	dev      gpu.Device
	id       uint32
	vertPath string
	fragPath string
}

// Load reads and compiles a program. Either path may be empty to use the
// embedded default for that stage.
func Load(dev gpu.Device, vertPath, fragPath string) (*Program, error) {
	p := &Program{dev: dev, vertPath: vertPath, fragPath: fragPath}
	id, err := p.compile()
	if err != nil {
		return nil, err
	}
	p.id = id
	logger.Debug("shader program loaded",
		zap.Uint32("program", id),
		zap.String("vertex", describe(vertPath)),
		zap.String("fragment", describe(fragPath)),
	)
	return p, nil
}

// ID returns the current GL program name.
func (p *Program) ID() uint32 {
	return p.id
}

// Use binds the program.
func (p *Program) Use() {
	p.dev.UseProgram(p.id)
}

// Paths returns the on-disk sources of the program, skipping embedded stages.
func (p *Program) Paths() []string {
	var paths []string
	if p.vertPath != "" {
		paths = append(paths, p.vertPath)
	}
	if p.fragPath != "" {
		paths = append(paths, p.fragPath)
	}
	return paths
}

// Reload recompiles from the same sources. On failure the current program is
// kept and the error returned.
func (p *Program) Reload() error {
	id, err := p.compile()
	if err != nil {
		return err
	}
	old := p.id
	p.id = id
	if old != 0 {
		p.dev.DeleteProgram(old)
	}
	logger.Info("shader program reloaded", zap.Uint32("old", old), zap.Uint32("new", id))
	return nil
}

// Delete releases the program.
func (p *Program) Delete() {
	if p.id != 0 {
		p.dev.DeleteProgram(p.id)
		p.id = 0
	}
}

func (p *Program) compile() (uint32, error) {
	vert, err := source(p.vertPath, shaders.PhongVertexShader)
	if err != nil {
		return 0, err
	}
	frag, err := source(p.fragPath, shaders.PhongFragmentShader)
	if err != nil {
		return 0, err
	}
	id, err := p.dev.CompileProgram(vert, frag)
	if err != nil {
		return 0, fmt.Errorf("compiling %s + %s: %w", describe(p.vertPath), describe(p.fragPath), err)
	}
	return id, nil
}

func describe(path string) string {
	if path == "" {
		return "<embedded>"
	}
	return path
}

func source(path, fallback string) (string, error) {
	if path == "" {
		return fallback, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading shader: %w", err)
	}
	return string(data), nil
}
