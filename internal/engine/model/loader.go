package model

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/hello3d/internal/engine/gpu"
	"github.com/Faultbox/hello3d/internal/logger"
	"github.com/Faultbox/hello3d/pkg/formats"
)

// ErrFileNotFound is returned by Load when the OBJ file does not exist.
var ErrFileNotFound = errors.New("model file not found")

// Kind classifies a Load failure.
type Kind int

// Load failure kinds.
const (
	KindNone Kind = iota
	KindFileNotFound
	KindEmptyGeometry
	KindParse
	KindUnknown
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindFileNotFound:
		return "file not found"
	case KindEmptyGeometry:
		return "empty geometry"
	case KindParse:
		return "parse error"
	default:
		return "unknown"
	}
}

// KindOf classifies an error returned by Load.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrFileNotFound):
		return KindFileNotFound
	case errors.Is(err, ErrEmptyGeometry):
		return KindEmptyGeometry
	case errors.Is(err, formats.ErrMalformedOBJ), errors.Is(err, formats.ErrLineTooLong):
		return KindParse
	default:
		return KindUnknown
	}
}

// Material is the surface description resolved from an OBJ's material library.
type Material struct {
	Name        string
	Ambient     mgl32.Vec3
	Diffuse     mgl32.Vec3
	Specular    mgl32.Vec3
	Shininess   float32
	TexturePath string // Absolute or relative to the working directory; empty if none
}

// Handle refers to geometry that lives on the GPU.
type Handle struct {
	VAO         uint32
	VBO         uint32
	VertexCount int32
	Layout      Layout
	Bounds      Bounds
	Material    *Material // nil when the OBJ names no usable material
}

// InvalidHandle is returned by Load on failure.
var InvalidHandle = Handle{}

// Valid reports whether the handle refers to uploaded geometry.
func (h Handle) Valid() bool {
	return h.VAO != 0 && h.VertexCount > 0
}

// Release deletes the GPU objects. The handle must not be drawn afterwards.
func (h *Handle) Release(dev gpu.Device) {
	if h.VAO != 0 {
		dev.DeleteVertexArray(h.VAO)
	}
	if h.VBO != 0 {
		dev.DeleteBuffer(h.VBO)
	}
	*h = InvalidHandle
}

// LoadOptions controls Load.
type LoadOptions struct {
	Build BuildOptions
	OBJ   formats.OBJOptions
	// SkipMaterial disables mtllib resolution.
	SkipMaterial bool
}

// Upload creates the vertex buffer and vertex array for g.
func Upload(dev gpu.Device, g *Geometry) Handle {
	vbo := dev.CreateVertexBuffer(g.Data)
	vao := dev.CreateVertexArray(vbo, g.Layout.StrideBytes(), g.Layout.Attributes())
	return Handle{
		VAO:         vao,
		VBO:         vbo,
		VertexCount: int32(g.VertexCount),
		Layout:      g.Layout,
		Bounds:      g.Bounds,
	}
}

// LoadGeometry parses and expands an OBJ file without touching the GPU.
func LoadGeometry(path string, opts LoadOptions) (*formats.OBJ, *Geometry, error) {
	obj, err := formats.LoadOBJ(path, opts.OBJ)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil, fmt.Errorf("%s: %w", path, ErrFileNotFound)
		}
		return nil, nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	for _, w := range obj.Warnings {
		logger.Warn("skipped OBJ line", zap.String("path", path), zap.String("reason", w))
	}

	geom, err := Build(obj, opts.Build)
	if err != nil {
		return nil, nil, fmt.Errorf("building %s: %w", path, err)
	}
	return obj, geom, nil
}

// Load parses path, uploads the geometry and returns its handle. On failure it
// returns InvalidHandle and an error classified by KindOf; the device is not touched.
func Load(dev gpu.Device, path string, opts LoadOptions) (Handle, error) {
	obj, geom, err := LoadGeometry(path, opts)
	if err != nil {
		return InvalidHandle, err
	}

	h := Upload(dev, geom)
	if !opts.SkipMaterial && obj.MaterialLib != "" {
		mat, err := resolveMaterial(path, obj)
		if err != nil {
			logger.Warn("material library unavailable",
				zap.String("path", path),
				zap.String("mtllib", obj.MaterialLib),
				zap.Error(err),
			)
		}
		h.Material = mat
	}

	logger.Info("model loaded",
		zap.String("path", path),
		zap.String("layout", h.Layout.String()),
		zap.Int32("vertices", h.VertexCount),
		zap.Int("faces", len(obj.Faces)),
		zap.Uint32("vao", h.VAO),
	)
	return h, nil
}

// resolveMaterial loads the OBJ's mtllib (relative to the OBJ) and picks the
// usemtl material, or the first one when usemtl is absent or unknown.
func resolveMaterial(objPath string, obj *formats.OBJ) (*Material, error) {
	dir := filepath.Dir(objPath)
	mtlPath := filepath.Join(dir, obj.MaterialLib)

	lib, err := formats.LoadMTL(mtlPath)
	if err != nil {
		return nil, err
	}
	src := lib.Get(obj.Material)
	if src == nil {
		if len(lib.Materials) == 0 {
			return nil, fmt.Errorf("%s: no materials", mtlPath)
		}
		src = lib.Materials[0]
	}

	mat := &Material{
		Name:      src.Name,
		Ambient:   mgl32.Vec3(src.Ambient),
		Diffuse:   mgl32.Vec3(src.Diffuse),
		Specular:  mgl32.Vec3(src.Specular),
		Shininess: src.Shininess,
	}
	if src.DiffuseMap != "" {
		mat.TexturePath = filepath.Join(filepath.Dir(mtlPath), src.DiffuseMap)
	}
	return mat, nil
}
