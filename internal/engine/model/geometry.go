package model

import (
	"errors"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/hello3d/pkg/formats"
)

// ErrEmptyGeometry is returned when an OBJ yields no triangles.
var ErrEmptyGeometry = errors.New("geometry has no faces")

// DefaultVertexColor is written into every vertex unless BuildOptions.Color is set.
// White keeps the per-object tint in full control of the final color.
var DefaultVertexColor = mgl32.Vec3{1, 1, 1}

// LayoutMode decides which optional attributes Build emits.
type LayoutMode int

// Layout modes.
const (
	// LayoutAuto includes texcoords/normals when any face corner references them.
	LayoutAuto LayoutMode = iota
	// LayoutExplicit uses BuildOptions.Layout as given.
	LayoutExplicit
)

// BuildOptions controls buffer expansion.
type BuildOptions struct {
	Mode   LayoutMode
	Layout Layout      // Used with LayoutExplicit
	Color  *mgl32.Vec3 // Per-vertex color; nil means DefaultVertexColor
}

// Bounds is an axis-aligned bounding box.
type Bounds struct {
	Min mgl32.Vec3
	Max mgl32.Vec3
}

// Center returns the box midpoint.
func (b Bounds) Center() mgl32.Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

// Size returns the box extent per axis.
func (b Bounds) Size() mgl32.Vec3 {
	return b.Max.Sub(b.Min)
}

func (b *Bounds) extend(p mgl32.Vec3) {
	for i := 0; i < 3; i++ {
		if p[i] < b.Min[i] {
			b.Min[i] = p[i]
		}
		if p[i] > b.Max[i] {
			b.Max[i] = p[i]
		}
	}
}

// Geometry is a host-side interleaved vertex buffer.
// Invariant: Layout.Stride() * VertexCount == len(Data).
type Geometry struct {
	Data        []float32
	Layout      Layout
	VertexCount int
	Bounds      Bounds
}

// Build expands every face corner of obj into the interleaved buffer. Shared
// vertices are duplicated per corner; there is no index buffer.
func Build(obj *formats.OBJ, opts BuildOptions) (*Geometry, error) {
	if len(obj.Faces) == 0 {
		return nil, ErrEmptyGeometry
	}

	layout := opts.Layout
	if opts.Mode == LayoutAuto {
		layout = Layout{TexCoord: obj.UsesTexCoords(), Normal: obj.UsesNormals()}
	}
	color := DefaultVertexColor
	if opts.Color != nil {
		color = *opts.Color
	}

	stride := layout.Stride()
	data := make([]float32, 0, len(obj.Faces)*3*stride)
	bounds := Bounds{
		Min: mgl32.Vec3{1e10, 1e10, 1e10},
		Max: mgl32.Vec3{-1e10, -1e10, -1e10},
	}

	for _, face := range obj.Faces {
		for _, c := range face {
			p := obj.Positions[c.Position]
			bounds.extend(mgl32.Vec3{p[0], p[1], p[2]})

			data = append(data, p[0], p[1], p[2], color[0], color[1], color[2])

			if layout.TexCoord {
				var uv [2]float32
				if c.HasTexCoord() {
					uv = obj.TexCoords[c.TexCoord]
				}
				data = append(data, uv[0], uv[1])
			}
			if layout.Normal {
				var n [3]float32
				if c.HasNormal() {
					n = obj.Normals[c.Normal]
				}
				data = append(data, n[0], n[1], n[2])
			}
		}
	}

	return &Geometry{
		Data:        data,
		Layout:      layout,
		VertexCount: len(data) / stride,
		Bounds:      bounds,
	}, nil
}
