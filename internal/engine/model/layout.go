// Package model turns OBJ geometry into interleaved vertex buffers and uploads them.
package model

import "github.com/Faultbox/hello3d/internal/engine/gpu"

// Shader input locations. They are fixed regardless of which attributes a
// layout carries, so one program can draw every layout.
const (
	LocPosition uint32 = 0
	LocColor    uint32 = 1
	LocTexCoord uint32 = 2
	LocNormal   uint32 = 3
)

// floatSize is sizeof(float32) in bytes.
const floatSize = 4

// Layout selects the optional attributes of a vertex. Position and color are
// always present; order is position, color, [texcoord], [normal].
type Layout struct {
	TexCoord bool
	Normal   bool
}

// Common layouts.
var (
	LayoutPosColor    = Layout{}
	LayoutTextured    = Layout{TexCoord: true}
	LayoutLit         = Layout{Normal: true}
	LayoutTexturedLit = Layout{TexCoord: true, Normal: true}
)

// Stride returns the vertex size in floats (6, 8, 9 or 11).
func (l Layout) Stride() int {
	n := 6
	if l.TexCoord {
		n += 2
	}
	if l.Normal {
		n += 3
	}
	return n
}

// StrideBytes returns the vertex size in bytes.
func (l Layout) StrideBytes() int {
	return l.Stride() * floatSize
}

// Attributes returns the attribute descriptors in buffer order.
func (l Layout) Attributes() []gpu.VertexAttrib {
	attribs := []gpu.VertexAttrib{
		{Location: LocPosition, Size: 3, Offset: 0},
		{Location: LocColor, Size: 3, Offset: 3 * floatSize},
	}
	offset := 6
	if l.TexCoord {
		attribs = append(attribs, gpu.VertexAttrib{Location: LocTexCoord, Size: 2, Offset: offset * floatSize})
		offset += 2
	}
	if l.Normal {
		attribs = append(attribs, gpu.VertexAttrib{Location: LocNormal, Size: 3, Offset: offset * floatSize})
	}
	return attribs
}

// String returns a short description such as "pos+color+uv+normal".
func (l Layout) String() string {
	s := "pos+color"
	if l.TexCoord {
		s += "+uv"
	}
	if l.Normal {
		s += "+normal"
	}
	return s
}
