// Package picking provides ray casting against mesh bounds.
package picking

import (
	gomath "math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/hello3d/internal/engine/model"
	"github.com/Faultbox/hello3d/internal/engine/scene"
)

// Ray represents a ray in 3D space with origin and direction.
type Ray struct {
	Origin    mgl32.Vec3
	Direction mgl32.Vec3 // Normalized direction
}

// NewRay returns a ray with its direction normalized.
func NewRay(origin, direction mgl32.Vec3) Ray {
	return Ray{Origin: origin, Direction: direction.Normalize()}
}

// ScreenToRay converts screen coordinates to a world-space ray.
// screenX, screenY are pixel coordinates, viewportW/H are viewport dimensions.
// invViewProj is the inverse of the view-projection matrix.
func ScreenToRay(screenX, screenY, viewportW, viewportH float32, invViewProj mgl32.Mat4) Ray {
	// Convert screen coords to normalized device coords (-1 to 1)
	ndcX := 2.0*screenX/viewportW - 1.0
	ndcY := 1.0 - 2.0*screenY/viewportH // Flip Y

	nearWorld := unproject(invViewProj, mgl32.Vec4{ndcX, ndcY, -1, 1})
	farWorld := unproject(invViewProj, mgl32.Vec4{ndcX, ndcY, 1, 1})

	return NewRay(nearWorld, farWorld.Sub(nearWorld))
}

func unproject(inv mgl32.Mat4, ndc mgl32.Vec4) mgl32.Vec3 {
	p := inv.Mul4x1(ndc)
	if p.W() != 0 {
		return p.Vec3().Mul(1 / p.W())
	}
	return p.Vec3()
}

// IntersectAABB tests ray intersection with an axis-aligned bounding box.
// Returns the distance to intersection (t) and whether intersection occurred.
// If the ray starts inside the box, returns the exit distance.
func (r Ray) IntersectAABB(box model.Bounds) (t float32, hit bool) {
	tmin := float32(-gomath.MaxFloat32)
	tmax := float32(gomath.MaxFloat32)

	for i := 0; i < 3; i++ {
		if r.Direction[i] == 0 {
			if r.Origin[i] < box.Min[i] || r.Origin[i] > box.Max[i] {
				return 0, false
			}
			continue
		}
		t1 := (box.Min[i] - r.Origin[i]) / r.Direction[i]
		t2 := (box.Max[i] - r.Origin[i]) / r.Direction[i]
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		if t1 > tmin {
			tmin = t1
		}
		if t2 < tmax {
			tmax = t2
		}
	}

	if tmax < tmin || tmax < 0 {
		return 0, false
	}

	// Return entry point, or exit point if starting inside
	if tmin < 0 {
		return tmax, true
	}
	return tmin, true
}

// TransformBounds returns the world-space box enclosing local transformed by
// m. Rotated boxes grow to stay axis-aligned.
func TransformBounds(local model.Bounds, m mgl32.Mat4) model.Bounds {
	lo, hi := local.Min, local.Max
	var out model.Bounds
	for i := 0; i < 8; i++ {
		corner := mgl32.Vec3{lo[0], lo[1], lo[2]}
		if i&1 != 0 {
			corner[0] = hi[0]
		}
		if i&2 != 0 {
			corner[1] = hi[1]
		}
		if i&4 != 0 {
			corner[2] = hi[2]
		}
		p := m.Mul4x1(corner.Vec4(1)).Vec3()
		if i == 0 {
			out.Min, out.Max = p, p
			continue
		}
		for a := 0; a < 3; a++ {
			out.Min[a] = min(out.Min[a], p[a])
			out.Max[a] = max(out.Max[a], p[a])
		}
	}
	return out
}

// Pick returns the index of the nearest mesh whose world bounds r hits, or -1.
func Pick(r Ray, meshes []*scene.Mesh) int {
	best := -1
	bestT := float32(gomath.MaxFloat32)
	for i, m := range meshes {
		h := m.Handle()
		if !h.Valid() {
			continue
		}
		if t, ok := r.IntersectAABB(TransformBounds(h.Bounds, m.Model())); ok && t < bestT {
			best, bestT = i, t
		}
	}
	return best
}
