package sdc

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

const rayEpsilon = 1e-7

// Ray is a half-line in local meters. Dir is unit length.
type Ray struct {
	Origin mgl32.Vec3
	Dir    mgl32.Vec3
}

// Point returns the position at parameter t along the ray.
func (r Ray) Point(t float32) mgl32.Vec3 {
	return r.Origin.Add(r.Dir.Mul(t))
}

// ScreenRay describes the inputs for unprojecting a screen touch into a world
// ray.
//
// X and Y are in points with the origin at the top-left corner, the native
// touch convention. Scale is the display scale factor mapping points to the
// drawable size the projection was built for; pass 1 when X and Y are already
// in pixels.
type ScreenRay struct {
	X, Y          float32
	Width, Height float32
	Scale         float32
	View          mgl32.Mat4
	Proj          mgl32.Mat4
}

// CreateRay unprojects a screen position through a reversed-depth projection
// into a world-space ray.
//
// The renderer clears depth to zero and draws near geometry at depth one, so
// the near plane sits at NDC z=1 and the far plane at z=0. Unprojection runs
// the two NDC endpoints backwards through the inverse projection (with the
// perspective divide) and the inverse view.
func CreateRay(s ScreenRay) (Ray, bool) {
	scale := s.Scale
	if scale <= 0 {
		scale = 1
	}
	w, h := s.Width*scale, s.Height*scale
	if w <= 0 || h <= 0 {
		return Ray{}, false
	}

	ndcX := 2*(s.X*scale)/w - 1
	ndcY := 1 - 2*(s.Y*scale)/h

	invProj := s.Proj.Inv()
	invView := s.View.Inv()

	near, ok := unproject(invProj, invView, mgl32.Vec4{ndcX, ndcY, 1, 1})
	if !ok {
		return Ray{}, false
	}
	far, ok := unproject(invProj, invView, mgl32.Vec4{ndcX, ndcY, 0, 1})
	if !ok {
		return Ray{}, false
	}

	dir := far.Sub(near)
	if dir.Len() < rayEpsilon {
		return Ray{}, false
	}
	return Ray{Origin: near, Dir: dir.Normalize()}, true
}

func unproject(invProj, invView mgl32.Mat4, ndc mgl32.Vec4) (mgl32.Vec3, bool) {
	eye := invProj.Mul4x1(ndc)
	if math.Abs(float64(eye.W())) < rayEpsilon {
		return mgl32.Vec3{}, false
	}
	eye = eye.Mul(1 / eye.W())
	world := invView.Mul4x1(mgl32.Vec4{eye.X(), eye.Y(), eye.Z(), 1})
	return world.Vec3(), true
}

// IntersectAABB computes the entry and exit distances of the ray through a
// box using the slab method. The entry is clamped to zero for an origin
// inside the box; the exit exceeds the entry on any hit through a box with
// volume (they coincide only for a degenerate flat box). Returns false when
// the ray misses or the box lies entirely behind the origin.
func (r Ray) IntersectAABB(b AABB) (entry, exit float32, ok bool) {
	tNear := float32(math.Inf(-1))
	tFar := float32(math.Inf(1))

	for a := 0; a < 3; a++ {
		if mgl32.Abs(r.Dir[a]) < rayEpsilon {
			// Parallel to this slab: miss unless the origin is between the
			// slab planes.
			if r.Origin[a] < b.Min[a] || r.Origin[a] > b.Max[a] {
				return 0, 0, false
			}
			continue
		}
		inv := 1 / r.Dir[a]
		t1 := (b.Min[a] - r.Origin[a]) * inv
		t2 := (b.Max[a] - r.Origin[a]) * inv
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tNear = max(tNear, t1)
		tFar = min(tFar, t2)
		if tNear > tFar {
			return 0, 0, false
		}
	}

	if tFar < 0 {
		return 0, 0, false
	}
	return max(tNear, 0), tFar, true
}

// IntersectTriangle computes the ray-triangle intersection distance using the
// Moller-Trumbore algorithm. Both winding orders hit; grazing hits at the ray
// origin are rejected.
func (r Ray) IntersectTriangle(v0, v1, v2 mgl32.Vec3) (float32, bool) {
	e1 := v1.Sub(v0)
	e2 := v2.Sub(v0)

	p := r.Dir.Cross(e2)
	det := e1.Dot(p)
	if mgl32.Abs(det) < rayEpsilon {
		return 0, false
	}
	invDet := 1 / det

	tvec := r.Origin.Sub(v0)
	u := tvec.Dot(p) * invDet
	if u < 0 || u > 1 {
		return 0, false
	}

	q := tvec.Cross(e1)
	v := r.Dir.Dot(q) * invDet
	if v < 0 || u+v > 1 {
		return 0, false
	}

	t := e2.Dot(q) * invDet
	if t <= rayEpsilon {
		return 0, false
	}
	return t, true
}

// IntersectMesh returns the nearest triangle hit in a mesh, false when no
// triangle is hit.
func (r Ray) IntersectMesh(m *Mesh) (float32, bool) {
	best := float32(math.Inf(1))
	hit := false
	for i := 0; i+2 < len(m.Indices); i += 3 {
		v0 := m.Vertices[m.Indices[i]].Position
		v1 := m.Vertices[m.Indices[i+1]].Position
		v2 := m.Vertices[m.Indices[i+2]].Position
		if t, ok := r.IntersectTriangle(v0, v1, v2); ok && t < best {
			best = t
			hit = true
		}
	}
	return best, hit
}
