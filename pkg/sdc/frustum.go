package sdc

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Frustum is a camera view volume as six inward-facing planes. Each plane is
// (a, b, c, d) with the normal (a, b, c) pointing into the volume, so a point
// p is inside when a*p.x + b*p.y + c*p.z + d >= 0 for every plane.
//
// Order: left, right, bottom, top, near, far.
type Frustum [6]mgl32.Vec4

// ExtractFrustum derives the six planes from a combined view-projection
// matrix using the Gribb-Hartmann row combination, for projections that map
// depth to clip z in [0,1] (Metal, Vulkan, D3D). That is the module's
// renderer convention, reversed or not: the side planes come from
// row3 +/- rowi, the depth pair bounds clip z with 0 <= z and z <= w. With
// reversed depth the near plane is row3 - row2 and the far plane is row2
// itself.
//
// For an OpenGL-style matrix mapping depth to [-1,1] use ExtractFrustumGL.
func ExtractFrustum(viewProj mgl32.Mat4) Frustum {
	f := sideplanes(viewProj)
	r2 := matRow(viewProj, 2)
	r3 := matRow(viewProj, 3)
	f[4] = normalizePlane(r3.Sub(r2)) // clip z <= w: near under reversed depth
	f[5] = normalizePlane(r2)         // clip z >= 0: far under reversed depth
	return f
}

// ExtractFrustumGL is ExtractFrustum for projections mapping depth to clip z
// in [-1,1], where both depth planes take the row3 +/- row2 form.
func ExtractFrustumGL(viewProj mgl32.Mat4) Frustum {
	f := sideplanes(viewProj)
	r2 := matRow(viewProj, 2)
	r3 := matRow(viewProj, 3)
	f[4] = normalizePlane(r3.Add(r2))
	f[5] = normalizePlane(r3.Sub(r2))
	return f
}

func sideplanes(viewProj mgl32.Mat4) Frustum {
	var f Frustum
	r3 := matRow(viewProj, 3)
	for i := 0; i < 2; i++ {
		ri := matRow(viewProj, i)
		f[i*2] = normalizePlane(r3.Add(ri))
		f[i*2+1] = normalizePlane(r3.Sub(ri))
	}
	return f
}

func matRow(m mgl32.Mat4, i int) mgl32.Vec4 {
	return mgl32.Vec4{m.At(i, 0), m.At(i, 1), m.At(i, 2), m.At(i, 3)}
}

func normalizePlane(p mgl32.Vec4) mgl32.Vec4 {
	l := p.Vec3().Len()
	if l > 0 {
		return p.Mul(1 / l)
	}
	return p
}

// ContainsPoint reports whether a point lies inside the frustum.
func (f Frustum) ContainsPoint(p mgl32.Vec3) bool {
	for _, plane := range f {
		if plane.Vec3().Dot(p)+plane.W() < 0 {
			return false
		}
	}
	return true
}

// IntersectsAABB reports whether a box overlaps the frustum. Conservative:
// a box is rejected only when all eight corners are strictly outside one
// plane, so boxes straddling a plane always pass.
func (f Frustum) IntersectsAABB(b AABB) bool {
	corners := [8]mgl32.Vec3{
		{b.Min.X(), b.Min.Y(), b.Min.Z()},
		{b.Max.X(), b.Min.Y(), b.Min.Z()},
		{b.Min.X(), b.Max.Y(), b.Min.Z()},
		{b.Max.X(), b.Max.Y(), b.Min.Z()},
		{b.Min.X(), b.Min.Y(), b.Max.Z()},
		{b.Max.X(), b.Min.Y(), b.Max.Z()},
		{b.Min.X(), b.Max.Y(), b.Max.Z()},
		{b.Max.X(), b.Max.Y(), b.Max.Z()},
	}
	for _, plane := range f {
		n := plane.Vec3()
		d := plane.W()
		out := 0
		for _, c := range corners {
			if n.Dot(c)+d < 0 {
				out++
			}
		}
		if out == 8 {
			return false
		}
	}
	return true
}

// IntersectsBounds reports whether a ground rectangle extruded from y=0 up to
// probeHeight overlaps the frustum. This is the chunk visibility test:
// chunks carry no stored height, so the extrusion height bounds the tallest
// content a chunk may have.
func (f Frustum) IntersectsBounds(b Bounds, probeHeight float32) bool {
	return f.IntersectsAABB(AABB{
		Min: mgl32.Vec3{b.MinX, 0, b.MinZ},
		Max: mgl32.Vec3{b.MaxX, probeHeight, b.MaxZ},
	})
}
