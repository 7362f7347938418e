package sdc

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// HitKind tells what kind of record a hit test landed on.
type HitKind uint8

const (
	HitBuilding HitKind = iota
	HitRoad
)

// String returns "building" or "road".
func (k HitKind) String() string {
	if k == HitRoad {
		return "road"
	}
	return "building"
}

// HitResult describes the record nearest along the ray.
type HitResult struct {
	Kind     HitKind
	Chunk    ChunkID
	Index    int     // record index within its chunk section
	Distance float32 // meters along the ray

	Position   mgl32.Vec3 // center of the record's bounding box
	Dimensions mgl32.Vec3 // extents of the record's bounding box
	Name       string     // display label

	// Building fields, valid when Kind == HitBuilding.
	Height float32

	// Road fields, valid when Kind == HitRoad.
	RoadType RoadType
	Lanes    uint8
	Width    float32
}

// HitTestOptions configures hit testing.
type HitTestOptions struct {
	// MaxDistance rejects hits farther than this many meters along the ray.
	// Zero means unlimited.
	MaxDistance float32

	// PreciseMesh refines box hits against the record's triangles. Slower,
	// but rejects taps that pass through the empty corners of a box. A
	// record whose box is hit but whose triangles are all missed is skipped.
	PreciseMesh bool
}

// PerformHitTest finds the record nearest along the ray across the given
// chunks.
//
// Records are tested against their bounding boxes; chunks whose overall box
// misses the ray are rejected without touching their records. Ties on
// distance keep the first record encountered.
//
// Example:
//
//	ray, ok := sdc.CreateRay(sdc.ScreenRay{
//	    X: tapX, Y: tapY, Width: w, Height: h, Scale: scale,
//	    View: view, Proj: proj,
//	})
//	if !ok {
//	    return
//	}
//	if hit, ok := sdc.PerformHitTest(ray, streamer.Snapshot(), sdc.HitTestOptions{}); ok {
//	    fmt.Printf("tapped %s at %.0fm\n", hit.Name, hit.Distance)
//	}
func PerformHitTest(ray Ray, chunks []*Chunk, opts HitTestOptions) (HitResult, bool) {
	limit := float32(math.Inf(1))
	if opts.MaxDistance > 0 {
		limit = opts.MaxDistance
	}

	var best HitResult
	bestDist := limit
	found := false

	for _, c := range chunks {
		if len(c.BuildingBounds) == 0 && len(c.RoadBounds) == 0 {
			continue
		}
		if d, _, ok := ray.IntersectAABB(c.Bounds()); !ok || d >= bestDist {
			continue
		}

		for i, box := range c.BuildingBounds {
			d, ok := hitRecord(ray, box, &c.Buildings[i].Mesh, opts.PreciseMesh)
			if !ok || d >= bestDist {
				continue
			}
			b := &c.Buildings[i]
			best = HitResult{
				Kind:       HitBuilding,
				Chunk:      c.ID,
				Index:      i,
				Distance:   d,
				Position:   box.Center(),
				Dimensions: box.Size(),
				Name:       b.Label(),
				Height:     b.Height,
			}
			bestDist = d
			found = true
		}

		for i, box := range c.RoadBounds {
			d, ok := hitRecord(ray, box, &c.Roads[i].Mesh, opts.PreciseMesh)
			if !ok || d >= bestDist {
				continue
			}
			r := &c.Roads[i]
			best = HitResult{
				Kind:       HitRoad,
				Chunk:      c.ID,
				Index:      i,
				Distance:   d,
				Position:   box.Center(),
				Dimensions: box.Size(),
				Name:       r.Label(),
				RoadType:   r.Type,
				Lanes:      r.Lanes,
				Width:      r.Width,
			}
			bestDist = d
			found = true
		}
	}

	return best, found
}

func hitRecord(ray Ray, box AABB, mesh *Mesh, precise bool) (float32, bool) {
	d, _, ok := ray.IntersectAABB(box)
	if !ok {
		return 0, false
	}
	if !precise {
		return d, true
	}
	return ray.IntersectMesh(mesh)
}
