package sdc

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// ChunkID identifies a chunk by its grid coordinates.
type ChunkID struct {
	X, Y int32
}

// String formats the id the way the manifest spells it: "x_y".
func (id ChunkID) String() string {
	return fmt.Sprintf("%d_%d", id.X, id.Y)
}

// ParseChunkID parses a manifest-style "x_y" identifier.
func ParseChunkID(s string) (ChunkID, error) {
	var id ChunkID
	if _, err := fmt.Sscanf(s, "%d_%d", &id.X, &id.Y); err != nil {
		return ChunkID{}, fmt.Errorf("invalid chunk id %q: %w", s, err)
	}
	return id, nil
}

// Bounds is an axis-aligned ground rectangle in local meters (X east, Z south).
// Chunks are square but queries may use any rectangle.
type Bounds struct {
	MinX, MinZ float32
	MaxX, MaxZ float32
}

// Center returns the midpoint of the rectangle on the ground plane.
func (b Bounds) Center() (x, z float32) {
	return (b.MinX + b.MaxX) / 2, (b.MinZ + b.MaxZ) / 2
}

// Intersects reports whether two rectangles overlap. Touching edges count as
// intersecting.
func (b Bounds) Intersects(o Bounds) bool {
	return b.MinX <= o.MaxX && b.MaxX >= o.MinX &&
		b.MinZ <= o.MaxZ && b.MaxZ >= o.MinZ
}

// Contains reports whether the point (x, z) lies inside the rectangle.
func (b Bounds) Contains(x, z float32) bool {
	return x >= b.MinX && x <= b.MaxX && z >= b.MinZ && z <= b.MaxZ
}

// DistanceTo returns the distance from a point to the rectangle on the ground
// plane, zero when the point is inside.
func (b Bounds) DistanceTo(x, z float32) float32 {
	dx := max(b.MinX-x, 0, x-b.MaxX)
	dz := max(b.MinZ-z, 0, z-b.MaxZ)
	return mgl32.Vec2{dx, dz}.Len()
}

// Union returns the smallest rectangle covering both.
func (b Bounds) Union(o Bounds) Bounds {
	return Bounds{
		MinX: min(b.MinX, o.MinX),
		MinZ: min(b.MinZ, o.MinZ),
		MaxX: max(b.MaxX, o.MaxX),
		MaxZ: max(b.MaxZ, o.MaxZ),
	}
}

// AABB is an axis-aligned box in local meters.
type AABB struct {
	Min, Max mgl32.Vec3
}

// Center returns the box midpoint.
func (b AABB) Center() mgl32.Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

// Size returns the box extents.
func (b AABB) Size() mgl32.Vec3 {
	return b.Max.Sub(b.Min)
}

// Vertex is one mesh vertex in local meters. Positions are baked into world
// space by the preprocessing pipeline; no per-chunk transform is needed.
type Vertex struct {
	Position mgl32.Vec3
	Normal   mgl32.Vec3
	TexCoord mgl32.Vec2
}

// Mesh is an indexed triangle mesh ready for GPU upload.
type Mesh struct {
	Vertices []Vertex
	Indices  []uint32
}

// Building is one building extracted from OSM footprints and extruded by the
// preprocessing pipeline.
type Building struct {
	Position  mgl32.Vec3 // footprint anchor in local meters
	Rotation  float32    // radians around Y
	Scale     mgl32.Vec3
	Height    float32 // meters
	TextureID uint16
	Flags     uint16
	Color     uint32 // packed RGBA facade tint
	Name      string // empty when the chunk format carries no names
	Mesh      Mesh
}

// Label returns the building name, or a positional fallback when the chunk
// format carries no names.
func (b *Building) Label() string {
	if b.Name != "" {
		return b.Name
	}
	return fmt.Sprintf("Building (%.0fm)", b.Height)
}

// RoadType classifies a road segment, collapsed from OSM highway tags.
type RoadType uint8

const (
	RoadHighway     RoadType = iota // motorway, trunk
	RoadPrimary                     // primary
	RoadSecondary                   // secondary, tertiary
	RoadResidential                 // residential, service
	RoadPath                        // footway, cycleway, path
)

// String returns a display name for the road type.
func (t RoadType) String() string {
	switch t {
	case RoadHighway:
		return "Highway"
	case RoadPrimary:
		return "Primary Road"
	case RoadSecondary:
		return "Secondary Road"
	case RoadResidential:
		return "Residential Street"
	case RoadPath:
		return "Path"
	default:
		return fmt.Sprintf("RoadType(%d)", uint8(t))
	}
}

// Road is one road segment with its ribbon mesh.
type Road struct {
	Type       RoadType
	Lanes      uint8
	Width      float32 // meters
	PointCount uint32  // source polyline points
	Name       string  // empty when the chunk format carries no names
	Mesh       Mesh
}

// Label returns the road name, or the type display name as a fallback.
func (r *Road) Label() string {
	if r.Name != "" {
		return r.Name
	}
	return r.Type.String()
}

// Chunk is one fully decoded chunk.
//
// BuildingBounds and RoadBounds are per-record axis-aligned boxes derived from
// the mesh vertices at decode time, aligned by index with Buildings and Roads.
// They drive hit testing and per-record culling without touching vertex data
// again.
//
// Warnings carries non-fatal decode diagnostics (truncated sections, dropped
// records); the chunk is still usable.
type Chunk struct {
	ID        ChunkID
	Buildings []Building
	Roads     []Road

	BuildingBounds []AABB
	RoadBounds     []AABB

	Warnings []error
}

// Bounds returns the union of all record boxes, or the zero box for an empty
// chunk.
func (c *Chunk) Bounds() AABB {
	first := true
	var out AABB
	for _, set := range [][]AABB{c.BuildingBounds, c.RoadBounds} {
		for _, b := range set {
			if first {
				out = b
				first = false
				continue
			}
			for a := 0; a < 3; a++ {
				out.Min[a] = min(out.Min[a], b.Min[a])
				out.Max[a] = max(out.Max[a], b.Max[a])
			}
		}
	}
	return out
}

// VertexCount returns the total vertex count across all meshes.
func (c *Chunk) VertexCount() int {
	n := 0
	for i := range c.Buildings {
		n += len(c.Buildings[i].Mesh.Vertices)
	}
	for i := range c.Roads {
		n += len(c.Roads[i].Mesh.Vertices)
	}
	return n
}

// meshBounds computes the axis-aligned box of a mesh, false when it has no
// vertices.
func meshBounds(m *Mesh) (AABB, bool) {
	if len(m.Vertices) == 0 {
		return AABB{}, false
	}
	b := AABB{Min: m.Vertices[0].Position, Max: m.Vertices[0].Position}
	for i := 1; i < len(m.Vertices); i++ {
		p := m.Vertices[i].Position
		for a := 0; a < 3; a++ {
			b.Min[a] = min(b.Min[a], p[a])
			b.Max[a] = max(b.Max[a], p[a])
		}
	}
	return b, true
}
