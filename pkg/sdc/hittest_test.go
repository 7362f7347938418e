package sdc

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/songdo3d/sdc/internal/chunk"
)

// decodeTestChunk parses an encoded fixture, failing the test on error.
func decodeTestChunk(t *testing.T, id ChunkID, buildings []chunk.Building, roads []chunk.Road) *Chunk {
	t.Helper()
	c, err := NewParser().Parse(id, encodeChunk(id, buildings, roads))
	require.NoError(t, err)
	return c
}

func TestHitTestNearestBuilding(t *testing.T) {
	id := ChunkID{X: 0, Y: 0}
	c := decodeTestChunk(t, id, []chunk.Building{
		buildingAt(50, 15, 0, mgl32.Vec3{20, 30, 20}),
		buildingAt(120, 15, 0, mgl32.Vec3{20, 30, 20}),
	}, nil)

	// Ray down +X passes through both; the nearer one wins.
	ray := Ray{Origin: mgl32.Vec3{0, 15, 0}, Dir: mgl32.Vec3{1, 0, 0}}
	hit, ok := PerformHitTest(ray, []*Chunk{c}, HitTestOptions{})
	require.True(t, ok)

	assert.Equal(t, HitBuilding, hit.Kind)
	assert.Equal(t, id, hit.Chunk)
	assert.Equal(t, 0, hit.Index)
	assert.InDelta(t, 40, hit.Distance, 1e-4)
	assert.InDelta(t, 50, hit.Position.X(), 1e-4)
	assert.Equal(t, mgl32.Vec3{20, 30, 20}, hit.Dimensions)
	assert.Equal(t, float32(30), hit.Height)
	assert.Equal(t, "Building (30m)", hit.Name)
}

func TestHitTestRoad(t *testing.T) {
	id := ChunkID{X: 0, Y: 0}
	c := decodeTestChunk(t, id, nil, []chunk.Road{roadAt(0, 0, 8, 100)})

	ray := Ray{Origin: mgl32.Vec3{0, 50, 0}, Dir: mgl32.Vec3{0, -1, 0}}
	hit, ok := PerformHitTest(ray, []*Chunk{c}, HitTestOptions{})
	require.True(t, ok)

	assert.Equal(t, HitRoad, hit.Kind)
	assert.Equal(t, RoadResidential, hit.RoadType)
	assert.Equal(t, uint8(2), hit.Lanes)
	assert.Equal(t, float32(8), hit.Width)
	assert.Equal(t, "Residential Street", hit.Name)
}

func TestHitTestRoadUnderBuilding(t *testing.T) {
	id := ChunkID{X: 0, Y: 0}
	c := decodeTestChunk(t, id,
		[]chunk.Building{buildingAt(0, 15, 0, mgl32.Vec3{20, 30, 20})},
		[]chunk.Road{roadAt(0, 0, 8, 100)})

	// Looking straight down, the building top is hit before the road.
	ray := Ray{Origin: mgl32.Vec3{0, 100, 0}, Dir: mgl32.Vec3{0, -1, 0}}
	hit, ok := PerformHitTest(ray, []*Chunk{c}, HitTestOptions{})
	require.True(t, ok)
	assert.Equal(t, HitBuilding, hit.Kind)
	assert.InDelta(t, 70, hit.Distance, 1e-4)
}

func TestHitTestAcrossChunks(t *testing.T) {
	near := decodeTestChunk(t, ChunkID{X: 0, Y: 0},
		[]chunk.Building{buildingAt(50, 15, 0, mgl32.Vec3{20, 30, 20})}, nil)
	far := decodeTestChunk(t, ChunkID{X: 1, Y: 0},
		[]chunk.Building{buildingAt(150, 15, 0, mgl32.Vec3{20, 30, 20})}, nil)

	ray := Ray{Origin: mgl32.Vec3{0, 15, 0}, Dir: mgl32.Vec3{1, 0, 0}}

	// Chunk order must not matter, only distance.
	hit, ok := PerformHitTest(ray, []*Chunk{far, near}, HitTestOptions{})
	require.True(t, ok)
	assert.Equal(t, ChunkID{X: 0, Y: 0}, hit.Chunk)
}

func TestHitTestMiss(t *testing.T) {
	c := decodeTestChunk(t, ChunkID{X: 0, Y: 0},
		[]chunk.Building{buildingAt(50, 15, 0, mgl32.Vec3{20, 30, 20})}, nil)

	ray := Ray{Origin: mgl32.Vec3{0, 500, 0}, Dir: mgl32.Vec3{1, 0, 0}}
	_, ok := PerformHitTest(ray, []*Chunk{c}, HitTestOptions{})
	assert.False(t, ok)

	_, ok = PerformHitTest(ray, nil, HitTestOptions{})
	assert.False(t, ok)
}

func TestHitTestMaxDistance(t *testing.T) {
	c := decodeTestChunk(t, ChunkID{X: 0, Y: 0},
		[]chunk.Building{buildingAt(50, 15, 0, mgl32.Vec3{20, 30, 20})}, nil)

	ray := Ray{Origin: mgl32.Vec3{0, 15, 0}, Dir: mgl32.Vec3{1, 0, 0}}

	_, ok := PerformHitTest(ray, []*Chunk{c}, HitTestOptions{MaxDistance: 30})
	assert.False(t, ok, "hit at 40m rejected by a 30m limit")

	_, ok = PerformHitTest(ray, []*Chunk{c}, HitTestOptions{MaxDistance: 100})
	assert.True(t, ok)
}

func TestHitTestPreciseMesh(t *testing.T) {
	// A single triangle in the lower corner of its bounding box: a ray
	// through the opposite corner hits the box but misses every triangle.
	id := ChunkID{X: 0, Y: 0}
	tri := chunk.Mesh{
		Vertices: []chunk.Vertex{
			{Position: [3]float32{0, 0, 0}},
			{Position: [3]float32{10, 0, 0}},
			{Position: [3]float32{0, 0, 10}},
		},
		Indices: []uint32{0, 1, 2},
	}
	b := chunk.Building{Scale: [3]float32{1, 1, 1}, Height: 1, Mesh: tri}
	c := decodeTestChunk(t, id, []chunk.Building{b}, nil)

	corner := Ray{Origin: mgl32.Vec3{9, 50, 9}, Dir: mgl32.Vec3{0, -1, 0}}

	_, ok := PerformHitTest(corner, []*Chunk{c}, HitTestOptions{})
	assert.True(t, ok, "box test accepts the corner tap")

	_, ok = PerformHitTest(corner, []*Chunk{c}, HitTestOptions{PreciseMesh: true})
	assert.False(t, ok, "triangle test rejects it")

	inside := Ray{Origin: mgl32.Vec3{2, 50, 2}, Dir: mgl32.Vec3{0, -1, 0}}
	hit, ok := PerformHitTest(inside, []*Chunk{c}, HitTestOptions{PreciseMesh: true})
	require.True(t, ok)
	assert.InDelta(t, 50, hit.Distance, 1e-4)
}
