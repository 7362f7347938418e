package sdc

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunkIDString(t *testing.T) {
	assert.Equal(t, "3_-2", ChunkID{X: 3, Y: -2}.String())

	id, err := ParseChunkID("3_-2")
	require.NoError(t, err)
	assert.Equal(t, ChunkID{X: 3, Y: -2}, id)

	_, err = ParseChunkID("nonsense")
	assert.Error(t, err)
}

func TestNewCatalog(t *testing.T) {
	cat, err := NewCatalog(gridManifest(4, 4, 100))
	require.NoError(t, err)

	assert.Equal(t, 16, cat.Count())
	assert.Equal(t, float32(100), cat.ChunkSize())
	assert.InDelta(t, 37.392, cat.Origin().Latitude, 1e-9)

	entry, ok := cat.Entry(ChunkID{X: 2, Y: 3})
	require.True(t, ok)
	assert.Equal(t, "2_3.sdc", entry.File)
	assert.Equal(t, Bounds{MinX: 200, MinZ: 300, MaxX: 300, MaxZ: 400}, entry.Bounds)

	_, ok = cat.Entry(ChunkID{X: 9, Y: 9})
	assert.False(t, ok)
}

func TestNewCatalogValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(m *Manifest)
	}{
		{"zero chunk size", func(m *Manifest) { m.ChunkSize = 0 }},
		{"id coordinate mismatch", func(m *Manifest) { m.Chunks[0].ID = "9_9" }},
		{"missing file", func(m *Manifest) { m.Chunks[0].File = "" }},
		{"inverted bounds", func(m *Manifest) {
			m.Chunks[0].Bounds.MinX, m.Chunks[0].Bounds.MaxX = m.Chunks[0].Bounds.MaxX, m.Chunks[0].Bounds.MinX
		}},
		{"duplicate id", func(m *Manifest) { m.Chunks[1] = m.Chunks[0] }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := gridManifest(2, 2, 100)
			tt.mutate(m)
			_, err := NewCatalog(m)
			var cerr *CatalogError
			require.ErrorAs(t, err, &cerr)
		})
	}
}

func TestLoadManifest(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "manifest.json")

	data, err := json.Marshal(gridManifest(2, 2, 50))
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0644))

	cat, err := LoadManifest(path)
	require.NoError(t, err)
	assert.Equal(t, 4, cat.Count())
}

func TestLoadManifestErrors(t *testing.T) {
	dir := t.TempDir()

	var cerr *CatalogError
	_, err := LoadManifest(filepath.Join(dir, "missing.json"))
	require.ErrorAs(t, err, &cerr)

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{not json"), 0644))
	_, err = LoadManifest(bad)
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, bad, cerr.Path)
}

func TestQueryBounds(t *testing.T) {
	cat, err := NewCatalog(gridManifest(4, 4, 100))
	require.NoError(t, err)

	// A query rectangle covering the middle of the grid touches the four
	// central chunks.
	hits := cat.QueryBounds(Bounds{MinX: 150, MinZ: 150, MaxX: 250, MaxZ: 250})
	assert.Len(t, hits, 4)

	// A query off the grid finds nothing.
	hits = cat.QueryBounds(Bounds{MinX: 1000, MinZ: 1000, MaxX: 1100, MaxZ: 1100})
	assert.Empty(t, hits)
}

func TestQueryRadius(t *testing.T) {
	cat, err := NewCatalog(gridManifest(4, 4, 100))
	require.NoError(t, err)

	// From the center of chunk 1_1, a tiny radius reaches only that chunk.
	hits := cat.QueryRadius(150, 150, 10)
	require.Len(t, hits, 1)
	assert.Equal(t, ChunkID{X: 1, Y: 1}, hits[0].ID)

	// Radius to the neighboring edges pulls in the ring around it.
	hits = cat.QueryRadius(150, 150, 60)
	ids := make(map[ChunkID]bool)
	for _, e := range hits {
		ids[e.ID] = true
	}
	assert.True(t, ids[ChunkID{X: 0, Y: 1}])
	assert.True(t, ids[ChunkID{X: 1, Y: 0}])
	assert.True(t, ids[ChunkID{X: 2, Y: 1}])
	assert.True(t, ids[ChunkID{X: 1, Y: 2}])

	// The diagonal neighbor's corner is ~70m away, outside a 60m circle but
	// inside the bounding square. The exact test must exclude it.
	assert.False(t, ids[ChunkID{X: 0, Y: 0}])

	assert.Empty(t, cat.QueryRadius(150, 150, -1))
}

func TestBoundsHelpers(t *testing.T) {
	b := Bounds{MinX: 0, MinZ: 0, MaxX: 100, MaxZ: 100}

	x, z := b.Center()
	assert.Equal(t, float32(50), x)
	assert.Equal(t, float32(50), z)

	assert.True(t, b.Contains(50, 50))
	assert.False(t, b.Contains(150, 50))

	assert.Zero(t, b.DistanceTo(50, 50))
	assert.InDelta(t, 50, b.DistanceTo(150, 50), 1e-5)
	assert.InDelta(t, 50, b.DistanceTo(130, 140), 1e-4) // 30-40-50 triangle to the corner

	assert.True(t, b.Intersects(Bounds{MinX: 100, MinZ: 0, MaxX: 200, MaxZ: 100}))
	assert.False(t, b.Intersects(Bounds{MinX: 101, MinZ: 0, MaxX: 200, MaxZ: 100}))

	u := b.Union(Bounds{MinX: -50, MinZ: 20, MaxX: 50, MaxZ: 150})
	assert.Equal(t, Bounds{MinX: -50, MinZ: 0, MaxX: 100, MaxZ: 150}, u)
}
