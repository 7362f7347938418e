package sdc

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/songdo3d/sdc/internal/chunk"
)

// boxMesh builds a closed axis-aligned box mesh centered at c.
func boxMesh(c, size mgl32.Vec3) chunk.Mesh {
	h := size.Mul(0.5)
	lo := c.Sub(h)
	hi := c.Add(h)

	corners := [8][3]float32{
		{lo.X(), lo.Y(), lo.Z()},
		{hi.X(), lo.Y(), lo.Z()},
		{hi.X(), hi.Y(), lo.Z()},
		{lo.X(), hi.Y(), lo.Z()},
		{lo.X(), lo.Y(), hi.Z()},
		{hi.X(), lo.Y(), hi.Z()},
		{hi.X(), hi.Y(), hi.Z()},
		{lo.X(), hi.Y(), hi.Z()},
	}

	var m chunk.Mesh
	for _, p := range corners {
		m.Vertices = append(m.Vertices, chunk.Vertex{Position: p, Normal: [3]float32{0, 1, 0}})
	}
	m.Indices = []uint32{
		0, 1, 2, 0, 2, 3, // -Z face
		5, 4, 7, 5, 7, 6, // +Z face
		4, 0, 3, 4, 3, 7, // -X face
		1, 5, 6, 1, 6, 2, // +X face
		3, 2, 6, 3, 6, 7, // +Y face
		4, 5, 1, 4, 1, 0, // -Y face
	}
	return m
}

// buildingAt encodes a building whose box mesh is centered at (x, y, z).
func buildingAt(x, y, z float32, size mgl32.Vec3) chunk.Building {
	return chunk.Building{
		Position: [3]float32{x, 0, z},
		Scale:    [3]float32{1, 1, 1},
		Height:   size.Y(),
		Color:    0xFFFFFFFF,
		Mesh:     boxMesh(mgl32.Vec3{x, y, z}, size),
	}
}

// roadAt encodes a flat road ribbon centered at (x, z).
func roadAt(x, z, width, length float32) chunk.Road {
	return chunk.Road{
		Type:       chunk.RoadResidential,
		Lanes:      2,
		Width:      width,
		PointCount: 2,
		Mesh:       boxMesh(mgl32.Vec3{x, 0.05, z}, mgl32.Vec3{width, 0.1, length}),
	}
}

// encodeChunk serializes a raw chunk for store fixtures.
func encodeChunk(id ChunkID, buildings []chunk.Building, roads []chunk.Road) []byte {
	return chunk.Encode(&chunk.Chunk{
		X:         id.X,
		Y:         id.Y,
		Buildings: buildings,
		Roads:     roads,
	})
}

// gridManifest builds a manifest describing a w by h chunk grid with the
// given cell size, origin cell at (0, 0).
func gridManifest(w, h int32, size float32) *Manifest {
	m := &Manifest{
		Version:   1,
		Origin:    GeoOrigin{Latitude: 37.392, Longitude: 126.639},
		ChunkSize: size,
	}
	for y := int32(0); y < h; y++ {
		for x := int32(0); x < w; x++ {
			id := ChunkID{X: x, Y: y}
			m.Chunks = append(m.Chunks, ManifestChunk{
				ID:   id.String(),
				File: id.String() + ".sdc",
				X:    x,
				Y:    y,
				Bounds: ManifestBounds{
					MinX: float32(x) * size, MinZ: float32(y) * size,
					MaxX: float32(x+1) * size, MaxZ: float32(y+1) * size,
				},
				BuildingCount: 1,
			})
		}
	}
	return m
}

// fakeStore serves encoded chunks from memory and can inject failures.
type fakeStore struct {
	data map[ChunkID][]byte
	fail map[ChunkID]error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		data: make(map[ChunkID][]byte),
		fail: make(map[ChunkID]error),
	}
}

func (s *fakeStore) ReadChunk(entry Entry) ([]byte, error) {
	if err, ok := s.fail[entry.ID]; ok {
		return nil, err
	}
	if data, ok := s.data[entry.ID]; ok {
		return data, nil
	}
	return nil, errNotFound
}

var errNotFound = &notFoundError{}

type notFoundError struct{}

func (*notFoundError) Error() string { return "chunk not in fake store" }

// populateGrid fills the store with one building per grid chunk, centered in
// the cell.
func (s *fakeStore) populateGrid(cat *Catalog) {
	for _, e := range cat.All() {
		cx, cz := e.Bounds.Center()
		b := buildingAt(cx, 15, cz, mgl32.Vec3{20, 30, 20})
		s.data[e.ID] = encodeChunk(e.ID, []chunk.Building{b}, nil)
	}
}
