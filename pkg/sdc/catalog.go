package sdc

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/dhconnelly/rtreego"
)

// Manifest is the on-disk catalog format written by the preprocessing
// pipeline next to the chunk files.
type Manifest struct {
	Version   int            `json:"version"`
	Origin    GeoOrigin      `json:"origin"`
	ChunkSize float32        `json:"chunk_size_meters"`
	Chunks    []ManifestChunk `json:"chunks"`
}

// ManifestChunk is one catalog entry as serialized in the manifest.
type ManifestChunk struct {
	ID            string         `json:"id"`
	File          string         `json:"file"`
	X             int32          `json:"x"`
	Y             int32          `json:"y"`
	Bounds        ManifestBounds `json:"bounds"`
	BuildingCount int            `json:"building_count"`
	RoadCount     int            `json:"road_count"`
}

// ManifestBounds is the serialized ground rectangle of a chunk.
type ManifestBounds struct {
	MinX float32 `json:"min_x"`
	MinZ float32 `json:"min_z"`
	MaxX float32 `json:"max_x"`
	MaxZ float32 `json:"max_z"`
}

// Entry is one validated catalog entry.
type Entry struct {
	ID            ChunkID
	File          string // path relative to the manifest directory
	Bounds        Bounds
	BuildingCount int
	RoadCount     int
}

// indexedEntry adapts an entry index to the rtreego.Spatial interface. Only
// the slice index is stored; queries resolve it back to the catalog entry.
type indexedEntry struct {
	bounds Bounds
	idx    int
}

func (e indexedEntry) Bounds() rtreego.Rect {
	point := rtreego.Point{float64(e.bounds.MinX), float64(e.bounds.MinZ)}
	lengths := []float64{
		float64(e.bounds.MaxX - e.bounds.MinX),
		float64(e.bounds.MaxZ - e.bounds.MinZ),
	}
	rect, _ := rtreego.NewRect(point, lengths)
	return rect
}

// Catalog holds the validated chunk inventory with an R-tree over chunk
// bounds for spatial queries. A catalog is immutable after construction and
// safe for concurrent use.
//
// Example:
//
//	catalog, err := sdc.LoadManifest("data/chunks/manifest.json")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	near := catalog.QueryRadius(cameraX, cameraZ, 1000)
//	fmt.Printf("%d chunks within a kilometer\n", len(near))
type Catalog struct {
	origin    GeoOrigin
	chunkSize float32
	entries   []Entry
	byID      map[ChunkID]int
	rtree     *rtreego.Rtree
}

// LoadManifest reads and validates a manifest file, returning a catalog ready
// for queries. Errors are reported as *CatalogError.
func LoadManifest(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &CatalogError{Path: path, Reason: "read manifest", Err: err}
	}

	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, &CatalogError{Path: path, Reason: "decode manifest", Err: err}
	}

	cat, err := NewCatalog(&m)
	if err != nil {
		var cerr *CatalogError
		if errors.As(err, &cerr) {
			cerr.Path = path
		}
		return nil, err
	}
	return cat, nil
}

// NewCatalog validates an already decoded manifest and builds the spatial
// index. Entries must have positive extents, a unique id, and an id string
// matching their grid coordinates.
func NewCatalog(m *Manifest) (*Catalog, error) {
	if m.ChunkSize <= 0 {
		return nil, &CatalogError{Reason: fmt.Sprintf("chunk size %v must be positive", m.ChunkSize)}
	}

	cat := &Catalog{
		origin:    m.Origin,
		chunkSize: m.ChunkSize,
		entries:   make([]Entry, 0, len(m.Chunks)),
		byID:      make(map[ChunkID]int, len(m.Chunks)),
		rtree:     rtreego.NewTree(2, 25, 50),
	}

	for i := range m.Chunks {
		mc := &m.Chunks[i]
		id := ChunkID{X: mc.X, Y: mc.Y}

		if mc.ID != id.String() {
			return nil, &CatalogError{
				Reason: fmt.Sprintf("entry %q does not match coordinates (%d, %d)", mc.ID, mc.X, mc.Y),
			}
		}
		if mc.File == "" {
			return nil, &CatalogError{Reason: fmt.Sprintf("entry %s has no file", mc.ID)}
		}
		if mc.Bounds.MinX >= mc.Bounds.MaxX || mc.Bounds.MinZ >= mc.Bounds.MaxZ {
			return nil, &CatalogError{Reason: fmt.Sprintf("entry %s has inverted bounds", mc.ID)}
		}
		if _, dup := cat.byID[id]; dup {
			return nil, &CatalogError{Reason: fmt.Sprintf("duplicate entry %s", mc.ID)}
		}

		entry := Entry{
			ID:   id,
			File: mc.File,
			Bounds: Bounds{
				MinX: mc.Bounds.MinX, MinZ: mc.Bounds.MinZ,
				MaxX: mc.Bounds.MaxX, MaxZ: mc.Bounds.MaxZ,
			},
			BuildingCount: mc.BuildingCount,
			RoadCount:     mc.RoadCount,
		}
		cat.byID[id] = len(cat.entries)
		cat.entries = append(cat.entries, entry)
		cat.rtree.Insert(indexedEntry{bounds: entry.Bounds, idx: len(cat.entries) - 1})
	}

	return cat, nil
}

// Entry returns the catalog entry for a chunk id.
func (c *Catalog) Entry(id ChunkID) (Entry, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Entry{}, false
	}
	return c.entries[i], true
}

// Count returns the number of chunks in the catalog.
func (c *Catalog) Count() int {
	return len(c.entries)
}

// ChunkSize returns the grid cell size in meters.
func (c *Catalog) ChunkSize() float32 {
	return c.chunkSize
}

// Origin returns the geographic origin of the local frame.
func (c *Catalog) Origin() GeoOrigin {
	return c.origin
}

// All returns every catalog entry. The returned slice is shared; callers must
// not modify it.
func (c *Catalog) All() []Entry {
	return c.entries
}

// QueryBounds returns entries whose ground rectangle intersects the query
// rectangle, using the R-tree index.
func (c *Catalog) QueryBounds(q Bounds) []Entry {
	point := rtreego.Point{float64(q.MinX), float64(q.MinZ)}
	lengths := []float64{
		float64(q.MaxX - q.MinX),
		float64(q.MaxZ - q.MinZ),
	}
	rect, err := rtreego.NewRect(point, lengths)
	if err != nil {
		return nil
	}

	spatials := c.rtree.SearchIntersect(rect)
	result := make([]Entry, 0, len(spatials))
	for _, s := range spatials {
		result = append(result, c.entries[s.(indexedEntry).idx])
	}
	return result
}

// QueryRadius returns entries within radius meters of the point (x, z),
// measured to the nearest edge of each chunk rectangle. The R-tree narrows
// the search to the enclosing square; the exact circular test runs on the
// survivors.
func (c *Catalog) QueryRadius(x, z, radius float32) []Entry {
	if radius < 0 {
		return nil
	}
	// Pad the coarse rect so a zero radius still forms a valid query; the
	// exact distance test below applies the true radius.
	pad := radius + 0.001
	coarse := c.QueryBounds(Bounds{
		MinX: x - pad, MinZ: z - pad,
		MaxX: x + pad, MaxZ: z + pad,
	})
	result := coarse[:0]
	for _, e := range coarse {
		if e.Bounds.DistanceTo(x, z) <= radius {
			result = append(result, e)
		}
	}
	return result
}
