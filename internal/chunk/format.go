package chunk

// Binary layout of an SDC1 chunk file.
//
// A chunk file starts with a 64-byte header region of which the first 40 bytes
// are defined; the remainder is reserved. All numeric fields are little-endian.
// Section offsets are absolute byte offsets from the start of the file.
//
//	offset 0  : magic "SDC1"
//	offset 4  : version (uint32)
//	offset 8  : chunkX (int32), offset 12: chunkY (int32)
//	offset 16 : buildingCount (uint32), offset 20: roadCount (uint32)
//	offset 24 : buildingSectionOffset (uint64)
//	offset 32 : roadSectionOffset (uint64)
//
// The building section holds buildingCount records. Each record is a 48-byte
// instance block followed by a mesh. The road section holds roadCount records,
// each an 18-byte header followed by a mesh. A mesh is vertexCount (uint32),
// indexCount (uint32), vertexCount 32-byte vertices and indexCount uint32
// indices. The 18-byte road header matches the producer's native struct
// alignment: type@0, lanes@1, pad@2-3, width@4-7, pointCount@8-11, pad@12-17.

const (
	// Magic identifies an SDC chunk file ("Songdo Data Chunk" v1).
	Magic = "SDC1"

	// HeaderSize is the fixed header region at the start of every chunk file.
	HeaderSize = 64

	// FormatVersion is the chunk format version this package reads and writes.
	FormatVersion = 1

	// VertexSize is the on-disk size of one vertex: pos3 + normal3 + uv2, float32.
	VertexSize = 32

	// BuildingInstanceSize is the fixed per-building instance block. The last
	// 8 bytes of the stride are padding.
	BuildingInstanceSize = 48

	// RoadHeaderSize is the fixed per-road header, 12 logical bytes padded to 18.
	RoadHeaderSize = 18

	// meshPrefixSize covers vertexCount + indexCount.
	meshPrefixSize = 8
)

// Header offsets.
const (
	offVersion        = 4
	offChunkX         = 8
	offChunkY         = 12
	offBuildingCount  = 16
	offRoadCount      = 20
	offBuildingOffset = 24
	offRoadOffset     = 32
)

// Header is the decoded fixed header of a chunk file.
type Header struct {
	Version       uint32
	ChunkX        int32
	ChunkY        int32
	BuildingCount uint32
	RoadCount     uint32
	BuildingOff   uint64
	RoadOff       uint64
}

// Vertex is one 32-byte vertex as stored on disk. Positions are already baked
// into world coordinates by the producer.
type Vertex struct {
	Position [3]float32
	Normal   [3]float32
	TexCoord [2]float32
}

// Mesh is a triangle mesh with 32-bit indices.
type Mesh struct {
	Vertices []Vertex
	Indices  []uint32
}

// Building is one decoded building record.
type Building struct {
	Position  [3]float32
	Rotation  float32
	Scale     [3]float32
	Height    float32
	TextureID uint16
	Flags     uint16
	Color     uint32 // packed RGBA
	Name      string // not carried by format v1, reserved for producers that add it
	Mesh      Mesh
}

// RoadType is the on-disk road classification. The producer maps OSM highway
// tags onto five variants: motorway/trunk -> 0, primary -> 1,
// secondary/tertiary -> 2, residential/service -> 3, footway/cycleway/path -> 4.
type RoadType uint8

const (
	RoadHighway RoadType = iota
	RoadPrimary
	RoadSecondary
	RoadResidential
	RoadPath
)

// Road is one decoded road record.
type Road struct {
	Type       RoadType
	Lanes      uint8
	Width      float32
	PointCount uint32 // source polyline points, informational
	Name       string // not carried by format v1
	Mesh       Mesh
}

// Chunk is the result of decoding one chunk file.
//
// Warnings collects non-fatal section overruns observed during decoding; the
// corresponding sections were truncated at the last complete record.
type Chunk struct {
	X, Y      int32
	Buildings []Building
	Roads     []Road
	Warnings  []error
}
