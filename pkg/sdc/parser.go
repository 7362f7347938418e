package sdc

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/songdo3d/sdc/internal/chunk"
)

// Parser decodes SDC chunk buffers into renderable chunks.
//
// Implementations must be safe for concurrent use; the streamer calls Parse
// from multiple load goroutines.
type Parser interface {
	// Parse decodes a chunk file buffer. The id is the catalog identity of
	// the chunk being decoded; a mismatching header is recorded as a warning.
	Parse(id ChunkID, data []byte) (*Chunk, error)
}

// ParseOptions configures chunk decoding.
type ParseOptions struct {
	// StrictBounds promotes section overruns from warnings to hard errors.
	// Default: false.
	StrictBounds bool

	// ValidateIndices drops records whose mesh indices reference vertices
	// that do not exist. Default: true.
	ValidateIndices bool
}

// DefaultParseOptions returns decoding options with defaults.
func DefaultParseOptions() ParseOptions {
	return ParseOptions{ValidateIndices: true}
}

// NewParser creates a parser with default options.
func NewParser() Parser {
	return NewParserWithOptions(DefaultParseOptions())
}

// NewParserWithOptions creates a parser with explicit options.
func NewParserWithOptions(opts ParseOptions) Parser {
	return &parser{opts: chunk.Options{
		StrictBounds:    opts.StrictBounds,
		ValidateIndices: opts.ValidateIndices,
	}}
}

type parser struct {
	opts chunk.Options
}

func (p *parser) Parse(id ChunkID, data []byte) (*Chunk, error) {
	raw, err := chunk.ParseWithOptions(data, p.opts)
	if err != nil {
		return nil, convertParseError(id, err)
	}

	c := &Chunk{
		ID:        id,
		Buildings: make([]Building, 0, len(raw.Buildings)),
		Roads:     make([]Road, 0, len(raw.Roads)),
	}
	if raw.X != id.X || raw.Y != id.Y {
		c.Warnings = append(c.Warnings,
			fmt.Errorf("header names chunk %d_%d, catalog says %s", raw.X, raw.Y, id))
	}
	for _, w := range raw.Warnings {
		c.Warnings = append(c.Warnings, convertWarning(w))
	}

	for i := range raw.Buildings {
		src := &raw.Buildings[i]
		b := Building{
			Position:  mgl32.Vec3(src.Position),
			Rotation:  src.Rotation,
			Scale:     mgl32.Vec3(src.Scale),
			Height:    src.Height,
			TextureID: src.TextureID,
			Flags:     src.Flags,
			Color:     src.Color,
			Name:      src.Name,
			Mesh:      convertMesh(&src.Mesh),
		}
		bounds, ok := meshBounds(&b.Mesh)
		if !ok {
			// Degenerate empty mesh: anchor a point box at the instance
			// position so hit testing and culling stay index-aligned.
			bounds = AABB{Min: b.Position, Max: b.Position}
		}
		c.Buildings = append(c.Buildings, b)
		c.BuildingBounds = append(c.BuildingBounds, bounds)
	}

	for i := range raw.Roads {
		src := &raw.Roads[i]
		r := Road{
			Type:       RoadType(src.Type),
			Lanes:      src.Lanes,
			Width:      src.Width,
			PointCount: src.PointCount,
			Name:       src.Name,
			Mesh:       convertMesh(&src.Mesh),
		}
		bounds, _ := meshBounds(&r.Mesh)
		c.Roads = append(c.Roads, r)
		c.RoadBounds = append(c.RoadBounds, bounds)
	}

	return c, nil
}

func convertMesh(m *chunk.Mesh) Mesh {
	out := Mesh{
		Vertices: make([]Vertex, len(m.Vertices)),
		Indices:  m.Indices,
	}
	for i := range m.Vertices {
		src := &m.Vertices[i]
		out.Vertices[i] = Vertex{
			Position: mgl32.Vec3(src.Position),
			Normal:   mgl32.Vec3(src.Normal),
			TexCoord: mgl32.Vec2(src.TexCoord),
		}
	}
	return out
}

func convertParseError(id ChunkID, err error) error {
	var overrun *chunk.ErrSectionOverrun
	if errors.As(err, &overrun) {
		return &BoundsOverrunError{
			Section:  overrun.Section,
			Record:   overrun.Record,
			Declared: overrun.Declared,
		}
	}
	return &FormatError{Chunk: id, Reason: err.Error(), Err: err}
}

func convertWarning(err error) error {
	switch w := err.(type) {
	case *chunk.ErrSectionOverrun:
		return &BoundsOverrunError{Section: w.Section, Record: w.Record, Declared: w.Declared}
	case *chunk.ErrInvalidMesh:
		return &RecordError{
			Section: w.Section,
			Record:  w.Record,
			Reason:  fmt.Sprintf("index %d out of range (%d vertices)", w.Index, w.VertexCount),
		}
	default:
		return err
	}
}
