package chunk

import (
	"encoding/binary"
	"math"
)

// Options configures decoding behavior.
type Options struct {
	// StrictBounds promotes section overruns from warnings to hard errors.
	// Default: false (sections are truncated at the last complete record).
	StrictBounds bool

	// ValidateIndices checks every mesh index against its vertex count and
	// drops records that fail. Default: true.
	ValidateIndices bool
}

// DefaultOptions returns decoding options with defaults.
func DefaultOptions() Options {
	return Options{
		StrictBounds:    false,
		ValidateIndices: true,
	}
}

// Parse decodes a chunk file buffer with default options.
func Parse(buf []byte) (*Chunk, error) {
	return ParseWithOptions(buf, DefaultOptions())
}

// ParseWithOptions decodes a chunk file buffer.
//
// The decode is pure: it never retains buf and has no side effects. A bad
// magic tag or a buffer shorter than the fixed header fails the whole chunk.
// A section whose declared count runs past the end of the buffer is truncated
// at the last complete record and the overrun is recorded in Chunk.Warnings,
// unless Options.StrictBounds is set.
func ParseWithOptions(buf []byte, opts Options) (*Chunk, error) {
	hdr, err := parseHeader(buf)
	if err != nil {
		return nil, err
	}

	c := &Chunk{X: hdr.ChunkX, Y: hdr.ChunkY}

	if err := parseBuildings(buf, hdr, opts, c); err != nil {
		return nil, err
	}
	if err := parseRoads(buf, hdr, opts, c); err != nil {
		return nil, err
	}

	return c, nil
}

// ParseHeader decodes only the fixed header. Useful for probing files without
// decoding their sections.
func ParseHeader(buf []byte) (Header, error) {
	return parseHeader(buf)
}

func parseHeader(buf []byte) (Header, error) {
	if len(buf) < HeaderSize {
		return Header{}, &ErrTruncatedHeader{Size: len(buf)}
	}
	if string(buf[:4]) != Magic {
		var got [4]byte
		copy(got[:], buf[:4])
		return Header{}, &ErrBadMagic{Got: got}
	}

	le := binary.LittleEndian
	return Header{
		Version:       le.Uint32(buf[offVersion:]),
		ChunkX:        int32(le.Uint32(buf[offChunkX:])),
		ChunkY:        int32(le.Uint32(buf[offChunkY:])),
		BuildingCount: le.Uint32(buf[offBuildingCount:]),
		RoadCount:     le.Uint32(buf[offRoadCount:]),
		BuildingOff:   le.Uint64(buf[offBuildingOffset:]),
		RoadOff:       le.Uint64(buf[offRoadOffset:]),
	}, nil
}

func parseBuildings(buf []byte, hdr Header, opts Options, c *Chunk) error {
	count := int(hdr.BuildingCount)
	if count == 0 {
		return nil
	}

	r, overrun := sectionCursor(buf, hdr.BuildingOff)
	if overrun {
		return c.sectionOverrun(opts, "buildings", 0, hdr.BuildingCount, int(min(hdr.BuildingOff, uint64(math.MaxInt))))
	}

	c.Buildings = make([]Building, 0, count)
	for i := 0; i < count; i++ {
		if !r.need(BuildingInstanceSize) {
			return c.sectionOverrun(opts, "buildings", i, hdr.BuildingCount, r.off)
		}
		base := r.off

		var b Building
		b.Position = [3]float32{r.f32(), r.f32(), r.f32()}
		b.Rotation = r.f32()
		b.Scale = [3]float32{r.f32(), r.f32(), r.f32()}
		b.Height = r.f32()
		b.TextureID = r.u16()
		b.Flags = r.u16()
		b.Color = r.u32()
		r.off = base + BuildingInstanceSize // trailing stride bytes are padding

		mesh, ok := r.mesh()
		if !ok {
			return c.sectionOverrun(opts, "buildings", i, hdr.BuildingCount, r.off)
		}
		if opts.ValidateIndices {
			if bad, idx := invalidIndex(mesh); bad {
				c.Warnings = append(c.Warnings, &ErrInvalidMesh{
					Section:     "buildings",
					Record:      i,
					Index:       idx,
					VertexCount: uint32(len(mesh.Vertices)),
				})
				continue
			}
		}
		b.Mesh = mesh
		c.Buildings = append(c.Buildings, b)
	}
	return nil
}

func parseRoads(buf []byte, hdr Header, opts Options, c *Chunk) error {
	count := int(hdr.RoadCount)
	if count == 0 {
		return nil
	}

	r, overrun := sectionCursor(buf, hdr.RoadOff)
	if overrun {
		return c.sectionOverrun(opts, "roads", 0, hdr.RoadCount, int(min(hdr.RoadOff, uint64(math.MaxInt))))
	}

	c.Roads = make([]Road, 0, count)
	for i := 0; i < count; i++ {
		if !r.need(RoadHeaderSize) {
			return c.sectionOverrun(opts, "roads", i, hdr.RoadCount, r.off)
		}
		base := r.off

		var rd Road
		rd.Type = RoadType(r.u8())
		rd.Lanes = r.u8()
		r.off = base + 4 // two pad bytes align width to 4
		rd.Width = r.f32()
		rd.PointCount = r.u32()
		r.off = base + RoadHeaderSize // trailing 6 pad bytes

		mesh, ok := r.mesh()
		if !ok {
			return c.sectionOverrun(opts, "roads", i, hdr.RoadCount, r.off)
		}
		if opts.ValidateIndices {
			if bad, idx := invalidIndex(mesh); bad {
				c.Warnings = append(c.Warnings, &ErrInvalidMesh{
					Section:     "roads",
					Record:      i,
					Index:       idx,
					VertexCount: uint32(len(mesh.Vertices)),
				})
				continue
			}
		}
		rd.Mesh = mesh
		c.Roads = append(c.Roads, rd)
	}
	return nil
}

// sectionOverrun records a truncated section, or fails the chunk under
// StrictBounds. Truncation keeps every record decoded so far.
func (c *Chunk) sectionOverrun(opts Options, section string, record int, declared uint32, offset int) error {
	err := &ErrSectionOverrun{
		Section:  section,
		Record:   record,
		Declared: declared,
		Offset:   offset,
	}
	if opts.StrictBounds {
		return err
	}
	c.Warnings = append(c.Warnings, err)
	return nil
}

func invalidIndex(m Mesh) (bool, uint32) {
	n := uint32(len(m.Vertices))
	for _, idx := range m.Indices {
		if idx >= n {
			return true, idx
		}
	}
	return false, 0
}

// cursor reads little-endian fields from arbitrary byte offsets. Reads go
// through encoding/binary on sub-slices, so unaligned offsets are fine.
type cursor struct {
	buf []byte
	off int
}

// sectionCursor positions a cursor at a section offset, reporting whether the
// offset itself is already past the end of the buffer.
func sectionCursor(buf []byte, off uint64) (*cursor, bool) {
	if off > uint64(len(buf)) {
		return nil, true
	}
	return &cursor{buf: buf, off: int(off)}, false
}

func (r *cursor) need(n int) bool {
	return n <= len(r.buf)-r.off
}

func (r *cursor) u8() uint8 {
	v := r.buf[r.off]
	r.off++
	return v
}

func (r *cursor) u16() uint16 {
	v := binary.LittleEndian.Uint16(r.buf[r.off:])
	r.off += 2
	return v
}

func (r *cursor) u32() uint32 {
	v := binary.LittleEndian.Uint32(r.buf[r.off:])
	r.off += 4
	return v
}

func (r *cursor) f32() float32 {
	return math.Float32frombits(r.u32())
}

// mesh reads a vertexCount/indexCount prefix and the vertex and index blocks.
// Returns false if the declared blocks do not fit in the remaining buffer; the
// cursor position is unspecified after a failed read.
func (r *cursor) mesh() (Mesh, bool) {
	if !r.need(meshPrefixSize) {
		return Mesh{}, false
	}
	vc := r.u32()
	ic := r.u32()

	need := uint64(vc)*VertexSize + uint64(ic)*4
	if need > uint64(len(r.buf)-r.off) {
		return Mesh{}, false
	}

	m := Mesh{
		Vertices: make([]Vertex, vc),
		Indices:  make([]uint32, ic),
	}
	for i := range m.Vertices {
		v := &m.Vertices[i]
		v.Position = [3]float32{r.f32(), r.f32(), r.f32()}
		v.Normal = [3]float32{r.f32(), r.f32(), r.f32()}
		v.TexCoord = [2]float32{r.f32(), r.f32()}
	}
	for i := range m.Indices {
		m.Indices[i] = r.u32()
	}
	return m, true
}
