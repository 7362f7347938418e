package chunk

import (
	"bytes"
	"encoding/binary"
	"math"
)

// Encode serializes a chunk into the SDC1 binary layout. It is the inverse of
// Parse for every field the format carries and is used to build fixtures and
// to verify preprocessing output.
func Encode(c *Chunk) []byte {
	var body bytes.Buffer

	buildingOff := uint64(HeaderSize)
	for i := range c.Buildings {
		writeBuilding(&body, &c.Buildings[i])
	}

	roadOff := buildingOff + uint64(body.Len())
	for i := range c.Roads {
		writeRoad(&body, &c.Roads[i])
	}

	header := make([]byte, HeaderSize)
	copy(header, Magic)
	le := binary.LittleEndian
	le.PutUint32(header[offVersion:], FormatVersion)
	le.PutUint32(header[offChunkX:], uint32(c.X))
	le.PutUint32(header[offChunkY:], uint32(c.Y))
	le.PutUint32(header[offBuildingCount:], uint32(len(c.Buildings)))
	le.PutUint32(header[offRoadCount:], uint32(len(c.Roads)))
	le.PutUint64(header[offBuildingOffset:], buildingOff)
	le.PutUint64(header[offRoadOffset:], roadOff)

	out := make([]byte, 0, HeaderSize+body.Len())
	out = append(out, header...)
	out = append(out, body.Bytes()...)
	return out
}

func writeBuilding(w *bytes.Buffer, b *Building) {
	block := make([]byte, BuildingInstanceSize)
	le := binary.LittleEndian
	putF32(block[0:], b.Position[0])
	putF32(block[4:], b.Position[1])
	putF32(block[8:], b.Position[2])
	putF32(block[12:], b.Rotation)
	putF32(block[16:], b.Scale[0])
	putF32(block[20:], b.Scale[1])
	putF32(block[24:], b.Scale[2])
	putF32(block[28:], b.Height)
	le.PutUint16(block[32:], b.TextureID)
	le.PutUint16(block[34:], b.Flags)
	le.PutUint32(block[36:], b.Color)
	w.Write(block)
	writeMesh(w, &b.Mesh)
}

func writeRoad(w *bytes.Buffer, r *Road) {
	block := make([]byte, RoadHeaderSize)
	block[0] = byte(r.Type)
	block[1] = r.Lanes
	putF32(block[4:], r.Width)
	binary.LittleEndian.PutUint32(block[8:], r.PointCount)
	w.Write(block)
	writeMesh(w, &r.Mesh)
}

func writeMesh(w *bytes.Buffer, m *Mesh) {
	var prefix [meshPrefixSize]byte
	le := binary.LittleEndian
	le.PutUint32(prefix[0:], uint32(len(m.Vertices)))
	le.PutUint32(prefix[4:], uint32(len(m.Indices)))
	w.Write(prefix[:])

	for i := range m.Vertices {
		v := &m.Vertices[i]
		var buf [VertexSize]byte
		putF32(buf[0:], v.Position[0])
		putF32(buf[4:], v.Position[1])
		putF32(buf[8:], v.Position[2])
		putF32(buf[12:], v.Normal[0])
		putF32(buf[16:], v.Normal[1])
		putF32(buf[20:], v.Normal[2])
		putF32(buf[24:], v.TexCoord[0])
		putF32(buf[28:], v.TexCoord[1])
		w.Write(buf[:])
	}
	for _, idx := range m.Indices {
		var buf [4]byte
		le.PutUint32(buf[:], idx)
		w.Write(buf[:])
	}
}

func putF32(b []byte, v float32) {
	binary.LittleEndian.PutUint32(b, math.Float32bits(v))
}
