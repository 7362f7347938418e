package chunk

import (
	"fmt"
)

// ErrTruncatedHeader indicates the buffer is smaller than the fixed header.
type ErrTruncatedHeader struct {
	Size int
}

func (e *ErrTruncatedHeader) Error() string {
	return fmt.Sprintf("truncated chunk header: %d bytes, need %d", e.Size, HeaderSize)
}

// ErrBadMagic indicates the file does not start with the SDC1 magic tag.
type ErrBadMagic struct {
	Got [4]byte
}

func (e *ErrBadMagic) Error() string {
	return fmt.Sprintf("bad chunk magic %q, want %q", e.Got[:], Magic)
}

// ErrSectionOverrun indicates a declared count or offset would read past the
// end of the buffer. It is reported as a warning on the decoded chunk; the
// section is truncated at the last complete record rather than failing the
// whole chunk.
type ErrSectionOverrun struct {
	Section  string // "buildings" or "roads"
	Record   int    // zero-based record index where decoding stopped
	Declared uint32 // record count declared in the header
	Offset   int    // byte offset at which the overrun was detected
}

func (e *ErrSectionOverrun) Error() string {
	return fmt.Sprintf("%s section truncated at record %d of %d (offset %d past end of buffer)",
		e.Section, e.Record, e.Declared, e.Offset)
}

// ErrInvalidMesh indicates a mesh whose indices reference vertices that do not
// exist. The record carrying it is dropped; reported as a warning.
type ErrInvalidMesh struct {
	Section     string
	Record      int
	Index       uint32
	VertexCount uint32
}

func (e *ErrInvalidMesh) Error() string {
	return fmt.Sprintf("%s record %d: index %d out of range (%d vertices)",
		e.Section, e.Record, e.Index, e.VertexCount)
}
