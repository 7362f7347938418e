package sdc

import "fmt"

// FormatError indicates a chunk buffer that cannot be decoded at all: missing
// magic tag, truncated header, or an unsupported version.
type FormatError struct {
	Chunk  ChunkID
	Reason string
	Err    error
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("chunk %s: %s", e.Chunk, e.Reason)
}

func (e *FormatError) Unwrap() error { return e.Err }

// BoundsOverrunError indicates a section whose declared record count runs past
// the end of the buffer. By default it is a warning on the decoded chunk and
// the section is truncated at the last complete record; with
// ParseOptions.StrictBounds it fails the chunk.
type BoundsOverrunError struct {
	Section  string // "buildings" or "roads"
	Record   int    // record index where decoding stopped
	Declared uint32 // record count declared in the header
}

func (e *BoundsOverrunError) Error() string {
	return fmt.Sprintf("%s section truncated at record %d of %d", e.Section, e.Record, e.Declared)
}

// RecordError indicates a single malformed record (mesh indices out of range).
// The record is dropped and the rest of the chunk decodes normally; reported
// as a warning.
type RecordError struct {
	Section string
	Record  int
	Reason  string
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("%s record %d dropped: %s", e.Section, e.Record, e.Reason)
}

// CatalogError indicates a manifest that could not be loaded or fails
// validation.
type CatalogError struct {
	Path   string
	Reason string
	Err    error
}

func (e *CatalogError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("catalog: %s", e.Reason)
	}
	return fmt.Sprintf("catalog %s: %s", e.Path, e.Reason)
}

func (e *CatalogError) Unwrap() error { return e.Err }

// IOError indicates a chunk file that could not be read from its store. Load
// failures are reported to listeners and the chunk returns to the absent
// state; the streamer retries on a later update once the chunk qualifies
// again.
type IOError struct {
	Chunk ChunkID
	Path  string
	Err   error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("chunk %s: read %s: %v", e.Chunk, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }
