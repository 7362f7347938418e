package sdc

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"
)

// ChunkStore supplies raw chunk file bytes for catalog entries. The streamer
// calls ReadChunk from multiple load goroutines, so implementations must be
// safe for concurrent use.
type ChunkStore interface {
	ReadChunk(entry Entry) ([]byte, error)
}

// zstdMagic is the zstandard frame header.
var zstdMagic = []byte{0x28, 0xB5, 0x2F, 0xFD}

// DirStore reads chunk files from a directory, the layout the preprocessing
// pipeline writes: the manifest plus one file per chunk, with entry paths
// relative to the directory.
//
// Compressed chunks are handled transparently. A file whose content starts
// with the zstandard frame magic is decompressed regardless of its name, and
// when the entry's file is missing a sibling with a .zst suffix is tried.
type DirStore struct {
	root    string
	decoder *zstd.Decoder
}

// NewDirStore creates a store rooted at dir.
func NewDirStore(dir string) *DirStore {
	// Concurrency zero lets DecodeAll run on any calling goroutine.
	decoder, _ := zstd.NewReader(nil, zstd.WithDecoderConcurrency(0))
	return &DirStore{root: dir, decoder: decoder}
}

// ReadChunk reads the entry's file, decompressing zstandard content.
func (s *DirStore) ReadChunk(entry Entry) ([]byte, error) {
	path := filepath.Join(s.root, filepath.FromSlash(entry.File))

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		data, err = os.ReadFile(path + ".zst")
	}
	if err != nil {
		return nil, err
	}

	if bytes.HasPrefix(data, zstdMagic) {
		out, err := s.decoder.DecodeAll(data, nil)
		if err != nil {
			return nil, fmt.Errorf("decompress %s: %w", entry.File, err)
		}
		return out, nil
	}
	return data, nil
}
