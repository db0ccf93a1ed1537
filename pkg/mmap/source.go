// Package mmap provides the random-access byte source the decode pipeline
// reads from: a read-only memory map of the file, a plain-file fallback, and
// an in-memory source for tests.
//
// All sources share exact-read semantics: ReadAt either fills the whole
// destination or fails. The pipeline never issues short reads on purpose, so
// a short read always means a truncated or lying file.
package mmap

import (
	"fmt"
	"io"
	"os"
)

// Source is a random-access, read-only byte source. The source outlives
// every record derived from it; Close releases the underlying mapping or
// handle and is idempotent.
type Source interface {
	io.ReaderAt
	Size() int64
	Close() error
}

// Bytes is an in-memory Source.
type Bytes struct {
	b []byte
}

// NewBytes wraps b without copying.
func NewBytes(b []byte) *Bytes {
	return &Bytes{b: b}
}

func (s *Bytes) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 {
		return 0, fmt.Errorf("negative offset %d", off)
	}
	if off+int64(len(p)) > int64(len(s.b)) {
		return 0, io.ErrUnexpectedEOF
	}
	return copy(p, s.b[off:]), nil
}

func (s *Bytes) Size() int64 {
	return int64(len(s.b))
}

func (s *Bytes) Close() error {
	s.b = nil
	return nil
}

// File is a Source backed by plain file reads, for platforms or situations
// where mapping is undesirable. The size is fixed at open time.
type File struct {
	f    *os.File
	size int64
}

// OpenFile opens path as a read-only file Source. Empty files are rejected:
// there is nothing to decode and zero-length maps are invalid anyway.
func OpenFile(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	if fi.Size() == 0 {
		f.Close()
		return nil, fmt.Errorf("%s: non-existent or empty file", path)
	}
	return &File{f: f, size: fi.Size()}, nil
}

func (s *File) ReadAt(p []byte, off int64) (int, error) {
	n, err := s.f.ReadAt(p, off)
	if err == nil && n < len(p) {
		return n, io.ErrUnexpectedEOF
	}
	return n, err
}

func (s *File) Size() int64 {
	return s.size
}

func (s *File) Close() error {
	if s.f == nil {
		return nil
	}
	err := s.f.Close()
	s.f = nil
	return err
}
