package mmap

import (
	"fmt"
	"io"
	"os"
)

// Map is a read-only memory-mapped Source.
type Map struct {
	f    *os.File
	data []byte
}

// Open maps path read-only. Empty files are rejected. The map stays valid
// until Close; records decoded from it copy their payloads, so they survive
// the map.
func Open(path string) (*Map, error) {
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

	data, err := mmap(f, int(fi.Size()))
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &Map{f: f, data: data}, nil
}

func (m *Map) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 {
		return 0, fmt.Errorf("negative offset %d", off)
	}
	if off+int64(len(p)) > int64(len(m.data)) {
		return 0, io.ErrUnexpectedEOF
	}
	return copy(p, m.data[off:]), nil
}

func (m *Map) Size() int64 {
	return int64(len(m.data))
}

// Data exposes the underlying mapping without copying. The slice is valid
// until Close.
func (m *Map) Data() []byte {
	return m.data
}

func (m *Map) Close() error {
	if m.data == nil {
		return nil
	}
	err := munmap(m.data)
	m.data = nil
	if cerr := m.f.Close(); err == nil {
		err = cerr
	}
	return err
}
