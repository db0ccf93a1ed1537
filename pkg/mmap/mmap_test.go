package mmap

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTemp(t *testing.T, content []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.dlis")
	require.NoError(t, os.WriteFile(path, content, 0644))
	return path
}

func TestBytesSource(t *testing.T) {
	src := NewBytes([]byte{1, 2, 3, 4, 5})
	assert.Equal(t, int64(5), src.Size())

	p := make([]byte, 3)
	n, err := src.ReadAt(p, 1)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, []byte{2, 3, 4}, p)

	// exact-read semantics: a read past the end is an error, not short
	_, err = src.ReadAt(p, 3)
	assert.Error(t, err)
	_, err = src.ReadAt(p, -1)
	assert.Error(t, err)

	require.NoError(t, src.Close())
}

func TestFileSource(t *testing.T) {
	path := writeTemp(t, []byte("abcdef"))

	src, err := OpenFile(path)
	require.NoError(t, err)
	defer src.Close()

	assert.Equal(t, int64(6), src.Size())

	p := make([]byte, 2)
	_, err = src.ReadAt(p, 4)
	require.NoError(t, err)
	assert.Equal(t, []byte("ef"), p)

	_, err = src.ReadAt(p, 5)
	assert.Error(t, err)

	require.NoError(t, src.Close())
	require.NoError(t, src.Close())
}

func TestFileSourceRejectsEmpty(t *testing.T) {
	path := writeTemp(t, nil)
	_, err := OpenFile(path)
	assert.Error(t, err)
}

func TestMapSource(t *testing.T) {
	content := []byte("0123456789")
	path := writeTemp(t, content)

	m, err := Open(path)
	require.NoError(t, err)
	defer m.Close()

	assert.Equal(t, int64(len(content)), m.Size())
	assert.Equal(t, content, m.Data())

	p := make([]byte, 4)
	_, err = m.ReadAt(p, 6)
	require.NoError(t, err)
	assert.Equal(t, []byte("6789"), p)

	_, err = m.ReadAt(p, 7)
	assert.Error(t, err)

	require.NoError(t, m.Close())
	require.NoError(t, m.Close())
}

func TestMapRejectsEmptyAndMissing(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "nope.dlis"))
	assert.Error(t, err)

	path := writeTemp(t, nil)
	_, err = Open(path)
	assert.ErrorContains(t, err, "empty")
}
