// Package index persists record-index scans between runs. Scanning a large
// DLIS file is a full linear pass over its headers; the boundaries never
// change for a given file, so the scan result is cached keyed by the file's
// identity (absolute path, size, mtime) and reused until the file changes.
//
// The cache is advisory: a missing, stale or undecodable entry reads as a
// miss, never as an error.
package index

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/cockroachdb/pebble"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/jokva/dlisio/pkg/rp66"
)

// Cache is a pebble-backed store of scan indexes.
type Cache struct {
	db *pebble.DB
}

// entry is the persisted form: the file identity it was computed from plus
// the index vectors.
type entry struct {
	Size      int64   `msgpack:"size"`
	ModTime   int64   `msgpack:"mtime"`
	Tells     []int64 `msgpack:"tells"`
	Residuals []int64 `msgpack:"residuals"`
	Explicits []bool  `msgpack:"explicits"`
}

// OpenCache opens (or creates) a cache under dir.
func OpenCache(dir string) (*Cache, error) {
	db, err := pebble.Open(dir, &pebble.Options{})
	if err != nil {
		return nil, err
	}
	return &Cache{db: db}, nil
}

// key is the file's absolute path; identity beyond the path lives in the
// entry so staleness is detected on Get.
func key(path string) ([]byte, os.FileInfo, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, nil, err
	}
	fi, err := os.Stat(abs)
	if err != nil {
		return nil, nil, err
	}
	return []byte(abs), fi, nil
}

// Get returns the cached index for path if the file still matches the
// identity recorded with it.
func (c *Cache) Get(path string) (*rp66.Index, bool) {
	k, fi, err := key(path)
	if err != nil {
		return nil, false
	}

	value, closer, err := c.db.Get(k)
	if err != nil {
		return nil, false
	}
	defer closer.Close()

	var e entry
	if err := msgpack.Unmarshal(value, &e); err != nil {
		return nil, false
	}
	if e.Size != fi.Size() || e.ModTime != fi.ModTime().UnixNano() {
		return nil, false
	}
	if len(e.Tells) != len(e.Residuals) || len(e.Tells) != len(e.Explicits) {
		return nil, false
	}

	return &rp66.Index{
		Tells:     e.Tells,
		Residuals: e.Residuals,
		Explicits: e.Explicits,
	}, true
}

// Put stores the index for path under the file's current identity.
func (c *Cache) Put(path string, ix *rp66.Index) error {
	k, fi, err := key(path)
	if err != nil {
		return err
	}

	value, err := msgpack.Marshal(entry{
		Size:      fi.Size(),
		ModTime:   fi.ModTime().UnixNano(),
		Tells:     ix.Tells,
		Residuals: ix.Residuals,
		Explicits: ix.Explicits,
	})
	if err != nil {
		return err
	}
	return c.db.Set(k, value, pebble.Sync)
}

// Drop removes the entry for path, if any.
func (c *Cache) Drop(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	err = c.db.Delete([]byte(abs), pebble.Sync)
	if errors.Is(err, pebble.ErrNotFound) {
		return nil
	}
	return err
}

// Close flushes and closes the underlying store.
func (c *Cache) Close() error {
	return c.db.Close()
}
