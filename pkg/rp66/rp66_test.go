package rp66

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jokva/dlisio/pkg/dliserr"
	"github.com/jokva/dlisio/pkg/mmap"
)

func validSUL() []byte {
	return []byte(fmt.Sprintf("%4dV1.00RECORD%5d%-60s", 1, 8192, "Default Storage Set"))
}

func TestParseSUL(t *testing.T) {
	sul, err := ParseSUL(validSUL())
	require.NoError(t, err)

	assert.Equal(t, 1, sul.Sequence)
	assert.Equal(t, 1, sul.Major)
	assert.Equal(t, 0, sul.Minor)
	assert.Equal(t, "1.0", sul.Version())
	assert.Equal(t, LayoutRecord, sul.Layout)
	assert.Equal(t, int64(8192), sul.MaxLen)
	assert.Equal(t, "Default Storage Set", sul.ID)
}

func TestParseSULWarnsButReturnsLabel(t *testing.T) {
	t.Run("structure not RECORD", func(t *testing.T) {
		b := validSUL()
		copy(b[9:15], "STRICT")

		sul, err := ParseSUL(b)
		assert.ErrorIs(t, err, dliserr.Inconsistent)
		assert.Equal(t, LayoutUnknown, sul.Layout)
		assert.Equal(t, 1, sul.Major, "label must still be usable")
	})

	t.Run("maxlen not numeric", func(t *testing.T) {
		b := validSUL()
		copy(b[15:20], "?????")

		sul, err := ParseSUL(b)
		assert.ErrorIs(t, err, dliserr.Inconsistent)
		assert.Equal(t, int64(0), sul.MaxLen)
	})
}

func TestParseSULFatal(t *testing.T) {
	t.Run("short buffer", func(t *testing.T) {
		_, err := ParseSUL(validSUL()[:40])
		assert.ErrorIs(t, err, dliserr.Truncated)
	})

	t.Run("sequence not numeric", func(t *testing.T) {
		b := validSUL()
		copy(b[0:4], "abcd")
		_, err := ParseSUL(b)
		assert.ErrorIs(t, err, dliserr.UnexpectedValue)
	})

	t.Run("version malformed", func(t *testing.T) {
		b := validSUL()
		copy(b[4:9], "1.00 ")
		_, err := ParseSUL(b)
		assert.ErrorIs(t, err, dliserr.UnexpectedValue)
	})

	t.Run("version 2 not supported", func(t *testing.T) {
		b := validSUL()
		copy(b[4:9], "V2.00")
		_, err := ParseSUL(b)
		assert.ErrorIs(t, err, dliserr.NotImplemented)
	})
}

func TestFindSUL(t *testing.T) {
	t.Run("conforming file", func(t *testing.T) {
		at, err := FindSUL(validSUL())
		require.NoError(t, err)
		assert.Equal(t, int64(0), at)
	})

	t.Run("leading garbage", func(t *testing.T) {
		b := append([]byte("GARBAGE12345"), validSUL()...)
		at, err := FindSUL(b)
		require.NoError(t, err)
		assert.Equal(t, int64(12), at)
	})

	t.Run("needle too early", func(t *testing.T) {
		b := append([]byte("RECORD"), validSUL()...)
		_, err := FindSUL(b)
		assert.ErrorIs(t, err, dliserr.Inconsistent)
	})

	t.Run("not within search window", func(t *testing.T) {
		b := append(make([]byte, 201), validSUL()...)
		_, err := FindSUL(b)
		assert.ErrorIs(t, err, dliserr.NotFound)
	})
}

func TestFindVRL(t *testing.T) {
	t.Run("immediately after label", func(t *testing.T) {
		b := append(validSUL(), 0x00, 0x14, 0xFF, 0x01)
		at, err := FindVRL(b, SULSize)
		require.NoError(t, err)
		assert.Equal(t, int64(SULSize), at)
	})

	t.Run("after slack bytes", func(t *testing.T) {
		b := append(validSUL(), 0x00, 0x00, 0x00, 0x00)
		b = append(b, 0x00, 0x14, 0xFF, 0x01)
		at, err := FindVRL(b, SULSize)
		require.NoError(t, err)
		assert.Equal(t, int64(SULSize+4), at)
	})

	t.Run("0xFF compared unsigned", func(t *testing.T) {
		// a 0xFF in the length field must not shadow the envelope pair
		b := append(validSUL(), 0xFF, 0x14, 0xFF, 0x01)
		at, err := FindVRL(b, SULSize)
		require.NoError(t, err)
		assert.Equal(t, int64(SULSize), at)
	})

	t.Run("no room for the length field", func(t *testing.T) {
		_, err := FindVRL([]byte{0xFF, 0x01, 0x00, 0x00}, 0)
		assert.ErrorIs(t, err, dliserr.Inconsistent)
	})

	t.Run("absent", func(t *testing.T) {
		_, err := FindVRL(make([]byte, 300), 0)
		assert.ErrorIs(t, err, dliserr.NotFound)
	})

	t.Run("start out of range", func(t *testing.T) {
		_, err := FindVRL(make([]byte, 10), 11)
		assert.ErrorIs(t, err, dliserr.UnexpectedValue)
	})
}

func TestParseVRL(t *testing.T) {
	vrl, err := ParseVRL([]byte{0x00, 0x14, 0xFF, 0x01}, 80)
	require.NoError(t, err)
	assert.Equal(t, uint16(20), vrl.Length)
	assert.Equal(t, uint8(1), vrl.Version)

	_, err = ParseVRL([]byte{0x00, 0x14, 0x00, 0x01}, 80)
	assert.ErrorIs(t, err, dliserr.Inconsistent)

	_, err = ParseVRL([]byte{0x00, 0x14, 0xFF, 0x02}, 80)
	require.Error(t, err)
	assert.ErrorIs(t, err, dliserr.Inconsistent)
	assert.Contains(t, err.Error(), "VRL version 2 unsupported")

	_, err = ParseVRL([]byte{0x00, 0x04, 0xFF, 0x01}, 80)
	assert.ErrorIs(t, err, dliserr.UnexpectedValue)

	_, err = ParseVRL([]byte{0x00, 0x14}, 80)
	assert.ErrorIs(t, err, dliserr.Truncated)
}

func TestParseLRSH(t *testing.T) {
	lrsh, err := ParseLRSH([]byte{0x00, 0x10, 0xE1, 0x05}, 84)
	require.NoError(t, err)
	assert.Equal(t, uint16(16), lrsh.Length)
	assert.Equal(t, uint8(5), lrsh.Type)
	assert.True(t, lrsh.Attrs.Explicit())
	assert.True(t, lrsh.Attrs.Predecessor())
	assert.True(t, lrsh.Attrs.Successor())
	assert.False(t, lrsh.Attrs.Encrypted())
	assert.True(t, lrsh.Attrs.Padding())

	_, err = ParseLRSH([]byte{0x00, 0x02, 0x00, 0x00}, 84)
	assert.ErrorIs(t, err, dliserr.UnexpectedValue)

	_, err = ParseLRSH([]byte{0x00}, 84)
	assert.ErrorIs(t, err, dliserr.Truncated)
}

// envelope builds SUL-free scan input: visible records of raw segments.
type segment struct {
	attrs SegmentAttrs
	typ   uint8
	body  int
}

func envelope(vrs ...[]segment) []byte {
	var out []byte
	fill := byte(0)
	for _, segs := range vrs {
		length := VRLSize
		for _, s := range segs {
			length += LRSHSize + s.body
		}
		out = append(out, byte(length>>8), byte(length), 0xFF, 0x01)
		for _, s := range segs {
			seglen := LRSHSize + s.body
			out = append(out, byte(seglen>>8), byte(seglen), byte(s.attrs), s.typ)
			for i := 0; i < s.body; i++ {
				out = append(out, fill)
				fill++
			}
		}
	}
	return out
}

func TestIndexRecords(t *testing.T) {
	t.Run("single record", func(t *testing.T) {
		src := mmap.NewBytes(envelope([]segment{{0, 0, 12}}))
		idx, err := IndexRecords(src, 0)
		require.NoError(t, err)

		require.Equal(t, 1, idx.Len())
		assert.Equal(t, IndexEntry{Tell: 4, Residual: 16, Explicit: false}, idx.Entry(0))
	})

	t.Run("segments chained across visible records", func(t *testing.T) {
		src := mmap.NewBytes(envelope(
			[]segment{{AttrSuccessor | AttrExplicit, 5, 4}},
			[]segment{{AttrPredecessor | AttrExplicit, 5, 4}},
		))
		idx, err := IndexRecords(src, 0)
		require.NoError(t, err)

		// one record: the second segment has a predecessor
		require.Equal(t, 1, idx.Len())
		assert.Equal(t, IndexEntry{Tell: 4, Residual: 8, Explicit: true}, idx.Entry(0))
	})

	t.Run("several records in one visible record", func(t *testing.T) {
		src := mmap.NewBytes(envelope(
			[]segment{{0, 1, 4}, {AttrExplicit, 2, 4}, {0, 3, 4}},
		))
		idx, err := IndexRecords(src, 0)
		require.NoError(t, err)

		require.Equal(t, 3, idx.Len())
		assert.Equal(t, []int64{4, 12, 20}, idx.Tells)
		assert.Equal(t, []int64{24, 16, 8}, idx.Residuals)
		assert.Equal(t, []bool{false, true, false}, idx.Explicits)
	})

	t.Run("scan starts at the given offset", func(t *testing.T) {
		raw := append(make([]byte, 80), envelope([]segment{{0, 0, 4}})...)
		idx, err := IndexRecords(mmap.NewBytes(raw), 80)
		require.NoError(t, err)

		require.Equal(t, 1, idx.Len())
		assert.Equal(t, int64(84), idx.Tells[0])
	})

	t.Run("segment exceeds residual", func(t *testing.T) {
		raw := envelope([]segment{{0, 0, 4}})
		raw[1] = 6 // shrink the visible record below the segment
		_, err := IndexRecords(mmap.NewBytes(raw), 0)
		assert.ErrorIs(t, err, dliserr.Inconsistent)
	})

	t.Run("visible record past end of file", func(t *testing.T) {
		raw := envelope([]segment{{0, 0, 64}})
		_, err := IndexRecords(mmap.NewBytes(raw[:20]), 0)
		assert.ErrorIs(t, err, dliserr.Truncated)
	})

	t.Run("header past end of file", func(t *testing.T) {
		raw := envelope([]segment{{0, 0, 4}})
		_, err := IndexRecords(mmap.NewBytes(raw[:2]), 0)
		assert.ErrorIs(t, err, dliserr.Truncated)
	})

	t.Run("zero-length segment", func(t *testing.T) {
		raw := envelope([]segment{{0, 0, 4}})
		raw[4], raw[5] = 0, 0
		_, err := IndexRecords(mmap.NewBytes(raw), 0)
		assert.ErrorIs(t, err, dliserr.UnexpectedValue)
	})
}
