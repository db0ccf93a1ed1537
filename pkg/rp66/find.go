package rp66

import (
	"bytes"

	"github.com/jokva/dlisio/pkg/dliserr"
)

// searchLimit bounds how far the locators look. If the label or the first
// envelope has not shown up within 200 bytes the file needs manual
// intervention anyway.
const searchLimit = 200

// structureOffset is the position of the structure field within the label:
// the sequence number and version precede it.
const structureOffset = 9

// FindSUL returns the offset of the first byte of the Storage Unit Label.
// In a conforming file this is 0, but some files carry leading garbage; the
// label is located by searching for the literal RECORD structure field
// within the first 200 bytes.
func FindSUL(b []byte) (int64, error) {
	limit := len(b)
	if limit > searchLimit {
		limit = searchLimit
	}

	at := bytes.Index(b[:limit], []byte("RECORD"))
	if at < 0 {
		return 0, dliserr.New(dliserr.NotFound,
			"searched %d bytes, but could not find storage label", limit)
	}
	if at < structureOffset {
		return 0, dliserr.At(dliserr.Inconsistent, int64(at),
			"found RECORD at tell %d, but expected tell >= %d", at, structureOffset)
	}
	return int64(at - structureOffset), nil
}

// FindVRL returns the offset of the first visible record header at or after
// from. The first envelope does not always immediately follow the label, but
// its (length, 0xFF, 0x01) triple is stable, so the 0xFF 0x01 pair is
// searched for within 200 bytes and the preceding length field backed over.
func FindVRL(b []byte, from int64) (int64, error) {
	if from < 0 || from > int64(len(b)) {
		return 0, dliserr.At(dliserr.UnexpectedValue, from,
			"search start %d not in [0, %d]", from, len(b))
	}

	window := b[from:]
	if len(window) > searchLimit {
		window = window[:searchLimit]
	}

	// bytes.Index compares unsigned octets, so 0xFF cannot sign-promote
	// its way into a false mismatch
	at := bytes.Index(window, []byte{0xFF, 0x01})
	if at < 0 {
		return 0, dliserr.At(dliserr.NotFound, from,
			"searched %d bytes, but could not find a visible record envelope", len(window))
	}
	// the two-byte length field precedes the 0xFF 0x01 pair
	if at < 2 {
		return 0, dliserr.At(dliserr.Inconsistent, from+int64(at),
			"found envelope pattern at tell %d, but expected tell >= %d", from+int64(at), from+2)
	}
	return from + int64(at) - 2, nil
}
