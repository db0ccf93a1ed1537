package dlis

import (
	"github.com/jokva/dlisio/pkg/rp66"
)

// Record is one reassembled logical record. Data is the concatenation of
// its segment payloads with padding, checksums and trailing lengths
// stripped; the caller owns it.
//
// Attributes keeps only the bits that describe the record rather than the
// segmentation: explicit formatting and encryption. Consistent is false
// when the segments disagreed among themselves (type, format or encryption
// flips, broken predecessor/successor chain) but the bytes could still be
// reassembled.
type Record struct {
	Attributes rp66.SegmentAttrs
	Type       uint8
	Data       []byte
	Consistent bool
}

// Explicit reports whether the record payload is an explicitly-formatted
// object set.
func (r *Record) Explicit() bool {
	return r.Attributes.Explicit()
}

// Encrypted reports whether the record payload is encrypted. Encrypted
// records are reassembled, never decoded.
func (r *Record) Encrypted() bool {
	return r.Attributes.Encrypted()
}
