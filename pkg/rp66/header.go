package rp66

import (
	"encoding/binary"

	"github.com/jokva/dlisio/pkg/dliserr"
)

const (
	// VRLSize is the size of a visible record header.
	VRLSize = 4

	// LRSHSize is the size of a logical record segment header.
	LRSHSize = 4
)

// VisibleRecordHeader frames a visible record: total length (header
// included), a 0xFF pad byte and the format version, which must be 1.
type VisibleRecordHeader struct {
	Length  uint16
	Version uint8
}

// ParseVRL parses a visible record header. tell is the absolute offset of
// the header, used for error context only.
func ParseVRL(b []byte, tell int64) (VisibleRecordHeader, error) {
	var vrl VisibleRecordHeader

	if len(b) < VRLSize {
		return vrl, dliserr.At(dliserr.Truncated, tell,
			"visible record header needs %d bytes, have %d", VRLSize, len(b))
	}

	vrl.Length = binary.BigEndian.Uint16(b[0:2])
	vrl.Version = b[3]

	if b[2] != 0xFF {
		return vrl, dliserr.At(dliserr.Inconsistent, tell,
			"visible record pad byte 0x%02X, expected 0xFF", b[2])
	}
	if vrl.Version != 1 {
		return vrl, dliserr.At(dliserr.Inconsistent, tell,
			"VRL version %d unsupported", vrl.Version)
	}
	if vrl.Length <= VRLSize {
		return vrl, dliserr.At(dliserr.UnexpectedValue, tell,
			"visible record length %d too small", vrl.Length)
	}
	return vrl, nil
}

// SegmentAttrs is the attribute byte of a logical record segment header.
type SegmentAttrs uint8

const (
	AttrExplicit         SegmentAttrs = 1 << 7
	AttrPredecessor      SegmentAttrs = 1 << 6
	AttrSuccessor        SegmentAttrs = 1 << 5
	AttrEncrypted        SegmentAttrs = 1 << 4
	AttrEncryptionPacket SegmentAttrs = 1 << 3
	AttrChecksum         SegmentAttrs = 1 << 2
	AttrTrailingLen      SegmentAttrs = 1 << 1
	AttrPadding          SegmentAttrs = 1 << 0
)

func (a SegmentAttrs) Explicit() bool         { return a&AttrExplicit != 0 }
func (a SegmentAttrs) Predecessor() bool      { return a&AttrPredecessor != 0 }
func (a SegmentAttrs) Successor() bool        { return a&AttrSuccessor != 0 }
func (a SegmentAttrs) Encrypted() bool        { return a&AttrEncrypted != 0 }
func (a SegmentAttrs) EncryptionPacket() bool { return a&AttrEncryptionPacket != 0 }
func (a SegmentAttrs) Checksum() bool         { return a&AttrChecksum != 0 }
func (a SegmentAttrs) TrailingLen() bool      { return a&AttrTrailingLen != 0 }
func (a SegmentAttrs) Padding() bool          { return a&AttrPadding != 0 }

// LogicalRecordSegmentHeader introduces one segment: total segment length
// (header included), attribute bits and the logical record type.
type LogicalRecordSegmentHeader struct {
	Length uint16
	Attrs  SegmentAttrs
	Type   uint8
}

// ParseLRSH parses a logical record segment header. tell is the absolute
// offset of the header, used for error context only.
func ParseLRSH(b []byte, tell int64) (LogicalRecordSegmentHeader, error) {
	var lrsh LogicalRecordSegmentHeader

	if len(b) < LRSHSize {
		return lrsh, dliserr.At(dliserr.Truncated, tell,
			"segment header needs %d bytes, have %d", LRSHSize, len(b))
	}

	lrsh.Length = binary.BigEndian.Uint16(b[0:2])
	lrsh.Attrs = SegmentAttrs(b[2])
	lrsh.Type = b[3]

	if lrsh.Length < LRSHSize {
		return lrsh, dliserr.At(dliserr.UnexpectedValue, tell,
			"segment length %d too small", lrsh.Length)
	}
	return lrsh, nil
}
