// Package dlistest builds synthetic DLIS files for tests: a storage unit
// label followed by visible records whose lengths are computed from their
// segments, so scenarios stay declarative.
package dlistest

import (
	"encoding/binary"
	"fmt"

	"github.com/jokva/dlisio/pkg/rp66"
)

// Segment is one logical record segment; the header length is derived from
// the body.
type Segment struct {
	Attrs rp66.SegmentAttrs
	Type  uint8
	Body  []byte
}

// VR is one visible record holding the given segments.
type VR struct {
	Segments []Segment
}

// SUL renders a conforming 80-byte storage unit label.
func SUL(seq int, id string) []byte {
	s := fmt.Sprintf("%4dV1.00RECORD%5d%-60s", seq, 8192, id)
	if len(s) != rp66.SULSize {
		panic(fmt.Sprintf("storage label is %d bytes, id too long?", len(s)))
	}
	return []byte(s)
}

// Build concatenates a label and visible records into a complete file
// image.
func Build(sul []byte, vrs ...VR) []byte {
	out := append([]byte(nil), sul...)
	for _, vr := range vrs {
		length := rp66.VRLSize
		for _, seg := range vr.Segments {
			length += rp66.LRSHSize + len(seg.Body)
		}

		out = binary.BigEndian.AppendUint16(out, uint16(length))
		out = append(out, 0xFF, 0x01)

		for _, seg := range vr.Segments {
			out = binary.BigEndian.AppendUint16(out, uint16(rp66.LRSHSize+len(seg.Body)))
			out = append(out, uint8(seg.Attrs), seg.Type)
			out = append(out, seg.Body...)
		}
	}
	return out
}
