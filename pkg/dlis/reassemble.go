package dlis

import (
	"errors"

	"github.com/jokva/dlisio/pkg/dliserr"
	"github.com/jokva/dlisio/pkg/rp66"
)

// fmtenc: the record type only cares about encryption and formatting, so
// only those bits are kept on the reassembled record. Everything else
// describes how to read a specific segment.
const fmtenc = rp66.AttrExplicit | rp66.AttrEncrypted

// At reassembles the i-th logical record.
//
// The reassembler seeks to the record's first segment header and loops:
// read a segment header, append its body, strip trailing length, checksum
// and padding in that order, and follow the successor bit across visible
// record boundaries until the record ends. A segment claiming more bytes
// than its visible record has left is fatal; a record that does not end
// exactly where the next index entry begins is NonContiguous.
func (s *Stream) At(i int) (*Record, error) {
	if s.src == nil {
		return nil, dliserr.New(dliserr.IO, "stream is closed")
	}
	if i < 0 || i >= s.index.Len() {
		return nil, dliserr.New(dliserr.UnexpectedValue,
			"record index %d not in [0, %d)", i, s.index.Len())
	}

	tell := s.index.Tells[i]
	remaining := s.index.Residuals[i]

	// segment attribute and type accumulators; records are rarely more
	// than a handful of segments
	attrs := make([]rp66.SegmentAttrs, 0, 8)
	types := make([]uint8, 0, 8)
	data := make([]byte, 0, 8192)
	consistent := true

	var hdr [rp66.LRSHSize]byte

	chop := func(n int) {
		if n > len(data) {
			// a segment too short for its own trailer; keep what
			// is left and mark the record
			consistent = false
			data = data[:0]
			return
		}
		data = data[:len(data)-n]
	}

	for {
		for remaining > 0 {
			if err := s.read(hdr[:], tell, i); err != nil {
				return nil, err
			}
			lrsh, err := rp66.ParseLRSH(hdr[:], tell)
			if err != nil {
				return nil, inRecord(err, i)
			}

			remaining -= int64(lrsh.Length)
			body := int64(lrsh.Length) - rp66.LRSHSize

			if remaining < 0 {
				// mismatch between the visible record length and
				// the segment length; no way to tell which lies
				return nil, dliserr.InRecord(dliserr.Inconsistent, i, tell,
					"segment length %d exceeds visible record residual %d",
					lrsh.Length, remaining+int64(lrsh.Length))
			}

			attrs = append(attrs, lrsh.Attrs)
			types = append(types, lrsh.Type)
			tell += rp66.LRSHSize

			prev := len(data)
			data = append(data, make([]byte, body)...)
			if err := s.read(data[prev:], tell, i); err != nil {
				return nil, err
			}
			tell += body

			// chop the trailing length and checksum; the trailing
			// length is read and discarded, not verified
			if lrsh.Attrs.TrailingLen() {
				chop(2)
			}
			if lrsh.Attrs.Checksum() {
				chop(2)
			}
			if lrsh.Attrs.Padding() {
				if len(data) == 0 {
					consistent = false
				} else {
					// the pad count includes the count byte itself
					chop(int(data[len(data)-1]))
				}
			}

			if lrsh.Attrs.Successor() {
				continue
			}

			// last segment: every record must end exactly where the
			// next one starts, or the lengths lied
			if s.contiguous && i+1 < s.index.Len() {
				next := tell
				if remaining == 0 {
					next += rp66.VRLSize
				}
				if next != s.index.Tells[i+1] {
					return nil, dliserr.InRecord(dliserr.NonContiguous, i, s.index.Tells[i],
						"ends prematurely at %d, not at record %d (tell %d)",
						tell, i+1, s.index.Tells[i+1])
				}
			}

			if !segmentsConsistent(attrs, types) {
				consistent = false
			}

			return &Record{
				Attributes: attrs[0] & fmtenc,
				Type:       types[0],
				Data:       data,
				Consistent: consistent,
			}, nil
		}

		// visible record exhausted mid-record; the next bytes must be a
		// fresh envelope
		if err := s.read(hdr[:], tell, i); err != nil {
			return nil, err
		}
		vrl, err := rp66.ParseVRL(hdr[:], tell)
		if err != nil {
			if !errors.Is(err, dliserr.Inconsistent) {
				return nil, inRecord(err, i)
			}
			// a bad pad byte or version mid-file is suspicious but
			// the length field still frames the data
			consistent = false
		}
		tell += rp66.VRLSize
		remaining = int64(vrl.Length) - rp66.VRLSize
	}
}

// read fills p from the source at off, translating failures into the error
// taxonomy with the record index attached.
func (s *Stream) read(p []byte, off int64, record int) error {
	if off+int64(len(p)) > s.src.Size() {
		return dliserr.InRecord(dliserr.Truncated, record, off,
			"need %d bytes, file ends at %d", len(p), s.src.Size())
	}
	if _, err := s.src.ReadAt(p, off); err != nil {
		return &dliserr.Error{Kind: dliserr.IO, Tell: off, Record: record, Msg: err.Error()}
	}
	return nil
}

func inRecord(err error, record int) error {
	var derr *dliserr.Error
	if errors.As(err, &derr) {
		e := *derr
		e.Record = record
		return &e
	}
	return err
}

// segmentsConsistent checks the discipline the segments of one record must
// keep: all agree on type and on the explicit/encrypted bits, the first has
// no predecessor, the last no successor, and interior segments have both.
func segmentsConsistent(attrs []rp66.SegmentAttrs, types []uint8) bool {
	if len(attrs) == 0 {
		return false
	}
	for _, typ := range types {
		if typ != types[0] {
			return false
		}
	}
	for _, a := range attrs {
		if a&fmtenc != attrs[0]&fmtenc {
			return false
		}
	}
	for k, a := range attrs {
		if k == 0 {
			if a.Predecessor() {
				return false
			}
		} else if !a.Predecessor() {
			return false
		}
		if k == len(attrs)-1 {
			if a.Successor() {
				return false
			}
		} else if !a.Successor() {
			return false
		}
	}
	return true
}
