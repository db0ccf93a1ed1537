package rp66

import (
	"github.com/jokva/dlisio/pkg/dliserr"
)

// Source is the random-access byte source the scanner reads from. ReadAt
// must be exact: a read that cannot be satisfied in full is an error.
type Source interface {
	ReadAt(p []byte, off int64) (int, error)
	Size() int64
}

// IndexEntry marks the start of one logical record: the tell of its first
// segment header, the bytes then remaining in the enclosing visible record,
// and whether the record is explicitly formatted.
type IndexEntry struct {
	Tell     int64
	Residual int64
	Explicit bool
}

// Index is the scan result: one entry per logical record, as parallel
// vectors. Parallel vectors rather than a struct slice because reindexing
// feeds tells and residuals back in independently.
type Index struct {
	Tells     []int64
	Residuals []int64
	Explicits []bool
}

// Len returns the number of logical records.
func (ix *Index) Len() int {
	return len(ix.Tells)
}

// Entry returns the i-th index entry.
func (ix *Index) Entry(i int) IndexEntry {
	return IndexEntry{
		Tell:     ix.Tells[i],
		Residual: ix.Residuals[i],
		Explicit: ix.Explicits[i],
	}
}

func (ix *Index) append(tell, residual int64, explicit bool) {
	if len(ix.Tells) == cap(ix.Tells) {
		// grow all three vectors together by a factor of 1.5
		n := cap(ix.Tells) + cap(ix.Tells)/2 + 1
		ix.Tells = append(make([]int64, 0, n), ix.Tells...)
		ix.Residuals = append(make([]int64, 0, n), ix.Residuals...)
		ix.Explicits = append(make([]bool, 0, n), ix.Explicits...)
	}
	ix.Tells = append(ix.Tells, tell)
	ix.Residuals = append(ix.Residuals, residual)
	ix.Explicits = append(ix.Explicits, explicit)
}

// readExact reads len(p) bytes at off, translating failures into the
// decode-error taxonomy.
func readExact(src Source, p []byte, off int64) error {
	if off+int64(len(p)) > src.Size() {
		return dliserr.At(dliserr.Truncated, off,
			"need %d bytes, file ends at %d", len(p), src.Size())
	}
	if _, err := src.ReadAt(p, off); err != nil {
		return &dliserr.Error{Kind: dliserr.IO, Tell: off, Record: -1, Msg: err.Error()}
	}
	return nil
}

// IndexRecords scans the file from start (typically the first visible
// record header) to the end, recording an entry for every segment that
// begins a logical record.
//
// The scan walks headers only, skipping segment bodies, and maintains the
// residual byte count of the current visible record. A segment claiming
// more bytes than its visible record has left is Inconsistent; a header
// extending past the end of the file is Truncated; visible records are
// strictly sequential, never overlapping.
func IndexRecords(src Source, start int64) (*Index, error) {
	size := src.Size()

	// assume ~4K per record on average: few reallocations without
	// overshooting too much
	guess := size / 4096
	if guess < 8 {
		guess = 8
	}
	idx := &Index{
		Tells:     make([]int64, 0, guess),
		Residuals: make([]int64, 0, guess),
		Explicits: make([]bool, 0, guess),
	}

	var hdr [LRSHSize]byte
	tell := start
	residual := int64(0)
	record := 0

	for tell < size {
		if residual == 0 {
			if err := readExact(src, hdr[:], tell); err != nil {
				return nil, err
			}
			vrl, err := ParseVRL(hdr[:], tell)
			if err != nil {
				return nil, err
			}
			if tell+int64(vrl.Length) > size {
				return nil, dliserr.At(dliserr.Truncated, tell,
					"visible record of length %d extends past end of file", vrl.Length)
			}
			tell += VRLSize
			residual = int64(vrl.Length) - VRLSize
			continue
		}

		if err := readExact(src, hdr[:], tell); err != nil {
			return nil, err
		}
		lrsh, err := ParseLRSH(hdr[:], tell)
		if err != nil {
			return nil, err
		}

		if int64(lrsh.Length) > residual {
			return nil, dliserr.InRecord(dliserr.Inconsistent, record, tell,
				"segment length %d exceeds visible record residual %d",
				lrsh.Length, residual)
		}

		if !lrsh.Attrs.Predecessor() {
			idx.append(tell, residual, lrsh.Attrs.Explicit())
		}
		if !lrsh.Attrs.Successor() {
			record++
		}

		tell += int64(lrsh.Length)
		residual -= int64(lrsh.Length)
	}

	if residual != 0 {
		return nil, dliserr.At(dliserr.Truncated, tell,
			"visible record claims %d more bytes than the file has", residual)
	}
	return idx, nil
}
