package dlis

import (
	"errors"

	"github.com/jokva/dlisio/pkg/dliserr"
	"github.com/jokva/dlisio/pkg/mmap"
	"github.com/jokva/dlisio/pkg/objects"
	"github.com/jokva/dlisio/pkg/rp66"
)

// Stream is an open DLIS file: the byte source, the parsed storage label
// and the index of logical record boundaries. Methods are not safe for
// concurrent use; callers serialize, or open one Stream per goroutine.
type Stream struct {
	src     mmap.Source
	path    string
	sul     rp66.StorageUnitLabel
	sulWarn error
	vrl     rp66.VisibleRecordHeader
	index   *rp66.Index

	// contiguous is cleared by Reindex: caller-supplied tells cannot be
	// assumed adjacent, so the reassembler stops verifying that each
	// record ends where the next begins
	contiguous bool
}

type openOptions struct {
	src       mmap.Source
	index     *rp66.Index
	skipIndex bool
}

// Option configures Open.
type Option func(*openOptions)

// WithSource decodes from a caller-supplied byte source instead of mapping
// path. The stream takes ownership of the source.
func WithSource(src mmap.Source) Option {
	return func(o *openOptions) { o.src = src }
}

// WithIndex installs a pre-built index (for instance from a cache) instead
// of scanning the file.
func WithIndex(ix *rp66.Index) Option {
	return func(o *openOptions) { o.index = ix }
}

// WithoutIndex defers the scan. Len reports zero until Reindex installs an
// index.
func WithoutIndex() Option {
	return func(o *openOptions) { o.skipIndex = true }
}

// Open maps the file, locates and parses the storage unit label, finds the
// first visible record envelope and scans the record index. On error
// nothing leaks: the source is closed even when construction fails halfway.
func Open(path string, opts ...Option) (*Stream, error) {
	var o openOptions
	for _, opt := range opts {
		opt(&o)
	}

	src := o.src
	if src == nil {
		m, err := mmap.Open(path)
		if err != nil {
			return nil, err
		}
		src = m
	}

	s, err := open(src, path, o)
	if err != nil {
		src.Close()
		return nil, err
	}
	return s, nil
}

func open(src mmap.Source, path string, o openOptions) (*Stream, error) {
	// the label and the first envelope both live within the first few
	// hundred bytes; one prefix read covers every locator
	prefix := make([]byte, min64(src.Size(), rp66.SULSize+2*200))
	if _, err := src.ReadAt(prefix, 0); err != nil {
		return nil, &dliserr.Error{Kind: dliserr.IO, Tell: 0, Record: -1, Msg: err.Error()}
	}

	sulAt, err := rp66.FindSUL(prefix)
	if err != nil {
		return nil, err
	}
	if sulAt+rp66.SULSize > int64(len(prefix)) {
		return nil, dliserr.At(dliserr.Truncated, sulAt,
			"file ends inside the storage unit label")
	}

	s := &Stream{src: src, path: path, contiguous: true}

	s.sul, err = rp66.ParseSUL(prefix[sulAt : sulAt+rp66.SULSize])
	if err != nil {
		if !errors.Is(err, dliserr.Inconsistent) {
			return nil, err
		}
		// label deviates but still reads as version 1; remember the
		// complaint and carry on
		s.sulWarn = err
	}

	vrlAt, err := rp66.FindVRL(prefix, sulAt+rp66.SULSize)
	if err != nil {
		return nil, err
	}
	if vrlAt+rp66.VRLSize > int64(len(prefix)) {
		return nil, dliserr.At(dliserr.Truncated, vrlAt,
			"file ends inside the first visible record header")
	}
	s.vrl, err = rp66.ParseVRL(prefix[vrlAt:vrlAt+rp66.VRLSize], vrlAt)
	if err != nil {
		return nil, err
	}

	switch {
	case o.index != nil:
		s.index = o.index
		s.contiguous = false
	case o.skipIndex:
		s.index = &rp66.Index{}
		s.contiguous = false
	default:
		s.index, err = rp66.IndexRecords(src, vrlAt)
		if err != nil {
			return nil, err
		}
	}
	return s, nil
}

func min64(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}

// StorageLabel returns the parsed storage unit label.
func (s *Stream) StorageLabel() rp66.StorageUnitLabel {
	return s.sul
}

// LabelWarning returns the non-fatal complaint recorded while parsing the
// storage label, or nil if the label was clean.
func (s *Stream) LabelWarning() error {
	return s.sulWarn
}

// FirstVRL returns the first visible record header, as located at open.
func (s *Stream) FirstVRL() rp66.VisibleRecordHeader {
	return s.vrl
}

// Index exposes the current record index, e.g. for caching.
func (s *Stream) Index() *rp66.Index {
	return s.index
}

// Len returns the number of logical records in the index.
func (s *Stream) Len() int {
	return s.index.Len()
}

// Reindex replaces the in-memory index with caller-supplied tells and
// residuals, typically a manual recovery of a broken file. Both must be
// non-empty, of equal length, and non-negative. Explicit flags are unknown
// for a caller-built index and read as false.
func (s *Stream) Reindex(tells, residuals []int64) error {
	if len(tells) == 0 {
		return dliserr.New(dliserr.UnexpectedValue, "tells must be non-empty")
	}
	if len(residuals) == 0 {
		return dliserr.New(dliserr.UnexpectedValue, "residuals must be non-empty")
	}
	if len(tells) != len(residuals) {
		return dliserr.New(dliserr.UnexpectedValue,
			"reindex requires len(tells) (which is %d) == len(residuals) (which is %d)",
			len(tells), len(residuals))
	}
	for i, tell := range tells {
		if tell < 0 {
			return dliserr.New(dliserr.UnexpectedValue,
				"tells[%d] is negative (%d)", i, tell)
		}
		if residuals[i] < 0 {
			return dliserr.New(dliserr.UnexpectedValue,
				"residuals[%d] is negative (%d)", i, residuals[i])
		}
	}

	ix := &rp66.Index{
		Tells:     append([]int64(nil), tells...),
		Residuals: append([]int64(nil), residuals...),
		Explicits: make([]bool, len(tells)),
	}
	s.index = ix
	s.contiguous = false
	return nil
}

// Extract reassembles the given records, skipping encrypted ones.
func (s *Stream) Extract(indices []int) ([]*Record, error) {
	recs := make([]*Record, 0, len(indices))
	for _, i := range indices {
		rec, err := s.At(i)
		if err != nil {
			return nil, err
		}
		if rec.Encrypted() {
			continue
		}
		recs = append(recs, rec)
	}
	return recs, nil
}

// ParseObjects parses each record's payload into an object set, skipping
// encrypted records. Records are expected to be explicitly formatted;
// callers filter with Explicit.
func (s *Stream) ParseObjects(recs []*Record) ([]*objects.ObjectSet, error) {
	sets := make([]*objects.ObjectSet, 0, len(recs))
	for _, rec := range recs {
		if rec.Encrypted() {
			continue
		}
		set, err := objects.Parse(rec.Data)
		if err != nil {
			return nil, err
		}
		sets = append(sets, set)
	}
	return sets, nil
}

// Close releases the byte source. Safe to call more than once.
func (s *Stream) Close() error {
	if s.src == nil {
		return nil
	}
	err := s.src.Close()
	s.src = nil
	return err
}
