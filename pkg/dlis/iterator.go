package dlis

// RecordIterator walks the stream's records lazily from the first index
// entry. The zero iteration pattern:
//
//	it := stream.Iter()
//	for it.Next() {
//		rec := it.Record()
//		...
//	}
//	if err := it.Err(); err != nil { ... }
type RecordIterator struct {
	s   *Stream
	i   int
	rec *Record
	err error
}

// Iter returns a lazy iterator over all records in index order.
func (s *Stream) Iter() *RecordIterator {
	return &RecordIterator{s: s}
}

// Next advances to the next record, reporting false at the end or on the
// first error.
func (it *RecordIterator) Next() bool {
	if it.err != nil || it.i >= it.s.Len() {
		return false
	}
	it.rec, it.err = it.s.At(it.i)
	if it.err != nil {
		return false
	}
	it.i++
	return true
}

// Record returns the record produced by the last successful Next.
func (it *RecordIterator) Record() *Record {
	return it.rec
}

// Err returns the error that stopped iteration, if any.
func (it *RecordIterator) Err() error {
	return it.err
}
