// Package dlis is the public surface of the reader: open a DLIS v1 file,
// access its storage label, and materialize logical records by index.
//
// Opening a file locates and parses the storage unit label, finds the first
// visible record envelope and scans the whole file into an index of logical
// record boundaries. Records are then reassembled on demand: At seeks to
// the record's first segment header and concatenates segment payloads across
// visible record boundaries, stripping trailing lengths, checksums and
// padding as the segment attributes dictate. Records own their payload and
// may outlive the stream's internal buffers, but not the stream itself.
//
// A Stream is not safe for concurrent use; callers serialize At. For
// parallel decoding, open one Stream per goroutine over the same path.
package dlis
