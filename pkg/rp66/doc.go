// Package rp66 reads the DLIS v1 (RP66) physical envelope.
//
// A DLIS file is layered: an 80-byte Storage Unit Label identifies the file,
// then a sequence of Visible Records frame the byte stream, each introduced
// by a 4-byte header (big-endian length, 0xFF, format version 1). Visible
// Records are subdivided into Logical Record Segments, each with its own
// 4-byte header (big-endian length, attribute bits, type). Consecutive
// segments chained by the predecessor/successor bits form a Logical Record,
// which may straddle any number of Visible Record boundaries.
//
// This package locates the label and the first visible envelope, parses the
// three header kinds, and scans the whole file into an index of logical
// record boundaries: for every record, the tell of its first segment header
// and the bytes then remaining in the enclosing Visible Record. The index is
// what makes random access by record number possible without re-reading the
// file.
package rp66
