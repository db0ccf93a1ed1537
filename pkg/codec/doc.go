// Package codec decodes the DLIS v1 representation codes.
//
// DLIS serializes every primitive value as one of 27 representation codes.
// All multi-byte integers are big-endian. The codes are:
//
//	 1  FSHORT  16-bit low-precision float
//	 2  FSINGL  IEEE-754 single
//	 3  FSING1  validated single (V, A)
//	 4  FSING2  validated single (V, A, B)
//	 5  ISINGL  IBM System/360 single
//	 6  VSINGL  VAX F single
//	 7  FDOUBL  IEEE-754 double
//	 8  FDOUB1  validated double (V, A)
//	 9  FDOUB2  validated double (V, A, B)
//	10  CSINGL  single complex (real, imag)
//	11  CDOUBL  double complex (real, imag)
//	12  SSHORT  8-bit two's complement
//	13  SNORM   16-bit two's complement
//	14  SLONG   32-bit two's complement
//	15  USHORT  8-bit unsigned
//	16  UNORM   16-bit unsigned
//	17  ULONG   32-bit unsigned
//	18  UVARI   1-, 2- or 4-byte unsigned, discriminated by the top two
//	            bits of the first byte (0x -> 1 byte, 10 -> 2, 11 -> 4)
//	19  IDENT   length-prefixed string (USHORT length)
//	20  ASCII   length-prefixed string (UVARI length)
//	21  DTIME   8-byte date-time with timezone nibble
//	22  ORIGIN  UVARI
//	23  OBNAME  (origin UVARI, copy USHORT, id IDENT)
//	24  OBJREF  (type IDENT, name OBNAME)
//	25  ATTREF  (type IDENT, name OBNAME, label IDENT)
//	26  STATUS  USHORT, 0 or 1
//	27  UNITS   as IDENT, semantically a units expression
//
// Decoding is cursor-based: a Cursor wraps a byte slice, every decoder
// consumes from it and fails with dliserr.Truncated when it would read past
// the end, or dliserr.UnexpectedValue for out-of-range fields.
//
// The encoders exist for building fixtures and for round-trip testing; this
// library never writes DLIS files.
package codec
