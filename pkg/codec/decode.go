package codec

import (
	"encoding/binary"
	"math"

	"github.com/jokva/dlisio/pkg/dliserr"
)

// FShort decodes a 16-bit low-precision float: a 12-bit two's complement
// fraction whose top bit is the sign, then a 4-bit exponent.
func (c *Cursor) FShort() (float32, error) {
	b, err := c.take(2)
	if err != nil {
		return 0, err
	}
	v := binary.BigEndian.Uint16(b)

	signBit := v & 0x8000
	expBits := v & 0x000F
	fracBits := (v & 0xFFF0) >> 4
	if signBit != 0 {
		fracBits = (^fracBits & 0x0FFF) + 1
	}

	sign := float64(1)
	if signBit != 0 {
		sign = -1
	}
	fractional := float64(fracBits) / 2048
	return float32(sign * fractional * math.Pow(2, float64(expBits))), nil
}

// FSingl decodes an IEEE-754 big-endian single.
func (c *Cursor) FSingl() (float32, error) {
	b, err := c.take(4)
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(binary.BigEndian.Uint32(b)), nil
}

// FDoubl decodes an IEEE-754 big-endian double.
func (c *Cursor) FDoubl() (float64, error) {
	b, err := c.take(8)
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(binary.BigEndian.Uint64(b)), nil
}

// ISingl decodes an IBM System/360 single: sign bit, 7-bit excess-64
// base-16 exponent, 24-bit unnormalized fraction.
func (c *Cursor) ISingl() (float32, error) {
	b, err := c.take(4)
	if err != nil {
		return 0, err
	}
	sign := float64(1)
	if b[0]&0x80 != 0 {
		sign = -1
	}
	exp := int(b[0] & 0x7F)
	frac := uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
	value := sign * math.Pow(16, float64(exp-64)) * (float64(frac) / (1 << 24))
	return float32(value), nil
}

// VSingl decodes a VAX F-format single. The wire layout is the VAX
// little-endian word pair, so the four bytes are swapped pairwise before
// interpretation. A zero exponent with a clear sign is true zero; a zero
// exponent with a set sign is the VAX reserved operand, which has no IEEE
// counterpart and decodes to zero.
func (c *Cursor) VSingl() (float32, error) {
	b, err := c.take(4)
	if err != nil {
		return 0, err
	}
	v := uint32(b[1])<<24 | uint32(b[0])<<16 | uint32(b[3])<<8 | uint32(b[2])

	signBit := v & 0x80000000
	expBits := (v >> 23) & 0xFF
	fracBits := v & 0x007FFFFF

	if expBits == 0 {
		return 0, nil
	}

	sign := float64(1)
	if signBit != 0 {
		sign = -1
	}
	significand := 0.5 + float64(fracBits)/(1<<24)
	return float32(sign * significand * math.Pow(2, float64(expBits)-128)), nil
}

// FSing1 decodes a validated single (value, uncertainty).
func (c *Cursor) FSing1() (FSing1, error) {
	var out FSing1
	var err error
	if out.V, err = c.FSingl(); err != nil {
		return out, err
	}
	if out.A, err = c.FSingl(); err != nil {
		return out, err
	}
	return out, nil
}

// FSing2 decodes a two-sided validated single.
func (c *Cursor) FSing2() (FSing2, error) {
	var out FSing2
	var err error
	if out.V, err = c.FSingl(); err != nil {
		return out, err
	}
	if out.A, err = c.FSingl(); err != nil {
		return out, err
	}
	if out.B, err = c.FSingl(); err != nil {
		return out, err
	}
	return out, nil
}

// FDoub1 decodes a validated double (value, uncertainty).
func (c *Cursor) FDoub1() (FDoub1, error) {
	var out FDoub1
	var err error
	if out.V, err = c.FDoubl(); err != nil {
		return out, err
	}
	if out.A, err = c.FDoubl(); err != nil {
		return out, err
	}
	return out, nil
}

// FDoub2 decodes a two-sided validated double.
func (c *Cursor) FDoub2() (FDoub2, error) {
	var out FDoub2
	var err error
	if out.V, err = c.FDoubl(); err != nil {
		return out, err
	}
	if out.A, err = c.FDoubl(); err != nil {
		return out, err
	}
	if out.B, err = c.FDoubl(); err != nil {
		return out, err
	}
	return out, nil
}

// CSingl decodes a single-precision complex pair.
func (c *Cursor) CSingl() (complex64, error) {
	re, err := c.FSingl()
	if err != nil {
		return 0, err
	}
	im, err := c.FSingl()
	if err != nil {
		return 0, err
	}
	return complex(re, im), nil
}

// CDoubl decodes a double-precision complex pair.
func (c *Cursor) CDoubl() (complex128, error) {
	re, err := c.FDoubl()
	if err != nil {
		return 0, err
	}
	im, err := c.FDoubl()
	if err != nil {
		return 0, err
	}
	return complex(re, im), nil
}

// SShort decodes an 8-bit two's complement integer.
func (c *Cursor) SShort() (int8, error) {
	b, err := c.take(1)
	if err != nil {
		return 0, err
	}
	return int8(b[0]), nil
}

// SNorm decodes a 16-bit big-endian two's complement integer.
func (c *Cursor) SNorm() (int16, error) {
	b, err := c.take(2)
	if err != nil {
		return 0, err
	}
	return int16(binary.BigEndian.Uint16(b)), nil
}

// SLong decodes a 32-bit big-endian two's complement integer.
func (c *Cursor) SLong() (int32, error) {
	b, err := c.take(4)
	if err != nil {
		return 0, err
	}
	return int32(binary.BigEndian.Uint32(b)), nil
}

// UShort decodes an 8-bit unsigned integer.
func (c *Cursor) UShort() (uint8, error) {
	b, err := c.take(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// UNorm decodes a 16-bit big-endian unsigned integer.
func (c *Cursor) UNorm() (uint16, error) {
	b, err := c.take(2)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(b), nil
}

// ULong decodes a 32-bit big-endian unsigned integer.
func (c *Cursor) ULong() (uint32, error) {
	b, err := c.take(4)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(b), nil
}

// UVari decodes a variable-length unsigned integer. The top two bits of the
// first byte discriminate the width: 0x -> 1 byte (7-bit value), 10 -> 2
// bytes (14 bits), 11 -> 4 bytes (30 bits). Sign extension never applies.
func (c *Cursor) UVari() (uint32, error) {
	start := c.pos
	b, err := c.take(1)
	if err != nil {
		return 0, err
	}
	head := b[0]

	switch {
	case head&0x80 == 0:
		return uint32(head), nil

	case head&0x40 == 0:
		rest, err := c.take(1)
		if err != nil {
			c.pos = start
			return 0, err
		}
		return uint32(head&0x3F)<<8 | uint32(rest[0]), nil

	default:
		rest, err := c.take(3)
		if err != nil {
			c.pos = start
			return 0, err
		}
		return uint32(head&0x3F)<<24 |
			uint32(rest[0])<<16 |
			uint32(rest[1])<<8 |
			uint32(rest[2]), nil
	}
}

// Ident decodes a length-prefixed identifier (USHORT length, then bytes).
func (c *Cursor) Ident() (Ident, error) {
	n, err := c.UShort()
	if err != nil {
		return "", err
	}
	b, err := c.take(int(n))
	if err != nil {
		return "", err
	}
	return Ident(b), nil
}

// ASCII decodes a length-prefixed string (UVARI length, then bytes). The
// payload may contain any byte; there are no NUL semantics.
func (c *Cursor) ASCII() (string, error) {
	n, err := c.UVari()
	if err != nil {
		return "", err
	}
	b, err := c.take(int(n))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Units decodes a units expression. Same wire format as Ident.
func (c *Cursor) Units() (Units, error) {
	v, err := c.Ident()
	return Units(v), err
}

// DTime decodes an 8-byte date-time: year since 1900, timezone in the high
// nibble and month in the low nibble of the second byte, then day, hour,
// minute, second and a big-endian uint16 millisecond field.
func (c *Cursor) DTime() (DTime, error) {
	start := c.pos
	b, err := c.take(8)
	if err != nil {
		return DTime{}, err
	}

	tz := TZ(b[1] >> 4)
	month := int(b[1] & 0x0F)

	if tz > TZUTC {
		return DTime{}, dliserr.At(dliserr.UnexpectedValue, int64(start)+1,
			"dtime timezone %d not in [0, 2]", uint8(tz))
	}
	if month < 1 || month > 12 {
		return DTime{}, dliserr.At(dliserr.UnexpectedValue, int64(start)+1,
			"dtime month %d not in [1, 12]", month)
	}

	return DTime{
		Year:   1900 + int(b[0]),
		TZ:     tz,
		Month:  month,
		Day:    int(b[2]),
		Hour:   int(b[3]),
		Minute: int(b[4]),
		Second: int(b[5]),
		MS:     int(binary.BigEndian.Uint16(b[6:8])),
	}, nil
}

// Origin decodes a logical-file origin id. Same wire format as UVari.
func (c *Cursor) Origin() (Origin, error) {
	v, err := c.UVari()
	return Origin(v), err
}

// Status decodes a status flag. Values other than 0 and 1 are rejected.
func (c *Cursor) Status() (Status, error) {
	start := c.pos
	v, err := c.UShort()
	if err != nil {
		return 0, err
	}
	if v > 1 {
		return 0, dliserr.At(dliserr.UnexpectedValue, int64(start),
			"status %d not in [0, 1]", v)
	}
	return Status(v), nil
}

// ObName decodes an object name: origin, copy number, identifier.
func (c *Cursor) ObName() (ObName, error) {
	var out ObName
	var err error
	if out.Origin, err = c.Origin(); err != nil {
		return out, err
	}
	if out.Copy, err = c.UShort(); err != nil {
		return out, err
	}
	if out.ID, err = c.Ident(); err != nil {
		return out, err
	}
	return out, nil
}

// ObjRef decodes a typed object reference.
func (c *Cursor) ObjRef() (ObjRef, error) {
	var out ObjRef
	var err error
	if out.Type, err = c.Ident(); err != nil {
		return out, err
	}
	if out.Name, err = c.ObName(); err != nil {
		return out, err
	}
	return out, nil
}

// AttRef decodes an attribute reference.
func (c *Cursor) AttRef() (AttRef, error) {
	var out AttRef
	var err error
	if out.Type, err = c.Ident(); err != nil {
		return out, err
	}
	if out.Name, err = c.ObName(); err != nil {
		return out, err
	}
	if out.Label, err = c.Ident(); err != nil {
		return out, err
	}
	return out, nil
}
