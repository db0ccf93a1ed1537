package codec

import (
	"github.com/jokva/dlisio/pkg/dliserr"
)

// Value is a tagged union over the representation codes. Kind selects which
// concrete type V holds:
//
//	FSHORT, FSINGL, ISINGL, VSINGL  float32
//	FDOUBL                          float64
//	FSING1, FSING2, FDOUB1, FDOUB2  the matching struct type
//	CSINGL                          complex64
//	CDOUBL                          complex128
//	SSHORT, SNORM, SLONG            int8, int16, int32
//	USHORT, UNORM, ULONG, UVARI     uint8, uint16, uint32, uint32
//	IDENT, ASCII, UNITS             Ident, string, Units
//	DTIME                           DTime
//	ORIGIN, STATUS                  Origin, Status
//	OBNAME, OBJREF, ATTREF          ObName, ObjRef, AttRef
type Value struct {
	Kind RepCode
	V    interface{}
}

// DecodeValue decodes a single value of the given representation code from
// the cursor. Unknown codes fail with UnexpectedValue.
func DecodeValue(c *Cursor, kind RepCode) (Value, error) {
	var v interface{}
	var err error

	switch kind {
	case FSHORT:
		v, err = c.FShort()
	case FSINGL:
		v, err = c.FSingl()
	case FSING1:
		v, err = c.FSing1()
	case FSING2:
		v, err = c.FSing2()
	case ISINGL:
		v, err = c.ISingl()
	case VSINGL:
		v, err = c.VSingl()
	case FDOUBL:
		v, err = c.FDoubl()
	case FDOUB1:
		v, err = c.FDoub1()
	case FDOUB2:
		v, err = c.FDoub2()
	case CSINGL:
		v, err = c.CSingl()
	case CDOUBL:
		v, err = c.CDoubl()
	case SSHORT:
		v, err = c.SShort()
	case SNORM:
		v, err = c.SNorm()
	case SLONG:
		v, err = c.SLong()
	case USHORT:
		v, err = c.UShort()
	case UNORM:
		v, err = c.UNorm()
	case ULONG:
		v, err = c.ULong()
	case UVARI:
		v, err = c.UVari()
	case IDENT:
		v, err = c.Ident()
	case ASCII:
		v, err = c.ASCII()
	case DTIME:
		v, err = c.DTime()
	case ORIGIN:
		v, err = c.Origin()
	case OBNAME:
		v, err = c.ObName()
	case OBJREF:
		v, err = c.ObjRef()
	case ATTREF:
		v, err = c.AttRef()
	case STATUS:
		v, err = c.Status()
	case UNITS:
		v, err = c.Units()
	default:
		return Value{}, dliserr.At(dliserr.UnexpectedValue, int64(c.Pos()),
			"unknown representation code %d", uint8(kind))
	}

	if err != nil {
		return Value{}, err
	}
	return Value{Kind: kind, V: v}, nil
}

// DecodeValues decodes count consecutive values of the same representation
// code.
func DecodeValues(c *Cursor, kind RepCode, count int) ([]Value, error) {
	out := make([]Value, 0, count)
	for i := 0; i < count; i++ {
		v, err := DecodeValue(c, kind)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}
