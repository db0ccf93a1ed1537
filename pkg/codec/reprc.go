package codec

import "fmt"

// RepCode is a DLIS representation code.
type RepCode uint8

const (
	FSHORT RepCode = 1
	FSINGL RepCode = 2
	FSING1 RepCode = 3
	FSING2 RepCode = 4
	ISINGL RepCode = 5
	VSINGL RepCode = 6
	FDOUBL RepCode = 7
	FDOUB1 RepCode = 8
	FDOUB2 RepCode = 9
	CSINGL RepCode = 10
	CDOUBL RepCode = 11
	SSHORT RepCode = 12
	SNORM  RepCode = 13
	SLONG  RepCode = 14
	USHORT RepCode = 15
	UNORM  RepCode = 16
	ULONG  RepCode = 17
	UVARI  RepCode = 18
	IDENT  RepCode = 19
	ASCII  RepCode = 20
	DTIME  RepCode = 21
	ORIGIN RepCode = 22
	OBNAME RepCode = 23
	OBJREF RepCode = 24
	ATTREF RepCode = 25
	STATUS RepCode = 26
	UNITS  RepCode = 27
)

var repcodeNames = map[RepCode]string{
	FSHORT: "fshort",
	FSINGL: "fsingl",
	FSING1: "fsing1",
	FSING2: "fsing2",
	ISINGL: "isingl",
	VSINGL: "vsingl",
	FDOUBL: "fdoubl",
	FDOUB1: "fdoub1",
	FDOUB2: "fdoub2",
	CSINGL: "csingl",
	CDOUBL: "cdoubl",
	SSHORT: "sshort",
	SNORM:  "snorm",
	SLONG:  "slong",
	USHORT: "ushort",
	UNORM:  "unorm",
	ULONG:  "ulong",
	UVARI:  "uvari",
	IDENT:  "ident",
	ASCII:  "ascii",
	DTIME:  "dtime",
	ORIGIN: "origin",
	OBNAME: "obname",
	OBJREF: "objref",
	ATTREF: "attref",
	STATUS: "status",
	UNITS:  "units",
}

func (r RepCode) String() string {
	if name, ok := repcodeNames[r]; ok {
		return name
	}
	return fmt.Sprintf("reprc(%d)", uint8(r))
}

// Valid reports whether r is a defined representation code.
func (r RepCode) Valid() bool {
	return r >= FSHORT && r <= UNITS
}
