package rp66

import (
	"strconv"
	"strings"

	"github.com/jokva/dlisio/pkg/dliserr"
)

// SULSize is the fixed size of the Storage Unit Label.
const SULSize = 80

// Layout is the storage-set layout declared by the label.
type Layout int

const (
	LayoutRecord Layout = iota
	LayoutUnknown
)

func (l Layout) String() string {
	if l == LayoutRecord {
		return "record"
	}
	return "unknown"
}

// StorageUnitLabel is the parsed 80-byte file prefix.
//
// The label is ASCII throughout: a 4-digit sequence number, a "V1.00"-style
// version, a 6-byte structure field, a 5-digit maximum record length and a
// 60-byte identifier.
type StorageUnitLabel struct {
	Sequence int
	Major    int
	Minor    int
	Layout   Layout
	MaxLen   int64
	ID       string
}

// Version renders the DLIS version as "major.minor".
func (sul StorageUnitLabel) Version() string {
	return strconv.Itoa(sul.Major) + "." + strconv.Itoa(sul.Minor)
}

// ParseSUL parses a Storage Unit Label from the first SULSize bytes of b.
//
// A label that deviates from the specification but still admits a sensible
// version-1 interpretation is returned together with a non-nil error
// wrapping Inconsistent; callers may treat that as a warning. Failures to
// parse the sequence number or the version, and any version other than 1,
// are fatal.
func ParseSUL(b []byte) (StorageUnitLabel, error) {
	var sul StorageUnitLabel

	if len(b) < SULSize {
		return sul, dliserr.New(dliserr.Truncated,
			"storage unit label needs %d bytes, have %d", SULSize, len(b))
	}

	seq := strings.TrimLeft(string(b[0:4]), " 0")
	if seq == "" {
		seq = "0"
	}
	n, err := strconv.Atoi(seq)
	if err != nil {
		return sul, dliserr.At(dliserr.UnexpectedValue, 0,
			"sequence number %q is not numeric", string(b[0:4]))
	}
	sul.Sequence = n

	// version field is exactly V<major>.<minor><minor>
	version := string(b[4:9])
	if version[0] != 'V' || version[2] != '.' {
		return sul, dliserr.At(dliserr.UnexpectedValue, 4,
			"version %q does not match V#.##", version)
	}
	major, majorErr := strconv.Atoi(version[1:2])
	minor, minorErr := strconv.Atoi(version[3:5])
	if majorErr != nil || minorErr != nil {
		return sul, dliserr.At(dliserr.UnexpectedValue, 4,
			"version %q does not match V#.##", version)
	}
	sul.Major = major
	sul.Minor = minor

	if major != 1 {
		return sul, dliserr.At(dliserr.NotImplemented, 4,
			"DLIS version %d is not supported", major)
	}

	var warn error

	structure := string(b[9:15])
	if structure == "RECORD" {
		sul.Layout = LayoutRecord
	} else {
		sul.Layout = LayoutUnknown
		warn = dliserr.At(dliserr.Inconsistent, 9,
			"storage set structure %q is not RECORD, assuming DLIS v1", structure)
	}

	maxlen := strings.TrimLeft(string(b[15:20]), " 0")
	if maxlen == "" {
		maxlen = "0"
	}
	ml, err := strconv.ParseInt(maxlen, 10, 64)
	if err != nil {
		sul.MaxLen = 0
		if warn == nil {
			warn = dliserr.At(dliserr.Inconsistent, 15,
				"maximum record length %q is not numeric", string(b[15:20]))
		}
	} else {
		sul.MaxLen = ml
	}

	sul.ID = strings.TrimRight(string(b[20:80]), " \x00")
	return sul, warn
}
