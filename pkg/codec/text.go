package codec

import (
	"strings"
	"unicode/utf8"
)

// DecodeText recovers readable text from a decoded IDENT, ASCII or UNITS
// payload. DLIS strings are raw bytes with no declared encoding; most are
// plain ASCII, but the Latin-1 degree sign 0xB0 shows up constantly in
// units strings and breaks UTF-8 validation.
//
// If s is valid UTF-8 it is returned unchanged. Otherwise every bare 0xB0
// is re-encoded as the UTF-8 degree sign and the result returned if that
// made it valid. Failing that, the raw string comes back untouched and the
// caller decides. The recovery is lossy: it assumes 0xB0 meant a degree
// sign.
func DecodeText(s string) string {
	if utf8.ValidString(s) {
		return s
	}

	fixed := strings.ReplaceAll(s, "\xB0", "\xC2\xB0")
	if utf8.ValidString(fixed) {
		return fixed
	}
	return s
}
