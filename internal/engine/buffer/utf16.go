package buffer

import (
	"unicode/utf16"
	"unicode/utf8"
)

// Length returns the number of UTF-16 code units needed to encode s.
func Length(s string) int {
	n := 0
	for _, r := range s {
		n += utf16.RuneLen(r)
	}
	return n
}

// encode converts a Go string to UTF-16 code units.
// Invalid UTF-8 bytes become U+FFFD.
func encode(s string) []uint16 {
	if s == "" {
		return nil
	}
	out := make([]uint16, 0, len(s))
	for _, r := range s {
		out = utf16.AppendRune(out, r)
	}
	return out
}

// decode converts UTF-16 code units to a Go string.
// Unpaired surrogates become U+FFFD.
func decode(units []uint16) string {
	if len(units) == 0 {
		return ""
	}
	buf := make([]byte, 0, len(units))
	for _, r := range utf16.Decode(units) {
		buf = utf8.AppendRune(buf, r)
	}
	return string(buf)
}

// IsHighSurrogate reports whether u is the first half of a surrogate pair.
func IsHighSurrogate(u uint16) bool {
	return u >= 0xD800 && u < 0xDC00
}

// IsLowSurrogate reports whether u is the second half of a surrogate pair.
func IsLowSurrogate(u uint16) bool {
	return u >= 0xDC00 && u < 0xE000
}
