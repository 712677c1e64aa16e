// Package percentenc implements the byte-level percent-encoding layer of the
// URL standard. Encoding is parameterized by an encode set, a predicate over
// single bytes; decoding is lenient and never fails.
package percentenc

import "strings"

// Set reports whether a byte must be percent-escaped in some serialization
// context.
type Set func(b byte) bool

// C0 is the simple encode set: C0 controls and all bytes above the printable
// ASCII range. Fragments and opaque scheme data use it.
func C0(b byte) bool {
	return b < 0x20 || b >= 0x7f
}

// Path extends C0 with the characters that would be misparsed inside a path
// segment.
func Path(b byte) bool {
	switch b {
	case ' ', '"', '#', '<', '>', '`', '?', '{', '}':
		return true
	}
	return C0(b)
}

// Userinfo extends Path with the authority delimiters.
func Userinfo(b byte) bool {
	switch b {
	case '/', ':', ';', '=', '@', '[', '\\', ']', '^', '|':
		return true
	}
	return Path(b)
}

// Host is the encode set for opaque hosts.
func Host(b byte) bool {
	return C0(b) || b == ' '
}

// Query is the encode set for the query component.
func Query(b byte) bool {
	switch b {
	case ' ', '"', '#', '<', '>':
		return true
	}
	return C0(b)
}

// FormUrlencoded escapes everything but ASCII alphanumerics and -_.* .
// Space is in the set too; the form codec replaces it with '+' before
// consulting the set.
func FormUrlencoded(b byte) bool {
	switch {
	case 'a' <= b && b <= 'z', 'A' <= b && b <= 'Z', '0' <= b && b <= '9':
		return false
	case b == '-' || b == '_' || b == '.' || b == '*':
		return false
	}
	return true
}

const upperhex = "0123456789ABCDEF"

// Encode percent-escapes every byte of input that is in set and copies the
// rest through verbatim.
func Encode(input []byte, set Set) string {
	var b strings.Builder
	b.Grow(len(input))
	for _, c := range input {
		if set(c) {
			b.WriteByte('%')
			b.WriteByte(upperhex[c>>4])
			b.WriteByte(upperhex[c&0xf])
		} else {
			b.WriteByte(c)
		}
	}
	return b.String()
}

// EncodeString is Encode over the string's bytes.
func EncodeString(input string, set Set) string {
	return Encode([]byte(input), set)
}

// Decode replaces every %XX triplet with the corresponding byte. A '%' not
// followed by two hex digits is passed through unchanged; decoding never
// fails. The result is raw bytes, not necessarily valid UTF-8.
func Decode(input []byte) []byte {
	out := make([]byte, 0, len(input))
	for i := 0; i < len(input); i++ {
		c := input[i]
		if c == '%' && i+2 < len(input) {
			hi, ok1 := unhex(input[i+1])
			lo, ok2 := unhex(input[i+2])
			if ok1 && ok2 {
				out = append(out, hi<<4|lo)
				i += 2
				continue
			}
		}
		out = append(out, c)
	}
	return out
}

// DecodeString is Decode over the string's bytes.
func DecodeString(input string) []byte {
	return Decode([]byte(input))
}

func unhex(c byte) (byte, bool) {
	switch {
	case '0' <= c && c <= '9':
		return c - '0', true
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10, true
	case 'A' <= c && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}
