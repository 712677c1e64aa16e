// Package formenc parses and serializes the application/x-www-form-urlencoded
// format: an ordered list of name/value pairs with '+' for space and
// percent-escaping for everything outside the unreserved set. Order and
// duplicate names survive a round trip verbatim.
package formenc

import (
	"bytes"
	"strings"

	"github.com/weburl/weburl/percentenc"
)

// Pair is one name/value entry. Lists of pairs preserve order and
// duplicates.
type Pair struct {
	Name  string
	Value string
}

// Decode parses form-urlencoded bytes with the default UTF-8 encoding. It
// never fails; invalid byte sequences decode to the replacement character.
func Decode(input []byte) []Pair {
	pairs, _ := decode(input, UTF8, false, false)
	return pairs
}

// DecodeWithEncoding parses form-urlencoded bytes, decoding names and
// values through enc (nil means UTF-8). When useCharset is set, the first
// "_charset_" field whose value names a known encoding selects the
// encoding for every pair. ok is false when the active encoding is not
// UTF-8 and the raw input contains non-ASCII bytes.
func DecodeWithEncoding(input []byte, enc Encoding, useCharset bool) ([]Pair, bool) {
	return decode(input, enc, useCharset, false)
}

// DecodeIsindex is DecodeWithEncoding with the legacy HTML isindex
// behavior: a first piece without '=' becomes a positional value with an
// empty name.
//
// Deprecated: isindex is a legacy mode; new callers should use
// DecodeWithEncoding.
func DecodeIsindex(input []byte, enc Encoding, useCharset bool) ([]Pair, bool) {
	return decode(input, enc, useCharset, true)
}

func decode(input []byte, enc Encoding, useCharset, isindex bool) ([]Pair, bool) {
	if enc == nil {
		enc = UTF8
	}
	type rawPair struct {
		name  []byte
		value []byte
	}
	var raw []rawPair
	for _, piece := range bytes.Split(input, []byte{'&'}) {
		if len(piece) == 0 {
			if isindex {
				raw = append(raw, rawPair{})
			}
			isindex = false
			continue
		}
		var name, value []byte
		if i := bytes.IndexByte(piece, '='); i >= 0 {
			name, value = piece[:i], piece[i+1:]
		} else if isindex {
			value = piece
		} else {
			name = piece
		}
		name = replacePlus(name)
		value = replacePlus(value)
		if useCharset && string(name) == "_charset_" {
			if e := Lookup(string(percentenc.Decode(value))); e != nil {
				enc = e
			}
			useCharset = false
		}
		raw = append(raw, rawPair{name, value})
		isindex = false
	}
	if enc.Name() != "utf-8" && !isASCII(input) {
		return nil, false
	}
	pairs := make([]Pair, 0, len(raw))
	for _, rp := range raw {
		pairs = append(pairs, Pair{
			Name:  enc.Decode(percentenc.Decode(rp.name)),
			Value: enc.Decode(percentenc.Decode(rp.value)),
		})
	}
	return pairs, true
}

// Encode serializes pairs with the default UTF-8 encoding.
func Encode(pairs []Pair) string {
	return EncodeWithEncoding(pairs, nil)
}

// EncodeWithEncoding serializes pairs, encoding each name and value to
// bytes through enc first (nil means UTF-8, the text's own bytes).
func EncodeWithEncoding(pairs []Pair, enc Encoding) string {
	var b strings.Builder
	for i, p := range pairs {
		if i > 0 {
			b.WriteByte('&')
		}
		writeEscaped(&b, p.Name, enc)
		b.WriteByte('=')
		writeEscaped(&b, p.Value, enc)
	}
	return b.String()
}

func writeEscaped(b *strings.Builder, s string, enc Encoding) {
	var raw []byte
	if enc == nil || enc == UTF8 {
		raw = []byte(s)
	} else {
		raw = enc.Encode(s)
	}
	for _, c := range raw {
		switch {
		case c == ' ':
			b.WriteByte('+')
		case percentenc.FormUrlencoded(c):
			const upperhex = "0123456789ABCDEF"
			b.WriteByte('%')
			b.WriteByte(upperhex[c>>4])
			b.WriteByte(upperhex[c&0xf])
		default:
			b.WriteByte(c)
		}
	}
}

// The '+' for space substitution happens before percent-decoding.
func replacePlus(input []byte) []byte {
	out := make([]byte, len(input))
	for i, b := range input {
		if b == '+' {
			out[i] = ' '
		} else {
			out[i] = b
		}
	}
	return out
}

func isASCII(input []byte) bool {
	for _, b := range input {
		if b >= 0x80 {
			return false
		}
	}
	return true
}
