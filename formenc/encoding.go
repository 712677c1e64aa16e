package formenc

import (
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
)

// Encoding is the pluggable character-encoding capability: names the
// encoding, decodes raw bytes to text and encodes text back to bytes. The
// form codec only depends on this contract, not on a concrete library.
type Encoding interface {
	Name() string
	Decode(b []byte) string
	Encode(s string) []byte
}

// UTF8 is the built-in default Encoding. Its decoder substitutes the
// replacement character for invalid sequences and never fails.
var UTF8 Encoding = utf8Encoding{}

type utf8Encoding struct{}

func (utf8Encoding) Name() string { return "utf-8" }

func (utf8Encoding) Decode(b []byte) string {
	return strings.ToValidUTF8(string(b), "�")
}

func (utf8Encoding) Encode(s string) []byte { return []byte(s) }

// Lookup resolves a WHATWG encoding label ("iso-8859-1", "windows-1252",
// ...) to an Encoding, or nil when the label is unknown.
func Lookup(label string) Encoding {
	e, err := htmlindex.Get(strings.TrimSpace(label))
	if err != nil {
		return nil
	}
	name, err := htmlindex.Name(e)
	if err != nil {
		name = strings.ToLower(strings.TrimSpace(label))
	}
	if name == "utf-8" {
		return UTF8
	}
	return &labelEncoding{name: name, enc: e}
}

type labelEncoding struct {
	name string
	enc  encoding.Encoding
}

func (l *labelEncoding) Name() string { return l.name }

func (l *labelEncoding) Decode(b []byte) string {
	// Decoders substitute replacement characters as they go; an error still
	// leaves usable output.
	out, _ := l.enc.NewDecoder().Bytes(b)
	return string(out)
}

// Encode turns unencodable runes into numeric character references, the
// way HTML form submission does.
func (l *labelEncoding) Encode(s string) []byte {
	enc := encoding.HTMLEscapeUnsupported(l.enc.NewEncoder())
	out, _ := enc.Bytes([]byte(s))
	return out
}
