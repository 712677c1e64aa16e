package formenc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	pairs := []Pair{
		{"foo", "é&"},
		{"bar", ""},
		{"foo", "#"},
	}
	encoded := Encode(pairs)
	assert.Equal(t, "foo=%C3%A9%26&bar=&foo=%23", encoded)
	assert.Equal(t, pairs, Decode([]byte(encoded)))
}

func TestDecodeBasics(t *testing.T) {
	assert.Empty(t, Decode(nil))
	assert.Empty(t, Decode([]byte("")))

	assert.Equal(t, []Pair{{"a b", "c d"}}, Decode([]byte("a+b=c+d")))
	assert.Equal(t, []Pair{{"novalue", ""}}, Decode([]byte("novalue")))
	assert.Equal(t, []Pair{{"", "v"}}, Decode([]byte("=v")))
	assert.Equal(t, []Pair{{"a", "1"}, {"b", "2"}}, Decode([]byte("a=1&&b=2")))
	assert.Equal(t, []Pair{{"a", "b=c"}}, Decode([]byte("a=b=c")))
	assert.Equal(t, []Pair{{"q", "100%"}}, Decode([]byte("q=100%")))
}

func TestDecodeInvalidUtf8Replaced(t *testing.T) {
	pairs := Decode([]byte("a=%80"))
	require.Len(t, pairs, 1)
	assert.Equal(t, "�", pairs[0].Value)
}

func TestCharsetField(t *testing.T) {
	pairs, ok := DecodeWithEncoding([]byte("_charset_=windows-1252&a=%E9"), nil, true)
	require.True(t, ok)
	assert.Equal(t, []Pair{{"_charset_", "windows-1252"}, {"a", "é"}}, pairs)

	// Only the first _charset_ field selects an encoding.
	pairs, ok = DecodeWithEncoding([]byte("_charset_=windows-1252&_charset_=utf-8&a=%E9"), nil, true)
	require.True(t, ok)
	assert.Equal(t, "é", pairs[2].Value)

	// Unknown labels leave the active encoding alone.
	pairs, ok = DecodeWithEncoding([]byte("_charset_=no-such-encoding&a=%C3%A9"), nil, true)
	require.True(t, ok)
	assert.Equal(t, "é", pairs[1].Value)

	// Without the flag, _charset_ is an ordinary field.
	pairs, ok = DecodeWithEncoding([]byte("_charset_=windows-1252&a=%C3%A9"), nil, false)
	require.True(t, ok)
	assert.Equal(t, "é", pairs[1].Value)
}

func TestNonAsciiRejectedForLegacyEncodings(t *testing.T) {
	pairs, ok := DecodeWithEncoding([]byte("a=\xe9"), Lookup("windows-1252"), false)
	assert.False(t, ok)
	assert.Nil(t, pairs)

	// The same bytes are fine under UTF-8 (replaced, not rejected).
	pairs, ok = DecodeWithEncoding([]byte("a=\xe9"), nil, false)
	assert.True(t, ok)
	assert.Equal(t, "�", pairs[0].Value)
}

func TestIsindexLegacyMode(t *testing.T) {
	pairs, ok := DecodeIsindex([]byte("positional&a=b"), nil, false)
	require.True(t, ok)
	assert.Equal(t, []Pair{{"", "positional"}, {"a", "b"}}, pairs)

	// The flag only applies to the first piece.
	pairs, ok = DecodeIsindex([]byte("a=b&positional"), nil, false)
	require.True(t, ok)
	assert.Equal(t, []Pair{{"a", "b"}, {"positional", ""}}, pairs)
}

func TestEncodeWithOverride(t *testing.T) {
	enc := Lookup("windows-1252")
	require.NotNil(t, enc)

	assert.Equal(t, "a=%E9", EncodeWithEncoding([]Pair{{"a", "é"}}, enc))

	// Unencodable runes become numeric character references, then get
	// form-escaped like any other bytes.
	assert.Equal(t, "a=%26%2328450%3B", EncodeWithEncoding([]Pair{{"a", "漢"}}, enc))

	assert.Equal(t, "a=%C3%A9", EncodeWithEncoding([]Pair{{"a", "é"}}, nil))
}

func TestLookup(t *testing.T) {
	assert.Nil(t, Lookup("no-such-encoding"))
	assert.Equal(t, UTF8, Lookup("utf-8"))
	assert.Equal(t, UTF8, Lookup("UTF-8"))

	// The WHATWG index maps iso-8859-1 onto windows-1252.
	enc := Lookup("iso-8859-1")
	require.NotNil(t, enc)
	assert.Equal(t, "windows-1252", enc.Name())
}
