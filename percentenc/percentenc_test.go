package percentenc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecodeTriplets(t *testing.T) {
	assert.Equal(t, []byte("foo bar"), Decode([]byte("foo%20bar")))
	assert.Equal(t, []byte("\x00\xff"), Decode([]byte("%00%FF")))
	assert.Equal(t, []byte("a%b"), Decode([]byte("a%25b")))
	assert.Equal(t, []byte("lowercase ok"), Decode([]byte("lowercase%20ok")))
	assert.Equal(t, []byte("\xc3\xa9"), Decode([]byte("%c3%a9")))
}

func TestDecodeLenient(t *testing.T) {
	// Malformed escapes pass through byte for byte.
	for _, input := range []string{"%", "%2", "%zz", "%2x", "100%", "a%%20"} {
		t.Run(input, func(t *testing.T) {
			assert.Equal(t, []byte(decodeRef(input)), Decode([]byte(input)))
		})
	}
}

// decodeRef is an independent oracle for the lenient rule: only a '%'
// followed by exactly two hex digits is consumed.
func decodeRef(s string) string {
	out := []byte{}
	for i := 0; i < len(s); i++ {
		if s[i] == '%' && i+2 < len(s) {
			hi, ok1 := unhex(s[i+1])
			lo, ok2 := unhex(s[i+2])
			if ok1 && ok2 {
				out = append(out, hi<<4|lo)
				i += 2
				continue
			}
		}
		out = append(out, s[i])
	}
	return string(out)
}

func TestEncodeSets(t *testing.T) {
	assert.Equal(t, "a%1Fb", Encode([]byte("a\x1fb"), C0))
	assert.Equal(t, "space stays", Encode([]byte("space stays"), C0))
	assert.Equal(t, "%C3%A9", EncodeString("é", C0))

	assert.Equal(t, "a%20b%3Fc/d", EncodeString("a b?c/d", Path))
	assert.Equal(t, "a%2Fb%3Ac%40d", EncodeString("a/b:c@d", Userinfo))
	assert.Equal(t, "a%20b", EncodeString("a b", Host))
	assert.Equal(t, "a%20b%22c%23d%3Ce%3Ef?g", EncodeString("a b\"c#d<e>f?g", Query))
}

func TestFormSet(t *testing.T) {
	for b := byte('a'); b <= 'z'; b++ {
		assert.False(t, FormUrlencoded(b))
	}
	for _, b := range []byte("-_.*") {
		assert.False(t, FormUrlencoded(b))
	}
	for _, b := range []byte(" ~!@#$%^&()+=/\\?<>,[]{}'\";:`") {
		assert.True(t, FormUrlencoded(b), "byte %q", b)
	}
}

func TestRoundTrip(t *testing.T) {
	inputs := []string{"", "plain", "with space", "ünïcode", "a/b?c#d", "\x00\x01\xfe\xff"}
	for _, s := range inputs {
		enc := EncodeString(s, Userinfo)
		assert.Equal(t, []byte(s), DecodeString(enc), "input %q", s)
	}
}
