package weburl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseHostDomain(t *testing.T) {
	h, err := ParseHost("Example.COM", true)
	require.NoError(t, err)
	assert.Equal(t, DomainHost("example.com"), h)
	assert.Equal(t, "example.com", h.String())

	// Percent escapes decode before validation.
	h, err = ParseHost("ex%61mple.com", true)
	require.NoError(t, err)
	assert.Equal(t, "example.com", h.String())

	// Unicode labels go through IDNA.
	h, err = ParseHost("exämple.com", true)
	require.NoError(t, err)
	assert.Equal(t, "xn--exmple-cua.com", h.String())

	for _, bad := range []string{"exa mple.com", "exa[mple.com", "exa%23mple.com", "exa\"mple"} {
		_, err := ParseHost(bad, true)
		assert.Error(t, err, "host %q", bad)
	}
}

func TestParseHostIpv4(t *testing.T) {
	cases := map[string]string{
		"127.0.0.1":  "127.0.0.1",
		"0x7f.0.0.1": "127.0.0.1",
		"017.0.0.1":  "15.0.0.1",
		"2130706433": "127.0.0.1",
		"127.0.1":    "127.0.0.1",
		"10.0.0.1.":  "10.0.0.1",
		"0x.0.0.0":   "0.0.0.0",
	}
	for input, want := range cases {
		h, err := ParseHost(input, true)
		require.NoError(t, err, "host %q", input)
		assert.Equal(t, HostKindIpv4, h.Kind, "host %q", input)
		assert.Equal(t, want, h.String(), "host %q", input)
	}

	// Numeric-looking hosts that fail the IPv4 parse stay domains.
	for _, input := range []string{"256.256.256.256", "1.2.3.4.5", "08.0.0.1", "4294967296"} {
		h, err := ParseHost(input, true)
		require.NoError(t, err, "host %q", input)
		assert.Equal(t, HostKindDomain, h.Kind, "host %q", input)
		assert.Equal(t, input, h.String(), "host %q", input)
	}
}

func TestParseHostIpv6(t *testing.T) {
	cases := map[string]string{
		"[::1]":                       "[::1]",
		"[::]":                        "[::]",
		"[1:2:3:4:5:6:7:8]":           "[1:2:3:4:5:6:7:8]",
		"[2001:DB8::8:800:200C:417A]": "[2001:db8::8:800:200c:417a]",
		"[::ffff:192.168.0.1]":        "[::ffff:c0a8:1]",
		"[1:0:0:2::3]":                "[1:0:0:2::3]",
		"[1:2:3:4:5:6::]":             "[1:2:3:4:5:6::]",
	}
	for input, want := range cases {
		h, err := ParseHost(input, true)
		require.NoError(t, err, "host %q", input)
		assert.Equal(t, HostKindIpv6, h.Kind)
		assert.Equal(t, want, h.String(), "host %q", input)
	}

	bad := []string{
		"[::1", "[1:2:3:4:5:6:7:8:9]", "[1:::2]", "[:1]", "[1:]",
		"[g::1]", "[::1.2.3]", "[::1.2.3.4.5]", "[::01.2.3.4]", "[::300.2.3.4]",
	}
	for _, input := range bad {
		_, err := ParseHost(input, true)
		assert.ErrorIs(t, err, ErrInvalidIpv6, "host %q", input)
	}
}

func TestParseHostOpaque(t *testing.T) {
	h, err := ParseHost("Example.COM", false)
	require.NoError(t, err)
	// Opaque hosts keep their case and are not IPv4-parsed.
	assert.Equal(t, Host{Kind: HostKindOpaque, Opaque: "Example.COM"}, h)

	h, err = ParseHost("ho%20st", false)
	require.NoError(t, err)
	assert.Equal(t, "ho%20st", h.String())

	h, err = ParseHost("", false)
	require.NoError(t, err)
	assert.True(t, h.IsEmpty())

	_, err = ParseHost("ho st", false)
	assert.ErrorIs(t, err, ErrForbiddenHostByte)
}
