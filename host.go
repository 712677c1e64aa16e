package weburl

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/net/idna"

	"github.com/weburl/weburl/percentenc"
)

type HostKind int32

const (
	HostKindDomain HostKind = iota
	HostKindIpv4
	HostKindIpv6
	HostKindOpaque
)

// Host is the parsed host of an authority. Kind selects which payload field
// is meaningful; Ipv4 and Ipv6 values only ever come out of a validated
// numeric parse.
type Host struct {
	Kind   HostKind
	Domain string
	Ipv4   uint32
	Ipv6   [8]uint16
	Opaque string
}

// DomainHost returns a Host of kind Domain.
func DomainHost(name string) Host {
	return Host{Kind: HostKindDomain, Domain: name}
}

// IsEmpty reports whether the host serializes to the empty string.
func (h Host) IsEmpty() bool {
	switch h.Kind {
	case HostKindDomain:
		return h.Domain == ""
	case HostKindOpaque:
		return h.Opaque == ""
	}
	return false
}

func (h Host) String() string {
	switch h.Kind {
	case HostKindIpv4:
		return fmt.Sprintf("%d.%d.%d.%d",
			h.Ipv4>>24, h.Ipv4>>16&0xff, h.Ipv4>>8&0xff, h.Ipv4&0xff)
	case HostKindIpv6:
		return "[" + serializeIpv6(h.Ipv6) + "]"
	case HostKindOpaque:
		return h.Opaque
	default:
		return h.Domain
	}
}

// forbiddenHostByte covers control characters, space and the authority and
// path delimiters that may never appear in a parsed host.
func forbiddenHostByte(b byte) bool {
	if b < 0x20 {
		return true
	}
	switch b {
	case ' ', '"', '#', '%', '/', ':', '?', '@', '[', '\\', ']':
		return true
	}
	return false
}

// ParseHost parses the host substring of an authority. special selects
// domain/IPv4 parsing; non-special schemes get an opaque host.
func ParseHost(input string, special bool) (Host, error) {
	if strings.HasPrefix(input, "[") {
		if !strings.HasSuffix(input, "]") {
			return Host{}, ErrInvalidIpv6
		}
		groups, err := parseIpv6(input[1 : len(input)-1])
		if err != nil {
			return Host{}, err
		}
		return Host{Kind: HostKindIpv6, Ipv6: groups}, nil
	}
	if !special {
		for i := 0; i < len(input); i++ {
			// '%' is allowed in opaque hosts, percent escapes pass through.
			if b := input[i]; b != '%' && forbiddenHostByte(b) {
				return Host{}, ErrForbiddenHostByte
			}
		}
		return Host{Kind: HostKindOpaque, Opaque: percentenc.EncodeString(input, percentenc.Host)}, nil
	}

	domain := string(percentenc.DecodeString(input))
	domain, err := domainToASCII(domain)
	if err != nil {
		return Host{}, err
	}
	for i := 0; i < len(domain); i++ {
		if forbiddenHostByte(domain[i]) {
			return Host{}, ErrForbiddenHostByte
		}
	}
	if addr, ok := parseIpv4(domain); ok {
		return Host{Kind: HostKindIpv4, Ipv4: addr}, nil
	}
	return DomainHost(domain), nil
}

// domainToASCII lowercases an ASCII domain directly and delegates anything
// with non-ASCII bytes to the IDNA mapping.
func domainToASCII(domain string) (string, error) {
	ascii := true
	for i := 0; i < len(domain); i++ {
		if domain[i] >= 0x80 {
			ascii = false
			break
		}
	}
	if ascii {
		return strings.ToLower(domain), nil
	}
	mapped, err := idna.Lookup.ToASCII(domain)
	if err != nil {
		return "", ErrInvalidDomain
	}
	return mapped, nil
}

// parseIpv4 attempts the classic inet_aton parse of a domain. It returns
// ok=false both when the labels are not numeric at all and when a numeric
// parse fails validation; the caller keeps the domain in that case.
func parseIpv4(domain string) (uint32, bool) {
	labels := strings.Split(domain, ".")
	// A single trailing dot is dropped.
	if n := len(labels); n > 1 && labels[n-1] == "" {
		labels = labels[:n-1]
	}
	if len(labels) == 0 || len(labels) > 4 {
		return 0, false
	}
	for _, label := range labels {
		if !numericLabel(label) {
			return 0, false
		}
	}
	nums := make([]uint64, len(labels))
	for i, label := range labels {
		var v uint64
		var err error
		switch {
		case len(label) > 1 && (label[1] == 'x' || label[1] == 'X'):
			if label[2:] == "" {
				v = 0
			} else {
				v, err = strconv.ParseUint(label[2:], 16, 64)
			}
		case len(label) > 1 && label[0] == '0':
			v, err = strconv.ParseUint(label[1:], 8, 64)
		default:
			v, err = strconv.ParseUint(label, 10, 64)
		}
		if err != nil || v > 0xFFFFFFFF {
			return 0, false
		}
		nums[i] = v
	}
	// All but the last part are single bytes; the last absorbs whatever
	// magnitude the missing parts leave room for.
	last := nums[len(nums)-1]
	if last >= 1<<uint(8*(5-len(nums))) {
		return 0, false
	}
	addr := last
	for i, v := range nums[:len(nums)-1] {
		if v > 255 {
			return 0, false
		}
		addr += v << uint(8*(3-i))
	}
	return uint32(addr), true
}

// numericLabel reports whether a label is all decimal digits, or hex digits
// behind an 0x/0X prefix. "0x" alone counts (value zero).
func numericLabel(label string) bool {
	if label == "" {
		return false
	}
	if len(label) >= 2 && label[0] == '0' && (label[1] == 'x' || label[1] == 'X') {
		for i := 2; i < len(label); i++ {
			if !isHexDigit(label[i]) {
				return false
			}
		}
		return true
	}
	for i := 0; i < len(label); i++ {
		if label[i] < '0' || label[i] > '9' {
			return false
		}
	}
	return true
}

func isHexDigit(b byte) bool {
	return '0' <= b && b <= '9' || 'a' <= b && b <= 'f' || 'A' <= b && b <= 'F'
}

// parseIpv6 parses the text between the brackets of an IPv6 literal: up to
// eight hex groups, at most one "::" run, an optional embedded IPv4 literal
// in the last two groups.
func parseIpv6(input string) ([8]uint16, error) {
	var addr [8]uint16
	piece := 0
	compress := -1
	i := 0

	if strings.HasPrefix(input, ":") {
		if !strings.HasPrefix(input, "::") {
			return addr, ErrInvalidIpv6
		}
		i = 2
		piece = 1
		compress = piece
	}

	for i < len(input) {
		if piece == 8 {
			return addr, ErrInvalidIpv6
		}
		if input[i] == ':' {
			if compress >= 0 {
				return addr, ErrInvalidIpv6
			}
			i++
			piece++
			compress = piece
			continue
		}
		value := 0
		length := 0
		for length < 4 && i < len(input) && isHexDigit(input[i]) {
			value = value*16 + int(unhexDigit(input[i]))
			i++
			length++
		}
		if i < len(input) && input[i] == '.' {
			if length == 0 || piece > 6 {
				return addr, ErrInvalidIpv6
			}
			i -= length
			if err := parseEmbeddedIpv4(input[i:], addr[:], &piece); err != nil {
				return addr, err
			}
			i = len(input)
			break
		}
		if i < len(input) {
			if input[i] != ':' {
				return addr, ErrInvalidIpv6
			}
			i++
			if i == len(input) {
				return addr, ErrInvalidIpv6
			}
		}
		addr[piece] = uint16(value)
		piece++
	}

	if compress >= 0 {
		swaps := piece - compress
		for piece = 7; swaps > 0; {
			addr[piece], addr[compress+swaps-1] = addr[compress+swaps-1], addr[piece]
			piece--
			swaps--
		}
	} else if piece != 8 {
		return addr, ErrInvalidIpv6
	}
	return addr, nil
}

// parseEmbeddedIpv4 consumes a dotted-decimal tail, filling the last two
// groups of the address.
func parseEmbeddedIpv4(input string, addr []uint16, piece *int) error {
	seen := 0
	i := 0
	for i < len(input) {
		if seen > 0 {
			if input[i] != '.' || seen == 4 {
				return ErrInvalidIpv6
			}
			i++
		}
		if i == len(input) || input[i] < '0' || input[i] > '9' {
			return ErrInvalidIpv6
		}
		value := 0
		digits := 0
		for i < len(input) && input[i] >= '0' && input[i] <= '9' {
			if digits == 1 && value == 0 {
				return ErrInvalidIpv6 // no leading zeros
			}
			value = value*10 + int(input[i]-'0')
			if value > 255 {
				return ErrInvalidIpv6
			}
			i++
			digits++
		}
		addr[*piece] = addr[*piece]*0x100 + uint16(value)
		seen++
		if seen == 2 || seen == 4 {
			*piece = *piece + 1
		}
	}
	if seen != 4 {
		return ErrInvalidIpv6
	}
	return nil
}

func unhexDigit(b byte) byte {
	switch {
	case b >= 'a':
		return b - 'a' + 10
	case b >= 'A':
		return b - 'A' + 10
	default:
		return b - '0'
	}
}

// serializeIpv6 writes the groups in lowercase hex, compressing the longest
// run of zero groups (leftmost on ties, runs of one stay verbatim).
func serializeIpv6(addr [8]uint16) string {
	runStart, runLen := -1, 0
	for i := 0; i < 8; {
		if addr[i] != 0 {
			i++
			continue
		}
		j := i
		for j < 8 && addr[j] == 0 {
			j++
		}
		if j-i > runLen {
			runStart, runLen = i, j-i
		}
		i = j
	}
	if runLen < 2 {
		runStart = -1
	}

	var b strings.Builder
	for i := 0; i < 8; i++ {
		if i == runStart {
			b.WriteString("::")
			i += runLen - 1
			continue
		}
		if i > 0 && i-runLen != runStart {
			b.WriteByte(':')
		}
		b.WriteString(strconv.FormatUint(uint64(addr[i]), 16))
	}
	return b.String()
}
