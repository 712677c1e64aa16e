package weburl

import (
	"strconv"
	"strings"

	"github.com/weburl/weburl/percentenc"
)

// The special schemes and their default ports. file is special but has no
// default port.
var specialPorts = map[string]uint16{
	"http":  80,
	"https": 443,
	"ws":    80,
	"wss":   443,
	"ftp":   21,
}

func isSpecial(scheme string) bool {
	if scheme == "file" {
		return true
	}
	_, ok := specialPorts[scheme]
	return ok
}

func schemeDefaultPort(scheme string) *uint16 {
	if p, ok := specialPorts[scheme]; ok {
		return &p
	}
	return nil
}

// Parser parses URL text, optionally resolving relative references against
// Base. The zero value parses absolute URLs only.
type Parser struct {
	Base *Url
}

// Parse parses an absolute URL.
func Parse(input string) (*Url, error) {
	return (&Parser{}).Parse(input)
}

// ParseWith parses input as a reference relative to base.
func ParseWith(input string, base *Url) (*Url, error) {
	return (&Parser{Base: base}).Parse(input)
}

func (p *Parser) Parse(input string) (*Url, error) {
	input = preprocess(input)
	scheme, rest, hasScheme := splitScheme(input)

	// A single-letter scheme against a file base is a windows drive
	// reference ("c:/x"), not a scheme.
	if hasScheme && p.Base != nil && p.Base.Scheme == "file" && len(scheme) == 1 {
		hasScheme = false
	}

	if !hasScheme {
		if p.Base == nil {
			return nil, ErrRelativeWithoutBase
		}
		return p.parseReference(p.Base.Scheme, input, p.Base)
	}

	scheme = strings.ToLower(scheme)
	if isSpecial(scheme) {
		base := p.Base
		if base == nil || base.Scheme != scheme || base.Relative == nil {
			base = nil
		}
		return p.parseReference(scheme, rest, base)
	}

	// Non-special scheme: an authority only when "//" follows, opaque
	// scheme data otherwise.
	if strings.HasPrefix(rest, "//") {
		rest, rawQuery, rawFrag := splitQueryFragment(rest[2:])
		rel, err := parseAuthority(scheme, rest, false)
		if err != nil {
			return nil, err
		}
		return assemble(scheme, rel, "", rawQuery, rawFrag), nil
	}
	rest, rawQuery, rawFrag := splitQueryFragment(rest)
	opaque := percentenc.EncodeString(rest, percentenc.C0)
	return assemble(scheme, nil, opaque, rawQuery, rawFrag), nil
}

// parseReference handles special schemes and schemeless references. base is
// non-nil only when its scheme data may be inherited.
func (p *Parser) parseReference(scheme string, rest string, base *Url) (*Url, error) {
	special := isSpecial(scheme)
	rest, rawQuery, rawFrag := splitQueryFragment(rest)

	if base != nil && base.Relative == nil {
		// A non-hierarchical base resolves fragment-only references and
		// nothing else.
		if rest == "" && rawQuery == nil {
			u := assemble(base.Scheme, nil, base.Opaque, nil, rawFrag)
			u.Query = cloneString(base.Query)
			return u, nil
		}
		return nil, ErrRelativeWithoutBase
	}

	if rest == "" {
		if base == nil {
			if scheme != "file" {
				return nil, ErrEmptyHost
			}
			rel := &RelativeData{Host: DomainHost(""), Path: []string{""}}
			return assemble(scheme, rel, "", rawQuery, rawFrag), nil
		}
		u := assemble(scheme, base.Relative.clone(), "", rawQuery, rawFrag)
		if rawQuery == nil {
			u.Query = cloneString(base.Query)
		}
		return u, nil
	}

	if scheme == "file" {
		return p.parseFileReference(rest, base, rawQuery, rawFrag)
	}

	slashes := leadingSlashes(rest, special)
	if slashes >= 2 || base == nil {
		rel, err := parseAuthority(scheme, rest[slashes:], special)
		if err != nil {
			return nil, err
		}
		return assemble(scheme, rel, "", rawQuery, rawFrag), nil
	}

	rel := base.Relative.clone()
	if slashes == 1 {
		rel.Path = parsePath(nil, rest[1:], special, false)
	} else {
		if n := len(rel.Path); n > 0 {
			rel.Path = rel.Path[:n-1]
		}
		rel.Path = parsePath(rel.Path, rest, special, false)
	}
	return assemble(scheme, rel, "", rawQuery, rawFrag), nil
}

// parseFileReference covers the file-scheme quirks: optional authority,
// windows drive letters, and drive letters replacing an inherited path.
func (p *Parser) parseFileReference(rest string, base *Url, rawQuery, rawFrag *string) (*Url, error) {
	slashes := leadingSlashes(rest, true)

	if slashes >= 2 {
		// "file://..." — a host may follow, unless it is a drive letter.
		after := rest[2:]
		hostPart := after
		pathPart := ""
		if i := slashIndex(after, true); i >= 0 {
			hostPart, pathPart = after[:i], after[i+1:]
		}
		if isWindowsDrive(hostPart) {
			rel := &RelativeData{Host: DomainHost(""), Path: parsePath(nil, after, true, true)}
			return assemble("file", rel, "", rawQuery, rawFrag), nil
		}
		host, err := ParseHost(hostPart, true)
		if err != nil {
			return nil, err
		}
		rel := &RelativeData{Host: host, Path: parsePath(nil, pathPart, true, true)}
		return assemble("file", rel, "", rawQuery, rawFrag), nil
	}

	rel := &RelativeData{Host: DomainHost("")}
	if base != nil {
		rel.Host = base.Relative.Host
	}

	switch {
	case slashes == 1:
		rel.Path = parsePath(nil, rest[1:], true, true)
	case isWindowsDrive(firstSegment(rest, true)):
		// A bare drive letter replaces the inherited path outright.
		rel.Path = parsePath(nil, rest, true, true)
	case base != nil:
		prefix := append([]string(nil), base.Relative.Path...)
		if n := len(prefix); n > 0 {
			prefix = prefix[:n-1]
		}
		rel.Path = parsePath(prefix, rest, true, true)
	default:
		rel.Path = parsePath(nil, rest, true, true)
	}
	return assemble("file", rel, "", rawQuery, rawFrag), nil
}

// parseAuthority parses "userinfo@host:port" followed by an optional path,
// with leading slashes already stripped.
func parseAuthority(scheme string, s string, special bool) (*RelativeData, error) {
	auth := s
	pathRaw := ""
	hasPath := false
	if i := slashIndex(s, special); i >= 0 {
		auth, pathRaw, hasPath = s[:i], s[i+1:], true
	}

	rel := &RelativeData{DefaultPort: schemeDefaultPort(scheme)}

	if i := strings.LastIndexByte(auth, '@'); i >= 0 {
		userinfo := auth[:i]
		auth = auth[i+1:]
		name, pw, hasPw := strings.Cut(userinfo, ":")
		rel.Username = percentenc.EncodeString(name, percentenc.Userinfo)
		if hasPw {
			enc := percentenc.EncodeString(pw, percentenc.Userinfo)
			rel.Password = &enc
		}
	}

	hostStr, portStr, hasPort, err := splitHostPort(auth)
	if err != nil {
		return nil, err
	}
	host, err := ParseHost(hostStr, special)
	if err != nil {
		return nil, err
	}
	if special && scheme != "file" && host.IsEmpty() {
		return nil, ErrEmptyHost
	}
	rel.Host = host

	if hasPort && portStr != "" {
		port, err := parsePort(portStr)
		if err != nil {
			return nil, err
		}
		if rel.DefaultPort == nil || *rel.DefaultPort != port {
			rel.Port = &port
		}
	}

	if !hasPath {
		rel.Path = []string{""}
	} else {
		rel.Path = parsePath(nil, pathRaw, special, scheme == "file")
	}
	return rel, nil
}

func splitHostPort(auth string) (host, port string, hasPort bool, err error) {
	if strings.HasPrefix(auth, "[") {
		end := strings.IndexByte(auth, ']')
		if end < 0 {
			return "", "", false, ErrInvalidIpv6
		}
		host = auth[:end+1]
		rest := auth[end+1:]
		if rest == "" {
			return host, "", false, nil
		}
		if rest[0] != ':' {
			return "", "", false, ErrMalformedAuthority
		}
		return host, rest[1:], true, nil
	}
	host, port, hasPort = strings.Cut(auth, ":")
	return host, port, hasPort, nil
}

func parsePort(s string) (uint16, error) {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, ErrInvalidPort
		}
	}
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil || v > 65535 {
		return 0, ErrInvalidPort
	}
	return uint16(v), nil
}

// parsePath splits raw on '/' (and '\' for special schemes), applies
// dot-segment normalization on top of dst, and percent-encodes each kept
// segment with the path set.
func parsePath(dst []string, raw string, special, file bool) []string {
	segs := splitSlashes(raw, special)
	for i, seg := range segs {
		last := i == len(segs)-1
		switch dotSegment(seg) {
		case dotSingle:
			if last {
				dst = append(dst, "")
			}
		case dotDouble:
			// Popping stops at the path root.
			if len(dst) > 0 {
				dst = dst[:len(dst)-1]
			}
			if last {
				dst = append(dst, "")
			}
		default:
			if file && len(dst) == 0 && isWindowsDrive(seg) {
				seg = seg[:1] + ":"
			}
			dst = append(dst, percentenc.EncodeString(seg, percentenc.Path))
		}
	}
	if dst == nil {
		dst = []string{""}
	}
	return dst
}

const (
	dotNone = iota
	dotSingle
	dotDouble
)

// dotSegment classifies a raw segment as ".", ".." or neither, honoring the
// %2e spellings case-insensitively.
func dotSegment(seg string) int {
	switch len(seg) {
	case 1:
		if seg == "." {
			return dotSingle
		}
	case 2:
		if seg == ".." {
			return dotDouble
		}
	case 3:
		if isPctDot(seg) {
			return dotSingle
		}
	case 4:
		if seg[0] == '.' && isPctDot(seg[1:]) || isPctDot(seg[:3]) && seg[3] == '.' {
			return dotDouble
		}
	case 6:
		if isPctDot(seg[:3]) && isPctDot(seg[3:]) {
			return dotDouble
		}
	}
	return dotNone
}

func isPctDot(s string) bool {
	return len(s) == 3 && s[0] == '%' && s[1] == '2' && (s[2] == 'e' || s[2] == 'E')
}

func isWindowsDrive(seg string) bool {
	return len(seg) == 2 &&
		('a' <= seg[0] && seg[0] <= 'z' || 'A' <= seg[0] && seg[0] <= 'Z') &&
		(seg[1] == ':' || seg[1] == '|')
}

func firstSegment(raw string, special bool) string {
	if i := slashIndex(raw, special); i >= 0 {
		return raw[:i]
	}
	return raw
}

func splitSlashes(raw string, special bool) []string {
	if !special {
		return strings.Split(raw, "/")
	}
	var segs []string
	start := 0
	for i := 0; i < len(raw); i++ {
		if raw[i] == '/' || raw[i] == '\\' {
			segs = append(segs, raw[start:i])
			start = i + 1
		}
	}
	return append(segs, raw[start:])
}

func slashIndex(s string, special bool) int {
	i := strings.IndexByte(s, '/')
	if !special {
		return i
	}
	j := strings.IndexByte(s, '\\')
	if i < 0 || (j >= 0 && j < i) {
		return j
	}
	return i
}

func leadingSlashes(s string, special bool) int {
	n := 0
	for n < len(s) && (s[n] == '/' || (special && s[n] == '\\')) {
		n++
	}
	return n
}

// splitQueryFragment peels "#fragment" then "?query" off the input and
// percent-encodes them with their sets; the raw remainder is returned for
// path or authority parsing. nil means the delimiter was absent.
func splitQueryFragment(s string) (rest string, query, frag *string) {
	if i := strings.IndexByte(s, '#'); i >= 0 {
		f := percentenc.EncodeString(s[i+1:], percentenc.C0)
		frag = &f
		s = s[:i]
	}
	if i := strings.IndexByte(s, '?'); i >= 0 {
		q := percentenc.EncodeString(s[i+1:], percentenc.Query)
		query = &q
		s = s[:i]
	}
	return s, query, frag
}

func assemble(scheme string, rel *RelativeData, opaque string, query, frag *string) *Url {
	return &Url{Scheme: scheme, Relative: rel, Opaque: opaque, Query: query, Fragment: frag}
}

// preprocess strips leading and trailing C0 controls and spaces, then
// removes every tab and newline.
func preprocess(input string) string {
	input = strings.TrimFunc(input, func(r rune) bool { return r <= ' ' })
	if !strings.ContainsAny(input, "\t\n\r") {
		return input
	}
	var b strings.Builder
	b.Grow(len(input))
	for i := 0; i < len(input); i++ {
		switch input[i] {
		case '\t', '\n', '\r':
		default:
			b.WriteByte(input[i])
		}
	}
	return b.String()
}

// splitScheme peels "scheme:" off the input: a letter followed by
// letters, digits, '+', '-' or '.'.
func splitScheme(input string) (scheme, rest string, ok bool) {
	if input == "" || !isSchemeStart(input[0]) {
		return "", input, false
	}
	for i := 1; i < len(input); i++ {
		c := input[i]
		if c == ':' {
			return input[:i], input[i+1:], true
		}
		if !isSchemeByte(c) {
			return "", input, false
		}
	}
	return "", input, false
}

func isSchemeStart(b byte) bool {
	return 'a' <= b && b <= 'z' || 'A' <= b && b <= 'Z'
}

func isSchemeByte(b byte) bool {
	return isSchemeStart(b) || '0' <= b && b <= '9' || b == '+' || b == '-' || b == '.'
}
