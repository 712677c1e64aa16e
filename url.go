// Package weburl implements the WHATWG URL parsing and serialization model:
// parsing arbitrary input (optionally against a base URL) into a structured
// value that serializes back to the exact text the standard mandates.
package weburl

import (
	"strconv"
	"strings"
)

// Url is a parsed URL. Relative is non-nil for hierarchical URLs (the
// special schemes, and any scheme the parser found an authority for);
// otherwise Opaque carries the scheme data verbatim. Query and Fragment
// distinguish absent (nil) from present-but-empty.
type Url struct {
	Scheme   string
	Relative *RelativeData
	Opaque   string
	Query    *string
	Fragment *string
}

// RelativeData is the authority and path of a hierarchical URL. Path
// segments are stored percent-encoded; none of them contains a raw '/'.
// Port is nil when unset or equal to DefaultPort.
type RelativeData struct {
	Username    string
	Password    *string
	Host        Host
	Port        *uint16
	DefaultPort *uint16
	Path        []string
}

// Host returns the URL's host. ok is false for non-relative URLs.
func (u *Url) Host() (Host, bool) {
	if u.Relative == nil {
		return Host{}, false
	}
	return u.Relative.Host, true
}

// Port returns the explicit port, if any. A port equal to the scheme
// default is never explicit.
func (u *Url) Port() (uint16, bool) {
	if u.Relative == nil || u.Relative.Port == nil {
		return 0, false
	}
	return *u.Relative.Port, true
}

// Path returns the path segments, or nil for a non-relative URL.
func (u *Url) Path() []string {
	if u.Relative == nil {
		return nil
	}
	return u.Relative.Path
}

// PathMut returns the path for in-place edits. Calling it on a
// non-relative URL is a programmer error and panics; check Relative first.
func (u *Url) PathMut() *[]string {
	return &u.mustRelative("PathMut").Path
}

// SetHost parses host under the URL's scheme rules and commits it only if
// the parse succeeds; on error the URL is unchanged.
func (u *Url) SetHost(host string) error {
	rel := u.mustRelative("SetHost")
	h, err := ParseHost(host, isSpecial(u.Scheme))
	if err != nil {
		return err
	}
	if isSpecial(u.Scheme) && u.Scheme != "file" && h.IsEmpty() {
		return ErrEmptyHost
	}
	rel.Host = h
	return nil
}

// SetPort sets or clears the explicit port. A port equal to the scheme
// default is normalized away. file URLs carry no port.
func (u *Url) SetPort(port *uint16) error {
	rel := u.mustRelative("SetPort")
	if u.Scheme == "file" {
		return ErrInvalidPort
	}
	if port == nil || (rel.DefaultPort != nil && *port == *rel.DefaultPort) {
		rel.Port = nil
		return nil
	}
	p := *port
	rel.Port = &p
	return nil
}

func (u *Url) mustRelative(op string) *RelativeData {
	if u.Relative == nil {
		panic("weburl: " + op + " called on a non-relative URL")
	}
	return u.Relative
}

// String serializes the URL. Parsing the result with no base yields an
// equal Url.
func (u *Url) String() string {
	var b strings.Builder
	b.WriteString(u.Scheme)
	b.WriteByte(':')
	if rel := u.Relative; rel != nil {
		b.WriteString("//")
		if rel.Username != "" || rel.Password != nil {
			b.WriteString(rel.Username)
			if rel.Password != nil {
				b.WriteByte(':')
				b.WriteString(*rel.Password)
			}
			b.WriteByte('@')
		}
		b.WriteString(rel.Host.String())
		if rel.Port != nil {
			b.WriteByte(':')
			b.WriteString(strconv.Itoa(int(*rel.Port)))
		}
		b.WriteByte('/')
		b.WriteString(strings.Join(rel.Path, "/"))
	} else {
		b.WriteString(u.Opaque)
	}
	if u.Query != nil {
		b.WriteByte('?')
		b.WriteString(*u.Query)
	}
	if u.Fragment != nil {
		b.WriteByte('#')
		b.WriteString(*u.Fragment)
	}
	return b.String()
}

// SerializePath returns the path component as text ("/"-joined), or the
// opaque scheme data for non-relative URLs.
func (u *Url) SerializePath() string {
	if u.Relative == nil {
		return u.Opaque
	}
	return "/" + strings.Join(u.Relative.Path, "/")
}

func (r *RelativeData) clone() *RelativeData {
	c := *r
	if r.Password != nil {
		pw := *r.Password
		c.Password = &pw
	}
	if r.Port != nil {
		p := *r.Port
		c.Port = &p
	}
	if r.DefaultPort != nil {
		p := *r.DefaultPort
		c.DefaultPort = &p
	}
	c.Path = append([]string(nil), r.Path...)
	return &c
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
