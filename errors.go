package weburl

import "errors"

// Parse errors. Every boundary operation returns one of these instead of
// panicking; malformed input is never fatal.
var (
	ErrRelativeWithoutBase = errors.New("weburl: relative URL without a usable base")
	ErrEmptyHost           = errors.New("weburl: empty host")
	ErrInvalidPort         = errors.New("weburl: invalid port number")
	ErrInvalidDomain       = errors.New("weburl: invalid domain")
	ErrInvalidIpv6         = errors.New("weburl: invalid IPv6 address")
	ErrForbiddenHostByte   = errors.New("weburl: forbidden host code point")
	ErrMalformedAuthority  = errors.New("weburl: malformed authority")
)

// File path bridge errors.
var (
	ErrNotFileUrl     = errors.New("weburl: not a file URL")
	ErrRelativePath   = errors.New("weburl: path is not absolute")
	ErrPathNul        = errors.New("weburl: path segment contains a NUL byte")
	ErrUnexpectedHost = errors.New("weburl: file URL has a non-empty host")
	ErrPathNotUnicode = errors.New("weburl: path segment is not valid UTF-8")
	ErrDriveMismatch  = errors.New("weburl: file URL path does not start with a drive letter")
)
