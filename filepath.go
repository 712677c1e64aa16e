package weburl

import (
	"runtime"
	"strings"
	"unicode/utf8"

	"github.com/weburl/weburl/percentenc"
)

// PathFlavor selects the native absolute-path convention the bridge
// converts against.
type PathFlavor int32

const (
	PathFlavorPosix PathFlavor = iota
	PathFlavorWindows
)

func nativeFlavor() PathFlavor {
	if runtime.GOOS == "windows" {
		return PathFlavorWindows
	}
	return PathFlavorPosix
}

// FromFilePath converts a native absolute file path into a file URL. It
// fails on relative paths, and for the windows flavor also on
// drive-relative and UNC paths.
func FromFilePath(path string) (*Url, error) {
	return FromFilePathFlavor(path, nativeFlavor())
}

func FromFilePathFlavor(path string, flavor PathFlavor) (*Url, error) {
	segments, err := pathSegments(path, flavor)
	if err != nil {
		return nil, err
	}
	return fileUrl(segments), nil
}

// FromDirectoryPath is FromFilePath plus a trailing empty segment, so the
// serialization ends with a separator.
func FromDirectoryPath(path string) (*Url, error) {
	return FromDirectoryPathFlavor(path, nativeFlavor())
}

func FromDirectoryPathFlavor(path string, flavor PathFlavor) (*Url, error) {
	segments, err := pathSegments(path, flavor)
	if err != nil {
		return nil, err
	}
	if n := len(segments); n == 0 || segments[n-1] != "" {
		segments = append(segments, "")
	}
	return fileUrl(segments), nil
}

func fileUrl(segments []string) *Url {
	encoded := make([]string, len(segments))
	for i, seg := range segments {
		encoded[i] = percentenc.EncodeString(seg, percentenc.Path)
	}
	return &Url{
		Scheme:   "file",
		Relative: &RelativeData{Host: DomainHost(""), Path: encoded},
	}
}

func pathSegments(path string, flavor PathFlavor) ([]string, error) {
	switch flavor {
	case PathFlavorWindows:
		// Absolute means drive-qualified; drive-relative (`\x`) and UNC
		// (`\\server\share`) forms are rejected.
		if len(path) < 3 || !isWindowsDrive(path[:2]) || (path[2] != '\\' && path[2] != '/') {
			return nil, ErrRelativePath
		}
		drive := strings.ToUpper(path[:1]) + ":"
		rest := strings.NewReplacer("\\", "/").Replace(path[3:])
		return append([]string{drive}, strings.Split(rest, "/")...), nil
	default:
		if !strings.HasPrefix(path, "/") {
			return nil, ErrRelativePath
		}
		return strings.Split(path[1:], "/"), nil
	}
}

// ToFilePath converts a file URL back to a native path. Segments are
// percent-decoded to raw bytes and joined; invalid text sequences are
// passed through unmodified on posix (the path is bytes there), while the
// windows flavor requires valid UTF-8. A decoded NUL always fails.
func (u *Url) ToFilePath() (string, error) {
	return u.ToFilePathFlavor(nativeFlavor())
}

func (u *Url) ToFilePathFlavor(flavor PathFlavor) (string, error) {
	if u.Scheme != "file" {
		return "", ErrNotFileUrl
	}
	rel := u.Relative
	if rel == nil {
		return "", ErrNotFileUrl
	}
	if !rel.Host.IsEmpty() {
		return "", ErrUnexpectedHost
	}

	decoded := make([]string, len(rel.Path))
	for i, seg := range rel.Path {
		raw := percentenc.DecodeString(seg)
		for _, b := range raw {
			if b == 0 {
				return "", ErrPathNul
			}
		}
		if flavor == PathFlavorWindows && !utf8.Valid(raw) {
			return "", ErrPathNotUnicode
		}
		decoded[i] = string(raw)
	}

	switch flavor {
	case PathFlavorWindows:
		if len(decoded) == 0 || !isWindowsDrive(decoded[0]) {
			return "", ErrDriveMismatch
		}
		drive := decoded[0][:1] + ":"
		if len(decoded) == 1 {
			return drive + `\`, nil
		}
		return drive + `\` + strings.Join(decoded[1:], `\`), nil
	default:
		return "/" + strings.Join(decoded, "/"), nil
	}
}
