package paths

import (
	"path"
	"strings"
)

// Normalize converts a path to a comparable lexical form: backslashes become
// forward slashes, `.` and `..` segments are simplified, the result is
// lower-cased so the comparison matches case-insensitive filesystems on every
// platform.
func Normalize(p string) string {
	s := strings.ReplaceAll(p, "\\", "/")
	s = path.Clean(s)
	return strings.ToLower(s)
}

// HasParentSegment reports whether a relative path contains a `..` segment
// before any simplification.
func HasParentSegment(rel string) bool {
	for _, seg := range strings.FieldsFunc(rel, func(r rune) bool { return r == '/' || r == '\\' }) {
		if seg == ".." {
			return true
		}
	}
	return false
}

// ValidSegment reports whether s is usable as a single path element: it must
// be non-empty, must not be a dot segment and must contain no separator under
// either convention.
func ValidSegment(s string) bool {
	if s == "" || s == "." || s == ".." {
		return false
	}
	return !strings.ContainsAny(s, "/\\")
}

// IsAbs reports whether p is absolute under either separator convention,
// including drive-letter and UNC forms.
func IsAbs(p string) bool {
	if strings.HasPrefix(p, "/") || strings.HasPrefix(p, "\\") {
		return true
	}
	if len(p) >= 2 && p[1] == ':' {
		c := p[0]
		if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') {
			return true
		}
	}
	return false
}

// UnderRoot reports whether candidate, after normalization, equals root or
// sits beneath it. Both arguments may use either separator convention.
func UnderRoot(root, candidate string) bool {
	r := Normalize(root)
	c := Normalize(candidate)
	if c == r {
		return true
	}
	if r == "/" {
		return strings.HasPrefix(c, "/")
	}
	return strings.HasPrefix(c, r+"/")
}
