package mirror

import (
	"fmt"
	"path/filepath"

	"toolbay/internal/paths"
)

// ResolveArchivePath resolves a manifest-declared relative archive path
// against the mirror root. Absolute paths, parent-directory segments and any
// result that escapes the root are rejected; the check is lexical and
// case-insensitive so it holds on every platform.
func ResolveArchivePath(mirrorRoot, relPath string) (string, error) {
	if relPath == "" {
		return "", fmt.Errorf("archive path is empty")
	}
	if paths.IsAbs(relPath) {
		return "", fmt.Errorf("archive path %q is absolute", relPath)
	}
	if paths.HasParentSegment(relPath) {
		return "", fmt.Errorf("archive path %q contains a parent directory segment", relPath)
	}

	full := filepath.Join(mirrorRoot, filepath.FromSlash(relPath))
	if !paths.UnderRoot(mirrorRoot, full) {
		return "", fmt.Errorf("archive path %q escapes the mirror root", relPath)
	}
	return full, nil
}
