// Package library resolves and enumerates the shared per-user tool library:
// a versioned cache of hydrated tool binaries laid out as
// <root>/<tool id>/<version>/.
package library

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"

	"golang.org/x/mod/semver"

	"toolbay/internal/paths"
)

// OverrideEnv redirects the library root for test isolation. Production code
// never sets it.
const OverrideEnv = "TOOLBAY_LIBRARY_DIR"

// Root determines the per-user library directory. A missing home directory is
// reported as an error; callers treat that as "library unavailable", not a
// crash.
func Root() (string, error) {
	if override, ok := os.LookupEnv(OverrideEnv); ok && override != "" {
		abs, err := filepath.Abs(override)
		if err != nil {
			return "", fmt.Errorf("resolve %s: %w", OverrideEnv, err)
		}
		return abs, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("detect user home: %w", err)
	}

	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "Toolbay", "library"), nil
	case "windows":
		if localAppData := os.Getenv("LOCALAPPDATA"); localAppData != "" {
			return filepath.Join(localAppData, "Toolbay", "library"), nil
		}
		return filepath.Join(home, "AppData", "Local", "Toolbay", "library"), nil
	default:
		return filepath.Join(home, ".local", "share", "toolbay", "library"), nil
	}
}

// ToolPath maps a (tool id, version) reference to its library directory. The
// mapping is deterministic and does not require the directory to exist. Both
// parts must be single path segments so the entry can never land outside the
// library root.
func ToolPath(id, version string) (string, error) {
	if !paths.ValidSegment(id) || !paths.ValidSegment(version) {
		return "", fmt.Errorf("tool reference %s@%s is not a valid library key", id, version)
	}
	root, err := Root()
	if err != nil {
		return "", err
	}
	return filepath.Join(root, id, version), nil
}

// ToolExists reports whether a hydrated entry is present for the reference.
// Resolution failure reads as absent.
func ToolExists(id, version string) bool {
	if id == "" || version == "" {
		return false
	}
	path, err := ToolPath(id, version)
	if err != nil {
		return false
	}
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}

// ListTools enumerates tool ids present in the library. A missing or
// unresolvable root yields an empty list, never an error.
func ListTools() []string {
	root, err := Root()
	if err != nil {
		return nil
	}
	return listDirs(root)
}

// ListVersions enumerates hydrated versions of a tool, newest first when the
// versions parse as semver, lexically descending otherwise.
func ListVersions(id string) []string {
	if !paths.ValidSegment(id) {
		return nil
	}
	root, err := Root()
	if err != nil {
		return nil
	}
	versions := listDirs(filepath.Join(root, id))
	sortVersions(versions)
	return versions
}

func listDirs(dir string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	var names []string
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func sortVersions(versions []string) {
	sort.Slice(versions, func(i, j int) bool {
		vi, vj := "v"+versions[i], "v"+versions[j]
		if semver.IsValid(vi) && semver.IsValid(vj) {
			return semver.Compare(vi, vj) > 0
		}
		return versions[i] > versions[j]
	})
}

// Metadata describes a library entry for display and validation.
type Metadata struct {
	Exists       bool      `json:"exists"`
	Path         string    `json:"path,omitempty"`
	SizeBytes    int64     `json:"size_bytes,omitempty"`
	LastModified time.Time `json:"last_modified"`
}

// ToolMetadata resolves an entry and, when present, sums its on-disk size.
// Every failure mode collapses to Exists=false.
func ToolMetadata(id, version string) Metadata {
	path, err := ToolPath(id, version)
	if err != nil {
		return Metadata{}
	}
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return Metadata{}
	}

	size, newest := dirStats(path)
	modified := info.ModTime()
	if newest.After(modified) {
		modified = newest
	}
	return Metadata{
		Exists:       true,
		Path:         path,
		SizeBytes:    size,
		LastModified: modified,
	}
}

// dirStats walks a tree iteratively and totals file sizes, tracking the
// newest modification time seen. Unreadable children are skipped.
func dirStats(root string) (int64, time.Time) {
	var (
		total  int64
		newest time.Time
	)
	queue := []string{root}
	for len(queue) > 0 {
		dir := queue[0]
		queue = queue[1:]

		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, entry := range entries {
			full := filepath.Join(dir, entry.Name())
			if entry.IsDir() {
				queue = append(queue, full)
				continue
			}
			info, err := entry.Info()
			if err != nil {
				continue
			}
			total += info.Size()
			if info.ModTime().After(newest) {
				newest = info.ModTime()
			}
		}
	}
	return total, newest
}

// Remove deletes a hydrated entry wholesale, pruning the tool directory when
// the last version goes away.
func Remove(id, version string) error {
	path, err := ToolPath(id, version)
	if err != nil {
		return err
	}
	if err := os.RemoveAll(path); err != nil {
		return fmt.Errorf("remove library entry: %w", err)
	}
	parent := filepath.Dir(path)
	if remaining, err := os.ReadDir(parent); err == nil && len(remaining) == 0 {
		_ = os.Remove(parent)
	}
	return nil
}
