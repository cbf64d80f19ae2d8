package hydrate

import (
	"fmt"
	"os"

	"toolbay/internal/mirror"
)

// localFetcher resolves archive_path entries inside the mirror root. It never
// copies or mutates mirror contents; the archive is read in place.
type localFetcher struct {
	root string
}

func (f localFetcher) fetch(entry mirror.ToolEntry, _ func(done, total int64)) (string, func(), error) {
	if entry.ArchivePath == "" {
		return "", nil, fmt.Errorf("tool %s@%s declares a remote archive; use the remote hydrator", entry.ID, entry.Version)
	}

	full, err := mirror.ResolveArchivePath(f.root, entry.ArchivePath)
	if err != nil {
		return "", nil, err
	}

	info, err := os.Stat(full)
	if err != nil {
		return "", nil, fmt.Errorf("mirror archive unreachable: %s", full)
	}
	if info.IsDir() {
		return "", nil, fmt.Errorf("mirror archive is a directory: %s", full)
	}
	return full, func() {}, nil
}
