package hydrate

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"

	"toolbay/internal/mirror"
)

// remoteFetcher downloads archive_url entries to a private temp file,
// reporting byte progress as it streams. Entries that declare a local
// archive_path resolve against the mirror root like the local fetcher.
type remoteFetcher struct {
	root   string
	client *http.Client
}

func (f remoteFetcher) fetch(entry mirror.ToolEntry, progress func(done, total int64)) (string, func(), error) {
	if entry.ArchiveURL == "" {
		return localFetcher{root: f.root}.fetch(entry, progress)
	}

	client := f.client
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequest(http.MethodGet, entry.ArchiveURL, nil)
	if err != nil {
		return "", nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", "toolbay/1.0")

	resp, err := client.Do(req)
	if err != nil {
		return "", nil, fmt.Errorf("download %s: %w", entry.ArchiveURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", nil, fmt.Errorf("download %s: unexpected status %s", entry.ArchiveURL, resp.Status)
	}

	// The random segment goes in the middle so the archive extension
	// survives for format detection.
	tmp, err := os.CreateTemp("", "toolbay-*-"+archiveBase(entry.ArchiveURL))
	if err != nil {
		return "", nil, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpPath) }

	total := resp.ContentLength
	if total < 0 {
		total = entry.SizeBytes
	}
	counter := &progressWriter{total: total, report: progress}

	if _, err := io.Copy(io.MultiWriter(tmp, counter), resp.Body); err != nil {
		tmp.Close()
		cleanup()
		return "", nil, fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return "", nil, fmt.Errorf("close temp file: %w", err)
	}
	counter.flush()
	return tmpPath, cleanup, nil
}

// archiveBase keeps the archive's file name so format detection by extension
// still works on the temp copy.
func archiveBase(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "archive"
	}
	base := path.Base(parsed.Path)
	if base == "." || base == "/" || base == "" {
		return "archive"
	}
	return base
}

// progressWriter throttles progress callbacks to one per 256 KiB plus a final
// flush so event channels are not flooded by small reads.
type progressWriter struct {
	done     int64
	total    int64
	reported int64
	report   func(done, total int64)
}

const progressStride = 256 << 10

func (w *progressWriter) Write(p []byte) (int, error) {
	w.done += int64(len(p))
	if w.report != nil && w.done-w.reported >= progressStride {
		w.reported = w.done
		w.report(w.done, w.total)
	}
	return len(p), nil
}

func (w *progressWriter) flush() {
	if w.report != nil && w.done != w.reported {
		w.report(w.done, w.total)
	}
}
