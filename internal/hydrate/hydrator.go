package hydrate

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"

	"toolbay/internal/library"
	"toolbay/internal/mirror"
	"toolbay/internal/offline"
)

// archiveFetcher materializes a manifest entry's archive as a local file.
// cleanup releases any temporary copy; it is non-nil on success.
type archiveFetcher interface {
	fetch(entry mirror.ToolEntry, progress func(done, total int64)) (string, func(), error)
}

// Hydrator installs tools from one mirror into the shared library. A single
// hydration pass may be active per instance; mirror contents are never
// mutated.
type Hydrator struct {
	repo    mirror.Repository
	fetcher archiveFetcher
	gate    *offline.Enforcer
	log     zerolog.Logger

	running   atomic.Bool
	cancelled atomic.Bool
}

// New builds a hydrator for a local mirror directory.
func New(mirrorRoot string, log zerolog.Logger) *Hydrator {
	return &Hydrator{
		repo:    mirror.Repository{Root: mirrorRoot},
		fetcher: localFetcher{root: mirrorRoot},
		log:     log,
	}
}

// NewRemote builds a hydrator that may fetch archive URLs over the network.
// The offline gate is consulted before every pass; when it blocks, every
// requested tool fails.
func NewRemote(mirrorRoot string, gate *offline.Enforcer, log zerolog.Logger) *Hydrator {
	return &Hydrator{
		repo:    mirror.Repository{Root: mirrorRoot},
		fetcher: remoteFetcher{root: mirrorRoot},
		gate:    gate,
		log:     log,
	}
}

// Running reports whether a hydration pass is in flight.
func (h *Hydrator) Running() bool {
	return h.running.Load()
}

// Cancel requests cooperative cancellation of the in-flight pass. The current
// tool may still finish; no further notifications are emitted afterwards.
func (h *Hydrator) Cancel() {
	h.cancelled.Store(true)
}

// Hydrate installs the requested references synchronously on the caller's
// goroutine and reports the aggregate outcome. One tool's failure never
// aborts the batch, and nothing is retried automatically.
func (h *Hydrator) Hydrate(refs []Ref) Report {
	return h.run(refs, func(Event) {})
}

func (h *Hydrator) run(refs []Ref, emit func(Event)) Report {
	report := Report{}

	if h.gate != nil {
		if guard := h.gate.Guard("remote hydration"); !guard.Allowed {
			h.log.Warn().Str("code", guard.ErrorCode).Msg(guard.Message)
			for _, ref := range refs {
				emit(StartedEvent{Ref: ref})
				out := Outcome{Ref: ref, Message: guard.Message}
				report.record(out)
				emit(CompletedEvent{Ref: ref, Success: false, Message: out.Message})
			}
			emit(FinishedEvent{Success: false, Failed: report.FailedTools})
			return report
		}
	}

	for _, ref := range refs {
		if h.cancelled.Load() {
			break
		}
		emit(StartedEvent{Ref: ref})
		out := h.hydrateOne(ref, emit)
		report.record(out)
		emit(CompletedEvent{Ref: ref, Success: out.Installed, Message: out.Message})
	}

	emit(FinishedEvent{Success: report.Success(), Failed: report.FailedTools})
	return report
}

func (h *Hydrator) hydrateOne(ref Ref, emit func(Event)) Outcome {
	if library.ToolExists(ref.ID, ref.Version) {
		h.log.Debug().Str("tool", ref.String()).Msg("already in library")
		return Outcome{Ref: ref, Installed: true, Message: "already in library"}
	}

	// The manifest is reloaded fresh for every tool so edits between passes
	// are always observed.
	manifest, codes, err := h.repo.Load()
	if err != nil {
		return Outcome{Ref: ref, Message: err.Error()}
	}
	if len(codes) > 0 {
		return Outcome{Ref: ref, Message: "mirror manifest invalid: " + strings.Join(codes, ", ")}
	}

	entry, ok := manifest.Find(ref.ID, ref.Version)
	if !ok {
		return Outcome{Ref: ref, Message: fmt.Sprintf("tool %s not offered by mirror %s", ref, manifest.MirrorName)}
	}

	progress := func(done, total int64) {
		emit(ProgressEvent{Ref: ref, BytesDone: done, BytesTotal: total})
	}
	archivePath, cleanup, err := h.fetcher.fetch(entry, progress)
	if err != nil {
		return Outcome{Ref: ref, Message: err.Error()}
	}
	defer cleanup()

	if entry.SHA256 != "" {
		match, err := verifyChecksum(archivePath, entry.SHA256)
		if err != nil {
			return Outcome{Ref: ref, Message: err.Error()}
		}
		if !match {
			h.log.Error().Str("tool", ref.String()).Msg("archive hash mismatch")
			return Outcome{Ref: ref, Message: fmt.Sprintf("archive hash mismatch for %s", ref)}
		}
	}

	if err := installArchive(ref, archivePath); err != nil {
		return Outcome{Ref: ref, Message: err.Error()}
	}

	if !library.ToolExists(ref.ID, ref.Version) {
		return Outcome{Ref: ref, Message: fmt.Sprintf("library entry missing after extraction for %s", ref)}
	}

	h.log.Info().Str("tool", ref.String()).Msg("hydrated")
	return Outcome{Ref: ref, Installed: true}
}

// installLocks serializes installs of the same (id, version) across
// hydrators within this process. Cross-process coordination is out of scope;
// the design assumes a single active hydration per process.
var installLocks sync.Map

func installArchive(ref Ref, archivePath string) error {
	lock, _ := installLocks.LoadOrStore(ref, &sync.Mutex{})
	mu := lock.(*sync.Mutex)
	mu.Lock()
	defer mu.Unlock()

	root, err := library.Root()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return fmt.Errorf("prepare library root: %w", err)
	}

	// Dot prefix keeps half-finished stages out of library listings.
	stageDir, err := os.MkdirTemp(root, "."+ref.ID+"-stage-")
	if err != nil {
		return fmt.Errorf("create staging dir: %w", err)
	}
	defer os.RemoveAll(stageDir)

	if err := extractArchive(archivePath, stageDir); err != nil {
		return err
	}

	dest, err := library.ToolPath(ref.ID, ref.Version)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("prepare tool dir: %w", err)
	}
	if err := os.RemoveAll(dest); err != nil {
		return fmt.Errorf("replace library entry: %w", err)
	}
	if err := os.Rename(stripWrapperDir(stageDir), dest); err != nil {
		return fmt.Errorf("commit library entry: %w", err)
	}
	return nil
}
