// Package seal converts a linked project into a self-contained, forced-
// offline deliverable: validate the project, copy exact tool binaries in,
// write the sealed config and archive the tree.
package seal

import (
	"time"

	"github.com/rs/zerolog"

	"toolbay/internal/paths"
)

// Result reports a sealing run. Errors is always populated on failure and
// empty on success so callers handle both uniformly.
type Result struct {
	Success     bool     `json:"success"`
	ArchivePath string   `json:"sealed_archive_path,omitempty"`
	SizeMB      float64  `json:"size_mb,omitempty"`
	ToolsCopied []string `json:"tools_copied,omitempty"`
	Errors      []string `json:"errors"`
}

// Sealer runs the pipeline against one project. Now is overridable for
// deterministic archive names in tests.
type Sealer struct {
	Paths paths.ProjectPaths
	Log   zerolog.Logger
	Now   func() time.Time
}

// Seal runs the four phases in order, short-circuiting on the first phase
// that fails. Within the copy phase, one tool's failure does not block the
// rest, but any failure stops the run before configuration.
func (s Sealer) Seal() Result {
	result := Result{Errors: []string{}}

	cfg, errs := s.validate()
	if len(errs) > 0 {
		result.Errors = errs
		return result
	}

	copied, errs := s.copyTools(cfg)
	result.ToolsCopied = copied
	if len(errs) > 0 {
		result.Errors = errs
		return result
	}

	if err := s.writeSealedConfig(cfg); err != nil {
		result.Errors = []string{err.Error()}
		return result
	}

	archivePath, sizeMB, err := s.archive()
	if err != nil {
		result.Errors = []string{err.Error()}
		return result
	}

	result.Success = true
	result.ArchivePath = archivePath
	result.SizeMB = sizeMB
	s.Log.Info().Str("archive", archivePath).Float64("size_mb", sizeMB).Msg("project sealed")
	return result
}

func (s Sealer) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}
