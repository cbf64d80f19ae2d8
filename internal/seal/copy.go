package seal

import (
	"fmt"
	"os"
	"path/filepath"

	"toolbay/internal/config"
	"toolbay/internal/library"
)

// copyTools copies each referenced tool's library directory into the
// project-local tools dir under <id>_<version>. Copies are all-or-nothing
// per tool: the tree is staged next to the destination and committed by
// rename. One tool's failure does not stop the rest.
func (s Sealer) copyTools(cfg config.Config) ([]string, []string) {
	var (
		copied []string
		errs   []string
	)

	if err := os.MkdirAll(s.Paths.ToolsDir, 0o755); err != nil {
		return nil, []string{fmt.Sprintf("create tools directory: %v", err)}
	}

	for _, tool := range cfg.Tools {
		if tool.Path != "" {
			continue
		}
		if err := s.copyOne(tool); err != nil {
			s.Log.Error().Str("tool", tool.Reference()).Err(err).Msg("tool copy failed")
			errs = append(errs, fmt.Sprintf("copy %s: %v", tool.Reference(), err))
			continue
		}
		copied = append(copied, tool.Reference())
	}

	return copied, errs
}

func (s Sealer) copyOne(tool config.ToolRef) error {
	source, err := library.ToolPath(tool.ID, tool.Version)
	if err != nil {
		return err
	}

	stage, err := os.MkdirTemp(s.Paths.ToolsDir, "."+tool.ID+"-copy-")
	if err != nil {
		return fmt.Errorf("create staging dir: %w", err)
	}
	defer os.RemoveAll(stage)

	if err := copyTree(source, stage); err != nil {
		return err
	}

	dest := filepath.Join(s.Paths.ToolsDir, tool.ID+"_"+tool.Version)
	if err := os.RemoveAll(dest); err != nil {
		return fmt.Errorf("replace existing copy: %w", err)
	}
	if err := os.Rename(stage, dest); err != nil {
		return fmt.Errorf("commit copy: %w", err)
	}
	return nil
}

// copyTree duplicates a directory iteratively with an explicit queue,
// aborting on the first I/O error.
func copyTree(srcRoot, destRoot string) error {
	type pair struct {
		src  string
		dest string
	}
	queue := []pair{{srcRoot, destRoot}}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		entries, err := os.ReadDir(cur.src)
		if err != nil {
			return fmt.Errorf("read dir %s: %w", cur.src, err)
		}
		if err := os.MkdirAll(cur.dest, 0o755); err != nil {
			return fmt.Errorf("create dir %s: %w", cur.dest, err)
		}
		for _, entry := range entries {
			src := filepath.Join(cur.src, entry.Name())
			dest := filepath.Join(cur.dest, entry.Name())
			if entry.IsDir() {
				queue = append(queue, pair{src, dest})
				continue
			}
			info, err := entry.Info()
			if err != nil {
				return fmt.Errorf("stat %s: %w", src, err)
			}
			if err := copyFileMode(src, dest, info.Mode()); err != nil {
				return err
			}
		}
	}
	return nil
}

func copyFileMode(src, dest string, mode os.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open %s: %w", src, err)
	}
	defer in.Close()

	out, err := os.OpenFile(dest, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode.Perm())
	if err != nil {
		return fmt.Errorf("create %s: %w", dest, err)
	}
	if _, err := out.ReadFrom(in); err != nil {
		out.Close()
		return fmt.Errorf("copy %s: %w", dest, err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("close %s: %w", dest, err)
	}
	return nil
}
