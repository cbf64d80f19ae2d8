package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"toolbay/internal/config"
	"toolbay/internal/hydrate"
	"toolbay/internal/logx"
	"toolbay/internal/offline"
	"toolbay/internal/tui"
)

var (
	hydrateRemote     bool
	hydrateNoProgress bool
)

func newHydrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hydrate [tool@version ...]",
		Short: "Install tools from the project's mirror into the library",
		Long: "Installs the named tool references, or every tool linked by the project\n" +
			"config when none are given. Archives are hash-verified before extraction.",
		RunE: runHydrate,
	}
	cmd.Flags().BoolVar(&hydrateRemote, "remote", false, "Allow fetching remote archive URLs")
	cmd.Flags().BoolVar(&hydrateNoProgress, "no-progress", false, "Disable the progress display")
	return cmd
}

func runHydrate(cmd *cobra.Command, args []string) error {
	pp, cfg, err := loadProject()
	if err != nil {
		return err
	}
	if err := pp.EnsureMetaDirs(); err != nil {
		return err
	}

	refs, err := resolveRefs(cfg, args)
	if err != nil {
		return err
	}
	if len(refs) == 0 {
		return fmt.Errorf("no tools to hydrate; link them in %s", pp.ConfigFile)
	}

	mirrorRoot := cfg.Mirror.Path
	if mirrorRoot == "" {
		return fmt.Errorf("project config declares no mirror path")
	}
	if !filepath.IsAbs(mirrorRoot) {
		mirrorRoot = filepath.Join(pp.Root, mirrorRoot)
	}

	logger, closer, err := logx.New(pp)
	if err != nil {
		return err
	}
	defer closer.Close()

	var hydrator *hydrate.Hydrator
	if hydrateRemote {
		hydrator = hydrate.NewRemote(mirrorRoot, offline.Gate(), logger)
	} else {
		hydrator = hydrate.New(mirrorRoot, logger)
	}

	var report hydrate.Report
	if hydrateNoProgress || outputJSON {
		report = hydrator.Hydrate(refs)
	} else {
		report, err = hydrateWithProgress(cmd, hydrator, refs)
		if err != nil {
			return err
		}
	}

	out := cmd.OutOrStdout()
	if outputJSON {
		if err := printJSON(out, report); err != nil {
			return err
		}
	} else {
		fmt.Fprintf(out, "installed %d, failed %d\n", report.InstalledCount, report.FailedCount)
		for _, ref := range report.FailedTools {
			fmt.Fprintf(out, "  failed: %s\n", ref)
		}
	}

	if !report.Success() {
		return fmt.Errorf("%d tool(s) failed to hydrate", report.FailedCount)
	}
	return nil
}

// hydrateWithProgress runs the async pipeline and drains its events into the
// progress TUI on the program's own goroutine.
func hydrateWithProgress(cmd *cobra.Command, hydrator *hydrate.Hydrator, refs []hydrate.Ref) (hydrate.Report, error) {
	keys := make([]string, len(refs))
	for i, ref := range refs {
		keys[i] = ref.String()
	}
	model := tui.NewHydrateModel("Hydrating tools", keys)

	var report hydrate.Report
	err := tui.RunWithWork(cmd.OutOrStdout(), model, func(send func(tea.Msg)) {
		events, started := hydrator.HydrateAsync(refs)
		if !started {
			send(tui.ErrorMsg{Err: fmt.Errorf("a hydration pass is already running")})
			return
		}
		for ev := range events {
			switch ev := ev.(type) {
			case hydrate.StartedEvent:
				send(tui.RowUpdateMsg{Key: ev.Ref.String(), Status: "installing"})
			case hydrate.ProgressEvent:
				send(tui.RowProgressMsg{Key: ev.Ref.String(), BytesDone: ev.BytesDone, BytesTotal: ev.BytesTotal})
			case hydrate.CompletedEvent:
				status := "installed"
				if !ev.Success {
					status = "failed"
				}
				send(tui.RowUpdateMsg{Key: ev.Ref.String(), Status: status, Detail: ev.Message})
			case hydrate.FinishedEvent:
				report.FailedTools = ev.Failed
				report.FailedCount = len(ev.Failed)
				report.InstalledCount = len(refs) - len(ev.Failed)
			}
		}
	})
	return report, err
}

// resolveRefs parses id@version arguments, defaulting to every tool linked by
// the project config.
func resolveRefs(cfg config.Config, args []string) ([]hydrate.Ref, error) {
	if len(args) == 0 {
		refs := make([]hydrate.Ref, 0, len(cfg.Tools))
		for _, tool := range cfg.Tools {
			refs = append(refs, hydrate.Ref{ID: tool.ID, Version: tool.Version})
		}
		return refs, nil
	}

	var refs []hydrate.Ref
	for _, arg := range args {
		id, version, ok := strings.Cut(arg, "@")
		if !ok || id == "" || version == "" {
			return nil, fmt.Errorf("invalid tool reference %q; expected id@version", arg)
		}
		refs = append(refs, hydrate.Ref{ID: id, Version: version})
	}
	return refs, nil
}
