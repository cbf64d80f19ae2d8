package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"toolbay/internal/launch"
	"toolbay/internal/logx"
	"toolbay/internal/offline"
)

func newLaunchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "launch <tool-id>",
		Short: "Launch a project-linked tool",
		Args:  cobra.ExactArgs(1),
		RunE:  runLaunch,
	}
}

func runLaunch(cmd *cobra.Command, args []string) error {
	pp, cfg, err := loadProject()
	if err != nil {
		return err
	}
	if err := pp.EnsureMetaDirs(); err != nil {
		return err
	}

	toolID := args[0]
	for _, tool := range cfg.Tools {
		if tool.ID != toolID {
			continue
		}

		logger, closer, err := logx.New(pp)
		if err != nil {
			return err
		}
		defer closer.Close()

		launcher := launch.Launcher{Gate: offline.Gate(), Log: logger}
		result := launcher.Launch(tool, pp.Root)

		out := cmd.OutOrStdout()
		if outputJSON {
			return printJSON(out, result)
		}
		if !result.Success {
			return fmt.Errorf("launch %s: %s (%s)", tool.Reference(), result.Message, result.Kind)
		}
		fmt.Fprintf(out, "launched %s (pid %d)\n", tool.Reference(), result.PID)
		return nil
	}

	return fmt.Errorf("tool %q is not linked by this project", toolID)
}
