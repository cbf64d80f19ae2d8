package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"toolbay/internal/offline"
)

func newOfflineCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "offline",
		Short: "Show the project's network gate state",
		RunE:  runOffline,
	}
}

func runOffline(cmd *cobra.Command, _ []string) error {
	if _, _, err := loadProject(); err != nil {
		return err
	}

	state := offline.Gate().Current()
	out := cmd.OutOrStdout()
	if outputJSON {
		return printJSON(out, map[string]any{
			"active": state.Active,
			"reason": state.Reason,
		})
	}

	if state.Active {
		fmt.Fprintf(out, "offline (%s): network access is blocked\n", state.Reason)
	} else {
		fmt.Fprintf(out, "online (%s): network access is permitted\n", state.Reason)
	}
	return nil
}
