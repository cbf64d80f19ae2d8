package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"toolbay/internal/paths"
)

const starterConfig = `version: 1

project:
  name: my-project

mirror:
  path: ""

network:
  offline_mode: false
  force_offline: false

tools: []
  # - id: godot
  #   version: "4.3"
`

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create a starter toolbay.yaml in the project directory",
		RunE:  runInit,
	}
}

func runInit(cmd *cobra.Command, _ []string) error {
	pp, err := paths.Resolve(projectDir)
	if err != nil {
		return err
	}
	if err := pp.EnsureRoot(); err != nil {
		return err
	}

	if exists, _ := paths.FileExists(pp.ConfigFile); exists {
		return fmt.Errorf("config already exists at %s", pp.ConfigFile)
	}
	if err := os.WriteFile(pp.ConfigFile, []byte(starterConfig), 0o644); err != nil {
		return fmt.Errorf("write starter config: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "created %s\n", pp.ConfigFile)
	return nil
}
