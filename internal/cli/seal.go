package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"toolbay/internal/logx"
	"toolbay/internal/paths"
	"toolbay/internal/seal"
)

func newSealCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seal",
		Short: "Package the project with its exact tools for offline delivery",
		Long: "Validates the project, copies its tool binaries in, writes the\n" +
			"forced-offline config and archives the whole tree.",
		RunE: runSeal,
	}
}

func runSeal(cmd *cobra.Command, _ []string) error {
	pp, err := paths.Resolve(projectDir)
	if err != nil {
		return err
	}
	if err := pp.EnsureMetaDirs(); err != nil {
		return err
	}

	logger, closer, err := logx.New(pp)
	if err != nil {
		return err
	}
	defer closer.Close()

	sealer := seal.Sealer{Paths: pp, Log: logger}
	result := sealer.Seal()

	out := cmd.OutOrStdout()
	if outputJSON {
		if err := printJSON(out, result); err != nil {
			return err
		}
	} else if result.Success {
		fmt.Fprintf(out, "sealed %s (%.2f MB)\n", result.ArchivePath, result.SizeMB)
		for _, tool := range result.ToolsCopied {
			fmt.Fprintf(out, "  copied: %s\n", tool)
		}
	} else {
		for _, msg := range result.Errors {
			fmt.Fprintf(out, "  error: %s\n", msg)
		}
	}

	if !result.Success {
		return fmt.Errorf("sealing failed with %d error(s)", len(result.Errors))
	}
	return nil
}
