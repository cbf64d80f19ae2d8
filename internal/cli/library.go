package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"toolbay/internal/library"
)

func newLibraryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "library",
		Short: "Inspect and maintain the shared tool library",
	}
	cmd.AddCommand(newLibraryListCmd())
	cmd.AddCommand(newLibraryVersionsCmd())
	cmd.AddCommand(newLibraryInfoCmd())
	cmd.AddCommand(newLibraryPruneCmd())
	return cmd
}

func newLibraryListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List tools present in the library",
		RunE: func(cmd *cobra.Command, _ []string) error {
			type toolListing struct {
				ID       string   `json:"id"`
				Versions []string `json:"versions"`
			}
			var listings []toolListing
			for _, id := range library.ListTools() {
				listings = append(listings, toolListing{ID: id, Versions: library.ListVersions(id)})
			}

			out := cmd.OutOrStdout()
			if outputJSON {
				return printJSON(out, listings)
			}
			if len(listings) == 0 {
				fmt.Fprintln(out, "library is empty")
				return nil
			}
			for _, listing := range listings {
				fmt.Fprintf(out, "%s\t%v\n", listing.ID, listing.Versions)
			}
			return nil
		},
	}
}

func newLibraryVersionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "versions <tool-id>",
		Short: "List hydrated versions of one tool, newest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			versions := library.ListVersions(args[0])
			out := cmd.OutOrStdout()
			if outputJSON {
				return printJSON(out, versions)
			}
			for _, v := range versions {
				fmt.Fprintln(out, v)
			}
			return nil
		},
	}
}

func newLibraryInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info <tool-id> <version>",
		Short: "Show metadata for one library entry",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			meta := library.ToolMetadata(args[0], args[1])
			out := cmd.OutOrStdout()
			if outputJSON {
				return printJSON(out, meta)
			}
			if !meta.Exists {
				fmt.Fprintf(out, "%s@%s is not in the library\n", args[0], args[1])
				return nil
			}
			fmt.Fprintf(out, "path:     %s\n", meta.Path)
			fmt.Fprintf(out, "size:     %d bytes\n", meta.SizeBytes)
			fmt.Fprintf(out, "modified: %s\n", meta.LastModified.Format("2006-01-02 15:04:05"))
			return nil
		},
	}
}

func newLibraryPruneCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "prune <tool-id> <version>",
		Short: "Remove one library entry",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !library.ToolExists(args[0], args[1]) {
				return fmt.Errorf("%s@%s is not in the library", args[0], args[1])
			}
			if err := library.Remove(args[0], args[1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "removed %s@%s\n", args[0], args[1])
			return nil
		},
	}
}
