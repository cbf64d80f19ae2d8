package cli

import (
	"fmt"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"toolbay/internal/mirror"
)

// mirrorListing is one offered tool flattened for display, with the category
// fallback already applied.
type mirrorListing struct {
	ID       string `json:"id"`
	Version  string `json:"version"`
	Category string `json:"category"`
	Source   string `json:"source"`
}

func newMirrorCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mirror",
		Short: "Inspect the project's tool mirror",
	}
	cmd.AddCommand(newMirrorListCmd())
	return cmd
}

func newMirrorListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the tools the mirror offers",
		RunE:  runMirrorList,
	}
}

func runMirrorList(cmd *cobra.Command, _ []string) error {
	pp, cfg, err := loadProject()
	if err != nil {
		return err
	}
	if cfg.Mirror.Path == "" {
		return fmt.Errorf("project config declares no mirror path")
	}
	mirrorRoot := cfg.Mirror.Path
	if !filepath.IsAbs(mirrorRoot) {
		mirrorRoot = filepath.Join(pp.Root, mirrorRoot)
	}

	manifest, codes, err := mirror.Repository{Root: mirrorRoot}.Load()
	if err != nil {
		return err
	}
	if len(codes) > 0 {
		return fmt.Errorf("mirror manifest invalid: %v", codes)
	}

	listings := mirrorListings(manifest)
	out := cmd.OutOrStdout()
	if outputJSON {
		return printJSON(out, listings)
	}

	fmt.Fprintf(out, "%s (%d tools)\n", manifest.MirrorName, len(listings))
	w := tabwriter.NewWriter(out, 2, 4, 2, ' ', 0)
	for _, l := range listings {
		fmt.Fprintf(w, "%s@%s\t%s\t%s\n", l.ID, l.Version, l.Category, l.Source)
	}
	return w.Flush()
}

func mirrorListings(m mirror.Manifest) []mirrorListing {
	listings := make([]mirrorListing, 0, len(m.Tools))
	for _, entry := range m.Tools {
		source := "local"
		if entry.Remote() {
			source = "remote"
		}
		listings = append(listings, mirrorListing{
			ID:       entry.ID,
			Version:  entry.Version,
			Category: entry.CategoryFor(),
			Source:   source,
		})
	}
	return listings
}
