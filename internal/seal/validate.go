package seal

import (
	"fmt"

	"toolbay/internal/config"
	"toolbay/internal/library"
	"toolbay/internal/paths"
)

// validate checks that the project and its config exist and that every
// referenced tool is hydrated. All missing tools are reported, not just the
// first.
func (s Sealer) validate() (config.Config, []string) {
	var errs []string

	if ok, err := paths.DirExists(s.Paths.Root); err != nil || !ok {
		errs = append(errs, fmt.Sprintf("project directory %s does not exist", s.Paths.Root))
		return config.Config{}, errs
	}

	cfg, err := config.Load(s.Paths.ConfigFile)
	if err != nil {
		errs = append(errs, err.Error())
		return config.Config{}, errs
	}

	if results := cfg.Validate(); config.HasErrors(results) {
		for _, r := range results {
			if r.Level == "error" {
				errs = append(errs, "project config: "+r.Message)
			}
		}
	}

	for _, tool := range cfg.Tools {
		// Tools pinned to an in-project path ship with the tree already.
		if tool.Path != "" {
			continue
		}
		if !library.ToolExists(tool.ID, tool.Version) {
			errs = append(errs, fmt.Sprintf("tool %s is not in the library; hydrate it before sealing", tool.Reference()))
		}
	}

	return cfg, errs
}
