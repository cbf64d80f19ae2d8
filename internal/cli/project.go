package cli

import (
	"fmt"

	"toolbay/internal/config"
	"toolbay/internal/offline"
	"toolbay/internal/paths"
)

// loadProject resolves the project paths, loads its config and applies the
// network section to the process-wide offline gate.
func loadProject() (paths.ProjectPaths, config.Config, error) {
	pp, err := paths.Resolve(projectDir)
	if err != nil {
		return paths.ProjectPaths{}, config.Config{}, err
	}

	cfg, err := config.Load(pp.ConfigFile)
	if err != nil {
		return pp, config.Config{}, err
	}

	if results := cfg.Validate(); config.HasErrors(results) {
		for _, r := range results {
			if r.Level == "error" {
				return pp, cfg, fmt.Errorf("project config: %s", r.Message)
			}
		}
	}

	offline.Gate().Apply(&cfg.Network)
	return pp, cfg, nil
}
