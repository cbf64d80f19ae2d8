package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"toolbay/internal/launch"
	"toolbay/internal/library"
	"toolbay/internal/mirror"
)

type doctorCheck struct {
	Name   string `json:"name"`
	Status string `json:"status"` // ok, warn, fail
	Detail string `json:"detail,omitempty"`
}

func newDoctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check the library, mirror and project wiring",
		RunE:  runDoctor,
	}
}

func runDoctor(cmd *cobra.Command, _ []string) error {
	var checks []doctorCheck

	root, err := library.Root()
	if err != nil {
		checks = append(checks, doctorCheck{Name: "library root", Status: "fail", Detail: err.Error()})
	} else {
		checks = append(checks, doctorCheck{Name: "library root", Status: "ok", Detail: root})
	}

	pp, cfg, err := loadProject()
	if err != nil {
		checks = append(checks, doctorCheck{Name: "project config", Status: "fail", Detail: err.Error()})
		return reportDoctor(cmd, checks)
	}
	checks = append(checks, doctorCheck{Name: "project config", Status: "ok", Detail: pp.ConfigFile})

	if cfg.Mirror.Path != "" {
		mirrorRoot := cfg.Mirror.Path
		if !filepath.IsAbs(mirrorRoot) {
			mirrorRoot = filepath.Join(pp.Root, mirrorRoot)
		}
		repo := mirror.Repository{Root: mirrorRoot}
		if _, codes, err := repo.Load(); err != nil {
			checks = append(checks, doctorCheck{Name: "mirror manifest", Status: "fail", Detail: err.Error()})
		} else if len(codes) > 0 {
			checks = append(checks, doctorCheck{Name: "mirror manifest", Status: "fail", Detail: fmt.Sprintf("%d validation error(s)", len(codes))})
		} else {
			checks = append(checks, doctorCheck{Name: "mirror manifest", Status: "ok", Detail: repo.ManifestPath()})
		}
	} else {
		checks = append(checks, doctorCheck{Name: "mirror manifest", Status: "warn", Detail: "no mirror configured"})
	}

	for _, tool := range cfg.Tools {
		name := "tool " + tool.Reference()
		if tool.Path == "" && !library.ToolExists(tool.ID, tool.Version) {
			checks = append(checks, doctorCheck{Name: name, Status: "warn", Detail: "not hydrated"})
			continue
		}

		// Presence established; re-hash when the config pins a checksum.
		if tool.SHA256 == "" {
			detail := "hydrated"
			if tool.Path != "" {
				detail = "project-local path"
			}
			checks = append(checks, doctorCheck{Name: name, Status: "ok", Detail: detail})
			continue
		}
		if result := (launch.Launcher{}).Verify(tool, pp.Root); result.Success {
			checks = append(checks, doctorCheck{Name: name, Status: "ok", Detail: "hash verified"})
		} else {
			checks = append(checks, doctorCheck{Name: name, Status: "fail", Detail: result.Message})
		}
	}

	return reportDoctor(cmd, checks)
}

func reportDoctor(cmd *cobra.Command, checks []doctorCheck) error {
	out := cmd.OutOrStdout()
	if outputJSON {
		return printJSON(out, checks)
	}

	failed := 0
	for _, check := range checks {
		fmt.Fprintf(out, "[%s] %s", check.Status, check.Name)
		if check.Detail != "" {
			fmt.Fprintf(out, ": %s", check.Detail)
		}
		fmt.Fprintln(out)
		if check.Status == "fail" {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d check(s) failed", failed)
	}
	return nil
}
