package config

import (
	"fmt"
	"strings"

	"toolbay/internal/paths"
)

// ValidationResult captures a single validation finding.
type ValidationResult struct {
	Level   string `json:"level"` // "error" or "warning"
	Message string `json:"message"`
}

// Validate runs all checks against the config and returns structured results;
// it never stops at the first finding.
func (c Config) Validate() []ValidationResult {
	return c.validateTools()
}

func (c Config) validateTools() []ValidationResult {
	var results []ValidationResult
	seen := map[string]int{}
	for i, tool := range c.Tools {
		// Ids and versions become path segments in the library and the
		// sealed tools dir; anything else escapes those roots.
		if strings.TrimSpace(tool.ID) == "" {
			results = append(results, ValidationResult{
				Level:   "error",
				Message: fmt.Sprintf("tools[%d]: missing id", i),
			})
		} else if !paths.ValidSegment(tool.ID) {
			results = append(results, ValidationResult{
				Level:   "error",
				Message: fmt.Sprintf("tools[%d]: id %q is not a single path segment", i, tool.ID),
			})
		}
		if strings.TrimSpace(tool.Version) == "" {
			results = append(results, ValidationResult{
				Level:   "error",
				Message: fmt.Sprintf("tools[%d]: missing version", i),
			})
		} else if !paths.ValidSegment(tool.Version) {
			results = append(results, ValidationResult{
				Level:   "error",
				Message: fmt.Sprintf("tools[%d]: version %q is not a single path segment", i, tool.Version),
			})
		}
		if tool.ID != "" && tool.Version != "" {
			key := tool.Reference()
			if prev, ok := seen[key]; ok {
				results = append(results, ValidationResult{
					Level:   "warning",
					Message: fmt.Sprintf("tools[%d]: duplicates tools[%d] (%s)", i, prev, key),
				})
			} else {
				seen[key] = i
			}
		}
		if tool.SHA256 != "" && len(tool.SHA256) != 64 {
			results = append(results, ValidationResult{
				Level:   "error",
				Message: fmt.Sprintf("tools[%d]: sha256 must be 64 hex characters", i),
			})
		}
	}
	return results
}

// HasErrors reports whether any result is error-level.
func HasErrors(results []ValidationResult) bool {
	for _, r := range results {
		if r.Level == "error" {
			return true
		}
	}
	return false
}
