// Package hydrate turns (tool id, version) references into populated library
// entries by validating the mirror manifest, verifying archive hashes and
// extracting into the shared library.
package hydrate

// Ref identifies a tool version. It is the immutable key for every lookup.
type Ref struct {
	ID      string `json:"id"`
	Version string `json:"version"`
}

func (r Ref) String() string {
	return r.ID + "@" + r.Version
}

// Outcome records the result of hydrating one reference.
type Outcome struct {
	Ref       Ref    `json:"ref"`
	Installed bool   `json:"installed"`
	Message   string `json:"message,omitempty"`
}

// Report aggregates per-tool outcomes for one hydration pass.
type Report struct {
	InstalledCount int       `json:"installed_count"`
	FailedCount    int       `json:"failed_count"`
	FailedTools    []Ref     `json:"failed_tools,omitempty"`
	Outcomes       []Outcome `json:"outcomes,omitempty"`
}

func (r *Report) record(out Outcome) {
	r.Outcomes = append(r.Outcomes, out)
	if out.Installed {
		r.InstalledCount++
		return
	}
	r.FailedCount++
	r.FailedTools = append(r.FailedTools, out.Ref)
}

// Success reports whether every requested tool hydrated.
func (r Report) Success() bool {
	return r.FailedCount == 0
}
