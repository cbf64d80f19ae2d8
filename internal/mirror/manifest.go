// Package mirror loads and validates mirror manifests and resolves the
// archive paths they declare against the mirror root.
package mirror

// SupportedSchemaVersion is the only manifest schema this build accepts.
const SupportedSchemaVersion = 1

// ToolEntry describes one tool archive offered by a mirror. Exactly one of
// ArchivePath and ArchiveURL is set on a valid entry.
type ToolEntry struct {
	ID          string `json:"id"`
	Version     string `json:"version"`
	Category    string `json:"category,omitempty"`
	ArchivePath string `json:"archive_path,omitempty"`
	ArchiveURL  string `json:"archive_url,omitempty"`
	SHA256      string `json:"sha256"`
	SizeBytes   int64  `json:"size_bytes,omitempty"`
}

// Manifest is the validated form of a mirror manifest. It is reloaded fresh
// on every hydration pass and never cached across calls.
type Manifest struct {
	SchemaVersion int         `json:"schema_version"`
	MirrorName    string      `json:"mirror_name"`
	Tools         []ToolEntry `json:"tools"`
}

// Find returns the entry matching a (tool id, version) reference.
func (m Manifest) Find(id, version string) (ToolEntry, bool) {
	for _, entry := range m.Tools {
		if entry.ID == id && entry.Version == version {
			return entry, true
		}
	}
	return ToolEntry{}, false
}

// categoryByID backs the category fallback for entries that omit the field.
var categoryByID = map[string]string{
	"godot":    "Engine",
	"blender":  "3D",
	"krita":    "2D",
	"gimp":     "2D",
	"inkscape": "2D",
	"aseprite": "2D",
	"audacity": "Audio",
	"lmms":     "Audio",
}

// CategoryFor returns the entry's declared category, falling back to the
// static id table and finally "Unknown".
func (e ToolEntry) CategoryFor() string {
	if e.Category != "" {
		return e.Category
	}
	if cat, ok := categoryByID[e.ID]; ok {
		return cat
	}
	return "Unknown"
}

// Remote reports whether the entry is fetched over the network.
func (e ToolEntry) Remote() bool {
	return e.ArchiveURL != ""
}
