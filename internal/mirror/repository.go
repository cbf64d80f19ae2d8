package mirror

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const manifestFileName = "mirror.json"

// Repository reads manifests from a mirror root. Load always goes back to
// disk; hydration relies on seeing edits between passes.
type Repository struct {
	Root string
}

// ManifestPath returns the manifest location inside the mirror root.
func (r Repository) ManifestPath() string {
	return filepath.Join(r.Root, manifestFileName)
}

// Load reads, validates and decodes the mirror manifest. Validation
// violations are returned as codes alongside a nil manifest.
func (r Repository) Load() (Manifest, []string, error) {
	contents, err := os.ReadFile(r.ManifestPath())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Manifest{}, nil, fmt.Errorf("mirror manifest not found at %s", r.ManifestPath())
		}
		return Manifest{}, nil, fmt.Errorf("read mirror manifest: %w", err)
	}

	var doc map[string]any
	if err := json.Unmarshal(contents, &doc); err != nil {
		return Manifest{}, nil, fmt.Errorf("parse mirror manifest: %w", err)
	}

	codes := Validate(doc)
	if len(codes) > 0 {
		SortCodes(codes)
		return Manifest{}, codes, nil
	}

	manifest, err := decodeManifest(doc)
	if err != nil {
		return Manifest{}, nil, err
	}
	return manifest, nil, nil
}

// decodeManifest converts an already-validated document into the typed form.
func decodeManifest(doc map[string]any) (Manifest, error) {
	version, _ := integerValue(doc["schema_version"])
	manifest := Manifest{
		SchemaVersion: int(version),
		MirrorName:    strings.TrimSpace(doc["mirror_name"].(string)),
	}

	rawTools, _ := doc["tools"].([]any)
	for _, raw := range rawTools {
		fields, ok := raw.(map[string]any)
		if !ok {
			return Manifest{}, fmt.Errorf("tool entry is not an object")
		}
		entry := ToolEntry{
			ID:          stringField(fields, "id"),
			Version:     stringField(fields, "version"),
			Category:    stringField(fields, "category"),
			ArchivePath: stringField(fields, "archive_path"),
			ArchiveURL:  stringField(fields, "archive_url"),
			SHA256:      stringField(fields, "sha256"),
		}
		for _, sizeField := range []string{"size_bytes", "size"} {
			if v, ok := fields[sizeField]; ok {
				if size, ok := integerValue(v); ok {
					entry.SizeBytes = size
					break
				}
			}
		}
		manifest.Tools = append(manifest.Tools, entry)
	}
	return manifest, nil
}

func stringField(fields map[string]any, key string) string {
	s, _ := fields[key].(string)
	return strings.TrimSpace(s)
}
