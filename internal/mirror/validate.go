package mirror

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"

	"toolbay/internal/paths"
)

// Error codes are stable identifiers of the form <field>_<problem>[:index]
// so callers can branch on them; the index suffix locates the offending
// tools[] entry.
const (
	CodeSchemaVersionMissing     = "schema_version_missing"
	CodeSchemaVersionUnsupported = "schema_version_unsupported"
	CodeMirrorNameMissing        = "mirror_name_missing"
	CodeToolsMissing             = "tools_missing"
	CodeToolIDMissing            = "id_missing"
	CodeToolIDInvalid            = "id_invalid"
	CodeToolVersionMissing       = "version_missing"
	CodeToolVersionInvalid       = "version_invalid"
	CodeArchiveSourceMissing     = "archive_source_missing"
	CodeArchiveSourceConflict    = "archive_source_conflict"
	CodeSHA256Missing            = "sha256_missing"
	CodeSHA256Malformed          = "sha256_malformed"
	CodeSizeInvalid              = "size_invalid"
	CodeCategoryEmpty            = "category_empty"
)

var sha256Pattern = regexp.MustCompile(`^[0-9a-f]{64}$`)

// Validate checks a decoded manifest document and collects every violation;
// it never short-circuits. The document is the raw JSON object so a
// schema_version written as 1.0 still validates.
func Validate(doc map[string]any) []string {
	var codes []string

	if v, ok := doc["schema_version"]; !ok {
		codes = append(codes, CodeSchemaVersionMissing)
	} else if ver, ok := integerValue(v); !ok || ver != SupportedSchemaVersion {
		codes = append(codes, CodeSchemaVersionUnsupported)
	}

	if name, _ := doc["mirror_name"].(string); strings.TrimSpace(name) == "" {
		codes = append(codes, CodeMirrorNameMissing)
	}

	tools, ok := doc["tools"].([]any)
	if !ok || len(tools) == 0 {
		codes = append(codes, CodeToolsMissing)
		return codes
	}

	for i, raw := range tools {
		entry, ok := raw.(map[string]any)
		if !ok {
			codes = append(codes, indexed(CodeToolIDMissing, i))
			continue
		}
		codes = append(codes, validateEntry(entry, i)...)
	}
	return codes
}

func validateEntry(entry map[string]any, i int) []string {
	var codes []string

	// Ids and versions become path segments under the library root, so dot
	// segments and separators are rejected outright.
	if id, _ := entry["id"].(string); strings.TrimSpace(id) == "" {
		codes = append(codes, indexed(CodeToolIDMissing, i))
	} else if !paths.ValidSegment(id) {
		codes = append(codes, indexed(CodeToolIDInvalid, i))
	}
	if version, _ := entry["version"].(string); strings.TrimSpace(version) == "" {
		codes = append(codes, indexed(CodeToolVersionMissing, i))
	} else if !paths.ValidSegment(version) {
		codes = append(codes, indexed(CodeToolVersionInvalid, i))
	}

	path, _ := entry["archive_path"].(string)
	url, _ := entry["archive_url"].(string)
	switch {
	case path == "" && url == "":
		codes = append(codes, indexed(CodeArchiveSourceMissing, i))
	case path != "" && url != "":
		codes = append(codes, indexed(CodeArchiveSourceConflict, i))
	}

	if raw, ok := entry["sha256"]; !ok {
		codes = append(codes, indexed(CodeSHA256Missing, i))
	} else if hash, ok := raw.(string); !ok || !sha256Pattern.MatchString(hash) {
		codes = append(codes, indexed(CodeSHA256Malformed, i))
	}

	for _, field := range []string{"size", "size_bytes"} {
		raw, ok := entry[field]
		if !ok {
			continue
		}
		if size, ok := integerValue(raw); !ok || size <= 0 {
			codes = append(codes, indexed(CodeSizeInvalid, i))
		}
	}

	if raw, ok := entry["category"]; ok {
		if cat, ok := raw.(string); !ok || strings.TrimSpace(cat) == "" {
			codes = append(codes, indexed(CodeCategoryEmpty, i))
		}
	}

	return codes
}

// integerValue accepts JSON numbers that carry an integral value, so both 1
// and 1.0 decode as 1.
func integerValue(v any) (int64, bool) {
	switch n := v.(type) {
	case float64:
		if n != math.Trunc(n) {
			return 0, false
		}
		return int64(n), true
	case int:
		return int64(n), true
	case int64:
		return n, true
	default:
		return 0, false
	}
}

func indexed(code string, i int) string {
	return fmt.Sprintf("%s:%d", code, i)
}

// SortCodes orders error codes for stable reporting.
func SortCodes(codes []string) {
	sort.Strings(codes)
}
