package config

import (
	"os"
	"path/filepath"
	"testing"
)

const sample = `version: 1
project:
  name: demo
mirror:
  path: ../shared-mirror
network:
  offline_mode: true
  force_offline: false
tools:
  - id: godot
    version: "4.3"
  - id: blender
    version: 4.1.0
    path: tools/blender/blender
    sha256: aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa
`

func writeSample(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "toolbay.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	cfg, err := Load(writeSample(t, sample))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Project.Name != "demo" {
		t.Fatalf("unexpected project name %q", cfg.Project.Name)
	}
	if cfg.Mirror.Path != "../shared-mirror" {
		t.Fatalf("unexpected mirror path %q", cfg.Mirror.Path)
	}
	if !cfg.Network.OfflineMode || cfg.Network.ForceOffline {
		t.Fatalf("unexpected network flags %+v", cfg.Network)
	}
	if len(cfg.Tools) != 2 {
		t.Fatalf("expected two tools, got %d", len(cfg.Tools))
	}
	if cfg.Tools[0].Reference() != "godot@4.3" {
		t.Fatalf("unexpected reference %q", cfg.Tools[0].Reference())
	}
	if cfg.Tools[1].Path != "tools/blender/blender" {
		t.Fatalf("unexpected path %q", cfg.Tools[1].Path)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "toolbay.yaml")); err == nil {
		t.Fatal("expected an error for missing config")
	}
}

func TestValidateCollectsFindings(t *testing.T) {
	cfg := Config{Tools: []ToolRef{
		{ID: "", Version: ""},
		{ID: "godot", Version: "4.3"},
		{ID: "godot", Version: "4.3"},
		{ID: "blender", Version: "4.1", SHA256: "short"},
	}}

	results := cfg.Validate()
	if len(results) < 4 {
		t.Fatalf("expected at least 4 findings, got %v", results)
	}
	if !HasErrors(results) {
		t.Fatal("expected error-level findings")
	}
}

func TestValidateRejectsNonSegmentIDAndVersion(t *testing.T) {
	cfg := Config{Tools: []ToolRef{
		{ID: "..", Version: "4.3"},
		{ID: "godot", Version: "4.3/../../pwn"},
		{ID: "a\\b", Version: "4.3"},
	}}

	results := cfg.Validate()
	if len(results) != 3 {
		t.Fatalf("expected 3 findings, got %v", results)
	}
	if !HasErrors(results) {
		t.Fatal("non-segment ids and versions are error-level")
	}
}

func TestValidateCleanConfig(t *testing.T) {
	cfg := Config{Tools: []ToolRef{{ID: "godot", Version: "4.3"}}}
	if results := cfg.Validate(); len(results) != 0 {
		t.Fatalf("expected no findings, got %v", results)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	cfg, err := Load(writeSample(t, sample))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	path := filepath.Join(t.TempDir(), "out.yaml")
	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}
	back, err := Load(path)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if back.Project.Name != cfg.Project.Name || len(back.Tools) != len(cfg.Tools) {
		t.Fatal("round trip lost data")
	}
}
