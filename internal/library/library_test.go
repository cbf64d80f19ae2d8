package library

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func seedEntry(t *testing.T, root, id, version string, files map[string]string) {
	t.Helper()
	dir := filepath.Join(root, id, version)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("seed entry: %v", err)
	}
	for name, contents := range files {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("seed file dir: %v", err)
		}
		if err := os.WriteFile(path, []byte(contents), 0o755); err != nil {
			t.Fatalf("seed file: %v", err)
		}
	}
}

func TestToolPathDeterministic(t *testing.T) {
	root := t.TempDir()
	t.Setenv(OverrideEnv, root)

	got, err := ToolPath("godot", "4.3")
	if err != nil {
		t.Fatalf("ToolPath: %v", err)
	}
	want := filepath.Join(root, "godot", "4.3")
	if got != want {
		t.Fatalf("expected %s, got %s", want, got)
	}
}

func TestToolPathRejectsNonSegmentKeys(t *testing.T) {
	root := t.TempDir()
	t.Setenv(OverrideEnv, root)

	cases := []struct{ id, version string }{
		{"..", "pwn"},
		{"godot", ".."},
		{"a/b", "4.3"},
		{"godot", "4.3/../../pwn"},
		{"a\\b", "4.3"},
		{".", "4.3"},
	}
	for _, tc := range cases {
		if _, err := ToolPath(tc.id, tc.version); err == nil {
			t.Fatalf("ToolPath(%q, %q) must be rejected", tc.id, tc.version)
		}
		if ToolExists(tc.id, tc.version) {
			t.Fatalf("ToolExists(%q, %q) must be false", tc.id, tc.version)
		}
	}

	// A dot-segment id must never read the parent of the library root.
	if err := os.MkdirAll(filepath.Join(filepath.Dir(root), "pwn"), 0o755); err != nil {
		t.Fatalf("seed sibling dir: %v", err)
	}
	if meta := ToolMetadata("..", "pwn"); meta.Exists {
		t.Fatal("metadata resolution escaped the library root")
	}
	if versions := ListVersions(".."); len(versions) != 0 {
		t.Fatalf("version listing escaped the library root: %v", versions)
	}
}

func TestToolExists(t *testing.T) {
	root := t.TempDir()
	t.Setenv(OverrideEnv, root)

	if ToolExists("godot", "4.3") {
		t.Fatal("entry should not exist yet")
	}
	seedEntry(t, root, "godot", "4.3", map[string]string{"godot": "binary"})
	if !ToolExists("godot", "4.3") {
		t.Fatal("entry should exist after seeding")
	}
	if ToolExists("", "4.3") || ToolExists("godot", "") {
		t.Fatal("blank reference components never exist")
	}
}

func TestListToolsSkipsHiddenAndMissingRoot(t *testing.T) {
	root := t.TempDir()
	t.Setenv(OverrideEnv, filepath.Join(root, "does-not-exist"))
	if tools := ListTools(); len(tools) != 0 {
		t.Fatalf("missing root should list nothing, got %v", tools)
	}

	t.Setenv(OverrideEnv, root)
	seedEntry(t, root, "godot", "4.3", nil)
	seedEntry(t, root, "blender", "4.1.0", nil)
	if err := os.MkdirAll(filepath.Join(root, ".staging"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(root, "stray.txt"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	got := ListTools()
	want := []string{"blender", "godot"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestListVersionsNewestFirst(t *testing.T) {
	root := t.TempDir()
	t.Setenv(OverrideEnv, root)

	for _, v := range []string{"4.1.1", "4.3.0", "4.2.0"} {
		seedEntry(t, root, "godot", v, nil)
	}

	got := ListVersions("godot")
	want := []string{"4.3.0", "4.2.0", "4.1.1"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestToolMetadata(t *testing.T) {
	root := t.TempDir()
	t.Setenv(OverrideEnv, root)

	if meta := ToolMetadata("godot", "4.3"); meta.Exists {
		t.Fatal("metadata for absent entry should read as not existing")
	}

	seedEntry(t, root, "godot", "4.3", map[string]string{
		"godot":         "0123456789",
		"docs/help.txt": "help",
	})

	meta := ToolMetadata("godot", "4.3")
	if !meta.Exists {
		t.Fatal("expected entry to exist")
	}
	if meta.SizeBytes != 14 {
		t.Fatalf("expected size 14, got %d", meta.SizeBytes)
	}
	if meta.Path != filepath.Join(root, "godot", "4.3") {
		t.Fatalf("unexpected path %s", meta.Path)
	}
	if meta.LastModified.IsZero() {
		t.Fatal("expected a modification time")
	}
}

func TestRemovePrunesEmptyToolDir(t *testing.T) {
	root := t.TempDir()
	t.Setenv(OverrideEnv, root)

	seedEntry(t, root, "godot", "4.3", map[string]string{"godot": "binary"})
	if err := Remove("godot", "4.3"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if ToolExists("godot", "4.3") {
		t.Fatal("entry should be gone")
	}
	if _, err := os.Stat(filepath.Join(root, "godot")); !os.IsNotExist(err) {
		t.Fatal("empty tool dir should be pruned")
	}
}
