package launch

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/rs/zerolog"

	"toolbay/internal/config"
	"toolbay/internal/library"
	"toolbay/internal/offline"
)

func writeScript(t *testing.T, path string) string {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	contents := []byte("#!/bin/sh\nexit 0\n")
	if err := os.WriteFile(path, contents, 0o755); err != nil {
		t.Fatalf("write script: %v", err)
	}
	sum := sha256.Sum256(contents)
	return hex.EncodeToString(sum[:])
}

func TestLaunchRejectsTraversalPath(t *testing.T) {
	projectDir := t.TempDir()
	launcher := Launcher{Log: zerolog.Nop()}

	result := launcher.Launch(config.ToolRef{ID: "godot", Version: "4.3", Path: "../outside.exe"}, projectDir)
	if result.Success {
		t.Fatal("traversal path must not launch")
	}
	if result.Kind != ErrTraversal {
		t.Fatalf("expected traversal error, got %s (%s)", result.Kind, result.Message)
	}
	if result.PID != 0 {
		t.Fatal("no process may be spawned")
	}
}

func TestLaunchRejectsAbsolutePath(t *testing.T) {
	projectDir := t.TempDir()
	launcher := Launcher{Log: zerolog.Nop()}

	result := launcher.Launch(config.ToolRef{ID: "godot", Version: "4.3", Path: "/usr/bin/tool"}, projectDir)
	if result.Kind != ErrTraversal {
		t.Fatalf("expected traversal error, got %s", result.Kind)
	}
}

func TestLaunchMalformedHashIsFatal(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("posix script")
	}
	projectDir := t.TempDir()
	writeScript(t, filepath.Join(projectDir, "bin", "tool"))

	launcher := Launcher{Log: zerolog.Nop()}
	result := launcher.Launch(config.ToolRef{ID: "x", Version: "1", Path: "bin/tool", SHA256: "nothex"}, projectDir)
	if result.Kind != ErrHashMalformed {
		t.Fatalf("expected hash_malformed, got %s", result.Kind)
	}
}

func TestLaunchHashMismatchIsFatal(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("posix script")
	}
	projectDir := t.TempDir()
	writeScript(t, filepath.Join(projectDir, "bin", "tool"))

	wrong := "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
	launcher := Launcher{Log: zerolog.Nop()}
	result := launcher.Launch(config.ToolRef{ID: "x", Version: "1", Path: "bin/tool", SHA256: wrong}, projectDir)
	if result.Kind != ErrHashMismatch {
		t.Fatalf("expected hash_mismatch, got %s", result.Kind)
	}
	if result.PID != 0 {
		t.Fatal("no process may be spawned on hash mismatch")
	}
}

func TestLaunchProjectLocalTool(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("posix script")
	}
	projectDir := t.TempDir()
	hash := writeScript(t, filepath.Join(projectDir, "bin", "tool"))

	launcher := Launcher{Log: zerolog.Nop()}
	result := launcher.Launch(config.ToolRef{ID: "x", Version: "1", Path: "bin/tool", SHA256: hash}, projectDir)
	if !result.Success {
		t.Fatalf("launch failed: %s (%s)", result.Message, result.Kind)
	}
	if result.PID <= 0 {
		t.Fatal("expected a pid")
	}
}

func TestLaunchResolvesFromLibraryByConvention(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("posix script")
	}
	libRoot := t.TempDir()
	t.Setenv(library.OverrideEnv, libRoot)
	writeScript(t, filepath.Join(libRoot, "godot", "4.3", "godot"))

	projectDir := t.TempDir()
	launcher := Launcher{Log: zerolog.Nop()}
	result := launcher.Launch(config.ToolRef{ID: "godot", Version: "4.3"}, projectDir)
	if !result.Success {
		t.Fatalf("launch failed: %s (%s)", result.Message, result.Kind)
	}
}

func TestLaunchFallsBackToFirstExecutable(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("posix script")
	}
	libRoot := t.TempDir()
	t.Setenv(library.OverrideEnv, libRoot)
	// An id outside the convention table with a nested binary.
	writeScript(t, filepath.Join(libRoot, "sometool", "1.0", "bin", "sometool-run"))
	if err := os.WriteFile(filepath.Join(libRoot, "sometool", "1.0", "README"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	projectDir := t.TempDir()
	launcher := Launcher{Log: zerolog.Nop()}
	result := launcher.Launch(config.ToolRef{ID: "sometool", Version: "1.0"}, projectDir)
	if !result.Success {
		t.Fatalf("launch failed: %s (%s)", result.Message, result.Kind)
	}
}

func TestVerifyChecksDeclaredHashWithoutSpawning(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("posix script")
	}
	projectDir := t.TempDir()
	hash := writeScript(t, filepath.Join(projectDir, "bin", "tool"))
	launcher := Launcher{Log: zerolog.Nop()}

	result := launcher.Verify(config.ToolRef{ID: "x", Version: "1", Path: "bin/tool", SHA256: hash}, projectDir)
	if !result.Success || result.PID != 0 {
		t.Fatalf("expected clean verification with no process, got %+v", result)
	}

	wrong := "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
	result = launcher.Verify(config.ToolRef{ID: "x", Version: "1", Path: "bin/tool", SHA256: wrong}, projectDir)
	if result.Success || result.Kind != ErrHashMismatch {
		t.Fatalf("expected hash_mismatch, got %+v", result)
	}
}

func TestVerifyNoDeclaredHashOnlyResolves(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("posix script")
	}
	libRoot := t.TempDir()
	t.Setenv(library.OverrideEnv, libRoot)
	writeScript(t, filepath.Join(libRoot, "godot", "4.3", "godot"))

	launcher := Launcher{Log: zerolog.Nop()}
	if result := launcher.Verify(config.ToolRef{ID: "godot", Version: "4.3"}, t.TempDir()); !result.Success {
		t.Fatalf("resolution alone should verify, got %+v", result)
	}
	if result := launcher.Verify(config.ToolRef{ID: "blender", Version: "4.1"}, t.TempDir()); result.Kind != ErrNotFound {
		t.Fatalf("expected executable_not_found, got %+v", result)
	}
}

func TestLaunchMissingLibraryEntry(t *testing.T) {
	t.Setenv(library.OverrideEnv, t.TempDir())

	launcher := Launcher{Log: zerolog.Nop()}
	result := launcher.Launch(config.ToolRef{ID: "godot", Version: "4.3"}, t.TempDir())
	if result.Kind != ErrNotFound {
		t.Fatalf("expected executable_not_found, got %s", result.Kind)
	}
}

func TestOfflineOverrideWritesConfig(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("posix script")
	}
	libRoot := t.TempDir()
	t.Setenv(library.OverrideEnv, libRoot)
	writeScript(t, filepath.Join(libRoot, "godot", "4.3", "godot"))

	var gate offline.Enforcer
	gate.Apply(&offline.Config{ForceOffline: true})

	projectDir := t.TempDir()
	launcher := Launcher{Gate: &gate, Log: zerolog.Nop()}
	result := launcher.Launch(config.ToolRef{ID: "godot", Version: "4.3"}, projectDir)
	if !result.Success {
		t.Fatalf("launch failed: %s (%s)", result.Message, result.Kind)
	}

	raw, err := os.ReadFile(filepath.Join(projectDir, "override.cfg"))
	if err != nil {
		t.Fatalf("offline override config missing: %v", err)
	}
	if len(raw) == 0 {
		t.Fatal("override config is empty")
	}
}

func TestBuildArgs(t *testing.T) {
	if args := buildArgs("godot", "/proj"); len(args) != 2 || args[0] != "--path" || args[1] != "/proj" {
		t.Fatalf("unexpected godot args %v", args)
	}
	if args := buildArgs("blender", "/proj"); args != nil {
		t.Fatalf("expected no args for blender, got %v", args)
	}
}
