package cli

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"toolbay/internal/library"
)

func writeDoctorProject(t *testing.T, sha string) string {
	t.Helper()
	dir := t.TempDir()

	contents := []byte("tool payload")
	if err := os.MkdirAll(filepath.Join(dir, "bin"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "bin", "tool"), contents, 0o755); err != nil {
		t.Fatalf("write tool: %v", err)
	}

	cfg := "version: 1\nproject:\n  name: demo\ntools:\n" +
		"  - id: x\n    version: \"1\"\n    path: bin/tool\n    sha256: " + sha + "\n"
	if err := os.WriteFile(filepath.Join(dir, "toolbay.yaml"), []byte(cfg), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return dir
}

func runDoctorCommand(t *testing.T, dir string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs([]string{"doctor", "--project", dir})
	err := cmd.Execute()
	return buf.String(), err
}

func TestDoctorVerifiesDeclaredHash(t *testing.T) {
	t.Setenv(library.OverrideEnv, t.TempDir())

	sum := sha256.Sum256([]byte("tool payload"))
	out, err := runDoctorCommand(t, writeDoctorProject(t, hex.EncodeToString(sum[:])))
	if err != nil {
		t.Fatalf("doctor failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "hash verified") {
		t.Fatalf("expected the hash to be re-checked, got:\n%s", out)
	}
}

func TestDoctorFlagsHashMismatch(t *testing.T) {
	t.Setenv(library.OverrideEnv, t.TempDir())

	wrong := strings.Repeat("a", 64)
	out, err := runDoctorCommand(t, writeDoctorProject(t, wrong))
	if err == nil {
		t.Fatalf("a pinned hash mismatch must fail doctor, got:\n%s", out)
	}
	if !strings.Contains(out, "hash mismatch") {
		t.Fatalf("expected a hash mismatch finding, got:\n%s", out)
	}
}
