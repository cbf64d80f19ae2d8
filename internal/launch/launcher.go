// Package launch resolves a project-linked tool to an executable, verifies
// it and spawns the process inside the project directory.
package launch

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"github.com/rs/zerolog"

	"toolbay/internal/config"
	"toolbay/internal/library"
	"toolbay/internal/offline"
	"toolbay/internal/paths"
)

// ErrorKind classifies launch failures for branching callers.
type ErrorKind string

const (
	ErrNone           ErrorKind = ""
	ErrTraversal      ErrorKind = "traversal"
	ErrNotFound       ErrorKind = "executable_not_found"
	ErrHashMalformed  ErrorKind = "hash_malformed"
	ErrHashMismatch   ErrorKind = "hash_mismatch"
	ErrOverrideFailed ErrorKind = "offline_override_failed"
	ErrSpawnFailed    ErrorKind = "spawn_failed"
)

// Result reports the outcome of one launch attempt. PID is zero unless the
// process started.
type Result struct {
	Success bool      `json:"success"`
	Kind    ErrorKind `json:"error_kind,omitempty"`
	Message string    `json:"message,omitempty"`
	PID     int       `json:"pid,omitempty"`
}

func failure(kind ErrorKind, format string, args ...any) Result {
	return Result{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

var sha256Pattern = regexp.MustCompile(`^[0-9a-f]{64}$`)

// Launcher spawns project tools. Only exit state and PID are reported;
// capturing output belongs to a surrounding supervision layer.
type Launcher struct {
	Gate *offline.Enforcer
	Log  zerolog.Logger
}

// Launch resolves the tool's executable, verifies its hash when one is
// declared and starts the process with projectDir as working directory.
func (l Launcher) Launch(tool config.ToolRef, projectDir string) Result {
	exePath, res := l.resolveExecutable(tool, projectDir)
	if res.Kind != ErrNone {
		return res
	}

	if res := l.verifyDeclaredHash(tool, exePath); res.Kind != ErrNone {
		return res
	}

	args := buildArgs(tool.ID, projectDir)
	var extraEnv []string

	if l.Gate != nil && l.Gate.IsOffline() {
		overrideArgs, overrideEnv, err := applyOfflineOverride(tool.ID, projectDir)
		if err != nil {
			return failure(ErrOverrideFailed, "offline override for %s: %v", tool.Reference(), err)
		}
		args = append(args, overrideArgs...)
		extraEnv = overrideEnv
	}

	cmd := exec.Command(exePath, args...)
	cmd.Dir = projectDir
	if len(extraEnv) > 0 {
		cmd.Env = append(os.Environ(), extraEnv...)
	}
	if err := cmd.Start(); err != nil {
		return failure(ErrSpawnFailed, "start %s: %v", tool.Reference(), err)
	}

	pid := cmd.Process.Pid
	// The tool outlives the launcher; reap it in the background so it never
	// turns into a zombie while this process is alive.
	go func() { _ = cmd.Wait() }()

	l.Log.Info().Str("tool", tool.Reference()).Int("pid", pid).Msg("launched")
	return Result{Success: true, PID: pid}
}

// Verify resolves the tool's executable and re-checks its declared hash
// without spawning anything. A tool that declares no hash verifies trivially
// once resolution succeeds.
func (l Launcher) Verify(tool config.ToolRef, projectDir string) Result {
	exePath, res := l.resolveExecutable(tool, projectDir)
	if res.Kind != ErrNone {
		return res
	}
	if res := l.verifyDeclaredHash(tool, exePath); res.Kind != ErrNone {
		return res
	}
	return Result{Success: true}
}

// verifyDeclaredHash checks a declared sha256 against the resolved
// executable. Malformed and mismatched hashes are both fatal.
func (l Launcher) verifyDeclaredHash(tool config.ToolRef, exePath string) Result {
	if tool.SHA256 == "" {
		return Result{}
	}
	hash := strings.ToLower(strings.TrimSpace(tool.SHA256))
	if !sha256Pattern.MatchString(hash) {
		return failure(ErrHashMalformed, "declared sha256 for %s is malformed", tool.Reference())
	}
	match, err := verifyChecksum(exePath, hash)
	if err != nil {
		return failure(ErrHashMismatch, "hash %s: %v", tool.Reference(), err)
	}
	if !match {
		l.Log.Error().Str("tool", tool.Reference()).Msg("executable hash mismatch")
		return failure(ErrHashMismatch, "executable hash mismatch for %s", tool.Reference())
	}
	return Result{}
}

// resolveExecutable finds the binary to run: an explicit project-relative
// path when declared, otherwise the library entry for (id, version).
func (l Launcher) resolveExecutable(tool config.ToolRef, projectDir string) (string, Result) {
	if tool.Path != "" {
		if paths.IsAbs(tool.Path) || paths.HasParentSegment(tool.Path) {
			return "", failure(ErrTraversal, "tool path %q must be project-relative", tool.Path)
		}
		full := filepath.Join(projectDir, filepath.FromSlash(tool.Path))
		if !paths.UnderRoot(projectDir, full) {
			return "", failure(ErrTraversal, "tool path %q escapes the project directory", tool.Path)
		}
		if ok, _ := paths.FileExists(full); !ok {
			return "", failure(ErrNotFound, "tool executable %s not found", full)
		}
		return full, Result{}
	}

	meta := library.ToolMetadata(tool.ID, tool.Version)
	if !meta.Exists {
		return "", failure(ErrNotFound, "tool %s is not in the library", tool.Reference())
	}

	if name, ok := executableNames[tool.ID]; ok {
		candidate := filepath.Join(meta.Path, withExeSuffix(name))
		if ok, _ := paths.FileExists(candidate); ok {
			return candidate, Result{}
		}
	}

	found := firstExecutable(meta.Path)
	if found == "" {
		return "", failure(ErrNotFound, "no executable found for %s under %s", tool.Reference(), meta.Path)
	}
	return found, Result{}
}

// executableNames maps tool ids to their conventional binary name inside a
// library entry. Ids outside the table fall back to a directory scan.
var executableNames = map[string]string{
	"godot":    "godot",
	"blender":  "blender",
	"krita":    "krita",
	"gimp":     "gimp",
	"inkscape": "inkscape",
	"audacity": "audacity",
}

func withExeSuffix(name string) string {
	if runtime.GOOS == "windows" {
		return name + ".exe"
	}
	return name
}

// firstExecutable scans a library entry breadth-first and returns the first
// executable regular file.
func firstExecutable(root string) string {
	queue := []string{root}
	for len(queue) > 0 {
		dir := queue[0]
		queue = queue[1:]

		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, entry := range entries {
			full := filepath.Join(dir, entry.Name())
			if entry.IsDir() {
				queue = append(queue, full)
				continue
			}
			if isExecutable(full, entry.Name()) {
				return full
			}
		}
	}
	return ""
}

func isExecutable(path, name string) bool {
	if runtime.GOOS == "windows" {
		ext := strings.ToLower(filepath.Ext(name))
		return ext == ".exe" || ext == ".bat" || ext == ".cmd"
	}
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular() && info.Mode()&0o111 != 0
}
