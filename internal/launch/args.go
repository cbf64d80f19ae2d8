package launch

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// buildArgs derives launch arguments purely from the tool id and project
// directory. The set of cases is closed; unknown tools get no arguments.
func buildArgs(id, projectDir string) []string {
	switch id {
	case "godot":
		// The editor needs to be pointed at the project explicitly.
		return []string{"--path", projectDir}
	default:
		return nil
	}
}

// offlineOverride describes the per-tool injection applied before spawning
// while the offline gate is active.
type offlineOverride struct {
	extraArgs  []string
	env        []string
	configName string
	configBody string
}

var offlineOverrides = map[string]offlineOverride{
	"godot": {
		configName: "override.cfg",
		configBody: "[network]\n\nnetwork_mode=\"offline\"\nasset_library/use_threads=false\n\n[editor]\n\nupdate_check/enabled=false\n",
	},
	"blender": {
		env: []string{"BLENDER_OFFLINE_MODE=1"},
	},
	"krita": {
		extraArgs: []string{"--nosplash"},
		env:       []string{"KRITA_NO_NEWS=1"},
	},
}

// applyOfflineOverride performs the injection for one tool: config writes
// happen here, arguments and environment are returned for the spawn. Failure
// aborts the launch.
func applyOfflineOverride(id, projectDir string) ([]string, []string, error) {
	spec, ok := offlineOverrides[id]
	if !ok {
		return nil, nil, nil
	}
	if spec.configName != "" {
		target := filepath.Join(projectDir, spec.configName)
		if err := os.WriteFile(target, []byte(spec.configBody), 0o644); err != nil {
			return nil, nil, err
		}
	}
	return spec.extraArgs, spec.env, nil
}

func verifyChecksum(path, expected string) (bool, error) {
	file, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer file.Close()

	h := sha256.New()
	if _, err := io.Copy(h, file); err != nil {
		return false, err
	}
	return strings.EqualFold(hex.EncodeToString(h.Sum(nil)), expected), nil
}
