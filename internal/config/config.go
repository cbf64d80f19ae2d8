// Package config loads the per-project toolbay.yaml describing which tools
// the project links and how the network gate is configured.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"toolbay/internal/offline"
)

// Config captures the project configuration.
type Config struct {
	Version int            `yaml:"version"`
	Project ProjectSection `yaml:"project"`
	Mirror  MirrorSection  `yaml:"mirror"`
	Network offline.Config `yaml:"network"`
	Tools   []ToolRef      `yaml:"tools"`
}

// ProjectSection names the project.
type ProjectSection struct {
	Name string `yaml:"name"`
}

// MirrorSection points hydration at a mirror root directory. Project-relative
// paths are resolved against the project root. Whether individual archives
// are fetched locally or remotely is declared per entry in the mirror
// manifest itself.
type MirrorSection struct {
	Path string `yaml:"path,omitempty"`
}

// ToolRef links a tool into the project. Path, when set, must be
// project-relative; SHA256, when set, is verified before every launch.
type ToolRef struct {
	ID      string `yaml:"id"`
	Version string `yaml:"version"`
	Path    string `yaml:"path,omitempty"`
	SHA256  string `yaml:"sha256,omitempty"`
}

// Reference returns the immutable identity key for lookups.
func (t ToolRef) Reference() string {
	return t.ID + "@" + t.Version
}

// Load reads and decodes a project config file. A missing file returns an
// error the caller can distinguish with errors.Is(err, os.ErrNotExist).
func Load(path string) (Config, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("project config not found: %w", err)
		}
		return Config{}, fmt.Errorf("read project config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(contents, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse project config: %w", err)
	}
	return cfg, nil
}

// Save writes the config back out; used by sealing to emit the forced-offline
// variant.
func Save(path string, cfg Config) error {
	buf, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal project config: %w", err)
	}
	if err := os.WriteFile(path, buf, 0o644); err != nil {
		return fmt.Errorf("write project config: %w", err)
	}
	return nil
}
