// Package project locates and parses the quill.toml project manifest.
package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// ManifestName is the file the project root is identified by.
const ManifestName = "quill.toml"

// Manifest is a located, parsed quill.toml.
type Manifest struct {
	Path   string
	Root   string
	Config Config
}

// Config mirrors the quill.toml schema.
type Config struct {
	Package PackageConfig `toml:"package"`
	Lint    LintConfig    `toml:"lint"`
	Format  FormatConfig  `toml:"format"`
}

type PackageConfig struct {
	Name string `toml:"name"`
}

type LintConfig struct {
	// MaxDiagnostics caps reported findings per run; 0 keeps the default.
	MaxDiagnostics int `toml:"max-diagnostics"`
	// Disabled lists rules to skip, as "group/name".
	Disabled []string `toml:"disabled"`
}

type FormatConfig struct {
	// Width is the target line width; 0 keeps the default.
	Width int `toml:"width"`
}

// FindManifest walks up from startDir to locate quill.toml.
func FindManifest(startDir string) (path string, ok bool, err error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, ManifestName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Load finds and parses the nearest manifest above startDir. ok is false
// when no manifest exists, which is not an error.
func Load(startDir string) (*Manifest, bool, error) {
	path, ok, err := FindManifest(startDir)
	if err != nil || !ok {
		return nil, ok, err
	}
	cfg, err := parseConfig(path)
	if err != nil {
		return nil, true, err
	}
	return &Manifest{
		Path:   path,
		Root:   filepath.Dir(path),
		Config: cfg,
	}, true, nil
}

func parseConfig(path string) (Config, error) {
	var cfg Config
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if !meta.IsDefined("package") {
		return Config{}, fmt.Errorf("%s: missing [package]", path)
	}
	if !meta.IsDefined("package", "name") || strings.TrimSpace(cfg.Package.Name) == "" {
		return Config{}, fmt.Errorf("%s: missing [package].name", path)
	}
	return cfg, nil
}

// DefaultManifest renders the quill.toml written by `quill init`.
func DefaultManifest(name string) string {
	return fmt.Sprintf(`[package]
name = %q

[lint]
max-diagnostics = 100
disabled = []

[format]
width = 80
`, name)
}
