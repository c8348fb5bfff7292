package project

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
)

// SnapshotExt is the extension of tree snapshot files.
const SnapshotExt = ".mtree"

// Manifest is a loaded margarine.toml.
type Manifest struct {
	Path   string
	Root   string
	Config Config
}

// Config mirrors the manifest tables. Zero values mean "not set": the CLI
// falls back to its own defaults and flags win over the manifest.
type Config struct {
	Package PackageConfig `toml:"package"`
	Check   CheckConfig   `toml:"check"`
	Trace   TraceConfig   `toml:"trace"`
}

type PackageConfig struct {
	Name string `toml:"name"`
}

type CheckConfig struct {
	// Files are snapshot paths or glob patterns relative to the root.
	Files          []string `toml:"files,omitempty"`
	MaxDiagnostics int      `toml:"max-diagnostics,omitempty"`
	MaxDepth       int      `toml:"max-depth,omitempty"`
}

type TraceConfig struct {
	Level string `toml:"level,omitempty"`
}

// Load finds margarine.toml above startDir and parses it.
// ok is false when no manifest exists.
func Load(startDir string) (*Manifest, bool, error) {
	path, ok, err := FindManifest(startDir)
	if err != nil || !ok {
		return nil, ok, err
	}
	m, err := LoadFile(path)
	if err != nil {
		return nil, true, err
	}
	return m, true, nil
}

// LoadFile parses and validates the manifest at path.
func LoadFile(path string) (*Manifest, error) {
	var cfg Config
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if !meta.IsDefined("package") {
		return nil, fmt.Errorf("%s: missing [package]", path)
	}
	if !meta.IsDefined("package", "name") || strings.TrimSpace(cfg.Package.Name) == "" {
		return nil, fmt.Errorf("%s: missing [package].name", path)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("%s: unknown key %s", path, undecoded[0])
	}
	if cfg.Check.MaxDiagnostics < 0 {
		return nil, fmt.Errorf("%s: [check].max-diagnostics must not be negative", path)
	}
	if cfg.Check.MaxDepth < 0 {
		return nil, fmt.Errorf("%s: [check].max-depth must not be negative", path)
	}
	return &Manifest{Path: path, Root: filepath.Dir(path), Config: cfg}, nil
}

// ResolveFiles expands [check].files against the root. Without entries it
// takes every snapshot under the root. The result is sorted and unique.
func (m *Manifest) ResolveFiles() ([]string, error) {
	patterns := m.Config.Check.Files
	if len(patterns) == 0 {
		return listSnapshots(m.Root)
	}
	var out []string
	for _, pattern := range patterns {
		full := filepath.Join(m.Root, filepath.FromSlash(pattern))
		matches, err := filepath.Glob(full)
		if err != nil {
			return nil, fmt.Errorf("%s: bad [check].files pattern %q: %w", m.Path, pattern, err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("%s: [check].files entry %q matches nothing", m.Path, pattern)
		}
		out = append(out, matches...)
	}
	slices.Sort(out)
	return slices.Compact(out), nil
}

func listSnapshots(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(path, SnapshotExt) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	slices.Sort(files)
	return files, nil
}

var ErrManifestExists = errors.New("manifest already exists")

// Init writes a fresh manifest for package name into dir.
func Init(dir, name string) (string, error) {
	if strings.TrimSpace(name) == "" {
		return "", errors.New("package name must not be empty")
	}
	path := filepath.Join(dir, ManifestName)
	if _, err := os.Stat(path); err == nil {
		return "", fmt.Errorf("%s: %w", path, ErrManifestExists)
	}
	var buf bytes.Buffer
	cfg := Config{Package: PackageConfig{Name: name}}
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return "", fmt.Errorf("%s: failed to encode TOML: %w", path, err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}
