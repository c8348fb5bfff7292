package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"margarine/internal/project"
)

func TestMergeCheckConfig(t *testing.T) {
	root := t.TempDir()
	for _, name := range []string{"b.mtree", "a.mtree"} {
		if err := os.WriteFile(filepath.Join(root, name), nil, 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	m := &project.Manifest{Path: filepath.Join(root, project.ManifestName), Root: root}
	m.Config.Check.MaxDiagnostics = 7
	m.Config.Check.MaxDepth = 64

	tests := []struct {
		name      string
		args      []string
		manifest  *project.Manifest
		maxDiag   flagValue
		maxDepth  flagValue
		wantFiles int
		wantDiag  int
		wantDepth int
		wantErr   error
	}{
		{
			name:      "manifest fills defaults",
			manifest:  m,
			maxDiag:   flagValue{value: 100},
			wantFiles: 2,
			wantDiag:  7,
			wantDepth: 64,
		},
		{
			name:      "explicit flags win",
			args:      []string{"x.mtree"},
			manifest:  m,
			maxDiag:   flagValue{value: 3, set: true},
			maxDepth:  flagValue{value: 9, set: true},
			wantFiles: 1,
			wantDiag:  3,
			wantDepth: 9,
		},
		{
			name:      "no manifest",
			args:      []string{"x.mtree", "y.mtree"},
			maxDiag:   flagValue{value: 100},
			wantFiles: 2,
			wantDiag:  100,
		},
		{
			name:    "nothing to check",
			maxDiag: flagValue{value: 100},
			wantErr: errNoInputs,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := mergeCheckConfig(tt.args, tt.manifest, tt.maxDiag, tt.maxDepth)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("mergeCheckConfig: %v", err)
			}
			if len(cfg.files) != tt.wantFiles || cfg.maxDiagnostics != tt.wantDiag || cfg.maxDepth != tt.wantDepth {
				t.Fatalf("unexpected config %+v", cfg)
			}
		})
	}
}

func TestMergeCheckConfigSortsManifestFiles(t *testing.T) {
	root := t.TempDir()
	for _, name := range []string{"z.mtree", "m.mtree"} {
		if err := os.WriteFile(filepath.Join(root, name), nil, 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	m := &project.Manifest{Path: filepath.Join(root, project.ManifestName), Root: root}
	cfg, err := mergeCheckConfig(nil, m, flagValue{}, flagValue{})
	if err != nil {
		t.Fatalf("mergeCheckConfig: %v", err)
	}
	if filepath.Base(cfg.files[0]) != "m.mtree" || filepath.Base(cfg.files[1]) != "z.mtree" {
		t.Fatalf("files not sorted: %v", cfg.files)
	}
}
