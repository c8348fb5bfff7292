package main

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/spf13/cobra"

	"margarine/internal/project"
)

// projectManifest ищет margarine.toml от текущей директории вверх.
// Результат кэшируется на время процесса; nil без ошибки значит "манифеста нет".
var projectManifest = sync.OnceValues(func() (*project.Manifest, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	m, ok, err := project.Load(wd)
	if err != nil || !ok {
		return nil, err
	}
	return m, nil
})

// checkConfig is what a check or dump run works on after flags and the
// manifest are merged.
type checkConfig struct {
	files          []string
	maxDiagnostics int
	maxDepth       int
}

// flagValue is an int flag together with whether the user set it.
type flagValue struct {
	value int
	set   bool
}

var errNoInputs = errors.New("no snapshot files given and no margarine.toml found")

// mergeCheckConfig combines explicit file arguments, the manifest (may be nil)
// and flags. Explicitly set flags win over the manifest, the manifest wins
// over flag defaults.
func mergeCheckConfig(args []string, m *project.Manifest, maxDiagnostics, maxDepth flagValue) (checkConfig, error) {
	cfg := checkConfig{
		files:          args,
		maxDiagnostics: maxDiagnostics.value,
		maxDepth:       maxDepth.value,
	}
	if m != nil {
		if !maxDiagnostics.set && m.Config.Check.MaxDiagnostics > 0 {
			cfg.maxDiagnostics = m.Config.Check.MaxDiagnostics
		}
		if !maxDepth.set && m.Config.Check.MaxDepth > 0 {
			cfg.maxDepth = m.Config.Check.MaxDepth
		}
	}
	if len(cfg.files) > 0 {
		return cfg, nil
	}
	if m == nil {
		return cfg, errNoInputs
	}
	files, err := m.ResolveFiles()
	if err != nil {
		return cfg, fmt.Errorf("%s: %w", m.Path, err)
	}
	if len(files) == 0 {
		return cfg, fmt.Errorf("%s: no %s files under %s", m.Path, project.SnapshotExt, m.Root)
	}
	cfg.files = files
	return cfg, nil
}

// resolveCheckConfig reads the shared flags of check and dump.
func resolveCheckConfig(cmd *cobra.Command, args []string) (checkConfig, error) {
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return checkConfig{}, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	maxDepth, err := cmd.Flags().GetInt("max-depth")
	if err != nil {
		return checkConfig{}, fmt.Errorf("failed to get max-depth flag: %w", err)
	}
	if maxDiagnostics < 0 || maxDepth < 0 {
		return checkConfig{}, fmt.Errorf("--max-diagnostics and --max-depth must not be negative")
	}

	// Манифест нужен только без явных файлов или для лимитов.
	m, err := projectManifest()
	if err != nil {
		return checkConfig{}, fmt.Errorf("failed to load project manifest: %w", err)
	}
	return mergeCheckConfig(args, m,
		flagValue{value: maxDiagnostics, set: cmd.Root().PersistentFlags().Changed("max-diagnostics")},
		flagValue{value: maxDepth, set: cmd.Flags().Changed("max-depth")},
	)
}
