package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"margarine/internal/diagfmt"
	"margarine/internal/driver"
	"margarine/internal/trace"
)

var dumpCmd = &cobra.Command{
	Use:   "dump [flags] [file.mtree...]",
	Short: "Print analysis results (symbols, expression types, calls) as JSON",
	RunE:  runDump,
}

func init() {
	dumpCmd.Flags().Bool("json", true, "emit JSON (the only supported format)")
	dumpCmd.Flags().Int("max-depth", 0, "expression nesting limit (0 = default)")
}

// dumpEntry is one snapshot in the dump output.
type dumpEntry struct {
	Path        string                     `json:"path"`
	Diagnostics diagfmt.DiagnosticsOutput  `json:"diagnostics"`
	Roots       []*diagfmt.SemanticsOutput `json:"roots"`
}

func runDump(cmd *cobra.Command, args []string) error {
	defer dumpTraceOnPanic(cmd.Context())

	asJSON, err := cmd.Flags().GetBool("json")
	if err != nil {
		return fmt.Errorf("failed to get json flag: %w", err)
	}
	if !asJSON {
		return fmt.Errorf("dump supports only --json output")
	}
	jobs, err := cmd.Root().PersistentFlags().GetInt("jobs")
	if err != nil {
		return fmt.Errorf("failed to get jobs flag: %w", err)
	}

	cfg, err := resolveCheckConfig(cmd, args)
	if err != nil {
		return err
	}
	stopProfiling, err := setupProfiling(cmd)
	if err != nil {
		return err
	}
	defer stopProfiling()

	units, err := driver.CheckFiles(cmd.Context(), cfg.files, driver.Options{
		MaxDiagnostics: cfg.maxDiagnostics,
		MaxDepth:       cfg.maxDepth,
		Jobs:           jobs,
		Tracer:         trace.FromContext(cmd.Context()),
	})
	if err != nil {
		return fmt.Errorf("dump failed: %w", err)
	}

	entries := make([]dumpEntry, 0, len(units))
	for _, u := range units {
		entry := dumpEntry{
			Path:        u.Path,
			Diagnostics: diagfmt.BuildDiagnosticsOutput(unitInput(u), diagfmt.JSONOpts{IncludePositions: true}),
			Roots:       []*diagfmt.SemanticsOutput{},
		}
		for i := range u.Results {
			res := &u.Results[i]
			out, err := diagfmt.BuildSemanticsOutput(&diagfmt.SemanticsInput{
				Builder: u.Snapshot.Tree,
				FileID:  res.Root,
				Result:  &res.Sema,
			})
			if err != nil {
				return fmt.Errorf("%s: %w", u.Path, err)
			}
			entry.Roots = append(entry.Roots, out)
		}
		entries = append(entries, entry)
	}
	return writeJSON(cmd.OutOrStdout(), entries)
}
