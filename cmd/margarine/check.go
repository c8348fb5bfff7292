package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"margarine/internal/diag"
	"margarine/internal/diagfmt"
	"margarine/internal/driver"
	"margarine/internal/observ"
	"margarine/internal/project"
	"margarine/internal/source"
	"margarine/internal/trace"
	"margarine/internal/version"
)

var checkCmd = &cobra.Command{
	Use:   "check [flags] [file.mtree...]",
	Short: "Type-check tree snapshots and report diagnostics",
	Long: `Type-check one or more tree snapshots. Without arguments the files listed
in margarine.toml ([check] files, or every .mtree under the project root) are checked.`,
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().String("format", "pretty", "output format (pretty|json|sarif)")
	checkCmd.Flags().Int("max-depth", 0, "expression nesting limit (0 = default)")
	checkCmd.Flags().Int("context", 1, "source lines shown around each diagnostic")
	checkCmd.Flags().Bool("with-notes", false, "show secondary locations")
	checkCmd.Flags().Bool("fullpath", false, "emit absolute file paths in output")
}

func runCheck(cmd *cobra.Command, args []string) error {
	// Ensure trace is dumped on panic
	defer dumpTraceOnPanic(cmd.Context())

	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	format = strings.ToLower(format)
	switch format {
	case "pretty", "json", "sarif":
	default:
		return fmt.Errorf("unknown format: %s", format)
	}

	contextLines, err := cmd.Flags().GetInt("context")
	if err != nil {
		return fmt.Errorf("failed to get context flag: %w", err)
	}
	withNotes, err := cmd.Flags().GetBool("with-notes")
	if err != nil {
		return fmt.Errorf("failed to get with-notes flag: %w", err)
	}
	fullPath, err := cmd.Flags().GetBool("fullpath")
	if err != nil {
		return fmt.Errorf("failed to get fullpath flag: %w", err)
	}
	showTimings, err := cmd.Root().PersistentFlags().GetBool("timings")
	if err != nil {
		return fmt.Errorf("failed to get timings flag: %w", err)
	}
	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return fmt.Errorf("failed to get quiet flag: %w", err)
	}
	jobs, err := cmd.Root().PersistentFlags().GetInt("jobs")
	if err != nil {
		return fmt.Errorf("failed to get jobs flag: %w", err)
	}
	colorOut, err := useColor(cmd, os.Stdout)
	if err != nil {
		return err
	}

	pathMode := diagfmt.PathModeAuto
	if fullPath {
		pathMode = diagfmt.PathModeAbsolute
	}
	r := renderer{
		format: format,
		out:    cmd.OutOrStdout(),
		pretty: diagfmt.PrettyOpts{
			Color:         colorOut,
			Context:       int8(min(max(contextLines, 0), 8)),
			PathMode:      pathMode,
			ShowSecondary: withNotes,
		},
		json: diagfmt.JSONOpts{IncludePositions: true, PathMode: pathMode},
		meta: diagfmt.SarifRunMeta{
			ToolName:       "margarine",
			ToolVersion:    version.Version,
			InvocationArgs: os.Args[1:],
		},
	}

	// Битый манифест сообщается как диагностика, а не как сбой CLI.
	if _, mErr := projectManifest(); mErr != nil {
		bag := diag.NewBag(1)
		bag.Add(diag.NewError(diag.ProjManifestInvalid, source.Span{}).WithDetail(mErr.Error()))
		if err := r.render([]diagfmt.Input{{Path: project.ManifestName, Bag: bag}}); err != nil {
			return err
		}
		return errCheckFailed
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

	var timer *observ.Timer
	if showTimings {
		timer = observ.NewTimer()
	}
	units, err := driver.CheckFiles(cmd.Context(), cfg.files, driver.Options{
		MaxDiagnostics: cfg.maxDiagnostics,
		MaxDepth:       cfg.maxDepth,
		Jobs:           jobs,
		Tracer:         trace.FromContext(cmd.Context()),
		Timer:          timer,
	})
	if err != nil {
		return fmt.Errorf("check failed: %w", err)
	}

	inputs := make([]diagfmt.Input, 0, len(units))
	for _, u := range units {
		inputs = append(inputs, unitInput(u))
	}
	if err := r.render(inputs); err != nil {
		return err
	}

	sum := driver.Summarize(units)
	if !quiet && format == "pretty" {
		printSummary(cmd.ErrOrStderr(), sum, colorOut)
	}
	if timer != nil {
		fmt.Fprint(cmd.ErrOrStderr(), timer.Summary())
	}
	if sum.Errors > 0 {
		return errCheckFailed
	}
	return nil
}

func unitInput(u *driver.Unit) diagfmt.Input {
	return diagfmt.Input{Path: u.Path, Bag: u.Bag, Files: u.Files, Table: u.Table}
}

type renderer struct {
	format string
	out    io.Writer
	pretty diagfmt.PrettyOpts
	json   diagfmt.JSONOpts
	meta   diagfmt.SarifRunMeta
}

func (r renderer) render(inputs []diagfmt.Input) error {
	switch r.format {
	case "json":
		if err := diagfmt.JSONAll(r.out, inputs, r.json); err != nil {
			return fmt.Errorf("failed to encode diagnostics output: %w", err)
		}
	case "sarif":
		if err := diagfmt.Sarif(r.out, inputs, r.meta); err != nil {
			return fmt.Errorf("failed to encode SARIF output: %w", err)
		}
	default:
		for _, in := range inputs {
			diagfmt.Pretty(r.out, in, r.pretty)
		}
	}
	return nil
}

func printSummary(w io.Writer, sum driver.Summary, colored bool) {
	status := color.New(color.FgGreen, color.Bold)
	if sum.Errors > 0 {
		status = color.New(color.FgRed, color.Bold)
	}
	if colored {
		status.EnableColor()
	} else {
		status.DisableColor()
	}
	word := "ok"
	if sum.Errors > 0 {
		word = "failed"
	}
	fmt.Fprintf(w, "%s: %d file(s), %d error(s), %d warning(s)\n",
		status.Sprint(word), sum.Files, sum.Errors, sum.Warnings)
}
