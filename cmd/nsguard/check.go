package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"nsguard/internal/analysis"
	"nsguard/internal/diag"
	"nsguard/internal/diagfmt"
	"nsguard/internal/refactor"
	"nsguard/internal/source"
	"nsguard/internal/ui"
	"nsguard/internal/version"
)

var checkCmd = &cobra.Command{
	Use:   "check [flags] [paths...]",
	Short: "Report namespace drift in Solidity files",
	Long: `Check every .sol file under the given paths (default: the working directory).
Dependency trees (node_modules, lib, out, cache, artifacts) are skipped.
The exit status is 1 when an error is reported, or a warning with --strict.`,
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().String("format", "", "output format (pretty|json|sarif); default from config")
	checkCmd.Flags().Bool("strict", false, "exit non-zero on warnings as well")
	checkCmd.Flags().Int("jobs", 0, "max parallel workers (0=config or auto)")
	checkCmd.Flags().String("ui", "", "progress UI (auto|on|off); default from config")
	checkCmd.Flags().Bool("with-notes", false, "include diagnostic notes")
	checkCmd.Flags().Bool("suggest", false, "include fix actions")
	checkCmd.Flags().Bool("preview", false, "include a preview of each fix (implies --suggest)")
	checkCmd.Flags().Bool("fullpath", false, "emit absolute file paths")
}

// checkOptions are the rendering choices of one check run.
type checkOptions struct {
	format    string
	strict    bool
	jobs      int
	useUI     bool
	withNotes bool
	suggest   bool
	preview   bool
	fullPath  bool
	args      []string
}

// checkRun is everything one pass over the paths produced.
type checkRun struct {
	fs      *source.FileSet
	results []analysis.FileResult
	bag     *diag.Bag
	actions []refactor.Action
}

func runCheck(cmd *cobra.Command, args []string) error {
	e, err := loadEnv(cmd)
	if err != nil {
		return err
	}
	opts, err := readCheckOptions(cmd, e)
	if err != nil {
		return err
	}
	paths := args
	if len(paths) == 0 {
		paths = []string{"."}
	}
	opts.args = os.Args[1:]

	run, err := analyzeForCheck(cmd.Context(), e, paths, opts)
	if err != nil {
		return err
	}
	if err := renderCheck(cmd.OutOrStdout(), e, run, opts); err != nil {
		return err
	}
	e.printTimings(cmd)
	return checkStatus(run, opts.strict)
}

func readCheckOptions(cmd *cobra.Command, e *env) (checkOptions, error) {
	flags := cmd.Flags()
	var opts checkOptions
	var err error
	if opts.format, err = flags.GetString("format"); err != nil {
		return opts, err
	}
	if opts.format == "" {
		opts.format = e.cfg.Output.Format
	}
	opts.format = strings.ToLower(opts.format)
	switch opts.format {
	case "pretty", "json", "sarif":
	default:
		return opts, fmt.Errorf("unknown format %q (expected pretty|json|sarif)", opts.format)
	}
	if opts.strict, err = flags.GetBool("strict"); err != nil {
		return opts, err
	}
	if opts.jobs, err = flags.GetInt("jobs"); err != nil {
		return opts, err
	}
	if opts.jobs == 0 {
		opts.jobs = e.cfg.Jobs
	}
	uiValue, err := flags.GetString("ui")
	if err != nil {
		return opts, err
	}
	if uiValue == "" {
		uiValue = e.cfg.Output.UI
	}
	mode, err := readUIMode(uiValue)
	if err != nil {
		return opts, err
	}
	// the progress view shares stdout with pretty output only
	opts.useUI = opts.format == "pretty" && !e.quiet && shouldUseTUI(mode)
	if opts.withNotes, err = flags.GetBool("with-notes"); err != nil {
		return opts, err
	}
	if opts.suggest, err = flags.GetBool("suggest"); err != nil {
		return opts, err
	}
	if opts.preview, err = flags.GetBool("preview"); err != nil {
		return opts, err
	}
	opts.suggest = opts.suggest || opts.preview
	if opts.fullPath, err = flags.GetBool("fullpath"); err != nil {
		return opts, err
	}
	return opts, nil
}

func analyzeForCheck(ctx context.Context, e *env, paths []string, opts checkOptions) (*checkRun, error) {
	aopts := e.analysisOptions()
	var (
		fs      *source.FileSet
		results []analysis.FileResult
		err     error
	)
	if opts.useUI {
		fs, results, err = analyzeWithUI(ctx, e, paths, aopts, opts.jobs)
	} else {
		fs, results, err = analysis.AnalyzePaths(ctx, e.root, paths, aopts, opts.jobs)
	}
	if err != nil {
		return nil, err
	}

	run := &checkRun{fs: fs, results: results, bag: diag.NewBag(e.cfg.MaxDiagnostics)}
	for i := range results {
		r := &results[i]
		if r.Err != nil {
			return nil, fmt.Errorf("load %s: %w", r.Path, r.Err)
		}
		for _, d := range r.Report.Diagnostics {
			run.bag.Add(d)
		}
		if opts.suggest {
			run.actions = append(run.actions, analysis.Actions(&r.Report, aopts)...)
		}
	}
	run.bag.Sort()
	return run, nil
}

func analyzeWithUI(ctx context.Context, e *env, paths []string, aopts analysis.Options, jobs int) (*source.FileSet, []analysis.FileResult, error) {
	files, err := analysis.ListFiles(paths)
	if err != nil {
		return nil, nil, err
	}
	type outcome struct {
		fs      *source.FileSet
		results []analysis.FileResult
		err     error
	}
	events := make(chan analysis.Event, 256)
	outcomeCh := make(chan outcome, 1)
	aopts.Progress = analysis.ChannelSink{Ch: events}
	go func() {
		fs, results, err := analysis.AnalyzePaths(ctx, e.root, paths, aopts, jobs)
		outcomeCh <- outcome{fs: fs, results: results, err: err}
		close(events)
	}()

	model := ui.NewProgressModel("nsguard check", files, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout), tea.WithContext(ctx))
	_, uiErr := program.Run()
	// the view may quit early; keep the producer from blocking
	go func() {
		for range events {
		}
	}()
	out := <-outcomeCh
	if out.err != nil {
		return out.fs, out.results, out.err
	}
	if uiErr != nil {
		e.logger.Warn("progress UI failed", "error", uiErr)
	}
	return out.fs, out.results, nil
}

func renderCheck(w io.Writer, e *env, run *checkRun, opts checkOptions) error {
	pathMode := diagfmt.PathModeRelative
	if opts.fullPath {
		pathMode = diagfmt.PathModeAbsolute
	}
	switch opts.format {
	case "json":
		return diagfmt.JSON(w, run.bag, run.fs, diagfmt.JSONOpts{
			IncludePositions: true,
			PathMode:         pathMode,
			IncludeNotes:     opts.withNotes,
			IncludeFixes:     opts.suggest,
			IncludePreviews:  opts.preview,
			Actions:          run.actions,
		})
	case "sarif":
		return diagfmt.Sarif(w, run.bag, run.fs, diagfmt.SarifRunMeta{
			ToolName:       "nsguard",
			ToolVersion:    version.Version,
			InvocationArgs: opts.args,
			WorkingDir:     e.root,
		})
	default:
		diagfmt.Pretty(w, run.bag, run.fs, diagfmt.PrettyOpts{
			Color:       e.color,
			Context:     1,
			PathMode:    pathMode,
			ShowNotes:   opts.withNotes,
			ShowFixes:   opts.suggest,
			ShowPreview: opts.preview,
			Actions:     run.actions,
		})
		if !e.quiet {
			fmt.Fprintln(w, summaryLine(run))
		}
		return nil
	}
}

func summaryLine(run *checkRun) string {
	var errs, warns, infos int
	for _, d := range run.bag.Items() {
		switch d.Severity {
		case diag.SevError:
			errs++
		case diag.SevWarning:
			warns++
		default:
			infos++
		}
	}
	if errs+warns+infos == 0 {
		return fmt.Sprintf("checked %d file(s): no findings", len(run.results))
	}
	return fmt.Sprintf("checked %d file(s): %d error(s), %d warning(s), %d info", len(run.results), errs, warns, infos)
}

// checkStatus looks at every diagnostic, including those past the bag limit.
func checkStatus(run *checkRun, strict bool) error {
	threshold := diag.SevError
	if strict {
		threshold = diag.SevWarning
	}
	for _, r := range run.results {
		for _, d := range r.Report.Diagnostics {
			if d.Severity >= threshold {
				return &exitError{code: 1}
			}
		}
	}
	return nil
}
