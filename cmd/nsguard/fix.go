package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"nsguard/internal/analysis"
	"nsguard/internal/fix"
	"nsguard/internal/refactor"
)

var fixCmd = &cobra.Command{
	Use:   "fix [flags] [paths...]",
	Short: "Apply namespace fixes to Solidity files",
	Long: `Run the check, compute fix actions and apply them.
By default the first fix is applied. --all applies every id and hash fix;
add --refactors to also move legacy state into namespace structs.`,
	RunE: runFix,
}

func init() {
	fixCmd.Flags().Bool("all", false, "apply all fixes")
	fixCmd.Flags().Bool("once", false, "apply the first available fix (default)")
	fixCmd.Flags().String("id", "", "apply the fix with this identifier (see check --suggest)")
	fixCmd.Flags().Bool("refactors", false, "with --all, include move-into-namespace refactors")
	fixCmd.Flags().Bool("dry-run", false, "report what would change without writing files")
	fixCmd.Flags().Int("jobs", 0, "max parallel workers (0=config or auto)")
}

func readApplyOptions(cmd *cobra.Command) (fix.ApplyOptions, error) {
	flags := cmd.Flags()
	applyAll, err := flags.GetBool("all")
	if err != nil {
		return fix.ApplyOptions{}, err
	}
	applyOnce, err := flags.GetBool("once")
	if err != nil {
		return fix.ApplyOptions{}, err
	}
	targetID, err := flags.GetString("id")
	if err != nil {
		return fix.ApplyOptions{}, err
	}
	refactors, err := flags.GetBool("refactors")
	if err != nil {
		return fix.ApplyOptions{}, err
	}
	dryRun, err := flags.GetBool("dry-run")
	if err != nil {
		return fix.ApplyOptions{}, err
	}

	if targetID != "" && (applyAll || applyOnce) {
		return fix.ApplyOptions{}, fmt.Errorf("--id cannot be combined with --all or --once")
	}
	if applyAll && applyOnce {
		return fix.ApplyOptions{}, fmt.Errorf("--all and --once are mutually exclusive")
	}
	if refactors && !applyAll {
		return fix.ApplyOptions{}, fmt.Errorf("--refactors requires --all")
	}

	mode := fix.ApplyModeOnce
	if targetID != "" {
		mode = fix.ApplyModeID
	} else if applyAll {
		mode = fix.ApplyModeAll
	}
	return fix.ApplyOptions{Mode: mode, TargetID: targetID, Refactors: refactors, DryRun: dryRun}, nil
}

func runFix(cmd *cobra.Command, args []string) error {
	opts, err := readApplyOptions(cmd)
	if err != nil {
		return err
	}
	e, err := loadEnv(cmd)
	if err != nil {
		return err
	}
	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return err
	}
	if jobs == 0 {
		jobs = e.cfg.Jobs
	}
	paths := args
	if len(paths) == 0 {
		paths = []string{"."}
	}

	aopts := e.analysisOptions()
	fs, results, err := analysis.AnalyzePaths(cmd.Context(), e.root, paths, aopts, jobs)
	if err != nil {
		return fmt.Errorf("fix: %w", err)
	}
	var actions []refactor.Action
	for i := range results {
		r := &results[i]
		if r.Err != nil {
			return fmt.Errorf("fix: load %s: %w", r.Path, r.Err)
		}
		actions = append(actions, analysis.Actions(&r.Report, aopts)...)
	}

	done := e.timer.Track("apply")
	res, applyErr := fix.Apply(fs, actions, opts)
	done()
	err = handleApplyResult(cmd.OutOrStdout(), res, applyErr, opts.DryRun)
	e.printTimings(cmd)
	return err
}

func handleApplyResult(out io.Writer, res *fix.ApplyResult, applyErr error, dryRun bool) error {
	if res == nil {
		return applyErr
	}
	verb := "Applied"
	if dryRun {
		verb = "Would apply"
	}
	if len(res.Applied) > 0 {
		fmt.Fprintf(out, "%s %d fix(es):\n", verb, len(res.Applied))
		for _, item := range res.Applied {
			location := item.PrimaryPath
			if location == "" {
				location = "(unknown location)"
			}
			fmt.Fprintf(out, "  %s [%s] at %s (%d edits)\n", item.Title, item.ID, location, item.EditCount)
		}
	}

	if len(res.FileChanges) > 0 {
		if dryRun {
			fmt.Fprintln(out, "Files that would change:")
		} else {
			fmt.Fprintln(out, "Updated files:")
		}
		for _, change := range res.FileChanges {
			fmt.Fprintf(out, "  %s (%d edits)\n", change.Path, change.EditCount)
		}
	}

	if len(res.Skipped) > 0 {
		fmt.Fprintln(out, "Skipped fixes:")
		for _, skip := range res.Skipped {
			id := skip.ID
			if id == "" {
				id = "(unnamed)"
			}
			if skip.Title != "" {
				fmt.Fprintf(out, "  %s [%s]: %s\n", skip.Title, id, skip.Reason)
			} else {
				fmt.Fprintf(out, "  [%s]: %s\n", id, skip.Reason)
			}
		}
	}

	if applyErr != nil {
		if errors.Is(applyErr, fix.ErrNoFixes) && len(res.Applied) == 0 {
			fmt.Fprintln(out, "No applicable fixes found.")
			return nil
		}
		return applyErr
	}
	return nil
}
