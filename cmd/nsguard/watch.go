package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"nsguard/internal/watch"
)

var watchCmd = &cobra.Command{
	Use:   "watch [flags] [paths...]",
	Short: "Re-run check whenever Solidity or build-config files change",
	RunE:  runWatch,
}

func init() {
	watchCmd.Flags().Duration("debounce", watch.DefaultDebounce, "quiet period before re-checking")
	watchCmd.Flags().Bool("clear", false, "clear the screen before each run")
	watchCmd.Flags().Bool("with-notes", false, "include diagnostic notes")
	watchCmd.Flags().Bool("suggest", false, "include fix actions")
}

func runWatch(cmd *cobra.Command, args []string) error {
	e, err := loadEnv(cmd)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	debounce, err := flags.GetDuration("debounce")
	if err != nil {
		return err
	}
	clearScreen, err := flags.GetBool("clear")
	if err != nil {
		return err
	}
	opts := checkOptions{format: "pretty", jobs: e.cfg.Jobs}
	if opts.withNotes, err = flags.GetBool("with-notes"); err != nil {
		return err
	}
	if opts.suggest, err = flags.GetBool("suggest"); err != nil {
		return err
	}
	paths := args
	if len(paths) == 0 {
		paths = []string{"."}
	}

	w, err := watch.New(paths, watch.Options{Debounce: debounce, Logger: e.logger})
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	defer w.Close()

	out := cmd.OutOrStdout()
	ctx := cmd.Context()
	once := func() {
		if clearScreen {
			fmt.Fprint(out, "\x1b[H\x1b[2J")
		}
		fmt.Fprintf(out, "[%s] checking %d path(s)\n", time.Now().Format(time.TimeOnly), len(paths))
		run, err := analyzeForCheck(ctx, e, paths, opts)
		if err != nil {
			e.logger.Error("check failed", "error", err)
			return
		}
		if err := renderCheck(out, e, run, opts); err != nil {
			e.logger.Error("render failed", "error", err)
		}
	}

	once()
	err = w.Run(ctx, func(changed []string) {
		e.logger.Info("re-checking", "changed", len(changed), "first", changed[0])
		once()
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
