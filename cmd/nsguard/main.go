package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"nsguard/internal/prof"
	"nsguard/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "nsguard",
	Short: "ERC-7201 namespaced storage checker for Solidity",
	Long: `nsguard checks Solidity contracts against the ERC-7201 namespaced storage
convention, reports drifted namespace ids and slot hashes, and rewrites
legacy state variables into a namespace struct.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: startProfiling,
}

// profiling is stopped by main after the command returns, including on error.
var profiling *prof.Session

// exitError carries a process exit code without printing anything.
type exitError struct {
	code int
}

func (e *exitError) Error() string { return fmt.Sprintf("exit status %d", e.code) }

func init() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(fixCmd)
	rootCmd.AddCommand(slotCmd)
	rootCmd.AddCommand(lspCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(versionCmd)

	addGlobalFlags(rootCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if perr := profiling.Stop(); perr != nil {
		fmt.Fprintln(os.Stderr, "warning: profiling:", perr)
	}
	os.Exit(exitCode(err))
}

func addGlobalFlags(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()
	flags.String("color", "auto", "colorize output (auto|on|off)")
	flags.Bool("quiet", false, "suppress logs and non-essential output")
	flags.CountP("verbose", "v", "increase log verbosity (-v info, -vv debug)")
	flags.Bool("timings", false, "print per-phase timings to stderr")
	flags.String("config", "", "config file (default: .nsguard.{toml,yaml,json} in the working directory)")
	flags.String("prefix", "", "namespace id prefix (default erc7201)")
	flags.String("solc", "", "Solidity version, skipping build-config and pragma detection")
	flags.Int("max-diagnostics", 0, "maximum number of diagnostics to keep (0 = config or 100)")
	flags.String("cpu-profile", "", "write a CPU profile to this file")
	flags.String("mem-profile", "", "write a heap profile to this file on exit")
	flags.String("runtime-trace", "", "write a runtime execution trace to this file")
}

func startProfiling(cmd *cobra.Command, _ []string) error {
	flags := cmd.Root().PersistentFlags()
	var opts prof.Options
	var err error
	if opts.CPU, err = flags.GetString("cpu-profile"); err != nil {
		return err
	}
	if opts.Mem, err = flags.GetString("mem-profile"); err != nil {
		return err
	}
	if opts.Trace, err = flags.GetString("runtime-trace"); err != nil {
		return err
	}
	profiling, err = prof.Start(opts)
	return err
}

func exitCode(err error) int {
	if err == nil {
		return 0
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	fmt.Fprintln(os.Stderr, "error:", err)
	return 2
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
