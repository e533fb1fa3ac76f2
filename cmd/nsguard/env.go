package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"nsguard/internal/analysis"
	"nsguard/internal/config"
	"nsguard/internal/diagfmt"
	"nsguard/internal/langversion"
	"nsguard/internal/observ"
	"nsguard/internal/slogutil"
)

// env is the per-invocation state derived from config and flags.
type env struct {
	cfg      *config.Config
	root     string
	logger   *slog.Logger
	color    bool
	quiet    bool
	resolver *langversion.Resolver
	timer    *observ.Timer // nil unless --timings
}

// loadEnv merges the config file, NSGUARD_* variables and flags, in
// increasing precedence.
func loadEnv(cmd *cobra.Command) (*env, error) {
	flags := cmd.Flags()
	root, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("working directory: %w", err)
	}
	configPath, err := flags.GetString("config")
	if err != nil {
		return nil, err
	}
	cfg, err := config.Load(root, configPath)
	if err != nil {
		return nil, err
	}
	if err := applyFlagOverrides(cfg, flags); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	quiet, err := flags.GetBool("quiet")
	if err != nil {
		return nil, err
	}
	verbosity, err := flags.GetCount("verbose")
	if err != nil {
		return nil, err
	}
	level := slogutil.LevelFromString(cfg.Logging.Level)
	if quiet || verbosity > 0 {
		level = slogutil.LevelFromVerbosity(verbosity, quiet)
	}
	logger := slogutil.NewLogger(cmd.ErrOrStderr(), level)

	colorMode, err := flags.GetString("color")
	if err != nil {
		return nil, err
	}
	showTimings, err := flags.GetBool("timings")
	if err != nil {
		return nil, err
	}

	e := &env{
		cfg:      cfg,
		root:     root,
		logger:   logger,
		color:    diagfmt.UseColor(colorMode, os.Stdout),
		quiet:    quiet,
		resolver: &langversion.Resolver{Logger: logger},
	}
	if showTimings {
		e.timer = observ.NewTimer()
	}
	if cfg.Cache.Enabled {
		disk, err := langversion.OpenDiskCache("nsguard", cfg.Cache.Dir)
		if err != nil {
			logger.Warn("disk cache disabled", "error", err)
		} else {
			e.resolver.Disk = disk
		}
	}
	if cfg.Path != "" {
		logger.Debug("loaded config", "path", cfg.Path)
	}
	return e, nil
}

func applyFlagOverrides(cfg *config.Config, flags *pflag.FlagSet) error {
	if flags.Changed("prefix") {
		v, err := flags.GetString("prefix")
		if err != nil {
			return err
		}
		cfg.Prefix = v
	}
	if flags.Changed("solc") {
		v, err := flags.GetString("solc")
		if err != nil {
			return err
		}
		cfg.SolidityVersion = v
	}
	if flags.Changed("max-diagnostics") {
		v, err := flags.GetInt("max-diagnostics")
		if err != nil {
			return err
		}
		cfg.MaxDiagnostics = v
	}
	return nil
}

func (e *env) analysisOptions() analysis.Options {
	return analysis.Options{
		Prefix:         e.cfg.Prefix,
		Solc:           e.cfg.SolidityVersion,
		MaxDiagnostics: e.cfg.MaxDiagnostics,
		Resolver:       e.resolver,
		Logger:         e.logger,
		Timer:          e.timer,
	}
}

func (e *env) printTimings(cmd *cobra.Command) {
	if e.timer == nil {
		return
	}
	fmt.Fprint(cmd.ErrOrStderr(), e.timer.Summary())
}
