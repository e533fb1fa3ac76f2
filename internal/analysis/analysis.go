// Package analysis runs the check pipeline over one snapshot: version,
// parse, scan, validate. It also computes fix actions and fans out over
// directories.
package analysis

import (
	"log/slog"

	"nsguard/internal/diag"
	"nsguard/internal/erc7201"
	"nsguard/internal/langversion"
	"nsguard/internal/observ"
	"nsguard/internal/parser"
	"nsguard/internal/refactor"
	"nsguard/internal/scan"
	"nsguard/internal/source"
	"nsguard/internal/validate"
)

type Options struct {
	Prefix string
	// Solc is the explicit version override; empty means resolve.
	Solc           string
	MaxDiagnostics int
	Resolver       *langversion.Resolver // may be nil
	Logger         *slog.Logger          // may be nil
	// Timer receives per-phase durations; may be nil.
	Timer *observ.Timer
	// Progress receives per-file events from AnalyzePaths; may be nil.
	Progress ProgressSink
}

func (o Options) prefix() string {
	if o.Prefix == "" {
		return erc7201.DefaultPrefix
	}
	return o.Prefix
}

func (o Options) logger() *slog.Logger {
	if o.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return o.Logger
}

// Report is everything one pass derived from a snapshot. It must not be
// reused once the text changes.
type Report struct {
	File        *source.File
	Version     langversion.Version
	Contracts   []scan.Contract
	Diagnostics []diag.Diagnostic
	ParseErrors []parser.Error
}

// Snapshot returns the refactor input matching this report.
func (r *Report) Snapshot() refactor.Snapshot {
	return refactor.Snapshot{File: r.File, Parser: r.Version.ParserOptions()}
}

// Analyze checks one file with a freshly resolved version.
func Analyze(file *source.File, opts Options) Report {
	done := opts.Timer.Track(string(StageResolve))
	version := opts.Resolver.Resolve(langversion.Request{
		Path:    diskPath(file),
		Content: file.Content,
		Setting: opts.Solc,
	})
	done()
	return AnalyzeVersion(file, version, opts)
}

// AnalyzeVersion checks one file with a known version.
func AnalyzeVersion(file *source.File, version langversion.Version, opts Options) Report {
	log := opts.logger()
	done := opts.Timer.Track(string(StageParse))
	res := parser.ParseFile(file, version.ParserOptions())
	done()
	if len(res.Errors) > 0 {
		log.Debug("syntax errors", "file", file.Path, "count", len(res.Errors), "first", res.Errors[0].Message)
	}

	done = opts.Timer.Track(string(StageCheck))
	contracts := scan.File(res.Tree, scan.Options{Prefix: opts.prefix(), Logger: opts.Logger})
	bag := diag.NewBag(opts.MaxDiagnostics)
	validate.File(contracts, validate.Options{Prefix: opts.prefix()}, diag.NewDedupReporter(diag.BagReporter{Bag: bag}))
	bag.Sort()
	done()

	log.Debug("analyzed", "file", file.Path, "solc", version.Value, "contracts", len(contracts), "diagnostics", bag.Len())
	return Report{
		File:        file,
		Version:     version,
		Contracts:   contracts,
		Diagnostics: bag.Items(),
		ParseErrors: res.Errors,
	}
}

// Actions computes an action for every diagnostic of r that carries a fix.
func Actions(r *Report, opts Options) []refactor.Action {
	e := refactor.Engine{Prefix: opts.prefix(), Logger: opts.Logger}
	return e.Actions(r.Snapshot(), r.Diagnostics)
}

func diskPath(f *source.File) string {
	if f.Flags&source.FileVirtual != 0 {
		return ""
	}
	return f.Path
}
