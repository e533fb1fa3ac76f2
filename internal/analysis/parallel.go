package analysis

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"nsguard/internal/source"
)

// FileResult is the outcome for one file of a batch.
type FileResult struct {
	Path   string
	FileID source.FileID
	Report Report
	// Err is set when the file could not be loaded.
	Err error
}

// skipDirs are dependency and build trees never checked.
var skipDirs = map[string]bool{
	"node_modules": true,
	".git":         true,
	"lib":          true,
	"out":          true,
	"cache":        true,
	"artifacts":    true,
}

// SkipDir reports whether a directory name is never descended into.
func SkipDir(name string) bool {
	return skipDirs[name]
}

// ListFiles expands paths into a sorted list of .sol files. Explicit file
// arguments are kept whatever their extension.
func ListFiles(paths []string) ([]string, error) {
	var files []string
	seen := map[string]bool{}
	add := func(p string) {
		if !seen[p] {
			seen[p] = true
			files = append(files, p)
		}
	}
	for _, root := range paths {
		info, err := os.Stat(root)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			add(root)
			continue
		}
		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path != root && skipDirs[d.Name()] {
					return filepath.SkipDir
				}
				return nil
			}
			if strings.HasSuffix(path, ".sol") {
				add(path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	// deterministic order
	sort.Strings(files)
	return files, nil
}

// AnalyzePaths loads every file up front, then analyzes them in parallel.
// Results keep the order of ListFiles.
func AnalyzePaths(ctx context.Context, baseDir string, paths []string, opts Options, jobs int) (*source.FileSet, []FileResult, error) {
	fileSet := source.NewFileSetWithBase(baseDir)
	files, err := ListFiles(paths)
	if err != nil {
		return fileSet, nil, err
	}
	if len(files) == 0 {
		return fileSet, nil, nil
	}

	for _, path := range files {
		emit(opts.Progress, Event{File: path, Stage: StageLoad, Status: StatusQueued})
	}

	// FileSet is not safe for concurrent Add
	doneLoading := opts.Timer.Track(string(StageLoad))
	fileIDs := make(map[string]source.FileID, len(files))
	loadErrors := make(map[string]error)
	for _, path := range files {
		id, err := fileSet.Load(path)
		if err != nil {
			loadErrors[path] = err
			continue
		}
		fileIDs[path] = id
	}
	doneLoading()

	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	// each goroutine owns one index
	results := make([]FileResult, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))
	for i, path := range files {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			if loadErr, failed := loadErrors[path]; failed {
				opts.logger().Warn("failed to load file", "path", path, "error", loadErr)
				emit(opts.Progress, Event{File: path, Stage: StageLoad, Status: StatusError, Err: loadErr})
				results[i] = FileResult{Path: path, Err: loadErr}
				return nil
			}
			start := time.Now()
			emit(opts.Progress, Event{File: path, Stage: StageCheck, Status: StatusWorking})
			id := fileIDs[path]
			report := Analyze(fileSet.Get(id), opts)
			emit(opts.Progress, Event{
				File:        path,
				Stage:       StageCheck,
				Status:      StatusDone,
				Elapsed:     time.Since(start),
				Diagnostics: len(report.Diagnostics),
			})
			results[i] = FileResult{Path: path, FileID: id, Report: report}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fileSet, results, err
	}
	return fileSet, results, nil
}
