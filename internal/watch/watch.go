// Package watch reports batches of changed Solidity and build-config files.
package watch

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"nsguard/internal/analysis"
)

// DefaultDebounce batches the bursts editors produce on save.
const DefaultDebounce = 200 * time.Millisecond

type Options struct {
	Debounce time.Duration
	// Match selects relevant paths; nil means Relevant.
	Match  func(path string) bool
	Logger *slog.Logger // may be nil
}

// Watcher watches directory trees, skipping dependency directories.
type Watcher struct {
	fsw      *fsnotify.Watcher
	debounce time.Duration
	match    func(string) bool
	logger   *slog.Logger
}

// Relevant reports whether a change to path can alter check results.
func Relevant(path string) bool {
	base := filepath.Base(path)
	switch {
	case strings.HasSuffix(base, ".sol"):
		return true
	case base == "foundry.toml", base == "brownie-config.yaml":
		return true
	case strings.HasPrefix(base, "hardhat.config."), strings.HasPrefix(base, ".nsguard."):
		return true
	}
	return false
}

// New watches every directory under roots.
func New(roots []string, opts Options) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &Watcher{
		fsw:      fsw,
		debounce: opts.Debounce,
		match:    opts.Match,
		logger:   opts.Logger,
	}
	if w.debounce <= 0 {
		w.debounce = DefaultDebounce
	}
	if w.match == nil {
		w.match = Relevant
	}
	if w.logger == nil {
		w.logger = slog.New(slog.DiscardHandler)
	}
	for _, root := range roots {
		info, err := os.Stat(root)
		if err != nil {
			_ = fsw.Close()
			return nil, err
		}
		if !info.IsDir() {
			root = filepath.Dir(root)
		}
		if err := w.addTree(root); err != nil {
			_ = fsw.Close()
			return nil, err
		}
	}
	return w, nil
}

func (w *Watcher) addTree(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && analysis.SkipDir(d.Name()) {
			return filepath.SkipDir
		}
		return w.fsw.Add(path)
	})
}

// Close releases the underlying watcher.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}

// Run calls onChange with the sorted, de-duplicated relevant paths of each
// quiet-period batch until ctx is done.
func (w *Watcher) Run(ctx context.Context, onChange func(paths []string)) error {
	pending := map[string]struct{}{}
	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if ev.Has(fsnotify.Create) {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() && !analysis.SkipDir(info.Name()) {
					if err := w.addTree(ev.Name); err != nil {
						w.logger.Warn("failed to watch new directory", "path", ev.Name, "error", err)
					}
				}
			}
			if ev.Op == fsnotify.Chmod || !w.match(ev.Name) {
				continue
			}
			w.logger.Debug("file changed", "path", ev.Name, "op", ev.Op.String())
			pending[ev.Name] = struct{}{}
			timer.Reset(w.debounce)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			if errors.Is(err, fsnotify.ErrEventOverflow) {
				w.logger.Warn("watch queue overflowed, some changes may be batched late")
				continue
			}
			w.logger.Warn("watch error", "error", err)
		case <-timer.C:
			if len(pending) == 0 {
				continue
			}
			paths := make([]string, 0, len(pending))
			for p := range pending {
				paths = append(paths, p)
			}
			sort.Strings(paths)
			clear(pending)
			onChange(paths)
		}
	}
}
