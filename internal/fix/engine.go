package fix

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"nsguard/internal/diag"
	"nsguard/internal/refactor"
	"nsguard/internal/source"
)

// ErrNoFixes is returned when no fixes were applied.
var ErrNoFixes = errors.New("no applicable fixes found")

// ApplyMode determines selection strategy for fixes.
type ApplyMode uint8

const (
	ApplyModeOnce ApplyMode = iota
	ApplyModeAll
	ApplyModeID
)

// ApplyOptions configures how fixes are selected and written.
type ApplyOptions struct {
	Mode     ApplyMode
	TargetID string
	// Refactors allows the multi-edit namespace move in ApplyModeAll.
	Refactors bool
	// DryRun computes the result without writing files.
	DryRun bool
}

// AppliedFix records a successfully applied fix.
type AppliedFix struct {
	ID          string
	Title       string
	Code        diag.Code
	Message     string
	PrimaryPath string
	EditCount   int
}

// SkippedFix captures a skipped or failed fix with a reason.
type SkippedFix struct {
	ID     string
	Title  string
	Reason string
}

// FileChange summarises modifications performed on a file.
type FileChange struct {
	Path      string
	EditCount int
	// Content is the new file content.
	Content []byte
}

// ApplyResult aggregates applied fixes, skipped ones, and file changes.
type ApplyResult struct {
	Applied     []AppliedFix
	Skipped     []SkippedFix
	FileChanges []FileChange
}

type candidate struct {
	action refactor.Action
	id     string
	order  int
}

// ActionID is the stable identifier used by `fix --id`.
func ActionID(a refactor.Action) string {
	d := a.Diagnostic
	return fmt.Sprintf("%s-%d-%d", d.Code.ID(), d.Primary.File, d.Primary.Start)
}

// Apply selects actions according to opts and applies them to their files.
// Actions for one file must all be computed against the same snapshot.
func Apply(fs *source.FileSet, actions []refactor.Action, opts ApplyOptions) (*ApplyResult, error) {
	result := &ApplyResult{}
	if fs == nil {
		return result, fmt.Errorf("fix: FileSet is nil")
	}

	candidates := make([]candidate, 0, len(actions))
	for i, a := range actions {
		if len(a.Edits) == 0 {
			result.Skipped = append(result.Skipped, SkippedFix{ID: ActionID(a), Title: a.Title, Reason: "fix has no edits"})
			continue
		}
		candidates = append(candidates, candidate{action: a, id: ActionID(a), order: i})
	}
	if len(candidates) == 0 {
		return result, ErrNoFixes
	}
	sortCandidates(candidates)

	selected, skips := selectCandidates(candidates, opts)
	result.Skipped = append(result.Skipped, skips...)
	if len(selected) == 0 {
		return result, ErrNoFixes
	}

	applied, skipped, changes, err := applyCandidates(fs, selected, opts.DryRun)
	result.Applied = append(result.Applied, applied...)
	result.Skipped = append(result.Skipped, skipped...)
	result.FileChanges = append(result.FileChanges, changes...)
	if err != nil {
		return result, err
	}
	if len(result.Applied) == 0 {
		return result, ErrNoFixes
	}
	return result, nil
}

// sortCandidates orders by file, primary span, then input order.
func sortCandidates(candidates []candidate) {
	sort.SliceStable(candidates, func(i, j int) bool {
		di, dj := candidates[i].action.Diagnostic, candidates[j].action.Diagnostic
		if di.Primary.File != dj.Primary.File {
			return di.Primary.File < dj.Primary.File
		}
		if di.Primary.Start != dj.Primary.Start {
			return di.Primary.Start < dj.Primary.Start
		}
		if di.Primary.End != dj.Primary.End {
			return di.Primary.End < dj.Primary.End
		}
		return candidates[i].order < candidates[j].order
	})
}

func selectCandidates(candidates []candidate, opts ApplyOptions) ([]candidate, []SkippedFix) {
	switch opts.Mode {
	case ApplyModeID:
		for _, cand := range candidates {
			if cand.id == opts.TargetID {
				return []candidate{cand}, nil
			}
		}
		return nil, []SkippedFix{{ID: opts.TargetID, Reason: "fix id not found"}}
	case ApplyModeAll:
		selected := make([]candidate, 0, len(candidates))
		var skipped []SkippedFix
		for _, cand := range candidates {
			if cand.action.Kind == refactor.KindQuickFix || opts.Refactors {
				selected = append(selected, cand)
				continue
			}
			skipped = append(skipped, SkippedFix{
				ID:     cand.id,
				Title:  cand.action.Title,
				Reason: "refactor not enabled",
			})
		}
		return selected, skipped
	case ApplyModeOnce:
		return candidates[:1], nil
	default:
		return nil, nil
	}
}

func applyCandidates(fs *source.FileSet, selected []candidate, dryRun bool) ([]AppliedFix, []SkippedFix, []FileChange, error) {
	buffers := make(map[source.FileID][]byte)
	appliedEdits := make(map[source.FileID][]diag.TextEdit)
	fileEditCount := make(map[source.FileID]int)
	var dirty []source.FileID

	applied := make([]AppliedFix, 0, len(selected))
	var skipped []SkippedFix
	baseDir := fs.BaseDir()

	for _, cand := range selected {
		edits := append([]diag.TextEdit(nil), cand.action.Edits...)
		fileID := cand.action.Diagnostic.Primary.File
		file := fs.Get(fileID)
		if file == nil {
			skipped = append(skipped, SkippedFix{ID: cand.id, Title: cand.action.Title, Reason: "unknown file"})
			continue
		}
		if conflictsWithExisting(appliedEdits[fileID], edits) {
			skipped = append(skipped, SkippedFix{
				ID:     cand.id,
				Title:  cand.action.Title,
				Reason: fmt.Sprintf("conflicts with previously applied edits in %s", file.FormatPath("auto", baseDir)),
			})
			continue
		}

		base := buffers[fileID]
		if base == nil {
			base = file.Content
		}
		working, err := applyShifted(base, appliedEdits[fileID], edits)
		if err != nil {
			skipped = append(skipped, SkippedFix{ID: cand.id, Title: cand.action.Title, Reason: err.Error()})
			continue
		}

		if _, seen := buffers[fileID]; !seen {
			dirty = append(dirty, fileID)
		}
		buffers[fileID] = working
		for _, e := range edits {
			appliedEdits[fileID] = insertEditSorted(appliedEdits[fileID], e)
		}
		fileEditCount[fileID] += len(edits)

		applied = append(applied, AppliedFix{
			ID:          cand.id,
			Title:       cand.action.Title,
			Code:        cand.action.Diagnostic.Code,
			Message:     cand.action.Diagnostic.Message,
			PrimaryPath: file.FormatPath("auto", baseDir),
			EditCount:   len(edits),
		})
	}

	fileChanges := make([]FileChange, 0, len(dirty))
	for _, fileID := range dirty {
		buf := buffers[fileID]
		file := fs.Get(fileID)
		if !dryRun && file.Flags&source.FileVirtual == 0 {
			mode := os.FileMode(0o644)
			if info, err := os.Stat(file.Path); err == nil {
				mode = info.Mode()
			}
			if err := os.WriteFile(file.Path, buf, mode); err != nil {
				return applied, skipped, fileChanges, fmt.Errorf("write %s: %w", file.Path, err)
			}
		}
		fileChanges = append(fileChanges, FileChange{
			Path:      file.FormatPath("relative", baseDir),
			EditCount: fileEditCount[fileID],
			Content:   buf,
		})
	}
	sort.SliceStable(fileChanges, func(i, j int) bool {
		return fileChanges[i].Path < fileChanges[j].Path
	})
	return applied, skipped, fileChanges, nil
}

// applyShifted applies edits expressed in original coordinates to a buffer
// that already carries prior edits.
func applyShifted(base []byte, prior, edits []diag.TextEdit) ([]byte, error) {
	if err := refactor.CheckOverlap(edits); err != nil {
		return nil, err
	}
	sorted := append([]diag.TextEdit(nil), edits...)
	sortDescending(sorted)
	working := append([]byte(nil), base...)
	for _, edit := range sorted {
		start := int(edit.Span.Start) + cumulativeDelta(prior, int(edit.Span.Start))
		end := int(edit.Span.End) + cumulativeDelta(prior, int(edit.Span.End))
		if start < 0 || end < start || end > len(working) {
			return nil, errors.New("edit span out of range")
		}
		suffix := append([]byte(nil), working[end:]...)
		working = append(append(working[:start], edit.NewText...), suffix...)
	}
	return working, nil
}

func conflictsWithExisting(existing []diag.TextEdit, edits []diag.TextEdit) bool {
	for _, prev := range existing {
		for _, cand := range edits {
			if spansConflict(prev, cand) {
				return true
			}
		}
	}
	return false
}

// spansConflict reports whether two text edits' spans overlap.
// Spans are half-open intervals [Start, End). Two zero-length edits never
// conflict. A zero-length edit conflicts with a non-zero span if it lies in
// [Start, End).
func spansConflict(a, b diag.TextEdit) bool {
	aStart, aEnd := a.Span.Start, a.Span.End
	bStart, bEnd := b.Span.Start, b.Span.End

	if aStart == aEnd && bStart == bEnd {
		return false
	}
	if aStart == aEnd {
		return bStart <= aStart && aStart < bEnd
	}
	if bStart == bEnd {
		return aStart <= bStart && bStart < aEnd
	}
	return aStart < bEnd && bStart < aEnd
}

// cumulativeDelta is the length change before pos caused by edits already
// applied; edits must be sorted by start.
func cumulativeDelta(edits []diag.TextEdit, pos int) int {
	delta := 0
	for _, e := range edits {
		eStart := int(e.Span.Start)
		if eStart > pos {
			break
		}
		eEnd := int(e.Span.End)
		change := len(e.NewText) - (eEnd - eStart)
		if eEnd <= pos {
			delta += change
		}
	}
	return delta
}

func insertEditSorted(edits []diag.TextEdit, edit diag.TextEdit) []diag.TextEdit {
	insertIdx := sort.Search(len(edits), func(i int) bool {
		if edits[i].Span.Start == edit.Span.Start {
			return edits[i].Span.End >= edit.Span.End
		}
		return edits[i].Span.Start > edit.Span.Start
	})
	edits = append(edits, diag.TextEdit{})
	copy(edits[insertIdx+1:], edits[insertIdx:])
	edits[insertIdx] = edit
	return edits
}
