package refactor

import (
	"fmt"
	"sort"

	"nsguard/internal/diag"
)

// ActionKind mirrors editor code-action kinds.
type ActionKind string

const (
	KindQuickFix ActionKind = "quickfix"
	KindRefactor ActionKind = "refactor.rewrite"
)

// Action is one atomic set of edits repairing one diagnostic. Edits are
// computed against a single snapshot and sorted by start offset.
type Action struct {
	Title      string
	Kind       ActionKind
	Diagnostic diag.Diagnostic
	Edits      []diag.TextEdit
}

// Compose packages edits and a title into an Action.
func Compose(title string, d diag.Diagnostic, edits []diag.TextEdit) Action {
	sorted := make([]diag.TextEdit, len(edits))
	copy(sorted, edits)
	SortEdits(sorted)
	kind := KindQuickFix
	if d.Code == diag.NsCanBeNamespaced {
		kind = KindRefactor
	}
	return Action{Title: title, Kind: kind, Diagnostic: d, Edits: sorted}
}

// SortEdits orders by start, then end.
func SortEdits(edits []diag.TextEdit) {
	sort.SliceStable(edits, func(i, j int) bool {
		if edits[i].Span.Start != edits[j].Span.Start {
			return edits[i].Span.Start < edits[j].Span.Start
		}
		return edits[i].Span.End < edits[j].Span.End
	})
}

// CheckOverlap reports the first pair of intersecting edits. An insertion
// touching either end of a replaced range is not an overlap.
func CheckOverlap(edits []diag.TextEdit) error {
	sorted := make([]diag.TextEdit, len(edits))
	copy(sorted, edits)
	SortEdits(sorted)
	var last *diag.TextEdit // last replacement seen
	for i := range sorted {
		cur := &sorted[i]
		if last != nil && cur.Span.Start < last.Span.End && (cur.Span.Start > last.Span.Start || !cur.Span.Empty()) {
			return fmt.Errorf("%w: %s and %s", ErrOverlap, last.Span, cur.Span)
		}
		if !cur.Span.Empty() && (last == nil || cur.Span.End > last.Span.End) {
			last = cur
		}
	}
	return nil
}

func titleFor(d diag.Diagnostic, text string) string {
	switch d.Code {
	case diag.NsIDMismatch, diag.NsIDMismatchHashComment:
		return fmt.Sprintf("Replace namespace id with %q", text)
	case diag.NsHashMismatch, diag.NsStandaloneHashMismatch:
		return "Replace slot with " + text
	}
	return "Replace with " + text
}
