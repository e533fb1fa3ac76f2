package fix

import (
	"fmt"
	"sort"

	"nsguard/internal/diag"
	"nsguard/internal/refactor"
)

// ApplyEdits applies edits computed against content and returns the new
// text. Edits are applied from the end of the buffer backwards; for equal
// starts the longer edit goes first so an insertion lands before the text
// replacing the range it touches.
func ApplyEdits(content []byte, edits []diag.TextEdit) ([]byte, error) {
	if err := refactor.CheckOverlap(edits); err != nil {
		return nil, err
	}
	sorted := make([]diag.TextEdit, len(edits))
	copy(sorted, edits)
	sortDescending(sorted)

	working := append([]byte(nil), content...)
	for _, edit := range sorted {
		start, end := int(edit.Span.Start), int(edit.Span.End)
		if start < 0 || end < start || end > len(working) {
			return nil, fmt.Errorf("edit span %s out of range", edit.Span)
		}
		suffix := append([]byte(nil), working[end:]...)
		working = append(append(working[:start], edit.NewText...), suffix...)
	}
	return working, nil
}

func sortDescending(edits []diag.TextEdit) {
	sort.SliceStable(edits, func(i, j int) bool {
		if edits[i].Span.Start == edits[j].Span.Start {
			return edits[i].Span.End > edits[j].Span.End
		}
		return edits[i].Span.Start > edits[j].Span.Start
	})
}
