package fix

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"nsguard/internal/diag"
	"nsguard/internal/refactor"
	"nsguard/internal/source"
)

func span(file source.FileID, start, end uint32) source.Span {
	return source.Span{File: file, Start: start, End: end}
}

func replaceAction(file source.FileID, start, end uint32, text string) refactor.Action {
	d := diag.New(diag.SevWarning, diag.NsIDMismatch, span(file, start, end), "id mismatch").
		WithFix(diag.Replacement{Text: text})
	return refactor.Compose("Replace", d, []diag.TextEdit{{Span: d.Primary, NewText: text}})
}

func TestApplyEditsInsertBeforeReplacement(t *testing.T) {
	content := []byte("uint256 x;")
	edits := []diag.TextEdit{
		{Span: span(0, 0, 7), NewText: "uint128"},
		{Span: span(0, 0, 0), NewText: "// moved\n"},
		{Span: span(0, 10, 10), NewText: " uint8 y;"},
	}
	got, err := ApplyEdits(content, edits)
	if err != nil {
		t.Fatalf("ApplyEdits: %v", err)
	}
	want := "// moved\nuint128 x; uint8 y;"
	if diff := cmp.Diff(want, string(got)); diff != "" {
		t.Fatalf("content mismatch (-want +got):\n%s", diff)
	}
}

func TestApplyEditsRejectsOverlap(t *testing.T) {
	edits := []diag.TextEdit{
		{Span: span(0, 0, 5), NewText: "a"},
		{Span: span(0, 3, 3), NewText: "b"},
	}
	if _, err := ApplyEdits([]byte("0123456789"), edits); !errors.Is(err, refactor.ErrOverlap) {
		t.Fatalf("expected ErrOverlap, got %v", err)
	}
}

func TestApplyEditsOutOfRange(t *testing.T) {
	edits := []diag.TextEdit{{Span: span(0, 4, 20), NewText: ""}}
	if _, err := ApplyEdits([]byte("short"), edits); err == nil {
		t.Fatal("expected out of range error")
	}
}

func TestApplyAllShiftsLaterEdits(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("Foo.sol", []byte(`a "x" b "y"`))
	actions := []refactor.Action{
		replaceAction(id, 2, 5, `"longer"`),
		replaceAction(id, 8, 11, `"z"`),
	}

	res, err := Apply(fs, actions, ApplyOptions{Mode: ApplyModeAll})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if len(res.Applied) != 2 {
		t.Fatalf("expected 2 applied fixes, got %+v", res.Applied)
	}
	if len(res.FileChanges) != 1 {
		t.Fatalf("expected one file change, got %d", len(res.FileChanges))
	}
	want := `a "longer" b "z"`
	if diff := cmp.Diff(want, string(res.FileChanges[0].Content)); diff != "" {
		t.Fatalf("content mismatch (-want +got):\n%s", diff)
	}
	if res.FileChanges[0].EditCount != 2 {
		t.Fatalf("expected 2 edits, got %d", res.FileChanges[0].EditCount)
	}
}

func TestApplySkipsConflictingFix(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("Foo.sol", []byte("0123456789"))
	actions := []refactor.Action{
		replaceAction(id, 0, 5, "A"),
		replaceAction(id, 2, 4, "B"),
	}
	res, err := Apply(fs, actions, ApplyOptions{Mode: ApplyModeAll})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if len(res.Applied) != 1 || len(res.Skipped) != 1 {
		t.Fatalf("expected one applied and one skipped, got %+v / %+v", res.Applied, res.Skipped)
	}
	if got := string(res.FileChanges[0].Content); got != "A56789" {
		t.Fatalf("unexpected content %q", got)
	}
}

func TestApplyOnceTakesFirstBySpan(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("Foo.sol", []byte("abcdef"))
	actions := []refactor.Action{
		replaceAction(id, 4, 5, "E"),
		replaceAction(id, 0, 1, "A"),
	}
	res, err := Apply(fs, actions, ApplyOptions{Mode: ApplyModeOnce})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if got := string(res.FileChanges[0].Content); got != "Abcdef" {
		t.Fatalf("unexpected content %q", got)
	}
}

func TestApplyByID(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("Foo.sol", []byte("abcdef"))
	actions := []refactor.Action{
		replaceAction(id, 0, 1, "A"),
		replaceAction(id, 4, 5, "E"),
	}
	target := ActionID(actions[1])
	res, err := Apply(fs, actions, ApplyOptions{Mode: ApplyModeID, TargetID: target})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if got := string(res.FileChanges[0].Content); got != "abcdEf" {
		t.Fatalf("unexpected content %q", got)
	}

	_, err = Apply(fs, actions, ApplyOptions{Mode: ApplyModeID, TargetID: "missing"})
	if !errors.Is(err, ErrNoFixes) {
		t.Fatalf("expected ErrNoFixes, got %v", err)
	}
}

func TestApplyAllSkipsRefactorsUnlessEnabled(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("Foo.sol", []byte("abc"))
	d := diag.New(diag.SevInfo, diag.NsCanBeNamespaced, span(id, 0, 3), "move")
	move := refactor.Compose("Move", d, []diag.TextEdit{{Span: span(id, 0, 3), NewText: "xyz"}})

	_, err := Apply(fs, []refactor.Action{move}, ApplyOptions{Mode: ApplyModeAll})
	if !errors.Is(err, ErrNoFixes) {
		t.Fatalf("expected ErrNoFixes without refactors, got %v", err)
	}
	res, err := Apply(fs, []refactor.Action{move}, ApplyOptions{Mode: ApplyModeAll, Refactors: true})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if got := string(res.FileChanges[0].Content); got != "xyz" {
		t.Fatalf("unexpected content %q", got)
	}
}

func TestApplyWritesFileAndHonoursDryRun(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "Foo.sol")
	if err := os.WriteFile(path, []byte("abc"), 0o600); err != nil {
		t.Fatal(err)
	}
	fs := source.NewFileSetWithBase(dir)
	id, err := fs.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	actions := []refactor.Action{replaceAction(id, 1, 2, "B")}

	if _, err := Apply(fs, actions, ApplyOptions{Mode: ApplyModeAll, DryRun: true}); err != nil {
		t.Fatalf("dry run: %v", err)
	}
	if data, _ := os.ReadFile(path); string(data) != "abc" {
		t.Fatalf("dry run modified file: %q", data)
	}

	res, err := Apply(fs, actions, ApplyOptions{Mode: ApplyModeAll})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if data, _ := os.ReadFile(path); string(data) != "aBc" {
		t.Fatalf("file not written: %q", data)
	}
	if res.FileChanges[0].Path != "Foo.sol" {
		t.Fatalf("unexpected relative path %q", res.FileChanges[0].Path)
	}
}

func TestApplyEmptyActions(t *testing.T) {
	fs := source.NewFileSet()
	if _, err := Apply(fs, nil, ApplyOptions{Mode: ApplyModeAll}); !errors.Is(err, ErrNoFixes) {
		t.Fatalf("expected ErrNoFixes, got %v", err)
	}
}

func TestSpansConflict(t *testing.T) {
	cases := []struct {
		a, b diag.TextEdit
		want bool
	}{
		{diag.TextEdit{Span: span(0, 1, 1)}, diag.TextEdit{Span: span(0, 1, 1)}, false},
		{diag.TextEdit{Span: span(0, 2, 2)}, diag.TextEdit{Span: span(0, 1, 4)}, true},
		{diag.TextEdit{Span: span(0, 4, 4)}, diag.TextEdit{Span: span(0, 1, 4)}, false},
		{diag.TextEdit{Span: span(0, 0, 3)}, diag.TextEdit{Span: span(0, 3, 5)}, false},
		{diag.TextEdit{Span: span(0, 0, 4)}, diag.TextEdit{Span: span(0, 3, 5)}, true},
	}
	for i, tc := range cases {
		if got := spansConflict(tc.a, tc.b); got != tc.want {
			t.Errorf("case %d: spansConflict = %v, want %v", i, got, tc.want)
		}
	}
}
