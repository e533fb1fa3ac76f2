// Package refactor turns namespace diagnostics into text edits.
package refactor

import (
	"errors"
	"fmt"
	"log/slog"

	"nsguard/internal/diag"
	"nsguard/internal/erc7201"
	"nsguard/internal/parser"
	"nsguard/internal/source"
)

// Snapshot is the text a fix is computed against, with the parser options
// resolved for its language version.
type Snapshot struct {
	File   *source.File
	Parser parser.Options
}

type Engine struct {
	// Prefix names new namespaces.
	Prefix string
	Logger *slog.Logger // may be nil
}

// Result is the outcome for one diagnostic of a batch.
type Result struct {
	Diagnostic diag.Diagnostic
	Action     *Action
	Err        error
}

func (e *Engine) logger() *slog.Logger {
	if e.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return e.Logger
}

func (e *Engine) prefix() string {
	if e.Prefix == "" {
		return erc7201.DefaultPrefix
	}
	return e.Prefix
}

// Fix computes the action repairing d against snap.
func (e *Engine) Fix(snap Snapshot, d diag.Diagnostic) (Action, error) {
	switch f := d.Fix.(type) {
	case diag.Replacement:
		edits := []diag.TextEdit{{Span: d.Primary, NewText: f.Text}}
		return Compose(titleFor(d, f.Text), d, edits), nil
	case diag.MoveToNamespace:
		return e.moveToNamespace(snap, d, f)
	}
	return Action{}, ErrNothingToDo
}

// FixAll computes actions for every diagnostic. A failure or panic for one
// diagnostic is logged and recorded in its Result; the rest still run.
func (e *Engine) FixAll(snap Snapshot, diags []diag.Diagnostic) []Result {
	out := make([]Result, 0, len(diags))
	for _, d := range diags {
		a, err := e.safeFix(snap, d)
		if err != nil {
			if !errors.Is(err, ErrNothingToDo) {
				e.logger().Warn("fix computation failed", "code", d.Code.ID(), "offset", d.Primary.Start, "error", err)
			}
			out = append(out, Result{Diagnostic: d, Err: err})
			continue
		}
		out = append(out, Result{Diagnostic: d, Action: &a})
	}
	return out
}

// Actions returns only the successful actions of FixAll.
func (e *Engine) Actions(snap Snapshot, diags []diag.Diagnostic) []Action {
	var out []Action
	for _, r := range e.FixAll(snap, diags) {
		if r.Action != nil {
			out = append(out, *r.Action)
		}
	}
	return out
}

func (e *Engine) safeFix(snap Snapshot, d diag.Diagnostic) (a Action, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic computing fix for %s: %v", d.Code.ID(), r)
		}
	}()
	return e.Fix(snap, d)
}
