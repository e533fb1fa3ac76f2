package lsp

import (
	"encoding/json"
	"slices"
	"strings"

	"nsguard/internal/diag"
	"nsguard/internal/refactor"
	"nsguard/internal/source"
)

func (s *Server) handleCodeAction(msg *rpcMessage) error {
	var params codeActionParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return s.sendError(msg.ID, codeInvalidParams, "invalid params")
	}
	uri := canonicalURI(params.TextDocument.URI)
	report := s.analyze(uri)
	if report == nil {
		return s.sendResponse(msg.ID, []codeAction{})
	}

	s.mu.Lock()
	engine := refactor.Engine{Prefix: s.prefix, Logger: s.logger}
	s.mu.Unlock()

	file := report.File
	want := spanForRange(file, params.Range)
	snap := report.Snapshot()
	var matching []diag.Diagnostic
	for _, d := range report.Diagnostics {
		if d.Fix != nil && touches(d.Primary, want) {
			matching = append(matching, d)
		}
	}
	actions := make([]codeAction, 0, len(matching))
	for _, r := range engine.FixAll(snap, matching) {
		if r.Err != nil {
			continue
		}
		a, d := r.Action, r.Diagnostic
		if !kindAllowed(params.Context.Only, string(a.Kind)) {
			continue
		}
		edits := make([]textEdit, 0, len(a.Edits))
		for _, e := range a.Edits {
			edits = append(edits, textEdit{Range: rangeForSpan(file, e.Span), NewText: e.NewText})
		}
		actions = append(actions, codeAction{
			Title:       a.Title,
			Kind:        string(a.Kind),
			Diagnostics: []lspDiagnostic{toLSPDiagnostic(file, &d)},
			IsPreferred: a.Kind == refactor.KindQuickFix,
			Edit:        &workspaceEdit{Changes: map[string][]textEdit{params.TextDocument.URI: edits}},
		})
	}
	return s.sendResponse(msg.ID, actions)
}

// touches treats a range that ends where a diagnostic starts, or starts where
// it ends, as a hit.
func touches(a, b source.Span) bool {
	return a.Start <= b.End && b.Start <= a.End
}

// kindAllowed follows the LSP rule that "refactor" admits "refactor.rewrite".
func kindAllowed(only []string, kind string) bool {
	if len(only) == 0 {
		return true
	}
	return slices.ContainsFunc(only, func(o string) bool {
		return kind == o || strings.HasPrefix(kind, o+".")
	})
}
