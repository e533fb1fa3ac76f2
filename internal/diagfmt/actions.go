package diagfmt

import (
	"nsguard/internal/diag"
	"nsguard/internal/fix"
	"nsguard/internal/refactor"
	"nsguard/internal/source"
)

type actionKey struct {
	code diag.Code
	span source.Span
}

func indexActions(actions []refactor.Action) map[actionKey][]refactor.Action {
	if len(actions) == 0 {
		return nil
	}
	out := make(map[actionKey][]refactor.Action, len(actions))
	for _, a := range actions {
		k := actionKey{a.Diagnostic.Code, a.Diagnostic.Primary}
		out[k] = append(out[k], a)
	}
	return out
}

func actionsFor(idx map[actionKey][]refactor.Action, d diag.Diagnostic) []refactor.Action {
	return idx[actionKey{d.Code, d.Primary}]
}

func actionID(a refactor.Action) string {
	return fix.ActionID(a)
}
