package refactor

import "errors"

var (
	// ErrNothingToDo means the diagnostic has no performable fix.
	ErrNothingToDo = errors.New("nothing to do")
	// ErrStaleDiagnostic means the diagnostic no longer matches the text.
	ErrStaleDiagnostic = errors.New("diagnostic is stale")
	// ErrOverlap means computed edits intersect.
	ErrOverlap = errors.New("overlapping edits")
	// ErrInitShadowed means a moved initializer cannot run inside the
	// constructor without changing what one of its names refers to.
	ErrInitShadowed = errors.New("initializer shadowed in constructor")
)
