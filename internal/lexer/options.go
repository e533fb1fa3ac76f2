package lexer

import (
	"nsguard/internal/source"
)

// Reporter receives lexical errors; the lexer keeps going after reporting.
type Reporter interface {
	Report(kind string, span source.Span, msg string)
}

type Options struct {
	Reporter Reporter // may be nil
	// Transient enables the transient data-location keyword (solc >= 0.8.27).
	Transient bool
}

func (lx *Lexer) report(kind string, sp source.Span, msg string) {
	if lx.opts.Reporter != nil {
		lx.opts.Reporter.Report(kind, sp, msg)
	}
}
