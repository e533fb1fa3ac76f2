package token

import (
	"nsguard/internal/source"
)

// Token represents a single source token with its location and trivia.
type Token struct {
	Kind    Kind
	Span    source.Span
	Text    string
	Leading []Trivia
}

// IsKeyword reports whether the token is a language keyword.
func (t Token) IsKeyword() bool {
	return t.Kind >= KwPragma && t.Kind <= KwEmit
}

// IsIdent reports whether the token is an identifier.
func (t Token) IsIdent() bool { return t.Kind == Ident }

// IsVisibility reports whether the token is a visibility specifier.
func (t Token) IsVisibility() bool {
	switch t.Kind {
	case KwPublic, KwPrivate, KwInternal, KwExternal:
		return true
	}
	return false
}

// IsDataLocation reports whether the token is storage, memory or calldata.
func (t Token) IsDataLocation() bool {
	switch t.Kind {
	case KwStorage, KwMemory, KwCalldata:
		return true
	}
	return false
}

// Comments returns the comment trivia attached in front of the token.
func (t Token) Comments() []Trivia {
	var out []Trivia
	for _, tr := range t.Leading {
		if tr.IsComment() {
			out = append(out, tr)
		}
	}
	return out
}
