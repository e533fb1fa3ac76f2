package lexer

import (
	"nsguard/internal/token"
)

// collectLeadingTrivia gathers whitespace and comments before a token.
// Runs of spaces/tabs and runs of newlines ('\r' included) coalesce.
// Solidity block comments do not nest.
func (lx *Lexer) collectLeadingTrivia() {
	for !lx.cursor.EOF() {
		start := lx.cursor.Mark()
		b := lx.cursor.Peek()

		if b == ' ' || b == '\t' || b == '\f' || b == '\v' {
			for {
				b2 := lx.cursor.Peek()
				if b2 != ' ' && b2 != '\t' && b2 != '\f' && b2 != '\v' {
					break
				}
				lx.cursor.Bump()
			}
			lx.pushTrivia(token.TriviaSpace, start)
			continue
		}

		if b == '\n' || b == '\r' {
			for lx.cursor.Peek() == '\n' || lx.cursor.Peek() == '\r' {
				lx.cursor.Bump()
			}
			lx.pushTrivia(token.TriviaNewline, start)
			continue
		}

		if b == '/' && lx.scanCommentIntoHold() {
			continue
		}
		break
	}
}

func (lx *Lexer) pushTrivia(kind token.TriviaKind, start Mark) {
	sp := lx.cursor.SpanFrom(start)
	lx.hold = append(lx.hold, token.Trivia{Kind: kind, Span: sp, Text: lx.text(sp)})
}

// scanCommentIntoHold handles //, ///, /* */ and /** */.
func (lx *Lexer) scanCommentIntoHold() bool {
	b1 := lx.cursor.At(1)
	if lx.cursor.Peek() != '/' || (b1 != '/' && b1 != '*') {
		return false
	}
	start := lx.cursor.Mark()
	lx.cursor.Bump()
	lx.cursor.Bump()

	if b1 == '/' {
		kind := token.TriviaLineComment
		if lx.cursor.Peek() == '/' {
			lx.cursor.Bump()
			kind = token.TriviaDocLine
			// "////" is a plain comment
			if lx.cursor.Peek() == '/' {
				kind = token.TriviaLineComment
			}
		}
		for !lx.cursor.EOF() && lx.cursor.Peek() != '\n' && lx.cursor.Peek() != '\r' {
			lx.cursor.Bump()
		}
		lx.pushTrivia(kind, start)
		return true
	}

	kind := token.TriviaBlockComment
	if lx.cursor.Peek() == '*' && lx.cursor.At(1) != '/' && lx.cursor.At(1) != 0 {
		kind = token.TriviaDocBlock
	}
	for !lx.cursor.EOF() {
		if lx.cursor.HasPrefix("*/") {
			lx.cursor.Skip(2)
			lx.pushTrivia(kind, start)
			return true
		}
		lx.cursor.Bump()
	}
	lx.pushTrivia(kind, start)
	lx.report("unterminated-comment", lx.cursor.SpanFrom(start), "unterminated block comment")
	return true
}
