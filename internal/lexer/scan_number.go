package lexer

import (
	"nsguard/internal/token"
)

// scanNumber handles 123, 1_000, 0x1F, 1.5, .5, 2e18 and 1e-3.
func (lx *Lexer) scanNumber() token.Token {
	start := lx.cursor.Mark()

	if lx.cursor.HasPrefix("0x") || lx.cursor.HasPrefix("0X") {
		lx.cursor.Skip(2)
		for !lx.cursor.EOF() && (isHex(lx.cursor.Peek()) || lx.cursor.Peek() == '_') {
			lx.cursor.Bump()
		}
		return lx.emit(token.NumberLit, start)
	}

	lx.eatDigits()
	if lx.cursor.Peek() == '.' && lx.isNumberAfterDot() {
		lx.cursor.Bump()
		lx.eatDigits()
	}
	if b := lx.cursor.Peek(); b == 'e' || b == 'E' {
		mark := lx.cursor.Mark()
		lx.cursor.Bump()
		lx.cursor.Eat('-')
		if isDec(lx.cursor.Peek()) {
			lx.eatDigits()
		} else {
			lx.cursor.Reset(mark)
		}
	}
	return lx.emit(token.NumberLit, start)
}

func (lx *Lexer) eatDigits() {
	for !lx.cursor.EOF() && (isDec(lx.cursor.Peek()) || lx.cursor.Peek() == '_') {
		lx.cursor.Bump()
	}
}

func (lx *Lexer) isNumberAfterDot() bool {
	return lx.cursor.Peek() == '.' && isDec(lx.cursor.At(1))
}

func isDec(b byte) bool { return b >= '0' && b <= '9' }

func isHex(b byte) bool {
	return isDec(b) || (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F')
}
