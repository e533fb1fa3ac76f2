package lexer_test

import (
	"testing"

	"nsguard/internal/lexer"
	"nsguard/internal/source"
	"nsguard/internal/token"
)

type testReporter struct {
	kinds []string
}

func (r *testReporter) Report(kind string, _ source.Span, _ string) {
	r.kinds = append(r.kinds, kind)
}

func makeTestLexer(input string, transient bool) (*lexer.Lexer, *testReporter) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.sol", []byte(input))
	rep := &testReporter{}
	return lexer.New(fs.Get(id), lexer.Options{Reporter: rep, Transient: transient}), rep
}

func kinds(toks []token.Token) []token.Kind {
	out := make([]token.Kind, 0, len(toks))
	for _, t := range toks {
		out = append(out, t.Kind)
	}
	return out
}

func TestLexStateVariable(t *testing.T) {
	lx, rep := makeTestLexer("uint256 public x = 0x1F;", false)
	toks := lx.All()
	want := []token.Kind{token.Ident, token.KwPublic, token.Ident, token.Assign, token.NumberLit, token.Semicolon, token.EOF}
	got := kinds(toks)
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("token %d: got %v, want %v", i, got[i], want[i])
		}
	}
	if toks[4].Text != "0x1F" {
		t.Errorf("number text = %q", toks[4].Text)
	}
	if len(rep.kinds) != 0 {
		t.Errorf("unexpected reports: %v", rep.kinds)
	}
}

func TestLeadingTriviaCarriesComments(t *testing.T) {
	src := "/// @custom:storage-location erc7201:a.storage.B\n// plain\nstruct S {}"
	lx, _ := makeTestLexer(src, false)
	tok := lx.Next()
	if tok.Kind != token.KwStruct {
		t.Fatalf("first token = %v, want struct", tok.Kind)
	}
	var comments []token.Trivia
	for _, tr := range tok.Leading {
		if tr.IsComment() {
			comments = append(comments, tr)
		}
	}
	if len(comments) != 2 {
		t.Fatalf("got %d comments, want 2", len(comments))
	}
	if comments[0].Kind != token.TriviaDocLine {
		t.Errorf("first comment kind = %v, want doc line", comments[0].Kind)
	}
	if comments[1].Kind != token.TriviaLineComment || comments[1].Text != "// plain" {
		t.Errorf("second comment = %+v", comments[1])
	}
	if got := src[comments[0].Span.Start:comments[0].Span.End]; got != comments[0].Text {
		t.Errorf("span text %q != %q", got, comments[0].Text)
	}
}

func TestBlockCommentsAndCRLF(t *testing.T) {
	lx, rep := makeTestLexer("/** doc */\r\n/* c */ x", false)
	tok := lx.Next()
	if tok.Kind != token.Ident || tok.Text != "x" {
		t.Fatalf("got %v %q", tok.Kind, tok.Text)
	}
	var gotKinds []token.TriviaKind
	for _, tr := range tok.Leading {
		gotKinds = append(gotKinds, tr.Kind)
	}
	want := []token.TriviaKind{token.TriviaDocBlock, token.TriviaNewline, token.TriviaBlockComment, token.TriviaSpace}
	if len(gotKinds) != len(want) {
		t.Fatalf("trivia kinds = %v, want %v", gotKinds, want)
	}
	for i := range want {
		if gotKinds[i] != want[i] {
			t.Fatalf("trivia %d = %v, want %v", i, gotKinds[i], want[i])
		}
	}
	if len(rep.kinds) != 0 {
		t.Errorf("unexpected reports: %v", rep.kinds)
	}
}

func TestOperatorsLongestMatch(t *testing.T) {
	lx, _ := makeTestLexer("x += 1; y >>= 2; m => v; a ** b", false)
	var ops []string
	for _, tok := range lx.All() {
		if tok.Kind == token.Op || tok.Kind == token.Arrow {
			ops = append(ops, tok.Text)
		}
	}
	want := []string{"+=", ">>=", "=>", "**"}
	if len(ops) != len(want) {
		t.Fatalf("ops = %v, want %v", ops, want)
	}
	for i := range want {
		if ops[i] != want[i] {
			t.Errorf("op %d = %q, want %q", i, ops[i], want[i])
		}
	}
}

func TestNumbers(t *testing.T) {
	for _, in := range []string{"1", "1_000", "0xdead_beef", "1.5", ".5", "2e18", "1e-3"} {
		lx, _ := makeTestLexer(in, false)
		tok := lx.Next()
		if tok.Kind != token.NumberLit || tok.Text != in {
			t.Errorf("lex %q = %v %q", in, tok.Kind, tok.Text)
		}
	}
}

func TestStringsAndErrors(t *testing.T) {
	lx, rep := makeTestLexer(`"a\"b" 'c'`, false)
	toks := lx.All()
	if toks[0].Kind != token.StringLit || toks[0].Text != `"a\"b"` {
		t.Errorf("first string = %v %q", toks[0].Kind, toks[0].Text)
	}
	if toks[1].Kind != token.StringLit || toks[1].Text != `'c'` {
		t.Errorf("second string = %v %q", toks[1].Kind, toks[1].Text)
	}
	if len(rep.kinds) != 0 {
		t.Errorf("unexpected reports: %v", rep.kinds)
	}

	lx, rep = makeTestLexer("\"open\nx", false)
	if tok := lx.Next(); tok.Kind != token.Invalid {
		t.Errorf("unterminated string kind = %v", tok.Kind)
	}
	if len(rep.kinds) != 1 || rep.kinds[0] != "unterminated-string" {
		t.Errorf("reports = %v", rep.kinds)
	}
}

func TestTransientKeywordGate(t *testing.T) {
	lx, _ := makeTestLexer("transient", false)
	if tok := lx.Next(); tok.Kind != token.Ident {
		t.Errorf("without gate: %v", tok.Kind)
	}
	lx, _ = makeTestLexer("transient", true)
	if tok := lx.Next(); tok.Kind != token.KwTransient {
		t.Errorf("with gate: %v", tok.Kind)
	}
}

func TestPeekDoesNotConsume(t *testing.T) {
	lx, _ := makeTestLexer("a b", false)
	if p := lx.Peek(); p.Text != "a" {
		t.Fatalf("peek = %q", p.Text)
	}
	if n := lx.Next(); n.Text != "a" {
		t.Fatalf("next = %q", n.Text)
	}
	if n := lx.Next(); n.Text != "b" {
		t.Fatalf("next = %q", n.Text)
	}
	if n := lx.Next(); n.Kind != token.EOF {
		t.Fatalf("next = %v", n.Kind)
	}
	if n := lx.Next(); n.Kind != token.EOF {
		t.Fatalf("after EOF = %v", n.Kind)
	}
}
