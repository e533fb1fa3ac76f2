package parser

import (
	"nsguard/internal/ast"
	"nsguard/internal/lexer"
	"nsguard/internal/source"
	"nsguard/internal/token"
)

type Options struct {
	// Transient enables the transient keyword (solc >= 0.8.27).
	Transient bool
	// MaxErrors caps Result.Errors; zero means unlimited.
	MaxErrors int
}

// Error is a syntax problem. Errors never abort parsing; the enclosing
// contract is marked Broken instead.
type Error struct {
	Kind    string
	Span    source.Span
	Message string
}

type Result struct {
	Tree   *ast.Tree
	Errors []Error
}

// Parser is the per-file parser state. The whole token stream is lexed up
// front so lookahead is plain indexing.
type Parser struct {
	file *source.File
	toks []token.Token
	pos  int
	opts Options
	errs []Error
}

// lexErrors adapts lexer reports into parser errors.
type lexErrors struct{ p *Parser }

func (r lexErrors) Report(kind string, sp source.Span, msg string) {
	r.p.report(kind, sp, msg)
}

// ParseFile parses one file snapshot into a structural tree.
func ParseFile(file *source.File, opts Options) Result {
	p := &Parser{file: file, opts: opts}
	p.toks = lexer.New(file, lexer.Options{Reporter: lexErrors{p}, Transient: opts.Transient}).All()

	root := &ast.Node{
		Kind:  ast.KindSourceUnit,
		Span:  source.Span{File: file.ID, Start: 0, End: p.toks[len(p.toks)-1].Span.End},
		First: 0,
		Last:  len(p.toks),
	}
	root.Children = p.parseItems(len(p.toks)-1, true)

	return Result{
		Tree:   ast.NewTree(file, p.toks, root),
		Errors: p.errs,
	}
}

// parseItems parses declarations until token index end.
func (p *Parser) parseItems(end int, top bool) []*ast.Node {
	var items []*ast.Node
	for p.pos < end && !p.at(token.EOF) {
		before := p.pos
		if n := p.parseItem(end, top); n != nil {
			items = append(items, n)
		}
		if p.pos == before {
			p.advance()
		}
	}
	return items
}

func (p *Parser) parseItem(end int, top bool) *ast.Node {
	switch p.cur().Kind {
	case token.Semicolon:
		p.advance()
		return nil
	case token.KwPragma:
		return p.parseDirective(ast.KindPragma, end)
	case token.KwImport:
		return p.parseDirective(ast.KindImport, end)
	case token.KwAbstract, token.KwContract, token.KwLibrary, token.KwInterface:
		if top {
			return p.parseContract()
		}
	case token.KwStruct:
		return p.parseStruct(end)
	case token.KwFunction, token.KwConstructor, token.KwModifier, token.KwFallback, token.KwReceive:
		return p.parseFunction(end)
	case token.KwEnum:
		return p.parseEnum(end)
	case token.KwEvent:
		return p.parseSimple(ast.KindEvent, end)
	case token.KwError:
		return p.parseSimple(ast.KindError, end)
	case token.KwUsing:
		return p.parseSimple(ast.KindUsing, end)
	case token.KwType:
		return p.parseSimple(ast.KindOther, end)
	case token.RBrace:
		p.errorf("unexpected-token", p.cur().Span, "unexpected '}'")
		p.advance()
		return nil
	}
	return p.parseStateVar(end)
}

// parseDirective handles pragma and import; Text is the source between the
// keyword and the terminating ';'.
func (p *Parser) parseDirective(kind ast.Kind, end int) *ast.Node {
	n := p.parseSimple(kind, end)
	inner := n.First + 1
	last := n.Last
	if last > inner && p.toks[last-1].Kind == token.Semicolon {
		last--
	}
	if last > inner {
		n.Text = p.file.Text(p.span(inner, last))
	}
	return n
}

// parseSimple skips one statement-like declaration up to and including ';'.
func (p *Parser) parseSimple(kind ast.Kind, end int) *ast.Node {
	first := p.pos
	n := &ast.Node{Kind: kind, First: first, Leading: p.cur().Leading}
	p.advance()
	if kind != ast.KindOther && kind != ast.KindPragma && kind != ast.KindImport && p.at(token.Ident) {
		n.Name = p.cur().Text
		n.NameSpan = p.cur().Span
	}
	p.skipStatement(end)
	n.Last = p.pos
	n.Span = p.span(first, p.pos)
	return n
}

func (p *Parser) report(kind string, sp source.Span, msg string) {
	if p.opts.MaxErrors > 0 && len(p.errs) >= p.opts.MaxErrors {
		return
	}
	p.errs = append(p.errs, Error{Kind: kind, Span: sp, Message: msg})
}

func (p *Parser) errorf(kind string, sp source.Span, msg string) {
	p.report(kind, sp, msg)
}
