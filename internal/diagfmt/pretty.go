package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"nsguard/internal/diag"
	"nsguard/internal/refactor"
	"nsguard/internal/source"
)

type palette struct {
	err, warn, info, note, path, gutter, caret, add, del *color.Color
}

func newPalette(enabled bool) palette {
	mk := func(attrs ...color.Attribute) *color.Color {
		c := color.New(attrs...)
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
		return c
	}
	return palette{
		err:    mk(color.FgRed, color.Bold),
		warn:   mk(color.FgYellow, color.Bold),
		info:   mk(color.FgCyan, color.Bold),
		note:   mk(color.FgBlue),
		path:   mk(color.Bold),
		gutter: mk(color.FgBlue),
		caret:  mk(color.FgGreen, color.Bold),
		add:    mk(color.FgGreen),
		del:    mk(color.FgRed),
	}
}

func (p palette) severity(s diag.Severity) *color.Color {
	switch s {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	default:
		return p.info
	}
}

// Pretty renders diagnostics for humans. For each diagnostic it prints
//
//	<path>:<line>:<col>: <SEV> <NS7204>: <message>
//
// then the source lines with a ^~~~ underline of the primary span, the
// detail, notes and, when requested, the matching fix actions.
// bag is expected to be sorted.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	p := newPalette(opts.Color)
	actions := indexActions(opts.Actions)
	for i, d := range bag.Items() {
		if i > 0 {
			fmt.Fprintln(w)
		}
		prettyOne(w, p, d, fs, opts, actionsFor(actions, d))
	}
}

func prettyOne(w io.Writer, p palette, d diag.Diagnostic, fs *source.FileSet, opts PrettyOpts, actions []refactor.Action) {
	file := fs.Get(d.Primary.File)
	if file == nil {
		fmt.Fprintf(w, "%s %s: %s\n", p.severity(d.Severity).Sprint(d.Severity.String()), d.Code.Number(), d.Message)
		return
	}
	start, end := fs.Resolve(d.Primary)
	fmt.Fprintf(w, "%s: %s %s: %s\n",
		p.path.Sprintf("%s:%d:%d", formatPath(file, fs, opts.PathMode), start.Line, start.Col),
		p.severity(d.Severity).Sprint(d.Severity.String()),
		d.Code.Number(),
		d.Message,
	)
	writeSnippet(w, p, file, start, end, opts.Context)
	if d.Detail != "" {
		fmt.Fprintf(w, "  %s %s\n", p.gutter.Sprint("="), d.Detail)
	}

	if opts.ShowNotes {
		for _, n := range d.Notes {
			nf := fs.Get(n.Span.File)
			if nf == nil {
				continue
			}
			pos, _ := fs.Resolve(n.Span)
			fmt.Fprintf(w, "  %s %s:%d:%d: %s\n", p.note.Sprint("note:"), formatPath(nf, fs, opts.PathMode), pos.Line, pos.Col, n.Msg)
		}
	}

	if opts.ShowFixes {
		for i, a := range actions {
			fmt.Fprintf(w, "  fix #%d: %s (id=%s, kind=%s)\n", i+1, a.Title, actionID(a), a.Kind)
			for _, e := range a.Edits {
				ef := fs.Get(e.Span.File)
				if ef == nil {
					continue
				}
				es, ee := fs.Resolve(e.Span)
				fmt.Fprintf(w, "    edit %s:%d:%d-%d:%d apply=%q\n", formatPath(ef, fs, opts.PathMode), es.Line, es.Col, ee.Line, ee.Col, e.NewText)
				if !opts.ShowPreview {
					continue
				}
				preview, err := buildFixEditPreview(fs, e)
				if err != nil {
					continue
				}
				fmt.Fprintln(w, "      preview:")
				for _, l := range preview.before {
					fmt.Fprintf(w, "        %s\n", p.del.Sprint("- "+l))
				}
				for _, l := range preview.after {
					fmt.Fprintf(w, "        %s\n", p.add.Sprint("+ "+l))
				}
			}
		}
	}
}

// writeSnippet prints the primary lines plus ctx lines around them and an
// underline below the first primary line.
func writeSnippet(w io.Writer, p palette, f *source.File, start, end source.LineCol, ctx int8) {
	if ctx < 0 {
		return
	}
	first := start.Line
	if uint32(ctx) < first {
		first -= uint32(ctx)
	} else {
		first = 1
	}
	last := end.Line + uint32(ctx)
	if n := uint32(len(f.LineIdx)) + 1; last > n {
		last = n
	}
	width := len(fmt.Sprint(last))

	for ln := first; ln <= last; ln++ {
		text := f.GetLine(ln)
		if ln > end.Line && text == "" && ln == last {
			break
		}
		fmt.Fprintf(w, " %s %s %s\n", p.gutter.Sprintf("%*d", width, ln), p.gutter.Sprint("|"), text)
		if ln != start.Line {
			continue
		}
		stop := len(text)
		if end.Line == start.Line {
			stop = min(int(end.Col-1), len(text))
		}
		col := min(int(start.Col-1), len(text))
		fmt.Fprintf(w, " %s %s %s%s\n",
			strings.Repeat(" ", width),
			p.gutter.Sprint("|"),
			padding(text[:col]),
			p.caret.Sprint(underline(text[col:max(col, stop)])),
		)
	}
}

// padding reproduces the display width of prefix, keeping tabs so the
// underline lines up in any tab setting.
func padding(prefix string) string {
	var b strings.Builder
	for _, r := range prefix {
		if r == '\t' {
			b.WriteByte('\t')
			continue
		}
		b.WriteString(strings.Repeat(" ", runewidth.RuneWidth(r)))
	}
	return b.String()
}

func underline(s string) string {
	n := runewidth.StringWidth(s)
	if n <= 1 {
		return "^"
	}
	return "^" + strings.Repeat("~", n-1)
}
