// Package validate compares scanned namespace facts against their
// canonical ERC-7201 values.
package validate

import (
	"fmt"
	"sort"
	"strings"

	"nsguard/internal/diag"
	"nsguard/internal/erc7201"
	"nsguard/internal/scan"
)

type Options struct {
	// Prefix names new namespaces when a contract declares no id of its own.
	Prefix string
}

// File reports drift for every contract. Diagnostics of one contract are
// emitted in source order.
func File(contracts []scan.Contract, opts Options, r diag.Reporter) {
	if opts.Prefix == "" {
		opts.Prefix = erc7201.DefaultPrefix
	}
	for i := range contracts {
		for _, d := range Contract(&contracts[i], opts) {
			r.Report(d)
		}
	}
}

// Contract evaluates one contract. Each check is independent, so several
// diagnostics may fire together.
func Contract(c *scan.Contract, opts Options) []diag.Diagnostic {
	canonical := c.Canonical(opts.Prefix)
	var out []diag.Diagnostic
	add := func(b *diag.ReportBuilder) { out = append(out, b.Diagnostic()) }

	if len(c.Vars) > 0 && c.Namespace == nil {
		names := make([]string, 0, len(c.Vars))
		for _, v := range c.Vars {
			names = append(names, v.Name)
		}
		add(diag.NewReportBuilder(nil, diag.NsCanBeNamespaced, c.NameSpan,
			fmt.Sprintf("contract %s can store its state in namespace %s", c.Name, canonical)).
			WithDetail("variables: " + strings.Join(names, ", ")).
			WithFix(diag.MoveToNamespace{ContractName: c.Name, Variables: c.Vars}))
	}

	if c.Tagged != nil && c.Tagged.ID != canonical {
		add(diag.NewReportBuilder(nil, diag.NsIDMismatch, c.Tagged.Span,
			fmt.Sprintf("namespace id %q does not match contract %s", c.Tagged.ID, c.Name)).
			WithDetail("expected " + canonical).
			WithFix(diag.Replacement{Text: canonical}))
	}

	for _, k := range c.Constants {
		if k.Paired {
			if k.CommentID != "" && k.CommentID != canonical {
				add(diag.NewReportBuilder(nil, diag.NsIDMismatchHashComment, k.CommentIDSpan,
					fmt.Sprintf("slot derivation comment uses %q instead of %q", k.CommentID, canonical)).
					WithFix(diag.Replacement{Text: canonical}))
			}
			want := erc7201.SlotHash(c.Tagged.ID)
			if !erc7201.EqualHash(k.Literal, want) {
				add(diag.NewReportBuilder(nil, diag.NsHashMismatch, k.LiteralSpan,
					fmt.Sprintf("slot %s is not the ERC-7201 slot of %q", k.Name, c.Tagged.ID)).
					WithDetail("expected " + want).
					WithFix(diag.Replacement{Text: want}))
			}
			continue
		}
		want := erc7201.SlotHash(k.CommentID)
		if !erc7201.EqualHash(k.Literal, want) {
			add(diag.NewReportBuilder(nil, diag.NsStandaloneHashMismatch, k.LiteralSpan,
				fmt.Sprintf("slot %s does not match its derivation comment %q", k.Name, k.CommentID)).
				WithDetail("expected " + want).
				WithFix(diag.Replacement{Text: want}))
		}
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Primary.Start < out[j].Primary.Start })
	return out
}
