package diag

import (
	"nsguard/internal/scan"
	"nsguard/internal/source"
)

type Note struct {
	Span source.Span
	Msg  string
}

// TextEdit replaces Span with NewText. An empty span is an insertion.
type TextEdit struct {
	Span    source.Span
	NewText string
}

// FixDatum is the kind-specific payload of a diagnostic. The set of
// implementations is closed: Replacement and MoveToNamespace.
type FixDatum interface {
	isFixDatum()
}

// Replacement replaces the diagnostic's primary span with Text.
type Replacement struct {
	Text string
}

// MoveToNamespace moves Variables of ContractName into its namespace struct.
type MoveToNamespace struct {
	ContractName string
	Variables    []scan.Variable
}

func (Replacement) isFixDatum()     {}
func (MoveToNamespace) isFixDatum() {}

type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Detail   string
	Primary  source.Span
	Notes    []Note
	Fix      FixDatum
}

func New(sev Severity, code Code, primary source.Span, msg string) Diagnostic {
	return Diagnostic{
		Severity: sev,
		Code:     code,
		Primary:  primary,
		Message:  msg,
	}
}

func (d Diagnostic) WithNote(sp source.Span, msg string) Diagnostic {
	d.Notes = append(d.Notes, Note{Span: sp, Msg: msg})
	return d
}

func (d Diagnostic) WithDetail(detail string) Diagnostic {
	d.Detail = detail
	return d
}

func (d Diagnostic) WithFix(fix FixDatum) Diagnostic {
	d.Fix = fix
	return d
}
