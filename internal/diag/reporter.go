package diag

import "nsguard/internal/source"

// Reporter receives diagnostics from a pass.
// Implementations: BagReporter, DedupReporter, NopReporter.
type Reporter interface {
	Report(d Diagnostic)
}

// ReportBuilder accumulates diagnostic details before emitting to Reporter.
type ReportBuilder struct {
	reporter Reporter
	diag     Diagnostic
	emitted  bool
}

// NewReportBuilder constructs a builder bound to r with the code's default severity.
func NewReportBuilder(r Reporter, code Code, primary source.Span, msg string) *ReportBuilder {
	return &ReportBuilder{
		reporter: r,
		diag:     New(code.DefaultSeverity(), code, primary, msg),
	}
}

// WithSeverity overrides the default severity.
func (b *ReportBuilder) WithSeverity(sev Severity) *ReportBuilder {
	if b == nil {
		return nil
	}
	b.diag.Severity = sev
	return b
}

func (b *ReportBuilder) WithDetail(detail string) *ReportBuilder {
	if b == nil {
		return nil
	}
	b.diag.Detail = detail
	return b
}

func (b *ReportBuilder) WithNote(sp source.Span, msg string) *ReportBuilder {
	if b == nil {
		return nil
	}
	b.diag = b.diag.WithNote(sp, msg)
	return b
}

func (b *ReportBuilder) WithFix(fix FixDatum) *ReportBuilder {
	if b == nil {
		return nil
	}
	b.diag.Fix = fix
	return b
}

// Emit sends the diagnostic exactly once.
func (b *ReportBuilder) Emit() {
	if b == nil || b.emitted {
		return
	}
	if b.reporter != nil {
		b.reporter.Report(b.diag)
	}
	b.emitted = true
}

// Diagnostic returns the accumulated diagnostic without emitting.
func (b *ReportBuilder) Diagnostic() Diagnostic {
	if b == nil {
		return Diagnostic{}
	}
	return b.diag
}

// BagReporter writes into a Bag.
type BagReporter struct{ Bag *Bag }

func (r BagReporter) Report(d Diagnostic) {
	if r.Bag == nil {
		return
	}
	r.Bag.Add(d)
}

// NopReporter drops everything.
type NopReporter struct{}

func (NopReporter) Report(Diagnostic) {}
