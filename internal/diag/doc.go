// Package diag defines the diagnostic model shared by the validator, the
// refactor engine and every output sink.
//
// # Data model
//
// Diagnostic is the central record:
//
//   - Severity: Info, Warning or Error (severity.go).
//   - Code: compact numeric identifier with a stable string form (codes.go).
//     The string form is what editors and JSON output carry.
//   - Message and an optional Detail.
//   - Primary: the minimal offending span (an id string or a hash literal,
//     never the whole line).
//   - Fix: a FixDatum consumed only by internal/refactor.
//
// FixDatum is a closed union. Replacement carries literal text for the four
// mismatch codes; MoveToNamespace carries the contract name and the free
// variables for contract-can-be-namespaced.
//
// # Emitting diagnostics
//
// Producers emit through a Reporter. BagReporter collects into a Bag, which
// supports limits, sorting and deduplication. ReportBuilder chains optional
// details before Emit.
//
// Package diag performs no formatting or IO. Rendering lives in
// internal/diagfmt; edits are applied by internal/fix.
package diag
