// Package diag defines the diagnostic model shared by every lint rule.
//
// # Data model
//
// Diagnostic is the central record:
//
//   - Severity: Info, Warning or Error. Rules carry a default that the
//     configuration may override per rule name.
//   - Code: compact numeric identifier with a stable string form (MAC1001 ...).
//   - Rule: the configuration name of the rule that produced it.
//   - Message: short human oriented text.
//   - Primary: the source.Span the finding points at; Pos is its 1-based
//     line/column as tracked by the producer.
//   - Notes and Fixes: optional context and structured text edits.
//
// # Emitting diagnostics
//
// Producers use a Reporter so emission is decoupled from storage. BagReporter
// appends into a Bag, DedupReporter drops exact repeats. ReportBuilder chains
// notes and fixes before Emit.
//
// Package diag does no formatting or IO; rendering lives in internal/diagfmt
// and applying fixes in internal/fix.
package diag
