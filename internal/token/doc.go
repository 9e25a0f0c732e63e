// Package token defines the statement model produced by the lexical scanner.
// Invariants:
//   - Statement.Text is already cleaned: block comments are removed, string
//     contents are elided to the bare quote pair and surrounding whitespace is
//     trimmed. Keywords inside comments or strings can never appear in Text.
//   - Statement.Span covers the raw source bytes of the statement including the
//     terminating ';' (if any); Start/End are the 1-based positions of the first
//     and last significant characters.
//   - Kind is derived from Text only (keyword-prefix match, case-insensitive).
package token
