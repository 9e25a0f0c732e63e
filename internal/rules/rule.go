// Package rules implements the named lint rules.
//
// Rules come in three shapes: LineRule sees one raw line at a time, FileRule
// sees the whole scanned file, PathRule sees only the file path. Every rule
// is a pure function of its input and the static configuration; enabling or
// disabling one rule never changes the findings of another.
package rules

import (
	"saslint/internal/config"
	"saslint/internal/diag"
	"saslint/internal/lexer"
	"saslint/internal/macro"
	"saslint/internal/source"
	"saslint/internal/token"
)

// Type is the input shape of a rule.
type Type uint8

const (
	TypeLine Type = iota
	TypeFile
	TypePath
)

func (t Type) String() string {
	switch t {
	case TypeLine:
		return "line"
	case TypeFile:
		return "file"
	case TypePath:
		return "path"
	}
	return "unknown"
}

// Finding is one rule hit before severity and rule name are attached.
type Finding struct {
	Code    diag.Code
	Message string
	Pos     source.LineCol
	Span    source.Span
	Fix     *diag.Fix
}

// Rule is the metadata shared by all rule shapes.
type Rule interface {
	Name() string
	Description() string
	Type() Type
	DefaultSeverity() diag.Severity
}

// LineRule checks a single line without its terminator. lineNumber is 1-based.
type LineRule interface {
	Rule
	Test(line string, lineNumber uint32, ctx *LineContext) []Finding
}

// FileRule checks a whole file.
type FileRule interface {
	Rule
	Test(ctx *FileContext) []Finding
}

// PathRule checks a file path.
type PathRule interface {
	Rule
	Test(path string) []Finding
}

// FileContext is the per-file input of file rules. It is built once per file
// and shared read-only by all file rules.
type FileContext struct {
	File       *source.File
	Config     *config.Config
	Statements []token.Statement
	Scan       lexer.Result
	Analysis   *macro.Analysis
}

// LineContext is the per-line input of line rules.
type LineContext struct {
	File   *source.File
	Config *config.Config
	// Start is the scanner state at the beginning of the line.
	Start lexer.State
	// Cleaned is the line with comments removed and strings elided.
	Cleaned string
	// InHeader is set for lines of the leading /** ... */ header comment.
	InHeader bool
	// InData is set for datalines/cards records.
	InData bool
}

type meta struct {
	name        string
	description string
	typ         Type
	severity    diag.Severity
}

func (m meta) Name() string                   { return m.name }
func (m meta) Description() string            { return m.description }
func (m meta) Type() Type                     { return m.typ }
func (m meta) DefaultSeverity() diag.Severity { return m.severity }

// lineSpan returns the byte span of columns [fromCol, toCol) of line lineNumber.
func lineSpan(f *source.File, lineNumber uint32, line string, fromRune, toRune int) source.Span {
	base := f.LineSpan(lineNumber)
	from := byteOffset(line, fromRune)
	to := byteOffset(line, toRune)
	return source.Span{File: f.ID, Start: base.Start + toU32(from), End: base.Start + toU32(to)}
}

// byteOffset converts a rune index inside s into a byte offset.
func byteOffset(s string, runeIdx int) int {
	i := 0
	for off := range s {
		if i == runeIdx {
			return off
		}
		i++
	}
	return len(s)
}
