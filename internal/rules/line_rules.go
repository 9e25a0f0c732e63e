package rules

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"saslint/internal/diag"
	"saslint/internal/fix"
	"saslint/internal/source"
)

type noTrailingSpaces struct{ meta }

// NoTrailingSpaces flags whitespace at the end of a line.
var NoTrailingSpaces LineRule = noTrailingSpaces{meta{
	name:        "noTrailingSpaces",
	description: "Disallow trailing spaces on lines.",
	typ:         TypeLine,
	severity:    diag.SevWarning,
}}

func (r noTrailingSpaces) Test(line string, lineNumber uint32, ctx *LineContext) []Finding {
	trimmed := strings.TrimRightFunc(line, unicode.IsSpace)
	if trimmed == line {
		return nil
	}
	col := utf8.RuneCountInString(trimmed) + 1
	span := source.Span{File: ctx.File.ID}
	span.Start = ctx.File.LineSpan(lineNumber).Start + toU32(len(trimmed))
	span.End = ctx.File.LineSpan(lineNumber).End
	return []Finding{{
		Code:    diag.LineTrailingSpaces,
		Message: "Line contains trailing spaces",
		Pos:     source.LineCol{Line: lineNumber, Col: toU32(col)},
		Span:    span,
		Fix:     fix.DeleteSpan("remove trailing spaces", span, line[len(trimmed):]),
	}}
}

type noEncodedPasswords struct{ meta }

// NoEncodedPasswords flags {SAS00x} and {SASENC} encoded passwords.
var NoEncodedPasswords LineRule = noEncodedPasswords{meta{
	name:        "noEncodedPasswords",
	description: "Disallow encoded passwords in SAS code.",
	typ:         TypeLine,
	severity:    diag.SevWarning,
}}

var encodedPassword = regexp.MustCompile(`(?i)\{sas(?:\d{3}|enc)\}[^;"'\s]*`)

func (r noEncodedPasswords) Test(line string, lineNumber uint32, ctx *LineContext) []Finding {
	var out []Finding
	for _, loc := range encodedPassword.FindAllStringIndex(line, -1) {
		col := utf8.RuneCountInString(line[:loc[0]]) + 1
		base := ctx.File.LineSpan(lineNumber).Start
		out = append(out, Finding{
			Code:    diag.LineEncodedPassword,
			Message: "Line contains encoded password",
			Pos:     source.LineCol{Line: lineNumber, Col: toU32(col)},
			Span:    source.Span{File: ctx.File.ID, Start: base + toU32(loc[0]), End: base + toU32(loc[1])},
		})
	}
	return out
}

type noTabs struct{ meta }

// NoTabs flags lines indented with tab characters.
var NoTabs LineRule = noTabs{meta{
	name:        "noTabs",
	description: "Disallow indenting with tabs.",
	typ:         TypeLine,
	severity:    diag.SevWarning,
}}

func (r noTabs) Test(line string, lineNumber uint32, ctx *LineContext) []Finding {
	indent := leadingWhitespace(line)
	idx := strings.IndexByte(indent, '\t')
	if idx < 0 {
		return nil
	}
	width := ctx.Config.IndentationMultiple
	if width <= 0 {
		width = 2
	}
	span := lineSpan(ctx.File, lineNumber, line, 0, utf8.RuneCountInString(indent))
	return []Finding{{
		Code:    diag.LineTab,
		Message: "Line is indented with a tab",
		Pos:     source.LineCol{Line: lineNumber, Col: toU32(idx + 1)},
		Span:    span,
		Fix: fix.ReplaceSpan("replace tabs with spaces", span,
			strings.ReplaceAll(indent, "\t", strings.Repeat(" ", width)), indent,
			fix.WithApplicability(diag.FixApplicabilitySafeWithHeuristics)),
	}}
}

type maxLineLength struct{ meta }

// MaxLineLength limits the number of code points per line.
var MaxLineLength LineRule = maxLineLength{meta{
	name:        "maxLineLength",
	description: "Restrict lines to a maximum length.",
	typ:         TypeLine,
	severity:    diag.SevWarning,
}}

func (r maxLineLength) Test(line string, lineNumber uint32, ctx *LineContext) []Finding {
	limit := ctx.Config.MaxLineLength
	switch {
	case ctx.InHeader:
		limit = ctx.Config.MaxHeaderLineLength
	case ctx.InData:
		limit = ctx.Config.MaxDataLineLength
	}
	if limit <= 0 {
		return nil
	}
	n := utf8.RuneCountInString(line)
	if n <= limit {
		return nil
	}
	return []Finding{{
		Code:    diag.LineTooLong,
		Message: fmt.Sprintf("Line exceeds maximum length by %d characters", n-limit),
		Pos:     source.LineCol{Line: lineNumber, Col: toU32(limit + 1)},
		Span:    lineSpan(ctx.File, lineNumber, line, limit, n),
	}}
}

type indentationMultiple struct{ meta }

// IndentationMultiple requires space indentation in multiples of the configured width.
var IndentationMultiple LineRule = indentationMultiple{meta{
	name:        "indentationMultiple",
	description: "Ensure indentation by a multiple of the configured number of spaces.",
	typ:         TypeLine,
	severity:    diag.SevWarning,
}}

func (r indentationMultiple) Test(line string, lineNumber uint32, ctx *LineContext) []Finding {
	width := ctx.Config.IndentationMultiple
	if width <= 0 || !ctx.Start.Clean() || ctx.InData {
		return nil
	}
	indent := leadingWhitespace(line)
	if indent == "" || len(indent) == len(line) || strings.ContainsRune(indent, '\t') {
		return nil
	}
	n := len(indent)
	if n%width == 0 {
		return nil
	}
	return []Finding{{
		Code:    diag.LineIndentation,
		Message: fmt.Sprintf("Line has incorrect indentation - %d space(s), expected a multiple of %d", n, width),
		Pos:     source.LineCol{Line: lineNumber, Col: 1},
		Span:    lineSpan(ctx.File, lineNumber, line, 0, n),
	}}
}

type noGremlins struct{ meta }

// NoGremlins flags invisible and look-alike characters.
var NoGremlins LineRule = noGremlins{meta{
	name:        "noGremlins",
	description: "Disallow invisible or unusual Unicode characters.",
	typ:         TypeLine,
	severity:    diag.SevWarning,
}}

func (r noGremlins) Test(line string, lineNumber uint32, ctx *LineContext) []Finding {
	var out []Finding
	col := 0
	base := ctx.File.LineSpan(lineNumber).Start
	for off, ch := range line {
		col++
		name, ok := gremlinName(ch)
		if !ok || ctx.Config.GremlinAllowed(ch) {
			continue
		}
		size := utf8.RuneLen(ch)
		if size < 0 {
			size = 1
		}
		out = append(out, Finding{
			Code:    diag.LineGremlin,
			Message: gremlinMessage(ch, name),
			Pos:     source.LineCol{Line: lineNumber, Col: toU32(col)},
			Span:    source.Span{File: ctx.File.ID, Start: base + toU32(off), End: base + toU32(off+size)},
		})
	}
	return out
}

// leadingWhitespace returns the run of spaces and tabs that starts line.
func leadingWhitespace(line string) string {
	i := 0
	for i < len(line) && (line[i] == ' ' || line[i] == '\t') {
		i++
	}
	return line[:i]
}
