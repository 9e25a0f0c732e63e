package rules

import (
	"bytes"
	"strings"
	"unicode/utf8"

	"saslint/internal/config"
	"saslint/internal/diag"
	"saslint/internal/fix"
	"saslint/internal/source"
)

type hasDoxygenHeader struct{ meta }

// HasDoxygenHeader requires every file to start with a /** ... */ header.
var HasDoxygenHeader FileRule = hasDoxygenHeader{meta{
	name:        "hasDoxygenHeader",
	description: "Enforce the presence of a Doxygen header in the form of a comment block at the start of each file.",
	typ:         TypeFile,
	severity:    diag.SevWarning,
}}

func (r hasDoxygenHeader) Test(ctx *FileContext) []Finding {
	content := ctx.File.Content
	trimmed := bytes.TrimLeft(content, " \t\r\n")
	if len(trimmed) == 0 || bytes.HasPrefix(trimmed, []byte("/**")) {
		return nil
	}
	at := source.Span{File: ctx.File.ID}
	if bytes.HasPrefix(trimmed, []byte("/*")) {
		start := toU32(len(content) - len(trimmed))
		open := source.Span{File: ctx.File.ID, Start: start, End: start + 2}
		return []Finding{{
			Code:    diag.FileMissingHeader,
			Message: "File not following Doxygen header style, use double asterisks",
			Pos:     ctx.File.Position(start),
			Span:    open,
			Fix:     fix.ReplaceSpan("use a Doxygen comment opener", open, "/**", "/*"),
		}}
	}
	header := strings.ReplaceAll(ctx.Config.DefaultHeader, "\n", fileTerminator(ctx))
	return []Finding{{
		Code:    diag.FileMissingHeader,
		Message: "File missing Doxygen header",
		Pos:     source.LineCol{Line: 1, Col: 1},
		Span:    at,
		Fix: fix.InsertText("insert default header", at, header+fileTerminator(ctx),
			fix.WithApplicability(diag.FixApplicabilitySafeWithHeuristics)),
	}}
}

// fileTerminator is the line ending new text should use in this file.
func fileTerminator(ctx *FileContext) string {
	if ctx.Config.LineEndings != config.LineEndingsOff {
		return ctx.Config.LineEndings.Terminator()
	}
	if ctx.File.Flags&source.FileHasCRLF != 0 {
		return "\r\n"
	}
	return "\n"
}

type lineEndings struct{ meta }

// LineEndings enforces the configured LF or CRLF terminator on every line.
var LineEndings FileRule = lineEndings{meta{
	name:        "lineEndings",
	description: "Ensure line endings are consistently LF or CRLF.",
	typ:         TypeFile,
	severity:    diag.SevWarning,
}}

func (r lineEndings) Test(ctx *FileContext) []Finding {
	want := ctx.Config.LineEndings
	if want == config.LineEndingsOff {
		return nil
	}
	wantTerm := want.Terminator()
	var out []Finding
	n := ctx.File.LineCount()
	for ln := uint32(1); ln <= n; ln++ {
		got := ctx.File.LineEnding(ln)
		if got == "" || got == wantTerm {
			continue
		}
		line := ctx.File.LineSpan(ln)
		term := source.Span{File: ctx.File.ID, Start: line.End, End: line.End + toU32(len(got))}
		msg := "Incorrect line ending - CRLF instead of LF"
		if want == config.LineEndingsCRLF {
			msg = "Incorrect line ending - LF instead of CRLF"
		}
		col := utf8.RuneCount(ctx.File.Content[line.Start:line.End]) + 1
		out = append(out, Finding{
			Code:    diag.FileLineEnding,
			Message: msg,
			Pos:     source.LineCol{Line: ln, Col: toU32(col)},
			Span:    term,
			Fix:     fix.ReplaceSpan("normalise line ending", term, wantTerm, got),
		})
	}
	return out
}

type noUnterminatedComments struct{ meta }

// NoUnterminatedComments reports a block comment or string still open at EOF.
var NoUnterminatedComments FileRule = noUnterminatedComments{meta{
	name:        "noUnterminatedComments",
	description: "Disallow block comments and strings that are still open at the end of the file.",
	typ:         TypeFile,
	severity:    diag.SevWarning,
}}

func (r noUnterminatedComments) Test(ctx *FileContext) []Finding {
	st := ctx.Scan.State
	switch {
	case st.InBlockComment:
		return []Finding{{
			Code:    diag.FileUnterminatedComment,
			Message: "Block comment is not terminated",
			Pos:     ctx.Scan.Since,
			Span:    openSpan(ctx),
		}}
	case st.Quote != 0:
		return []Finding{{
			Code:    diag.FileUnterminatedString,
			Message: "String literal is not terminated (opened with " + string(rune(st.Quote)) + ")",
			Pos:     ctx.Scan.Since,
			Span:    openSpan(ctx),
		}}
	}
	return nil
}

// openSpan points at the bytes from the opening delimiter to EOF.
func openSpan(ctx *FileContext) source.Span {
	f := ctx.File
	line := f.LineSpan(ctx.Scan.Since.Line)
	text := f.GetLine(ctx.Scan.Since.Line)
	start := line.Start + toU32(byteOffset(text, int(ctx.Scan.Since.Col)-1))
	return source.Span{File: f.ID, Start: start, End: toU32(len(f.Content))}
}
