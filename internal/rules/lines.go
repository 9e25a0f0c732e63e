package rules

import (
	"bytes"
	"strings"

	"saslint/internal/config"
	"saslint/internal/lexer"
	"saslint/internal/source"
)

// WalkLines calls fn for every line of f in order. The comment/string state
// is threaded from line to line through lexer.StripCommentsAndStrings.
func WalkLines(f *source.File, cfg *config.Config, fn func(line string, lineNumber uint32, ctx *LineContext)) {
	headerEnd := HeaderEndLine(f)
	var (
		state   lexer.State
		inData  bool
		dataEnd string
	)
	n := f.LineCount()
	for ln := uint32(1); ln <= n; ln++ {
		line := f.GetLine(ln)
		ctx := &LineContext{
			File:     f,
			Config:   cfg,
			Start:    state,
			InHeader: headerEnd > 0 && ln <= headerEnd,
		}
		if inData {
			if strings.TrimSpace(line) == dataEnd {
				inData = false
			} else {
				ctx.InData = true
				fn(line, ln, ctx)
				continue
			}
		}
		ctx.Cleaned, state = lexer.StripCommentsAndStrings(line, state)
		if state.Clean() && !state.CommentStatement {
			if end, ok := lexer.DataSection(lexer.LastStatement(ctx.Cleaned)); ok {
				inData = true
				dataEnd = end
			}
		}
		fn(line, ln, ctx)
	}
}

// HeaderEndLine returns the last line of the leading "/** ... */" comment,
// or 0 when the file does not start with one.
func HeaderEndLine(f *source.File) uint32 {
	content := f.Content
	trimmed := bytes.TrimLeft(content, " \t\r\n")
	if !bytes.HasPrefix(trimmed, []byte("/**")) {
		return 0
	}
	start := len(content) - len(trimmed)
	end := bytes.Index(content[start+3:], []byte("*/"))
	if end < 0 {
		return f.LineCount()
	}
	return f.Position(toU32(start + 3 + end)).Line
}
