package token

import (
	"strings"

	"saslint/internal/source"
)

// Statement is one ';'-terminated logical unit of source text.
type Statement struct {
	Kind  Kind
	Text  string
	Span  source.Span
	Start source.LineCol
	End   source.LineCol
}

// Keyword returns the leading "%word" of the statement, lowercased, or ""
// when the statement does not start with one.
func (s Statement) Keyword() string {
	word, _ := LeadingWord(s.Text)
	if !strings.HasPrefix(word, "%") {
		return ""
	}
	return strings.ToLower(word)
}

// Body returns the statement text after its leading keyword, without the
// terminating ';'.
func (s Statement) Body() string {
	_, rest := LeadingWord(s.Text)
	rest = strings.TrimSuffix(rest, ";")
	return strings.TrimSpace(rest)
}

// Terminated reports whether the statement ended with ';' rather than EOF.
func (s Statement) Terminated() bool {
	return strings.HasSuffix(s.Text, ";")
}

// IsMacroBoundary reports whether the statement opens or closes a macro.
func (s Statement) IsMacroBoundary() bool {
	return s.Kind == MacroOpen || s.Kind == MacroClose
}
