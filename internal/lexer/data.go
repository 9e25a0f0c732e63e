package lexer

import (
	"regexp"
	"strings"
)

var dataStatement = regexp.MustCompile(`(?i)^(?:datalines|cards|lines|parmcards)(4)?\s*;$`)

// DataSection reports whether stmt, a cleaned statement, starts in-stream
// data and returns the line that ends it: ";" or ";;;;" for the 4 forms.
func DataSection(stmt string) (end string, ok bool) {
	m := dataStatement.FindStringSubmatch(strings.TrimSpace(stmt))
	if m == nil {
		return "", false
	}
	if m[1] != "" {
		return ";;;;", true
	}
	return ";", true
}

// LastStatement returns the last ';'-terminated statement of a cleaned line,
// or "" when the line does not end with ';'.
func LastStatement(cleaned string) string {
	if !strings.HasSuffix(cleaned, ";") {
		return ""
	}
	i := strings.LastIndexByte(cleaned[:len(cleaned)-1], ';')
	return strings.TrimSpace(cleaned[i+1:])
}
