package lexer

import "strings"

// StripCommentsAndStrings removes block comments from fragment and elides
// string contents to the bare quote pair, starting from prior and returning
// the state at the end of the fragment. The result is trimmed.
//
// The fragment is processed in one left-to-right pass, so any number of
// comments per fragment is handled and a comment that does not close carries
// over to the next call. Fragments with no delimiters come back trimmed with
// the state unchanged.
//
// A fragment is taken to begin a statement unless prior is inside a string
// or a comment statement, so "* it's;" is a comment statement whose quote
// does not open a string.
func StripCommentsAndStrings(fragment string, prior State) (string, State) {
	st := prior
	if st.Clean() && !st.CommentStatement && !strings.ContainsAny(fragment, "/'\"*") {
		return strings.TrimSpace(fragment), st
	}

	var b strings.Builder
	b.Grow(len(fragment))
	atStart := st.Quote == 0 && !st.CommentStatement
	for i := 0; i < len(fragment); {
		act, n := step(&st, fragment, i, atStart)
		switch act {
		case actKeep:
			b.WriteString(fragment[i : i+n])
			if !isSpaceByte(fragment[i]) {
				atStart = false
			}
		case actQuote:
			b.WriteString(fragment[i : i+n])
			atStart = false
		case actTerminator:
			b.WriteString(fragment[i : i+n])
			atStart = true
		}
		i += n
	}
	return strings.TrimSpace(b.String()), st
}
