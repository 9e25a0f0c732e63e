package lexer

import "fmt"

// State is the scanner state carried between fragments.
// At most one of InBlockComment and Quote is set.
type State struct {
	InBlockComment bool
	// Quote is the opening quote character of the string being scanned, 0 outside strings.
	Quote byte
	// CommentStatement is set from the "*" or "%*" that opens a comment
	// statement up to its ';'. Quotes are inert while it is set.
	CommentStatement bool
}

// Clean reports whether the state is outside block comments and strings.
// A pending comment statement does not make the state unclean.
func (s State) Clean() bool {
	return !s.InBlockComment && s.Quote == 0
}

func (s State) String() string {
	switch {
	case s.InBlockComment:
		return "in-comment"
	case s.Quote != 0:
		return fmt.Sprintf("in-string(%c)", s.Quote)
	case s.CommentStatement:
		return "in-comment-statement"
	}
	return "clean"
}

// action describes what the state machine did with the bytes at the current offset.
type action uint8

const (
	actKeep         action = iota // byte belongs to significant text
	actDrop                       // byte is comment or string content
	actCommentOpen                // consumed "/*"
	actCommentClose               // consumed "*/"
	actQuote                      // quote that opened or closed a string
	actTerminator                 // ';' outside comments and strings
)

// step advances the comment/string machine by one decision at src[i] and
// returns how many bytes the decision consumed. atStart tells that no
// significant text of the current statement has been seen yet, which is
// where "*" and "%*" open a comment statement.
func step[T ~string | ~[]byte](st *State, src T, i int, atStart bool) (action, int) {
	c := src[i]
	switch {
	case st.InBlockComment:
		if c == '*' && i+1 < len(src) && src[i+1] == '/' {
			st.InBlockComment = false
			return actCommentClose, 2
		}
		return actDrop, 1
	case st.Quote != 0:
		if c == st.Quote {
			st.Quote = 0
			return actQuote, 1
		}
		return actDrop, 1
	case c == '/' && i+1 < len(src) && src[i+1] == '*':
		st.InBlockComment = true
		return actCommentOpen, 2
	case atStart && (c == '*' || (c == '%' && i+1 < len(src) && src[i+1] == '*')):
		st.CommentStatement = true
		return actKeep, 1
	case !st.CommentStatement && (c == '\'' || c == '"'):
		st.Quote = c
		return actQuote, 1
	case c == ';':
		st.CommentStatement = false
		return actTerminator, 1
	}
	return actKeep, 1
}
