package lexer

// Options tune the scanner.
type Options struct {
	// KeepStrings copies string contents into Statement.Text instead of
	// eliding them. Keywords inside strings then become visible, so the
	// macro tracker must not consume such statements.
	KeepStrings bool
}
