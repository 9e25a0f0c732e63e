package lexer

import (
	"iter"
	"strings"
	"unicode"

	"saslint/internal/source"
	"saslint/internal/token"
)

// Scanner splits a file into ';'-terminated statements with comments removed
// and string contents elided. It never fails: unbalanced delimiters are
// reported through State once the input is exhausted. In-stream data after a
// datalines or cards statement is skipped up to its terminator line.
type Scanner struct {
	file   *source.File
	cursor Cursor
	opts   Options
	state  State
	since  source.LineCol
	done   bool
	// dataEnd is the terminator line of the in-stream data that follows
	// the last statement, "" when there is none.
	dataEnd string
}

func New(file *source.File, opts Options) *Scanner {
	return &Scanner{
		file:   file,
		cursor: NewCursor(file),
		opts:   opts,
	}
}

// State returns the comment/string state at the current scan position.
// After the last statement it tells whether EOF was reached inside a
// comment or string.
func (sc *Scanner) State() State {
	return sc.state
}

// Since returns where the current comment or string was opened. It is
// meaningful only while State is not clean.
func (sc *Scanner) Since() source.LineCol {
	return sc.since
}

// Next returns the next statement. The final fragment without ';' is
// returned as an unterminated statement when it has significant text.
func (sc *Scanner) Next() (token.Statement, bool) {
	if sc.done {
		return token.Statement{}, false
	}

	if sc.dataEnd != "" {
		sc.skipData(sc.dataEnd)
		sc.dataEnd = ""
	}

	var (
		text strings.Builder
		have bool
		st   token.Statement
	)
	content := sc.file.Content[:sc.cursor.Limit]

	// significant отмечает значимый символ: первый задаёт начало, последний конец.
	significant := func(off uint32, pos source.LineCol) {
		if !have {
			have = true
			st.Span = source.Span{File: sc.file.ID, Start: off}
			st.Start = pos
		}
		st.Span.End = sc.cursor.Off
		st.End = pos
	}

	for !sc.cursor.EOF() {
		off := sc.cursor.Off
		pos := sc.cursor.Pos()

		act, n := step(&sc.state, content, int(off), !have)
		if act == actCommentOpen || (act == actQuote && sc.state.Quote != 0) {
			sc.since = pos
		}
		switch act {
		case actCommentOpen, actCommentClose:
			sc.cursor.Bump(n)

		case actDrop:
			if sc.state.Quote != 0 && sc.opts.KeepStrings {
				r, size := sc.cursor.PeekRune()
				text.Write(content[off : off+uint32(size)])
				sc.cursor.BumpRune()
				if !unicode.IsSpace(r) {
					significant(off, pos)
				}
				continue
			}
			sc.cursor.BumpRune()

		case actQuote:
			text.WriteByte(content[off])
			sc.cursor.Bump(1)
			significant(off, pos)

		case actTerminator:
			text.WriteByte(';')
			sc.cursor.Bump(1)
			significant(off, pos)
			stmt := sc.finish(st, text.String())
			if stmt.Kind == token.Plain {
				if end, ok := DataSection(stmt.Text); ok {
					sc.dataEnd = end
				}
			}
			return stmt, true

		case actKeep:
			r, size := sc.cursor.PeekRune()
			text.Write(content[off : off+uint32(size)])
			sc.cursor.BumpRune()
			if !unicode.IsSpace(r) {
				significant(off, pos)
			}
		}
	}

	sc.done = true
	if !have {
		return token.Statement{}, false
	}
	return sc.finish(st, text.String()), true
}

// skipData consumes the rest of the current line and the data records after
// it, up to and including the line equal to end. Records are raw text, so
// quotes in them never open strings.
func (sc *Scanner) skipData(end string) {
	sc.skipLine()
	for !sc.cursor.EOF() {
		start := sc.cursor.Off
		sc.skipLine()
		if strings.TrimSpace(string(sc.file.Content[start:sc.cursor.Off])) == end {
			return
		}
	}
}

// skipLine moves the cursor past the next '\n' or to the limit.
func (sc *Scanner) skipLine() {
	for !sc.cursor.EOF() {
		if sc.cursor.Peek() == '\n' {
			sc.cursor.Bump(1)
			return
		}
		sc.cursor.BumpRune()
	}
}

func (sc *Scanner) finish(st token.Statement, raw string) token.Statement {
	st.Text = strings.TrimSpace(raw)
	st.Kind = token.Classify(st.Text)
	return st
}

// All returns the remaining statements as a lazy sequence.
func (sc *Scanner) All() iter.Seq[token.Statement] {
	return func(yield func(token.Statement) bool) {
		for {
			st, ok := sc.Next()
			if !ok || !yield(st) {
				return
			}
		}
	}
}

// Scan is the lazy statement sequence of file with a fresh scanner state.
func Scan(file *source.File, opts Options) iter.Seq[token.Statement] {
	return func(yield func(token.Statement) bool) {
		New(file, opts).All()(yield)
	}
}

// Collect scans the whole file and returns its statements and the terminal state.
func Collect(file *source.File, opts Options) ([]token.Statement, State) {
	res := CollectResult(file, opts)
	return res.Statements, res.State
}

// Result is a fully scanned file.
type Result struct {
	Statements []token.Statement
	// State is the terminal scanner state; Since is where an unterminated
	// comment or string was opened.
	State State
	Since source.LineCol
}

// CollectResult scans the whole file.
func CollectResult(file *source.File, opts Options) Result {
	sc := New(file, opts)
	var res Result
	for st := range sc.All() {
		res.Statements = append(res.Statements, st)
	}
	res.State = sc.State()
	if !res.State.Clean() {
		res.Since = sc.Since()
	}
	return res
}

// ScanText scans an in-memory text registered as a virtual file.
func ScanText(name, text string) ([]token.Statement, State) {
	fs := source.NewFileSet()
	id := fs.AddVirtual(name, []byte(text))
	return Collect(fs.Get(id), Options{})
}

func isSpaceByte(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r' || b == '\f' || b == '\v'
}
