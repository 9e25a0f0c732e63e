package lexer

import (
	"testing"
	"unicode/utf8"

	"saslint/internal/source"
)

func createFile(content string) *source.File {
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.sas", []byte(content))
	return fs.Get(id)
}

// TestCursorLineTracking проверяет строки и колонки: "aé\r\nb" → a(1:1) é(1:2) \r(1:3) \n(1:4) b(2:1)
func TestCursorLineTracking(t *testing.T) {
	cursor := NewCursor(createFile("aé\r\nb"))
	want := []source.LineCol{{Line: 1, Col: 1}, {Line: 1, Col: 2}, {Line: 1, Col: 3}, {Line: 1, Col: 4}, {Line: 2, Col: 1}}
	for i, w := range want {
		if cursor.EOF() {
			t.Fatalf("unexpected EOF at step %d", i)
		}
		if got := cursor.Pos(); got != w {
			t.Errorf("step %d: pos %v, want %v", i, got, w)
		}
		cursor.BumpRune()
	}
	if !cursor.EOF() {
		t.Error("expected EOF")
	}
	if cursor.Pos() != (source.LineCol{Line: 2, Col: 2}) {
		t.Errorf("pos at EOF = %v", cursor.Pos())
	}
}

func TestCursorPeek(t *testing.T) {
	cursor := NewCursor(createFile("/*"))
	if cursor.Peek() != '/' {
		t.Fatalf("Peek = %c", cursor.Peek())
	}
	cursor.Bump(2)
	if cursor.Peek() != 0 {
		t.Errorf("Peek at EOF = %d", cursor.Peek())
	}
	if r := cursor.BumpRune(); r != utf8.RuneError {
		t.Errorf("BumpRune at EOF = %q", r)
	}
}

func TestStepConsumesCommentMarkers(t *testing.T) {
	var st State
	act, n := step(&st, "/* x", 0, true)
	if act != actCommentOpen || n != 2 || !st.InBlockComment {
		t.Fatalf("step = %v %d %v", act, n, st)
	}
	act, n = step(&st, []byte("*/"), 0, true)
	if act != actCommentClose || n != 2 || st.InBlockComment {
		t.Fatalf("step = %v %d %v", act, n, st)
	}
	act, _ = step(&st, "* it's", 0, true)
	if act != actKeep || !st.CommentStatement {
		t.Fatalf("comment statement opener: %v %v", act, st)
	}
	act, _ = step(&st, "'", 0, false)
	if act != actKeep || st.Quote != 0 {
		t.Fatalf("quote inside comment statement: %v %v", act, st)
	}
	act, _ = step(&st, ";", 0, false)
	if act != actTerminator || st.CommentStatement {
		t.Fatalf("terminator must end comment statement: %v %v", act, st)
	}
	act, _ = step(&st, "a * b", 2, false)
	if act != actKeep || st.CommentStatement {
		t.Fatalf("operator inside statement: %v %v", act, st)
	}
}
