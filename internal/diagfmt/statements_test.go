package diagfmt

import (
	"bytes"
	"slices"
	"strings"
	"testing"

	"saslint/internal/lexer"
	"saslint/internal/macro"
	"saslint/internal/source"
)

func scanText(t *testing.T, text string) (*source.FileSet, source.FileID, lexer.Result, *macro.Analysis) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("prog.sas", []byte(text))
	res := lexer.CollectResult(fs.Get(id), lexer.Options{})
	return fs, id, res, macro.Analyze(slices.Values(res.Statements), macro.Options{})
}

func TestBuildStatementsOutput(t *testing.T) {
	fs, id, res, analysis := scanText(t, "%macro m(a);\n  x = 1;\n%mend m;\n")

	out := BuildStatementsOutput(fs, id, res, analysis, PathModeBasename)
	if out.File != "prog.sas" || out.State != "clean" || out.Since != nil {
		t.Fatalf("unexpected header: %+v", out)
	}
	kinds := make([]string, 0, len(out.Statements))
	for _, st := range out.Statements {
		kinds = append(kinds, st.Kind)
	}
	if want := []string{"MacroOpen", "Statement", "MacroClose"}; !slices.Equal(kinds, want) {
		t.Fatalf("kinds = %v, want %v", kinds, want)
	}
	if st := out.Statements[1]; st.Start != (PositionJSON{Line: 2, Col: 3}) || st.Text != "x = 1;" {
		t.Errorf("unexpected statement: %+v", st)
	}

	if len(out.Macros) != 1 {
		t.Fatalf("expected one macro, got %+v", out.Macros)
	}
	m := out.Macros[0]
	if m.Name != "m" || m.Depth != 1 || m.Close == nil || *m.Close != (PositionJSON{Line: 3, Col: 1}) {
		t.Errorf("unexpected macro: %+v", m)
	}
	if !slices.Equal(m.Params, []string{"a"}) {
		t.Errorf("params = %v", m.Params)
	}
}

func TestStatementsTextUnterminated(t *testing.T) {
	fs, id, res, analysis := scanText(t, "data a;\n/* open\n")

	var buf bytes.Buffer
	Statements(&buf, fs, id, res, analysis, StatementsOpts{PathMode: PathModeBasename})

	output := buf.String()
	if !strings.HasPrefix(output, "prog.sas\n") {
		t.Fatalf("expected file header, got:\n%s", output)
	}
	if !strings.Contains(output, "1:1-1:7") || !strings.Contains(output, "data a;") {
		t.Errorf("expected statement line, got:\n%s", output)
	}
	if !strings.HasSuffix(output, "state: in-comment since 2:1\n") {
		t.Errorf("expected unterminated state, got:\n%s", output)
	}
}

func TestStatementsTextMacros(t *testing.T) {
	fs, id, res, analysis := scanText(t, "%macro outer;\n%macro inner();\n%mend;\n")

	var buf bytes.Buffer
	Statements(&buf, fs, id, res, analysis, StatementsOpts{PathMode: PathModeBasename})

	output := buf.String()
	if !strings.Contains(output, "macro inner depth=2 open=2:1 close=3:1\n") {
		t.Errorf("expected closed inner macro, got:\n%s", output)
	}
	if !strings.Contains(output, "macro outer depth=1 open=1:1 close=unterminated\n") {
		t.Errorf("expected unterminated outer macro, got:\n%s", output)
	}
}

func TestStatementsJSONEncodes(t *testing.T) {
	fs, id, res, analysis := scanText(t, "x = 'a;b';\n")

	var buf bytes.Buffer
	if err := StatementsJSON(&buf, fs, id, res, analysis, StatementsOpts{PathMode: PathModeBasename}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), `"text": "x = '';"`) {
		t.Fatalf("expected elided string, got:\n%s", buf.String())
	}
}

func TestOneLine(t *testing.T) {
	if got := oneLine("data\n\t a;\r\n"); got != "data a; " {
		t.Fatalf("oneLine = %q", got)
	}
}
