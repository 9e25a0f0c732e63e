package diagfmt

import (
	"bytes"
	"strings"
	"testing"

	"saslint/internal/diag"
	"saslint/internal/source"
)

func nestedMacroBag() (*source.FileSet, *diag.Bag) {
	fs := source.NewFileSet()
	content := []byte("%macro outer;\n  %macro inner;\n%mend;\n%mend;\n")
	fileID := fs.AddVirtual("test.sas", content)

	bag := diag.NewBag(4)
	d := diag.New(
		diag.SevError,
		diag.MacNested,
		source.Span{File: fileID, Start: 16, End: 28},
		`macro "inner" is defined inside macro "outer"`,
	)
	d.Rule = "noNestedMacros"
	bag.Add(d)
	return fs, bag
}

func TestPrettyHeaderAndSnippet(t *testing.T) {
	fs, bag := nestedMacroBag()

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{PathMode: PathModeBasename})

	want := "test.sas:2:3: ERROR MAC1005: macro \"inner\" is defined inside macro \"outer\" [noNestedMacros]\n" +
		"2 |   %macro inner;\n" +
		"  |   ^~~~~~~~~~~\n"
	if got := buf.String(); got != want {
		t.Fatalf("unexpected output:\n%s\nwant:\n%s", got, want)
	}
}

func TestPrettyContextLines(t *testing.T) {
	fs, bag := nestedMacroBag()

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{PathMode: PathModeBasename, Context: 2})

	output := buf.String()
	if !strings.Contains(output, "1 | %macro outer;\n2 |   %macro inner;\n") {
		t.Fatalf("expected previous line as context, got:\n%s", output)
	}
}

func TestPrettyUsesReportedPosition(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("tabs.sas", []byte("\tx = 1;\n"))

	bag := diag.NewBag(2)
	d := diag.New(diag.SevWarning, diag.LineTab, source.Span{File: fileID, Start: 0, End: 1}, "Line is indented with a tab")
	d.Pos = source.LineCol{Line: 1, Col: 2}
	bag.Add(d)

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{PathMode: PathModeBasename})

	output := buf.String()
	if !strings.HasPrefix(output, "tabs.sas:1:2: WARNING LIN3003:") {
		t.Fatalf("expected reported position in header, got:\n%s", output)
	}
	// табуляция раскрывается в четыре пробела, каретка стоит после неё
	if !strings.Contains(output, "1 |     x = 1;\n  |     ^\n") {
		t.Fatalf("expected tab-expanded snippet, got:\n%s", output)
	}
}

func TestPrettyNotesAndFixes(t *testing.T) {
	fs := source.NewFileSet()
	content := []byte("%macro outer;\n%mend;\n")
	fileID := fs.AddVirtual("test.sas", content)

	bag := diag.NewBag(4)
	mend := source.Span{File: fileID, Start: 14, End: 20}
	d := diag.New(diag.SevWarning, diag.MacMissingMendName, mend, `%mend does not repeat the macro name "outer"`)
	d.Rule = "hasMacroNameInMend"
	d = d.WithNote(source.Span{File: fileID, Start: 0, End: 12}, "macro opened here")
	d = d.WithFixSuggestion(diag.Fix{
		Title:         "add macro name to %mend",
		Applicability: diag.FixApplicabilityAlwaysSafe,
		IsPreferred:   true,
		Edits: []diag.TextEdit{{
			Span:    source.Span{File: fileID, Start: 19, End: 19},
			NewText: " outer",
		}},
	})
	bag.Add(d)

	var buf bytes.Buffer
	opts := PrettyOpts{
		PathMode:  PathModeBasename,
		ShowNotes: true,
		ShowFixes: true,
	}
	Pretty(&buf, bag, fs, opts)

	output := buf.String()
	if !strings.Contains(output, "note: test.sas:1:1: macro opened here") {
		t.Fatalf("expected note with location, got:\n%s", output)
	}
	if !strings.Contains(output, "fix: add macro name to %mend (always-safe)") {
		t.Fatalf("expected fix entry, got:\n%s", output)
	}
	if strings.Contains(output, "+ ") {
		t.Fatalf("preview must be off by default, got:\n%s", output)
	}
}

func TestPrettyFixPreview(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("example.sas", []byte("data a;   \nrun;\n"))

	bag := diag.NewBag(2)
	trailing := source.Span{File: fileID, Start: 7, End: 10}
	d := diag.New(diag.SevWarning, diag.LineTrailingSpaces, trailing, "Line contains trailing spaces")
	d = d.WithFix("remove trailing spaces", diag.TextEdit{Span: trailing, OldText: "   "})
	bag.Add(d)

	var buf bytes.Buffer
	opts := PrettyOpts{
		PathMode:    PathModeBasename,
		ShowFixes:   true,
		ShowPreview: true,
	}
	Pretty(&buf, bag, fs, opts)

	output := buf.String()
	if !strings.Contains(output, "      - data a;   \n") {
		t.Fatalf("expected before line in preview, got:\n%s", output)
	}
	if !strings.Contains(output, "      + data a;\n") {
		t.Fatalf("expected after line in preview, got:\n%s", output)
	}
}

func TestPrettyWidthTruncates(t *testing.T) {
	fs := source.NewFileSet()
	line := "%let x = " + strings.Repeat("a", 60) + ";"
	fileID := fs.AddVirtual("long.sas", []byte(line+"\n"))

	bag := diag.NewBag(2)
	bag.Add(diag.New(diag.SevWarning, diag.LineTooLong, source.Span{File: fileID, Start: 0, End: 1}, "too long"))

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{PathMode: PathModeBasename, Width: 20})

	if !strings.Contains(buf.String(), "1 | %let x = aaaaaaaa...\n") {
		t.Fatalf("expected truncated snippet, got:\n%s", buf.String())
	}
}

func TestPrettyUnknownFile(t *testing.T) {
	fs := source.NewFileSet()
	bag := diag.NewBag(1)
	bag.Add(diag.NewError(diag.IOLoadFileError, source.Span{File: 3}, "open missing.sas: no such file"))

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{})

	if got, want := buf.String(), "ERROR IO5001: open missing.sas: no such file\n"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestPrettyColorToggle(t *testing.T) {
	fs, bag := nestedMacroBag()

	var plain, colored bytes.Buffer
	Pretty(&plain, bag, fs, PrettyOpts{PathMode: PathModeBasename})
	Pretty(&colored, bag, fs, PrettyOpts{PathMode: PathModeBasename, Color: true})

	if strings.Contains(plain.String(), "\x1b[") {
		t.Fatalf("unexpected escape sequences without color:\n%q", plain.String())
	}
	if !strings.Contains(colored.String(), "\x1b[") {
		t.Fatalf("expected escape sequences with color:\n%q", colored.String())
	}
}
