package driver_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"saslint/internal/config"
	"saslint/internal/diag"
	"saslint/internal/driver"
	"saslint/internal/pipeline"
	"saslint/internal/source"
	"saslint/internal/testkit"
)

const nestedSrc = "/**\n  @file\n**/\n" +
	"%macro outer();\n" +
	"  %macro inner;\n" +
	"  %mend inner;\n" +
	"%mend;\n"

func short(fs *source.FileSet, res *driver.FileResult) string {
	return diag.FormatShortDiagnostics(res.Bag.Items(), fs, false, "basename")
}

func TestLintSourceGolden(t *testing.T) {
	fs, res := driver.LintSource(context.Background(), "test.sas", []byte(nestedSrc), driver.Options{})
	want := "error MAC1005 test.sas:5:3 macro \"inner\" is defined inside macro \"outer\" [noNestedMacros]\n" +
		"error MAC1006 test.sas:5:3 macro definition \"inner\" is missing parentheses [hasMacroParentheses]"
	if got := short(fs, res); got != want {
		t.Fatalf("unexpected diagnostics:\nwant:\n%s\n\ngot:\n%s", want, got)
	}
	if len(res.Analysis.Definitions) != 2 || !res.Analysis.Balanced() {
		t.Fatalf("unexpected analysis: %+v", res.Analysis)
	}
	if res.Scan.Statements != nil {
		t.Fatal("statements retained without KeepStatements")
	}
}

func TestLintSourceInvariants(t *testing.T) {
	inputs := []string{
		nestedSrc,
		"data a;\t\n\tset b;   \r\nrun;",
		"%macro Bad Name(x, x) / junk;\n%mend other;\n%mend;\n/* open",
		"x = '{SAS002}ABCDEF0123';\n%let s = \"unterminated",
	}
	for _, in := range inputs {
		fs, res := driver.LintSource(context.Background(), "Some File.sas", []byte(in), driver.Options{KeepStatements: true, EnableTimings: true})
		if err := testkit.CheckDiagnosticInvariants(fs, res.Bag); err != nil {
			t.Errorf("%q: %v", in, err)
		}
		if err := testkit.CheckStatementInvariants(fs.Get(res.FileID), res.Scan.Statements); err != nil {
			t.Errorf("%q: %v", in, err)
		}
	}
}

func TestLintSourceSeverityOverride(t *testing.T) {
	cfg := config.Default()
	cfg.Severity["noNestedMacros"] = diag.SevWarning
	fs, res := driver.LintSource(context.Background(), "test.sas", []byte(nestedSrc), driver.Options{Config: cfg})
	if got := short(fs, res); !strings.Contains(got, "warning MAC1005") || !strings.Contains(got, "error MAC1006") {
		t.Fatalf("override not applied:\n%s", got)
	}
}

func TestDisablingRuleKeepsOthers(t *testing.T) {
	src := "%macro a;\n\tx = 1;  \n%mend;\n"
	all := config.Default()
	fsAll, resAll := driver.LintSource(context.Background(), "t.sas", []byte(src), driver.Options{Config: all})

	fewer := config.Default()
	fewer.NoTabs = false
	fsFewer, resFewer := driver.LintSource(context.Background(), "t.sas", []byte(src), driver.Options{Config: fewer})

	var kept []string
	for _, line := range strings.Split(short(fsAll, resAll), "\n") {
		if !strings.HasSuffix(line, "[noTabs]") {
			kept = append(kept, line)
		}
	}
	if got, want := short(fsFewer, resFewer), strings.Join(kept, "\n"); got != want {
		t.Fatalf("disabling noTabs changed other findings:\nwant:\n%s\n\ngot:\n%s", want, got)
	}
}

func TestLintFileMissing(t *testing.T) {
	fs, res := driver.LintFile(context.Background(), filepath.Join(t.TempDir(), "nope.sas"), driver.Options{})
	items := res.Bag.Items()
	if len(items) != 1 || items[0].Code != diag.IOLoadFileError {
		t.Fatalf("expected one IO diagnostic, got %v", items)
	}
	if got := short(fs, res); !strings.HasPrefix(got, "error IO5001 nope.sas:") {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestLintTimings(t *testing.T) {
	_, res := driver.LintSource(context.Background(), "t.sas", []byte("data a; run;\n"), driver.Options{EnableTimings: true})
	if res.Timing == nil || len(res.Timing.Phases) != 4 {
		t.Fatalf("expected four timed phases, got %+v", res.Timing)
	}
	found := false
	for _, d := range res.Bag.Items() {
		if d.Code == diag.ObsTimings {
			found = len(d.Notes) == 1 && strings.Contains(d.Notes[0].Msg, `"phases"`)
		}
	}
	if !found {
		t.Fatal("timing diagnostic missing")
	}
}

func writeFiles(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func TestLintOrderIndependentOfJobs(t *testing.T) {
	root := t.TempDir()
	files := map[string]string{}
	for i, body := range []string{
		"%macro a;\n%mend;\n",
		"data x;\n\tset y;\nrun;   \n",
		"/** ok */\n%macro b();\n%mend b;\n",
		"%mend;\n",
		"%macro c(x, x);\n",
		"x = '{SAS002}ABCDEF';\n",
	} {
		files["f"+string(rune('0'+i))+".sas"] = body
	}
	writeFiles(t, root, files)

	render := func(jobs int) string {
		res, err := driver.Lint(context.Background(), root, driver.Options{Jobs: jobs})
		if err != nil {
			t.Fatal(err)
		}
		merged := res.Bag()
		if merged.Len() != res.Count(diag.SevError)+res.Count(diag.SevWarning)+res.Count(diag.SevInfo) {
			t.Fatalf("merged bag lost diagnostics")
		}
		return diag.FormatGoldenDiagnostics(merged.Items(), res.FileSet, false)
	}
	one, many := render(1), render(4)
	if one != many {
		t.Fatalf("output differs between jobs=1 and jobs=4:\n%s\n---\n%s", one, many)
	}
	if !strings.Contains(one, "f3.sas:1:1") {
		t.Fatalf("stray %%mend not reported:\n%s", one)
	}
}

func TestLintProgressEvents(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{"a.sas": "run;\n", "sub/b.sas": "run;\n"})
	sink := &pipeline.CollectSink{}
	if _, err := driver.Lint(context.Background(), root, driver.Options{Progress: sink, Jobs: 2}); err != nil {
		t.Fatal(err)
	}
	done := map[string]bool{}
	for _, ev := range sink.Events() {
		if ev.Status == pipeline.StatusDone {
			done[ev.File] = true
		}
	}
	if !done["a.sas"] || !done["sub/b.sas"] || len(done) != 2 {
		t.Fatalf("unexpected done events: %v", done)
	}
}

func TestCommentStatementQuoteKeepsLineState(t *testing.T) {
	for _, note := range []string{"* it's a note;", "%* don't;", "* its a note;"} {
		src := "/**\n  @file\n**/\n" + note + "\n%let x = 1;\n   %let y = 2;\n"
		fs, res := driver.LintSource(context.Background(), "test.sas", []byte(src), driver.Options{})
		got := short(fs, res)
		if !strings.Contains(got, "test.sas:6:") || !strings.Contains(got, "[indentationMultiple]") {
			t.Errorf("%q: indentation finding missing:\n%s", note, got)
		}
	}
}

func TestDataRecordsDoNotHideMacros(t *testing.T) {
	cfg := config.Default()
	cfg.HasMacroNameInMend = true
	src := "/**\n  @file\n**/\ndata a;\ninput name $;\ndatalines;\nO'Brien\n;\n%macro foo();\n%mend bar;\n"
	fs, res := driver.LintSource(context.Background(), "test.sas", []byte(src), driver.Options{Config: cfg})
	if len(res.Analysis.Definitions) != 1 {
		t.Fatalf("definitions = %d, want 1", len(res.Analysis.Definitions))
	}
	if got := short(fs, res); !strings.Contains(got, "test.sas:10:1") || !strings.Contains(got, "[hasMacroNameInMend]") {
		t.Fatalf("name mismatch not reported:\n%s", got)
	}
}
