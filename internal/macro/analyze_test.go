package macro_test

import (
	"reflect"
	"slices"
	"strings"
	"testing"

	"saslint/internal/lexer"
	"saslint/internal/macro"
	"saslint/internal/source"
)

func analyze(t *testing.T, text string, opts macro.Options) *macro.Analysis {
	t.Helper()
	stmts, _ := lexer.ScanText("test.sas", text)
	return macro.Analyze(slices.Values(stmts), opts)
}

func kinds(fs []macro.Finding) []macro.FindingKind {
	out := make([]macro.FindingKind, 0, len(fs))
	for _, f := range fs {
		out = append(out, f.Kind)
	}
	return out
}

func TestWellFormedHasNoFindings(t *testing.T) {
	inputs := []string{
		"%macro foo(); %put hi; %mend foo;",
		"%macro foo();\n  %put hi;\n%mend foo;\n%macro bar(a, b=2) / minoperator;\n%mend bar;",
		"%MACRO Foo(x=%str(a,b)) / des='Test macro' mindelimiter=',';\n%MEND foo;",
		"%put '%macro x;'; /* %mend; */ * %macro y;\n%* %mend;",
	}
	for _, in := range inputs {
		a := analyze(t, in, macro.Options{})
		if len(a.Findings) != 0 {
			t.Errorf("%q: unexpected findings %v", in, a.Findings)
		}
		if !a.Balanced() {
			t.Errorf("%q: expected balanced analysis", in)
		}
	}
}

func TestNestedMacro(t *testing.T) {
	a := analyze(t, "%macro foo(); %macro bar(); %mend bar; %mend foo;", macro.Options{})
	if len(a.Findings) != 1 {
		t.Fatalf("findings = %v, want exactly one", a.Findings)
	}
	f := a.Findings[0]
	if f.Kind != macro.Nested || f.Macro != "bar" {
		t.Fatalf("finding = %+v", f)
	}
	if f.Pos != (source.LineCol{Line: 1, Col: 15}) {
		t.Errorf("nested finding at %v, want 1:15", f.Pos)
	}
	if len(a.Definitions) != 2 {
		t.Fatalf("definitions = %d", len(a.Definitions))
	}
	inner := a.Definitions[1]
	if inner.Depth != 2 || inner.Parent != "foo" || inner.Close == nil || inner.Close.Text != "%mend bar;" {
		t.Errorf("inner definition = %+v", inner)
	}
	if outer := a.Definitions[0]; outer.Close == nil || outer.Close.Text != "%mend foo;" {
		t.Errorf("outer definition closed by %v", outer.Close)
	}
}

func TestNameMismatchPopsFrame(t *testing.T) {
	a := analyze(t, "%macro foo(); %put x; %mend bar;", macro.Options{})
	if got := kinds(a.Findings); !reflect.DeepEqual(got, []macro.FindingKind{macro.NameMismatch}) {
		t.Fatalf("findings = %v", a.Findings)
	}
	if pos := a.Findings[0].Pos; pos != (source.LineCol{Line: 1, Col: 23}) {
		t.Errorf("mismatch at %v, want 1:23", pos)
	}
	if !a.Balanced() {
		t.Error("mismatched %mend must still close the frame")
	}
}

func TestMendNameComparison(t *testing.T) {
	in := "%macro Foo(); %mend FOO;"
	if a := analyze(t, in, macro.Options{}); len(a.Findings) != 0 {
		t.Errorf("case-insensitive: findings %v", a.Findings)
	}
	a := analyze(t, in, macro.Options{CaseSensitiveMendName: true})
	if got := kinds(a.Findings); !reflect.DeepEqual(got, []macro.FindingKind{macro.NameMismatch}) {
		t.Errorf("case-sensitive: findings %v", a.Findings)
	}

	if !macro.SameName("caf\u00e9", "cafe\u0301", true) {
		t.Error("NFC-equivalent names should match")
	}
	if !macro.SameName("ÄBC", "äbc", false) {
		t.Error("case folding should match non-ASCII letters")
	}
	if macro.SameName("ÄBC", "äbc", true) {
		t.Error("case-sensitive comparison should differ")
	}
}

func TestMissingMendName(t *testing.T) {
	a := analyze(t, "%macro a(); %mend;", macro.Options{})
	if got := kinds(a.Findings); !reflect.DeepEqual(got, []macro.FindingKind{macro.MissingMendName}) {
		t.Fatalf("findings = %v", a.Findings)
	}
}

func TestUnterminatedAndStray(t *testing.T) {
	a := analyze(t, "%macro a();\n%macro b();\n", macro.Options{})
	un := a.Of(macro.Unterminated)
	if len(un) != 2 {
		t.Fatalf("unterminated = %v", un)
	}
	if un[0].Macro != "b" || un[0].Pos.Line != 2 || un[1].Macro != "a" || un[1].Pos.Line != 1 {
		t.Errorf("unterminated order/positions = %+v", un)
	}
	if a.Definitions[0].Close != nil {
		t.Error("unterminated definition must have no close")
	}

	a = analyze(t, "%put x;\n%mend;", macro.Options{})
	if got := kinds(a.Findings); !reflect.DeepEqual(got, []macro.FindingKind{macro.StrayMend}) {
		t.Fatalf("findings = %v", a.Findings)
	}
	if a.Findings[0].Pos.Line != 2 || a.Balanced() {
		t.Errorf("stray %%mend finding = %+v", a.Findings[0])
	}
}

func TestParenImbalance(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []macro.FindingKind
	}{
		{name: "missing close", in: "%macro foo(arg1, arg2; %mend foo;", want: []macro.FindingKind{macro.ParenImbalance}},
		{name: "close before open", in: "%macro f)(; %mend f;", want: []macro.FindingKind{macro.ParenImbalance, macro.MissingParens}},
		{name: "params skipped", in: "%macro f(1a, 1a; %mend f;", want: []macro.FindingKind{macro.ParenImbalance}},
		{name: "paren in string", in: "%macro f(a=')'); %mend f;", want: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := analyze(t, tt.in, macro.Options{RequiredOptions: []string{"debug"}})
			got := kinds(a.Findings)
			if tt.want == nil {
				got = kinds(a.Of(macro.ParenImbalance, macro.InvalidParam))
			}
			if len(got) != len(tt.want) || (len(got) > 0 && !reflect.DeepEqual(got, tt.want)) {
				t.Fatalf("findings = %v, want kinds %v", a.Findings, tt.want)
			}
			for _, f := range a.Of(macro.ParenImbalance) {
				if f.Pos != (source.LineCol{Line: 1, Col: 1}) {
					t.Errorf("imbalance at %v, want 1:1", f.Pos)
				}
			}
		})
	}
}

func TestParentheses(t *testing.T) {
	a := analyze(t, "%macro foo;\n%mend foo;\n%macro bar (a);\n%mend bar;", macro.Options{})
	got := kinds(a.Findings)
	want := []macro.FindingKind{macro.MissingParens, macro.SpaceBeforeParens}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("findings = %v", a.Findings)
	}
	if a.Findings[1].Pos.Line != 3 {
		t.Errorf("space finding on line %d", a.Findings[1].Pos.Line)
	}
}

func TestStrictDefinition(t *testing.T) {
	tests := []struct {
		in      string
		kind    macro.FindingKind
		count   int
		message string
	}{
		{in: "%macro 1foo(); %mend 1foo;", kind: macro.InvalidName, count: 1, message: "not a valid SAS name"},
		{in: "%macro let(); %mend let;", kind: macro.InvalidName, count: 1, message: "reserved word"},
		{in: "%macro " + strings.Repeat("x", 33) + "(); %mend;", kind: macro.InvalidName, count: 1},
		{in: "%macro (); %mend;", kind: macro.InvalidName, count: 1, message: "missing a name"},
		{in: "%macro f(a, 2b, A); %mend f;", kind: macro.InvalidParam, count: 2},
		{in: "%macro f(a,,b); %mend f;", kind: macro.InvalidParam, count: 1, message: "empty parameter #2"},
		{in: "%macro f() / minoperator des='x' bogus secure=1; %mend f;", kind: macro.InvalidOption, count: 2},
		{in: "%macro f() / mindelimiter; %mend f;", kind: macro.InvalidOption, count: 1, message: "requires a value"},
		{in: "%macro f() /; %mend f;", kind: macro.InvalidOption, count: 1, message: "empty option list"},
		{in: "%macro f(a) x; %mend f;", kind: macro.InvalidOption, count: 1, message: "options must follow"},
		{in: "%macro f(a) / STORE SOURCE; %mend f;", kind: macro.InvalidOption, count: 0},
	}
	for _, tt := range tests {
		a := analyze(t, tt.in, macro.Options{})
		got := a.Of(tt.kind)
		if len(got) != tt.count {
			t.Errorf("%q: %v findings = %v, want %d", tt.in, tt.kind, got, tt.count)
			continue
		}
		if tt.message != "" && !strings.Contains(got[0].Message, tt.message) {
			t.Errorf("%q: message %q does not contain %q", tt.in, got[0].Message, tt.message)
		}
	}
}

func TestRequiredOptions(t *testing.T) {
	opts := macro.Options{RequiredOptions: []string{"debug", "outds"}}

	a := analyze(t, "%macro f(debug=NO, outds_x=1); %mend f;", opts)
	got := a.Of(macro.MissingOption)
	if len(got) != 1 {
		t.Fatalf("missing options = %v", got)
	}
	if !strings.HasSuffix(got[0].Message, ": outds") {
		t.Errorf("message = %q", got[0].Message)
	}

	a = analyze(t, "%macro g(DEBUG, OutDs=work.x); %mend g;", opts)
	if len(a.Of(macro.MissingOption)) != 0 {
		t.Errorf("unexpected findings %v", a.Findings)
	}

	a = analyze(t, "%macro h; %mend h;", opts)
	if got := a.Of(macro.MissingOption); len(got) != 1 || !strings.HasSuffix(got[0].Message, "debug, outds") {
		t.Errorf("no-parens header: %v", got)
	}
}

func TestPositionAfterMultilineComment(t *testing.T) {
	in := "/*\n  header\n  more\n*/\n%macro foo();\n%macro bar();%mend bar;\n%mend foo;"
	a := analyze(t, in, macro.Options{})
	nested := a.Of(macro.Nested)
	if len(nested) != 1 || nested[0].Pos != (source.LineCol{Line: 6, Col: 1}) {
		t.Fatalf("nested = %+v", nested)
	}
}

func TestAnalyzeIsIdempotent(t *testing.T) {
	in := "%macro a(x; %macro b(); %mend c; %mend;\n%mend;"
	first := analyze(t, in, macro.Options{})
	second := analyze(t, in, macro.Options{})
	if !reflect.DeepEqual(first, second) {
		t.Fatal("two analyses of the same input differ")
	}
	if first.Statements != 5 {
		t.Errorf("statements = %d, want 5", first.Statements)
	}
}
