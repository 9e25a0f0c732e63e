package fix

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"saslint/internal/diag"
	"saslint/internal/source"
)

func TestGatherCandidatesSkipsDuplicateFixIDs(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("test.sas", []byte(""))
	span := source.Span{File: fileID, Start: 0, End: 0}

	diagnostics := []diag.Diagnostic{{
		Code:    diag.MacMissingMendName,
		Message: "missing name",
		Primary: span,
		Fixes: []diag.Fix{
			{
				ID:    "fix-duplicate",
				Title: "add name",
				Edits: []diag.TextEdit{{Span: span, NewText: " m"}},
			},
			{
				ID:    "fix-duplicate",
				Title: "add name again",
				Edits: []diag.TextEdit{{Span: span, NewText: " m"}},
			},
			{
				Title: "empty",
			},
		},
	}}

	candidates, skips := gatherCandidates(diagnostics)
	if len(candidates) != 1 {
		t.Fatalf("expected 1 candidate, got %d", len(candidates))
	}
	if len(skips) != 2 {
		t.Fatalf("expected 2 skipped fixes, got %d", len(skips))
	}
	if skips[0].ID != "fix-duplicate" || skips[0].Reason != "duplicate fix id" {
		t.Fatalf("unexpected first skip: %+v", skips[0])
	}
	if skips[1].Reason != "fix has no edits" {
		t.Fatalf("unexpected second skip: %+v", skips[1])
	}
}

func TestGatherCandidatesSynthesizesIDs(t *testing.T) {
	span := source.Span{File: 0, Start: 7, End: 7}
	candidates, _ := gatherCandidates([]diag.Diagnostic{{
		Code:    diag.MacMissingParens,
		Primary: span,
		Fixes:   []diag.Fix{*InsertText("add ()", span, "()")},
	}})
	if len(candidates) != 1 || candidates[0].fix.ID != "MAC1006-0-7-0" {
		t.Fatalf("unexpected candidates: %+v", candidates)
	}
}

// lintFile writes content to disk and returns a FileSet holding it.
func lintFile(t *testing.T, content string) (*source.FileSet, source.FileID, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "prog.sas")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	fs := source.NewFileSet()
	id, err := fs.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	return fs, id, path
}

func fixDiag(code diag.Code, fix *diag.Fix) diag.Diagnostic {
	sp := fix.Edits[0].Span
	d := diag.New(diag.SevWarning, code, sp, code.Title())
	return d.WithFixSuggestion(*fix)
}

func TestApplyAllWritesFile(t *testing.T) {
	fs, id, path := lintFile(t, "%macro m ();   \n%mend;\n")

	diagnostics := []diag.Diagnostic{
		fixDiag(diag.LineTrailingSpaces, DeleteSpan("remove trailing spaces", source.Span{File: id, Start: 12, End: 15}, "   ")),
		fixDiag(diag.MacSpaceBeforeParens, DeleteSpan("remove space", source.Span{File: id, Start: 8, End: 9}, " ")),
		fixDiag(diag.MacMissingMendName, InsertText("add name", source.Span{File: id, Start: 21}, " m", Preferred())),
	}

	res, err := Apply(fs, diagnostics, ApplyOptions{Mode: ApplyModeAll})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if len(res.Applied) != 3 {
		t.Fatalf("expected 3 applied fixes, got %+v (skipped %+v)", res.Applied, res.Skipped)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if want := "%macro m();\n%mend m;\n"; string(got) != want {
		t.Fatalf("file content = %q, want %q", got, want)
	}
	if len(res.FileChanges) != 1 || res.FileChanges[0].EditCount != 3 {
		t.Fatalf("unexpected file changes: %+v", res.FileChanges)
	}
}

func TestApplyAllRespectsApplicability(t *testing.T) {
	fs, id, path := lintFile(t, "%macro m;\n%mend m;\n")

	parens := InsertText("add ()", source.Span{File: id, Start: 8}, "()",
		WithApplicability(diag.FixApplicabilitySafeWithHeuristics))
	diagnostics := []diag.Diagnostic{fixDiag(diag.MacMissingParens, parens)}

	res, err := Apply(fs, diagnostics, ApplyOptions{Mode: ApplyModeAll})
	if !errors.Is(err, ErrNoFixes) {
		t.Fatalf("expected ErrNoFixes, got %v", err)
	}
	if len(res.Skipped) != 1 {
		t.Fatalf("expected heuristic fix to be skipped, got %+v", res.Skipped)
	}

	res, err = Apply(fs, diagnostics, ApplyOptions{Mode: ApplyModeAll, MaxApplicability: diag.FixApplicabilitySafeWithHeuristics})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	got, _ := os.ReadFile(path)
	if string(got) != "%macro m();\n%mend m;\n" {
		t.Fatalf("unexpected content %q", got)
	}
	if len(res.Applied) != 1 {
		t.Fatalf("expected one applied fix, got %+v", res.Applied)
	}
}

func TestApplyOnceSelectsFirst(t *testing.T) {
	fs, id, _ := lintFile(t, "a;  \nb;  \n")

	diagnostics := []diag.Diagnostic{
		fixDiag(diag.LineTrailingSpaces, DeleteSpan("trim", source.Span{File: id, Start: 2, End: 4}, "  ")),
		fixDiag(diag.LineTrailingSpaces, DeleteSpan("trim", source.Span{File: id, Start: 7, End: 9}, "  ")),
	}
	res, err := Apply(fs, diagnostics, ApplyOptions{Mode: ApplyModeOnce, DryRun: true})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if len(res.Applied) != 1 || string(res.FileChanges[0].Content) != "a;\nb;  \n" {
		t.Fatalf("unexpected result: %+v", res.FileChanges)
	}
}

func TestApplyByID(t *testing.T) {
	fs, id, _ := lintFile(t, "%macro m;\n%mend;\n")

	diagnostics := []diag.Diagnostic{
		fixDiag(diag.MacMissingParens, InsertText("add ()", source.Span{File: id, Start: 8}, "()",
			WithID("parens"), WithApplicability(diag.FixApplicabilityManualReview))),
		fixDiag(diag.MacMissingMendName, InsertText("add name", source.Span{File: id, Start: 15}, " m", WithID("mend"))),
	}

	res, err := Apply(fs, diagnostics, ApplyOptions{Mode: ApplyModeID, TargetID: "parens", DryRun: true})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if len(res.Applied) != 1 || res.Applied[0].ID != "parens" {
		t.Fatalf("unexpected applied: %+v", res.Applied)
	}
	if got := string(res.FileChanges[0].Content); got != "%macro m();\n%mend;\n" {
		t.Fatalf("unexpected content %q", got)
	}

	res, err = Apply(fs, diagnostics, ApplyOptions{Mode: ApplyModeID, TargetID: "missing"})
	if !errors.Is(err, ErrNoFixes) || len(res.Skipped) != 1 || res.Skipped[0].Reason != "fix id not found" {
		t.Fatalf("expected missing id skip, got %v %+v", err, res.Skipped)
	}
}

func TestApplySkipsConflictsAndStaleText(t *testing.T) {
	fs, id, _ := lintFile(t, "x = 1;   \n")

	diagnostics := []diag.Diagnostic{
		fixDiag(diag.LineTrailingSpaces, DeleteSpan("trim", source.Span{File: id, Start: 6, End: 9}, "   ")),
		fixDiag(diag.LineTrailingSpaces, ReplaceSpan("overlap", source.Span{File: id, Start: 7, End: 9}, "", "  ", WithID("overlap"))),
		fixDiag(diag.LineTab, ReplaceSpan("stale", source.Span{File: id, Start: 0, End: 1}, "y", "z", WithID("stale"))),
	}
	res, err := Apply(fs, diagnostics, ApplyOptions{Mode: ApplyModeAll, DryRun: true})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if len(res.Applied) != 1 {
		t.Fatalf("expected 1 applied fix, got %+v", res.Applied)
	}
	reasons := map[string]string{}
	for _, s := range res.Skipped {
		reasons[s.ID] = s.Reason
	}
	if reasons["stale"] != "existing text does not match expected content" {
		t.Errorf("unexpected stale reason: %q", reasons["stale"])
	}
	if reasons["overlap"] == "" {
		t.Errorf("expected overlapping fix to be skipped, got %+v", res.Skipped)
	}
}

func TestApplyVirtualNeedsDryRun(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("<stdin>", []byte("run;  \n"))
	diagnostics := []diag.Diagnostic{
		fixDiag(diag.LineTrailingSpaces, DeleteSpan("trim", source.Span{File: id, Start: 4, End: 6}, "  ")),
	}

	res, err := Apply(fs, diagnostics, ApplyOptions{Mode: ApplyModeAll})
	if !errors.Is(err, ErrNoFixes) || res.Skipped[0].Reason != "target file is virtual" {
		t.Fatalf("expected virtual skip, got %v %+v", err, res.Skipped)
	}

	res, err = Apply(fs, diagnostics, ApplyOptions{Mode: ApplyModeAll, DryRun: true})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if got := string(res.FileChanges[0].Content); got != "run;\n" {
		t.Fatalf("unexpected content %q", got)
	}
}

func TestSpansConflict(t *testing.T) {
	edit := func(s, e uint32) diag.TextEdit { return diag.TextEdit{Span: source.Span{Start: s, End: e}} }
	tests := []struct {
		a, b diag.TextEdit
		want bool
	}{
		{edit(0, 0), edit(0, 0), false},
		{edit(2, 2), edit(0, 4), true},
		{edit(4, 4), edit(0, 4), false},
		{edit(0, 3), edit(2, 5), true},
		{edit(0, 2), edit(2, 5), false},
	}
	for _, tt := range tests {
		if got := spansConflict(tt.a, tt.b); got != tt.want {
			t.Errorf("spansConflict(%v, %v) = %v, want %v", tt.a.Span, tt.b.Span, got, tt.want)
		}
	}
}
