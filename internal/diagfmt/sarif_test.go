package diagfmt

import (
	"bytes"
	"encoding/json"
	"testing"

	"saslint/internal/diag"
	"saslint/internal/source"
)

func TestBuildSarif(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("prog.sas", []byte("%macro a;\ndata x;   \n"))

	bag := diag.NewBag(8)
	unterminated := diag.NewError(diag.MacUnterminated, source.Span{File: fileID, Start: 0, End: 9}, `macro "a" is not terminated`)
	unterminated.Rule = "noUnterminatedMacros"
	bag.Add(unterminated)
	trailing := diag.New(diag.SevWarning, diag.LineTrailingSpaces, source.Span{File: fileID, Start: 17, End: 20}, "Line contains trailing spaces")
	trailing.Pos = source.LineCol{Line: 2, Col: 8}
	bag.Add(trailing)
	bag.Add(diag.New(diag.SevInfo, diag.ObsTimings, source.Span{File: fileID}, "timings"))
	bag.Add(diag.New(diag.SevInfo, diag.MacInfo, source.Span{File: fileID, Start: 0, End: 0}, "info"))

	report := BuildSarif(bag, fs, SarifRunMeta{
		ToolName:    "saslint",
		ToolVersion: "1.2.3",
		Rules:       []SarifRule{{ID: "noUnterminatedMacros", Description: "Macros must end with %mend"}},
		PathMode:    PathModeBasename,
	})

	if report.Version != SarifVersion || report.Schema != SarifSchemaURI {
		t.Fatalf("unexpected header: %s %s", report.Version, report.Schema)
	}
	run := report.Runs[0]
	if run.Tool.Driver.Name != "saslint" || run.Tool.Driver.Version != "1.2.3" {
		t.Errorf("unexpected driver: %+v", run.Tool.Driver)
	}
	if len(run.Tool.Driver.Rules) != 1 || run.Tool.Driver.Rules[0].ShortDescription.Text != "Macros must end with %mend" {
		t.Errorf("unexpected rules: %+v", run.Tool.Driver.Rules)
	}
	if len(run.Results) != 3 {
		t.Fatalf("expected timings to be skipped, got %d results", len(run.Results))
	}

	first := run.Results[0]
	if first.RuleID != "noUnterminatedMacros" || first.Level != "error" {
		t.Errorf("unexpected first result: %+v", first)
	}
	if first.Message.Text != `MAC1001: macro "a" is not terminated` {
		t.Errorf("unexpected message: %q", first.Message.Text)
	}
	loc := first.Locations[0].PhysicalLocation
	if loc.ArtifactLocation.URI != "prog.sas" {
		t.Errorf("unexpected uri: %q", loc.ArtifactLocation.URI)
	}
	if loc.Region != (SarifRegion{StartLine: 1, StartColumn: 1, EndLine: 1, EndColumn: 10}) {
		t.Errorf("unexpected region: %+v", loc.Region)
	}

	second := run.Results[1]
	if second.Level != "warning" || second.RuleID != "LIN3001" {
		t.Errorf("rule id must fall back to the code: %+v", second)
	}
	if r := second.Locations[0].PhysicalLocation.Region; r.StartLine != 2 || r.StartColumn != 8 {
		t.Errorf("reported position must win: %+v", r)
	}

	third := run.Results[2]
	if third.Level != "note" {
		t.Errorf("info must map to note, got %q", third.Level)
	}
	if r := third.Locations[0].PhysicalLocation.Region; r.EndLine != 0 || r.EndColumn != 0 {
		t.Errorf("empty span must not carry an end: %+v", r)
	}
}

func TestSarifWritesJSON(t *testing.T) {
	fs, bag := nestedMacroBag()

	var buf bytes.Buffer
	if err := Sarif(&buf, bag, fs, SarifRunMeta{ToolName: "saslint", PathMode: PathModeBasename}); err != nil {
		t.Fatal(err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("invalid SARIF JSON: %v", err)
	}
	if decoded["version"] != "2.1.0" {
		t.Fatalf("unexpected version: %v", decoded["version"])
	}
}

func TestFormatFileURI(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"/tmp/a.sas", "file:///tmp/a.sas"},
		{"src/a.sas", "src/a.sas"},
	}
	for _, tt := range tests {
		if got := formatFileURI(tt.in); got != tt.want {
			t.Errorf("formatFileURI(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
