package diag_test

import (
	"testing"

	"saslint/internal/diag"
	"saslint/internal/source"
)

func TestBagCapAndCounts(t *testing.T) {
	bag := diag.NewBag(2)
	if !bag.Add(diag.NewError(diag.MacNested, source.Span{}, "a")) {
		t.Fatal("first add rejected")
	}
	bag.Add(diag.New(diag.SevWarning, diag.LineTab, source.Span{}, "b"))
	if bag.Add(diag.NewError(diag.MacNested, source.Span{}, "c")) {
		t.Fatal("add beyond cap accepted")
	}
	if bag.Len() != 2 || !bag.HasErrors() || !bag.HasWarnings() {
		t.Fatalf("unexpected bag state: len=%d", bag.Len())
	}
	if bag.Count(diag.SevWarning) != 1 || bag.Count(diag.SevError) != 1 {
		t.Fatalf("counts: %d warnings, %d errors", bag.Count(diag.SevWarning), bag.Count(diag.SevError))
	}

	unlimited := diag.NewBag(0)
	if unlimited.Cap() != 65535 {
		t.Fatalf("cap = %d", unlimited.Cap())
	}
}

func TestBagSortByPosition(t *testing.T) {
	bag := diag.NewBag(10)
	add := func(line, col uint32, sev diag.Severity, code diag.Code) {
		d := diag.New(sev, code, source.Span{}, "m")
		d.Pos = source.LineCol{Line: line, Col: col}
		bag.Add(d)
	}
	add(3, 1, diag.SevWarning, diag.LineTab)
	add(1, 5, diag.SevWarning, diag.LineTrailingSpaces)
	add(1, 5, diag.SevError, diag.MacNested)
	add(1, 2, diag.SevWarning, diag.LineTab)
	bag.Sort()

	want := []diag.Code{diag.LineTab, diag.MacNested, diag.LineTrailingSpaces, diag.LineTab}
	for i, d := range bag.Items() {
		if d.Code != want[i] {
			t.Errorf("item %d: code %s, want %s", i, d.Code.ID(), want[i].ID())
		}
	}
}

func TestBagDedupFilterTransform(t *testing.T) {
	bag := diag.NewBag(10)
	d := diag.New(diag.SevWarning, diag.LineTab, source.Span{Start: 1, End: 2}, "tab")
	d.Rule = "noTabs"
	bag.Add(d)
	bag.Add(d)
	bag.Add(diag.New(diag.SevWarning, diag.LineTooLong, source.Span{}, "long"))
	bag.Dedup()
	if bag.Len() != 2 {
		t.Fatalf("dedup left %d items", bag.Len())
	}

	bag.Transform(func(d *diag.Diagnostic) { d.Severity = diag.SevError })
	if bag.Count(diag.SevError) != 2 {
		t.Fatal("transform did not promote warnings")
	}
	bag.Filter(func(d diag.Diagnostic) bool { return d.Code != diag.LineTab })
	if bag.Len() != 1 || bag.Items()[0].Code != diag.LineTooLong {
		t.Fatalf("filter result: %+v", bag.Items())
	}
}

func TestBagMerge(t *testing.T) {
	a := diag.NewBag(1)
	a.Add(diag.NewError(diag.MacNested, source.Span{}, "a"))
	b := diag.NewBag(2)
	b.Add(diag.NewError(diag.MacNested, source.Span{}, "b"))
	b.Add(diag.NewError(diag.MacNested, source.Span{}, "c"))
	a.Merge(b)
	if a.Len() != 3 || a.Cap() != 3 {
		t.Fatalf("merge: len=%d cap=%d", a.Len(), a.Cap())
	}
}

func TestReporters(t *testing.T) {
	bag := diag.NewBag(10)
	r := diag.NewDedupReporter(diag.BagReporter{Bag: bag})
	for range 3 {
		diag.ReportWarning(r, diag.LineTab, source.Span{Start: 4, End: 5}, "tab").
			WithRule("noTabs").
			At(source.LineCol{Line: 2, Col: 1}).
			Emit()
	}
	b := diag.ReportError(r, diag.MacNested, source.Span{}, "nested").WithRule("noNestedMacros")
	b.Emit()
	b.Emit()

	if bag.Len() != 2 {
		t.Fatalf("bag has %d items, want 2", bag.Len())
	}
	first := bag.Items()[0]
	if first.Rule != "noTabs" || first.Pos.Line != 2 || first.Severity != diag.SevWarning {
		t.Errorf("first = %+v", first)
	}
}

func TestParseSeverity(t *testing.T) {
	for in, want := range map[string]diag.Severity{"warn": diag.SevWarning, "ERROR": diag.SevError, "warning": diag.SevWarning} {
		got, err := diag.ParseSeverity(in)
		if err != nil || got != want {
			t.Errorf("ParseSeverity(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := diag.ParseSeverity("fatal"); err == nil {
		t.Error("expected error for unknown severity")
	}
}
