package ui

import (
	"strings"
	"testing"

	"saslint/internal/pipeline"
)

func TestProgressModelAppliesEvents(t *testing.T) {
	events := make(chan pipeline.Event)
	m := NewProgressModel("lint", []string{"a.sas", "b.sas"}, events).(*progressModel)

	m.Update(eventMsg{File: "a.sas", Stage: pipeline.StageScan, Status: pipeline.StatusWorking})
	if got := m.items[0].status; got != "scanning" {
		t.Fatalf("status = %q, want scanning", got)
	}
	if got := m.percent(); got != 0.25 {
		t.Fatalf("percent = %v, want 0.25", got)
	}

	m.Update(eventMsg{File: "a.sas", Status: pipeline.StatusDone, Problems: 3})
	m.Update(eventMsg{File: "b.sas", Status: pipeline.StatusCached, Problems: 1})
	// события после завершения файла игнорируются
	m.Update(eventMsg{File: "b.sas", Stage: pipeline.StageRules, Status: pipeline.StatusWorking})
	m.Update(eventMsg{File: "unknown.sas", Status: pipeline.StatusDone, Problems: 9})

	if m.problems != 4 {
		t.Fatalf("problems = %d, want 4", m.problems)
	}
	if got := m.items[1].status; got != "cached" {
		t.Fatalf("status = %q, want cached", got)
	}
	if got := m.percent(); got != 1 {
		t.Fatalf("percent = %v, want 1", got)
	}

	view := m.View()
	if !strings.Contains(view, "2/2 files, 4 problems") {
		t.Fatalf("unexpected header:\n%s", view)
	}
	if !strings.Contains(view, "a.sas") || !strings.Contains(view, "(3)") {
		t.Fatalf("expected per-file problem count:\n%s", view)
	}
}

func TestProgressModelQuitsOnClose(t *testing.T) {
	events := make(chan pipeline.Event)
	close(events)
	m := NewProgressModel("lint", []string{"a.sas"}, events).(*progressModel)

	msg := m.listenForEvent()()
	if _, ok := msg.(doneMsg); !ok {
		t.Fatalf("expected doneMsg, got %T", msg)
	}
	_, cmd := m.Update(msg)
	if cmd == nil || !m.done {
		t.Fatalf("expected quit after close")
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short.sas", 20); got != "short.sas" {
		t.Fatalf("truncate = %q", got)
	}
	if got := truncate("a/very/long/path/file.sas", 10); got != "a/very/..." {
		t.Fatalf("truncate = %q", got)
	}
	if got := truncate("abcdef", 2); got != "ab" {
		t.Fatalf("truncate = %q", got)
	}
}
