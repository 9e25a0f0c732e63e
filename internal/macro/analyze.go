package macro

import (
	"fmt"
	"iter"
	"slices"
	"strings"

	"saslint/internal/source"
	"saslint/internal/token"
)

// Options configure the structural checks.
type Options struct {
	// CaseSensitiveMendName compares %mend names exactly instead of case-folded.
	CaseSensitiveMendName bool
	// RequiredOptions are parameter names every definition must declare.
	RequiredOptions []string
}

// Frame is one open macro definition on the tracker stack.
type Frame struct {
	Name       string
	Open       source.LineCol
	Statement  token.Statement
	ParenDepth int

	def int // index into Analysis.Definitions
}

// Definition is one %macro ... %mend block found in the file.
type Definition struct {
	Name   string
	Header Header
	Open   token.Statement
	// Close is nil for an unterminated definition.
	Close *token.Statement
	// Depth is 1 for a top-level definition.
	Depth  int
	Parent string
}

// Analysis is the immutable result of one Analyze call.
type Analysis struct {
	Definitions []Definition
	Findings    []Finding
	// Statements is the number of statements consumed, comments included.
	Statements int
}

// Of returns the findings of the given kinds in source order.
func (a *Analysis) Of(kinds ...FindingKind) []Finding {
	var out []Finding
	for _, f := range a.Findings {
		if slices.Contains(kinds, f.Kind) {
			out = append(out, f)
		}
	}
	return out
}

// Balanced reports whether every %macro had a %mend and vice versa.
func (a *Analysis) Balanced() bool {
	return len(a.Of(Unterminated, StrayMend)) == 0
}

type tracker struct {
	opts     Options
	stack    []Frame
	analysis *Analysis
}

// Analyze folds the statement stream of one file and reports every
// structural finding. It never stops at the first problem.
func Analyze(stmts iter.Seq[token.Statement], opts Options) *Analysis {
	t := &tracker{opts: opts, analysis: &Analysis{}}
	for st := range stmts {
		t.analysis.Statements++
		if !st.IsMacroBoundary() {
			continue
		}
		switch st.Kind {
		case token.MacroOpen:
			t.open(st)
		case token.MacroClose:
			t.close(st)
		}
	}
	t.finish()
	return t.analysis
}

func (t *tracker) report(kind FindingKind, name string, st token.Statement, msg string) {
	t.analysis.Findings = append(t.analysis.Findings, Finding{
		Kind:    kind,
		Macro:   name,
		Pos:     st.Start,
		Span:    st.Span,
		Message: msg,
	})
}

func (t *tracker) open(st token.Statement) {
	h := ParseHeader(st.Text)
	def := Definition{
		Name:   h.Name,
		Header: h,
		Open:   st,
		Depth:  len(t.stack) + 1,
	}
	if len(t.stack) > 0 {
		parent := t.stack[len(t.stack)-1]
		def.Parent = parent.Name
		t.report(Nested, h.Name, st, fmt.Sprintf("macro %q is defined inside macro %q", h.Name, parent.Name))
	}

	for _, is := range h.Issues {
		t.report(is.Kind, h.Name, st, is.Message)
	}
	if h.Name != "" {
		switch {
		case !h.HasParens:
			t.report(MissingParens, h.Name, st, fmt.Sprintf("macro definition %q is missing parentheses", h.Name))
		case h.SpaceBeforeParens:
			t.report(SpaceBeforeParens, h.Name, st, fmt.Sprintf("macro definition %q has space(s) between the name and parentheses", h.Name))
		}
	}
	if h.Balanced && len(t.opts.RequiredOptions) > 0 {
		var missing []string
		for _, opt := range t.opts.RequiredOptions {
			if !h.HasParam(opt) {
				missing = append(missing, opt)
			}
		}
		if len(missing) > 0 {
			t.report(MissingOption, h.Name, st, fmt.Sprintf("macro %q is missing required option(s): %s", h.Name, strings.Join(missing, ", ")))
		}
	}

	t.analysis.Definitions = append(t.analysis.Definitions, def)
	// Вложенный %macro всё равно кладём на стек, иначе его %mend закроет внешний.
	t.stack = append(t.stack, Frame{
		Name:       h.Name,
		Open:       st.Start,
		Statement:  st,
		ParenDepth: h.ParenDepth,
		def:        len(t.analysis.Definitions) - 1,
	})
}

func (t *tracker) close(st token.Statement) {
	name := mendName(st)
	if len(t.stack) == 0 {
		t.report(StrayMend, name, st, "%mend statement without a matching %macro")
		return
	}
	top := t.stack[len(t.stack)-1]
	t.stack = t.stack[:len(t.stack)-1]
	closed := st
	t.analysis.Definitions[top.def].Close = &closed

	switch {
	case name == "":
		t.report(MissingMendName, top.Name, st, fmt.Sprintf("%%mend statement is missing macro name %q", top.Name))
	case !SameName(name, top.Name, t.opts.CaseSensitiveMendName):
		t.report(NameMismatch, top.Name, st, fmt.Sprintf("%%mend statement names %q but closes macro %q", name, top.Name))
	}
}

func (t *tracker) finish() {
	for i := len(t.stack) - 1; i >= 0; i-- {
		fr := t.stack[i]
		t.report(Unterminated, fr.Name, fr.Statement, fmt.Sprintf("macro %q is missing a %%mend statement", fr.Name))
	}
	t.stack = nil
}

// mendName returns the name echoed by a %mend statement, or "".
func mendName(st token.Statement) string {
	if st.Keyword() != "%mend" {
		return ""
	}
	body := st.Body()
	if i := strings.IndexFunc(body, func(r rune) bool { return r == ' ' || r == '\t' || r == '\n' || r == '\r' }); i >= 0 {
		body = body[:i]
	}
	return body
}
