package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"saslint/internal/lexer"
	"saslint/internal/macro"
	"saslint/internal/source"
	"saslint/internal/token"
)

// StatementsOpts configures the statement dump.
type StatementsOpts struct {
	Color    bool
	PathMode PathMode
	// Width truncates statement text; 0 means no limit.
	Width int
}

// PositionJSON is a 1-based line/column pair.
type PositionJSON struct {
	Line uint32 `json:"line"`
	Col  uint32 `json:"col"`
}

// StatementJSON is one scanned statement.
type StatementJSON struct {
	Kind      string       `json:"kind"`
	Text      string       `json:"text"`
	Start     PositionJSON `json:"start"`
	End       PositionJSON `json:"end"`
	StartByte uint32       `json:"start_byte"`
	EndByte   uint32       `json:"end_byte"`
}

// MacroJSON is one %macro ... %mend definition.
type MacroJSON struct {
	Name   string        `json:"name"`
	Depth  int           `json:"depth"`
	Parent string        `json:"parent,omitempty"`
	Open   PositionJSON  `json:"open"`
	Close  *PositionJSON `json:"close,omitempty"`
	Params []string      `json:"params,omitempty"`
}

// StatementsOutput is the JSON root of the statement dump.
type StatementsOutput struct {
	File       string          `json:"file"`
	Statements []StatementJSON `json:"statements"`
	Macros     []MacroJSON     `json:"macros,omitempty"`
	State      string          `json:"state"`
	Since      *PositionJSON   `json:"since,omitempty"`
}

func positionJSON(lc source.LineCol) PositionJSON {
	return PositionJSON{Line: lc.Line, Col: lc.Col}
}

// BuildStatementsOutput assembles the dump without serializing it.
func BuildStatementsOutput(fs *source.FileSet, id source.FileID, res lexer.Result, analysis *macro.Analysis, pathMode PathMode) StatementsOutput {
	out := StatementsOutput{
		File:       formatPath(fs.Get(id), fs, pathMode),
		Statements: make([]StatementJSON, 0, len(res.Statements)),
		State:      res.State.String(),
	}
	for _, st := range res.Statements {
		out.Statements = append(out.Statements, StatementJSON{
			Kind:      st.Kind.String(),
			Text:      st.Text,
			Start:     positionJSON(st.Start),
			End:       positionJSON(st.End),
			StartByte: st.Span.Start,
			EndByte:   st.Span.End,
		})
	}
	if !res.State.Clean() {
		since := positionJSON(res.Since)
		out.Since = &since
	}
	if analysis != nil {
		for _, def := range analysis.Definitions {
			m := MacroJSON{
				Name:   def.Name,
				Depth:  def.Depth,
				Parent: def.Parent,
				Open:   positionJSON(def.Open.Start),
			}
			if def.Close != nil {
				c := positionJSON(def.Close.Start)
				m.Close = &c
			}
			for _, p := range def.Header.Params {
				m.Params = append(m.Params, p.Name)
			}
			out.Macros = append(out.Macros, m)
		}
	}
	return out
}

// StatementsJSON writes the statement dump as indented JSON.
func StatementsJSON(w io.Writer, fs *source.FileSet, id source.FileID, res lexer.Result, analysis *macro.Analysis, opts StatementsOpts) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(BuildStatementsOutput(fs, id, res, analysis, opts.PathMode))
}

// Statements writes one line per statement:
//
//	<line>:<col>-<line>:<col>  <Kind>  <text>
//
// followed by macro definitions and the terminal scanner state.
func Statements(w io.Writer, fs *source.FileSet, id source.FileID, res lexer.Result, analysis *macro.Analysis, opts StatementsOpts) {
	p := newPalette(opts.Color)
	kindColor := map[token.Kind]*color.Color{
		token.Comment:    p.gutter,
		token.MacroOpen:  p.fix,
		token.MacroClose: p.fix,
	}
	out := BuildStatementsOutput(fs, id, res, analysis, opts.PathMode)

	fmt.Fprintln(w, p.path.Sprint(out.File))
	for i, st := range res.Statements {
		js := out.Statements[i]
		rng := fmt.Sprintf("%d:%d-%d:%d", js.Start.Line, js.Start.Col, js.End.Line, js.End.Col)
		kind := fmt.Sprintf("%-10s", st.Kind)
		if c, ok := kindColor[st.Kind]; ok {
			kind = c.Sprint(kind)
		}
		text := oneLine(st.Text)
		if opts.Width > 0 {
			text = runewidth.Truncate(text, opts.Width, "...")
		}
		fmt.Fprintf(w, "  %-15s %s %s\n", rng, kind, text)
	}
	for _, m := range out.Macros {
		closed := "unterminated"
		if m.Close != nil {
			closed = fmt.Sprintf("%d:%d", m.Close.Line, m.Close.Col)
		}
		fmt.Fprintf(w, "macro %s depth=%d open=%d:%d close=%s\n", m.Name, m.Depth, m.Open.Line, m.Open.Col, closed)
	}
	state := out.State
	if out.Since != nil {
		state = fmt.Sprintf("%s since %d:%d", state, out.Since.Line, out.Since.Col)
	}
	fmt.Fprintf(w, "state: %s\n", state)
}

func oneLine(s string) string {
	b := make([]rune, 0, len(s))
	space := false
	for _, r := range s {
		if r == '\n' || r == '\r' || r == '\t' || r == ' ' {
			if !space {
				b = append(b, ' ')
			}
			space = true
			continue
		}
		space = false
		b = append(b, r)
	}
	return string(b)
}
