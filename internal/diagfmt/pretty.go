package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"saslint/internal/diag"
	"saslint/internal/source"
)

const tabWidth = 4

type palette struct {
	err, warn, info, note, fix, gutter, caret, path *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:    color.New(color.FgRed, color.Bold),
		warn:   color.New(color.FgYellow, color.Bold),
		info:   color.New(color.FgCyan, color.Bold),
		note:   color.New(color.FgBlue, color.Bold),
		fix:    color.New(color.FgGreen, color.Bold),
		gutter: color.New(color.FgBlue),
		caret:  color.New(color.FgRed, color.Bold),
		path:   color.New(color.Bold),
	}
	for _, c := range []*color.Color{p.err, p.warn, p.info, p.note, p.fix, p.gutter, p.caret, p.path} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(sev diag.Severity) *color.Color {
	switch sev {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	default:
		return p.info
	}
}

// Pretty форматирует диагностики в человекочитаемый вид.
// Идёт по bag.Items() (ожидается bag.Sort() заранее).
// Для каждого diag печатает:
// <path>:<line>:<col>: <SEV> <CODE>: <Message> [rule]
// затем контекст строки с подчёркиванием ^~~~ по Span, затем Notes и Fixes.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	p := newPalette(opts.Color)
	for i, d := range bag.Items() {
		if i > 0 {
			fmt.Fprintln(w)
		}
		prettyOne(w, &d, fs, opts, p)
	}
}

func prettyOne(w io.Writer, d *diag.Diagnostic, fs *source.FileSet, opts PrettyOpts, p palette) {
	if int(d.Primary.File) >= fs.Len() {
		fmt.Fprintf(w, "%s %s: %s\n", p.severity(d.Severity).Sprint(d.Severity.String()), d.Code.ID(), d.Message)
		return
	}
	f := fs.Get(d.Primary.File)
	pos := d.Pos
	if pos.IsZero() {
		pos, _ = fs.Resolve(d.Primary)
	}

	header := fmt.Sprintf("%s:%d:%d:", formatPath(f, fs, opts.PathMode), pos.Line, pos.Col)
	fmt.Fprintf(w, "%s %s %s: %s", p.path.Sprint(header), p.severity(d.Severity).Sprint(d.Severity.String()), d.Code.ID(), d.Message)
	if d.Rule != "" {
		fmt.Fprintf(w, " [%s]", d.Rule)
	}
	fmt.Fprintln(w)

	if f.LineCount() > 0 && d.Code != diag.ObsTimings {
		writeSnippet(w, f, d.Primary, pos, opts, p)
	}

	if opts.ShowNotes {
		for _, n := range d.Notes {
			if int(n.Span.File) >= fs.Len() {
				fmt.Fprintf(w, "  %s %s\n", p.note.Sprint("note:"), n.Msg)
				continue
			}
			nf := fs.Get(n.Span.File)
			np, _ := fs.Resolve(n.Span)
			fmt.Fprintf(w, "  %s %s:%d:%d: %s\n", p.note.Sprint("note:"), formatPath(nf, fs, opts.PathMode), np.Line, np.Col, n.Msg)
		}
	}

	if opts.ShowFixes {
		for _, fx := range d.Fixes {
			fmt.Fprintf(w, "  %s %s (%s)\n", p.fix.Sprint("fix:"), fx.Title, fx.Applicability)
			if !opts.ShowPreview {
				continue
			}
			for _, e := range fx.Edits {
				preview, err := buildFixEditPreview(fs, e)
				if err != nil {
					continue
				}
				for _, l := range preview.before {
					fmt.Fprintf(w, "      %s %s\n", p.err.Sprint("-"), expandTabs(l))
				}
				for _, l := range preview.after {
					fmt.Fprintf(w, "      %s %s\n", p.fix.Sprint("+"), expandTabs(l))
				}
			}
		}
	}
}

func writeSnippet(w io.Writer, f *source.File, span source.Span, pos source.LineCol, opts PrettyOpts, p palette) {
	line := pos.Line
	if line == 0 || line > f.LineCount() {
		return
	}
	first := line
	if ctx := uint32(max(opts.Context, 0)); ctx > 0 {
		first = max(1, line-min(ctx, line-1))
	}
	gutterWidth := len(fmt.Sprint(line))

	for ln := first; ln <= line; ln++ {
		text := expandTabs(f.GetLine(ln))
		if opts.Width > 0 {
			text = runewidth.Truncate(text, int(opts.Width), "...")
		}
		fmt.Fprintf(w, "%s %s\n", p.gutter.Sprintf("%*d |", gutterWidth, ln), text)
	}

	// Подчёркиваем только часть span на строке диагностики.
	raw := f.GetLine(line)
	lineSpan := f.LineSpan(line)
	startCol := int(pos.Col) - 1
	prefix := prefixRunes(raw, startCol)
	width := 1
	if span.End > span.Start && span.Start >= lineSpan.Start && span.Start <= lineSpan.End {
		end := min(span.End, lineSpan.End)
		startOff := len(prefix)
		if int(end-lineSpan.Start) > startOff {
			width = max(1, runewidth.StringWidth(expandTabs(raw[startOff:end-lineSpan.Start])))
		}
	}
	pad := strings.Repeat(" ", runewidth.StringWidth(expandTabs(prefix)))
	marker := "^" + strings.Repeat("~", width-1)
	fmt.Fprintf(w, "%s %s%s\n", p.gutter.Sprintf("%*s |", gutterWidth, ""), pad, p.caret.Sprint(marker))
}

// prefixRunes returns the first n code points of s.
func prefixRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	i := 0
	for off := range s {
		if i == n {
			return s[:off]
		}
		i++
	}
	return s
}

func expandTabs(s string) string {
	return strings.ReplaceAll(s, "\t", strings.Repeat(" ", tabWidth))
}
