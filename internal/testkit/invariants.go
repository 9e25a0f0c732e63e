// Package testkit holds invariant checks shared by scanner and driver tests.
package testkit

import (
	"fmt"
	"unicode/utf8"

	"fortio.org/safecast"

	"saslint/internal/diag"
	"saslint/internal/source"
	"saslint/internal/token"
)

// CheckStatementInvariants runs a minimal set of invariants on scanned statements:
// 1) every span is non-empty, belongs to sf and lies within its content
// 2) spans are in source order and do not overlap
// 3) Start and End are the positions of the first and last byte of the span
// 4) only the last statement may lack the terminating ';'
func CheckStatementInvariants(sf *source.File, stmts []token.Statement) error {
	if sf == nil {
		return fmt.Errorf("nil file")
	}
	lenContent, err := safecast.Conv[uint32](len(sf.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}

	var prevEnd uint32
	for i, st := range stmts {
		sp := st.Span
		if sp.File != sf.ID {
			return fmt.Errorf("statement %d: span file mismatch: got=%d want=%d", i, sp.File, sf.ID)
		}
		if sp.End <= sp.Start {
			return fmt.Errorf("statement %d: empty span %v", i, sp)
		}
		if sp.End > lenContent {
			return fmt.Errorf("statement %d: span end beyond content: %d > %d", i, sp.End, lenContent)
		}
		if i > 0 && sp.Start < prevEnd {
			return fmt.Errorf("statement %d: span %v overlaps previous end %d", i, sp, prevEnd)
		}
		prevEnd = sp.End

		if got := sf.Position(sp.Start); got != st.Start {
			return fmt.Errorf("statement %d: start %v, span says %v", i, st.Start, got)
		}
		_, size := utf8.DecodeLastRune(sf.Content[sp.Start:sp.End])
		if got := sf.Position(sp.End - uint32(size)); got != st.End { // #nosec G115 -- rune size is at most 4
			return fmt.Errorf("statement %d: end %v, span says %v", i, st.End, got)
		}
		if !st.Terminated() && i != len(stmts)-1 {
			return fmt.Errorf("statement %d: %q is not terminated but is not last", i, st.Text)
		}
		if st.Kind == token.Invalid {
			return fmt.Errorf("statement %d: invalid kind", i)
		}
	}
	return nil
}

// CheckDiagnosticInvariants verifies that every diagnostic points inside its
// file and that the bag is sorted.
func CheckDiagnosticInvariants(fs *source.FileSet, bag *diag.Bag) error {
	items := bag.Items()
	for i, d := range items {
		if int(d.Primary.File) >= fs.Len() {
			return fmt.Errorf("diagnostic %d (%s): unknown file %d", i, d.Code.ID(), d.Primary.File)
		}
		f := fs.Get(d.Primary.File)
		lenContent, err := safecast.Conv[uint32](len(f.Content))
		if err != nil {
			return fmt.Errorf("len content overflow: %w", err)
		}
		if d.Primary.Start > d.Primary.End || d.Primary.End > lenContent {
			return fmt.Errorf("diagnostic %d (%s): span %v outside content of %d bytes", i, d.Code.ID(), d.Primary, lenContent)
		}
		for _, fx := range d.Fixes {
			for _, e := range fx.Edits {
				if e.Span.Start > e.Span.End || e.Span.End > lenContent {
					return fmt.Errorf("diagnostic %d (%s): fix %q edit %v out of range", i, d.Code.ID(), fx.Title, e.Span)
				}
			}
		}
		if i > 0 && d.Code != diag.ObsTimings {
			prev := items[i-1]
			if prev.Primary.File == d.Primary.File && d.Pos.Before(prev.Pos) {
				return fmt.Errorf("diagnostic %d (%s): out of order after %s", i, d.Code.ID(), prev.Code.ID())
			}
		}
	}
	return nil
}
