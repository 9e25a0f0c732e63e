package macro

import (
	"fmt"
	"strings"

	"saslint/internal/token"
)

// Param is one entry of the parenthesised parameter list.
type Param struct {
	Name       string
	Default    string
	HasDefault bool
}

// Option is one definition option after "/".
type Option struct {
	Name     string
	Value    string
	HasValue bool
}

// Issue is a header problem not yet tied to a source position.
type Issue struct {
	Kind    FindingKind
	Message string
}

// Header is the parsed form of a "%macro" statement.
type Header struct {
	Name              string
	HasParens         bool
	SpaceBeforeParens bool
	Params            []Param
	Options           []Option
	// ParenDepth is the parenthesis depth at the end of the header; 0 when balanced.
	ParenDepth int
	Balanced   bool
	Issues     []Issue
}

// HasParam reports whether the header declares a parameter named name,
// ignoring case.
func (h *Header) HasParam(name string) bool {
	for _, p := range h.Params {
		if strings.EqualFold(p.Name, name) {
			return true
		}
	}
	return false
}

func (h *Header) issue(kind FindingKind, format string, args ...any) {
	h.Issues = append(h.Issues, Issue{Kind: kind, Message: fmt.Sprintf(format, args...)})
}

// ParseHeader parses the cleaned text of a "%macro" statement.
// Parameters and options are only checked when the parentheses balance.
func ParseHeader(text string) Header {
	var h Header
	_, rest := token.LeadingWord(text)
	rest = strings.TrimSuffix(strings.TrimSpace(rest), ";")

	i := skipSpace(rest, 0)
	nameStart := i
	for i < len(rest) && !isSpace(rest[i]) && !strings.ContainsRune("()/", rune(rest[i])) {
		i++
	}
	h.Name = rest[nameStart:i]
	nameEnd := i

	j := skipSpace(rest, i)
	if j < len(rest) && rest[j] == '(' {
		h.HasParens = true
		h.SpaceBeforeParens = j > nameEnd && h.Name != ""
	}

	h.checkName()

	open, closeAt, depth, early := scanParens(rest[nameEnd:])
	h.ParenDepth = depth
	h.Balanced = !early && depth == 0
	switch {
	case early:
		h.issue(ParenImbalance, "closing parenthesis without a matching opening one in definition of macro %q", h.Name)
	case depth > 0:
		h.issue(ParenImbalance, "%d unclosed parenthesis(es) in definition of macro %q", depth, h.Name)
	}
	if !h.Balanced {
		return h
	}

	tail := rest[nameEnd:]
	if h.HasParens && open >= 0 {
		h.parseParams(tail[open+1 : closeAt])
		tail = tail[closeAt+1:]
	}
	tail = strings.TrimSpace(tail)
	switch {
	case tail == "":
	case tail[0] == '/':
		h.parseOptions(tail[1:])
	default:
		h.issue(InvalidOption, "unexpected %q after header of macro %q; options must follow '/'", tail, h.Name)
	}
	return h
}

func (h *Header) checkName() {
	switch {
	case h.Name == "":
		h.issue(InvalidName, "macro definition is missing a name")
	case !IsValidName(h.Name):
		h.issue(InvalidName, "macro name %q is not a valid SAS name", h.Name)
	case IsReservedName(h.Name):
		h.issue(InvalidName, "macro name %q is a reserved word", h.Name)
	}
}

// scanParens counts parentheses outside quote markers. open and closeAt are
// the offsets of the first top-level group, -1 when there is none; early is
// set when ")" appears at depth 0.
func scanParens(s string) (open, closeAt, depth int, early bool) {
	open, closeAt = -1, -1
	var quote byte
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '\'' || c == '"':
			quote = c
		case c == '(':
			if depth == 0 && open < 0 {
				open = i
			}
			depth++
		case c == ')':
			if depth == 0 {
				return open, closeAt, depth, true
			}
			depth--
			if depth == 0 && closeAt < 0 {
				closeAt = i
			}
		}
	}
	return open, closeAt, depth, false
}

func (h *Header) parseParams(list string) {
	if strings.TrimSpace(list) == "" {
		return
	}
	seen := make(map[string]struct{})
	for n, part := range splitTopLevel(list) {
		part = strings.TrimSpace(part)
		if part == "" {
			h.issue(InvalidParam, "empty parameter #%d in definition of macro %q", n+1, h.Name)
			continue
		}
		name, def, hasDef := strings.Cut(part, "=")
		p := Param{Name: strings.TrimSpace(name), Default: strings.TrimSpace(def), HasDefault: hasDef}
		if !IsValidName(p.Name) {
			h.issue(InvalidParam, "invalid parameter name %q in definition of macro %q", p.Name, h.Name)
			continue
		}
		key := strings.ToLower(p.Name)
		if _, dup := seen[key]; dup {
			h.issue(InvalidParam, "duplicate parameter %q in definition of macro %q", p.Name, h.Name)
			continue
		}
		seen[key] = struct{}{}
		h.Params = append(h.Params, p)
	}
}

// splitTopLevel splits on commas that are outside nested parentheses and quotes.
func splitTopLevel(s string) []string {
	var (
		parts []string
		depth int
		quote byte
		start int
	)
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '\'' || c == '"':
			quote = c
		case c == '(':
			depth++
		case c == ')':
			depth--
		case c == ',' && depth == 0:
			parts = append(parts, s[start:i])
			start = i + 1
		}
	}
	return append(parts, s[start:])
}

func (h *Header) parseOptions(s string) {
	if strings.TrimSpace(s) == "" {
		h.issue(InvalidOption, "empty option list after '/' in definition of macro %q", h.Name)
		return
	}
	i := 0
	for {
		i = skipSpace(s, i)
		if i >= len(s) {
			return
		}
		start := i
		for i < len(s) && token.IsNameByte(s[i]) {
			i++
		}
		if i == start {
			end := i
			for end < len(s) && !isSpace(s[end]) {
				end++
			}
			h.issue(InvalidOption, "unexpected %q in options of macro %q", s[start:end], h.Name)
			i = end
			continue
		}
		opt := Option{Name: s[start:i]}

		k := skipSpace(s, i)
		if k < len(s) && s[k] == '=' {
			opt.HasValue = true
			k = skipSpace(s, k+1)
			vStart := k
			if k < len(s) && (s[k] == '\'' || s[k] == '"') {
				q := s[k]
				k++
				for k < len(s) && s[k] != q {
					k++
				}
				if k < len(s) {
					k++
				}
			} else {
				for k < len(s) && !isSpace(s[k]) {
					k++
				}
			}
			opt.Value = s[vStart:k]
			i = k
		}
		h.checkOption(opt)
		h.Options = append(h.Options, opt)
	}
}

func (h *Header) checkOption(opt Option) {
	needsValue, known := knownOptions[strings.ToLower(opt.Name)]
	switch {
	case !known:
		h.issue(InvalidOption, "unknown option %q in definition of macro %q", opt.Name, h.Name)
	case needsValue && (!opt.HasValue || opt.Value == ""):
		h.issue(InvalidOption, "option %q of macro %q requires a value", opt.Name, h.Name)
	case !needsValue && opt.HasValue:
		h.issue(InvalidOption, "option %q of macro %q does not take a value", opt.Name, h.Name)
	}
}

func skipSpace(s string, i int) int {
	for i < len(s) && isSpace(s[i]) {
		i++
	}
	return i
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r' || b == '\f' || b == '\v'
}
