package rules

import "saslint/internal/config"

var all = []Rule{
	NoTrailingSpaces,
	NoEncodedPasswords,
	NoTabs,
	MaxLineLength,
	IndentationMultiple,
	NoGremlins,
	LineEndings,
	HasDoxygenHeader,
	NoUnterminatedComments,
	NoSpacesInFileNames,
	LowerCaseFileNames,
	HasMacroNameInMend,
	NoNestedMacros,
	HasMacroParentheses,
	StrictMacroDefinition,
	NoUnterminatedMacros,
	HasRequiredMacroOptions,
}

// All returns every known rule in listing order.
func All() []Rule {
	out := make([]Rule, len(all))
	copy(out, all)
	return out
}

// Lookup finds a rule by name.
func Lookup(name string) (Rule, bool) {
	for _, r := range all {
		if r.Name() == name {
			return r, true
		}
	}
	return nil, false
}

// Set is the active rules of one configuration split by shape.
type Set struct {
	Line []LineRule
	File []FileRule
	Path []PathRule
}

// Len returns the number of active rules.
func (s Set) Len() int {
	return len(s.Line) + len(s.File) + len(s.Path)
}

// Names returns the names of the active rules in listing order.
func (s Set) Names() []string {
	out := make([]string, 0, s.Len())
	for _, r := range all {
		if s.has(r.Name()) {
			out = append(out, r.Name())
		}
	}
	return out
}

func (s Set) has(name string) bool {
	for _, r := range s.Line {
		if r.Name() == name {
			return true
		}
	}
	for _, r := range s.File {
		if r.Name() == name {
			return true
		}
	}
	for _, r := range s.Path {
		if r.Name() == name {
			return true
		}
	}
	return false
}

// Enabled returns the rules activated by cfg.
func Enabled(cfg *config.Config) Set {
	on := cfg.EnabledRules()
	var s Set
	for _, r := range all {
		if !on[r.Name()] {
			continue
		}
		switch rr := r.(type) {
		case LineRule:
			s.Line = append(s.Line, rr)
		case FileRule:
			s.File = append(s.File, rr)
		case PathRule:
			s.Path = append(s.Path, rr)
		}
	}
	return s
}
