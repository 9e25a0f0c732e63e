package macro

import (
	"saslint/internal/source"
)

// FindingKind classifies a structural problem.
type FindingKind uint8

const (
	// Unterminated is a %macro with no %mend before EOF.
	Unterminated FindingKind = iota + 1
	// StrayMend is a %mend with no open definition.
	StrayMend
	// MissingMendName is a %mend that does not repeat the macro name.
	MissingMendName
	// NameMismatch is a %mend whose name differs from the open definition.
	NameMismatch
	// Nested is a %macro inside another definition.
	Nested
	// MissingParens is a header without a parameter list.
	MissingParens
	// SpaceBeforeParens is whitespace between the name and "(".
	SpaceBeforeParens
	// ParenImbalance is a header whose parentheses do not balance.
	ParenImbalance
	// InvalidName is a missing, malformed or reserved macro name.
	InvalidName
	// InvalidParam is a malformed or duplicated parameter.
	InvalidParam
	// InvalidOption is an unknown or malformed option after "/".
	InvalidOption
	// MissingOption is a header lacking a required parameter.
	MissingOption
)

var kindNames = [...]string{
	Unterminated:      "unterminated",
	StrayMend:         "stray-mend",
	MissingMendName:   "missing-mend-name",
	NameMismatch:      "name-mismatch",
	Nested:            "nested",
	MissingParens:     "missing-parens",
	SpaceBeforeParens: "space-before-parens",
	ParenImbalance:    "paren-imbalance",
	InvalidName:       "invalid-name",
	InvalidParam:      "invalid-param",
	InvalidOption:     "invalid-option",
	MissingOption:     "missing-option",
}

func (k FindingKind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "unknown"
}

// Finding is one structural problem positioned at a statement.
type Finding struct {
	Kind    FindingKind
	Macro   string
	Pos     source.LineCol
	Span    source.Span
	Message string
}
