// Package config loads and validates the .saslint.toml lint configuration.
//
// A Config is immutable once returned by Default, Parse or Load. Unknown keys
// and malformed values are rejected with an error naming the field, so rules
// only ever see validated settings.
package config

import (
	"slices"

	"saslint/internal/diag"
)

// FileName is the configuration file looked up from the lint target upwards.
const FileName = ".saslint.toml"

// LineEndings is the line terminator style enforced by the lineEndings rule.
type LineEndings string

const (
	LineEndingsLF   LineEndings = "lf"
	LineEndingsCRLF LineEndings = "crlf"
	LineEndingsOff  LineEndings = "off"
)

// Terminator returns the byte sequence of the style.
func (le LineEndings) Terminator() string {
	if le == LineEndingsCRLF {
		return "\r\n"
	}
	return "\n"
}

// DefaultHeader is the Doxygen header suggested for files without one.
const DefaultHeader = "/**\n  @file\n  @brief <Your brief here>\n  <h4> SAS Macros </h4>\n**/"

// Config is the validated lint configuration.
type Config struct {
	IgnoreList []string

	NoTrailingSpaces    bool
	NoEncodedPasswords  bool
	NoTabs              bool
	MaxLineLength       int
	MaxHeaderLineLength int
	MaxDataLineLength   int
	IndentationMultiple int
	LineEndings         LineEndings
	NoGremlins          bool
	AllowedGremlins     []rune

	HasDoxygenHeader       bool
	DefaultHeader          string
	NoUnterminatedComments bool

	NoSpacesInFileNames bool
	LowerCaseFileNames  bool

	HasMacroNameInMend      bool
	CaseSensitiveMendName   bool
	NoNestedMacros          bool
	HasMacroParentheses     bool
	StrictMacroDefinition   bool
	NoUnterminatedMacros    bool
	HasRequiredMacroOptions bool
	RequiredMacroOptions    []string

	// Severity overrides the default severity per rule name.
	Severity map[string]diag.Severity
}

// Default returns the configuration used when no file is found.
func Default() *Config {
	return &Config{
		IgnoreList:             []string{"sasjsbuild/", "sasjsresults/"},
		NoTrailingSpaces:       true,
		NoEncodedPasswords:     true,
		NoTabs:                 true,
		MaxLineLength:          80,
		MaxHeaderLineLength:    80,
		MaxDataLineLength:      80,
		IndentationMultiple:    2,
		LineEndings:            LineEndingsLF,
		NoGremlins:             true,
		HasDoxygenHeader:       true,
		DefaultHeader:          DefaultHeader,
		NoUnterminatedComments: true,
		NoSpacesInFileNames:    true,
		LowerCaseFileNames:     true,
		NoNestedMacros:         true,
		HasMacroParentheses:    true,
		StrictMacroDefinition:  true,
		NoUnterminatedMacros:   true,
		Severity:               map[string]diag.Severity{},
	}
}

// SeverityFor returns the configured severity of rule, or def.
func (c *Config) SeverityFor(rule string, def diag.Severity) diag.Severity {
	if sev, ok := c.Severity[rule]; ok {
		return sev
	}
	return def
}

// GremlinAllowed reports whether r is listed in AllowedGremlins.
func (c *Config) GremlinAllowed(r rune) bool {
	return slices.Contains(c.AllowedGremlins, r)
}
