package rules

import (
	"path/filepath"
	"strings"

	"saslint/internal/diag"
	"saslint/internal/source"
)

type noSpacesInFileNames struct{ meta }

// NoSpacesInFileNames flags file names containing a space.
var NoSpacesInFileNames PathRule = noSpacesInFileNames{meta{
	name:        "noSpacesInFileNames",
	description: "Enforce the absence of spaces within file names.",
	typ:         TypePath,
	severity:    diag.SevWarning,
}}

func (r noSpacesInFileNames) Test(path string) []Finding {
	if !strings.Contains(baseName(path), " ") {
		return nil
	}
	return []Finding{{
		Code:    diag.PathSpaces,
		Message: "File name contains spaces",
		Pos:     source.LineCol{Line: 1, Col: 1},
	}}
}

type lowerCaseFileNames struct{ meta }

// LowerCaseFileNames flags file names with upper-case letters.
var LowerCaseFileNames PathRule = lowerCaseFileNames{meta{
	name:        "lowerCaseFileNames",
	description: "Enforce the use of lower case file names.",
	typ:         TypePath,
	severity:    diag.SevWarning,
}}

func (r lowerCaseFileNames) Test(path string) []Finding {
	name := baseName(path)
	if name == strings.ToLower(name) {
		return nil
	}
	return []Finding{{
		Code:    diag.PathNotLower,
		Message: "File name contains uppercase characters",
		Pos:     source.LineCol{Line: 1, Col: 1},
	}}
}

func baseName(path string) string {
	return filepath.Base(filepath.FromSlash(path))
}
