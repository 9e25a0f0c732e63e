package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Template is the annotated configuration written by "saslint init".
const Template = `# saslint configuration
ignoreList = ["sasjsbuild/", "sasjsresults/"]

# line rules
noTrailingSpaces = true
noEncodedPasswords = true
noTabs = true
maxLineLength = 80
maxHeaderLineLength = 80
maxDataLineLength = 80
indentationMultiple = 2
noGremlins = true
allowedGremlins = []

# file rules
lineEndings = "lf" # lf | crlf | off
hasDoxygenHeader = true
noUnterminatedComments = true

# path rules
noSpacesInFileNames = true
lowerCaseFileNames = true

# macro structure
hasMacroNameInMend = false
caseSensitiveMendName = false
noNestedMacros = true
hasMacroParentheses = true
strictMacroDefinition = true
noUnterminatedMacros = true
hasRequiredMacroOptions = false
requiredMacroOptions = []

[severityLevel]
# noTrailingSpaces = "error" # warn | error
`

// ErrExists is returned by WriteTemplate when the file is already present.
var ErrExists = errors.New("configuration file already exists")

// WriteTemplate creates dir/.saslint.toml unless it exists and force is false.
func WriteTemplate(dir string, force bool) (string, error) {
	path := filepath.Join(dir, FileName)
	if !force {
		if _, err := os.Stat(path); err == nil {
			return path, ErrExists
		}
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return path, fmt.Errorf("create %s: %w", dir, err)
	}
	if err := os.WriteFile(path, []byte(Template), 0o600); err != nil {
		return path, fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}
