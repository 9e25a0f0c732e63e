package macro

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"

	"saslint/internal/token"
)

// MaxNameLength is the longest valid SAS name.
const MaxNameLength = 32

// IsValidName reports whether s is a SAS name: a letter or underscore
// followed by letters, digits or underscores, at most 32 characters.
func IsValidName(s string) bool {
	if s == "" || len(s) > MaxNameLength || !token.IsNameStartByte(s[0]) {
		return false
	}
	for i := 1; i < len(s); i++ {
		if !token.IsNameByte(s[i]) {
			return false
		}
	}
	return true
}

// reserved words cannot name a macro.
var reserved = map[string]struct{}{}

func init() {
	for _, w := range strings.Fields(`
		abend abort act activate bquote by clear close cms comandr copy deact
		del delete display dmidsply dmisplit do edit else end eval file global
		go goto if inc include index infile input keydef length let list listm
		local macro mend metasym nrbquote nrquote nrstr on open pause put qscan
		qsubstr qsysfunc quote qupcase resolve return run save scan stop str
		substr superq syscall sysevalf sysexec sysfunc sysget sysrput then to
		tso unquote unstr until upcase while window`) {
		reserved[w] = struct{}{}
	}
}

// IsReservedName reports whether name is a reserved macro word.
func IsReservedName(name string) bool {
	_, ok := reserved[strings.ToLower(name)]
	return ok
}

// knownOptions maps each macro definition option to whether it takes "=value".
var knownOptions = map[string]bool{
	"minoperator":   false,
	"nominoperator": false,
	"mindelimiter":  true,
	"parmbuff":      false,
	"pbuff":         false,
	"secure":        false,
	"nosecure":      false,
	"store":         false,
	"source":        false,
	"src":           false,
	"des":           true,
	"cmd":           false,
	"stmt":          false,
}

// SameName compares macro names after NFC normalisation and, unless
// caseSensitive is set, Unicode case folding.
func SameName(a, b string, caseSensitive bool) bool {
	a, b = norm.NFC.String(a), norm.NFC.String(b)
	if caseSensitive {
		return a == b
	}
	// Caser хранит состояние, поэтому создаём новый на каждый вызов.
	fold := cases.Fold()
	return fold.String(a) == fold.String(b)
}
