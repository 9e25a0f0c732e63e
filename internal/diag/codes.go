package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// Структура макросов
	MacInfo              Code = 1000
	MacUnterminated      Code = 1001
	MacStrayMend         Code = 1002
	MacMissingMendName   Code = 1003
	MacNameMismatch      Code = 1004
	MacNested            Code = 1005
	MacMissingParens     Code = 1006
	MacSpaceBeforeParens Code = 1007
	MacParenImbalance    Code = 1008
	MacInvalidName       Code = 1009
	MacInvalidParam      Code = 1010
	MacInvalidOption     Code = 1011
	MacMissingOption     Code = 1012

	// Правила уровня файла
	FileInfo                Code = 2000
	FileMissingHeader       Code = 2001
	FileLineEnding          Code = 2002
	FileUnterminatedComment Code = 2003
	FileUnterminatedString  Code = 2004

	// Правила уровня строки
	LineInfo            Code = 3000
	LineTrailingSpaces  Code = 3001
	LineEncodedPassword Code = 3002
	LineTab             Code = 3003
	LineTooLong         Code = 3004
	LineIndentation     Code = 3005
	LineGremlin         Code = 3006

	// Правила для путей
	PathInfo     Code = 4000
	PathSpaces   Code = 4001
	PathNotLower Code = 4002

	IOLoadFileError Code = 5001

	ObsInfo    Code = 6000
	ObsTimings Code = 6001
)

var (
	codeDescription = map[Code]string{
		UnknownCode:             "Unknown error",
		MacInfo:                 "Macro structure information",
		MacUnterminated:         "Macro definition is not terminated",
		MacStrayMend:            "%mend without %macro",
		MacMissingMendName:      "%mend does not repeat the macro name",
		MacNameMismatch:         "%mend name does not match %macro",
		MacNested:               "Nested macro definition",
		MacMissingParens:        "Macro definition missing parentheses",
		MacSpaceBeforeParens:    "Space between macro name and parentheses",
		MacParenImbalance:       "Unbalanced parentheses in macro header",
		MacInvalidName:          "Invalid macro name",
		MacInvalidParam:         "Invalid macro parameter",
		MacInvalidOption:        "Invalid macro option",
		MacMissingOption:        "Required macro option missing",
		FileInfo:                "File information",
		FileMissingHeader:       "File missing Doxygen header",
		FileLineEnding:          "Incorrect line ending",
		FileUnterminatedComment: "Block comment is not terminated",
		FileUnterminatedString:  "String literal is not terminated",
		LineInfo:                "Line information",
		LineTrailingSpaces:      "Line contains trailing spaces",
		LineEncodedPassword:     "Line contains an encoded password",
		LineTab:                 "Line is indented with a tab",
		LineTooLong:             "Line exceeds maximum length",
		LineIndentation:         "Line indentation is not a multiple of the configured width",
		LineGremlin:             "Line contains a gremlin character",
		PathInfo:                "Path information",
		PathSpaces:              "File name contains spaces",
		PathNotLower:            "File name contains uppercase characters",
		IOLoadFileError:         "I/O load file error",
		ObsInfo:                 "Observability information",
		ObsTimings:              "Lint timings",
	}
)

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("MAC%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("FIL%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("LIN%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("PTH%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 6000 && ic < 7000:
		return fmt.Sprintf("OBS%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
