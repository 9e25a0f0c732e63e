package token

// Kind represents the category of a statement.
type Kind uint8

const (
	// Invalid indicates a zero Statement.
	Invalid Kind = iota
	// Plain is any statement without special meaning for the macro tracker.
	Plain
	// Comment is a SAS statement comment: "* ... ;" or "%* ... ;".
	Comment
	// MacroOpen is a "%macro name(...);" definition header.
	MacroOpen
	// MacroClose is a "%mend [name];" statement.
	MacroClose
)

func (k Kind) String() string {
	switch k {
	case Invalid:
		return "Invalid"
	case Plain:
		return "Statement"
	case Comment:
		return "Comment"
	case MacroOpen:
		return "MacroOpen"
	case MacroClose:
		return "MacroClose"
	}
	return "Unknown"
}
