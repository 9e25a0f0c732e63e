package token

import "strings"

var keywords = map[string]Kind{
	"%macro": MacroOpen,
	"%mend":  MacroClose,
}

// LookupKeyword возвращает тип и bool если это ключевое слово.
// Регистр не важен: SAS не различает "%MACRO" и "%macro".
func LookupKeyword(word string) (Kind, bool) {
	k, ok := keywords[strings.ToLower(word)]
	return k, ok
}

// LeadingWord returns the "%name" or "name" prefix of text and the remainder.
// The word ends at the first byte that cannot continue a SAS name.
func LeadingWord(text string) (word, rest string) {
	i := 0
	if i < len(text) && text[i] == '%' {
		i++
	}
	for i < len(text) && IsNameByte(text[i]) {
		i++
	}
	return text[:i], text[i:]
}

// Classify determines the statement kind from its cleaned text.
func Classify(text string) Kind {
	if text == "" {
		return Invalid
	}
	if strings.HasPrefix(text, "*") || strings.HasPrefix(text, "%*") {
		return Comment
	}
	word, _ := LeadingWord(text)
	if k, ok := LookupKeyword(word); ok {
		return k
	}
	return Plain
}

// IsNameByte reports whether b may appear inside a SAS name.
func IsNameByte(b byte) bool {
	return b == '_' || (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z') || (b >= '0' && b <= '9')
}

// IsNameStartByte reports whether b may start a SAS name.
func IsNameStartByte(b byte) bool {
	return b == '_' || (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z')
}
