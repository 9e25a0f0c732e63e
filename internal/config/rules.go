package config

// Switch is one row of the rule activation table.
type Switch struct {
	Name           string
	DefaultEnabled bool
	Active         func(c *Config) bool
}

// Switches maps every rule name to its default and activation condition.
// The table is evaluated once per configuration; order is the listing order.
var Switches = []Switch{
	{"noTrailingSpaces", true, func(c *Config) bool { return c.NoTrailingSpaces }},
	{"noEncodedPasswords", true, func(c *Config) bool { return c.NoEncodedPasswords }},
	{"noTabs", true, func(c *Config) bool { return c.NoTabs }},
	{"maxLineLength", true, func(c *Config) bool { return c.MaxLineLength > 0 }},
	{"indentationMultiple", true, func(c *Config) bool { return c.IndentationMultiple > 0 }},
	{"noGremlins", true, func(c *Config) bool { return c.NoGremlins }},
	{"lineEndings", true, func(c *Config) bool { return c.LineEndings != LineEndingsOff }},
	{"hasDoxygenHeader", true, func(c *Config) bool { return c.HasDoxygenHeader }},
	{"noUnterminatedComments", true, func(c *Config) bool { return c.NoUnterminatedComments }},
	{"noSpacesInFileNames", true, func(c *Config) bool { return c.NoSpacesInFileNames }},
	{"lowerCaseFileNames", true, func(c *Config) bool { return c.LowerCaseFileNames }},
	{"hasMacroNameInMend", false, func(c *Config) bool { return c.HasMacroNameInMend }},
	{"noNestedMacros", true, func(c *Config) bool { return c.NoNestedMacros }},
	{"hasMacroParentheses", true, func(c *Config) bool { return c.HasMacroParentheses }},
	{"strictMacroDefinition", true, func(c *Config) bool { return c.StrictMacroDefinition }},
	{"noUnterminatedMacros", true, func(c *Config) bool { return c.NoUnterminatedMacros }},
	{"hasRequiredMacroOptions", false, func(c *Config) bool { return c.HasRequiredMacroOptions }},
}

// EnabledRules returns the set of active rule names.
func (c *Config) EnabledRules() map[string]bool {
	out := make(map[string]bool, len(Switches))
	for _, sw := range Switches {
		if sw.Active(c) {
			out[sw.Name] = true
		}
	}
	return out
}

// IsRule reports whether name is a known rule.
func IsRule(name string) bool {
	for _, sw := range Switches {
		if sw.Name == name {
			return true
		}
	}
	return false
}
