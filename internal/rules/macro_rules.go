package rules

import (
	"fmt"
	"strings"

	"saslint/internal/diag"
	"saslint/internal/fix"
	"saslint/internal/macro"
	"saslint/internal/source"
)

var macroCodes = map[macro.FindingKind]diag.Code{
	macro.Unterminated:      diag.MacUnterminated,
	macro.StrayMend:         diag.MacStrayMend,
	macro.MissingMendName:   diag.MacMissingMendName,
	macro.NameMismatch:      diag.MacNameMismatch,
	macro.Nested:            diag.MacNested,
	macro.MissingParens:     diag.MacMissingParens,
	macro.SpaceBeforeParens: diag.MacSpaceBeforeParens,
	macro.ParenImbalance:    diag.MacParenImbalance,
	macro.InvalidName:       diag.MacInvalidName,
	macro.InvalidParam:      diag.MacInvalidParam,
	macro.InvalidOption:     diag.MacInvalidOption,
	macro.MissingOption:     diag.MacMissingOption,
}

// structural exposes a subset of macro.Analysis findings as one rule.
type structural struct {
	meta
	kinds []macro.FindingKind
	fix   func(ctx *FileContext, f macro.Finding) *diag.Fix
}

func newStructural(name, description string, kinds ...macro.FindingKind) structural {
	return structural{
		meta:  meta{name: name, description: description, typ: TypeFile, severity: diag.SevError},
		kinds: kinds,
	}
}

func (r structural) Test(ctx *FileContext) []Finding {
	if ctx.Analysis == nil {
		return nil
	}
	found := ctx.Analysis.Of(r.kinds...)
	out := make([]Finding, 0, len(found))
	for _, f := range found {
		fd := Finding{
			Code:    macroCodes[f.Kind],
			Message: f.Message,
			Pos:     f.Pos,
			Span:    f.Span,
		}
		if r.fix != nil {
			fd.Fix = r.fix(ctx, f)
		}
		out = append(out, fd)
	}
	return out
}

var (
	// HasMacroNameInMend requires %mend to repeat the macro name.
	HasMacroNameInMend FileRule = withFix(
		newStructural("hasMacroNameInMend", "Enforce the presence of the macro name in each %mend statement.",
			macro.MissingMendName, macro.NameMismatch),
		mendNameFix)
	// NoNestedMacros disallows %macro inside another definition.
	NoNestedMacros FileRule = newStructural("noNestedMacros", "Enforce the absence of nested macro definitions.",
		macro.Nested)
	// HasMacroParentheses requires "name(" right after %macro.
	HasMacroParentheses FileRule = withFix(
		newStructural("hasMacroParentheses", "Enforce the presence of parentheses in macro definitions.",
			macro.MissingParens, macro.SpaceBeforeParens),
		parensFix)
	// StrictMacroDefinition validates header names, parameters and options.
	StrictMacroDefinition FileRule = newStructural("strictMacroDefinition", "Enforce valid macro names, parameters and options in macro definitions.",
		macro.ParenImbalance, macro.InvalidName, macro.InvalidParam, macro.InvalidOption)
	// NoUnterminatedMacros requires %macro and %mend to pair up.
	NoUnterminatedMacros FileRule = newStructural("noUnterminatedMacros", "Enforce that every %macro has a matching %mend.",
		macro.Unterminated, macro.StrayMend)
	// HasRequiredMacroOptions requires the configured parameters in every header.
	HasRequiredMacroOptions FileRule = newStructural("hasRequiredMacroOptions", "Enforce the presence of the configured options in macro definitions.",
		macro.MissingOption)
)

func withFix(r structural, build func(ctx *FileContext, f macro.Finding) *diag.Fix) structural {
	r.fix = build
	return r
}

// mendNameFix inserts the open macro's name after the %mend keyword.
func mendNameFix(ctx *FileContext, f macro.Finding) *diag.Fix {
	if f.Kind != macro.MissingMendName || f.Macro == "" {
		return nil
	}
	content := ctx.File.Content
	at := int(f.Span.Start) + len("%mend")
	if at > len(content) || !strings.EqualFold(string(content[f.Span.Start:at]), "%mend") {
		return nil
	}
	sp := source.Span{File: ctx.File.ID, Start: toU32(at), End: toU32(at)}
	return fix.InsertText(fmt.Sprintf("add %q to %%mend", f.Macro), sp, " "+f.Macro, fix.Preferred())
}

// parensFix adds "()" after a bare macro name or removes the gap before "(".
func parensFix(ctx *FileContext, f macro.Finding) *diag.Fix {
	content := ctx.File.Content
	i := int(f.Span.Start) + len("%macro")
	if i > len(content) || !strings.EqualFold(string(content[f.Span.Start:i]), "%macro") {
		return nil
	}
	for i < len(content) && isBlank(content[i]) {
		i++
	}
	end := i + len(f.Macro)
	if f.Macro == "" || end > len(content) || string(content[i:end]) != f.Macro {
		return nil
	}
	switch f.Kind {
	case macro.MissingParens:
		sp := source.Span{File: ctx.File.ID, Start: toU32(end), End: toU32(end)}
		return fix.InsertText("add empty parameter list", sp, "()",
			fix.WithApplicability(diag.FixApplicabilitySafeWithHeuristics))
	case macro.SpaceBeforeParens:
		gap := end
		for gap < len(content) && isBlank(content[gap]) {
			gap++
		}
		if gap == end || gap >= len(content) || content[gap] != '(' {
			return nil
		}
		sp := source.Span{File: ctx.File.ID, Start: toU32(end), End: toU32(gap)}
		return fix.DeleteSpan("remove space before parentheses", sp, string(content[end:gap]))
	}
	return nil
}

func isBlank(b byte) bool {
	return b == ' ' || b == '\t' || b == '\r' || b == '\n'
}
