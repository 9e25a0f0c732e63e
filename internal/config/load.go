package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	"saslint/internal/diag"
)

// fileConfig mirrors the on-disk layout; pointer fields detect presence.
type fileConfig struct {
	IgnoreList []string `toml:"ignoreList"`

	NoTrailingSpaces    *bool    `toml:"noTrailingSpaces"`
	NoEncodedPasswords  *bool    `toml:"noEncodedPasswords"`
	NoTabs              *bool    `toml:"noTabs"`
	NoTabIndentation    *bool    `toml:"noTabIndentation"`
	MaxLineLength       *int     `toml:"maxLineLength"`
	MaxHeaderLineLength *int     `toml:"maxHeaderLineLength"`
	MaxDataLineLength   *int     `toml:"maxDataLineLength"`
	IndentationMultiple *int     `toml:"indentationMultiple"`
	LineEndings         *string  `toml:"lineEndings"`
	NoGremlins          *bool    `toml:"noGremlins"`
	AllowedGremlins     []string `toml:"allowedGremlins"`

	HasDoxygenHeader       *bool   `toml:"hasDoxygenHeader"`
	DefaultHeader          *string `toml:"defaultHeader"`
	NoUnterminatedComments *bool   `toml:"noUnterminatedComments"`

	NoSpacesInFileNames *bool `toml:"noSpacesInFileNames"`
	LowerCaseFileNames  *bool `toml:"lowerCaseFileNames"`

	HasMacroNameInMend      *bool    `toml:"hasMacroNameInMend"`
	CaseSensitiveMendName   *bool    `toml:"caseSensitiveMendName"`
	NoNestedMacros          *bool    `toml:"noNestedMacros"`
	HasMacroParentheses     *bool    `toml:"hasMacroParentheses"`
	StrictMacroDefinition   *bool    `toml:"strictMacroDefinition"`
	NoUnterminatedMacros    *bool    `toml:"noUnterminatedMacros"`
	HasRequiredMacroOptions *bool    `toml:"hasRequiredMacroOptions"`
	RequiredMacroOptions    []string `toml:"requiredMacroOptions"`

	SeverityLevel map[string]string `toml:"severityLevel"`
}

var gremlinPattern = regexp.MustCompile(`^0x[0-9a-fA-F]{4}$`)

// Parse decodes and validates TOML configuration data. Fields that are not
// set keep their Default values.
func Parse(data []byte) (*Config, error) {
	var raw fileConfig
	meta, err := toml.Decode(string(data), &raw)
	if err != nil {
		return nil, fmt.Errorf("failed to parse TOML: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return nil, fmt.Errorf("unknown configuration key(s): %s", strings.Join(keys, ", "))
	}

	cfg := Default()
	if meta.IsDefined("ignoreList") {
		cfg.IgnoreList = raw.IgnoreList
	}
	setBool(&cfg.NoTrailingSpaces, raw.NoTrailingSpaces)
	setBool(&cfg.NoEncodedPasswords, raw.NoEncodedPasswords)
	setBool(&cfg.NoTabs, raw.NoTabs)
	if raw.NoTabIndentation != nil && !*raw.NoTabIndentation {
		cfg.NoTabs = false
	}
	setBool(&cfg.NoGremlins, raw.NoGremlins)
	setBool(&cfg.HasDoxygenHeader, raw.HasDoxygenHeader)
	setBool(&cfg.NoUnterminatedComments, raw.NoUnterminatedComments)
	setBool(&cfg.NoSpacesInFileNames, raw.NoSpacesInFileNames)
	setBool(&cfg.LowerCaseFileNames, raw.LowerCaseFileNames)
	setBool(&cfg.HasMacroNameInMend, raw.HasMacroNameInMend)
	setBool(&cfg.CaseSensitiveMendName, raw.CaseSensitiveMendName)
	setBool(&cfg.NoNestedMacros, raw.NoNestedMacros)
	setBool(&cfg.HasMacroParentheses, raw.HasMacroParentheses)
	setBool(&cfg.StrictMacroDefinition, raw.StrictMacroDefinition)
	setBool(&cfg.NoUnterminatedMacros, raw.NoUnterminatedMacros)
	setBool(&cfg.HasRequiredMacroOptions, raw.HasRequiredMacroOptions)

	for _, f := range []struct {
		name string
		dst  *int
		src  *int
	}{
		{"maxLineLength", &cfg.MaxLineLength, raw.MaxLineLength},
		{"maxHeaderLineLength", &cfg.MaxHeaderLineLength, raw.MaxHeaderLineLength},
		{"maxDataLineLength", &cfg.MaxDataLineLength, raw.MaxDataLineLength},
		{"indentationMultiple", &cfg.IndentationMultiple, raw.IndentationMultiple},
	} {
		if f.src == nil {
			continue
		}
		if *f.src < 0 {
			return nil, fmt.Errorf("property %q must be a non-negative integer, got %d", f.name, *f.src)
		}
		*f.dst = *f.src
	}

	if raw.LineEndings != nil {
		switch le := LineEndings(strings.ToLower(strings.TrimSpace(*raw.LineEndings))); le {
		case LineEndingsLF, LineEndingsCRLF, LineEndingsOff:
			cfg.LineEndings = le
		default:
			return nil, fmt.Errorf("invalid value for %q: %q (can be %s, %s or %s)", "lineEndings", *raw.LineEndings, LineEndingsLF, LineEndingsCRLF, LineEndingsOff)
		}
	}

	if raw.DefaultHeader != nil {
		if strings.TrimSpace(*raw.DefaultHeader) == "" {
			return nil, fmt.Errorf("property %q must not be empty", "defaultHeader")
		}
		cfg.DefaultHeader = *raw.DefaultHeader
	}

	for _, item := range raw.AllowedGremlins {
		if !gremlinPattern.MatchString(item) {
			return nil, fmt.Errorf("property %q has invalid value %q: expected hex code like \"0x0080\"", "allowedGremlins", item)
		}
		v, err := strconv.ParseUint(item[2:], 16, 32)
		if err != nil {
			return nil, fmt.Errorf("property %q has invalid value %q: %w", "allowedGremlins", item, err)
		}
		cfg.AllowedGremlins = append(cfg.AllowedGremlins, rune(v))
	}

	for _, opt := range raw.RequiredMacroOptions {
		if strings.TrimSpace(opt) == "" {
			return nil, fmt.Errorf("property %q must not contain empty names", "requiredMacroOptions")
		}
		cfg.RequiredMacroOptions = append(cfg.RequiredMacroOptions, strings.TrimSpace(opt))
	}
	if cfg.HasRequiredMacroOptions && len(cfg.RequiredMacroOptions) == 0 {
		return nil, fmt.Errorf("property %q must list at least one option when %q is enabled", "requiredMacroOptions", "hasRequiredMacroOptions")
	}

	for rule, level := range raw.SeverityLevel {
		if !IsRule(rule) {
			return nil, fmt.Errorf("property %q names unknown rule %q", "severityLevel", rule)
		}
		sev, err := diag.ParseSeverity(level)
		if err != nil || sev == diag.SevInfo {
			return nil, fmt.Errorf("property %q has invalid level %q for rule %q (can be warn or error)", "severityLevel", level, rule)
		}
		cfg.Severity[rule] = sev
	}
	return cfg, nil
}

func setBool(dst *bool, src *bool) {
	if src != nil {
		*dst = *src
	}
}

// Load reads and validates the configuration file at path.
func Load(path string) (*Config, error) {
	// #nosec G304 -- path is provided by the caller
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Find walks up from startDir looking for FileName.
func Find(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	if info, statErr := os.Stat(dir); statErr == nil && !info.IsDir() {
		dir = filepath.Dir(dir)
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Discover loads the configuration governing target, or Default when none
// is found. The returned path is empty for the default configuration.
func Discover(target string) (*Config, string, error) {
	path, ok, err := Find(target)
	if err != nil {
		return nil, "", err
	}
	if !ok {
		return Default(), "", nil
	}
	cfg, err := Load(path)
	if err != nil {
		return nil, path, err
	}
	return cfg, path, nil
}
