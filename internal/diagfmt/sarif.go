package diagfmt

import (
	"encoding/json"
	"io"
	"path/filepath"
	"strings"

	"saslint/internal/diag"
	"saslint/internal/source"
)

// SARIF 2.1.0 constants
const (
	SarifSchemaURI = "https://raw.githubusercontent.com/oasis-tcs/sarif-spec/master/Schemata/sarif-schema-2.1.0.json"
	SarifVersion   = "2.1.0"
)

// SarifReport is the top-level SARIF report structure.
type SarifReport struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
	Runs    []SarifRun `json:"runs"`
}

// SarifRun represents a single invocation of the tool.
type SarifRun struct {
	Tool    SarifTool     `json:"tool"`
	Results []SarifResult `json:"results"`
}

// SarifTool describes the analysis tool.
type SarifTool struct {
	Driver SarifDriver `json:"driver"`
}

// SarifDriver contains tool metadata.
type SarifDriver struct {
	Name           string               `json:"name"`
	Version        string               `json:"version,omitempty"`
	InformationURI string               `json:"informationUri,omitempty"`
	Rules          []SarifReportingRule `json:"rules,omitempty"`
}

// SarifReportingRule represents one lint rule.
type SarifReportingRule struct {
	ID               string       `json:"id"`
	Name             string       `json:"name"`
	ShortDescription SarifMessage `json:"shortDescription"`
}

// SarifResult represents a single finding.
type SarifResult struct {
	RuleID    string          `json:"ruleId"`
	Level     string          `json:"level"`
	Message   SarifMessage    `json:"message"`
	Locations []SarifLocation `json:"locations"`
}

// SarifMessage contains message text.
type SarifMessage struct {
	Text string `json:"text"`
}

// SarifLocation describes where a result was found.
type SarifLocation struct {
	PhysicalLocation SarifPhysicalLocation `json:"physicalLocation"`
}

// SarifPhysicalLocation specifies file location.
type SarifPhysicalLocation struct {
	ArtifactLocation SarifArtifactLocation `json:"artifactLocation"`
	Region           SarifRegion           `json:"region"`
}

// SarifArtifactLocation identifies the file.
type SarifArtifactLocation struct {
	URI string `json:"uri"`
}

// SarifRegion specifies the line/column range.
type SarifRegion struct {
	StartLine   uint32 `json:"startLine"`
	StartColumn uint32 `json:"startColumn"`
	EndLine     uint32 `json:"endLine,omitempty"`
	EndColumn   uint32 `json:"endColumn,omitempty"`
}

// BuildSarif converts diagnostics into a SARIF report with one run.
func BuildSarif(bag *diag.Bag, fs *source.FileSet, meta SarifRunMeta) *SarifReport {
	drv := SarifDriver{
		Name:           meta.ToolName,
		Version:        meta.ToolVersion,
		InformationURI: meta.InformationURI,
	}
	for _, r := range meta.Rules {
		drv.Rules = append(drv.Rules, SarifReportingRule{
			ID:               r.ID,
			Name:             r.ID,
			ShortDescription: SarifMessage{Text: r.Description},
		})
	}

	results := make([]SarifResult, 0, bag.Len())
	for _, d := range bag.Items() {
		if d.Code == diag.ObsTimings || int(d.Primary.File) >= fs.Len() {
			continue
		}
		f := fs.Get(d.Primary.File)
		start, end := fs.Resolve(d.Primary)
		if !d.Pos.IsZero() {
			start = d.Pos
		}
		region := SarifRegion{StartLine: start.Line, StartColumn: start.Col}
		if !d.Primary.Empty() && !end.Before(start) {
			region.EndLine, region.EndColumn = end.Line, end.Col
		}
		ruleID := d.Rule
		if ruleID == "" {
			ruleID = d.Code.ID()
		}
		results = append(results, SarifResult{
			RuleID:  ruleID,
			Level:   sarifLevel(d.Severity),
			Message: SarifMessage{Text: d.Code.ID() + ": " + d.Message},
			Locations: []SarifLocation{{
				PhysicalLocation: SarifPhysicalLocation{
					ArtifactLocation: SarifArtifactLocation{URI: formatFileURI(formatPath(f, fs, meta.PathMode))},
					Region:           region,
				},
			}},
		})
	}

	return &SarifReport{
		Schema:  SarifSchemaURI,
		Version: SarifVersion,
		Runs:    []SarifRun{{Tool: SarifTool{Driver: drv}, Results: results}},
	}
}

// Sarif форматирует диагностики в SARIF формат (v2.1.0)
func Sarif(w io.Writer, bag *diag.Bag, fs *source.FileSet, meta SarifRunMeta) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(BuildSarif(bag, fs, meta))
}

func sarifLevel(sev diag.Severity) string {
	switch sev {
	case diag.SevError:
		return "error"
	case diag.SevWarning:
		return "warning"
	default:
		return "note"
	}
}

// formatFileURI converts a file path to SARIF URI format.
// Absolute paths get file:// prefix, relative paths stay as-is.
func formatFileURI(path string) string {
	if filepath.IsAbs(path) {
		path = filepath.ToSlash(path)
		if !strings.HasPrefix(path, "/") {
			path = "/" + path
		}
		return "file://" + path
	}
	return filepath.ToSlash(path)
}
