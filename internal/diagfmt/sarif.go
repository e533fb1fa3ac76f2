package diagfmt

import (
	"encoding/json"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"nsguard/internal/diag"
	"nsguard/internal/source"
)

// SARIF 2.1.0 schema types
// See: https://docs.oasis-open.org/sarif/sarif/v2.1.0/sarif-v2.1.0.html

const (
	sarifSchema  = "https://raw.githubusercontent.com/oasis-tcs/sarif-spec/master/Schemata/sarif-schema-2.1.0.json"
	sarifVersion = "2.1.0"
)

// SARIFReport is the top-level SARIF document.
type SARIFReport struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
	Runs    []SARIFRun `json:"runs"`
}

// SARIFRun represents a single analysis run.
type SARIFRun struct {
	Tool              SARIFTool               `json:"tool"`
	AutomationDetails *SARIFAutomationDetails `json:"automationDetails,omitempty"`
	Results           []SARIFResult           `json:"results"`
	Invocations       []SARIFInvocation       `json:"invocations,omitempty"`
}

// SARIFAutomationDetails identifies the run.
type SARIFAutomationDetails struct {
	GUID string `json:"guid"`
}

type SARIFTool struct {
	Driver SARIFDriver `json:"driver"`
}

type SARIFDriver struct {
	Name    string      `json:"name"`
	Version string      `json:"version,omitempty"`
	Rules   []SARIFRule `json:"rules,omitempty"`
}

type SARIFRule struct {
	ID                   string                  `json:"id"`
	Name                 string                  `json:"name,omitempty"`
	ShortDescription     *SARIFMessage           `json:"shortDescription,omitempty"`
	DefaultConfiguration *SARIFRuleConfiguration `json:"defaultConfiguration,omitempty"`
}

type SARIFRuleConfiguration struct {
	Level string `json:"level,omitempty"` // error, warning, note, none
}

// SARIFResult represents a single finding.
type SARIFResult struct {
	RuleID    string          `json:"ruleId"`
	RuleIndex int             `json:"ruleIndex"`
	Level     string          `json:"level,omitempty"`
	Message   SARIFMessage    `json:"message"`
	Locations []SARIFLocation `json:"locations,omitempty"`
}

type SARIFMessage struct {
	Text string `json:"text,omitempty"`
}

type SARIFLocation struct {
	PhysicalLocation *SARIFPhysicalLocation `json:"physicalLocation,omitempty"`
}

type SARIFPhysicalLocation struct {
	ArtifactLocation *SARIFArtifactLocation `json:"artifactLocation,omitempty"`
	Region           *SARIFRegion           `json:"region,omitempty"`
}

type SARIFArtifactLocation struct {
	URI       string `json:"uri,omitempty"`
	URIBaseID string `json:"uriBaseId,omitempty"`
}

type SARIFRegion struct {
	StartLine   uint32 `json:"startLine,omitempty"`
	StartColumn uint32 `json:"startColumn,omitempty"`
	EndLine     uint32 `json:"endLine,omitempty"`
	EndColumn   uint32 `json:"endColumn,omitempty"`
}

type SARIFInvocation struct {
	ExecutionSuccessful bool                   `json:"executionSuccessful"`
	CommandLine         string                 `json:"commandLine,omitempty"`
	WorkingDirectory    *SARIFArtifactLocation `json:"workingDirectory,omitempty"`
}

func sarifLevel(s diag.Severity) string {
	switch s {
	case diag.SevError:
		return "error"
	case diag.SevWarning:
		return "warning"
	default:
		return "note"
	}
}

// BuildSarif builds a SARIF log with one run. Every known code becomes a
// rule so rule indices are stable across runs.
func BuildSarif(bag *diag.Bag, fs *source.FileSet, meta SarifRunMeta) SARIFReport {
	codes := diag.Codes()
	rules := make([]SARIFRule, 0, len(codes))
	ruleIndex := make(map[diag.Code]int, len(codes))
	for i, c := range codes {
		ruleIndex[c] = i
		rules = append(rules, SARIFRule{
			ID:                   c.ID(),
			Name:                 c.Number(),
			ShortDescription:     &SARIFMessage{Text: c.Title()},
			DefaultConfiguration: &SARIFRuleConfiguration{Level: sarifLevel(c.DefaultSeverity())},
		})
	}

	results := make([]SARIFResult, 0, bag.Len())
	for _, d := range bag.Items() {
		r := SARIFResult{
			RuleID:    d.Code.ID(),
			RuleIndex: ruleIndex[d.Code],
			Level:     sarifLevel(d.Severity),
			Message:   SARIFMessage{Text: d.Message},
		}
		if f := fs.Get(d.Primary.File); f != nil {
			start, end := fs.Resolve(d.Primary)
			r.Locations = []SARIFLocation{{
				PhysicalLocation: &SARIFPhysicalLocation{
					ArtifactLocation: &SARIFArtifactLocation{
						URI:       filepath.ToSlash(f.FormatPath("relative", fs.BaseDir())),
						URIBaseID: "%SRCROOT%",
					},
					Region: &SARIFRegion{
						StartLine:   start.Line,
						StartColumn: start.Col,
						EndLine:     end.Line,
						EndColumn:   end.Col,
					},
				},
			}}
		}
		results = append(results, r)
	}

	run := SARIFRun{
		Tool:              SARIFTool{Driver: SARIFDriver{Name: meta.ToolName, Version: meta.ToolVersion, Rules: rules}},
		AutomationDetails: &SARIFAutomationDetails{GUID: uuid.NewString()},
		Results:           results,
	}
	if len(meta.InvocationArgs) > 0 || meta.WorkingDir != "" {
		inv := SARIFInvocation{
			ExecutionSuccessful: true,
			CommandLine:         strings.Join(meta.InvocationArgs, " "),
		}
		if meta.WorkingDir != "" {
			inv.WorkingDirectory = &SARIFArtifactLocation{URI: filepath.ToSlash(meta.WorkingDir)}
		}
		run.Invocations = []SARIFInvocation{inv}
	}
	return SARIFReport{Schema: sarifSchema, Version: sarifVersion, Runs: []SARIFRun{run}}
}

// Sarif writes diagnostics as a SARIF 2.1.0 log.
func Sarif(w io.Writer, bag *diag.Bag, fs *source.FileSet, meta SarifRunMeta) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(BuildSarif(bag, fs, meta))
}
