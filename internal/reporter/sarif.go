package reporter

import (
	"encoding/json"
	"fmt"

	"github.com/HueCodes/hornet/internal/audit"
	"github.com/HueCodes/hornet/internal/rules"
)

// SARIFReporter outputs results in SARIF format
type SARIFReporter struct {
	cfg *Config
}

// SARIF format structures
type SARIFLog struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
	Runs    []SARIFRun `json:"runs"`
}

type SARIFRun struct {
	Tool        SARIFTool         `json:"tool"`
	Results     []SARIFResult     `json:"results"`
	Invocations []SARIFInvocation `json:"invocations,omitempty"`
}

type SARIFTool struct {
	Driver SARIFDriver `json:"driver"`
}

type SARIFDriver struct {
	Name           string      `json:"name"`
	Version        string      `json:"version"`
	InformationUri string      `json:"informationUri"`
	Rules          []SARIFRule `json:"rules"`
}

type SARIFRule struct {
	ID               string          `json:"id"`
	Name             string          `json:"name,omitempty"`
	ShortDescription SARIFMessage    `json:"shortDescription,omitempty"`
	DefaultConfig    SARIFRuleConfig `json:"defaultConfiguration,omitempty"`
}

type SARIFRuleConfig struct {
	Level string `json:"level"`
}

type SARIFMessage struct {
	Text string `json:"text"`
}

type SARIFResult struct {
	RuleID    string          `json:"ruleId"`
	Level     string          `json:"level"`
	Kind      string          `json:"kind"`
	Message   SARIFMessage    `json:"message"`
	Locations []SARIFLocation `json:"locations,omitempty"`
}

type SARIFLocation struct {
	PhysicalLocation SARIFPhysicalLocation `json:"physicalLocation"`
}

type SARIFPhysicalLocation struct {
	ArtifactLocation SARIFArtifactLocation `json:"artifactLocation"`
}

type SARIFArtifactLocation struct {
	URI string `json:"uri"`
}

type SARIFInvocation struct {
	ExecutionSuccessful        bool                `json:"executionSuccessful"`
	ToolExecutionNotifications []SARIFNotification `json:"toolExecutionNotifications,omitempty"`
}

type SARIFNotification struct {
	Level     string          `json:"level"`
	Message   SARIFMessage    `json:"message"`
	Locations []SARIFLocation `json:"locations,omitempty"`
}

func location(path string) SARIFLocation {
	return SARIFLocation{
		PhysicalLocation: SARIFPhysicalLocation{
			ArtifactLocation: SARIFArtifactLocation{URI: path},
		},
	}
}

// Report outputs the audit results in SARIF format
func (r *SARIFReporter) Report(report *audit.Report) error {
	run := SARIFRun{
		Tool: SARIFTool{
			Driver: SARIFDriver{
				Name:           "hornet",
				Version:        r.cfg.Version,
				InformationUri: "https://github.com/HueCodes/hornet",
				Rules:          []SARIFRule{},
			},
		},
		Results: []SARIFResult{},
	}

	for _, v := range report.Verdicts {
		run.Tool.Driver.Rules = append(run.Tool.Driver.Rules, SARIFRule{
			ID:               v.RuleID,
			Name:             v.Name,
			ShortDescription: SARIFMessage{Text: v.Description},
			DefaultConfig:    SARIFRuleConfig{Level: "error"},
		})

		res := SARIFResult{
			RuleID:  v.RuleID,
			Level:   "none",
			Kind:    "pass",
			Message: SARIFMessage{Text: fmt.Sprintf("%s passed (%s)", v.RuleID, scope(v))},
		}
		if !v.Passed {
			res.Level = "error"
			res.Kind = "fail"
			res.Message.Text = fmt.Sprintf("%s failed: no match in %s", v.RuleID, scope(v))
			for _, f := range v.Files {
				if f.Status != rules.StatusMatched {
					res.Locations = append(res.Locations, location(f.Path))
				}
			}
		}
		run.Results = append(run.Results, res)
	}

	inv := SARIFInvocation{ExecutionSuccessful: true}
	for _, wn := range report.Warnings {
		inv.ToolExecutionNotifications = append(inv.ToolExecutionNotifications, SARIFNotification{
			Level:     "warning",
			Message:   SARIFMessage{Text: fmt.Sprintf("[%s] file could not be scanned: %v", wn.RuleID, wn.Err)},
			Locations: []SARIFLocation{location(wn.Path)},
		})
	}
	run.Invocations = []SARIFInvocation{inv}

	log := SARIFLog{
		Schema:  "https://raw.githubusercontent.com/oasis-tcs/sarif-spec/master/Schemata/sarif-schema-2.1.0.json",
		Version: "2.1.0",
		Runs:    []SARIFRun{run},
	}

	encoder := json.NewEncoder(r.cfg.Writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(log)
}
