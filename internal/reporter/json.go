package reporter

import (
	"encoding/json"

	"github.com/HueCodes/hornet/internal/audit"
)

// JSONReporter outputs results as JSON
type JSONReporter struct {
	cfg *Config
}

// JSONOutput is the JSON output structure
type JSONOutput struct {
	Results  *audit.Report `json:"results"`
	Warnings []JSONWarning `json:"warnings"`
	Details  []JSONVerdict `json:"details,omitempty"`
	Summary  JSONSummary   `json:"summary"`
}

// JSONVerdict carries per-rule detail in verbose mode
type JSONVerdict struct {
	Rule       string     `json:"rule"`
	Name       string     `json:"name,omitempty"`
	Target     string     `json:"target"`
	Quantifier string     `json:"quantifier"`
	Passed     bool       `json:"passed"`
	Files      []JSONFile `json:"files"`
}

// JSONFile is one examined file
type JSONFile struct {
	Path   string `json:"path"`
	Status string `json:"status"`
	Lines  []int  `json:"lines,omitempty"`
	Error  string `json:"error,omitempty"`
}

// JSONWarning is a file that could not be scanned
type JSONWarning struct {
	Rule  string `json:"rule"`
	Path  string `json:"path"`
	Error string `json:"error"`
}

// JSONSummary contains summary counts
type JSONSummary struct {
	Total  int  `json:"total"`
	Passed int  `json:"passed"`
	Failed int  `json:"failed"`
	OK     bool `json:"ok"`
}

// Report outputs the audit results as JSON
func (r *JSONReporter) Report(report *audit.Report) error {
	passed, failed := report.Counts()
	output := JSONOutput{
		Results:  report,
		Warnings: make([]JSONWarning, 0, len(report.Warnings)),
		Summary: JSONSummary{
			Total:  len(report.Verdicts),
			Passed: passed,
			Failed: failed,
			OK:     failed == 0,
		},
	}

	for _, w := range report.Warnings {
		output.Warnings = append(output.Warnings, JSONWarning{
			Rule:  w.RuleID,
			Path:  w.Path,
			Error: w.Err.Error(),
		})
	}

	if r.cfg.Verbose {
		for _, v := range report.Verdicts {
			jv := JSONVerdict{
				Rule:       v.RuleID,
				Name:       v.Name,
				Target:     v.Target.String(),
				Quantifier: v.Quantifier.String(),
				Passed:     v.Passed,
				Files:      make([]JSONFile, 0, len(v.Files)),
			}
			for _, f := range v.Files {
				jf := JSONFile{Path: f.Path, Status: f.Status.String()}
				for _, m := range f.Matches {
					jf.Lines = append(jf.Lines, m.Line)
				}
				if f.Err != nil {
					jf.Error = f.Err.Error()
				}
				jv.Files = append(jv.Files, jf)
			}
			output.Details = append(output.Details, jv)
		}
	}

	encoder := json.NewEncoder(r.cfg.Writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}
