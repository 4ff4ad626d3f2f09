package reporter

import (
	"fmt"

	"github.com/HueCodes/hornet/internal/audit"
	"github.com/HueCodes/hornet/internal/rules"
)

// MarkdownReporter outputs results as Markdown
type MarkdownReporter struct {
	cfg *Config
}

// Report outputs the audit results as Markdown
func (r *MarkdownReporter) Report(report *audit.Report) error {
	w := r.cfg.Writer

	if report.Passed() && len(report.Verdicts) > 0 {
		fmt.Fprintf(w, "## ✅ All %d rules passed\n\n", len(report.Verdicts))
	} else {
		_, failed := report.Counts()
		fmt.Fprintf(w, "## ❌ Container hardening audit: %d rule(s) failed\n\n", failed)
	}

	fmt.Fprintf(w, "| Rule | Name | Scope | Examined | Result |\n")
	fmt.Fprintf(w, "|------|------|-------|----------|--------|\n")
	for _, v := range report.Verdicts {
		if r.cfg.Quiet && v.Passed {
			continue
		}
		result := "🟢 pass"
		if !v.Passed {
			result = "🔴 fail"
		}
		fmt.Fprintf(w, "| `%s` | %s | %s | %d | %s |\n", v.RuleID, v.Name, scope(v), v.Examined(), result)
	}
	fmt.Fprintln(w)

	if r.cfg.Verbose {
		for _, v := range report.Failed() {
			fmt.Fprintf(w, "### `%s`\n\n", v.RuleID)
			if v.Description != "" {
				fmt.Fprintf(w, "%s\n\n", v.Description)
			}
			if v.Examined() == 0 {
				fmt.Fprintf(w, "No %s files were found.\n\n", v.Target)
				continue
			}
			for _, f := range v.Files {
				if f.Status != rules.StatusMatched {
					fmt.Fprintf(w, "- `%s`: %s\n", f.Path, f.Status)
				}
			}
			fmt.Fprintln(w)
		}
	}

	if len(report.Warnings) > 0 {
		fmt.Fprintf(w, "### Warnings\n\n")
		for _, wn := range report.Warnings {
			fmt.Fprintf(w, "> ⚠️ `%s` could not be scanned for `%s`: %v\n\n", wn.Path, wn.RuleID, wn.Err)
		}
	}

	return nil
}
