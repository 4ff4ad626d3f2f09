package reporter

import (
	"fmt"

	"github.com/HueCodes/hornet/internal/audit"
)

// GitHubReporter outputs results as GitHub Actions workflow commands
type GitHubReporter struct {
	cfg *Config
}

// Report outputs the audit results as GitHub workflow commands
func (r *GitHubReporter) Report(report *audit.Report) error {
	w := r.cfg.Writer

	for _, v := range report.Failed() {
		// Format: ::error title={rule}::{message}
		fmt.Fprintf(w, "::error title=%s::%s failed: no match in %s (%d examined)\n",
			v.RuleID, v.RuleID, scope(v), v.Examined())
	}

	for _, wn := range report.Warnings {
		fmt.Fprintf(w, "::warning file=%s,title=%s::file could not be scanned: %v\n", wn.Path, wn.RuleID, wn.Err)
	}

	passed, failed := report.Counts()
	fmt.Fprintf(w, "::group::Summary\n")
	for _, v := range report.Verdicts {
		if r.cfg.Quiet && v.Passed {
			continue
		}
		fmt.Fprintf(w, "%s: %t\n", v.RuleID, v.Passed)
	}
	fmt.Fprintf(w, "%d passed, %d failed\n", passed, failed)
	fmt.Fprintf(w, "::endgroup::\n")

	return nil
}
