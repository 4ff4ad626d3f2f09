package reporter

import (
	"fmt"

	"github.com/fatih/color"

	"github.com/HueCodes/hornet/internal/audit"
	"github.com/HueCodes/hornet/internal/rules"
)

// TerminalReporter outputs results to the terminal with colors
type TerminalReporter struct {
	cfg *Config
}

func (r *TerminalReporter) paint(attrs ...color.Attribute) func(a ...interface{}) string {
	c := color.New(attrs...)
	if r.cfg.UseColors {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	return c.SprintFunc()
}

// Report outputs the audit results
func (r *TerminalReporter) Report(report *audit.Report) error {
	w := r.cfg.Writer

	pass := r.paint(color.FgGreen, color.Bold)
	fail := r.paint(color.FgRed, color.Bold)
	warn := r.paint(color.FgYellow)
	gray := r.paint(color.FgHiBlack)

	for _, v := range report.Verdicts {
		if r.cfg.Quiet && v.Passed {
			continue
		}
		status := pass("PASS")
		if !v.Passed {
			status = fail("FAIL")
		}
		name := v.Name
		if name == "" {
			name = v.RuleID
		}
		fmt.Fprintf(w, "%s %-8s %-24s %s\n", status, v.RuleID, name,
			gray(fmt.Sprintf("%s, %d examined", scope(v), v.Examined())))

		if !r.cfg.Verbose {
			continue
		}
		if v.Examined() == 0 {
			fmt.Fprintf(w, "       │ no %s files found\n", v.Target)
			continue
		}
		for _, f := range v.Files {
			switch f.Status {
			case rules.StatusMatched:
				fmt.Fprintf(w, "       │ %s %s (line %d)\n", pass("✓"), f.Path, f.Matches[0].Line)
			case rules.StatusUnmatched:
				fmt.Fprintf(w, "       │ %s %s\n", fail("✗"), f.Path)
			case rules.StatusUnreadable:
				fmt.Fprintf(w, "       │ %s %s: %v\n", warn("!"), f.Path, f.Err)
			}
		}
	}

	for _, wn := range report.Warnings {
		fmt.Fprintf(w, "%s [%s] %s: %v\n", warn("warning:"), wn.RuleID, wn.Path, wn.Err)
	}

	fmt.Fprintln(w)
	passed, failed := report.Counts()
	if failed == 0 {
		fmt.Fprintf(w, "%s All %d rule(s) passed\n", pass("✓"), passed)
	} else {
		fmt.Fprintf(w, "Found %s, %s\n",
			fail(fmt.Sprintf("%d failed", failed)),
			pass(fmt.Sprintf("%d passed", passed)))
	}

	return nil
}
