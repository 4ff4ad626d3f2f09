package audit

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/HueCodes/hornet/internal/locator"
	"github.com/HueCodes/hornet/internal/rules"
)

// Verdict is the pass/fail result of one rule
type Verdict struct {
	RuleID      string
	Name        string
	Description string
	Target      locator.FileClass
	Quantifier  rules.Quantifier
	Passed      bool
	Files       []rules.FileOutcome // files examined, in scan order
}

// Examined returns how many target files were scanned for the verdict
func (v Verdict) Examined() int { return len(v.Files) }

// Warning records a file that could not be scanned for a rule.
// It contributed false to the rule but is not a pattern-absent result.
type Warning struct {
	RuleID string
	Path   string
	Err    error
}

func (w Warning) String() string {
	return fmt.Sprintf("[%s] %s: %v", w.RuleID, w.Path, w.Err)
}

// Report holds one verdict per configured rule, in rule order
type Report struct {
	Verdicts []Verdict
	Warnings []Warning
	Files    locator.Files
}

// Passed returns true when every verdict passed
func (r *Report) Passed() bool {
	for _, v := range r.Verdicts {
		if !v.Passed {
			return false
		}
	}
	return true
}

// Failed returns the verdicts that did not pass
func (r *Report) Failed() []Verdict {
	var failed []Verdict
	for _, v := range r.Verdicts {
		if !v.Passed {
			failed = append(failed, v)
		}
	}
	return failed
}

// Verdict returns the verdict for a rule ID
func (r *Report) Verdict(id string) (Verdict, bool) {
	for _, v := range r.Verdicts {
		if v.RuleID == id {
			return v, true
		}
	}
	return Verdict{}, false
}

// Counts returns the number of passed and failed verdicts
func (r *Report) Counts() (passed, failed int) {
	for _, v := range r.Verdicts {
		if v.Passed {
			passed++
		} else {
			failed++
		}
	}
	return passed, failed
}

// MarshalJSON encodes the verdicts as an ordered list of {rule_id: bool}
func (r *Report) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, v := range r.Verdicts {
		if i > 0 {
			buf.WriteByte(',')
		}
		id, err := json.Marshal(v.RuleID)
		if err != nil {
			return nil, err
		}
		buf.WriteByte('{')
		buf.Write(id)
		buf.WriteByte(':')
		if v.Passed {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
		buf.WriteByte('}')
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}
