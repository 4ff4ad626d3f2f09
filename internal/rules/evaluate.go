package rules

import (
	"context"

	"github.com/HueCodes/hornet/internal/locator"
	"github.com/HueCodes/hornet/internal/scanner"
)

// FileStatus is the outcome of scanning one file for a rule
type FileStatus int

const (
	StatusUnmatched FileStatus = iota
	StatusMatched
	StatusUnreadable
)

func (s FileStatus) String() string {
	switch s {
	case StatusMatched:
		return "matched"
	case StatusUnmatched:
		return "unmatched"
	case StatusUnreadable:
		return "unreadable"
	default:
		return "unknown"
	}
}

// FileOutcome records what happened to one scanned file
type FileOutcome struct {
	Path    string
	Status  FileStatus
	Matches []scanner.Match
	Err     error // set when Status is StatusUnreadable
}

// Evaluation is the verdict for one rule plus the files examined to reach it
type Evaluation struct {
	Passed bool
	Files  []FileOutcome
}

// Unreadable returns the outcomes of files that could not be scanned
func (e Evaluation) Unreadable() []FileOutcome {
	var out []FileOutcome
	for _, f := range e.Files {
		if f.Status == StatusUnreadable {
			out = append(out, f)
		}
	}
	return out
}

// Evaluate decides whether rule holds over the discovered files.
//
// An empty target set never satisfies a rule. ForAll stops at the first
// unmatched file, ForAny at the first matched one. Unreadable files count
// as unmatched and are reported in the returned Files.
func Evaluate(ctx context.Context, rule Rule, files locator.Files) (Evaluation, error) {
	if err := rule.Validate(); err != nil {
		return Evaluation{}, err
	}

	targets, err := files.Of(rule.Target)
	if err != nil {
		return Evaluation{}, &ConfigError{RuleID: rule.ID, Reason: "bad target", Err: err}
	}

	var eval Evaluation
	if len(targets) == 0 {
		return eval, nil
	}

	for _, f := range targets {
		if err := ctx.Err(); err != nil {
			return Evaluation{}, err
		}

		fo := scanFile(f, rule)
		eval.Files = append(eval.Files, fo)
		matched := fo.Status == StatusMatched

		switch rule.Quantifier {
		case ForAll:
			if !matched {
				return eval, nil
			}
		case ForAny:
			if matched {
				eval.Passed = true
				return eval, nil
			}
		}
	}

	// Every file was examined: ForAll saw only matches, ForAny saw none.
	eval.Passed = rule.Quantifier == ForAll
	return eval, nil
}

func scanFile(f locator.DiscoveredFile, rule Rule) FileOutcome {
	out, err := scanner.Scan(f, rule.Pattern)
	if err != nil {
		return FileOutcome{Path: f.Path, Status: StatusUnreadable, Err: err}
	}
	if !out.Matched {
		return FileOutcome{Path: f.Path, Status: StatusUnmatched}
	}
	return FileOutcome{Path: f.Path, Status: StatusMatched, Matches: out.Matches}
}
