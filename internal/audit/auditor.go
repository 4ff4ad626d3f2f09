package audit

import (
	"context"
	"fmt"
	"sort"

	"github.com/rs/zerolog"

	"github.com/HueCodes/hornet/internal/locator"
	"github.com/HueCodes/hornet/internal/parallel"
	"github.com/HueCodes/hornet/internal/rules"
)

// Auditor runs a rule set against the files under a pair of roots
type Auditor struct {
	rules       rules.Set
	enabled     map[string]bool
	disabled    map[string]bool
	workers     int
	locatorOpts []locator.Option
	logger      zerolog.Logger
}

// Option is a function that configures an Auditor
type Option func(*Auditor)

// New creates a new Auditor with the given options.
// Without WithRules the built-in rule set is used.
func New(opts ...Option) *Auditor {
	a := &Auditor{
		enabled:  make(map[string]bool),
		disabled: make(map[string]bool),
		logger:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.rules == nil {
		a.rules = rules.Default()
	}
	return a
}

// WithRules sets the rules to run
func WithRules(set rules.Set) Option {
	return func(a *Auditor) {
		a.rules = set
	}
}

// WithEnabled sets specific rules to enable (if set, only these run)
func WithEnabled(ids ...string) Option {
	return func(a *Auditor) {
		for _, id := range ids {
			a.enabled[id] = true
		}
	}
}

// WithDisabled sets specific rules to disable
func WithDisabled(ids ...string) Option {
	return func(a *Auditor) {
		for _, id := range ids {
			a.disabled[id] = true
		}
	}
}

// WithWorkers bounds how many rules are evaluated at once
func WithWorkers(n int) Option {
	return func(a *Auditor) {
		a.workers = n
	}
}

// WithLocatorOptions passes options through to file discovery
func WithLocatorOptions(opts ...locator.Option) Option {
	return func(a *Auditor) {
		a.locatorOpts = append(a.locatorOpts, opts...)
	}
}

// WithLogger sets the logger
func WithLogger(l zerolog.Logger) Option {
	return func(a *Auditor) {
		a.logger = l
	}
}

// Rules returns the rules that will run, in report order
func (a *Auditor) Rules() rules.Set {
	return a.rules.Filter(a.enabled, a.disabled)
}

// Audit discovers files under roots and evaluates every rule.
//
// Invalid rules and missing roots are returned as errors before any rule
// runs. Unreadable files never abort the audit; they show up in
// Report.Warnings.
func (a *Auditor) Audit(ctx context.Context, roots locator.Roots) (*Report, error) {
	set, err := a.selectRules()
	if err != nil {
		return nil, err
	}

	locOpts := append([]locator.Option{locator.WithLogger(a.logger)}, a.locatorOpts...)
	files, err := locator.Locate(ctx, roots, locOpts...)
	if err != nil {
		return nil, err
	}

	a.logger.Info().
		Int("rules", len(set)).
		Int("build_files", len(files.BuildFiles)).
		Int("manifests", len(files.Manifests)).
		Msg("Evaluating rules")

	return a.Evaluate(ctx, set, files)
}

// selectRules validates the rule set and the enable/disable lists.
// Unknown IDs and a selection that leaves no rule are configuration errors.
func (a *Auditor) selectRules() (rules.Set, error) {
	if err := a.rules.Validate(); err != nil {
		return nil, err
	}
	if err := a.rules.CheckIDs(sortedKeys(a.enabled)...); err != nil {
		return nil, err
	}
	if err := a.rules.CheckIDs(sortedKeys(a.disabled)...); err != nil {
		return nil, err
	}

	set := a.Rules()
	if len(set) == 0 {
		return nil, &rules.ConfigError{Reason: "no rules selected"}
	}
	return set, nil
}

func sortedKeys(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Evaluate runs set against already discovered files. Every rule is
// evaluated; per-rule failures come back together as a
// *parallel.AggregateError.
func (a *Auditor) Evaluate(ctx context.Context, set rules.Set, files locator.Files) (*Report, error) {
	p := parallel.New(parallel.WithWorkers(a.workers))
	results := parallel.Process(ctx, p, set, func(ctx context.Context, r rules.Rule) (rules.Evaluation, error) {
		eval, err := rules.Evaluate(ctx, r, files)
		if err != nil {
			return eval, fmt.Errorf("evaluating %s: %w", r.ID, err)
		}
		return eval, nil
	})

	if aggErr := parallel.CollectErrors(results); aggErr.HasErrors() {
		return nil, aggErr
	}

	report := &Report{
		Verdicts: make([]Verdict, 0, len(set)),
		Files:    files,
	}

	for _, res := range results {
		r := res.Item
		eval := res.Result
		report.Verdicts = append(report.Verdicts, Verdict{
			RuleID:      r.ID,
			Name:        r.Name,
			Description: r.Description,
			Target:      r.Target,
			Quantifier:  r.Quantifier,
			Passed:      eval.Passed,
			Files:       eval.Files,
		})

		for _, fo := range eval.Unreadable() {
			a.logger.Warn().Err(fo.Err).Str("rule", r.ID).Str("path", fo.Path).Msg("File could not be scanned")
			report.Warnings = append(report.Warnings, Warning{RuleID: r.ID, Path: fo.Path, Err: fo.Err})
		}

		a.logger.Debug().
			Str("rule", r.ID).
			Bool("passed", eval.Passed).
			Int("examined", len(eval.Files)).
			Msg("Rule evaluated")
	}

	return report, nil
}
