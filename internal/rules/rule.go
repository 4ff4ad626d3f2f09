package rules

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/HueCodes/hornet/internal/locator"
)

// Quantifier decides how many target files must match for a rule to hold
type Quantifier int

const (
	// ForAll holds only if every target file matches
	ForAll Quantifier = iota
	// ForAny holds if at least one target file matches
	ForAny
)

func (q Quantifier) String() string {
	switch q {
	case ForAll:
		return "all"
	case ForAny:
		return "any"
	default:
		return "unknown"
	}
}

// ParseQuantifier maps a config string to a Quantifier
func ParseQuantifier(s string) (Quantifier, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "all", "forall", "every":
		return ForAll, true
	case "any", "forany", "some":
		return ForAny, true
	default:
		return 0, false
	}
}

// ErrInvalidRule marks a rule definition that cannot be evaluated
var ErrInvalidRule = errors.New("invalid rule configuration")

// ConfigError describes what is wrong with a rule definition
type ConfigError struct {
	RuleID string
	Reason string
	Err    error
}

func (e *ConfigError) Error() string {
	msg := "rules: " + e.Reason
	if e.RuleID != "" {
		msg = fmt.Sprintf("rule %q: %s", e.RuleID, e.Reason)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ConfigError) Unwrap() error { return e.Err }

func (e *ConfigError) Is(target error) bool { return target == ErrInvalidRule }

// Rule is a named compliance check
type Rule struct {
	ID          string
	Name        string
	Description string
	Pattern     *regexp.Regexp
	Target      locator.FileClass
	Quantifier  Quantifier
}

// Validate checks that the rule can be evaluated
func (r Rule) Validate() error {
	if r.ID == "" {
		return &ConfigError{Reason: "missing id"}
	}
	if r.Pattern == nil {
		return &ConfigError{RuleID: r.ID, Reason: "missing pattern"}
	}
	switch r.Target {
	case locator.ClassBuildFile, locator.ClassManifest:
	default:
		return &ConfigError{RuleID: r.ID, Reason: fmt.Sprintf("unknown target class %d", int(r.Target))}
	}
	switch r.Quantifier {
	case ForAll, ForAny:
	default:
		return &ConfigError{RuleID: r.ID, Reason: fmt.Sprintf("unknown quantifier %d", int(r.Quantifier))}
	}
	return nil
}

// Spec is the textual form of a rule, as found in config files
type Spec struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Target      string `yaml:"target"`
	Quantifier  string `yaml:"quantifier"`
	Pattern     string `yaml:"pattern"`
}

// New compiles a Spec into a Rule
func New(s Spec) (Rule, error) {
	if s.ID == "" {
		return Rule{}, &ConfigError{Reason: "missing id"}
	}

	target, ok := locator.ParseFileClass(s.Target)
	if !ok {
		return Rule{}, &ConfigError{RuleID: s.ID, Reason: fmt.Sprintf("unknown target class %q", s.Target)}
	}

	quant, ok := ParseQuantifier(s.Quantifier)
	if !ok {
		return Rule{}, &ConfigError{RuleID: s.ID, Reason: fmt.Sprintf("unknown quantifier %q", s.Quantifier)}
	}

	if s.Pattern == "" {
		return Rule{}, &ConfigError{RuleID: s.ID, Reason: "missing pattern"}
	}
	re, err := regexp.Compile(s.Pattern)
	if err != nil {
		return Rule{}, &ConfigError{RuleID: s.ID, Reason: "bad pattern", Err: err}
	}

	name := s.Name
	if name == "" {
		name = s.ID
	}

	return Rule{
		ID:          s.ID,
		Name:        name,
		Description: s.Description,
		Pattern:     re,
		Target:      target,
		Quantifier:  quant,
	}, nil
}
