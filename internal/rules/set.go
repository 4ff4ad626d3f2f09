package rules

import (
	"regexp"

	"github.com/HueCodes/hornet/internal/locator"
)

// Set is an ordered rule table. Order is significant: reports follow it.
type Set []Rule

// Default returns the built-in container hardening rules
func Default() Set {
	return Set{
		{
			ID:          "rule_2",
			Name:        "set-user",
			Description: "Every Dockerfile must switch to a user with a USER instruction instead of running as root.",
			Pattern:     regexp.MustCompile(`USER`),
			Target:      locator.ClassBuildFile,
			Quantifier:  ForAll,
		},
		{
			ID:          "rule_3",
			Name:        "limit-capabilities",
			Description: "Workloads should declare the Linux capabilities they need via securityContext.capabilities.",
			Pattern:     regexp.MustCompile(`capabilities:`),
			Target:      locator.ClassManifest,
			Quantifier:  ForAny,
		},
		{
			ID:          "rule_4",
			Name:        "no-privilege-escalation",
			Description: "Containers should set allowPrivilegeEscalation: false.",
			Pattern:     regexp.MustCompile(`allowPrivilegeEscalation: false`),
			Target:      locator.ClassManifest,
			Quantifier:  ForAny,
		},
		{
			ID:          "rule_7",
			Name:        "limit-resources",
			Description: "Containers should declare resource limits.",
			Pattern:     regexp.MustCompile(`limits:`),
			Target:      locator.ClassManifest,
			Quantifier:  ForAny,
		},
		{
			ID:          "rule_8",
			Name:        "read-only-filesystem",
			Description: "Containers should mount their root filesystem read-only with readOnlyRootFilesystem: true.",
			Pattern:     regexp.MustCompile(`readOnlyRootFilesystem: true`),
			Target:      locator.ClassManifest,
			Quantifier:  ForAny,
		},
	}
}

// Validate checks every rule and rejects duplicate IDs
func (s Set) Validate() error {
	seen := make(map[string]bool, len(s))
	for _, r := range s {
		if err := r.Validate(); err != nil {
			return err
		}
		if seen[r.ID] {
			return &ConfigError{RuleID: r.ID, Reason: "duplicate id"}
		}
		seen[r.ID] = true
	}
	return nil
}

// Get returns a rule by ID
func (s Set) Get(id string) (Rule, bool) {
	for _, r := range s {
		if r.ID == id {
			return r, true
		}
	}
	return Rule{}, false
}

// IDs returns rule IDs in set order
func (s Set) IDs() []string {
	ids := make([]string, 0, len(s))
	for _, r := range s {
		ids = append(ids, r.ID)
	}
	return ids
}

// ByTarget returns the rules targeting the given file class, in set order
func (s Set) ByTarget(class locator.FileClass) Set {
	var out Set
	for _, r := range s {
		if r.Target == class {
			out = append(out, r)
		}
	}
	return out
}

// CheckIDs rejects any ID that does not name a rule in the set
func (s Set) CheckIDs(ids ...string) error {
	for _, id := range ids {
		if _, ok := s.Get(id); !ok {
			return &ConfigError{RuleID: id, Reason: "unknown rule"}
		}
	}
	return nil
}

// Filter keeps the rules that should run. If enabled is non-empty only
// those IDs are kept; disabled IDs are always dropped. Order is kept.
func (s Set) Filter(enabled, disabled map[string]bool) Set {
	out := make(Set, 0, len(s))
	for _, r := range s {
		if disabled[r.ID] {
			continue
		}
		if len(enabled) > 0 && !enabled[r.ID] {
			continue
		}
		out = append(out, r)
	}
	return out
}

// With returns a new set with extra rules appended
func (s Set) With(extra ...Rule) Set {
	out := make(Set, 0, len(s)+len(extra))
	out = append(out, s...)
	return append(out, extra...)
}
