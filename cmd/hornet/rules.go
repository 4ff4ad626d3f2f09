package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/HueCodes/hornet/internal/locator"
	"github.com/HueCodes/hornet/internal/rules"
)

func rulesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "rules [rule]",
		Aliases: []string{"explain"},
		Short:   "List rules or show detailed explanation of a rule",
		Long:    "Show detailed explanation of a rule or list all configured rules if no argument is given.",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			set, err := cfg.RuleSet()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(args) == 0 {
				return listRules(out, set)
			}

			for _, id := range []string{args[0], strings.ToLower(args[0])} {
				if r, ok := set.Get(id); ok {
					return explainRule(out, r)
				}
			}
			return fmt.Errorf("rule %q not found", args[0])
		},
	}

	return cmd
}

func listRules(w io.Writer, set rules.Set) error {
	fmt.Fprintln(w, "Available rules:")
	fmt.Fprintln(w)

	for _, class := range []locator.FileClass{locator.ClassBuildFile, locator.ClassManifest} {
		classRules := set.ByTarget(class)
		if len(classRules) == 0 {
			continue
		}

		fmt.Fprintf(w, "## %s\n", class)
		for _, r := range classRules {
			fmt.Fprintf(w, "  %-8s  %-28s  %s\n", r.ID, r.Name, r.Quantifier)
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "Total: %d rules\n", len(set))
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Use 'hornet rules <rule>' for detailed information about a specific rule.")

	return nil
}

func explainRule(w io.Writer, r rules.Rule) error {
	fmt.Fprintf(w, "Rule: %s (%s)\n", r.ID, r.Name)
	fmt.Fprintf(w, "Target: %s\n", r.Target)
	fmt.Fprintf(w, "Quantifier: %s\n", describeQuantifier(r))
	fmt.Fprintf(w, "Pattern: %s\n", r.Pattern)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Description:")
	fmt.Fprintf(w, "  %s\n", r.Description)
	fmt.Fprintln(w)
	return nil
}

func describeQuantifier(r rules.Rule) string {
	switch r.Quantifier {
	case rules.ForAll:
		return fmt.Sprintf("all (every %s must match)", r.Target)
	case rules.ForAny:
		return fmt.Sprintf("any (at least one %s must match)", r.Target)
	default:
		return r.Quantifier.String()
	}
}
