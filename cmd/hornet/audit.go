package main

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/HueCodes/hornet/internal/audit"
	"github.com/HueCodes/hornet/internal/config"
	"github.com/HueCodes/hornet/internal/locator"
	"github.com/HueCodes/hornet/internal/logging"
	"github.com/HueCodes/hornet/internal/reporter"
)

func auditCmd() *cobra.Command {
	var (
		buildRoot    string
		manifestRoot string
		output       string
		ignore       []string
		only         []string
		workers      int
	)

	cmd := &cobra.Command{
		Use:   "audit [dir]",
		Short: "Audit Dockerfiles and manifests against the hardening rules",
		Long: `Audit recursively searches the build root for Dockerfiles and the
manifest root for YAML files, then evaluates every rule.

Exit status is 0 when all rules pass, 1 when any rule fails and 2 on error.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			verbosity, _ := cmd.Flags().GetCount("verbose")
			logging.Setup(verbosity, os.Stderr)
			logger := logging.GetLogger("audit")

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			// A positional dir sets both roots; explicit flags still win
			if len(args) > 0 {
				cfg.BuildRoot = args[0]
				cfg.ManifestRoot = args[0]
			}
			flags := cmd.Flags()
			if flags.Changed("build-root") {
				cfg.BuildRoot = buildRoot
			}
			if flags.Changed("manifest-root") {
				cfg.ManifestRoot = manifestRoot
			}
			if flags.Changed("output") {
				cfg.Output = output
			}
			if flags.Changed("workers") {
				cfg.Workers = workers
			}

			set, err := cfg.RuleSet()
			if err != nil {
				return err
			}

			opts := []audit.Option{
				audit.WithRules(set),
				audit.WithWorkers(cfg.Workers),
				audit.WithDisabled(cfg.Disabled()...),
				audit.WithLogger(logger),
				audit.WithLocatorOptions(
					locator.WithBuildFileNames(cfg.BuildFileNames...),
					locator.WithManifestExtensions(cfg.ManifestExtensions...),
					locator.WithIgnore(cfg.IgnorePaths...),
				),
			}
			if len(only) > 0 {
				opts = append(opts, audit.WithEnabled(only...))
			}
			if len(ignore) > 0 {
				opts = append(opts, audit.WithDisabled(ignore...))
			}

			roots := locator.Roots{BuildRoot: cfg.BuildRoot, ManifestRoot: cfg.ManifestRoot}
			report, err := audit.New(opts...).Audit(cmd.Context(), roots)
			if err != nil {
				return fmt.Errorf("audit: %w", err)
			}

			out := cmd.OutOrStdout()
			noColor, _ := cmd.Flags().GetBool("no-color")
			quiet, _ := cmd.Flags().GetBool("quiet")
			rep := reporter.New(reporter.Format(cfg.Output), out,
				reporter.WithColors(!noColor && isTerminal(out)),
				reporter.WithVerbose(verbosity > 0),
				reporter.WithQuiet(quiet),
				reporter.WithVersion(version),
			)
			if err := rep.Report(report); err != nil {
				return fmt.Errorf("failed to report: %w", err)
			}

			if !report.Passed() {
				return errAuditFailed
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&buildRoot, "build-root", ".", "Directory searched for Dockerfiles")
	cmd.Flags().StringVar(&manifestRoot, "manifest-root", ".", "Directory searched for Kubernetes manifests")
	cmd.Flags().StringVarP(&output, "output", "o", "terminal", "Output format: terminal|json|markdown|github|sarif")
	cmd.Flags().StringSliceVar(&ignore, "ignore", nil, "Rules to ignore (e.g., --ignore rule_3,rule_7)")
	cmd.Flags().StringSliceVar(&only, "only", nil, "Only run these rules")
	cmd.Flags().IntVar(&workers, "workers", 0, "Rules evaluated concurrently (default GOMAXPROCS)")

	return cmd
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		return config.Load(config.DefaultFile, true)
	}
	return config.Load(path, false)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
