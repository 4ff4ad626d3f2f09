package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "0.1.0"

// errAuditFailed signals that at least one rule failed; it maps to exit code 1
var errAuditFailed = errors.New("audit failed")

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "hornet",
		Short: "Container hardening auditor for Dockerfiles and Kubernetes manifests",
		Long: `Hornet audits Dockerfiles and Kubernetes manifests against a fixed set
of container hardening rules taken from the OWASP Docker Security cheat
sheet: a non-root USER, declared capabilities, disabled privilege
escalation, resource limits and a read-only root filesystem.

Files are matched line by line; comments and blank lines are ignored.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		auditCmd(),
		rulesCmd(),
		initCmd(),
	)

	// Global flags
	rootCmd.PersistentFlags().StringP("config", "c", "", "Config file path (default .hornet.yaml)")
	rootCmd.PersistentFlags().Bool("no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "Only print failing rules and errors")
	rootCmd.PersistentFlags().CountP("verbose", "v", "Increase verbosity (-v info, -vv debug)")

	return rootCmd
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	rootCmd := newRootCmd()
	rootCmd.SetArgs(args)

	if err := rootCmd.Execute(); err != nil {
		if errors.Is(err, errAuditFailed) {
			return 1
		}
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	return 0
}
