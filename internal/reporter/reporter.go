package reporter

import (
	"io"

	"github.com/HueCodes/hornet/internal/audit"
	"github.com/HueCodes/hornet/internal/rules"
)

// Reporter is the interface for outputting audit results
type Reporter interface {
	Report(report *audit.Report) error
}

// Format represents the output format
type Format string

const (
	FormatTerminal Format = "terminal"
	FormatJSON     Format = "json"
	FormatSARIF    Format = "sarif"
	FormatMarkdown Format = "markdown"
	FormatGitHub   Format = "github"
)

// Formats lists the supported output formats
var Formats = []Format{FormatTerminal, FormatJSON, FormatSARIF, FormatMarkdown, FormatGitHub}

// New creates a reporter for the given format
func New(format Format, w io.Writer, opts ...Option) Reporter {
	cfg := &Config{
		Writer:    w,
		UseColors: true,
		Verbose:   false,
		Version:   "dev",
	}
	for _, opt := range opts {
		opt(cfg)
	}

	switch format {
	case FormatJSON:
		return &JSONReporter{cfg: cfg}
	case FormatSARIF:
		return &SARIFReporter{cfg: cfg}
	case FormatMarkdown:
		return &MarkdownReporter{cfg: cfg}
	case FormatGitHub:
		return &GitHubReporter{cfg: cfg}
	default:
		return &TerminalReporter{cfg: cfg}
	}
}

// Config holds reporter configuration
type Config struct {
	Writer    io.Writer
	UseColors bool
	Verbose   bool
	Quiet     bool
	Version   string
}

// Option is a function that configures a reporter
type Option func(*Config)

// WithColors enables or disables colors
func WithColors(enabled bool) Option {
	return func(c *Config) {
		c.UseColors = enabled
	}
}

// WithVerbose enables per-file detail
func WithVerbose(enabled bool) Option {
	return func(c *Config) {
		c.Verbose = enabled
	}
}

// WithQuiet hides passing rules in the human-oriented formats.
// JSON and SARIF always carry every verdict.
func WithQuiet(enabled bool) Option {
	return func(c *Config) {
		c.Quiet = enabled
	}
}

// WithVersion sets the tool version embedded in SARIF output
func WithVersion(v string) Option {
	return func(c *Config) {
		c.Version = v
	}
}

// scope describes which files a verdict needed, e.g. "every buildfile"
func scope(v audit.Verdict) string {
	if v.Quantifier == rules.ForAll {
		return "every " + v.Target.String()
	}
	return "any " + v.Target.String()
}
