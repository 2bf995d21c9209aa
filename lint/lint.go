// Package lint runs external linters over changed source text.
package lint

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/fwojciec/prscope"
	"github.com/sirupsen/logrus"
)

// Compile-time interface verification.
var _ prscope.StaticAnalyzer = (*Analyzer)(nil)

// DefaultTimeout bounds a single linter invocation.
const DefaultTimeout = 15 * time.Second

// NoIssues is reported when no linter produced output.
const NoIssues = "No critical issues found in diff."

// Tool is an external linter invoked with a single file argument.
type Tool struct {
	Name      string // Executable name, e.g. "pylint"
	Label     string // Name used in failure messages, e.g. "Pylint"
	Extension string // Suffix of the temporary source file
}

// Known linters.
var (
	Pylint = Tool{Name: "pylint", Label: "Pylint", Extension: ".py"}
	Bandit = Tool{Name: "bandit", Label: "Bandit", Extension: ".py"}
)

// ToolByName returns the known tool with the given executable name.
func ToolByName(name string) (Tool, bool) {
	switch name {
	case Pylint.Name:
		return Pylint, true
	case Bandit.Name:
		return Bandit, true
	}
	return Tool{}, false
}

// CommandRunner runs an external command and returns its standard output.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) (string, error)
}

// ExecRunner implements CommandRunner with os/exec.
type ExecRunner struct{}

// Run executes name with args. A non-zero exit status is not an error:
// linters exit non-zero whenever they report findings.
func (ExecRunner) Run(ctx context.Context, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	output, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && ctx.Err() == nil {
			return string(output), nil
		}
		if ctx.Err() != nil {
			return "", fmt.Errorf("%s timed out: %w", name, ctx.Err())
		}
		return "", err
	}
	return string(output), nil
}

// Analyzer implements prscope.StaticAnalyzer by running the linters
// registered for the detected language of the source.
type Analyzer struct {
	runner  CommandRunner
	tools   map[prscope.Language][]Tool
	timeout time.Duration
	tempDir string
	logger  logrus.FieldLogger
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithRunner sets the command runner.
func WithRunner(r CommandRunner) Option {
	return func(a *Analyzer) {
		a.runner = r
	}
}

// WithTools replaces the linters run for lang.
func WithTools(lang prscope.Language, tools ...Tool) Option {
	return func(a *Analyzer) {
		a.tools[lang] = tools
	}
}

// WithTimeout sets the per-tool timeout.
func WithTimeout(d time.Duration) Option {
	return func(a *Analyzer) {
		a.timeout = d
	}
}

// WithTempDir sets the directory for temporary source files.
func WithTempDir(dir string) Option {
	return func(a *Analyzer) {
		a.tempDir = dir
	}
}

// WithLogger sets the logger.
func WithLogger(l logrus.FieldLogger) Option {
	return func(a *Analyzer) {
		a.logger = l
	}
}

// NewAnalyzer creates an Analyzer that runs pylint and bandit on python
// source.
func NewAnalyzer(opts ...Option) *Analyzer {
	a := &Analyzer{
		runner: ExecRunner{},
		tools: map[prscope.Language][]Tool{
			prscope.LanguagePython: {Pylint, Bandit},
		},
		timeout: DefaultTimeout,
		logger:  logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Analyze runs every linter registered for the language of source. It
// never fails: tool errors are reported inside the returned text.
func (a *Analyzer) Analyze(ctx context.Context, source string) string {
	lang := prscope.DetectLanguage(source)

	var results []string
	for _, tool := range a.tools[lang] {
		out, err := a.run(ctx, tool, source)
		if err != nil {
			a.logger.WithFields(logrus.Fields{"tool": tool.Name, "error": err}).Warn("linter failed")
			results = append(results, fmt.Sprintf("%s failed: %v", tool.Label, err))
			continue
		}
		if out = strings.TrimSpace(out); out != "" {
			results = append(results, out)
		}
	}

	body := strings.Join(results, "\n")
	if body == "" {
		body = NoIssues
	}
	return fmt.Sprintf("Detected language: %s.\n%s", lang, body)
}

// run writes source to a temporary file, runs tool on it and removes the
// file afterwards.
func (a *Analyzer) run(ctx context.Context, tool Tool, source string) (string, error) {
	f, err := os.CreateTemp(a.tempDir, "prscope-*"+tool.Extension)
	if err != nil {
		return "", fmt.Errorf("creating temp file: %w", err)
	}
	path := f.Name()
	defer os.Remove(path)

	if _, err := f.WriteString(source); err != nil {
		f.Close()
		return "", fmt.Errorf("writing temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("closing temp file: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()
	return a.runner.Run(ctx, tool.Name, path)
}
