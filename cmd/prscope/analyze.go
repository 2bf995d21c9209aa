package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/fwojciec/prscope"
	"github.com/fwojciec/prscope/fs"
	"github.com/fwojciec/prscope/git"
	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// Output formats of the analyze command.
const (
	FormatJSON = "json"
	FormatText = "text"
	FormatTUI  = "tui"
)

var (
	// ErrNoInput is returned when neither a diff file nor a git range is given.
	ErrNoInput = errors.New("no input: provide a diff file or --git-range")

	// ErrNoChanges is returned when the diff contains no changes to display.
	ErrNoChanges = errors.New("no changes to display")
)

// AnalyzeOptions selects the input and output of a single analysis.
type AnalyzeOptions struct {
	DiffPath     string
	CodebasePath string
	GitRange     string
	RepoPath     string
	Scope        prscope.Scope
	Format       string
}

// AnalyzeApp encapsulates the analyze command for testing.
type AnalyzeApp struct {
	Reviewer  prscope.Reviewer
	Git       prscope.GitRunner
	Formatter prscope.ReportFormatter
	Viewer    prscope.ReportViewer
	Output    io.Writer
}

// Run loads the request, analyzes it and renders the report.
func (a *AnalyzeApp) Run(ctx context.Context, opts AnalyzeOptions) error {
	switch opts.Format {
	case FormatJSON, FormatText, FormatTUI:
	default:
		return fmt.Errorf("unknown format %q: want %s, %s or %s", opts.Format, FormatJSON, FormatText, FormatTUI)
	}

	req, err := a.request(ctx, opts)
	if err != nil {
		return err
	}

	report, err := a.Reviewer.Analyze(ctx, req)
	if err != nil {
		return err
	}

	switch opts.Format {
	case FormatText:
		_, err := io.WriteString(a.Output, a.Formatter.Format(report))
		return err
	case FormatTUI:
		if len(report.FileAnalyses) == 0 {
			return ErrNoChanges
		}
		return a.Viewer.View(ctx, report)
	default:
		enc := json.NewEncoder(a.Output)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}
}

// request reads the diff from a file or a git range. With a git range and
// a context scope but no codebase file, the snapshot is read from the
// head revision of the range.
func (a *AnalyzeApp) request(ctx context.Context, opts AnalyzeOptions) (prscope.Request, error) {
	if opts.GitRange == "" {
		if opts.DiffPath == "" {
			return prscope.Request{}, ErrNoInput
		}
		return fs.LoadRequest(opts.DiffPath, opts.CodebasePath, opts.Scope)
	}

	diff, err := a.Git.Diff(ctx, opts.RepoPath, opts.GitRange)
	if err != nil {
		return prscope.Request{}, err
	}
	req := prscope.Request{Diff: diff, Scope: opts.Scope}

	switch {
	case opts.CodebasePath != "":
		codebase, err := fs.ReadFile(opts.CodebasePath, prscope.FieldCodebase, prscope.MaxCodebaseSize)
		if err != nil {
			return prscope.Request{}, err
		}
		req.Codebase = &codebase
	case opts.Scope.UsesContext():
		rev := git.HeadRev(opts.GitRange)
		logger.WithField("rev", rev).Debug("reading codebase from git")
		codebase, err := git.Codebase(ctx, a.Git, opts.RepoPath, rev, nil)
		if err != nil {
			return prscope.Request{}, err
		}
		req.Codebase = &codebase
	}
	return req, nil
}

func newAnalyzeCommand(flags *globalFlags) *cobra.Command {
	var opts AnalyzeOptions
	var scope string

	cmd := &cobra.Command{
		Use:   "analyze [diff-file]",
		Short: "Analyze a single diff",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.loadConfig()
			if err != nil {
				return err
			}
			if len(args) == 1 {
				opts.DiffPath = args[0]
			}
			opts.Scope = prscope.Scope(cfg.Analysis.Scope)
			if cmd.Flags().Changed("scope") {
				opts.Scope = prscope.Scope(scope)
			}

			container, err := newContainer(cfg, logger.StandardLogger())
			if err != nil {
				return err
			}
			var app *AnalyzeApp
			if err := container.Invoke(func(r prscope.Reviewer, g prscope.GitRunner, f prscope.ReportFormatter, v prscope.ReportViewer) {
				app = &AnalyzeApp{Reviewer: r, Git: g, Formatter: f, Viewer: v, Output: cmd.OutOrStdout()}
			}); err != nil {
				return err
			}
			return app.Run(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.CodebasePath, "codebase", "", "Codebase snapshot file")
	cmd.Flags().StringVar(&scope, "scope", string(prscope.ScopeDiffOnly), "Analysis scope: diff_only, contextual or full")
	cmd.Flags().StringVarP(&opts.Format, "format", "f", FormatJSON, "Output format: json, text or tui")
	cmd.Flags().StringVar(&opts.GitRange, "git-range", "", "Analyze this revision range of a git repository, e.g. main...HEAD")
	cmd.Flags().StringVar(&opts.RepoPath, "repo", ".", "Repository used with --git-range")
	return cmd
}
