package main

import (
	"context"
	"fmt"

	"github.com/fwojciec/prscope"
	"github.com/fwojciec/prscope/jsonl"
	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// BatchApp analyzes every case of a JSONL file.
type BatchApp struct {
	Loader   prscope.BatchLoader
	Reviewer prscope.Reviewer
	Writer   prscope.ResultWriter
	Workers  int
	Logger   logger.FieldLogger
}

// Run analyzes the cases in path and writes one result per case in input
// order. A case that fails analysis is recorded with its error and does
// not stop the batch.
func (a *BatchApp) Run(ctx context.Context, path string) error {
	cases, err := a.Loader.Load(path)
	if err != nil {
		return err
	}

	results := make([]prscope.BatchResult, len(cases))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(a.Workers, 1))
	for i, c := range cases {
		g.Go(func() error {
			result := prscope.BatchResult{ID: c.ID}
			report, err := a.Reviewer.Analyze(gctx, c.Request)
			if err != nil {
				result.Error = err.Error()
			} else {
				result.Report = report
			}
			results[i] = result
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	failed := 0
	for _, r := range results {
		if r.Error != "" {
			failed++
			a.Logger.WithField("id", r.ID).Warn(r.Error)
		}
		if err := a.Writer.Write(r); err != nil {
			return fmt.Errorf("writing result %s: %w", r.ID, err)
		}
	}
	a.Logger.WithFields(logger.Fields{
		"cases":  len(results),
		"failed": failed,
	}).Info("batch complete")
	return nil
}

func newBatchCommand(flags *globalFlags) *cobra.Command {
	var workers int
	var output string

	cmd := &cobra.Command{
		Use:   "batch cases.jsonl",
		Short: "Analyze every request of a JSONL file",
		Long: `Each line of the input holds one request:
  {"id": "...", "diff": "...", "codebase": "...", "analysis_scope": "..."}
Results are written as JSONL in input order.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.loadConfig()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("workers") {
				workers = cfg.Analysis.Workers
			}

			var writer prscope.ResultWriter = jsonl.NewWriter(cmd.OutOrStdout())
			if output != "" {
				writer = jsonl.NewSaver(output)
			}

			container, err := newContainer(cfg, logger.StandardLogger())
			if err != nil {
				return err
			}
			var app *BatchApp
			if err := container.Invoke(func(l prscope.BatchLoader, r prscope.Reviewer, log logger.FieldLogger) {
				app = &BatchApp{Loader: l, Reviewer: r, Writer: writer, Workers: workers, Logger: log}
			}); err != nil {
				return err
			}
			return app.Run(cmd.Context(), args[0])
		},
	}

	cmd.Flags().IntVarP(&workers, "workers", "w", 1, "Cases analyzed concurrently (default from config)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Append results to this file instead of stdout")
	return cmd
}
