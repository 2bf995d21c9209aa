package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/fwojciec/prscope/config"
	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	return newRootCommand(os.Stdout).ExecuteContext(ctx)
}

// globalFlags are shared by every subcommand.
type globalFlags struct {
	configPath string
	verbose    bool
}

func newRootCommand(stdout io.Writer) *cobra.Command {
	flags := &globalFlags{}

	cmd := &cobra.Command{
		Use:   "prscope",
		Short: "Pull request diff analysis",
		Long: `prscope analyzes unified diffs of pull requests, optionally against a
snapshot of the surrounding codebase, and reports static analysis results,
rule compliance, dependencies, impact and cross-file references.

Usage modes:
  prscope analyze change.diff          Analyze a diff file
  prscope analyze --git-range main...  Analyze a range of a local repository
  prscope batch cases.jsonl            Analyze many requests
  prscope serve                        Serve the HTTP API`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setupLogging(flags.verbose)
		},
	}

	cmd.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "",
		"Path to config file (default: auto-detect)")
	cmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false,
		"Enable debug logging")

	cmd.SetOut(stdout)
	cmd.AddCommand(
		newAnalyzeCommand(flags),
		newBatchCommand(flags),
		newServeCommand(flags),
	)
	return cmd
}

func setupLogging(verbose bool) {
	logger.SetOutput(os.Stderr)
	logger.SetFormatter(&logger.TextFormatter{
		FullTimestamp: true,
	})
	if verbose || os.Getenv("DEBUG") == "true" {
		logger.SetLevel(logger.DebugLevel)
	}
}

// loadConfig reads the configuration named by --config, falling back to
// the default locations and then to the built-in defaults.
func (f *globalFlags) loadConfig() (*config.Config, error) {
	path := f.configPath
	if path == "" {
		found, err := config.FindConfigFile()
		if err != nil {
			logger.Debug("no config file found, using defaults")
			return config.LoadDefault()
		}
		path = found
	}
	logger.WithField("path", path).Debug("loading config")
	return config.Load(path)
}
