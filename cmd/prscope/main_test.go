package main_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/fwojciec/prscope"
	main "github.com/fwojciec/prscope/cmd/prscope"
	"github.com/fwojciec/prscope/mock"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDiff = "--- a/app.py\n+++ b/app.py\n@@ -1 +1 @@\n-x = 1\n+x = 2\n"

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func reportFor(req prscope.Request) *prscope.Report {
	return &prscope.Report{
		FileAnalyses: []prscope.FileAnalysis{{FilePath: "app.py"}},
		Summary:      prscope.Summary{TotalFilesChanged: 1, AnalysisScope: req.Scope, HasCodebaseContext: req.Codebase != nil},
	}
}

func recordingReviewer(got *prscope.Request) *mock.Reviewer {
	return &mock.Reviewer{
		AnalyzeFn: func(ctx context.Context, req prscope.Request) (*prscope.Report, error) {
			*got = req
			return reportFor(req), nil
		},
	}
}

func TestAnalyzeApp_Run_DiffFile(t *testing.T) {
	t.Parallel()

	var got prscope.Request
	var out bytes.Buffer
	app := &main.AnalyzeApp{Reviewer: recordingReviewer(&got), Output: &out}

	err := app.Run(context.Background(), main.AnalyzeOptions{
		DiffPath: writeFile(t, "change.diff", sampleDiff),
		Scope:    prscope.ScopeDiffOnly,
		Format:   main.FormatJSON,
	})

	require.NoError(t, err)
	assert.Equal(t, sampleDiff, got.Diff)
	assert.Nil(t, got.Codebase)
	assert.Equal(t, prscope.ScopeDiffOnly, got.Scope)

	var report prscope.Report
	require.NoError(t, json.Unmarshal(out.Bytes(), &report))
	assert.Equal(t, "app.py", report.FileAnalyses[0].FilePath)
}

func TestAnalyzeApp_Run_CodebaseFile(t *testing.T) {
	t.Parallel()

	var got prscope.Request
	app := &main.AnalyzeApp{Reviewer: recordingReviewer(&got), Output: io.Discard}
	snapshot := "=== FILE: app.py ===\nx = 2\n"

	err := app.Run(context.Background(), main.AnalyzeOptions{
		DiffPath:     writeFile(t, "change.diff", sampleDiff),
		CodebasePath: writeFile(t, "codebase.txt", snapshot),
		Scope:        prscope.ScopeFull,
		Format:       main.FormatJSON,
	})

	require.NoError(t, err)
	require.NotNil(t, got.Codebase)
	assert.Equal(t, snapshot, *got.Codebase)
	assert.Equal(t, prscope.ScopeFull, got.Scope)
}

func TestAnalyzeApp_Run_TextFormat(t *testing.T) {
	t.Parallel()

	var got prscope.Request
	var out bytes.Buffer
	app := &main.AnalyzeApp{
		Reviewer:  recordingReviewer(&got),
		Formatter: &prscope.DefaultFormatter{},
		Output:    &out,
	}

	err := app.Run(context.Background(), main.AnalyzeOptions{
		DiffPath: writeFile(t, "change.diff", sampleDiff),
		Format:   main.FormatText,
	})

	require.NoError(t, err)
	assert.Contains(t, out.String(), "<summary>")
	assert.Contains(t, out.String(), "=== FILE: app.py")
}

func TestAnalyzeApp_Run_TUI(t *testing.T) {
	t.Parallel()

	t.Run("shows report in viewer", func(t *testing.T) {
		t.Parallel()

		var got prscope.Request
		var viewed *prscope.Report
		app := &main.AnalyzeApp{
			Reviewer: recordingReviewer(&got),
			Viewer: &mock.ReportViewer{
				ViewFn: func(ctx context.Context, report *prscope.Report) error {
					viewed = report
					return nil
				},
			},
		}

		err := app.Run(context.Background(), main.AnalyzeOptions{
			DiffPath: writeFile(t, "change.diff", sampleDiff),
			Format:   main.FormatTUI,
		})

		require.NoError(t, err)
		require.NotNil(t, viewed)
		assert.Equal(t, "app.py", viewed.FileAnalyses[0].FilePath)
	})

	t.Run("empty report is not shown", func(t *testing.T) {
		t.Parallel()

		app := &main.AnalyzeApp{
			Reviewer: &mock.Reviewer{
				AnalyzeFn: func(ctx context.Context, req prscope.Request) (*prscope.Report, error) {
					return &prscope.Report{}, nil
				},
			},
			Viewer: &mock.ReportViewer{
				ViewFn: func(ctx context.Context, report *prscope.Report) error {
					t.Error("viewer should not be called")
					return nil
				},
			},
		}

		err := app.Run(context.Background(), main.AnalyzeOptions{
			DiffPath: writeFile(t, "change.diff", ""),
			Format:   main.FormatTUI,
		})

		assert.ErrorIs(t, err, main.ErrNoChanges)
	})
}

func TestAnalyzeApp_Run_InputErrors(t *testing.T) {
	t.Parallel()

	unused := &mock.Reviewer{
		AnalyzeFn: func(ctx context.Context, req prscope.Request) (*prscope.Report, error) {
			t.Error("reviewer should not be called")
			return nil, nil
		},
	}

	t.Run("no input", func(t *testing.T) {
		t.Parallel()

		app := &main.AnalyzeApp{Reviewer: unused, Output: io.Discard}
		err := app.Run(context.Background(), main.AnalyzeOptions{Format: main.FormatJSON})

		assert.ErrorIs(t, err, main.ErrNoInput)
	})

	t.Run("unknown format", func(t *testing.T) {
		t.Parallel()

		app := &main.AnalyzeApp{Reviewer: unused, Output: io.Discard}
		err := app.Run(context.Background(), main.AnalyzeOptions{
			DiffPath: writeFile(t, "change.diff", sampleDiff),
			Format:   "xml",
		})

		require.Error(t, err)
		assert.Contains(t, err.Error(), `unknown format "xml"`)
	})

	t.Run("invalid encoding", func(t *testing.T) {
		t.Parallel()

		app := &main.AnalyzeApp{Reviewer: unused, Output: io.Discard}
		err := app.Run(context.Background(), main.AnalyzeOptions{
			DiffPath: writeFile(t, "change.diff", "+\xff\n"),
			Format:   main.FormatJSON,
		})

		assert.ErrorIs(t, err, prscope.ErrInvalidEncoding)
	})
}

func TestAnalyzeApp_Run_ReviewerError(t *testing.T) {
	t.Parallel()

	inputErr := &prscope.InputError{Field: prscope.FieldDiff, Err: prscope.ErrInputTooLarge}
	app := &main.AnalyzeApp{
		Reviewer: &mock.Reviewer{
			AnalyzeFn: func(ctx context.Context, req prscope.Request) (*prscope.Report, error) {
				return nil, inputErr
			},
		},
		Output: io.Discard,
	}

	err := app.Run(context.Background(), main.AnalyzeOptions{
		DiffPath: writeFile(t, "change.diff", sampleDiff),
		Format:   main.FormatJSON,
	})

	assert.ErrorIs(t, err, prscope.ErrInputTooLarge)
}

func TestAnalyzeApp_Run_GitRange(t *testing.T) {
	t.Parallel()

	newGit := func(t *testing.T, shown *[]string) *mock.GitRunner {
		return &mock.GitRunner{
			DiffFn: func(ctx context.Context, repoPath, revRange string) (string, error) {
				assert.Equal(t, "/repo", repoPath)
				assert.Equal(t, "main...feature", revRange)
				return sampleDiff, nil
			},
			FilesFn: func(ctx context.Context, repoPath, rev string) ([]string, error) {
				assert.Equal(t, "feature", rev)
				return []string{"app.py", "util.py"}, nil
			},
			ShowFn: func(ctx context.Context, repoPath, rev, path string) (string, error) {
				*shown = append(*shown, path)
				return "# " + path + "\n", nil
			},
		}
	}

	t.Run("reads codebase at head for context scopes", func(t *testing.T) {
		t.Parallel()

		var got prscope.Request
		var shown []string
		app := &main.AnalyzeApp{Reviewer: recordingReviewer(&got), Git: newGit(t, &shown), Output: io.Discard}

		err := app.Run(context.Background(), main.AnalyzeOptions{
			GitRange: "main...feature",
			RepoPath: "/repo",
			Scope:    prscope.ScopeFull,
			Format:   main.FormatJSON,
		})

		require.NoError(t, err)
		assert.Equal(t, sampleDiff, got.Diff)
		assert.Equal(t, []string{"app.py", "util.py"}, shown)
		require.NotNil(t, got.Codebase)
		snapshot := prscope.ParseSnapshot(*got.Codebase)
		content, ok := snapshot.Content("util.py")
		require.True(t, ok)
		assert.Equal(t, "# util.py", content)
	})

	t.Run("skips codebase for diff only", func(t *testing.T) {
		t.Parallel()

		var got prscope.Request
		var shown []string
		app := &main.AnalyzeApp{Reviewer: recordingReviewer(&got), Git: newGit(t, &shown), Output: io.Discard}

		err := app.Run(context.Background(), main.AnalyzeOptions{
			GitRange: "main...feature",
			RepoPath: "/repo",
			Scope:    prscope.ScopeDiffOnly,
			Format:   main.FormatJSON,
		})

		require.NoError(t, err)
		assert.Nil(t, got.Codebase)
		assert.Empty(t, shown)
	})

	t.Run("git failure is returned", func(t *testing.T) {
		t.Parallel()

		gitErr := errors.New("git diff failed: bad revision")
		app := &main.AnalyzeApp{
			Git: &mock.GitRunner{
				DiffFn: func(ctx context.Context, repoPath, revRange string) (string, error) {
					return "", gitErr
				},
			},
			Output: io.Discard,
		}

		err := app.Run(context.Background(), main.AnalyzeOptions{GitRange: "nope", Format: main.FormatJSON})

		assert.ErrorIs(t, err, gitErr)
	})
}

func TestBatchApp_Run(t *testing.T) {
	t.Parallel()

	cases := []prscope.BatchCase{
		{ID: "a", Request: prscope.Request{Diff: "d1", Scope: prscope.ScopeDiffOnly}},
		{ID: "b", Request: prscope.Request{Diff: "bad", Scope: prscope.ScopeDiffOnly}},
		{ID: "c", Request: prscope.Request{Diff: "d3", Scope: prscope.ScopeFull}},
	}

	var mu sync.Mutex
	var written []prscope.BatchResult
	app := &main.BatchApp{
		Loader: &mock.BatchLoader{
			LoadFn: func(path string) ([]prscope.BatchCase, error) {
				assert.Equal(t, "cases.jsonl", path)
				return cases, nil
			},
		},
		Reviewer: &mock.Reviewer{
			AnalyzeFn: func(ctx context.Context, req prscope.Request) (*prscope.Report, error) {
				if req.Diff == "bad" {
					return nil, &prscope.InputError{Field: prscope.FieldDiff, Err: prscope.ErrInvalidEncoding}
				}
				return &prscope.Report{RunID: req.Diff}, nil
			},
		},
		Writer: &mock.ResultWriter{
			WriteFn: func(result prscope.BatchResult) error {
				mu.Lock()
				defer mu.Unlock()
				written = append(written, result)
				return nil
			},
		},
		Workers: 3,
		Logger:  quietLogger(),
	}

	require.NoError(t, app.Run(context.Background(), "cases.jsonl"))

	require.Len(t, written, 3)
	assert.Equal(t, "a", written[0].ID)
	assert.Equal(t, "d1", written[0].Report.RunID)
	assert.Equal(t, "b", written[1].ID)
	assert.Nil(t, written[1].Report)
	assert.Equal(t, "diff: input is not valid UTF-8", written[1].Error)
	assert.Equal(t, "c", written[2].ID)
	assert.Equal(t, "d3", written[2].Report.RunID)
}

func TestBatchApp_Run_Errors(t *testing.T) {
	t.Parallel()

	t.Run("loader error", func(t *testing.T) {
		t.Parallel()

		loadErr := errors.New("line 2: invalid JSON")
		app := &main.BatchApp{
			Loader: &mock.BatchLoader{
				LoadFn: func(path string) ([]prscope.BatchCase, error) {
					return nil, loadErr
				},
			},
			Logger: quietLogger(),
		}

		assert.ErrorIs(t, app.Run(context.Background(), "x"), loadErr)
	})

	t.Run("writer error", func(t *testing.T) {
		t.Parallel()

		writeErr := errors.New("disk full")
		app := &main.BatchApp{
			Loader: &mock.BatchLoader{
				LoadFn: func(path string) ([]prscope.BatchCase, error) {
					return []prscope.BatchCase{{ID: "a"}}, nil
				},
			},
			Reviewer: &mock.Reviewer{
				AnalyzeFn: func(ctx context.Context, req prscope.Request) (*prscope.Report, error) {
					return &prscope.Report{}, nil
				},
			},
			Writer: &mock.ResultWriter{
				WriteFn: func(result prscope.BatchResult) error {
					return writeErr
				},
			},
			Logger: quietLogger(),
		}

		err := app.Run(context.Background(), "x")

		require.ErrorIs(t, err, writeErr)
		assert.Contains(t, err.Error(), "writing result a")
	})
}
