package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/fwojciec/prscope"
	prhttp "github.com/fwojciec/prscope/http"
	"github.com/fwojciec/prscope/mock"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const sampleDiff = "--- a/app.py\n+++ b/app.py\n@@ -1 +1 @@\n-x = 1\n+x = 2\n"

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func newServer(t *testing.T, reviewer prscope.Reviewer, opts ...prhttp.Option) *prhttp.Server {
	t.Helper()
	opts = append([]prhttp.Option{
		prhttp.WithLogger(quietLogger()),
		prhttp.WithRegistry(prometheus.NewRegistry()),
	}, opts...)
	return prhttp.NewServer(reviewer, opts...)
}

func stubReport() *prscope.Report {
	return &prscope.Report{
		RunID: "run-1",
		FileAnalyses: []prscope.FileAnalysis{{
			FilePath:      "app.py",
			ChangeSummary: prscope.ChangeSummary{LinesChanged: 2, HunkHeaders: []string{"@@ -1 +1 @@"}},
		}},
		Summary:         prscope.Summary{TotalFilesChanged: 1, TotalLinesChanged: 2, AnalysisScope: prscope.ScopeDiffOnly, Recommendations: []string{}},
		Recommendations: []string{},
	}
}

func recordingReviewer(got *prscope.Request) *mock.Reviewer {
	return &mock.Reviewer{
		AnalyzeFn: func(ctx context.Context, req prscope.Request) (*prscope.Report, error) {
			*got = req
			return stubReport(), nil
		},
	}
}

func unusedReviewer(t *testing.T) *mock.Reviewer {
	return &mock.Reviewer{
		AnalyzeFn: func(ctx context.Context, req prscope.Request) (*prscope.Report, error) {
			t.Error("reviewer should not be called")
			return nil, errors.New("unexpected call")
		},
	}
}

func postJSON(t *testing.T, h http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/review/pr/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func postFiles(t *testing.T, h http.Handler, files map[string]string, fields map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for name, content := range files {
		part, err := w.CreateFormFile(name, name+".txt")
		require.NoError(t, err)
		_, err = part.Write([]byte(content))
		require.NoError(t, err)
	}
	for name, value := range fields {
		require.NoError(t, w.WriteField(name, value))
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/review/pr/files/", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func errorBody(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Error
}

func TestServer_Health(t *testing.T) {
	t.Parallel()

	s := newServer(t, unusedReviewer(t))
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get(prhttp.RequestIDHeader))
}

func TestServer_EchoesRequestID(t *testing.T) {
	t.Parallel()

	s := newServer(t, unusedReviewer(t))
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(prhttp.RequestIDHeader, "abc-123")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, "abc-123", rec.Header().Get(prhttp.RequestIDHeader))
}

func TestServer_Review(t *testing.T) {
	t.Parallel()

	t.Run("defaults scope and leaves codebase absent", func(t *testing.T) {
		t.Parallel()

		var got prscope.Request
		s := newServer(t, recordingReviewer(&got))

		body, err := json.Marshal(map[string]string{"diff": sampleDiff})
		require.NoError(t, err)
		rec := postJSON(t, s.Handler(), string(body))

		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Equal(t, sampleDiff, got.Diff)
		assert.Nil(t, got.Codebase)
		assert.Equal(t, prscope.ScopeDiffOnly, got.Scope)

		var report prscope.Report
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
		assert.Equal(t, "run-1", report.RunID)
		assert.Equal(t, "app.py", report.FileAnalyses[0].FilePath)
	})

	t.Run("passes codebase and scope", func(t *testing.T) {
		t.Parallel()

		var got prscope.Request
		s := newServer(t, recordingReviewer(&got))

		rec := postJSON(t, s.Handler(), `{"diff":"d","codebase":"","analysis_scope":"full"}`)

		require.Equal(t, http.StatusOK, rec.Code)
		require.NotNil(t, got.Codebase)
		assert.Equal(t, "", *got.Codebase)
		assert.Equal(t, prscope.ScopeFull, got.Scope)
	})

	t.Run("missing diff is rejected", func(t *testing.T) {
		t.Parallel()

		s := newServer(t, unusedReviewer(t))
		rec := postJSON(t, s.Handler(), `{"codebase":"x"}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "diff is required", errorBody(t, rec))
	})

	t.Run("malformed body is rejected", func(t *testing.T) {
		t.Parallel()

		s := newServer(t, unusedReviewer(t))
		rec := postJSON(t, s.Handler(), `{"diff":`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestServer_ReviewErrorMapping(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		err    error
		status int
	}{
		{
			name:   "too large",
			err:    &prscope.InputError{Field: prscope.FieldDiff, Size: prscope.MaxDiffSize + 1, Limit: prscope.MaxDiffSize, Err: prscope.ErrInputTooLarge},
			status: http.StatusRequestEntityTooLarge,
		},
		{
			name:   "invalid encoding",
			err:    &prscope.InputError{Field: prscope.FieldCodebase, Size: 3, Err: prscope.ErrInvalidEncoding},
			status: http.StatusUnprocessableEntity,
		},
		{
			name:   "unexpected",
			err:    errors.New("boom"),
			status: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s := newServer(t, &mock.Reviewer{
				AnalyzeFn: func(ctx context.Context, req prscope.Request) (*prscope.Report, error) {
					return nil, tt.err
				},
			})
			rec := postJSON(t, s.Handler(), `{"diff":"d"}`)

			assert.Equal(t, tt.status, rec.Code)
			assert.NotEmpty(t, errorBody(t, rec))
			assert.NotEmpty(t, rec.Header().Get(prhttp.RequestIDHeader))
		})
	}
}

func TestServer_ReviewFiles(t *testing.T) {
	t.Parallel()

	t.Run("reads diff codebase and scope", func(t *testing.T) {
		t.Parallel()

		var got prscope.Request
		s := newServer(t, recordingReviewer(&got))
		codebase := prscope.FormatSnapshot(prscope.NewSnapshot([]string{"app.py"}, map[string]string{"app.py": "x = 2\n"}))

		rec := postFiles(t, s.Handler(),
			map[string]string{prhttp.FormDiffFile: sampleDiff, prhttp.FormCodebaseFile: codebase},
			map[string]string{prhttp.FormScope: "contextual"},
		)

		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Equal(t, sampleDiff, got.Diff)
		require.NotNil(t, got.Codebase)
		assert.Equal(t, codebase, *got.Codebase)
		assert.Equal(t, prscope.ScopeContextual, got.Scope)
	})

	t.Run("defaults scope without codebase", func(t *testing.T) {
		t.Parallel()

		var got prscope.Request
		s := newServer(t, recordingReviewer(&got))

		rec := postFiles(t, s.Handler(), map[string]string{prhttp.FormDiffFile: sampleDiff}, nil)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Nil(t, got.Codebase)
		assert.Equal(t, prscope.ScopeDiffOnly, got.Scope)
	})

	t.Run("missing diff file is rejected", func(t *testing.T) {
		t.Parallel()

		s := newServer(t, unusedReviewer(t))
		rec := postFiles(t, s.Handler(), map[string]string{prhttp.FormCodebaseFile: "x"}, nil)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, errorBody(t, rec), prhttp.FormDiffFile)
	})

	t.Run("invalid encoding is rejected before analysis", func(t *testing.T) {
		t.Parallel()

		s := newServer(t, unusedReviewer(t))
		rec := postFiles(t, s.Handler(), map[string]string{prhttp.FormDiffFile: "+\xff\xfe\n"}, nil)

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})
}

func TestServer_RateLimit(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	s := newServer(t, &mock.Reviewer{
		AnalyzeFn: func(ctx context.Context, req prscope.Request) (*prscope.Report, error) {
			calls.Add(1)
			return stubReport(), nil
		},
	}, prhttp.WithRateLimit(0.001, 1))

	first := postJSON(t, s.Handler(), `{"diff":"d"}`)
	second := postJSON(t, s.Handler(), `{"diff":"d"}`)

	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.Equal(t, int32(1), calls.Load())

	health := httptest.NewRecorder()
	s.Handler().ServeHTTP(health, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, health.Code, "health is not rate limited")
}

func TestServer_Metrics(t *testing.T) {
	t.Parallel()

	var got prscope.Request
	s := newServer(t, recordingReviewer(&got))
	postJSON(t, s.Handler(), `{"diff":"d"}`)

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `prscope_http_requests_total{method="POST",route="/review/pr/",status="200"} 1`)
	assert.Contains(t, body, "prscope_analysis_files_analyzed_total 1")
}

func TestServer_OpenClose(t *testing.T) {
	t.Parallel()

	s := newServer(t, unusedReviewer(t))
	s.Addr = "127.0.0.1:0"
	require.NoError(t, s.Open())
	defer s.Close()

	resp, err := http.Get(s.URL() + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
