package http

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"

	"github.com/fwojciec/prscope"
	"github.com/fwojciec/prscope/fs"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Multipart form fields of the file upload route.
const (
	FormDiffFile     = "pr_diff_file"
	FormCodebaseFile = "codebase_file"
	FormScope        = "analysis_scope"
)

// Request body bounds. JSON escaping can double the size of the inputs.
const (
	maxUploadBody = prscope.MaxDiffSize + prscope.MaxCodebaseSize + 1<<20
	maxJSONBody   = 2*(prscope.MaxDiffSize+prscope.MaxCodebaseSize) + 1<<20
)

// reviewRequest is the JSON body of the review route. Pointers tell an
// absent field from an empty one.
type reviewRequest struct {
	Diff          *string `json:"diff"`
	Codebase      *string `json:"codebase"`
	AnalysisScope string  `json:"analysis_scope"`
}

func (s *Server) handleReview(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxJSONBody)

	var body reviewRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.fail(c, err)
			return
		}
		abort(c, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}
	if body.Diff == nil {
		abort(c, http.StatusBadRequest, "diff is required")
		return
	}

	s.review(c, prscope.Request{
		Diff:     *body.Diff,
		Codebase: body.Codebase,
		Scope:    scopeOrDefault(body.AnalysisScope),
	})
}

func (s *Server) handleReviewFiles(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadBody)

	diffHeader, err := c.FormFile(FormDiffFile)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.fail(c, err)
			return
		}
		abort(c, http.StatusBadRequest, FormDiffFile+" is required")
		return
	}
	diff, err := readUpload(diffHeader, prscope.FieldDiff, prscope.MaxDiffSize)
	if err != nil {
		s.fail(c, err)
		return
	}

	req := prscope.Request{
		Diff:  diff,
		Scope: scopeOrDefault(c.PostForm(FormScope)),
	}
	if codebaseHeader, err := c.FormFile(FormCodebaseFile); err == nil {
		codebase, err := readUpload(codebaseHeader, prscope.FieldCodebase, prscope.MaxCodebaseSize)
		if err != nil {
			s.fail(c, err)
			return
		}
		req.Codebase = &codebase
	}

	s.review(c, req)
}

func (s *Server) review(c *gin.Context, req prscope.Request) {
	report, err := s.reviewer.Analyze(c.Request.Context(), req)
	if err != nil {
		s.fail(c, err)
		return
	}
	s.metrics.observeReport(report)
	s.requestLogger(c).WithFields(logrus.Fields{
		"scope": req.Scope,
		"files": len(report.FileAnalyses),
	}).Info("review complete")
	c.JSON(http.StatusOK, report)
}

// fail maps an error to its response status.
func (s *Server) fail(c *gin.Context, err error) {
	var inputErr *prscope.InputError
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &inputErr):
		status, reason := http.StatusBadRequest, "invalid"
		switch {
		case errors.Is(err, prscope.ErrInputTooLarge):
			status, reason = http.StatusRequestEntityTooLarge, "too_large"
		case errors.Is(err, prscope.ErrInvalidEncoding):
			status, reason = http.StatusUnprocessableEntity, "invalid_encoding"
		}
		s.metrics.rejected.WithLabelValues(inputErr.Field, reason).Inc()
		abort(c, status, err.Error())
	case errors.As(err, &tooLarge):
		abort(c, http.StatusRequestEntityTooLarge, fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit))
	default:
		s.requestLogger(c).WithError(err).Error("review failed")
		abort(c, http.StatusInternalServerError, "internal error")
	}
}

func readUpload(fh *multipart.FileHeader, field string, limit int) (string, error) {
	if fh.Size > int64(limit) {
		return "", &prscope.InputError{Field: field, Size: int(fh.Size), Limit: limit, Err: prscope.ErrInputTooLarge}
	}
	f, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("opening %s: %w", field, err)
	}
	defer f.Close()
	return fs.ReadLimited(f, field, limit)
}

func scopeOrDefault(s string) prscope.Scope {
	if s == "" {
		return prscope.ScopeDiffOnly
	}
	return prscope.Scope(s)
}
