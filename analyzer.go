package prscope

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// LargeChangeThreshold is the total number of changed lines above which a
// pull request is considered too large.
const LargeChangeThreshold = 100

// Recommendations emitted by Analyze, in evaluation order.
const (
	RecommendLargeChange     = "large PR, consider splitting."
	RecommendToolErrors      = "tool errors present, review manually."
	RecommendMultiFileImpact = "multi-file impact, ensure integration testing."
)

// RuleQueryPrefix is prepended to the changed text sent to the rule checker.
const RuleQueryPrefix = "Does this PR diff violate any enterprise rules? "

// Compile-time interface verification.
var _ Reviewer = (*Analyzer)(nil)

// Analyzer composes the parsing core with the external collaborators.
type Analyzer struct {
	static     StaticAnalyzer
	rules      RuleChecker
	operations OperationDetector
	languages  LanguageDetector
	logger     logrus.FieldLogger
	workers    int
	runID      func() string
}

// AnalyzerOption configures an Analyzer.
type AnalyzerOption func(*Analyzer)

// WithOperationDetector annotates change summaries with file operations.
func WithOperationDetector(d OperationDetector) AnalyzerOption {
	return func(a *Analyzer) {
		a.operations = d
	}
}

// WithLanguageDetector annotates change summaries with file languages.
func WithLanguageDetector(d LanguageDetector) AnalyzerOption {
	return func(a *Analyzer) {
		a.languages = d
	}
}

// WithLogger sets the logger.
func WithLogger(l logrus.FieldLogger) AnalyzerOption {
	return func(a *Analyzer) {
		a.logger = l
	}
}

// WithWorkers sets the number of files analyzed concurrently. Values
// below 2 analyze files sequentially. Report order never depends on it.
func WithWorkers(n int) AnalyzerOption {
	return func(a *Analyzer) {
		a.workers = n
	}
}

// WithRunID sets the generator for report run IDs.
func WithRunID(fn func() string) AnalyzerOption {
	return func(a *Analyzer) {
		a.runID = fn
	}
}

// NewAnalyzer creates an Analyzer using the given collaborators.
func NewAnalyzer(static StaticAnalyzer, rules RuleChecker, opts ...AnalyzerOption) *Analyzer {
	a := &Analyzer{
		static:  static,
		rules:   rules,
		logger:  logrus.StandardLogger(),
		workers: 1,
		runID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Analyze validates and analyzes a request.
//
// Only input size and encoding violations are returned as errors.
// Collaborator failures are reported inline in the affected file's
// analysis and never abort the request.
func (a *Analyzer) Analyze(ctx context.Context, req Request) (*Report, error) {
	if err := ValidateRequest(req); err != nil {
		return nil, err
	}

	changes := ParseDiff(req.Diff)
	var snapshot *Snapshot
	if req.Codebase != nil {
		snapshot = ParseSnapshot(*req.Codebase)
	}

	var operations map[string]FileOp
	if a.operations != nil {
		operations = a.operations.DetectOperations(req.Diff)
	}

	log := a.logger.WithFields(logrus.Fields{
		"scope": req.Scope,
		"files": changes.Len(),
	})
	log.Debug("analyzing diff")

	records := changes.Records()
	analyses := make([]FileAnalysis, len(records))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(a.workers, 1))
	for i, record := range records {
		g.Go(func() error {
			analyses[i] = a.analyzeFile(gctx, record, snapshot, req.Scope, operations)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	summary := Summarize(analyses, req.Scope, snapshot != nil)
	log.WithField("recommendations", len(summary.Recommendations)).Debug("analysis complete")

	return &Report{
		RunID:           a.runID(),
		FileAnalyses:    analyses,
		Summary:         summary,
		Recommendations: summary.Recommendations,
	}, nil
}

func (a *Analyzer) analyzeFile(ctx context.Context, record *ChangeRecord, snapshot *Snapshot, scope Scope, operations map[string]FileOp) FileAnalysis {
	log := a.logger.WithField("file", record.FilePath)
	text := strings.Join(record.ChangedLines, "\n")

	result := FileAnalysis{
		FilePath:       record.FilePath,
		StaticAnalysis: a.runStatic(ctx, text),
		RuleCompliance: a.runRules(ctx, RuleQueryPrefix+text),
		ChangeSummary: ChangeSummary{
			LinesChanged: len(record.ChangedLines),
			HunkHeaders:  append([]string{}, record.HunkHeaders...),
		},
	}
	if op, ok := operations[record.FilePath]; ok {
		result.ChangeSummary.Operation = op.String()
	}
	content, inSnapshot := snapshot.Content(record.FilePath)
	if a.languages != nil {
		known := content
		if !inSnapshot {
			known = stripMarkers(record.ChangedLines)
		}
		result.ChangeSummary.Language = a.languages.DetectLanguage(record.FilePath, known)
	}

	if scope.UsesContext() && inSnapshot {
		result.ContextAnalysis = &ContextAnalysis{
			Dependencies:    nonNil(ExtractDependencies(content)),
			Impact:          AnalyzeImpact(record.ChangedLines),
			CrossReferences: FindCrossReferences(record.FilePath, snapshot),
		}
	}

	log.WithField("lines_changed", result.ChangeSummary.LinesChanged).Debug("file analyzed")
	return result
}

func (a *Analyzer) runStatic(ctx context.Context, text string) (out string) {
	if a.static == nil {
		return "Static analysis unavailable: no analyzer configured"
	}
	defer func() {
		if r := recover(); r != nil {
			a.logger.WithField("panic", r).Error("static analyzer panicked")
			out = fmt.Sprintf("Static analysis failed: %v", r)
		}
	}()
	return a.static.Analyze(ctx, text)
}

func (a *Analyzer) runRules(ctx context.Context, query string) (out string) {
	if a.rules == nil {
		return "Rule check unavailable: no rule checker configured"
	}
	defer func() {
		if r := recover(); r != nil {
			a.logger.WithField("panic", r).Error("rule checker panicked")
			out = fmt.Sprintf("Rule check failed: %v", r)
		}
	}()
	return a.rules.Check(ctx, query)
}

// Summarize aggregates file analyses and derives recommendations.
func Summarize(analyses []FileAnalysis, scope Scope, hasCodebase bool) Summary {
	s := Summary{
		TotalFilesChanged:  len(analyses),
		AnalysisScope:      scope,
		HasCodebaseContext: hasCodebase,
	}
	for _, fa := range analyses {
		s.TotalLinesChanged += fa.ChangeSummary.LinesChanged
	}
	s.Recommendations = Recommend(analyses, s.TotalLinesChanged, hasCodebase)
	return s
}

// Recommend applies the recommendation rules in their fixed order.
func Recommend(analyses []FileAnalysis, totalLines int, hasCodebase bool) []string {
	recs := []string{}
	if totalLines > LargeChangeThreshold {
		recs = append(recs, RecommendLargeChange)
	}
	for _, fa := range analyses {
		if strings.Contains(strings.ToLower(fa.String()), "error") {
			recs = append(recs, RecommendToolErrors)
			break
		}
	}
	if hasCodebase {
		for _, fa := range analyses {
			if fa.ContextAnalysis != nil && len(fa.ContextAnalysis.CrossReferences) > 0 {
				recs = append(recs, RecommendMultiFileImpact)
				break
			}
		}
	}
	return recs
}

// String returns the JSON representation of the file analysis.
func (fa FileAnalysis) String() string {
	data, err := json.Marshal(fa)
	if err != nil {
		return fmt.Sprintf("%+v", struct {
			FilePath, StaticAnalysis, RuleCompliance string
		}{fa.FilePath, fa.StaticAnalysis, fa.RuleCompliance})
	}
	return string(data)
}

// stripMarkers joins changed lines without their '+' or '-' markers.
func stripMarkers(lines []string) string {
	stripped := make([]string, len(lines))
	for i, l := range lines {
		stripped[i] = l[1:]
	}
	return strings.Join(stripped, "\n")
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
