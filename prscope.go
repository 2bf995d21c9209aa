// Package prscope provides domain types and the core analysis of pull
// request diffs against an optional snapshot of the surrounding codebase.
package prscope

import "context"

// Scope selects how much context an analysis uses.
type Scope string

// Analysis scopes.
const (
	ScopeDiffOnly   Scope = "diff_only"
	ScopeContextual Scope = "contextual"
	ScopeFull       Scope = "full"
)

// UsesContext reports whether the scope asks for codebase context.
// Unrecognized scopes behave as ScopeDiffOnly.
func (s Scope) UsesContext() bool {
	return s == ScopeContextual || s == ScopeFull
}

// ChangeRecord holds the changed lines and hunk headers of a single file.
type ChangeRecord struct {
	FilePath     string
	ChangedLines []string // Each line keeps its '+' or '-' marker
	HunkHeaders  []string // Raw "@@ ... @@" lines
}

// ChangeSet maps file paths to change records, preserving the order in
// which paths first appeared in the diff.
type ChangeSet struct {
	paths   []string
	records map[string]*ChangeRecord
}

// NewChangeSet creates an empty ChangeSet.
func NewChangeSet() *ChangeSet {
	return &ChangeSet{records: make(map[string]*ChangeRecord)}
}

// record returns the record for path, creating it if absent.
func (c *ChangeSet) record(path string) *ChangeRecord {
	if r, ok := c.records[path]; ok {
		return r
	}
	r := &ChangeRecord{FilePath: path}
	c.records[path] = r
	c.paths = append(c.paths, path)
	return r
}

// Len returns the number of files in the change set.
func (c *ChangeSet) Len() int {
	return len(c.paths)
}

// Paths returns file paths in order of first appearance.
func (c *ChangeSet) Paths() []string {
	out := make([]string, len(c.paths))
	copy(out, c.paths)
	return out
}

// Get returns the record for path and whether it exists.
func (c *ChangeSet) Get(path string) (*ChangeRecord, bool) {
	r, ok := c.records[path]
	return r, ok
}

// Records returns all records in order of first appearance.
func (c *ChangeSet) Records() []*ChangeRecord {
	out := make([]*ChangeRecord, 0, len(c.paths))
	for _, p := range c.paths {
		out = append(out, c.records[p])
	}
	return out
}

// Snapshot maps file paths to full file content. It preserves the order
// in which paths were declared and is not modified after construction.
type Snapshot struct {
	paths    []string
	contents map[string]string
}

// NewSnapshot creates a Snapshot from ordered paths and their contents.
// Paths missing from contents map to the empty string.
func NewSnapshot(paths []string, contents map[string]string) *Snapshot {
	s := &Snapshot{contents: make(map[string]string, len(paths))}
	for _, p := range paths {
		if _, seen := s.contents[p]; seen {
			continue
		}
		s.paths = append(s.paths, p)
		s.contents[p] = contents[p]
	}
	return s
}

// Len returns the number of files in the snapshot.
func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.paths)
}

// Paths returns file paths in declaration order.
func (s *Snapshot) Paths() []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s.paths))
	copy(out, s.paths)
	return out
}

// Content returns the content stored for path and whether it exists.
func (s *Snapshot) Content(path string) (string, bool) {
	if s == nil {
		return "", false
	}
	c, ok := s.contents[path]
	return c, ok
}

// Complexity is a coarse bucket for the size of a file's change.
type Complexity string

// Complexity buckets.
const (
	ComplexityLow  Complexity = "Low"
	ComplexityHigh Complexity = "High"
)

// ImpactMetrics summarizes the size of a file's change.
type ImpactMetrics struct {
	LinesAdded   int        `json:"lines_added"`
	LinesRemoved int        `json:"lines_removed"`
	NetChange    int        `json:"net_change"`
	Complexity   Complexity `json:"complexity"`
}

// ChangeSummary is always reported for a changed file.
type ChangeSummary struct {
	LinesChanged int      `json:"lines_changed"`
	HunkHeaders  []string `json:"hunk_headers"`
	Operation    string   `json:"operation,omitempty"`
	Language     string   `json:"language,omitempty"`
}

// ContextAnalysis is reported only when the scope uses context and the
// file exists in the snapshot.
type ContextAnalysis struct {
	Dependencies    []string      `json:"dependencies"`
	Impact          ImpactMetrics `json:"impact"`
	CrossReferences []string      `json:"cross_references"`
}

// FileAnalysis is the per-file result of an analysis.
type FileAnalysis struct {
	FilePath        string           `json:"file_path"`
	StaticAnalysis  string           `json:"static_analysis"`
	RuleCompliance  string           `json:"rule_compliance"`
	ChangeSummary   ChangeSummary    `json:"change_summary"`
	ContextAnalysis *ContextAnalysis `json:"context_analysis,omitempty"`
}

// Summary aggregates all file analyses of a report.
type Summary struct {
	TotalFilesChanged  int      `json:"total_files_changed"`
	TotalLinesChanged  int      `json:"total_lines_changed"`
	AnalysisScope      Scope    `json:"analysis_scope"`
	HasCodebaseContext bool     `json:"has_codebase_context"`
	Recommendations    []string `json:"recommendations"`
}

// Report is the complete result of analyzing one request.
type Report struct {
	RunID           string         `json:"run_id,omitempty"`
	FileAnalyses    []FileAnalysis `json:"file_analyses"`
	Summary         Summary        `json:"summary"`
	Recommendations []string       `json:"recommendations"`
}

// Request is the input of an analysis.
type Request struct {
	Diff     string  `json:"diff"`
	Codebase *string `json:"codebase,omitempty"` // nil when no codebase was supplied
	Scope    Scope   `json:"analysis_scope"`
}

// Reviewer analyzes a request into a report. Errors are limited to
// request-level input violations (see InputError).
type Reviewer interface {
	Analyze(ctx context.Context, req Request) (*Report, error)
}

// StaticAnalyzer runs static analysis over source text. Implementations
// must not fail: problems are reported inside the returned text.
type StaticAnalyzer interface {
	Analyze(ctx context.Context, source string) string
}

// RuleChecker answers a rule-compliance query in natural language.
// Implementations must not fail: problems are reported inside the
// returned text.
type RuleChecker interface {
	Check(ctx context.Context, query string) string
}

// RuleModel is a language model that answers rule-compliance queries.
type RuleModel interface {
	Answer(ctx context.Context, query string) (string, error)
}

// OperationDetector reports the file operation (added, deleted, ...)
// for each path in a diff. Paths it cannot classify are omitted.
type OperationDetector interface {
	DetectOperations(diffText string) map[string]FileOp
}

// LanguageDetector determines the programming language of a file.
type LanguageDetector interface {
	// DetectLanguage returns the language name for a file given its path
	// and whatever content is known, or an empty string if the language
	// cannot be determined.
	DetectLanguage(path, content string) string
}

// GitRunner reads diffs and file contents from a local git repository.
type GitRunner interface {
	// Diff returns the unified diff for revRange (for example "main...HEAD").
	Diff(ctx context.Context, repoPath, revRange string) (string, error)
	// Files lists the paths tracked at rev.
	Files(ctx context.Context, repoPath, rev string) ([]string, error)
	// Show returns the content of path at rev.
	Show(ctx context.Context, repoPath, rev, path string) (string, error)
}

// BatchCase is one request of a batch run.
type BatchCase struct {
	ID string `json:"id"`
	Request
}

// BatchResult is the outcome of one batch case. Exactly one of Report
// and Error is set.
type BatchResult struct {
	ID     string  `json:"id"`
	Report *Report `json:"report,omitempty"`
	Error  string  `json:"error,omitempty"`
}

// BatchLoader loads batch cases.
type BatchLoader interface {
	Load(path string) ([]BatchCase, error)
}

// ResultWriter records batch results.
type ResultWriter interface {
	Write(result BatchResult) error
}
