package prscope

// FileOp is what a diff does to a file, as reported in ChangeSummary.
type FileOp string

// File operations recognized in git diff headers.
const (
	FileModified FileOp = "modified"
	FileAdded    FileOp = "added"
	FileDeleted  FileOp = "deleted"
	FileRenamed  FileOp = "renamed"
	FileCopied   FileOp = "copied"
)

// String returns the operation name; the zero value reads as modified.
func (op FileOp) String() string {
	if op == "" {
		return string(FileModified)
	}
	return string(op)
}
