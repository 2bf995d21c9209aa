package mock

import (
	"context"

	"github.com/fwojciec/prscope"
)

// Compile-time interface verification.
var _ prscope.ReportViewer = (*ReportViewer)(nil)

// ReportViewer is a mock implementation of prscope.ReportViewer.
type ReportViewer struct {
	ViewFn func(ctx context.Context, report *prscope.Report) error
}

func (v *ReportViewer) View(ctx context.Context, report *prscope.Report) error {
	return v.ViewFn(ctx, report)
}

var _ prscope.Clipboard = (*Clipboard)(nil)

// Clipboard is a mock implementation of prscope.Clipboard.
type Clipboard struct {
	CopyFn func(content string) error
}

func (c *Clipboard) Copy(content string) error {
	return c.CopyFn(content)
}
