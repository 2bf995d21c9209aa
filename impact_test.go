package prscope_test

import (
	"strings"
	"testing"

	"github.com/fwojciec/prscope"
	"github.com/stretchr/testify/assert"
)

func lines(prefix string, n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = prefix + "line"
	}
	return out
}

func TestAnalyzeImpact(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		changed []string
		want    prscope.ImpactMetrics
	}{
		{
			name:    "no changes",
			changed: nil,
			want:    prscope.ImpactMetrics{Complexity: prscope.ComplexityLow},
		},
		{
			name:    "three added one removed",
			changed: append(lines("+", 3), lines("-", 1)...),
			want:    prscope.ImpactMetrics{LinesAdded: 3, LinesRemoved: 1, NetChange: 2, Complexity: prscope.ComplexityLow},
		},
		{
			name:    "nine lines stays low",
			changed: lines("+", 9),
			want:    prscope.ImpactMetrics{LinesAdded: 9, NetChange: 9, Complexity: prscope.ComplexityLow},
		},
		{
			name:    "ten lines is high",
			changed: append(lines("+", 5), lines("-", 5)...),
			want:    prscope.ImpactMetrics{LinesAdded: 5, LinesRemoved: 5, NetChange: 0, Complexity: prscope.ComplexityHigh},
		},
		{
			name:    "sixty added fifty removed",
			changed: append(lines("+", 60), lines("-", 50)...),
			want:    prscope.ImpactMetrics{LinesAdded: 60, LinesRemoved: 50, NetChange: 10, Complexity: prscope.ComplexityHigh},
		},
		{
			name:    "net change can be negative",
			changed: append(lines("+", 1), lines("-", 4)...),
			want:    prscope.ImpactMetrics{LinesAdded: 1, LinesRemoved: 4, NetChange: -3, Complexity: prscope.ComplexityLow},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, prscope.AnalyzeImpact(tt.changed))
		})
	}
}

func TestAnalyzeImpact_FromParsedDiff(t *testing.T) {
	t.Parallel()

	diff := "--- a/app.py\n+++ b/app.py\n@@ -1,2 +1,4 @@\n" +
		strings.Join([]string{"+a", "+b", "+c", "-d"}, "\n") + "\n"

	r, _ := prscope.ParseDiff(diff).Get("app.py")
	m := prscope.AnalyzeImpact(r.ChangedLines)

	assert.Equal(t, prscope.ImpactMetrics{LinesAdded: 3, LinesRemoved: 1, NetChange: 2, Complexity: prscope.ComplexityLow}, m)
}
