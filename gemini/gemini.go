package gemini

import (
	"context"
	"fmt"
)

// Prompt is a single-turn request: one system instruction and one user
// message.
type Prompt struct {
	Model       string
	System      string
	User        string
	Temperature float32
	Thinking    string // "", "MINIMAL", "LOW", "MEDIUM", "HIGH"
}

// Generator produces the text answer for a prompt.
type Generator interface {
	Generate(ctx context.Context, p Prompt) (string, error)
}

// GeneratorFunc adapts a function to Generator.
type GeneratorFunc func(ctx context.Context, p Prompt) (string, error)

// Generate calls f.
func (f GeneratorFunc) Generate(ctx context.Context, p Prompt) (string, error) {
	return f(ctx, p)
}

// StatusError is a non-2xx answer from the Gemini API.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("gemini API error (HTTP %d): %s", e.Code, e.Message)
}
