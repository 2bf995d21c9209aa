// Package gemini answers rule-compliance queries with Google Gemini.
package gemini

import (
	"context"
	"errors"

	"google.golang.org/genai"
)

// DefaultModel is the Gemini model used for rule checks.
const DefaultModel = "gemini-3-flash-preview"

var _ Generator = (*Client)(nil)

// Client sends prompts through genai.
type Client struct {
	models *genai.Models
}

// NewClient creates a Gemini API client for apiKey.
func NewClient(ctx context.Context, apiKey string) (*Client, error) {
	c, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, err
	}
	return &Client{models: c.Models}, nil
}

// Generate sends p as a single user turn and returns the response text.
func (c *Client) Generate(ctx context.Context, p Prompt) (string, error) {
	temp := p.Temperature
	cfg := &genai.GenerateContentConfig{Temperature: &temp}
	if p.System != "" {
		cfg.SystemInstruction = genai.NewContentFromText(p.System, "")
	}
	if p.Thinking != "" {
		cfg.ThinkingConfig = &genai.ThinkingConfig{ThinkingLevel: genai.ThinkingLevel(p.Thinking)}
	}

	contents := []*genai.Content{genai.NewContentFromText(p.User, genai.RoleUser)}
	result, err := c.models.GenerateContent(ctx, p.Model, contents, cfg)
	if err != nil {
		var apiErr genai.APIError
		if errors.As(err, &apiErr) {
			return "", &StatusError{Code: apiErr.Code, Message: apiErr.Message}
		}
		return "", err
	}
	return result.Text(), nil
}
