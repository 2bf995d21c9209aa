package openai_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fwojciec/prscope/openai"
	goopenai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockChatClient struct {
	CreateChatCompletionFn func(ctx context.Context, req goopenai.ChatCompletionRequest) (goopenai.ChatCompletionResponse, error)
}

func (m *mockChatClient) CreateChatCompletion(ctx context.Context, req goopenai.ChatCompletionRequest) (goopenai.ChatCompletionResponse, error) {
	return m.CreateChatCompletionFn(ctx, req)
}

func answer(text string) goopenai.ChatCompletionResponse {
	return goopenai.ChatCompletionResponse{
		Choices: []goopenai.ChatCompletionChoice{
			{Message: goopenai.ChatCompletionMessage{Role: goopenai.ChatMessageRoleAssistant, Content: text}},
		},
	}
}

func TestRuleModel_Answer(t *testing.T) {
	t.Parallel()

	t.Run("sends rules as system message", func(t *testing.T) {
		t.Parallel()

		var got goopenai.ChatCompletionRequest
		client := &mockChatClient{
			CreateChatCompletionFn: func(ctx context.Context, req goopenai.ChatCompletionRequest) (goopenai.ChatCompletionResponse, error) {
				got = req
				return answer(" No violations.\n"), nil
			},
		}

		out, err := openai.NewRuleModel(client, openai.DefaultModel, "R1: No secrets.").Answer(context.Background(), "+x = 1")

		require.NoError(t, err)
		assert.Equal(t, "No violations.", out)
		assert.Equal(t, openai.DefaultModel, got.Model)
		require.Len(t, got.Messages, 2)
		assert.Equal(t, goopenai.ChatMessageRoleSystem, got.Messages[0].Role)
		assert.Contains(t, got.Messages[0].Content, "<rules>\nR1: No secrets.\n</rules>")
		assert.Equal(t, "+x = 1", got.Messages[1].Content)
	})

	t.Run("wraps API errors", func(t *testing.T) {
		t.Parallel()

		client := &mockChatClient{
			CreateChatCompletionFn: func(ctx context.Context, req goopenai.ChatCompletionRequest) (goopenai.ChatCompletionResponse, error) {
				return goopenai.ChatCompletionResponse{}, errors.New("rate limited")
			},
		}

		_, err := openai.NewRuleModel(client, openai.DefaultModel, "").Answer(context.Background(), "q")

		assert.EqualError(t, err, "openai: rate limited")
	})

	t.Run("no choices", func(t *testing.T) {
		t.Parallel()

		client := &mockChatClient{
			CreateChatCompletionFn: func(ctx context.Context, req goopenai.ChatCompletionRequest) (goopenai.ChatCompletionResponse, error) {
				return goopenai.ChatCompletionResponse{}, nil
			},
		}

		_, err := openai.NewRuleModel(client, openai.DefaultModel, "").Answer(context.Background(), "q")

		assert.ErrorIs(t, err, openai.ErrNoChoices)
	})
}

func TestNewClient_Azure(t *testing.T) {
	t.Parallel()

	var gotPath, gotVersion, gotKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotVersion = r.URL.Query().Get("api-version")
		gotKey = r.Header.Get("api-key")
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(answer("Compliant."))
	}))
	t.Cleanup(srv.Close)

	client := openai.NewClient(openai.Config{
		APIKey:     "secret",
		Endpoint:   srv.URL,
		APIVersion: "2024-06-01",
	})

	out, err := openai.NewRuleModel(client, openai.DefaultModel, "rules").Answer(context.Background(), "q")

	require.NoError(t, err)
	assert.Equal(t, "Compliant.", out)
	assert.True(t, strings.HasPrefix(gotPath, "/openai/deployments/analysis/"), gotPath)
	assert.Equal(t, "2024-06-01", gotVersion)
	assert.Equal(t, "secret", gotKey)
}
