package gemini_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fwojciec/prscope/gemini"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const rulesDoc = "R1: Never log secrets.\nR2: All SQL must use parameters."

func TestRuleModel_Answer_SendsQueryWithRules(t *testing.T) {
	t.Parallel()

	var got gemini.Prompt
	gen := gemini.GeneratorFunc(func(ctx context.Context, p gemini.Prompt) (string, error) {
		got = p
		return "  R1 violated: password is logged.\n", nil
	})

	answer, err := gemini.NewRuleModel(gen, gemini.DefaultModel, rulesDoc).Answer(context.Background(), "+log.Print(password)")

	require.NoError(t, err)
	assert.Equal(t, "R1 violated: password is logged.", answer)
	assert.Equal(t, gemini.DefaultModel, got.Model)
	assert.Equal(t, "+log.Print(password)", got.User)
	assert.Contains(t, got.System, "R2: All SQL must use parameters.")
	assert.Zero(t, got.Temperature)
	assert.Equal(t, "LOW", got.Thinking)
}

func TestRuleModel_Answer_AppliesTimeout(t *testing.T) {
	t.Parallel()

	gen := gemini.GeneratorFunc(func(ctx context.Context, p gemini.Prompt) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	})

	_, err := gemini.NewRuleModel(gen, gemini.DefaultModel, rulesDoc, gemini.WithTimeout(10*time.Millisecond)).
		Answer(context.Background(), "q")

	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestRuleModel_Answer_Errors(t *testing.T) {
	t.Parallel()

	t.Run("status error is wrapped", func(t *testing.T) {
		t.Parallel()

		gen := gemini.GeneratorFunc(func(ctx context.Context, p gemini.Prompt) (string, error) {
			return "", &gemini.StatusError{Code: 429, Message: "quota"}
		})

		_, err := gemini.NewRuleModel(gen, gemini.DefaultModel, rulesDoc).Answer(context.Background(), "q")

		var statusErr *gemini.StatusError
		require.True(t, errors.As(err, &statusErr))
		assert.Equal(t, 429, statusErr.Code)
		assert.EqualError(t, err, "gemini: gemini API error (HTTP 429): quota")
	})

	t.Run("blank answer", func(t *testing.T) {
		t.Parallel()

		gen := gemini.GeneratorFunc(func(ctx context.Context, p gemini.Prompt) (string, error) {
			return " \n", nil
		})

		_, err := gemini.NewRuleModel(gen, gemini.DefaultModel, rulesDoc).Answer(context.Background(), "q")

		assert.ErrorIs(t, err, gemini.ErrEmptyResponse)
	})
}

func TestBuildRulesInstruction(t *testing.T) {
	t.Parallel()

	got := gemini.BuildRulesInstruction("\n  R1: Be nice.  \n")

	assert.Contains(t, got, "<rules>\nR1: Be nice.\n</rules>")
}
