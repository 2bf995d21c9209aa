package prscope_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/fwojciec/prscope"
	"github.com/fwojciec/prscope/mock"
	"github.com/stretchr/testify/assert"
)

func TestRuleService_Check(t *testing.T) {
	t.Parallel()

	t.Run("initializes lazily and answers", func(t *testing.T) {
		t.Parallel()

		var builds atomic.Int32
		svc := prscope.NewRuleService(func(ctx context.Context) (prscope.RuleModel, error) {
			builds.Add(1)
			return &mock.RuleModel{
				AnswerFn: func(ctx context.Context, query string) (string, error) {
					return "No violations: " + query, nil
				},
			}, nil
		})

		assert.Equal(t, prscope.RuleStateUninitialized, svc.State())
		assert.Equal(t, int32(0), builds.Load())

		assert.Equal(t, "No violations: q1", svc.Check(context.Background(), "q1"))
		assert.Equal(t, "No violations: q2", svc.Check(context.Background(), "q2"))
		assert.Equal(t, prscope.RuleStateReady, svc.State())
		assert.Equal(t, int32(1), builds.Load())
	})

	t.Run("initialization failure is sticky", func(t *testing.T) {
		t.Parallel()

		var builds atomic.Int32
		svc := prscope.NewRuleService(func(ctx context.Context) (prscope.RuleModel, error) {
			builds.Add(1)
			return nil, errors.New("rules document not found")
		})

		first := svc.Check(context.Background(), "q")
		second := svc.Check(context.Background(), "q")

		assert.Equal(t, "Rule check initialization failed: rules document not found", first)
		assert.Equal(t, first, second)
		assert.Equal(t, prscope.RuleStateFailed, svc.State())
		assert.Equal(t, int32(1), builds.Load())
	})

	t.Run("model error becomes rule check failure", func(t *testing.T) {
		t.Parallel()

		svc := prscope.NewRuleService(func(ctx context.Context) (prscope.RuleModel, error) {
			return &mock.RuleModel{
				AnswerFn: func(ctx context.Context, query string) (string, error) {
					return "", errors.New("quota exceeded")
				},
			}, nil
		})

		assert.Equal(t, "Rule check failed: quota exceeded", svc.Check(context.Background(), "q"))
		assert.Equal(t, prscope.RuleStateReady, svc.State())
	})

	t.Run("nil factory fails initialization", func(t *testing.T) {
		t.Parallel()

		svc := prscope.NewRuleService(nil)

		assert.Contains(t, svc.Check(context.Background(), "q"), "Rule check initialization failed")
		assert.Equal(t, prscope.RuleStateFailed, svc.State())
	})

	t.Run("nil model fails initialization", func(t *testing.T) {
		t.Parallel()

		svc := prscope.NewRuleService(func(ctx context.Context) (prscope.RuleModel, error) {
			return nil, nil
		})

		assert.Contains(t, svc.Check(context.Background(), "q"), "nil model")
		assert.Equal(t, prscope.RuleStateFailed, svc.State())
	})

	t.Run("panicking factory fails initialization", func(t *testing.T) {
		t.Parallel()

		svc := prscope.NewRuleService(func(ctx context.Context) (prscope.RuleModel, error) {
			panic("boom")
		})

		assert.Equal(t, "Rule check initialization failed: panic: boom", svc.Check(context.Background(), "q"))
		assert.Equal(t, prscope.RuleStateFailed, svc.State())
	})

	t.Run("concurrent first use builds once", func(t *testing.T) {
		t.Parallel()

		var builds atomic.Int32
		svc := prscope.NewRuleService(func(ctx context.Context) (prscope.RuleModel, error) {
			builds.Add(1)
			return &mock.RuleModel{
				AnswerFn: func(ctx context.Context, query string) (string, error) {
					return "ok", nil
				},
			}, nil
		})

		var wg sync.WaitGroup
		results := make([]string, 16)
		for i := range results {
			wg.Add(1)
			go func() {
				defer wg.Done()
				results[i] = svc.Check(context.Background(), "q")
			}()
		}
		wg.Wait()

		assert.Equal(t, int32(1), builds.Load())
		for _, r := range results {
			assert.Equal(t, "ok", r)
		}
	})
}

func TestRuleState_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "uninitialized", prscope.RuleStateUninitialized.String())
	assert.Equal(t, "ready", prscope.RuleStateReady.String())
	assert.Equal(t, "failed", prscope.RuleStateFailed.String())
}
