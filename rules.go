package prscope

import (
	"context"
	"fmt"
	"sync"
)

// RuleState is the initialization state of a RuleService.
type RuleState int

// Rule service states.
const (
	RuleStateUninitialized RuleState = iota
	RuleStateReady
	RuleStateFailed
)

// String returns the state name.
func (s RuleState) String() string {
	switch s {
	case RuleStateReady:
		return "ready"
	case RuleStateFailed:
		return "failed"
	default:
		return "uninitialized"
	}
}

// RuleModelFactory builds the rule model on first use.
type RuleModelFactory func(ctx context.Context) (RuleModel, error)

// Compile-time interface verification.
var _ RuleChecker = (*RuleService)(nil)

// RuleService implements RuleChecker on top of a lazily built RuleModel.
//
// The model is built by the first Check call. Initialization happens at
// most once: a successful build moves the service to RuleStateReady, a
// failed one to RuleStateFailed, and neither state is left afterwards.
// RuleService is safe for concurrent use.
type RuleService struct {
	factory RuleModelFactory

	mu      sync.Mutex
	state   RuleState
	model   RuleModel
	initErr error
}

// NewRuleService creates a RuleService that builds its model with factory.
func NewRuleService(factory RuleModelFactory) *RuleService {
	return &RuleService{factory: factory}
}

// State returns the current initialization state.
func (s *RuleService) State() RuleState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Check answers query with the rule model. Initialization and model
// failures are returned as descriptive text.
func (s *RuleService) Check(ctx context.Context, query string) string {
	model, err := s.init(ctx)
	if err != nil {
		return fmt.Sprintf("Rule check initialization failed: %v", err)
	}

	answer, err := model.Answer(ctx, query)
	if err != nil {
		return fmt.Sprintf("Rule check failed: %v", err)
	}
	return answer
}

func (s *RuleService) init(ctx context.Context) (RuleModel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case RuleStateReady:
		return s.model, nil
	case RuleStateFailed:
		return nil, s.initErr
	}

	model, err := s.build(ctx)
	if err != nil {
		s.state = RuleStateFailed
		s.initErr = err
		return nil, err
	}
	s.state = RuleStateReady
	s.model = model
	return model, nil
}

func (s *RuleService) build(ctx context.Context) (model RuleModel, err error) {
	if s.factory == nil {
		return nil, fmt.Errorf("no rule model configured")
	}
	defer func() {
		if r := recover(); r != nil {
			model, err = nil, fmt.Errorf("panic: %v", r)
		}
	}()
	model, err = s.factory(ctx)
	if err == nil && model == nil {
		err = fmt.Errorf("rule model factory returned nil model")
	}
	return model, err
}
