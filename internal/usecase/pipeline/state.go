package pipeline

import (
	"errors"
	"fmt"

	"policy-crew/internal/domain/entity"
)

var ErrInvalidTransition = errors.New("invalid pipeline transition")

// stateMachine tracks one run. A terminal state is never left.
type stateMachine struct {
	current entity.PipelineState
	history []entity.PipelineState
}

func newStateMachine() *stateMachine {
	return &stateMachine{
		current: entity.StateIdle,
		history: []entity.PipelineState{entity.StateIdle},
	}
}

func (m *stateMachine) Current() entity.PipelineState { return m.current }

func (m *stateMachine) History() []entity.PipelineState {
	out := make([]entity.PipelineState, len(m.history))
	copy(out, m.history)
	return out
}

// Transition moves from the expected state to the next one.
func (m *stateMachine) Transition(from, to entity.PipelineState) error {
	if m.current != from {
		return fmt.Errorf("%w: expected %s, got %s", ErrInvalidTransition, from, m.current)
	}
	if !isAllowedTransition(from, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
	}
	m.current = to
	m.history = append(m.history, to)
	return nil
}

func isAllowedTransition(from, to entity.PipelineState) bool {
	switch from {
	case entity.StateIdle:
		return to == entity.StateConfiguring
	case entity.StateConfiguring:
		return to == entity.StateRunningTask1 || to == entity.StateFailed
	case entity.StateRunningTask1:
		return to == entity.StateRunningTask2 || to == entity.StateFailed
	case entity.StateRunningTask2:
		return to == entity.StateSucceeded || to == entity.StateFailed
	default:
		return false
	}
}
