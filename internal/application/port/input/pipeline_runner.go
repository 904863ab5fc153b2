package input

import (
	"context"

	"policy-crew/internal/domain/entity"
)

// PipelineRunner runs the whole crew for one topic. The returned result is
// non-nil even when err is non-nil and carries the failure reason.
type PipelineRunner interface {
	Run(ctx context.Context, topic string) (*entity.RunResult, error)
}
