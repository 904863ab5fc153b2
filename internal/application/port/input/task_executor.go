package input

import (
	"context"

	"policy-crew/internal/domain/entity"
)

type TaskExecutor interface {
	Execute(ctx context.Context, task *entity.TaskSpec, contextOutputs []entity.TaskOutput) (*entity.TaskOutput, error)
}
