package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"policy-crew/internal/application/port/input"
	"policy-crew/internal/application/port/output"
	"policy-crew/internal/application/service"
	"policy-crew/internal/domain/entity"
	"policy-crew/internal/usecase/crew"
)

var _ input.PipelineRunner = (*UseCase)(nil)

var (
	ErrEmptyTopic  = errors.New("topic cannot be empty")
	ErrEmptyOutput = errors.New("final task produced no output")
)

const (
	stageConfiguring = "Configuring agents based on public service and design experience..."
	stageDefining    = "Defining tasks aligned to research and storytelling workflows..."
	stageLaunching   = "Launching the sequential crew..."
)

// runningStates maps the position of a task in execution order to the state
// the pipeline is in while it runs.
var runningStates = []entity.PipelineState{
	entity.StateRunningTask1,
	entity.StateRunningTask2,
}

type UseCase struct {
	crew            *crew.Crew
	executor        input.TaskExecutor
	sink            output.ArticleSink
	logger          output.LoggerPort
	userInteraction output.UserInteractionPort
}

func New(
	c *crew.Crew,
	executor input.TaskExecutor,
	sink output.ArticleSink,
	logger output.LoggerPort,
	userInteraction output.UserInteractionPort,
) *UseCase {
	return &UseCase{
		crew:            c,
		executor:        executor,
		sink:            sink,
		logger:          logger,
		userInteraction: userInteraction,
	}
}

// Run executes the research and writing tasks strictly in order and persists
// the article. The first failure ends the run and leaves the output file
// untouched.
func (uc *UseCase) Run(ctx context.Context, topic string) (*entity.RunResult, error) {
	r := &run{
		UseCase: uc,
		sm:      newStateMachine(),
		result: &entity.RunResult{
			Topic:      strings.TrimSpace(topic),
			OutputPath: uc.sink.Path(),
		},
	}
	err := r.execute(ctx)
	r.result.State = r.sm.Current()
	r.result.History = r.sm.History()
	return r.result, err
}

type run struct {
	*UseCase
	sm     *stateMachine
	result *entity.RunResult
}

func (r *run) execute(ctx context.Context) error {
	if err := r.transition(entity.StateIdle, entity.StateConfiguring); err != nil {
		return err
	}

	if r.result.Topic == "" {
		return r.fail(ErrEmptyTopic)
	}

	r.userInteraction.ShowStage(ctx, stageConfiguring)
	agents := r.crew.Agents()

	r.userInteraction.ShowStage(ctx, stageDefining)
	tasks, err := r.crew.Tasks(r.result.Topic, agents)
	if err != nil {
		return r.fail(err)
	}

	order, err := r.plan(tasks)
	if err != nil {
		return r.fail(err)
	}

	r.userInteraction.ShowStage(ctx, stageLaunching)

	from := entity.StateConfiguring
	outputs := make(map[entity.TaskName]entity.TaskOutput, len(order))
	for i, task := range order {
		if err := r.transition(from, runningStates[i]); err != nil {
			return r.fail(err)
		}
		from = runningStates[i]

		if err := ctx.Err(); err != nil {
			return r.fail(err)
		}

		contextOutputs, err := collectContext(task, outputs)
		if err != nil {
			return r.fail(err)
		}

		out, err := r.executor.Execute(ctx, task, contextOutputs)
		if err != nil {
			return r.fail(fmt.Errorf("task %s failed: %w", task.Name, err))
		}

		outputs[task.Name] = *out
		r.result.Tasks = append(r.result.Tasks, *out)
		r.logger.Info("Task output recorded", "task", string(task.Name), "len", len(out.Raw))
	}

	final := r.result.Tasks[len(r.result.Tasks)-1].Raw
	if strings.TrimSpace(final) == "" {
		return r.fail(ErrEmptyOutput)
	}

	path, err := r.sink.Write(ctx, final)
	if err != nil {
		return r.fail(err)
	}

	r.result.Output = final
	r.result.OutputPath = path
	if err := r.transition(from, entity.StateSucceeded); err != nil {
		return r.fail(err)
	}
	r.result.Success = true
	return nil
}

// plan validates the dependency graph and checks it has the shape this
// pipeline runs: two tasks joined by a single edge.
func (r *run) plan(tasks []*entity.TaskSpec) ([]*entity.TaskSpec, error) {
	graph, err := service.NewTaskGraph(tasks)
	if err != nil {
		return nil, err
	}

	order := graph.Order()
	if len(order) != len(runningStates) {
		return nil, fmt.Errorf("pipeline expects %d tasks, got %d", len(runningStates), len(order))
	}

	edges := graph.Edges()
	want := service.Edge{From: order[0].Name, To: order[1].Name}
	if len(edges) != 1 || edges[0] != want {
		return nil, fmt.Errorf("pipeline expects a single dependency %s -> %s, got %v", want.From, want.To, edges)
	}

	r.logger.Debug("Task graph validated", "order", taskNames(order))
	return order, nil
}

func (r *run) transition(from, to entity.PipelineState) error {
	if err := r.sm.Transition(from, to); err != nil {
		return err
	}
	r.logger.Info("Pipeline state changed", "from", string(from), "to", string(to))
	return nil
}

func (r *run) fail(cause error) error {
	r.result.Success = false
	r.result.Reason = cause.Error()

	if err := r.transition(r.sm.Current(), entity.StateFailed); err != nil {
		r.logger.Error("Failed to record failure", "error", err)
		return errors.Join(cause, err)
	}

	r.logger.Error("Pipeline failed", "reason", r.result.Reason)
	return cause
}

func collectContext(task *entity.TaskSpec, outputs map[entity.TaskName]entity.TaskOutput) ([]entity.TaskOutput, error) {
	contextOutputs := make([]entity.TaskOutput, 0, len(task.Context))
	for _, dep := range task.Context {
		out, ok := outputs[dep.Name]
		if !ok {
			return nil, fmt.Errorf("task %s started before its dependency %s produced output", task.Name, dep.Name)
		}
		contextOutputs = append(contextOutputs, out)
	}
	return contextOutputs, nil
}

func taskNames(tasks []*entity.TaskSpec) []string {
	names := make([]string, 0, len(tasks))
	for _, t := range tasks {
		names = append(names, string(t.Name))
	}
	return names
}
