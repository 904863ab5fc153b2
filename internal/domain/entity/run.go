package entity

type PipelineState string

const (
	StateIdle         PipelineState = "idle"
	StateConfiguring  PipelineState = "configuring"
	StateRunningTask1 PipelineState = "running_task_1"
	StateRunningTask2 PipelineState = "running_task_2"
	StateSucceeded    PipelineState = "succeeded"
	StateFailed       PipelineState = "failed"
)

func (s PipelineState) IsTerminal() bool {
	return s == StateSucceeded || s == StateFailed
}

type RunResult struct {
	Topic      string
	State      PipelineState
	History    []PipelineState
	Success    bool
	Output     string
	Reason     string
	OutputPath string
	Tasks      []TaskOutput
}
