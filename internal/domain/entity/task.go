package entity

type TaskName string

const (
	TaskResearchMemo TaskName = "research_memo"
	TaskArticleDraft TaskName = "article_draft"
)

// TaskSpec describes one unit of work. Context lists the tasks whose outputs
// must be available before this one starts.
type TaskSpec struct {
	Name           TaskName
	Instructions   string
	ExpectedOutput string
	Agent          *AgentSpec
	Context        []*TaskSpec
}

type TaskOutput struct {
	Task       TaskName
	AgentRole  string
	Raw        string
	Iterations int
}
