package crew

import (
	"fmt"
	"strings"

	"policy-crew/internal/application/port/output"
	"policy-crew/internal/domain/entity"
)

type Config struct {
	Persona       *entity.PersonaContext
	ResearchTools []output.ToolPort
	OutputPath    string
}

type Agents struct {
	ResearchLead *entity.AgentSpec
	Communicator *entity.AgentSpec
}

// Crew builds the agents and tasks of one run. Specs are rebuilt on every call
// and never shared between runs.
type Crew struct {
	cfg Config
}

func New(cfg Config) *Crew {
	return &Crew{cfg: cfg}
}

func (c *Crew) Agents() Agents {
	return Agents{
		ResearchLead: NewResearchLead(c.cfg.Persona, c.cfg.ResearchTools),
		Communicator: NewCommunicator(c.cfg.Persona),
	}
}

// Tasks returns the research memo and article draft tasks in declaration
// order.
func (c *Crew) Tasks(topic string, agents Agents) ([]*entity.TaskSpec, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return nil, fmt.Errorf("topic cannot be empty")
	}
	if agents.ResearchLead == nil || agents.Communicator == nil {
		return nil, fmt.Errorf("both agents are required")
	}

	research, err := NewResearchMemoTask(agents.ResearchLead, topic)
	if err != nil {
		return nil, fmt.Errorf("failed to define research task: %w", err)
	}
	article, err := NewArticleDraftTask(agents.Communicator, research, topic, c.cfg.OutputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to define writing task: %w", err)
	}

	return []*entity.TaskSpec{research, article}, nil
}
