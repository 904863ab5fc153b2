package entity

type AgentType string

const (
	AgentTypeResearchLead AgentType = "research_lead"
	AgentTypeCommunicator AgentType = "communicator"
)

// AgentSpec is built once per run and never mutated afterwards.
type AgentSpec struct {
	Type      AgentType
	Role      string
	Goal      string
	Backstory string
	Persona   *PersonaContext
	Tools     []Tool
}

func (a *AgentSpec) ToolNames() []ToolName {
	names := make([]ToolName, 0, len(a.Tools))
	for _, t := range a.Tools {
		names = append(names, t.Name())
	}
	return names
}
