package crew

import (
	"policy-crew/internal/application/port/output"
	"policy-crew/internal/domain/entity"
)

const (
	researchLeadRole = "Ethics and Emerging Technology Research Lead"
	researchLeadGoal = "Synthesize cross-sector research into AI governance, civic technology, " +
		"and human-centered innovation so complex topics are ready for policy and design discussions."
	researchLeadBackstory = "You guide conversations on technology ethics at Stanford, advise on AI " +
		"accountability from service at the U.S. Government Accountability Office and the U.S. Patent " +
		"and Trademark Office, and translate research for public servants, engineers, and designers."

	communicatorRole = "Policy Communicator and Storyteller"
	communicatorGoal = "Transform nuanced research into compelling narratives with clear recommendations " +
		"for civic leaders, technologists, and academics."
	communicatorBackstory = "Drawing on experience moderating discussions with global leaders, crafting " +
		"GAO reports for Congress, and briefing White House stakeholders, you excel at weaving evidence, " +
		"ethics, and inclusive design into accessible writing."
)

// NewResearchLead builds the agent that investigates the topic. tools may be
// empty when no search credential is configured.
func NewResearchLead(persona *entity.PersonaContext, tools []output.ToolPort) *entity.AgentSpec {
	return &entity.AgentSpec{
		Type:      entity.AgentTypeResearchLead,
		Role:      researchLeadRole,
		Goal:      researchLeadGoal,
		Backstory: researchLeadBackstory,
		Persona:   persona,
		Tools:     copyTools(tools),
	}
}

// NewCommunicator writes from context outputs only and has no tools.
func NewCommunicator(persona *entity.PersonaContext) *entity.AgentSpec {
	return &entity.AgentSpec{
		Type:      entity.AgentTypeCommunicator,
		Role:      communicatorRole,
		Goal:      communicatorGoal,
		Backstory: communicatorBackstory,
		Persona:   persona,
	}
}

func copyTools(tools []output.ToolPort) []entity.Tool {
	out := make([]entity.Tool, 0, len(tools))
	for _, t := range tools {
		if t != nil {
			out = append(out, t)
		}
	}
	return out
}
