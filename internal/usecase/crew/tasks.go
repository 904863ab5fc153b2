package crew

import (
	"fmt"

	"policy-crew/internal/domain/entity"
	"policy-crew/internal/infrastructure/prompts"
)

func NewResearchMemoTask(agent *entity.AgentSpec, topic string) (*entity.TaskSpec, error) {
	data := instructionData(agent, topic, "")

	instructions, err := prompts.Render("research_task", prompts.ResearchTask, data)
	if err != nil {
		return nil, err
	}
	expected, err := prompts.Render("research_expected", prompts.ResearchExpectedOutput, data)
	if err != nil {
		return nil, err
	}

	return &entity.TaskSpec{
		Name:           entity.TaskResearchMemo,
		Instructions:   instructions,
		ExpectedOutput: expected,
		Agent:          agent,
	}, nil
}

// NewArticleDraftTask depends on research: its output is handed to the writer
// as context.
func NewArticleDraftTask(agent *entity.AgentSpec, research *entity.TaskSpec, topic, outputPath string) (*entity.TaskSpec, error) {
	if research == nil {
		return nil, fmt.Errorf("article draft requires the research task")
	}

	data := instructionData(agent, topic, outputPath)

	instructions, err := prompts.Render("writing_task", prompts.WritingTask, data)
	if err != nil {
		return nil, err
	}
	expected, err := prompts.Render("writing_expected", prompts.WritingExpectedOutput, data)
	if err != nil {
		return nil, err
	}

	return &entity.TaskSpec{
		Name:           entity.TaskArticleDraft,
		Instructions:   instructions,
		ExpectedOutput: expected,
		Agent:          agent,
		Context:        []*entity.TaskSpec{research},
	}, nil
}

func instructionData(agent *entity.AgentSpec, topic, outputPath string) prompts.InstructionData {
	var persona string
	if agent != nil {
		persona = agent.Persona.Text()
	}
	return prompts.InstructionData{
		Topic:      topic,
		Persona:    persona,
		OutputPath: outputPath,
	}
}
