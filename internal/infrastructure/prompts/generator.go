package prompts

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"policy-crew/internal/domain/entity"
)

var funcs = template.FuncMap{
	"join": strings.Join,
}

type SystemPromptData struct {
	Role      string
	Goal      string
	Backstory string
	Persona   string
	Tools     []string
}

type TaskPromptData struct {
	Instructions   string
	ExpectedOutput string
	Context        []entity.TaskOutput
}

// InstructionData parameterizes the research and writing task templates.
type InstructionData struct {
	Topic      string
	Persona    string
	OutputPath string
}

func Render(name, tmpl string, data any) (string, error) {
	t, err := template.New(name).Funcs(funcs).Option("missingkey=error").Parse(tmpl)
	if err != nil {
		return "", fmt.Errorf("parse %s template: %w", name, err)
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render %s template: %w", name, err)
	}

	return strings.TrimSpace(buf.String()), nil
}

func GenerateSystemPrompt(agent *entity.AgentSpec) (string, error) {
	if agent == nil {
		return "", fmt.Errorf("agent is required")
	}

	tools := make([]string, 0, len(agent.Tools))
	for _, name := range agent.ToolNames() {
		tools = append(tools, name.String())
	}

	return Render("system", SystemPrompt, SystemPromptData{
		Role:      agent.Role,
		Goal:      agent.Goal,
		Backstory: agent.Backstory,
		Persona:   strings.TrimSpace(agent.Persona.Text()),
		Tools:     tools,
	})
}

func GenerateTaskPrompt(task *entity.TaskSpec, contextOutputs []entity.TaskOutput) (string, error) {
	if task == nil {
		return "", fmt.Errorf("task is required")
	}

	return Render("task", TaskPrompt, TaskPromptData{
		Instructions:   task.Instructions,
		ExpectedOutput: task.ExpectedOutput,
		Context:        contextOutputs,
	})
}
