package prompts

import (
	_ "embed"
)

//go:embed persona.txt
var PersonaContext string

//go:embed system.txt
var SystemPrompt string

//go:embed task.txt
var TaskPrompt string

//go:embed research_task.txt
var ResearchTask string

//go:embed research_expected.txt
var ResearchExpectedOutput string

//go:embed writing_task.txt
var WritingTask string

//go:embed writing_expected.txt
var WritingExpectedOutput string
