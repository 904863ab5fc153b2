package executor

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"policy-crew/internal/application/port/output"
	"policy-crew/internal/domain/entity"
	"policy-crew/internal/infrastructure/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scriptedLLM struct {
	responses []entity.Message
	err       error
	requests  []output.ChatRequest
}

func (s *scriptedLLM) Chat(_ context.Context, req output.ChatRequest) (*output.ChatResponse, error) {
	s.requests = append(s.requests, req)
	if s.err != nil {
		return nil, s.err
	}
	if len(s.responses) == 0 {
		return &output.ChatResponse{Message: entity.Message{Role: entity.RoleAssistant, Content: "fallback"}}, nil
	}
	msg := s.responses[0]
	s.responses = s.responses[1:]
	return &output.ChatResponse{Message: msg}, nil
}

type stubTool struct {
	name   entity.ToolName
	result string
	err    error
	calls  []string
}

func (s *stubTool) Name() entity.ToolName { return s.name }
func (s *stubTool) Description() string   { return "stub" }
func (s *stubTool) Parameters() map[string]interface{} {
	return map[string]interface{}{"type": "object"}
}
func (s *stubTool) Execute(_ context.Context, args string) (string, error) {
	s.calls = append(s.calls, args)
	return s.result, s.err
}

type recordingUI struct {
	output.UserInteractionPort
	toolResults []string
	errors      int
	tasks       []entity.TaskName
}

func (r *recordingUI) ShowTaskStart(_ context.Context, task entity.TaskName, _ string) {
	r.tasks = append(r.tasks, task)
}
func (r *recordingUI) ShowIteration(context.Context, int, int)       {}
func (r *recordingUI) ShowToolStart(context.Context, string, string) {}
func (r *recordingUI) ShowThinking(context.Context, string)          {}
func (r *recordingUI) ShowToolResult(_ context.Context, _ string, result string, isError bool) {
	r.toolResults = append(r.toolResults, result)
	if isError {
		r.errors++
	}
}

func toolCall(id, name, args string) entity.Message {
	return entity.Message{
		Role:      entity.RoleAssistant,
		ToolCalls: []entity.ToolCall{{ID: id, Name: name, Arguments: args}},
	}
}

func answer(content string) entity.Message {
	return entity.Message{Role: entity.RoleAssistant, Content: content}
}

func newTask(tools ...entity.Tool) *entity.TaskSpec {
	return &entity.TaskSpec{
		Name:           entity.TaskResearchMemo,
		Instructions:   "Investigate the topic: open data",
		ExpectedOutput: "A memo",
		Agent: &entity.AgentSpec{
			Role:    "Research Lead",
			Goal:    "Research",
			Persona: entity.NewPersonaContext("Former GAO auditor."),
			Tools:   tools,
		},
	}
}

func newUseCase(llm output.LLMPort, ui output.UserInteractionPort, maxIter int) *UseCase {
	return New(llm, logger.NewNopLogger(), ui, Config{Temperature: 0.3, MaxIterations: maxIter})
}

func TestExecute_DirectAnswer(t *testing.T) {
	llm := &scriptedLLM{responses: []entity.Message{answer("  The memo  ")}}
	ui := &recordingUI{}

	out, err := newUseCase(llm, ui, 0).Execute(context.Background(), newTask(), nil)
	require.NoError(t, err)

	assert.Equal(t, entity.TaskResearchMemo, out.Task)
	assert.Equal(t, "Research Lead", out.AgentRole)
	assert.Equal(t, "The memo", out.Raw)
	assert.Equal(t, 1, out.Iterations)
	assert.Equal(t, []entity.TaskName{entity.TaskResearchMemo}, ui.tasks)

	require.Len(t, llm.requests, 1)
	req := llm.requests[0]
	assert.Empty(t, req.Tools)
	assert.InDelta(t, 0.3, req.Temperature, 1e-6)
	require.Len(t, req.Messages, 2)
	assert.Equal(t, entity.RoleSystem, req.Messages[0].Role)
	assert.Contains(t, req.Messages[0].Content, "Former GAO auditor.")
	assert.Contains(t, req.Messages[1].Content, "Current Task: Investigate the topic: open data")
}

func TestExecute_PassesContextOutputs(t *testing.T) {
	llm := &scriptedLLM{responses: []entity.Message{answer("# Article")}}

	_, err := newUseCase(llm, &recordingUI{}, 0).Execute(context.Background(), newTask(), []entity.TaskOutput{
		{Task: entity.TaskResearchMemo, AgentRole: "Research Lead", Raw: "RESEARCH FINDINGS"},
	})
	require.NoError(t, err)

	assert.Contains(t, llm.requests[0].Messages[1].Content, "RESEARCH FINDINGS")
}

func TestExecute_ToolLoop(t *testing.T) {
	search := &stubTool{name: entity.ToolWebSearch, result: "1. Open Data Act"}
	llm := &scriptedLLM{responses: []entity.Message{
		toolCall("call-1", "web_search", `{"query":"open data"}`),
		answer("Memo citing the Open Data Act"),
	}}
	ui := &recordingUI{}

	out, err := newUseCase(llm, ui, 0).Execute(context.Background(), newTask(search), nil)
	require.NoError(t, err)

	assert.Equal(t, "Memo citing the Open Data Act", out.Raw)
	assert.Equal(t, 2, out.Iterations)
	assert.Equal(t, []string{`{"query":"open data"}`}, search.calls)

	require.Len(t, llm.requests, 2)
	require.Len(t, llm.requests[0].Tools, 1)
	assert.Equal(t, "web_search", llm.requests[0].Tools[0].Name)

	last := llm.requests[1].Messages[len(llm.requests[1].Messages)-1]
	assert.Equal(t, entity.RoleTool, last.Role)
	assert.Equal(t, "call-1", last.ToolCallID)
	assert.Equal(t, "1. Open Data Act", last.Content)
}

func TestExecute_LocalToolErrorsBecomeObservations(t *testing.T) {
	reader := &stubTool{name: entity.ToolReadPage, err: errors.New("unexpected status 404")}
	llm := &scriptedLLM{responses: []entity.Message{
		toolCall("c1", "read_page", `{"url":"https://example.org"}`),
		toolCall("c2", "delete_everything", `{}`),
		answer("done"),
	}}
	ui := &recordingUI{}

	out, err := newUseCase(llm, ui, 0).Execute(context.Background(), newTask(reader), nil)
	require.NoError(t, err)

	assert.Equal(t, "done", out.Raw)
	assert.Equal(t, 2, ui.errors)
	assert.Equal(t, []string{
		"Error: unexpected status 404",
		"Error: unknown tool 'delete_everything'",
	}, ui.toolResults)
}

func TestExecute_ExternalToolFailureAbortsTask(t *testing.T) {
	search := &stubTool{
		name: entity.ToolWebSearch,
		err:  &entity.ExternalCallError{Service: "search API", Err: errors.New("status 401")},
	}
	llm := &scriptedLLM{responses: []entity.Message{
		toolCall("c1", "web_search", `{"query":"x"}`),
		answer("never reached"),
	}}

	out, err := newUseCase(llm, &recordingUI{}, 0).Execute(context.Background(), newTask(search), nil)
	require.Error(t, err)
	assert.Nil(t, out)

	var callErr *entity.ExternalCallError
	require.ErrorAs(t, err, &callErr)
	assert.Equal(t, "tool web_search: search API: status 401", err.Error())
	assert.Len(t, llm.requests, 1)
}

func TestExecute_TruncatesLongObservations(t *testing.T) {
	reader := &stubTool{name: entity.ToolReadPage, result: strings.Repeat("a", maxObservationLen+500)}
	llm := &scriptedLLM{responses: []entity.Message{
		toolCall("c1", "read_page", `{"url":"https://example.org"}`),
		answer("ok"),
	}}
	ui := &recordingUI{}

	_, err := newUseCase(llm, ui, 0).Execute(context.Background(), newTask(reader), nil)
	require.NoError(t, err)

	require.Len(t, ui.toolResults, 1)
	assert.True(t, strings.HasSuffix(ui.toolResults[0], "\n... (truncated)"))
	assert.Len(t, ui.toolResults[0], maxObservationLen+len("\n... (truncated)"))
}

func TestExecute_TruncatesObservationOnRuneBoundary(t *testing.T) {
	// "€" is three bytes, so maxObservationLen lands inside a rune.
	reader := &stubTool{name: entity.ToolReadPage, result: strings.Repeat("€", maxObservationLen/3+10)}
	llm := &scriptedLLM{responses: []entity.Message{
		toolCall("c1", "read_page", `{"url":"https://example.org"}`),
		answer("ok"),
	}}
	ui := &recordingUI{}

	_, err := newUseCase(llm, ui, 0).Execute(context.Background(), newTask(reader), nil)
	require.NoError(t, err)

	require.Len(t, ui.toolResults, 1)
	observation := ui.toolResults[0]
	assert.True(t, utf8.ValidString(observation))
	assert.True(t, strings.HasSuffix(observation, "\n... (truncated)"))
	assert.LessOrEqual(t, len(observation), maxObservationLen+len("\n... (truncated)"))
}

func TestExecute_SummaryAfterMaxIterations(t *testing.T) {
	search := &stubTool{name: entity.ToolWebSearch, result: "hit"}
	llm := &scriptedLLM{responses: []entity.Message{
		toolCall("c1", "web_search", `{"query":"a"}`),
		toolCall("c2", "web_search", `{"query":"b"}`),
		answer("Final memo from summary"),
	}}

	out, err := newUseCase(llm, &recordingUI{}, 2).Execute(context.Background(), newTask(search), nil)
	require.NoError(t, err)

	assert.Equal(t, "Final memo from summary", out.Raw)
	assert.Equal(t, 2, out.Iterations)
	require.Len(t, llm.requests, 3)
	assert.Nil(t, llm.requests[2].Tools)
	final := llm.requests[2].Messages[len(llm.requests[2].Messages)-1]
	assert.Equal(t, entity.RoleUser, final.Role)
	assert.Contains(t, final.Content, "Do NOT call any tools")
}

func TestExecute_LLMErrorIsWrapped(t *testing.T) {
	apiErr := &entity.ExternalCallError{Service: "model API", Err: errors.New("OPENAI_API_KEY is not set")}
	llm := &scriptedLLM{err: apiErr}

	_, err := newUseCase(llm, &recordingUI{}, 0).Execute(context.Background(), newTask(), nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, apiErr)
	assert.Equal(t, "llm request failed: model API: OPENAI_API_KEY is not set", err.Error())
}

func TestExecute_RequiresAgent(t *testing.T) {
	_, err := newUseCase(&scriptedLLM{}, &recordingUI{}, 0).Execute(context.Background(), &entity.TaskSpec{Name: "x"}, nil)
	assert.Error(t, err)
}
