package service

import (
	"errors"
	"fmt"
	"strings"

	"policy-crew/internal/domain/entity"
)

var (
	ErrInvalidGraph = errors.New("invalid task graph")
	ErrCycleFound   = errors.New("cycle detected")
)

// GraphError wraps task graph validation failures.
type GraphError struct {
	Kind error
	Msg  string
}

func (e *GraphError) Error() string {
	if e == nil {
		return ""
	}
	if e.Msg == "" {
		return e.Kind.Error()
	}
	return fmt.Sprintf("%s: %s", e.Kind.Error(), e.Msg)
}

func (e *GraphError) Unwrap() error { return e.Kind }

func invalidf(format string, args ...any) error {
	return &GraphError{Kind: ErrInvalidGraph, Msg: fmt.Sprintf(format, args...)}
}

// Edge says that To consumes the output of From.
type Edge struct {
	From entity.TaskName
	To   entity.TaskName
}

// TaskGraph is an immutable, validated dependency graph of tasks. Edges are
// derived from each task's Context list.
type TaskGraph struct {
	tasks []*entity.TaskSpec
	edges []Edge
	order []*entity.TaskSpec
}

// NewTaskGraph validates the tasks and rejects:
//   - empty or duplicate task names
//   - tasks without an assigned agent
//   - context references to tasks outside the graph
//   - duplicate context references and self-dependencies
//   - any cycle
func NewTaskGraph(tasks []*entity.TaskSpec) (*TaskGraph, error) {
	if len(tasks) == 0 {
		return nil, invalidf("no tasks")
	}

	byName := make(map[entity.TaskName]*entity.TaskSpec, len(tasks))
	for _, t := range tasks {
		if t == nil {
			return nil, invalidf("nil task")
		}
		if t.Name == "" {
			return nil, invalidf("task name is required")
		}
		if _, exists := byName[t.Name]; exists {
			return nil, invalidf("duplicate task name: %q", t.Name)
		}
		if t.Agent == nil {
			return nil, invalidf("task %q has no agent", t.Name)
		}
		byName[t.Name] = t
	}

	var edges []Edge
	for _, t := range tasks {
		seen := make(map[entity.TaskName]struct{}, len(t.Context))
		for _, dep := range t.Context {
			if dep == nil {
				return nil, invalidf("task %q has a nil context entry", t.Name)
			}
			if dep.Name == t.Name {
				return nil, invalidf("self-dependency: %q", t.Name)
			}
			if known, ok := byName[dep.Name]; !ok || known != dep {
				return nil, invalidf("task %q depends on unknown task %q", t.Name, dep.Name)
			}
			if _, dup := seen[dep.Name]; dup {
				return nil, invalidf("duplicate dependency: %q -> %q", dep.Name, t.Name)
			}
			seen[dep.Name] = struct{}{}
			edges = append(edges, Edge{From: dep.Name, To: t.Name})
		}
	}

	g := &TaskGraph{
		tasks: append([]*entity.TaskSpec(nil), tasks...),
		edges: edges,
	}

	order, err := g.topoOrder()
	if err != nil {
		return nil, err
	}
	g.order = order
	return g, nil
}

// topoOrder is Kahn's algorithm with declaration order as the tie-breaker, so
// independent tasks keep the order they were declared in.
func (g *TaskGraph) topoOrder() ([]*entity.TaskSpec, error) {
	indeg := make(map[entity.TaskName]int, len(g.tasks))
	outgoing := make(map[entity.TaskName][]entity.TaskName, len(g.tasks))
	for _, e := range g.edges {
		indeg[e.To]++
		outgoing[e.From] = append(outgoing[e.From], e.To)
	}

	done := make(map[entity.TaskName]bool, len(g.tasks))
	order := make([]*entity.TaskSpec, 0, len(g.tasks))
	for len(order) < len(g.tasks) {
		var next *entity.TaskSpec
		for _, t := range g.tasks {
			if !done[t.Name] && indeg[t.Name] == 0 {
				next = t
				break
			}
		}
		if next == nil {
			return nil, cycleError(g.pending(done))
		}
		done[next.Name] = true
		order = append(order, next)
		for _, to := range outgoing[next.Name] {
			indeg[to]--
		}
	}
	return order, nil
}

func (g *TaskGraph) pending(done map[entity.TaskName]bool) []string {
	var names []string
	for _, t := range g.tasks {
		if !done[t.Name] {
			names = append(names, string(t.Name))
		}
	}
	return names
}

func cycleError(names []string) error {
	msg := "cycle"
	if len(names) > 0 {
		msg = "cycle among: " + strings.Join(names, ", ")
	}
	return &GraphError{Kind: ErrCycleFound, Msg: msg}
}

// Order returns the tasks in execution order.
func (g *TaskGraph) Order() []*entity.TaskSpec {
	out := make([]*entity.TaskSpec, len(g.order))
	copy(out, g.order)
	return out
}

func (g *TaskGraph) Edges() []Edge {
	out := make([]Edge, len(g.edges))
	copy(out, g.edges)
	return out
}
