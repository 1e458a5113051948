package engine

import (
	"github.com/juju/errors"

	"github.com/quarrydata/taskpipe/types"
	"github.com/quarrydata/taskpipe/utils"
)

// Graph owns the uniquely-named tasks of one pipeline definition. Dependency
// edges are derived from each task's declared inputs, never stated directly.
type Graph struct {
	tasks map[string]*Task
}

func NewGraph() *Graph {
	return &Graph{tasks: make(map[string]*Task)}
}

func (g *Graph) AddTask(t *Task) error {
	if t == nil {
		return errors.BadRequestf("task is nil")
	}
	if _, exists := g.tasks[t.name]; exists {
		return &types.DuplicateTaskError{Task: t.name}
	}
	g.tasks[t.name] = t
	return nil
}

// Add builds a task from its spec and registers it.
func (g *Graph) Add(spec TaskSpec) (*Task, error) {
	t, err := NewTask(spec)
	if err != nil {
		return nil, errors.Trace(err)
	}
	if err := g.AddTask(t); err != nil {
		return nil, errors.Trace(err)
	}
	return t, nil
}

func (g *Graph) Task(name string) (*Task, bool) {
	t, exists := g.tasks[name]
	return t, exists
}

func (g *Graph) Len() int {
	return len(g.tasks)
}

func (g *Graph) Names() []string {
	return utils.SortedKeys(g.tasks)
}
