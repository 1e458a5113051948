package engine

import (
	"github.com/quarrydata/taskpipe/types"
)

type visitColor int

const (
	white visitColor = 0 // unvisited
	gray  visitColor = 1 // on the current DFS stack
	black visitColor = 2 // fully explored
)

// Validate checks the dependency relation before any task runs: first cycle
// detection by three-color depth-first search, then a sweep collecting every
// dependency name that does not exist in the graph.
func (g *Graph) Validate() error {
	if err := g.detectCycles(); err != nil {
		return err
	}
	return g.detectMissing()
}

func (g *Graph) detectCycles() error {
	colors := make(map[string]visitColor, len(g.tasks))
	stack := make([]string, 0, len(g.tasks))

	var visit func(name string) *types.CycleError
	visit = func(name string) *types.CycleError {
		colors[name] = gray
		stack = append(stack, name)

		t := g.tasks[name]
		for _, dep := range t.Dependencies() {
			if _, exists := g.tasks[dep]; !exists {
				// reported by the missing-dependency sweep
				continue
			}
			switch colors[dep] {
			case gray:
				return &types.CycleError{Path: cyclePath(stack, dep)}
			case white:
				if cerr := visit(dep); cerr != nil {
					return cerr
				}
			}
		}

		stack = stack[:len(stack)-1]
		colors[name] = black
		return nil
	}

	for _, name := range g.Names() {
		if colors[name] != white {
			continue
		}
		if cerr := visit(name); cerr != nil {
			return cerr
		}
	}
	return nil
}

// cyclePath trims the DFS stack to the segment starting at the revisited
// gray node and closes the loop.
func cyclePath(stack []string, revisited string) []string {
	for i, name := range stack {
		if name == revisited {
			path := append([]string(nil), stack[i:]...)
			return append(path, revisited)
		}
	}
	return []string{revisited, revisited}
}

func (g *Graph) detectMissing() error {
	missing := make(map[string][]string)
	for _, name := range g.Names() {
		t := g.tasks[name]
		for _, dep := range t.Dependencies() {
			if _, exists := g.tasks[dep]; !exists {
				missing[name] = append(missing[name], dep)
			}
		}
	}
	if len(missing) > 0 {
		return &types.MissingDependencyError{Missing: missing}
	}
	return nil
}
