package engine

import (
	"sort"

	"github.com/juju/errors"

	"github.com/quarrydata/taskpipe/types"
)

// TopologicalOrder computes a deterministic total order placing every task
// strictly after all of its dependencies. Kahn's algorithm, seeded from each
// task's own remaining-dependency count; the ready set is kept sorted so the
// same graph always yields the same order.
func (g *Graph) TopologicalOrder() ([]string, error) {
	remaining := make(map[string]int, len(g.tasks))
	dependents := make(map[string][]string, len(g.tasks))

	ready := make([]string, 0, len(g.tasks))
	for _, name := range g.Names() {
		deps := g.tasks[name].Dependencies()
		remaining[name] = len(deps)
		for _, dep := range deps {
			dependents[dep] = append(dependents[dep], name)
		}
		if len(deps) == 0 {
			ready = append(ready, name)
		}
	}

	order := make([]string, 0, len(g.tasks))
	for len(ready) > 0 {
		name := ready[0]
		ready = ready[1:]
		order = append(order, name)

		enqueued := false
		for _, dependent := range dependents[name] {
			if remaining[dependent]--; remaining[dependent] == 0 {
				ready = append(ready, dependent)
				enqueued = true
			}
		}
		if enqueued {
			sort.Strings(ready)
		}
	}

	// defensive re-check beyond the DFS validator
	if len(order) != len(g.tasks) {
		return nil, &types.CycleError{}
	}
	return order, nil
}

// Closure returns the minimal set of tasks needed to run the requested
// targets: the targets plus all of their transitive dependencies.
func (g *Graph) Closure(targets []string) (map[string]bool, error) {
	closure := make(map[string]bool)

	var walk func(name string) error
	walk = func(name string) error {
		if closure[name] {
			return nil
		}
		t, exists := g.tasks[name]
		if !exists {
			return &types.UnknownTaskError{Task: name}
		}
		closure[name] = true
		for _, dep := range t.Dependencies() {
			if err := walk(dep); err != nil {
				return err
			}
		}
		return nil
	}

	for _, target := range targets {
		if err := walk(target); err != nil {
			return nil, err
		}
	}
	return closure, nil
}

// orderFor filters the full topological order down to the closure of the
// requested targets, preserving relative order. With no targets the full
// order is returned.
func (g *Graph) orderFor(targets []string) ([]string, error) {
	order, err := g.TopologicalOrder()
	if err != nil {
		return nil, errors.Trace(err)
	}
	if len(targets) == 0 {
		return order, nil
	}

	closure, err := g.Closure(targets)
	if err != nil {
		return nil, errors.Trace(err)
	}
	filtered := make([]string, 0, len(closure))
	for _, name := range order {
		if closure[name] {
			filtered = append(filtered, name)
		}
	}
	return filtered, nil
}
