package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/quarrydata/taskpipe/types"
)

func position(order []string, name string) int {
	for i, n := range order {
		if n == name {
			return i
		}
	}
	return -1
}

// the standard reporting shape: three extracts, two transforms, one report
func sixTaskGraph(t *testing.T) *Graph {
	g := NewGraph()
	mustAdd(t, g, "extractA", nil)
	mustAdd(t, g, "extractB", nil)
	mustAdd(t, g, "extractC", nil)
	mustAdd(t, g, "transformD", map[string]string{
		"a": "extractA.out",
		"b": "extractB.out",
	})
	mustAdd(t, g, "transformE", map[string]string{"c": "extractC.out"})
	mustAdd(t, g, "reportF", map[string]string{
		"d": "transformD.out",
		"e": "transformE.out",
	})
	return g
}

func TestTopologicalOrderSixTasks(t *testing.T) {
	g := sixTaskGraph(t)
	order, err := g.TopologicalOrder()
	assert.Nil(t, err)
	assert.Equal(t, g.Len(), len(order))

	for _, name := range g.Names() {
		task, _ := g.Task(name)
		for _, dep := range task.Dependencies() {
			assert.Less(t, position(order, dep), position(order, name),
				"%s must come before %s", dep, name)
		}
	}
}

func TestTopologicalOrderDeterministic(t *testing.T) {
	g := sixTaskGraph(t)
	first, err := g.TopologicalOrder()
	assert.Nil(t, err)
	for i := 0; i < 10; i++ {
		again, err := g.TopologicalOrder()
		assert.Nil(t, err)
		assert.Equal(t, first, again)
	}
}

func TestTopologicalOrderCycle(t *testing.T) {
	g := NewGraph()
	mustAdd(t, g, "a", map[string]string{"x": "b.out"})
	mustAdd(t, g, "b", map[string]string{"y": "a.out"})

	_, err := g.TopologicalOrder()
	var cycleErr *types.CycleError
	assert.ErrorAs(t, err, &cycleErr)
}

func TestClosure(t *testing.T) {
	g := sixTaskGraph(t)

	closure, err := g.Closure([]string{"transformD"})
	assert.Nil(t, err)
	assert.Equal(t, map[string]bool{
		"extractA": true, "extractB": true, "transformD": true,
	}, closure)

	closure, err = g.Closure([]string{"reportF"})
	assert.Nil(t, err)
	assert.Equal(t, 6, len(closure))

	_, err = g.Closure([]string{"nowhere"})
	var unknownErr *types.UnknownTaskError
	assert.ErrorAs(t, err, &unknownErr)
	assert.Equal(t, "nowhere", unknownErr.Task)
}

func TestOrderForSubset(t *testing.T) {
	g := sixTaskGraph(t)

	order, err := g.orderFor([]string{"transformE"})
	assert.Nil(t, err)
	assert.Equal(t, []string{"extractC", "transformE"}, order)

	full, err := g.orderFor(nil)
	assert.Nil(t, err)
	assert.Equal(t, 6, len(full))

	// relative order of the closure matches the full order
	subset, err := g.orderFor([]string{"transformD", "transformE"})
	assert.Nil(t, err)
	prev := -1
	for _, name := range subset {
		pos := position(full, name)
		assert.Greater(t, pos, prev)
		prev = pos
	}
}
