package engine

import (
	"context"
	"testing"

	"github.com/juju/errors"
	"github.com/stretchr/testify/assert"

	"github.com/quarrydata/taskpipe/types"
)

func TestRenderDOT(t *testing.T) {
	g := sixTaskGraph(t)
	dot := RenderDOT(g)

	assert.True(t, len(dot) > 0)
	assert.Contains(t, dot, "digraph tasks {")
	assert.Contains(t, dot, "rankdir=LR")
	// every task is pending before a run
	assert.Contains(t, dot, "extractA [label=\"extractA\" shape=\"record\" style=\"filled\" color=\"white\"]")
	assert.Contains(t, dot, "extractA -> transformD")
	assert.Contains(t, dot, "extractB -> transformD")
	assert.Contains(t, dot, "extractC -> transformE")
	assert.Contains(t, dot, "transformD -> reportF")
	assert.Contains(t, dot, "transformE -> reportF")
}

func TestRenderDOTStatusColors(t *testing.T) {
	g := NewGraph()
	mustAdd(t, g, "good", nil)
	_, err := g.Add(TaskSpec{
		Name: "wrecked",
		Handler: func(ctx context.Context, args types.Data) (types.Data, error) {
			return nil, errors.New("broken")
		},
		MaxRetries: -1,
	})
	assert.Nil(t, err)
	mustAdd(t, g, "zlater", nil)

	executor := NewExecutor(g)
	_, err = executor.Execute(context.Background())
	assert.NotNil(t, err)

	dot := RenderDOT(g)
	assert.Contains(t, dot, "good [label=\"good\" shape=\"record\" style=\"filled\" color=\"green\"]")
	assert.Contains(t, dot, "wrecked [label=\"wrecked\" shape=\"record\" style=\"filled\" color=\"red\"]")
	// never reached after the failure, still pending
	assert.Contains(t, dot, "zlater [label=\"zlater\" shape=\"record\" style=\"filled\" color=\"white\"]")
}

func TestRenderDOTDescription(t *testing.T) {
	g := NewGraph()
	_, err := g.Add(TaskSpec{
		Name:        "extract",
		Description: "pull job cards",
		Handler:     noopHandler,
	})
	assert.Nil(t, err)

	dot := RenderDOT(g)
	assert.Contains(t, dot, "extract [label=\"extract\\npull job cards\"")
}
