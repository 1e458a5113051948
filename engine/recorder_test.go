package engine

import (
	"context"
	"testing"

	"github.com/juju/errors"
	"github.com/stretchr/testify/assert"

	"github.com/quarrydata/taskpipe/store/mem"
	"github.com/quarrydata/taskpipe/types"
)

func TestRunRecorderTraceRoundTrip(t *testing.T) {
	s := mem.NewMemStore()
	recorder := NewRunRecorder(s, "run-1")

	flaky := &flakyHandler{failures: 1}
	g := NewGraph()
	_, err := g.Add(TaskSpec{Name: "wobbly", Handler: flaky.handle, Outputs: []string{"value"}})
	assert.Nil(t, err)
	mustAdd(t, g, "steady", nil)

	executor := NewExecutor(g,
		types.WithRunID("run-1"),
		types.WithObserver(recorder),
	)
	_, err = executor.Execute(context.Background())
	assert.Nil(t, err)

	records, err := LoadRun(context.Background(), s, "run-1")
	assert.Nil(t, err)
	assert.Len(t, records, 2)

	wobbly := records["wobbly"]
	assert.NotNil(t, wobbly)
	// the failed first attempt is overwritten by the recovery
	assert.Equal(t, "success", wobbly.Status)
	assert.Equal(t, 2, wobbly.Attempts)
	assert.Equal(t, []string{"wobbly.value"}, wobbly.OutputKeys)
	assert.False(t, wobbly.StartTime.IsZero())
	assert.False(t, wobbly.EndTime.Before(wobbly.StartTime))

	steady := records["steady"]
	assert.NotNil(t, steady)
	assert.Equal(t, "success", steady.Status)
	assert.Equal(t, 1, steady.Attempts)
}

func TestRunRecorderSummary(t *testing.T) {
	s := mem.NewMemStore()
	recorder := NewRunRecorder(s, "run-2")

	g := NewGraph()
	mustAdd(t, g, "fine", nil)
	_, err := g.Add(TaskSpec{
		Name: "broken",
		Handler: func(ctx context.Context, args types.Data) (types.Data, error) {
			return nil, errors.New("boom")
		},
		MaxRetries: -1,
	})
	assert.Nil(t, err)

	executor := NewExecutor(g,
		types.WithRunID("run-2"),
		types.WithObserver(recorder),
	)
	_, err = executor.Execute(context.Background())
	assert.NotNil(t, err)

	summary, err := LoadSummary(context.Background(), s, "run-2")
	assert.Nil(t, err)
	assert.Equal(t, "run-2", summary.RunID)
	assert.Equal(t, []string{"broken", "fine"}, summary.Order)
	assert.Equal(t, 0, summary.Succeeded)
	assert.Equal(t, 1, summary.Failed)
	assert.Contains(t, summary.Errors["broken"], "boom")
}

func TestRunRecorderSkipped(t *testing.T) {
	s := mem.NewMemStore()
	recorder := NewRunRecorder(s, "run-3")

	p := &chainedPipeline{t: t}
	executor := NewExecutor(p.graph(t),
		types.WithRunID("run-3"),
		types.WithObserver(recorder),
	)
	_, err := executor.ExecuteOnly(context.Background(), "transform")
	assert.Nil(t, err)

	records, err := LoadRun(context.Background(), s, "run-3")
	assert.Nil(t, err)
	assert.Len(t, records, 1)
	assert.Equal(t, "skipped", records["transform"].Status)
}

func TestLoadSummaryMissing(t *testing.T) {
	_, err := LoadSummary(context.Background(), mem.NewMemStore(), "nope")
	assert.True(t, errors.IsNotFound(err))
}

func TestRunRecorderStoreFailureIsSwallowed(t *testing.T) {
	s := mem.NewMemStoreWithErrHandler(func() error {
		return errors.New("store down")
	})
	recorder := NewRunRecorder(s, "run-4")

	p := &chainedPipeline{t: t}
	executor := NewExecutor(p.graph(t),
		types.WithRunID("run-4"),
		types.WithObserver(recorder),
	)
	// tracing failures must not fail the run itself
	summary, err := executor.Execute(context.Background())
	assert.Nil(t, err)
	assert.Equal(t, 2, summary.Succeeded)
}
