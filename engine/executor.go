package engine

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/juju/errors"

	"github.com/quarrydata/taskpipe/types"
)

// Executor drives one end-to-end run over a graph: validate, order, execute
// sequentially with per-task retry, merge outputs into the result store, and
// report a summary. Strictly single-threaded; independent branches are not
// run in parallel.
type Executor struct {
	graph   *Graph
	opts    *types.RunOptions
	results *ResultStore
	order   []string
}

func NewExecutor(graph *Graph, opts ...types.RunOption) *Executor {
	options := types.NewRunOptions()
	for _, opt := range opts {
		opt(options)
	}
	return &Executor{
		graph:   graph,
		opts:    options,
		results: NewResultStore(),
	}
}

func (e *Executor) Graph() *Graph         { return e.graph }
func (e *Executor) Results() *ResultStore { return e.results }
func (e *Executor) Order() []string       { return append([]string(nil), e.order...) }

// Execute runs the whole graph, or, when targets are given, the minimal
// closure needed for them: the targets plus all transitive dependencies,
// in an order filtered from the full topological order.
func (e *Executor) Execute(ctx context.Context, targets ...string) (*types.RunSummary, error) {
	if err := e.graph.Validate(); err != nil {
		return nil, errors.Trace(err)
	}
	order, err := e.graph.orderFor(targets)
	if err != nil {
		return nil, errors.Trace(err)
	}
	return e.run(ctx, order)
}

// ExecuteOnly runs exactly the named tasks, in topological relative order,
// without pulling in their dependencies. A task whose dependency has not
// succeeded within this run is marked Skipped and the run continues; useful
// when upstream outputs are materialized outside the engine.
func (e *Executor) ExecuteOnly(ctx context.Context, targets ...string) (*types.RunSummary, error) {
	if err := e.graph.Validate(); err != nil {
		return nil, errors.Trace(err)
	}
	full, err := e.graph.TopologicalOrder()
	if err != nil {
		return nil, errors.Trace(err)
	}
	requested := make(map[string]bool, len(targets))
	for _, target := range targets {
		if _, exists := e.graph.Task(target); !exists {
			return nil, &types.UnknownTaskError{Task: target}
		}
		requested[target] = true
	}
	order := make([]string, 0, len(requested))
	for _, name := range full {
		if requested[name] {
			order = append(order, name)
		}
	}
	return e.run(ctx, order)
}

func (e *Executor) run(ctx context.Context, order []string) (*types.RunSummary, error) {
	e.order = order
	obs := e.opts.Observer

	summary := &types.RunSummary{
		RunID:     e.runID(),
		Order:     order,
		Errors:    make(map[string]error),
		StartTime: time.Now(),
	}

	succeeded := make(map[string]bool, len(order))
	failed := make([]string, 0, 1)

	for _, name := range order {
		t, _ := e.graph.Task(name)
		if e.opts.MaxRetries >= 0 {
			t.maxRetries = e.opts.MaxRetries
		}

		if !t.CanExecute(succeeded) {
			t.markSkipped()
			obs.OnTaskSkipped(name, t.missingDeps(succeeded))
			summary.Skipped++
			continue
		}

		outputs, err := t.Execute(ctx, e.results, e.opts.Config, obs)
		if err != nil {
			// fail fast: nothing after the first unrecovered failure runs
			summary.Failed++
			summary.Errors[name] = err
			failed = append(failed, name)
			break
		}

		e.results.Merge(outputs)
		succeeded[name] = true
		summary.Succeeded++
	}

	summary.EndTime = time.Now()
	obs.OnRunSummary(summary)

	if len(failed) > 0 {
		return summary, &types.RunError{Failed: failed, Causes: summary.Errors}
	}
	return summary, nil
}

func (e *Executor) runID() string {
	if e.opts.RunID != "" {
		return e.opts.RunID
	}
	return uuid.NewString()
}

// Reset returns every task to Pending, clearing results, errors and retry
// counters, and empties the result store and execution order so the same
// graph can be rerun without reconstruction.
func (e *Executor) Reset() {
	for _, name := range e.graph.Names() {
		t, _ := e.graph.Task(name)
		t.reset()
	}
	e.results.clear()
	e.order = nil
}

// Status returns the current status of the named task.
func (e *Executor) Status(name string) (types.StatusType, error) {
	t, exists := e.graph.Task(name)
	if !exists {
		return types.None, &types.UnknownTaskError{Task: name}
	}
	return t.Status(), nil
}
