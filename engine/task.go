package engine

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/juju/errors"
	"github.com/mcuadros/go-defaults"

	"github.com/quarrydata/taskpipe/types"
	"github.com/quarrydata/taskpipe/utils"
)

// ResultKey formats the result-store key a task output is published under.
func ResultKey(task, output string) string {
	return fmt.Sprintf("%s.%s", task, output)
}

// TaskSpec declares one schedulable unit. Inputs maps handler parameter
// names to result-store keys of the form "producerTask.outputName"; the
// producer prefix of each value is the task's dependency. An empty source
// key declares a parameter that stays unbound, letting the handler fall
// back to its own default.
type TaskSpec struct {
	Name        string
	Description string
	Handler     types.Handler
	Inputs      map[string]string
	Outputs     []string
	/**
	 * default: 2
	 * bounded local retries on handler failure. Set to a negative
	 * value for no retries at all; zero takes the default.
	 */
	MaxRetries int `default:"2"`
}

type Task struct {
	name        string
	description string
	handler     types.Handler
	inputs      map[string]string
	outputs     []string

	status     types.StatusType
	result     types.Data
	err        error
	retries    int
	maxRetries int
}

func NewTask(spec TaskSpec) (*Task, error) {
	defaults.SetDefaults(&spec)

	if spec.Name == "" {
		return nil, errors.BadRequestf("task name is empty")
	}
	if strings.Contains(spec.Name, ".") {
		return nil, errors.BadRequestf("task name %q contains a dot; dots separate task and output in result keys", spec.Name)
	}
	if spec.Handler == nil {
		return nil, errors.BadRequestf("task %s: handler is nil", spec.Name)
	}
	if _, exists := spec.Inputs[types.ConfigParam]; exists {
		return nil, errors.BadRequestf("task %s: parameter %q is reserved for the shared configuration", spec.Name, types.ConfigParam)
	}

	maxRetries := spec.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}

	t := &Task{
		name:        spec.Name,
		description: spec.Description,
		handler:     spec.Handler,
		inputs:      utils.CloneMap(spec.Inputs),
		outputs:     append([]string(nil), spec.Outputs...),
		status:      types.Pending,
		maxRetries:  maxRetries,
	}
	return t, nil
}

func (t *Task) Name() string             { return t.name }
func (t *Task) Description() string      { return t.description }
func (t *Task) Status() types.StatusType { return t.status }
func (t *Task) Err() error               { return t.err }
func (t *Task) Retries() int             { return t.retries }
func (t *Task) MaxRetries() int          { return t.maxRetries }
func (t *Task) Outputs() []string        { return append([]string(nil), t.outputs...) }
func (t *Task) Inputs() map[string]string {
	return utils.CloneMap(t.inputs)
}

// dependencyOf extracts the producer task name from an input source key.
func dependencyOf(sourceKey string) string {
	if i := strings.Index(sourceKey, "."); i >= 0 {
		return sourceKey[:i]
	}
	return sourceKey
}

// Dependencies returns the sorted set of task names this task consumes from.
func (t *Task) Dependencies() []string {
	deps := make([]string, 0, len(t.inputs))
	for _, key := range t.inputs {
		if key == "" {
			continue
		}
		deps = append(deps, dependencyOf(key))
	}
	sort.Strings(deps)
	return utils.UniqueSlice(deps)
}

// CanExecute reports whether every dependency is in the completed set.
func (t *Task) CanExecute(completed map[string]bool) bool {
	for _, dep := range t.Dependencies() {
		if !completed[dep] {
			return false
		}
	}
	return true
}

func (t *Task) missingDeps(completed map[string]bool) []string {
	missing := make([]string, 0)
	for _, dep := range t.Dependencies() {
		if !completed[dep] {
			missing = append(missing, dep)
		}
	}
	return missing
}

// Execute runs the handler with bounded local retry and returns the formatted
// outputs, keyed "{task}.{output}". A task already in Success state returns
// its cached outputs without re-invoking the handler.
func (t *Task) Execute(ctx context.Context, results *ResultStore, config types.Data, obs types.RunObserver) (types.Data, error) {
	if t.status == types.Success {
		return t.result, nil
	}

	for attempt := 0; ; attempt++ {
		obs.OnTaskStart(t.name, attempt)
		t.status = types.Running

		args, err := t.bindArgs(results, config, obs)
		if err != nil {
			// wiring errors are deterministic; retrying cannot help
			t.status = types.Failed
			t.err = err
			obs.OnTaskFailure(t.name, attempt, err)
			return nil, errors.Trace(err)
		}

		out, err := t.invoke(ctx, args)
		if err == nil {
			out, err = t.formatOutputs(out)
		}
		if err == nil {
			t.status = types.Success
			t.result = out
			t.err = nil
			obs.OnTaskSuccess(t.name, attempt, utils.SortedKeys(out))
			return out, nil
		}

		obs.OnTaskFailure(t.name, attempt, err)
		if t.retries++; t.retries > t.maxRetries {
			t.status = types.Failed
			t.err = err
			return nil, &types.TaskExecutionError{Task: t.name, Attempts: t.retries, Cause: err}
		}
	}
}

func (t *Task) bindArgs(results *ResultStore, config types.Data, obs types.RunObserver) (types.Data, error) {
	args := make(types.Data, len(t.inputs)+1)
	if config != nil {
		args.Set(types.ConfigParam, config)
	}
	for _, param := range utils.SortedKeys(t.inputs) {
		key := t.inputs[param]
		if key == "" {
			obs.OnUnresolvedParam(t.name, param)
			continue
		}
		v, exists := results.Get(key)
		if !exists {
			return nil, &types.MissingInputError{Task: t.name, Param: param, Key: key}
		}
		args.Set(param, v)
	}
	return args, nil
}

func (t *Task) invoke(ctx context.Context, args types.Data) (out types.Data, retErr error) {
	defer func() {
		if r := recover(); r != nil {
			retErr = errors.Errorf("panic in task %s: %v", t.name, r)
		}
	}()
	return t.handler(ctx, args)
}

func (t *Task) formatOutputs(out types.Data) (types.Data, error) {
	if len(t.outputs) == 0 {
		// no declared outputs: the whole payload publishes under the bare task name
		return types.Data{t.name: out}, nil
	}
	formatted := make(types.Data, len(t.outputs))
	for _, output := range t.outputs {
		v, exists := out.Get(output)
		if !exists {
			return nil, errors.NotFoundf("task %s: handler did not produce declared output %q", t.name, output)
		}
		formatted[ResultKey(t.name, output)] = v
	}
	return formatted, nil
}

func (t *Task) markSkipped() {
	t.status = types.Skipped
}

func (t *Task) reset() {
	t.status = types.Pending
	t.result = nil
	t.err = nil
	t.retries = 0
}
