package types

import (
	"fmt"
	"sort"
	"strings"
)

var (
	_ error = &DuplicateTaskError{}
	_ error = &CycleError{}
	_ error = &MissingDependencyError{}
	_ error = &MissingInputError{}
	_ error = &TaskExecutionError{}
	_ error = &UnknownTaskError{}
	_ error = &RunError{}
)

// DuplicateTaskError reports an attempt to register a second task under a
// name already present in the graph.
type DuplicateTaskError struct {
	Task string
}

func (e *DuplicateTaskError) Error() string {
	return fmt.Sprintf("task already registered: %s", e.Task)
}

// CycleError reports a dependency cycle. Path holds the offending tasks in
// walk order when the cycle was found by the validator; it may be empty when
// raised by the sorter's defensive re-check.
type CycleError struct {
	Path []string
}

func (e *CycleError) Error() string {
	if len(e.Path) == 0 {
		return "dependency cycle detected"
	}
	return fmt.Sprintf("dependency cycle detected: %s", strings.Join(e.Path, " -> "))
}

// MissingDependencyError collects every dependency name that does not exist
// in the graph, keyed by the task that declared it. All missing names across
// all tasks are reported in one error.
type MissingDependencyError struct {
	Missing map[string][]string
}

func (e *MissingDependencyError) Error() string {
	tasks := make([]string, 0, len(e.Missing))
	for task := range e.Missing {
		tasks = append(tasks, task)
	}
	sort.Strings(tasks)

	parts := make([]string, 0, len(tasks))
	for _, task := range tasks {
		parts = append(parts, fmt.Sprintf("%s -> [%s]", task, strings.Join(e.Missing[task], ", ")))
	}
	return "missing dependencies: " + strings.Join(parts, "; ")
}

// Names returns the sorted set of missing dependency names.
func (e *MissingDependencyError) Names() []string {
	seen := make(map[string]bool)
	names := make([]string, 0)
	for _, deps := range e.Missing {
		for _, dep := range deps {
			if !seen[dep] {
				seen[dep] = true
				names = append(names, dep)
			}
		}
	}
	sort.Strings(names)
	return names
}

// MissingInputError reports a declared input key absent from the result
// store at execution time.
type MissingInputError struct {
	Task  string
	Param string
	Key   string
}

func (e *MissingInputError) Error() string {
	return fmt.Sprintf("task %s: input %s=%s not found in result store", e.Task, e.Param, e.Key)
}

// TaskExecutionError reports a handler that kept failing after its retries
// were exhausted.
type TaskExecutionError struct {
	Task     string
	Attempts int
	Cause    error
}

func (e *TaskExecutionError) Error() string {
	return fmt.Sprintf("task %s failed after %d attempts: %v", e.Task, e.Attempts, e.Cause)
}

func (e *TaskExecutionError) Unwrap() error {
	return e.Cause
}

// UnknownTaskError reports a lookup on a task name the graph does not hold.
type UnknownTaskError struct {
	Task string
}

func (e *UnknownTaskError) Error() string {
	return fmt.Sprintf("unknown task: %s", e.Task)
}

// RunError is the aggregate failure a run ends with, naming every task that
// failed. Under the fail-fast policy that is always exactly one task.
type RunError struct {
	Failed []string
	Causes map[string]error
}

func (e *RunError) Error() string {
	parts := make([]string, 0, len(e.Failed))
	for _, task := range e.Failed {
		parts = append(parts, fmt.Sprintf("%s: %v", task, e.Causes[task]))
	}
	return "run failed: " + strings.Join(parts, "; ")
}

func (e *RunError) Unwrap() error {
	if len(e.Failed) == 1 {
		return e.Causes[e.Failed[0]]
	}
	return nil
}
