package types

import (
	"context"
)

type StatusType int32

const (
	None    StatusType = 0
	Pending StatusType = 1
	Running StatusType = 2
	Success StatusType = 3
	Failed  StatusType = 4
	Skipped StatusType = 5
)

func (s StatusType) String() string {
	switch s {
	case Pending:
		return "pending"
	case Running:
		return "running"
	case Success:
		return "success"
	case Failed:
		return "failed"
	case Skipped:
		return "skipped"
	}
	return "none"
}

// ConfigParam is the reserved handler parameter name. When a run carries a
// shared configuration, the executor binds it under this key in the handler
// arguments. Tasks must not declare an input under this name.
const ConfigParam = "config"

// Handler is the callable contract for a task: it receives its resolved
// arguments as a Data map and returns its outputs as a Data map keyed by the
// task's declared output names.
type Handler func(ctx context.Context, args Data) (Data, error)

// SingleOutput adapts a legacy single-value callable to the Handler contract,
// binding the returned value under the given output key.
func SingleOutput(output string, fn func(ctx context.Context, args Data) (any, error)) Handler {
	return func(ctx context.Context, args Data) (Data, error) {
		v, err := fn(ctx, args)
		if err != nil {
			return nil, err
		}
		return Data{output: v}, nil
	}
}
