package types

import (
	"github.com/mcuadros/go-defaults"
)

func NewRunOptions() *RunOptions {
	opts := &RunOptions{}
	defaults.SetDefaults(opts)
	opts.Observer = NopObserver{}
	return opts
}

type RunOptions struct {
	/**
	 * default: -1
	 * when zero or positive, overrides every task's own retry budget
	 * for this run. Negative leaves the per-task budgets alone.
	 */
	MaxRetries int `default:"-1"`
	/**
	 * shared run configuration, bound to the reserved `config` handler
	 * parameter. Tasks may read it freely but must not use it as an
	 * inter-task channel; the result store is the only data path.
	 */
	Config Data
	/**
	 * receives task transition callbacks. Defaults to NopObserver.
	 */
	Observer RunObserver
	/**
	 * identity of a run; generated per execution when left empty.
	 */
	RunID string
}

type RunOption func(*RunOptions)

func WithMaxRetries(n int) RunOption {
	return func(opts *RunOptions) {
		opts.MaxRetries = n
	}
}

func WithConfig(config Data) RunOption {
	return func(opts *RunOptions) {
		opts.Config = config
	}
}

func WithObserver(observer RunObserver) RunOption {
	return func(opts *RunOptions) {
		opts.Observer = observer
	}
}

func WithRunID(runID string) RunOption {
	return func(opts *RunOptions) {
		opts.RunID = runID
	}
}
