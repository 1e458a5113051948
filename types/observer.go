package types

import "time"

// RunObserver receives task transition callbacks from the executor. The core
// performs no I/O of its own; loggers, recorders and UIs attach here.
type RunObserver interface {
	OnTaskStart(task string, attempt int)
	OnTaskSuccess(task string, attempt int, outputs []string)
	OnTaskFailure(task string, attempt int, err error)
	OnTaskSkipped(task string, missing []string)
	/**
	 * OnUnresolvedParam fires when a declared input binds neither to the
	 * reserved config parameter nor to a result-store key with a producer
	 * prefix. Tolerated wiring gaps are surfaced here instead of failing
	 * the run.
	 */
	OnUnresolvedParam(task, param string)
	OnRunSummary(summary *RunSummary)
}

// RunSummary aggregates one execution run.
type RunSummary struct {
	RunID     string
	Order     []string
	Succeeded int
	Failed    int
	Skipped   int
	Errors    map[string]error
	StartTime time.Time
	EndTime   time.Time
}

var _ RunObserver = NopObserver{}

type NopObserver struct{}

func (NopObserver) OnTaskStart(string, int)             {}
func (NopObserver) OnTaskSuccess(string, int, []string) {}
func (NopObserver) OnTaskFailure(string, int, error)    {}
func (NopObserver) OnTaskSkipped(string, []string)      {}
func (NopObserver) OnUnresolvedParam(string, string)    {}
func (NopObserver) OnRunSummary(*RunSummary)            {}

// CombineObservers fans callbacks out to each observer in order.
func CombineObservers(observers ...RunObserver) RunObserver {
	return multiObserver(observers)
}

type multiObserver []RunObserver

func (m multiObserver) OnTaskStart(task string, attempt int) {
	for _, o := range m {
		o.OnTaskStart(task, attempt)
	}
}

func (m multiObserver) OnTaskSuccess(task string, attempt int, outputs []string) {
	for _, o := range m {
		o.OnTaskSuccess(task, attempt, outputs)
	}
}

func (m multiObserver) OnTaskFailure(task string, attempt int, err error) {
	for _, o := range m {
		o.OnTaskFailure(task, attempt, err)
	}
}

func (m multiObserver) OnTaskSkipped(task string, missing []string) {
	for _, o := range m {
		o.OnTaskSkipped(task, missing)
	}
}

func (m multiObserver) OnUnresolvedParam(task, param string) {
	for _, o := range m {
		o.OnUnresolvedParam(task, param)
	}
}

func (m multiObserver) OnRunSummary(summary *RunSummary) {
	for _, o := range m {
		o.OnRunSummary(summary)
	}
}
