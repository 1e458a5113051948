package engine

import (
	"context"
	"time"

	"github.com/juju/errors"
	log "github.com/sirupsen/logrus"

	"github.com/quarrydata/taskpipe/store"
	"github.com/quarrydata/taskpipe/types"
	"github.com/quarrydata/taskpipe/utils"
)

const (
	TraceRecordPath = "/trace/"
	RunSummaryPath  = "/summary/"
)

// TaskTraceRecord is the persisted trace of one task within one run. Task
// outputs themselves are never persisted by the engine; only their keys.
type TaskTraceRecord struct {
	Task       string    `json:",omitempty"`
	Status     string    `json:",omitempty"`
	Attempts   int       `json:",omitempty"`
	StartTime  time.Time `json:",omitempty"`
	EndTime    time.Time `json:",omitempty"`
	Error      string    `json:",omitempty"`
	OutputKeys []string  `json:",omitempty"`
}

// RunSummaryRecord is the persisted form of a run summary.
type RunSummaryRecord struct {
	RunID     string            `json:",omitempty"`
	Order     []string          `json:",omitempty"`
	Succeeded int               `json:",omitempty"`
	Failed    int               `json:",omitempty"`
	Skipped   int               `json:",omitempty"`
	Errors    map[string]string `json:",omitempty"`
	StartTime time.Time         `json:",omitempty"`
	EndTime   time.Time         `json:",omitempty"`
}

func traceRecordPath(runID string) string {
	return TraceRecordPath + runID
}

var _ types.RunObserver = &RunRecorder{}

// RunRecorder is a RunObserver persisting per-task trace records and the run
// summary through a Store. Store failures are logged, never raised; tracing
// must not fail a run.
type RunRecorder struct {
	store store.Store
	runID string

	starts map[string]time.Time
}

func NewRunRecorder(s store.Store, runID string) *RunRecorder {
	return &RunRecorder{
		store:  s,
		runID:  runID,
		starts: make(map[string]time.Time),
	}
}

func (r *RunRecorder) OnTaskStart(task string, attempt int) {
	if attempt == 0 {
		r.starts[task] = time.Now()
	}
}

func (r *RunRecorder) OnTaskSuccess(task string, attempt int, outputs []string) {
	r.save(&TaskTraceRecord{
		Task:       task,
		Status:     types.Success.String(),
		Attempts:   attempt + 1,
		StartTime:  r.starts[task],
		EndTime:    time.Now(),
		OutputKeys: outputs,
	})
}

func (r *RunRecorder) OnTaskFailure(task string, attempt int, err error) {
	r.save(&TaskTraceRecord{
		Task:      task,
		Status:    types.Failed.String(),
		Attempts:  attempt + 1,
		StartTime: r.starts[task],
		EndTime:   time.Now(),
		Error:     err.Error(),
	})
}

func (r *RunRecorder) OnTaskSkipped(task string, missing []string) {
	r.save(&TaskTraceRecord{
		Task:   task,
		Status: types.Skipped.String(),
	})
}

func (r *RunRecorder) OnUnresolvedParam(task, param string) {
	log.Debugf("%s task %s: parameter %s left unbound", r.runID, task, param)
}

func (r *RunRecorder) OnRunSummary(summary *types.RunSummary) {
	record := &RunSummaryRecord{
		RunID:     summary.RunID,
		Order:     summary.Order,
		Succeeded: summary.Succeeded,
		Failed:    summary.Failed,
		Skipped:   summary.Skipped,
		StartTime: summary.StartTime,
		EndTime:   summary.EndTime,
	}
	if len(summary.Errors) > 0 {
		record.Errors = make(map[string]string, len(summary.Errors))
		for task, err := range summary.Errors {
			record.Errors[task] = err.Error()
		}
	}

	b, err := utils.Serialize(record)
	if err != nil {
		log.Errorf("%s failed to serialize run summary: %v", r.runID, err)
		return
	}
	if err := r.store.Set(context.Background(), RunSummaryPath, r.runID, b); err != nil {
		log.Errorf("%s failed to save run summary: %v", r.runID, err)
	}
}

func (r *RunRecorder) save(record *TaskTraceRecord) {
	b, err := utils.Serialize(record)
	if err != nil {
		log.Errorf("%s failed to serialize trace record: %v", r.runID, err)
		return
	}
	if err := r.store.Set(context.Background(), traceRecordPath(r.runID), record.Task, b); err != nil {
		log.Errorf("%s failed to save trace record for %s: %v", r.runID, record.Task, err)
	}
}

// LoadRun reads back the trace records of one run, keyed by task name.
func LoadRun(ctx context.Context, s store.Store, runID string) (map[string]*TaskTraceRecord, error) {
	records := make(map[string]*TaskTraceRecord)
	recordPath := traceRecordPath(runID)
	err := s.List(ctx, recordPath, func(task string) bool {
		b, err := s.Get(ctx, recordPath, task)
		if err != nil {
			log.Errorf("load %s %s from store failed: %v", recordPath, task, err)
			return true
		}
		record := &TaskTraceRecord{}
		if err := utils.Unserialize(b, record); err != nil {
			log.Errorf("unserialize %s %s failed: %v", recordPath, task, err)
			return true
		}
		records[task] = record
		return true
	})
	return records, errors.Trace(err)
}

// LoadSummary reads back the persisted summary of one run.
func LoadSummary(ctx context.Context, s store.Store, runID string) (*RunSummaryRecord, error) {
	b, err := s.Get(ctx, RunSummaryPath, runID)
	if err != nil {
		return nil, errors.Trace(err)
	}
	if b == nil {
		return nil, errors.NotFoundf("run summary: %s", runID)
	}
	record := &RunSummaryRecord{}
	if err := utils.Unserialize(b, record); err != nil {
		return nil, errors.Trace(err)
	}
	return record, nil
}
