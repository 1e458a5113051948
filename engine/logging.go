package engine

import (
	log "github.com/sirupsen/logrus"

	"github.com/quarrydata/taskpipe/types"
)

var _ types.RunObserver = &LogObserver{}

// LogObserver renders task transitions through logrus. The engine itself
// never logs; attach this from the CLI or any other front end.
type LogObserver struct {
	logger *log.Logger
}

func NewLogObserver(logger *log.Logger) *LogObserver {
	if logger == nil {
		logger = log.StandardLogger()
	}
	return &LogObserver{logger: logger}
}

func (o *LogObserver) OnTaskStart(task string, attempt int) {
	if attempt == 0 {
		o.logger.Infof("task %s started", task)
		return
	}
	o.logger.Warnf("task %s retrying (attempt %d)", task, attempt)
}

func (o *LogObserver) OnTaskSuccess(task string, attempt int, outputs []string) {
	o.logger.WithField("outputs", outputs).Infof("task %s succeeded", task)
}

func (o *LogObserver) OnTaskFailure(task string, attempt int, err error) {
	o.logger.Errorf("task %s failed on attempt %d: %v", task, attempt, err)
}

func (o *LogObserver) OnTaskSkipped(task string, missing []string) {
	o.logger.Warnf("task %s skipped, unsatisfied dependencies: %v", task, missing)
}

func (o *LogObserver) OnUnresolvedParam(task, param string) {
	o.logger.Debugf("task %s: parameter %s left unbound", task, param)
}

func (o *LogObserver) OnRunSummary(summary *types.RunSummary) {
	o.logger.WithFields(log.Fields{
		"run":       summary.RunID,
		"succeeded": summary.Succeeded,
		"failed":    summary.Failed,
		"skipped":   summary.Skipped,
		"elapsed":   summary.EndTime.Sub(summary.StartTime).String(),
	}).Info("run finished")
	for task, err := range summary.Errors {
		o.logger.Errorf("  %s: %v", task, err)
	}
}
