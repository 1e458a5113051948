package pipeline

import (
	"github.com/juju/errors"

	"github.com/quarrydata/taskpipe/config"
	"github.com/quarrydata/taskpipe/engine"
	"github.com/quarrydata/taskpipe/sources/float"
	"github.com/quarrydata/taskpipe/sources/sheets"
	"github.com/quarrydata/taskpipe/sources/trello"
	"github.com/quarrydata/taskpipe/transform"
)

// Default assembles the standard reporting pipeline: three extracts feeding
// the clean and match transforms, folded into the report table.
//
//	extract_trello ──> transform_clean ──> transform_match ──> report
//	extract_sheets ─────────────────────────────┘                │
//	extract_float ───────────────────────────────────────────────┘
func Default(cfg *config.Config, start, end string) (*engine.Graph, error) {
	graph := engine.NewGraph()

	specs := []engine.TaskSpec{
		trello.ExtractTask(trello.NewClient(cfg.Trello), cfg.Trello.Boards),
		float.ExtractTask(float.NewClient(cfg.Float), start, end),
		sheets.ExtractTask(cfg.Sheets.ExportDir),
		transform.CleanTask(),
		transform.MatchTask(),
		transform.ReportTask(cfg.Sheets.HourlyRate),
	}
	for _, spec := range specs {
		if _, err := graph.Add(spec); err != nil {
			return nil, errors.Trace(err)
		}
	}

	if err := graph.Validate(); err != nil {
		return nil, errors.Trace(err)
	}
	return graph, nil
}

// DefaultRegistry registers the built-in handlers so definition files can
// rewire the standard tasks.
func DefaultRegistry(cfg *config.Config, start, end string) (*Registry, error) {
	reg := NewRegistry()

	specs := []engine.TaskSpec{
		trello.ExtractTask(trello.NewClient(cfg.Trello), cfg.Trello.Boards),
		float.ExtractTask(float.NewClient(cfg.Float), start, end),
		sheets.ExtractTask(cfg.Sheets.ExportDir),
		transform.CleanTask(),
		transform.MatchTask(),
		transform.ReportTask(cfg.Sheets.HourlyRate),
	}
	for _, spec := range specs {
		if err := reg.RegisterSpec(spec); err != nil {
			return nil, errors.Trace(err)
		}
	}
	return reg, nil
}
