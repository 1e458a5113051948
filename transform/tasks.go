package transform

import (
	"context"

	"github.com/juju/errors"

	"github.com/quarrydata/taskpipe/engine"
	"github.com/quarrydata/taskpipe/sources/float"
	"github.com/quarrydata/taskpipe/sources/sheets"
	"github.com/quarrydata/taskpipe/sources/trello"
	"github.com/quarrydata/taskpipe/types"
)

// CleanTask normalizes the addresses on extracted job cards, publishing
// transform_clean.jobs.
func CleanTask() engine.TaskSpec {
	return engine.TaskSpec{
		Name:        "transform_clean",
		Description: "normalize job card addresses",
		Inputs:      map[string]string{"jobs": "extract_trello.jobs"},
		Outputs:     []string{"jobs"},
		Handler: func(ctx context.Context, args types.Data) (types.Data, error) {
			var jobs []trello.JobCard
			if err := args.GetStruct("jobs", &jobs); err != nil {
				return nil, errors.Trace(err)
			}
			for i := range jobs {
				jobs[i].Address = CleanAddress(jobs[i].Address)
			}
			return types.Data{"jobs": jobs}, nil
		},
	}
}

// MatchTask joins cleaned job cards to sheet quotes, publishing
// transform_match.matches.
func MatchTask() engine.TaskSpec {
	return engine.TaskSpec{
		Name:        "transform_match",
		Description: "match job cards to quoted amounts",
		Inputs: map[string]string{
			"jobs":   "transform_clean.jobs",
			"quotes": "extract_sheets.quotes",
		},
		Outputs: []string{"matches"},
		Handler: func(ctx context.Context, args types.Data) (types.Data, error) {
			var jobs []trello.JobCard
			if err := args.GetStruct("jobs", &jobs); err != nil {
				return nil, errors.Trace(err)
			}
			var quotes []sheets.Quote
			if err := args.GetStruct("quotes", &quotes); err != nil {
				return nil, errors.Trace(err)
			}
			return types.Data{"matches": MatchQuotes(jobs, quotes)}, nil
		},
	}
}

// ReportTask folds matches and labour hours into the reporting table,
// publishing report.table. The hourly rate comes from the shared run
// configuration bound to the reserved config parameter.
func ReportTask(defaultRate float64) engine.TaskSpec {
	return engine.TaskSpec{
		Name:        "report",
		Description: "build the job reporting table",
		Inputs: map[string]string{
			"matches": "transform_match.matches",
			"entries": "extract_float.entries",
		},
		Outputs: []string{"table"},
		Handler: func(ctx context.Context, args types.Data) (types.Data, error) {
			var matches []Match
			if err := args.GetStruct("matches", &matches); err != nil {
				return nil, errors.Trace(err)
			}
			var entries []float.LoggedTime
			if err := args.GetStruct("entries", &entries); err != nil {
				return nil, errors.Trace(err)
			}

			rate := defaultRate
			if cfg, exists := args.Get(types.ConfigParam); exists {
				if data, ok := cfg.(types.Data); ok {
					var sheetsCfg struct {
						HourlyRate float64 `json:"HourlyRate"`
					}
					if err := data.GetStruct("sheets", &sheetsCfg); err == nil && sheetsCfg.HourlyRate > 0 {
						rate = sheetsCfg.HourlyRate
					}
				}
			}

			return types.Data{"table": BuildReport(matches, entries, rate)}, nil
		},
	}
}
