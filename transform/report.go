package transform

import (
	"sort"

	"github.com/quarrydata/taskpipe/sources/float"
)

// Report is the final reporting table: one row per job plus run-level labour
// totals.
type Report struct {
	Rows        []ReportRow `json:"rows"`
	TotalQuoted float64     `json:"total_quoted"`
	TotalHours  float64     `json:"total_hours"`
	LabourCost  float64     `json:"labour_cost"`
	Unquoted    int         `json:"unquoted"`
}

type ReportRow struct {
	JobNo   string  `json:"job_no"`
	Address string  `json:"address"`
	Stage   string  `json:"stage"`
	Quoted  float64 `json:"quoted"`
}

// BuildReport folds matched quotes and logged labour into the reporting
// table. Rows sort by job number for stable output.
func BuildReport(matches []Match, entries []float.LoggedTime, hourlyRate float64) *Report {
	report := &Report{Rows: make([]ReportRow, 0, len(matches))}

	for _, m := range matches {
		report.Rows = append(report.Rows, ReportRow{
			JobNo:   m.JobNo,
			Address: m.Address,
			Stage:   m.Stage,
			Quoted:  m.Quoted,
		})
		report.TotalQuoted += m.Quoted
		if m.Confidence == 0 {
			report.Unquoted++
		}
	}
	sort.Slice(report.Rows, func(i, j int) bool {
		return report.Rows[i].JobNo < report.Rows[j].JobNo
	})

	for _, e := range entries {
		report.TotalHours += e.Hours
	}
	report.LabourCost = report.TotalHours * hourlyRate

	return report
}
