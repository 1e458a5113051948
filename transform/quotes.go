package transform

import (
	"strings"

	"github.com/quarrydata/taskpipe/sources/sheets"
	"github.com/quarrydata/taskpipe/sources/trello"
)

// Match pairs a job card with its quoted amount.
type Match struct {
	JobNo      string  `json:"job_no"`
	Address    string  `json:"address"`
	Stage      string  `json:"stage"`
	Quoted     float64 `json:"quoted"`
	Confidence float64 `json:"confidence"`
}

const addressMatchThreshold = 0.6

// MatchQuotes joins job cards to sheet quotes: exact job-number match first,
// then address-token overlap. Jobs without any plausible quote are returned
// with a zero amount and zero confidence so the report can flag them.
func MatchQuotes(jobs []trello.JobCard, quotes []sheets.Quote) []Match {
	byJobNo := make(map[string]sheets.Quote, len(quotes))
	for _, q := range quotes {
		byJobNo[strings.ToUpper(strings.TrimSpace(q.JobNo))] = q
	}

	matches := make([]Match, 0, len(jobs))
	for _, job := range jobs {
		m := Match{
			JobNo:   job.JobNo,
			Address: CleanAddress(job.Address),
			Stage:   job.Stage,
		}

		if q, ok := byJobNo[strings.ToUpper(job.JobNo)]; ok {
			m.Quoted = q.Amount
			m.Confidence = 1
		} else if q, score := bestAddressMatch(job.Address, quotes); score >= addressMatchThreshold {
			m.Quoted = q.Amount
			m.Confidence = score
		}

		matches = append(matches, m)
	}
	return matches
}

func bestAddressMatch(address string, quotes []sheets.Quote) (sheets.Quote, float64) {
	var best sheets.Quote
	bestScore := 0.0
	for _, q := range quotes {
		if score := tokenOverlap(address, q.Address); score > bestScore {
			best, bestScore = q, score
		}
	}
	return best, bestScore
}

// tokenOverlap scores two addresses by shared tokens over the smaller token
// set, after normalization through MatchKey.
func tokenOverlap(a, b string) float64 {
	ta := strings.Fields(MatchKey(a))
	tb := strings.Fields(MatchKey(b))
	if len(ta) == 0 || len(tb) == 0 {
		return 0
	}

	set := make(map[string]bool, len(ta))
	for _, tok := range ta {
		set[tok] = true
	}
	shared := 0
	for _, tok := range tb {
		if set[tok] {
			shared++
		}
	}

	smaller := len(ta)
	if len(tb) < smaller {
		smaller = len(tb)
	}
	return float64(shared) / float64(smaller)
}
