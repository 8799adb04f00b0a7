package core

import "github.com/KhanhD1nh/compare-gcn/constants"

// Summary aggregates an ordered result list after all workers have joined.
type Summary struct {
	Total      int                      `json:"total"`
	PerStatus  map[constants.Status]int `json:"per_status"`
	Matches    int                      `json:"matches"`
	Mismatches int                      `json:"mismatches"`
	// Accuracy is matches / (success + cached); nil when that denominator
	// is zero, never a division fault.
	Accuracy *float64 `json:"accuracy,omitempty"`
}

// Summarize computes run-level statistics over a completed batch. Match and
// mismatch counts consider only success and cached results; skips and
// errors carry no comparison verdict.
func Summarize(results []Result) Summary {
	s := Summary{
		Total:     len(results),
		PerStatus: make(map[constants.Status]int),
	}
	compared := 0
	for _, r := range results {
		s.PerStatus[r.Status]++
		if r.Status != constants.StatusSuccess && r.Status != constants.StatusCached {
			continue
		}
		compared++
		switch r.Verdict {
		case constants.VerdictMatch:
			s.Matches++
		case constants.VerdictMismatch:
			s.Mismatches++
		}
	}
	if compared > 0 {
		acc := float64(s.Matches) / float64(compared)
		s.Accuracy = &acc
	}
	return s
}
