package descriptive

import (
	"math"
	"sort"

	"gradelens/domain/dataset"
	"gradelens/internal/analysis/numeric"
)

// keyedMean is a group key with the raw mean of its scores (NaN if none).
type keyedMean struct {
	key   string
	mean  float64
	first dataset.Record
}

func groupMeans(groups []dataset.Group) []keyedMean {
	out := make([]keyedMean, len(groups))
	for i, g := range groups {
		out[i] = keyedMean{key: g.Key, mean: numeric.Mean(dataset.Scores(g.Records)), first: g.Records[0]}
	}
	return out
}

// sortMeansDesc orders by mean descending with NaN last. Ties keep input order.
func sortMeansDesc(ms []keyedMean) {
	sort.SliceStable(ms, func(i, j int) bool {
		a, b := ms[i].mean, ms[j].mean
		if math.IsNaN(a) {
			return false
		}
		if math.IsNaN(b) {
			return true
		}
		return a > b
	})
}

func head(ms []keyedMean, n int) []keyedMean {
	if len(ms) < n {
		return ms
	}
	return ms[:n]
}

func tail(ms []keyedMean, n int) []keyedMean {
	if len(ms) < n {
		return ms
	}
	return ms[len(ms)-n:]
}

// passRate is the pass percentage of scores, zero for an empty sample.
func passRate(scores []float64, passMark float64) *float64 {
	if len(scores) == 0 {
		z := 0.0
		return &z
	}
	pass, _ := numeric.PassFail(scores, passMark)
	return numeric.Safe(numeric.Rate(pass, len(scores)))
}

func failRate(scores []float64, passMark float64) *float64 {
	if len(scores) == 0 {
		z := 0.0
		return &z
	}
	_, fail := numeric.PassFail(scores, passMark)
	return numeric.Safe(numeric.Rate(fail, len(scores)))
}

// studentCount is the number of distinct students, or the row count when
// the table has no student column.
func studentCount(s dataset.Schema, records []dataset.Record) int {
	if !s.HasStudents() {
		return len(records)
	}
	return len(dataset.Distinct(records, dataset.ByStudent))
}

// trendFromDelta classifies a change against the ±1 point band.
func trendFromDelta(delta *float64, none string) string {
	switch {
	case delta == nil:
		return none
	case *delta > 1:
		return "improving"
	case *delta < -1:
		return "declining"
	default:
		return "stable"
	}
}

func deltaOf(curr, prev *float64) *float64 {
	if curr == nil || prev == nil {
		return nil
	}
	d := numeric.Round(*curr-*prev, 2)
	return &d
}
