package numeric

import (
	"math"
	"sort"

	"github.com/montanaflynn/stats"
)

// Mean returns the arithmetic mean, NaN for an empty sample.
func Mean(data []float64) float64 {
	if len(data) == 0 {
		return math.NaN()
	}
	m, err := stats.Mean(data)
	if err != nil {
		return math.NaN()
	}
	return m
}

// Median returns the sample median, NaN for an empty sample.
func Median(data []float64) float64 {
	if len(data) == 0 {
		return math.NaN()
	}
	m, err := stats.Median(data)
	if err != nil {
		return math.NaN()
	}
	return m
}

// StdDev returns the sample standard deviation (n-1 denominator). Fewer
// than two values yield NaN.
func StdDev(data []float64) float64 {
	if len(data) < 2 {
		return math.NaN()
	}
	sd, err := stats.StandardDeviationSample(data)
	if err != nil {
		return math.NaN()
	}
	return sd
}

// Variance returns the sample variance (n-1 denominator).
func Variance(data []float64) float64 {
	if len(data) < 2 {
		return math.NaN()
	}
	v, err := stats.SampleVariance(data)
	if err != nil {
		return math.NaN()
	}
	return v
}

func Min(data []float64) float64 {
	m, err := stats.Min(data)
	if err != nil {
		return math.NaN()
	}
	return m
}

func Max(data []float64) float64 {
	m, err := stats.Max(data)
	if err != nil {
		return math.NaN()
	}
	return m
}

// Quantile uses linear interpolation between closest ranks, position
// (n-1)*q on the sorted sample.
func Quantile(data []float64, q float64) float64 {
	if len(data) == 0 || q < 0 || q > 1 {
		return math.NaN()
	}
	sorted := append([]float64(nil), data...)
	sort.Float64s(sorted)
	h := float64(len(sorted)-1) * q
	lo := math.Floor(h)
	i := int(lo)
	if i+1 >= len(sorted) {
		return sorted[len(sorted)-1]
	}
	return sorted[i] + (h-lo)*(sorted[i+1]-sorted[i])
}

// PassFail partitions scores at passMark; score >= passMark passes.
func PassFail(data []float64, passMark float64) (pass, fail int) {
	for _, v := range data {
		if v >= passMark {
			pass++
		} else {
			fail++
		}
	}
	return pass, fail
}

// Rate returns count/total*100, or 0 when total is zero.
func Rate(count, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(count) / float64(total) * 100
}

// Histogram counts values into [edges[i], edges[i+1]) with the last bin
// closed on the right. Values outside the edges are ignored.
func Histogram(data []float64, edges []float64) []int {
	if len(edges) < 2 {
		return nil
	}
	counts := make([]int, len(edges)-1)
	last := len(edges) - 1
	for _, v := range data {
		if v < edges[0] || v > edges[last] {
			continue
		}
		if v == edges[last] {
			counts[last-1]++
			continue
		}
		i := sort.SearchFloat64s(edges, v)
		// SearchFloat64s returns the first edge >= v
		if i < len(edges) && edges[i] == v {
			counts[i]++
		} else {
			counts[i-1]++
		}
	}
	return counts
}
