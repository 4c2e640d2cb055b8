package numeric

import (
	"math"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// TTestResult is a two-sample Welch t-test outcome.
type TTestResult struct {
	T  float64
	P  float64
	DF float64
}

// WelchTTest compares two independent samples without assuming equal
// variances. Zero standard error yields T=±Inf, P=0 when the means differ
// and NaN for both when they do not.
func WelchTTest(a, b []float64) TTestResult {
	n1, n2 := float64(len(a)), float64(len(b))
	if n1 < 2 || n2 < 2 {
		return TTestResult{T: math.NaN(), P: math.NaN(), DF: math.NaN()}
	}
	m1, m2 := Mean(a), Mean(b)
	v1, v2 := Variance(a), Variance(b)

	se2 := v1/n1 + v2/n2
	if se2 == 0 {
		if m1 == m2 {
			return TTestResult{T: math.NaN(), P: math.NaN(), DF: math.NaN()}
		}
		return TTestResult{T: math.Copysign(math.Inf(1), m1-m2), P: 0, DF: math.NaN()}
	}
	t := (m1 - m2) / math.Sqrt(se2)

	// Welch-Satterthwaite degrees of freedom
	df := se2 * se2 / (math.Pow(v1/n1, 2)/(n1-1) + math.Pow(v2/n2, 2)/(n2-1))

	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
	p := 2 * dist.Survival(math.Abs(t))
	return TTestResult{T: t, P: clampP(p), DF: df}
}

// StandardError of the difference in means, unpooled.
func StandardError(a, b []float64) float64 {
	if len(a) < 2 || len(b) < 2 {
		return math.NaN()
	}
	return math.Sqrt(Variance(a)/float64(len(a)) + Variance(b)/float64(len(b)))
}

// CohensD is the standardized mean difference using the pooled standard
// deviation; 0 when either group is too small or the pooled SD is zero.
func CohensD(a, b []float64) float64 {
	n1, n2 := float64(len(a)), float64(len(b))
	if n1 < 2 || n2 < 2 {
		return 0
	}
	pooled := math.Sqrt(((n1-1)*Variance(a) + (n2-1)*Variance(b)) / (n1 + n2 - 2))
	if pooled == 0 || !Finite(pooled) {
		return 0
	}
	return (Mean(a) - Mean(b)) / pooled
}

// EffectSizeLabel buckets |d|: <0.2 negligible, <0.5 small, <0.8 medium.
func EffectSizeLabel(d float64) string {
	abs := math.Abs(d)
	switch {
	case abs < 0.2:
		return "negligible"
	case abs < 0.5:
		return "small"
	case abs < 0.8:
		return "medium"
	default:
		return "large"
	}
}

// ANOVAResult is a one-way analysis of variance outcome.
type ANOVAResult struct {
	F          float64
	P          float64
	EtaSquared float64
}

// OneWayANOVA tests equality of group means. Groups with identical values
// inside each group but different means give F=+Inf, P=0.
func OneWayANOVA(groups [][]float64) ANOVAResult {
	k := len(groups)
	var all []float64
	for _, g := range groups {
		all = append(all, g...)
	}
	n := len(all)
	if k < 2 || n <= k {
		return ANOVAResult{F: math.NaN(), P: math.NaN(), EtaSquared: 0}
	}
	grand := Mean(all)

	var ssb, ssw float64
	for _, g := range groups {
		m := Mean(g)
		ssb += float64(len(g)) * (m - grand) * (m - grand)
		for _, v := range g {
			ssw += (v - m) * (v - m)
		}
	}
	sst := ssb + ssw
	eta := 0.0
	if sst > 0 {
		eta = ssb / sst
	}

	dfb, dfw := float64(k-1), float64(n-k)
	if ssw == 0 {
		if ssb == 0 {
			return ANOVAResult{F: math.NaN(), P: math.NaN(), EtaSquared: eta}
		}
		return ANOVAResult{F: math.Inf(1), P: 0, EtaSquared: eta}
	}
	f := (ssb / dfb) / (ssw / dfw)
	dist := distuv.F{D1: dfb, D2: dfw}
	return ANOVAResult{F: f, P: clampP(dist.Survival(f)), EtaSquared: eta}
}

// Pearson returns the correlation coefficient and two-sided p-value for
// paired samples. Constant inputs give NaN for both.
func Pearson(x, y []float64) (r, p float64) {
	n := len(x)
	if n != len(y) || n < 2 {
		return math.NaN(), math.NaN()
	}
	r = stat.Correlation(x, y, nil)
	if !Finite(r) {
		return math.NaN(), math.NaN()
	}
	if r > 1 {
		r = 1
	} else if r < -1 {
		r = -1
	}
	df := float64(n - 2)
	if df <= 0 {
		return r, 1
	}
	if math.Abs(r) == 1 {
		return r, 0
	}
	t := r * math.Sqrt(df/((1-r)*(1+r)))
	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
	return r, clampP(2 * dist.Survival(math.Abs(t)))
}

// Slope is the least-squares slope of ys against their index 0..n-1.
func Slope(ys []float64) float64 {
	if len(ys) < 2 {
		return math.NaN()
	}
	xs := make([]float64, len(ys))
	for i := range xs {
		xs[i] = float64(i)
	}
	_, beta := stat.LinearRegression(xs, ys, nil, false)
	return beta
}

func clampP(p float64) float64 {
	if math.IsNaN(p) {
		return p
	}
	return math.Max(0, math.Min(1, p))
}
