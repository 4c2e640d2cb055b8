// Package risk scores every student for risk of academic failure from
// five weighted factors and keeps those below both the school average and
// the pass mark.
package risk

import (
	"fmt"
	"math"
	"sort"

	"gradelens/domain/analytics"
	"gradelens/domain/dataset"
	"gradelens/internal/analysis/grading"
	"gradelens/internal/analysis/numeric"
)

// Factor names.
const (
	FactorOverallAverage = "Overall Average"
	FactorSubjectsFailed = "Subjects Failed"
	FactorScoreTrend     = "Score Trend"
	FactorClassDeviation = "Class Deviation"
	FactorSuddenDrop     = "Sudden Drop"
)

// Factor weights in percent.
const (
	WeightOverallAverage = 30
	WeightSubjectsFailed = 25
	WeightScoreTrend     = 25
	WeightClassDeviation = 10
	WeightSuddenDrop     = 10
)

const (
	trendSlopeLimit    = 3.0
	classDeviationBand = 1.5
	suddenDropLimit    = 20.0
	multiFailCount     = 3
)

type classStat struct {
	mean, std float64
}

// Score assesses every student with at least one score. The report's
// Students list is filtered and sorted by risk score descending; Scored
// holds the full sorted assessment.
func Score(t *dataset.Table, passMark float64) analytics.RiskReport {
	s := t.Schema
	if !s.HasStudents() {
		return analytics.RiskReport{Students: []analytics.StudentRisk{}}
	}

	schoolAverage := numeric.Safe(numeric.Mean(dataset.Scores(t.Records)))

	classStats := map[string]classStat{}
	if s.Has(dataset.FieldClass) {
		for _, g := range dataset.GroupBy(t.Records, dataset.ByClass) {
			pct := dataset.Scores(g.Records)
			if len(pct) > 1 {
				classStats[g.Key] = classStat{mean: numeric.Mean(pct), std: numeric.StdDev(pct)}
			}
		}
	}

	var scored []analytics.StudentRisk
	for _, g := range dataset.GroupBy(t.Records, dataset.ByStudent) {
		if sr, ok := assess(s, g, classStats, passMark); ok {
			scored = append(scored, sr)
		}
	}
	sortByScore(scored)

	var kept []analytics.StudentRisk
	if schoolAverage != nil {
		for _, sr := range scored {
			if sr.OverallMean != nil && *sr.OverallMean < *schoolAverage && *sr.OverallMean < passMark {
				kept = append(kept, sr)
			}
		}
	} else {
		kept = scored
	}
	if kept == nil {
		kept = []analytics.StudentRisk{}
	}

	return analytics.RiskReport{
		Students: kept,
		Summary:  summarize(kept, schoolAverage),
		Scored:   scored,
	}
}

func sortByScore(list []analytics.StudentRisk) {
	sort.SliceStable(list, func(i, j int) bool { return list[i].RiskScore > list[j].RiskScore })
}

func summarize(list []analytics.StudentRisk, schoolAverage *float64) analytics.RiskSummary {
	sum := analytics.RiskSummary{Total: len(list), SchoolAverage: schoolAverage}
	for _, sr := range list {
		switch sr.RiskLevel {
		case analytics.RiskHigh:
			sum.HighRisk++
		case analytics.RiskMedium:
			sum.MediumRisk++
		default:
			sum.LowRisk++
		}
	}
	if len(list) > 0 {
		sum.HighRiskPct = numeric.OrZero(numeric.Safe(numeric.Rate(sum.HighRisk, len(list))))
	}
	return sum
}

func assess(s dataset.Schema, g dataset.Group, classStats map[string]classStat, passMark float64) (analytics.StudentRisk, bool) {
	pct := dataset.Scores(g.Records)
	if len(pct) == 0 {
		return analytics.StudentRisk{}, false
	}
	mean := numeric.Mean(pct)
	first := g.Records[0]

	var factors []analytics.Factor
	total := 0.0
	add := func(f analytics.Factor) {
		factors = append(factors, f)
		total += f.Magnitude * float64(f.Weight) / 100
	}

	add(averageFactor(mean, passMark))
	if s.Has(dataset.FieldSubject) {
		add(subjectsFactor(g.Records, passMark))
	}
	direction := analytics.TrendStable
	if s.Has(dataset.FieldTerm) {
		f, dir := trendFactor(g.Records)
		add(f)
		direction = dir
	}
	if s.Has(dataset.FieldClass) {
		if cs, ok := classStats[first.Class]; ok && cs.std > 0 {
			add(classFactor(mean, cs))
		}
	}
	if s.Has(dataset.FieldTerm) && s.Has(dataset.FieldSubject) {
		if f, ok := dropFactor(g.Records); ok {
			add(f)
		}
	}

	score := math.Min(numeric.Round(total, 1), 100)
	level := analytics.LevelForScore(score)

	sr := analytics.StudentRisk{
		StudentID:      g.Key,
		Name:           g.Key,
		RiskScore:      score,
		RiskLevel:      level,
		OverallMean:    numeric.Safe(mean),
		TrendDirection: direction,
		Factors:        factors,
		Recommendation: recommend(level, factors),
	}
	if s.Name != "" && first.Name != "" {
		sr.Name = first.Name
	}
	if s.Has(dataset.FieldClass) && first.Class != "" {
		sr.Class = analytics.String(first.Class)
	}
	return sr, true
}

func averageFactor(mean, passMark float64) analytics.Factor {
	f := analytics.Factor{Name: FactorOverallAverage, Weight: WeightOverallAverage}
	if mean < passMark {
		shortfall := passMark - mean
		f.Triggered = true
		f.Magnitude = math.Min(shortfall/passMark*100, 100)
		f.Detail = fmt.Sprintf("Average is %.1f%%, which is %.1f points below pass mark (%g%%).", mean, shortfall, passMark)
		return f
	}
	f.Detail = fmt.Sprintf("Average is %.1f%%, above pass mark.", mean)
	return f
}

func subjectsFactor(records []dataset.Record, passMark float64) analytics.Factor {
	f := analytics.Factor{Name: FactorSubjectsFailed, Weight: WeightSubjectsFailed}
	groups := dataset.GroupBySorted(records, dataset.BySubject)
	var failed []string
	for _, g := range groups {
		m := numeric.Mean(dataset.Scores(g.Records))
		if m < passMark {
			failed = append(failed, g.Key)
		}
	}
	n, total := len(failed), len(groups)
	denom := float64(max(total, 1))
	f.Detail = fmt.Sprintf("Failing %d out of %d subjects.", n, total)
	switch {
	case n >= multiFailCount:
		f.Triggered = true
		f.Magnitude = math.Min(float64(n)/denom*100, 100)
		f.FailedSubjects = failed
	case n > 0:
		f.Triggered = true
		f.Magnitude = float64(n) / denom * 50
	}
	return f
}

// termMeans returns the mean of each term in calendar order, skipping
// terms without scores.
func termMeans(records []dataset.Record) []float64 {
	groups := dataset.GroupBySorted(records, dataset.ByTerm)
	byTerm := make(map[string]float64, len(groups))
	labels := make([]string, len(groups))
	for i, g := range groups {
		labels[i] = g.Key
		byTerm[g.Key] = numeric.Mean(dataset.Scores(g.Records))
	}
	var out []float64
	for _, term := range grading.SortTerms(labels) {
		if m := byTerm[term]; !math.IsNaN(m) {
			out = append(out, m)
		}
	}
	return out
}

func trendFactor(records []dataset.Record) (analytics.Factor, string) {
	f := analytics.Factor{Name: FactorScoreTrend, Weight: WeightScoreTrend}
	means := termMeans(records)
	if len(means) < 2 {
		f.Detail = "Insufficient terms for trend analysis."
		return f, analytics.TrendStable
	}
	slope := numeric.Slope(means)
	switch {
	case slope < -trendSlopeLimit:
		f.Triggered = true
		f.Magnitude = math.Min(math.Abs(slope)/10*100, 100)
		f.Detail = fmt.Sprintf("Scores declining at %.1f points per term.", slope)
		return f, analytics.TrendDeclining
	case slope > trendSlopeLimit:
		f.Detail = fmt.Sprintf("Scores improving at +%.1f points per term.", slope)
		return f, analytics.TrendImproving
	default:
		f.Detail = fmt.Sprintf("Scores relatively stable (slope: %.1f).", slope)
		return f, analytics.TrendStable
	}
}

func classFactor(mean float64, cs classStat) analytics.Factor {
	f := analytics.Factor{Name: FactorClassDeviation, Weight: WeightClassDeviation}
	deviation := (cs.mean - mean) / cs.std
	if deviation > classDeviationBand {
		f.Triggered = true
		f.Magnitude = math.Min(deviation/3*100, 100)
		f.Detail = fmt.Sprintf("Performing %.1f std deviations below class mean (%.1f%%).", deviation, cs.mean)
		return f
	}
	f.Detail = fmt.Sprintf("Within normal range for class (deviation: %.1f std).", deviation)
	return f
}

// dropFactor finds the largest fall in any subject's mean between
// consecutive terms. ok is false when the student sat fewer than two terms.
func dropFactor(records []dataset.Record) (analytics.Factor, bool) {
	f := analytics.Factor{Name: FactorSuddenDrop, Weight: WeightSuddenDrop}
	if len(dataset.Distinct(records, dataset.ByTerm)) < 2 {
		return f, false
	}

	biggest := 0.0
	dropSubject := ""
	for _, sg := range dataset.GroupBy(records, dataset.BySubject) {
		means := termMeans(sg.Records)
		for i := 1; i < len(means); i++ {
			if d := means[i-1] - means[i]; d > biggest {
				biggest = d
				dropSubject = sg.Key
			}
		}
	}

	if biggest > suddenDropLimit {
		f.Triggered = true
		f.Magnitude = math.Min(biggest/40*100, 100)
		f.Detail = fmt.Sprintf("Dropped %.0f points in %s between terms.", biggest, dropSubject)
		return f, true
	}
	f.Detail = fmt.Sprintf("No sudden drops detected (max: %.0f points).", biggest)
	return f, true
}

// recommend builds the intervention text for a level. High-risk students
// also get the advice for their heaviest triggered factor.
func recommend(level analytics.RiskLevel, factors []analytics.Factor) string {
	switch level {
	case analytics.RiskHigh:
		rec := Recommendations[RecGeneralHigh]
		var top *analytics.Factor
		for i := range factors {
			if factors[i].Triggered && (top == nil || factors[i].Weight > top.Weight) {
				top = &factors[i]
			}
		}
		if top != nil {
			if key, ok := factorRecommendation[top.Name]; ok {
				rec += " " + Recommendations[key]
			}
		}
		return rec
	case analytics.RiskMedium:
		return Recommendations[RecGeneralMedium]
	default:
		return LowRiskRecommendation
	}
}
