// Package gaps runs the gender, class, regional and term gap analyses.
package gaps

import (
	"math"
	"sort"
	"strings"

	"gradelens/domain/analytics"
	"gradelens/domain/dataset"
	"gradelens/internal/analysis/grading"
	"gradelens/internal/analysis/numeric"
)

const (
	significanceLevel = 0.05
	minEffectSize     = 0.2
	minGroupSize      = 2
	ciZ               = 1.96
)

var (
	maleLabels   = map[string]bool{"male": true, "m": true, "boy": true}
	femaleLabels = map[string]bool{"female": true, "f": true, "girl": true}
)

// Analyze runs every gap analysis the table's columns allow. passMark is
// accepted for a uniform engine signature; no gap test depends on it.
func Analyze(t *dataset.Table, passMark float64) analytics.GapReport {
	return analytics.GapReport{
		GenderGaps:   GenderGaps(t),
		ClassGaps:    ClassGaps(t),
		RegionalGaps: RegionalGaps(t),
		TermGaps:     TermGaps(t),
	}
}

// GenderGaps compares male and female scores overall and per subject.
func GenderGaps(t *dataset.Table) []analytics.GenderGap {
	out := []analytics.GenderGap{}
	if !t.Schema.Has(dataset.FieldGender) {
		return out
	}
	if g, ok := genderGap(t.Records, "Overall"); ok {
		out = append(out, g)
	}
	if t.Schema.Has(dataset.FieldSubject) {
		for _, sg := range dataset.GroupBySorted(t.Records, dataset.BySubject) {
			if g, ok := genderGap(sg.Records, sg.Key); ok {
				g.Subject = sg.Key
				out = append(out, g)
			}
		}
	}
	return out
}

func genderGap(records []dataset.Record, label string) (analytics.GenderGap, bool) {
	var male, female []float64
	for _, r := range records {
		if r.Percentage == nil {
			continue
		}
		g := strings.ToLower(strings.TrimSpace(r.Gender))
		switch {
		case maleLabels[g]:
			male = append(male, *r.Percentage)
		case femaleLabels[g]:
			female = append(female, *r.Percentage)
		}
	}
	if len(male) < minGroupSize || len(female) < minGroupSize {
		return analytics.GenderGap{}, false
	}

	tt := numeric.WelchTTest(male, female)
	d := numeric.CohensD(male, female)
	mm, fm := numeric.Mean(male), numeric.Mean(female)
	diff := mm - fm
	se := numeric.StandardError(male, female)

	direction := analytics.DirectionBoysUnderperforming
	if mm > fm {
		direction = analytics.DirectionGirlsUnderperforming
	}

	return analytics.GenderGap{
		Type:                     "gender_gap",
		Label:                    label,
		MaleMean:                 numeric.Safe4(mm),
		FemaleMean:               numeric.Safe4(fm),
		Gap:                      numeric.Safe4(math.Abs(diff)),
		Direction:                direction,
		TStatistic:               numeric.Safe4(tt.T),
		PValue:                   numeric.Safe4(tt.P),
		EffectSize:               numeric.Safe4(d),
		EffectSizeLabel:          numeric.EffectSizeLabel(d),
		CILower:                  numeric.Safe4(diff - ciZ*se),
		CIUpper:                  numeric.Safe4(diff + ciZ*se),
		MaleCount:                len(male),
		FemaleCount:              len(female),
		StatisticallySignificant: tt.P < significanceLevel && math.Abs(d) > minEffectSize,
	}, true
}

// scoreGroup is one class or region sample with its mean.
type scoreGroup struct {
	name   string
	scores []float64
	mean   float64
}

// eligibleGroups keeps first-seen groups with at least two scores.
func eligibleGroups(records []dataset.Record, key func(dataset.Record) string) []scoreGroup {
	var out []scoreGroup
	for _, g := range dataset.GroupBy(records, key) {
		pct := dataset.Scores(g.Records)
		if len(pct) >= minGroupSize {
			out = append(out, scoreGroup{name: g.Key, scores: pct, mean: numeric.Mean(pct)})
		}
	}
	return out
}

// comparison is the outcome of the two-vs-many test selection.
type comparison struct {
	testType  string
	statistic float64
	p         float64
	effect    float64
}

// compareGroups runs Welch's t-test for exactly two groups and a one-way
// ANOVA otherwise. effect is Cohen's d or eta squared respectively.
func compareGroups(groups []scoreGroup) comparison {
	if len(groups) == 2 {
		tt := numeric.WelchTTest(groups[0].scores, groups[1].scores)
		return comparison{
			testType:  analytics.TestTypeTTest,
			statistic: tt.T,
			p:         tt.P,
			effect:    numeric.CohensD(groups[0].scores, groups[1].scores),
		}
	}
	samples := make([][]float64, len(groups))
	for i, g := range groups {
		samples[i] = g.scores
	}
	res := numeric.OneWayANOVA(samples)
	return comparison{testType: analytics.TestTypeANOVA, statistic: res.F, p: res.P, effect: res.EtaSquared}
}

func byMeanDesc(groups []scoreGroup) []scoreGroup {
	sorted := append([]scoreGroup(nil), groups...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].mean > sorted[j].mean })
	return sorted
}

// ClassGaps tests whether class means differ.
func ClassGaps(t *dataset.Table) []analytics.ClassGap {
	out := []analytics.ClassGap{}
	if !t.Schema.Has(dataset.FieldClass) {
		return out
	}
	groups := eligibleGroups(t.Records, dataset.ByClass)
	if len(groups) < 2 {
		return out
	}
	cmp := compareGroups(groups)
	sorted := byMeanDesc(groups)
	best, worst := sorted[0], sorted[len(sorted)-1]

	means := make([]analytics.ClassMean, len(sorted))
	for i, g := range sorted {
		means[i] = analytics.ClassMean{Class: g.name, Mean: numeric.Safe4(g.mean)}
	}
	return append(out, analytics.ClassGap{
		Type:                     "class_gap",
		TestType:                 cmp.testType,
		BestClass:                best.name,
		BestMean:                 numeric.Safe4(best.mean),
		WorstClass:               worst.name,
		WorstMean:                numeric.Safe4(worst.mean),
		Gap:                      numeric.Safe4(best.mean - worst.mean),
		Statistic:                numeric.Safe4(cmp.statistic),
		PValue:                   numeric.Safe4(cmp.p),
		EffectSize:               numeric.Safe4(cmp.effect),
		StatisticallySignificant: cmp.p < significanceLevel,
		ClassMeans:               means,
	})
}

// RegionalGaps tests whether regional means differ.
func RegionalGaps(t *dataset.Table) []analytics.RegionalGap {
	out := []analytics.RegionalGap{}
	if !t.Schema.Has(dataset.FieldRegion) {
		return out
	}
	groups := eligibleGroups(t.Records, dataset.ByRegion)
	if len(groups) < 2 {
		return out
	}
	cmp := compareGroups(groups)
	sorted := byMeanDesc(groups)
	best, worst := sorted[0], sorted[len(sorted)-1]

	means := make([]analytics.RegionMean, len(sorted))
	for i, g := range sorted {
		means[i] = analytics.RegionMean{Region: g.name, Mean: numeric.Safe4(g.mean)}
	}
	return append(out, analytics.RegionalGap{
		Type:                     "regional_gap",
		TestType:                 cmp.testType,
		BestRegion:               best.name,
		BestMean:                 numeric.Safe4(best.mean),
		WorstRegion:              worst.name,
		WorstMean:                numeric.Safe4(worst.mean),
		Gap:                      numeric.Safe4(best.mean - worst.mean),
		Statistic:                numeric.Safe4(cmp.statistic),
		PValue:                   numeric.Safe4(cmp.p),
		StatisticallySignificant: cmp.p < significanceLevel,
		RegionMeans:              means,
	})
}

// TermGaps reports the best and worst term by mean. No significance test
// is run.
func TermGaps(t *dataset.Table) []analytics.TermGap {
	out := []analytics.TermGap{}
	if !t.Schema.Has(dataset.FieldTerm) {
		return out
	}
	terms := grading.SortTerms(dataset.Distinct(t.Records, dataset.ByTerm))
	if len(terms) < 2 {
		return out
	}
	byTerm := map[string][]float64{}
	for _, g := range dataset.GroupBy(t.Records, dataset.ByTerm) {
		byTerm[g.Key] = dataset.Scores(g.Records)
	}
	var groups []scoreGroup
	for _, term := range terms {
		if pct := byTerm[term]; len(pct) > 0 {
			groups = append(groups, scoreGroup{name: term, scores: pct, mean: numeric.Mean(pct)})
		}
	}
	if len(groups) == 0 {
		return out
	}
	sorted := byMeanDesc(groups)
	best, worst := sorted[0], sorted[len(sorted)-1]

	means := make([]analytics.TermMean, len(sorted))
	for i, g := range sorted {
		means[i] = analytics.TermMean{Term: g.name, Mean: numeric.Safe4(g.mean)}
	}
	return append(out, analytics.TermGap{
		Type:      "term_gap",
		BestTerm:  best.name,
		BestMean:  numeric.Safe4(best.mean),
		WorstTerm: worst.name,
		WorstMean: numeric.Safe4(worst.mean),
		Gap:       numeric.Safe4(best.mean - worst.mean),
		TermMeans: means,
	})
}
