package descriptive

import (
	"fmt"
	"sort"

	"gradelens/domain/analytics"
	"gradelens/domain/dataset"
	"gradelens/internal/analysis/grading"
	"gradelens/internal/analysis/numeric"
)

// NoTermColumn is reported when term comparison is requested without a
// term column.
const NoTermColumn = "No 'term' column found in data."

const (
	trendSlopeBand = 0.5
	moversListSize = 5
)

// TermComparison compares school, subject, student and class performance
// across canonical terms, plus the exam timeline within terms.
func TermComparison(t *dataset.Table, passMark float64) analytics.TermComparison {
	s := t.Schema
	if !s.Has(dataset.FieldTerm) {
		return analytics.TermComparison{Error: NoTermColumn, Terms: []string{}}
	}

	records := make([]dataset.Record, len(t.Records))
	for i, r := range t.Records {
		r.Term = grading.CanonicalTerm(r.Term)
		records[i] = r
	}
	terms := grading.SortTerms(dataset.Distinct(records, dataset.ByTerm))
	byTerm := indexGroups(dataset.GroupBy(records, dataset.ByTerm))

	tc := analytics.TermComparison{
		Terms:             terms,
		SchoolSystem:      grading.System,
		SchoolByTerm:      schoolByTerm(s, terms, byTerm, passMark),
		SubjectsByTerm:    []analytics.SubjectTerms{},
		SubjectTermMatrix: map[string]map[string]*float64{},
		StudentsByTerm:    []analytics.StudentTerms{},
		ClassByTerm:       []analytics.ClassTerms{},
		TopImprovers:      []analytics.StudentDelta{},
		TopDecliners:      []analytics.StudentDelta{},
		ExamTimeline:      []analytics.ExamPoint{},
	}

	if s.Has(dataset.FieldSubject) {
		for _, g := range dataset.GroupBySorted(records, dataset.BySubject) {
			row := subjectTerms(g, terms, passMark)
			tc.SubjectsByTerm = append(tc.SubjectsByTerm, row)
			cells := make(map[string]*float64, len(row.Terms))
			for term, cell := range row.Terms {
				cells[term] = cell.Mean
			}
			tc.SubjectTermMatrix[g.Key] = cells
		}
	}

	if s.HasStudents() {
		tc.StudentsByTerm = studentsByTerm(s, records, terms, passMark)
	}

	if s.Has(dataset.FieldClass) {
		for _, g := range dataset.GroupBySorted(records, dataset.ByClass) {
			row := analytics.ClassTerms{Class: g.Key, Terms: make(map[string]analytics.ClassTermCell, len(terms))}
			groups := indexGroups(dataset.GroupBy(g.Records, dataset.ByTerm))
			for _, term := range terms {
				pct := dataset.Scores(groups[term])
				mean := numeric.Safe(numeric.Mean(pct))
				row.Terms[term] = analytics.ClassTermCell{
					Mean:     mean,
					PassRate: passRate(pct, passMark),
					Grade:    gradeFor(pct, mean),
				}
			}
			tc.ClassByTerm = append(tc.ClassByTerm, row)
		}
	}

	summary := movers(&tc, terms)
	tc.StudentDeltaSummary = &summary

	if s.Has(dataset.FieldExam) {
		tc.ExamTimeline = examTimeline(s, terms, byTerm, passMark)
	}
	tc.EarlyPerformance = earlyPerformance(tc.ExamTimeline, tc.SchoolByTerm)

	return tc
}

func indexGroups(groups []dataset.Group) map[string][]dataset.Record {
	out := make(map[string][]dataset.Record, len(groups))
	for _, g := range groups {
		out[g.Key] = g.Records
	}
	return out
}

// gradeFor grades a rounded mean, or returns NoGrade when no scores exist.
func gradeFor(pct []float64, mean *float64) string {
	if len(pct) == 0 {
		return grading.NoGrade
	}
	return grading.LabelOrNone(mean)
}

func schoolByTerm(s dataset.Schema, terms []string, byTerm map[string][]dataset.Record, passMark float64) []analytics.SchoolTerm {
	out := make([]analytics.SchoolTerm, 0, len(terms))
	for i, term := range terms {
		rows := byTerm[term]
		pct := dataset.Scores(rows)
		pass, fail := numeric.PassFail(pct, passMark)
		mean := numeric.Safe(numeric.Mean(pct))
		st := analytics.SchoolTerm{
			Term:         term,
			Mean:         mean,
			Median:       numeric.Safe(numeric.Median(pct)),
			PassRate:     passRate(pct, passMark),
			PassCount:    pass,
			FailCount:    fail,
			StudentCount: studentCount(s, rows),
			Grade:        gradeFor(pct, mean),
			Trend:        analytics.TrendBaseline,
		}
		if i > 0 {
			st.Delta = deltaOf(mean, out[i-1].Mean)
			st.Trend = trendFromDelta(st.Delta, analytics.TrendUnknown)
		}
		out = append(out, st)
	}
	return out
}

func subjectTerms(g dataset.Group, terms []string, passMark float64) analytics.SubjectTerms {
	row := analytics.SubjectTerms{Subject: g.Key, Terms: make(map[string]analytics.TermCell, len(terms))}
	groups := indexGroups(dataset.GroupBy(g.Records, dataset.ByTerm))
	var prev *float64
	for _, term := range terms {
		pct := dataset.Scores(groups[term])
		mean := numeric.Safe(numeric.Mean(pct))
		delta := deltaOf(mean, prev)
		row.Terms[term] = analytics.TermCell{
			Mean:     mean,
			PassRate: passRate(pct, passMark),
			Grade:    grading.LabelOrNone(mean),
			Delta:    delta,
			Trend:    trendFromDelta(delta, analytics.TrendBaseline),
		}
		prev = mean
	}
	return row
}

func studentsByTerm(s dataset.Schema, records []dataset.Record, terms []string, passMark float64) []analytics.StudentTerms {
	var rows []analytics.StudentTerms
	for _, g := range dataset.GroupBy(records, dataset.ByStudent) {
		first := g.Records[0]
		info := analytics.StudentTerms{
			StudentID: g.Key,
			Name:      g.Key,
			Terms:     make(map[string]analytics.StudentTermCell, len(terms)),
		}
		if s.Name != "" && first.Name != "" {
			info.Name = first.Name
		}
		if s.Has(dataset.FieldClass) {
			info.Class = first.Class
		}

		groups := indexGroups(dataset.GroupBy(g.Records, dataset.ByTerm))
		var prev *float64
		var means []float64
		for _, term := range terms {
			pct := dataset.Scores(groups[term])
			mean := numeric.Safe(numeric.Mean(pct))
			delta := deltaOf(mean, prev)
			pass, fail := numeric.PassFail(pct, passMark)
			info.Terms[term] = analytics.StudentTermCell{
				Mean:      mean,
				Grade:     grading.LabelOrNone(mean),
				Delta:     delta,
				Trend:     trendFromDelta(delta, analytics.TrendBaseline),
				PassCount: pass,
				FailCount: fail,
			}
			if mean != nil {
				means = append(means, *mean)
			}
			prev = mean
		}

		info.OverallTrend = analytics.TrendInsufficientData
		if len(means) >= 2 {
			slope := numeric.Slope(means)
			info.TrendSlope = numeric.SafeN(slope, 3)
			switch {
			case slope > trendSlopeBand:
				info.OverallTrend = analytics.TrendImproving
			case slope < -trendSlopeBand:
				info.OverallTrend = analytics.TrendDeclining
			default:
				info.OverallTrend = analytics.TrendStable
			}
		}
		rows = append(rows, info)
	}

	if len(terms) > 0 {
		last := terms[len(terms)-1]
		sort.SliceStable(rows, func(i, j int) bool {
			return analytics.Value(rows[i].Terms[last].Mean) > analytics.Value(rows[j].Terms[last].Mean)
		})
	}
	for i := range rows {
		rows[i].Rank = i + 1
	}
	return rows
}

// movers fills the top improvers and decliners between the first and last
// term and returns the improved/declined/stable tally.
func movers(tc *analytics.TermComparison, terms []string) analytics.DeltaSummary {
	var summary analytics.DeltaSummary
	if len(tc.StudentsByTerm) == 0 || len(terms) < 2 {
		return summary
	}
	first, last := terms[0], terms[len(terms)-1]

	var ranked []analytics.StudentDelta
	for _, st := range tc.StudentsByTerm {
		a, b := st.Terms[first].Mean, st.Terms[last].Mean
		if a == nil || b == nil {
			continue
		}
		d := numeric.Round(*b-*a, 2)
		switch {
		case d > 1:
			summary.Improved++
		case d < -1:
			summary.Declined++
		default:
			summary.Stable++
		}
		ranked = append(ranked, analytics.StudentDelta{Name: st.Name, StudentID: st.StudentID, Delta: d})
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Delta > ranked[j].Delta })

	if len(ranked) > moversListSize {
		tc.TopImprovers = append(tc.TopImprovers, ranked[:moversListSize]...)
	} else {
		tc.TopImprovers = append(tc.TopImprovers, ranked...)
	}
	start := len(ranked) - moversListSize
	if start < 0 {
		start = 0
	}
	for i := len(ranked) - 1; i >= start; i-- {
		tc.TopDecliners = append(tc.TopDecliners, ranked[i])
	}
	return summary
}

func examTimeline(s dataset.Schema, terms []string, byTerm map[string][]dataset.Record, passMark float64) []analytics.ExamPoint {
	var out []analytics.ExamPoint
	for _, term := range terms {
		rows := byTerm[term]
		exams := indexGroups(dataset.GroupBy(rows, dataset.ByExam))
		for _, exam := range grading.SortExams(dataset.Distinct(rows, dataset.ByExam)) {
			erows := exams[exam]
			pct := dataset.Scores(erows)
			mean := numeric.Safe(numeric.Mean(pct))
			out = append(out, analytics.ExamPoint{
				Term:         term,
				Exam:         exam,
				Label:        fmt.Sprintf("%s - %s", term, exam),
				Mean:         mean,
				PassRate:     passRate(pct, passMark),
				StudentCount: studentCount(s, erows),
				Grade:        gradeFor(pct, mean),
				Trend:        analytics.TrendBaseline,
			})
		}
	}
	for i := 1; i < len(out); i++ {
		out[i].Delta = deltaOf(out[i].Mean, out[i-1].Mean)
		out[i].Trend = trendFromDelta(out[i].Delta, analytics.TrendUnknown)
	}
	return out
}

// earlyPerformance compares the first and last timeline points, falling
// back to the first and last terms.
func earlyPerformance(timeline []analytics.ExamPoint, school []analytics.SchoolTerm) *analytics.EarlyPerformance {
	ep := &analytics.EarlyPerformance{Trend: analytics.TrendInsufficientData}
	switch {
	case len(timeline) >= 2:
		a, b := timeline[0], timeline[len(timeline)-1]
		ep.BaselineLabel, ep.BaselineMean = analytics.String(a.Label), a.Mean
		ep.LatestLabel, ep.LatestMean = analytics.String(b.Label), b.Mean
	case len(school) >= 2:
		a, b := school[0], school[len(school)-1]
		ep.BaselineLabel, ep.BaselineMean = analytics.String(a.Term), a.Mean
		ep.LatestLabel, ep.LatestMean = analytics.String(b.Term), b.Mean
	default:
		return ep
	}
	ep.Delta = deltaOf(ep.LatestMean, ep.BaselineMean)
	ep.Trend = trendFromDelta(ep.Delta, analytics.TrendInsufficientData)
	return ep
}
