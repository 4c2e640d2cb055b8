package descriptive

import (
	"sort"

	"gradelens/domain/analytics"
	"gradelens/domain/dataset"
	"gradelens/internal/analysis/numeric"
)

// minCorrelationPairs is the number of students who must have both
// subjects before a correlation is reported.
const minCorrelationPairs = 3

// SubjectStats computes per-subject statistics and cross-subject
// correlation. Subjects with no scores are skipped.
func SubjectStats(t *dataset.Table, passMark float64) analytics.SubjectReport {
	report := analytics.SubjectReport{Subjects: []analytics.SubjectStat{}}
	if !t.Schema.Has(dataset.FieldSubject) {
		return report
	}

	for _, g := range dataset.GroupBySorted(t.Records, dataset.BySubject) {
		pct := dataset.Scores(g.Records)
		if len(pct) == 0 {
			continue
		}
		pass, fail := numeric.PassFail(pct, passMark)
		q1 := numeric.Quantile(pct, 0.25)
		q3 := numeric.Quantile(pct, 0.75)
		report.Subjects = append(report.Subjects, analytics.SubjectStat{
			Subject:   g.Key,
			Mean:      numeric.Safe(numeric.Mean(pct)),
			Median:    numeric.Safe(numeric.Median(pct)),
			Std:       numeric.Safe(numeric.StdDev(pct)),
			Min:       numeric.Safe(numeric.Min(pct)),
			Max:       numeric.Safe(numeric.Max(pct)),
			PassRate:  numeric.Safe(numeric.Rate(pass, len(pct))),
			FailRate:  numeric.Safe(numeric.Rate(fail, len(pct))),
			PassCount: pass,
			FailCount: fail,
			Count:     len(pct),
			Distribution: analytics.SubjectQuartiles{
				Q1:  numeric.Safe(q1),
				Q3:  numeric.Safe(q3),
				IQR: numeric.Safe(q3 - q1),
			},
		})
	}

	sort.SliceStable(report.Subjects, func(i, j int) bool {
		return analytics.Value(report.Subjects[i].Mean) > analytics.Value(report.Subjects[j].Mean)
	})

	if t.Schema.HasStudents() {
		report.Correlation = Correlation(t)
	}
	return report
}

// pivot is a student x subject table of mean percentages.
type pivot struct {
	subjects []string
	cells    map[string]map[string]float64 // subject -> student -> mean
}

func newPivot(records []dataset.Record) pivot {
	p := pivot{cells: map[string]map[string]float64{}}
	for _, sg := range dataset.GroupBySorted(records, dataset.BySubject) {
		col := map[string]float64{}
		for _, stg := range dataset.GroupBy(sg.Records, dataset.ByStudent) {
			scores := dataset.Scores(stg.Records)
			if len(scores) == 0 {
				continue
			}
			col[stg.Key] = numeric.Mean(scores)
		}
		if len(col) == 0 {
			continue
		}
		p.subjects = append(p.subjects, sg.Key)
		p.cells[sg.Key] = col
	}
	return p
}

// paired returns the aligned means of students who have both subjects,
// in lexical student order.
func (p pivot) paired(a, b string) (xs, ys []float64) {
	colA, colB := p.cells[a], p.cells[b]
	students := make([]string, 0, len(colA))
	for s := range colA {
		if _, ok := colB[s]; ok {
			students = append(students, s)
		}
	}
	sort.Strings(students)
	for _, s := range students {
		xs = append(xs, colA[s])
		ys = append(ys, colB[s])
	}
	return xs, ys
}

// Correlation pivots per-student subject means and computes Pearson r for
// every subject pair with at least three shared students. Matrix cells for
// thinner pairs are null.
func Correlation(t *dataset.Table) analytics.CorrelationMatrix {
	if !t.Schema.HasStudents() || !t.Schema.Has(dataset.FieldSubject) {
		return analytics.CorrelationMatrix{}
	}
	p := newPivot(t.Records)
	if len(p.subjects) < 2 {
		return analytics.CorrelationMatrix{}
	}

	cm := analytics.CorrelationMatrix{
		Pairs:  []analytics.CorrelationPair{},
		Matrix: make(map[string]map[string]*float64, len(p.subjects)),
	}
	for _, s := range p.subjects {
		cm.Matrix[s] = make(map[string]*float64, len(p.subjects))
	}

	for i, a := range p.subjects {
		for j := i; j < len(p.subjects); j++ {
			b := p.subjects[j]
			xs, ys := p.paired(a, b)
			if len(xs) < minCorrelationPairs {
				cm.Matrix[a][b] = nil
				cm.Matrix[b][a] = nil
				continue
			}
			r, pv := numeric.Pearson(xs, ys)
			cell := numeric.SafeN(r, 3)
			cm.Matrix[a][b] = cell
			cm.Matrix[b][a] = cell
			if i == j {
				continue
			}
			cm.Pairs = append(cm.Pairs, analytics.CorrelationPair{
				SubjectA: a,
				SubjectB: b,
				R:        numeric.Safe(r),
				PValue:   numeric.Safe(pv),
				N:        len(xs),
			})
		}
	}
	return cm
}
