// Package descriptive computes school overviews, per-subject statistics,
// student profiles and term comparisons from a normalized table.
package descriptive

import (
	"fmt"
	"strings"

	"gradelens/domain/analytics"
	"gradelens/domain/dataset"
	"gradelens/internal/analysis/grading"
	"gradelens/internal/analysis/numeric"
)

// HistogramEdges are the fixed percentage bins of the overview histogram.
var HistogramEdges = []float64{0, 20, 30, 40, 50, 60, 70, 80, 90, 100}

const rankedListSize = 5

// Overview computes the school-wide summary.
func Overview(t *dataset.Table, passMark float64) analytics.Overview {
	s := t.Schema
	records := t.Records
	pct := dataset.Scores(records)
	pass, fail := numeric.PassFail(pct, passMark)

	ov := analytics.Overview{
		TotalStudents: studentCount(s, records),
		TotalRecords:  len(records),
		OverallMean:   numeric.Safe(numeric.Mean(pct)),
		OverallMedian: numeric.Safe(numeric.Median(pct)),
		OverallStd:    numeric.Safe(numeric.StdDev(pct)),
		PassRate:      passRate(pct, passMark),
		FailRate:      failRate(pct, passMark),
		PassCount:     pass,
		FailCount:     fail,
	}
	if s.Has(dataset.FieldSubject) {
		ov.TotalSubjects = len(dataset.Distinct(records, dataset.BySubject))
	}
	if s.Has(dataset.FieldClass) {
		ov.TotalClasses = len(dataset.Distinct(records, dataset.ByClass))
	}
	if s.Has(dataset.FieldTerm) {
		ov.TotalTerms = len(dataset.Distinct(records, dataset.ByTerm))
	}

	if len(pct) > 0 {
		counts := numeric.Histogram(pct, HistogramEdges)
		bins := make([]string, len(counts))
		for i := range counts {
			bins[i] = fmt.Sprintf("%d-%d", int(HistogramEdges[i]), int(HistogramEdges[i+1]))
		}
		ov.Distribution = &analytics.Distribution{Bins: bins, Counts: counts}
	}

	if s.HasStudents() {
		means := groupMeans(dataset.GroupBy(records, dataset.ByStudent))
		sortMeansDesc(means)
		names := newNameBook(s, records)
		for _, m := range head(means, rankedListSize) {
			ov.TopStudents = append(ov.TopStudents, names.entry(m))
		}
		for _, m := range tail(means, rankedListSize) {
			ov.BottomStudents = append(ov.BottomStudents, names.entry(m))
		}
	}

	if s.Has(dataset.FieldSubject) {
		means := groupMeans(dataset.GroupBySorted(records, dataset.BySubject))
		sortMeansDesc(means)
		for _, m := range head(means, rankedListSize) {
			ov.TopSubjects = append(ov.TopSubjects, analytics.SubjectMean{Subject: m.key, Mean: numeric.Safe(m.mean)})
		}
		for _, m := range tail(means, rankedListSize) {
			ov.BottomSubjects = append(ov.BottomSubjects, analytics.SubjectMean{Subject: m.key, Mean: numeric.Safe(m.mean)})
		}
	}

	if s.Has(dataset.FieldClass) {
		means := groupMeans(dataset.GroupBySorted(records, dataset.ByClass))
		sortMeansDesc(means)
		for _, m := range means {
			ov.ClassAverages = append(ov.ClassAverages, analytics.ClassMean{Class: m.key, Mean: numeric.Safe(m.mean)})
		}
	}

	if s.Has(dataset.FieldTerm) {
		groups := dataset.GroupBySorted(records, dataset.ByTerm)
		byTerm := make(map[string]float64, len(groups))
		labels := make([]string, len(groups))
		for i, g := range groups {
			labels[i] = g.Key
			byTerm[g.Key] = numeric.Mean(dataset.Scores(g.Records))
		}
		for _, term := range grading.SortTerms(labels) {
			ov.TermTrends = append(ov.TermTrends, analytics.TermMean{Term: term, Mean: numeric.Safe(byTerm[term])})
		}
	}

	return ov
}

// nameBook resolves display names for ranked students. Later rows win
// when the same id carries different names.
type nameBook struct {
	byID       bool
	idToName   map[string]string
	nameToID   map[string]string
	hasBothCol bool
}

func newNameBook(s dataset.Schema, records []dataset.Record) nameBook {
	nb := nameBook{
		byID:       s.StudentID != "" && s.StudentKey == s.StudentID,
		idToName:   map[string]string{},
		nameToID:   map[string]string{},
		hasBothCol: s.StudentID != "" && s.Name != "",
	}
	if !nb.hasBothCol {
		return nb
	}
	for _, r := range records {
		if r.StudentID == "" || r.Name == "" {
			continue
		}
		nb.idToName[strings.ToLower(r.StudentID)] = r.Name
		nb.nameToID[strings.ToLower(r.Name)] = r.StudentID
	}
	return nb
}

func (nb nameBook) entry(m keyedMean) analytics.StudentMean {
	var sid, sname string
	if nb.byID {
		sid = m.key
		sname = nb.idToName[strings.ToLower(m.key)]
	} else {
		sname = m.key
		sid = nb.nameToID[strings.ToLower(m.key)]
	}

	display := m.key
	switch {
	case sname != "" && sid != "" && !strings.EqualFold(sname, sid):
		display = fmt.Sprintf("%s (%s)", sname, sid)
	case sname != "":
		display = sname
	case sid != "":
		display = sid
	}
	return analytics.StudentMean{
		Name:        display,
		StudentID:   sid,
		StudentName: sname,
		Mean:        numeric.Safe(m.mean),
	}
}
