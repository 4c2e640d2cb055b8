package descriptive

import (
	"gradelens/domain/analytics"
	"gradelens/domain/dataset"
	"gradelens/internal/analysis/grading"
	"gradelens/internal/analysis/numeric"
)

// StudentProfile builds the drill-down for one student. ok is false when
// the table has no student column or no row matches id.
func StudentProfile(t *dataset.Table, id string, passMark float64) (*analytics.StudentProfile, bool) {
	s := t.Schema
	if !s.HasStudents() {
		return nil, false
	}
	rows := dataset.Filter(t.Records, func(r dataset.Record) bool { return r.StudentKey == id })
	if len(rows) == 0 {
		return nil, false
	}
	first := rows[0]

	p := &analytics.StudentProfile{
		StudentID: id,
		Name:      id,
		Gender:    first.Gender,
		Class:     first.Class,
		School:    first.School,
		Region:    first.Region,
	}
	if s.Name != "" && first.Name != "" {
		p.Name = first.Name
	}

	pct := dataset.Scores(rows)
	p.OverallMean = numeric.Safe(numeric.Mean(pct))
	p.OverallMedian = numeric.Safe(numeric.Median(pct))
	p.PassCount, p.FailCount = numeric.PassFail(pct, passMark)

	if s.Has(dataset.FieldSubject) {
		for _, g := range dataset.GroupBySorted(rows, dataset.BySubject) {
			p.SubjectScores = append(p.SubjectScores, analytics.SubjectScore{
				Subject: g.Key,
				Score:   numeric.Safe(numeric.Mean(dataset.Scores(g.Records))),
			})
		}
	}

	if s.Has(dataset.FieldSubject) && s.Has(dataset.FieldTerm) {
		groups := dataset.GroupBySorted(rows, dataset.ByTerm)
		byTerm := make(map[string]dataset.Group, len(groups))
		labels := make([]string, len(groups))
		for i, g := range groups {
			labels[i] = g.Key
			byTerm[g.Key] = g
		}
		for _, term := range grading.SortTerms(labels) {
			g := byTerm[term]
			trend := analytics.TermTrend{
				Term: term,
				Mean: numeric.Safe(numeric.Mean(dataset.Scores(g.Records))),
			}
			for _, sg := range dataset.GroupBySorted(g.Records, dataset.BySubject) {
				trend.Subjects = append(trend.Subjects, analytics.SubjectScore{
					Subject: sg.Key,
					Score:   numeric.Safe(numeric.Mean(dataset.Scores(sg.Records))),
				})
			}
			p.TermTrends = append(p.TermTrends, trend)
		}
	}

	if s.Has(dataset.FieldClass) && first.Class != "" {
		classRows := dataset.Filter(t.Records, func(r dataset.Record) bool { return r.Class == first.Class })
		p.ClassRank, p.ClassTotal = rankOf(classRows, id)
	}
	p.SchoolRank, p.SchoolTotal = rankOf(t.Records, id)

	p.AllScores = make([]analytics.ScoreEntry, 0, len(rows))
	for _, r := range rows {
		entry := analytics.ScoreEntry{
			Subject:  r.Subject,
			Term:     r.Term,
			PassFail: "Fail",
		}
		if r.Percentage != nil {
			entry.Percentage = numeric.Safe(*r.Percentage)
		}
		if entry.Percentage != nil && *entry.Percentage > 0 && *entry.Percentage >= passMark {
			entry.PassFail = "Pass"
		}
		p.AllScores = append(p.AllScores, entry)
	}

	return p, true
}

// rankOf returns the 1-based position of id among students ordered by mean
// descending, and the number of students ranked.
func rankOf(records []dataset.Record, id string) (*int, int) {
	means := groupMeans(dataset.GroupBy(records, dataset.ByStudent))
	sortMeansDesc(means)
	for i, m := range means {
		if m.key == id {
			rank := i + 1
			return &rank, len(means)
		}
	}
	return nil, len(means)
}
