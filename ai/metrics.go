package ai

import (
	"fmt"

	"gradelens/domain/analytics"
	"gradelens/domain/dataset"
	"gradelens/internal/analysis/descriptive"
	"gradelens/internal/analysis/grading"
	"gradelens/internal/analysis/numeric"
)

const maxBullets = 3

// Metrics are the deterministic facts a parent summary may mention.
type Metrics struct {
	StudentID    string   `json:"student_id"`
	StudentName  string   `json:"student_name"`
	Class        string   `json:"class"`
	OverallMean  *float64 `json:"overall_mean"`
	StudentGrade string   `json:"student_grade"`
	ClassMean    *float64 `json:"class_mean"`
	SchoolMean   *float64 `json:"school_mean"`
	ClassRank    *int     `json:"class_rank,omitempty"`
	SchoolRank   *int     `json:"school_rank,omitempty"`
	PassMark     float64  `json:"pass_mark"`
}

// TrendPoint is one term mean on the student's trajectory.
type TrendPoint struct {
	Term string  `json:"term"`
	Mean float64 `json:"mean"`
}

// studentFacts bundles metrics with the deterministic bullets derived
// from them.
type studentFacts struct {
	Metrics         Metrics
	TrendPoints     []TrendPoint
	Strengths       []string
	Concerns        []string
	Recommendations []string
	Profile         *analytics.StudentProfile
	StudentCount    int
}

func buildFacts(t *dataset.Table, studentID string, passMark float64) (*studentFacts, bool) {
	profile, ok := descriptive.StudentProfile(t, studentID, passMark)
	if !ok {
		return nil, false
	}

	f := &studentFacts{
		Profile:      profile,
		StudentCount: len(dataset.Distinct(t.Records, dataset.ByStudent)),
		Metrics: Metrics{
			StudentID:   profile.StudentID,
			StudentName: profile.Name,
			Class:       profile.Class,
			OverallMean: profile.OverallMean,
			SchoolMean:  numeric.Safe(numeric.Mean(dataset.Scores(t.Records))),
			ClassRank:   profile.ClassRank,
			SchoolRank:  profile.SchoolRank,
			PassMark:    passMark,
		},
	}
	f.Metrics.StudentGrade = grading.Label(analytics.Float(analytics.Value(profile.OverallMean)))
	if profile.Class != "" {
		classRows := dataset.Filter(t.Records, func(r dataset.Record) bool { return r.Class == profile.Class })
		f.Metrics.ClassMean = numeric.Safe(numeric.Mean(dataset.Scores(classRows)))
	}
	for _, tt := range profile.TermTrends {
		if tt.Mean != nil {
			f.TrendPoints = append(f.TrendPoints, TrendPoint{Term: tt.Term, Mean: *tt.Mean})
		}
	}

	var strengths, concerns, recs bullets
	overall := profile.OverallMean
	if overall != nil {
		if *overall >= 75 {
			strengths.add("Consistently strong overall performance.")
		}
		if *overall < passMark {
			concerns.add(fmt.Sprintf("Overall score is below pass mark (%g%%).", passMark))
			recs.add("Create a weekly recovery plan with focused revision targets.")
		}
	}
	if cm := f.Metrics.ClassMean; cm != nil && overall != nil {
		switch {
		case *overall >= *cm+5:
			strengths.add("Performs above class average.")
		case *overall <= *cm-5:
			concerns.add("Currently below class average.")
			recs.add("Schedule class teacher follow-up and targeted support by subject.")
		}
	}
	if n := len(f.TrendPoints); n >= 2 {
		delta := numeric.Round(f.TrendPoints[n-1].Mean-f.TrendPoints[0].Mean, 1)
		switch {
		case delta >= 3:
			strengths.add(fmt.Sprintf("Positive trend across terms (+%g points).", delta))
		case delta <= -3:
			concerns.add(fmt.Sprintf("Declining trend across terms (%g points).", delta))
			recs.add("Review causes of decline and adjust study routine early.")
		}
	}

	var scored []analytics.SubjectScore
	for _, s := range profile.SubjectScores {
		if s.Score != nil {
			scored = append(scored, s)
		}
	}
	if len(scored) > 0 {
		top, weak := strongestWeakest(scored)
		strengths.add(fmt.Sprintf("Strongest subject: %s (%g%%).", top.Subject, *top.Score))
		if len(scored) > 1 {
			concerns.add(fmt.Sprintf("Needs improvement in %s (%g%%).", weak.Subject, *weak.Score))
			recs.add(fmt.Sprintf("Add extra practice and teacher check-ins for %s.", weak.Subject))
		}
	}

	f.Strengths = strengths.first(maxBullets)
	f.Concerns = concerns.first(maxBullets)
	f.Recommendations = recs.first(maxBullets)
	return f, true
}

// strongestWeakest picks the highest and lowest scoring subjects. Ties keep
// the earlier subject as strongest and the later one as weakest.
func strongestWeakest(scores []analytics.SubjectScore) (top, weak analytics.SubjectScore) {
	top, weak = scores[0], scores[0]
	for _, s := range scores[1:] {
		if *s.Score > *top.Score {
			top = s
		}
		if *s.Score <= *weak.Score {
			weak = s
		}
	}
	return top, weak
}

// bullets is an insertion-ordered list without duplicates.
type bullets []string

func (b *bullets) add(s string) {
	for _, v := range *b {
		if v == s {
			return
		}
	}
	*b = append(*b, s)
}

func (b bullets) first(n int) []string {
	out := []string(b)
	if len(out) > n {
		out = out[:n]
	}
	if out == nil {
		out = []string{}
	}
	return out
}
