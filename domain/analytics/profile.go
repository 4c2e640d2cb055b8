package analytics

import (
	"encoding/json"
)

// StudentProfile is the per-student drill-down.
type StudentProfile struct {
	StudentID     string         `json:"student_id"`
	Name          string         `json:"name"`
	Gender        string         `json:"gender,omitempty"`
	Class         string         `json:"class,omitempty"`
	School        string         `json:"school,omitempty"`
	Region        string         `json:"region,omitempty"`
	OverallMean   *float64       `json:"overall_mean"`
	OverallMedian *float64       `json:"overall_median"`
	PassCount     int            `json:"pass_count"`
	FailCount     int            `json:"fail_count"`
	SubjectScores []SubjectScore `json:"subject_scores,omitempty"`
	TermTrends    []TermTrend    `json:"term_trends,omitempty"`
	ClassRank     *int           `json:"class_rank,omitempty"`
	ClassTotal    int            `json:"class_total,omitempty"`
	SchoolRank    *int           `json:"school_rank"`
	SchoolTotal   int            `json:"school_total"`
	AllScores     []ScoreEntry   `json:"all_scores"`
}

type SubjectScore struct {
	Subject string   `json:"subject"`
	Score   *float64 `json:"score"`
}

// TermTrend is one term's mean with the per-subject breakdown flattened
// into the same JSON object, keyed by subject name.
type TermTrend struct {
	Term     string
	Mean     *float64
	Subjects []SubjectScore
}

func (t TermTrend) MarshalJSON() ([]byte, error) {
	m := make(map[string]any, len(t.Subjects)+2)
	for _, s := range t.Subjects {
		m[s.Subject] = s.Score
	}
	m["term"] = t.Term
	m["mean"] = t.Mean
	return json.Marshal(m)
}

type ScoreEntry struct {
	Percentage *float64 `json:"percentage"`
	Subject    string   `json:"subject,omitempty"`
	Term       string   `json:"term,omitempty"`
	PassFail   string   `json:"pass_fail"`
}
