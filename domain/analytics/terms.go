package analytics

// Trend labels shared by term comparison and risk output.
const (
	TrendImproving        = "improving"
	TrendDeclining        = "declining"
	TrendStable           = "stable"
	TrendBaseline         = "baseline"
	TrendUnknown          = "unknown"
	TrendInsufficientData = "insufficient_data"
)

// TermComparison compares performance across canonical terms.
type TermComparison struct {
	Error               string                         `json:"error,omitempty"`
	Terms               []string                       `json:"terms"`
	SchoolSystem        string                         `json:"school_system,omitempty"`
	SchoolByTerm        []SchoolTerm                   `json:"school_by_term,omitempty"`
	SubjectsByTerm      []SubjectTerms                 `json:"subjects_by_term,omitempty"`
	SubjectTermMatrix   map[string]map[string]*float64 `json:"subject_term_matrix,omitempty"`
	StudentsByTerm      []StudentTerms                 `json:"students_by_term,omitempty"`
	ClassByTerm         []ClassTerms                   `json:"class_by_term,omitempty"`
	TopImprovers        []StudentDelta                 `json:"top_improvers,omitempty"`
	TopDecliners        []StudentDelta                 `json:"top_decliners,omitempty"`
	StudentDeltaSummary *DeltaSummary                  `json:"student_delta_summary,omitempty"`
	ExamTimeline        []ExamPoint                    `json:"exam_timeline,omitempty"`
	EarlyPerformance    *EarlyPerformance              `json:"early_performance,omitempty"`
}

type SchoolTerm struct {
	Term         string   `json:"term"`
	Mean         *float64 `json:"mean"`
	Median       *float64 `json:"median"`
	PassRate     *float64 `json:"pass_rate"`
	PassCount    int      `json:"pass_count"`
	FailCount    int      `json:"fail_count"`
	StudentCount int      `json:"student_count"`
	Grade        string   `json:"grade"`
	Delta        *float64 `json:"delta"`
	Trend        string   `json:"trend"`
}

type SubjectTerms struct {
	Subject string              `json:"subject"`
	Terms   map[string]TermCell `json:"terms"`
}

type TermCell struct {
	Mean     *float64 `json:"mean"`
	PassRate *float64 `json:"pass_rate"`
	Grade    string   `json:"grade"`
	Delta    *float64 `json:"delta"`
	Trend    string   `json:"trend"`
}

type StudentTerms struct {
	StudentID    string                     `json:"student_id"`
	Name         string                     `json:"name"`
	Class        string                     `json:"class,omitempty"`
	Terms        map[string]StudentTermCell `json:"terms"`
	OverallTrend string                     `json:"overall_trend"`
	TrendSlope   *float64                   `json:"trend_slope"`
	Rank         int                        `json:"rank"`
}

type StudentTermCell struct {
	Mean      *float64 `json:"mean"`
	Grade     string   `json:"grade"`
	Delta     *float64 `json:"delta"`
	Trend     string   `json:"trend"`
	PassCount int      `json:"pass_count"`
	FailCount int      `json:"fail_count"`
}

type ClassTerms struct {
	Class string                   `json:"class"`
	Terms map[string]ClassTermCell `json:"terms"`
}

type ClassTermCell struct {
	Mean     *float64 `json:"mean"`
	PassRate *float64 `json:"pass_rate"`
	Grade    string   `json:"grade"`
}

type StudentDelta struct {
	Name      string  `json:"name"`
	StudentID string  `json:"student_id"`
	Delta     float64 `json:"delta"`
}

type DeltaSummary struct {
	Improved int `json:"improved"`
	Declined int `json:"declined"`
	Stable   int `json:"stable"`
}

type ExamPoint struct {
	Term         string   `json:"term"`
	Exam         string   `json:"exam"`
	Label        string   `json:"label"`
	Mean         *float64 `json:"mean"`
	PassRate     *float64 `json:"pass_rate"`
	StudentCount int      `json:"student_count"`
	Grade        string   `json:"grade"`
	Delta        *float64 `json:"delta"`
	Trend        string   `json:"trend"`
}

type EarlyPerformance struct {
	BaselineLabel *string  `json:"baseline_label"`
	BaselineMean  *float64 `json:"baseline_mean"`
	LatestLabel   *string  `json:"latest_label"`
	LatestMean    *float64 `json:"latest_mean"`
	Delta         *float64 `json:"delta"`
	Trend         string   `json:"trend"`
}
