package analytics

// Overview is the school-wide descriptive summary.
type Overview struct {
	TotalStudents int      `json:"total_students"`
	TotalSubjects int      `json:"total_subjects"`
	TotalClasses  int      `json:"total_classes"`
	TotalTerms    int      `json:"total_terms"`
	TotalRecords  int      `json:"total_records"`
	OverallMean   *float64 `json:"overall_mean"`
	OverallMedian *float64 `json:"overall_median"`
	OverallStd    *float64 `json:"overall_std"`
	PassRate      *float64 `json:"pass_rate"`
	FailRate      *float64 `json:"fail_rate"`
	PassCount     int      `json:"pass_count"`
	FailCount     int      `json:"fail_count"`

	Distribution   *Distribution `json:"distribution,omitempty"`
	TopStudents    []StudentMean `json:"top_students,omitempty"`
	BottomStudents []StudentMean `json:"bottom_students,omitempty"`
	TopSubjects    []SubjectMean `json:"top_subjects,omitempty"`
	BottomSubjects []SubjectMean `json:"bottom_subjects,omitempty"`
	ClassAverages  []ClassMean   `json:"class_averages,omitempty"`
	TermTrends     []TermMean    `json:"term_trends,omitempty"`
}

// Distribution is a fixed-bin histogram of percentages.
type Distribution struct {
	Bins   []string `json:"bins"`
	Counts []int    `json:"counts"`
}

// StudentMean is a ranked student entry. Name is the display label,
// "Name (ID)" when both are known and differ.
type StudentMean struct {
	Name        string   `json:"name"`
	StudentID   string   `json:"student_id,omitempty"`
	StudentName string   `json:"student_name,omitempty"`
	Mean        *float64 `json:"mean"`
}

type SubjectMean struct {
	Subject string   `json:"subject"`
	Mean    *float64 `json:"mean"`
}

type ClassMean struct {
	Class string   `json:"class"`
	Mean  *float64 `json:"mean"`
}

type RegionMean struct {
	Region string   `json:"region"`
	Mean   *float64 `json:"mean"`
}

type TermMean struct {
	Term string   `json:"term"`
	Mean *float64 `json:"mean"`
}

// SubjectReport holds per-subject statistics and cross-subject correlation.
type SubjectReport struct {
	Subjects    []SubjectStat     `json:"subjects"`
	Correlation CorrelationMatrix `json:"correlation_matrix"`
}

type SubjectStat struct {
	Subject      string           `json:"subject"`
	Mean         *float64         `json:"mean"`
	Median       *float64         `json:"median"`
	Std          *float64         `json:"std"`
	Min          *float64         `json:"min"`
	Max          *float64         `json:"max"`
	PassRate     *float64         `json:"pass_rate"`
	FailRate     *float64         `json:"fail_rate"`
	PassCount    int              `json:"pass_count"`
	FailCount    int              `json:"fail_count"`
	Count        int              `json:"count"`
	Distribution SubjectQuartiles `json:"distribution"`
}

type SubjectQuartiles struct {
	Q1  *float64 `json:"q1"`
	Q3  *float64 `json:"q3"`
	IQR *float64 `json:"iqr"`
}

// CorrelationMatrix is empty when fewer than two subjects can be pivoted
// per student.
type CorrelationMatrix struct {
	Pairs  []CorrelationPair              `json:"pairs,omitempty"`
	Matrix map[string]map[string]*float64 `json:"matrix,omitempty"`
}

type CorrelationPair struct {
	SubjectA string   `json:"subject_a"`
	SubjectB string   `json:"subject_b"`
	R        *float64 `json:"r"`
	PValue   *float64 `json:"p_value"`
	N        int      `json:"n"`
}
