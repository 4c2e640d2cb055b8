package analytics

// RiskLevel buckets a risk score.
type RiskLevel string

const (
	RiskHigh   RiskLevel = "High"
	RiskMedium RiskLevel = "Medium"
	RiskLow    RiskLevel = "Low"
)

// LevelForScore maps a score to its level: >=70 High, >=40 Medium.
func LevelForScore(score float64) RiskLevel {
	switch {
	case score >= 70:
		return RiskHigh
	case score >= 40:
		return RiskMedium
	default:
		return RiskLow
	}
}

// Factor is one weighted contributor to a risk score. Magnitude is the
// factor's own 0-100 score before weighting.
type Factor struct {
	Name           string   `json:"factor"`
	Weight         int      `json:"weight"`
	Triggered      bool     `json:"triggered"`
	Detail         string   `json:"detail"`
	Magnitude      float64  `json:"magnitude"`
	FailedSubjects []string `json:"failed_subjects,omitempty"`
}

type StudentRisk struct {
	StudentID      string    `json:"student_id"`
	Name           string    `json:"name"`
	RiskScore      float64   `json:"risk_score"`
	RiskLevel      RiskLevel `json:"risk_level"`
	OverallMean    *float64  `json:"overall_mean"`
	TrendDirection string    `json:"trend_direction"`
	Factors        []Factor  `json:"factors"`
	Recommendation string    `json:"recommendation"`
	Class          *string   `json:"class"`
}

type RiskSummary struct {
	Total         int      `json:"total"`
	HighRisk      int      `json:"high_risk"`
	MediumRisk    int      `json:"medium_risk"`
	LowRisk       int      `json:"low_risk"`
	SchoolAverage *float64 `json:"school_average"`
	HighRiskPct   float64  `json:"high_risk_pct"`
}

// RiskReport lists the retained students (mean below both the school
// average and the pass mark). Scored keeps every assessed student and is
// only serialized on request.
type RiskReport struct {
	Students []StudentRisk `json:"students"`
	Summary  RiskSummary   `json:"summary"`
	Scored   []StudentRisk `json:"-"`
}
