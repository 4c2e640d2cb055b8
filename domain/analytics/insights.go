package analytics

// Category groups insights by the analysis that produced them.
type Category string

const (
	CategoryPerformance Category = "performance"
	CategoryGap         Category = "gap"
	CategoryAtRisk      Category = "at_risk"
	CategoryPositive    Category = "positive"
	CategoryCorrelation Category = "correlation"
)

// Severity ranks how urgently an insight needs attention.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityWarning  Severity = "warning"
	SeverityInfo     Severity = "info"
)

// Order is the sort position of a severity; unknown severities sort last.
func (s Severity) Order() int {
	switch s {
	case SeverityCritical:
		return 0
	case SeverityWarning:
		return 1
	case SeverityInfo:
		return 2
	}
	return 9
}

// InsightKind identifies the rule that produced an insight. Narrators
// switch on it to choose a template.
type InsightKind string

const (
	KindLowOverallMean    InsightKind = "low_overall_mean"
	KindGoodOverallMean   InsightKind = "good_overall_mean"
	KindHighFailRate      InsightKind = "high_fail_rate"
	KindWeakestSubject    InsightKind = "weakest_subject"
	KindSubjectHighFail   InsightKind = "subject_high_fail"
	KindGenderGap         InsightKind = "gender_gap"
	KindClassGap          InsightKind = "class_gap"
	KindRegionalGap       InsightKind = "regional_gap"
	KindTermGap           InsightKind = "term_gap"
	KindRiskSummary       InsightKind = "risk_summary"
	KindRiskCluster       InsightKind = "risk_cluster"
	KindTopPerformer      InsightKind = "top_performer"
	KindMostImproved      InsightKind = "most_improved"
	KindStrongSubject     InsightKind = "strong_subject"
	KindImprovingTrend    InsightKind = "improving_trend"
	KindStrongCorrelation InsightKind = "strong_correlation"
)

// Insight is an immutable, rule-derived observation. SupportingData holds
// one of the *Data types below (or a gap record) matching Kind.
type Insight struct {
	ID             string      `json:"id"`
	Kind           InsightKind `json:"-"`
	Category       Category    `json:"category"`
	Severity       Severity    `json:"severity"`
	Title          string      `json:"title"`
	Narrative      string      `json:"narrative"`
	SupportingData any         `json:"supporting_data"`
	Recommendation string      `json:"recommendation"`
}

type InsightSummary struct {
	Total      int            `json:"total"`
	ByCategory map[string]int `json:"by_category"`
	BySeverity map[string]int `json:"by_severity"`
}

type InsightReport struct {
	Insights         []Insight      `json:"insights"`
	Summary          InsightSummary `json:"summary"`
	ExecutiveSummary string         `json:"executive_summary"`
}

type OverallMeanData struct {
	OverallMean float64  `json:"overall_mean"`
	PassMark    float64  `json:"pass_mark"`
	Shortfall   *float64 `json:"shortfall,omitempty"`
	Surplus     *float64 `json:"surplus,omitempty"`
}

type FailRateData struct {
	FailRate     float64 `json:"fail_rate"`
	FailCount    int     `json:"fail_count"`
	TotalRecords int     `json:"total_records"`
}

type WeakSubjectData struct {
	Subject     string  `json:"subject"`
	SubjectMean float64 `json:"subject_mean"`
	SchoolMean  float64 `json:"school_mean"`
	Gap         float64 `json:"gap"`
}

type SubjectFailData struct {
	Subject   string  `json:"subject"`
	FailRate  float64 `json:"fail_rate"`
	FailCount int     `json:"fail_count"`
	Total     int     `json:"total"`
}

type RiskSummaryData struct {
	TotalStudents int     `json:"total_students"`
	HighRisk      int     `json:"high_risk"`
	MediumRisk    int     `json:"medium_risk"`
	HighRiskPct   float64 `json:"high_risk_pct"`
}

type RiskClusterData struct {
	Class         string `json:"class"`
	HighRiskCount int    `json:"high_risk_count"`
	TotalInClass  int    `json:"total_in_class"`
}

type TopPerformerData struct {
	Student string  `json:"student"`
	Mean    float64 `json:"mean"`
}

type ImprovementData struct {
	Student string  `json:"student"`
	Slope   float64 `json:"slope"`
}

type StrongSubjectData struct {
	Subject  string  `json:"subject"`
	PassRate float64 `json:"pass_rate"`
}

type TrendData struct {
	FirstTerm   string  `json:"first_term"`
	FirstMean   float64 `json:"first_mean"`
	LastTerm    string  `json:"last_term"`
	LastMean    float64 `json:"last_mean"`
	Improvement float64 `json:"improvement"`
}

type CorrelationData struct {
	SubjectA string  `json:"subject_a"`
	SubjectB string  `json:"subject_b"`
	R        float64 `json:"r"`
	PValue   float64 `json:"p_value"`
}
