package risk

// Recommendation library keys.
const (
	RecOverallAverage = "overall_average"
	RecSubjectsFailed = "subjects_failed"
	RecNegativeTrend  = "negative_trend"
	RecClassDeviation = "class_deviation"
	RecSuddenDrop     = "sudden_drop"
	RecGeneralHigh    = "general_high"
	RecGeneralMedium  = "general_medium"
)

// Recommendations is the fixed intervention text library.
var Recommendations = map[string]string{
	RecOverallAverage: "Schedule a one-on-one meeting with the student to discuss study strategies. " +
		"Consider pairing with a stronger peer for study support.",
	RecSubjectsFailed: "Arrange a multi-subject support plan with the class teacher. " +
		"Prioritize remedial classes in the weakest subjects.",
	RecNegativeTrend: "Review term-by-term attendance records and check for external disruptions. " +
		"Engage the parent or guardian to identify barriers to learning.",
	RecClassDeviation: "Investigate whether the student requires targeted academic support. " +
		"Consider assigning a study buddy within the class.",
	RecSuddenDrop: "Investigate sudden performance changes — possible causes include " +
		"personal issues, teacher changes, or health problems. " +
		"Talk to the student privately.",
	RecGeneralHigh: "This student is at high risk of academic failure. Immediate intervention is recommended: " +
		"involve the guidance counselor, parents, and class teacher in a support plan.",
	RecGeneralMedium: "This student shows signs of struggling. Monitor closely this term and consider " +
		"additional support in weak subjects.",
}

// LowRiskRecommendation is given to every Low-level student.
const LowRiskRecommendation = "Student is performing satisfactorily. Continue monitoring."

// factorRecommendation maps a factor name to its library key.
var factorRecommendation = map[string]string{
	FactorOverallAverage: RecOverallAverage,
	FactorSubjectsFailed: RecSubjectsFailed,
	FactorScoreTrend:     RecNegativeTrend,
	FactorClassDeviation: RecClassDeviation,
	FactorSuddenDrop:     RecSuddenDrop,
}
