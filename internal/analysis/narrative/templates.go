// Package narrative turns structured insights into display text with
// fixed templates. Output depends only on the insight's data.
package narrative

import (
	"fmt"

	"gradelens/domain/analytics"
)

// Templates is the default deterministic narrator.
type Templates struct{}

// Narrate renders the narrative sentence for one insight. Unknown kinds
// render as the insight title.
func (Templates) Narrate(in analytics.Insight) string {
	switch d := in.SupportingData.(type) {
	case analytics.OverallMeanData:
		if in.Kind == analytics.KindLowOverallMean {
			return lowOverallMean(d.OverallMean, d.PassMark)
		}
		return highOverallMean(d.OverallMean, d.PassMark)
	case analytics.FailRateData:
		return highFailRate(d.FailRate, d.FailCount, d.TotalRecords)
	case analytics.WeakSubjectData:
		return weakestSubject(d.Subject, d.SubjectMean, d.SchoolMean)
	case analytics.SubjectFailData:
		return subjectHighFailRate(d.Subject, d.FailRate)
	case analytics.GenderGap:
		return genderGap(d)
	case analytics.ClassGap:
		return classGap(d)
	case analytics.RegionalGap:
		return regionalGap(d)
	case analytics.TermGap:
		return termGap(d)
	case analytics.RiskSummaryData:
		return riskSummary(d.TotalStudents, d.HighRisk, d.MediumRisk, d.HighRiskPct)
	case analytics.RiskClusterData:
		return classRiskCluster(d.Class, d.HighRiskCount, d.TotalInClass)
	case analytics.TopPerformerData:
		return topPerformer(d.Student, d.Mean)
	case analytics.ImprovementData:
		return mostImproved(d.Student, d.Slope)
	case analytics.StrongSubjectData:
		return strongSubject(d.Subject, d.PassRate)
	case analytics.TrendData:
		return improvingTrend(d.LastTerm, d.LastMean, d.FirstTerm, d.FirstMean)
	case analytics.CorrelationData:
		return strongCorrelation(d.SubjectA, d.SubjectB, d.R, d.PValue)
	}
	return in.Title
}

func lowOverallMean(mean, passMark float64) string {
	return fmt.Sprintf("The overall school mean is %.1f%%, which is %.1f "+
		"percentage points below the pass mark of %g%%. This indicates "+
		"a systemic performance challenge that requires whole-school intervention.",
		mean, passMark-mean, passMark)
}

func highOverallMean(mean, passMark float64) string {
	return fmt.Sprintf("The overall school mean is %.1f%%, which is %.1f "+
		"percentage points above the pass mark of %g%%. The school "+
		"is performing well overall.",
		mean, mean-passMark, passMark)
}

func highFailRate(failRate float64, failCount, total int) string {
	return fmt.Sprintf("%.1f%% of all scores (%d out of %d) "+
		"fall below the pass mark. More than 4 in 10 student-subject scores "+
		"are failing, signalling a need for remedial intervention.",
		failRate, failCount, total)
}

func weakestSubject(subject string, mean, schoolMean float64) string {
	return fmt.Sprintf("%s is the weakest subject with a mean of %.1f%%, "+
		"which is %.1f points below the school average of %.1f%%. "+
		"Targeted teacher support and extra revision sessions are recommended.",
		subject, mean, schoolMean-mean, schoolMean)
}

// StrongestSubject narrates a subject well above the school mean. No rule
// emits it; report builders use it for subject highlights.
func StrongestSubject(subject string, mean, schoolMean float64) string {
	return fmt.Sprintf("%s is the strongest subject with a mean of %.1f%%, "+
		"which is %.1f points above the school average of %.1f%%. "+
		"Consider sharing teaching strategies from this department with others.",
		subject, mean, mean-schoolMean, schoolMean)
}

func subjectHighFailRate(subject string, failRate float64) string {
	return fmt.Sprintf("%s has a failure rate of %.1f%%. "+
		"More than half of students are failing this subject, "+
		"indicating a critical need for curriculum review or additional support.",
		subject, failRate)
}

func genderGap(g analytics.GenderGap) string {
	lagging := "boys"
	if g.Direction == analytics.DirectionGirlsUnderperforming {
		lagging = "girls"
	}
	subjectNote := ""
	if g.Label != "Overall" {
		subjectNote = " in " + g.Label
	}
	return fmt.Sprintf("A statistically significant gender gap exists%s "+
		"(p = %.4f, %s effect size). "+
		"Boys average %.1f%% while girls average %.1f%%, "+
		"with %s underperforming. "+
		"Consider targeted support strategies for %s.",
		subjectNote, orDefault(g.PValue, 1), g.EffectSizeLabel,
		analytics.Value(g.MaleMean), analytics.Value(g.FemaleMean), lagging, lagging)
}

func classGap(g analytics.ClassGap) string {
	return fmt.Sprintf("There is a %.1f-point gap between the best-performing class "+
		"(%s, mean %.1f%%) and the lowest-performing class "+
		"(%s, mean %.1f%%). "+
		"This difference is statistically significant (p = %.4f). "+
		"Investigate teaching methods, resources, and class composition differences.",
		analytics.Value(g.Gap), g.BestClass, analytics.Value(g.BestMean),
		g.WorstClass, analytics.Value(g.WorstMean), orDefault(g.PValue, 1))
}

func termGap(g analytics.TermGap) string {
	return fmt.Sprintf("Performance varied across terms: %s was the strongest "+
		"(mean %.1f%%) while %s was the weakest "+
		"(mean %.1f%%), a %.1f-point spread. "+
		"Check whether curriculum pacing or external factors contributed.",
		g.BestTerm, analytics.Value(g.BestMean), g.WorstTerm, analytics.Value(g.WorstMean), analytics.Value(g.Gap))
}

func regionalGap(g analytics.RegionalGap) string {
	return fmt.Sprintf("A regional performance gap of %.1f points exists between "+
		"%s (highest) and %s (lowest). "+
		"Equity-focused resource allocation may help close this gap.",
		analytics.Value(g.Gap), g.BestRegion, g.WorstRegion)
}

func riskSummary(total, high, medium int, highPct float64) string {
	var urgency string
	switch {
	case highPct > 25:
		urgency = "This is an alarming proportion requiring immediate school-wide action."
	case highPct > 15:
		urgency = "This warrants immediate attention and targeted intervention plans."
	default:
		urgency = "While manageable, these students need close monitoring."
	}
	return fmt.Sprintf("Out of %d students, %d (%.1f%%) are at high risk "+
		"and %d are at medium risk of academic failure. %s",
		total, high, highPct, medium, urgency)
}

func classRiskCluster(class string, highCount, total int) string {
	return fmt.Sprintf("Class %s has %d high-risk students out of %d, "+
		"suggesting a class-level issue that may relate to teaching approach, "+
		"resources, or class dynamics. A class-level intervention is recommended.",
		class, highCount, total)
}

func topPerformer(name string, mean float64) string {
	return fmt.Sprintf("%s is a top performer with an overall average of %.1f%%. "+
		"Recognise this achievement and consider peer mentoring opportunities.",
		name, mean)
}

func mostImproved(name string, slope float64) string {
	return fmt.Sprintf("%s is showing strong improvement, gaining approximately "+
		"%.1f points per term. This positive trajectory should be "+
		"acknowledged and encouraged.",
		name, slope)
}

func strongSubject(subject string, passRate float64) string {
	return fmt.Sprintf("%s has an excellent pass rate of %.1f%%. "+
		"Teaching methods in this subject could serve as a model for others.",
		subject, passRate)
}

func improvingTrend(bestTerm string, bestMean float64, worstTerm string, worstMean float64) string {
	return fmt.Sprintf("School performance improved by %.1f points from "+
		"%s (%.1f%%) to %s (%.1f%%). "+
		"This positive trend suggests effective interventions are working.",
		bestMean-worstMean, worstTerm, worstMean, bestTerm, bestMean)
}

func strongCorrelation(a, b string, r, p float64) string {
	direction, tendency := "negative", "poorly"
	if r > 0 {
		direction, tendency = "positive", "well"
	}
	strength := "strong"
	if r > 0.8 || r < -0.8 {
		strength = "very strong"
	}
	return fmt.Sprintf("A %s %s correlation (r = %.3f, p = %.4f) "+
		"exists between %s and %s. "+
		"Students who perform well in one tend to perform "+
		"%s in the other. "+
		"Cross-subject teaching strategies could be beneficial.",
		strength, direction, r, p, a, b, tendency)
}

func orDefault(p *float64, def float64) float64 {
	if p == nil {
		return def
	}
	return *p
}
