package narrative

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"gradelens/domain/analytics"
)

func TestExecutiveSummaryEmpty(t *testing.T) {
	assert.Equal(t, "No significant insights were generated from the available data.",
		Templates{}.ExecutiveSummary(nil))
}

func TestExecutiveSummaryParagraphs(t *testing.T) {
	list := []analytics.Insight{
		{Category: analytics.CategoryPerformance, Severity: analytics.SeverityCritical, Title: "A", Recommendation: "Do A."},
		{Category: analytics.CategoryAtRisk, Severity: analytics.SeverityWarning, Title: "B", Recommendation: "Do B."},
		{Category: analytics.CategoryPositive, Severity: analytics.SeverityInfo, Title: "C", Recommendation: "Keep C."},
	}
	got := Templates{}.ExecutiveSummary(list)
	paras := strings.Split(got, "\n\n")

	assert.Len(t, paras, 5)
	assert.Equal(t, "The analysis identified 3 key insight(s) across 3 categories.", paras[0])
	assert.Equal(t, "⚠️ Critical attention needed: A. These issues require immediate administrative action.", paras[1])
	assert.Equal(t, "Areas of concern: B. These should be addressed within this term.", paras[2])
	assert.Equal(t, "Encouraging developments: C.", paras[3])
	assert.Equal(t, "Priority recommendations: Do A. Do B.", paras[4])
}

func TestNarrateTemplates(t *testing.T) {
	n := Templates{}
	low := n.Narrate(analytics.Insight{
		Kind:           analytics.KindLowOverallMean,
		SupportingData: analytics.OverallMeanData{OverallMean: 42.5, PassMark: 50},
	})
	assert.Equal(t, "The overall school mean is 42.5%, which is 7.5 percentage points below the pass mark of 50%. "+
		"This indicates a systemic performance challenge that requires whole-school intervention.", low)

	corr := n.Narrate(analytics.Insight{
		SupportingData: analytics.CorrelationData{SubjectA: "Math", SubjectB: "Physics", R: -0.85, PValue: 0.01},
	})
	assert.Contains(t, corr, "A very strong negative correlation (r = -0.850, p = 0.0100)")
	assert.Contains(t, corr, "tend to perform poorly in the other")

	trend := n.Narrate(analytics.Insight{
		SupportingData: analytics.TrendData{FirstTerm: "Term 1", FirstMean: 50, LastTerm: "Term 3", LastMean: 56},
	})
	assert.Contains(t, trend, "improved by 6.0 points from Term 1 (50.0%) to Term 3 (56.0%)")

	assert.Equal(t, "Fallback", n.Narrate(analytics.Insight{Title: "Fallback"}))
}
