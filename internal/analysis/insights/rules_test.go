package insights

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gradelens/domain/analytics"
)

func kinds(list []analytics.Insight) []analytics.InsightKind {
	var out []analytics.InsightKind
	for _, in := range list {
		out = append(out, in.Kind)
	}
	return out
}

func TestClassGapGate(t *testing.T) {
	tests := []struct {
		name        string
		significant bool
		gap         float64
		fires       bool
		severity    analytics.Severity
	}{
		{"not significant", false, 30, false, ""},
		{"significant at the critical line", true, 15, true, analytics.SeverityWarning},
		{"significant past the critical line", true, 15.01, true, analytics.SeverityCritical},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := gapInsights(analytics.GapReport{ClassGaps: []analytics.ClassGap{{
				BestClass:                "F1",
				WorstClass:               "F2",
				Gap:                      analytics.Float(tt.gap),
				StatisticallySignificant: tt.significant,
			}}})
			if !tt.fires {
				assert.Empty(t, out)
				return
			}
			require.Len(t, out, 1)
			assert.Equal(t, analytics.KindClassGap, out[0].Kind)
			assert.Equal(t, tt.severity, out[0].Severity)
		})
	}
}

func TestRegionalGapGate(t *testing.T) {
	tests := []struct {
		name        string
		significant bool
		gap         float64
		fires       bool
		severity    analytics.Severity
	}{
		{"not significant", false, 40, false, ""},
		{"significant at the critical line", true, 20, true, analytics.SeverityWarning},
		{"significant past the critical line", true, 20.01, true, analytics.SeverityCritical},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := gapInsights(analytics.GapReport{RegionalGaps: []analytics.RegionalGap{{
				BestRegion:               "Coast",
				WorstRegion:              "North",
				Gap:                      analytics.Float(tt.gap),
				StatisticallySignificant: tt.significant,
			}}})
			if !tt.fires {
				assert.Empty(t, out)
				return
			}
			require.Len(t, out, 1)
			assert.Equal(t, analytics.KindRegionalGap, out[0].Kind)
			assert.Equal(t, tt.severity, out[0].Severity)
		})
	}
}

func TestTermGapThresholds(t *testing.T) {
	tests := []struct {
		gap      float64
		fires    bool
		severity analytics.Severity
	}{
		{5, false, ""},
		{5.01, true, analytics.SeverityInfo},
		{10, true, analytics.SeverityInfo},
		{10.01, true, analytics.SeverityWarning},
	}
	for _, tt := range tests {
		out := gapInsights(analytics.GapReport{TermGaps: []analytics.TermGap{{
			BestTerm:  "Term 1",
			WorstTerm: "Term 2",
			Gap:       analytics.Float(tt.gap),
		}}})
		if !tt.fires {
			assert.Empty(t, out, "gap %g", tt.gap)
			continue
		}
		require.Len(t, out, 1, "gap %g", tt.gap)
		assert.Equal(t, analytics.KindTermGap, out[0].Kind)
		assert.Equal(t, tt.severity, out[0].Severity, "gap %g", tt.gap)
	}
}

func TestStrongCorrelationGate(t *testing.T) {
	tests := []struct {
		name  string
		r, p  float64
		fires bool
	}{
		{"strong positive", 0.61, 0.04, true},
		{"strong negative", -0.61, 0.01, true},
		{"at the r threshold", 0.6, 0.001, false},
		{"at alpha", 0.9, 0.05, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := correlationInsights(analytics.SubjectReport{
				Correlation: analytics.CorrelationMatrix{Pairs: []analytics.CorrelationPair{{
					SubjectA: "Math",
					SubjectB: "Physics",
					R:        analytics.Float(tt.r),
					PValue:   analytics.Float(tt.p),
					N:        10,
				}}},
			})
			if !tt.fires {
				assert.Empty(t, out)
				return
			}
			require.Len(t, out, 1)
			assert.Equal(t, "corr_math_physics", out[0].ID)
			assert.Equal(t, "Strong Correlation: Math ↔ Physics", out[0].Title)
			data := out[0].SupportingData.(analytics.CorrelationData)
			assert.Equal(t, tt.r, data.R)
		})
	}
}

func TestPositiveTermTrend(t *testing.T) {
	trend := func(first, last float64) analytics.Overview {
		return analytics.Overview{TermTrends: []analytics.TermMean{
			{Term: "Term 1", Mean: analytics.Float(first)},
			{Term: "Term 2", Mean: analytics.Float((first + last) / 2)},
			{Term: "Term 3", Mean: analytics.Float(last)},
		}}
	}
	empty := buildTable("student_id,score", "S1,60")

	out := positiveInsights(trend(60, 62), analytics.SubjectReport{}, empty)
	assert.NotContains(t, kinds(out), analytics.KindImprovingTrend)

	out = positiveInsights(trend(60, 62.01), analytics.SubjectReport{}, empty)
	in, ok := findInsight(out, "pos_improving_trend")
	require.True(t, ok)
	data := in.SupportingData.(analytics.TrendData)
	assert.Equal(t, "Term 1", data.FirstTerm)
	assert.Equal(t, "Term 3", data.LastTerm)
	assert.Equal(t, 2.0, data.Improvement)
}

func TestMostImprovedSlope(t *testing.T) {
	tbl := buildTable("student_id,name,term,score",
		"S1,Amina,Term 1,50", "S1,Amina,Term 2,52.9",
		"S2,Brian,Term 1,50", "S2,Brian,Term 2,53.1",
		"S3,Chao,T2,70", "S3,Chao,T1,60",
	)
	out := improvingStudents(tbl)

	_, ok := findInsight(out, "pos_improving_s1")
	assert.False(t, ok, "slope 2.9 stays under the threshold")

	brian, ok := findInsight(out, "pos_improving_s2")
	require.True(t, ok)
	assert.Equal(t, "Most Improved: Brian", brian.Title)
	assert.Equal(t, 3.1, brian.SupportingData.(analytics.ImprovementData).Slope)

	// terms are ordered by number, not by row order
	chao, ok := findInsight(out, "pos_improving_s3")
	require.True(t, ok)
	assert.Equal(t, 10.0, chao.SupportingData.(analytics.ImprovementData).Slope)
}
