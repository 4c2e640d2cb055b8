package insights

import (
	"fmt"
	"math"

	"gradelens/domain/analytics"
	"gradelens/domain/dataset"
	"gradelens/internal/analysis/grading"
	"gradelens/internal/analysis/numeric"
)

// val reads a nullable statistic as a 2-place number, nil as zero.
func val(p *float64) float64 {
	return numeric.Round(analytics.Value(p), 2)
}

func performanceInsights(ov analytics.Overview, subj analytics.SubjectReport, passMark float64) []analytics.Insight {
	var out []analytics.Insight
	mean := val(ov.OverallMean)
	failRate := val(ov.FailRate)

	if mean < passMark {
		sev := analytics.SeverityWarning
		if mean < passMark-15 {
			sev = analytics.SeverityCritical
		}
		out = append(out, analytics.Insight{
			ID:       "perf_low_overall_mean",
			Kind:     analytics.KindLowOverallMean,
			Category: analytics.CategoryPerformance,
			Severity: sev,
			Title:    "Below-Average School Performance",
			SupportingData: analytics.OverallMeanData{
				OverallMean: mean,
				PassMark:    passMark,
				Shortfall:   analytics.Float(numeric.Round(passMark-mean, 1)),
			},
			Recommendation: "Conduct a school-wide academic review. Focus remedial " +
				"resources on the weakest subjects and lowest-performing " +
				"classes. Consider teacher training and curriculum adjustments.",
		})
	} else {
		out = append(out, analytics.Insight{
			ID:       "perf_good_overall_mean",
			Kind:     analytics.KindGoodOverallMean,
			Category: analytics.CategoryPerformance,
			Severity: analytics.SeverityInfo,
			Title:    "School Performance Above Pass Mark",
			SupportingData: analytics.OverallMeanData{
				OverallMean: mean,
				PassMark:    passMark,
				Surplus:     analytics.Float(numeric.Round(mean-passMark, 1)),
			},
			Recommendation: "Maintain current strategies and focus on raising " +
				"lower-performing subjects and students closer to the top.",
		})
	}

	if failRate > 40 {
		sev := analytics.SeverityWarning
		if failRate > 60 {
			sev = analytics.SeverityCritical
		}
		out = append(out, analytics.Insight{
			ID:       "perf_high_fail_rate",
			Kind:     analytics.KindHighFailRate,
			Category: analytics.CategoryPerformance,
			Severity: sev,
			Title:    "High Overall Failure Rate",
			SupportingData: analytics.FailRateData{
				FailRate:     failRate,
				FailCount:    ov.FailCount,
				TotalRecords: ov.TotalRecords,
			},
			Recommendation: "Introduce after-school revision sessions and peer tutoring. " +
				"Review assessment difficulty and grading standards.",
		})
	}

	subjects := subj.Subjects
	if len(subjects) > 0 && mean > 0 {
		weakest := subjects[len(subjects)-1]
		wm := val(weakest.Mean)
		if mean-wm > 10 {
			out = append(out, analytics.Insight{
				ID:       "perf_weakest_subject",
				Kind:     analytics.KindWeakestSubject,
				Category: analytics.CategoryPerformance,
				Severity: analytics.SeverityWarning,
				Title:    "Weak Subject: " + weakest.Subject,
				SupportingData: analytics.WeakSubjectData{
					Subject:     weakest.Subject,
					SubjectMean: wm,
					SchoolMean:  mean,
					Gap:         numeric.Round(mean-wm, 1),
				},
				Recommendation: fmt.Sprintf("Arrange targeted support for %s: "+
					"teacher coaching, extra tutorials, and updated learning materials.", weakest.Subject),
			})
		}
	}

	for _, s := range subjects {
		fr := val(s.FailRate)
		if fr <= 50 {
			continue
		}
		sev := analytics.SeverityWarning
		if fr > 70 {
			sev = analytics.SeverityCritical
		}
		out = append(out, analytics.Insight{
			ID:       "perf_subject_high_fail_" + slug(s.Subject),
			Kind:     analytics.KindSubjectHighFail,
			Category: analytics.CategoryPerformance,
			Severity: sev,
			Title:    "High Failure Rate in " + s.Subject,
			SupportingData: analytics.SubjectFailData{
				Subject:   s.Subject,
				FailRate:  fr,
				FailCount: s.FailCount,
				Total:     s.Count,
			},
			Recommendation: fmt.Sprintf("Review %s curriculum delivery. "+
				"Consider remedial classes and diagnostic assessments.", s.Subject),
		})
	}
	return out
}

func gapInsights(g analytics.GapReport) []analytics.Insight {
	var out []analytics.Insight

	for _, gap := range g.GenderGaps {
		if !gap.StatisticallySignificant {
			continue
		}
		sev := analytics.SeverityWarning
		if gap.EffectSizeLabel == "large" || gap.EffectSizeLabel == "medium" {
			sev = analytics.SeverityCritical
		}
		out = append(out, analytics.Insight{
			ID:             "gap_gender_" + slug(gap.Label),
			Kind:           analytics.KindGenderGap,
			Category:       analytics.CategoryGap,
			Severity:       sev,
			Title:          "Gender Gap: " + gap.Label,
			SupportingData: gap,
			Recommendation: "Investigate root causes of the gender disparity. " +
				"Consider gender-responsive teaching strategies, " +
				"mentoring programmes, and equitable classroom engagement.",
		})
	}

	for _, gap := range g.ClassGaps {
		if !gap.StatisticallySignificant {
			continue
		}
		sev := analytics.SeverityWarning
		if val(gap.Gap) > 15 {
			sev = analytics.SeverityCritical
		}
		out = append(out, analytics.Insight{
			ID:             "gap_class",
			Kind:           analytics.KindClassGap,
			Category:       analytics.CategoryGap,
			Severity:       sev,
			Title:          "Significant Class Performance Gap",
			SupportingData: gap,
			Recommendation: "Review class allocations, teacher assignments, and " +
				"resource distribution. Consider sharing best practices " +
				"from the top class with others.",
		})
	}

	for _, gap := range g.RegionalGaps {
		if !gap.StatisticallySignificant {
			continue
		}
		sev := analytics.SeverityWarning
		if val(gap.Gap) > 20 {
			sev = analytics.SeverityCritical
		}
		out = append(out, analytics.Insight{
			ID:             "gap_regional",
			Kind:           analytics.KindRegionalGap,
			Category:       analytics.CategoryGap,
			Severity:       sev,
			Title:          "Regional Performance Disparity",
			SupportingData: gap,
			Recommendation: "Allocate additional resources to underperforming regions. " +
				"Facilitate inter-school knowledge sharing.",
		})
	}

	for _, gap := range g.TermGaps {
		gv := val(gap.Gap)
		if gv <= 5 {
			continue
		}
		sev := analytics.SeverityInfo
		if gv > 10 {
			sev = analytics.SeverityWarning
		}
		out = append(out, analytics.Insight{
			ID:             "gap_term",
			Kind:           analytics.KindTermGap,
			Category:       analytics.CategoryGap,
			Severity:       sev,
			Title:          "Term Performance Variation",
			SupportingData: gap,
			Recommendation: "Align curriculum pacing across terms. Investigate " +
				"whether external factors contribute to term dips.",
		})
	}
	return out
}

const riskClusterSize = 3

func atRiskInsights(r analytics.RiskReport, s dataset.Schema) []analytics.Insight {
	var out []analytics.Insight
	sum := r.Summary
	if sum.Total == 0 {
		return out
	}

	if sum.HighRisk > 0 {
		pct := numeric.Round(sum.HighRiskPct, 2)
		sev := analytics.SeverityInfo
		switch {
		case pct > 25:
			sev = analytics.SeverityCritical
		case pct > 15:
			sev = analytics.SeverityWarning
		}
		out = append(out, analytics.Insight{
			ID:       "risk_summary",
			Kind:     analytics.KindRiskSummary,
			Category: analytics.CategoryAtRisk,
			Severity: sev,
			Title:    fmt.Sprintf("%d Student(s) at High Risk", sum.HighRisk),
			SupportingData: analytics.RiskSummaryData{
				TotalStudents: sum.Total,
				HighRisk:      sum.HighRisk,
				MediumRisk:    sum.MediumRisk,
				HighRiskPct:   pct,
			},
			Recommendation: "Create individual intervention plans for all high-risk students. " +
				"Involve parents, counsellors, and class teachers.",
		})
	}

	if !s.Has(dataset.FieldClass) {
		return out
	}
	classTotal := map[string]int{}
	classHigh := map[string]int{}
	var order []string
	for _, st := range r.Students {
		if st.Class == nil || *st.Class == "" {
			continue
		}
		cls := *st.Class
		classTotal[cls]++
		if st.RiskLevel == analytics.RiskHigh {
			if classHigh[cls] == 0 {
				order = append(order, cls)
			}
			classHigh[cls]++
		}
	}
	for _, cls := range order {
		n := classHigh[cls]
		if n < riskClusterSize {
			continue
		}
		out = append(out, analytics.Insight{
			ID:       "risk_cluster_" + slug(cls),
			Kind:     analytics.KindRiskCluster,
			Category: analytics.CategoryAtRisk,
			Severity: analytics.SeverityCritical,
			Title:    "Risk Cluster in " + cls,
			SupportingData: analytics.RiskClusterData{
				Class:         cls,
				HighRiskCount: n,
				TotalInClass:  classTotal[cls],
			},
			Recommendation: fmt.Sprintf("Conduct a class-level review for %s. "+
				"Investigate shared barriers and consider class-wide support.", cls),
		})
	}
	return out
}

const (
	topPerformerCount = 3
	topPerformerMean  = 80
	improvementSlope  = 3
	strongPassRate    = 85
	trendImprovement  = 2
)

func positiveInsights(ov analytics.Overview, subj analytics.SubjectReport, t *dataset.Table) []analytics.Insight {
	var out []analytics.Insight

	for i, st := range ov.TopStudents {
		if i == topPerformerCount {
			break
		}
		mean := val(st.Mean)
		if mean < topPerformerMean {
			continue
		}
		out = append(out, analytics.Insight{
			ID:             "pos_top_" + slug(st.Name),
			Kind:           analytics.KindTopPerformer,
			Category:       analytics.CategoryPositive,
			Severity:       analytics.SeverityInfo,
			Title:          "Top Performer: " + st.Name,
			SupportingData: analytics.TopPerformerData{Student: st.Name, Mean: mean},
			Recommendation: "Recognise this student publicly. Consider peer mentoring " +
				"roles and academic enrichment opportunities.",
		})
	}

	out = append(out, improvingStudents(t)...)

	for _, s := range subj.Subjects {
		pr := val(s.PassRate)
		if pr < strongPassRate {
			continue
		}
		out = append(out, analytics.Insight{
			ID:             "pos_strong_" + slug(s.Subject),
			Kind:           analytics.KindStrongSubject,
			Category:       analytics.CategoryPositive,
			Severity:       analytics.SeverityInfo,
			Title:          "Strong Subject: " + s.Subject,
			SupportingData: analytics.StrongSubjectData{Subject: s.Subject, PassRate: pr},
			Recommendation: fmt.Sprintf("Document and share %s teaching strategies "+
				"with other departments.", s.Subject),
		})
	}

	if tt := ov.TermTrends; len(tt) >= 2 {
		first, last := tt[0], tt[len(tt)-1]
		fm, lm := val(first.Mean), val(last.Mean)
		if lm > fm+trendImprovement {
			out = append(out, analytics.Insight{
				ID:       "pos_improving_trend",
				Kind:     analytics.KindImprovingTrend,
				Category: analytics.CategoryPositive,
				Severity: analytics.SeverityInfo,
				Title:    "Positive Performance Trend",
				SupportingData: analytics.TrendData{
					FirstTerm:   first.Term,
					FirstMean:   fm,
					LastTerm:    last.Term,
					LastMean:    lm,
					Improvement: numeric.Round(lm-fm, 1),
				},
				Recommendation: "Continue the strategies that contributed to this " +
					"positive trajectory.",
			})
		}
	}
	return out
}

// improvingStudents flags every student whose term means rise by more than
// three points per term on a least-squares fit.
func improvingStudents(t *dataset.Table) []analytics.Insight {
	var out []analytics.Insight
	s := t.Schema
	if !s.HasStudents() || !s.Has(dataset.FieldTerm) {
		return out
	}
	for _, g := range dataset.GroupBy(t.Records, dataset.ByStudent) {
		terms := dataset.GroupBySorted(g.Records, dataset.ByTerm)
		byTerm := make(map[string]float64, len(terms))
		labels := make([]string, len(terms))
		for i, tg := range terms {
			labels[i] = tg.Key
			byTerm[tg.Key] = numeric.Mean(dataset.Scores(tg.Records))
		}
		var means []float64
		for _, term := range grading.SortTerms(labels) {
			if m := byTerm[term]; !math.IsNaN(m) {
				means = append(means, m)
			}
		}
		if len(means) < 2 {
			continue
		}
		slope := numeric.Slope(means)
		if slope <= improvementSlope {
			continue
		}
		name := g.Key
		if s.Name != "" && g.Records[0].Name != "" {
			name = g.Records[0].Name
		}
		out = append(out, analytics.Insight{
			ID:             "pos_improving_" + slug(g.Key),
			Kind:           analytics.KindMostImproved,
			Category:       analytics.CategoryPositive,
			Severity:       analytics.SeverityInfo,
			Title:          "Most Improved: " + name,
			SupportingData: analytics.ImprovementData{Student: name, Slope: numeric.Round(slope, 1)},
			Recommendation: "Acknowledge this student's progress. " +
				"Identify the factors behind their improvement.",
		})
	}
	return out
}

const (
	strongCorrelationR = 0.6
	correlationAlpha   = 0.05
)

func correlationInsights(subj analytics.SubjectReport) []analytics.Insight {
	var out []analytics.Insight
	for _, p := range subj.Correlation.Pairs {
		r, pv := val(p.R), val(p.PValue)
		if math.Abs(r) <= strongCorrelationR || pv >= correlationAlpha {
			continue
		}
		out = append(out, analytics.Insight{
			ID:       fmt.Sprintf("corr_%s_%s", slug(p.SubjectA), slug(p.SubjectB)),
			Kind:     analytics.KindStrongCorrelation,
			Category: analytics.CategoryCorrelation,
			Severity: analytics.SeverityInfo,
			Title:    fmt.Sprintf("Strong Correlation: %s ↔ %s", p.SubjectA, p.SubjectB),
			SupportingData: analytics.CorrelationData{
				SubjectA: p.SubjectA,
				SubjectB: p.SubjectB,
				R:        r,
				PValue:   pv,
			},
			Recommendation: fmt.Sprintf("Explore cross-curricular links between %s and "+
				"%s. If one is strong and the other weak, "+
				"leverage the stronger for scaffolding.", p.SubjectA, p.SubjectB),
		})
	}
	return out
}
