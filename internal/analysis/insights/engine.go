// Package insights evaluates threshold rules over the descriptive, risk
// and gap results and returns severity-sorted observations.
package insights

import (
	"sort"
	"strings"

	"gradelens/domain/analytics"
	"gradelens/domain/dataset"
	"gradelens/internal/analysis/descriptive"
	"gradelens/internal/analysis/gaps"
	"gradelens/internal/analysis/narrative"
	"gradelens/internal/analysis/risk"
)

// Narrator renders insight text. Rules never depend on the wording, so a
// localized or model-backed narrator can replace the templates.
type Narrator interface {
	Narrate(in analytics.Insight) string
	ExecutiveSummary(insights []analytics.Insight) string
}

// Results bundles the upstream engine outputs the rules consume.
type Results struct {
	Overview analytics.Overview
	Subjects analytics.SubjectReport
	Risk     analytics.RiskReport
	Gaps     analytics.GapReport
}

// Engine runs the rule set.
type Engine struct {
	narrator Narrator
}

// NewEngine returns an engine using n, or the default templates when n is nil.
func NewEngine(n Narrator) *Engine {
	if n == nil {
		n = narrative.Templates{}
	}
	return &Engine{narrator: n}
}

// Generate computes every upstream analysis and evaluates the rules.
func (e *Engine) Generate(t *dataset.Table, passMark float64) analytics.InsightReport {
	return e.FromResults(t, passMark, Results{
		Overview: descriptive.Overview(t, passMark),
		Subjects: descriptive.SubjectStats(t, passMark),
		Risk:     risk.Score(t, passMark),
		Gaps:     gaps.Analyze(t, passMark),
	})
}

// FromResults evaluates the rules over precomputed results. The table is
// still needed for the per-student improvement rule.
func (e *Engine) FromResults(t *dataset.Table, passMark float64, r Results) analytics.InsightReport {
	var all []analytics.Insight
	all = append(all, performanceInsights(r.Overview, r.Subjects, passMark)...)
	all = append(all, gapInsights(r.Gaps)...)
	all = append(all, atRiskInsights(r.Risk, t.Schema)...)
	all = append(all, positiveInsights(r.Overview, r.Subjects, t)...)
	all = append(all, correlationInsights(r.Subjects)...)

	for i := range all {
		all[i].Narrative = e.narrator.Narrate(all[i])
	}

	sort.SliceStable(all, func(i, j int) bool {
		return all[i].Severity.Order() < all[j].Severity.Order()
	})
	if all == nil {
		all = []analytics.Insight{}
	}

	summary := analytics.InsightSummary{
		Total:      len(all),
		ByCategory: map[string]int{},
		BySeverity: map[string]int{},
	}
	for _, in := range all {
		summary.ByCategory[string(in.Category)]++
		summary.BySeverity[string(in.Severity)]++
	}

	return analytics.InsightReport{
		Insights:         all,
		Summary:          summary,
		ExecutiveSummary: e.narrator.ExecutiveSummary(all),
	}
}

// slug lowercases s and replaces spaces with underscores for insight ids.
func slug(s string) string {
	return strings.ReplaceAll(strings.ToLower(s), " ", "_")
}
