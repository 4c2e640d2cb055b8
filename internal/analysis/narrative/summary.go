package narrative

import (
	"fmt"
	"strings"

	"gradelens/domain/analytics"
)

const summaryBucketSize = 3

// ExecutiveSummary condenses sorted insights into short paragraphs:
// an opening count, then critical, warning and positive titles, then the
// leading recommendations.
func (Templates) ExecutiveSummary(insights []analytics.Insight) string {
	if len(insights) == 0 {
		return "No significant insights were generated from the available data."
	}

	var critical, warnings, positive []analytics.Insight
	categories := map[analytics.Category]bool{}
	for _, in := range insights {
		categories[in.Category] = true
		switch in.Severity {
		case analytics.SeverityCritical:
			critical = append(critical, in)
		case analytics.SeverityWarning:
			warnings = append(warnings, in)
		}
		if in.Category == analytics.CategoryPositive {
			positive = append(positive, in)
		}
	}

	paragraphs := []string{fmt.Sprintf(
		"The analysis identified %d key insight(s) across %d categories.",
		len(insights), len(categories))}

	if len(critical) > 0 {
		paragraphs = append(paragraphs, fmt.Sprintf(
			"⚠️ Critical attention needed: %s. These issues require immediate administrative action.",
			titles(critical)))
	}
	if len(warnings) > 0 {
		paragraphs = append(paragraphs, fmt.Sprintf(
			"Areas of concern: %s. These should be addressed within this term.",
			titles(warnings)))
	}
	if len(positive) > 0 {
		paragraphs = append(paragraphs, fmt.Sprintf("Encouraging developments: %s.", titles(positive)))
	}

	var recs []string
	for _, in := range append(append([]analytics.Insight(nil), critical...), warnings...) {
		if in.Recommendation != "" {
			recs = append(recs, in.Recommendation)
		}
	}
	if len(recs) > 0 {
		paragraphs = append(paragraphs, "Priority recommendations: "+strings.Join(first(recs), " "))
	}

	return strings.Join(paragraphs, "\n\n")
}

func titles(list []analytics.Insight) string {
	out := make([]string, 0, summaryBucketSize)
	for i, in := range list {
		if i == summaryBucketSize {
			break
		}
		out = append(out, in.Title)
	}
	return strings.Join(out, "; ")
}

func first(list []string) []string {
	if len(list) > summaryBucketSize {
		return list[:summaryBucketSize]
	}
	return list
}
