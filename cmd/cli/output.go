package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"gradelens/ai"
	"gradelens/domain/analytics"
	"gradelens/internal/analysis/grading"
)

var (
	headingColor = color.New(color.FgCyan, color.Bold)
	successColor = color.New(color.FgGreen)
	warnColor    = color.New(color.FgYellow)
	dangerColor  = color.New(color.FgRed, color.Bold)
)

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func heading(w io.Writer, title string) {
	headingColor.Fprintf(w, "\n%s\n", title)
}

func success(w io.Writer, format string, args ...any) {
	successColor.Fprintf(w, "✅ "+format+"\n", args...)
}

func writeFile(path string, content []byte) error {
	return os.WriteFile(path, content, 0o644)
}

func newTable(w io.Writer, header ...string) *tablewriter.Table {
	t := tablewriter.NewWriter(w)
	t.SetHeader(header)
	t.SetAutoWrapText(false)
	t.SetAutoFormatHeaders(false)
	return t
}

func num(p *float64) string {
	if p == nil {
		return "-"
	}
	return strconv.FormatFloat(*p, 'f', -1, 64)
}

func pct(p *float64) string {
	if p == nil {
		return "-"
	}
	return num(p) + "%"
}

func printOverview(w io.Writer, o analytics.Overview) {
	heading(w, "School Overview")
	t := newTable(w, "Metric", "Value")
	t.AppendBulk([][]string{
		{"Students", strconv.Itoa(o.TotalStudents)},
		{"Subjects", strconv.Itoa(o.TotalSubjects)},
		{"Classes", strconv.Itoa(o.TotalClasses)},
		{"Terms", strconv.Itoa(o.TotalTerms)},
		{"Records", strconv.Itoa(o.TotalRecords)},
		{"Mean", num(o.OverallMean)},
		{"Median", num(o.OverallMedian)},
		{"Std dev", num(o.OverallStd)},
		{"Pass rate", pct(o.PassRate)},
		{"Grade", grading.Label(o.OverallMean)},
	})
	t.Render()
}

func printSubjects(w io.Writer, r analytics.SubjectReport) {
	if len(r.Subjects) == 0 {
		return
	}
	heading(w, "Subjects")
	t := newTable(w, "Subject", "Mean", "Median", "Std", "Min", "Max", "Pass rate", "N")
	for _, s := range r.Subjects {
		t.Append([]string{s.Subject, num(s.Mean), num(s.Median), num(s.Std), num(s.Min), num(s.Max), pct(s.PassRate), strconv.Itoa(s.Count)})
	}
	t.Render()
}

func riskColor(level analytics.RiskLevel) *color.Color {
	switch level {
	case analytics.RiskHigh:
		return dangerColor
	case analytics.RiskMedium:
		return warnColor
	default:
		return successColor
	}
}

// printRisk prints at most limit students; limit 0 prints all.
func printRisk(w io.Writer, r analytics.RiskReport, limit int) {
	heading(w, "Students at Risk")
	s := r.Summary
	fmt.Fprintf(w, "%d students: %s high, %s medium, %d low (school average %s)\n",
		s.Total,
		dangerColor.Sprint(s.HighRisk), warnColor.Sprint(s.MediumRisk), s.LowRisk, num(s.SchoolAverage))
	if len(r.Students) == 0 {
		return
	}
	list := r.Students
	if limit > 0 && len(list) > limit {
		list = list[:limit]
	}
	t := newTable(w, "ID", "Name", "Class", "Mean", "Score", "Level", "Trend", "Recommendation")
	for _, sr := range list {
		class := ""
		if sr.Class != nil {
			class = *sr.Class
		}
		t.Append([]string{
			sr.StudentID, sr.Name, class, num(sr.OverallMean),
			strconv.FormatFloat(sr.RiskScore, 'f', -1, 64),
			riskColor(sr.RiskLevel).Sprint(sr.RiskLevel),
			sr.TrendDirection, sr.Recommendation,
		})
	}
	t.Render()
	if len(list) < len(r.Students) {
		fmt.Fprintf(w, "... and %d more\n", len(r.Students)-len(list))
	}
}

func significance(ok bool) string {
	if ok {
		return "yes"
	}
	return "no"
}

func printGaps(w io.Writer, r analytics.GapReport) {
	if len(r.GenderGaps) > 0 {
		heading(w, "Gender Gaps")
		t := newTable(w, "Scope", "Male", "Female", "Gap", "Direction", "p", "Effect", "Significant")
		for _, g := range r.GenderGaps {
			t.Append([]string{g.Label, num(g.MaleMean), num(g.FemaleMean), num(g.Gap), g.Direction, num(g.PValue), g.EffectSizeLabel, significance(g.StatisticallySignificant)})
		}
		t.Render()
	}
	if len(r.ClassGaps) > 0 {
		heading(w, "Class Gaps")
		t := newTable(w, "Test", "Best", "Worst", "Gap", "p", "Significant")
		for _, g := range r.ClassGaps {
			t.Append([]string{g.TestType, g.BestClass + " (" + num(g.BestMean) + ")", g.WorstClass + " (" + num(g.WorstMean) + ")", num(g.Gap), num(g.PValue), significance(g.StatisticallySignificant)})
		}
		t.Render()
	}
	if len(r.RegionalGaps) > 0 {
		heading(w, "Regional Gaps")
		t := newTable(w, "Test", "Best", "Worst", "Gap", "p", "Significant")
		for _, g := range r.RegionalGaps {
			t.Append([]string{g.TestType, g.BestRegion + " (" + num(g.BestMean) + ")", g.WorstRegion + " (" + num(g.WorstMean) + ")", num(g.Gap), num(g.PValue), significance(g.StatisticallySignificant)})
		}
		t.Render()
	}
	if len(r.TermGaps) > 0 {
		heading(w, "Term Gaps")
		t := newTable(w, "Best term", "Worst term", "Gap")
		for _, g := range r.TermGaps {
			t.Append([]string{g.BestTerm + " (" + num(g.BestMean) + ")", g.WorstTerm + " (" + num(g.WorstMean) + ")", num(g.Gap)})
		}
		t.Render()
	}
}

func severityColor(s analytics.Severity) *color.Color {
	switch s {
	case analytics.SeverityCritical:
		return dangerColor
	case analytics.SeverityWarning:
		return warnColor
	default:
		return successColor
	}
}

// printInsights prints at most limit insights; limit 0 prints all.
func printInsights(w io.Writer, r analytics.InsightReport, limit int) {
	heading(w, "Insights")
	if r.ExecutiveSummary != "" {
		fmt.Fprintln(w, r.ExecutiveSummary)
	}
	list := r.Insights
	if limit > 0 && len(list) > limit {
		list = list[:limit]
	}
	for i, in := range list {
		fmt.Fprintf(w, "\n%d. [%s] %s\n", i+1, severityColor(in.Severity).Sprint(in.Severity), in.Title)
		fmt.Fprintf(w, "   %s\n", in.Narrative)
		if in.Recommendation != "" {
			fmt.Fprintf(w, "   → %s\n", in.Recommendation)
		}
	}
	if len(list) < len(r.Insights) {
		fmt.Fprintf(w, "\n... and %d more (run `gradelens insights`)\n", len(r.Insights)-len(list))
	}
}

func printTerms(w io.Writer, tc analytics.TermComparison) {
	heading(w, "Term Comparison")
	if tc.Error != "" {
		warnColor.Fprintln(w, tc.Error)
		return
	}
	t := newTable(w, "Term", "Mean", "Median", "Pass rate", "Students", "Grade", "Delta", "Trend")
	for _, st := range tc.SchoolByTerm {
		t.Append([]string{st.Term, num(st.Mean), num(st.Median), pct(st.PassRate), strconv.Itoa(st.StudentCount), st.Grade, num(st.Delta), st.Trend})
	}
	t.Render()

	if len(tc.TopImprovers) > 0 {
		heading(w, "Top Improvers")
		printDeltas(w, tc.TopImprovers)
	}
	if len(tc.TopDecliners) > 0 {
		heading(w, "Top Decliners")
		printDeltas(w, tc.TopDecliners)
	}
}

func printDeltas(w io.Writer, list []analytics.StudentDelta) {
	t := newTable(w, "ID", "Name", "Delta")
	for _, d := range list {
		t.Append([]string{d.StudentID, d.Name, strconv.FormatFloat(d.Delta, 'f', -1, 64)})
	}
	t.Render()
}

func printProfile(w io.Writer, p *analytics.StudentProfile) {
	heading(w, fmt.Sprintf("%s (%s)", p.Name, p.StudentID))
	if p.Class != "" {
		fmt.Fprintf(w, "Class: %s\n", p.Class)
	}
	fmt.Fprintf(w, "Overall: %s (grade %s)\n", pct(p.OverallMean), grading.Label(p.OverallMean))
	if p.ClassRank != nil {
		fmt.Fprintf(w, "Class rank: %d of %d\n", *p.ClassRank, p.ClassTotal)
	}
	if p.SchoolRank != nil {
		fmt.Fprintf(w, "School rank: %d of %d\n", *p.SchoolRank, p.SchoolTotal)
	}

	t := newTable(w, "Subject", "Score", "Grade")
	for _, s := range p.SubjectScores {
		t.Append([]string{s.Subject, num(s.Score), grading.LabelOrNone(s.Score)})
	}
	t.Render()

	if len(p.TermTrends) > 0 {
		t := newTable(w, "Term", "Mean")
		for _, tt := range p.TermTrends {
			t.Append([]string{tt.Term, num(tt.Mean)})
		}
		t.Render()
	}
}

func printSummary(w io.Writer, s *ai.ParentSummary) {
	heading(w, "Parent Summary ("+s.Mode+")")
	fmt.Fprintln(w, s.Summary)
	for _, section := range []struct {
		title string
		items []string
	}{{"Strengths", s.Strengths}, {"Concerns", s.Concerns}, {"Recommendations", s.Recommendations}} {
		if len(section.items) == 0 {
			continue
		}
		fmt.Fprintf(w, "\n%s:\n", section.title)
		for _, it := range section.items {
			fmt.Fprintf(w, "  • %s\n", it)
		}
	}
	if s.AIError != "" {
		warnColor.Fprintf(w, "\nAI rewrite unavailable: %s\n", s.AIError)
	}
}
