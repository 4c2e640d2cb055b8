// Package report renders analysis results as Markdown documents and HTML
// pages for printing and sharing.
package report

import (
	"fmt"
	"strings"

	"gradelens/ai"
	"gradelens/domain/analytics"
	"gradelens/internal/analysis/grading"
)

// StudentCard is everything shown on one report card. Risk and Summary
// are optional.
type StudentCard struct {
	School   string
	PassMark float64
	Profile  *analytics.StudentProfile
	Risk     *analytics.StudentRisk
	Summary  *ai.ParentSummary
}

var cellEscaper = strings.NewReplacer("|", `\|`, "\n", " ")

func cell(s string) string { return cellEscaper.Replace(s) }

func num(p *float64) string {
	if p == nil {
		return "—"
	}
	return fmt.Sprintf("%g", *p)
}

func rank(r *int, total int) string {
	if r == nil {
		return "—"
	}
	return fmt.Sprintf("%d of %d", *r, total)
}

// StudentCardMarkdown renders a student's report card.
func StudentCardMarkdown(c StudentCard) string {
	p := c.Profile
	var b strings.Builder

	fmt.Fprintf(&b, "# Report Card: %s\n\n", p.Name)
	if c.School != "" {
		fmt.Fprintf(&b, "**School:** %s  \n", c.School)
	}
	fmt.Fprintf(&b, "**Student ID:** %s  \n", p.StudentID)
	if p.Class != "" {
		fmt.Fprintf(&b, "**Class:** %s  \n", p.Class)
	}
	grade := grading.Classify(p.OverallMean)
	fmt.Fprintf(&b, "**Overall:** %s%% (Grade %s, %s)  \n", num(p.OverallMean), grade.Label, grade.Description)
	fmt.Fprintf(&b, "**Pass mark:** %g%%  \n", c.PassMark)
	if p.ClassRank != nil {
		fmt.Fprintf(&b, "**Class rank:** %s  \n", rank(p.ClassRank, p.ClassTotal))
	}
	fmt.Fprintf(&b, "**School rank:** %s\n\n", rank(p.SchoolRank, p.SchoolTotal))

	if len(p.SubjectScores) > 0 {
		b.WriteString("## Subjects\n\n| Subject | Score | Grade | Points |\n|---|---:|:---:|---:|\n")
		for _, s := range p.SubjectScores {
			g := grading.Classify(s.Score)
			fmt.Fprintf(&b, "| %s | %s | %s | %d |\n", cell(s.Subject), num(s.Score), grading.LabelOrNone(s.Score), g.Points)
		}
		b.WriteString("\n")
	}

	if len(p.TermTrends) > 0 {
		b.WriteString("## Term Progress\n\n| Term | Mean | Grade |\n|---|---:|:---:|\n")
		for _, t := range p.TermTrends {
			fmt.Fprintf(&b, "| %s | %s | %s |\n", cell(t.Term), num(t.Mean), grading.LabelOrNone(t.Mean))
		}
		b.WriteString("\n")
	}

	if r := c.Risk; r != nil {
		fmt.Fprintf(&b, "## Academic Risk\n\n**%s risk** (score %g)\n\n", r.RiskLevel, r.RiskScore)
		for _, f := range r.Factors {
			if f.Triggered {
				fmt.Fprintf(&b, "- **%s:** %s\n", f.Name, f.Detail)
			}
		}
		fmt.Fprintf(&b, "\n> %s\n\n", r.Recommendation)
	}

	if s := c.Summary; s != nil {
		fmt.Fprintf(&b, "## Note to Parents\n\n%s\n\n", s.Summary)
		writeList(&b, "Strengths", s.Strengths)
		writeList(&b, "Concerns", s.Concerns)
		writeList(&b, "Recommendations", s.Recommendations)
	}
	return b.String()
}

func writeList(b *strings.Builder, title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(b, "### %s\n\n", title)
	for _, it := range items {
		fmt.Fprintf(b, "- %s\n", it)
	}
	b.WriteString("\n")
}

// SchoolSummaryMarkdown renders the school-wide summary for a run.
func SchoolSummaryMarkdown(school string, bundle *analytics.Bundle) string {
	var b strings.Builder
	title := "School Performance Summary"
	if school != "" {
		title = school + ": " + title
	}
	fmt.Fprintf(&b, "# %s\n\n", title)
	fmt.Fprintf(&b, "_Run %s, pass mark %g%%_\n\n", bundle.RunID, bundle.PassMark)

	if o := bundle.Overview; o != nil {
		b.WriteString("## Overview\n\n| Metric | Value |\n|---|---:|\n")
		fmt.Fprintf(&b, "| Students | %d |\n| Subjects | %d |\n| Records | %d |\n", o.TotalStudents, o.TotalSubjects, o.TotalRecords)
		fmt.Fprintf(&b, "| Mean | %s |\n| Median | %s |\n| Pass rate | %s%% |\n\n", num(o.OverallMean), num(o.OverallMedian), num(o.PassRate))
	}

	if ins := bundle.Insights; ins != nil && ins.ExecutiveSummary != "" {
		fmt.Fprintf(&b, "## Executive Summary\n\n%s\n\n", ins.ExecutiveSummary)
	}

	if s := bundle.Subjects; s != nil && len(s.Subjects) > 0 {
		b.WriteString("## Subjects\n\n| Subject | Mean | Grade | Pass rate |\n|---|---:|:---:|---:|\n")
		for _, st := range s.Subjects {
			fmt.Fprintf(&b, "| %s | %s | %s | %s%% |\n", cell(st.Subject), num(st.Mean), grading.LabelOrNone(st.Mean), num(st.PassRate))
		}
		b.WriteString("\n")
	}

	if r := bundle.Risk; r != nil && len(r.Students) > 0 {
		b.WriteString("## Students Needing Support\n\n| Student | Class | Risk | Score |\n|---|---|---|---:|\n")
		for _, st := range r.Students {
			class := "—"
			if st.Class != nil {
				class = *st.Class
			}
			fmt.Fprintf(&b, "| %s | %s | %s | %g |\n", cell(st.Name), cell(class), st.RiskLevel, st.RiskScore)
		}
		b.WriteString("\n")
	}

	if ins := bundle.Insights; ins != nil && len(ins.Insights) > 0 {
		b.WriteString("## Insights\n\n")
		for _, in := range ins.Insights {
			fmt.Fprintf(&b, "- **[%s] %s** %s\n", strings.ToUpper(string(in.Severity)), in.Title, in.Narrative)
		}
		b.WriteString("\n")
	}
	return b.String()
}
