package report

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"gradelens/ai"
	"gradelens/domain/analytics"
	"gradelens/domain/dataset"
)

func sampleProfile() *analytics.StudentProfile {
	one, two := 1, 2
	return &analytics.StudentProfile{
		StudentID:   "S1",
		Name:        "Amina",
		Class:       "F1",
		OverallMean: analytics.Float(72.5),
		SubjectScores: []analytics.SubjectScore{
			{Subject: "Math", Score: analytics.Float(85)},
			{Subject: "Art | Design", Score: nil},
		},
		TermTrends: []analytics.TermTrend{{Term: "Term 1", Mean: analytics.Float(72.5)}},
		ClassRank:  &one, ClassTotal: 3,
		SchoolRank: &two, SchoolTotal: 10,
	}
}

func TestStudentCardMarkdown(t *testing.T) {
	md := StudentCardMarkdown(StudentCard{
		School:   "Hillside",
		PassMark: 50,
		Profile:  sampleProfile(),
		Risk: &analytics.StudentRisk{
			RiskLevel: analytics.RiskMedium, RiskScore: 45,
			Factors:        []analytics.Factor{{Name: "Sudden Drop", Triggered: true, Detail: "Math dropped 25 points"}},
			Recommendation: "Monitor closely.",
		},
		Summary: &ai.ParentSummary{Summary: "Amina is doing well.", Strengths: []string{"Strong in Math."}},
	})

	assert.Contains(t, md, "# Report Card: Amina")
	assert.Contains(t, md, "**Overall:** 72.5% (Grade B, Very Good)")
	assert.Contains(t, md, "**Class rank:** 1 of 3")
	assert.Contains(t, md, "| Math | 85 | A | 6 |")
	assert.Contains(t, md, `| Art \| Design | — | — | 0 |`)
	assert.Contains(t, md, "- **Sudden Drop:** Math dropped 25 points")
	assert.Contains(t, md, "### Strengths\n\n- Strong in Math.")
	assert.NotContains(t, md, "### Concerns")
}

func TestStudentCardHTML(t *testing.T) {
	page := string(StudentCardHTML(StudentCard{PassMark: 50, Profile: sampleProfile()}))
	assert.True(t, strings.HasPrefix(strings.TrimSpace(page), "<!DOCTYPE html>"))
	assert.Contains(t, page, "<title>Report Card: Amina</title>")
	assert.Contains(t, page, "<table>")
	assert.Contains(t, page, "Report Card: Amina</h1>")
}

func TestSchoolSummaryHTML(t *testing.T) {
	class := "F2"
	b := &analytics.Bundle{
		RunID:    "run-7",
		PassMark: 50,
		Overview: &analytics.Overview{TotalStudents: 2, OverallMean: analytics.Float(55)},
		Risk: &analytics.RiskReport{Students: []analytics.StudentRisk{
			{Name: "Brian", Class: &class, RiskLevel: analytics.RiskHigh, RiskScore: 77.5},
		}},
		Insights: &analytics.InsightReport{
			ExecutiveSummary: "Two students need support.",
			Insights:         []analytics.Insight{{Severity: analytics.SeverityCritical, Title: "High fail rate", Narrative: "Half failed."}},
		},
	}
	md := SchoolSummaryMarkdown("Hillside", b)
	assert.Contains(t, md, "# Hillside: School Performance Summary")
	assert.Contains(t, md, "| Brian | F2 | High | 77.5 |")
	assert.Contains(t, md, "- **[CRITICAL] High fail rate** Half failed.")

	page := string(SchoolSummaryHTML("Hillside", b))
	assert.Contains(t, page, "Two students need support.")
}

func TestResolveSchoolName(t *testing.T) {
	raw := dataset.NewRawTable(
		[]string{"Name", "School_Name"},
		[][]string{{"A", "Hillside"}, {"B", "Riverside"}, {"C", "Riverside"}, {"D", ""}},
	)
	assert.Equal(t, "Riverside", ResolveSchoolName(raw, "My School"))

	tied := dataset.NewRawTable([]string{"school"}, [][]string{{"Zeta"}, {"Alpha"}})
	assert.Equal(t, "Alpha", ResolveSchoolName(tied, "My School"))

	none := dataset.NewRawTable([]string{"Name"}, [][]string{{"A"}})
	assert.Equal(t, "My School", ResolveSchoolName(none, "My School"))
	assert.Equal(t, "My School", ResolveSchoolName(nil, "My School"))
}
