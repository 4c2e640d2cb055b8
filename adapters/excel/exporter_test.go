package excel

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"gradelens/domain/analytics"
	"gradelens/domain/core"
)

func sampleBundle() *analytics.Bundle {
	mean := 55.0
	class := "F1"
	return &analytics.Bundle{
		RunID:    core.RunID("run-1"),
		PassMark: 50,
		Overview: &analytics.Overview{TotalStudents: 2, TotalRecords: 4, OverallMean: &mean},
		Subjects: &analytics.SubjectReport{Subjects: []analytics.SubjectStat{{Subject: "Math", Mean: &mean, Count: 4}}},
		Risk: &analytics.RiskReport{Students: []analytics.StudentRisk{{
			StudentID: "S2", Name: "Brian", RiskScore: 27.5, RiskLevel: analytics.RiskLow, Class: &class,
			Factors: []analytics.Factor{{Name: "Overall Average", Triggered: true}, {Name: "Class Deviation"}},
		}}},
		Gaps:     &analytics.GapReport{},
		Terms:    &analytics.TermComparison{Error: "No 'term' column found in data."},
		Insights: &analytics.InsightReport{ExecutiveSummary: "All good."},
	}
}

func TestNewWorkbookSheets(t *testing.T) {
	f, err := NewWorkbook(sampleBundle())
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, Sheets, f.GetSheetList())

	v, err := f.GetCellValue(SheetOverview, "B4")
	require.NoError(t, err)
	assert.Equal(t, "2", v)

	v, err = f.GetCellValue(SheetRisk, "H2")
	require.NoError(t, err)
	assert.Equal(t, "Overall Average", v)

	v, err = f.GetCellValue(SheetTerms, "A1")
	require.NoError(t, err)
	assert.Equal(t, "No 'term' column found in data.", v)
}

func TestWriteWorkbookIsReadable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteWorkbook(&buf, sampleBundle()))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()
	v, err := f.GetCellValue(SheetSubjects, "A2")
	require.NoError(t, err)
	assert.Equal(t, "Math", v)
}
