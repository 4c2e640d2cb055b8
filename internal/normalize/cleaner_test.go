package normalize

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gradelens/domain/dataset"
)

func rawTable(headers string, rows ...string) *dataset.RawTable {
	var cells [][]string
	for _, r := range rows {
		cells = append(cells, strings.Split(r, ","))
	}
	return dataset.NewRawTable(strings.Split(headers, ","), cells)
}

func messyUpload() *dataset.RawTable {
	return rawTable("student_id,name,gender,subject,term,score,max_score",
		"S1,Amina,f,maths,Term 1,45,50",
		"S2,Brian,M,eng,Term 1,abc,100",
		"S3,Cate,,art history,Term 1,30,",
		"S1,Amina,f,maths,Term 1,45,50",
	)
}

func TestStandardizeGender(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"M", "Male"},
		{" boy ", "Male"},
		{"Woman", "Female"},
		{"nb", "Other"},
		{"unspecified", "Other"},
		{"", "Unknown"},
		{"nan", "Unknown"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, StandardizeGender(tt.in), tt.in)
	}
}

func TestNormalizeSubject(t *testing.T) {
	assert.Equal(t, "Mathematics", NormalizeSubject("MATHS"))
	assert.Equal(t, "Computer Studies", NormalizeSubject("ict"))
	assert.Equal(t, "CRE", NormalizeSubject("c.r.e."))
	assert.Equal(t, "Art History", NormalizeSubject(" art history "))
	assert.Equal(t, "", NormalizeSubject(""))
}

func TestCleanMessyUpload(t *testing.T) {
	raw := messyUpload()
	cleaned, report := Clean(raw, Options{PassMark: 50})

	assert.Equal(t, 4, report.OriginalRows)
	assert.Equal(t, 7, report.OriginalColumns)
	assert.Equal(t, 3, report.CleanedRows)
	assert.Equal(t, 9, report.CleanedColumns)
	assert.Equal(t, []string{
		"Trimmed whitespace from all string fields.",
		"Standardized gender values: ['f', 'M'] → ['Female', 'Male', 'Unknown']",
		"Normalized 2 subject name variants. Subjects found: ['Mathematics', 'English', 'Art History']",
		"Converted scores to numeric.",
		"Computed percentage from score / max_score.",
		"Flagged 1 missing scores (not treated as 0).",
		"Removed 1 duplicate rows using keys: ['student_id', 'subject', 'term', 'score'].",
		"Computed pass/fail using pass mark of 50%.",
	}, report.Steps)
	assert.Equal(t, []string{
		"1 score values could not be converted to numbers.",
		"1 rows have missing scores. They will be excluded from aggregations.",
	}, report.Warnings)
	assert.Equal(t, []string{`value is not numeric: column score value "abc"`}, report.Malformed)

	require.Len(t, cleaned.Rows, 3)
	// the later duplicate survives, so S1 moves to the end
	assert.Equal(t, []string{"S2", "S3", "S1"}, []string{
		cleaned.Rows[0]["student_id"], cleaned.Rows[1]["student_id"], cleaned.Rows[2]["student_id"],
	})
	assert.Equal(t, "", cleaned.Rows[0][ColumnPercentage])
	assert.Equal(t, NotApplicable, cleaned.Rows[0][ColumnPassFail])
	assert.Equal(t, "30", cleaned.Rows[1][ColumnPercentage])
	assert.Equal(t, Fail, cleaned.Rows[1][ColumnPassFail])
	assert.Equal(t, "90", cleaned.Rows[2][ColumnPercentage])
	assert.Equal(t, Pass, cleaned.Rows[2][ColumnPassFail])
	assert.Equal(t, "Unknown", cleaned.Rows[1]["gender"])

	// caller data is untouched
	assert.Equal(t, "maths", raw.Rows[0]["subject"])
	assert.Len(t, raw.Headers, 7)
}

func TestCleanTreatMissingAsZero(t *testing.T) {
	raw := rawTable("name,subject,marks",
		"Amina,Math,70",
		"Brian,Math,",
	)
	cleaned, report := Clean(raw, Options{PassMark: 50, TreatMissingAsZero: true})

	assert.Contains(t, report.Steps, "Treated 1 missing scores as 0.")
	assert.Contains(t, report.Steps, "Using score as percentage (no max_score column found).")
	assert.Empty(t, report.Warnings)
	assert.Equal(t, "0", cleaned.Rows[1][ColumnPercentage])
	assert.Equal(t, Fail, cleaned.Rows[1][ColumnPassFail])
}

func TestCleanFlagsOutliers(t *testing.T) {
	var rows []string
	for i := 0; i < 15; i++ {
		rows = append(rows, fmt.Sprintf("S%d,Math,50", i))
	}
	rows = append(rows, "S99,Math,100")
	cleaned, report := Clean(rawTable("student_id,subject,score", rows...), Options{PassMark: 50})

	assert.Contains(t, report.Warnings, "1 potential outliers detected (|z-score| > 3). Flagged but not removed.")
	assert.Contains(t, report.Steps, "Detected 1 outliers via z-score.")
	assert.Contains(t, report.Columns, ColumnOutlier)
	assert.Equal(t, "true", cleaned.Rows[15][ColumnOutlier])
	assert.Equal(t, "false", cleaned.Rows[0][ColumnOutlier])
}

func TestCleanNoOutlierColumnWhenNoneFound(t *testing.T) {
	_, report := Clean(rawTable("student_id,score", "S1,40", "S2,50", "S3,60"), Options{PassMark: 50})
	assert.NotContains(t, report.Columns, ColumnOutlier)
	assert.Contains(t, report.Steps, "No duplicate rows found.")
}

func TestCleanDropsEmptyRows(t *testing.T) {
	raw := &dataset.RawTable{
		Headers: []string{"name", "score"},
		Rows: []dataset.RawRow{
			{"name": "Amina", "score": "70"},
			{"name": " ", "score": ""},
		},
	}
	cleaned, report := Clean(raw, Options{PassMark: 50})
	assert.Len(t, cleaned.Rows, 1)
	assert.Equal(t, "Dropped 1 empty rows.", report.Steps[0])
}

func TestCleanWithoutScoreColumn(t *testing.T) {
	cleaned, report := Clean(rawTable("name,subject", "Amina,bio"), Options{PassMark: 50})
	assert.NotContains(t, cleaned.Headers, ColumnPassFail)
	assert.NotContains(t, cleaned.Headers, ColumnPercentage)
	assert.Equal(t, "Biology", cleaned.Rows[0]["subject"])
	assert.Equal(t, 1, report.CleanedRows)
}

func TestReportText(t *testing.T) {
	_, report := Clean(messyUpload(), Options{PassMark: 50})
	text := report.Text()

	lines := strings.Split(text, "\n")
	assert.Equal(t, "═══ Data Cleaning Report ═══", lines[0])
	assert.Equal(t, "Original: 4 rows × 7 columns", lines[1])
	assert.Equal(t, "Cleaned:  3 rows × 9 columns", lines[2])
	assert.Equal(t, "", lines[3])
	assert.Equal(t, "Steps performed:", lines[4])
	assert.Equal(t, "  1. Trimmed whitespace from all string fields.", lines[5])
	assert.Contains(t, text, "⚠ Warnings:\n  • 1 score values could not be converted to numbers.")
}

func TestPassFail(t *testing.T) {
	assert.Equal(t, Pass, PassFail("50", 50))
	assert.Equal(t, Fail, PassFail("49.99", 50))
	assert.Equal(t, NotApplicable, PassFail("", 50))
}

func TestMalformedSamplesAreCapped(t *testing.T) {
	var rows []string
	for i := 0; i < 8; i++ {
		rows = append(rows, fmt.Sprintf("S%d,x%d", i, i))
	}
	_, report := Clean(rawTable("student_id,score", rows...), Options{PassMark: 50})

	assert.Contains(t, report.Warnings, "8 score values could not be converted to numbers.")
	require.Len(t, report.Malformed, maxMalformedSamples)
	assert.Equal(t, `value is not numeric: column score value "x0"`, report.Malformed[0])
}
