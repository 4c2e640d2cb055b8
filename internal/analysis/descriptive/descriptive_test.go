package descriptive

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gradelens/domain/dataset"
)

func buildTable(headers string, rows ...string) *dataset.Table {
	var cells [][]string
	for _, r := range rows {
		cells = append(cells, strings.Split(r, ","))
	}
	return dataset.NewTable(dataset.NewRawTable(strings.Split(headers, ","), cells))
}

func twoStudents() *dataset.Table {
	return buildTable("student_id,name,class,subject,term,score",
		"S1,Amina,F1,Math,Term 1,80",
		"S1,Amina,F1,Math,Term 1,90",
		"S2,Brian,F1,Math,Term 1,20",
		"S2,Brian,F1,Math,Term 1,30",
	)
}

func TestOverviewTwoStudents(t *testing.T) {
	ov := Overview(twoStudents(), 50)

	require.NotNil(t, ov.OverallMean)
	assert.Equal(t, 55.0, *ov.OverallMean)
	assert.Equal(t, 50.0, *ov.PassRate)
	assert.Equal(t, 50.0, *ov.FailRate)
	assert.Equal(t, 2, ov.TotalStudents)
	assert.Equal(t, 4, ov.TotalRecords)
	assert.Equal(t, ov.PassCount+ov.FailCount, 4)

	require.Len(t, ov.TopStudents, 2)
	assert.Equal(t, "Amina (S1)", ov.TopStudents[0].Name)
	assert.Equal(t, 85.0, *ov.TopStudents[0].Mean)
	assert.Equal(t, "Brian (S2)", ov.BottomStudents[1].Name)

	require.NotNil(t, ov.Distribution)
	assert.Equal(t, "0-20", ov.Distribution.Bins[0])
	assert.Equal(t, []int{0, 1, 1, 0, 0, 0, 0, 1, 1}, ov.Distribution.Counts)
}

func TestOverviewNoScores(t *testing.T) {
	ov := Overview(buildTable("name,subject,score", "Amina,Math,absent"), 50)
	assert.Nil(t, ov.OverallMean)
	assert.Nil(t, ov.OverallStd)
	assert.Equal(t, 0.0, *ov.PassRate)
	assert.Nil(t, ov.Distribution)

	// null means must marshal, never NaN
	_, err := json.Marshal(ov)
	assert.NoError(t, err)
}

func TestOverviewTermTrendsCalendarOrder(t *testing.T) {
	tbl := buildTable("name,term,score",
		"A,Term 3,70", "A,Term 1,50", "A,Term 2,60")
	ov := Overview(tbl, 50)
	require.Len(t, ov.TermTrends, 3)
	assert.Equal(t, "Term 1", ov.TermTrends[0].Term)
	assert.Equal(t, "Term 3", ov.TermTrends[2].Term)
}

func TestSubjectStats(t *testing.T) {
	tbl := buildTable("student_id,subject,score",
		"S1,Math,40", "S2,Math,60", "S3,Math,80", "S4,Math,100",
		"S1,English,60", "S2,English,62",
		"S1,Art,absent",
	)
	rep := SubjectStats(tbl, 50)

	require.Len(t, rep.Subjects, 2)
	assert.Equal(t, "Math", rep.Subjects[0].Subject)
	assert.Equal(t, 70.0, *rep.Subjects[0].Mean)
	assert.Equal(t, 55.0, *rep.Subjects[0].Distribution.Q1)
	assert.Equal(t, 85.0, *rep.Subjects[0].Distribution.Q3)
	assert.Equal(t, 30.0, *rep.Subjects[0].Distribution.IQR)
	assert.Equal(t, 3, rep.Subjects[0].PassCount)
	assert.Equal(t, 1, rep.Subjects[0].FailCount)
}

func TestCorrelationExcludesThinPairs(t *testing.T) {
	tbl := buildTable("student_id,subject,score",
		"S1,Math,40", "S2,Math,60", "S3,Math,80",
		"S1,Physics,45", "S2,Physics,62", "S3,Physics,81",
		"S1,Art,50", "S2,Art,90",
	)
	cm := SubjectStats(tbl, 50).Correlation

	require.Len(t, cm.Pairs, 1)
	assert.Equal(t, "Math", cm.Pairs[0].SubjectA)
	assert.Equal(t, "Physics", cm.Pairs[0].SubjectB)
	assert.Equal(t, 3, cm.Pairs[0].N)
	assert.Greater(t, *cm.Pairs[0].R, 0.99)

	assert.Nil(t, cm.Matrix["Art"]["Math"])
	assert.Nil(t, cm.Matrix["Math"]["Art"])
	assert.NotNil(t, cm.Matrix["Math"]["Physics"])
}

func TestCorrelationNeedsStudentsAndTwoSubjects(t *testing.T) {
	cm := SubjectStats(buildTable("subject,score", "Math,50", "Art,60"), 50).Correlation
	assert.Empty(t, cm.Pairs)
	assert.Nil(t, cm.Matrix)

	cm = SubjectStats(buildTable("name,subject,score", "A,Math,50", "B,Math,60"), 50).Correlation
	assert.Nil(t, cm.Matrix)
}

func TestStudentProfile(t *testing.T) {
	tbl := buildTable("student_id,name,class,gender,subject,term,score",
		"S1,Amina,F1,F,Math,Term 2,70",
		"S1,Amina,F1,F,English,Term 1,50",
		"S1,Amina,F1,F,Math,Term 1,0",
		"S2,Brian,F1,M,Math,Term 1,90",
		"S3,Chao,F2,M,Math,Term 1,95",
	)
	p, ok := StudentProfile(tbl, "S1", 50)
	require.True(t, ok)

	assert.Equal(t, "Amina", p.Name)
	assert.Equal(t, "F", p.Gender)
	assert.Equal(t, 40.0, *p.OverallMean)
	assert.Equal(t, 2, *p.ClassRank)
	assert.Equal(t, 2, p.ClassTotal)
	assert.Equal(t, 3, *p.SchoolRank)
	assert.Equal(t, 3, p.SchoolTotal)

	require.Len(t, p.TermTrends, 2)
	assert.Equal(t, "Term 1", p.TermTrends[0].Term)
	assert.Equal(t, 25.0, *p.TermTrends[0].Mean)

	require.Len(t, p.AllScores, 3)
	assert.Equal(t, "Pass", p.AllScores[0].PassFail)
	assert.Equal(t, "Pass", p.AllScores[1].PassFail)
	assert.Equal(t, "Fail", p.AllScores[2].PassFail)
}

func TestStudentProfileUnknown(t *testing.T) {
	p, ok := StudentProfile(twoStudents(), "UNKNOWN", 50)
	assert.False(t, ok)
	assert.Nil(t, p)

	_, ok = StudentProfile(buildTable("subject,score", "Math,50"), "S1", 50)
	assert.False(t, ok)
}

func TestTermComparisonWithoutTermColumn(t *testing.T) {
	tc := TermComparison(buildTable("name,score", "A,50"), 50)
	assert.Equal(t, NoTermColumn, tc.Error)
	assert.NotNil(t, tc.Terms)
	assert.Empty(t, tc.Terms)
}

func multiExam() *dataset.Table {
	return buildTable("student_id,name,class,subject,score,max_score,term,exam_name",
		"S001,Alice,Form 1A,Mathematics,60,100,Term 1,Opener",
		"S001,Alice,Form 1A,Mathematics,68,100,Term 1,Endterm",
		"S001,Alice,Form 1A,Mathematics,70,100,T2,Opener",
		"S001,Alice,Form 1A,Mathematics,75,100,T2,Endterm",
		"S001,Alice,Form 1A,Mathematics,76,100,3,Opener",
		"S001,Alice,Form 1A,Mathematics,82,100,3,Endterm",
		"S002,Brian,Form 1A,Mathematics,40,100,Term 1,Opener",
		"S002,Brian,Form 1A,Mathematics,45,100,Term 1,Endterm",
		"S002,Brian,Form 1A,Mathematics,42,100,T2,Opener",
		"S002,Brian,Form 1A,Mathematics,48,100,T2,Endterm",
		"S002,Brian,Form 1A,Mathematics,50,100,3,Opener",
		"S002,Brian,Form 1A,Mathematics,55,100,3,Endterm",
	)
}

func TestTermComparison(t *testing.T) {
	tc := TermComparison(multiExam(), 50)

	assert.Equal(t, []string{"Term 1", "Term 2", "Term 3"}, tc.Terms)
	assert.Equal(t, "universal", tc.SchoolSystem)

	require.Len(t, tc.SchoolByTerm, 3)
	assert.Equal(t, "baseline", tc.SchoolByTerm[0].Trend)
	assert.Nil(t, tc.SchoolByTerm[0].Delta)
	assert.Equal(t, 53.25, *tc.SchoolByTerm[0].Mean)
	assert.Equal(t, 58.75, *tc.SchoolByTerm[1].Mean)
	assert.Equal(t, 5.5, *tc.SchoolByTerm[1].Delta)
	assert.Equal(t, "improving", tc.SchoolByTerm[1].Trend)
	assert.Equal(t, 2, tc.SchoolByTerm[0].StudentCount)

	require.Len(t, tc.StudentsByTerm, 2)
	alice := tc.StudentsByTerm[0]
	assert.Equal(t, "S001", alice.StudentID)
	assert.Equal(t, 1, alice.Rank)
	assert.Equal(t, "improving", alice.OverallTrend)
	assert.Equal(t, 7.5, *alice.TrendSlope)

	assert.Equal(t, 2, tc.StudentDeltaSummary.Improved)
	require.Len(t, tc.TopImprovers, 2)
	assert.Equal(t, "S001", tc.TopImprovers[0].StudentID)
	assert.Equal(t, 15.0, tc.TopImprovers[0].Delta)
	assert.Equal(t, "S002", tc.TopDecliners[0].StudentID)

	require.Len(t, tc.ExamTimeline, 6)
	assert.Equal(t, "Term 1 - Opener", tc.ExamTimeline[0].Label)
	assert.Equal(t, "Term 1 - Endterm", tc.ExamTimeline[1].Label)
	assert.Equal(t, "baseline", tc.ExamTimeline[0].Trend)

	ep := tc.EarlyPerformance
	require.NotNil(t, ep.BaselineLabel)
	assert.Equal(t, "Term 1 - Opener", *ep.BaselineLabel)
	assert.Equal(t, "Term 3 - Endterm", *ep.LatestLabel)
	assert.Equal(t, 18.5, *ep.Delta)
	assert.Equal(t, "improving", ep.Trend)

	assert.Equal(t, 53.25, *tc.SubjectTermMatrix["Mathematics"]["Term 1"])
	assert.Equal(t, "C", tc.ClassByTerm[0].Terms["Term 3"].Grade)
}

func TestPassFailPartition(t *testing.T) {
	ov := Overview(multiExam(), 50)
	assert.Equal(t, ov.TotalRecords, ov.PassCount+ov.FailCount)
}
