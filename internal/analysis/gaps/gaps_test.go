package gaps

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gradelens/domain/analytics"
	"gradelens/domain/dataset"
)

func buildTable(headers string, rows ...string) *dataset.Table {
	var cells [][]string
	for _, r := range rows {
		cells = append(cells, strings.Split(r, ","))
	}
	return dataset.NewTable(dataset.NewRawTable(strings.Split(headers, ","), cells))
}

func TestGenderGapSingleGender(t *testing.T) {
	tbl := buildTable("student_id,class,gender,subject,score",
		"S1,F1,Male,Math,60", "S2,F1,M,Math,70", "S3,F1,boy,Math,80")
	rep := Analyze(tbl, 50)
	assert.Empty(t, rep.GenderGaps)
	assert.NotNil(t, rep.GenderGaps)
	assert.Empty(t, rep.ClassGaps)
}

func TestGenderGapSignificant(t *testing.T) {
	tbl := buildTable("student_id,gender,subject,score",
		"S1,M,Math,80", "S2,M,Math,82", "S3,M,Math,78", "S4,M,Math,85",
		"S5,F,Math,60", "S6,F,Math,62", "S7, female ,Math,58", "S8,Girl,Math,65",
	)
	gaps := GenderGaps(tbl)

	require.Len(t, gaps, 2)
	overall := gaps[0]
	assert.Equal(t, "Overall", overall.Label)
	assert.Empty(t, overall.Subject)
	assert.Equal(t, "Math", gaps[1].Subject)

	assert.Equal(t, 81.25, *overall.MaleMean)
	assert.Equal(t, 61.25, *overall.FemaleMean)
	assert.Equal(t, 20.0, *overall.Gap)
	assert.Equal(t, analytics.DirectionGirlsUnderperforming, overall.Direction)
	assert.Equal(t, "large", overall.EffectSizeLabel)
	assert.True(t, overall.StatisticallySignificant)
	assert.Less(t, *overall.CILower, 20.0)
	assert.Greater(t, *overall.CIUpper, 20.0)
	assert.Equal(t, 4, overall.FemaleCount)
}

func TestClassGapTwoClasses(t *testing.T) {
	tbl := buildTable("student_id,class,score",
		"S1,East,50", "S2,East,52", "S3,West,70", "S4,West,74", "S5,North,99")
	gaps := ClassGaps(tbl)

	require.Len(t, gaps, 1)
	g := gaps[0]
	assert.Equal(t, analytics.TestTypeTTest, g.TestType)
	assert.Equal(t, "West", g.BestClass)
	assert.Equal(t, "East", g.WorstClass)
	assert.Equal(t, 21.0, *g.Gap)
	assert.Len(t, g.ClassMeans, 2)
}

func TestClassGapANOVA(t *testing.T) {
	tbl := buildTable("student_id,class,score",
		"S1,A,50", "S2,A,52", "S3,A,48",
		"S4,B,70", "S5,B,72", "S6,B,68",
		"S7,C,90", "S8,C,92", "S9,C,88",
	)
	g := ClassGaps(tbl)[0]
	assert.Equal(t, analytics.TestTypeANOVA, g.TestType)
	assert.True(t, g.StatisticallySignificant)
	assert.InDelta(t, 0.99, *g.EffectSize, 0.01)
	assert.Equal(t, "C", g.BestClass)
	assert.Equal(t, "A", g.WorstClass)
	assert.Equal(t, []string{"C", "B", "A"}, []string{g.ClassMeans[0].Class, g.ClassMeans[1].Class, g.ClassMeans[2].Class})
}

func TestRegionalGapNeedsTwoRegions(t *testing.T) {
	tbl := buildTable("student_id,county,score", "S1,Nairobi,50", "S2,Nairobi,60", "S3,Kisumu,70")
	assert.Empty(t, RegionalGaps(tbl))

	tbl = buildTable("student_id,county,score",
		"S1,Nairobi,50", "S2,Nairobi,60", "S3,Kisumu,70", "S4,Kisumu,80")
	gaps := RegionalGaps(tbl)
	require.Len(t, gaps, 1)
	assert.Equal(t, "Kisumu", gaps[0].BestRegion)
	assert.Equal(t, 20.0, *gaps[0].Gap)
}

func TestTermGap(t *testing.T) {
	tbl := buildTable("student_id,term,score",
		"S1,Term 1,50", "S1,Term 2,70", "S1,Term 3,60", "S2,Term 3,absent")
	gaps := TermGaps(tbl)
	require.Len(t, gaps, 1)
	assert.Equal(t, "Term 2", gaps[0].BestTerm)
	assert.Equal(t, "Term 1", gaps[0].WorstTerm)
	assert.Equal(t, 20.0, *gaps[0].Gap)

	assert.Empty(t, TermGaps(buildTable("student_id,term,score", "S1,Term 1,50")))
}
