package grading

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func ptr(v float64) *float64 { return &v }

func TestClassifyBands(t *testing.T) {
	tests := []struct {
		score  *float64
		label  string
		points int
	}{
		{ptr(100), "A", 6},
		{ptr(80), "A", 6},
		{ptr(79.99), "B", 5},
		{ptr(60), "C", 4},
		{ptr(50), "D", 3},
		{ptr(45), "E", 2},
		{ptr(39.9), "F", 1},
		{ptr(-12), "F", 1},
		{ptr(140), "A", 6},
		{nil, "-", 0},
	}
	for _, tt := range tests {
		g := Classify(tt.score)
		if g.Label != tt.label || g.Points != tt.points {
			t.Errorf("Classify(%v) = %s/%d, want %s/%d", tt.score, g.Label, g.Points, tt.label, tt.points)
		}
	}
	assert.Equal(t, 100.0, *Classify(ptr(140)).Score)
	assert.Equal(t, NoGrade, LabelOrNone(nil))
}

func TestThresholds(t *testing.T) {
	th := Thresholds()
	assert.Len(t, th, 6)
	assert.Equal(t, 100.0, th[0].Max)
	assert.Equal(t, 79.99, th[1].Max)
	assert.Equal(t, 39.99, th[5].Max)
}

func TestMeanGradeClampsFirst(t *testing.T) {
	g := Mean([]float64{120, 60})
	assert.Equal(t, 80.0, *g.Mean)
	assert.Equal(t, "A", g.Label)
	assert.Nil(t, Mean(nil).Mean)
}

func TestSortTerms(t *testing.T) {
	assert.Equal(t, []string{"Term 1", "Term 2", "Term 3"}, SortTerms([]string{"Term 3", "Term 1", "Term 2"}))
	// last number wins; labels without digits go last and keep input order
	assert.Equal(t,
		[]string{"2023 Sem 1", "Form 2 Term 2", "Mock", "Final"},
		SortTerms([]string{"Mock", "Form 2 Term 2", "2023 Sem 1", "Final"}))
}

func TestCanonicalTermThenSort(t *testing.T) {
	var canon []string
	for _, raw := range []string{"T1", "Term 2", "3"} {
		canon = append(canon, CanonicalTerm(raw))
	}
	assert.Equal(t, []string{"Term 1", "Term 2", "Term 3"}, SortTerms(canon))

	assert.Equal(t, "", CanonicalTerm("  "))
	assert.Equal(t, "", CanonicalTerm("NaN"))
	assert.Equal(t, "Mock", CanonicalTerm(" Mock "))
	assert.Equal(t, "Term 2", CanonicalTerm(CanonicalTerm("term 02")))
}

func TestSortExams(t *testing.T) {
	got := SortExams([]string{"End Term", "Mock 2", "CAT 2", "Opener", "CAT 1"})
	assert.Equal(t, []string{"Opener", "CAT 1", "CAT 2", "End Term", "Mock 2"}, got)
}

func TestTermOrderEdgeCases(t *testing.T) {
	huge := "Term 99999999999999999999999"
	assert.Equal(t, math.MaxInt, TermOrder(huge))
	assert.Equal(t, huge, CanonicalTerm(huge))
	assert.Equal(t, 99, TermOrder("Final"))
	// Arabic-Indic three is not a term number
	assert.Equal(t, 99, TermOrder("Term ٣"))
	assert.Equal(t, "Term ٣", CanonicalTerm("Term ٣"))

	assert.Equal(t, []string{"Term 2", "Final", huge}, SortTerms([]string{huge, "Final", "Term 2"}))
}
