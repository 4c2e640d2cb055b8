// Package grading holds the universal A-F grade scale and the term and
// exam ordering rules shared by the analytics engines.
package grading

import (
	"math"
)

// NoGrade marks a term or cell with no scores at all.
const NoGrade = "—"

// System is the only grading system name reported to clients.
const System = "universal"

// Band is one grade band, ordered high to low in Scale.
type Band struct {
	Min         float64 `json:"min"`
	Label       string  `json:"label"`
	Points      int     `json:"points"`
	Description string  `json:"description"`
}

// Scale is the universal A-F band table.
var Scale = []Band{
	{Min: 80, Label: "A", Points: 6, Description: "Excellent"},
	{Min: 70, Label: "B", Points: 5, Description: "Very Good"},
	{Min: 60, Label: "C", Points: 4, Description: "Good"},
	{Min: 50, Label: "D", Points: 3, Description: "Satisfactory"},
	{Min: 40, Label: "E", Points: 2, Description: "Needs Improvement"},
	{Min: 0, Label: "F", Points: 1, Description: "Poor"},
}

// Grade is the classification of a single score.
type Grade struct {
	Label       string   `json:"label"`
	Points      int      `json:"points"`
	Description string   `json:"description"`
	System      string   `json:"system"`
	Score       *float64 `json:"score,omitempty"`
}

// Classify grades a score after clamping it to [0, 100]. A nil or
// non-finite score grades as "-".
func Classify(score *float64) Grade {
	if score == nil || math.IsNaN(*score) {
		return Grade{Label: "-", Points: 0, Description: "No score", System: System}
	}
	v := math.Max(0, math.Min(100, *score))
	rounded := math.Round(v*10) / 10
	for _, b := range Scale {
		if v >= b.Min {
			return Grade{Label: b.Label, Points: b.Points, Description: b.Description, System: System, Score: &rounded}
		}
	}
	last := Scale[len(Scale)-1]
	return Grade{Label: last.Label, Points: last.Points, Description: last.Description, System: System, Score: &rounded}
}

// Label is shorthand for Classify(score).Label.
func Label(score *float64) string {
	return Classify(score).Label
}

// LabelOrNone grades a score, returning NoGrade when it is nil.
func LabelOrNone(score *float64) string {
	if score == nil {
		return NoGrade
	}
	return Label(score)
}

// Points is shorthand for Classify(score).Points.
func Points(score *float64) int {
	return Classify(score).Points
}

// Threshold is a band with its inclusive upper bound, for legends.
type Threshold struct {
	Min         float64 `json:"min"`
	Max         float64 `json:"max"`
	Label       string  `json:"label"`
	Points      int     `json:"points"`
	Description string  `json:"description"`
}

// Thresholds lists the scale; each band tops out 0.01 below the next one up.
func Thresholds() []Threshold {
	out := make([]Threshold, len(Scale))
	for i, b := range Scale {
		max := 100.0
		if i > 0 {
			max = math.Round((Scale[i-1].Min-0.01)*100) / 100
		}
		out[i] = Threshold{Min: b.Min, Max: max, Label: b.Label, Points: b.Points, Description: b.Description}
	}
	return out
}

// MeanGrade is the grade of the mean of the clamped scores.
type MeanGrade struct {
	Grade
	Mean *float64 `json:"mean"`
}

// Mean grades the average of scores, each clamped to [0, 100] first.
func Mean(scores []float64) MeanGrade {
	var sum float64
	n := 0
	for _, s := range scores {
		if math.IsNaN(s) {
			continue
		}
		sum += math.Max(0, math.Min(100, s))
		n++
	}
	if n == 0 {
		return MeanGrade{Grade: Grade{Label: "-", Points: 0, Description: "No score", System: System}}
	}
	m := sum / float64(n)
	rounded := math.Round(m*100) / 100
	return MeanGrade{Grade: Classify(&m), Mean: &rounded}
}
