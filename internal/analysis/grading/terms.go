package grading

import (
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// digits matches ASCII digits only; numerals from other scripts are
// treated as text.
var digits = regexp.MustCompile(`[0-9]+`)

// noTermNumber is the order of labels without digits.
const noTermNumber = 99

var fixedTermOrder = map[string]int{
	"Term 1": 1,
	"Term 2": 2,
	"Term 3": 3,
}

// TermOrder is the calendar sort key of a term label: exact "Term N"
// labels map to N, anything else to its last number, and labels without
// digits sort last.
func TermOrder(term string) int {
	t := strings.TrimSpace(term)
	if o, ok := fixedTermOrder[t]; ok {
		return o
	}
	nums := digits.FindAllString(t, -1)
	if len(nums) == 0 {
		return noTermNumber
	}
	return termNumber(nums[len(nums)-1])
}

// termNumber parses a digit run. Runs too large for an int clamp to
// math.MaxInt so they still sort after every other label.
func termNumber(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return math.MaxInt
	}
	return n
}

// SortTerms returns a copy of terms in calendar order. Ties keep input order.
func SortTerms(terms []string) []string {
	out := append([]string(nil), terms...)
	sort.SliceStable(out, func(i, j int) bool {
		return TermOrder(out[i]) < TermOrder(out[j])
	})
	return out
}

// CanonicalTerm folds variants such as "T1", " term 1 " and "1" into
// "Term 1". Labels without digits are kept as trimmed; blanks and "nan"
// become "".
func CanonicalTerm(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" || strings.EqualFold(s, "nan") {
		return ""
	}
	m := digits.FindString(s)
	if m == "" {
		return s
	}
	// an overflowing number is not a term number; keep the label
	n, err := strconv.Atoi(m)
	if err != nil {
		return s
	}
	return "Term " + strconv.Itoa(n)
}

// ExamKey orders exams within a term: openers, then continuous
// assessment, then end-of-term papers, then everything else.
type ExamKey struct {
	Phase  int
	Number int
	Label  string
}

var examPhases = []struct {
	phase    int
	keywords []string
}{
	{1, []string{"opener", "opening", "baseline", "entry"}},
	{2, []string{"cat", "continuous", "mid", "midterm"}},
	{3, []string{"end", "final", "eot"}},
}

// KeyForExam computes the ordering key of an exam label.
func KeyForExam(label string) ExamKey {
	s := strings.ToLower(strings.TrimSpace(label))
	n := 0
	if m := digits.FindString(s); m != "" {
		n, _ = strconv.Atoi(m)
	}
	for _, p := range examPhases {
		for _, k := range p.keywords {
			if strings.Contains(s, k) {
				return ExamKey{Phase: p.phase, Number: n, Label: s}
			}
		}
	}
	return ExamKey{Phase: 4, Number: n, Label: s}
}

// Less compares two keys lexicographically.
func (k ExamKey) Less(o ExamKey) bool {
	if k.Phase != o.Phase {
		return k.Phase < o.Phase
	}
	if k.Number != o.Number {
		return k.Number < o.Number
	}
	return k.Label < o.Label
}

// SortExams returns a copy of exam labels in sitting order.
func SortExams(exams []string) []string {
	out := append([]string(nil), exams...)
	sort.SliceStable(out, func(i, j int) bool {
		return KeyForExam(out[i]).Less(KeyForExam(out[j]))
	})
	return out
}
