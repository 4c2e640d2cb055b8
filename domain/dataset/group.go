package dataset

import "sort"

// Group is a set of records sharing one key.
type Group struct {
	Key     string
	Records []Record
}

// GroupBy partitions records by key in first-seen order. Records with an
// empty key are skipped.
func GroupBy(records []Record, key func(Record) string) []Group {
	index := map[string]int{}
	var groups []Group
	for _, r := range records {
		k := key(r)
		if k == "" {
			continue
		}
		i, ok := index[k]
		if !ok {
			i = len(groups)
			index[k] = i
			groups = append(groups, Group{Key: k})
		}
		groups[i].Records = append(groups[i].Records, r)
	}
	return groups
}

// GroupBySorted is GroupBy with keys in lexical order.
func GroupBySorted(records []Record, key func(Record) string) []Group {
	groups := GroupBy(records, key)
	sort.SliceStable(groups, func(i, j int) bool { return groups[i].Key < groups[j].Key })
	return groups
}

// Filter returns the records matching keep.
func Filter(records []Record, keep func(Record) bool) []Record {
	var out []Record
	for _, r := range records {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}

// Scores extracts the non-nil percentages.
func Scores(records []Record) []float64 {
	out := make([]float64, 0, len(records))
	for _, r := range records {
		if r.Percentage != nil {
			out = append(out, *r.Percentage)
		}
	}
	return out
}

// Distinct returns the unique non-empty values in first-seen order.
func Distinct(records []Record, key func(Record) string) []string {
	seen := map[string]bool{}
	var out []string
	for _, r := range records {
		k := key(r)
		if k == "" || seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, k)
	}
	return out
}

// Key accessors used with GroupBy and Distinct.
func ByStudent(r Record) string { return r.StudentKey }
func BySubject(r Record) string { return r.Subject }
func ByClass(r Record) string   { return r.Class }
func ByTerm(r Record) string    { return r.Term }
func ByRegion(r Record) string  { return r.Region }
func ByExam(r Record) string    { return r.Exam }
