package report

import (
	"sort"
	"strings"

	"gradelens/domain/dataset"
)

var schoolAliases = []string{"school", "school_name", "institution"}

// ResolveSchoolName picks the most common non-empty value of the first
// school column present, falling back when there is none. Ties go to the
// alphabetically smallest name.
func ResolveSchoolName(raw *dataset.RawTable, fallback string) string {
	if raw == nil {
		return fallback
	}
	for _, alias := range schoolAliases {
		col, ok := raw.FindColumn([]string{alias})
		if !ok {
			continue
		}
		counts := map[string]int{}
		for _, row := range raw.Rows {
			if v := strings.TrimSpace(row[col]); v != "" && !dataset.IsMissing(v) {
				counts[v]++
			}
		}
		if len(counts) == 0 {
			continue
		}
		names := make([]string, 0, len(counts))
		for name := range counts {
			names = append(names, name)
		}
		sort.Slice(names, func(i, j int) bool {
			if counts[names[i]] != counts[names[j]] {
				return counts[names[i]] > counts[names[j]]
			}
			return names[i] < names[j]
		})
		return names[0]
	}
	return fallback
}
