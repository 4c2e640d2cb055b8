package dataset

import (
	"math"
	"strconv"
	"strings"
)

// missingTokens are cell values treated as absent.
var missingTokens = map[string]bool{
	"":     true,
	"nan":  true,
	"none": true,
	"null": true,
	"n/a":  true,
	"na":   true,
}

// IsMissing reports whether a cell holds no value.
func IsMissing(v string) bool {
	return missingTokens[strings.ToLower(strings.TrimSpace(v))]
}

// ParseNumeric coerces a cell to a finite float. ok is false for missing,
// malformed, NaN and infinite values.
func ParseNumeric(v string) (float64, bool) {
	v = strings.TrimSpace(v)
	if IsMissing(v) {
		return 0, false
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// FormatNumeric renders a float the way ingestion would have read it.
func FormatNumeric(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// DerivePercentage applies the percentage rule to one raw row: an explicit
// percentage column wins; otherwise score/max*100 rounded to 2 places when
// max is present and positive, else the raw score.
func DerivePercentage(row RawRow, s Schema) *float64 {
	if s.Percentage != "" {
		if v, ok := ParseNumeric(row[s.Percentage]); ok {
			return &v
		}
		return nil
	}
	if s.Score == "" {
		return nil
	}
	score, ok := ParseNumeric(row[s.Score])
	if !ok {
		return nil
	}
	if s.MaxScore != "" {
		if max, ok := ParseNumeric(row[s.MaxScore]); ok && max > 0 {
			pct := math.Round(score/max*100*100) / 100
			return &pct
		}
	}
	return &score
}

// NewTable resolves the schema once and converts every raw row into a typed
// Record. It never fails: unusable numerics become nil percentages.
func NewTable(raw *RawTable) *Table {
	if raw == nil {
		return &Table{}
	}
	s := ResolveSchema(raw.Headers)
	t := &Table{Schema: s, Records: make([]Record, 0, len(raw.Rows))}

	cell := func(row RawRow, col string) string {
		if col == "" {
			return ""
		}
		v := strings.TrimSpace(row[col])
		if IsMissing(v) {
			return ""
		}
		return v
	}

	for _, row := range raw.Rows {
		rec := Record{
			StudentKey: cell(row, s.StudentKey),
			StudentID:  cell(row, s.StudentID),
			Name:       cell(row, s.Name),
			Class:      cell(row, s.Class),
			Gender:     cell(row, s.Gender),
			Subject:    cell(row, s.Subject),
			Term:       cell(row, s.Term),
			Region:     cell(row, s.Region),
			School:     cell(row, s.School),
			Exam:       cell(row, s.Exam),
			Year:       cell(row, s.Year),
			Percentage: DerivePercentage(row, s),
		}
		t.Records = append(t.Records, rec)
	}
	return t
}

// FromMaps builds a table from JSON-style row objects, the shape the HTTP
// layer receives. Header order follows first appearance.
func FromMaps(rows []map[string]any) *RawTable {
	raw := &RawTable{}
	seen := map[string]bool{}
	for _, m := range rows {
		for k := range m {
			if !seen[k] {
				seen[k] = true
				raw.Headers = append(raw.Headers, k)
			}
		}
	}
	sortHeadersStable(raw.Headers, rows)
	for _, m := range rows {
		r := make(RawRow, len(raw.Headers))
		for _, h := range raw.Headers {
			r[h] = stringify(m[h])
		}
		raw.Rows = append(raw.Rows, r)
	}
	return raw
}

// sortHeadersStable orders headers by their position in the first row that
// contains them. Map iteration order is random, so this keeps schema
// resolution deterministic when two aliases collide.
func sortHeadersStable(headers []string, rows []map[string]any) {
	rank := func(h string) int {
		for i, m := range rows {
			if _, ok := m[h]; ok {
				return i
			}
		}
		return len(rows)
	}
	for i := 1; i < len(headers); i++ {
		for j := i; j > 0; j-- {
			a, b := headers[j-1], headers[j]
			ra, rb := rank(a), rank(b)
			if ra < rb || (ra == rb && a <= b) {
				break
			}
			headers[j-1], headers[j] = b, a
		}
	}
}

func stringify(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(x)
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return ""
		}
		return FormatNumeric(x)
	case float32:
		return FormatNumeric(float64(x))
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case bool:
		return strconv.FormatBool(x)
	case interface{ String() string }:
		return x.String()
	}
	return ""
}
