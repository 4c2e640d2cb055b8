package dataset

import (
	"strings"
)

// RawRow is one ingested row keyed by trimmed header name.
type RawRow map[string]string

// RawTable is header-ordered string data as delivered by ingestion.
type RawTable struct {
	Headers []string `json:"headers"`
	Rows    []RawRow `json:"rows"`
}

// NewRawTable builds a table from a header row and positional data rows.
// Short rows are padded with empty cells; surplus cells are dropped.
func NewRawTable(headers []string, rows [][]string) *RawTable {
	t := &RawTable{Headers: make([]string, len(headers))}
	for i, h := range headers {
		t.Headers[i] = strings.TrimSpace(h)
	}
	for _, row := range rows {
		r := make(RawRow, len(t.Headers))
		empty := true
		for j, h := range t.Headers {
			v := ""
			if j < len(row) {
				v = strings.TrimSpace(row[j])
			}
			if v != "" {
				empty = false
			}
			r[h] = v
		}
		if empty {
			continue
		}
		t.Rows = append(t.Rows, r)
	}
	return t
}

// HasColumn reports whether the exact header exists.
func (t *RawTable) HasColumn(name string) bool {
	for _, h := range t.Headers {
		if h == name {
			return true
		}
	}
	return false
}

// AddColumn appends a header if it is not already present.
func (t *RawTable) AddColumn(name string) {
	if !t.HasColumn(name) {
		t.Headers = append(t.Headers, name)
	}
}

// FindColumn resolves the first alias present in the table.
func (t *RawTable) FindColumn(aliases []string) (string, bool) {
	return FindColumn(t.Headers, aliases)
}

// Clone returns a deep copy so cleaning never mutates caller data.
func (t *RawTable) Clone() *RawTable {
	c := &RawTable{
		Headers: append([]string(nil), t.Headers...),
		Rows:    make([]RawRow, len(t.Rows)),
	}
	for i, r := range t.Rows {
		nr := make(RawRow, len(r))
		for k, v := range r {
			nr[k] = v
		}
		c.Rows[i] = nr
	}
	return c
}

// Record is one row of the normalized table.
type Record struct {
	StudentKey string   `json:"student_key"`
	StudentID  string   `json:"student_id,omitempty"`
	Name       string   `json:"name,omitempty"`
	Class      string   `json:"class,omitempty"`
	Gender     string   `json:"gender,omitempty"`
	Subject    string   `json:"subject,omitempty"`
	Term       string   `json:"term,omitempty"`
	Region     string   `json:"region,omitempty"`
	School     string   `json:"school,omitempty"`
	Exam       string   `json:"exam,omitempty"`
	Year       string   `json:"year,omitempty"`
	Percentage *float64 `json:"percentage"`
}

// HasScore reports whether the record carries a usable percentage.
func (r Record) HasScore() bool {
	return r.Percentage != nil
}

// Table is the normalized, read-only input to every analytics engine.
type Table struct {
	Schema  Schema   `json:"schema"`
	Records []Record `json:"records"`
}

// Len returns the number of records.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Records)
}
