package normalize

import (
	"fmt"
	"strings"
)

// Report records what a cleaning run changed.
type Report struct {
	OriginalRows    int      `json:"original_rows"`
	OriginalColumns int      `json:"original_columns"`
	Steps           []string `json:"steps"`
	Warnings        []string `json:"warnings"`
	// Malformed samples the first cells that failed numeric coercion.
	Malformed      []string `json:"malformed_values,omitempty"`
	CleanedRows    int      `json:"cleaned_rows"`
	CleanedColumns int      `json:"cleaned_columns"`
	Columns        []string `json:"columns"`
}

// Text renders the report for terminals and logs.
func (r *Report) Text() string {
	var b strings.Builder
	b.WriteString("═══ Data Cleaning Report ═══\n")
	fmt.Fprintf(&b, "Original: %d rows × %d columns\n", r.OriginalRows, r.OriginalColumns)
	fmt.Fprintf(&b, "Cleaned:  %d rows × %d columns\n", r.CleanedRows, r.CleanedColumns)
	b.WriteString("\nSteps performed:\n")
	for i, s := range r.Steps {
		fmt.Fprintf(&b, "  %d. %s\n", i+1, s)
	}
	if len(r.Warnings) > 0 {
		b.WriteString("\n⚠ Warnings:\n")
		for _, w := range r.Warnings {
			fmt.Fprintf(&b, "  • %s\n", w)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}
