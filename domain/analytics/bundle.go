package analytics

import (
	"time"

	"gradelens/domain/core"
)

// Bundle is the full result of one analysis run over a table. It is the
// single input to every presentation collaborator (workbook export, HTML
// reports, API "all" responses).
type Bundle struct {
	RunID       core.RunID      `json:"run_id"`
	PassMark    float64         `json:"pass_mark"`
	GeneratedAt time.Time       `json:"generated_at"`
	Duration    time.Duration   `json:"duration_ns"`
	Overview    *Overview       `json:"overview"`
	Subjects    *SubjectReport  `json:"subjects"`
	Risk        *RiskReport     `json:"risk"`
	Gaps        *GapReport      `json:"gaps"`
	Terms       *TermComparison `json:"term_comparison"`
	Insights    *InsightReport  `json:"insights"`
}
