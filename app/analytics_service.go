package app

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"gradelens/domain/analytics"
	"gradelens/domain/core"
	"gradelens/domain/dataset"
	"gradelens/internal"
	"gradelens/internal/analysis/descriptive"
	"gradelens/internal/analysis/gaps"
	"gradelens/internal/analysis/insights"
	"gradelens/internal/analysis/risk"
)

// Engine names reported to the observer.
const (
	EngineOverview = "overview"
	EngineSubjects = "subjects"
	EngineRisk     = "risk"
	EngineGaps     = "gaps"
	EngineTerms    = "term_comparison"
	EngineInsights = "insights"
	EngineStudent  = "student_profile"
)

// EngineObserver receives per-engine timings, e.g. for prometheus.
type EngineObserver interface {
	ObserveEngine(engine string, elapsed time.Duration)
}

type noopObserver struct{}

func (noopObserver) ObserveEngine(string, time.Duration) {}

// AnalyticsService runs the analysis engines over one table. The engines
// are pure; the service owns concurrency, timing and run identity.
type AnalyticsService struct {
	insights *insights.Engine
	observer EngineObserver
	log      *internal.Logger
}

// NewAnalyticsService creates the service. A nil observer disables timing
// callbacks; a nil narrator selects the default templates.
func NewAnalyticsService(narrator insights.Narrator, observer EngineObserver) *AnalyticsService {
	if observer == nil {
		observer = noopObserver{}
	}
	return &AnalyticsService{
		insights: insights.NewEngine(narrator),
		observer: observer,
		log:      internal.DefaultLogger.WithComponent("AnalyticsService"),
	}
}

func (s *AnalyticsService) timed(engine string, fn func()) {
	start := time.Now()
	fn()
	s.observer.ObserveEngine(engine, time.Since(start))
}

// checkTable rejects empty tables and tables missing a column the caller
// cannot do without.
func checkTable(t *dataset.Table, required ...dataset.Field) error {
	if t.Len() == 0 {
		return core.ErrEmptyTable
	}
	return t.Schema.Require(required...)
}

// Run computes overview, subject statistics, risk, gaps and term
// comparison concurrently, then evaluates the insight rules over them.
func (s *AnalyticsService) Run(ctx context.Context, t *dataset.Table, passMark float64) (*analytics.Bundle, error) {
	return s.RunAs(ctx, core.NewRunID(), t, passMark)
}

// RunAs is Run under a caller-chosen run id, so a client can re-render a
// report or export under the id it already holds.
func (s *AnalyticsService) RunAs(ctx context.Context, id core.RunID, t *dataset.Table, passMark float64) (*analytics.Bundle, error) {
	if err := checkTable(t); err != nil {
		return nil, err
	}
	if id == "" {
		id = core.NewRunID()
	}
	start := time.Now()
	b := &analytics.Bundle{
		RunID:       id,
		PassMark:    passMark,
		GeneratedAt: start.UTC(),
	}
	s.log.Debug("run %s started (%d records, pass mark %g)", b.RunID, t.Len(), passMark)

	var (
		overview analytics.Overview
		subjects analytics.SubjectReport
		scored   analytics.RiskReport
		gapRep   analytics.GapReport
		terms    analytics.TermComparison
	)
	g, gctx := errgroup.WithContext(ctx)
	stage := func(engine string, fn func()) {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			s.timed(engine, fn)
			return nil
		})
	}
	stage(EngineOverview, func() { overview = descriptive.Overview(t, passMark) })
	stage(EngineSubjects, func() { subjects = descriptive.SubjectStats(t, passMark) })
	stage(EngineRisk, func() { scored = risk.Score(t, passMark) })
	stage(EngineGaps, func() { gapRep = gaps.Analyze(t, passMark) })
	stage(EngineTerms, func() { terms = descriptive.TermComparison(t, passMark) })
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("run %s cancelled: %w", b.RunID, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("run %s cancelled: %w", b.RunID, err)
	}

	var report analytics.InsightReport
	s.timed(EngineInsights, func() {
		report = s.insights.FromResults(t, passMark, insights.Results{
			Overview: overview,
			Subjects: subjects,
			Risk:     scored,
			Gaps:     gapRep,
		})
	})

	b.Overview = &overview
	b.Subjects = &subjects
	b.Risk = &scored
	b.Gaps = &gapRep
	b.Terms = &terms
	b.Insights = &report
	b.Duration = time.Since(start)
	s.log.Info("run %s finished in %s: %d insights, %d students at risk",
		b.RunID, b.Duration.Round(time.Microsecond), report.Summary.Total, scored.Summary.Total)
	return b, nil
}

// Overview runs the descriptive overview alone.
func (s *AnalyticsService) Overview(t *dataset.Table, passMark float64) (analytics.Overview, error) {
	var out analytics.Overview
	if err := checkTable(t); err != nil {
		return out, err
	}
	s.timed(EngineOverview, func() { out = descriptive.Overview(t, passMark) })
	return out, nil
}

// Subjects runs per-subject statistics and correlation.
func (s *AnalyticsService) Subjects(t *dataset.Table, passMark float64) (analytics.SubjectReport, error) {
	var out analytics.SubjectReport
	if err := checkTable(t); err != nil {
		return out, err
	}
	s.timed(EngineSubjects, func() { out = descriptive.SubjectStats(t, passMark) })
	return out, nil
}

// Risk scores every student and returns the filtered report.
func (s *AnalyticsService) Risk(t *dataset.Table, passMark float64) (analytics.RiskReport, error) {
	var out analytics.RiskReport
	if err := checkTable(t); err != nil {
		return out, err
	}
	s.timed(EngineRisk, func() { out = risk.Score(t, passMark) })
	return out, nil
}

// Gaps runs the gap analyses.
func (s *AnalyticsService) Gaps(t *dataset.Table, passMark float64) (analytics.GapReport, error) {
	var out analytics.GapReport
	if err := checkTable(t); err != nil {
		return out, err
	}
	s.timed(EngineGaps, func() { out = gaps.Analyze(t, passMark) })
	return out, nil
}

// TermComparison compares terms. A table without a term column yields a
// report carrying an error message, not an error.
func (s *AnalyticsService) TermComparison(t *dataset.Table, passMark float64) (analytics.TermComparison, error) {
	var out analytics.TermComparison
	if err := checkTable(t); err != nil {
		return out, err
	}
	s.timed(EngineTerms, func() { out = descriptive.TermComparison(t, passMark) })
	return out, nil
}

// Insights runs the full pipeline and returns only the insight report.
func (s *AnalyticsService) Insights(ctx context.Context, t *dataset.Table, passMark float64) (analytics.InsightReport, error) {
	b, err := s.Run(ctx, t, passMark)
	if err != nil {
		return analytics.InsightReport{}, err
	}
	return *b.Insights, nil
}

// Student returns one student's profile. The error wraps core.ErrNotFound
// when no row matches and core.ErrNoStudentColumn when rows cannot be
// attributed to students at all.
func (s *AnalyticsService) Student(t *dataset.Table, id string, passMark float64) (*analytics.StudentProfile, error) {
	if err := checkTable(t, dataset.FieldStudentID); err != nil {
		return nil, err
	}
	var (
		p  *analytics.StudentProfile
		ok bool
	)
	s.timed(EngineStudent, func() { p, ok = descriptive.StudentProfile(t, id, passMark) })
	if !ok {
		return nil, core.NewStudentNotFoundError(id)
	}
	return p, nil
}

// StudentRisk finds the assessment for one student among every scored
// student, not only the filtered list.
func (s *AnalyticsService) StudentRisk(t *dataset.Table, id string, passMark float64) (*analytics.StudentRisk, bool) {
	rep, err := s.Risk(t, passMark)
	if err != nil {
		return nil, false
	}
	for i := range rep.Scored {
		if rep.Scored[i].StudentID == id {
			return &rep.Scored[i], true
		}
	}
	return nil, false
}
