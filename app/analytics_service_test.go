package app

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"gradelens/domain/core"
	"gradelens/domain/dataset"
	"gradelens/internal/analysis/descriptive"
	"gradelens/internal/analysis/risk"
	"gradelens/internal/testkit"
)

// MockObserver is a mock implementation of EngineObserver
type MockObserver struct {
	mock.Mock
}

func (m *MockObserver) ObserveEngine(engine string, elapsed time.Duration) {
	m.Called(engine, elapsed)
}

func schoolTable(t *testing.T) *dataset.Table {
	cfg := testkit.DefaultSchoolConfig()
	cfg.Students = 30
	ds, err := testkit.GenerateSchool(cfg)
	require.NoError(t, err)
	return ds.Table()
}

func TestRunBuildsFullBundle(t *testing.T) {
	obs := new(MockObserver)
	obs.On("ObserveEngine", mock.Anything, mock.Anything).Return()
	svc := NewAnalyticsService(nil, obs)
	table := schoolTable(t)

	b, err := svc.Run(context.Background(), table, 50)
	require.NoError(t, err)

	assert.NotEmpty(t, b.RunID)
	_, err = core.ParseRunID(b.RunID.String())
	assert.NoError(t, err)
	assert.Equal(t, 50.0, b.PassMark)
	require.NotNil(t, b.Overview)
	assert.Equal(t, descriptive.Overview(table, 50), *b.Overview)
	assert.Equal(t, risk.Score(table, 50).Summary, b.Risk.Summary)
	assert.Len(t, b.Terms.Terms, 3)
	assert.Equal(t, len(b.Insights.Insights), b.Insights.Summary.Total)
	assert.Positive(t, b.Duration)

	for _, engine := range []string{EngineOverview, EngineSubjects, EngineRisk, EngineGaps, EngineTerms, EngineInsights} {
		obs.AssertCalled(t, "ObserveEngine", engine, mock.Anything)
	}
	obs.AssertNumberOfCalls(t, "ObserveEngine", 6)
}

func TestRunAsKeepsRunID(t *testing.T) {
	svc := NewAnalyticsService(nil, nil)
	id := core.NewRunID()

	b, err := svc.RunAs(context.Background(), id, schoolTable(t), 50)
	require.NoError(t, err)
	assert.Equal(t, id, b.RunID)

	b, err = svc.RunAs(context.Background(), "", schoolTable(t), 50)
	require.NoError(t, err)
	assert.NotEqual(t, id, b.RunID)
	assert.NotEmpty(t, b.RunID)
}

func TestRunHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewAnalyticsService(nil, nil).Run(ctx, schoolTable(t), 50)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunRejectsEmptyTable(t *testing.T) {
	svc := NewAnalyticsService(nil, nil)
	_, err := svc.Run(context.Background(), &dataset.Table{}, 50)
	assert.ErrorIs(t, err, core.ErrEmptyTable)

	_, err = svc.Overview(&dataset.Table{}, 50)
	assert.ErrorIs(t, err, core.ErrEmptyTable)
}

func TestStudentLookups(t *testing.T) {
	svc := NewAnalyticsService(nil, nil)
	table := schoolTable(t)

	p, err := svc.Student(table, "STU001", 50)
	require.NoError(t, err)
	assert.Equal(t, "STU001", p.StudentID)

	_, err = svc.Student(table, "NOPE", 50)
	assert.True(t, core.IsNotFoundError(err))

	names := dataset.NewTable(dataset.NewRawTable([]string{"subject", "score"}, [][]string{{"Math", "40"}}))
	_, err = svc.Student(names, "STU001", 50)
	assert.ErrorIs(t, err, core.ErrNoStudentColumn)
	assert.False(t, core.IsNotFoundError(err))

	r, ok := svc.StudentRisk(table, "STU001", 50)
	require.True(t, ok)
	assert.Equal(t, "STU001", r.StudentID)
	_, ok = svc.StudentRisk(table, "NOPE", 50)
	assert.False(t, ok)
}

func TestSingleEngineCalls(t *testing.T) {
	svc := NewAnalyticsService(nil, nil)
	table := schoolTable(t)

	subjects, err := svc.Subjects(table, 50)
	require.NoError(t, err)
	assert.Len(t, subjects.Subjects, 6)

	g, err := svc.Gaps(table, 50)
	require.NoError(t, err)
	assert.NotEmpty(t, g.TermGaps)

	tc, err := svc.TermComparison(table, 50)
	require.NoError(t, err)
	assert.Empty(t, tc.Error)

	ins, err := svc.Insights(context.Background(), table, 50)
	require.NoError(t, err)
	assert.NotNil(t, ins.Insights)
}
