package testkit

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gradelens/adapters/excel"
	"gradelens/domain/dataset"
)

func smallConfig() SchoolGeneratorConfig {
	cfg := DefaultSchoolConfig()
	cfg.Students = 12
	cfg.Subjects = []string{"Mathematics", "English"}
	cfg.Terms = 2
	return cfg
}

func TestSchoolGeneratorShape(t *testing.T) {
	ds, err := GenerateSchool(smallConfig())
	require.NoError(t, err)

	assert.Len(t, ds.Rows, 12*2*2*2)
	table := ds.Table()
	assert.True(t, table.Schema.HasStudents())
	for _, f := range []dataset.Field{dataset.FieldClass, dataset.FieldGender, dataset.FieldRegion,
		dataset.FieldSubject, dataset.FieldTerm, dataset.FieldExam, dataset.FieldScore, dataset.FieldMaxScore} {
		assert.True(t, table.Schema.Has(f), f)
	}
	for _, r := range table.Records {
		require.NotNil(t, r.Percentage)
		assert.GreaterOrEqual(t, *r.Percentage, 0.0)
		assert.LessOrEqual(t, *r.Percentage, 100.0)
	}
}

func TestSchoolGeneratorDeterministic(t *testing.T) {
	a, err := GenerateSchool(smallConfig())
	require.NoError(t, err)
	b, err := GenerateSchool(smallConfig())
	require.NoError(t, err)
	assert.Equal(t, a.Rows, b.Rows)

	cfg := smallConfig()
	cfg.Seed = 7
	c, err := GenerateSchool(cfg)
	require.NoError(t, err)
	assert.NotEqual(t, a.Rows, c.Rows)
}

func TestSchoolGeneratorRejectsBadConfig(t *testing.T) {
	cfg := smallConfig()
	cfg.Students = 0
	_, err := GenerateSchool(cfg)
	assert.Error(t, err)

	cfg = smallConfig()
	cfg.Subjects = nil
	_, err = GenerateSchool(cfg)
	assert.Error(t, err)
}

func TestSchoolGeneratorFilesRoundTrip(t *testing.T) {
	ds, err := GenerateSchool(smallConfig())
	require.NoError(t, err)
	dir := t.TempDir()

	csvPath := filepath.Join(dir, "school.csv")
	require.NoError(t, WriteCSV(csvPath, ds))
	fromCSV, err := excel.NewDataReader(csvPath).ReadData()
	require.NoError(t, err)
	assert.Len(t, fromCSV.Rows, len(ds.Rows))

	xlsxPath := filepath.Join(dir, "school.xlsx")
	require.NoError(t, WriteXLSX(xlsxPath, ds))
	fromXLSX, err := excel.NewDataReader(xlsxPath).ReadData()
	require.NoError(t, err)
	assert.Equal(t, Headers, fromXLSX.Headers)
	assert.Equal(t, ds.Rows[0][8], fromXLSX.Rows[0]["score"])
}
