package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"gradelens/domain/core"
)

func TestResolveSchemaAliases(t *testing.T) {
	s := ResolveSchema([]string{" Adm_No ", "Full_Name", "Stream", "Semester", "Marks", "Out_Of"})

	assert.Equal(t, " Adm_No ", s.StudentID)
	assert.Equal(t, s.StudentID, s.StudentKey)
	assert.Equal(t, "Full_Name", s.Name)
	assert.Equal(t, "Stream", s.Class)
	assert.Equal(t, "Semester", s.Term)
	assert.Equal(t, "Marks", s.Score)
	assert.Equal(t, "Out_Of", s.MaxScore)
	assert.False(t, s.Has(FieldGender))
}

func TestResolveSchemaFallsBackToName(t *testing.T) {
	s := ResolveSchema([]string{"Student_Name", "Score"})
	assert.Equal(t, "Student_Name", s.StudentKey)
	assert.Empty(t, s.StudentID)
}

func TestSchemaRequire(t *testing.T) {
	tests := []struct {
		name    string
		headers []string
		fields  []Field
		want    error
	}{
		{"students by id", []string{"student_id", "score"}, []Field{FieldStudentID}, nil},
		{"students by name", []string{"name", "term", "score"}, []Field{FieldStudentID, FieldTerm}, nil},
		{"no student column", []string{"subject", "score"}, []Field{FieldStudentID}, core.ErrNoStudentColumn},
		{"no term column", []string{"student_id", "score"}, []Field{FieldStudentID, FieldTerm}, core.ErrNoTermColumn},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ResolveSchema(tt.headers).Require(tt.fields...)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
			assert.True(t, core.IsShapeError(err))
		})
	}

	err := ResolveSchema([]string{"student_id"}).Require(FieldRegion)
	assert.EqualError(t, err, "no region column found")
}
