package dataset

import (
	"fmt"
	"strings"

	"gradelens/domain/core"
)

// Field names a logical column the engines understand.
type Field string

const (
	FieldStudentID  Field = "student_id"
	FieldName       Field = "name"
	FieldClass      Field = "class"
	FieldSubject    Field = "subject"
	FieldTerm       Field = "term"
	FieldGender     Field = "gender"
	FieldRegion     Field = "region"
	FieldSchool     Field = "school"
	FieldExam       Field = "exam"
	FieldYear       Field = "year"
	FieldPercentage Field = "percentage"
	FieldScore      Field = "score"
	FieldMaxScore   Field = "max_score"
)

// Aliases is the single column-alias table shared by ingestion, cleaning
// and every engine. Order is preference order.
var Aliases = map[Field][]string{
	FieldStudentID:  {"student_id", "studentid", "id", "adm_no", "admission_no", "reg_no"},
	FieldName:       {"name", "student_name", "full_name", "student"},
	FieldClass:      {"class", "grade", "form", "stream"},
	FieldSubject:    {"subject", "subject_name", "course"},
	FieldTerm:       {"term", "semester", "exam_period"},
	FieldGender:     {"gender", "sex", "m/f", "gen"},
	FieldRegion:     {"region", "county", "district", "zone", "province"},
	FieldSchool:     {"school", "school_name"},
	FieldExam:       {"exam_name", "assessment", "assessment_name", "exam", "exam_type", "test"},
	FieldYear:       {"year", "academic_year", "academic year"},
	FieldPercentage: {"percentage"},
	FieldScore:      {"score", "marks", "mark", "total", "total_score", "raw_score", "points", "result"},
	FieldMaxScore:   {"max_score", "max_marks", "total_marks", "out_of", "max", "maximum"},
}

// FindColumn returns the header matching the first alias, compared
// case-insensitively after trimming.
func FindColumn(headers []string, aliases []string) (string, bool) {
	lower := make(map[string]string, len(headers))
	for _, h := range headers {
		key := strings.ToLower(strings.TrimSpace(h))
		if _, seen := lower[key]; !seen {
			lower[key] = h
		}
	}
	for _, a := range aliases {
		if col, ok := lower[strings.ToLower(a)]; ok {
			return col, true
		}
	}
	return "", false
}

// Schema records which source column backs each logical field.
// An empty string means the field is absent.
type Schema struct {
	StudentKey string `json:"student_key,omitempty"`
	StudentID  string `json:"student_id,omitempty"`
	Name       string `json:"name,omitempty"`
	Class      string `json:"class,omitempty"`
	Subject    string `json:"subject,omitempty"`
	Term       string `json:"term,omitempty"`
	Gender     string `json:"gender,omitempty"`
	Region     string `json:"region,omitempty"`
	School     string `json:"school,omitempty"`
	Exam       string `json:"exam,omitempty"`
	Year       string `json:"year,omitempty"`
	Percentage string `json:"percentage,omitempty"`
	Score      string `json:"score,omitempty"`
	MaxScore   string `json:"max_score,omitempty"`
}

// ResolveSchema detects every logical field once. The grouping key is the
// student id column when present, otherwise the name column.
func ResolveSchema(headers []string) Schema {
	find := func(f Field) string {
		col, _ := FindColumn(headers, Aliases[f])
		return col
	}
	s := Schema{
		StudentID:  find(FieldStudentID),
		Name:       find(FieldName),
		Class:      find(FieldClass),
		Subject:    find(FieldSubject),
		Term:       find(FieldTerm),
		Gender:     find(FieldGender),
		Region:     find(FieldRegion),
		School:     find(FieldSchool),
		Exam:       find(FieldExam),
		Year:       find(FieldYear),
		Percentage: find(FieldPercentage),
		Score:      find(FieldScore),
		MaxScore:   find(FieldMaxScore),
	}
	s.StudentKey = s.StudentID
	if s.StudentKey == "" {
		s.StudentKey = s.Name
	}
	return s
}

// Has reports whether the logical field resolved to a column.
func (s Schema) Has(f Field) bool {
	return s.Column(f) != ""
}

// Column returns the source column for a field.
func (s Schema) Column(f Field) string {
	switch f {
	case FieldStudentID:
		return s.StudentID
	case FieldName:
		return s.Name
	case FieldClass:
		return s.Class
	case FieldSubject:
		return s.Subject
	case FieldTerm:
		return s.Term
	case FieldGender:
		return s.Gender
	case FieldRegion:
		return s.Region
	case FieldSchool:
		return s.School
	case FieldExam:
		return s.Exam
	case FieldYear:
		return s.Year
	case FieldPercentage:
		return s.Percentage
	case FieldScore:
		return s.Score
	case FieldMaxScore:
		return s.MaxScore
	}
	return ""
}

// HasStudents reports whether records can be grouped per student.
func (s Schema) HasStudents() bool {
	return s.StudentKey != ""
}

// Require checks that the fields an analysis groups by resolved to a
// column. FieldStudentID accepts either the id or the name column.
func (s Schema) Require(fields ...Field) error {
	for _, f := range fields {
		switch f {
		case FieldStudentID:
			if !s.HasStudents() {
				return core.ErrNoStudentColumn
			}
		case FieldTerm:
			if !s.Has(FieldTerm) {
				return core.ErrNoTermColumn
			}
		default:
			if !s.Has(f) {
				return fmt.Errorf("no %s column found", f)
			}
		}
	}
	return nil
}
