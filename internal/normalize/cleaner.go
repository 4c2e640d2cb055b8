// Package normalize cleans raw uploaded tables before they reach the
// analytics engines: gender and subject vocabularies, numeric coercion,
// percentage derivation, outlier flags, de-duplication and pass/fail.
package normalize

import (
	"fmt"
	"math"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"gradelens/domain/core"
	"gradelens/domain/dataset"
	"gradelens/internal/analysis/numeric"
)

// Derived column names appended by Clean.
const (
	ColumnPercentage = "percentage"
	ColumnOutlier    = "is_outlier"
	ColumnPassFail   = "pass_fail"
)

// Pass/fail cell values.
const (
	Pass          = "Pass"
	Fail          = "Fail"
	NotApplicable = "N/A"
)

const outlierZ = 3.0

// GenderMap folds free-text gender values. Unmapped values become Other.
var GenderMap = map[string]string{
	"m": "Male", "male": "Male", "boy": "Male", "b": "Male", "man": "Male",
	"f": "Female", "female": "Female", "girl": "Female", "g": "Female", "woman": "Female",
	"other": "Other", "non-binary": "Other", "nb": "Other", "x": "Other",
}

// SubjectMap folds subject abbreviations and variants to canonical names.
var SubjectMap = map[string]string{
	"maths": "Mathematics", "math": "Mathematics", "mathematics": "Mathematics", "mat": "Mathematics",
	"eng": "English", "english": "English", "english language": "English", "engl": "English",
	"kis": "Kiswahili", "kiswahili": "Kiswahili", "swahili": "Kiswahili", "kiswa": "Kiswahili",
	"sci": "Science", "science": "Science", "general science": "Science",
	"bio": "Biology", "biology": "Biology",
	"phy": "Physics", "physics": "Physics", "phys": "Physics",
	"chem": "Chemistry", "chemistry": "Chemistry",
	"hist": "History", "history": "History", "history & government": "History", "hist & gov": "History",
	"geo": "Geography", "geography": "Geography", "geog": "Geography",
	"cre": "CRE", "christian religious education": "CRE", "c.r.e": "CRE", "c.r.e.": "CRE",
	"ire": "IRE", "islamic religious education": "IRE", "i.r.e": "IRE",
	"bus": "Business Studies", "business": "Business Studies", "business studies": "Business Studies",
	"agri": "Agriculture", "agriculture": "Agriculture", "agric": "Agriculture",
	"comp": "Computer Studies", "computer": "Computer Studies", "computer studies": "Computer Studies",
	"ict": "Computer Studies",
	"art": "Art & Design", "art and design": "Art & Design", "art & design": "Art & Design",
	"music":  "Music",
	"french": "French", "fre": "French",
	"german":       "German",
	"arabic":       "Arabic",
	"home science": "Home Science", "home sci": "Home Science", "hs": "Home Science",
	"pe": "Physical Education", "physical education": "Physical Education",
	"p.e": "Physical Education", "p.e.": "Physical Education",
	"sst": "Social Studies", "social studies": "Social Studies", "s.s.t": "Social Studies",
}

var (
	scoreAliases = []string{"score", "marks", "mark", "total", "total_score", "raw_score", "points", "result", "percentage"}
	idAliases    = []string{"student_id", "studentid", "id", "adm_no", "reg_no"}
	nameAliases  = []string{"name", "student_name", "full_name"}
)

// Options tunes a cleaning run.
type Options struct {
	PassMark           float64
	TreatMissingAsZero bool
}

// StandardizeGender maps one gender cell. Missing cells become Unknown.
func StandardizeGender(v string) string {
	if dataset.IsMissing(v) {
		return "Unknown"
	}
	if g, ok := GenderMap[strings.ToLower(strings.TrimSpace(v))]; ok {
		return g
	}
	return "Other"
}

// NormalizeSubject maps one subject cell, title-casing unknown names.
// Missing cells stay missing.
func NormalizeSubject(v string) string {
	v = strings.TrimSpace(v)
	if dataset.IsMissing(v) {
		return ""
	}
	if s, ok := SubjectMap[strings.ToLower(v)]; ok {
		return s
	}
	return cases.Title(language.Und).String(v)
}

// Clean runs the cleaning pipeline on a copy of raw. The input is never
// mutated.
func Clean(raw *dataset.RawTable, opts Options) (*dataset.RawTable, *Report) {
	if raw == nil {
		raw = &dataset.RawTable{}
	}
	report := &Report{
		OriginalRows:    len(raw.Rows),
		OriginalColumns: len(raw.Headers),
		Steps:           []string{},
		Warnings:        []string{},
	}

	t := raw.Clone()
	c := &cleaner{t: t, opts: opts, report: report}

	c.dropEmpty()
	c.trim()
	c.genders()
	subjectCol := c.subjects()
	scoreCol := c.scores()
	c.outliers()
	c.dedupe(subjectCol, scoreCol)
	c.passFail()

	report.CleanedRows = len(t.Rows)
	report.CleanedColumns = len(t.Headers)
	report.Columns = append([]string(nil), t.Headers...)
	return t, report
}

type cleaner struct {
	t      *dataset.RawTable
	opts   Options
	report *Report
}

func (c *cleaner) step(format string, args ...any) {
	c.report.Steps = append(c.report.Steps, fmt.Sprintf(format, args...))
}

// maxMalformedSamples caps Report.Malformed.
const maxMalformedSamples = 5

func (c *cleaner) malformed(column, value string) {
	if len(c.report.Malformed) < maxMalformedSamples {
		c.report.Malformed = append(c.report.Malformed, core.NewMalformedNumericError(column, value).Error())
	}
}

func (c *cleaner) warn(format string, args ...any) {
	c.report.Warnings = append(c.report.Warnings, fmt.Sprintf(format, args...))
}

func (c *cleaner) dropEmpty() {
	kept := c.t.Rows[:0]
	for _, r := range c.t.Rows {
		for _, h := range c.t.Headers {
			if strings.TrimSpace(r[h]) != "" {
				kept = append(kept, r)
				break
			}
		}
	}
	if dropped := len(c.t.Rows) - len(kept); dropped > 0 {
		c.step("Dropped %d empty rows.", dropped)
	}
	c.t.Rows = kept
}

func (c *cleaner) trim() {
	for _, r := range c.t.Rows {
		for _, h := range c.t.Headers {
			v := strings.TrimSpace(r[h])
			if dataset.IsMissing(v) {
				v = ""
			}
			r[h] = v
		}
	}
	c.step("Trimmed whitespace from all string fields.")
}

func (c *cleaner) genders() {
	col, ok := c.t.FindColumn(dataset.Aliases[dataset.FieldGender])
	if !ok {
		return
	}
	var before, after uniqueList
	for _, r := range c.t.Rows {
		if r[col] != "" {
			before.add(r[col])
		}
		r[col] = StandardizeGender(r[col])
		after.add(r[col])
	}
	c.step("Standardized gender values: %s → %s", before, after)
}

func (c *cleaner) subjects() string {
	col, ok := c.t.FindColumn(dataset.Aliases[dataset.FieldSubject])
	if !ok {
		return ""
	}
	var before, after uniqueList
	for _, r := range c.t.Rows {
		if r[col] != "" {
			before.add(r[col])
		}
		r[col] = NormalizeSubject(r[col])
		if r[col] != "" {
			after.add(r[col])
		}
	}
	normalized := 0
	for _, s := range before {
		if m, ok := SubjectMap[strings.ToLower(s)]; ok && m != s {
			normalized++
		}
	}
	c.step("Normalized %d subject name variants. Subjects found: %s", normalized, after)
	return col
}

// scores coerces score and max columns, derives percentage and handles
// missing scores. It returns the score column name, or "" if none.
func (c *cleaner) scores() string {
	scoreCol, ok := c.t.FindColumn(scoreAliases)
	if !ok {
		return ""
	}
	maxCol, hasMax := c.t.FindColumn(dataset.Aliases[dataset.FieldMaxScore])

	malformed := 0
	for _, r := range c.t.Rows {
		v := r[scoreCol]
		if v == "" {
			continue
		}
		f, ok := dataset.ParseNumeric(v)
		if !ok {
			malformed++
			c.malformed(scoreCol, v)
			r[scoreCol] = ""
			continue
		}
		r[scoreCol] = dataset.FormatNumeric(f)
	}
	if malformed > 0 {
		c.warn("%d score values could not be converted to numbers.", malformed)
	}
	c.step("Converted scores to numeric.")

	if hasMax {
		for _, r := range c.t.Rows {
			if f, ok := dataset.ParseNumeric(r[maxCol]); ok {
				r[maxCol] = dataset.FormatNumeric(f)
			} else {
				r[maxCol] = ""
			}
		}
	}

	c.t.AddColumn(ColumnPercentage)
	for _, r := range c.t.Rows {
		score, ok := dataset.ParseNumeric(r[scoreCol])
		if !ok {
			r[ColumnPercentage] = ""
			continue
		}
		pct := score
		if hasMax {
			if m, ok := dataset.ParseNumeric(r[maxCol]); ok && m > 0 {
				pct = numeric.Round(score/m*100, 2)
			}
		}
		r[ColumnPercentage] = dataset.FormatNumeric(pct)
	}
	if hasMax {
		c.step("Computed percentage from score / max_score.")
	} else {
		c.step("Using score as percentage (no max_score column found).")
	}

	missing := 0
	for _, r := range c.t.Rows {
		if r[scoreCol] == "" {
			missing++
		}
	}
	if missing == 0 {
		return scoreCol
	}
	if c.opts.TreatMissingAsZero {
		for _, r := range c.t.Rows {
			if r[scoreCol] == "" {
				r[scoreCol] = "0"
			}
			if r[ColumnPercentage] == "" {
				r[ColumnPercentage] = "0"
			}
		}
		c.step("Treated %d missing scores as 0.", missing)
		return scoreCol
	}
	c.warn("%d rows have missing scores. They will be excluded from aggregations.", missing)
	c.step("Flagged %d missing scores (not treated as 0).", missing)
	return scoreCol
}

func (c *cleaner) outliers() {
	if !c.t.HasColumn(ColumnPercentage) {
		return
	}
	var values []float64
	for _, r := range c.t.Rows {
		if f, ok := dataset.ParseNumeric(r[ColumnPercentage]); ok {
			values = append(values, f)
		}
	}
	if len(values) <= 2 {
		return
	}
	mean, sd := numeric.Mean(values), numeric.StdDev(values)
	if !(sd > 0) {
		return
	}
	flags := make([]bool, len(c.t.Rows))
	n := 0
	for i, r := range c.t.Rows {
		f, ok := dataset.ParseNumeric(r[ColumnPercentage])
		if ok && math.Abs((f-mean)/sd) > outlierZ {
			flags[i] = true
			n++
		}
	}
	if n == 0 {
		return
	}
	c.t.AddColumn(ColumnOutlier)
	for i, r := range c.t.Rows {
		r[ColumnOutlier] = fmt.Sprintf("%t", flags[i])
	}
	c.warn("%d potential outliers detected (|z-score| > 3). Flagged but not removed.", n)
	c.step("Detected %d outliers via z-score.", n)
}

func (c *cleaner) dedupe(subjectCol, scoreCol string) {
	var keys []string
	if col, ok := c.t.FindColumn(idAliases); ok {
		keys = append(keys, col)
	} else if col, ok := c.t.FindColumn(nameAliases); ok {
		keys = append(keys, col)
	}
	if subjectCol != "" {
		keys = append(keys, subjectCol)
	}
	if col, ok := c.t.FindColumn(dataset.Aliases[dataset.FieldTerm]); ok {
		keys = append(keys, col)
	}
	for _, f := range []dataset.Field{dataset.FieldExam, dataset.FieldYear} {
		if col, ok := c.t.FindColumn(dataset.Aliases[f]); ok && !contains(keys, col) {
			keys = append(keys, col)
		}
	}
	if scoreCol != "" && !contains(keys, scoreCol) {
		keys = append(keys, scoreCol)
	}
	if len(keys) == 0 {
		return
	}

	last := make(map[string]int, len(c.t.Rows))
	for i, r := range c.t.Rows {
		last[rowKey(r, keys)] = i
	}
	kept := make([]dataset.RawRow, 0, len(last))
	for i, r := range c.t.Rows {
		if last[rowKey(r, keys)] == i {
			kept = append(kept, r)
		}
	}
	removed := len(c.t.Rows) - len(kept)
	c.t.Rows = kept
	if removed > 0 {
		c.step("Removed %d duplicate rows using keys: %s.", removed, uniqueList(keys))
		return
	}
	c.step("No duplicate rows found.")
}

func (c *cleaner) passFail() {
	if !c.t.HasColumn(ColumnPercentage) {
		return
	}
	c.t.AddColumn(ColumnPassFail)
	for _, r := range c.t.Rows {
		r[ColumnPassFail] = PassFail(r[ColumnPercentage], c.opts.PassMark)
	}
	c.step("Computed pass/fail using pass mark of %g%%.", c.opts.PassMark)
}

// PassFail labels one percentage cell against the pass mark.
func PassFail(cell string, passMark float64) string {
	f, ok := dataset.ParseNumeric(cell)
	switch {
	case !ok:
		return NotApplicable
	case f >= passMark:
		return Pass
	default:
		return Fail
	}
}

func rowKey(r dataset.RawRow, keys []string) string {
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = r[k]
	}
	return strings.Join(parts, "\x1f")
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// uniqueList keeps first-seen order and prints like ['a', 'b'].
type uniqueList []string

func (u *uniqueList) add(s string) {
	if !contains(*u, s) {
		*u = append(*u, s)
	}
}

func (u uniqueList) String() string {
	quoted := make([]string, len(u))
	for i, s := range u {
		quoted[i] = "'" + s + "'"
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}
