// Package testkit generates deterministic synthetic school datasets for
// tests, demos and load checks.
package testkit

import (
	"encoding/csv"
	"fmt"
	"math"
	"math/rand"
	"os"
	"strconv"

	"github.com/xuri/excelize/v2"

	"gradelens/domain/dataset"
)

// SchoolGeneratorConfig configures the school data generator
type SchoolGeneratorConfig struct {
	Students     int      `json:"students"`
	Classes      []string `json:"classes"`
	Regions      []string `json:"regions"`
	Subjects     []string `json:"subjects"`
	Terms        int      `json:"terms"`
	Exams        []string `json:"exams"`
	Seed         int64    `json:"seed"`
	BaseMean     float64  `json:"base_mean"`
	AbilitySD    float64  `json:"ability_sd"`
	NoiseSD      float64  `json:"noise_sd"`
	GenderGap    float64  `json:"gender_gap"`    // female minus male, in points
	StruggleRate float64  `json:"struggle_rate"` // share of students far below the mean
	DeclineRate  float64  `json:"decline_rate"`  // share of students losing ground each term
}

// DefaultSchoolConfig returns a mid-sized secondary school.
func DefaultSchoolConfig() SchoolGeneratorConfig {
	return SchoolGeneratorConfig{
		Students:     120,
		Classes:      []string{"Form 1", "Form 2", "Form 3"},
		Regions:      []string{"Nairobi", "Kisumu", "Mombasa"},
		Subjects:     []string{"Mathematics", "English", "Kiswahili", "Biology", "Chemistry", "History"},
		Terms:        3,
		Exams:        []string{"Opener", "End Term"},
		Seed:         42,
		BaseMean:     58,
		AbilitySD:    12,
		NoiseSD:      6,
		GenderGap:    4,
		StruggleRate: 0.1,
		DeclineRate:  0.08,
	}
}

// Headers of every generated dataset.
var Headers = []string{"student_id", "name", "gender", "class", "region", "subject", "term", "exam", "score", "max_score"}

// Dataset is a generated table plus the per-student ground truth used to
// check analytics against.
type Dataset struct {
	Headers []string
	Rows    [][]string

	Strugglers map[string]bool
	Decliners  map[string]bool
}

var (
	firstNames = []string{"Amina", "Brian", "Cynthia", "David", "Esther", "Faith", "George", "Halima", "Ian", "Joy",
		"Kevin", "Lucy", "Mercy", "Noah", "Otieno", "Purity", "Rose", "Samuel", "Tabitha", "Wycliffe"}
	lastNames   = []string{"Achieng", "Kamau", "Mutua", "Njeri", "Odhiambo", "Wanjiku", "Kiptoo", "Omondi"}
	classOffset = []float64{0, 4, -5, 2, -2}
)

// SchoolDataGenerator generates synthetic student assessment rows
type SchoolDataGenerator struct {
	config SchoolGeneratorConfig
	rng    *rand.Rand
}

// NewSchoolDataGenerator creates a new generator
func NewSchoolDataGenerator(config SchoolGeneratorConfig) *SchoolDataGenerator {
	return &SchoolDataGenerator{
		config: config,
		rng:    rand.New(rand.NewSource(config.Seed)),
	}
}

// Generate builds the dataset. The same config always yields the same rows.
func (g *SchoolDataGenerator) Generate() (*Dataset, error) {
	cfg := g.config
	if cfg.Students <= 0 {
		return nil, fmt.Errorf("students must be > 0")
	}
	if len(cfg.Subjects) == 0 || len(cfg.Classes) == 0 {
		return nil, fmt.Errorf("at least one subject and one class are required")
	}
	if cfg.Terms <= 0 {
		return nil, fmt.Errorf("terms must be > 0")
	}
	exams := cfg.Exams
	if len(exams) == 0 {
		exams = []string{""}
	}

	subjectOffset := make([]float64, len(cfg.Subjects))
	for i := range subjectOffset {
		subjectOffset[i] = g.rng.NormFloat64() * 5
	}

	ds := &Dataset{
		Headers:    append([]string(nil), Headers...),
		Strugglers: map[string]bool{},
		Decliners:  map[string]bool{},
	}
	for s := 0; s < cfg.Students; s++ {
		id := fmt.Sprintf("STU%03d", s+1)
		name := firstNames[s%len(firstNames)] + " " + lastNames[(s/len(firstNames))%len(lastNames)]
		female := g.rng.Intn(2) == 0
		gender := "M"
		if female {
			gender = "F"
		}
		classIdx := s % len(cfg.Classes)
		region := ""
		if len(cfg.Regions) > 0 {
			region = cfg.Regions[g.rng.Intn(len(cfg.Regions))]
		}

		ability := cfg.BaseMean + g.rng.NormFloat64()*cfg.AbilitySD + classOffset[classIdx%len(classOffset)]
		if female {
			ability += cfg.GenderGap / 2
		} else {
			ability -= cfg.GenderGap / 2
		}
		slope := g.rng.NormFloat64() * 1.5
		if g.rng.Float64() < cfg.StruggleRate {
			ability = 28 + g.rng.Float64()*8
			ds.Strugglers[id] = true
		}
		if g.rng.Float64() < cfg.DeclineRate {
			slope = -9
			ds.Decliners[id] = true
		}

		for term := 0; term < cfg.Terms; term++ {
			for _, exam := range exams {
				for j, subject := range cfg.Subjects {
					score := ability + subjectOffset[j] + slope*float64(term) + g.rng.NormFloat64()*cfg.NoiseSD
					score = math.Round(math.Max(0, math.Min(100, score)))
					ds.Rows = append(ds.Rows, []string{
						id, name, gender, cfg.Classes[classIdx], region, subject,
						fmt.Sprintf("Term %d", term+1), exam,
						strconv.FormatFloat(score, 'f', -1, 64), "100",
					})
				}
			}
		}
	}
	return ds, nil
}

// RawTable returns the dataset as an ingestion table.
func (ds *Dataset) RawTable() *dataset.RawTable {
	return dataset.NewRawTable(ds.Headers, ds.Rows)
}

// Table returns the normalized table the engines consume.
func (ds *Dataset) Table() *dataset.Table {
	return dataset.NewTable(ds.RawTable())
}

// GenerateSchool is a convenience for the default generator flow.
func GenerateSchool(config SchoolGeneratorConfig) (*Dataset, error) {
	return NewSchoolDataGenerator(config).Generate()
}

// WriteCSV writes the dataset as CSV.
func WriteCSV(path string, ds *Dataset) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(ds.Headers); err != nil {
		return err
	}
	if err := w.WriteAll(ds.Rows); err != nil {
		return err
	}
	return w.Error()
}

// WriteXLSX writes the dataset to the first sheet of a workbook.
func WriteXLSX(path string, ds *Dataset) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	header := make([]any, len(ds.Headers))
	for i, h := range ds.Headers {
		header[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}
	for r, row := range ds.Rows {
		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return err
		}
		values := make([]any, len(row))
		for c, v := range row {
			if n, err := strconv.ParseFloat(v, 64); err == nil && c >= len(row)-2 {
				values[c] = n
			} else {
				values[c] = v
			}
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return err
		}
	}
	return f.SaveAs(path)
}
