package excel

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"gradelens/domain/analytics"
	"gradelens/internal"
)

var exportLog = internal.DefaultLogger.WithComponent("Exporter")

// Workbook sheet names, in tab order.
const (
	SheetOverview = "Overview"
	SheetSubjects = "Subjects"
	SheetRisk     = "Risk"
	SheetGaps     = "Gaps"
	SheetInsights = "Insights"
	SheetTerms    = "Terms"
)

// Sheets lists every sheet written by WriteWorkbook.
var Sheets = []string{SheetOverview, SheetSubjects, SheetRisk, SheetGaps, SheetInsights, SheetTerms}

// sheetWriter appends rows to one worksheet.
type sheetWriter struct {
	f      *excelize.File
	name   string
	row    int
	header int
}

func (w *sheetWriter) write(values ...any) error {
	w.row++
	cell, err := excelize.CoordinatesToCellName(1, w.row)
	if err != nil {
		return err
	}
	for i, v := range values {
		if p, ok := v.(*float64); ok {
			if p == nil {
				values[i] = ""
			} else {
				values[i] = *p
			}
		}
	}
	return w.f.SetSheetRow(w.name, cell, &values)
}

func (w *sheetWriter) heading(values ...any) error {
	if err := w.write(values...); err != nil {
		return err
	}
	start, _ := excelize.CoordinatesToCellName(1, w.row)
	end, _ := excelize.CoordinatesToCellName(len(values), w.row)
	return w.f.SetCellStyle(w.name, start, end, w.header)
}

func (w *sheetWriter) blank() { w.row++ }

// NewWorkbook builds the analysis workbook for a bundle. Callers own the
// returned file and must Close it.
func NewWorkbook(b *analytics.Bundle) (*excelize.File, error) {
	f := excelize.NewFile()
	header, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"DDEBF7"}, Pattern: 1},
	})
	if err != nil {
		f.Close()
		return nil, err
	}

	if err := f.SetSheetName("Sheet1", SheetOverview); err != nil {
		f.Close()
		return nil, err
	}
	for _, name := range Sheets[1:] {
		if _, err := f.NewSheet(name); err != nil {
			f.Close()
			return nil, err
		}
	}

	writers := []struct {
		sheet string
		fn    func(*sheetWriter, *analytics.Bundle) error
	}{
		{SheetOverview, writeOverview},
		{SheetSubjects, writeSubjects},
		{SheetRisk, writeRisk},
		{SheetGaps, writeGaps},
		{SheetInsights, writeInsights},
		{SheetTerms, writeTerms},
	}
	for _, wr := range writers {
		sw := &sheetWriter{f: f, name: wr.sheet, header: header}
		if err := wr.fn(sw, b); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to write %s sheet: %w", wr.sheet, err)
		}
	}
	f.SetActiveSheet(0)
	return f, nil
}

// WriteWorkbook streams the analysis workbook as XLSX.
func WriteWorkbook(dst io.Writer, b *analytics.Bundle) error {
	f, err := NewWorkbook(b)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = f.WriteTo(dst)
	return err
}

// SaveWorkbook writes the analysis workbook to path.
func SaveWorkbook(path string, b *analytics.Bundle) error {
	f, err := NewWorkbook(b)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := f.SaveAs(path); err != nil {
		return err
	}
	exportLog.Info("Workbook written to %s", path)
	return nil
}

func writeOverview(w *sheetWriter, b *analytics.Bundle) error {
	if err := w.heading("Metric", "Value"); err != nil {
		return err
	}
	o := b.Overview
	if o == nil {
		return nil
	}
	rows := [][]any{
		{"Run ID", b.RunID.String()},
		{"Pass Mark", b.PassMark},
		{"Total Students", o.TotalStudents},
		{"Total Subjects", o.TotalSubjects},
		{"Total Classes", o.TotalClasses},
		{"Total Terms", o.TotalTerms},
		{"Total Records", o.TotalRecords},
		{"Overall Mean", o.OverallMean},
		{"Overall Median", o.OverallMedian},
		{"Overall Std", o.OverallStd},
		{"Pass Rate (%)", o.PassRate},
		{"Fail Rate (%)", o.FailRate},
		{"Pass Count", o.PassCount},
		{"Fail Count", o.FailCount},
	}
	for _, r := range rows {
		if err := w.write(r...); err != nil {
			return err
		}
	}
	if o.Distribution != nil {
		w.blank()
		if err := w.heading("Score Band", "Count"); err != nil {
			return err
		}
		for i, bin := range o.Distribution.Bins {
			if err := w.write(bin, o.Distribution.Counts[i]); err != nil {
				return err
			}
		}
	}
	if len(o.ClassAverages) > 0 {
		w.blank()
		if err := w.heading("Class", "Mean"); err != nil {
			return err
		}
		for _, c := range o.ClassAverages {
			if err := w.write(c.Class, c.Mean); err != nil {
				return err
			}
		}
	}
	return nil
}

func writeSubjects(w *sheetWriter, b *analytics.Bundle) error {
	if err := w.heading("Subject", "Mean", "Median", "Std", "Min", "Max",
		"Pass Rate", "Fail Rate", "Count", "Q1", "Q3", "IQR"); err != nil {
		return err
	}
	if b.Subjects == nil {
		return nil
	}
	for _, s := range b.Subjects.Subjects {
		if err := w.write(s.Subject, s.Mean, s.Median, s.Std, s.Min, s.Max,
			s.PassRate, s.FailRate, s.Count,
			s.Distribution.Q1, s.Distribution.Q3, s.Distribution.IQR); err != nil {
			return err
		}
	}
	if len(b.Subjects.Correlation.Pairs) > 0 {
		w.blank()
		if err := w.heading("Subject A", "Subject B", "r", "p-value", "N"); err != nil {
			return err
		}
		for _, p := range b.Subjects.Correlation.Pairs {
			if err := w.write(p.SubjectA, p.SubjectB, p.R, p.PValue, p.N); err != nil {
				return err
			}
		}
	}
	return nil
}

func writeRisk(w *sheetWriter, b *analytics.Bundle) error {
	if err := w.heading("Student ID", "Name", "Class", "Risk Score", "Risk Level",
		"Overall Mean", "Trend", "Triggered Factors", "Recommendation"); err != nil {
		return err
	}
	if b.Risk == nil {
		return nil
	}
	for _, s := range b.Risk.Students {
		var triggered []string
		for _, f := range s.Factors {
			if f.Triggered {
				triggered = append(triggered, f.Name)
			}
		}
		class := ""
		if s.Class != nil {
			class = *s.Class
		}
		if err := w.write(s.StudentID, s.Name, class, s.RiskScore, string(s.RiskLevel),
			s.OverallMean, s.TrendDirection, strings.Join(triggered, "; "), s.Recommendation); err != nil {
			return err
		}
	}
	return nil
}

func writeGaps(w *sheetWriter, b *analytics.Bundle) error {
	if err := w.heading("Type", "Label", "Higher Group", "Higher Mean", "Lower Group", "Lower Mean",
		"Gap", "Statistic", "p-value", "Effect Size", "Significant"); err != nil {
		return err
	}
	g := b.Gaps
	if g == nil {
		return nil
	}
	for _, x := range g.GenderGaps {
		hi, hiMean, lo, loMean := "Male", x.MaleMean, "Female", x.FemaleMean
		if x.Direction == analytics.DirectionBoysUnderperforming {
			hi, hiMean, lo, loMean = lo, loMean, hi, hiMean
		}
		if err := w.write(x.Type, x.Label, hi, hiMean, lo, loMean,
			x.Gap, x.TStatistic, x.PValue, x.EffectSize, x.StatisticallySignificant); err != nil {
			return err
		}
	}
	for _, x := range g.ClassGaps {
		if err := w.write(x.Type, x.TestType, x.BestClass, x.BestMean, x.WorstClass, x.WorstMean,
			x.Gap, x.Statistic, x.PValue, x.EffectSize, x.StatisticallySignificant); err != nil {
			return err
		}
	}
	for _, x := range g.RegionalGaps {
		if err := w.write(x.Type, x.TestType, x.BestRegion, x.BestMean, x.WorstRegion, x.WorstMean,
			x.Gap, x.Statistic, x.PValue, "", x.StatisticallySignificant); err != nil {
			return err
		}
	}
	for _, x := range g.TermGaps {
		if err := w.write(x.Type, "", x.BestTerm, x.BestMean, x.WorstTerm, x.WorstMean,
			x.Gap, "", "", "", ""); err != nil {
			return err
		}
	}
	return nil
}

func writeInsights(w *sheetWriter, b *analytics.Bundle) error {
	if err := w.heading("Severity", "Category", "Title", "Narrative", "Recommendation"); err != nil {
		return err
	}
	if b.Insights == nil {
		return nil
	}
	for _, in := range b.Insights.Insights {
		if err := w.write(string(in.Severity), string(in.Category), in.Title, in.Narrative, in.Recommendation); err != nil {
			return err
		}
	}
	if b.Insights.ExecutiveSummary != "" {
		w.blank()
		if err := w.heading("Executive Summary"); err != nil {
			return err
		}
		return w.write(b.Insights.ExecutiveSummary)
	}
	return nil
}

func writeTerms(w *sheetWriter, b *analytics.Bundle) error {
	t := b.Terms
	if t == nil || t.Error != "" {
		msg := "No term data."
		if t != nil {
			msg = t.Error
		}
		return w.write(msg)
	}
	if err := w.heading("Term", "Mean", "Median", "Pass Rate", "Pass Count", "Fail Count",
		"Students", "Grade", "Delta", "Trend"); err != nil {
		return err
	}
	for _, s := range t.SchoolByTerm {
		if err := w.write(s.Term, s.Mean, s.Median, s.PassRate, s.PassCount, s.FailCount,
			s.StudentCount, s.Grade, s.Delta, s.Trend); err != nil {
			return err
		}
	}
	if len(t.SubjectTermMatrix) > 0 {
		w.blank()
		head := append([]any{"Subject"}, toAny(t.Terms)...)
		if err := w.heading(head...); err != nil {
			return err
		}
		for _, st := range t.SubjectsByTerm {
			row := []any{st.Subject}
			for _, term := range t.Terms {
				row = append(row, t.SubjectTermMatrix[st.Subject][term])
			}
			if err := w.write(row...); err != nil {
				return err
			}
		}
	}
	return nil
}

func toAny(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}
