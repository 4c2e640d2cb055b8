package excel

import (
	"encoding/csv"
	"fmt"
	"os"

	"github.com/xuri/excelize/v2"

	"gradelens/domain/dataset"
	"gradelens/internal"
)

var writerLog = internal.DefaultLogger.WithComponent("DataWriter")

// SaveRawTable writes a table back to disk as CSV or XLSX, chosen by the
// path's extension. Numeric cells are written as numbers in workbooks.
func SaveRawTable(path string, t *dataset.RawTable) error {
	format, err := FormatFor(path)
	if err != nil {
		return err
	}
	writerLog.Info("Writing %d rows to %s", len(t.Rows), path)
	switch format {
	case FormatXLSX:
		return saveXLSX(path, t)
	default:
		return saveCSV(path, t)
	}
}

func saveCSV(path string, t *dataset.RawTable) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(t.Headers); err != nil {
		return err
	}
	record := make([]string, len(t.Headers))
	for _, row := range t.Rows {
		for i, h := range t.Headers {
			record[i] = row[h]
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func saveXLSX(path string, t *dataset.RawTable) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	header := toAny(t.Headers)
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}
	for r, row := range t.Rows {
		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return err
		}
		values := make([]any, len(t.Headers))
		for i, h := range t.Headers {
			if n, ok := dataset.ParseNumeric(row[h]); ok {
				values[i] = n
			} else {
				values[i] = row[h]
			}
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return err
		}
	}
	return f.SaveAs(path)
}
