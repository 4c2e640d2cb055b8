package excel

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"gradelens/domain/core"
	"gradelens/domain/dataset"
	"gradelens/internal"
)

var readerLog = internal.DefaultLogger.WithComponent("DataReader")

// DataReader handles reading Excel and CSV files
type DataReader struct {
	filePath string
	format   Format
	cfg      ReaderConfig
	err      error
}

// NewDataReader creates a reader for a file on disk. The format comes from
// the extension; unsupported formats fail on ReadData.
func NewDataReader(filePath string) *DataReader {
	return NewDataReaderWithConfig(filePath, DefaultReaderConfig())
}

// NewDataReaderWithConfig creates a reader with explicit parse options.
func NewDataReaderWithConfig(filePath string, cfg ReaderConfig) *DataReader {
	format, err := FormatFor(filePath)
	return &DataReader{filePath: filePath, format: format, cfg: cfg, err: err}
}

// ReadData reads the file into a raw table.
func (r *DataReader) ReadData() (*dataset.RawTable, error) {
	if r.err != nil {
		return nil, r.err
	}
	readerLog.Info("Starting to read %s file: %s", r.format, r.filePath)

	file, err := os.Open(r.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s file not found: %s", strings.ToUpper(string(r.format)), r.filePath)
		}
		return nil, fmt.Errorf("failed to open %s file: %w", r.format, err)
	}
	defer file.Close()

	return read(file, r.format, r.cfg)
}

// ReadUpload parses an uploaded stream, detecting the format from its
// original file name.
func ReadUpload(src io.Reader, filename string, cfg ReaderConfig) (*dataset.RawTable, error) {
	format, err := FormatFor(filename)
	if err != nil {
		return nil, err
	}
	readerLog.Info("Reading uploaded %s file: %s", format, filename)
	return read(src, format, cfg)
}

func read(src io.Reader, format Format, cfg ReaderConfig) (*dataset.RawTable, error) {
	var (
		rows [][]string
		err  error
	)
	start := time.Now()
	switch format {
	case FormatCSV:
		rows, err = readCSV(src, cfg)
	case FormatXLSX:
		rows, err = readXLSX(src, cfg)
	default:
		return nil, fmt.Errorf("%w: %s", core.ErrUnsupportedInput, format)
	}
	if err != nil {
		return nil, err
	}
	readerLog.Info("%s read in %.2fms (%d rows)",
		strings.ToUpper(string(format)), float64(time.Since(start).Nanoseconds())/1e6, len(rows))

	return processRows(rows, cfg)
}

func readCSV(src io.Reader, cfg ReaderConfig) ([][]string, error) {
	data, err := io.ReadAll(src)
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV file: %w", err)
	}
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))

	reader := csv.NewReader(bytes.NewReader(data))
	if cfg.Comma != 0 {
		reader.Comma = cfg.Comma
	}
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV file: %w", err)
	}
	return rows, nil
}

func readXLSX(src io.Reader, cfg ReaderConfig) ([][]string, error) {
	f, err := excelize.OpenReader(src)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheet := cfg.Sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("%w: workbook has no sheets", core.ErrEmptyTable)
		}
		sheet = sheets[0]
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheet, err)
	}
	return rows, nil
}

// processRows converts positional rows into a raw table. The first row is
// the header.
func processRows(rows [][]string, cfg ReaderConfig) (*dataset.RawTable, error) {
	if len(rows) < 2 {
		return nil, fmt.Errorf("%w: need a header row and at least one data row", core.ErrEmptyTable)
	}
	data := rows[1:]
	if cfg.MaxRows > 0 && len(data) > cfg.MaxRows {
		readerLog.Warn("Truncating %d rows to %d", len(data), cfg.MaxRows)
		data = data[:cfg.MaxRows]
	}

	table := dataset.NewRawTable(rows[0], data)
	if len(table.Rows) == 0 {
		return nil, fmt.Errorf("%w: all data rows are empty", core.ErrEmptyTable)
	}
	readerLog.Info("processed (%d columns, %d rows)", len(table.Headers), len(table.Rows))
	return table, nil
}
