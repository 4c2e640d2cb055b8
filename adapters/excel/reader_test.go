package excel

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"gradelens/domain/core"
	"gradelens/internal"
)

const sampleCSV = "\xef\xbb\xbfStudent_ID, Name ,Subject,Score\nS1,Amina,Math,80\nS2,Brian,Math\n,,,\n"

func TestReadUploadCSV(t *testing.T) {
	table, err := ReadUpload(strings.NewReader(sampleCSV), "marks.csv", DefaultReaderConfig())
	require.NoError(t, err)

	assert.Equal(t, []string{"Student_ID", "Name", "Subject", "Score"}, table.Headers)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, "Amina", table.Rows[0]["Name"])
	assert.Equal(t, "", table.Rows[1]["Score"])
}

func TestReadUploadXLSXUsesFirstSheet(t *testing.T) {
	f := excelize.NewFile()
	require.NoError(t, f.SetSheetName("Sheet1", "Marks"))
	require.NoError(t, f.SetSheetRow("Marks", "A1", &[]any{"student_id", "subject", "score"}))
	require.NoError(t, f.SetSheetRow("Marks", "A2", &[]any{"S1", "Math", 72}))
	var buf bytes.Buffer
	_, err := f.WriteTo(&buf)
	require.NoError(t, err)

	table, err := ReadUpload(&buf, "marks.XLSX", DefaultReaderConfig())
	require.NoError(t, err)
	require.Len(t, table.Rows, 1)
	assert.Equal(t, "72", table.Rows[0]["score"])
}

func TestReadUploadRejectsUnsupportedFormats(t *testing.T) {
	for _, name := range []string{"marks.ods", "marks.xls", "marks"} {
		_, err := ReadUpload(strings.NewReader("a,b\n1,2\n"), name, DefaultReaderConfig())
		assert.ErrorIs(t, err, core.ErrUnsupportedInput, name)
	}
}

func TestReadUploadHeaderOnly(t *testing.T) {
	_, err := ReadUpload(strings.NewReader("student_id,score\n"), "marks.csv", DefaultReaderConfig())
	assert.ErrorIs(t, err, core.ErrEmptyTable)
}

func TestReadUploadMaxRows(t *testing.T) {
	cfg := DefaultReaderConfig()
	cfg.MaxRows = 1
	table, err := ReadUpload(strings.NewReader("id,score\nS1,1\nS2,2\n"), "m.csv", cfg)
	require.NoError(t, err)
	assert.Len(t, table.Rows, 1)
}

func TestReaderLogsTruncation(t *testing.T) {
	var buf bytes.Buffer
	prev := readerLog
	readerLog = internal.NewLogger(internal.LogLevelInfo).WithComponent("DataReader").WithOutput(&buf)
	defer func() { readerLog = prev }()

	cfg := DefaultReaderConfig()
	cfg.MaxRows = 1
	_, err := ReadUpload(strings.NewReader("id,score\nS1,1\nS2,2\n"), "m.csv", cfg)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "[WARN] [DataReader] Truncating 2 rows to 1")
	assert.Contains(t, buf.String(), "[INFO] [DataReader] Reading uploaded csv file: m.csv")
}

func TestDataReaderFromDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "marks.csv")
	require.NoError(t, os.WriteFile(path, []byte("id;score\nS1;55\n"), 0o644))

	cfg := DefaultReaderConfig()
	cfg.Comma = ';'
	table, err := NewDataReaderWithConfig(path, cfg).ReadData()
	require.NoError(t, err)
	assert.Equal(t, "55", table.Rows[0]["score"])

	_, err = NewDataReader(filepath.Join(t.TempDir(), "missing.csv")).ReadData()
	assert.Error(t, err)
}
