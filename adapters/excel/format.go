package excel

import (
	"fmt"
	"path/filepath"
	"strings"

	"gradelens/domain/core"
)

// Format is an upload file format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// FormatFor detects the format from a file name. OpenDocument and legacy
// .xls workbooks are rejected.
func FormatFor(name string) (Format, error) {
	switch ext := strings.ToLower(filepath.Ext(name)); ext {
	case ".csv", ".txt":
		return FormatCSV, nil
	case ".xlsx", ".xlsm":
		return FormatXLSX, nil
	case "":
		return "", fmt.Errorf("%w: file %q has no extension", core.ErrUnsupportedInput, name)
	default:
		return "", fmt.Errorf("%w: %s (use .csv or .xlsx)", core.ErrUnsupportedInput, ext)
	}
}
