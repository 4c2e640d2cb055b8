package excel

// ReaderConfig controls how uploads are parsed.
type ReaderConfig struct {
	// Sheet selects the worksheet; empty means the first sheet.
	Sheet string `json:"sheet"`
	// Comma is the CSV field delimiter.
	Comma rune `json:"comma"`
	// MaxRows caps data rows read; 0 means unlimited.
	MaxRows int `json:"max_rows"`
}

// DefaultReaderConfig returns sensible defaults for school uploads.
func DefaultReaderConfig() ReaderConfig {
	return ReaderConfig{
		Comma:   ',',
		MaxRows: 0,
	}
}
