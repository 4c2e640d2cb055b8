package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"gradelens/adapters/excel"
	"gradelens/domain/dataset"
	"gradelens/internal/errors"
	"gradelens/internal/normalize"
)

const previewRows = 20

// handleCleanUpload accepts a multipart "file" (CSV or XLSX), parses and
// cleans it, and returns the cleaned rows with the cleaning report.
func (s *Server) handleCleanUpload(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		s.log.Warn("clean upload: no file uploaded: %v", err)
		s.respondError(c, errors.ValidationError("No file uploaded"))
		return
	}
	defer file.Close()

	limit := int64(s.opts.MaxUploadMB) << 20
	if header.Size > limit {
		s.log.Warn("clean upload: %s too large (%d bytes)", header.Filename, header.Size)
		s.respondError(c, errors.PayloadTooLarge(fmt.Sprintf("File size (%.1f MB) exceeds the %dMB limit",
			float64(header.Size)/(1024*1024), s.opts.MaxUploadMB)))
		return
	}
	if _, err := excel.FormatFor(header.Filename); err != nil {
		s.log.Warn("clean upload: %v", err)
		s.respondError(c, errors.UnsupportedFormat(fmt.Sprintf(
			"Unsupported file type for %s. Upload a .csv or .xlsx file.", header.Filename)))
		return
	}

	raw, err := excel.ReadUpload(file, header.Filename, excel.DefaultReaderConfig())
	if err != nil {
		s.respondError(c, errors.Wrapf(err, "failed to read %s", header.Filename))
		return
	}
	if s.metrics != nil {
		s.metrics.ObserveUpload(len(raw.Rows))
	}

	opts := normalize.Options{PassMark: s.opts.PassMark, TreatMissingAsZero: s.opts.TreatMissingAsZero}
	if v := c.PostForm("pass_mark"); v != "" {
		pm, err := strconv.ParseFloat(v, 64)
		if err != nil || pm < 0 || pm > 100 {
			s.respondError(c, errors.InvalidInput("pass_mark must be a number between 0 and 100"))
			return
		}
		opts.PassMark = pm
	}
	if v := c.PostForm("treat_missing_as_zero"); v != "" {
		opts.TreatMissingAsZero, _ = strconv.ParseBool(v)
	}

	cleaned, report := normalize.Clean(raw, opts)
	s.log.Info("Cleaned %s: %d -> %d rows", header.Filename, report.OriginalRows, report.CleanedRows)
	c.JSON(http.StatusOK, gin.H{
		"filename":          header.Filename,
		"cleaning_report":   report,
		"cleaned_data":      cleaned.Rows,
		"cleaned_row_count": len(cleaned.Rows),
		"columns":           cleaned.Headers,
		"preview":           preview(cleaned),
	})
}

// handleCleanPreview cleans JSON rows and returns only the first rows.
func (s *Server) handleCleanPreview(c *gin.Context) {
	p, ok := s.bindPayload(c)
	if !ok {
		return
	}
	cleaned, report := normalize.Clean(p.Raw, normalize.Options{
		PassMark:           p.PassMark,
		TreatMissingAsZero: s.treatMissingAsZero(p.Options),
	})
	c.JSON(http.StatusOK, gin.H{
		"cleaning_report":   report,
		"cleaned_row_count": len(cleaned.Rows),
		"preview":           preview(cleaned),
	})
}

// handleCleanApply cleans JSON rows and returns the full result.
func (s *Server) handleCleanApply(c *gin.Context) {
	p, ok := s.bindPayload(c)
	if !ok {
		return
	}
	cleaned, report := normalize.Clean(p.Raw, normalize.Options{
		PassMark:           p.PassMark,
		TreatMissingAsZero: s.treatMissingAsZero(p.Options),
	})
	c.JSON(http.StatusOK, gin.H{
		"cleaning_report":   report,
		"cleaned_data":      cleaned.Rows,
		"cleaned_row_count": len(cleaned.Rows),
		"columns":           cleaned.Headers,
	})
}

func preview(t *dataset.RawTable) []dataset.RawRow {
	if len(t.Rows) <= previewRows {
		return t.Rows
	}
	return t.Rows[:previewRows]
}
