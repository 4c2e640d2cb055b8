package api

import (
	"bytes"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin"

	"gradelens/adapters/excel"
	"gradelens/adapters/report"
	"gradelens/internal/errors"
)

const (
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	contentTypeHTML = "text/html; charset=utf-8"
)

var unsafeToken = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// safeToken makes a value usable inside a download file name.
func safeToken(v, fallback string) string {
	t := strings.Trim(unsafeToken.ReplaceAllString(v, "_"), "._-")
	if t == "" {
		return fallback
	}
	return t
}

// handleExportXLSX runs every engine and streams the workbook.
func (s *Server) handleExportXLSX(c *gin.Context) {
	p, ok := s.bindPayload(c)
	if !ok {
		return
	}
	b, err := s.run(c, p)
	if err != nil {
		s.respondError(c, err)
		return
	}

	var buf bytes.Buffer
	if err := excel.WriteWorkbook(&buf, b); err != nil {
		s.respondError(c, errors.InternalError("failed to build workbook", err))
		return
	}
	school := report.ResolveSchoolName(p.Raw, s.opts.SchoolName)
	name := fmt.Sprintf("%s_analysis.xlsx", safeToken(school, "school"))
	s.log.Info("Run %s exported as %s (%d bytes)", b.RunID, name, buf.Len())

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, name))
	c.Data(http.StatusOK, contentTypeXLSX, buf.Bytes())
}

// handleSchoolReport renders the school summary page.
func (s *Server) handleSchoolReport(c *gin.Context) {
	p, ok := s.bindPayload(c)
	if !ok {
		return
	}
	b, err := s.run(c, p)
	if err != nil {
		s.respondError(c, err)
		return
	}
	school := report.ResolveSchoolName(p.Raw, s.opts.SchoolName)
	c.Data(http.StatusOK, contentTypeHTML, report.SchoolSummaryHTML(school, b))
}

// handleStudentReport renders one student's report card with their risk
// assessment and parent summary.
func (s *Server) handleStudentReport(c *gin.Context) {
	p, ok := s.bindPayload(c)
	if !ok {
		return
	}
	id := c.Param("id")
	profile, err := s.service.Student(p.Table, id, p.PassMark)
	if err != nil {
		s.respondError(c, studentError(id, err))
		return
	}

	card := report.StudentCard{
		School:   report.ResolveSchoolName(p.Raw, s.opts.SchoolName),
		PassMark: p.PassMark,
		Profile:  profile,
	}
	if r, ok := s.service.StudentRisk(p.Table, id, p.PassMark); ok {
		card.Risk = r
	}
	summary, err := s.summarizer.Summarize(c.Request.Context(), p.Table, id, p.PassMark)
	if err != nil {
		s.log.Warn("No parent summary for %s: %v", id, err)
	} else {
		card.Summary = summary
	}
	c.Data(http.StatusOK, contentTypeHTML, report.StudentCardHTML(card))
}
