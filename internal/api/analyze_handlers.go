package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"gradelens/domain/core"
	"gradelens/internal/analysis/grading"
	"gradelens/internal/errors"
)

func (s *Server) handleOverview(c *gin.Context) {
	p, ok := s.bindPayload(c)
	if !ok {
		return
	}
	out, err := s.service.Overview(p.Table, p.PassMark)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) handleSubjects(c *gin.Context) {
	p, ok := s.bindPayload(c)
	if !ok {
		return
	}
	out, err := s.service.Subjects(p.Table, p.PassMark)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// handleRisk returns the filtered at-risk list; ?unfiltered=true returns
// every assessed student instead.
func (s *Server) handleRisk(c *gin.Context) {
	p, ok := s.bindPayload(c)
	if !ok {
		return
	}
	out, err := s.service.Risk(p.Table, p.PassMark)
	if err != nil {
		s.respondError(c, err)
		return
	}
	if all, _ := strconv.ParseBool(c.Query("unfiltered")); all {
		c.JSON(http.StatusOK, gin.H{"students": out.Scored, "summary": out.Summary})
		return
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) handleGaps(c *gin.Context) {
	p, ok := s.bindPayload(c)
	if !ok {
		return
	}
	out, err := s.service.Gaps(p.Table, p.PassMark)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) handleInsights(c *gin.Context) {
	p, ok := s.bindPayload(c)
	if !ok {
		return
	}
	out, err := s.service.Insights(c.Request.Context(), p.Table, p.PassMark)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) handleTermComparison(c *gin.Context) {
	p, ok := s.bindPayload(c)
	if !ok {
		return
	}
	out, err := s.service.TermComparison(p.Table, p.PassMark)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) handleAll(c *gin.Context) {
	p, ok := s.bindPayload(c)
	if !ok {
		return
	}
	b, err := s.run(c, p)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

func (s *Server) handleStudent(c *gin.Context) {
	p, ok := s.bindPayload(c)
	if !ok {
		return
	}
	id := c.Param("id")
	out, err := s.service.Student(p.Table, id, p.PassMark)
	if err != nil {
		s.respondError(c, studentError(id, err))
		return
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) handleParentSummary(c *gin.Context) {
	p, ok := s.bindPayload(c)
	if !ok {
		return
	}
	id := c.Param("id")
	out, err := s.summarizer.Summarize(c.Request.Context(), p.Table, id, p.PassMark)
	if err != nil {
		s.respondError(c, studentError(id, err))
		return
	}
	if s.metrics != nil {
		s.metrics.ObserveSummary(out.Mode)
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) handleSchoolModes(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"school_types": []gin.H{{
			"id":          "universal",
			"label":       "Universal (A-F)",
			"pass_mark":   s.opts.PassMark,
			"grade_scale": grading.Thresholds(),
			"subjects":    []string{},
		}},
	})
}

// studentError turns a missing-student error into a readable 404.
func studentError(id string, err error) error {
	if core.IsNotFoundError(err) {
		return errors.NotFound(fmt.Sprintf("Student '%s'", id))
	}
	return err
}
