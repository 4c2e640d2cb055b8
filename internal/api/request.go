package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"gradelens/domain/analytics"
	"gradelens/domain/core"
	"gradelens/domain/dataset"
	"gradelens/internal/errors"
)

// analyzeRequest is the JSON body every analysis route accepts.
type analyzeRequest struct {
	Data     []map[string]any `json:"data"`
	PassMark *float64         `json:"pass_mark" binding:"omitempty,gte=0,lte=100"`
	RunID    string           `json:"run_id"`
	Options  cleanOptions     `json:"options"`
}

type cleanOptions struct {
	TreatMissingAsZero *bool `json:"treat_missing_as_zero"`
}

// payload is a decoded request: the raw rows, the typed table and the
// pass mark in effect.
type payload struct {
	Raw      *dataset.RawTable
	Table    *dataset.Table
	PassMark float64
	RunID    core.RunID
	Options  cleanOptions
}

// bindPayload decodes and validates the body, writing a 400 on failure.
func (s *Server) bindPayload(c *gin.Context) (*payload, bool) {
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.log.Warn("%s: invalid body: %v", c.FullPath(), err)
		s.respondError(c, errors.ValidationError("invalid request body: "+err.Error()))
		return nil, false
	}
	if len(req.Data) == 0 {
		s.respondError(c, errors.ValidationError("No data provided."))
		return nil, false
	}

	var runID core.RunID
	if req.RunID != "" {
		id, err := core.ParseRunID(req.RunID)
		if err != nil {
			s.respondError(c, errors.InvalidInput(err.Error()))
			return nil, false
		}
		runID = id
	}

	pm := s.opts.PassMark
	if req.PassMark != nil {
		pm = *req.PassMark
	}
	raw := dataset.FromMaps(req.Data)
	if s.metrics != nil {
		s.metrics.ObserveUpload(len(raw.Rows))
	}
	return &payload{
		Raw:      raw,
		Table:    dataset.NewTable(raw),
		PassMark: pm,
		RunID:    runID,
		Options:  req.Options,
	}, true
}

// run executes the full pipeline, under the client's run id when it sent
// one, and echoes the id in X-Run-ID.
func (s *Server) run(c *gin.Context, p *payload) (*analytics.Bundle, error) {
	b, err := s.service.RunAs(c.Request.Context(), p.RunID, p.Table, p.PassMark)
	if err != nil {
		return nil, err
	}
	c.Header("X-Run-ID", b.RunID.String())
	return b, nil
}

func (s *Server) treatMissingAsZero(o cleanOptions) bool {
	if o.TreatMissingAsZero != nil {
		return *o.TreatMissingAsZero
	}
	return s.opts.TreatMissingAsZero
}

// respondError writes {"error", "code"} with the status the error maps to.
func (s *Server) respondError(c *gin.Context, err error) {
	status := errors.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		s.log.Error("%s failed: %v", c.FullPath(), err)
	}
	c.AbortWithStatusJSON(status, gin.H{
		"error": err.Error(),
		"code":  errors.GetCode(err),
	})
}
