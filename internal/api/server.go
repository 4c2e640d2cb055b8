// Package api serves the analytics engines over HTTP with gin.
package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"gradelens/ai"
	"gradelens/app"
	"gradelens/domain/dataset"
	"gradelens/internal"
	"gradelens/internal/metrics"
)

// ParentSummarizer produces the parent-facing summary for one student.
type ParentSummarizer interface {
	Summarize(ctx context.Context, t *dataset.Table, studentID string, passMark float64) (*ai.ParentSummary, error)
}

// Options holds request defaults and limits.
type Options struct {
	PassMark           float64
	TreatMissingAsZero bool
	SchoolName         string
	MaxUploadMB        int
	MetricsPath        string
	// Logger defaults to the process logger tagged [API].
	Logger *internal.Logger
}

// Server wires the HTTP routes to the analytics service.
type Server struct {
	opts       Options
	service    *app.AnalyticsService
	summarizer ParentSummarizer
	metrics    *metrics.Collectors
	router     *gin.Engine
	log        *internal.Logger
}

// NewServer builds the router. A nil summarizer uses the template-only
// summarizer; nil collectors disable instrumentation and the metrics route.
func NewServer(opts Options, service *app.AnalyticsService, summarizer ParentSummarizer, collectors *metrics.Collectors) *Server {
	if summarizer == nil {
		summarizer = ai.NewParentSummarizer(ai.Options{}, nil)
	}
	if opts.MaxUploadMB <= 0 {
		opts.MaxUploadMB = 16
	}
	if opts.MetricsPath == "" {
		opts.MetricsPath = "/metrics"
	}
	logger := opts.Logger
	if logger == nil {
		logger = internal.DefaultLogger.WithComponent("API")
	}
	s := &Server{
		opts:       opts,
		service:    service,
		summarizer: summarizer,
		metrics:    collectors,
		router:     gin.New(),
		log:        logger,
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// Handler returns the configured gin engine.
func (s *Server) Handler() http.Handler {
	return s.router
}

// setupMiddleware configures Gin middleware
func (s *Server) setupMiddleware() {
	s.router.Use(gin.Recovery())
	if s.metrics != nil {
		s.router.Use(s.metrics.Middleware())
	}
	s.router.MaxMultipartMemory = int64(s.opts.MaxUploadMB) << 20
}

// setupRoutes configures the application routes
func (s *Server) setupRoutes() {
	s.router.GET("/healthz", s.handleHealth)
	s.router.GET("/api/health", s.handleHealth)
	s.router.GET("/api/config", s.handleConfig)

	if s.metrics != nil {
		s.log.Info("Serving metrics at %s", s.opts.MetricsPath)
		s.router.GET(s.opts.MetricsPath, gin.WrapH(s.metrics.Handler()))
	}

	analyze := s.router.Group("/api/analyze")
	{
		analyze.POST("/overview", s.handleOverview)
		analyze.POST("/subjects", s.handleSubjects)
		analyze.POST("/risk", s.handleRisk)
		analyze.POST("/gaps", s.handleGaps)
		analyze.POST("/insights", s.handleInsights)
		analyze.POST("/term-comparison", s.handleTermComparison)
		analyze.POST("/all", s.handleAll)
		analyze.POST("/student/:id", s.handleStudent)
		analyze.POST("/ai/parent-summary/:id", s.handleParentSummary)
		analyze.GET("/school-modes", s.handleSchoolModes)
	}

	clean := s.router.Group("/api/clean")
	{
		clean.POST("", s.handleCleanUpload)
		clean.POST("/preview", s.handleCleanPreview)
		clean.POST("/apply", s.handleCleanApply)
	}

	s.router.POST("/api/export/xlsx", s.handleExportXLSX)

	reports := s.router.Group("/api/reports")
	{
		reports.POST("/school", s.handleSchoolReport)
		reports.POST("/student/:id", s.handleStudentReport)
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":      "ok",
		"school_name": s.opts.SchoolName,
		"pass_mark":   s.opts.PassMark,
	})
}

func (s *Server) handleConfig(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"school_name": s.opts.SchoolName,
		"pass_mark":   s.opts.PassMark,
	})
}
