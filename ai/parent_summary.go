// Package ai produces parent-facing summaries on top of deterministic
// student metrics. A language model may rewrite the wording; it never
// computes grades or ranks, and any failure falls back to the templates.
package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"gradelens/adapters/llm"
	"gradelens/domain/core"
	"gradelens/domain/dataset"
	"gradelens/internal"
	apperrors "gradelens/internal/errors"
)

// Summary modes.
const (
	ModeDeterministic         = "deterministic"
	ModeAI                    = "ai_openai"
	ModeDeterministicFallback = "deterministic_fallback"
)

const ProviderOpenAI = "openai"

const systemPrompt = "You are an education assistant. Explain student performance in plain language for a parent with basic literacy. " +
	"Do not invent numbers. Use only provided metrics. Keep recommendations practical and non-judgmental. " +
	"Return strict JSON with keys: summary, strengths, concerns, recommendations."

// ErrNoCredentials is reported when AI is enabled without an API key.
var ErrNoCredentials = errors.New("OPENAI_API_KEY is not set")

// Options configures the summarizer.
type Options struct {
	Enabled   bool
	Provider  string
	Model     string
	Timeout   time.Duration
	MaxTokens int
}

// ParentSummary is the response for one student.
type ParentSummary struct {
	Mode            string       `json:"mode"`
	Summary         string       `json:"summary"`
	Strengths       []string     `json:"strengths"`
	Concerns        []string     `json:"concerns"`
	Recommendations []string     `json:"recommendations"`
	Metrics         Metrics      `json:"metrics"`
	TrendPoints     []TrendPoint `json:"trend_points,omitempty"`
	AIError         string       `json:"ai_error,omitempty"`
}

// ParentSummarizer builds parent summaries. client may be nil, in which
// case an enabled summarizer always falls back.
type ParentSummarizer struct {
	opts   Options
	client llm.LLMClient
	log    *internal.Logger
}

// NewParentSummarizer wires a summarizer to an optional LLM client.
func NewParentSummarizer(opts Options, client llm.LLMClient) *ParentSummarizer {
	if opts.Provider == "" {
		opts.Provider = ProviderOpenAI
	}
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = 600
	}
	return &ParentSummarizer{
		opts:   opts,
		client: client,
		log:    internal.DefaultLogger.WithComponent("ParentSummary"),
	}
}

// NewOpenAIParentSummarizer builds the OpenAI client from cfg. A missing
// key leaves the client unset rather than failing.
func NewOpenAIParentSummarizer(opts Options, cfg llm.Config) *ParentSummarizer {
	cfg.System = systemPrompt
	cfg.JSONMode = true
	var client llm.LLMClient
	c, err := llm.NewClient(cfg)
	if err == nil {
		client = c
	}
	p := NewParentSummarizer(opts, client)
	if err != nil && opts.Enabled {
		p.log.Warn("AI enabled but client unavailable: %v", err)
	}
	return p
}

// Summarize returns the summary for studentID. The error wraps
// core.ErrNotFound when the student has no rows, or is
// core.ErrNoStudentColumn; AI failures never surface as errors.
func (p *ParentSummarizer) Summarize(ctx context.Context, t *dataset.Table, studentID string, passMark float64) (*ParentSummary, error) {
	if err := t.Schema.Require(dataset.FieldStudentID); err != nil {
		return nil, err
	}
	facts, ok := buildFacts(t, studentID, passMark)
	if !ok {
		return nil, core.NewStudentNotFoundError(studentID)
	}

	if !p.opts.Enabled || !strings.EqualFold(p.opts.Provider, ProviderOpenAI) {
		return deterministic(facts), nil
	}

	out, err := p.rewrite(ctx, facts)
	if err != nil {
		p.log.Warn("falling back for %s: %v", studentID, err)
		fb := deterministic(facts)
		fb.Mode = ModeDeterministicFallback
		fb.AIError = err.Error()
		return fb, nil
	}
	return out, nil
}

// deterministic renders the template summary.
func deterministic(f *studentFacts) *ParentSummary {
	m := f.Metrics
	if m.Class == "" {
		m.Class = "N/A"
	}
	overall := "N/A"
	if m.OverallMean != nil {
		overall = fmt.Sprintf("%g", *m.OverallMean)
	}
	parts := []string{
		fmt.Sprintf("%s is in %s with an overall score of %s%% (Grade %s).", m.StudentName, m.Class, overall, m.StudentGrade),
	}
	if m.ClassMean != nil {
		parts = append(parts, fmt.Sprintf("Class average is %g%%.", *m.ClassMean))
	}
	if m.SchoolMean != nil {
		parts = append(parts, fmt.Sprintf("School average is %g%%.", *m.SchoolMean))
	}
	parts = append(parts, fmt.Sprintf("Pass mark is %g%%.", m.PassMark))

	return &ParentSummary{
		Mode:            ModeDeterministic,
		Summary:         strings.Join(parts, " "),
		Strengths:       f.Strengths,
		Concerns:        f.Concerns,
		Recommendations: f.Recommendations,
		Metrics:         m,
		TrendPoints:     f.TrendPoints,
	}
}

type aiReply struct {
	Summary         string
	Strengths       []string
	Concerns        []string
	Recommendations []string
}

func (p *ParentSummarizer) rewrite(ctx context.Context, f *studentFacts) (*ParentSummary, error) {
	if p.client == nil {
		return nil, ErrNoCredentials
	}
	if p.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.opts.Timeout)
		defer cancel()
	}

	prompt, err := userPrompt(f)
	if err != nil {
		return nil, err
	}
	text, err := p.client.ChatCompletion(ctx, p.opts.Model, prompt, p.opts.MaxTokens)
	if err != nil {
		return nil, apperrors.ExternalServiceError(p.opts.Provider, err)
	}
	text = extractJSON(text)
	if text == "" {
		return nil, errors.New("empty AI response")
	}
	reply, err := decodeReply(text)
	if err != nil {
		return nil, fmt.Errorf("decode AI response: %w", err)
	}

	return &ParentSummary{
		Mode:            ModeAI,
		Summary:         reply.Summary,
		Strengths:       bullets(reply.Strengths).first(maxBullets),
		Concerns:        bullets(reply.Concerns).first(maxBullets),
		Recommendations: bullets(reply.Recommendations).first(maxBullets),
		Metrics:         f.Metrics,
		TrendPoints:     f.TrendPoints,
	}, nil
}

func userPrompt(f *studentFacts) (string, error) {
	payload := struct {
		Metrics
		TrendPoints     []TrendPoint `json:"trend_points"`
		Strengths       []string     `json:"strengths"`
		Concerns        []string     `json:"concerns"`
		Recommendations []string     `json:"recommendations"`
		StudentCount    int          `json:"student_count"`
	}{f.Metrics, f.TrendPoints, f.Strengths, f.Concerns, f.Recommendations, f.StudentCount}
	raw, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal metrics: %w", err)
	}
	return "Create a short parent summary from these metrics:\n" +
		string(raw) + "\n\n" +
		"Constraints:\n" +
		"- summary: max 90 words\n" +
		"- strengths: 1-3 bullets\n" +
		"- concerns: 1-3 bullets\n" +
		"- recommendations: exactly 3 bullets\n" +
		"- mention pass mark explicitly once\n", nil
}
