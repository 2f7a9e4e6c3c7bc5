package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/justsurfingit/placement-portal/internal/apperr"
	"github.com/justsurfingit/placement-portal/internal/dtos"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"
)

const maxExtractionInput = 20000

type LLMService struct {
	Client llms.Model
}

// NewLLMService returns a disabled service when apiKey is empty; extraction
// then fails with an unavailable error instead of stopping the server.
func NewLLMService(ctx context.Context, apiKey, model string) (*LLMService, error) {
	if apiKey == "" {
		slog.Warn("GEMINI_API_KEY not set, job extraction disabled")
		return &LLMService{}, nil
	}
	llm, err := googleai.New(ctx,
		googleai.WithAPIKey(apiKey),
		googleai.WithDefaultModel(model),
	)
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &LLMService{Client: llm}, nil
}

func (s *LLMService) Enabled() bool { return s != nil && s.Client != nil }

const jobExtractionPrompt = `
You are a Campus Placement Data Extraction Agent. Your task is to analyze the provided raw HTML/Text of a job posting and extract the fields a placement cell needs to publish it.

### INSTRUCTIONS:
1. **Analyze** the text to identify the core job details.
2. **Ignore** navigation menus, footers, "similar jobs" lists, and site advertisements.
3. **Extract** the following fields strictly.
4. **Format** the output as valid JSON only. Do not wrap the output in markdown code blocks.

### OUTPUT SCHEMA:
{
    "title": "Job title (e.g., Graduate Engineer Trainee)",
    "description": "A clean summary of the role. Focus on Responsibilities and Requirements. Remove HTML tags.",
    "eligibility": "Who may apply: degrees, branches, graduation years, minimum scores",
    "location": "Job location or 'Remote'",
    "last_date": "Application deadline as YYYY-MM-DD, otherwise null"
}

### CONSTRAINT:
If a piece of information is missing, set the value to null. Do not hallucinate or guess.

### RAW CONTENT:
%s
`

// ExtractJobDetails turns a pasted job posting into a draft the admin reviews
// before creating the job.
func (s *LLMService) ExtractJobDetails(ctx context.Context, rawHTML string) (*dtos.JobDraft, error) {
	if !s.Enabled() {
		return nil, apperr.New(apperr.CodeUnavailable, "Job extraction is not configured", nil)
	}
	if len(rawHTML) > maxExtractionInput {
		rawHTML = rawHTML[:maxExtractionInput]
	}
	resp, err := llms.GenerateFromSinglePrompt(ctx, s.Client, fmt.Sprintf(jobExtractionPrompt, rawHTML))
	if err != nil {
		return nil, apperr.New(apperr.CodeUnavailable, "AI extraction failed", err)
	}
	return parseDraft(resp)
}

func parseDraft(resp string) (*dtos.JobDraft, error) {
	// Models sometimes wrap JSON in a fence despite being told not to.
	resp = strings.TrimSpace(resp)
	resp = strings.TrimPrefix(resp, "```json")
	resp = strings.TrimPrefix(resp, "```")
	resp = strings.TrimSuffix(resp, "```")

	var draft dtos.JobDraft
	if err := json.Unmarshal([]byte(strings.TrimSpace(resp)), &draft); err != nil {
		return nil, apperr.New(apperr.CodeInternal, "AI returned malformed job data", err)
	}
	return &draft, nil
}
