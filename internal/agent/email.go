package agent

import (
	"context"
	"fmt"
	"strings"

	"job-tracker/internal/matching"
)

const emailSystemPrompt = `You analyze emails received during a job search.

Respond with ONLY a JSON object (no markdown, no explanation) with these fields:
{
  "is_job_related": true,
  "company": "Company name or empty string",
  "position": "Position title or empty string",
  "category": "one of: application, screening, assessment, interview, offer, rejection, other",
  "suggested_status": "one of: applied, screening, assessment, interview, offer, rejected, or empty string",
  "summary": "One or two sentence summary",
  "action_items": ["things the candidate should do"],
  "urgency": "one of: low, medium, high"
}

Only extract what the email states. Do not invent company names or dates.`

// EmailAnalysis is the structured reading of an email.
type EmailAnalysis struct {
	IsJobRelated    bool     `json:"is_job_related"`
	Company         string   `json:"company"`
	Position        string   `json:"position"`
	Category        string   `json:"category"`
	SuggestedStatus string   `json:"suggested_status"`
	Summary         string   `json:"summary"`
	ActionItems     []string `json:"action_items"`
	Urgency         string   `json:"urgency"`
}

// EmailAnalyzer extracts structured facts from an email with an LLM. It
// complements the heuristic matcher; it never changes application state.
type EmailAnalyzer struct {
	completer Completer
}

func NewEmailAnalyzer(c Completer) *EmailAnalyzer {
	return &EmailAnalyzer{completer: c}
}

func (a *EmailAnalyzer) Analyze(ctx context.Context, email matching.Email) (*EmailAnalysis, error) {
	if strings.TrimSpace(email.Subject) == "" && strings.TrimSpace(email.Body) == "" {
		return nil, fmt.Errorf("%w: email subject or body is required", ErrInvalidInput)
	}

	prompt := fmt.Sprintf("From: %s\nSubject: %s\n\n%s", orNone(email.From), orNone(email.Subject), orNone(email.Body))
	var out EmailAnalysis
	if err := completeJSON(ctx, a.completer, emailSystemPrompt, prompt, &out); err != nil {
		return nil, err
	}
	out.Category = strings.ToLower(strings.TrimSpace(out.Category))
	out.SuggestedStatus = strings.ToLower(strings.TrimSpace(out.SuggestedStatus))
	if out.ActionItems == nil {
		out.ActionItems = []string{}
	}
	return &out, nil
}
