package agent

import (
	"context"
	"fmt"
	"strings"
)

const followUpSystemPrompt = `You write short, polite follow-up emails for job applicants.

Respond with ONLY a JSON object: {"subject": "...", "body": "..."}
The body must be under 150 words, reference the role and company, and contain no placeholders in square brackets.`

// FollowUpInput describes the application to follow up on.
type FollowUpInput struct {
	Company          string
	Position         string
	Status           string
	DaysSinceContact int
	Notes            string
	// Tone is a free-form hint such as "formal" or "friendly".
	Tone string
}

// FollowUpDraft is a ready-to-edit email.
type FollowUpDraft struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

type FollowUpDrafter struct {
	completer Completer
}

func NewFollowUpDrafter(c Completer) *FollowUpDrafter {
	return &FollowUpDrafter{completer: c}
}

func (d *FollowUpDrafter) Draft(ctx context.Context, in FollowUpInput) (*FollowUpDraft, error) {
	if strings.TrimSpace(in.Company) == "" || strings.TrimSpace(in.Position) == "" {
		return nil, fmt.Errorf("%w: company and position are required", ErrInvalidInput)
	}
	tone := in.Tone
	if tone == "" {
		tone = "professional"
	}

	prompt := fmt.Sprintf(
		"Company: %s\nPosition: %s\nCurrent status: %s\nDays since last contact: %d\nTone: %s\nNotes: %s\n\nDraft the follow-up email.",
		in.Company, in.Position, orNone(in.Status), in.DaysSinceContact, tone, orNone(in.Notes),
	)
	var out FollowUpDraft
	if err := completeJSON(ctx, d.completer, followUpSystemPrompt, prompt, &out); err != nil {
		return nil, err
	}
	if strings.TrimSpace(out.Body) == "" {
		return nil, ErrEmptyResponse
	}
	return &out, nil
}
