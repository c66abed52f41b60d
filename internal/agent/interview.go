package agent

import (
	"context"
	"fmt"
	"strings"
)

const interviewSystemPrompt = `You help candidates prepare for job interviews using only the information provided.
You have no web access; do not claim facts about the company that were not supplied.

Respond with ONLY a JSON object:
{
  "company_overview": "what the supplied material says about the company",
  "likely_questions": ["..."],
  "topics_to_review": ["..."],
  "questions_to_ask": ["..."]
}`

// InterviewInput is what the prepper knows about the role.
type InterviewInput struct {
	Company        string
	Position       string
	Stage          string
	JobDescription string
	Notes          string
}

// InterviewPrep is a study sheet for one interview.
type InterviewPrep struct {
	CompanyOverview string   `json:"company_overview"`
	LikelyQuestions []string `json:"likely_questions"`
	TopicsToReview  []string `json:"topics_to_review"`
	QuestionsToAsk  []string `json:"questions_to_ask"`
}

type InterviewPrepper struct {
	completer Completer
}

func NewInterviewPrepper(c Completer) *InterviewPrepper {
	return &InterviewPrepper{completer: c}
}

func (p *InterviewPrepper) Prepare(ctx context.Context, in InterviewInput) (*InterviewPrep, error) {
	if strings.TrimSpace(in.Company) == "" || strings.TrimSpace(in.Position) == "" {
		return nil, fmt.Errorf("%w: company and position are required", ErrInvalidInput)
	}

	prompt := fmt.Sprintf(
		"Company: %s\nPosition: %s\nInterview stage: %s\nJob description:\n%s\n\nCandidate notes:\n%s",
		in.Company, in.Position, orNone(in.Stage), orNone(in.JobDescription), orNone(in.Notes),
	)
	var out InterviewPrep
	if err := completeJSON(ctx, p.completer, interviewSystemPrompt, prompt, &out); err != nil {
		return nil, err
	}
	for _, list := range []*[]string{&out.LikelyQuestions, &out.TopicsToReview, &out.QuestionsToAsk} {
		if *list == nil {
			*list = []string{}
		}
	}
	return &out, nil
}
