package agent

import (
	"context"
	"fmt"
	"strings"
)

const resumeSystemPrompt = `You tailor resumes to job descriptions without inventing experience.

Respond with ONLY a JSON object:
{
  "summary": "a rewritten professional summary targeted at the role",
  "highlights": ["existing experience worth moving to the top"],
  "missing_keywords": ["keywords from the job description absent from the resume"],
  "suggestions": ["concrete edits"],
  "match_score": 0
}
match_score is an integer from 0 to 100.`

// TailorInput pairs a resume with a target job.
type TailorInput struct {
	Resume         string `json:"resume" validate:"required"`
	JobDescription string `json:"job_description" validate:"required"`
	Company        string `json:"company,omitempty"`
	Position       string `json:"position,omitempty"`
}

// TailoredResume is the tailoring advice for one job.
type TailoredResume struct {
	Summary         string   `json:"summary"`
	Highlights      []string `json:"highlights"`
	MissingKeywords []string `json:"missing_keywords"`
	Suggestions     []string `json:"suggestions"`
	MatchScore      int      `json:"match_score"`
}

type ResumeTailor struct {
	completer Completer
}

func NewResumeTailor(c Completer) *ResumeTailor {
	return &ResumeTailor{completer: c}
}

func (r *ResumeTailor) Tailor(ctx context.Context, in TailorInput) (*TailoredResume, error) {
	if strings.TrimSpace(in.Resume) == "" || strings.TrimSpace(in.JobDescription) == "" {
		return nil, fmt.Errorf("%w: resume and job description are required", ErrInvalidInput)
	}

	prompt := fmt.Sprintf(
		"Target company: %s\nTarget position: %s\n\nJob description:\n%s\n\nResume:\n%s",
		orNone(in.Company), orNone(in.Position), in.JobDescription, in.Resume,
	)
	var out TailoredResume
	if err := completeJSON(ctx, r.completer, resumeSystemPrompt, prompt, &out); err != nil {
		return nil, err
	}
	if out.MatchScore < 0 {
		out.MatchScore = 0
	}
	if out.MatchScore > 100 {
		out.MatchScore = 100
	}
	for _, list := range []*[]string{&out.Highlights, &out.MissingKeywords, &out.Suggestions} {
		if *list == nil {
			*list = []string{}
		}
	}
	return &out, nil
}
