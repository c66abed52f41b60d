package service

import (
	"context"
	"strings"
	"time"

	"job-tracker/internal/agent"
	"job-tracker/internal/matching"

	"github.com/google/uuid"
)

// Agents groups the LLM helpers. Any of them may be nil when agents are
// disabled.
type Agents struct {
	Analyzer *agent.EmailAnalyzer
	Drafter  *agent.FollowUpDrafter
	Prepper  *agent.InterviewPrepper
	Tailor   *agent.ResumeTailor
}

// NewAgents wires every helper to one completer.
func NewAgents(c agent.Completer) Agents {
	return Agents{
		Analyzer: agent.NewEmailAnalyzer(c),
		Drafter:  agent.NewFollowUpDrafter(c),
		Prepper:  agent.NewInterviewPrepper(c),
		Tailor:   agent.NewResumeTailor(c),
	}
}

type AgentService struct {
	apps   ApplicationRepo
	agents Agents
}

func NewAgentService(apps ApplicationRepo, agents Agents) *AgentService {
	return &AgentService{apps: apps, agents: agents}
}

func (s *AgentService) AnalyzeEmail(ctx context.Context, email matching.Email) (*agent.EmailAnalysis, error) {
	if s.agents.Analyzer == nil {
		return nil, ErrAgentsDisabled
	}
	return s.agents.Analyzer.Analyze(ctx, email)
}

// DraftFollowUp drafts a follow-up for a stored application.
func (s *AgentService) DraftFollowUp(ctx context.Context, id uuid.UUID, tone string) (*agent.FollowUpDraft, error) {
	if s.agents.Drafter == nil {
		return nil, ErrAgentsDisabled
	}
	app, err := s.apps.GetApplication(ctx, id)
	if err != nil {
		return nil, err
	}
	c := toCandidate(*app)
	return s.agents.Drafter.Draft(ctx, agent.FollowUpInput{
		Company:          app.Company,
		Position:         app.Position,
		Status:           app.Status,
		DaysSinceContact: daysSince(time.Now().UTC(), c.ReferenceDate()),
		Notes:            c.Notes,
		Tone:             strings.TrimSpace(tone),
	})
}

// PrepareInterview builds interview notes from the stored application and
// an optional job description.
func (s *AgentService) PrepareInterview(ctx context.Context, id uuid.UUID, jobDescription string) (*agent.InterviewPrep, error) {
	if s.agents.Prepper == nil {
		return nil, ErrAgentsDisabled
	}
	app, err := s.apps.GetApplication(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.agents.Prepper.Prepare(ctx, agent.InterviewInput{
		Company:        app.Company,
		Position:       app.Position,
		Stage:          app.Status,
		JobDescription: jobDescription,
		Notes:          toCandidate(*app).Notes,
	})
}

func (s *AgentService) TailorResume(ctx context.Context, in agent.TailorInput) (*agent.TailoredResume, error) {
	if s.agents.Tailor == nil {
		return nil, ErrAgentsDisabled
	}
	return s.agents.Tailor.Tailor(ctx, in)
}
