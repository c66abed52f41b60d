package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"job-tracker/internal/agent"
	"job-tracker/internal/api"
	"job-tracker/internal/db"
	"job-tracker/internal/matching"
	"job-tracker/internal/repository"
	"job-tracker/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ApplicationService is the application CRUD the handlers call.
type ApplicationService interface {
	CreateApplication(ctx context.Context, req repository.CreateApplicationRequest) (*repository.Application, error)
	GetApplication(ctx context.Context, id uuid.UUID) (*repository.Application, error)
	ListApplicationsPage(ctx context.Context, params repository.ListApplicationsParams) ([]repository.Application, int64, error)
	UpdateApplication(ctx context.Context, id uuid.UUID, req repository.UpdateApplicationRequest) (*repository.Application, error)
	DeleteApplication(ctx context.Context, id uuid.UUID) error
	ChangeStatus(ctx context.Context, id uuid.UUID, status string) (*repository.Application, error)
	RecordContact(ctx context.Context, id uuid.UUID, at time.Time) (*repository.Application, error)
}

// EmailMatcher runs the matching engine and resolves suggestions.
type EmailMatcher interface {
	ProcessEmail(ctx context.Context, email matching.Email) (*service.MatchOutcome, error)
	Preview(ctx context.Context, email matching.Email) (*service.MatchOutcome, error)
	ListSuggestions(ctx context.Context, params repository.ListSuggestionsParams) ([]repository.Suggestion, error)
	ConfirmSuggestion(ctx context.Context, id uuid.UUID) (*repository.Suggestion, *repository.Application, error)
	DismissSuggestion(ctx context.Context, id uuid.UUID) (*repository.Suggestion, error)
	Config() matching.Config
}

// AgentRunner exposes the LLM helpers.
type AgentRunner interface {
	AnalyzeEmail(ctx context.Context, email matching.Email) (*agent.EmailAnalysis, error)
	DraftFollowUp(ctx context.Context, id uuid.UUID, tone string) (*agent.FollowUpDraft, error)
	PrepareInterview(ctx context.Context, id uuid.UUID, jobDescription string) (*agent.InterviewPrep, error)
	TailorResume(ctx context.Context, in agent.TailorInput) (*agent.TailoredResume, error)
}

// FollowUpScanner finds applications that need a nudge.
type FollowUpScanner interface {
	ScanStale(ctx context.Context) ([]service.FollowUpDue, error)
}

var (
	_ ApplicationService = (*service.ApplicationService)(nil)
	_ EmailMatcher       = (*service.EmailMatchService)(nil)
	_ AgentRunner        = (*service.AgentService)(nil)
	_ FollowUpScanner    = (*service.FollowUpService)(nil)
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

// pagination reads page and limit, falling back to defaults on bad input.
func pagination(c *gin.Context) (page, limit int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultPageLimit)))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > maxPageLimit {
		limit = defaultPageLimit
	}
	return page, limit
}

func parseID(c *gin.Context, resource string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		api.SendError(c, http.StatusBadRequest, api.ErrCodeValidation, "Invalid "+resource+" ID", err.Error())
		return uuid.Nil, false
	}
	return id, true
}

// sendServiceError maps service and storage errors onto the response envelope.
func sendServiceError(c *gin.Context, err error, resource, action string) {
	switch {
	case errors.Is(err, db.ErrNotFound):
		api.SendNotFound(c, resource)
	case errors.Is(err, service.ErrInvalidStatus),
		errors.Is(err, service.ErrInvalidApplication),
		errors.Is(err, agent.ErrInvalidInput):
		api.SendValidationError(c, "Validation failed", err.Error())
	case errors.Is(err, service.ErrSuggestionResolved):
		api.SendConflict(c, err.Error())
	case errors.Is(err, service.ErrAgentsDisabled):
		api.SendUnavailable(c, "Agents are not enabled")
	case errors.Is(err, agent.ErrEmptyResponse):
		api.SendError(c, http.StatusBadGateway, api.ErrCodeUpstream, "Agent returned no usable answer", err.Error())
	default:
		_ = c.Error(err)
		api.SendError(c, http.StatusInternalServerError, api.ErrCodeInternal, "Failed to "+action, err.Error())
	}
}
