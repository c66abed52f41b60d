package service

import (
	"context"
	"errors"
	"time"

	"job-tracker/internal/logger"
	"job-tracker/internal/matching"
	"job-tracker/internal/notify"
	"job-tracker/internal/repository"

	"github.com/google/uuid"
)

var (
	ErrInvalidStatus      = errors.New("invalid application status")
	ErrSuggestionResolved = errors.New("suggestion already resolved")
	ErrAgentsDisabled     = errors.New("agents are disabled")
	ErrInvalidApplication = errors.New("company and position are required")
)

// ApplicationRepo is the storage the services need for applications.
type ApplicationRepo interface {
	CreateApplication(ctx context.Context, req repository.CreateApplicationRequest) (*repository.Application, error)
	GetApplication(ctx context.Context, id uuid.UUID) (*repository.Application, error)
	ListApplications(ctx context.Context, params repository.ListApplicationsParams) ([]repository.Application, error)
	CountApplications(ctx context.Context, status *string) (int64, error)
	UpdateApplication(ctx context.Context, id uuid.UUID, req repository.UpdateApplicationRequest) (*repository.Application, error)
	UpdateApplicationStatus(ctx context.Context, id uuid.UUID, status string, contactAt *time.Time) (*repository.Application, error)
	TouchLastContact(ctx context.Context, id uuid.UUID, at time.Time) (*repository.Application, error)
	DeleteApplication(ctx context.Context, id uuid.UUID) error
	ListApplicationsActiveSince(ctx context.Context, since time.Time) ([]repository.Application, error)
	ListStaleApplications(ctx context.Context, before time.Time, terminalStatuses []string) ([]repository.Application, error)
}

// SuggestionRepo is the storage for pending match suggestions.
type SuggestionRepo interface {
	UpsertSuggestion(ctx context.Context, req repository.CreateSuggestionRequest) (*repository.Suggestion, bool, error)
	GetSuggestion(ctx context.Context, id uuid.UUID) (*repository.Suggestion, error)
	ListSuggestions(ctx context.Context, params repository.ListSuggestionsParams) ([]repository.Suggestion, error)
	ResolveSuggestion(ctx context.Context, id uuid.UUID, state string) (*repository.Suggestion, error)
}

var (
	_ ApplicationRepo = (*repository.ApplicationRepository)(nil)
	_ SuggestionRepo  = (*repository.SuggestionRepository)(nil)
)

// toCandidate converts a stored application into a matching candidate.
func toCandidate(app repository.Application) matching.Candidate {
	c := matching.Candidate{
		ID:       app.ID.String(),
		Company:  app.Company,
		Position: app.Position,
		Status:   app.Status,
	}
	if app.AppliedAt != nil {
		c.AppliedAt = *app.AppliedAt
	}
	if app.LastContactAt != nil {
		c.LastContactAt = *app.LastContactAt
	}
	if app.Notes != nil {
		c.Notes = *app.Notes
	}
	return c
}

// publish delivers an event; delivery failures are logged, never returned.
func publish(ctx context.Context, n notify.Notifier, event notify.Event) {
	if n == nil {
		return
	}
	if event.At.IsZero() {
		event.At = time.Now().UTC()
	}
	if err := n.Notify(ctx, event); err != nil {
		logger.Warn().Err(err).Str("event", event.Type).Msg("failed to deliver notification")
	}
}

func sameTime(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}
