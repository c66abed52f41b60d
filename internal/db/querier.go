package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

type Querier interface {
	CountApplications(ctx context.Context, status pgtype.Text) (int64, error)
	CreateApplication(ctx context.Context, arg CreateApplicationParams) (*JobApplication, error)
	DeleteApplication(ctx context.Context, id pgtype.UUID) error
	GetApplication(ctx context.Context, id pgtype.UUID) (*JobApplication, error)
	ListApplications(ctx context.Context, arg ListApplicationsParams) ([]*JobApplication, error)
	// Candidates whose last activity is on or after since. Rows without any
	// date are always returned.
	ListApplicationsActiveSince(ctx context.Context, since pgtype.Timestamptz) ([]*JobApplication, error)
	ListStaleApplications(ctx context.Context, arg ListStaleApplicationsParams) ([]*JobApplication, error)
	TouchApplicationContact(ctx context.Context, arg TouchApplicationContactParams) (*JobApplication, error)
	UpdateApplication(ctx context.Context, arg UpdateApplicationParams) (*JobApplication, error)
	UpdateApplicationStatus(ctx context.Context, arg UpdateApplicationStatusParams) (*JobApplication, error)

	GetSuggestion(ctx context.Context, id pgtype.UUID) (*MatchSuggestion, error)
	ListSuggestions(ctx context.Context, arg ListSuggestionsParams) ([]*MatchSuggestion, error)
	ResolveSuggestion(ctx context.Context, arg ResolveSuggestionParams) (*MatchSuggestion, error)
	UpsertSuggestion(ctx context.Context, arg UpsertSuggestionParams) (*UpsertSuggestionRow, error)
}

var _ Querier = (*Queries)(nil)
