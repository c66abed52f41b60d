package repository

import (
	"context"
	"errors"
	"time"

	"job-tracker/internal/db"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Suggestion states
const (
	SuggestionPending   = "pending"
	SuggestionConfirmed = "confirmed"
	SuggestionDismissed = "dismissed"
)

type SuggestionRepository struct {
	queries db.Querier
}

func NewSuggestionRepository(queries db.Querier) *SuggestionRepository {
	return &SuggestionRepository{queries: queries}
}

// Suggestion is a medium-confidence match awaiting a human decision
type Suggestion struct {
	ID               uuid.UUID  `json:"id"`
	ApplicationID    uuid.UUID  `json:"application_id"`
	EmailFingerprint string     `json:"email_fingerprint"`
	Sender           string     `json:"sender"`
	Subject          string     `json:"subject"`
	Confidence       float64    `json:"confidence"`
	Reasons          []string   `json:"reasons"`
	TargetStatus     *string    `json:"target_status,omitempty"`
	State            string     `json:"state"`
	CreatedAt        time.Time  `json:"created_at"`
	ResolvedAt       *time.Time `json:"resolved_at,omitempty"`
}

// CreateSuggestionRequest represents a suggestion to store
type CreateSuggestionRequest struct {
	ApplicationID    uuid.UUID
	EmailFingerprint string
	Sender           string
	Subject          string
	Confidence       float64
	Reasons          []string
	TargetStatus     *string
}

// ListSuggestionsParams filters suggestions by state and application
type ListSuggestionsParams struct {
	State         *string
	ApplicationID *uuid.UUID
	Limit         int32
	Offset        int32
}

func convertDbSuggestion(s *db.MatchSuggestion) Suggestion {
	out := Suggestion{
		ID:               pgUUIDToUUID(s.ID),
		ApplicationID:    pgUUIDToUUID(s.ApplicationID),
		EmailFingerprint: s.EmailFingerprint,
		Sender:           s.Sender,
		Subject:          s.Subject,
		Confidence:       s.Confidence,
		Reasons:          s.Reasons,
		TargetStatus:     pgTextToString(s.TargetStatus),
		State:            s.State,
		ResolvedAt:       pgTimestamptzToTime(s.ResolvedAt),
	}
	if out.Reasons == nil {
		out.Reasons = []string{}
	}
	if s.CreatedAt.Valid {
		out.CreatedAt = s.CreatedAt.Time
	}
	return out
}

// UpsertSuggestion stores a pending suggestion. Storing the same email for the
// same application again returns the existing row with created=false.
func (r *SuggestionRepository) UpsertSuggestion(ctx context.Context, req CreateSuggestionRequest) (*Suggestion, bool, error) {
	reasons := req.Reasons
	if reasons == nil {
		reasons = []string{}
	}
	row, err := r.queries.UpsertSuggestion(ctx, db.UpsertSuggestionParams{
		ApplicationID:    uuidToPgUUID(req.ApplicationID),
		EmailFingerprint: req.EmailFingerprint,
		Sender:           req.Sender,
		Subject:          req.Subject,
		Confidence:       req.Confidence,
		Reasons:          reasons,
		TargetStatus:     stringToPgText(req.TargetStatus),
	})
	if err != nil {
		return nil, false, err
	}
	s := convertDbSuggestion(&row.MatchSuggestion)
	return &s, row.Inserted, nil
}

// GetSuggestion retrieves a suggestion by ID
func (r *SuggestionRepository) GetSuggestion(ctx context.Context, id uuid.UUID) (*Suggestion, error) {
	row, err := r.queries.GetSuggestion(ctx, uuidToPgUUID(id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, db.ErrNotFound
		}
		return nil, err
	}
	s := convertDbSuggestion(row)
	return &s, nil
}

// ListSuggestions lists suggestions, newest first
func (r *SuggestionRepository) ListSuggestions(ctx context.Context, params ListSuggestionsParams) ([]Suggestion, error) {
	rows, err := r.queries.ListSuggestions(ctx, db.ListSuggestionsParams{
		State:         stringToPgText(params.State),
		ApplicationID: optionalUUIDToPg(params.ApplicationID),
		Limit:         params.Limit,
		Offset:        params.Offset,
	})
	if err != nil {
		return nil, err
	}
	out := make([]Suggestion, len(rows))
	for i, row := range rows {
		out[i] = convertDbSuggestion(row)
	}
	return out, nil
}

// ResolveSuggestion moves a pending suggestion to state. It returns
// db.ErrNotFound when no pending suggestion with that ID exists.
func (r *SuggestionRepository) ResolveSuggestion(ctx context.Context, id uuid.UUID, state string) (*Suggestion, error) {
	row, err := r.queries.ResolveSuggestion(ctx, db.ResolveSuggestionParams{
		ID:    uuidToPgUUID(id),
		State: state,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, db.ErrNotFound
		}
		return nil, err
	}
	s := convertDbSuggestion(row)
	return &s, nil
}
