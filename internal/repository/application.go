package repository

import (
	"context"
	"errors"
	"time"

	"job-tracker/internal/db"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

type ApplicationRepository struct {
	queries db.Querier
}

func NewApplicationRepository(queries db.Querier) *ApplicationRepository {
	return &ApplicationRepository{queries: queries}
}

// Application represents a tracked job application
type Application struct {
	ID            uuid.UUID  `json:"id"`
	Company       string     `json:"company"`
	Position      string     `json:"position"`
	Status        string     `json:"status"`
	AppliedAt     *time.Time `json:"applied_at,omitempty"`
	LastContactAt *time.Time `json:"last_contact_at,omitempty"`
	JobURL        *string    `json:"job_url,omitempty"`
	Notes         *string    `json:"notes,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// CreateApplicationRequest represents the request to create an application
type CreateApplicationRequest struct {
	Company       string     `json:"company"`
	Position      string     `json:"position"`
	Status        string     `json:"status"`
	AppliedAt     *time.Time `json:"applied_at,omitempty"`
	LastContactAt *time.Time `json:"last_contact_at,omitempty"`
	JobURL        *string    `json:"job_url,omitempty"`
	Notes         *string    `json:"notes,omitempty"`
}

// UpdateApplicationRequest represents the editable, non-status fields
type UpdateApplicationRequest struct {
	Company   string     `json:"company"`
	Position  string     `json:"position"`
	AppliedAt *time.Time `json:"applied_at,omitempty"`
	JobURL    *string    `json:"job_url,omitempty"`
	Notes     *string    `json:"notes,omitempty"`
}

// ListApplicationsParams represents parameters for listing applications
type ListApplicationsParams struct {
	Status *string `json:"status,omitempty"`
	Limit  int32   `json:"limit"`
	Offset int32   `json:"offset"`
}

func convertDbApplication(a *db.JobApplication) Application {
	app := Application{
		ID:            pgUUIDToUUID(a.ID),
		Company:       a.Company,
		Position:      a.Position,
		Status:        a.Status,
		AppliedAt:     pgTimestamptzToTime(a.AppliedAt),
		LastContactAt: pgTimestamptzToTime(a.LastContactAt),
		JobURL:        pgTextToString(a.JobUrl),
		Notes:         pgTextToString(a.Notes),
	}
	if a.CreatedAt.Valid {
		app.CreatedAt = a.CreatedAt.Time
	}
	if a.UpdatedAt.Valid {
		app.UpdatedAt = a.UpdatedAt.Time
	}
	return app
}

func convertDbApplications(rows []*db.JobApplication) []Application {
	apps := make([]Application, len(rows))
	for i, row := range rows {
		apps[i] = convertDbApplication(row)
	}
	return apps
}

func oneApplication(row *db.JobApplication, err error) (*Application, error) {
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, db.ErrNotFound
		}
		return nil, err
	}
	app := convertDbApplication(row)
	return &app, nil
}

// GetApplication retrieves an application by ID
func (r *ApplicationRepository) GetApplication(ctx context.Context, id uuid.UUID) (*Application, error) {
	return oneApplication(r.queries.GetApplication(ctx, uuidToPgUUID(id)))
}

// CreateApplication inserts a new application
func (r *ApplicationRepository) CreateApplication(ctx context.Context, req CreateApplicationRequest) (*Application, error) {
	return oneApplication(r.queries.CreateApplication(ctx, db.CreateApplicationParams{
		Company:       req.Company,
		Position:      req.Position,
		Status:        req.Status,
		AppliedAt:     timeToPgTimestamptz(req.AppliedAt),
		LastContactAt: timeToPgTimestamptz(req.LastContactAt),
		JobUrl:        stringToPgText(req.JobURL),
		Notes:         stringToPgText(req.Notes),
	}))
}

// ListApplications retrieves a paginated list, optionally filtered by status
func (r *ApplicationRepository) ListApplications(ctx context.Context, params ListApplicationsParams) ([]Application, error) {
	rows, err := r.queries.ListApplications(ctx, db.ListApplicationsParams{
		Status: stringToPgText(params.Status),
		Limit:  params.Limit,
		Offset: params.Offset,
	})
	if err != nil {
		return nil, err
	}
	return convertDbApplications(rows), nil
}

// CountApplications counts applications, optionally filtered by status
func (r *ApplicationRepository) CountApplications(ctx context.Context, status *string) (int64, error) {
	return r.queries.CountApplications(ctx, stringToPgText(status))
}

// ListApplicationsActiveSince returns applications whose last activity is on
// or after since, plus those with no dates at all.
func (r *ApplicationRepository) ListApplicationsActiveSince(ctx context.Context, since time.Time) ([]Application, error) {
	rows, err := r.queries.ListApplicationsActiveSince(ctx, pgtype.Timestamptz{Time: since, Valid: true})
	if err != nil {
		return nil, err
	}
	return convertDbApplications(rows), nil
}

// ListStaleApplications returns non-terminal applications with no activity since before.
func (r *ApplicationRepository) ListStaleApplications(ctx context.Context, before time.Time, terminalStatuses []string) ([]Application, error) {
	if terminalStatuses == nil {
		terminalStatuses = []string{}
	}
	rows, err := r.queries.ListStaleApplications(ctx, db.ListStaleApplicationsParams{
		Before:           pgtype.Timestamptz{Time: before, Valid: true},
		TerminalStatuses: terminalStatuses,
	})
	if err != nil {
		return nil, err
	}
	return convertDbApplications(rows), nil
}

// UpdateApplication updates the non-status fields of an application
func (r *ApplicationRepository) UpdateApplication(ctx context.Context, id uuid.UUID, req UpdateApplicationRequest) (*Application, error) {
	return oneApplication(r.queries.UpdateApplication(ctx, db.UpdateApplicationParams{
		ID:        uuidToPgUUID(id),
		Company:   req.Company,
		Position:  req.Position,
		AppliedAt: timeToPgTimestamptz(req.AppliedAt),
		JobUrl:    stringToPgText(req.JobURL),
		Notes:     stringToPgText(req.Notes),
	}))
}

// UpdateApplicationStatus sets the status and, when contactAt is given,
// advances the last contact date (it never moves backwards).
func (r *ApplicationRepository) UpdateApplicationStatus(ctx context.Context, id uuid.UUID, status string, contactAt *time.Time) (*Application, error) {
	return oneApplication(r.queries.UpdateApplicationStatus(ctx, db.UpdateApplicationStatusParams{
		ID:            uuidToPgUUID(id),
		Status:        status,
		LastContactAt: timeToPgTimestamptz(contactAt),
	}))
}

// TouchLastContact advances the last contact date without changing the status
func (r *ApplicationRepository) TouchLastContact(ctx context.Context, id uuid.UUID, at time.Time) (*Application, error) {
	return oneApplication(r.queries.TouchApplicationContact(ctx, db.TouchApplicationContactParams{
		ID:            uuidToPgUUID(id),
		LastContactAt: pgtype.Timestamptz{Time: at, Valid: true},
	}))
}

// DeleteApplication deletes an application and its suggestions
func (r *ApplicationRepository) DeleteApplication(ctx context.Context, id uuid.UUID) error {
	return r.queries.DeleteApplication(ctx, uuidToPgUUID(id))
}
