package repository

import (
	"context"
	"testing"
	"time"

	"job-tracker/internal/db"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeQuerier implements only the queries these tests touch; anything else
// panics through the nil embedded interface.
type fakeQuerier struct {
	db.Querier

	app        *db.JobApplication
	suggestion *db.MatchSuggestion
	inserted   bool
	err        error

	lastStatus   pgtype.Text
	lastStale    db.ListStaleApplicationsParams
	lastUpsert   db.UpsertSuggestionParams
	lastResolved db.ResolveSuggestionParams
}

func (f *fakeQuerier) GetApplication(ctx context.Context, id pgtype.UUID) (*db.JobApplication, error) {
	return f.app, f.err
}

func (f *fakeQuerier) ListApplications(ctx context.Context, arg db.ListApplicationsParams) ([]*db.JobApplication, error) {
	f.lastStatus = arg.Status
	return []*db.JobApplication{f.app}, f.err
}

func (f *fakeQuerier) ListStaleApplications(ctx context.Context, arg db.ListStaleApplicationsParams) ([]*db.JobApplication, error) {
	f.lastStale = arg
	return nil, f.err
}

func (f *fakeQuerier) UpsertSuggestion(ctx context.Context, arg db.UpsertSuggestionParams) (*db.UpsertSuggestionRow, error) {
	f.lastUpsert = arg
	if f.err != nil {
		return nil, f.err
	}
	return &db.UpsertSuggestionRow{MatchSuggestion: *f.suggestion, Inserted: f.inserted}, nil
}

func (f *fakeQuerier) ResolveSuggestion(ctx context.Context, arg db.ResolveSuggestionParams) (*db.MatchSuggestion, error) {
	f.lastResolved = arg
	return f.suggestion, f.err
}

func sampleDbApplication(id uuid.UUID) *db.JobApplication {
	applied := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	return &db.JobApplication{
		ID:        pgtype.UUID{Bytes: id, Valid: true},
		Company:   "Google",
		Position:  "Software Engineer",
		Status:    "applied",
		AppliedAt: pgtype.Timestamptz{Time: applied, Valid: true},
		JobUrl:    pgtype.Text{String: "https://careers.google.com/1", Valid: true},
		CreatedAt: pgtype.Timestamptz{Time: applied, Valid: true},
		UpdatedAt: pgtype.Timestamptz{Time: applied, Valid: true},
	}
}

func TestApplicationRepository_GetApplication(t *testing.T) {
	id := uuid.New()
	repo := NewApplicationRepository(&fakeQuerier{app: sampleDbApplication(id)})

	app, err := repo.GetApplication(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, id, app.ID)
	assert.Equal(t, "Google", app.Company)
	require.NotNil(t, app.AppliedAt)
	assert.Nil(t, app.LastContactAt)
	require.NotNil(t, app.JobURL)
	assert.Equal(t, "https://careers.google.com/1", *app.JobURL)
	assert.Nil(t, app.Notes)
}

func TestApplicationRepository_NotFound(t *testing.T) {
	repo := NewApplicationRepository(&fakeQuerier{err: pgx.ErrNoRows})

	_, err := repo.GetApplication(context.Background(), uuid.New())
	assert.ErrorIs(t, err, db.ErrNotFound)
}

func TestApplicationRepository_ListFiltersByStatus(t *testing.T) {
	q := &fakeQuerier{app: sampleDbApplication(uuid.New())}
	repo := NewApplicationRepository(q)

	status := "interview"
	apps, err := repo.ListApplications(context.Background(), ListApplicationsParams{Status: &status, Limit: 10})
	require.NoError(t, err)
	assert.Len(t, apps, 1)
	assert.Equal(t, pgtype.Text{String: "interview", Valid: true}, q.lastStatus)

	_, err = repo.ListApplications(context.Background(), ListApplicationsParams{Limit: 10})
	require.NoError(t, err)
	assert.False(t, q.lastStatus.Valid)
}

func TestApplicationRepository_ListStaleNeverSendsNilArray(t *testing.T) {
	q := &fakeQuerier{}
	repo := NewApplicationRepository(q)

	_, err := repo.ListStaleApplications(context.Background(), time.Now(), nil)
	require.NoError(t, err)
	assert.NotNil(t, q.lastStale.TerminalStatuses)
	assert.True(t, q.lastStale.Before.Valid)
}

func TestSuggestionRepository_Upsert(t *testing.T) {
	appID := uuid.New()
	q := &fakeQuerier{
		suggestion: &db.MatchSuggestion{
			ID:               pgtype.UUID{Bytes: uuid.New(), Valid: true},
			ApplicationID:    pgtype.UUID{Bytes: appID, Valid: true},
			EmailFingerprint: "fp",
			Confidence:       62.5,
			State:            SuggestionPending,
		},
		inserted: true,
	}
	repo := NewSuggestionRepository(q)

	s, created, err := repo.UpsertSuggestion(context.Background(), CreateSuggestionRequest{
		ApplicationID:    appID,
		EmailFingerprint: "fp",
		Confidence:       62.5,
	})
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, appID, s.ApplicationID)
	assert.NotNil(t, s.Reasons)
	assert.NotNil(t, q.lastUpsert.Reasons, "reasons column is NOT NULL")
	assert.False(t, q.lastUpsert.TargetStatus.Valid)
}

func TestSuggestionRepository_ResolveNotPending(t *testing.T) {
	q := &fakeQuerier{err: pgx.ErrNoRows}
	repo := NewSuggestionRepository(q)

	_, err := repo.ResolveSuggestion(context.Background(), uuid.New(), SuggestionConfirmed)
	assert.ErrorIs(t, err, db.ErrNotFound)
	assert.Equal(t, SuggestionConfirmed, q.lastResolved.State)
}

func TestConversions(t *testing.T) {
	assert.False(t, timeToPgTimestamptz(nil).Valid)
	zero := time.Time{}
	assert.False(t, timeToPgTimestamptz(&zero).Valid)
	assert.Nil(t, pgTextToString(pgtype.Text{}))
	assert.Equal(t, uuid.Nil, pgUUIDToUUID(pgtype.UUID{}))
	assert.False(t, optionalUUIDToPg(nil).Valid)
}
