package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const suggestionColumns = `id, application_id, email_fingerprint, sender, subject, confidence, reasons, target_status, state, created_at, resolved_at`

func scanSuggestion(row interface{ Scan(...interface{}) error }, extra ...interface{}) (*MatchSuggestion, error) {
	var i MatchSuggestion
	dest := []interface{}{
		&i.ID,
		&i.ApplicationID,
		&i.EmailFingerprint,
		&i.Sender,
		&i.Subject,
		&i.Confidence,
		&i.Reasons,
		&i.TargetStatus,
		&i.State,
		&i.CreatedAt,
		&i.ResolvedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	return &i, nil
}

const getSuggestion = `-- name: GetSuggestion :one
SELECT ` + suggestionColumns + ` FROM match_suggestion WHERE id = $1
`

func (q *Queries) GetSuggestion(ctx context.Context, id pgtype.UUID) (*MatchSuggestion, error) {
	return scanSuggestion(q.db.QueryRow(ctx, getSuggestion, id))
}

const listSuggestions = `-- name: ListSuggestions :many
SELECT ` + suggestionColumns + ` FROM match_suggestion
WHERE ($1::text IS NULL OR state = $1::text)
  AND ($2::uuid IS NULL OR application_id = $2::uuid)
ORDER BY created_at DESC, id
LIMIT $3 OFFSET $4
`

type ListSuggestionsParams struct {
	State         pgtype.Text `json:"state"`
	ApplicationID pgtype.UUID `json:"application_id"`
	Limit         int32       `json:"limit"`
	Offset        int32       `json:"offset"`
}

func (q *Queries) ListSuggestions(ctx context.Context, arg ListSuggestionsParams) ([]*MatchSuggestion, error) {
	rows, err := q.db.Query(ctx, listSuggestions, arg.State, arg.ApplicationID, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []*MatchSuggestion{}
	for rows.Next() {
		i, err := scanSuggestion(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const resolveSuggestion = `-- name: ResolveSuggestion :one
UPDATE match_suggestion
SET state = $2, resolved_at = NOW()
WHERE id = $1 AND state = 'pending'
RETURNING ` + suggestionColumns

type ResolveSuggestionParams struct {
	ID    pgtype.UUID `json:"id"`
	State string      `json:"state"`
}

// ResolveSuggestion returns pgx.ErrNoRows when the suggestion does not exist
// or is no longer pending.
func (q *Queries) ResolveSuggestion(ctx context.Context, arg ResolveSuggestionParams) (*MatchSuggestion, error) {
	return scanSuggestion(q.db.QueryRow(ctx, resolveSuggestion, arg.ID, arg.State))
}

// The no-op DO UPDATE makes RETURNING yield the existing row on conflict;
// xmax = 0 only for freshly inserted rows.
const upsertSuggestion = `-- name: UpsertSuggestion :one
INSERT INTO match_suggestion (application_id, email_fingerprint, sender, subject, confidence, reasons, target_status)
VALUES ($1, $2, $3, $4, $5, $6, $7)
ON CONFLICT (application_id, email_fingerprint)
DO UPDATE SET application_id = EXCLUDED.application_id
RETURNING ` + suggestionColumns + `, (xmax = 0) AS inserted`

type UpsertSuggestionParams struct {
	ApplicationID    pgtype.UUID `json:"application_id"`
	EmailFingerprint string      `json:"email_fingerprint"`
	Sender           string      `json:"sender"`
	Subject          string      `json:"subject"`
	Confidence       float64     `json:"confidence"`
	Reasons          []string    `json:"reasons"`
	TargetStatus     pgtype.Text `json:"target_status"`
}

type UpsertSuggestionRow struct {
	MatchSuggestion
	Inserted bool `json:"inserted"`
}

func (q *Queries) UpsertSuggestion(ctx context.Context, arg UpsertSuggestionParams) (*UpsertSuggestionRow, error) {
	row := q.db.QueryRow(ctx, upsertSuggestion,
		arg.ApplicationID,
		arg.EmailFingerprint,
		arg.Sender,
		arg.Subject,
		arg.Confidence,
		arg.Reasons,
		arg.TargetStatus,
	)
	var inserted bool
	s, err := scanSuggestion(row, &inserted)
	if err != nil {
		return nil, err
	}
	return &UpsertSuggestionRow{MatchSuggestion: *s, Inserted: inserted}, nil
}
