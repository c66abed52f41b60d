package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const applicationColumns = `id, company, position, status, applied_at, last_contact_at, job_url, notes, created_at, updated_at`

func scanApplication(row interface{ Scan(...interface{}) error }) (*JobApplication, error) {
	var i JobApplication
	err := row.Scan(
		&i.ID,
		&i.Company,
		&i.Position,
		&i.Status,
		&i.AppliedAt,
		&i.LastContactAt,
		&i.JobUrl,
		&i.Notes,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &i, nil
}

const countApplications = `-- name: CountApplications :one
SELECT COUNT(*) FROM job_application
WHERE $1::text IS NULL OR status = $1::text
`

func (q *Queries) CountApplications(ctx context.Context, status pgtype.Text) (int64, error) {
	row := q.db.QueryRow(ctx, countApplications, status)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const createApplication = `-- name: CreateApplication :one
INSERT INTO job_application (company, position, status, applied_at, last_contact_at, job_url, notes)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING ` + applicationColumns

type CreateApplicationParams struct {
	Company       string             `json:"company"`
	Position      string             `json:"position"`
	Status        string             `json:"status"`
	AppliedAt     pgtype.Timestamptz `json:"applied_at"`
	LastContactAt pgtype.Timestamptz `json:"last_contact_at"`
	JobUrl        pgtype.Text        `json:"job_url"`
	Notes         pgtype.Text        `json:"notes"`
}

func (q *Queries) CreateApplication(ctx context.Context, arg CreateApplicationParams) (*JobApplication, error) {
	row := q.db.QueryRow(ctx, createApplication,
		arg.Company,
		arg.Position,
		arg.Status,
		arg.AppliedAt,
		arg.LastContactAt,
		arg.JobUrl,
		arg.Notes,
	)
	return scanApplication(row)
}

const deleteApplication = `-- name: DeleteApplication :exec
DELETE FROM job_application WHERE id = $1
`

func (q *Queries) DeleteApplication(ctx context.Context, id pgtype.UUID) error {
	_, err := q.db.Exec(ctx, deleteApplication, id)
	return err
}

const getApplication = `-- name: GetApplication :one
SELECT ` + applicationColumns + ` FROM job_application WHERE id = $1
`

func (q *Queries) GetApplication(ctx context.Context, id pgtype.UUID) (*JobApplication, error) {
	return scanApplication(q.db.QueryRow(ctx, getApplication, id))
}

const listApplications = `-- name: ListApplications :many
SELECT ` + applicationColumns + ` FROM job_application
WHERE $1::text IS NULL OR status = $1::text
ORDER BY COALESCE(last_contact_at, applied_at, created_at) DESC, id
LIMIT $2 OFFSET $3
`

type ListApplicationsParams struct {
	Status pgtype.Text `json:"status"`
	Limit  int32       `json:"limit"`
	Offset int32       `json:"offset"`
}

func (q *Queries) ListApplications(ctx context.Context, arg ListApplicationsParams) ([]*JobApplication, error) {
	return q.listApplications(ctx, listApplications, arg.Status, arg.Limit, arg.Offset)
}

const listApplicationsActiveSince = `-- name: ListApplicationsActiveSince :many
SELECT ` + applicationColumns + ` FROM job_application
WHERE COALESCE(last_contact_at, applied_at) IS NULL
   OR COALESCE(last_contact_at, applied_at) >= $1
ORDER BY id
`

func (q *Queries) ListApplicationsActiveSince(ctx context.Context, since pgtype.Timestamptz) ([]*JobApplication, error) {
	return q.listApplications(ctx, listApplicationsActiveSince, since)
}

const listStaleApplications = `-- name: ListStaleApplications :many
SELECT ` + applicationColumns + ` FROM job_application
WHERE COALESCE(last_contact_at, applied_at) < $1
  AND NOT (status = ANY($2::text[]))
ORDER BY COALESCE(last_contact_at, applied_at)
`

type ListStaleApplicationsParams struct {
	Before           pgtype.Timestamptz `json:"before"`
	TerminalStatuses []string           `json:"terminal_statuses"`
}

func (q *Queries) ListStaleApplications(ctx context.Context, arg ListStaleApplicationsParams) ([]*JobApplication, error) {
	return q.listApplications(ctx, listStaleApplications, arg.Before, arg.TerminalStatuses)
}

const touchApplicationContact = `-- name: TouchApplicationContact :one
UPDATE job_application
SET last_contact_at = GREATEST(COALESCE(last_contact_at, $2), $2),
    updated_at = NOW()
WHERE id = $1
RETURNING ` + applicationColumns

type TouchApplicationContactParams struct {
	ID            pgtype.UUID        `json:"id"`
	LastContactAt pgtype.Timestamptz `json:"last_contact_at"`
}

func (q *Queries) TouchApplicationContact(ctx context.Context, arg TouchApplicationContactParams) (*JobApplication, error) {
	return scanApplication(q.db.QueryRow(ctx, touchApplicationContact, arg.ID, arg.LastContactAt))
}

const updateApplication = `-- name: UpdateApplication :one
UPDATE job_application
SET company = $2,
    position = $3,
    applied_at = $4,
    job_url = $5,
    notes = $6,
    updated_at = NOW()
WHERE id = $1
RETURNING ` + applicationColumns

type UpdateApplicationParams struct {
	ID        pgtype.UUID        `json:"id"`
	Company   string             `json:"company"`
	Position  string             `json:"position"`
	AppliedAt pgtype.Timestamptz `json:"applied_at"`
	JobUrl    pgtype.Text        `json:"job_url"`
	Notes     pgtype.Text        `json:"notes"`
}

func (q *Queries) UpdateApplication(ctx context.Context, arg UpdateApplicationParams) (*JobApplication, error) {
	row := q.db.QueryRow(ctx, updateApplication,
		arg.ID,
		arg.Company,
		arg.Position,
		arg.AppliedAt,
		arg.JobUrl,
		arg.Notes,
	)
	return scanApplication(row)
}

const updateApplicationStatus = `-- name: UpdateApplicationStatus :one
UPDATE job_application
SET status = $2,
    last_contact_at = CASE
        WHEN $3::timestamptz IS NULL THEN last_contact_at
        ELSE GREATEST(COALESCE(last_contact_at, $3::timestamptz), $3::timestamptz)
    END,
    updated_at = NOW()
WHERE id = $1
RETURNING ` + applicationColumns

type UpdateApplicationStatusParams struct {
	ID            pgtype.UUID        `json:"id"`
	Status        string             `json:"status"`
	LastContactAt pgtype.Timestamptz `json:"last_contact_at"`
}

func (q *Queries) UpdateApplicationStatus(ctx context.Context, arg UpdateApplicationStatusParams) (*JobApplication, error) {
	return scanApplication(q.db.QueryRow(ctx, updateApplicationStatus, arg.ID, arg.Status, arg.LastContactAt))
}

func (q *Queries) listApplications(ctx context.Context, query string, args ...interface{}) ([]*JobApplication, error) {
	rows, err := q.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []*JobApplication{}
	for rows.Next() {
		i, err := scanApplication(rows)
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
