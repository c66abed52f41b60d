package db

import (
	"github.com/jackc/pgx/v5/pgtype"
)

type JobApplication struct {
	ID            pgtype.UUID        `json:"id"`
	Company       string             `json:"company"`
	Position      string             `json:"position"`
	Status        string             `json:"status"`
	AppliedAt     pgtype.Timestamptz `json:"applied_at"`
	LastContactAt pgtype.Timestamptz `json:"last_contact_at"`
	JobUrl        pgtype.Text        `json:"job_url"`
	Notes         pgtype.Text        `json:"notes"`
	CreatedAt     pgtype.Timestamptz `json:"created_at"`
	UpdatedAt     pgtype.Timestamptz `json:"updated_at"`
}

type MatchSuggestion struct {
	ID               pgtype.UUID        `json:"id"`
	ApplicationID    pgtype.UUID        `json:"application_id"`
	EmailFingerprint string             `json:"email_fingerprint"`
	Sender           string             `json:"sender"`
	Subject          string             `json:"subject"`
	Confidence       float64            `json:"confidence"`
	Reasons          []string           `json:"reasons"`
	TargetStatus     pgtype.Text        `json:"target_status"`
	State            string             `json:"state"`
	CreatedAt        pgtype.Timestamptz `json:"created_at"`
	ResolvedAt       pgtype.Timestamptz `json:"resolved_at"`
}
