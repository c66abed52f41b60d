package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"job-tracker/internal/db"
	"job-tracker/internal/logger"
	"job-tracker/internal/matching"
	"job-tracker/internal/notify"
	"job-tracker/internal/repository"

	"github.com/google/uuid"
)

// MatchOutcome is what happened to one email.
// Changed is true when the email caused a write; reprocessing the same email
// leaves it false.
type MatchOutcome struct {
	Fingerprint string                  `json:"fingerprint"`
	Decision    matching.Decision       `json:"decision"`
	Ranked      []matching.MatchResult  `json:"ranked"`
	Changed     bool                    `json:"changed"`
	Application *repository.Application `json:"application,omitempty"`
	Suggestion  *repository.Suggestion  `json:"suggestion,omitempty"`
}

type EmailMatchService struct {
	apps        ApplicationRepo
	suggestions SuggestionRepo
	cfg         matching.Config
	notifier    notify.Notifier
	now         func() time.Time
}

func NewEmailMatchService(apps ApplicationRepo, suggestions SuggestionRepo, cfg matching.Config, notifier notify.Notifier) *EmailMatchService {
	return &EmailMatchService{
		apps:        apps,
		suggestions: suggestions,
		cfg:         cfg,
		notifier:    notifier,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// Config returns the matching configuration in effect.
func (s *EmailMatchService) Config() matching.Config {
	return s.cfg
}

// Preview ranks and decides without any side effects.
func (s *EmailMatchService) Preview(ctx context.Context, email matching.Email) (*MatchOutcome, error) {
	return s.evaluate(ctx, s.prepareEmail(email))
}

func (s *EmailMatchService) evaluate(ctx context.Context, email matching.Email) (*MatchOutcome, error) {
	ranked, err := s.rank(ctx, email)
	if err != nil {
		return nil, err
	}
	return &MatchOutcome{
		Fingerprint: Fingerprint(email),
		Decision:    matching.Decide(s.cfg, ranked, ""),
		Ranked:      ranked,
	}, nil
}

// ProcessEmail ranks the email against applications active inside the time
// window and acts on the decision.
func (s *EmailMatchService) ProcessEmail(ctx context.Context, email matching.Email) (*MatchOutcome, error) {
	email = s.prepareEmail(email)
	outcome, err := s.evaluate(ctx, email)
	if err != nil {
		return nil, err
	}
	d := outcome.Decision

	event := logger.Info().
		Str("fingerprint", outcome.Fingerprint).
		Str("action", string(d.Action)).
		Str("level", string(d.Level)).
		Int("candidates", len(outcome.Ranked)).
		Str("reason", d.Reason)
	if d.Best != nil {
		event = event.Str("application_id", d.Best.ApplicationID).Float64("confidence", d.Best.Confidence)
	}
	event.Msg("email match decision")

	if d.Anomaly != "" && d.Best != nil {
		logger.Warn().
			Str("application_id", d.Best.ApplicationID).
			Str("current_status", d.CurrentStatus).
			Str("target_status", d.TargetStatus).
			Str("anomaly", d.Anomaly).
			Msg("unusual status transition")
	}

	switch d.Action {
	case matching.ActionAutoUpdate:
		err = s.autoUpdate(ctx, email, outcome)
	case matching.ActionSuggest:
		err = s.suggest(ctx, email, outcome)
	}
	if err != nil {
		return nil, err
	}
	return outcome, nil
}

func (s *EmailMatchService) autoUpdate(ctx context.Context, email matching.Email, outcome *MatchOutcome) error {
	d := outcome.Decision
	id, err := uuid.Parse(d.Best.ApplicationID)
	if err != nil {
		return fmt.Errorf("invalid candidate id %q: %w", d.Best.ApplicationID, err)
	}
	before, err := s.apps.GetApplication(ctx, id)
	if err != nil {
		return fmt.Errorf("load matched application: %w", err)
	}
	contactAt := email.ReceivedAt

	if d.TargetStatus != "" && d.TargetStatus != before.Status {
		after, err := s.apps.UpdateApplicationStatus(ctx, id, d.TargetStatus, &contactAt)
		if err != nil {
			return fmt.Errorf("auto update status: %w", err)
		}
		outcome.Application, outcome.Changed = after, true
		publish(ctx, s.notifier, notify.Event{
			Type:          notify.EventStatusUpdated,
			ApplicationID: id.String(),
			Message:       fmt.Sprintf("%s: %s -> %s", after.Company, before.Status, d.TargetStatus),
			Data: map[string]interface{}{
				"from":       before.Status,
				"to":         d.TargetStatus,
				"source":     "email",
				"confidence": d.Best.Confidence,
				"subject":    email.Subject,
			},
		})
		return nil
	}

	after, err := s.apps.TouchLastContact(ctx, id, contactAt)
	if err != nil {
		return fmt.Errorf("record contact: %w", err)
	}
	outcome.Application = after
	if sameTime(before.LastContactAt, after.LastContactAt) {
		return nil
	}
	outcome.Changed = true
	publish(ctx, s.notifier, notify.Event{
		Type:          notify.EventContactRecorded,
		ApplicationID: id.String(),
		Message:       fmt.Sprintf("%s: new email %q", after.Company, email.Subject),
		Data:          map[string]interface{}{"confidence": d.Best.Confidence},
	})
	return nil
}

func (s *EmailMatchService) suggest(ctx context.Context, email matching.Email, outcome *MatchOutcome) error {
	d := outcome.Decision
	id, err := uuid.Parse(d.Best.ApplicationID)
	if err != nil {
		return fmt.Errorf("invalid candidate id %q: %w", d.Best.ApplicationID, err)
	}

	req := repository.CreateSuggestionRequest{
		ApplicationID:    id,
		EmailFingerprint: outcome.Fingerprint,
		Sender:           email.From,
		Subject:          email.Subject,
		Confidence:       d.Best.Confidence,
		Reasons:          append([]string{d.Reason}, d.Best.Reasons...),
	}
	if d.TargetStatus != "" {
		target := d.TargetStatus
		req.TargetStatus = &target
	}

	suggestion, created, err := s.suggestions.UpsertSuggestion(ctx, req)
	if err != nil {
		return fmt.Errorf("store suggestion: %w", err)
	}
	outcome.Suggestion, outcome.Changed = suggestion, created
	if !created {
		return nil
	}
	publish(ctx, s.notifier, notify.Event{
		Type:          notify.EventSuggestionCreated,
		ApplicationID: id.String(),
		Message:       fmt.Sprintf("Possible match for %s %s (%.0f%%)", d.Best.Company, d.Best.Position, d.Best.Confidence),
		Data: map[string]interface{}{
			"suggestion_id": suggestion.ID.String(),
			"target_status": d.TargetStatus,
			"subject":       email.Subject,
		},
	})
	return nil
}

// ListSuggestions lists stored suggestions.
func (s *EmailMatchService) ListSuggestions(ctx context.Context, params repository.ListSuggestionsParams) ([]repository.Suggestion, error) {
	return s.suggestions.ListSuggestions(ctx, params)
}

// ConfirmSuggestion accepts a pending suggestion. This is the explicit manual
// action, so the target status is applied even from a terminal state.
func (s *EmailMatchService) ConfirmSuggestion(ctx context.Context, id uuid.UUID) (*repository.Suggestion, *repository.Application, error) {
	resolved, err := s.resolve(ctx, id, repository.SuggestionConfirmed)
	if err != nil {
		return nil, nil, err
	}

	app, err := s.apps.GetApplication(ctx, resolved.ApplicationID)
	if err != nil {
		return nil, nil, fmt.Errorf("load suggested application: %w", err)
	}
	from := app.Status
	contactAt := resolved.CreatedAt

	if resolved.TargetStatus != nil && *resolved.TargetStatus != "" && *resolved.TargetStatus != app.Status {
		app, err = s.apps.UpdateApplicationStatus(ctx, resolved.ApplicationID, *resolved.TargetStatus, &contactAt)
	} else {
		app, err = s.apps.TouchLastContact(ctx, resolved.ApplicationID, contactAt)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("apply suggestion: %w", err)
	}

	publish(ctx, s.notifier, notify.Event{
		Type:          notify.EventSuggestionResolved,
		ApplicationID: app.ID.String(),
		Message:       fmt.Sprintf("Confirmed match for %s", app.Company),
		Data: map[string]interface{}{
			"suggestion_id": resolved.ID.String(),
			"state":         resolved.State,
			"from":          from,
			"to":            app.Status,
		},
	})
	return resolved, app, nil
}

// DismissSuggestion rejects a pending suggestion without touching the application.
func (s *EmailMatchService) DismissSuggestion(ctx context.Context, id uuid.UUID) (*repository.Suggestion, error) {
	resolved, err := s.resolve(ctx, id, repository.SuggestionDismissed)
	if err != nil {
		return nil, err
	}
	publish(ctx, s.notifier, notify.Event{
		Type:          notify.EventSuggestionResolved,
		ApplicationID: resolved.ApplicationID.String(),
		Message:       "Dismissed suggested match",
		Data: map[string]interface{}{
			"suggestion_id": resolved.ID.String(),
			"state":         resolved.State,
		},
	})
	return resolved, nil
}

func (s *EmailMatchService) resolve(ctx context.Context, id uuid.UUID, state string) (*repository.Suggestion, error) {
	existing, err := s.suggestions.GetSuggestion(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing.State != repository.SuggestionPending {
		return nil, ErrSuggestionResolved
	}
	resolved, err := s.suggestions.ResolveSuggestion(ctx, id, state)
	if errors.Is(err, db.ErrNotFound) {
		// Resolved concurrently between the read and the update.
		return nil, ErrSuggestionResolved
	}
	if err != nil {
		return nil, fmt.Errorf("resolve suggestion: %w", err)
	}
	return resolved, nil
}

func (s *EmailMatchService) rank(ctx context.Context, email matching.Email) ([]matching.MatchResult, error) {
	apps, err := s.apps.ListApplicationsActiveSince(ctx, s.cfg.WindowStart(email.ReceivedAt))
	if err != nil {
		return nil, fmt.Errorf("load candidates: %w", err)
	}
	candidates := make([]matching.Candidate, len(apps))
	for i, app := range apps {
		candidates[i] = toCandidate(app)
	}
	return matching.RankCandidates(s.cfg, email, candidates), nil
}

// prepareEmail fills in a receive time so the time window and contact date
// are always anchored.
func (s *EmailMatchService) prepareEmail(email matching.Email) matching.Email {
	if email.ReceivedAt.IsZero() {
		email.ReceivedAt = s.now()
	}
	return email
}

// Fingerprint identifies an email for idempotent processing: the Message-ID
// when present, otherwise a hash of sender, subject and date.
func Fingerprint(email matching.Email) string {
	key := strings.TrimSpace(email.MessageID)
	if key == "" {
		key = strings.ToLower(strings.TrimSpace(email.From)) + "\n" +
			strings.TrimSpace(email.Subject) + "\n" +
			email.ReceivedAt.UTC().Format(time.RFC3339)
	} else {
		key = "msgid:" + key
	}
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:])
}
