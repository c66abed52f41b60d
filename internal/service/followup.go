package service

import (
	"context"
	"fmt"
	"time"

	"job-tracker/internal/agent"
	"job-tracker/internal/logger"
	"job-tracker/internal/matching"
	"job-tracker/internal/notify"
	"job-tracker/internal/repository"
)

// Drafter writes a follow-up message for an application.
type Drafter interface {
	Draft(ctx context.Context, in agent.FollowUpInput) (*agent.FollowUpDraft, error)
}

// FollowUpDue is an application that has gone quiet.
type FollowUpDue struct {
	Application      repository.Application `json:"application"`
	DaysSinceContact int                    `json:"days_since_contact"`
	Draft            *agent.FollowUpDraft   `json:"draft,omitempty"`
}

type FollowUpService struct {
	apps      ApplicationRepo
	cfg       matching.Config
	afterDays int
	drafter   Drafter
	notifier  notify.Notifier
	now       func() time.Time
}

// NewFollowUpService builds the stale application scan. drafter may be nil,
// in which case no drafts are produced.
func NewFollowUpService(apps ApplicationRepo, cfg matching.Config, afterDays int, drafter Drafter, notifier notify.Notifier) *FollowUpService {
	return &FollowUpService{
		apps:      apps,
		cfg:       cfg,
		afterDays: afterDays,
		drafter:   drafter,
		notifier:  notifier,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// ScanStale finds non-terminal applications with no contact for afterDays
// and publishes a followup.due event for each. A failed draft is logged and
// the application is still reported.
func (s *FollowUpService) ScanStale(ctx context.Context) ([]FollowUpDue, error) {
	log := logger.Component("followup")
	now := s.now()
	before := now.AddDate(0, 0, -s.afterDays)

	apps, err := s.apps.ListStaleApplications(ctx, before, s.cfg.TerminalStatuses())
	if err != nil {
		return nil, fmt.Errorf("list stale applications: %w", err)
	}

	due := make([]FollowUpDue, 0, len(apps))
	for _, app := range apps {
		days := daysSince(now, toCandidate(app).ReferenceDate())
		item := FollowUpDue{Application: app, DaysSinceContact: days}

		if s.drafter != nil {
			notes := ""
			if app.Notes != nil {
				notes = *app.Notes
			}
			draft, err := s.drafter.Draft(ctx, agent.FollowUpInput{
				Company:          app.Company,
				Position:         app.Position,
				Status:           app.Status,
				DaysSinceContact: days,
				Notes:            notes,
			})
			if err != nil {
				log.Warn().Err(err).Str("application_id", app.ID.String()).Msg("follow-up draft failed")
			} else {
				item.Draft = draft
			}
		}

		data := map[string]interface{}{"days_since_contact": days, "status": app.Status}
		if item.Draft != nil {
			data["draft_subject"] = item.Draft.Subject
		}
		publish(ctx, s.notifier, notify.Event{
			Type:          notify.EventFollowUpDue,
			ApplicationID: app.ID.String(),
			Message:       fmt.Sprintf("No reply from %s about %s for %d days", app.Company, app.Position, days),
			Data:          data,
		})
		due = append(due, item)
	}

	log.Info().Int("due", len(due)).Time("before", before).Msg("follow-up scan completed")
	return due, nil
}

func daysSince(now, t time.Time) int {
	if t.IsZero() {
		return 0
	}
	return int(now.Sub(t).Hours() / 24)
}
