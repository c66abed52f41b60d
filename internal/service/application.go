package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"job-tracker/internal/logger"
	"job-tracker/internal/matching"
	"job-tracker/internal/notify"
	"job-tracker/internal/repository"

	"github.com/google/uuid"
)

const defaultStatus = "applied"

type ApplicationService struct {
	repo     ApplicationRepo
	cfg      matching.Config
	notifier notify.Notifier
}

func NewApplicationService(repo ApplicationRepo, cfg matching.Config, notifier notify.Notifier) *ApplicationService {
	return &ApplicationService{repo: repo, cfg: cfg, notifier: notifier}
}

func (s *ApplicationService) CreateApplication(ctx context.Context, req repository.CreateApplicationRequest) (*repository.Application, error) {
	req.Company = strings.TrimSpace(req.Company)
	req.Position = strings.TrimSpace(req.Position)
	if req.Company == "" || req.Position == "" {
		return nil, ErrInvalidApplication
	}

	status, err := s.normalizeStatus(req.Status)
	if err != nil {
		return nil, err
	}
	req.Status = status
	if req.AppliedAt == nil {
		now := time.Now().UTC()
		req.AppliedAt = &now
	}

	app, err := s.repo.CreateApplication(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("create application: %w", err)
	}

	publish(ctx, s.notifier, notify.Event{
		Type:          notify.EventApplicationCreated,
		ApplicationID: app.ID.String(),
		Message:       fmt.Sprintf("Tracking %s at %s", app.Position, app.Company),
	})
	return app, nil
}

func (s *ApplicationService) GetApplication(ctx context.Context, id uuid.UUID) (*repository.Application, error) {
	return s.repo.GetApplication(ctx, id)
}

// ListApplicationsPage returns one page of applications and the total count.
func (s *ApplicationService) ListApplicationsPage(ctx context.Context, params repository.ListApplicationsParams) ([]repository.Application, int64, error) {
	if params.Status != nil {
		status, err := s.normalizeStatus(*params.Status)
		if err != nil {
			return nil, 0, err
		}
		params.Status = &status
	}

	apps, err := s.repo.ListApplications(ctx, params)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repo.CountApplications(ctx, params.Status)
	if err != nil {
		return nil, 0, err
	}
	return apps, total, nil
}

func (s *ApplicationService) UpdateApplication(ctx context.Context, id uuid.UUID, req repository.UpdateApplicationRequest) (*repository.Application, error) {
	req.Company = strings.TrimSpace(req.Company)
	req.Position = strings.TrimSpace(req.Position)
	if req.Company == "" || req.Position == "" {
		return nil, ErrInvalidApplication
	}
	return s.repo.UpdateApplication(ctx, id, req)
}

func (s *ApplicationService) DeleteApplication(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.GetApplication(ctx, id); err != nil {
		return err
	}
	if err := s.repo.DeleteApplication(ctx, id); err != nil {
		return fmt.Errorf("delete application: %w", err)
	}
	publish(ctx, s.notifier, notify.Event{
		Type:          notify.EventApplicationDeleted,
		ApplicationID: id.String(),
		Message:       "Application deleted",
	})
	return nil
}

// ChangeStatus applies a manual status change. Any known status is accepted,
// including moves out of terminal states; transitions the matcher would not
// make automatically are logged.
func (s *ApplicationService) ChangeStatus(ctx context.Context, id uuid.UUID, status string) (*repository.Application, error) {
	target, err := s.normalizeStatus(status)
	if err != nil {
		return nil, err
	}

	current, err := s.repo.GetApplication(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.Status == target {
		return current, nil
	}

	if t := s.cfg.CheckTransition(current.Status, target); !t.Allowed || t.Unusual {
		logger.Info().
			Str("application_id", id.String()).
			Str("from", current.Status).
			Str("to", target).
			Str("reason", t.Reason).
			Msg("manual status change outside normal progression")
	}

	now := time.Now().UTC()
	updated, err := s.repo.UpdateApplicationStatus(ctx, id, target, &now)
	if err != nil {
		return nil, fmt.Errorf("update status: %w", err)
	}

	publish(ctx, s.notifier, notify.Event{
		Type:          notify.EventStatusUpdated,
		ApplicationID: id.String(),
		Message:       fmt.Sprintf("%s: %s -> %s", updated.Company, current.Status, target),
		Data: map[string]interface{}{
			"from":   current.Status,
			"to":     target,
			"source": "manual",
		},
	})
	return updated, nil
}

// RecordContact moves the last-contact date forward to at. Older dates are
// ignored by the store, so only a real change is published.
func (s *ApplicationService) RecordContact(ctx context.Context, id uuid.UUID, at time.Time) (*repository.Application, error) {
	before, err := s.repo.GetApplication(ctx, id)
	if err != nil {
		return nil, err
	}
	if at.IsZero() {
		at = time.Now().UTC()
	}
	after, err := s.repo.TouchLastContact(ctx, id, at)
	if err != nil {
		return nil, fmt.Errorf("record contact: %w", err)
	}
	if !sameTime(before.LastContactAt, after.LastContactAt) {
		publish(ctx, s.notifier, notify.Event{
			Type:          notify.EventContactRecorded,
			ApplicationID: id.String(),
			Message:       fmt.Sprintf("%s: contact recorded", after.Company),
		})
	}
	return after, nil
}

func (s *ApplicationService) normalizeStatus(status string) (string, error) {
	status = strings.ToLower(strings.TrimSpace(status))
	if status == "" {
		return defaultStatus, nil
	}
	if !s.cfg.IsKnownStatus(status) {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	return status, nil
}
