// Package notify fans application events out to interested listeners
// (websocket clients, Slack).
package notify

import (
	"context"
	"errors"
	"time"
)

// Event types
const (
	EventApplicationCreated = "application.created"
	EventApplicationDeleted = "application.deleted"
	EventStatusUpdated      = "application.status_updated"
	EventContactRecorded    = "application.contact_recorded"
	EventSuggestionCreated  = "suggestion.created"
	EventSuggestionResolved = "suggestion.resolved"
	EventFollowUpDue        = "followup.due"
)

// Event is a single notification. Data carries event-specific fields and is
// serialized as-is.
type Event struct {
	Type          string                 `json:"type"`
	ApplicationID string                 `json:"application_id,omitempty"`
	Message       string                 `json:"message"`
	Data          map[string]interface{} `json:"data,omitempty"`
	At            time.Time              `json:"at"`
}

// Notifier delivers events. Implementations must be safe for concurrent use.
type Notifier interface {
	Notify(ctx context.Context, event Event) error
}

// Multi delivers each event to every notifier, even when some fail.
type Multi []Notifier

func (m Multi) Notify(ctx context.Context, event Event) error {
	var errs []error
	for _, n := range m {
		if n == nil {
			continue
		}
		if err := n.Notify(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Nop discards every event.
type Nop struct{}

func (Nop) Notify(context.Context, Event) error { return nil }

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ctx context.Context, event Event) error

func (f NotifierFunc) Notify(ctx context.Context, event Event) error { return f(ctx, event) }
