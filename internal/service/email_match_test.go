package service

import (
	"context"
	"testing"
	"time"

	"job-tracker/internal/matching"
	"job-tracker/internal/notify"
	"job-tracker/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var received = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func interviewEmail() matching.Email {
	return matching.Email{
		MessageID:  "<abc123@google.com>",
		From:       "recruiting@google.com",
		Subject:    "Interview Invitation - Software Engineer",
		Body:       "We'd like to schedule time with you.",
		ReceivedAt: received,
	}
}

func newMatchFixture(apps ...repository.Application) (*EmailMatchService, *fakeApplicationRepo, *fakeSuggestionRepo, *recordingNotifier) {
	appRepo := newFakeApplicationRepo(apps...)
	sugRepo := newFakeSuggestionRepo()
	n := &recordingNotifier{}
	return NewEmailMatchService(appRepo, sugRepo, matching.Balanced(), n), appRepo, sugRepo, n
}

func TestProcessEmail_AutoUpdatesStatus(t *testing.T) {
	id := uuid.New()
	svc, apps, _, n := newMatchFixture(repository.Application{
		ID: id, Company: "Google", Position: "Software Engineer", Status: "applied",
		AppliedAt: timePtr(received.AddDate(0, 0, -5)),
	})

	out, err := svc.ProcessEmail(context.Background(), interviewEmail())
	require.NoError(t, err)
	assert.Equal(t, matching.ActionAutoUpdate, out.Decision.Action)
	assert.Equal(t, "interview", out.Decision.TargetStatus)
	assert.True(t, out.Changed)

	stored := apps.get(id)
	assert.Equal(t, "interview", stored.Status)
	require.NotNil(t, stored.LastContactAt)
	assert.True(t, stored.LastContactAt.Equal(received))

	require.Equal(t, []string{notify.EventStatusUpdated}, n.types())
	assert.Equal(t, "applied", n.events[0].Data["from"])
	assert.Equal(t, "email", n.events[0].Data["source"])
}

func TestProcessEmail_RepeatIsNoOp(t *testing.T) {
	id := uuid.New()
	svc, apps, _, n := newMatchFixture(repository.Application{
		ID: id, Company: "Google", Position: "Software Engineer", Status: "applied",
		AppliedAt: timePtr(received.AddDate(0, 0, -5)),
	})

	_, err := svc.ProcessEmail(context.Background(), interviewEmail())
	require.NoError(t, err)
	first := apps.get(id)

	out, err := svc.ProcessEmail(context.Background(), interviewEmail())
	require.NoError(t, err)
	assert.False(t, out.Changed)
	assert.Equal(t, first, apps.get(id))
	assert.Equal(t, 1, apps.statusUpdates)
	assert.Len(t, n.events, 1)
}

func TestProcessEmail_MediumConfidenceStoresSuggestionOnce(t *testing.T) {
	id := uuid.New()
	svc, apps, sugs, n := newMatchFixture(repository.Application{
		ID: id, Company: "Google", Position: "Data Scientist", Status: "applied",
		AppliedAt: timePtr(received.AddDate(0, 0, -5)),
	})
	email := matching.Email{From: "recruiting@google.com", Subject: "Interview Invitation", ReceivedAt: received}

	out, err := svc.ProcessEmail(context.Background(), email)
	require.NoError(t, err)
	assert.Equal(t, matching.ActionSuggest, out.Decision.Action)
	require.NotNil(t, out.Suggestion)
	assert.True(t, out.Changed)
	assert.Equal(t, repository.SuggestionPending, out.Suggestion.State)
	require.NotNil(t, out.Suggestion.TargetStatus)
	assert.Equal(t, "interview", *out.Suggestion.TargetStatus)
	assert.Equal(t, "applied", apps.get(id).Status, "suggestions never write the application")

	again, err := svc.ProcessEmail(context.Background(), email)
	require.NoError(t, err)
	assert.False(t, again.Changed)
	assert.Equal(t, out.Suggestion.ID, again.Suggestion.ID)
	assert.Len(t, sugs.byID, 1)
	assert.Equal(t, []string{notify.EventSuggestionCreated}, n.types())
}

func TestProcessEmail_IgnoresWeakAndOutOfWindow(t *testing.T) {
	svc, apps, sugs, n := newMatchFixture(
		repository.Application{Company: "Stripe", Position: "Backend Engineer", Status: "applied", AppliedAt: timePtr(received.AddDate(0, 0, -3))},
		repository.Application{Company: "Google", Position: "Software Engineer", Status: "applied", AppliedAt: timePtr(received.AddDate(0, 0, -200))},
	)

	out, err := svc.ProcessEmail(context.Background(), interviewEmail())
	require.NoError(t, err)
	assert.Equal(t, matching.ActionIgnore, out.Decision.Action)
	require.Len(t, out.Ranked, 1, "Google application is outside the time window")
	assert.Equal(t, "Stripe", out.Ranked[0].Company)
	assert.False(t, out.Changed)
	assert.Zero(t, apps.statusUpdates+apps.touches)
	assert.Empty(t, sugs.byID)
	assert.Empty(t, n.events)
}

func TestProcessEmail_NoCandidates(t *testing.T) {
	svc, _, _, n := newMatchFixture()

	out, err := svc.ProcessEmail(context.Background(), interviewEmail())
	require.NoError(t, err)
	assert.Equal(t, matching.ActionIgnore, out.Decision.Action)
	assert.Nil(t, out.Decision.Best)
	assert.Empty(t, out.Ranked)
	assert.Empty(t, n.events)
}

func TestPreview_HasNoSideEffects(t *testing.T) {
	id := uuid.New()
	svc, apps, sugs, n := newMatchFixture(repository.Application{
		ID: id, Company: "Google", Position: "Software Engineer", Status: "applied",
		AppliedAt: timePtr(received.AddDate(0, 0, -5)),
	})

	out, err := svc.Preview(context.Background(), interviewEmail())
	require.NoError(t, err)
	assert.Equal(t, matching.ActionAutoUpdate, out.Decision.Action)
	assert.Equal(t, "applied", apps.get(id).Status)
	assert.Zero(t, apps.statusUpdates+apps.touches)
	assert.Empty(t, sugs.byID)
	assert.Empty(t, n.events)
}

func TestConfirmSuggestion_ReopensTerminalApplication(t *testing.T) {
	id := uuid.New()
	svc, apps, _, n := newMatchFixture(repository.Application{
		ID: id, Company: "Meta", Position: "Product Designer", Status: "accepted",
		AppliedAt: timePtr(received.AddDate(0, 0, -20)), LastContactAt: timePtr(received.AddDate(0, 0, -3)),
	})
	email := matching.Email{
		From:       "Meta Careers <careers@meta.com>",
		Subject:    "Interview schedule - Product Designer",
		ReceivedAt: received,
	}

	out, err := svc.ProcessEmail(context.Background(), email)
	require.NoError(t, err)
	assert.Equal(t, matching.ActionSuggest, out.Decision.Action)
	assert.Equal(t, "accepted", apps.get(id).Status)
	require.NotNil(t, out.Suggestion)

	resolved, app, err := svc.ConfirmSuggestion(context.Background(), out.Suggestion.ID)
	require.NoError(t, err)
	assert.Equal(t, repository.SuggestionConfirmed, resolved.State)
	assert.NotNil(t, resolved.ResolvedAt)
	assert.Equal(t, "interview", app.Status)
	assert.Equal(t, []string{notify.EventSuggestionCreated, notify.EventSuggestionResolved}, n.types())

	_, _, err = svc.ConfirmSuggestion(context.Background(), out.Suggestion.ID)
	assert.ErrorIs(t, err, ErrSuggestionResolved)
	_, err = svc.DismissSuggestion(context.Background(), out.Suggestion.ID)
	assert.ErrorIs(t, err, ErrSuggestionResolved)
}

func TestDismissSuggestion_LeavesApplication(t *testing.T) {
	id := uuid.New()
	appID := uuid.New()
	svc, apps, sugs, n := newMatchFixture(repository.Application{
		ID: appID, Company: "Google", Position: "Data Scientist", Status: "applied",
		AppliedAt: timePtr(received.AddDate(0, 0, -5)),
	})
	sugs.byID[id] = &repository.Suggestion{ID: id, ApplicationID: appID, State: repository.SuggestionPending, TargetStatus: strPtr("interview")}

	resolved, err := svc.DismissSuggestion(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, repository.SuggestionDismissed, resolved.State)
	assert.Equal(t, "applied", apps.get(appID).Status)
	assert.Equal(t, []string{notify.EventSuggestionResolved}, n.types())

	pending := repository.SuggestionPending
	list, err := svc.ListSuggestions(context.Background(), repository.ListSuggestionsParams{State: &pending})
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestProcessEmail_DefaultsReceiveTime(t *testing.T) {
	svc, _, _, _ := newMatchFixture()
	fixed := time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	email := interviewEmail()
	email.MessageID = ""
	email.ReceivedAt = time.Time{}
	out, err := svc.Preview(context.Background(), email)
	require.NoError(t, err)

	email.ReceivedAt = fixed
	assert.Equal(t, Fingerprint(email), out.Fingerprint)
}

func TestFingerprint(t *testing.T) {
	a := interviewEmail()
	b := interviewEmail()
	b.Subject = "Something else"
	assert.Equal(t, Fingerprint(a), Fingerprint(b), "message id wins")

	a.MessageID, b.MessageID = "", ""
	assert.NotEqual(t, Fingerprint(a), Fingerprint(b))

	c := a
	c.From = "  RECRUITING@google.com "
	assert.Equal(t, Fingerprint(a), Fingerprint(c))
	assert.Len(t, Fingerprint(a), 64)
}

func TestEmailMatchService_Config(t *testing.T) {
	svc, _, _, _ := newMatchFixture()
	assert.Equal(t, 90, svc.Config().TimeWindowDays)
}
