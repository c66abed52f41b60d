package service

import (
	"context"
	"sync"
	"time"

	"job-tracker/internal/agent"
	"job-tracker/internal/db"
	"job-tracker/internal/notify"
	"job-tracker/internal/repository"

	"github.com/google/uuid"
)

// fakeApplicationRepo is an in-memory ApplicationRepo that mirrors the SQL
// semantics the services rely on (last contact only moves forward).
type fakeApplicationRepo struct {
	mu   sync.Mutex
	apps map[uuid.UUID]*repository.Application

	statusUpdates int
	touches       int
}

func newFakeApplicationRepo(apps ...repository.Application) *fakeApplicationRepo {
	r := &fakeApplicationRepo{apps: make(map[uuid.UUID]*repository.Application)}
	for i := range apps {
		app := apps[i]
		if app.ID == uuid.Nil {
			app.ID = uuid.New()
		}
		r.apps[app.ID] = &app
	}
	return r
}

func (r *fakeApplicationRepo) get(id uuid.UUID) repository.Application {
	r.mu.Lock()
	defer r.mu.Unlock()
	return *r.apps[id]
}

func (r *fakeApplicationRepo) CreateApplication(ctx context.Context, req repository.CreateApplicationRequest) (*repository.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now().UTC()
	app := &repository.Application{
		ID:            uuid.New(),
		Company:       req.Company,
		Position:      req.Position,
		Status:        req.Status,
		AppliedAt:     req.AppliedAt,
		LastContactAt: req.LastContactAt,
		JobURL:        req.JobURL,
		Notes:         req.Notes,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	r.apps[app.ID] = app
	cp := *app
	return &cp, nil
}

func (r *fakeApplicationRepo) GetApplication(ctx context.Context, id uuid.UUID) (*repository.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	app, ok := r.apps[id]
	if !ok {
		return nil, db.ErrNotFound
	}
	cp := *app
	return &cp, nil
}

func (r *fakeApplicationRepo) ListApplications(ctx context.Context, params repository.ListApplicationsParams) ([]repository.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []repository.Application
	for _, app := range r.apps {
		if params.Status == nil || app.Status == *params.Status {
			out = append(out, *app)
		}
	}
	return out, nil
}

func (r *fakeApplicationRepo) CountApplications(ctx context.Context, status *string) (int64, error) {
	apps, _ := r.ListApplications(ctx, repository.ListApplicationsParams{Status: status})
	return int64(len(apps)), nil
}

func (r *fakeApplicationRepo) UpdateApplication(ctx context.Context, id uuid.UUID, req repository.UpdateApplicationRequest) (*repository.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	app, ok := r.apps[id]
	if !ok {
		return nil, db.ErrNotFound
	}
	app.Company, app.Position = req.Company, req.Position
	app.AppliedAt, app.JobURL, app.Notes = req.AppliedAt, req.JobURL, req.Notes
	cp := *app
	return &cp, nil
}

func (r *fakeApplicationRepo) UpdateApplicationStatus(ctx context.Context, id uuid.UUID, status string, contactAt *time.Time) (*repository.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	app, ok := r.apps[id]
	if !ok {
		return nil, db.ErrNotFound
	}
	r.statusUpdates++
	app.Status = status
	if contactAt != nil {
		advanceContact(app, *contactAt)
	}
	cp := *app
	return &cp, nil
}

func (r *fakeApplicationRepo) TouchLastContact(ctx context.Context, id uuid.UUID, at time.Time) (*repository.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	app, ok := r.apps[id]
	if !ok {
		return nil, db.ErrNotFound
	}
	r.touches++
	advanceContact(app, at)
	cp := *app
	return &cp, nil
}

func advanceContact(app *repository.Application, at time.Time) {
	if app.LastContactAt == nil || at.After(*app.LastContactAt) {
		t := at
		app.LastContactAt = &t
	}
}

func (r *fakeApplicationRepo) DeleteApplication(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.apps, id)
	return nil
}

func (r *fakeApplicationRepo) ListApplicationsActiveSince(ctx context.Context, since time.Time) ([]repository.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []repository.Application
	for _, app := range r.apps {
		ref := toCandidate(*app).ReferenceDate()
		if ref.IsZero() || !ref.Before(since) {
			out = append(out, *app)
		}
	}
	return out, nil
}

func (r *fakeApplicationRepo) ListStaleApplications(ctx context.Context, before time.Time, terminalStatuses []string) ([]repository.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	terminal := make(map[string]bool)
	for _, s := range terminalStatuses {
		terminal[s] = true
	}
	var out []repository.Application
	for _, app := range r.apps {
		ref := toCandidate(*app).ReferenceDate()
		if !ref.IsZero() && ref.Before(before) && !terminal[app.Status] {
			out = append(out, *app)
		}
	}
	return out, nil
}

type suggestionKey struct {
	app uuid.UUID
	fp  string
}

type fakeSuggestionRepo struct {
	mu    sync.Mutex
	byID  map[uuid.UUID]*repository.Suggestion
	byKey map[suggestionKey]uuid.UUID
}

func newFakeSuggestionRepo() *fakeSuggestionRepo {
	return &fakeSuggestionRepo{
		byID:  make(map[uuid.UUID]*repository.Suggestion),
		byKey: make(map[suggestionKey]uuid.UUID),
	}
}

func (r *fakeSuggestionRepo) UpsertSuggestion(ctx context.Context, req repository.CreateSuggestionRequest) (*repository.Suggestion, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := suggestionKey{req.ApplicationID, req.EmailFingerprint}
	if id, ok := r.byKey[key]; ok {
		cp := *r.byID[id]
		return &cp, false, nil
	}
	s := &repository.Suggestion{
		ID:               uuid.New(),
		ApplicationID:    req.ApplicationID,
		EmailFingerprint: req.EmailFingerprint,
		Sender:           req.Sender,
		Subject:          req.Subject,
		Confidence:       req.Confidence,
		Reasons:          req.Reasons,
		TargetStatus:     req.TargetStatus,
		State:            repository.SuggestionPending,
		CreatedAt:        time.Now().UTC(),
	}
	r.byID[s.ID] = s
	r.byKey[key] = s.ID
	cp := *s
	return &cp, true, nil
}

func (r *fakeSuggestionRepo) GetSuggestion(ctx context.Context, id uuid.UUID) (*repository.Suggestion, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.byID[id]
	if !ok {
		return nil, db.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (r *fakeSuggestionRepo) ListSuggestions(ctx context.Context, params repository.ListSuggestionsParams) ([]repository.Suggestion, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []repository.Suggestion{}
	for _, s := range r.byID {
		if params.State != nil && s.State != *params.State {
			continue
		}
		if params.ApplicationID != nil && s.ApplicationID != *params.ApplicationID {
			continue
		}
		out = append(out, *s)
	}
	return out, nil
}

func (r *fakeSuggestionRepo) ResolveSuggestion(ctx context.Context, id uuid.UUID, state string) (*repository.Suggestion, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.byID[id]
	if !ok || s.State != repository.SuggestionPending {
		return nil, db.ErrNotFound
	}
	now := time.Now().UTC()
	s.State, s.ResolvedAt = state, &now
	cp := *s
	return &cp, nil
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []notify.Event
}

func (n *recordingNotifier) Notify(ctx context.Context, event notify.Event) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
	return nil
}

func (n *recordingNotifier) types() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, len(n.events))
	for i, e := range n.events {
		out[i] = e.Type
	}
	return out
}

type stubCompleter struct {
	reply string
	err   error
	calls int
}

func (s *stubCompleter) Complete(ctx context.Context, system, prompt string) (string, error) {
	s.calls++
	return s.reply, s.err
}

var _ agent.Completer = (*stubCompleter)(nil)

func timePtr(t time.Time) *time.Time { return &t }

func strPtr(s string) *string { return &s }
