package preview

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"fitplan/internal/domain/event"
	"fitplan/internal/domain/plan"
)

// PlanUpserter defines the store interface needed for migration.
type PlanUpserter interface {
	UpsertPlan(ctx context.Context, events []event.Event, milestones []event.Milestone) error
}

// Deps holds dependencies for the Manager.
type Deps struct {
	Upserter   PlanUpserter
	GenerateID func() string
	Now        func() time.Time
}

// FormData is the side-channel record of the inputs that produced a preview
// plan. It survives the signup redirect so migration can rebuild event
// metadata after the page reload.
type FormData struct {
	BusinessType string
	City         string
}

var ErrNoUpserter = errors.New("preview manager has no plan store")

// session is the per-token preview state.
type session struct {
	authenticated bool
	accountID     string
	events        []plan.RecommendedEvent
	form          *FormData
	migrating     bool
}

// Manager tracks preview plans for unauthenticated visitors, keyed by an
// opaque session token, and migrates them into the persistent store exactly
// once when the visitor authenticates. Constructed at the composition root
// and shared by the HTTP handlers.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*session
	deps     Deps

	subMu   sync.Mutex
	subs    map[int]func(token string)
	nextSub int
}

// NewManager creates a Manager.
// PRE: deps.GenerateID and deps.Now are non-nil
func NewManager(deps Deps) *Manager {
	return &Manager{
		sessions: make(map[string]*session),
		deps:     deps,
		subs:     make(map[int]func(token string)),
	}
}

// session returns the state for a token, creating it on first use.
// Callers must hold mu.
func (m *Manager) session(token string) *session {
	s, ok := m.sessions[token]
	if !ok {
		s = &session{}
		m.sessions[token] = s
	}
	return s
}

// StorePreviewEvents records a generated plan for an unauthenticated visitor,
// along with the form data that produced it.
// PRE: token identifies the visitor's session
// POST: HasPreviewData(token) is true when events is non-empty
func (m *Manager) StorePreviewEvents(token string, events []plan.RecommendedEvent, form FormData) {
	m.mu.Lock()
	s := m.session(token)
	s.events = append([]plan.RecommendedEvent(nil), events...)
	f := form
	s.form = &f
	m.mu.Unlock()
	m.notify(token)
}

// SaveFormData records form data without touching preview events.
func (m *Manager) SaveFormData(token string, form FormData) {
	m.mu.Lock()
	f := form
	m.session(token).form = &f
	m.mu.Unlock()
	m.notify(token)
}

// FormDataFor recovers the side-channel form data for a token.
func (m *Manager) FormDataFor(token string) (FormData, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[token]
	if !ok || s.form == nil {
		return FormData{}, false
	}
	return *s.form, true
}

// PreviewEvents returns a copy of the stored preview plan for a token.
func (m *Manager) PreviewEvents(token string) []plan.RecommendedEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[token]
	if !ok {
		return nil
	}
	return append([]plan.RecommendedEvent(nil), s.events...)
}

// UpdatePreviewEvent edits one stored preview event in place (selection
// toggle, rename, or date change from the review screen).
// POST: returns false if the token or event ID is unknown
func (m *Manager) UpdatePreviewEvent(token, eventID string, apply func(*plan.RecommendedEvent)) bool {
	m.mu.Lock()
	s, ok := m.sessions[token]
	if !ok {
		m.mu.Unlock()
		return false
	}
	var found bool
	for i := range s.events {
		if s.events[i].ID == eventID {
			apply(&s.events[i])
			found = true
			break
		}
	}
	m.mu.Unlock()
	if found {
		m.notify(token)
	}
	return found
}

// HasPreviewData reports whether a token holds an unmigrated preview plan.
func (m *Manager) HasPreviewData(token string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[token]
	return ok && len(s.events) > 0
}

// IsMigrating reports whether a migration is in flight for a token.
func (m *Manager) IsMigrating(token string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[token]
	return ok && s.migrating
}

// SetAuthenticated records an authentication state change and, on transition
// to authenticated with preview data pending, triggers migration. The
// side-channel form data is cleared after the attempt regardless of outcome.
// POST: returns the migration result (true only if a migration ran and
// succeeded); no preview data means no migration and a nil error
func (m *Manager) SetAuthenticated(ctx context.Context, token, accountID string, authenticated bool) (bool, error) {
	m.mu.Lock()
	s := m.session(token)
	s.authenticated = authenticated
	s.accountID = accountID
	shouldMigrate := authenticated && len(s.events) > 0 && !s.migrating && s.form != nil
	m.mu.Unlock()
	m.notify(token)

	if !shouldMigrate {
		return false, nil
	}

	ok, err := m.MigratePreviewData(ctx, token, accountID)

	m.mu.Lock()
	s.form = nil
	m.mu.Unlock()
	return ok, err
}

// MigratePreviewData converts the selected preview events into persisted
// events plus default milestones and upserts them as one batch. Guarded by a
// per-session in-flight flag: a concurrent second call is rejected with
// (false, nil) instead of double-submitting.
// POST: on success preview state is cleared; on failure it is left intact so
// the visitor can retry without losing the plan
func (m *Manager) MigratePreviewData(ctx context.Context, token, accountID string) (bool, error) {
	if m.deps.Upserter == nil {
		return false, ErrNoUpserter
	}

	m.mu.Lock()
	s := m.session(token)
	if s.migrating {
		m.mu.Unlock()
		slog.Info("preview_event", "event", "migration_rejected", "reason", "in_flight")
		return false, nil
	}
	if len(s.events) == 0 {
		m.mu.Unlock()
		return false, nil
	}
	s.migrating = true
	selected := plan.SelectedEvents(s.events)
	var form FormData
	if s.form != nil {
		form = *s.form
	}
	m.mu.Unlock()
	m.notify(token)

	events, milestones, err := m.expand(selected, accountID, form)
	if err == nil {
		err = m.deps.Upserter.UpsertPlan(ctx, events, milestones)
	}

	m.mu.Lock()
	s.migrating = false
	if err != nil {
		m.mu.Unlock()
		m.notify(token)
		slog.Error("preview_event", "event", "migration_failed", "account_id", accountID, "error", err)
		return false, err
	}
	s.events = nil
	m.mu.Unlock()
	m.notify(token)

	slog.Info("preview_event", "event", "migration_complete", "account_id", accountID, "events", len(events))
	return true, nil
}

// ClearPreview drops all preview state for a token.
func (m *Manager) ClearPreview(token string) {
	m.mu.Lock()
	delete(m.sessions, token)
	m.mu.Unlock()
	m.notify(token)
}

// Subscribe registers a callback invoked after every state change, with the
// affected session token. Returns an unsubscribe func.
func (m *Manager) Subscribe(fn func(token string)) func() {
	m.subMu.Lock()
	id := m.nextSub
	m.nextSub++
	m.subs[id] = fn
	m.subMu.Unlock()
	return func() {
		m.subMu.Lock()
		delete(m.subs, id)
		m.subMu.Unlock()
	}
}

func (m *Manager) notify(token string) {
	m.subMu.Lock()
	fns := make([]func(string), 0, len(m.subs))
	for _, fn := range m.subs {
		fns = append(fns, fn)
	}
	m.subMu.Unlock()
	for _, fn := range fns {
		fn(token)
	}
}

// expand converts selected recommendations into event records with their
// default milestone skeletons attached.
func (m *Manager) expand(selected []plan.RecommendedEvent, accountID string, form FormData) ([]event.Event, []event.Milestone, error) {
	now := m.deps.Now()
	events := make([]event.Event, 0, len(selected))
	var milestones []event.Milestone

	for _, rec := range selected {
		ev := rec.ToRecord(m.deps.GenerateID(), accountID, form.City, form.BusinessType, now)
		if err := ev.Validate(); err != nil {
			return nil, nil, err
		}
		ms, err := event.DefaultMilestones(ev)
		if err != nil {
			return nil, nil, err
		}
		for i := range ms {
			ms[i].ID = m.deps.GenerateID()
		}
		events = append(events, ev)
		milestones = append(milestones, ms...)
	}
	return events, milestones, nil
}
