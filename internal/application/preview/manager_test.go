package preview_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"fitplan/internal/application/preview"
	"fitplan/internal/domain/event"
	"fitplan/internal/domain/plan"
)

// mockUpserter records upsert batches and can fail or block on demand.
type mockUpserter struct {
	mu         sync.Mutex
	calls      int
	events     []event.Event
	milestones []event.Milestone
	err        error
	started    chan struct{} // closed when a call enters, if non-nil
	release    chan struct{} // call blocks until closed, if non-nil
}

func (m *mockUpserter) UpsertPlan(ctx context.Context, events []event.Event, milestones []event.Milestone) error {
	m.mu.Lock()
	m.calls++
	m.events = events
	m.milestones = milestones
	started := m.started
	release := m.release
	err := m.err
	m.mu.Unlock()

	if started != nil {
		close(started)
		m.mu.Lock()
		m.started = nil
		m.mu.Unlock()
	}
	if release != nil {
		<-release
	}
	return err
}

func (m *mockUpserter) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func fixedNow() time.Time {
	return time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)
}

func seqID() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

func newManager(store *mockUpserter) *preview.Manager {
	return preview.NewManager(preview.Deps{
		Upserter:   store,
		GenerateID: seqID(),
		Now:        fixedNow,
	})
}

func previewEvents() []plan.RecommendedEvent {
	return []plan.RecommendedEvent{
		{ID: "apparel-q1", Name: "Q1 Winter Warrior Apparel Launch", Type: event.TypeApparel,
			SuggestedDate: time.Date(2026, 2, 15, 0, 0, 0, 0, time.UTC), Selected: true},
		{ID: "community-q1", Name: "Q1 Box Battle", Type: event.TypeCommunity,
			SuggestedDate: time.Date(2026, 2, 20, 0, 0, 0, 0, time.UTC), Selected: false},
		{ID: "holiday-0", Name: "New Year New You Challenge", Type: event.TypeHoliday,
			SuggestedDate: time.Date(2026, 1, 8, 0, 0, 0, 0, time.UTC), Selected: true},
	}
}

// TestManager_StoreAndRecover tests the preview store and form side-channel.
func TestManager_StoreAndRecover(t *testing.T) {
	m := newManager(&mockUpserter{})

	if m.HasPreviewData("tok") {
		t.Error("fresh session should have no preview data")
	}

	form := preview.FormData{BusinessType: "CrossFit Affiliate", City: "Kansas City"}
	m.StorePreviewEvents("tok", previewEvents(), form)

	if !m.HasPreviewData("tok") {
		t.Error("expected preview data after store")
	}
	if got := m.PreviewEvents("tok"); len(got) != 3 {
		t.Errorf("PreviewEvents() returned %d events, want 3", len(got))
	}
	got, ok := m.FormDataFor("tok")
	if !ok || got != form {
		t.Errorf("FormDataFor() = %v, %v; want %v, true", got, ok, form)
	}

	// Tokens are isolated.
	if m.HasPreviewData("other") {
		t.Error("unrelated token should have no preview data")
	}
}

// TestManager_Migrate_Success tests a successful migration: selected events
// only, expanded with default milestones, state cleared.
func TestManager_Migrate_Success(t *testing.T) {
	store := &mockUpserter{}
	m := newManager(store)
	m.StorePreviewEvents("tok", previewEvents(), preview.FormData{BusinessType: "CrossFit Affiliate", City: "Kansas City"})

	ok, err := m.MigratePreviewData(context.Background(), "tok", "acct-1")
	if err != nil || !ok {
		t.Fatalf("MigratePreviewData() = %v, %v; want true, nil", ok, err)
	}

	// Only the 2 selected events are persisted.
	if len(store.events) != 2 {
		t.Fatalf("upserted %d events, want 2", len(store.events))
	}
	for _, ev := range store.events {
		if ev.AccountID != "acct-1" {
			t.Errorf("event %s account = %s, want acct-1", ev.ID, ev.AccountID)
		}
		if ev.City != "Kansas City" || ev.BusinessType != "CrossFit Affiliate" {
			t.Errorf("event %s missing form metadata: city=%s type=%s", ev.ID, ev.City, ev.BusinessType)
		}
	}

	// Apparel expands to 3 milestones, holiday to 3.
	if len(store.milestones) != 6 {
		t.Errorf("upserted %d milestones, want 6", len(store.milestones))
	}
	for _, ms := range store.milestones {
		if ms.ID == "" || ms.EventID == "" {
			t.Errorf("milestone %q missing IDs", ms.Name)
		}
	}

	// Preview state is cleared after success.
	if m.HasPreviewData("tok") {
		t.Error("preview data should be cleared after successful migration")
	}
	if m.IsMigrating("tok") {
		t.Error("isMigrating should be false after migration completes")
	}
}

// TestManager_Migrate_FailureKeepsState tests that a store failure leaves the
// preview intact and resets the in-flight flag so the user can retry.
func TestManager_Migrate_FailureKeepsState(t *testing.T) {
	store := &mockUpserter{err: errors.New("store unavailable")}
	m := newManager(store)
	m.StorePreviewEvents("tok", previewEvents(), preview.FormData{BusinessType: "Yoga Studio", City: "Boston"})

	ok, err := m.MigratePreviewData(context.Background(), "tok", "acct-1")
	if ok || err == nil {
		t.Fatalf("MigratePreviewData() = %v, %v; want false with error", ok, err)
	}

	if !m.HasPreviewData("tok") {
		t.Error("preview data must survive a failed migration")
	}
	if got := m.PreviewEvents("tok"); len(got) != 3 {
		t.Errorf("preview holds %d events after failure, want 3", len(got))
	}
	if m.IsMigrating("tok") {
		t.Error("isMigrating should reset to false after failure")
	}

	// Retry succeeds once the store recovers.
	store.mu.Lock()
	store.err = nil
	store.mu.Unlock()
	ok, err = m.MigratePreviewData(context.Background(), "tok", "acct-1")
	if err != nil || !ok {
		t.Fatalf("retry MigratePreviewData() = %v, %v; want true, nil", ok, err)
	}
	if m.HasPreviewData("tok") {
		t.Error("preview data should clear after successful retry")
	}
}

// TestManager_Migrate_MutualExclusion tests that a second migration call while
// one is in flight is rejected without hitting the store again.
func TestManager_Migrate_MutualExclusion(t *testing.T) {
	store := &mockUpserter{
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
	m := newManager(store)
	m.StorePreviewEvents("tok", previewEvents(), preview.FormData{BusinessType: "Other", City: "Denver"})

	done := make(chan struct{})
	go func() {
		defer close(done)
		ok, err := m.MigratePreviewData(context.Background(), "tok", "acct-1")
		if err != nil || !ok {
			t.Errorf("first MigratePreviewData() = %v, %v; want true, nil", ok, err)
		}
	}()

	// Wait until the first migration is inside the store call.
	<-store.started
	if !m.IsMigrating("tok") {
		t.Error("expected isMigrating=true while the store call is in flight")
	}

	ok, err := m.MigratePreviewData(context.Background(), "tok", "acct-1")
	if ok || err != nil {
		t.Errorf("concurrent MigratePreviewData() = %v, %v; want false, nil", ok, err)
	}
	if store.callCount() != 1 {
		t.Errorf("store called %d times during overlap, want 1", store.callCount())
	}

	close(store.release)
	<-done

	if store.callCount() != 1 {
		t.Errorf("store called %d times total, want 1", store.callCount())
	}
}

// TestManager_Migrate_NoPreviewData tests the empty-preview no-op.
func TestManager_Migrate_NoPreviewData(t *testing.T) {
	store := &mockUpserter{}
	m := newManager(store)

	ok, err := m.MigratePreviewData(context.Background(), "tok", "acct-1")
	if ok || err != nil {
		t.Errorf("MigratePreviewData() = %v, %v; want false, nil", ok, err)
	}
	if store.callCount() != 0 {
		t.Errorf("store called %d times with no preview data, want 0", store.callCount())
	}
}

// TestManager_SetAuthenticated_AutoMigrates tests the auto-migration trigger
// on sign-in and the side-channel clear regardless of outcome.
func TestManager_SetAuthenticated_AutoMigrates(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		store := &mockUpserter{}
		m := newManager(store)
		m.StorePreviewEvents("tok", previewEvents(), preview.FormData{BusinessType: "Pilates Studio", City: "Miami"})

		ok, err := m.SetAuthenticated(context.Background(), "tok", "acct-9", true)
		if err != nil || !ok {
			t.Fatalf("SetAuthenticated() = %v, %v; want true, nil", ok, err)
		}
		if store.callCount() != 1 {
			t.Errorf("store called %d times, want 1", store.callCount())
		}
		if _, ok := m.FormDataFor("tok"); ok {
			t.Error("form side-channel should be cleared after migration")
		}
	})

	t.Run("failure still clears side-channel", func(t *testing.T) {
		store := &mockUpserter{err: errors.New("store unavailable")}
		m := newManager(store)
		m.StorePreviewEvents("tok", previewEvents(), preview.FormData{BusinessType: "Pilates Studio", City: "Miami"})

		ok, err := m.SetAuthenticated(context.Background(), "tok", "acct-9", true)
		if ok || err == nil {
			t.Fatalf("SetAuthenticated() = %v, %v; want false with error", ok, err)
		}
		if _, ok := m.FormDataFor("tok"); ok {
			t.Error("form side-channel should be cleared even on failure")
		}
		if !m.HasPreviewData("tok") {
			t.Error("preview events must survive the failed auto-migration")
		}
	})

	t.Run("no preview data", func(t *testing.T) {
		store := &mockUpserter{}
		m := newManager(store)
		ok, err := m.SetAuthenticated(context.Background(), "tok", "acct-9", true)
		if ok || err != nil {
			t.Errorf("SetAuthenticated() = %v, %v; want false, nil", ok, err)
		}
		if store.callCount() != 0 {
			t.Errorf("store called %d times, want 0", store.callCount())
		}
	})
}

// TestManager_UpdatePreviewEvent tests in-place preview edits.
func TestManager_UpdatePreviewEvent(t *testing.T) {
	m := newManager(&mockUpserter{})
	m.StorePreviewEvents("tok", previewEvents(), preview.FormData{})

	if !m.UpdatePreviewEvent("tok", "community-q1", func(r *plan.RecommendedEvent) { r.Selected = true }) {
		t.Fatal("UpdatePreviewEvent() returned false for known event")
	}
	for _, r := range m.PreviewEvents("tok") {
		if r.ID == "community-q1" && !r.Selected {
			t.Error("selection toggle was not applied")
		}
	}

	if m.UpdatePreviewEvent("tok", "nope", func(r *plan.RecommendedEvent) {}) {
		t.Error("UpdatePreviewEvent() returned true for unknown event")
	}
	if m.UpdatePreviewEvent("other", "community-q1", func(r *plan.RecommendedEvent) {}) {
		t.Error("UpdatePreviewEvent() returned true for unknown token")
	}
}

// TestManager_Subscribe tests change notification and unsubscription.
func TestManager_Subscribe(t *testing.T) {
	m := newManager(&mockUpserter{})

	var mu sync.Mutex
	var seen []string
	unsub := m.Subscribe(func(token string) {
		mu.Lock()
		seen = append(seen, token)
		mu.Unlock()
	})

	m.StorePreviewEvents("tok", previewEvents(), preview.FormData{})
	mu.Lock()
	n := len(seen)
	mu.Unlock()
	if n == 0 {
		t.Fatal("expected a notification after StorePreviewEvents")
	}

	unsub()
	m.ClearPreview("tok")
	mu.Lock()
	after := len(seen)
	mu.Unlock()
	if after != n {
		t.Error("unsubscribed callback still received notifications")
	}
}
