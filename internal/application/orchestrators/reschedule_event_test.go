package orchestrators

import (
	"context"
	"errors"
	"testing"
	"time"

	"fitplan/internal/domain/event"
)

func seedEventWithMilestones(store *mockPlanStore) event.Event {
	ev := event.Event{
		ID:        "ev-1",
		AccountID: "acct-1",
		Name:      "Q1 Apparel Launch",
		Type:      event.TypeApparel,
		Date:      time.Date(2027, 2, 15, 0, 0, 0, 0, time.UTC),
		Status:    event.StatusPlanned,
	}
	store.events[ev.ID] = ev
	ms, _ := event.DefaultMilestones(ev)
	for i := range ms {
		ms[i].ID = ms[i].Name
		store.milestones[ms[i].ID] = ms[i]
	}
	return ev
}

// TestExecuteRescheduleEvent_Cascade tests that moving the anchor date
// recomputes every child milestone from its offset.
func TestExecuteRescheduleEvent_Cascade(t *testing.T) {
	store := newMockPlanStore()
	seedEventWithMilestones(store)

	newDate := time.Date(2027, 3, 1, 0, 0, 0, 0, time.UTC)
	ev, err := ExecuteRescheduleEvent(context.Background(), RescheduleEventInput{
		AccountID: "acct-1",
		EventID:   "ev-1",
		NewDate:   newDate,
	}, RescheduleEventDeps{PlanStore: store})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ev.Date.Equal(newDate) {
		t.Errorf("event date = %v, want %v", ev.Date, newDate)
	}

	for _, ms := range store.milestones {
		want := newDate.AddDate(0, 0, ms.OffsetDays)
		if !ms.AbsoluteDate.Equal(want) {
			t.Errorf("milestone %s date = %v, want %v (offset %d)", ms.Name, ms.AbsoluteDate, want, ms.OffsetDays)
		}
	}
}

// TestExecuteRescheduleEvent_WrongAccount tests the ownership check.
func TestExecuteRescheduleEvent_WrongAccount(t *testing.T) {
	store := newMockPlanStore()
	seedEventWithMilestones(store)

	_, err := ExecuteRescheduleEvent(context.Background(), RescheduleEventInput{
		AccountID: "acct-2",
		EventID:   "ev-1",
		NewDate:   time.Date(2027, 3, 1, 0, 0, 0, 0, time.UTC),
	}, RescheduleEventDeps{PlanStore: store})
	if !errors.Is(err, ErrNotYourEvent) {
		t.Errorf("error = %v, want ErrNotYourEvent", err)
	}
}

// TestExecuteRescheduleEvent_ZeroDate tests the anchor date guard.
func TestExecuteRescheduleEvent_ZeroDate(t *testing.T) {
	store := newMockPlanStore()
	seedEventWithMilestones(store)

	_, err := ExecuteRescheduleEvent(context.Background(), RescheduleEventInput{
		AccountID: "acct-1",
		EventID:   "ev-1",
	}, RescheduleEventDeps{PlanStore: store})
	if !errors.Is(err, event.ErrNoAnchorDate) {
		t.Errorf("error = %v, want ErrNoAnchorDate", err)
	}
}

// TestExecuteRescheduleEvent_NotFound tests the missing event path.
func TestExecuteRescheduleEvent_NotFound(t *testing.T) {
	_, err := ExecuteRescheduleEvent(context.Background(), RescheduleEventInput{
		AccountID: "acct-1",
		EventID:   "nope",
		NewDate:   time.Date(2027, 3, 1, 0, 0, 0, 0, time.UTC),
	}, RescheduleEventDeps{PlanStore: newMockPlanStore()})
	if !errors.Is(err, ErrEventNotFound) {
		t.Errorf("error = %v, want ErrEventNotFound", err)
	}
}
