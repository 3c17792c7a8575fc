package orchestrators

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"fitplan/internal/domain/event"
)

// PlanStoreForReschedule defines the store interface needed by RescheduleEvent.
type PlanStoreForReschedule interface {
	GetEventByID(ctx context.Context, id string) (event.Event, error)
	SaveEvent(ctx context.Context, e event.Event) error
	GetMilestonesByEvent(ctx context.Context, eventID string) ([]event.Milestone, error)
	SaveMilestone(ctx context.Context, m event.Milestone) error
}

// RescheduleEventInput carries input for the reschedule orchestrator.
type RescheduleEventInput struct {
	AccountID string
	EventID   string
	NewDate   time.Time
}

// RescheduleEventDeps holds dependencies for RescheduleEvent.
type RescheduleEventDeps struct {
	PlanStore PlanStoreForReschedule
}

var (
	ErrEventNotFound = errors.New("event not found")
	ErrNotYourEvent  = errors.New("event belongs to a different account")
)

// ExecuteRescheduleEvent moves an event's anchor date and cascades the change
// into every child milestone.
// PRE: NewDate is non-zero; EventID belongs to AccountID
// POST: event date updated; each milestone's AbsoluteDate == new date + offset
// INVARIANT: milestone offsets are never changed by a reschedule
func ExecuteRescheduleEvent(ctx context.Context, input RescheduleEventInput, deps RescheduleEventDeps) (event.Event, error) {
	if input.NewDate.IsZero() {
		return event.Event{}, event.ErrNoAnchorDate
	}

	ev, err := deps.PlanStore.GetEventByID(ctx, input.EventID)
	if err != nil {
		return event.Event{}, ErrEventNotFound
	}
	if ev.AccountID != input.AccountID {
		return event.Event{}, ErrNotYourEvent
	}

	ev.Date = input.NewDate
	if err := ev.Validate(); err != nil {
		return event.Event{}, err
	}
	if err := deps.PlanStore.SaveEvent(ctx, ev); err != nil {
		return event.Event{}, err
	}

	milestones, err := deps.PlanStore.GetMilestonesByEvent(ctx, ev.ID)
	if err != nil {
		return event.Event{}, err
	}
	for _, m := range milestones {
		m.Recompute(ev.Date)
		if err := deps.PlanStore.SaveMilestone(ctx, m); err != nil {
			return event.Event{}, err
		}
	}

	slog.Info("plan_event", "event", "event_rescheduled", "event_id", ev.ID, "new_date", ev.Date, "milestones", len(milestones))
	return ev, nil
}
