package orchestrators

import (
	"context"
	"log/slog"

	"fitplan/internal/domain/event"
)

// PlanStoreForUpdateEvent defines the store interface needed by UpdateEventStatus.
type PlanStoreForUpdateEvent interface {
	GetEventByID(ctx context.Context, id string) (event.Event, error)
	SaveEvent(ctx context.Context, e event.Event) error
}

// UpdateEventStatusInput carries input for the status-transition orchestrator.
type UpdateEventStatusInput struct {
	AccountID string
	EventID   string
	Status    string
}

// UpdateEventStatusDeps holds dependencies for UpdateEventStatus.
type UpdateEventStatusDeps struct {
	PlanStore PlanStoreForUpdateEvent
}

// ExecuteUpdateEventStatus moves an event through its lifecycle
// (planned, in_progress, done, canceled).
// PRE: EventID belongs to AccountID; Status is a valid event status
// POST: event status updated
func ExecuteUpdateEventStatus(ctx context.Context, input UpdateEventStatusInput, deps UpdateEventStatusDeps) (event.Event, error) {
	ev, err := deps.PlanStore.GetEventByID(ctx, input.EventID)
	if err != nil {
		return event.Event{}, ErrEventNotFound
	}
	if ev.AccountID != input.AccountID {
		return event.Event{}, ErrNotYourEvent
	}

	ev.Status = input.Status
	if err := ev.Validate(); err != nil {
		return event.Event{}, err
	}
	if err := deps.PlanStore.SaveEvent(ctx, ev); err != nil {
		return event.Event{}, err
	}

	slog.Info("plan_event", "event", "event_status_changed", "event_id", ev.ID, "status", ev.Status)
	return ev, nil
}
