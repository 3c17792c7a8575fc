package plan

import (
	"context"
	"time"

	"fitplan/internal/domain/event"
)

// Store persists plan events and their milestones. Events and milestones
// share one store so UpsertPlan can write a whole plan in a single
// transaction.
type Store interface {
	UpsertPlan(ctx context.Context, events []event.Event, milestones []event.Milestone) error
	SaveEvent(ctx context.Context, e event.Event) error
	GetEventByID(ctx context.Context, id string) (event.Event, error)
	GetEventsByAccount(ctx context.Context, accountID string) ([]event.Event, error)
	GetEventsInRange(ctx context.Context, accountID string, from, to time.Time) ([]event.Event, error)
	DeleteEvent(ctx context.Context, id string) error
	SaveMilestone(ctx context.Context, m event.Milestone) error
	GetMilestoneByID(ctx context.Context, id string) (event.Milestone, error)
	GetMilestonesByEvent(ctx context.Context, eventID string) ([]event.Milestone, error)
	GetMilestonesDueBetween(ctx context.Context, from, to time.Time) ([]event.Milestone, error)
}
