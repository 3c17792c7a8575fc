package projections

import (
	"context"
	"sort"
	"time"

	"fitplan/internal/domain/event"
)

// GetCalendarQuery carries query parameters. A zero From/To defaults to the
// calendar year containing From (or the current year).
type GetCalendarQuery struct {
	AccountID string
	From      time.Time
	To        time.Time
}

// EventWithMilestones is one calendar entry with its milestones attached,
// ordered by sort order.
type EventWithMilestones struct {
	Event      event.Event
	Milestones []event.Milestone
}

// GetCalendarResult carries the query result.
type GetCalendarResult struct {
	Events    []EventWithMilestones
	ByQuarter map[int][]EventWithMilestones
}

// CalendarPlanStore defines the plan store interface for this projection.
type CalendarPlanStore interface {
	GetEventsInRange(ctx context.Context, accountID string, from, to time.Time) ([]event.Event, error)
	GetMilestonesByEvent(ctx context.Context, eventID string) ([]event.Milestone, error)
}

// GetCalendarDeps holds dependencies for GetCalendar.
type GetCalendarDeps struct {
	PlanStore CalendarPlanStore
}

// QueryGetCalendar retrieves an account's events in a date range with nested
// milestones, plus a quarter-bucketed view.
// PRE: AccountID is set
// POST: events sorted ascending by date; milestones sorted by SortOrder
func QueryGetCalendar(ctx context.Context, query GetCalendarQuery, deps GetCalendarDeps) (GetCalendarResult, error) {
	from, to := query.From, query.To
	if from.IsZero() {
		from = time.Date(time.Now().Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	}
	if to.IsZero() {
		to = time.Date(from.Year(), time.December, 31, 23, 59, 59, 0, time.UTC)
	}

	events, err := deps.PlanStore.GetEventsInRange(ctx, query.AccountID, from, to)
	if err != nil {
		return GetCalendarResult{}, err
	}
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Date.Before(events[j].Date)
	})

	result := GetCalendarResult{ByQuarter: make(map[int][]EventWithMilestones)}
	for _, ev := range events {
		milestones, err := deps.PlanStore.GetMilestonesByEvent(ctx, ev.ID)
		if err != nil {
			return GetCalendarResult{}, err
		}
		sort.SliceStable(milestones, func(i, j int) bool {
			return milestones[i].SortOrder < milestones[j].SortOrder
		})

		entry := EventWithMilestones{Event: ev, Milestones: milestones}
		result.Events = append(result.Events, entry)
		q := ev.Quarter()
		result.ByQuarter[q] = append(result.ByQuarter[q], entry)
	}

	return result, nil
}
