package projections

import (
	"context"
	"sort"
	"time"

	"fitplan/internal/domain/event"
)

// GetUpcomingMilestonesQuery carries query parameters.
type GetUpcomingMilestonesQuery struct {
	AccountID string
	Days      int // lookahead window, defaults to 30
}

// UpcomingMilestone pairs a due milestone with its parent event.
type UpcomingMilestone struct {
	Milestone event.Milestone
	EventID   string
	EventName string
	EventDate time.Time
	DaysUntil int
}

// GetUpcomingMilestonesResult carries the query result.
type GetUpcomingMilestonesResult struct {
	Milestones []UpcomingMilestone
}

// UpcomingPlanStore defines the plan store interface for this projection.
type UpcomingPlanStore interface {
	GetEventsInRange(ctx context.Context, accountID string, from, to time.Time) ([]event.Event, error)
	GetMilestonesByEvent(ctx context.Context, eventID string) ([]event.Milestone, error)
}

// GetUpcomingMilestonesDeps holds dependencies for GetUpcomingMilestones.
type GetUpcomingMilestonesDeps struct {
	PlanStore UpcomingPlanStore
	Now       func() time.Time
}

// QueryGetUpcomingMilestones retrieves open milestones due inside the window,
// soonest first. Done milestones are excluded.
// PRE: AccountID is set
// POST: sorted ascending by due date
func QueryGetUpcomingMilestones(ctx context.Context, query GetUpcomingMilestonesQuery, deps GetUpcomingMilestonesDeps) (GetUpcomingMilestonesResult, error) {
	now := deps.Now()
	days := query.Days
	if days <= 0 {
		days = 30
	}
	horizon := now.AddDate(0, 0, days)

	// Milestones can precede their event by up to 45 days or trail it with
	// follow-ups, so widen the event window both ways.
	events, err := deps.PlanStore.GetEventsInRange(ctx, query.AccountID, now.AddDate(0, 0, -45), horizon.AddDate(0, 0, 45))
	if err != nil {
		return GetUpcomingMilestonesResult{}, err
	}

	var due []UpcomingMilestone
	for _, ev := range events {
		milestones, err := deps.PlanStore.GetMilestonesByEvent(ctx, ev.ID)
		if err != nil {
			return GetUpcomingMilestonesResult{}, err
		}
		for _, m := range milestones {
			if m.Status != event.MilestoneOpen {
				continue
			}
			if m.AbsoluteDate.Before(now) || m.AbsoluteDate.After(horizon) {
				continue
			}
			due = append(due, UpcomingMilestone{
				Milestone: m,
				EventID:   ev.ID,
				EventName: ev.Name,
				EventDate: ev.Date,
				DaysUntil: int(m.AbsoluteDate.Sub(now).Hours() / 24),
			})
		}
	}

	sort.SliceStable(due, func(i, j int) bool {
		return due[i].Milestone.AbsoluteDate.Before(due[j].Milestone.AbsoluteDate)
	})

	return GetUpcomingMilestonesResult{Milestones: due}, nil
}
