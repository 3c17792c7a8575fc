package orchestrators

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"fitplan/internal/domain/event"
	"fitplan/internal/domain/plan"
)

// PlanStoreForSave defines the store interface needed by SavePlan.
type PlanStoreForSave interface {
	UpsertPlan(ctx context.Context, events []event.Event, milestones []event.Milestone) error
}

// SavePlanInput carries input for the manual save path.
type SavePlanInput struct {
	AccountID    string
	BusinessType string
	City         string
	Events       []plan.RecommendedEvent
}

// SavePlanDeps holds dependencies for SavePlan.
type SavePlanDeps struct {
	PlanStore  PlanStoreForSave
	GenerateID func() string
	Now        func() time.Time
}

var ErrNothingSelected = errors.New("no events selected")

// ExecuteSavePlan persists the selected events from a reviewed plan, expanding
// each into its default milestone set. This is the authenticated direct-save
// path; it never touches preview/migration state.
// PRE: AccountID is an authenticated account
// POST: Selected events and their milestones are upserted as one batch
func ExecuteSavePlan(ctx context.Context, input SavePlanInput, deps SavePlanDeps) (int, error) {
	if input.AccountID == "" {
		return 0, errors.New("account ID is required")
	}

	selected := plan.SelectedEvents(input.Events)
	if len(selected) == 0 {
		return 0, ErrNothingSelected
	}

	now := deps.Now()
	events := make([]event.Event, 0, len(selected))
	var milestones []event.Milestone

	for _, rec := range selected {
		ev := rec.ToRecord(deps.GenerateID(), input.AccountID, input.City, input.BusinessType, now)
		if err := ev.Validate(); err != nil {
			return 0, err
		}
		ms, err := event.DefaultMilestones(ev)
		if err != nil {
			return 0, err
		}
		for i := range ms {
			ms[i].ID = deps.GenerateID()
		}
		events = append(events, ev)
		milestones = append(milestones, ms...)
	}

	if err := deps.PlanStore.UpsertPlan(ctx, events, milestones); err != nil {
		return 0, err
	}

	slog.Info("plan_event", "event", "plan_saved", "account_id", input.AccountID, "events", len(events), "milestones", len(milestones))
	return len(events), nil
}
