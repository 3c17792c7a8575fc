package orchestrators

import (
	"context"
	"errors"
	"log/slog"

	"fitplan/internal/domain/event"
)

// PlanStoreForMilestone defines the store interface needed by UpdateMilestone.
type PlanStoreForMilestone interface {
	GetMilestoneByID(ctx context.Context, id string) (event.Milestone, error)
	GetEventByID(ctx context.Context, id string) (event.Event, error)
	SaveMilestone(ctx context.Context, m event.Milestone) error
}

// UpdateMilestoneInput carries input for the milestone update orchestrator.
// Nil pointer fields are left unchanged.
type UpdateMilestoneInput struct {
	AccountID   string
	MilestoneID string
	Status      *string
	Owner       *string
	Notes       *string
}

// UpdateMilestoneDeps holds dependencies for UpdateMilestone.
type UpdateMilestoneDeps struct {
	PlanStore PlanStoreForMilestone
}

var ErrMilestoneNotFound = errors.New("milestone not found")

// ExecuteUpdateMilestone edits a milestone's status, owner, or notes.
// PRE: MilestoneID's parent event belongs to AccountID
// POST: only the provided fields change; offsets and dates are untouched
func ExecuteUpdateMilestone(ctx context.Context, input UpdateMilestoneInput, deps UpdateMilestoneDeps) (event.Milestone, error) {
	m, err := deps.PlanStore.GetMilestoneByID(ctx, input.MilestoneID)
	if err != nil {
		return event.Milestone{}, ErrMilestoneNotFound
	}

	ev, err := deps.PlanStore.GetEventByID(ctx, m.EventID)
	if err != nil {
		return event.Milestone{}, ErrEventNotFound
	}
	if ev.AccountID != input.AccountID {
		return event.Milestone{}, ErrNotYourEvent
	}

	if input.Status != nil {
		m.Status = *input.Status
	}
	if input.Owner != nil {
		m.Owner = *input.Owner
	}
	if input.Notes != nil {
		m.Notes = *input.Notes
	}

	if err := m.Validate(); err != nil {
		return event.Milestone{}, err
	}
	if err := deps.PlanStore.SaveMilestone(ctx, m); err != nil {
		return event.Milestone{}, err
	}

	slog.Info("plan_event", "event", "milestone_updated", "milestone_id", m.ID, "status", m.Status)
	return m, nil
}
