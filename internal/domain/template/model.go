package template

import (
	"time"

	"fitplan/internal/domain/event"
)

// MilestoneDef is one step of a template timeline, offset from the anchor date.
type MilestoneDef struct {
	Name         string
	OffsetDays   int
	DefaultOwner string
	Notes        string
}

// Template is an event archetype with a named, ordered milestone timeline.
// Templates are loaded at process start and never mutated.
type Template struct {
	ID           string
	Name         string
	Type         string
	Category     string
	Description  string
	LeadTimeDays int
	Milestones   []MilestoneDef
}

// Expand instantiates the template's milestone timeline against an anchor
// date. Milestone IDs and the parent event reference are left for the caller.
// PRE: anchor is non-zero
// POST: one milestone per def in template order; AbsoluteDate == anchor +
// OffsetDays in whole calendar days; SortOrder sequential from 1
func (t *Template) Expand(anchor time.Time) ([]event.Milestone, error) {
	if anchor.IsZero() {
		return nil, event.ErrNoAnchorDate
	}
	milestones := make([]event.Milestone, 0, len(t.Milestones))
	for i, def := range t.Milestones {
		milestones = append(milestones, event.Milestone{
			Name:         def.Name,
			OffsetDays:   def.OffsetDays,
			AbsoluteDate: anchor.AddDate(0, 0, def.OffsetDays),
			Owner:        def.DefaultOwner,
			Status:       event.MilestoneOpen,
			Notes:        def.Notes,
			SortOrder:    i + 1,
		})
	}
	return milestones, nil
}
