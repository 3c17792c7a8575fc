package plan

import (
	"time"

	"fitplan/internal/domain/event"
)

// Profile is the business profile driving plan generation.
type Profile struct {
	BusinessType   string
	City           string
	FocusApparel   bool
	FocusCommunity bool
	FocusHolidays  bool
	FocusBusiness  bool
}

// HasFocus returns true if at least one focus flag is set.
// Callers distinguish "no focus selected" from "profile incomplete" when
// presenting an empty plan.
func (p Profile) HasFocus() bool {
	return p.FocusApparel || p.FocusCommunity || p.FocusHolidays || p.FocusBusiness
}

// IsComplete returns true if both business type and city are set.
func (p Profile) IsComplete() bool {
	return p.BusinessType != "" && p.City != ""
}

// RecommendedEvent is a generator-produced candidate event. It lives only in
// preview/review state; persisting converts it into an Event plus milestones.
type RecommendedEvent struct {
	ID            string
	Name          string
	Type          string
	Description   string
	SuggestedDate time.Time
	Template      string
	Selected      bool
}

// Quarter returns the calendar quarter (1-4) of the suggested date.
func (r RecommendedEvent) Quarter() int {
	return (int(r.SuggestedDate.Month())-1)/3 + 1
}

// Selected filters a recommendation list down to the user-selected entries.
// Both the manual save path and preview migration persist selected events
// only.
func SelectedEvents(events []RecommendedEvent) []RecommendedEvent {
	out := make([]RecommendedEvent, 0, len(events))
	for _, e := range events {
		if e.Selected {
			out = append(out, e)
		}
	}
	return out
}

// InQuarter filters a recommendation list to one calendar quarter.
func InQuarter(events []RecommendedEvent, quarter int) []RecommendedEvent {
	out := make([]RecommendedEvent, 0, len(events))
	for _, e := range events {
		if e.Quarter() == quarter {
			out = append(out, e)
		}
	}
	return out
}

// ToRecord converts a reviewed recommendation into a persistable event.
// PRE: id is a fresh unique ID
func (r RecommendedEvent) ToRecord(id, accountID, city, businessType string, now time.Time) event.Event {
	return event.FromPlan(id, accountID, r.Name, r.Type, r.SuggestedDate, city, businessType, now)
}
