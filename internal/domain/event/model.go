package event

import (
	"errors"
	"time"
)

// Event type constants.
const (
	TypeApparel   = "apparel"
	TypeCommunity = "community"
	TypeHoliday   = "holiday"
	TypeBusiness  = "business"
	TypeCustom    = "custom"
)

// Event status constants.
const (
	StatusPlanned    = "planned"
	StatusInProgress = "in_progress"
	StatusDone       = "done"
	StatusCanceled   = "canceled"
)

// Milestone status constants.
const (
	MilestoneOpen = "open"
	MilestoneDone = "done"
)

// ValidTypes contains all valid event types.
var ValidTypes = []string{TypeApparel, TypeCommunity, TypeHoliday, TypeBusiness, TypeCustom}

// ValidStatuses contains all valid event statuses.
var ValidStatuses = []string{StatusPlanned, StatusInProgress, StatusDone, StatusCanceled}

// Max length constants for user-editable fields.
const (
	MaxNameLength = 200
)

// Domain errors
var (
	ErrEmptyName               = errors.New("event name cannot be empty")
	ErrInvalidType             = errors.New("event type must be one of: apparel, community, holiday, business, custom")
	ErrInvalidStatus           = errors.New("event status must be one of: planned, in_progress, done, canceled")
	ErrNoAnchorDate            = errors.New("event has no anchor date")
	ErrInvalidMilestoneStatus  = errors.New("milestone status must be 'open' or 'done'")
	ErrEmptyMilestoneName      = errors.New("milestone name cannot be empty")
	ErrMilestoneWithoutEventID = errors.New("milestone must reference a parent event")
)

// Event is a persisted plan event owned by an account.
// INVARIANT: Date is the anchor from which all child milestone dates derive.
type Event struct {
	ID           string
	AccountID    string
	Name         string
	Type         string
	Category     string
	Date         time.Time
	City         string
	BusinessType string
	Status       string
	Tags         []string
	CreatedAt    time.Time
}

// Milestone is a dated task belonging to one event.
// INVARIANT: AbsoluteDate == parent event date + OffsetDays at every write.
type Milestone struct {
	ID           string
	EventID      string
	Name         string
	OffsetDays   int
	AbsoluteDate time.Time
	Owner        string
	Status       string
	Notes        string
	SortOrder    int
}

// Validate checks the event's invariants.
// PRE: none
// POST: returns nil if valid, error describing the first violation otherwise
func (e *Event) Validate() error {
	if e.Name == "" {
		return ErrEmptyName
	}
	if len(e.Name) > MaxNameLength {
		return errors.New("event name cannot exceed 200 characters")
	}
	if !contains(ValidTypes, e.Type) {
		return ErrInvalidType
	}
	if e.Date.IsZero() {
		return ErrNoAnchorDate
	}
	if !contains(ValidStatuses, e.Status) {
		return ErrInvalidStatus
	}
	return nil
}

// Quarter returns the calendar quarter (1-4) the event's date falls in.
// INVARIANT: Event fields are not mutated
func (e *Event) Quarter() int {
	return (int(e.Date.Month())-1)/3 + 1
}

// Validate checks the milestone's invariants.
// PRE: none
// POST: returns nil if valid, error otherwise
func (m *Milestone) Validate() error {
	if m.Name == "" {
		return ErrEmptyMilestoneName
	}
	if m.EventID == "" {
		return ErrMilestoneWithoutEventID
	}
	if m.Status != MilestoneOpen && m.Status != MilestoneDone {
		return ErrInvalidMilestoneStatus
	}
	return nil
}

// Recompute re-derives AbsoluteDate from a (possibly edited) anchor date.
// PRE: anchor is non-zero
// POST: AbsoluteDate == anchor + OffsetDays in whole calendar days
func (m *Milestone) Recompute(anchor time.Time) {
	m.AbsoluteDate = anchor.AddDate(0, 0, m.OffsetDays)
}

func contains(values []string, v string) bool {
	for _, item := range values {
		if item == v {
			return true
		}
	}
	return false
}
