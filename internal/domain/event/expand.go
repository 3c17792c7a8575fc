package event

import "time"

// milestoneSkeleton is one entry of a type-keyed default milestone set.
type milestoneSkeleton struct {
	name       string
	offsetDays int
	owner      string
	notes      string
}

// defaultSkeletons maps an event type to the milestone set applied when an
// event is persisted without an explicit template (preview migration and
// quick saves). Unrecognized types fall back to genericSkeleton.
var defaultSkeletons = map[string][]milestoneSkeleton{
	TypeApparel: {
		{"Design and Mockups", -45, "Marketing Team", "Create product designs and marketing materials"},
		{"Pre-order Campaign", -30, "Marketing Team", "Launch pre-order campaign and social media push"},
		{"Product Launch", 0, "Operations", "Official product launch and fulfillment"},
	},
	TypeCommunity: {
		{"Event Planning", -21, "Community Manager", "Plan venue, activities, and logistics"},
		{"Member Outreach", -14, "Community Manager", "Send invitations and promotion materials"},
		{"Event Execution", 0, "All Staff", "Execute the community event"},
	},
	TypeHoliday: {
		{"Promotion Planning", -14, "Marketing Team", "Plan holiday-themed promotions and offers"},
		{"Marketing Launch", -7, "Marketing Team", "Launch holiday marketing campaigns"},
		{"Holiday Activation", 0, "All Staff", "Execute holiday promotions and activities"},
	},
	TypeBusiness: {
		{"Strategic Planning", -30, "Management", "Plan business initiative strategy and resources"},
		{"Implementation Prep", -14, "Operations", "Prepare systems and staff for initiative"},
		{"Initiative Launch", 0, "All Staff", "Launch business initiative"},
	},
}

var genericSkeleton = []milestoneSkeleton{
	{"Event Preparation", -14, "Team Lead", "Prepare for the event"},
	{"Event Execution", 0, "All Staff", "Execute the event"},
}

// DefaultMilestones expands an event into its type-keyed default milestone
// set. Milestone IDs are left empty for the caller to assign.
// PRE: e.Date is non-zero
// POST: returns milestones with AbsoluteDate == e.Date + OffsetDays and
// SortOrder sequential from 1; returns ErrNoAnchorDate otherwise
func DefaultMilestones(e Event) ([]Milestone, error) {
	if e.Date.IsZero() {
		return nil, ErrNoAnchorDate
	}
	skeleton, ok := defaultSkeletons[e.Type]
	if !ok {
		skeleton = genericSkeleton
	}
	milestones := make([]Milestone, 0, len(skeleton))
	for i, s := range skeleton {
		milestones = append(milestones, Milestone{
			EventID:      e.ID,
			Name:         s.name,
			OffsetDays:   s.offsetDays,
			AbsoluteDate: e.Date.AddDate(0, 0, s.offsetDays),
			Owner:        s.owner,
			Status:       MilestoneOpen,
			Notes:        s.notes,
			SortOrder:    i + 1,
		})
	}
	return milestones, nil
}

// FromPlan builds a persistable event from reviewed plan data.
// PRE: id is a fresh unique ID; date is non-zero
// POST: returns an event in planned status with Category mirroring Type
func FromPlan(id, accountID, name, eventType string, date time.Time, city, businessType string, now time.Time) Event {
	return Event{
		ID:           id,
		AccountID:    accountID,
		Name:         name,
		Type:         eventType,
		Category:     eventType,
		Date:         date,
		City:         city,
		BusinessType: businessType,
		Status:       StatusPlanned,
		Tags:         []string{},
		CreatedAt:    now,
	}
}
