package template

import (
	"strings"

	"fitplan/internal/domain/event"
)

// Builtin template names, referenced by the plan generator.
const (
	NameApparelLaunch   = "Apparel Launch"
	NameCommunityEvent  = "Community Event (BBQ, Social, Throwdown)"
	NameHolidayPromo    = "Holiday Promo/Event"
	NameBusinessCadence = "Business Cadence (Annual, Quarterly, Staff Reviews)"
)

// catalog holds the built-in event templates.
var catalog = []Template{
	{
		ID:           "apparel-launch",
		Name:         NameApparelLaunch,
		Type:         event.TypeApparel,
		Category:     event.TypeApparel,
		Description:  "Launch seasonal or themed apparel for your community",
		LeadTimeDays: 28,
		Milestones: []MilestoneDef{
			{"Announce Pre-Orders", -28, "Marketing Team", "Build excitement and gauge demand by showcasing mockups and pricing to your community"},
			{"Close Pre-Orders", -14, "Sales Team", "Create urgency and finalize order quantities to ensure accurate fulfillment"},
			{"Fulfill Orders", -7, "Operations", "Process inventory and prepare shipments to deliver on time"},
			{"Host Launch Event", 0, "Store Manager", "Celebrate the launch with your community and create memorable content"},
		},
	},
	{
		ID:           "community-event",
		Name:         NameCommunityEvent,
		Type:         event.TypeCommunity,
		Category:     event.TypeCommunity,
		Description:  "Host community gathering like BBQ, social event, or competition",
		LeadTimeDays: 28,
		Milestones: []MilestoneDef{
			{"Send Save the Date", -28, "Event Coordinator", "Get your event on everyone's calendar early to maximize attendance"},
			{"Collect RSVPs", -14, "Community Manager", "Accurate headcount ensures you have enough food, supplies, and space"},
			{"Prepare Supplies", -2, "Event Team", "Last-minute prep prevents day-of stress and ensures smooth execution"},
			{"Host Event", 0, "Event Lead", "Create memorable experiences that strengthen your community bonds"},
		},
	},
	{
		ID:           "holiday-promo",
		Name:         NameHolidayPromo,
		Type:         event.TypeHoliday,
		Category:     event.TypeHoliday,
		Description:  "Plan and execute holiday-themed promotions or events",
		LeadTimeDays: 21,
		Milestones: []MilestoneDef{
			{"Plan Holiday Theme", -21, "Marketing Team", "Strategic planning maximizes holiday sales and creates cohesive messaging"},
			{"Launch Campaign", -14, "Marketing Team", "Early promotion builds anticipation and gives customers time to plan"},
			{"Send Reminders", -7, "Social Media Manager", "Final reminders capture last-minute customers and create urgency"},
			{"Execute Promotion", 0, "Store Manager", "Successful execution during peak holiday timing maximizes impact"},
		},
	},
	{
		ID:           "business-cadence",
		Name:         NameBusinessCadence,
		Type:         event.TypeBusiness,
		Category:     event.TypeBusiness,
		Description:  "Regular business meetings, reviews, and planning sessions",
		LeadTimeDays: 21,
		Milestones: []MilestoneDef{
			{"Prepare Materials", -21, "Leadership Team", "Thorough preparation ensures productive meetings and informed decisions"},
			{"Conduct Review", 0, "Meeting Leader", "Structured reviews drive accountability and strategic alignment"},
			{"Assign Follow-ups", 7, "Team Lead", "Clear action items ensure meeting outcomes translate to results"},
		},
	},
}

// Builtin returns a copy of the built-in template catalog.
// POST: callers may reorder the returned slice without affecting the catalog
func Builtin() []Template {
	out := make([]Template, len(catalog))
	copy(out, catalog)
	return out
}

// ByID looks up a built-in template by its ID.
// POST: returns the template and true, or a zero template and false
func ByID(id string) (Template, bool) {
	for _, t := range catalog {
		if t.ID == id {
			return t, true
		}
	}
	return Template{}, false
}

// ByName looks up a built-in template by its display name (case-insensitive).
// POST: returns the template and true, or a zero template and false
func ByName(name string) (Template, bool) {
	for _, t := range catalog {
		if strings.EqualFold(t.Name, name) {
			return t, true
		}
	}
	return Template{}, false
}
