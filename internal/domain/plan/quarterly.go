package plan

import (
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"time"

	"fitplan/internal/domain/event"
	"fitplan/internal/domain/template"
)

// quarter is one fixed three-month calendar bucket. The middle month anchors
// apparel and community dates; the last month hosts the business review.
type quarter struct {
	name   string
	months [3]time.Month
}

var quarters = []quarter{
	{"Q1", [3]time.Month{time.January, time.February, time.March}},
	{"Q2", [3]time.Month{time.April, time.May, time.June}},
	{"Q3", [3]time.Month{time.July, time.August, time.September}},
	{"Q4", [3]time.Month{time.October, time.November, time.December}},
}

// holidayEvent is a fixed-date holiday promotion.
type holidayEvent struct {
	name        string
	month       time.Month
	day         int
	description string
}

var holidayEvents = []holidayEvent{
	{"New Year New You Challenge", time.January, 8, "Start the year strong with fitness resolutions"},
	{"Spring Renewal Promo", time.March, 20, "Spring cleaning for your fitness routine"},
	{"Summer Body Bootcamp", time.June, 1, "Get ready for summer with intensive training"},
	{"Back to School Fitness", time.September, 1, "Get back into routine with fall fitness"},
	{"Holiday Gratitude Challenge", time.November, 15, "Thanksgiving themed wellness challenge"},
}

// communityThemes maps a business type to its rotating community event names.
// Unmapped types fall back to genericThemes: the lookup is a total function.
var communityThemes = map[string][]string{
	"CrossFit Affiliate":   {"Box Battle", "Community WOD", "Partner Challenge", "Fundraiser WOD"},
	"Yoga Studio":          {"Yoga in the Park", "Meditation Circle", "Wellness Workshop", "Community Flow"},
	"Martial Arts Academy": {"Belt Testing", "Demo Day", "Community Sparring", "Technique Workshop"},
	"Pilates Studio":       {"Pilates Mixer", "Core Challenge", "Wellness Fair", "Community Class"},
}

var genericThemes = []string{"Community Event", "Social Gathering", "Group Activity", "Team Building"}

// GenerateQuarterlyPlan produces the recommended annual calendar for a
// profile. Pure except for rng, which picks the community event day of month
// — callers wanting reproducible plans pass a seeded source.
// PRE: rng is non-nil when FocusCommunity is set
// POST: result is sorted ascending by suggested date; every event has
// Selected=true; empty (modulo city bonuses) when no focus flag is set
func GenerateQuarterlyPlan(p Profile, year int, rng *rand.Rand) []RecommendedEvent {
	var recs []RecommendedEvent

	for qi, q := range quarters {
		anchorMonth := q.months[1]

		if p.FocusApparel {
			theme := seasonalTheme(anchorMonth)
			recs = append(recs, RecommendedEvent{
				ID:            fmt.Sprintf("apparel-q%d", qi+1),
				Name:          fmt.Sprintf("%s %s Apparel Launch", q.name, theme),
				Type:          event.TypeApparel,
				Description:   fmt.Sprintf("Launch %s themed fitness apparel", strings.ToLower(theme)),
				SuggestedDate: date(year, anchorMonth, 15),
				Template:      template.NameApparelLaunch,
				Selected:      true,
			})
		}

		if p.FocusCommunity {
			// Random day in [10,24] spreads community events across the month.
			day := rng.Intn(15) + 10
			recs = append(recs, RecommendedEvent{
				ID:            fmt.Sprintf("community-q%d", qi+1),
				Name:          fmt.Sprintf("%s %s", q.name, communityTheme(anchorMonth, p.BusinessType)),
				Type:          event.TypeCommunity,
				Description:   fmt.Sprintf("Quarterly community building event for %s", p.BusinessType),
				SuggestedDate: date(year, anchorMonth, day),
				Template:      template.NameCommunityEvent,
				Selected:      true,
			})
		}

		if p.FocusBusiness {
			recs = append(recs, RecommendedEvent{
				ID:            fmt.Sprintf("business-q%d", qi+1),
				Name:          fmt.Sprintf("%s Business Review", q.name),
				Type:          event.TypeBusiness,
				Description:   "Quarterly business planning and review session",
				SuggestedDate: date(year, q.months[2], 25),
				Template:      template.NameBusinessCadence,
				Selected:      true,
			})
		}
	}

	if p.FocusHolidays {
		for i, h := range holidayEvents {
			recs = append(recs, RecommendedEvent{
				ID:            fmt.Sprintf("holiday-%d", i),
				Name:          h.name,
				Type:          event.TypeHoliday,
				Description:   h.description,
				SuggestedDate: date(year, h.month, h.day),
				Template:      template.NameHolidayPromo,
				Selected:      true,
			})
		}
	}

	recs = append(recs, cityBonusEvents(p.City, year)...)

	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].SuggestedDate.Before(recs[j].SuggestedDate)
	})
	return recs
}

// cityBonusEvents emits fixed local-flavor community events for cities the
// generator knows by name. Substring match, so "Kansas City, MO" qualifies.
func cityBonusEvents(city string, year int) []RecommendedEvent {
	lower := strings.ToLower(city)
	var recs []RecommendedEvent

	if strings.Contains(lower, "kansas city") {
		recs = append(recs, RecommendedEvent{
			ID:            "kc-baseball",
			Name:          "Royals Opening Day Celebration",
			Type:          event.TypeCommunity,
			Description:   "Celebrate baseball season with Royals-themed workouts",
			SuggestedDate: date(year, time.April, 10),
			Template:      template.NameCommunityEvent,
			Selected:      true,
		})
	}

	if strings.Contains(lower, "boston") {
		recs = append(recs, RecommendedEvent{
			ID:            "boston-marathon",
			Name:          "Marathon Monday Motivation",
			Type:          event.TypeCommunity,
			Description:   "Boston Marathon inspired endurance challenge",
			SuggestedDate: date(year, time.April, 15),
			Template:      template.NameCommunityEvent,
			Selected:      true,
		})
	}

	return recs
}

// seasonalTheme names the apparel theme for an anchor month.
func seasonalTheme(m time.Month) string {
	switch {
	case m <= time.March:
		return "Winter Warrior"
	case m <= time.June:
		return "Spring Training"
	case m <= time.September:
		return "Summer Strong"
	default:
		return "Fall Fitness"
	}
}

// communityTheme rotates through the business type's theme list by month.
func communityTheme(m time.Month, businessType string) string {
	themes, ok := communityThemes[businessType]
	if !ok {
		themes = genericThemes
	}
	return themes[(int(m)-1)%len(themes)]
}

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
