package suggestion

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"fitplan/internal/domain/event"
	"fitplan/internal/domain/location"
	"fitplan/internal/domain/template"
)

// MaxSuggestions caps the engine's output.
const MaxSuggestions = 6

// seasonalChallenge names the unconditional per-season business suggestion.
type seasonalChallenge struct {
	season string
	name   string
	focus  string
}

var seasonalChallenges = []seasonalChallenge{
	{location.SeasonSpring, "Spring Training Challenge", "renewal and growth"},
	{location.SeasonSummer, "Summer Shred Challenge", "peak performance"},
	{location.SeasonFall, "Fall Fitness Challenge", "preparation and strength"},
	{location.SeasonWinter, "Winter Warrior Challenge", "resilience and endurance"},
}

// GenerateSuggestions synthesizes locally-flavored event suggestions for a
// business. Pure except for the now-relative future filter.
// PRE: none
// POST: at most MaxSuggestions results, every suggested date strictly after
// now, sorted by priority descending with stable order among equals; empty
// when the city is not in the knowledge base
func GenerateSuggestions(businessType, city string, now time.Time) []Suggestion {
	if businessType == "" || city == "" {
		return nil
	}
	cityData, ok := location.Lookup(city)
	if !ok {
		return nil
	}

	prefs := Preferences(businessType)
	var suggestions []Suggestion

	for _, team := range cityData.Teams {
		if hasPreference(prefs, "competitive") || hasPreference(prefs, "community") {
			suggestions = append(suggestions, apparelSuggestion(team, cityData.Name, now))
		}
	}

	for _, local := range cityData.Events {
		switch {
		case local.Type == location.EventMarathon && hasPreference(prefs, "athletic"):
			suggestions = append(suggestions, communitySuggestion(local, cityData.Name, now))
		case local.Type == location.EventFestival && hasPreference(prefs, "community"):
			suggestions = append(suggestions, communitySuggestion(local, cityData.Name, now))
		}
	}

	for _, c := range seasonalChallenges {
		suggestions = append(suggestions, challengeSuggestion(c, cityData.Name, now))
	}

	filtered := suggestions[:0]
	for _, s := range suggestions {
		if s.SuggestedDate.After(now) {
			filtered = append(filtered, s)
		}
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		return priorityWeight[filtered[i].Priority] > priorityWeight[filtered[j].Priority]
	})

	if len(filtered) > MaxSuggestions {
		filtered = filtered[:MaxSuggestions]
	}
	return filtered
}

func apparelSuggestion(team location.Team, cityName string, now time.Time) Suggestion {
	return Suggestion{
		ID:            "apparel-" + slug(team.Name),
		Title:         fmt.Sprintf("%s %s Season Apparel Launch", team.Name, team.League),
		Description:   fmt.Sprintf("Launch %s-themed workout gear for %s season", team.Name, team.League),
		Type:          event.TypeApparel,
		SuggestedDate: seasonStart(team.Season, now),
		LeadTimeWeeks: 6,
		LocalContext:  fmt.Sprintf("Perfect for %s %s fans - use team colors %s", cityName, team.Name, strings.Join(team.Colors, " & ")),
		Template:      apparelTemplate(team),
		Priority:      PriorityHigh,
	}
}

func communitySuggestion(local location.LocalEvent, cityName string, now time.Time) Suggestion {
	return Suggestion{
		ID:            "community-" + slug(local.Name),
		Title:         fmt.Sprintf("%s Community Event", local.Name),
		Description:   fmt.Sprintf("Host a community gathering around %s", local.Name),
		Type:          event.TypeCommunity,
		SuggestedDate: seasonStart(local.Timing, now),
		LeadTimeWeeks: 4,
		LocalContext:  fmt.Sprintf("Capitalize on %s's %s", cityName, local.Description),
		Template:      communityTemplate(local),
		Priority:      PriorityMedium,
	}
}

func challengeSuggestion(c seasonalChallenge, cityName string, now time.Time) Suggestion {
	return Suggestion{
		ID:            "challenge-" + c.season,
		Title:         c.name,
		Description:   fmt.Sprintf("Business planning session focused on %s", c.focus),
		Type:          event.TypeBusiness,
		SuggestedDate: seasonStart(c.season, now),
		LeadTimeWeeks: 3,
		LocalContext:  fmt.Sprintf("Tailored for %s's business community", cityName),
		Template:      challengeTemplate(c),
		Priority:      PriorityMedium,
	}
}

// seasonStart maps a season to its fixed start date in the current year.
// Unrecognized timings (e.g. "year-round") land on the first of the month
// two months out.
func seasonStart(season string, now time.Time) time.Time {
	year := now.Year()
	switch season {
	case location.SeasonSpring:
		return time.Date(year, time.March, 20, 0, 0, 0, 0, time.UTC)
	case location.SeasonSummer:
		return time.Date(year, time.June, 20, 0, 0, 0, 0, time.UTC)
	case location.SeasonFall:
		return time.Date(year, time.September, 22, 0, 0, 0, 0, time.UTC)
	case location.SeasonWinter:
		return time.Date(year, time.December, 21, 0, 0, 0, 0, time.UTC)
	default:
		return time.Date(year, now.Month()+2, 1, 0, 0, 0, 0, time.UTC)
	}
}

func apparelTemplate(team location.Team) template.Template {
	return template.Template{
		ID:           "template-apparel-" + slug(team.Name),
		Name:         fmt.Sprintf("%s Apparel Launch", team.Name),
		Type:         event.TypeApparel,
		Category:     event.TypeApparel,
		Description:  fmt.Sprintf("Launch team-themed workout gear for %s %s season", team.Name, team.League),
		LeadTimeDays: 28,
		Milestones: []template.MilestoneDef{
			{Name: "Pre-order announcement", OffsetDays: -28, DefaultOwner: "Marketing Team",
				Notes: fmt.Sprintf("Create %s-inspired designs using team colors %s", team.Name, strings.Join(team.Colors, " & "))},
			{Name: "Pre-order closes", OffsetDays: -14, DefaultOwner: "Sales Team",
				Notes: "Close pre-order system, finalize quantities for supplier"},
			{Name: "Fulfillment + shipping", OffsetDays: -7, DefaultOwner: "Operations",
				Notes: "Coordinate with supplier, receive and sort orders"},
			{Name: "Launch day", OffsetDays: 0, DefaultOwner: "Store Manager",
				Notes: "Launch day event with team theme, member pickup and celebration"},
		},
	}
}

func communityTemplate(local location.LocalEvent) template.Template {
	return template.Template{
		ID:           "template-community-" + slug(local.Name),
		Name:         fmt.Sprintf("%s Community Event", local.Name),
		Type:         event.TypeCommunity,
		Category:     event.TypeCommunity,
		Description:  fmt.Sprintf("Community gathering themed around %s", local.Name),
		LeadTimeDays: 28,
		Milestones: []template.MilestoneDef{
			{Name: "Save the date", OffsetDays: -28, DefaultOwner: "Event Coordinator",
				Notes: fmt.Sprintf("Plan %s-themed community event, book venue", local.Name)},
			{Name: "RSVP push", OffsetDays: -14, DefaultOwner: "Community Manager",
				Notes: "Push for RSVPs, promote event details and activities"},
			{Name: "Shopping list + prep", OffsetDays: -2, DefaultOwner: "Event Team",
				Notes: "Finalize headcount, create shopping list, prep materials"},
			{Name: "Event day", OffsetDays: 0, DefaultOwner: "Event Lead",
				Notes: "Execute community event, engage with attendees"},
		},
	}
}

func challengeTemplate(c seasonalChallenge) template.Template {
	return template.Template{
		ID:           "template-challenge-" + slug(c.name),
		Name:         c.name,
		Type:         event.TypeBusiness,
		Category:     event.TypeBusiness,
		Description:  fmt.Sprintf("Business planning focused on %s", c.focus),
		LeadTimeDays: 21,
		Milestones: []template.MilestoneDef{
			{Name: "Prep + agenda", OffsetDays: -21, DefaultOwner: "Leadership Team",
				Notes: "Prepare materials, set agenda, gather reports and data"},
			{Name: "Meeting / review", OffsetDays: 0, DefaultOwner: "Meeting Leader",
				Notes: "Conduct planning session, make decisions, document outcomes"},
			{Name: "Follow-up tasks", OffsetDays: 7, DefaultOwner: "Team Lead",
				Notes: "Assign action items, follow up on decisions, track progress"},
		},
	}
}

func slug(s string) string {
	return strings.ReplaceAll(strings.ToLower(s), " ", "-")
}
