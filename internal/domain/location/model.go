package location

import "strings"

// Season constants used by teams and local events.
const (
	SeasonSpring = "spring"
	SeasonSummer = "summer"
	SeasonFall   = "fall"
	SeasonWinter = "winter"
	YearRound    = "year-round"
)

// Local event type constants.
const (
	EventSports   = "sports"
	EventFestival = "festival"
	EventMarathon = "marathon"
	EventCultural = "cultural"
	EventSeasonal = "seasonal"
)

// Team is a regional sports team with its primary playing season.
type Team struct {
	Name   string
	League string
	Colors []string
	Season string
}

// LocalEvent is a recurring event associated with a city.
type LocalEvent struct {
	Name        string
	Type        string
	Timing      string
	Description string
}

// City is one knowledge-base record: teams, local events and a fitness
// profile tag set for a supported metro area.
type City struct {
	Name           string
	State          string
	Region         string
	Climate        string
	FitnessProfile []string
	Teams          []Team
	Events         []LocalEvent
}

// Lookup resolves a city name to its knowledge-base record.
// PRE: none
// POST: returns the record and true on an exact case-insensitive match,
// a zero record and false otherwise — callers degrade, never fail
func Lookup(name string) (City, bool) {
	c, ok := cities[strings.ToLower(strings.TrimSpace(name))]
	return c, ok
}

// Supported returns "City, State" labels for every known city.
func Supported() []string {
	out := make([]string, 0, len(cities))
	for _, key := range cityOrder {
		c := cities[key]
		out = append(out, c.Name+", "+c.State)
	}
	return out
}

// TeamsFor returns the teams for a city, or nil when the city is unknown.
func TeamsFor(name string) []Team {
	c, ok := Lookup(name)
	if !ok {
		return nil
	}
	return c.Teams
}

// EventsFor returns the local events for a city, or nil when unknown.
func EventsFor(name string) []LocalEvent {
	c, ok := Lookup(name)
	if !ok {
		return nil
	}
	return c.Events
}

// FitnessProfileFor returns the fitness profile tags for a city, or nil.
func FitnessProfileFor(name string) []string {
	c, ok := Lookup(name)
	if !ok {
		return nil
	}
	return c.FitnessProfile
}
