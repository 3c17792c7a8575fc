package ics

import (
	"fmt"
	"sort"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"

	"fitplan/internal/domain/event"
)

// CalendarName is the X-WR-CALNAME emitted on exported calendars.
const CalendarName = "FitPlan Events"

// ExportCalendar builds an iCalendar document from an account's events and
// their milestones. Events and milestones become all-day VEVENTs so the
// export drops cleanly into Google Calendar or Apple Calendar.
// PRE: milestones is keyed by event ID; every key refers to an event in events
// POST: Returns a serialized VCALENDAR containing one VEVENT per event and
// one per open milestone
func ExportCalendar(events []event.Event, milestones map[string][]event.Milestone, now time.Time) string {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId("-//FitPlan//Event Planner//EN")
	cal.SetXWRCalName(CalendarName)

	sorted := make([]event.Event, len(events))
	copy(sorted, events)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Date.Before(sorted[j].Date) })

	for _, e := range sorted {
		ve := cal.AddEvent(fmt.Sprintf("event-%s@fitplan", e.ID))
		ve.SetAllDayStartAt(e.Date)
		ve.SetAllDayEndAt(e.Date.AddDate(0, 0, 1))
		ve.SetSummary(e.Name)
		ve.SetDescription(eventDescription(e))
		if e.City != "" {
			ve.SetLocation(e.City)
		}
		ve.SetDtStampTime(now)

		for _, m := range milestones[e.ID] {
			if m.Status == event.MilestoneDone {
				continue
			}
			vm := cal.AddEvent(fmt.Sprintf("milestone-%s@fitplan", m.ID))
			vm.SetAllDayStartAt(m.AbsoluteDate)
			vm.SetAllDayEndAt(m.AbsoluteDate.AddDate(0, 0, 1))
			vm.SetSummary(fmt.Sprintf("%s: %s", e.Name, m.Name))
			vm.SetDescription(milestoneDescription(e, m))
			vm.SetDtStampTime(now)
		}
	}

	return cal.Serialize()
}

func eventDescription(e event.Event) string {
	parts := []string{fmt.Sprintf("Type: %s", e.Type)}
	if e.Category != "" {
		parts = append(parts, fmt.Sprintf("Category: %s", e.Category))
	}
	if len(e.Tags) > 0 {
		parts = append(parts, fmt.Sprintf("Tags: %s", strings.Join(e.Tags, ", ")))
	}
	parts = append(parts, fmt.Sprintf("Status: %s", e.Status))
	return strings.Join(parts, "\n")
}

func milestoneDescription(e event.Event, m event.Milestone) string {
	parts := []string{fmt.Sprintf("Milestone for %s on %s", e.Name, e.Date.Format("2 Jan 2006"))}
	if m.Owner != "" {
		parts = append(parts, fmt.Sprintf("Owner: %s", m.Owner))
	}
	if m.Notes != "" {
		parts = append(parts, m.Notes)
	}
	return strings.Join(parts, "\n")
}
