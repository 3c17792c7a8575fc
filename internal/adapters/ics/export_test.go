package ics

import (
	"strings"
	"testing"
	"time"

	"fitplan/internal/domain/event"
)

var exportNow = time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

func launchEvent() event.Event {
	return event.Event{
		ID:           "ev-1",
		AccountID:    "acct-1",
		Name:         "Summer Apparel Launch",
		Type:         event.TypeApparel,
		Category:     "apparel",
		Date:         time.Date(2027, 3, 15, 0, 0, 0, 0, time.UTC),
		City:         "Kansas City",
		BusinessType: "gym",
		Status:       event.StatusPlanned,
		Tags:         []string{"apparel", "launch"},
		CreatedAt:    exportNow,
	}
}

// TestExportCalendar_Structure tests the serialized document shape.
func TestExportCalendar_Structure(t *testing.T) {
	e := launchEvent()
	ms := map[string][]event.Milestone{
		"ev-1": {
			{ID: "m-1", EventID: "ev-1", Name: "Design and Mockups", OffsetDays: -45, AbsoluteDate: e.Date.AddDate(0, 0, -45), Status: event.MilestoneOpen, SortOrder: 1},
			{ID: "m-2", EventID: "ev-1", Name: "Product Launch", OffsetDays: 0, AbsoluteDate: e.Date, Status: event.MilestoneOpen, SortOrder: 2},
		},
	}

	out := ExportCalendar([]event.Event{e}, ms, exportNow)

	if !strings.HasPrefix(out, "BEGIN:VCALENDAR") {
		t.Fatalf("output should start with BEGIN:VCALENDAR, got %q", out[:30])
	}
	if got := strings.Count(out, "BEGIN:VEVENT"); got != 3 {
		t.Errorf("VEVENT count = %d, want 3 (event + 2 milestones)", got)
	}
	if !strings.Contains(out, "SUMMARY:Summer Apparel Launch") {
		t.Error("missing event summary")
	}
	if !strings.Contains(out, "Summer Apparel Launch: Design and Mockups") {
		t.Error("milestone summary should be prefixed with event name")
	}
	if !strings.Contains(out, "UID:event-ev-1@fitplan") {
		t.Error("missing event UID")
	}
	if !strings.Contains(out, "LOCATION:Kansas City") {
		t.Error("missing location")
	}
	if !strings.Contains(out, "X-WR-CALNAME:"+CalendarName) {
		t.Error("missing calendar name")
	}
}

// TestExportCalendar_AllDayDates tests events serialize as all-day entries.
func TestExportCalendar_AllDayDates(t *testing.T) {
	out := ExportCalendar([]event.Event{launchEvent()}, nil, exportNow)

	if !strings.Contains(out, "DTSTART;VALUE=DATE:20270315") {
		t.Errorf("event should be all-day on 2027-03-15, got:\n%s", out)
	}
	if !strings.Contains(out, "DTEND;VALUE=DATE:20270316") {
		t.Error("all-day event should end the following day")
	}
}

// TestExportCalendar_SkipsDoneMilestones tests completed milestones are omitted.
func TestExportCalendar_SkipsDoneMilestones(t *testing.T) {
	e := launchEvent()
	ms := map[string][]event.Milestone{
		"ev-1": {
			{ID: "m-1", EventID: "ev-1", Name: "Design and Mockups", AbsoluteDate: e.Date.AddDate(0, 0, -45), Status: event.MilestoneDone, SortOrder: 1},
			{ID: "m-2", EventID: "ev-1", Name: "Product Launch", AbsoluteDate: e.Date, Status: event.MilestoneOpen, SortOrder: 2},
		},
	}

	out := ExportCalendar([]event.Event{e}, ms, exportNow)

	if got := strings.Count(out, "BEGIN:VEVENT"); got != 2 {
		t.Errorf("VEVENT count = %d, want 2 (event + open milestone only)", got)
	}
	if strings.Contains(out, "Design and Mockups") {
		t.Error("done milestone should not appear in export")
	}
}

// TestExportCalendar_SortsByDate tests events appear in date order.
func TestExportCalendar_SortsByDate(t *testing.T) {
	later := launchEvent()
	earlier := launchEvent()
	earlier.ID = "ev-0"
	earlier.Name = "New Year Kickoff"
	earlier.Date = time.Date(2027, 1, 5, 0, 0, 0, 0, time.UTC)

	out := ExportCalendar([]event.Event{later, earlier}, nil, exportNow)

	first := strings.Index(out, "New Year Kickoff")
	second := strings.Index(out, "Summer Apparel Launch")
	if first == -1 || second == -1 {
		t.Fatal("both events should appear in output")
	}
	if first > second {
		t.Error("events should be serialized in date order")
	}
}

// TestExportCalendar_Empty tests an empty plan still yields a valid calendar.
func TestExportCalendar_Empty(t *testing.T) {
	out := ExportCalendar(nil, nil, exportNow)

	if !strings.Contains(out, "BEGIN:VCALENDAR") || !strings.Contains(out, "END:VCALENDAR") {
		t.Error("empty export should still be a valid VCALENDAR")
	}
	if strings.Contains(out, "BEGIN:VEVENT") {
		t.Error("empty export should contain no VEVENTs")
	}
}
