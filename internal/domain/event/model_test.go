package event_test

import (
	"testing"
	"time"

	"fitplan/internal/domain/event"
)

// TestEvent_Validate tests validation of Event.
func TestEvent_Validate(t *testing.T) {
	anchor := time.Date(2026, 5, 15, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		ev      event.Event
		wantErr bool
	}{
		{
			name:    "valid apparel event",
			ev:      event.Event{ID: "1", Name: "Q2 Spring Training Apparel Launch", Type: event.TypeApparel, Date: anchor, Status: event.StatusPlanned},
			wantErr: false,
		},
		{
			name:    "valid custom event",
			ev:      event.Event{ID: "2", Name: "Anniversary Party", Type: event.TypeCustom, Date: anchor, Status: event.StatusInProgress},
			wantErr: false,
		},
		{
			name:    "empty name",
			ev:      event.Event{ID: "3", Name: "", Type: event.TypeApparel, Date: anchor, Status: event.StatusPlanned},
			wantErr: true,
		},
		{
			name:    "unknown type",
			ev:      event.Event{ID: "4", Name: "Test", Type: "webinar", Date: anchor, Status: event.StatusPlanned},
			wantErr: true,
		},
		{
			name:    "zero anchor date",
			ev:      event.Event{ID: "5", Name: "Test", Type: event.TypeHoliday, Status: event.StatusPlanned},
			wantErr: true,
		},
		{
			name:    "unknown status",
			ev:      event.Event{ID: "6", Name: "Test", Type: event.TypeHoliday, Date: anchor, Status: "archived"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.ev.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Event.Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

// TestEvent_Quarter tests quarter bucketing by event date.
func TestEvent_Quarter(t *testing.T) {
	tests := []struct {
		month time.Month
		want  int
	}{
		{time.January, 1}, {time.March, 1},
		{time.April, 2}, {time.June, 2},
		{time.July, 3}, {time.September, 3},
		{time.October, 4}, {time.December, 4},
	}
	for _, tt := range tests {
		ev := event.Event{Date: time.Date(2026, tt.month, 10, 0, 0, 0, 0, time.UTC)}
		if got := ev.Quarter(); got != tt.want {
			t.Errorf("Quarter() for %s = %d, want %d", tt.month, got, tt.want)
		}
	}
}

// TestMilestone_Recompute tests anchor-date cascade on milestones.
func TestMilestone_Recompute(t *testing.T) {
	m := event.Milestone{
		ID:           "m1",
		EventID:      "e1",
		Name:         "Pre-order Campaign",
		OffsetDays:   -30,
		AbsoluteDate: time.Date(2026, 4, 15, 0, 0, 0, 0, time.UTC),
		Status:       event.MilestoneOpen,
	}

	newAnchor := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	m.Recompute(newAnchor)

	want := time.Date(2026, 5, 2, 0, 0, 0, 0, time.UTC)
	if !m.AbsoluteDate.Equal(want) {
		t.Errorf("Recompute() AbsoluteDate = %v, want %v", m.AbsoluteDate, want)
	}
}

// TestDefaultMilestones tests type-keyed milestone expansion.
func TestDefaultMilestones(t *testing.T) {
	anchor := time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		eventType   string
		wantCount   int
		wantOffsets []int
	}{
		{event.TypeApparel, 3, []int{-45, -30, 0}},
		{event.TypeCommunity, 3, []int{-21, -14, 0}},
		{event.TypeHoliday, 3, []int{-14, -7, 0}},
		{event.TypeBusiness, 3, []int{-30, -14, 0}},
		{event.TypeCustom, 2, []int{-14, 0}},
		{"something-else", 2, []int{-14, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.eventType, func(t *testing.T) {
			ev := event.Event{ID: "e1", Name: "Test", Type: tt.eventType, Date: anchor, Status: event.StatusPlanned}
			milestones, err := event.DefaultMilestones(ev)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(milestones) != tt.wantCount {
				t.Fatalf("expected %d milestones, got %d", tt.wantCount, len(milestones))
			}
			for i, m := range milestones {
				if m.OffsetDays != tt.wantOffsets[i] {
					t.Errorf("milestone %d offset = %d, want %d", i, m.OffsetDays, tt.wantOffsets[i])
				}
				want := anchor.AddDate(0, 0, m.OffsetDays)
				if !m.AbsoluteDate.Equal(want) {
					t.Errorf("milestone %d absolute date = %v, want %v", i, m.AbsoluteDate, want)
				}
				if m.SortOrder != i+1 {
					t.Errorf("milestone %d sort order = %d, want %d", i, m.SortOrder, i+1)
				}
				if m.Status != event.MilestoneOpen {
					t.Errorf("milestone %d status = %s, want open", i, m.Status)
				}
				if m.EventID != "e1" {
					t.Errorf("milestone %d event ID = %s, want e1", i, m.EventID)
				}
			}
		})
	}
}

// TestDefaultMilestones_NoAnchorDate tests that expansion refuses a zero date.
func TestDefaultMilestones_NoAnchorDate(t *testing.T) {
	ev := event.Event{ID: "e1", Name: "Test", Type: event.TypeApparel, Status: event.StatusPlanned}
	milestones, err := event.DefaultMilestones(ev)
	if err != event.ErrNoAnchorDate {
		t.Errorf("expected ErrNoAnchorDate, got %v", err)
	}
	if milestones != nil {
		t.Errorf("expected no partial result, got %d milestones", len(milestones))
	}
}
